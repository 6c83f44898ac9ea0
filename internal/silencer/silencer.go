// Package silencer enforces a configured lead-in, lead-out, and maximum gap
// length around and within an otherwise unmodified audio stream.
package silencer

import (
	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/sample"
)

type state int

const (
	stateLeadIn state = iota
	stateGaps
	stateLeadOut
	stateFinished
)

// Silencer buffers at most one non-silent sample plus a run of silence
// ahead of it, rewriting the run's length according to lead_in, lead_out,
// and gap. Negative values for lead_in/lead_out/gap deactivate that rule.
type Silencer[S sample.Sample[S]] struct {
	source module.Module[S]

	leadIn, leadOut, gap int32

	state            state
	bufferedSilence  uint32
	haveUnsilent     bool
	unsilentSample   S
}

// New constructs a silencer over source. gap, if set (>= 0), must be at
// least 1 to avoid collapsing zero-crossings.
func New[S sample.Sample[S]](source module.Module[S], leadIn, leadOut, gap int32) *Silencer[S] {
	return &Silencer[S]{source: source, leadIn: leadIn, leadOut: leadOut, gap: gap, state: stateLeadIn}
}

// IsRunning implements module.Module.
func (s *Silencer[S]) IsRunning() bool {
	for s.bufferedSilence == 0 && !s.haveUnsilent && s.state != stateFinished {
		s.processAudio()
	}
	return s.bufferedSilence > 0 || s.haveUnsilent
}

// Next implements module.Module.
func (s *Silencer[S]) Next(out *S) bool {
	for s.bufferedSilence == 0 && !s.haveUnsilent && s.state != stateFinished {
		s.processAudio()
	}

	if s.bufferedSilence > 0 {
		s.bufferedSilence--
		var zero S
		*out = zero
		return true
	}
	if s.haveUnsilent {
		s.haveUnsilent = false
		*out = s.unsilentSample
		return true
	}

	var zero S
	*out = zero
	return false
}

func (s *Silencer[S]) processAudio() {
	for !s.haveUnsilent {
		if !s.source.Next(&s.unsilentSample) {
			break
		}
		if s.unsilentSample.Magnitude() < sample.Silence {
			s.bufferedSilence++
		} else {
			s.haveUnsilent = true
		}
	}

	if s.state == stateGaps {
		if s.haveUnsilent {
			if s.gap >= 0 && int32(s.bufferedSilence) > s.gap {
				s.bufferedSilence = uint32(s.gap)
			}
		} else {
			s.state = stateLeadOut
		}
	}

	if s.state == stateLeadOut {
		if s.leadOut >= 0 {
			s.bufferedSilence = uint32(s.leadOut)
		}
		s.state = stateFinished
	}

	if s.state == stateLeadIn {
		if s.leadIn >= 0 {
			s.bufferedSilence = uint32(s.leadIn)
		}
		if s.haveUnsilent {
			s.state = stateGaps
		} else {
			s.state = stateLeadOut
		}
	}
}
