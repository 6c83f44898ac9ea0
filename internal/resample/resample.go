// Package resample implements the two resamplers used by the graph: a
// linear resampler (envelopes only) and a Lanczos-windowed sinc resampler
// (audio), plus the process-wide sinc-table cache they share.
package resample

import (
	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/sample"
)

// Resampler is the common contract: rate_in may be changed at any time
// (pitch bend); rate_out is fixed for the life of the resampler.
type Resampler[S sample.Sample[S]] interface {
	module.Module[S]
	RateIn() uint32
	SetRateIn(uint32)
	RateOut() uint32
}

// Linear maintains a 2-sample sliding window and interpolates linearly
// between them. Adequate for envelopes; too crude for audio.
type Linear[S sample.Sample[S]] struct {
	source module.Module[S]
	rateIn, rateOut uint32

	buf [2]S
	fractionalPos uint32
	lastLiveSample int
}

// NewLinear constructs a linear resampler, priming its 2-sample window
// from source.
func NewLinear[S sample.Sample[S]](source module.Module[S], rateIn, rateOut uint32) *Linear[S] {
	l := &Linear[S]{source: source, rateIn: rateIn, rateOut: rateOut, lastLiveSample: 1}
	source.Next(&l.buf[0])
	source.Next(&l.buf[1])
	return l
}

// RateIn implements Resampler.
func (l *Linear[S]) RateIn() uint32 { return l.rateIn }

// SetRateIn implements Resampler.
func (l *Linear[S]) SetRateIn(rate uint32) { l.rateIn = rate }

// RateOut implements Resampler.
func (l *Linear[S]) RateOut() uint32 { return l.rateOut }

// IsRunning implements module.Module: runs until the last real source
// sample has moved out of the buffer.
func (l *Linear[S]) IsRunning() bool { return l.lastLiveSample >= 0 }

// Next implements module.Module.
func (l *Linear[S]) Next(out *S) bool {
	var zero S
	if l.lastLiveSample < 0 {
		*out = zero
		return false
	}

	step := l.rateOut
	var s S
	if l.fractionalPos == 0 {
		s = l.buf[0]
	} else {
		pos := float64(l.fractionalPos) / float64(step)
		s = l.buf[0].Scale(1 - pos).Add(l.buf[1].Scale(pos))
	}

	l.fractionalPos += l.rateIn
	for l.fractionalPos >= step && l.lastLiveSample >= 0 {
		l.fractionalPos -= step
		l.buf[0] = l.buf[1]
		if !l.source.Next(&l.buf[1]) {
			l.lastLiveSample--
		}
	}

	*out = s
	return true
}

// Sinc is a Lanczos-windowed sinc resampler over a circular buffer of
// 2*window samples, convolved against a cached table row per fractional
// offset.
type Sinc[S sample.Sample[S]] struct {
	source module.Module[S]
	window int32
	rateIn, rateOut uint32

	buf        []S
	bufHead    int
	offset     int32
	liveSamples int
	table      *sincTable
}

// NewSinc constructs a sinc resampler. window must be >= 1.
func NewSinc[S sample.Sample[S]](source module.Module[S], window uint32, rateIn, rateOut uint32) *Sinc[S] {
	sr := &Sinc[S]{
		source:      source,
		window:      int32(window),
		rateIn:      rateIn,
		rateOut:     rateOut,
		buf:         make([]S, window*2),
		liveSamples: int(window * 2),
		table:       obtainSincTable(window, rateOut),
	}

	source.Next(&sr.buf[0])
	pos := -int32(rateOut) * (sr.window - 1)
	for i := 1; i < len(sr.buf); i++ {
		if pos <= 0 {
			sr.buf[i] = sr.buf[0]
		} else {
			source.Next(&sr.buf[i])
		}
		pos += int32(rateOut)
	}
	return sr
}

// RateIn implements Resampler.
func (s *Sinc[S]) RateIn() uint32 { return s.rateIn }

// SetRateIn implements Resampler. Used to implement pitch bend.
func (s *Sinc[S]) SetRateIn(rate uint32) { s.rateIn = rate }

// RateOut implements Resampler.
func (s *Sinc[S]) RateOut() uint32 { return s.rateOut }

// IsRunning implements module.Module: runs until there are no more live
// samples left in the window.
func (s *Sinc[S]) IsRunning() bool { return s.liveSamples > 0 }

// Next implements module.Module.
func (s *Sinc[S]) Next(out *S) bool {
	var zero S
	if s.liveSamples <= 0 {
		*out = zero
		return false
	}

	var acc S
	bufIndex := s.bufHead
	tableIndex := s.table.indexForOffset(s.offset)
	tableEnd := tableIndex + int(s.window)*2
	for ; tableIndex < tableEnd; tableIndex++ {
		acc = acc.Add(s.buf[bufIndex].Scale(float64(s.table.table[tableIndex])))
		bufIndex++
		if bufIndex >= len(s.buf) {
			bufIndex = 0
		}
	}
	acc = acc.FlushDenorm()

	s.offset += int32(s.rateIn)
	limit := int32(s.rateOut)
	for s.offset >= limit {
		s.offset -= limit
		if !s.source.Next(&s.buf[s.bufHead]) {
			prev := s.bufHead - 1
			if prev < 0 {
				prev = len(s.buf) - 1
			}
			s.buf[s.bufHead] = s.buf[prev]
			s.liveSamples--
		}
		s.bufHead++
		if s.bufHead >= len(s.buf) {
			s.bufHead = 0
		}
	}

	*out = acc
	return true
}
