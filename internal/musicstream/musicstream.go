// Package musicstream decodes the MIDI-like event stream carried by a WMD
// song track: a sequence of (delta_ticks, event) pairs pulled against a
// caller-driven tick clock.
package musicstream

import (
	"fmt"

	"github.com/benmichell/psxdmh/internal/errs"
)

// Code identifies the kind of a decoded event.
type Code int

const (
	NoteOn Code = iota
	NoteOff
	SetInstrument
	PitchBend
	TrackVolume
	PanOffset
	SetMarker
	JumpToMarker
	Unknown0B
	Unknown0E
	EndOfStream
)

// Event is one decoded music event. Data0 holds the event's operand: the
// note for NoteOn/NoteOff, the sign-extended bend for PitchBend, the
// stream offset of the event's own code byte for SetMarker, and the raw
// byte or word operand for the others (EndOfStream has none). Data1 is
// used only by NoteOn, for the velocity.
type Event struct {
	Code  Code
	Data0 int32
	Data1 int32
}

// Stream is a pull-parser over one track's opaque event bytes, clocked by
// caller ticks rather than wall time.
type Stream struct {
	data     []byte
	position int

	callerTicksPerMinute uint32
	trackTicksPerMinute  uint32

	tickPosition uint32
	tickFraction uint32

	nextEventTime uint32
}

// New constructs a stream over data, with track tempo given by
// beatsPerMinute/ticksPerBeat and the caller's own tick rate (per minute).
func New(data []byte, beatsPerMinute, ticksPerBeat uint16, callerTicksPerMinute uint32) (*Stream, error) {
	s := &Stream{
		data:                 data,
		callerTicksPerMinute: callerTicksPerMinute,
		trackTicksPerMinute:  uint32(ticksPerBeat) * uint32(beatsPerMinute),
	}
	delta, err := s.getDelta()
	if err != nil {
		return nil, err
	}
	s.nextEventTime = delta
	return s, nil
}

// IsRunning reports whether the stream has not yet consumed an
// end-of-stream event.
func (s *Stream) IsRunning() bool { return s.position < len(s.data) }

// Tick advances the stream's notion of time by one caller tick.
func (s *Stream) Tick() {
	s.tickFraction += s.trackTicksPerMinute
	for s.tickFraction >= s.callerTicksPerMinute {
		s.tickFraction -= s.callerTicksPerMinute
		s.tickPosition++
	}
}

// HaveEvent reports whether an event is due for extraction at the current
// time. More than one event may be due at the same time; call GetEvent
// repeatedly until it returns false.
func (s *Stream) HaveEvent() bool {
	return s.position < len(s.data) && s.nextEventTime <= s.tickPosition
}

// Seek repositions the stream, used to implement jump_to_marker.
func (s *Stream) Seek(pos int) error {
	if pos < 0 || pos > len(s.data) {
		return errs.Malformed("invalid seek position in music stream")
	}
	s.position = pos
	return nil
}

// GetEvent extracts one event if one is due. It returns (event, true, nil)
// when an event was extracted, (zero, false, nil) when none is due yet, and
// a non-nil error on malformed data.
func (s *Stream) GetEvent() (Event, bool, error) {
	if !s.HaveEvent() {
		return Event{}, false, nil
	}

	code, err := s.getByte()
	if err != nil {
		return Event{}, false, err
	}

	var ev Event
	switch code {
	case 0x11:
		ev.Code = NoteOn
		if ev.Data0, err = s.getByteAsInt(); err != nil {
			return Event{}, false, err
		}
		if ev.Data1, err = s.getByteAsInt(); err != nil {
			return Event{}, false, err
		}
	case 0x12:
		ev.Code = NoteOff
		if ev.Data0, err = s.getByteAsInt(); err != nil {
			return Event{}, false, err
		}
	case 0x07:
		ev.Code = SetInstrument
		if ev.Data0, err = s.getWordAsInt(); err != nil {
			return Event{}, false, err
		}
	case 0x09:
		ev.Code = PitchBend
		w, err := s.getWord()
		if err != nil {
			return Event{}, false, err
		}
		ev.Data0 = int32(int16(w))
	case 0x0c:
		ev.Code = TrackVolume
		if ev.Data0, err = s.getByteAsInt(); err != nil {
			return Event{}, false, err
		}
	case 0x0d:
		ev.Code = PanOffset
		if ev.Data0, err = s.getByteAsInt(); err != nil {
			return Event{}, false, err
		}
	case 0x23:
		ev.Code = SetMarker
		ev.Data0 = int32(s.position - 1)
	case 0x20:
		ev.Code = JumpToMarker
		if ev.Data0, err = s.getWordAsInt(); err != nil {
			return Event{}, false, err
		}
	case 0x0b:
		ev.Code = Unknown0B
		if ev.Data0, err = s.getByteAsInt(); err != nil {
			return Event{}, false, err
		}
	case 0x0e:
		ev.Code = Unknown0E
		if ev.Data0, err = s.getByteAsInt(); err != nil {
			return Event{}, false, err
		}
	case 0x22:
		ev.Code = EndOfStream
		s.position = len(s.data)
	default:
		return Event{}, false, errs.Malformed(fmt.Sprintf("unsupported music stream event code $%02x", code))
	}

	if s.position < len(s.data) {
		delta, err := s.getDelta()
		if err != nil {
			return Event{}, false, err
		}
		s.nextEventTime += delta
	}

	return ev, true, nil
}

func (s *Stream) getByte() (byte, error) {
	if s.position+1 > len(s.data) {
		return 0, errs.Malformed("corrupt music data: attempt to read beyond the end of the stream")
	}
	b := s.data[s.position]
	s.position++
	return b, nil
}

func (s *Stream) getByteAsInt() (int32, error) {
	b, err := s.getByte()
	return int32(b), err
}

func (s *Stream) getWord() (uint16, error) {
	if s.position+2 > len(s.data) {
		return 0, errs.Malformed("corrupt music data: attempt to read beyond the end of the stream")
	}
	w := uint16(s.data[s.position]) | uint16(s.data[s.position+1])<<8
	s.position += 2
	return w, nil
}

func (s *Stream) getWordAsInt() (int32, error) {
	w, err := s.getWord()
	return int32(w), err
}

func (s *Stream) getDelta() (uint32, error) {
	var delta uint32
	for {
		b, err := s.getByte()
		if err != nil {
			return 0, err
		}
		delta = (delta << 7) | uint32(b&0x7f)
		if b&0x80 == 0 {
			break
		}
	}
	return delta, nil
}
