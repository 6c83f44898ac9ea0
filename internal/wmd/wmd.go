// Package wmd parses the WMD container: the MIDI-like song/track/instrument
// definitions that drive playback. Only the fields required to build the
// playback graph are retained. The "unknown" byte ranges of the header,
// songs and tracks are kept verbatim; the patch records are skipped, and
// the package has no writer.
package wmd

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/benmichell/psxdmh/internal/errs"
)

const signature = 0x58535053 // "SPSX" little-endian.
const version = 1

// SubInstrument binds a note range to a patch, tuning, pan, and ADSR
// configuration.
type SubInstrument struct {
	Priority            uint8
	Flags               uint8
	Volume              uint8
	Pan                 uint8
	Tuning              uint8
	FineTuning          uint8
	FirstNote           uint8
	LastNote            uint8
	BendSensitivityDown uint8
	BendSensitivityUp   uint8
	Patch               uint16
	SpuADS              uint16
	SpuSR               uint16
}

// Instrument is a polyphonic voice built from sub-instruments partitioning
// the note range.
type Instrument struct {
	SubInstruments []SubInstrument
}

// SubInstrumentForNote returns the sub-instrument covering note, or an error
// if none does.
func (i Instrument) SubInstrumentForNote(note uint8) (*SubInstrument, error) {
	for idx := range i.SubInstruments {
		s := &i.SubInstruments[idx]
		if note >= s.FirstNote && note <= s.LastNote {
			return s, nil
		}
	}
	return nil, errs.Missing("missing a sub-instrument for note $%02x", note)
}

// Track carries one instrument's worth of MIDI-like event data plus tempo
// and repeat configuration.
type Track struct {
	Instrument     uint16
	BeatsPerMinute uint16
	TicksPerBeat   uint16
	Repeat         bool
	RepeatStart    uint32
	Data           []byte

	Unknown0 [6]byte
	Unknown1 [6]byte
}

// Song is a collection of 1-3 tracks mixed together.
type Song struct {
	Tracks  []Track
	Unknown [2]byte
}

// File is a parsed WMD container.
type File struct {
	Instruments []Instrument
	Songs       []Song

	Unknown0 [14]byte
	Unknown1 [8]byte
}

// Load reads and parses a WMD file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.IO(err, "unable to read WMD file %q", path)
	}
	return Parse(data)
}

// Parse decodes a WMD container from an in-memory buffer.
func Parse(data []byte) (*File, error) {
	r := &reader{b: bytes.NewReader(data)}

	if sig := r.u32(); sig != signature {
		return nil, errs.Malformed("not a WMD file (bad signature)")
	}
	if v := r.u32(); v != version {
		return nil, errs.Malformed("WMD file uses an unsupported SPSX version")
	}
	if r.err != nil {
		return nil, r.err
	}

	f := &File{}
	songCount := int(r.u16())
	r.read(f.Unknown0[:])

	instrumentCount := int(r.u16())
	if sz := r.u16(); sz != 4 {
		return nil, errs.Malformed("corrupt WMD file (bad instrument record size)")
	}
	subInstrumentCount := int(r.u16())
	if sz := r.u16(); sz != 16 {
		return nil, errs.Malformed("corrupt WMD file (bad sub-instrument record size)")
	}
	patchCount := int(r.u16())
	if sz := r.u16(); sz != 12 {
		return nil, errs.Malformed("corrupt WMD file (bad patch record size)")
	}
	r.read(f.Unknown1[:])
	if r.err != nil {
		return nil, r.err
	}

	type rawInstrument struct {
		subInstruments     int
		firstSubInstrument int
	}
	raws := make([]rawInstrument, instrumentCount)
	expectedFirst := 0
	for i := range raws {
		raws[i].subInstruments = int(r.u16())
		raws[i].firstSubInstrument = int(r.u16())
		if raws[i].firstSubInstrument != expectedFirst {
			return nil, errs.Malformed("corrupt WMD file (non-contiguous sub-instruments)")
		}
		expectedFirst += raws[i].subInstruments
	}
	if expectedFirst != subInstrumentCount {
		return nil, errs.Malformed("corrupt WMD file (wrong number of sub-instruments)")
	}

	f.Instruments = make([]Instrument, instrumentCount)
	for i := range f.Instruments {
		subs := make([]SubInstrument, raws[i].subInstruments)
		for s := range subs {
			subs[s] = SubInstrument{
				Priority:            r.u8(),
				Flags:               r.u8(),
				Volume:              r.u8(),
				Pan:                 r.u8(),
				Tuning:              r.u8(),
				FineTuning:          r.u8(),
				FirstNote:           r.u8(),
				LastNote:            r.u8(),
				BendSensitivityDown: r.u8(),
				BendSensitivityUp:   r.u8(),
				Patch:               r.u16(),
				SpuADS:              r.u16(),
				SpuSR:               r.u16(),
			}
		}
		f.Instruments[i].SubInstruments = subs
	}
	if r.err != nil {
		return nil, r.err
	}

	r.skip(patchCount * (4 + 4 + 4))

	f.Songs = make([]Song, songCount)
	for i := range f.Songs {
		song := &f.Songs[i]
		trackCount := int(r.u16())
		r.read(song.Unknown[:])
		song.Tracks = make([]Track, trackCount)
		for t := range song.Tracks {
			track := &song.Tracks[t]
			r.read(track.Unknown0[:])
			track.Instrument = r.u16()
			r.read(track.Unknown1[:])
			track.BeatsPerMinute = r.u16()
			track.TicksPerBeat = r.u16()
			track.Repeat = r.u16() != 0
			dataLen := r.u32()
			if track.Repeat {
				track.RepeatStart = r.u32()
			}
			track.Data = make([]byte, dataLen)
			r.read(track.Data)
		}
	}
	if r.err != nil {
		return nil, r.err
	}

	return f, nil
}

// Track returns the track at (songIndex, trackIndex).
func (f *File) Track(songIndex, trackIndex int) (*Track, error) {
	if songIndex < 0 || songIndex >= len(f.Songs) {
		return nil, errs.Missing("song index %d out of range", songIndex)
	}
	song := &f.Songs[songIndex]
	if trackIndex < 0 || trackIndex >= len(song.Tracks) {
		return nil, errs.Missing("track index %d out of range for song %d", trackIndex, songIndex)
	}
	return &song.Tracks[trackIndex], nil
}

// NoteToFrequency maps a raw note number to a playback frequency, taking
// into account tuning, fine tuning, and pitch bend (unitPitchBend is the
// bend in octaves per semitone of bend sensitivity, ±1/12 at full bend;
// it is scaled by the bend-down sensitivity in both directions).
func (f *File) NoteToFrequency(instrumentIndex int, note uint8, unitPitchBend float64) (uint32, error) {
	if instrumentIndex < 0 || instrumentIndex >= len(f.Instruments) {
		return 0, errs.Missing("instrument index %d out of range", instrumentIndex)
	}
	sub, err := f.Instruments[instrumentIndex].SubInstrumentForNote(note)
	if err != nil {
		return 0, err
	}

	tuning := float64(sub.Tuning) + float64(sub.FineTuning)/256
	adjustedNote := (float64(note)-tuning)/12.0 + float64(sub.BendSensitivityDown)*unitPitchBend

	freq := int32(44100.0*math.Pow(2.0, adjustedNote) + 0.5)
	if freq < 1 {
		freq = 1
	}
	return uint32(freq), nil
}

// reader is a small little-endian binary cursor that accumulates the first
// error it hits so callers can check it once at the end of a parse.
type reader struct {
	b   *bytes.Reader
	err error
}

func (r *reader) read(p []byte) {
	if r.err != nil {
		return
	}
	if _, err := io.ReadFull(r.b, p); err != nil {
		r.err = errs.Malformed("unexpected end of WMD data: %v", err)
	}
}

func (r *reader) skip(n int) {
	if r.err != nil || n == 0 {
		return
	}
	if _, err := r.b.Seek(int64(n), io.SeekCurrent); err != nil {
		r.err = errs.Malformed("unexpected end of WMD data: %v", err)
	}
}

func (r *reader) u8() uint8 {
	var p [1]byte
	r.read(p[:])
	return p[0]
}

func (r *reader) u16() uint16 {
	var p [2]byte
	r.read(p[:])
	return binary.LittleEndian.Uint16(p[:])
}

func (r *reader) u32() uint32 {
	var p [4]byte
	r.read(p[:])
	return binary.LittleEndian.Uint32(p[:])
}
