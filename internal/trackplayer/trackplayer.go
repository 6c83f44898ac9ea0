// Package trackplayer drives one WMD track: it decodes the track's music
// event stream, manages the lifecycle of the channels it starts, and sums
// their output into a single stereo stream.
package trackplayer

import (
	"math"

	"github.com/benmichell/psxdmh/internal/channel"
	"github.com/benmichell/psxdmh/internal/errs"
	"github.com/benmichell/psxdmh/internal/lcd"
	"github.com/benmichell/psxdmh/internal/musicstream"
	"github.com/benmichell/psxdmh/internal/sample"
	"github.com/benmichell/psxdmh/internal/wmd"
)

// Config carries the per-track construction parameters that come from
// options rather than from the WMD/LCD data itself.
type Config struct {
	SampleRate     uint32
	SincWindow     uint32
	LimitFrequency bool
	RepairPatches  bool
	PlayCount      uint32
	StereoWidth    float64
}

// Player owns one track's music stream and its currently active channels.
type Player struct {
	wmd *wmd.File
	lcd *lcd.File
	cfg Config

	instrumentIndex int
	repeat          bool
	repeatStart     uint32
	playCount       uint32

	stream *musicstream.Stream

	trackVolume float64
	panOffset   int
	stereoWidth float64
	unitBend    float64

	channels []*channel.Channel
}

// New constructs a player for one track of a song.
func New(track *wmd.Track, w *wmd.File, l *lcd.File, cfg Config) (*Player, error) {
	stream, err := musicstream.New(track.Data, track.BeatsPerMinute, track.TicksPerBeat, cfg.SampleRate*60)
	if err != nil {
		return nil, err
	}

	p := &Player{
		wmd:             w,
		lcd:             l,
		cfg:             cfg,
		instrumentIndex: int(track.Instrument),
		repeat:          track.Repeat,
		repeatStart:     track.RepeatStart,
		playCount:       cfg.PlayCount,
		stream:          stream,
		trackVolume:     1.0,
		stereoWidth:     cfg.StereoWidth,
	}
	return p, nil
}

// FailedToRepeat reports whether the track still has repeats outstanding
// that it was never given the chance to perform.
func (p *Player) FailedToRepeat() bool { return p.playCount > 1 }

// IsRunning implements module.Module.
func (p *Player) IsRunning() bool {
	if len(p.channels) > 0 {
		return true
	}
	if p.repeat && (p.playCount == 0 || p.playCount > 1) {
		return true
	}
	return p.stream.IsRunning()
}

// Next implements module.Module.
func (p *Player) Next(out *sample.Stereo) bool {
	live := len(p.channels) > 0 || p.stream.IsRunning()

	for {
		ev, ok, err := p.stream.GetEvent()
		if err != nil {
			return false
		}
		if !ok {
			break
		}
		live = true
		if err := p.handleEvent(ev); err != nil {
			return false
		}
	}

	if p.stream.IsRunning() {
		p.stream.Tick()
	}

	var sum sample.Stereo
	kept := p.channels[:0]
	for _, c := range p.channels {
		var s sample.Stereo
		if c.Next(&s) {
			sum = sum.Add(s)
			kept = append(kept, c)
		}
	}
	p.channels = kept

	*out = sum
	return live
}

func (p *Player) handleEvent(ev musicstream.Event) error {
	switch ev.Code {
	case musicstream.NoteOn:
		if ev.Data0 < 0 || ev.Data0 > 0x7f {
			return errs.Malformed("invalid note number in note on event")
		}
		if ev.Data1 < 0 || ev.Data1 > 0x7f {
			return errs.Malformed("invalid volume in note on event")
		}
		return p.startNote(uint8(ev.Data0), uint8(ev.Data1))

	case musicstream.NoteOff:
		if ev.Data0 < 0 || ev.Data0 > 0x7f {
			return errs.Malformed("invalid note number in note off event")
		}
		for _, c := range p.channels {
			if c.Note() == uint8(ev.Data0) {
				c.Release()
			}
		}

	case musicstream.SetInstrument:
		// The instrument never changes mid-track; already set from the
		// track header.

	case musicstream.PitchBend:
		if ev.Data0 < -0x2000 || ev.Data0 > 0x2000 {
			return errs.Malformed("invalid bend in pitch bend event")
		}
		p.unitBend = float64(ev.Data0) / 0x2000 / 12
		for _, c := range p.channels {
			freq, err := p.wmd.NoteToFrequency(p.instrumentIndex, c.Note(), p.unitBend)
			if err != nil {
				return err
			}
			c.SetFrequency(freq, p.cfg.LimitFrequency)
		}

	case musicstream.TrackVolume:
		if ev.Data0 < 0 || ev.Data0 > 0x7f {
			return errs.Malformed("invalid volume in track volume event")
		}
		p.trackVolume = float64(ev.Data0) / 0x7f

	case musicstream.PanOffset:
		if ev.Data0 < 0 || ev.Data0 > 0x7f {
			return errs.Malformed("invalid pan in track pan event")
		}
		p.panOffset = int(ev.Data0) - 0x40

	case musicstream.SetMarker:
		// The repeat point comes from the track header, not this marker.

	case musicstream.JumpToMarker:
		if p.playCount != 1 {
			if p.playCount > 0 {
				p.playCount--
			}
			if p.repeat {
				if err := p.stream.Seek(int(p.repeatStart)); err != nil {
					return err
				}
			}
		}

	case musicstream.Unknown0B, musicstream.Unknown0E, musicstream.EndOfStream:
		// No observable effect; handled implicitly elsewhere.
	}
	return nil
}

func (p *Player) startNote(note, velocity uint8) error {
	if p.instrumentIndex < 0 || p.instrumentIndex >= len(p.wmd.Instruments) {
		return errs.Missing("instrument index %d out of range", p.instrumentIndex)
	}
	sub, err := p.wmd.Instruments[p.instrumentIndex].SubInstrumentForNote(note)
	if err != nil {
		return err
	}

	combinedVolume := p.trackVolume * float64(sub.Volume) / 0x7f * float64(velocity) / 0x7f

	patch := p.lcd.PatchByID(sub.Patch)
	if patch == nil {
		return errs.Missing("unable to locate patch with id %d in any LCD file", sub.Patch)
	}

	freq, err := p.wmd.NoteToFrequency(p.instrumentIndex, note, p.unitBend)
	if err != nil {
		return err
	}

	pan := sample.Clamp(int(sub.Pan)+p.panOffset, 0, 0x7f)
	pan = int(p.adjustStereoEffect(uint8(pan)))

	c, err := channel.New(sub.Patch, patch.ADPCM, freq, combinedVolume, uint8(pan), sub.SpuADS, sub.SpuSR, p.cfg.SampleRate, p.cfg.SincWindow, p.cfg.LimitFrequency, p.cfg.RepairPatches)
	if err != nil {
		return err
	}
	c.SetNote(note)
	p.channels = append(p.channels, c)
	return nil
}

func (p *Player) adjustStereoEffect(pan uint8) uint8 {
	if p.stereoWidth == 0 {
		return pan
	}
	const centre = 64.0
	const leftRange = centre
	const rightRange = 127 - centre

	var span float64
	if float64(pan) < centre {
		span = leftRange
	} else {
		span = rightRange
	}
	remap := (float64(pan) - centre) / span

	strength := math.Pow(4, -p.stereoWidth)
	sign := 1.0
	if remap < 0 {
		sign = -1.0
	}
	remap = sign * math.Pow(math.Abs(remap), strength)
	if math.IsNaN(remap) {
		remap = 0
	}

	var outSpan float64
	if remap < 0 {
		outSpan = leftRange
	} else {
		outSpan = rightRange
	}
	newPan := int(math.Floor(remap*outSpan + centre + 0.5))
	return uint8(sample.Clamp(newPan, 0, 0x7f))
}
