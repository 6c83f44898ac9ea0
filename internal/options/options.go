// Package options holds the semantic option surface the extraction core
// consumes to build its module graph, plus validation of the
// cross-field constraints the graph assembly relies on.
package options

import (
	"github.com/benmichell/psxdmh/internal/errs"
	"github.com/benmichell/psxdmh/internal/reverb"
	"github.com/benmichell/psxdmh/internal/sample"
)

// ReverbPreset extends reverb.Preset with an Auto value: resolve it via
// a song index against a default table before building the graph.
type ReverbPreset int

const (
	ReverbOff ReverbPreset = iota
	ReverbRoom
	ReverbStudioSmall
	ReverbStudioMedium
	ReverbStudioLarge
	ReverbHall
	ReverbHalfEcho
	ReverbSpaceEcho
	ReverbAuto
)

var reverbPresetNames = map[string]ReverbPreset{
	"off":           ReverbOff,
	"room":          ReverbRoom,
	"studio-small":  ReverbStudioSmall,
	"studio-medium": ReverbStudioMedium,
	"studio-large":  ReverbStudioLarge,
	"hall":          ReverbHall,
	"half-echo":     ReverbHalfEcho,
	"space-echo":    ReverbSpaceEcho,
	"auto":          ReverbAuto,
}

// ParseReverbPreset parses one of the names accepted by the
// -reverb-preset flag.
func ParseReverbPreset(s string) (ReverbPreset, error) {
	p, ok := reverbPresetNames[s]
	if !ok {
		return 0, errs.Malformed("unknown reverb preset %q", s)
	}
	return p, nil
}

// String returns the preset's canonical name.
func (p ReverbPreset) String() string {
	for name, v := range reverbPresetNames {
		if v == p {
			return name
		}
	}
	return "unknown"
}

// Resolve converts a non-Auto ReverbPreset to its reverb.Preset
// counterpart. Auto is resolved by the pipeline against the default
// table, not here.
func (p ReverbPreset) Resolve() (reverb.Preset, error) {
	switch p {
	case ReverbOff:
		return reverb.Off, nil
	case ReverbRoom:
		return reverb.Room, nil
	case ReverbStudioSmall:
		return reverb.StudioSmall, nil
	case ReverbStudioMedium:
		return reverb.StudioMedium, nil
	case ReverbStudioLarge:
		return reverb.StudioLarge, nil
	case ReverbHall:
		return reverb.Hall, nil
	case ReverbHalfEcho:
		return reverb.HalfEcho, nil
	case ReverbSpaceEcho:
		return reverb.SpaceEcho, nil
	default:
		return 0, errs.Invariant("reverb preset %v has no fixed resolution", p)
	}
}

// Options controls the behaviour of every extraction the core performs.
// Zero-valued fields are not valid options; use Default to get a usable
// starting point.
type Options struct {
	// Volume scaling (amplitude, applied after normalization).
	Volume float64
	// Normalize applies level normalization (§4.12) before Volume.
	Normalize bool

	// ReverbPreset and ReverbVolume configure the reverb wrapper (§4.7).
	// ReverbVolume is an amplitude, not decibels.
	ReverbPreset ReverbPreset
	ReverbVolume float64

	// PlayCount is the number of times a repeating song, track, or patch
	// is played. 0 means repeat indefinitely.
	PlayCount uint32

	// LeadIn and LeadOut enforce an exact amount of silence (seconds) at
	// the start and end of the output. Negative means not set.
	LeadIn  float64
	LeadOut float64
	// MaximumGap caps the length (seconds) of any silent run within the
	// output. Negative means not set.
	MaximumGap float64

	// StereoWidth adjusts the stereo spread, in [-1, 1].
	StereoWidth float64
	// RepairPatches enables automatic fixing of known-faulty patches.
	RepairPatches bool
	// UnlimitedFrequency disables the real-hardware pitch clamp.
	UnlimitedFrequency bool

	// SampleRate is the output sample rate in Hz. 0 means "use the
	// operation's own default" (44100 for songs/tracks, 11025 for
	// patches).
	SampleRate uint32
	// HighPass and LowPass are post-mix filter cutoffs in Hz. 0 disables
	// the corresponding filter.
	HighPass uint32
	LowPass  uint32
	// SincWindow is the half-width of the sinc resampling window.
	SincWindow uint32

	// SpillDir overrides the directory used for the normalizer's spill
	// file; empty means os.TempDir().
	SpillDir string
}

// Default returns the option set the original tool falls back to when a
// flag isn't given.
func Default() Options {
	return Options{
		Volume:       1.0,
		ReverbPreset: ReverbAuto,
		ReverbVolume: sample.DecibelsToAmplitude(-6.0),
		PlayCount:    1,
		LeadIn:       -1,
		LeadOut:      -1,
		MaximumGap:   -1,
		HighPass:     30,
		LowPass:      15000,
		SincWindow:   7,
	}
}

// Validate checks the cross-field constraints the graph assembly
// depends on. effectiveSampleRate is the rate that will actually be
// used once SampleRate's 0-means-default has been resolved.
func (o Options) Validate(effectiveSampleRate uint32) error {
	if effectiveSampleRate == 0 {
		return errs.Invariant("effective sample rate must be resolved before validation")
	}
	nyquist := effectiveSampleRate / 2

	if o.SampleRate != 0 && (o.SampleRate < 8000 || o.SampleRate > 192000) {
		return errs.Malformed("sample rate %d out of range [8000, 192000]", o.SampleRate)
	}
	if o.HighPass != 0 && o.HighPass >= nyquist {
		return errs.Malformed("high-pass frequency %d must be below the Nyquist frequency %d", o.HighPass, nyquist)
	}
	if o.LowPass != 0 && o.LowPass >= nyquist {
		return errs.Malformed("low-pass frequency %d must be below the Nyquist frequency %d", o.LowPass, nyquist)
	}
	if o.HighPass != 0 && o.LowPass != 0 && o.HighPass >= o.LowPass {
		return errs.Malformed("high-pass frequency %d must be below low-pass frequency %d", o.HighPass, o.LowPass)
	}
	if o.SincWindow < 1 {
		return errs.Malformed("sinc window must be at least 1, got %d", o.SincWindow)
	}
	if o.StereoWidth < -1 || o.StereoWidth > 1 {
		return errs.Malformed("stereo width %f out of range [-1, 1]", o.StereoWidth)
	}
	if o.LeadIn > 60 || (o.LeadIn < 0 && o.LeadIn != -1) {
		return errs.Malformed("lead-in %f out of range [0, 60] or -1 for unset", o.LeadIn)
	}
	if o.LeadOut > 60 || (o.LeadOut < 0 && o.LeadOut != -1) {
		return errs.Malformed("lead-out %f out of range [0, 60] or -1 for unset", o.LeadOut)
	}
	if o.MaximumGap != -1 && (o.MaximumGap < 1 || o.MaximumGap > 60) {
		return errs.Malformed("maximum gap %f out of range [1, 60] or -1 for unset", o.MaximumGap)
	}
	return nil
}
