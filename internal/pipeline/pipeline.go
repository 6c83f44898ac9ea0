// Package pipeline assembles the module graph the rest of the core
// implements, in the same stage order the original's graph-construction
// function uses, and carries the two tables (default song names, default
// per-song reverb) the original derives at runtime rather than storing
// in any data file.
package pipeline

import (
	"math"

	"github.com/benmichell/psxdmh/internal/filter"
	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/normalize"
	"github.com/benmichell/psxdmh/internal/options"
	"github.com/benmichell/psxdmh/internal/passive"
	"github.com/benmichell/psxdmh/internal/reverb"
	"github.com/benmichell/psxdmh/internal/sample"
	"github.com/benmichell/psxdmh/internal/silencer"
)

// DefaultSongSampleRate and DefaultPatchSampleRate are used when
// Options.SampleRate is 0.
const (
	DefaultSongSampleRate  = 44100
	DefaultPatchSampleRate = 11025
)

// ResolveSampleRate applies the 0-means-default rule for
// Options.SampleRate.
func ResolveSampleRate(opts options.Options, isPatch bool) uint32 {
	if opts.SampleRate != 0 {
		return opts.SampleRate
	}
	if isPatch {
		return DefaultPatchSampleRate
	}
	return DefaultSongSampleRate
}

// Graph is the assembled module chain plus the handles needed for
// post-extraction reporting (normalizer adjustment, final statistics).
type Graph struct {
	Module     module.Module[sample.Stereo]
	Normalizer *normalize.Normalizer[sample.Stereo]
	Statistics *passive.Statistics[sample.Stereo]
}

// Build assembles the stereo module chain used for song and track
// extraction: gap silencing (before reverb, so reverb can't prolong a
// gap), reverb, lead-in/lead-out silencing (after reverb, so lead-out
// doesn't truncate the tail), high-pass, low-pass, optional
// normalization, volume, and a final statistics wrap.
func Build(source module.Module[sample.Stereo], songIndex int, opts options.Options, sampleRate uint32, progress passive.Callback, spillDir string) (*Graph, error) {
	var m module.Module[sample.Stereo] = source

	if opts.MaximumGap >= 0 {
		gap := int32(math.Max(opts.MaximumGap*float64(sampleRate), 1))
		m = silencer.New[sample.Stereo](m, -1, -1, gap)
	}

	resolvedPreset, reverbVolume, err := resolveReverb(songIndex, opts)
	if err != nil {
		return nil, err
	}
	if resolvedPreset != reverb.Off {
		m = reverb.Wrap(m, sampleRate, resolvedPreset, sample.Stereo{L: reverbVolume, R: reverbVolume}, opts.SincWindow)
	}

	if opts.LeadIn >= 0 || opts.LeadOut >= 0 {
		leadIn := leadSamples(opts.LeadIn, sampleRate)
		leadOut := leadSamples(opts.LeadOut, sampleRate)
		m = silencer.New[sample.Stereo](m, leadIn, leadOut, -1)
	}

	if opts.HighPass != 0 {
		m = filter.NewStereo(m, float64(opts.HighPass)/float64(sampleRate), filter.HighPass)
	}
	if opts.LowPass != 0 {
		m = filter.NewStereo(m, float64(opts.LowPass)/float64(sampleRate), filter.LowPass)
	}

	var norm *normalize.Normalizer[sample.Stereo]
	if opts.Normalize {
		if progress != nil {
			m = passive.NewStatistics[sample.Stereo](m, passive.Progress, sampleRate, progress, "Extracted")
		}
		norm = normalize.New[sample.Stereo](m, spillDir, 0)
		m = norm
	}

	if opts.Volume != 1.0 {
		m = passive.NewVolume[sample.Stereo](m, opts.Volume)
	}

	operation := "Extracted"
	if opts.Normalize {
		operation = "Normalized"
	}
	stats := passive.NewStatistics[sample.Stereo](m, passive.Detailed, sampleRate, progress, operation)
	m = stats

	return &Graph{Module: m, Normalizer: norm, Statistics: stats}, nil
}

// MonoGraph is the mono counterpart of Graph, used for raw patch dumps
// (which never go through the reverb unit).
type MonoGraph struct {
	Module     module.Module[sample.Mono]
	Normalizer *normalize.Normalizer[sample.Mono]
	Statistics *passive.Statistics[sample.Mono]
}

// BuildMono assembles the mono module chain used for raw patch
// extraction: no reverb, no music-event silencing (a raw patch dump is
// a single rendered note, not a song), filtering, optional
// normalization, volume, and a final statistics wrap.
func BuildMono(source module.Module[sample.Mono], opts options.Options, sampleRate uint32, progress passive.Callback, spillDir string) *MonoGraph {
	var m module.Module[sample.Mono] = source

	if opts.HighPass != 0 {
		m = filter.NewMono(m, float64(opts.HighPass)/float64(sampleRate), filter.HighPass)
	}
	if opts.LowPass != 0 {
		m = filter.NewMono(m, float64(opts.LowPass)/float64(sampleRate), filter.LowPass)
	}

	var norm *normalize.Normalizer[sample.Mono]
	if opts.Normalize {
		if progress != nil {
			m = passive.NewStatistics[sample.Mono](m, passive.Progress, sampleRate, progress, "Extracted")
		}
		norm = normalize.New[sample.Mono](m, spillDir, 0)
		m = norm
	}

	if opts.Volume != 1.0 {
		m = passive.NewVolume[sample.Mono](m, opts.Volume)
	}

	operation := "Extracted"
	if opts.Normalize {
		operation = "Normalized"
	}
	stats := passive.NewStatistics[sample.Mono](m, passive.Detailed, sampleRate, progress, operation)
	m = stats

	return &MonoGraph{Module: m, Normalizer: norm, Statistics: stats}
}

func resolveReverb(songIndex int, opts options.Options) (reverb.Preset, float64, error) {
	if opts.ReverbPreset == options.ReverbAuto {
		preset, volume := DefaultReverb(songIndex)
		return preset, volume, nil
	}
	preset, err := opts.ReverbPreset.Resolve()
	if err != nil {
		return 0, 0, err
	}
	return preset, opts.ReverbVolume, nil
}

func leadSamples(seconds float64, sampleRate uint32) int32 {
	if seconds < 0 {
		return -1
	}
	return int32(math.Max(seconds*float64(sampleRate), 1))
}
