// Package reverb implements the PSX SPU reverb unit: a fixed-rate DSP
// core (Core) plus an outer wrapper (Wrap) that tees the input, resamples
// one arm to the core's native 22.05kHz, and mixes the wet signal back
// with the dry original.
package reverb

import (
	"math"

	"github.com/benmichell/psxdmh/internal/filter"
	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/resample"
	"github.com/benmichell/psxdmh/internal/sample"
	"github.com/benmichell/psxdmh/internal/split"
)

// CoreRate is the sample rate the reverb core always runs at.
const CoreRate = 22050

const maxPreFilterCutoff = 0.45

// Wrapper splits its stereo input: one arm passes through unchanged, the
// other is (conditionally pre-filtered and) resampled to the core's
// fixed rate, processed by Core, then resampled back and mixed with the
// dry signal.
type Wrapper struct {
	original *split.Child[sample.Stereo]
	wet      module.Module[sample.Stereo]
}

// Wrap builds a reverb wrapper around source at sampleRate, using preset
// (which must not be Off) and the given output volume and sinc window.
func Wrap(source module.Module[sample.Stereo], sampleRate uint32, preset Preset, volume sample.Stereo, sincWindow uint32) *Wrapper {
	parent := split.New[sample.Stereo](source)
	original := parent.Split()
	var wet module.Module[sample.Stereo] = parent.Split()

	if sampleRate != CoreRate {
		if sampleRate > CoreRate {
			cutoff := math.Min(float64(CoreRate)/float64(sampleRate), maxPreFilterCutoff)
			wet = filter.NewStereo(wet, cutoff, filter.LowPass)
		}
		wet = resample.NewSinc[sample.Stereo](wet, sincWindow, sampleRate, CoreRate)
	}

	wet = NewCore(wet, preset, volume)

	if sampleRate != CoreRate {
		if sampleRate < CoreRate {
			cutoff := math.Min(float64(sampleRate)/float64(CoreRate), maxPreFilterCutoff)
			wet = filter.NewStereo(wet, cutoff, filter.LowPass)
		}
		wet = resample.NewSinc[sample.Stereo](wet, sincWindow, CoreRate, sampleRate)
	}

	return &Wrapper{original: original, wet: wet}
}

// Next implements module.Module.
func (w *Wrapper) Next(out *sample.Stereo) bool {
	var dry, r sample.Stereo
	originalLive := w.original.Next(&dry)
	wetLive := w.wet.Next(&r)
	*out = dry.Add(r)
	return originalLive || wetLive
}

// IsRunning implements module.Module.
func (w *Wrapper) IsRunning() bool {
	return w.original.IsRunning() || w.wet.IsRunning()
}
