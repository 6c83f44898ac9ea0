// Package filter implements the direct-form-1 biquad Butterworth
// low-/high-pass filter used for the per-channel anti-aliasing filter and
// the post-mix high-/low-pass stages.
package filter

import (
	"math"

	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/sample"
)

// Kind selects low-pass or high-pass response.
type Kind int

const (
	LowPass Kind = iota
	HighPass
)

// Mono is a biquad Butterworth filter over a mono source.
type Mono struct {
	source module.Module[sample.Mono]
	a0, a1, a2, b1, b2 float64
	x1, x2, y1, y2     float64
}

// NewMono constructs a filter with cutoff as a fraction of the sample
// rate (0 <= cutoff < 0.5).
func NewMono(source module.Module[sample.Mono], cutoff float64, kind Kind) *Mono {
	f := &Mono{source: source}
	f.adjust(cutoff, kind)
	return f
}

func (f *Mono) adjust(cutoff float64, kind Kind) {
	omega := 2 * math.Pi * cutoff
	alpha := math.Sin(omega) / math.Sqrt2
	cosOmega := math.Cos(omega)
	b0 := 1 + alpha

	var a0, a1 float64
	switch kind {
	case LowPass:
		a0 = (1 - cosOmega) / 2
		a1 = 1 - cosOmega
	case HighPass:
		a0 = (1 + cosOmega) / 2
		a1 = -(1 + cosOmega)
	}
	a2 := a0
	b1 := -2 * cosOmega
	b2 := 1 - alpha

	f.a0, f.a1, f.a2 = a0/b0, a1/b0, a2/b0
	f.b1, f.b2 = b1/b0, b2/b0
}

// Next implements module.Module. It returns the source's status, so once
// the source is exhausted Next returns false even while IsRunning still
// reports the filter's decaying state.
func (f *Mono) Next(out *sample.Mono) bool {
	var in sample.Mono
	running := f.source.Next(&in)
	x := float64(in)
	y := f.a0*x + f.a1*f.x1 + f.a2*f.x2 - f.b1*f.y1 - f.b2*f.y2
	if math.Abs(y) < sample.DenormLimit {
		y = 0
	}
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	*out = sample.Mono(y)
	return running
}

// IsRunning reports whether the source is still running, or whether the
// filter's own state hasn't yet decayed to silence.
func (f *Mono) IsRunning() bool {
	if f.source.IsRunning() {
		return true
	}
	const lim = sample.DenormLimit
	return math.Abs(f.x1) >= lim || math.Abs(f.x2) >= lim || math.Abs(f.y1) >= lim || math.Abs(f.y2) >= lim
}

// SetCutoff re-derives the filter's coefficients.
func (f *Mono) SetCutoff(cutoff float64, kind Kind) { f.adjust(cutoff, kind) }

// Stereo is a biquad Butterworth filter applying identical coefficients to
// both channels of a stereo source, used for the post-mix high-pass and
// low-pass stages.
type Stereo struct {
	source module.Module[sample.Stereo]
	a0, a1, a2, b1, b2 float64
	x1L, x2L, y1L, y2L float64
	x1R, x2R, y1R, y2R float64
}

// NewStereo constructs a filter with cutoff as a fraction of the sample
// rate (0 <= cutoff < 0.5).
func NewStereo(source module.Module[sample.Stereo], cutoff float64, kind Kind) *Stereo {
	f := &Stereo{source: source}
	f.adjust(cutoff, kind)
	return f
}

func (f *Stereo) adjust(cutoff float64, kind Kind) {
	omega := 2 * math.Pi * cutoff
	alpha := math.Sin(omega) / math.Sqrt2
	cosOmega := math.Cos(omega)
	b0 := 1 + alpha

	var a0, a1 float64
	switch kind {
	case LowPass:
		a0 = (1 - cosOmega) / 2
		a1 = 1 - cosOmega
	case HighPass:
		a0 = (1 + cosOmega) / 2
		a1 = -(1 + cosOmega)
	}
	a2 := a0
	b1 := -2 * cosOmega
	b2 := 1 - alpha

	f.a0, f.a1, f.a2 = a0/b0, a1/b0, a2/b0
	f.b1, f.b2 = b1/b0, b2/b0
}

func (f *Stereo) step(x, x1, x2, y1, y2 *float64) float64 {
	y := f.a0**x + f.a1**x1 + f.a2**x2 - f.b1*(*y1) - f.b2*(*y2)
	if math.Abs(y) < sample.DenormLimit {
		y = 0
	}
	*x2, *x1 = *x1, *x
	*y2, *y1 = *y1, y
	return y
}

// Next implements module.Module. It returns the source's status, so once
// the source is exhausted Next returns false even while IsRunning still
// reports the filter's decaying state.
func (f *Stereo) Next(out *sample.Stereo) bool {
	var in sample.Stereo
	running := f.source.Next(&in)
	l := f.step(&in.L, &f.x1L, &f.x2L, &f.y1L, &f.y2L)
	r := f.step(&in.R, &f.x1R, &f.x2R, &f.y1R, &f.y2R)
	*out = sample.Stereo{L: l, R: r}
	return running
}

// IsRunning reports whether the source is still running, or whether the
// filter's own state hasn't yet decayed to silence.
func (f *Stereo) IsRunning() bool {
	if f.source.IsRunning() {
		return true
	}
	const lim = sample.DenormLimit
	return math.Abs(f.x1L) >= lim || math.Abs(f.x2L) >= lim || math.Abs(f.y1L) >= lim || math.Abs(f.y2L) >= lim ||
		math.Abs(f.x1R) >= lim || math.Abs(f.x2R) >= lim || math.Abs(f.y1R) >= lim || math.Abs(f.y2R) >= lim
}

// SetCutoff re-derives the filter's coefficients.
func (f *Stereo) SetCutoff(cutoff float64, kind Kind) { f.adjust(cutoff, kind) }
