// Package passive holds modules that observe or scale a stream without
// altering its timing: volume scaling and statistics collection.
package passive

import (
	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/sample"
)

// Volume scales every sample pulled from source by a fixed amplitude.
type Volume[S sample.Sample[S]] struct {
	source module.Module[S]
	level  float64
}

// NewVolume constructs a volume adjuster. level is a linear amplitude,
// not decibels.
func NewVolume[S sample.Sample[S]](source module.Module[S], level float64) *Volume[S] {
	return &Volume[S]{source: source, level: level}
}

// IsRunning implements module.Module.
func (v *Volume[S]) IsRunning() bool { return v.source.IsRunning() }

// Next implements module.Module.
func (v *Volume[S]) Next(out *S) bool {
	live := v.source.Next(out)
	*out = (*out).Scale(v.level)
	return live
}
