package passive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/passive"
	"github.com/benmichell/psxdmh/internal/sample"
)

func TestVolumeScalesEverySample(t *testing.T) {
	src := module.Slice([]sample.Mono{0.5, -0.5, 1})
	v := passive.NewVolume[sample.Mono](src, 0.5)

	var out sample.Mono
	var got []sample.Mono
	for v.Next(&out) {
		got = append(got, out)
	}
	assert.Equal(t, []sample.Mono{0.25, -0.25, 0.5}, got)
	assert.False(t, v.IsRunning())
}

func TestVolumeScalesStereoBothChannels(t *testing.T) {
	src := module.Slice([]sample.Stereo{{L: 1, R: -1}})
	v := passive.NewVolume[sample.Stereo](src, 2.0)

	var out sample.Stereo
	require := v.Next(&out)
	assert.True(t, require)
	assert.Equal(t, sample.Stereo{L: 2, R: -2}, out)
}

func TestStatisticsTracksPeakAndRMSInDetailedMode(t *testing.T) {
	src := module.Slice([]sample.Mono{1, -1, 0.5, -0.5})
	s := passive.NewStatistics[sample.Mono](src, passive.Detailed, 4, nil, "test")

	var out sample.Mono
	for s.Next(&out) {
	}
	assert.Equal(t, 1.0, s.MaximumAmplitude())
	assert.InDelta(t, -2.0409, s.RMSDB(), 0.01)
}

func TestStatisticsInvokesCallbackOncePerSecondOfAudio(t *testing.T) {
	data := make([]sample.Mono, 10)
	src := module.Slice(data)

	calls := 0
	var lastOperation string
	cb := func(seconds uint32, rate float64, operation string) {
		calls++
		lastOperation = operation
		assert.Equal(t, uint32(1), seconds)
	}
	s := passive.NewStatistics[sample.Mono](src, passive.Progress, 10, cb, "extracting")

	var out sample.Mono
	for s.Next(&out) {
	}
	assert.Equal(t, 1, calls)
	assert.Equal(t, "extracting", lastOperation)
}

func TestStatisticsProgressModeDoesNotTrackMagnitude(t *testing.T) {
	src := module.Slice([]sample.Mono{1, 1, 1})
	s := passive.NewStatistics[sample.Mono](src, passive.Progress, 3, nil, "test")

	var out sample.Mono
	for s.Next(&out) {
	}
	assert.Equal(t, 0.0, s.MaximumAmplitude())
}
