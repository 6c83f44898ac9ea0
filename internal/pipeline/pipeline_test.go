package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/options"
	"github.com/benmichell/psxdmh/internal/pipeline"
	"github.com/benmichell/psxdmh/internal/reverb"
	"github.com/benmichell/psxdmh/internal/sample"
)

func TestDefaultSongNameKnownIndex(t *testing.T) {
	assert.Equal(t, "SFX00 - Silence.wav", pipeline.DefaultSongName(0))
	assert.Equal(t, "D01 - Hangar.wav", pipeline.DefaultSongName(90))
	assert.Equal(t, "F04 - Combine.wav", pipeline.DefaultSongName(119))
}

func TestDefaultSongNameFallsBackBeyondTable(t *testing.T) {
	assert.Equal(t, "S120.wav", pipeline.DefaultSongName(120))
}

func TestDefaultReverbOutsideLevelRangeIsDry(t *testing.T) {
	preset, volume := pipeline.DefaultReverb(89)
	assert.Equal(t, reverb.Off, preset)
	assert.Zero(t, volume)

	preset, volume = pipeline.DefaultReverb(120)
	assert.Equal(t, reverb.Off, preset)
	assert.Zero(t, volume)
}

func TestDefaultReverbFirstLevelMatchesTable(t *testing.T) {
	preset, volume := pipeline.DefaultReverb(90)
	assert.Equal(t, reverb.SpaceEcho, preset)
	assert.InDelta(t, float64(0x0fff)/0x7fff, volume, 1e-9)
}

func TestResolveSampleRateDefaultsBySourceKind(t *testing.T) {
	opts := options.Default()
	assert.Equal(t, uint32(pipeline.DefaultSongSampleRate), pipeline.ResolveSampleRate(opts, false))
	assert.Equal(t, uint32(pipeline.DefaultPatchSampleRate), pipeline.ResolveSampleRate(opts, true))

	opts.SampleRate = 48000
	assert.Equal(t, uint32(48000), pipeline.ResolveSampleRate(opts, false))
	assert.Equal(t, uint32(48000), pipeline.ResolveSampleRate(opts, true))
}

func TestBuildAppliesAutoReverbForKnownSong(t *testing.T) {
	data := make([]sample.Stereo, 100)
	data[50] = sample.Stereo{L: 1, R: 1}
	src := module.Slice(data)

	opts := options.Default()
	opts.Normalize = false
	opts.Volume = 1.0

	graph, err := pipeline.Build(module.Module[sample.Stereo](src), 90, opts, 44100, nil, t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, graph)

	out := module.Drain[sample.Stereo](graph.Module)
	assert.NotEmpty(t, out)
	assert.NotNil(t, graph.Statistics)
	assert.Nil(t, graph.Normalizer)
}

func TestBuildWithExplicitOffPresetSkipsReverb(t *testing.T) {
	data := []sample.Stereo{{L: 0.4, R: 0.4}, {L: -0.2, R: -0.2}}
	src := module.Slice(data)

	opts := options.Default()
	opts.ReverbPreset = options.ReverbOff

	graph, err := pipeline.Build(module.Module[sample.Stereo](src), 0, opts, 44100, nil, t.TempDir())
	require.NoError(t, err)

	out := module.Drain[sample.Stereo](graph.Module)
	require.Len(t, out, len(data))
}

func TestBuildNormalizesToUnityPeak(t *testing.T) {
	data := []sample.Stereo{{L: 0.25, R: 0.25}, {L: -0.5, R: -0.5}, {L: 0.1, R: 0.1}}
	src := module.Slice(data)

	opts := options.Default()
	opts.ReverbPreset = options.ReverbOff
	opts.Normalize = true
	opts.Volume = 1.0
	opts.HighPass = 0
	opts.LowPass = 0

	graph, err := pipeline.Build(module.Module[sample.Stereo](src), 0, opts, 44100, nil, t.TempDir())
	require.NoError(t, err)
	defer graph.Normalizer.Close()

	out := module.Drain[sample.Stereo](graph.Module)
	require.Len(t, out, len(data))

	peak := 0.0
	for _, s := range out {
		if m := s.Magnitude(); m > peak {
			peak = m
		}
	}
	assert.InDelta(t, 1.0, peak, 1e-9)
}

func TestBuildRejectsInvalidExplicitPreset(t *testing.T) {
	data := []sample.Stereo{{L: 0.1, R: 0.1}}
	src := module.Slice(data)

	opts := options.Default()
	opts.ReverbPreset = options.ReverbPreset(-1)

	_, err := pipeline.Build(module.Module[sample.Stereo](src), 0, opts, 44100, nil, t.TempDir())
	assert.Error(t, err)
}

func TestBuildMonoAppliesVolumeWithoutReverb(t *testing.T) {
	data := []sample.Mono{0.5, -0.5, 0.25}
	src := module.Slice(data)

	opts := options.Default()
	opts.ReverbPreset = options.ReverbOff
	opts.Volume = 0.5
	opts.HighPass = 0
	opts.LowPass = 0

	graph := pipeline.BuildMono(module.Module[sample.Mono](src), opts, 11025, nil, t.TempDir())
	out := module.Drain[sample.Mono](graph.Module)
	require.Len(t, out, len(data))
	assert.InDelta(t, 0.25, float64(out[0]), 1e-9)
	assert.InDelta(t, -0.25, float64(out[1]), 1e-9)
}
