package normalize_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/normalize"
	"github.com/benmichell/psxdmh/internal/sample"
)

func TestNormalizeScalesPeakToUnity(t *testing.T) {
	dir := t.TempDir()
	src := module.Slice([]sample.Mono{0.25, -0.5, 0.1})
	n := normalize.New[sample.Mono](src, dir, 30.0)
	defer n.Close()

	var got []sample.Mono
	var out sample.Mono
	for n.Next(&out) {
		got = append(got, out)
	}
	require.Len(t, got, 3)
	assert.InDelta(t, 0.5, float64(got[0]), 1e-9)
	assert.InDelta(t, -1.0, float64(got[1]), 1e-9)
	assert.InDelta(t, 0.2, float64(got[2]), 1e-9)
	assert.False(t, n.IsRunning())
}

func TestNormalizeBelowFloorCapsGainAtFloor(t *testing.T) {
	dir := t.TempDir()
	floor := sample.DecibelsToAmplitude(-30.0)
	quiet := sample.Mono(floor / 2)
	src := module.Slice([]sample.Mono{quiet})
	n := normalize.New[sample.Mono](src, dir, 30.0)
	defer n.Close()

	var out sample.Mono
	require.True(t, n.Next(&out))
	assert.InDelta(t, float64(quiet)/floor, float64(out), 1e-9)
}

func TestNormalizeStereoScalesBothChannelsBySameFactor(t *testing.T) {
	dir := t.TempDir()
	src := module.Slice([]sample.Stereo{{L: 0.25, R: -0.1}, {L: -0.5, R: 0.05}})
	n := normalize.New[sample.Stereo](src, dir, 30.0)
	defer n.Close()

	var out sample.Stereo
	require.True(t, n.Next(&out))
	assert.InDelta(t, 0.5, out.L, 1e-9)
	assert.InDelta(t, -0.2, out.R, 1e-9)
	require.True(t, n.Next(&out))
	assert.InDelta(t, -1.0, out.L, 1e-9)
	assert.InDelta(t, 0.1, out.R, 1e-9)
}

func TestCloseRemovesSpillFile(t *testing.T) {
	dir := t.TempDir()
	src := module.Slice([]sample.Mono{0.3, 0.4})
	n := normalize.New[sample.Mono](src, dir, 30.0)

	var out sample.Mono
	for n.Next(&out) {
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	spillPath := filepath.Join(dir, entries[0].Name())
	require.FileExists(t, spillPath)

	require.NoError(t, n.Close())
	assert.NoFileExists(t, spillPath)
}

func TestAdjustmentDBReflectsAppliedGain(t *testing.T) {
	dir := t.TempDir()
	src := module.Slice([]sample.Mono{0.5})
	n := normalize.New[sample.Mono](src, dir, 30.0)
	defer n.Close()

	var out sample.Mono
	require.True(t, n.Next(&out))
	assert.InDelta(t, 6.0206, n.AdjustmentDB(), 0.01)
}
