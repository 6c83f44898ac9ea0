package reverb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/reverb"
	"github.com/benmichell/psxdmh/internal/sample"
)

// zeroSource produces n all-zero stereo samples, then exhausts.
type zeroSource struct {
	remaining int
}

func (z *zeroSource) Next(out *sample.Stereo) bool {
	if z.remaining <= 0 {
		*out = sample.Stereo{}
		return false
	}
	z.remaining--
	*out = sample.Stereo{}
	return true
}

func (z *zeroSource) IsRunning() bool { return z.remaining > 0 }

func TestCoreIsConstructedForEveryNonOffPreset(t *testing.T) {
	for p := reverb.Room; p <= reverb.SpaceEcho; p++ {
		src := &zeroSource{remaining: 4}
		c := reverb.NewCore(module.Module[sample.Stereo](src), p, sample.Stereo{L: 1, R: 1})
		require.NotNil(t, c)
		var out sample.Stereo
		for c.Next(&out) {
		}
	}
}

func TestZeroInputConvergesToSilenceAndStops(t *testing.T) {
	src := &zeroSource{remaining: 8}
	w := reverb.Wrap(module.Module[sample.Stereo](src), 44100, reverb.Hall, sample.Stereo{L: 1, R: 1}, 7)

	var out sample.Stereo
	count := 0
	for w.Next(&out) {
		assert.Zero(t, out.L)
		assert.Zero(t, out.R)
		count++
		if count > 100000 {
			t.Fatal("reverb wrapper never settled")
		}
	}
	assert.False(t, w.IsRunning())
}

func TestWrapAtCoreRateSkipsResampling(t *testing.T) {
	src := &zeroSource{remaining: 4}
	w := reverb.Wrap(module.Module[sample.Stereo](src), reverb.CoreRate, reverb.Room, sample.Stereo{L: 1, R: 1}, 7)
	require.NotNil(t, w)
	var out sample.Stereo
	for w.Next(&out) {
	}
}

func TestPresetNamesAreStable(t *testing.T) {
	assert.Equal(t, "off", reverb.Off.String())
	assert.Equal(t, "hall", reverb.Hall.String())
	assert.Equal(t, "space-echo", reverb.SpaceEcho.String())
}
