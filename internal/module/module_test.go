package module_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/sample"
)

func TestSliceSourceExhausts(t *testing.T) {
	src := module.Slice([]sample.Mono{0.1, 0.2, 0.3})
	var s sample.Mono
	require.True(t, src.Next(&s))
	assert.Equal(t, sample.Mono(0.1), s)
	assert.True(t, src.IsRunning())
	require.True(t, src.Next(&s))
	require.True(t, src.Next(&s))
	assert.False(t, src.IsRunning())
	require.False(t, src.Next(&s))
	assert.Equal(t, sample.Mono(0), s)
}

func TestDrain(t *testing.T) {
	src := module.Slice([]sample.Stereo{{L: 1, R: 2}, {L: 3, R: 4}})
	out := module.Drain[sample.Stereo](src)
	assert.Len(t, out, 2)
	assert.Equal(t, sample.Stereo{L: 3, R: 4}, out[1])
}
