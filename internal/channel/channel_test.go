package channel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmichell/psxdmh/internal/channel"
	"github.com/benmichell/psxdmh/internal/sample"
)

func finalBlock() []byte {
	b := make([]byte, 16)
	b[1] = 0x01
	return b
}

func TestPanLawIsAsymmetricAtCentre(t *testing.T) {
	// centred note: L = 64/128 = 0.5, R = 65/128 ~ 0.508 -- intentionally
	// right-biased, matching the original game.
	block := finalBlock()
	for i := 2; i < len(block); i++ {
		block[i] = 0x77
	}
	c, err := channel.New(1, block, 44100, 1.0, 64, 0x0000, 0x0000, 44100, 7, false, false)
	require.NoError(t, err)
	require.NotNil(t, c)

	var out sample.Stereo
	found := false
	for c.Next(&out) {
		if out.L != 0 {
			found = true
			break
		}
	}
	require.True(t, found)
	assert.InDelta(t, 65.0/64.0, out.R/out.L, 1e-12)
}

func TestFrequencyClampsToMinimumOne(t *testing.T) {
	assert.Equal(t, uint32(1), channel.LimitFrequency(0, false))
}

func TestFrequencyClampsToHardwareMaximum(t *testing.T) {
	assert.Equal(t, uint32(channel.MaxFrequency), channel.LimitFrequency(999999, true))
	assert.Equal(t, uint32(999999), channel.LimitFrequency(999999, false))
}

func TestChannelStopsWhenPatchExhausted(t *testing.T) {
	c, err := channel.New(1, finalBlock(), 44100, 1.0, 64, 0x0000, 0x0000, 44100, 7, false, false)
	require.NoError(t, err)
	var out sample.Stereo
	for c.Next(&out) {
	}
	assert.False(t, c.IsRunning())
}
