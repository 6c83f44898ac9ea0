package adpcm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmichell/psxdmh/internal/adpcm"
	"github.com/benmichell/psxdmh/internal/sample"
)

func silentBlock(flags byte) []byte {
	b := make([]byte, adpcm.BlockSize)
	b[0] = 0x00 // shift 0, filter 0
	b[1] = flags
	return b
}

// S1 from the spec's literal fixtures: a single all-zero, final block
// decodes to 28 zero samples then reports exhausted.
func TestSingleFinalBlockYieldsSilence(t *testing.T) {
	d, err := adpcm.NewDecoder(silentBlock(0x01), 1)
	require.NoError(t, err)

	var got []sample.Mono
	var s sample.Mono
	for d.Next(&s) {
		got = append(got, s)
	}
	assert.Len(t, got, adpcm.SamplesPerBlock)
	for _, v := range got {
		assert.Equal(t, sample.Mono(0), v)
	}
	assert.False(t, d.IsRunning())
	require.NoError(t, d.Err())
}

func TestRepeatJumpRequiresBothBits(t *testing.T) {
	// bit 0x02 alone is not a repeat jump.
	b := silentBlock(0x03)
	assert.True(t, adpcm.IsRepeatJump(b))
	b2 := silentBlock(0x02)
	assert.False(t, adpcm.IsRepeatJump(b2))
}

func TestLoopsUntilPlayCountExhausted(t *testing.T) {
	loopStart := silentBlock(0x04) // loop-start marker only
	final := silentBlock(0x03)     // final + repeat-jump
	data := append(append([]byte{}, loopStart...), final...)

	d, err := adpcm.NewDecoder(data, 2)
	require.NoError(t, err)

	total := 0
	var s sample.Mono
	for d.Next(&s) {
		total++
	}
	// two plays through 2 blocks of 28 samples each.
	assert.Equal(t, 2*2*adpcm.SamplesPerBlock, total)
}

func TestCorruptFilterIndexFails(t *testing.T) {
	b := silentBlock(0x01)
	b[0] = 0xf0 // filter index 15, invalid
	d, err := adpcm.NewDecoder(b, 1)
	require.NoError(t, err)
	var s sample.Mono
	assert.False(t, d.Next(&s))
	require.Error(t, d.Err())
}

func TestEditADPCMSilencesAndTruncates(t *testing.T) {
	b0 := silentBlock(0x04)
	for i := 2; i < adpcm.BlockSize; i++ {
		b0[i] = 0xff
	}
	b1 := silentBlock(0x03)
	data := append(append([]byte{}, b0...), b1...)

	edited := adpcm.EditADPCM(data, 1, 1)
	require.Len(t, edited, adpcm.BlockSize)
	for i := 2; i < adpcm.BlockSize; i++ {
		assert.Equal(t, byte(0), edited[i])
	}
	assert.Equal(t, b1[1], edited[1])
}

func TestRepeatOffsetFindsLoopStart(t *testing.T) {
	loopStart := silentBlock(0x04)
	middle := silentBlock(0x00)
	final := silentBlock(0x03)
	data := append(append(append([]byte{}, loopStart...), middle...), final...)
	assert.Equal(t, int32(0), adpcm.RepeatOffset(data))
}

func TestRepeatOffsetNegativeWhenNotLooping(t *testing.T) {
	data := silentBlock(0x01)
	assert.Equal(t, int32(-1), adpcm.RepeatOffset(data))
}
