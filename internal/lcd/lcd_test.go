package lcd_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmichell/psxdmh/internal/lcd"
)

func u16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func finalBlock() []byte {
	b := make([]byte, 16)
	b[1] = 0x01
	return b
}

func buildMinimalLCD(id uint16, block []byte) []byte {
	var buf bytes.Buffer
	buf.Write(u16(1))
	buf.Write(u16(id))
	buf.Write(make([]byte, 0x800-4))
	buf.Write(make([]byte, 16)) // header marker
	buf.Write(block)
	return buf.Bytes()
}

func TestParseSinglePatch(t *testing.T) {
	data := buildMinimalLCD(5, finalBlock())
	f, err := lcd.Parse(data, "test.lcd")
	require.NoError(t, err)
	p := f.PatchByID(5)
	require.NotNil(t, p)
	assert.Equal(t, finalBlock(), p.ADPCM)
	assert.EqualValues(t, 5, f.MaximumPatchID())
}

func TestPatchByIDMissingReturnsNil(t *testing.T) {
	data := buildMinimalLCD(5, finalBlock())
	f, err := lcd.Parse(data, "test.lcd")
	require.NoError(t, err)
	assert.Nil(t, f.PatchByID(999))
}

func TestSetPatchByIDAppendsOrReplaces(t *testing.T) {
	f := lcd.New()
	f.SetPatchByID(1, finalBlock())
	f.SetPatchByID(1, []byte{1, 2, 3})
	p := f.PatchByID(1)
	require.NotNil(t, p)
	assert.Equal(t, []byte{1, 2, 3}, p.ADPCM)
}

func TestMergeOnlyCopiesAbsentPatches(t *testing.T) {
	a := lcd.New()
	a.SetPatchByID(1, []byte{0xaa})
	b := lcd.New()
	b.SetPatchByID(1, []byte{0xbb})
	b.SetPatchByID(2, []byte{0xcc})
	a.Merge(b)
	assert.Equal(t, []byte{0xaa}, a.PatchByID(1).ADPCM)
	assert.Equal(t, []byte{0xcc}, a.PatchByID(2).ADPCM)
}

func TestBadPatchHeaderRejected(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(u16(1))
	buf.Write(u16(5))
	buf.Write(make([]byte, 0x800-4))
	buf.Write([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16})
	_, err := lcd.Parse(buf.Bytes(), "bad.lcd")
	assert.Error(t, err)
}

func TestRepairPatchesSkipsAbsentIDs(t *testing.T) {
	f := lcd.New()
	require.NoError(t, f.RepairPatches())
}

// flaggedBlock returns a 16-byte ADPCM block with only its flag byte set.
func flaggedBlock(flags byte) []byte {
	b := make([]byte, 16)
	b[1] = flags
	return b
}

func TestRepairPatchesFixesPatch116(t *testing.T) {
	const totalBlocks = 81520 / 16 // matches the fix table's expected size
	adpcmData := make([]byte, totalBlocks*16)
	copy(adpcmData[0:16], flaggedBlock(0x04)) // repeat-start marker at offset 0
	lastOff := (totalBlocks - 1) * 16
	copy(adpcmData[lastOff:lastOff+16], flaggedBlock(0x03)) // final + repeat-jump

	f := lcd.New()
	f.SetPatchByID(116, adpcmData)

	require.NoError(t, f.RepairPatches())

	p := f.PatchByID(116)
	require.NotNil(t, p)

	const expectedBlocks = totalBlocks - 16 // removeEndBlocks from the fix table
	assert.Len(t, p.ADPCM, expectedBlocks*16)
	assert.Equal(t, byte(0x04), p.ADPCM[1], "leading repeat-start block is untouched (silenceStartBlocks=0)")
	newLastOff := (expectedBlocks - 1) * 16
	assert.Equal(t, byte(0x03), p.ADPCM[newLastOff+1], "old last block's flag byte is carried onto the new last block")
}

func TestRepairPatchesRejectsMismatchedPatch(t *testing.T) {
	f := lcd.New()
	f.SetPatchByID(116, finalBlock())
	err := f.RepairPatches()
	assert.Error(t, err)
}
