// Package adpcm decodes the PSX SPU's 4-bit ADPCM encoding into mono
// float samples, and provides the block-level editing used by patch
// repair.
package adpcm

import (
	"github.com/benmichell/psxdmh/internal/errs"
	"github.com/benmichell/psxdmh/internal/sample"
)

// BlockSize is the size in bytes of one ADPCM block.
const BlockSize = 16

// SamplesPerBlock is the number of decoded samples one block produces.
const SamplesPerBlock = 28

var posTable = [5]int32{0, 60, 115, 98, 122}
var negTable = [5]int32{0, 0, -52, -55, -60}

// IsRepeatStart reports whether block carries the loop-start marker.
func IsRepeatStart(block []byte) bool { return block[1]&0x04 == 0x04 }

// IsFinal reports whether block is the last block of its stream.
func IsFinal(block []byte) bool { return block[1]&0x01 == 0x01 }

// IsRepeatJump reports whether block, once final, resumes playback from
// the remembered loop-start offset. Both bits 0x01 and 0x02 must be set;
// 0x02 alone does not qualify.
func IsRepeatJump(block []byte) bool { return block[1]&0x03 == 0x03 }

// Decoder pulls ADPCM blocks from data and yields decoded mono samples
// scaled to [-1, 1]. PlayCount of 0 means infinite repeats.
type Decoder struct {
	data      []byte
	pos       int
	s0, s1    int32
	repeatAt  int
	haveLoop  bool
	playCount uint32
	remaining uint32
	nibbles   [SamplesPerBlock]int16
	nibblePos int
	nibbleLen int
	done      bool
	err       error
}

// NewDecoder constructs a decoder over data, which must be a non-empty,
// block-aligned stream of 16-byte ADPCM blocks whose last block is
// flagged final. playCount of 0 means infinite repeats.
func NewDecoder(data []byte, playCount uint32) (*Decoder, error) {
	if len(data) == 0 || len(data)%BlockSize != 0 {
		return nil, errs.Malformed("adpcm data is not a non-empty multiple of %d bytes", BlockSize)
	}
	d := &Decoder{
		data:      data,
		playCount: playCount,
		remaining: playCount,
	}
	return d, nil
}

// Err returns the first decode error encountered, if any.
func (d *Decoder) Err() error { return d.err }

// IsRunning implements module.Module.
func (d *Decoder) IsRunning() bool { return !d.done }

// Next implements module.Module.
func (d *Decoder) Next(out *sample.Mono) bool {
	if d.done {
		*out = 0
		return false
	}
	if d.nibblePos >= d.nibbleLen {
		if !d.decodeNextBlock() {
			*out = 0
			return false
		}
	}
	s := d.nibbles[d.nibblePos]
	d.nibblePos++
	*out = sample.Mono(float64(s) / 32768.0)
	return true
}

func (d *Decoder) decodeNextBlock() bool {
	for {
		if d.pos >= len(d.data) {
			d.done = true
			return false
		}
		block := d.data[d.pos : d.pos+BlockSize]
		shift := block[0] & 0x0f
		filter := block[0] >> 4
		if filter >= 5 {
			d.err = errs.Malformed("corrupt adpcm predictor filter index %d", filter)
			d.done = true
			return false
		}
		if shift > 12 {
			d.err = errs.Malformed("corrupt adpcm shift %d", shift)
			d.done = true
			return false
		}
		if IsRepeatStart(block) {
			d.repeatAt = d.pos
			d.haveLoop = true
		}

		var nibbles [28]int8
		for i := 0; i < 14; i++ {
			b := block[2+i]
			nibbles[2*i] = int8(b << 4)
			nibbles[2*i+1] = int8(b & 0xf0)
		}

		for i := 0; i < SamplesPerBlock; i++ {
			raw := (int32(nibbles[i]) << 8) >> shift
			raw += (d.s0*posTable[filter] + d.s1*negTable[filter] + 32) >> 6
			s := sample.ClampI16(raw)
			d.nibbles[i] = s
			d.s1 = d.s0
			d.s0 = int32(s)
		}
		d.nibblePos = 0
		d.nibbleLen = SamplesPerBlock

		final := IsFinal(block)
		jump := IsRepeatJump(block)
		d.pos += BlockSize
		if final {
			if jump && d.haveLoop && d.remaining != 1 {
				if d.playCount != 0 {
					d.remaining--
				}
				d.pos = d.repeatAt
			} else {
				// mark the tail: once this block's samples are consumed
				// the next decodeNextBlock call finds no data left and
				// marks the decoder exhausted.
				d.data = d.data[:d.pos]
			}
		}
		return true
	}
}

// EditADPCM zeroes the ADPCM data bytes of the first silenceBlocks
// blocks (preserving their flag bytes), then truncates removeEndBlocks
// blocks from the end, carrying the old last block's flag byte onto the
// new last block.
func EditADPCM(blocks []byte, silenceBlocks, removeEndBlocks int) []byte {
	edited := make([]byte, len(blocks))
	copy(edited, blocks)

	totalBlocks := len(edited) / BlockSize
	for i := 0; i < silenceBlocks && i < totalBlocks; i++ {
		start := i * BlockSize
		for j := 2; j < BlockSize; j++ {
			edited[start+j] = 0
		}
	}

	if removeEndBlocks > 0 && removeEndBlocks < totalBlocks {
		oldLastFlag := edited[(totalBlocks-1)*BlockSize+1]
		newLen := (totalBlocks - removeEndBlocks) * BlockSize
		edited = edited[:newLen]
		edited[newLen-BlockSize+1] = oldLastFlag
	}

	return edited
}

// RepeatOffset scans backward from the final block (only when that block
// is a repeat-jump) for a repeat-start marker and returns its byte
// offset, or -1 if the patch does not loop.
func RepeatOffset(blocks []byte) int32 {
	if len(blocks) == 0 || len(blocks)%BlockSize != 0 {
		return -1
	}
	lastOff := len(blocks) - BlockSize
	last := blocks[lastOff : lastOff+BlockSize]
	if !IsRepeatJump(last) {
		return -1
	}
	for off := lastOff; off >= 0; off -= BlockSize {
		block := blocks[off : off+BlockSize]
		if IsRepeatStart(block) {
			return int32(off)
		}
	}
	return -1
}
