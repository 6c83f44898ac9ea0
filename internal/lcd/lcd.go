// Package lcd parses the LCD container: a bank of ADPCM-encoded patches
// located at a fixed CD-sector boundary, plus the small set of known-bad
// patches that patch repair silences or truncates.
package lcd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/benmichell/psxdmh/internal/adpcm"
	"github.com/benmichell/psxdmh/internal/errs"
)

// sectorSize is the CD sector size patch data is aligned to.
const sectorSize = 0x800

// Patch is one ADPCM-encoded sample, identified by a 16-bit id.
type Patch struct {
	ID    uint16
	ADPCM []byte
}

// File is a parsed or in-progress collection of patches.
type File struct {
	patches []Patch
}

// New returns an empty collection.
func New() *File { return &File{} }

// Load reads and parses an LCD file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.IO(err, "unable to read LCD file %q", path)
	}
	return Parse(data, path)
}

// Parse decodes an LCD container from an in-memory buffer. name is used
// only for diagnostic messages.
func Parse(data []byte, name string) (*File, error) {
	r := bytes.NewReader(data)
	var countBuf [2]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, errs.Malformed("unexpected end of LCD data in %q", name)
	}
	count := binary.LittleEndian.Uint16(countBuf[:])

	ids := make([]uint16, count)
	for i := range ids {
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return nil, errs.Malformed("unexpected end of LCD data in %q", name)
		}
		ids[i] = binary.LittleEndian.Uint16(b[:])
	}

	if _, err := r.Seek(sectorSize, io.SeekStart); err != nil {
		return nil, errs.Malformed("LCD file %q shorter than the patch table boundary", name)
	}

	f := &File{patches: make([]Patch, count)}
	var zeros [adpcm.BlockSize]byte
	var block [adpcm.BlockSize]byte
	for i := range f.patches {
		f.patches[i].ID = ids[i]

		if _, err := io.ReadFull(r, block[:]); err != nil {
			return nil, errs.Malformed("invalid patch header in %q", name)
		}
		if !bytes.Equal(block[:], zeros[:]) {
			return nil, errs.Malformed("invalid patch header in %q", name)
		}

		var adpcmData []byte
		for {
			n, err := io.ReadFull(r, block[:])
			if n < adpcm.BlockSize || err != nil {
				break
			}
			adpcmData = append(adpcmData, block[:]...)
			if adpcm.IsFinal(block[:]) {
				break
			}
		}
		f.patches[i].ADPCM = adpcmData
	}

	return f, nil
}

// MaximumPatchID returns the largest patch id present, or 0 if empty.
func (f *File) MaximumPatchID() uint16 {
	var max uint16
	for _, p := range f.patches {
		if p.ID > max {
			max = p.ID
		}
	}
	return max
}

// PatchByID returns the patch with the given id, or nil if not found.
func (f *File) PatchByID(id uint16) *Patch {
	for i := range f.patches {
		if f.patches[i].ID == id {
			return &f.patches[i]
		}
	}
	return nil
}

// SetPatchByID replaces (or appends) the patch with the given id.
func (f *File) SetPatchByID(id uint16, data []byte) {
	for i := range f.patches {
		if f.patches[i].ID == id {
			f.patches[i].ADPCM = data
			return
		}
	}
	f.patches = append(f.patches, Patch{ID: id, ADPCM: data})
}

// Merge copies every patch present in other but absent from f.
func (f *File) Merge(other *File) {
	for _, p := range other.patches {
		if f.PatchByID(p.ID) == nil {
			f.patches = append(f.patches, p)
		}
	}
}

// patchFix describes a known-bad patch: its expected total byte length and
// loop-start offset (negative meaning non-looping), plus the repair to
// apply (blocks to silence at the start, blocks to drop from the end).
type patchFix struct {
	id                 uint16
	size               int
	repeatOffset       int32
	silenceStartBlocks int
	removeEndBlocks    int
}

var patchFixes = []patchFix{
	{id: 96, size: 45744, repeatOffset: 16, silenceStartBlocks: 2, removeEndBlocks: 1},
	{id: 102, size: 86016, repeatOffset: 45248, silenceStartBlocks: 2, removeEndBlocks: 0},
	{id: 116, size: 81520, repeatOffset: 0, silenceStartBlocks: 0, removeEndBlocks: 16},
	{id: 130, size: 44928, repeatOffset: 16, silenceStartBlocks: 0, removeEndBlocks: 2},
}

// RepairPatches applies the fixed repair table to any known-bad patches
// present in the collection, validating that each one matches the expected
// shape before editing it in place.
func (f *File) RepairPatches() error {
	for _, fix := range patchFixes {
		p := f.PatchByID(fix.id)
		if p == nil {
			continue
		}

		repeat := adpcm.RepeatOffset(p.ADPCM)
		mismatchedSize := len(p.ADPCM) != fix.size
		mismatchedLoop := (repeat >= 0 && repeat != fix.repeatOffset) || (repeat < 0 && fix.repeatOffset < 0)
		if mismatchedSize || mismatchedLoop {
			return errs.Invariant("patch %d can't be fixed: the details of the patch don't match the expected values", p.ID)
		}

		edited := adpcm.EditADPCM(p.ADPCM, fix.silenceStartBlocks, fix.removeEndBlocks)
		f.SetPatchByID(p.ID, edited)
	}
	return nil
}

// Dump writes a textual description of every patch to w.
func (f *File) Dump(w io.Writer) {
	for i, p := range f.patches {
		blocks := len(p.ADPCM) / adpcm.BlockSize
		seconds := float64(blocks) * float64(adpcm.SamplesPerBlock) / 11025.0
		fmt.Fprintf(w, "Patch %d:\n", i)
		fmt.Fprintf(w, "  ID: %d ($%02x)\n", p.ID, p.ID)
		fmt.Fprintf(w, "  Length: %d bytes, %d blocks, %.3f seconds\n", len(p.ADPCM), blocks, seconds)
	}
}
