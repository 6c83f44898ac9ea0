// Package normalize implements level normalization: a two-pass module
// that buffers its source's entire output in a spill file while tracking
// peak magnitude, then replays it scaled so the peak becomes unity.
package normalize

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/rs/xid"

	"github.com/benmichell/psxdmh/internal/errs"
	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/sample"
)

// DefaultLimitDB is the floor applied when the caller doesn't care to
// override it: audio quieter than this never gets amplified past unity.
const DefaultLimitDB = 30.0

// Normalizer buffers its source in a spill file on first pull, then
// streams the buffered audio back scaled to a unity peak. The temporary
// space required is roughly four times the size of the final 16-bit
// output, since each channel value is spilled as a float64.
type Normalizer[S sample.Sample[S]] struct {
	source   module.Module[S]
	spillDir string
	floor    float64

	spillPath    string
	spillCreated bool
	file         *os.File
	reader       *bufio.Reader

	samples       uint32
	current       uint32
	normalization float64
}

// New constructs a normalizer over source. spillDir, if empty, defaults
// to os.TempDir(). limitDB, if <= 0, defaults to DefaultLimitDB; audio
// whose peak never exceeds 10^(-limitDB/20) is not amplified past that
// floor.
func New[S sample.Sample[S]](source module.Module[S], spillDir string, limitDB float64) *Normalizer[S] {
	if limitDB <= 0 {
		limitDB = DefaultLimitDB
	}
	return &Normalizer[S]{
		source:   source,
		spillDir: spillDir,
		floor:    sample.DecibelsToAmplitude(-limitDB),
	}
}

// IsRunning implements module.Module.
func (n *Normalizer[S]) IsRunning() bool {
	return n.current < n.samples || n.source.IsRunning()
}

// Next implements module.Module.
func (n *Normalizer[S]) Next(out *S) bool {
	if n.file == nil && !n.spillCreated {
		if err := n.bufferSource(); err != nil {
			var zero S
			*out = zero
			return false
		}
	}

	if n.current >= n.samples {
		var zero S
		*out = zero
		return false
	}

	n.current++
	s, err := decodeSample[S](n.reader)
	if err != nil {
		var zero S
		*out = zero
		return false
	}
	*out = s.Scale(n.normalization)
	return true
}

func (n *Normalizer[S]) bufferSource() error {
	n.spillPath = filepath.Join(spillDirOrDefault(n.spillDir), xid.New().String()+".psxdmh-spill")
	f, err := os.Create(n.spillPath)
	if err != nil {
		return errs.IO(err, "creating normalization spill file")
	}
	n.spillCreated = true
	w := bufio.NewWriter(f)

	maxLevel := n.floor
	var s S
	for n.source.Next(&s) {
		if err := encodeSample(w, s); err != nil {
			f.Close()
			return errs.IO(err, "writing normalization spill file")
		}
		n.samples++
		if m := s.Magnitude(); m > maxLevel {
			maxLevel = m
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errs.IO(err, "flushing normalization spill file")
	}
	if err := f.Close(); err != nil {
		return errs.IO(err, "closing normalization spill file")
	}

	n.normalization = 1 / maxLevel

	f, err = os.Open(n.spillPath)
	if err != nil {
		return errs.IO(err, "reopening normalization spill file")
	}
	n.file = f
	n.reader = bufio.NewReader(f)
	return nil
}

// AdjustmentDB reports the level adjustment applied, in decibels.
// Meaningless until the first call to Next has completed the buffering
// pass.
func (n *Normalizer[S]) AdjustmentDB() float64 { return sample.AmplitudeToDecibels(n.normalization) }

// Close releases the spill file, removing it from disk. Safe to call
// more than once, and safe to call before the buffering pass completes
// (e.g. on an aborted extraction).
func (n *Normalizer[S]) Close() error {
	var err error
	if n.file != nil {
		err = n.file.Close()
		n.file = nil
	}
	if n.spillCreated {
		os.Remove(n.spillPath)
		n.spillCreated = false
	}
	return err
}

func spillDirOrDefault(dir string) string {
	if dir != "" {
		return dir
	}
	return os.TempDir()
}
