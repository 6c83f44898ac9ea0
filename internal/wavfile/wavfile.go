// Package wavfile writes a module's output to a canonical 16-bit PCM
// WAV file, wrapping go-audio/wav for RIFF framing and header patching.
package wavfile

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/benmichell/psxdmh/internal/errs"
	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/sample"
)

const batchSamples = 4096
const headerBytes = 44
const wavAudioFormatPCM = 1

// Writer streams a module's output to a 16-bit PCM WAV file at a fixed
// sample rate, in batches to avoid a syscall per sample.
type Writer[S sample.Sample[S]] struct {
	path       string
	channels   int
	maxSamples uint32

	file    *os.File
	encoder *wav.Encoder
	samples uint32
}

// New constructs a writer for path. The channel count is derived from
// the instantiated sample type (1 for Mono, 2 for Stereo).
func New[S sample.Sample[S]](path string) (*Writer[S], error) {
	channels, err := channelCount[S]()
	if err != nil {
		return nil, err
	}
	maxSamples := (uint64(0xffffffff) - headerBytes) / (2 * uint64(channels))
	return &Writer[S]{path: path, channels: channels, maxSamples: uint32(maxSamples)}, nil
}

// Write pulls every sample from source and writes it to the file,
// batching writes. It returns the number of samples written. The file
// is created, and the header patched to match, as part of this call.
func (w *Writer[S]) Write(source module.Module[S], sampleRate uint32) (uint32, error) {
	if err := w.open(sampleRate); err != nil {
		return 0, err
	}

	buffer := make([]int, 0, batchSamples*w.channels)
	var s S
	for {
		buffer = buffer[:0]
		for len(buffer) < batchSamples*w.channels && source.Next(&s) {
			buffer = appendSample(buffer, s)
			w.samples++
			if w.samples > w.maxSamples {
				w.Abort()
				return 0, errs.Invariant("maximum WAV file size exceeded")
			}
		}
		if len(buffer) == 0 {
			break
		}
		ib := &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: w.channels, SampleRate: int(sampleRate)},
			Data:           buffer,
			SourceBitDepth: 16,
		}
		if err := w.encoder.Write(ib); err != nil {
			w.Abort()
			return 0, errs.IO(err, "writing WAV data")
		}
	}

	if err := w.close(); err != nil {
		return 0, err
	}
	return w.samples, nil
}

func (w *Writer[S]) open(sampleRate uint32) error {
	f, err := os.Create(w.path)
	if err != nil {
		return errs.IO(err, "creating WAV file %s", w.path)
	}
	w.file = f
	w.encoder = wav.NewEncoder(f, int(sampleRate), 16, w.channels, wavAudioFormatPCM)
	return nil
}

func (w *Writer[S]) close() error {
	if w.encoder != nil {
		if err := w.encoder.Close(); err != nil {
			return errs.IO(err, "closing WAV encoder for %s", w.path)
		}
		w.encoder = nil
	}
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		if err != nil {
			return errs.IO(err, "closing WAV file %s", w.path)
		}
	}
	return nil
}

// Abort closes the WAV file if it is still open and removes it, including
// a file that a completed Write has already closed. Safe to call more
// than once; errors from Close are suppressed, matching the "destructors
// must not throw" cleanup policy.
func (w *Writer[S]) Abort() {
	if w.encoder != nil {
		_ = w.encoder.Close()
		w.encoder = nil
	}
	if w.file != nil {
		_ = w.file.Close()
		w.file = nil
	}
	os.Remove(w.path)
}

func channelCount[S sample.Sample[S]]() (int, error) {
	var s S
	switch any(s).(type) {
	case sample.Mono:
		return 1, nil
	case sample.Stereo:
		return 2, nil
	default:
		return 0, errs.Invariant("wavfile: unsupported sample type %T", s)
	}
}

func appendSample[S sample.Sample[S]](data []int, s S) []int {
	switch v := any(s).(type) {
	case sample.Mono:
		return append(data, int(sample.ToInt16(float64(v))))
	case sample.Stereo:
		return append(data, int(sample.ToInt16(v.L)), int(sample.ToInt16(v.R)))
	default:
		return data
	}
}
