package wavfile_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/sample"
	"github.com/benmichell/psxdmh/internal/wavfile"
)

func readRIFFHeader(t *testing.T, path string) (riffSize, dataSize uint32) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "RIFF", string(data[0:4]))
	riffSize = binary.LittleEndian.Uint32(data[4:8])
	require.Equal(t, "WAVE", string(data[8:12]))
	require.Equal(t, "data", string(data[36:40]))
	dataSize = binary.LittleEndian.Uint32(data[40:44])
	return riffSize, dataSize
}

func TestWriteMonoProducesCanonicalHeaderSizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.wav")

	n := 441000
	data := make([]sample.Mono, n)
	for i := range data {
		data[i] = 0.1
	}
	src := module.Slice(data)

	w, err := wavfile.New[sample.Mono](path)
	require.NoError(t, err)
	written, err := w.Write(module.Module[sample.Mono](src), 44100)
	require.NoError(t, err)
	assert.Equal(t, uint32(n), written)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(44+n*2), info.Size())

	riffSize, dataSize := readRIFFHeader(t, path)
	assert.Equal(t, uint32(36+n*2), riffSize)
	assert.Equal(t, uint32(n*2), dataSize)
}

func TestWriteStereoDoublesBytesPerSample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.wav")

	data := []sample.Stereo{{L: 0.1, R: -0.1}, {L: 0.2, R: -0.2}}
	src := module.Slice(data)

	w, err := wavfile.New[sample.Stereo](path)
	require.NoError(t, err)
	written, err := w.Write(module.Module[sample.Stereo](src), 22050)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), written)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(44+2*2*2), info.Size())
}

func TestAbortRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aborted.wav")

	w, err := wavfile.New[sample.Mono](path)
	require.NoError(t, err)
	src := module.Slice([]sample.Mono{0.1, 0.2})
	_, err = w.Write(module.Module[sample.Mono](src), 44100)
	require.NoError(t, err)

	w.Abort()
	assert.NoFileExists(t, path)
}
