package songplayer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmichell/psxdmh/internal/lcd"
	"github.com/benmichell/psxdmh/internal/sample"
	"github.com/benmichell/psxdmh/internal/songplayer"
	"github.com/benmichell/psxdmh/internal/trackplayer"
	"github.com/benmichell/psxdmh/internal/wmd"
)

func finalBlock() []byte {
	b := make([]byte, 16)
	b[1] = 0x01
	return b
}

func twoTrackSong() *wmd.File {
	data := []byte{0x00, 0x11, 60, 127, 0x01, 0x22}
	return &wmd.File{
		Instruments: []wmd.Instrument{
			{SubInstruments: []wmd.SubInstrument{{FirstNote: 0, LastNote: 127, Patch: 1, Volume: 127, Pan: 64, Tuning: 60}}},
		},
		Songs: []wmd.Song{
			{Tracks: []wmd.Track{
				{Instrument: 0, BeatsPerMinute: 120, TicksPerBeat: 480, Data: data},
				{Instrument: 0, BeatsPerMinute: 120, TicksPerBeat: 480, Data: data},
			}},
		},
	}
}

func TestSongPlayerSumsTracksUntilAllFinish(t *testing.T) {
	w := twoTrackSong()
	l := lcd.New()
	l.SetPatchByID(1, finalBlock())

	cfg := trackplayer.Config{SampleRate: 44100, SincWindow: 4, PlayCount: 1}
	p, err := songplayer.New(0, w, l, cfg)
	require.NoError(t, err)

	var out sample.Stereo
	count := 0
	for p.Next(&out) {
		count++
		if count > 1000000 {
			t.Fatal("song player never finished")
		}
	}
	assert.False(t, p.IsRunning())
	assert.False(t, p.FailedToRepeat())
}

func TestSongIndexOutOfRangeFails(t *testing.T) {
	w := twoTrackSong()
	l := lcd.New()
	cfg := trackplayer.Config{SampleRate: 44100, SincWindow: 4, PlayCount: 1}
	_, err := songplayer.New(5, w, l, cfg)
	assert.Error(t, err)
}
