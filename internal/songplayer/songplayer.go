// Package songplayer mixes the track players for every track of one song.
package songplayer

import (
	"github.com/benmichell/psxdmh/internal/errs"
	"github.com/benmichell/psxdmh/internal/lcd"
	"github.com/benmichell/psxdmh/internal/sample"
	"github.com/benmichell/psxdmh/internal/trackplayer"
	"github.com/benmichell/psxdmh/internal/wmd"
)

// Player owns one track player per track of a song and sums their output.
type Player struct {
	tracks []*trackplayer.Player
}

// New constructs a player for every track of the song at songIndex.
func New(songIndex int, w *wmd.File, l *lcd.File, cfg trackplayer.Config) (*Player, error) {
	if songIndex < 0 || songIndex >= len(w.Songs) {
		return nil, errs.Missing("song index %d out of range", songIndex)
	}
	song := &w.Songs[songIndex]

	p := &Player{tracks: make([]*trackplayer.Player, len(song.Tracks))}
	for i := range song.Tracks {
		tp, err := trackplayer.New(&song.Tracks[i], w, l, cfg)
		if err != nil {
			return nil, err
		}
		p.tracks[i] = tp
	}
	return p, nil
}

// IsRunning implements module.Module.
func (p *Player) IsRunning() bool {
	for _, t := range p.tracks {
		if t.IsRunning() {
			return true
		}
	}
	return false
}

// Next implements module.Module.
func (p *Player) Next(out *sample.Stereo) bool {
	var sum sample.Stereo
	live := false
	for _, t := range p.tracks {
		var s sample.Stereo
		if t.Next(&s) {
			live = true
		}
		sum = sum.Add(s)
	}
	*out = sum
	return live
}

// FailedToRepeat reports whether any track had repeats outstanding that it
// never got to perform because its stream ended without a jump-to-marker.
func (p *Player) FailedToRepeat() bool {
	for _, t := range p.tracks {
		if t.FailedToRepeat() {
			return true
		}
	}
	return false
}
