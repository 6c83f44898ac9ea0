package pipeline

import (
	"github.com/benmichell/psxdmh/internal/reverb"
)

type reverbConfig struct {
	preset reverb.Preset
	depth  uint16
}

const firstReverbSong = 90

var defaultReverbTable = [30]reverbConfig{
	{reverb.SpaceEcho, 0x0fff},
	{reverb.SpaceEcho, 0x0fff},
	{reverb.StudioMedium, 0x27ff},
	{reverb.Hall, 0x17ff},
	{reverb.StudioSmall, 0x23ff},
	{reverb.Hall, 0x1fff},
	{reverb.StudioLarge, 0x26ff},
	{reverb.StudioMedium, 0x2dff},
	{reverb.StudioLarge, 0x2fff},
	{reverb.SpaceEcho, 0x0fff},
	{reverb.Hall, 0x1fff},
	{reverb.Hall, 0x1fff},
	{reverb.SpaceEcho, 0x0fff},
	{reverb.Hall, 0x1fff},
	{reverb.StudioMedium, 0x27ff},
	{reverb.SpaceEcho, 0x0fff},
	{reverb.Hall, 0x1fff},
	{reverb.SpaceEcho, 0x0fff},
	{reverb.Hall, 0x1fff},
	{reverb.StudioLarge, 0x2fff},
	{reverb.SpaceEcho, 0x1fff},
	{reverb.SpaceEcho, 0x1fff},
	{reverb.Hall, 0x1fff},
	{reverb.SpaceEcho, 0x1fff},
	{reverb.SpaceEcho, 0x0fff},
	{reverb.SpaceEcho, 0x0fff},
	{reverb.Hall, 0x1fff},
	{reverb.Hall, 0x1fff},
	{reverb.StudioLarge, 0x26ff},
	{reverb.SpaceEcho, 0x0fff},
}

// DefaultReverb resolves the reverb preset and amplitude that the game
// level where songIndex first appears would have used. Songs outside
// [90, 119] have no level association and render dry.
func DefaultReverb(songIndex int) (reverb.Preset, float64) {
	i := songIndex - firstReverbSong
	if i < 0 || i >= len(defaultReverbTable) {
		return reverb.Off, 0
	}
	cfg := defaultReverbTable[i]
	return cfg.preset, float64(cfg.depth) / 0x7fff
}
