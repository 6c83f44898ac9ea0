package main

import (
	"flag"
	"fmt"

	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/options"
	"github.com/benmichell/psxdmh/internal/pipeline"
	"github.com/benmichell/psxdmh/internal/sample"
	"github.com/benmichell/psxdmh/internal/trackplayer"
)

type trackCommand struct {
	opts options.Options

	wmdPath    string
	lcdPath    string
	outPath    string
	songIndex  int
	trackIndex int
	progress   bool
}

func (c *trackCommand) Name() string { return "track" }
func (c *trackCommand) Help() string { return "Extract a single track of a song to a WAV file" }

func (c *trackCommand) SetBaseOptions(o options.Options) { c.opts = o }

func (c *trackCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&c.wmdPath, "wmd", "", "path to the WMD file")
	fs.StringVar(&c.lcdPath, "lcd", "", "path to the LCD file")
	fs.StringVar(&c.outPath, "out", "", "output WAV path (default: derived from the song's default name and track index)")
	fs.IntVar(&c.songIndex, "song", 0, "song index the track belongs to")
	fs.IntVar(&c.trackIndex, "track", 0, "track index within the song")
	fs.BoolVar(&c.progress, "progress", false, "report extraction progress")
	registerOptionFlags(fs, &c.opts)
}

func (c *trackCommand) Run() error {
	if err := applyScratchFlags(&c.opts); err != nil {
		return err
	}

	w, l, err := loadContainers(c.wmdPath, c.lcdPath, c.opts.RepairPatches)
	if err != nil {
		return err
	}

	track, err := w.Track(c.songIndex, c.trackIndex)
	if err != nil {
		return err
	}

	sampleRate := pipeline.ResolveSampleRate(c.opts, false)
	player, err := trackplayer.New(track, w, l, trackConfig(c.opts, sampleRate))
	if err != nil {
		return err
	}

	out := c.outPath
	if out == "" {
		out = fmt.Sprintf("%s.track%d.wav", trimWavExt(pipeline.DefaultSongName(c.songIndex)), c.trackIndex)
	}
	return extractStereo(module.Module[sample.Stereo](player), c.songIndex, c.opts, out, c.progress)
}

func trimWavExt(name string) string {
	const suffix = ".wav"
	if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
		return name[:len(name)-len(suffix)]
	}
	return name
}
