package main

import (
	"flag"

	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/options"
	"github.com/benmichell/psxdmh/internal/pipeline"
	"github.com/benmichell/psxdmh/internal/sample"
	"github.com/benmichell/psxdmh/internal/songplayer"
)

type songCommand struct {
	opts options.Options

	wmdPath   string
	lcdPath   string
	outPath   string
	songIndex int
	progress  bool
}

func (c *songCommand) Name() string { return "song" }
func (c *songCommand) Help() string { return "Extract one song (all its tracks mixed) to a WAV file" }

func (c *songCommand) SetBaseOptions(o options.Options) { c.opts = o }

func (c *songCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&c.wmdPath, "wmd", "", "path to the WMD file")
	fs.StringVar(&c.lcdPath, "lcd", "", "path to the LCD file")
	fs.StringVar(&c.outPath, "out", "", "output WAV path (default: derived from the song's default name)")
	fs.IntVar(&c.songIndex, "song", 0, "song index to extract")
	fs.BoolVar(&c.progress, "progress", false, "report extraction progress")
	registerOptionFlags(fs, &c.opts)
}

func (c *songCommand) Run() error {
	if err := applyScratchFlags(&c.opts); err != nil {
		return err
	}

	w, l, err := loadContainers(c.wmdPath, c.lcdPath, c.opts.RepairPatches)
	if err != nil {
		return err
	}

	sampleRate := pipeline.ResolveSampleRate(c.opts, false)
	player, err := songplayer.New(c.songIndex, w, l, trackConfig(c.opts, sampleRate))
	if err != nil {
		return err
	}

	out := c.outPath
	if out == "" {
		out = pipeline.DefaultSongName(c.songIndex)
	}
	return extractStereo(module.Module[sample.Stereo](player), c.songIndex, c.opts, out, c.progress)
}
