package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/benmichell/psxdmh/internal/lcd"
	"github.com/benmichell/psxdmh/internal/options"
	"github.com/benmichell/psxdmh/internal/pipeline"
	"github.com/benmichell/psxdmh/internal/wmd"
)

// listCommand is a diagnostics convenience, out of scope for audio
// correctness: it dumps the songs/tracks a WMD file defines and the
// patches an LCD file contains, without playing anything back.
type listCommand struct {
	wmdPath string
	lcdPath string
}

func (c *listCommand) Name() string { return "list" }
func (c *listCommand) Help() string { return "List the songs/tracks in a WMD file and patches in an LCD file" }

func (c *listCommand) SetBaseOptions(options.Options) {}

func (c *listCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&c.wmdPath, "wmd", "", "path to a WMD file to list")
	fs.StringVar(&c.lcdPath, "lcd", "", "path to an LCD file to list")
}

func (c *listCommand) Run() error {
	if c.wmdPath == "" && c.lcdPath == "" {
		return fmt.Errorf("list requires at least one of -wmd or -lcd")
	}
	if c.wmdPath != "" {
		if err := c.listWMD(); err != nil {
			return err
		}
	}
	if c.lcdPath != "" {
		if err := c.listLCD(); err != nil {
			return err
		}
	}
	return nil
}

func (c *listCommand) listWMD() error {
	w, err := wmd.Load(c.wmdPath)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d instruments, %d songs\n", c.wmdPath, len(w.Instruments), len(w.Songs))
	for i, song := range w.Songs {
		fmt.Printf("  Song %d (%s): %d track(s)\n", i, pipeline.DefaultSongName(i), len(song.Tracks))
		for t, track := range song.Tracks {
			fmt.Printf("    Track %d: instrument %d, %d BPM, repeat=%v\n", t, track.Instrument, track.BeatsPerMinute, track.Repeat)
		}
	}
	return nil
}

func (c *listCommand) listLCD() error {
	l, err := lcd.Load(c.lcdPath)
	if err != nil {
		return err
	}
	l.Dump(os.Stdout)
	return nil
}
