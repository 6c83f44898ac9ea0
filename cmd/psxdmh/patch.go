package main

import (
	"flag"
	"fmt"

	"github.com/benmichell/psxdmh/internal/adpcm"
	"github.com/benmichell/psxdmh/internal/errs"
	"github.com/benmichell/psxdmh/internal/lcd"
	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/options"
	"github.com/benmichell/psxdmh/internal/pipeline"
	"github.com/benmichell/psxdmh/internal/resample"
	"github.com/benmichell/psxdmh/internal/sample"
	"github.com/benmichell/psxdmh/internal/wavfile"
)

// nativePatchRate is the rate ADPCM decode always yields at before any
// pitch-driven resampling a channel would normally apply.
const nativePatchRate = 11025

type patchCommand struct {
	opts options.Options

	lcdPath  string
	outPath  string
	patchID  uint
	progress bool
}

func (c *patchCommand) Name() string { return "patch" }
func (c *patchCommand) Help() string { return "Dump one raw ADPCM patch, decoded but unpitched, to a WAV file" }

func (c *patchCommand) SetBaseOptions(o options.Options) { c.opts = o }

func (c *patchCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&c.lcdPath, "lcd", "", "path to the LCD file")
	fs.StringVar(&c.outPath, "out", "", "output WAV path (default: derived from the patch id)")
	fs.UintVar(&c.patchID, "patch", 0, "patch id to dump")
	fs.BoolVar(&c.progress, "progress", false, "report extraction progress")
	registerOptionFlags(fs, &c.opts)
}

func (c *patchCommand) Run() error {
	if err := applyScratchFlags(&c.opts); err != nil {
		return err
	}
	if c.opts.PlayCount == 0 {
		return errs.Malformed("patch dump requires a finite play-count; got 0 (infinite)")
	}

	l, err := lcd.Load(c.lcdPath)
	if err != nil {
		return err
	}
	if c.opts.RepairPatches {
		if err := l.RepairPatches(); err != nil {
			return err
		}
	}

	patch := l.PatchByID(uint16(c.patchID))
	if patch == nil {
		return errs.Missing("patch id %d not found", c.patchID)
	}

	dec, err := adpcm.NewDecoder(patch.ADPCM, c.opts.PlayCount)
	if err != nil {
		return err
	}

	sampleRate := pipeline.ResolveSampleRate(c.opts, true)
	var source module.Module[sample.Mono] = dec
	if sampleRate != nativePatchRate {
		source = resample.NewLinear[sample.Mono](source, nativePatchRate, sampleRate)
	}

	if err := c.opts.Validate(sampleRate); err != nil {
		return err
	}
	graph := pipelineBuildMono(source, c.opts, sampleRate, c.progress)
	if graph.Normalizer != nil {
		defer graph.Normalizer.Close()
	}

	out := c.outPath
	if out == "" {
		out = fmt.Sprintf("patch%d.wav", c.patchID)
	}

	w, err := wavfile.New[sample.Mono](out)
	if err != nil {
		return err
	}
	written, err := w.Write(graph.Module, sampleRate)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s: %d samples at %d Hz, peak %.2f dBFS, RMS %.2f dBFS\n",
		out, written, sampleRate, graph.Statistics.MaximumDB(), graph.Statistics.RMSDB())
	if graph.Normalizer != nil {
		fmt.Printf("Normalization applied %.2f dB of gain\n", graph.Normalizer.AdjustmentDB())
	}
	return nil
}

func pipelineBuildMono(source module.Module[sample.Mono], opts options.Options, sampleRate uint32, progress bool) *pipeline.MonoGraph {
	return pipeline.BuildMono(source, opts, sampleRate, progressCallback(progress), opts.SpillDir)
}
