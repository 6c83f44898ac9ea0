package main

import (
	"fmt"
	"os"

	"github.com/benmichell/psxdmh/internal/lcd"
	"github.com/benmichell/psxdmh/internal/log"
	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/options"
	"github.com/benmichell/psxdmh/internal/passive"
	"github.com/benmichell/psxdmh/internal/pipeline"
	"github.com/benmichell/psxdmh/internal/sample"
	"github.com/benmichell/psxdmh/internal/trackplayer"
	"github.com/benmichell/psxdmh/internal/wavfile"
	"github.com/benmichell/psxdmh/internal/wmd"
)

// loadContainers reads the WMD and LCD files, applying patch repair when
// requested before anything is played back from them.
func loadContainers(wmdPath, lcdPath string, repair bool) (*wmd.File, *lcd.File, error) {
	w, err := wmd.Load(wmdPath)
	if err != nil {
		return nil, nil, err
	}
	l, err := lcd.Load(lcdPath)
	if err != nil {
		return nil, nil, err
	}
	if repair {
		if err := l.RepairPatches(); err != nil {
			return nil, nil, err
		}
	}
	return w, l, nil
}

// trackConfig derives a trackplayer.Config from the resolved options.
func trackConfig(opts options.Options, sampleRate uint32) trackplayer.Config {
	return trackplayer.Config{
		SampleRate:     sampleRate,
		SincWindow:     opts.SincWindow,
		LimitFrequency: !opts.UnlimitedFrequency,
		RepairPatches:  opts.RepairPatches,
		PlayCount:      opts.PlayCount,
		StereoWidth:    opts.StereoWidth,
	}
}

// progressCallback prints one line per second of extracted audio when
// progress reporting is enabled.
func progressCallback(enabled bool) passive.Callback {
	if !enabled {
		return nil
	}
	logger := log.GetLogger()
	return func(seconds uint32, rate float64, operation string) {
		logger.Infof("%s %ds (%.1fx realtime)", operation, seconds, rate)
	}
}

// extractStereo runs source through the pipeline for songIndex and
// writes the result to outPath, reporting a one-line summary.
func extractStereo(source module.Module[sample.Stereo], songIndex int, opts options.Options, outPath string, progress bool) error {
	sampleRate := pipeline.ResolveSampleRate(opts, false)
	if err := opts.Validate(sampleRate); err != nil {
		return err
	}

	graph, err := pipeline.Build(source, songIndex, opts, sampleRate, progressCallback(progress), opts.SpillDir)
	if err != nil {
		return err
	}
	if graph.Normalizer != nil {
		defer graph.Normalizer.Close()
	}

	w, err := wavfile.New[sample.Stereo](outPath)
	if err != nil {
		return err
	}
	written, err := w.Write(graph.Module, sampleRate)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Wrote %s: %d samples at %d Hz, peak %.2f dBFS, RMS %.2f dBFS\n",
		outPath, written, sampleRate, graph.Statistics.MaximumDB(), graph.Statistics.RMSDB())
	if graph.Normalizer != nil {
		fmt.Fprintf(os.Stdout, "Normalization applied %.2f dB of gain\n", graph.Normalizer.AdjustmentDB())
	}
	return nil
}
