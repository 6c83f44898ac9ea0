package main

import (
	"flag"

	"github.com/benmichell/psxdmh/internal/options"
)

// registerOptionFlags binds the common extraction options to fs, seeded
// with opts' values so a YAML config file (if loaded first) supplies the
// defaults a flag doesn't override.
func registerOptionFlags(fs *flag.FlagSet, opts *options.Options) {
	fs.Float64Var(&opts.Volume, "volume", opts.Volume, "output volume (linear amplitude)")
	fs.BoolVar(&opts.Normalize, "normalize", opts.Normalize, "normalize output level to unity peak")
	fs.StringVar(&reverbPresetFlag, "reverb-preset", opts.ReverbPreset.String(), "reverb preset (off, room, studio-small, studio-medium, studio-large, hall, half-echo, space-echo, auto)")
	fs.Float64Var(&opts.ReverbVolume, "reverb-volume", opts.ReverbVolume, "reverb output amplitude")
	fs.Uint64Var(&playCountFlag, "play-count", uint64(opts.PlayCount), "number of times to play a repeating song/track (0 = indefinite)")
	fs.Float64Var(&opts.LeadIn, "lead-in", opts.LeadIn, "seconds of silence to enforce at the start (-1 = leave as observed)")
	fs.Float64Var(&opts.LeadOut, "lead-out", opts.LeadOut, "seconds of silence to enforce at the end (-1 = leave as observed)")
	fs.Float64Var(&opts.MaximumGap, "maximum-gap", opts.MaximumGap, "cap on any silent run within the output, in seconds (-1 = unlimited)")
	fs.Float64Var(&opts.StereoWidth, "stereo-width", opts.StereoWidth, "stereo spread adjustment, in [-1, 1]")
	fs.BoolVar(&opts.RepairPatches, "repair-patches", opts.RepairPatches, "apply known patch repairs before playback")
	fs.BoolVar(&opts.UnlimitedFrequency, "unlimited-frequency", opts.UnlimitedFrequency, "disable the real-hardware pitch clamp")
	fs.Uint64Var(&sampleRateFlag, "sample-rate", uint64(opts.SampleRate), "output sample rate in Hz (0 = operation default)")
	fs.Uint64Var(&highPassFlag, "high-pass", uint64(opts.HighPass), "post-mix high-pass cutoff in Hz (0 = disabled)")
	fs.Uint64Var(&lowPassFlag, "low-pass", uint64(opts.LowPass), "post-mix low-pass cutoff in Hz (0 = disabled)")
	fs.Uint64Var(&sincWindowFlag, "sinc-window", uint64(opts.SincWindow), "sinc resampler half-width")
	fs.StringVar(&opts.SpillDir, "spill-dir", opts.SpillDir, "directory for the normalizer's spill file (empty = system temp dir)")
}

// Package-level scratch variables for flags whose target field isn't a
// float64/bool/string that flag.FlagSet can bind directly.
var (
	reverbPresetFlag string
	playCountFlag    uint64
	sampleRateFlag   uint64
	highPassFlag     uint64
	lowPassFlag      uint64
	sincWindowFlag   uint64
)

// applyScratchFlags copies the scratch variables back into opts after
// fs.Parse, converting and validating the reverb preset name.
func applyScratchFlags(opts *options.Options) error {
	preset, err := options.ParseReverbPreset(reverbPresetFlag)
	if err != nil {
		return err
	}
	opts.ReverbPreset = preset
	opts.PlayCount = uint32(playCountFlag)
	opts.SampleRate = uint32(sampleRateFlag)
	opts.HighPass = uint32(highPassFlag)
	opts.LowPass = uint32(lowPassFlag)
	opts.SincWindow = uint32(sincWindowFlag)
	return nil
}
