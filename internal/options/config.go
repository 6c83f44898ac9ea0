package options

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/benmichell/psxdmh/internal/errs"
)

// fileOptions mirrors Options with every field optional, so a config
// file only needs to name the fields it wants to override.
type fileOptions struct {
	Volume             *float64 `yaml:"volume"`
	Normalize          *bool    `yaml:"normalize"`
	ReverbPreset       *string  `yaml:"reverb_preset"`
	ReverbVolume       *float64 `yaml:"reverb_volume"`
	PlayCount          *uint32  `yaml:"play_count"`
	LeadIn             *float64 `yaml:"lead_in"`
	LeadOut            *float64 `yaml:"lead_out"`
	MaximumGap         *float64 `yaml:"maximum_gap"`
	StereoWidth        *float64 `yaml:"stereo_width"`
	RepairPatches      *bool    `yaml:"repair_patches"`
	UnlimitedFrequency *bool    `yaml:"unlimited_frequency"`
	SampleRate         *uint32  `yaml:"sample_rate"`
	HighPass           *uint32  `yaml:"high_pass"`
	LowPass            *uint32  `yaml:"low_pass"`
	SincWindow         *uint32  `yaml:"sinc_window"`
	SpillDir           *string  `yaml:"spill_dir"`
}

// LoadFile reads a YAML config file and overlays any fields it sets on
// top of base, returning the merged result. Fields the file omits are
// left at base's value.
func LoadFile(path string, base Options) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, errs.IO(err, "reading option config %q", path)
	}

	var fo fileOptions
	if err := yaml.Unmarshal(data, &fo); err != nil {
		return base, errs.Malformed("parsing option config %q: %v", path, err)
	}

	merged := base
	if fo.Volume != nil {
		merged.Volume = *fo.Volume
	}
	if fo.Normalize != nil {
		merged.Normalize = *fo.Normalize
	}
	if fo.ReverbPreset != nil {
		p, err := ParseReverbPreset(*fo.ReverbPreset)
		if err != nil {
			return base, err
		}
		merged.ReverbPreset = p
	}
	if fo.ReverbVolume != nil {
		merged.ReverbVolume = *fo.ReverbVolume
	}
	if fo.PlayCount != nil {
		merged.PlayCount = *fo.PlayCount
	}
	if fo.LeadIn != nil {
		merged.LeadIn = *fo.LeadIn
	}
	if fo.LeadOut != nil {
		merged.LeadOut = *fo.LeadOut
	}
	if fo.MaximumGap != nil {
		merged.MaximumGap = *fo.MaximumGap
	}
	if fo.StereoWidth != nil {
		merged.StereoWidth = *fo.StereoWidth
	}
	if fo.RepairPatches != nil {
		merged.RepairPatches = *fo.RepairPatches
	}
	if fo.UnlimitedFrequency != nil {
		merged.UnlimitedFrequency = *fo.UnlimitedFrequency
	}
	if fo.SampleRate != nil {
		merged.SampleRate = *fo.SampleRate
	}
	if fo.HighPass != nil {
		merged.HighPass = *fo.HighPass
	}
	if fo.LowPass != nil {
		merged.LowPass = *fo.LowPass
	}
	if fo.SincWindow != nil {
		merged.SincWindow = *fo.SincWindow
	}
	if fo.SpillDir != nil {
		merged.SpillDir = *fo.SpillDir
	}
	return merged, nil
}
