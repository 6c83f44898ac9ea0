// Package channel implements the voice channel: the composite leaf that
// plays one active note, chaining ADPCM decode, anti-aliasing filter, and
// sinc resampling against an independently-resampled ADSR envelope.
package channel

import (
	"sync"
	"sync/atomic"

	"github.com/benmichell/psxdmh/internal/adpcm"
	"github.com/benmichell/psxdmh/internal/envelope"
	"github.com/benmichell/psxdmh/internal/filter"
	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/resample"
	"github.com/benmichell/psxdmh/internal/sample"
)

// MaxFrequency is the PSX SPU's hardware frequency clamp: 4x the native
// 44.1kHz rate.
const MaxFrequency = 4 * 44100

// filterFix maps a patch id to an alternate low-pass cutoff (as a
// fraction of the output rate) used when repair is enabled, overriding
// the default 0.33.
var filterFix = map[uint16]float64{
	104: 0.15,
	112: 0.15,
	128: 0.20,
	130: 0.20,
}

const defaultCutoff = 0.33

var (
	currentChannels int64
	maximumChannels int64
)

// CurrentChannels returns the number of channels presently alive. Used
// for diagnostics only; may be safely stale.
func CurrentChannels() int64 { return atomic.LoadInt64(&currentChannels) }

// MaximumChannels returns the high-water mark of concurrent channels.
func MaximumChannels() int64 { return atomic.LoadInt64(&maximumChannels) }

var channelsMu sync.Mutex

func trackStart() {
	channelsMu.Lock()
	defer channelsMu.Unlock()
	currentChannels++
	if currentChannels > maximumChannels {
		maximumChannels = currentChannels
	}
}

func trackStop() {
	channelsMu.Lock()
	defer channelsMu.Unlock()
	currentChannels--
}

// LimitFrequency clamps freq to at least 1, and to MaxFrequency when
// clamping is enabled.
func LimitFrequency(freq uint32, limit bool) uint32 {
	if freq == 0 {
		freq = 1
	}
	if limit && freq > MaxFrequency {
		freq = MaxFrequency
	}
	return freq
}

// Channel is one active voice: a patch stream scaled by an independently
// clocked envelope, panned to stereo.
type Channel struct {
	waveform module.Module[sample.Mono]
	lpFilter *filter.Mono
	sinc     *resample.Sinc[sample.Mono]

	env       *envelope.Generator
	envResamp *resample.Linear[sample.Mono]

	volLeft, volRight float64
	note              uint8
	running           bool
}

// New constructs a channel for one note-on. patchID selects the low-pass
// repair override (if repairEnabled); sampleRate is the output rate;
// sincWindow is the configured Lanczos half-width.
func New(patchID uint16, adpcmData []byte, freq uint32, masterVolume float64, pan uint8,
	spuADS, spuSR uint16, sampleRate uint32, sincWindow uint32, limitFreq, repairEnabled bool) (*Channel, error) {

	dec, err := adpcm.NewDecoder(adpcmData, 0)
	if err != nil {
		return nil, err
	}

	cutoff := defaultCutoff
	if repairEnabled {
		if c, ok := filterFix[patchID]; ok {
			cutoff = c
		}
	}

	f := filter.NewMono(module.Module[sample.Mono](dec), cutoff, filter.LowPass)
	freq = LimitFrequency(freq, limitFreq)
	sinc := resample.NewSinc[sample.Mono](module.Module[sample.Mono](f), sincWindow, freq, sampleRate)

	env := envelope.New(spuADS, spuSR)
	var envSource module.Module[sample.Mono] = env
	var envResamp *resample.Linear[sample.Mono]
	if sampleRate != 44100 {
		envResamp = resample.NewLinear[sample.Mono](envSource, 44100, sampleRate)
	}

	volLeft, volRight := masterVolume2(masterVolume, pan)

	c := &Channel{
		waveform:  module.Module[sample.Mono](f),
		lpFilter:  f,
		sinc:      sinc,
		env:       env,
		envResamp: envResamp,
		volLeft:   volLeft,
		volRight:  volRight,
		running:   true,
	}
	trackStart()
	return c, nil
}

func masterVolume2(masterVolume float64, pan uint8) (left, right float64) {
	left = masterVolume * float64(128-int(pan)) / 128.0
	right = masterVolume * float64(int(pan)+1) / 128.0
	return
}

// Note returns the MIDI note number this channel was started for, used
// to locate it on note-off.
func (c *Channel) Note() uint8 { return c.note }

// SetNote tags this channel with the note that started it.
func (c *Channel) SetNote(n uint8) { c.note = n }

// SetFrequency updates the sinc resampler's input rate, implementing
// pitch bend on an already-playing channel.
func (c *Channel) SetFrequency(freq uint32, limitFreq bool) {
	c.sinc.SetRateIn(LimitFrequency(freq, limitFreq))
}

// Release triggers the envelope's release phase, in response to note-off.
func (c *Channel) Release() { c.env.Release() }

// Next implements module.Module[sample.Stereo].
func (c *Channel) Next(out *sample.Stereo) bool {
	if !c.running {
		*out = sample.Stereo{}
		return false
	}

	var w, e sample.Mono
	okW := c.sinc.Next(&w)
	var okE bool
	if c.envResamp != nil {
		okE = c.envResamp.Next(&e)
	} else {
		okE = c.env.Next(&e)
	}

	s := float64(w) * float64(e)
	*out = sample.Stereo{L: s * c.volLeft, R: s * c.volRight}

	if !okW || !okE {
		c.running = false
		trackStop()
		// the current sample is still valid output, so this call returns
		// true; IsRunning reports false from here on and the next call
		// returns false.
		return true
	}
	return true
}

// IsRunning implements module.Module[sample.Stereo].
func (c *Channel) IsRunning() bool { return c.running }
