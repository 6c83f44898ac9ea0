package passive

import (
	"math"
	"time"

	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/sample"
)

// Mode selects how much the statistics module tracks.
type Mode int

const (
	// Progress tracks only extraction progress (wall-clock rate).
	Progress Mode = iota
	// Detailed additionally tracks peak magnitude and RMS level.
	Detailed
)

// Callback reports extraction progress once per second of generated
// audio. rate is song-seconds-per-wall-second and is 0 until enough
// samples have passed to estimate it.
type Callback func(seconds uint32, rate float64, operation string)

// Statistics observes a stream, reporting progress via callback and,
// in Detailed mode, accumulating peak magnitude and RMS level.
type Statistics[S sample.Sample[S]] struct {
	source    module.Module[S]
	mode      Mode
	rate      uint32
	callback  Callback
	operation string

	startTime           time.Time
	lastRateHalfSeconds uint32
	extractionRate      float64

	samples                uint64
	samplesUntilNextSecond uint32

	maximum  float64
	rmsTotal float64
}

// NewStatistics constructs a statistics module. rate is the source's
// sample rate, used to derive song-seconds-elapsed for the callback.
func NewStatistics[S sample.Sample[S]](source module.Module[S], mode Mode, rate uint32, callback Callback, operation string) *Statistics[S] {
	return &Statistics[S]{
		source:                 source,
		mode:                   mode,
		rate:                   rate,
		callback:               callback,
		operation:              operation,
		samplesUntilNextSecond: rate,
	}
}

// IsRunning implements module.Module.
func (s *Statistics[S]) IsRunning() bool { return s.source.IsRunning() }

// Next implements module.Module.
func (s *Statistics[S]) Next(out *S) bool {
	if s.samples == 0 {
		s.startTime = time.Now()
	}
	live := s.source.Next(out)
	if !live {
		return false
	}
	s.samples++

	if s.mode == Detailed {
		m := (*out).Magnitude()
		if m > s.maximum {
			s.maximum = m
		}
		s.rmsTotal += m * m
	}

	s.samplesUntilNextSecond--
	if s.samplesUntilNextSecond == 0 {
		s.samplesUntilNextSecond = s.rate
		songSeconds := uint32(s.samples / uint64(s.rate))
		elapsed := time.Since(s.startTime)
		elapsedHalfSeconds := uint32(2 * elapsed.Seconds())
		if elapsedHalfSeconds != s.lastRateHalfSeconds {
			if elapsed.Seconds() > 0 {
				s.extractionRate = sample.Clamp(float64(songSeconds)/elapsed.Seconds(), 0.0, 1000000.0)
			}
			s.lastRateHalfSeconds = elapsedHalfSeconds
		}
		if s.callback != nil {
			s.callback(songSeconds, s.extractionRate, s.operation)
		}
	}
	return live
}

// ExtractionRate returns the last calculated song-seconds-per-wall-second
// rate; 0 until enough data has accumulated to estimate it.
func (s *Statistics[S]) ExtractionRate() float64 { return s.extractionRate }

// MaximumAmplitude returns the peak magnitude observed. Only meaningful
// in Detailed mode.
func (s *Statistics[S]) MaximumAmplitude() float64 { return s.maximum }

// MaximumDB returns MaximumAmplitude in decibels. Only meaningful in
// Detailed mode.
func (s *Statistics[S]) MaximumDB() float64 { return sample.AmplitudeToDecibels(s.maximum) }

// RMSDB returns the RMS level of everything observed so far, in
// decibels. Only meaningful in Detailed mode.
func (s *Statistics[S]) RMSDB() float64 {
	if s.samples == 0 {
		return 0
	}
	return sample.AmplitudeToDecibels(math.Sqrt(s.rmsTotal / float64(s.samples)))
}
