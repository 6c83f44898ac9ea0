package envelope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/benmichell/psxdmh/internal/envelope"
	"github.com/benmichell/psxdmh/internal/sample"
)

// S2 from the spec's literal fixtures.
func TestAttackReachesFullVolume(t *testing.T) {
	g := envelope.New(0x0000, 0x0000)
	var out sample.Mono
	reached := false
	for i := 0; i < 32768; i++ {
		g.Next(&out)
		if g.Volume() >= 0x7fff {
			reached = true
			break
		}
	}
	assert.True(t, reached)
}

func TestDecayTargetsExpectedLevel(t *testing.T) {
	g := envelope.New(0x0000, 0x0000)
	var out sample.Mono
	for i := 0; i < 32768 && g.CurrentPhase() == envelope.Attack; i++ {
		g.Next(&out)
	}
	for i := 0; i < 65536 && g.CurrentPhase() == envelope.Decay; i++ {
		g.Next(&out)
	}
	assert.Equal(t, envelope.Sustain, g.CurrentPhase())
	assert.LessOrEqual(t, g.Volume(), int32(0x0800+1))
}

func TestReleaseDrivesToZero(t *testing.T) {
	g := envelope.New(0x0000, 0x0000)
	var out sample.Mono
	for i := 0; i < 200000 && g.CurrentPhase() != envelope.Sustain; i++ {
		g.Next(&out)
	}
	g.Release()
	assert.Equal(t, envelope.Release, g.CurrentPhase())
	for i := 0; i < 32768 && g.IsRunning(); i++ {
		g.Next(&out)
	}
	assert.False(t, g.IsRunning())
	assert.Equal(t, int32(0), g.Volume())
}

func TestOutputAlwaysInUnitRange(t *testing.T) {
	g := envelope.New(0x1234, 0x5678)
	var out sample.Mono
	for i := 0; i < 5000; i++ {
		g.Next(&out)
		assert.GreaterOrEqual(t, float64(out), 0.0)
		assert.LessOrEqual(t, float64(out), 1.0001)
	}
}
