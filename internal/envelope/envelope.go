// Package envelope emulates the PSX SPU's ADSR envelope generator,
// producing a mono gain sequence at a fixed 44.1kHz tick rate, independent
// of the eventual output sample rate.
package envelope

import "github.com/benmichell/psxdmh/internal/sample"

// Phase identifies one of the four ADSR phases, plus the terminal
// Stopped state.
type Phase int

const (
	Attack Phase = iota
	Decay
	Sustain
	Release
	Stopped
)

type method int

const (
	linear method = iota
	exponential
)

type direction int

const (
	increase direction = iota
	decrease
)

type phaseConfig struct {
	method    method
	direction direction
	shift     int32
	step      int32
	target    int32
}

// Generator produces the envelope's gain sequence. Construct with the raw
// 16-bit ADS/SR configuration words as read from a sub-instrument record.
type Generator struct {
	configs [4]phaseConfig
	phase   Phase
	volume  int32

	cycleRepeats int32
	cycleWait    int32
	cycleStep    int32
	curWait      int32
	curRepeat    int32
}

// New decodes the ADS/SR configuration words and starts the generator in
// the Attack phase.
func New(ads, sr uint16) *Generator {
	g := &Generator{}
	g.configs[Attack] = attackConfig(ads)
	g.configs[Decay] = decayConfig(ads)
	g.configs[Sustain] = sustainConfig(sr)
	g.configs[Release] = releaseConfig(sr)
	g.enterPhase(Attack)
	return g
}

func attackConfig(ads uint16) phaseConfig {
	m := linear
	if ads&0x8000 != 0 {
		m = exponential
	}
	shift := int32((ads >> 10) & 0x1f)
	step := int32(7 - ((ads >> 8) & 0x03))
	return phaseConfig{method: m, direction: increase, shift: shift, step: step, target: 0x7fff}
}

func decayConfig(ads uint16) phaseConfig {
	shift := int32((ads >> 4) & 0x0f)
	target := int32((ads&0x0f)+1) * 0x800
	return phaseConfig{method: exponential, direction: decrease, shift: shift, step: -8, target: target}
}

func sustainConfig(sr uint16) phaseConfig {
	m := linear
	if sr&0x8000 != 0 {
		m = exponential
	}
	dir := increase
	if sr&0x4000 != 0 {
		dir = decrease
	}
	shift := int32((sr >> 8) & 0x1f)
	var step, target int32
	if dir == increase {
		step = 7 - int32((sr>>6)&0x03)
		target = 0x8000
	} else {
		step = -8 + int32((sr>>6)&0x03)
		target = -1
	}
	return phaseConfig{method: m, direction: dir, shift: shift, step: step, target: target}
}

func releaseConfig(sr uint16) phaseConfig {
	m := linear
	if sr&0x20 != 0 {
		m = exponential
	}
	shift := int32(sr & 0x1f)
	return phaseConfig{method: m, direction: decrease, shift: shift, step: -8, target: 0}
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func (g *Generator) calculateCycle() {
	c := g.configs[g.phase]
	shift := c.shift
	wait := int32(1) << uint(max32(shift-11, 0))
	step := c.step << uint(max32(11-shift, 0))

	if c.method == exponential {
		switch c.direction {
		case increase:
			if g.volume > 0x6000 {
				wait *= 4
			}
		case decrease:
			step = int32((int64(step) * int64(g.volume)) >> 15)
		}
	}

	repeats := int32(1)
	for wait%2 == 0 && step%2 == 0 && wait > 1 {
		wait /= 2
		step /= 2
		repeats *= 2
	}

	g.cycleRepeats = repeats
	g.cycleWait = wait
	g.cycleStep = step
	g.curWait = wait
	g.curRepeat = repeats
}

func (g *Generator) enterPhase(p Phase) {
	g.phase = p
	if p == Stopped {
		return
	}
	g.calculateCycle()
}

func (g *Generator) targetReached() bool {
	c := g.configs[g.phase]
	if c.direction == increase {
		return g.volume >= c.target
	}
	return g.volume <= c.target
}

func nextPhase(p Phase) Phase {
	switch p {
	case Attack:
		return Decay
	case Decay:
		return Sustain
	case Sustain:
		return Sustain
	case Release:
		return Stopped
	default:
		return Stopped
	}
}

func (g *Generator) tick() {
	if g.phase == Stopped {
		return
	}
	g.curWait--
	if g.curWait > 0 {
		return
	}
	g.volume = sample.Clamp(g.volume+g.cycleStep, 0, 0x7fff)
	g.curWait = g.cycleWait
	g.curRepeat--
	if g.curRepeat > 0 {
		return
	}
	if g.targetReached() {
		np := nextPhase(g.phase)
		if np != g.phase {
			g.enterPhase(np)
			return
		}
	}
	if g.phase != Stopped {
		g.calculateCycle()
	}
}

// Next implements module.Module: produces the envelope's current gain and
// advances one tick at the fixed 44.1kHz rate.
func (g *Generator) Next(out *sample.Mono) bool {
	*out = sample.Mono(float64(g.volume) / 32767.0)
	running := g.phase != Stopped
	g.tick()
	return running
}

// IsRunning implements module.Module.
func (g *Generator) IsRunning() bool { return g.phase != Stopped }

// Release force-jumps to the Release phase and recalculates the current
// cycle; triggered externally by a note-off event.
func (g *Generator) Release() {
	g.enterPhase(Release)
}

// Volume returns the raw, un-normalised volume register value.
func (g *Generator) Volume() int32 { return g.volume }

// CurrentPhase reports the generator's phase, used by diagnostics.
func (g *Generator) CurrentPhase() Phase { return g.phase }
