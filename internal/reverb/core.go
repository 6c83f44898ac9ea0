package reverb

import (
	"math"

	"github.com/benmichell/psxdmh/internal/module"
	"github.com/benmichell/psxdmh/internal/sample"
)

// psxSilence is the PSX SPU's own definition of silence: one 16-bit
// quantisation step.
const psxSilence = 1.0 / 32767.0

// Core implements the PSX SPU reverb DSP at a fixed internal rate (the
// caller is responsible for resampling to/from 22.05kHz, see Wrap).
type Core struct {
	source module.Module[sample.Stereo]
	preset Preset
	volume sample.Stereo

	buffer  []float64
	current int

	dapf1, dapf2                                 int
	viir, vcomb1, vcomb2, vcomb3, vcomb4          float64
	vwall, vapf1, vapf2                           float64
	mlsame, mrsame                                int
	mlcomb1, mrcomb1, mlcomb2, mrcomb2           int
	dlsame, drsame                                 int
	mldiff, mrdiff                                 int
	mlcomb3, mrcomb3, mlcomb4, mrcomb4           int
	dldiff, drdiff                                 int
	mlapf1, mrapf1, mlapf2, mrapf2                 int
	vlin, vrin                                     float64

	mlsame1, mrsame1, mldiff1, mrdiff1             int
	mlapf1dapf1, mrapf1dapf1, mlapf2dapf2, mrapf2dapf2 int

	silence             float64
	bufferIsSilent      bool
	lastUnsilentSample  int
}

func regToVolume(v uint16) float64 { return float64(int16(v)) / 32768.0 }
func regToOffset(v uint16) int     { return int(v) * 8 / 2 }

// NewCore constructs the reverb core for a non-off preset. volume is the
// reverb output volume, separately scalable per channel.
func NewCore(source module.Module[sample.Stereo], preset Preset, volume sample.Stereo) *Core {
	c := &Core{
		source: source,
		preset: preset,
		volume: volume,
	}
	size := bufferSize[preset]
	c.buffer = make([]float64, size)

	maxVolume := math.Max(volume.L, volume.R)
	c.silence = psxSilence / math.Max(maxVolume, 0.001)

	r := registers[preset]
	c.dapf1 = regToOffset(r[0x00])
	c.dapf2 = regToOffset(r[0x01])
	c.viir = regToVolume(r[0x02])
	c.vcomb1 = regToVolume(r[0x03])
	c.vcomb2 = regToVolume(r[0x04])
	c.vcomb3 = regToVolume(r[0x05])
	c.vcomb4 = regToVolume(r[0x06])
	c.vwall = regToVolume(r[0x07])
	c.vapf1 = regToVolume(r[0x08])
	c.vapf2 = regToVolume(r[0x09])
	c.mlsame = regToOffset(r[0x0a])
	c.mrsame = regToOffset(r[0x0b])
	c.mlcomb1 = regToOffset(r[0x0c])
	c.mrcomb1 = regToOffset(r[0x0d])
	c.mlcomb2 = regToOffset(r[0x0e])
	c.mrcomb2 = regToOffset(r[0x0f])
	c.dlsame = regToOffset(r[0x10])
	c.drsame = regToOffset(r[0x11])
	c.mldiff = regToOffset(r[0x12])
	c.mrdiff = regToOffset(r[0x13])
	c.mlcomb3 = regToOffset(r[0x14])
	c.mrcomb3 = regToOffset(r[0x15])
	c.mlcomb4 = regToOffset(r[0x16])
	c.mrcomb4 = regToOffset(r[0x17])
	c.dldiff = regToOffset(r[0x18])
	c.drdiff = regToOffset(r[0x19])
	c.mlapf1 = regToOffset(r[0x1a])
	c.mrapf1 = regToOffset(r[0x1b])
	c.mlapf2 = regToOffset(r[0x1c])
	c.mrapf2 = regToOffset(r[0x1d])
	c.vlin = regToVolume(r[0x1e])
	c.vrin = regToVolume(r[0x1f])

	n := len(c.buffer)
	c.mlsame1 = c.wrapOffset(c.mlsame + n - 1)
	c.mrsame1 = c.wrapOffset(c.mrsame + n - 1)
	c.mldiff1 = c.wrapOffset(c.mldiff + n - 1)
	c.mrdiff1 = c.wrapOffset(c.mrdiff + n - 1)
	c.mlapf1dapf1 = c.wrapOffset(c.mlapf1 + n - c.dapf1)
	c.mrapf1dapf1 = c.wrapOffset(c.mrapf1 + n - c.dapf1)
	c.mlapf2dapf2 = c.wrapOffset(c.mlapf2 + n - c.dapf2)
	c.mrapf2dapf2 = c.wrapOffset(c.mrapf2 + n - c.dapf2)

	return c
}

func (c *Core) wrapOffset(offset int) int {
	n := len(c.buffer)
	if offset < n {
		return offset
	}
	return offset - n
}

func (c *Core) readBuffer(offset int) float64 {
	return c.buffer[c.wrapOffset(c.current+offset)]
}

func (c *Core) writeBuffer(offset int, v float64) {
	if math.Abs(v) < sample.DenormLimit {
		v = 0
	}
	c.buffer[c.wrapOffset(c.current+offset)] = v
}

// IsRunning reports whether the source is still producing samples, or (if
// not) whether the buffer still holds energy above the silence
// threshold. The scan resumes from the last known non-silent cursor
// rather than restarting from zero each call.
func (c *Core) IsRunning() bool {
	if c.source.IsRunning() {
		return true
	}
	if c.bufferIsSilent {
		return false
	}
	start := c.lastUnsilentSample
	for {
		if math.Abs(c.buffer[c.lastUnsilentSample]) > c.silence {
			break
		}
		c.lastUnsilentSample++
		if c.lastUnsilentSample >= len(c.buffer) {
			c.lastUnsilentSample = 0
		}
		if c.lastUnsilentSample == start {
			break
		}
	}
	c.bufferIsSilent = math.Abs(c.buffer[c.lastUnsilentSample]) <= c.silence
	return !c.bufferIsSilent
}

// Next implements module.Module.
func (c *Core) Next(out *sample.Stereo) bool {
	var s sample.Stereo
	sourceLive := c.source.Next(&s)
	live := sourceLive || c.IsRunning()
	if !live {
		*out = sample.Stereo{}
		return false
	}

	lin := c.vlin * s.L
	rin := c.vrin * s.R

	prevMLSame := c.readBuffer(c.mlsame1)
	prevMRSame := c.readBuffer(c.mrsame1)
	c.writeBuffer(c.mlsame, (lin+c.readBuffer(c.dlsame)*c.vwall-prevMLSame)*c.viir+prevMLSame)
	c.writeBuffer(c.mrsame, (rin+c.readBuffer(c.drsame)*c.vwall-prevMRSame)*c.viir+prevMRSame)

	prevMLDiff := c.readBuffer(c.mldiff1)
	prevMRDiff := c.readBuffer(c.mrdiff1)
	c.writeBuffer(c.mldiff, (lin+c.readBuffer(c.drdiff)*c.vwall-prevMLDiff)*c.viir+prevMLDiff)
	c.writeBuffer(c.mrdiff, (rin+c.readBuffer(c.dldiff)*c.vwall-prevMRDiff)*c.viir+prevMRDiff)

	lout := c.vcomb1*c.readBuffer(c.mlcomb1) + c.vcomb2*c.readBuffer(c.mlcomb2) + c.vcomb3*c.readBuffer(c.mlcomb3) + c.vcomb4*c.readBuffer(c.mlcomb4)
	rout := c.vcomb1*c.readBuffer(c.mrcomb1) + c.vcomb2*c.readBuffer(c.mrcomb2) + c.vcomb3*c.readBuffer(c.mrcomb3) + c.vcomb4*c.readBuffer(c.mrcomb4)

	lout -= c.vapf1 * c.readBuffer(c.mlapf1dapf1)
	c.writeBuffer(c.mlapf1, lout)
	lout = lout*c.vapf1 + c.readBuffer(c.mlapf1dapf1)
	rout -= c.vapf1 * c.readBuffer(c.mrapf1dapf1)
	c.writeBuffer(c.mrapf1, rout)
	rout = rout*c.vapf1 + c.readBuffer(c.mrapf1dapf1)

	lout -= c.vapf2 * c.readBuffer(c.mlapf2dapf2)
	c.writeBuffer(c.mlapf2, lout)
	lout = lout*c.vapf2 + c.readBuffer(c.mlapf2dapf2)
	rout -= c.vapf2 * c.readBuffer(c.mrapf2dapf2)
	c.writeBuffer(c.mrapf2, rout)
	rout = rout*c.vapf2 + c.readBuffer(c.mrapf2dapf2)

	result := sample.Stereo{L: c.volume.L * lout, R: c.volume.R * rout}.FlushDenorm()
	*out = result

	c.current++
	if c.current >= len(c.buffer) {
		c.current = 0
	}
	return true
}
