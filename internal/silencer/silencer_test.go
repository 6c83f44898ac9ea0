package silencer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/benmichell/psxdmh/internal/sample"
	"github.com/benmichell/psxdmh/internal/silencer"
)

type monoSource struct {
	values []sample.Mono
	pos    int
}

func (s *monoSource) Next(out *sample.Mono) bool {
	if s.pos >= len(s.values) {
		*out = 0
		return false
	}
	*out = s.values[s.pos]
	s.pos++
	return true
}

func (s *monoSource) IsRunning() bool { return s.pos < len(s.values) }

func drain(t *testing.T, sil *silencer.Silencer[sample.Mono]) []sample.Mono {
	t.Helper()
	var out []sample.Mono
	var v sample.Mono
	for i := 0; i < 1000000; i++ {
		if !sil.Next(&v) {
			break
		}
		out = append(out, v)
	}
	assert.False(t, sil.IsRunning())
	return out
}

func TestLeadInPadsSilenceToConfiguredLength(t *testing.T) {
	src := &monoSource{values: []sample.Mono{0, 0, 0.5, 0, 0.2, 0, 0}}
	sil := silencer.New[sample.Mono](src, 3, -1, -1)

	out := drain(t, sil)

	require := []sample.Mono{0, 0, 0, 0.5, 0, 0.2, 0, 0}
	assert.Equal(t, require, out)
}

func TestLeadInOfZeroDropsLeadingSilence(t *testing.T) {
	src := &monoSource{values: []sample.Mono{0, 0, 0.5, 0, 0.2}}
	sil := silencer.New[sample.Mono](src, 0, -1, -1)

	out := drain(t, sil)

	assert.Equal(t, []sample.Mono{0.5, 0, 0.2}, out)
}

func TestNegativeLeadInLeavesObservedSilenceUntouched(t *testing.T) {
	src := &monoSource{values: []sample.Mono{0, 0, 0.5, 0, 0.2}}
	sil := silencer.New[sample.Mono](src, -1, -1, -1)

	out := drain(t, sil)

	assert.Equal(t, []sample.Mono{0, 0, 0.5, 0, 0.2}, out)
}

func TestGapIsClampedToConfiguredMaximum(t *testing.T) {
	src := &monoSource{values: []sample.Mono{0.5, 0, 0, 0, 0, 0, 0.2}}
	sil := silencer.New[sample.Mono](src, -1, -1, 2)

	out := drain(t, sil)

	assert.Equal(t, []sample.Mono{0.5, 0, 0, 0.2}, out)
}

func TestNegativeGapLeavesObservedGapUntouched(t *testing.T) {
	src := &monoSource{values: []sample.Mono{0.5, 0, 0, 0, 0, 0, 0.2}}
	sil := silencer.New[sample.Mono](src, -1, -1, -1)

	out := drain(t, sil)

	assert.Equal(t, []sample.Mono{0.5, 0, 0, 0, 0, 0, 0.2}, out)
}

func TestLeadOutReplacesTrailingSilenceLength(t *testing.T) {
	src := &monoSource{values: []sample.Mono{0.5, 0, 0, 0, 0, 0}}
	sil := silencer.New[sample.Mono](src, -1, 2, -1)

	out := drain(t, sil)

	assert.Equal(t, []sample.Mono{0.5, 0, 0}, out)
}

func TestLeadOutOfZeroStripsTrailingSilenceEntirely(t *testing.T) {
	src := &monoSource{values: []sample.Mono{0.5, 0, 0, 0, 0, 0}}
	sil := silencer.New[sample.Mono](src, -1, 0, -1)

	out := drain(t, sil)

	assert.Equal(t, []sample.Mono{0.5}, out)
}

func TestSilentSourceProducesOnlyLeadOut(t *testing.T) {
	src := &monoSource{values: []sample.Mono{0, 0, 0}}
	sil := silencer.New[sample.Mono](src, 0, 4, -1)

	out := drain(t, sil)

	assert.Equal(t, []sample.Mono{0, 0, 0, 0}, out)
}
