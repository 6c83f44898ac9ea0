package resample

import (
	"math"
	"sync"
)

// sincTable holds a precomputed Lanczos windowed sinc kernel for a given
// (window, rateOut) pair. Tables are expensive to compute so they are
// cached process-wide and never freed, matching the cooperative,
// single-render-at-a-time resource model of the graph.
type sincTable struct {
	window  uint32
	rateOut uint32
	table   []float32
}

// indexForOffset returns the starting table index for offset, which must
// be in [0, rateOut).
func (t *sincTable) indexForOffset(offset int32) int {
	return int(offset) * int(t.window) * 2
}

var (
	tableCacheMu sync.Mutex
	tableCache   = map[tableKey]*sincTable{}
)

type tableKey struct {
	window, rateOut uint32
}

// obtainSincTable returns the cached table for (window, rateOut),
// computing and caching it on first use.
func obtainSincTable(window, rateOut uint32) *sincTable {
	key := tableKey{window, rateOut}

	tableCacheMu.Lock()
	defer tableCacheMu.Unlock()
	if t, ok := tableCache[key]; ok {
		return t
	}
	t := buildSincTable(window, rateOut)
	tableCache[key] = t
	return t
}

func buildSincTable(window, rateOut uint32) *sincTable {
	t := &sincTable{window: window, rateOut: rateOut}
	t.table = make([]float32, rateOut*window*2)

	basePos := -int32(window-1) * int32(rateOut)
	scale := math.Pi / float64(rateOut)
	index := 0
	for offset := int32(0); offset < int32(rateOut); offset++ {
		pos := basePos - offset
		endPos := pos + int32(rateOut)*int32(window)*2
		for ; pos < endPos; pos += int32(rateOut) {
			var v float64
			if pos != 0 {
				piX := scale * float64(pos)
				v = float64(window) * math.Sin(piX) * math.Sin(piX/float64(window)) / (piX * piX)
				if math.Abs(v) < 1e-9 {
					v = 0
				}
			} else {
				v = 1.0
			}
			t.table[index] = float32(v)
			index++
		}
	}
	return t
}
