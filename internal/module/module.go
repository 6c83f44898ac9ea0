// Package module defines the generic pull-based module contract shared by
// every stage of the graph: a module produces a lazy, finite sequence of
// samples via Next and reports whether a future Next could still succeed
// via IsRunning. Graphs are built by wrapping sources in transformers; the
// outermost module is drained by a sink.
package module

import "github.com/benmichell/psxdmh/internal/sample"

// Module is implemented by every node in the graph. S is constrained to
// the operator set in package sample so that most modules are written
// once and instantiated for both Mono and Stereo without any per-sample
// runtime dispatch.
type Module[S sample.Sample[S]] interface {
	// Next produces one sample into out, returning false once the module
	// is permanently exhausted (out is left at its zero value in that
	// case).
	Next(out *S) bool
	// IsRunning reports whether a future call to Next could still
	// succeed.
	IsRunning() bool
}

// Func adapts a pair of closures to the Module interface; used for small
// one-off sources in tests.
type Func[S sample.Sample[S]] struct {
	NextFunc      func(out *S) bool
	IsRunningFunc func() bool
}

// Next implements Module.
func (f Func[S]) Next(out *S) bool { return f.NextFunc(out) }

// IsRunning implements Module.
func (f Func[S]) IsRunning() bool { return f.IsRunningFunc() }

// Slice returns a Module that yields the elements of data in order, then
// reports exhausted.
func Slice[S sample.Sample[S]](data []S) *SliceSource[S] {
	return &SliceSource[S]{data: data}
}

// SliceSource is a fixed, finite module backed by a slice; used
// extensively in tests as a deterministic source.
type SliceSource[S sample.Sample[S]] struct {
	data []S
	pos  int
}

// Next implements Module.
func (s *SliceSource[S]) Next(out *S) bool {
	if s.pos >= len(s.data) {
		var zero S
		*out = zero
		return false
	}
	*out = s.data[s.pos]
	s.pos++
	return true
}

// IsRunning implements Module.
func (s *SliceSource[S]) IsRunning() bool { return s.pos < len(s.data) }

// Drain pulls every remaining sample from m into a slice. Used by tests
// and by the normaliser's first pass.
func Drain[S sample.Sample[S]](m Module[S]) []S {
	var out []S
	var s S
	for m.Next(&s) {
		out = append(out, s)
	}
	return out
}
