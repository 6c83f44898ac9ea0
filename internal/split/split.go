// Package split implements the splitter (tee): one source is shared by
// any number of children without re-pulling from the source per child.
package split

import "github.com/benmichell/psxdmh/internal/sample"

type puller[S sample.Sample[S]] interface {
	Next(out *S) bool
	IsRunning() bool
}

// Parent owns the real source and fans each pulled sample out to every
// live child. It is shared-owned by its children: the source is released
// only when the last child detaches.
type Parent[S sample.Sample[S]] struct {
	source   puller[S]
	children []*Child[S]
}

// New wraps source in a splitter parent. Use Split to attach children.
func New[S sample.Sample[S]](source puller[S]) *Parent[S] {
	return &Parent[S]{source: source}
}

// Split attaches a new child, which will only receive samples produced
// after this call.
func (p *Parent[S]) Split() *Child[S] {
	c := &Child[S]{parent: p}
	p.children = append(p.children, c)
	return c
}

func (p *Parent[S]) feed() bool {
	var s S
	running := p.source.Next(&s)
	if running {
		for _, c := range p.children {
			c.queue = append(c.queue, s)
		}
	}
	return running
}

func (p *Parent[S]) detach(c *Child[S]) {
	for i, other := range p.children {
		if other == c {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	if len(p.children) == 0 {
		p.source = nil
	}
}

// Child is one consumer of a splitter. It implements module.Module.
type Child[S sample.Sample[S]] struct {
	parent      *Parent[S]
	queue       []S
	sourceEmpty bool
}

// Next implements module.Module.
func (c *Child[S]) Next(out *S) bool {
	if len(c.queue) == 0 {
		if c.sourceEmpty {
			var zero S
			*out = zero
			return false
		}
		if !c.parent.feed() {
			c.sourceEmpty = true
		}
	}
	if len(c.queue) == 0 {
		var zero S
		*out = zero
		return false
	}
	*out = c.queue[0]
	c.queue = c.queue[1:]
	return true
}

// IsRunning implements module.Module.
func (c *Child[S]) IsRunning() bool {
	return len(c.queue) > 0 || !c.sourceEmpty
}

// Close detaches this child from its parent. When the last child detaches
// the parent releases its source.
func (c *Child[S]) Close() {
	c.parent.detach(c)
}
