package audiograph

import "github.com/adazoulay/wgpu-signal-processor/internal/pcm"

// OpKind is the closed tag identifying which Operation an edge carries.
// Kept as a closed enum for equality/introspection (edge lookup, parallel-
// edge dedup in Graph.Connect) even though dispatch goes through the
// Operation interface below (spec §9, Design Notes).
type OpKind int

const (
	// Add mixes parent into child by summation. Associative and commutative
	// — the basis for incremental mixing (spec §3).
	Add OpKind = iota
	// Subtract removes parent's signal from child.
	Subtract
	// Multiply ring-modulates child by parent.
	Multiply
	// Crossfade blends parent into child with a linear ramp across the
	// overlap window.
	Crossfade
	// Bypass passes child through unchanged; downstream nodes still see a
	// (zero) delta contribution from the edge.
	Bypass
)

func (k OpKind) String() string {
	switch k {
	case Add:
		return "Add"
	case Subtract:
		return "Subtract"
	case Multiply:
		return "Multiply"
	case Crossfade:
		return "Crossfade"
	case Bypass:
		return "Bypass"
	default:
		return "Unknown"
	}
}

// Operation is the two-argument effect an edge applies to (parent, child)
// at connect time and again whenever a parent's delta reaches a child
// during propagation. Implementations beyond Add/Bypass must be (a) pure
// over the overlap and (b) produce a well-defined delta via current -
// previous (spec §4.4).
type Operation interface {
	// Apply mixes parent's current content into child's current content
	// over the absolute overlap [lo, hi).
	Apply(parent, child *Node, lo, hi int)
}

// operationFor returns the Operation implementation for kind.
func operationFor(kind OpKind) Operation {
	switch kind {
	case Subtract:
		return subtractOp{}
	case Multiply:
		return multiplyOp{}
	case Crossfade:
		return crossfadeOp{}
	case Bypass:
		return bypassOp{}
	default:
		return addOp{}
	}
}

// addOp implements Add: child.current[i] += parent.current[i] over overlap.
type addOp struct{}

func (addOp) Apply(parent, child *Node, lo, hi int) {
	for i := lo; i < hi; i++ {
		pi := i - parent.current.Start()
		ci := i - child.current.Start()
		p, ok := parent.current.At(pi)
		if !ok {
			continue
		}
		c, ok := child.current.At(ci)
		if !ok {
			continue
		}
		child.current.Set(ci, pcm.Add(c, p))
	}
}

// subtractOp implements Subtract: child.current[i] -= parent.current[i].
type subtractOp struct{}

func (subtractOp) Apply(parent, child *Node, lo, hi int) {
	for i := lo; i < hi; i++ {
		pi := i - parent.current.Start()
		ci := i - child.current.Start()
		p, ok := parent.current.At(pi)
		if !ok {
			continue
		}
		c, ok := child.current.At(ci)
		if !ok {
			continue
		}
		child.current.Set(ci, pcm.Sub(c, p))
	}
}

// multiplyOp implements Multiply: child.current[i] *= parent.current[i].
// Ring-modulation style combination — the parent acts on the child's
// pre-existing content rather than replacing it.
type multiplyOp struct{}

func (multiplyOp) Apply(parent, child *Node, lo, hi int) {
	for i := lo; i < hi; i++ {
		pi := i - parent.current.Start()
		ci := i - child.current.Start()
		p, ok := parent.current.At(pi)
		if !ok {
			continue
		}
		c, ok := child.current.At(ci)
		if !ok {
			continue
		}
		child.current.Set(ci, pcm.Mul(c, p))
	}
}

// crossfadeOp implements Crossfade: blends parent into child with a linear
// ramp spanning the overlap window, from 0 at lo to 1 approaching hi —
// generalizing the linear-interpolation technique the original clip
// resampler uses between two frames of the same clip to interpolation
// between two different clips.
type crossfadeOp struct{}

func (crossfadeOp) Apply(parent, child *Node, lo, hi int) {
	span := hi - lo
	if span <= 0 {
		return
	}
	for i := lo; i < hi; i++ {
		pi := i - parent.current.Start()
		ci := i - child.current.Start()
		p, ok := parent.current.At(pi)
		if !ok {
			continue
		}
		c, ok := child.current.At(ci)
		if !ok {
			continue
		}
		t := float32(i-lo) / float32(span)
		child.current.Set(ci, pcm.Lerp(c, p, t))
	}
}

// bypassOp implements Bypass: identity. Delta propagation still runs so
// downstream nodes observe the parent as contributing zero additional
// signal, but the child's current content is untouched.
type bypassOp struct{}

func (bypassOp) Apply(parent, child *Node, lo, hi int) {}
