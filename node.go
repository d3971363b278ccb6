package audiograph

import "github.com/adazoulay/wgpu-signal-processor/internal/pcm"

// NodeID is a stable index assigned to a Node at insertion into a Graph.
type NodeID int

// Range is a half-open [Lo, Hi) sub-interval of a clip's local indices.
type Range struct {
	Lo, Hi int
}

// Node is a mixing point in the graph: it owns three clips of identical
// shape (current, previous, delta) plus the sub-range where delta is
// non-zero since the last commit. The root node never has outgoing edges
// and is the sole pull point.
type Node struct {
	ID   NodeID
	Name string

	current  Clip
	previous Clip
	delta    Clip

	modified    Range
	hasModified bool
}

// NewNode wraps clip in a fresh Node: previous starts as an identical
// snapshot, delta starts at equilibrium, and there is no modified range yet.
func NewNode(id NodeID, name string, clip Clip) *Node {
	return &Node{
		ID:       id,
		Name:     name,
		current:  clip,
		previous: clip.Clone(),
		delta:    WithCapacity(clip.Len(), clip.Rate(), clip.Width()),
	}
}

// Current returns the node's authoritative content.
func (n *Node) Current() *Clip { return &n.current }

// Previous returns the snapshot as of the last commit.
func (n *Node) Previous() *Clip { return &n.previous }

// Delta returns current - previous over the modified range (zero elsewhere).
func (n *Node) Delta() *Clip { return &n.delta }

// ModifiedRange returns the sub-interval where delta is non-zero, and false
// if there is none (equivalent to Rust's Option<(usize, usize)>).
func (n *Node) ModifiedRange() (Range, bool) {
	return n.modified, n.hasModified
}

// checkInvariants panics if the three clips have drifted out of the shape
// every Node operation must preserve. This is a programmer-error guard
// (§7: "internal routines assume invariants and may fault if violated"),
// never a condition callers should expect to hit at runtime.
func (n *Node) checkInvariants() {
	if n.current.Len() != n.previous.Len() || n.current.Len() != n.delta.Len() {
		panic("audiograph: node clip length invariant violated")
	}
	if n.current.Start() != n.previous.Start() || n.current.Start() != n.delta.Start() {
		panic("audiograph: node clip start invariant violated")
	}
	if n.current.Rate() != n.previous.Rate() || n.current.Rate() != n.delta.Rate() {
		panic("audiograph: node clip rate invariant violated")
	}
}

// NormalizeBounds aligns n's three clips so the union of n's timeline and
// parent's timeline is covered, and returns the absolute overlap
// [overlapLo, overlapHi). See spec §4.2 for the five-step algorithm this
// implements directly.
func (n *Node) NormalizeBounds(parent *Node) (lo, hi int) {
	if parent.current.Rate() != n.current.Rate() {
		// RateMismatch (§7): every clip is resampled to the processor's rate
		// at ingest, so two nodes in the same graph disagreeing on rate is a
		// programmer error, not a condition to recover from.
		panic("audiograph: rate mismatch between parent and child node")
	}

	ps := parent.current.Start()
	pe := ps + parent.current.Len()
	cs := n.current.Start()
	ce := cs + n.current.Len()

	if cs > ps {
		pad := cs - ps
		n.current.PadLeft(pad)
		n.previous.PadLeft(pad)
		n.delta.PadLeft(pad)
		n.current.SetStart(ps)
		n.previous.SetStart(ps)
		n.delta.SetStart(ps)
		cs = ps
		ce = cs + n.current.Len()
	}

	if ce < pe {
		newLen := n.current.Len() + (pe - ce)
		z := pcm.Equilibrium(n.current.Width())
		n.current.Resize(newLen, z)
		n.previous.Resize(newLen, z)
		n.delta.Resize(newLen, z)
		ce = pe
	}

	overlapLo := max(ps, cs)
	overlapHi := min(pe, ce)

	n.modified = Range{Lo: overlapLo - n.current.Start(), Hi: overlapHi - n.current.Start()}
	n.hasModified = true

	n.checkInvariants()
	return overlapLo, overlapHi
}

// ApplyDelta adds parent's delta into n.current over the absolute overlap
// [lo, hi), converting to each clip's local coordinates. No write occurs
// outside n's modified range.
func (n *Node) ApplyDelta(parent *Node, lo, hi int) {
	for i := lo; i < hi; i++ {
		pi := i - parent.current.Start()
		ci := i - n.current.Start()
		pd, ok := parent.delta.At(pi)
		if !ok {
			continue
		}
		cur, ok := n.current.At(ci)
		if !ok {
			continue
		}
		n.current.Set(ci, pcm.Add(cur, pd))
	}
}

// ComputeDelta populates n.delta = n.current - n.previous over the modified
// range. Outside the range delta remains whatever commit last zeroed it to.
func (n *Node) ComputeDelta() {
	if !n.hasModified {
		return
	}
	for i := n.modified.Lo; i < n.modified.Hi; i++ {
		cur, ok := n.current.At(i)
		if !ok {
			continue
		}
		prev, ok := n.previous.At(i)
		if !ok {
			continue
		}
		n.delta.Set(i, pcm.Sub(cur, prev))
	}
}

// Commit snapshots current into previous, resets delta to equilibrium over
// its whole length, and clears the modified range. This is what makes the
// triple-buffer pattern correct on the second and later connects from the
// same parent — see spec §9's note on not eliminating `previous`.
func (n *Node) Commit() {
	n.previous = n.current.Clone()
	n.delta.Reset()
	n.hasModified = false
	n.modified = Range{}
}
