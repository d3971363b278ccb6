package audiograph

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/adazoulay/wgpu-signal-processor/internal/ingest"
)

// defaultSampleRate is the processor's fixed sample rate unless overridden
// by NewProcessorWithRate.
const defaultSampleRate = 44100

// Metrics is a lightweight read-only snapshot of processor state, mirroring
// the introspection helpers spec §6 calls for in tests.
type Metrics struct {
	NodeCount int
	EdgeCount int
	Cursor    int64
	RootLen   int
}

// Processor is the single orchestrator holding the graph plus a playback
// cursor. It exclusively owns the graph (spec §3, Ownership); the graph
// exclusively owns its nodes.
//
// Concurrency model (spec §5): mu is the graph-wide lock. Connect takes the
// write lock for the duration of its whole operation — a Connect's
// propagation sweep is one logical transaction, so no partially-propagated
// state is ever observable. Ingest converts and conditions its clip without
// the lock and takes the write lock only to insert the node. The audio
// callback thread's PullFrame takes a read lock just long enough to read
// one root frame; while a mutator holds the write lock it waits for it to be
// released, so it always sees either entirely pre-edit or entirely
// post-edit state, never torn frames.
type Processor struct {
	mu    sync.RWMutex
	graph *Graph

	rootID     NodeID
	sampleRate uint32
	width      Width

	cursor atomic.Int64

	tapMu sync.Mutex
	tapCh chan Frame
}

// NewProcessor returns a Processor at the default sample rate (44100 Hz)
// for the given frame width.
func NewProcessor(width Width) *Processor {
	return NewProcessorWithRate(width, defaultSampleRate)
}

// NewProcessorWithRate returns a Processor at rate Hz for width.
func NewProcessorWithRate(width Width, rate uint32) *Processor {
	g := NewGraph(rate, width)
	return &Processor{
		graph:      g,
		rootID:     g.Root(),
		sampleRate: rate,
		width:      width,
	}
}

// RootID returns the id of the distinguished sink node.
func (p *Processor) RootID() NodeID { return p.rootID }

// SampleRate returns the processor's fixed sample rate.
func (p *Processor) SampleRate() uint32 { return p.sampleRate }

// Ingest converts externally supplied samples into an engine-format clip
// and inserts it as a new data node. channels must be 1 (mono) or 2
// (stereo); anything else is InvalidChannels. If rate doesn't match the
// processor's rate, the clip is resampled at ingest.
func (p *Processor) Ingest(samples []float32, rate uint32, channels int, name string) (NodeID, error) {
	return p.IngestConditioned(samples, rate, channels, name, ingest.Options{})
}

// IngestConditioned is Ingest with an optional conditioning pass (spec §4.6)
// run once over the source clip built from samples, before width conversion
// and resampling: AEC, then noise gate, then AGC, then VAD-based silence
// trim, in that fixed order.
func (p *Processor) IngestConditioned(samples []float32, rate uint32, channels int, name string, opts ingest.Options) (NodeID, error) {
	var srcWidth Width
	switch channels {
	case 1:
		srcWidth = Mono
	case 2:
		srcWidth = Stereo
	default:
		return 0, newError(InvalidChannels, "channels=%d", channels)
	}

	clip := NewClip(samples, rate, srcWidth)
	clip = ingest.Apply(clip, opts)
	if srcWidth != p.width {
		if p.width == Stereo {
			clip = clip.ToStereo()
		} else {
			clip = clip.ToMono()
		}
	}
	if rate != p.sampleRate {
		clip = clip.Resample(p.sampleRate)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	node := NewNode(0, name, clip)
	id := p.graph.AddDataNode(node)
	log.Printf("[audiograph] ingested node %d %q: %d frames @ %d Hz", id, name, clip.Len(), clip.Rate())
	return id, nil
}

// Connect is the atomic edit primitive (spec §4.5): it inserts the edge,
// applies the edge's operation as a one-time initial effect on (from,
// target), then propagates the resulting change through from's entire
// subtree toward the root in one logical transaction under the write lock.
//
// to may be nil to target the root. Connect fails, leaving the graph
// unchanged, if it would create a cycle or either endpoint doesn't exist.
func (p *Processor) Connect(from NodeID, to *NodeID, kind OpKind) (EdgeID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	edgeID, err := p.graph.Connect(from, to, kind)
	if err != nil {
		return 0, err
	}

	target := p.rootID
	if to != nil {
		target = *to
	}

	fromNode := p.graph.Node(from)
	targetNode := p.graph.Node(target)

	// Step 3: initial effect. The edge's operation runs once here, treating
	// from's full current buffer as the new connection's one-time effect.
	// Target's delta is deliberately left uncomputed at this point.
	lo, hi := targetNode.NormalizeBounds(fromNode)
	operationFor(kind).Apply(fromNode, targetNode, lo, hi)

	// Step 4: propagate from `from` outward. Descendants always includes
	// the edge we just added, but apply_delta against it is a no-op here
	// because `from`'s delta is still whatever it was at its last commit —
	// the real effect already happened above via the operation itself.
	descendants := p.graph.Descendants(from)
	var lastChild *Node
	for _, de := range descendants {
		parentNode := p.graph.Node(de.From)
		childNode := p.graph.Node(de.To)

		clo, chi := childNode.NormalizeBounds(parentNode)
		childNode.ApplyDelta(parentNode, clo, chi)
		childNode.ComputeDelta()
		parentNode.Commit()
		lastChild = childNode
	}

	// Step 5: the final frontier node must also commit so its previous
	// catches up; otherwise the next edit reaching it would compute a
	// delta against a stale previous.
	if lastChild != nil {
		lastChild.Commit()
	}

	return edgeID, nil
}

// PullFrame is the real-time readout: it returns the root's next frame and
// advances the cursor, or false once the cursor reaches the root's length.
// It never allocates and never calls into operations — it takes a read lock
// over the graph, held just long enough to snapshot one frame, and then the
// tap mutex briefly to forward the frame to Tap.
func (p *Processor) PullFrame() (Frame, bool) {
	p.mu.RLock()
	root := p.graph.Node(p.rootID)
	idx := int(p.cursor.Load())
	f, ok := root.current.At(idx)
	if !ok {
		p.mu.RUnlock()
		return Frame{}, false
	}
	p.cursor.Add(1)
	p.mu.RUnlock()

	p.broadcastTap(f)
	return f, true
}

// SetCursor seeks the playback cursor to i.
func (p *Processor) SetCursor(i int) {
	p.cursor.Store(int64(i))
}

// Cursor returns the current playback cursor position.
func (p *Processor) Cursor() int {
	return int(p.cursor.Load())
}

// NodeByName looks up a node's id by the name given at Ingest/AddDataNode.
func (p *Processor) NodeByName(name string) (NodeID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.graph.NodeByName(name)
}

// CurrentFrames returns a copy of node id's current clip frames, for test
// introspection (spec §6, "Introspection helpers for tests").
func (p *Processor) CurrentFrames(id NodeID) ([]Frame, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := p.graph.Node(id)
	if n == nil {
		return nil, false
	}
	frames := make([]Frame, n.current.Len())
	copy(frames, n.current.Frames())
	return frames, true
}

// Metrics returns a read-only snapshot of processor state.
func (p *Processor) Metrics() Metrics {
	p.mu.RLock()
	defer p.mu.RUnlock()
	root := p.graph.Node(p.rootID)
	return Metrics{
		NodeCount: len(p.graph.nodes),
		EdgeCount: len(p.graph.edges),
		Cursor:    p.cursor.Load(),
		RootLen:   root.current.Len(),
	}
}

// Tap returns a best-effort fan-out channel of every frame PullFrame
// produces, for an optional downstream consumer such as a visualizer
// (spec §6's "Visualizer sink" collaborator). The channel is buffered and
// drops frames under backpressure rather than ever blocking PullFrame.
func (p *Processor) Tap() <-chan Frame {
	p.tapMu.Lock()
	defer p.tapMu.Unlock()
	if p.tapCh == nil {
		p.tapCh = make(chan Frame, 256)
	}
	return p.tapCh
}

func (p *Processor) broadcastTap(f Frame) {
	p.tapMu.Lock()
	ch := p.tapCh
	p.tapMu.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- f:
	default:
	}
}
