package audiograph

// EdgeID is a stable index assigned to an edge at insertion into a Graph.
type EdgeID int

// edge is a directed connection carrying a mixing Operation.
type edge struct {
	id       EdgeID
	from, to NodeID
	op       Operation
	kind     OpKind
}

// defaultRootSeconds is the default root clip length in seconds; NewGraph
// sizes the root at this many seconds of the graph's own rate (spec §4.3,
// "default 5-second zero-filled clip at the engine rate").
const defaultRootSeconds = 5

// Graph is a stable, indexable directed acyclic graph of Nodes joined by
// Operation-carrying edges, with one distinguished root (sink) node.
//
// Storage is an index-based arena rather than a pointer graph (spec §9,
// Design Notes): nodes and edges are appended to slices and referenced by
// NodeID/EdgeID, which stay valid across any structural mutation.
type Graph struct {
	nodes []*Node
	edges []*edge

	// out[n] lists the ids of edges whose "from" is n, in insertion order —
	// this is what makes Descendants' DFS a pre-order, outgoing-edge walk.
	out map[NodeID][]EdgeID

	root NodeID

	byName map[string]NodeID
}

// NewGraph creates a graph with one root node: a zero-filled clip of
// defaultRootSeconds at rate, named "root".
func NewGraph(rate uint32, width Width) *Graph {
	g := &Graph{
		out:    make(map[NodeID][]EdgeID),
		byName: make(map[string]NodeID),
	}
	rootClip := WithCapacity(int(rate)*defaultRootSeconds, rate, width)
	root := NewNode(0, "root", rootClip)
	g.nodes = append(g.nodes, root)
	g.root = 0
	g.byName["root"] = 0
	return g
}

// Root returns the id of the distinguished sink node.
func (g *Graph) Root() NodeID { return g.root }

// AddDataNode inserts node into the graph, recording its name→id mapping if
// it has a non-empty name, and returns its assigned id.
func (g *Graph) AddDataNode(node *Node) NodeID {
	id := NodeID(len(g.nodes))
	node.ID = id
	g.nodes = append(g.nodes, node)
	if node.Name != "" {
		g.byName[node.Name] = id
	}
	return id
}

// Node returns the node at id, or nil if id is out of range.
func (g *Graph) Node(id NodeID) *Node {
	if int(id) < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// NodeByName looks up a node's id by its name.
func (g *Graph) NodeByName(name string) (NodeID, bool) {
	id, ok := g.byName[name]
	return id, ok
}

// EdgeOp returns the operation kind carried by edge id.
func (g *Graph) EdgeOp(id EdgeID) (OpKind, bool) {
	if int(id) < 0 || int(id) >= len(g.edges) {
		return 0, false
	}
	return g.edges[id].kind, true
}

// Connect adds a directed edge from → to (the root if to is nil) carrying
// op. It rejects edges that would introduce a cycle, and rejects a
// duplicate edge only when an existing from→to edge already carries the
// same operation kind (parallel edges of different kinds are allowed, per
// spec §4.3).
func (g *Graph) Connect(from NodeID, to *NodeID, kind OpKind) (EdgeID, error) {
	if g.Node(from) == nil {
		return 0, newError(UnknownNode, "from=%d", from)
	}
	target := g.root
	if to != nil {
		target = *to
		if g.Node(target) == nil {
			return 0, newError(UnknownNode, "to=%d", target)
		}
	}

	for _, id := range g.out[from] {
		e := g.edges[id]
		if e.to == target && e.kind == kind {
			return 0, newError(DuplicateEdge, "duplicate %s edge %d->%d", kind, from, target)
		}
	}

	if g.wouldCycle(from, target) {
		return 0, newError(CycleDetected, "%d->%d", from, target)
	}

	id := EdgeID(len(g.edges))
	e := &edge{id: id, from: from, to: target, op: operationFor(kind), kind: kind}
	g.edges = append(g.edges, e)
	g.out[from] = append(g.out[from], id)
	return id, nil
}

// wouldCycle reports whether adding an edge from→to would create a cycle,
// i.e. whether to can already reach from via outgoing edges.
func (g *Graph) wouldCycle(from, to NodeID) bool {
	if from == to {
		return true
	}
	visited := make(map[NodeID]bool)
	stack := []NodeID{to}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == from {
			return true
		}
		if visited[n] {
			continue
		}
		visited[n] = true
		for _, id := range g.out[n] {
			stack = append(stack, g.edges[id].to)
		}
	}
	return false
}

// DescendantEdge is one step of a propagation sweep: a directed edge from a
// visited node toward its child, in the DFS pre-order Descendants yields.
type DescendantEdge struct {
	From, To NodeID
	EdgeID   EdgeID
	Op       Operation
}

// Descendants performs a pre-order depth-first traversal of outgoing edges
// starting at node, yielding every edge reached. For each visited vertex all
// of its outgoing edges are yielded before any grandchild is visited — a
// standard DFS over a DAG — which is exactly the topologically valid
// schedule spec §4.3 requires for delta propagation. The root's outgoing
// set is always empty, so traversal naturally terminates there.
func (g *Graph) Descendants(node NodeID) []DescendantEdge {
	var out []DescendantEdge
	var visit func(NodeID)
	visited := make(map[NodeID]bool)
	visit = func(n NodeID) {
		if visited[n] {
			return
		}
		visited[n] = true
		for _, id := range g.out[n] {
			e := g.edges[id]
			out = append(out, DescendantEdge{From: e.from, To: e.to, EdgeID: e.id, Op: e.op})
		}
		for _, id := range g.out[n] {
			visit(g.edges[id].to)
		}
	}
	visit(node)
	return out
}
