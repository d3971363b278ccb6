package audiograph

import "fmt"

// Kind classifies the typed errors user-facing mutators can return (§7).
type Kind int

const (
	// InvalidChannels: Ingest was called with channels outside {1, 2}.
	InvalidChannels Kind = iota
	// UnknownNode: a NodeID that isn't present in the graph.
	UnknownNode
	// UnknownEdge: an EdgeID that isn't present in the graph.
	UnknownEdge
	// CycleDetected: Connect would introduce a cycle.
	CycleDetected
	// DuplicateEdge: Connect was given a (from, to, kind) triple that already
	// exists as an edge. Distinct from CycleDetected — a repeated edge never
	// introduces a new path, it just restates one that's already there.
	DuplicateEdge
)

func (k Kind) String() string {
	switch k {
	case InvalidChannels:
		return "invalid channels"
	case UnknownNode:
		return "unknown node"
	case UnknownEdge:
		return "unknown edge"
	case CycleDetected:
		return "cycle detected"
	case DuplicateEdge:
		return "duplicate edge"
	default:
		return "unknown error"
	}
}

// Error is the typed error returned by user-facing mutators. RateMismatch
// and OutOfBounds from §7 are not Error values: RateMismatch is an internal
// precondition violation (a bug, not a runtime condition — it panics, see
// node.go) and OutOfBounds is surfaced as an "absent" read (Clip.At's bool),
// never an error value.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is reports whether target is an *Error of the same Kind, so callers can
// write errors.Is(err, audiograph.ErrCycleDetected) instead of type-asserting
// and comparing Kind by hand.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel errors for errors.Is, one per Kind. Msg is always empty on these —
// match by Kind only, never by message text.
var (
	ErrInvalidChannels = &Error{Kind: InvalidChannels}
	ErrUnknownNode     = &Error{Kind: UnknownNode}
	ErrUnknownEdge     = &Error{Kind: UnknownEdge}
	ErrCycleDetected   = &Error{Kind: CycleDetected}
	ErrDuplicateEdge   = &Error{Kind: DuplicateEdge}
)

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
