package digraph

// RefDigraph is a directed graph whose vertices can be addressed either by
// their real object (type T) or by a lightweight reference value (type R)
// derived from the object by the resolve function supplied at construction.
//
// Edges may be declared against references before the corresponding objects
// exist. Until the next resolution pass the delegate graph holds a mixture
// of object and reference identities; query methods first reconcile every
// pending reference to the object that produced it, then answer in object
// terms. A reference that no added object resolves to makes queries fail
// with [*UnresolvedError].
//
// The zero value is not usable - construct with [NewRef].
// RefDigraph is not safe for concurrent use; note that query methods mutate
// internal state during resolution.
type RefDigraph[T, R comparable] struct {
	resolve func(T) R

	// pending holds objects added since the last successful resolution
	// pass; refs holds reference values awaiting a matching object.
	pending []T
	refs    map[R]struct{}

	// resolved maps references already satisfied by a resolution pass to
	// the object owning the delegate slot. It keeps later mutations keyed
	// by object identity, so resolving is not a one-shot operation.
	resolved map[R]T

	// delegate stores a mixture of T and R identities between resolution
	// passes; after a successful pass every identity is a T.
	delegate *Digraph[any]
}

// NewRef creates an empty reference graph. The resolve function maps a
// vertex object to its reference value; it must be pure, stable, and total
// over every object added to the graph.
// Returns [ErrNilResolve] for a nil resolve function and
// [ErrNegativeCapacity] for a negative capacity hint.
func NewRef[T, R comparable](resolve func(T) R, opts ...Option) (*RefDigraph[T, R], error) {
	if resolve == nil {
		return nil, ErrNilResolve
	}
	delegate, err := New[any](opts...)
	if err != nil {
		return nil, err
	}
	return &RefDigraph[T, R]{
		resolve:  resolve,
		refs:     make(map[R]struct{}),
		resolved: make(map[R]T),
		delegate: delegate,
	}, nil
}

// AddVertex records t as a pending object and registers its identity in the
// delegate. Reports whether the delegate changed.
// Returns [ErrNilVertex] for a nil object of a nillable type.
func (g *RefDigraph[T, R]) AddVertex(t T) (bool, error) {
	if isNil(t) {
		return false, ErrNilVertex
	}
	g.pending = append(g.pending, t)
	return g.delegate.AddVertex(g.objKey(t))
}

// AddVertexRef registers the reference r directly, to be matched by a real
// object later. Reports whether the delegate changed.
// Returns [ErrNilVertex] for a nil reference of a nillable type.
func (g *RefDigraph[T, R]) AddVertexRef(r R) (bool, error) {
	if isNil(r) {
		return false, ErrNilVertex
	}
	if t, ok := g.resolved[r]; ok {
		return g.delegate.AddVertex(any(t))
	}
	g.refs[r] = struct{}{}
	return g.delegate.AddVertex(any(r))
}

// AddEdge adds the directed edge from -> to between two real objects,
// recording both as pending. A nil to (nillable types only) degenerates to
// AddVertex(from).
func (g *RefDigraph[T, R]) AddEdge(from, to T) (bool, error) {
	if isNil(from) {
		return false, ErrNilVertex
	}
	if isNil(to) {
		return g.AddVertex(from)
	}
	g.pending = append(g.pending, from, to)
	return g.delegate.AddEdge(g.objKey(from), g.objKey(to))
}

// AddEdgeRef adds the directed edge from -> to where the head is known only
// by reference. A nil to (nillable types only) degenerates to
// AddVertex(from).
func (g *RefDigraph[T, R]) AddEdgeRef(from T, to R) (bool, error) {
	if isNil(from) {
		return false, ErrNilVertex
	}
	if isNil(to) {
		return g.AddVertex(from)
	}
	g.pending = append(g.pending, from)
	head := any(to)
	if t, ok := g.resolved[to]; ok {
		head = any(t)
	} else {
		g.refs[to] = struct{}{}
	}
	return g.delegate.AddEdge(g.objKey(from), head)
}

// Size returns the number of distinct identities currently in the delegate.
// Unlike the query methods, Size does not force a resolution pass: an
// object and its not-yet-swapped reference never count twice because
// objects are registered under their reference until resolved.
func (g *RefDigraph[T, R]) Size() int { return g.delegate.Size() }

// EdgeCount returns the number of edge instances, counting parallels.
func (g *RefDigraph[T, R]) EdgeCount() int { return g.delegate.EdgeCount() }

// Edges returns all edges as object-typed (From, To) pairs in insertion
// order, after forcing a resolution pass.
func (g *RefDigraph[T, R]) Edges() ([]Edge[T], error) {
	if err := g.resolveRefs(); err != nil {
		return nil, err
	}
	raw := g.delegate.Edges()
	out := make([]Edge[T], len(raw))
	for i, e := range raw {
		out[i] = Edge[T]{From: e.From.(T), To: e.To.(T)}
	}
	return out, nil
}

// Vertices returns all vertex objects in insertion order, after forcing a
// resolution pass.
func (g *RefDigraph[T, R]) Vertices() ([]T, error) {
	if err := g.resolveRefs(); err != nil {
		return nil, err
	}
	raw := g.delegate.Vertices()
	out := make([]T, len(raw))
	for i, v := range raw {
		out[i] = v.(T)
	}
	return out, nil
}

// InDegree returns the number of incoming edge instances for t, after
// forcing a resolution pass.
func (g *RefDigraph[T, R]) InDegree(t T) (int, error) {
	if err := g.resolveRefs(); err != nil {
		return 0, err
	}
	return g.delegate.InDegree(any(t))
}

// OutDegree returns the number of outgoing edge instances for t, after
// forcing a resolution pass.
func (g *RefDigraph[T, R]) OutDegree(t T) (int, error) {
	if err := g.resolveRefs(); err != nil {
		return 0, err
	}
	return g.delegate.OutDegree(any(t))
}

// Cycle returns one directed cycle as object values with the start repeated
// at the end, or nil if the graph is acyclic, after forcing a resolution
// pass.
func (g *RefDigraph[T, R]) Cycle() ([]T, error) {
	if err := g.resolveRefs(); err != nil {
		return nil, err
	}
	raw := g.delegate.Cycle()
	if raw == nil {
		return nil, nil
	}
	out := make([]T, len(raw))
	for i, v := range raw {
		out[i] = v.(T)
	}
	return out, nil
}

// CycleRef is [RefDigraph.Cycle] with each vertex mapped back through the
// resolve function, for callers that report in reference terms.
func (g *RefDigraph[T, R]) CycleRef() ([]R, error) {
	cycle, err := g.Cycle()
	if err != nil {
		return nil, err
	}
	if cycle == nil {
		return nil, nil
	}
	out := make([]R, len(cycle))
	for i, t := range cycle {
		out[i] = g.resolve(t)
	}
	return out, nil
}

// TopologicalOrder returns the vertex objects in an order where every edge
// points forward, or nil if the graph contains a cycle, after forcing a
// resolution pass.
func (g *RefDigraph[T, R]) TopologicalOrder() ([]T, error) {
	if err := g.resolveRefs(); err != nil {
		return nil, err
	}
	raw := g.delegate.TopologicalOrder()
	if raw == nil {
		return nil, nil
	}
	out := make([]T, len(raw))
	for i, v := range raw {
		out[i] = v.(T)
	}
	return out, nil
}

// Clone returns a deep copy sharing no mutable state with the receiver.
// The resolve function itself is shared; it is required to be pure.
func (g *RefDigraph[T, R]) Clone() *RefDigraph[T, R] {
	refs := make(map[R]struct{}, len(g.refs))
	for r := range g.refs {
		refs[r] = struct{}{}
	}
	resolved := make(map[R]T, len(g.resolved))
	for r, t := range g.resolved {
		resolved[r] = t
	}
	return &RefDigraph[T, R]{
		resolve:  g.resolve,
		pending:  append([]T(nil), g.pending...),
		refs:     refs,
		resolved: resolved,
		delegate: g.delegate.Clone(),
	}
}

// String renders the delegate graph for diagnostics. Identities that have
// not been through a resolution pass render as their reference values.
func (g *RefDigraph[T, R]) String() string { return g.delegate.String() }

// objKey picks the delegate key for object t: its reference until resolved,
// the owning object afterwards. Keying by reference first is what lets an
// edge declared via AddEdgeRef land on the same slot the object later claims.
func (g *RefDigraph[T, R]) objKey(t T) any {
	r := g.resolve(t)
	if prev, ok := g.resolved[r]; ok {
		return any(prev)
	}
	return any(r)
}

// resolveRefs reconciles pending objects with outstanding references: for
// every pending object t the delegate slot keyed by resolve(t) is re-keyed
// to t itself, and the reference is marked satisfied. If the reference was
// already satisfied by a different object, the newer object takes over the
// slot (last add wins, matching plain Digraph re-insertion semantics).
//
// On success the pending list is cleared. If references remain unmatched,
// an [*UnresolvedError] naming them is returned and the pending list is
// kept, so that adding the missing vertices and retrying the query
// recovers; the swaps already performed are idempotent on retry.
func (g *RefDigraph[T, R]) resolveRefs() error {
	for _, t := range g.pending {
		r := g.resolve(t)
		delete(g.refs, r)
		if prev, ok := g.resolved[r]; ok {
			if prev != t {
				g.delegate.rekey(any(prev), any(t))
			}
		} else {
			g.delegate.rekey(any(r), any(t))
		}
		g.resolved[r] = t
	}
	if len(g.refs) != 0 {
		return newUnresolvedError(g.refs)
	}
	g.pending = g.pending[:0]
	return nil
}
