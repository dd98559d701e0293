package digraph

import (
	"fmt"
	"strings"
)

// Edge is a directed connection between two vertices. Parallel edges are
// distinct instances; the same (From, To) pair may appear multiple times in
// [Digraph.Edges].
type Edge[T comparable] struct {
	From T // tail vertex
	To   T // head vertex
}

// Option configures graph construction.
type Option func(*config)

type config struct {
	capacity int
}

// WithCapacity pre-sizes internal storage for n vertices. It is a hint
// only; graphs grow past it transparently. Negative values make the
// constructor fail with [ErrNegativeCapacity].
func WithCapacity(n int) Option {
	return func(c *config) { c.capacity = n }
}

// Digraph is a directed graph of comparable vertices, permitting self-loops
// and parallel edges.
//
// Every distinct vertex is assigned a stable integer index on first
// insertion; indices are monotonic and never reused. Adjacency is stored by
// index, so vertex values are held exactly once regardless of degree.
//
// The zero value is not usable - construct with [New].
// Digraph is not safe for concurrent use without external synchronization.
type Digraph[T comparable] struct {
	vertices []T       // index -> vertex, insertion order
	index    map[T]int // vertex -> index
	adj      [][]int   // index -> successor indices, append order
	in       []int     // index -> in-degree, parallel edges counted
	edges    []Edge[int] // global edge log in insertion order, by index

	// DFS cache, see refresh. Both are index sequences; cycle is closed
	// (start repeated at the end), order is reverse postorder.
	dirty bool
	cycle []int
	order []int
}

// New creates an empty directed graph.
// Returns [ErrNegativeCapacity] if a negative capacity hint is supplied.
func New[T comparable](opts ...Option) (*Digraph[T], error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.capacity < 0 {
		return nil, ErrNegativeCapacity
	}
	return &Digraph[T]{
		vertices: make([]T, 0, cfg.capacity),
		index:    make(map[T]int, cfg.capacity),
		adj:      make([][]int, 0, cfg.capacity),
		in:       make([]int, 0, cfg.capacity),
	}, nil
}

// AddVertex registers v if absent and reports whether the graph changed.
// Adding an existing vertex is a no-op returning false.
// Returns [ErrNilVertex] for a nil vertex of a nillable type.
func (g *Digraph[T]) AddVertex(v T) (bool, error) {
	if isNil(v) {
		return false, ErrNilVertex
	}
	if _, exists := g.index[v]; exists {
		return false, nil
	}
	g.index[v] = len(g.vertices)
	g.vertices = append(g.vertices, v)
	g.adj = append(g.adj, nil)
	g.in = append(g.in, 0)
	g.dirty = true
	return true, nil
}

// AddEdge adds the directed edge from -> to, inserting either endpoint that
// is not yet present. Parallel edges are preserved: adding the same edge
// twice yields two edge instances. A nil to (nillable types only) is the
// "no edge" form and degenerates to AddVertex(from).
// Reports whether a new edge instance (or, in the degenerate form, a new
// vertex) was added.
func (g *Digraph[T]) AddEdge(from, to T) (bool, error) {
	if isNil(from) {
		return false, ErrNilVertex
	}
	if isNil(to) {
		return g.AddVertex(from)
	}
	if _, err := g.AddVertex(from); err != nil {
		return false, err
	}
	if _, err := g.AddVertex(to); err != nil {
		return false, err
	}
	fi, ti := g.index[from], g.index[to]
	g.adj[fi] = append(g.adj[fi], ti)
	g.in[ti]++
	g.edges = append(g.edges, Edge[int]{From: fi, To: ti})
	g.dirty = true
	return true, nil
}

// Size returns the number of distinct vertices.
func (g *Digraph[T]) Size() int { return len(g.vertices) }

// EdgeCount returns the number of edge instances, counting parallels.
func (g *Digraph[T]) EdgeCount() int { return len(g.edges) }

// Vertices returns all vertices in insertion order.
// The returned slice is a copy.
func (g *Digraph[T]) Vertices() []T {
	out := make([]T, len(g.vertices))
	copy(out, g.vertices)
	return out
}

// Edges returns all edges as explicit (From, To) pairs in insertion order.
// Parallel edges appear once per instance. The returned slice is a copy.
func (g *Digraph[T]) Edges() []Edge[T] {
	out := make([]Edge[T], len(g.edges))
	for i, e := range g.edges {
		out[i] = Edge[T]{From: g.vertices[e.From], To: g.vertices[e.To]}
	}
	return out
}

// HasVertex reports whether v has been added to the graph.
func (g *Digraph[T]) HasVertex(v T) bool {
	_, ok := g.index[v]
	return ok
}

// InDegree returns the number of incoming edge instances for v.
// Returns [ErrVertexNotFound] if v was never added.
func (g *Digraph[T]) InDegree(v T) (int, error) {
	i, ok := g.index[v]
	if !ok {
		return 0, ErrVertexNotFound
	}
	return g.in[i], nil
}

// OutDegree returns the number of outgoing edge instances for v.
// Returns [ErrVertexNotFound] if v was never added.
func (g *Digraph[T]) OutDegree(v T) (int, error) {
	i, ok := g.index[v]
	if !ok {
		return 0, ErrVertexNotFound
	}
	return len(g.adj[i]), nil
}

// Cycle returns one concrete directed cycle as a vertex sequence with the
// start repeated at the end (e.g. [a b c a]), or nil if the graph is
// acyclic. The result is deterministic for a given insertion sequence.
func (g *Digraph[T]) Cycle() []T {
	g.refresh()
	if g.cycle == nil {
		return nil
	}
	out := make([]T, len(g.cycle))
	for i, idx := range g.cycle {
		out[i] = g.vertices[idx]
	}
	return out
}

// TopologicalOrder returns the vertices in an order where every edge points
// forward, or nil if the graph contains a cycle. Cycle and order are
// mutually exclusive outcomes of the same DFS pass.
func (g *Digraph[T]) TopologicalOrder() []T {
	g.refresh()
	if g.order == nil {
		return nil
	}
	out := make([]T, len(g.order))
	for i, idx := range g.order {
		out[i] = g.vertices[idx]
	}
	return out
}

// Clone returns a deep copy sharing no mutable state with the receiver.
func (g *Digraph[T]) Clone() *Digraph[T] {
	clone := &Digraph[T]{
		vertices: append([]T(nil), g.vertices...),
		index:    make(map[T]int, len(g.index)),
		adj:      make([][]int, len(g.adj)),
		in:       append([]int(nil), g.in...),
		edges:    append([]Edge[int](nil), g.edges...),
		dirty:    g.dirty,
		cycle:    append([]int(nil), g.cycle...),
		order:    append([]int(nil), g.order...),
	}
	for v, i := range g.index {
		clone.index[v] = i
	}
	for i, succ := range g.adj {
		clone.adj[i] = append([]int(nil), succ...)
	}
	return clone
}

// String renders the graph as one "v -> [successors]" line per vertex, in
// insertion order. Intended for diagnostics, not machine consumption.
func (g *Digraph[T]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph(%d vertices, %d edges)", len(g.vertices), len(g.edges))
	for i, v := range g.vertices {
		heads := make([]string, len(g.adj[i]))
		for j, ti := range g.adj[i] {
			heads[j] = fmt.Sprint(g.vertices[ti])
		}
		fmt.Fprintf(&b, "\n  %v -> [%s]", v, strings.Join(heads, " "))
	}
	return b.String()
}

// DFS vertex states.
const (
	white = iota // unvisited
	gray         // on the active recursion stack
	black        // fully explored
)

// refresh recomputes the shared DFS result if the graph changed since the
// last traversal. Exactly one of cycle/order is non-nil afterwards (for a
// non-empty graph); an empty graph has an empty order and no cycle.
func (g *Digraph[T]) refresh() {
	if !g.dirty && (g.cycle != nil || g.order != nil) {
		return
	}
	n := len(g.vertices)
	state := make([]uint8, n)
	path := make([]int, 0, n)    // active recursion stack
	order := make([]int, 0, n)   // postorder
	var cycle []int

	// dfs reports true once a back-edge is found; the first cycle wins and
	// the traversal aborts.
	var dfs func(u int) bool
	dfs = func(u int) bool {
		state[u] = gray
		path = append(path, u)
		for _, v := range g.adj[u] {
			switch state[v] {
			case white:
				if dfs(v) {
					return true
				}
			case gray:
				// Back-edge u -> v: the cycle is the active stack from v
				// to u, closed by repeating v.
				start := 0
				for path[start] != v {
					start++
				}
				cycle = append(cycle, path[start:]...)
				cycle = append(cycle, v)
				return true
			}
		}
		path = path[:len(path)-1]
		state[u] = black
		order = append(order, u)
		return false
	}

	for u := 0; u < n; u++ {
		if state[u] == white && dfs(u) {
			break
		}
	}

	if cycle != nil {
		g.cycle, g.order = cycle, nil
	} else {
		// Reverse postorder is a topological order.
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
		g.cycle, g.order = nil, order
	}
	g.dirty = false
}

// rekey re-maps the slot currently keyed by oldKey to newKey, mutating both
// the index map and the vertex arena. Reports whether oldKey was present.
// Used by RefDigraph's resolution pass to swap reference identities for
// object identities.
func (g *Digraph[T]) rekey(oldKey, newKey T) bool {
	i, ok := g.index[oldKey]
	if !ok {
		return false
	}
	delete(g.index, oldKey)
	g.index[newKey] = i
	g.vertices[i] = newKey
	return true
}
