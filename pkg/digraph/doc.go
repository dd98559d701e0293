// Package digraph implements a directed graph over arbitrary comparable
// vertex types, permitting self-loops and parallel edges, with cycle
// detection and topological ordering.
//
// Two graph types are provided:
//
//   - [Digraph] is the base directed graph. Vertices are identified by
//     value equality and receive a stable integer index on first insertion.
//     Parallel edges and self-loops are always preserved.
//
//   - [RefDigraph] layers deferred identity on top of a [Digraph]: edges
//     may be declared against lightweight reference values before the real
//     vertex objects exist. References are reconciled against objects
//     immediately before any structural query.
//
// # Cycle detection and topological order
//
// Both answers come from a single depth-first search pass using
// white/gray/black coloring. The two outcomes are mutually exclusive: a
// graph with a cycle has no topological order, and vice versa. The DFS
// result is cached and invalidated by mutation, so repeated queries on an
// unchanged graph are free.
//
// # Deferred references
//
// A RefDigraph is constructed with a resolve function mapping a vertex
// object T to its reference value R. The function must be pure and stable:
// the same object must always yield the same reference. Before a query, a
// resolution pass swaps every reference key in the delegate for the object
// that produced it. References left without a matching object make the
// query fail with an [*UnresolvedError] naming them; adding the missing
// vertices and retrying the query recovers.
//
// # Concurrency
//
// Neither graph type is safe for concurrent use. Callers that share a
// graph across goroutines must provide their own synchronization around
// each method call, including queries: query methods on RefDigraph mutate
// internal state during the resolution pass.
package digraph
