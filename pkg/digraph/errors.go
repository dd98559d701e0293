package digraph

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

var (
	// ErrNilVertex is returned when a nil vertex, edge endpoint, or
	// reference is passed to a mutator. Only nillable kinds (pointers,
	// interfaces, maps, slices, funcs, channels) can trip this check;
	// value types are always accepted.
	ErrNilVertex = errors.New("digraph: nil vertex")

	// ErrVertexNotFound is returned by degree queries for a vertex that
	// was never added to the graph.
	ErrVertexNotFound = errors.New("digraph: vertex not found")

	// ErrNegativeCapacity is returned by [New] and [NewRef] when the
	// initial capacity hint is negative.
	ErrNegativeCapacity = errors.New("digraph: negative initial capacity")

	// ErrNilResolve is returned by [NewRef] when the resolve function is nil.
	ErrNilResolve = errors.New("digraph: resolve function is nil")

	// ErrUnresolvedRefs is the sentinel matched by errors.Is for
	// [*UnresolvedError]. Use the typed error to recover the offending
	// reference values.
	ErrUnresolvedRefs = errors.New("digraph: unresolved references")
)

// UnresolvedError reports references that were used as edge endpoints but
// never matched by a real vertex object. It is returned by RefDigraph query
// methods when the resolution pass finds leftover references, and satisfies
// errors.Is(err, ErrUnresolvedRefs).
//
// The graph remains usable after this error: add the missing vertices and
// retry the query.
type UnresolvedError[R comparable] struct {
	// Refs holds the unmatched reference values, ordered by their
	// string rendering for deterministic output.
	Refs []R
}

// Error implements the error interface.
func (e *UnresolvedError[R]) Error() string {
	parts := make([]string, len(e.Refs))
	for i, r := range e.Refs {
		parts[i] = fmt.Sprint(r)
	}
	return "digraph: unresolved references: " + strings.Join(parts, ", ")
}

// Is reports whether target is [ErrUnresolvedRefs], allowing callers to
// match with errors.Is without knowing the reference type parameter.
func (e *UnresolvedError[R]) Is(target error) bool {
	return target == ErrUnresolvedRefs
}

// newUnresolvedError builds an UnresolvedError from the leftover reference
// set, sorted by string rendering so the message is stable across runs.
func newUnresolvedError[R comparable](refs map[R]struct{}) *UnresolvedError[R] {
	out := make([]R, 0, len(refs))
	for r := range refs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return fmt.Sprint(out[i]) < fmt.Sprint(out[j])
	})
	return &UnresolvedError[R]{Refs: out}
}

// isNil reports whether v holds a nil value of a nillable kind. Non-nillable
// kinds (ints, strings, structs, ...) always report false, so the "no edge"
// degenerate form of AddEdge is only reachable with nillable vertex types.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
