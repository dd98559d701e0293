package graphio

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"os"

	"github.com/driftlab/refdag/pkg/digraph"
	"github.com/driftlab/refdag/pkg/errors"
	"github.com/driftlab/refdag/pkg/manifest"
)

// Document is a serialized graph analysis: the declared structure plus the
// derived cycle or topological order. Exactly one of Cycle and Order is
// populated.
type Document struct {
	Name    string           `json:"name,omitempty"`
	Nodes   []*manifest.Node `json:"nodes"`
	Edges   []manifest.Edge  `json:"edges"`
	Acyclic bool             `json:"acyclic"`
	Cycle   []string         `json:"cycle,omitempty"`
	Order   []string         `json:"order,omitempty"`
}

// Analyze queries g and captures the result as a document. Analyzing
// forces reference resolution; dangling references are reported as an
// unresolved-references error carrying the original cause.
func Analyze(name string, g *digraph.RefDigraph[*manifest.Node, string]) (*Document, error) {
	nodes, err := g.Vertices()
	if err != nil {
		return nil, wrapUnresolved(name, err)
	}
	edges, err := g.Edges()
	if err != nil {
		return nil, wrapUnresolved(name, err)
	}

	doc := &Document{
		Name:  name,
		Nodes: nodes,
		Edges: make([]manifest.Edge, len(edges)),
	}
	for i, e := range edges {
		doc.Edges[i] = manifest.Edge{From: e.From.ID, To: e.To.ID}
	}

	cycle, err := g.CycleRef()
	if err != nil {
		return nil, wrapUnresolved(name, err)
	}
	if len(cycle) > 0 {
		doc.Cycle = cycle
		return doc, nil
	}

	doc.Acyclic = true
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, wrapUnresolved(name, err)
	}
	doc.Order = make([]string, len(order))
	for i, n := range order {
		doc.Order[i] = n.ID
	}
	return doc, nil
}

func wrapUnresolved(name string, err error) error {
	if stderrors.Is(err, digraph.ErrUnresolvedRefs) {
		return errors.Wrap(errors.ErrCodeUnresolvedRefs, err, "analyze %s", name)
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "analyze %s", name)
}

// Graph rebuilds a live reference graph from the document's declared nodes
// and edges. Derived fields (Cycle, Order, Acyclic) are ignored; re-query
// the returned graph instead.
func (d *Document) Graph() (*digraph.RefDigraph[*manifest.Node, string], error) {
	g, err := digraph.NewRef(manifest.ByID, digraph.WithCapacity(len(d.Nodes)))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*manifest.Node, len(d.Nodes))
	for _, n := range d.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return nil, err
		}
		if _, dup := byID[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "duplicate node %q", n.ID)
		}
		if _, err := g.AddVertex(n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %s", n.ID)
		}
		byID[n.ID] = n
	}
	for _, e := range d.Edges {
		from, ok := byID[e.From]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "edge tail %q is not a declared node", e.From)
		}
		if _, err := g.AddEdgeRef(from, e.To); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge %s->%s", e.From, e.To)
		}
	}
	return g, nil
}

// WriteJSON encodes the document as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return nil
}

// ReadJSON decodes an analysis document from r. The document's structure
// is validated lazily: malformed JSON fails here, graph-level problems
// (duplicate nodes, unknown edge tails) surface from [Document.Graph].
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}
	return &d, nil
}

// ExportJSON writes the document to a JSON file at path. This is a
// convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(d *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(d, f)
}

// ImportJSON reads the JSON file at path and returns the decoded document.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
