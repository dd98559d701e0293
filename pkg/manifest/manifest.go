// Package manifest loads TOML graph manifests into reference graphs.
//
// A manifest declares nodes and directed edges. Edge heads are plain node
// identifiers, so an edge may point at a node declared further down the
// file, or at a node missing entirely; the distinction only surfaces when
// the built graph is queried, as an unresolved-reference error naming the
// dangling identifiers.
//
// # Format
//
//	[graph]
//	name = "payments"
//
//	[[node]]
//	id    = "billing"
//	label = "billing service"
//	meta  = { team = "core" }
//
//	[[edge]]
//	from = "billing"
//	to   = "ledger"
package manifest

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/driftlab/refdag/pkg/digraph"
	"github.com/driftlab/refdag/pkg/errors"
)

// Node is a declared graph vertex. Nodes are the object side of the
// reference graph; their ID is the reference side.
type Node struct {
	ID    string            `toml:"id" json:"id"`
	Label string            `toml:"label,omitempty" json:"label,omitempty"`
	Meta  map[string]string `toml:"meta,omitempty" json:"meta,omitempty"`
}

// Edge is a declared directed edge. From must name a declared node; To may
// name a node declared anywhere in the file, or nowhere (caught at query
// time).
type Edge struct {
	From string `toml:"from" json:"from"`
	To   string `toml:"to" json:"to"`
}

// Manifest is the decoded form of a graph manifest file.
type Manifest struct {
	Graph struct {
		Name string `toml:"name"`
	} `toml:"graph"`
	Nodes []*Node `toml:"node"`
	Edges []Edge  `toml:"edge"`
}

// ByID is the resolve function for manifests: a node is referenced by its
// identifier.
func ByID(n *Node) string { return n.ID }

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read manifest %s", path)
	}
	return Parse(data)
}

// Parse decodes a manifest from TOML bytes and validates it.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode manifest")
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// validate checks structural rules that do not need graph construction:
// node ids are present, well-formed, and unique; edge tails name declared
// nodes. Edge heads are deliberately not checked here - dangling heads are
// the reference graph's unresolved-reference case.
func (m *Manifest) validate() error {
	ids := make(map[string]struct{}, len(m.Nodes))
	for _, n := range m.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return err
		}
		if _, dup := ids[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidManifest, "duplicate node %q", n.ID)
		}
		ids[n.ID] = struct{}{}
	}
	for _, e := range m.Edges {
		if e.From == "" || e.To == "" {
			return errors.New(errors.ErrCodeInvalidManifest, "edge %q -> %q is missing an endpoint", e.From, e.To)
		}
		if _, ok := ids[e.From]; !ok {
			return errors.New(errors.ErrCodeInvalidManifest, "edge tail %q is not a declared node", e.From)
		}
	}
	return nil
}

// Build constructs the reference graph declared by the manifest. Nodes are
// added as objects, edge heads as references; a head naming an undeclared
// node is reported by the first query on the returned graph.
func (m *Manifest) Build() (*digraph.RefDigraph[*Node, string], error) {
	g, err := digraph.NewRef(ByID, digraph.WithCapacity(len(m.Nodes)))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*Node, len(m.Nodes))
	for _, n := range m.Nodes {
		if _, err := g.AddVertex(n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "add node %q", n.ID)
		}
		byID[n.ID] = n
	}
	for _, e := range m.Edges {
		if _, err := g.AddEdgeRef(byID[e.From], e.To); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "add edge %q -> %q", e.From, e.To)
		}
	}
	return g, nil
}

// Name returns the declared graph name, or fallback when the manifest does
// not set one.
func (m *Manifest) Name(fallback string) string {
	if m.Graph.Name != "" {
		return m.Graph.Name
	}
	return fallback
}
