package dot

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/driftlab/refdag/pkg/graphio"
	"github.com/driftlab/refdag/pkg/manifest"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes metadata key-value pairs in node labels.
	// When false, only the node ID (or label) is shown.
	Detailed bool
}

// ToDOT converts an analysis document to Graphviz DOT format. Nodes and
// edges on the document's cycle are drawn in red with heavier strokes.
// The resulting DOT string can be rendered with [RenderSVG] or [RenderPNG].
func ToDOT(d *graphio.Document, opts Options) string {
	cycleNodes, cycleEdges := cycleSets(d)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range d.Nodes {
		label := fmtLabel(n, opts.Detailed)
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if _, hot := cycleNodes[n.ID]; hot {
			attrs = append(attrs, "color=red", "fontcolor=red", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		if _, hot := cycleEdges[e]; hot {
			fmt.Fprintf(&buf, "  %q -> %q [color=red, penwidth=2];\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// cycleSets builds lookup sets for the nodes and consecutive edge pairs of
// the document's cycle walk. A self-loop contributes a single edge.
func cycleSets(d *graphio.Document) (map[string]struct{}, map[manifest.Edge]struct{}) {
	nodes := make(map[string]struct{}, len(d.Cycle))
	edges := make(map[manifest.Edge]struct{}, len(d.Cycle))
	for i, id := range d.Cycle {
		nodes[id] = struct{}{}
		if i+1 < len(d.Cycle) {
			edges[manifest.Edge{From: id, To: d.Cycle[i+1]}] = struct{}{}
		}
	}
	return nodes, edges
}

func fmtLabel(n *manifest.Node, detailed bool) string {
	base := n.ID
	if n.Label != "" {
		base = n.Label
	}
	if !detailed || len(n.Meta) == 0 {
		return base
	}

	parts := make([]string, 0, len(n.Meta))
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, n.Meta[k]))
	}
	return base + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using the embedded Graphviz engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG, normalizeViewBox)
}

// RenderPNG renders a DOT graph to PNG using the embedded Graphviz engine.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG, nil)
}

func render(ctx context.Context, dot string, format graphviz.Format, post func([]byte) []byte) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if post != nil {
		return post(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root <svg> tag so the viewBox starts at the
// origin and the width/height match it. Graphviz emits point-based sizes
// that scale inconsistently across viewers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
