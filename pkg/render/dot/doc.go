// Package dot renders analysis documents as Graphviz diagrams.
//
// # Overview
//
// [ToDOT] converts a [graphio.Document] into DOT source. When the document
// carries a cycle, the offending nodes and edges are highlighted so the
// loop is visible at a glance. [RenderSVG] and [RenderPNG] rasterize DOT
// source through the embedded Graphviz engine; no external binaries are
// required.
//
// [graphio.Document]: github.com/driftlab/refdag/pkg/graphio.Document
package dot
