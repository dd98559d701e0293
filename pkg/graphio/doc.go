// Package graphio provides JSON import and export for graph analysis
// documents.
//
// # Overview
//
// An analysis document is the serialized result of analyzing a reference
// graph: the node and edge declarations plus the derived cycle or
// topological order. The format is designed for:
//
//   - Persisting analysis results in a [store]
//   - Serving results over the HTTP API
//   - Round-trip preservation: export, re-import, and re-analyze identically
//
// # JSON Format
//
//	{
//	  "name": "services",
//	  "nodes": [
//	    {"id": "api"},
//	    {"id": "billing"}
//	  ],
//	  "edges": [
//	    {"from": "api", "to": "billing"}
//	  ],
//	  "acyclic": true,
//	  "order": ["api", "billing"]
//	}
//
// Cyclic graphs carry a "cycle" array instead of "order"; the first and
// last entries are the same node, so the path reads as a closed walk.
//
// # Import and Export
//
// Use [ExportJSON] and [ImportJSON] for file paths, or [WriteJSON] and
// [ReadJSON] for any io.Writer / io.Reader. Imported documents rebuild
// into live graphs with [Document.Graph].
//
// # Concurrency
//
// Documents are plain data; a document is safe for concurrent readers but
// not for concurrent mutation.
//
// [store]: github.com/driftlab/refdag/pkg/store
package graphio
