// Package mcp exposes the documentation search engine over the Model
// Context Protocol on stdio.
//
// Four tools are registered:
//
//   - search_docs: hybrid keyword plus semantic search with context
//     filtering and highlighted previews
//   - suggest_docs: autocomplete completions for a partial query
//   - enhancer_status: lifecycle state of the semantic layer, with an
//     optional dismiss action
//   - reload_corpus: force a corpus refresh from the configured source
//
// Tool handlers never surface search failures as protocol errors; a
// degraded search returns an empty result set with metadata explaining
// the active scoring mode. Protocol errors are reserved for malformed
// parameters and genuine internal faults.
package mcp
