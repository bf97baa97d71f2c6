package searcher

import (
	"github.com/docweave/docsearch/pkg/types"
)

// filterByContext restricts results to documents registered under the
// caller's resolved context. Unknown tokens fall back to the current
// version instead of failing the query; relative order of surviving
// results is preserved. With no registry configured, filtering is a
// pass-through.
func (e *Engine) filterByContext(results []types.EnhancedSearchResult, token string) []types.EnhancedSearchResult {
	e.registryMu.RLock()
	reg := e.registry
	e.registryMu.RUnlock()

	if len(reg.Slugs) == 0 {
		return results
	}

	resolved := reg.Resolve(token)
	filtered := results[:0:0]
	for _, r := range results {
		if reg.Contains(resolved, r.Document.Slug) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
