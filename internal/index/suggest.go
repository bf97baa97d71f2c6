package index

import (
	"sort"
	"strings"
)

// DefaultSuggestionLimit caps autocomplete responses when the caller asks
// for zero or a negative number of suggestions.
const DefaultSuggestionLimit = 8

// Suggest returns autocomplete candidates for a partial query, matched
// against indexed terms only. The last term of the partial query is
// completed; earlier terms are echoed back as typed. Candidates are
// ranked by how many chunks carry the term, then lexicographically, so
// the output is deterministic.
func (idx *Index) Suggest(partial string, limit int) []string {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	terms := Tokenize(partial)
	if len(terms) == 0 {
		return nil
	}
	last := terms[len(terms)-1]
	prefix := strings.Join(terms[:len(terms)-1], " ")

	seen := make(map[string]bool, limit)
	candidates := make([]string, 0, limit*2)

	collect := func(term string) {
		if !seen[term] {
			seen[term] = true
			candidates = append(candidates, term)
		}
	}

	// Prefix completions first.
	start := sort.SearchStrings(idx.terms, last)
	for i := start; i < len(idx.terms); i++ {
		if !strings.HasPrefix(idx.terms[i], last) {
			break
		}
		collect(idx.terms[i])
	}

	// Top up with fuzzy matches when prefix completions run short.
	if len(candidates) < limit {
		maxDist := fuzzyDistance(len(last))
		if maxDist > 0 {
			for _, term := range idx.terms {
				if seen[term] || abs(len(term)-len(last)) > maxDist {
					continue
				}
				if boundedLevenshtein(last, term, maxDist) <= maxDist {
					collect(term)
				}
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		fi, fj := idx.termFreq[candidates[i]], idx.termFreq[candidates[j]]
		if fi != fj {
			return fi > fj
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	suggestions := make([]string, len(candidates))
	for i, term := range candidates {
		if prefix == "" {
			suggestions[i] = term
		} else {
			suggestions[i] = prefix + " " + term
		}
	}
	return suggestions
}
