package index

import (
	"sort"
	"strings"
	"unicode"

	"github.com/docweave/docsearch/pkg/types"
)

// Field weights. Title outweighs category outweighs chunk content.
const (
	titleWeight    = 5.0
	categoryWeight = 2.0
	contentWeight  = 1.0
)

// Match quality multipliers applied on top of field weights.
const (
	exactFactor  = 1.0
	prefixFactor = 0.7
	fuzzyFactor  = 0.4
)

// minTermLen is the minimum term length kept at build and query time.
const minTermLen = 2

// Index is an inverted keyword index over a corpus snapshot. It is built
// once per corpus load and read-only afterwards.
type Index struct {
	// postings maps an index term to the chunks containing it and the
	// accumulated field weight per chunk.
	postings map[string]map[string]float64

	// terms holds every index term sorted lexicographically, for prefix
	// and fuzzy scans.
	terms []string

	// termFreq counts how many chunks carry each term, for ranking
	// autocomplete suggestions.
	termFreq map[string]int
}

// Build constructs a fresh index from a corpus. The result fully replaces
// any previous index; it never merges. An empty corpus produces a valid,
// empty index.
func Build(docs []types.SearchDocument) *Index {
	idx := &Index{
		postings: make(map[string]map[string]float64),
		termFreq: make(map[string]int),
	}

	for di := range docs {
		doc := &docs[di]
		titleTerms := Tokenize(doc.Title)
		categoryTerms := Tokenize(doc.Category)

		for ci := range doc.Chunks {
			chunk := &doc.Chunks[ci]
			for _, t := range titleTerms {
				idx.add(t, chunk.ID, titleWeight)
			}
			for _, t := range categoryTerms {
				idx.add(t, chunk.ID, categoryWeight)
			}
			for _, t := range Tokenize(chunk.Text) {
				idx.add(t, chunk.ID, contentWeight)
			}
		}
	}

	idx.terms = make([]string, 0, len(idx.postings))
	for term, chunks := range idx.postings {
		idx.terms = append(idx.terms, term)
		idx.termFreq[term] = len(chunks)
	}
	sort.Strings(idx.terms)

	return idx
}

// add accumulates weight for a term occurrence in a chunk.
func (idx *Index) add(term, chunkID string, weight float64) {
	chunks, ok := idx.postings[term]
	if !ok {
		chunks = make(map[string]float64)
		idx.postings[term] = chunks
	}
	chunks[chunkID] += weight
}

// Query scores chunks against a whitespace-separated query. All surviving
// terms must match a chunk for it to be returned (logical AND). The
// returned map holds a non-negative score per chunk ID; a nil or empty
// map means no matches.
func (idx *Index) Query(query string) map[string]float64 {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	var combined map[string]float64
	for _, term := range terms {
		matched := idx.matchTerm(term)
		if len(matched) == 0 {
			return nil // AND semantics: one unmatched term empties the result
		}
		if combined == nil {
			combined = matched
			continue
		}
		for chunkID := range combined {
			score, ok := matched[chunkID]
			if !ok {
				delete(combined, chunkID)
				continue
			}
			combined[chunkID] += score
		}
		if len(combined) == 0 {
			return nil
		}
	}
	return combined
}

// matchTerm scores chunks against a single query term, keeping the
// strongest contribution per chunk across exact, prefix, and fuzzy
// matches of index terms.
func (idx *Index) matchTerm(term string) map[string]float64 {
	scores := make(map[string]float64)

	accumulate := func(indexTerm string, factor float64) {
		for chunkID, weight := range idx.postings[indexTerm] {
			if s := weight * factor; s > scores[chunkID] {
				scores[chunkID] = s
			}
		}
	}

	// Exact match.
	if _, ok := idx.postings[term]; ok {
		accumulate(term, exactFactor)
	}

	// Prefix matches over the sorted term list.
	start := sort.SearchStrings(idx.terms, term)
	for i := start; i < len(idx.terms); i++ {
		candidate := idx.terms[i]
		if !strings.HasPrefix(candidate, term) {
			break
		}
		if candidate != term {
			accumulate(candidate, prefixFactor)
		}
	}

	// Fuzzy matches within a length-scaled edit distance.
	maxDist := fuzzyDistance(len(term))
	if maxDist > 0 {
		for _, candidate := range idx.terms {
			// Length difference alone already exceeds the budget.
			if abs(len(candidate)-len(term)) > maxDist {
				continue
			}
			if candidate == term || strings.HasPrefix(candidate, term) {
				continue // already scored above
			}
			d := boundedLevenshtein(term, candidate, maxDist)
			if d <= maxDist {
				accumulate(candidate, fuzzyFactor/float64(1+d))
			}
		}
	}

	return scores
}

// Terms returns the number of distinct indexed terms.
func (idx *Index) Terms() int {
	return len(idx.terms)
}

// Tokenize lowercases text, splits it on non-alphanumeric runes, and
// drops terms shorter than two characters.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := fields[:0]
	for _, f := range fields {
		if len(f) >= minTermLen {
			terms = append(terms, f)
		}
	}
	return terms
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
