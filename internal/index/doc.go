// Package index implements the deterministic keyword index: an in-memory
// inverted index over chunk text, document titles, and categories.
//
// The index supports exact, prefix, and fuzzy (bounded edit distance)
// matching, combined with logical AND across query terms. Scores are
// non-negative with no fixed upper bound; relative ordering is the
// contract, not absolute magnitude.
//
// # Field Weighting
//
// Terms are weighted by where they occur:
//   - document title:    x5
//   - document category: x2
//   - chunk text:        x1
//
// # Matching
//
// Query terms are split on whitespace and lowercased; terms shorter than
// two characters are discarded, both at build and at query time. Each
// surviving term matches index terms three ways, keeping the strongest
// contribution per chunk:
//   - exact match, full weight
//   - prefix match, weight x0.7
//   - fuzzy match within a length-scaled edit distance, weight x0.4/(1+d)
//
// A chunk appears in the result only if every query term matched it.
//
// Building is idempotent given the same corpus and always produces a
// fresh index; it never merges into a previous one. An empty corpus
// yields an empty index whose every query returns no results.
package index
