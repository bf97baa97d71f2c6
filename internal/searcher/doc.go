// Package searcher implements hybrid documentation search combining the
// keyword index with optional semantic similarity.
//
// # Scoring
//
// The keyword index always runs. When the enhancer is READY and the
// corpus carries embeddings, every embedded chunk is scored by cosine
// similarity against the query embedding, keeping candidates at or above
// the threshold. The two result sets are unioned by chunk ID and fused:
//
//	final = (keyword*0.4 + similarity*100*0.6) * boost
//
// boost is 1.0 for chunks with no semantic match and rises linearly from
// 1.2 at the threshold to 3.0 at similarity 1.0. When only the keyword
// side matched, the 0.4 factor down-weights it relative to semantic
// matches. Without an active semantic layer the final score is the
// keyword score unmodified.
//
// # Degradation
//
// Everything that can go wrong on the semantic side (enhancer not
// ready, corpus without embeddings, embedding failure, query vector of
// the wrong dimensionality) silently reduces that query to keyword-only
// scoring. Empty queries and a not-yet-loaded corpus return empty
// responses, never errors.
//
// # Context Filtering
//
// After ranking, results are restricted to documents registered under
// the caller's documentation context (version or content state).
// Unrecognized tokens fall back to the current version; callers may opt
// out to search across all contexts. Filtering preserves relative order
// and always yields a subset of the unfiltered ranking.
//
// # Caching
//
// Responses can be cached in an LRU keyed by query, context, and corpus
// generation with a TTL, so a newly published snapshot never serves
// stale rankings.
package searcher
