package types

// EnhancedSearchResult is one ranked search hit: the owning document, the
// matched chunk, and the score components that produced its rank.
type EnhancedSearchResult struct {
	Document *SearchDocument
	Chunk    *SearchChunk

	// KeywordScore is the lexical score from the keyword index. Zero when
	// the chunk was found only through semantic matching.
	KeywordScore float64

	// SemanticScore is the raw cosine similarity against the query
	// embedding. Zero when the semantic layer is unavailable or the chunk
	// had no embedding.
	SemanticScore float64

	// FinalScore is the fused value used for ordering. When the semantic
	// layer is not active it equals KeywordScore unmodified.
	FinalScore float64

	// HighlightedPreview is the chunk preview with query terms marked up
	// for display.
	HighlightedPreview string

	// SemanticOnly marks results found via semantic matching with no
	// keyword overlap at all.
	SemanticOnly bool
}

// Validate checks the structural invariants of a result record.
func (r *EnhancedSearchResult) Validate() error {
	if r.Document == nil {
		return ErrMissingDocument
	}
	if r.Chunk == nil {
		return ErrMissingChunk
	}
	if r.KeywordScore < 0 {
		return ErrNegativeScore
	}
	if r.FinalScore < 0 {
		return ErrNegativeScore
	}
	return nil
}
