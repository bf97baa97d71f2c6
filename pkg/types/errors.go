package types

import "errors"

// Domain errors for corpus and result validation
var (
	// Document errors
	ErrEmptySlug    = errors.New("document slug cannot be empty")
	ErrNoChunks     = errors.New("document has no chunks")
	ErrEmptyChunkID = errors.New("chunk ID cannot be empty")
	ErrChunkOrder   = errors.New("chunk start index out of order")
	ErrDuplicateID  = errors.New("duplicate identifier in corpus")

	// Embedding errors
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// Result errors
	ErrMissingDocument = errors.New("result document is required")
	ErrMissingChunk    = errors.New("result chunk is required")
	ErrNegativeScore   = errors.New("scores must be non-negative")
)
