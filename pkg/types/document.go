package types

import (
	"fmt"
	"strings"
)

// SearchChunk is a contiguous slice of one document's text, the atomic
// unit of retrieval.
type SearchChunk struct {
	// ID is unique within the corpus, derived from (document slug, chunk
	// ordinal). See ChunkID.
	ID string `json:"id"`

	// Text is the raw chunk content used for keyword indexing.
	Text string `json:"text"`

	// Preview is a truncated snippet for display, independent of Text.
	Preview string `json:"preview"`

	// StartIndex is the offset of this chunk within the parent document.
	// Monotonically increasing across chunks of one document; used for
	// ordering and debugging only, never for scoring.
	StartIndex int `json:"startIndex"`

	// Embedding is an optional fixed-length vector. All chunks in a corpus
	// either carry embeddings of the same length or none do.
	Embedding []float32 `json:"embedding,omitempty"`

	// Enrichment metadata, opaque to the scorer.
	Keywords    []string `json:"keywords,omitempty"`
	Concepts    []string `json:"concepts,omitempty"`
	ContentType string   `json:"contentType,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
}

// SearchDocument is one documentation page.
type SearchDocument struct {
	// Slug uniquely identifies the document. Its first path segment encodes
	// the documentation context ("v1.2.0", "drafts", ...) or is absent,
	// meaning the current version.
	Slug string `json:"slug"`

	Title    string `json:"title"`
	Category string `json:"category"`

	// Chunks is ordered and non-empty for any indexed document.
	Chunks []SearchChunk `json:"chunks"`
}

// ChunkID derives a chunk identifier from a document slug and the chunk's
// ordinal within that document.
func ChunkID(slug string, ordinal int) string {
	return fmt.Sprintf("%s#%d", slug, ordinal)
}

// ContextToken returns the first path segment of a document slug, the
// token naming the documentation context the document belongs to. A slug
// without a separator is its own token.
func ContextToken(slug string) string {
	if i := strings.IndexByte(slug, '/'); i >= 0 {
		return slug[:i]
	}
	return slug
}

// Validate checks the structural invariants of a document.
func (d *SearchDocument) Validate() error {
	if d.Slug == "" {
		return ErrEmptySlug
	}
	if len(d.Chunks) == 0 {
		return fmt.Errorf("%w: document %q", ErrNoChunks, d.Slug)
	}
	prev := -1
	for i := range d.Chunks {
		c := &d.Chunks[i]
		if c.ID == "" {
			return fmt.Errorf("%w: document %q chunk %d", ErrEmptyChunkID, d.Slug, i)
		}
		if c.StartIndex < prev {
			return fmt.Errorf("%w: document %q chunk %q", ErrChunkOrder, d.Slug, c.ID)
		}
		prev = c.StartIndex
	}
	return nil
}

// ContextRegistry maps each known version or state token to the document
// slugs belonging to it, and names the token treated as the current
// version. It is supplied by the content pipeline, not derived here.
type ContextRegistry struct {
	// CurrentVersion is the token filtering falls back to when a caller's
	// context cannot be matched to any registered token.
	CurrentVersion string

	// Slugs maps a context token to the set of document slugs registered
	// under it.
	Slugs map[string]map[string]bool
}

// Resolve maps a caller-supplied context token to a registered token,
// falling back to the current version for unknown or empty tokens.
func (r *ContextRegistry) Resolve(token string) string {
	if token != "" {
		if _, ok := r.Slugs[token]; ok {
			return token
		}
	}
	return r.CurrentVersion
}

// Contains reports whether slug is registered under the given token.
func (r *ContextRegistry) Contains(token, slug string) bool {
	set, ok := r.Slugs[token]
	return ok && set[slug]
}

// Register adds a slug under a context token, creating the token's set on
// first use.
func (r *ContextRegistry) Register(token, slug string) {
	if r.Slugs == nil {
		r.Slugs = make(map[string]map[string]bool)
	}
	set, ok := r.Slugs[token]
	if !ok {
		set = make(map[string]bool)
		r.Slugs[token] = set
	}
	set[slug] = true
}
