package corpus

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docweave/docsearch/internal/index"
	"github.com/docweave/docsearch/pkg/types"
)

// Corpus is one immutable snapshot of the loaded documentation: the
// document array, its lookup maps, and the keyword index built from it.
// A load constructs a whole new Corpus; nothing mutates one after Build
// returns, so readers never observe a torn state.
type Corpus struct {
	// Generation identifies this snapshot, for cache keying and logging.
	Generation string

	// Documents in load order. Chunk pointers below point into this slice.
	Documents []types.SearchDocument

	// LoadedAt is when this snapshot was built.
	LoadedAt time.Time

	// EmbeddingDim is the corpus-wide embedding dimensionality, 0 when no
	// chunk carries an embedding.
	EmbeddingDim int

	// Index is the keyword index over this snapshot.
	Index *index.Index

	bySlug    map[string]*types.SearchDocument
	chunkByID map[string]*types.SearchChunk
	docByID   map[string]*types.SearchDocument // chunk ID -> owning document
}

// Build validates the documents and constructs a corpus snapshot with its
// keyword index. Invariants enforced here:
//
//   - slugs and chunk IDs are unique across the corpus
//   - every document has at least one ordered chunk
//   - every chunk that carries an embedding shares one length
//
// Chunks without embeddings are valid alongside embedded ones; they
// simply never earn a semantic score. An empty document array builds a
// valid, empty corpus.
func Build(docs []types.SearchDocument) (*Corpus, error) {
	c := &Corpus{
		Generation: uuid.NewString(),
		Documents:  docs,
		LoadedAt:   time.Now(),
		bySlug:     make(map[string]*types.SearchDocument, len(docs)),
		chunkByID:  make(map[string]*types.SearchChunk),
		docByID:    make(map[string]*types.SearchDocument),
	}

	for di := range docs {
		doc := &docs[di]
		if err := doc.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.bySlug[doc.Slug]; dup {
			return nil, fmt.Errorf("%w: slug %q", types.ErrDuplicateID, doc.Slug)
		}
		c.bySlug[doc.Slug] = doc

		for ci := range doc.Chunks {
			chunk := &doc.Chunks[ci]
			if _, dup := c.chunkByID[chunk.ID]; dup {
				return nil, fmt.Errorf("%w: chunk %q", types.ErrDuplicateID, chunk.ID)
			}
			c.chunkByID[chunk.ID] = chunk
			c.docByID[chunk.ID] = doc

			if len(chunk.Embedding) == 0 {
				continue
			}
			if c.EmbeddingDim == 0 {
				c.EmbeddingDim = len(chunk.Embedding)
			} else if len(chunk.Embedding) != c.EmbeddingDim {
				return nil, fmt.Errorf("%w: chunk %q has %d, corpus has %d",
					types.ErrDimensionMismatch, chunk.ID, len(chunk.Embedding), c.EmbeddingDim)
			}
		}
	}

	c.Index = index.Build(docs)
	return c, nil
}

// DocumentBySlug looks up a document.
func (c *Corpus) DocumentBySlug(slug string) (*types.SearchDocument, bool) {
	doc, ok := c.bySlug[slug]
	return doc, ok
}

// ChunkByID resolves a chunk and its owning document.
func (c *Corpus) ChunkByID(id string) (*types.SearchChunk, *types.SearchDocument, bool) {
	chunk, ok := c.chunkByID[id]
	if !ok {
		return nil, nil, false
	}
	return chunk, c.docByID[id], true
}

// HasEmbeddings reports whether semantic scoring is possible at all on
// this snapshot.
func (c *Corpus) HasEmbeddings() bool {
	return c.EmbeddingDim > 0
}

// Chunks returns the number of chunks in the corpus.
func (c *Corpus) Chunks() int {
	return len(c.chunkByID)
}

// ForEachChunk visits every chunk in document order, then chunk order.
// Iteration order is deterministic, which downstream ranking relies on
// for stable tie behavior.
func (c *Corpus) ForEachChunk(fn func(doc *types.SearchDocument, chunk *types.SearchChunk)) {
	for di := range c.Documents {
		doc := &c.Documents[di]
		for ci := range doc.Chunks {
			fn(doc, &doc.Chunks[ci])
		}
	}
}

// AddDocument produces a new snapshot containing the additional document.
// The receiver is untouched; index and lookup maps of the new snapshot
// are rebuilt together, so a chunk is never visible in one but not the
// other.
func (c *Corpus) AddDocument(doc types.SearchDocument) (*Corpus, error) {
	docs := make([]types.SearchDocument, 0, len(c.Documents)+1)
	docs = append(docs, c.Documents...)
	docs = append(docs, doc)
	return Build(docs)
}

// RemoveDocument produces a new snapshot without the named document.
// Removing an unknown slug is a no-op that still yields a fresh snapshot.
func (c *Corpus) RemoveDocument(slug string) (*Corpus, error) {
	docs := make([]types.SearchDocument, 0, len(c.Documents))
	for _, d := range c.Documents {
		if d.Slug != slug {
			docs = append(docs, d)
		}
	}
	return Build(docs)
}
