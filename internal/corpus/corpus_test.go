package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docsearch/pkg/types"
)

func validDocs() []types.SearchDocument {
	return []types.SearchDocument{
		{
			Slug:     "getting-started",
			Title:    "Getting Started",
			Category: "guides",
			Chunks: []types.SearchChunk{
				{ID: types.ChunkID("getting-started", 0), Text: "Install the CLI.", StartIndex: 0},
				{ID: types.ChunkID("getting-started", 1), Text: "Run your first search.", StartIndex: 17},
			},
		},
		{
			Slug:     "v1/legacy-setup",
			Title:    "Legacy Setup",
			Category: "guides",
			Chunks: []types.SearchChunk{
				{ID: types.ChunkID("v1/legacy-setup", 0), Text: "Old installation flow.", StartIndex: 0},
			},
		},
	}
}

func TestBuild_Valid(t *testing.T) {
	c, err := Build(validDocs())
	require.NoError(t, err)

	assert.NotEmpty(t, c.Generation)
	assert.Equal(t, 3, c.Chunks())
	assert.False(t, c.HasEmbeddings())
	assert.NotNil(t, c.Index)

	doc, ok := c.DocumentBySlug("getting-started")
	require.True(t, ok)
	assert.Equal(t, "Getting Started", doc.Title)

	chunk, owner, ok := c.ChunkByID("getting-started#1")
	require.True(t, ok)
	assert.Equal(t, "Run your first search.", chunk.Text)
	assert.Equal(t, "getting-started", owner.Slug)

	_, _, ok = c.ChunkByID("missing#0")
	assert.False(t, ok)
}

func TestBuild_EmptyCorpus(t *testing.T) {
	c, err := Build(nil)
	require.NoError(t, err)
	assert.Zero(t, c.Chunks())
	assert.Empty(t, c.Index.Query("anything"))
}

func TestBuild_RejectsDuplicateSlug(t *testing.T) {
	docs := validDocs()
	docs[1].Slug = docs[0].Slug
	docs[1].Chunks[0].ID = types.ChunkID(docs[0].Slug, 9)

	_, err := Build(docs)
	assert.ErrorIs(t, err, types.ErrDuplicateID)
}

func TestBuild_RejectsDuplicateChunkID(t *testing.T) {
	docs := validDocs()
	docs[1].Chunks[0].ID = docs[0].Chunks[0].ID

	_, err := Build(docs)
	assert.ErrorIs(t, err, types.ErrDuplicateID)
}

func TestBuild_RejectsInvalidDocument(t *testing.T) {
	docs := validDocs()
	docs[0].Chunks = nil

	_, err := Build(docs)
	assert.ErrorIs(t, err, types.ErrNoChunks)
}

func TestBuild_EmbeddingInvariants(t *testing.T) {
	t.Run("uniform embeddings accepted", func(t *testing.T) {
		docs := validDocs()
		for di := range docs {
			for ci := range docs[di].Chunks {
				docs[di].Chunks[ci].Embedding = []float32{1, 2, 3}
			}
		}
		c, err := Build(docs)
		require.NoError(t, err)
		assert.True(t, c.HasEmbeddings())
		assert.Equal(t, 3, c.EmbeddingDim)
	})

	t.Run("dimension mismatch rejected", func(t *testing.T) {
		docs := validDocs()
		for di := range docs {
			for ci := range docs[di].Chunks {
				docs[di].Chunks[ci].Embedding = []float32{1, 2, 3}
			}
		}
		docs[1].Chunks[0].Embedding = []float32{1, 2}

		_, err := Build(docs)
		assert.ErrorIs(t, err, types.ErrDimensionMismatch)
	})

	t.Run("mixed embedded and plain chunks accepted", func(t *testing.T) {
		docs := validDocs()
		docs[0].Chunks[0].Embedding = []float32{1, 2, 3}

		c, err := Build(docs)
		require.NoError(t, err)
		assert.True(t, c.HasEmbeddings())
		assert.Equal(t, 3, c.EmbeddingDim)
	})
}

func TestForEachChunk_DeterministicOrder(t *testing.T) {
	c, err := Build(validDocs())
	require.NoError(t, err)

	var order []string
	c.ForEachChunk(func(_ *types.SearchDocument, chunk *types.SearchChunk) {
		order = append(order, chunk.ID)
	})
	assert.Equal(t, []string{"getting-started#0", "getting-started#1", "v1/legacy-setup#0"}, order)
}

func TestAddRemoveDocument(t *testing.T) {
	c, err := Build(validDocs())
	require.NoError(t, err)

	added, err := c.AddDocument(types.SearchDocument{
		Slug:  "faq",
		Title: "FAQ",
		Chunks: []types.SearchChunk{
			{ID: "faq#0", Text: "Frequently asked questions."},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, added.Chunks())
	assert.NotEqual(t, c.Generation, added.Generation)

	// The original snapshot is untouched.
	assert.Equal(t, 3, c.Chunks())
	_, ok := c.DocumentBySlug("faq")
	assert.False(t, ok)

	removed, err := added.RemoveDocument("faq")
	require.NoError(t, err)
	assert.Equal(t, 3, removed.Chunks())

	// Removing an unknown slug still yields a fresh snapshot.
	again, err := removed.RemoveDocument("never-existed")
	require.NoError(t, err)
	assert.Equal(t, 3, again.Chunks())
	assert.NotEqual(t, removed.Generation, again.Generation)
}

func TestStore_PublishSnapshot(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Snapshot())

	c, err := Build(validDocs())
	require.NoError(t, err)
	s.Publish(c)
	assert.Same(t, c, s.Snapshot())

	next, err := Build(nil)
	require.NoError(t, err)
	s.Publish(next)
	assert.Same(t, next, s.Snapshot())
}

func TestDeriveRegistry(t *testing.T) {
	docs := []types.SearchDocument{
		{Slug: "guide", Chunks: []types.SearchChunk{{ID: "guide#0", Text: "x"}}},
		{Slug: "api/search", Chunks: []types.SearchChunk{{ID: "api/search#0", Text: "x"}}},
		{Slug: "v1/setup", Chunks: []types.SearchChunk{{ID: "v1/setup#0", Text: "x"}}},
		{Slug: "v2.1.0/setup", Chunks: []types.SearchChunk{{ID: "v2.1.0/setup#0", Text: "x"}}},
		{Slug: "drafts/new-feature", Chunks: []types.SearchChunk{{ID: "drafts/new-feature#0", Text: "x"}}},
	}

	reg := DeriveRegistry(docs, "current", []string{"drafts", "proposals"})

	assert.Equal(t, "current", reg.CurrentVersion)
	assert.True(t, reg.Contains("current", "guide"))
	assert.True(t, reg.Contains("current", "api/search"), "non-version path prefixes belong to the current version")
	assert.True(t, reg.Contains("v1", "v1/setup"))
	assert.True(t, reg.Contains("v2.1.0", "v2.1.0/setup"))
	assert.True(t, reg.Contains("drafts", "drafts/new-feature"))
	assert.False(t, reg.Contains("current", "v1/setup"))

	// Unknown tokens resolve to the current version.
	assert.Equal(t, "current", reg.Resolve("v9"))
	assert.Equal(t, "current", reg.Resolve(""))
	assert.Equal(t, "v1", reg.Resolve("v1"))
}
