package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkID(t *testing.T) {
	assert.Equal(t, "getting-started#0", ChunkID("getting-started", 0))
	assert.Equal(t, "v1/setup#12", ChunkID("v1/setup", 12))
}

func TestContextToken(t *testing.T) {
	assert.Equal(t, "v1", ContextToken("v1/setup"))
	assert.Equal(t, "drafts", ContextToken("drafts/new-feature/details"))
	assert.Equal(t, "guide", ContextToken("guide"))
}

func TestSearchDocument_Validate(t *testing.T) {
	valid := SearchDocument{
		Slug: "guide",
		Chunks: []SearchChunk{
			{ID: "guide#0", StartIndex: 0},
			{ID: "guide#1", StartIndex: 100},
		},
	}
	assert.NoError(t, valid.Validate())

	t.Run("empty slug", func(t *testing.T) {
		d := valid
		d.Slug = ""
		assert.ErrorIs(t, d.Validate(), ErrEmptySlug)
	})

	t.Run("no chunks", func(t *testing.T) {
		d := valid
		d.Chunks = nil
		assert.ErrorIs(t, d.Validate(), ErrNoChunks)
	})

	t.Run("empty chunk id", func(t *testing.T) {
		d := valid
		d.Chunks = []SearchChunk{{ID: ""}}
		assert.ErrorIs(t, d.Validate(), ErrEmptyChunkID)
	})

	t.Run("chunk order violation", func(t *testing.T) {
		d := valid
		d.Chunks = []SearchChunk{
			{ID: "guide#0", StartIndex: 100},
			{ID: "guide#1", StartIndex: 50},
		}
		assert.ErrorIs(t, d.Validate(), ErrChunkOrder)
	})
}

func TestContextRegistry(t *testing.T) {
	var reg ContextRegistry
	reg.CurrentVersion = "current"
	reg.Register("current", "guide")
	reg.Register("v1", "v1/setup")

	assert.Equal(t, "v1", reg.Resolve("v1"))
	assert.Equal(t, "current", reg.Resolve("v9"))
	assert.Equal(t, "current", reg.Resolve(""))

	assert.True(t, reg.Contains("v1", "v1/setup"))
	assert.False(t, reg.Contains("v1", "guide"))
	assert.False(t, reg.Contains("unknown", "guide"))
}
