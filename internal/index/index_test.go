package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docsearch/pkg/types"
)

func fixtureDocs() []types.SearchDocument {
	return []types.SearchDocument{
		{
			Slug:     "getting-started",
			Title:    "Getting Started",
			Category: "guides",
			Chunks: []types.SearchChunk{
				{ID: "getting-started#0", Text: "Install the CLI and run your first search."},
				{ID: "getting-started#1", Text: "Configuration basics for new projects."},
			},
		},
		{
			Slug:     "api/search",
			Title:    "Search API",
			Category: "reference",
			Chunks: []types.SearchChunk{
				{ID: "api/search#0", Text: "The search endpoint accepts a query parameter."},
			},
		},
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"lowercases and splits", "Getting Started", []string{"getting", "started"}},
		{"splits on punctuation", "config.toml, loaded!", []string{"config", "toml", "loaded"}},
		{"drops single characters", "a b go", []string{"go"}},
		{"empty input", "", nil},
		{"only short terms", "a b c", nil},
		{"digits survive", "http 404 errors", []string{"http", "404", "errors"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild_FieldWeighting(t *testing.T) {
	idx := Build(fixtureDocs())

	// Title terms score highest: "getting" lands on both chunks of the
	// getting-started document at title weight.
	scores := idx.Query("getting")
	require.Len(t, scores, 2)
	assert.InDelta(t, 5.0, scores["getting-started#0"], 1e-9)
	assert.InDelta(t, 5.0, scores["getting-started#1"], 1e-9)

	// "search" is a title term for the API doc and a content term in two
	// chunks; title weight plus content weight on the API chunk.
	scores = idx.Query("search")
	require.Len(t, scores, 2)
	assert.InDelta(t, 6.0, scores["api/search#0"], 1e-9)
	assert.InDelta(t, 1.0, scores["getting-started#0"], 1e-9)

	// Category terms sit between title and content weight.
	scores = idx.Query("guides")
	require.Len(t, scores, 2)
	assert.InDelta(t, 2.0, scores["getting-started#0"], 1e-9)
}

func TestQuery_ANDSemantics(t *testing.T) {
	idx := Build(fixtureDocs())

	// Both terms must match; only the chunk carrying "getting" (title)
	// and "search" (content) survives.
	scores := idx.Query("getting search")
	require.Len(t, scores, 1)
	assert.InDelta(t, 6.0, scores["getting-started#0"], 1e-9)

	// One unmatched term empties the whole result.
	assert.Empty(t, idx.Query("getting nonexistentterm"))

	// A query that tokenizes to nothing matches nothing.
	assert.Empty(t, idx.Query("a !"))
	assert.Empty(t, idx.Query(""))
}

func TestQuery_PrefixMatch(t *testing.T) {
	idx := Build(fixtureDocs())

	// "config" is a prefix of the indexed "configuration".
	scores := idx.Query("config")
	require.Contains(t, scores, "getting-started#1")
	assert.InDelta(t, 0.7, scores["getting-started#1"], 1e-9)
}

func TestQuery_FuzzyMatch(t *testing.T) {
	idx := Build(fixtureDocs())

	// "isntall" is two edits from "install", inside the budget for a
	// seven-character term. Score decays with distance.
	scores := idx.Query("isntall")
	require.Contains(t, scores, "getting-started#0")
	assert.InDelta(t, 0.4/3.0, scores["getting-started#0"], 1e-9)

	// Three-character terms get no fuzzy tolerance.
	assert.Empty(t, idx.Query("clx"))
}

func TestQuery_KeepsStrongestContribution(t *testing.T) {
	docs := []types.SearchDocument{
		{
			Slug:  "install",
			Title: "Install",
			Chunks: []types.SearchChunk{
				{ID: "install#0", Text: "installation steps and installer notes"},
			},
		},
	}
	idx := Build(docs)

	// "install" matches exactly (title weight 5) and as a prefix of
	// "installation" and "installer" (content weight 0.7 each). The
	// chunk keeps the strongest contribution, not the sum.
	scores := idx.Query("install")
	require.Len(t, scores, 1)
	assert.InDelta(t, 5.0, scores["install#0"], 1e-9)
}

func TestBuild_ReplacesEntirely(t *testing.T) {
	docs := fixtureDocs()
	first := Build(docs)
	second := Build(docs)

	assert.Equal(t, first.Terms(), second.Terms())
	assert.Equal(t, first.Query("search"), second.Query("search"))

	// A rebuild from a different corpus carries nothing over.
	rebuilt := Build(nil)
	assert.Zero(t, rebuilt.Terms())
	assert.Empty(t, rebuilt.Query("search"))
}

func TestBoundedLevenshtein(t *testing.T) {
	tests := []struct {
		a, b    string
		maxDist int
		want    int
	}{
		{"install", "install", 2, 0},
		{"install", "isntall", 2, 2},
		{"install", "instal", 2, 1},
		{"install", "xyz", 2, 3}, // exceeds budget, reports maxDist+1
		{"ab", "ba", 1, 2},
	}
	for _, tt := range tests {
		got := boundedLevenshtein(tt.a, tt.b, tt.maxDist)
		assert.Equal(t, tt.want, got, "boundedLevenshtein(%q, %q, %d)", tt.a, tt.b, tt.maxDist)
	}
}

func TestFuzzyDistance(t *testing.T) {
	assert.Equal(t, 0, fuzzyDistance(3))
	assert.Equal(t, 1, fuzzyDistance(4))
	assert.Equal(t, 1, fuzzyDistance(5))
	assert.Equal(t, 2, fuzzyDistance(6))
	assert.Equal(t, 2, fuzzyDistance(12))
}
