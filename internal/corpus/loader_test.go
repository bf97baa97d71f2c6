package corpus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docweave/docsearch/internal/cache"
	"github.com/docweave/docsearch/pkg/types"
)

func docsServer(t *testing.T, docs []types.SearchDocument) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(docs))
	}))
}

func failingServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
}

func TestLoader_FetchesStandardURL(t *testing.T) {
	server := docsServer(t, validDocs())
	defer server.Close()

	store := NewStore()
	l := NewLoader(Source{StandardURL: server.URL}, store, nil, zerolog.Nop())

	require.NoError(t, l.Start(context.Background()))

	snap := store.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, 3, snap.Chunks())
}

func TestLoader_EnhancedFallsBackToStandard(t *testing.T) {
	enhanced := failingServer(t)
	defer enhanced.Close()
	standard := docsServer(t, validDocs())
	defer standard.Close()

	store := NewStore()
	l := NewLoader(Source{EnhancedURL: enhanced.URL, StandardURL: standard.URL}, store, nil, zerolog.Nop())

	require.NoError(t, l.Start(context.Background()))

	snap := store.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, 2, len(snap.Documents))
	assert.False(t, snap.HasEmbeddings())
}

func TestLoader_EnhancedPreferred(t *testing.T) {
	docs := validDocs()
	for di := range docs {
		for ci := range docs[di].Chunks {
			docs[di].Chunks[ci].Embedding = []float32{0.1, 0.2}
		}
	}
	enhanced := docsServer(t, docs)
	defer enhanced.Close()
	standard := docsServer(t, validDocs())
	defer standard.Close()

	store := NewStore()
	l := NewLoader(Source{EnhancedURL: enhanced.URL, StandardURL: standard.URL}, store, nil, zerolog.Nop())

	require.NoError(t, l.Start(context.Background()))

	snap := store.Snapshot()
	require.NotNil(t, snap)
	assert.True(t, snap.HasEmbeddings())
	assert.Equal(t, 2, snap.EmbeddingDim)
}

func TestLoader_TotalFailurePublishesEmptyCorpus(t *testing.T) {
	store := NewStore()
	l := NewLoader(Source{StandardURL: "http://127.0.0.1:1/docs.json"}, store, nil, zerolog.Nop())

	// Unreachable sources never surface as an error; queries just return
	// nothing.
	require.NoError(t, l.Start(context.Background()))

	snap := store.Snapshot()
	require.NotNil(t, snap)
	assert.Zero(t, snap.Chunks())
}

func TestLoader_CacheFirstStartup(t *testing.T) {
	cacheStore, err := cache.Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = cacheStore.Close() }()

	ctx := context.Background()
	require.NoError(t, cacheStore.PutCorpus(ctx, cache.KeyCorpus, validDocs()))

	var published []string
	store := NewStore()
	l := NewLoader(Source{StandardURL: "http://127.0.0.1:1/docs.json"}, store, cacheStore, zerolog.Nop(),
		WithOnPublish(func(c *Corpus) { published = append(published, c.Generation) }))

	require.NoError(t, l.Start(ctx))

	// The cached corpus serves immediately even though the network source
	// is down.
	snap := store.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, 3, snap.Chunks())
	require.NotEmpty(t, published)
}

func TestLoader_RefreshRewritesCache(t *testing.T) {
	server := docsServer(t, validDocs())
	defer server.Close()

	cacheStore, err := cache.Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = cacheStore.Close() }()

	ctx := context.Background()
	store := NewStore()
	l := NewLoader(Source{StandardURL: server.URL}, store, cacheStore, zerolog.Nop())

	require.NoError(t, l.Refresh(ctx))

	cached, ok := cacheStore.GetCorpus(ctx, cache.KeyCorpus, cache.DefaultCorpusTTL)
	require.True(t, ok)
	assert.Len(t, cached, 2)
}

func TestLoader_ExpiredCacheFallsThroughToNetwork(t *testing.T) {
	server := docsServer(t, validDocs())
	defer server.Close()

	cacheStore, err := cache.Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = cacheStore.Close() }()

	ctx := context.Background()
	require.NoError(t, cacheStore.PutCorpus(ctx, cache.KeyCorpus, validDocs()[:1]))

	store := NewStore()
	// Zero-ish TTL makes the just-written entry stale immediately.
	l := NewLoader(Source{StandardURL: server.URL}, store, cacheStore, zerolog.Nop(),
		WithCorpusTTL(time.Nanosecond))

	require.NoError(t, l.Start(ctx))

	snap := store.Snapshot()
	require.NotNil(t, snap)
	assert.Len(t, snap.Documents, 2, "stale cache must be superseded by a foreground fetch")
}

func TestLoader_FileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.json")
	data, err := json.Marshal(validDocs())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	store := NewStore()
	l := NewLoader(Source{FilePath: path}, store, nil, zerolog.Nop())

	require.NoError(t, l.Start(context.Background()))

	snap := store.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, 3, snap.Chunks())
}

func TestLoader_MalformedPayloadKeepsPreviousSnapshot(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer bad.Close()

	store := NewStore()
	prev, err := Build(validDocs())
	require.NoError(t, err)
	store.Publish(prev)

	l := NewLoader(Source{StandardURL: bad.URL}, store, nil, zerolog.Nop())
	require.Error(t, l.Refresh(context.Background()))

	assert.Same(t, prev, store.Snapshot(), "a failed refresh must not disturb the serving snapshot")
}
