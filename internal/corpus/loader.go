package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/docweave/docsearch/internal/cache"
	"github.com/docweave/docsearch/internal/metrics"
	"github.com/docweave/docsearch/pkg/types"
)

// Source names where the corpus comes from. The enhanced resource carries
// embeddings; the standard one is the fallback when the enhanced fetch
// fails. A file path takes precedence over both for local deployments.
type Source struct {
	EnhancedURL string
	StandardURL string
	FilePath    string
}

// Loader fetches the corpus, builds snapshots, and publishes them to a
// Store. On startup it consults the cache first so search answers
// immediately, then refreshes from the network in the background and
// supersedes the cached snapshot on success.
type Loader struct {
	source    Source
	store     *Store
	cache     *cache.Store
	corpusTTL time.Duration
	client    *http.Client
	log       zerolog.Logger

	onPublish func(*Corpus)
	metrics   *metrics.Metrics
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient overrides the HTTP client used for corpus fetches.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) { l.client = c }
}

// WithCorpusTTL overrides the cache TTL applied to cached corpora.
func WithCorpusTTL(ttl time.Duration) LoaderOption {
	return func(l *Loader) { l.corpusTTL = ttl }
}

// WithOnPublish registers a hook run after every published snapshot, on
// the publishing goroutine.
func WithOnPublish(fn func(*Corpus)) LoaderOption {
	return func(l *Loader) { l.onPublish = fn }
}

// WithMetrics wires loader counters. Nil disables collection.
func WithMetrics(m *metrics.Metrics) LoaderOption {
	return func(l *Loader) { l.metrics = m }
}

// NewLoader creates a loader. cacheStore may be nil to disable
// persistence entirely.
func NewLoader(source Source, store *Store, cacheStore *cache.Store, log zerolog.Logger, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:    source,
		store:     store,
		cache:     cacheStore,
		corpusTTL: cache.DefaultCorpusTTL,
		client:    &http.Client{Timeout: 30 * time.Second},
		log:       log,
		onPublish: func(*Corpus) {},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start makes a corpus available. Order of preference:
//
//  1. A fresh cache entry is built and published immediately; the network
//     fetch still runs and supersedes it on success.
//  2. Otherwise the network (or file) fetch runs in the foreground.
//  3. If nothing is reachable, an empty corpus is published (queries
//     return no results rather than failing) and the condition is
//     reported once through the logger.
//
// Start never returns a corpus-unavailable error; only context
// cancellation propagates.
func (l *Loader) Start(ctx context.Context) error {
	if l.cachedPublish(ctx) {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := l.Refresh(gctx); err != nil {
				l.log.Debug().Err(err).Msg("background corpus refresh failed, cached snapshot retained")
			}
			return nil
		})
		// Deliberately not waited on: the cached snapshot already serves.
		go func() { _ = g.Wait() }()
		return nil
	}

	if err := l.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.log.Error().Err(err).Msg("corpus unavailable from every source, serving empty index")
		empty, _ := Build(nil)
		l.store.Publish(empty)
		l.onPublish(empty)
	}
	return nil
}

// cachedPublish builds and publishes the cached corpus if a fresh entry
// exists. Malformed cached documents count as a miss.
func (l *Loader) cachedPublish(ctx context.Context) bool {
	if l.cache == nil {
		return false
	}
	docs, ok := l.cache.GetCorpus(ctx, cache.KeyCorpus, l.corpusTTL)
	if !ok {
		return false
	}
	c, err := Build(docs)
	if err != nil {
		l.log.Warn().Err(err).Msg("cached corpus failed validation, refetching")
		return false
	}
	l.store.Publish(c)
	l.onPublish(c)
	if l.metrics != nil {
		l.metrics.CorpusCacheHits.Inc()
	}
	l.log.Info().Str("generation", c.Generation).Int("documents", len(c.Documents)).
		Msg("corpus served from cache")
	return true
}

// Refresh fetches the corpus from its source, publishes the new
// snapshot, and rewrites the cache entry.
func (l *Loader) Refresh(ctx context.Context) error {
	docs, err := l.fetch(ctx)
	if err != nil {
		return err
	}

	c, err := Build(docs)
	if err != nil {
		return fmt.Errorf("building corpus: %w", err)
	}

	l.store.Publish(c)
	l.onPublish(c)
	l.log.Info().Str("generation", c.Generation).
		Int("documents", len(c.Documents)).
		Int("chunks", c.Chunks()).
		Bool("embeddings", c.HasEmbeddings()).
		Msg("corpus published")

	if l.cache != nil {
		if err := l.cache.PutCorpus(ctx, cache.KeyCorpus, docs); err != nil {
			l.log.Warn().Err(err).Msg("persisting corpus to cache failed")
		}
	}
	return nil
}

// fetch reads the document array from the configured source. The
// enhanced resource is preferred; any failure there falls back
// transparently to the standard resource.
func (l *Loader) fetch(ctx context.Context) ([]types.SearchDocument, error) {
	if l.source.FilePath != "" {
		return l.fetchFile(l.source.FilePath)
	}

	if l.source.EnhancedURL != "" {
		docs, err := l.fetchURL(ctx, l.source.EnhancedURL)
		if err == nil {
			return docs, nil
		}
		l.log.Debug().Err(err).Msg("enhanced corpus unavailable, falling back to standard")
	}

	if l.source.StandardURL != "" {
		return l.fetchURL(ctx, l.source.StandardURL)
	}

	return nil, fmt.Errorf("no corpus source configured")
}

func (l *Loader) fetchURL(ctx context.Context, url string) ([]types.SearchDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	var docs []types.SearchDocument
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", url, err)
	}
	return docs, nil
}

func (l *Loader) fetchFile(path string) ([]types.SearchDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var docs []types.SearchDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return docs, nil
}
