package searcher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/docweave/docsearch/internal/corpus"
	"github.com/docweave/docsearch/internal/enhancer"
	"github.com/docweave/docsearch/internal/index"
	"github.com/docweave/docsearch/internal/metrics"
	"github.com/docweave/docsearch/pkg/types"
)

// Default fusion constants. Keyword and semantic
// scores blend 0.4/0.6 once the semantic layer is active; raw cosine
// similarity is scaled by 100 to sit in the keyword score's numeric
// range. They are tuning parameters, not correctness requirements, so
// Weights carries them.
const (
	DefaultKeywordWeight  = 0.4
	DefaultSemanticWeight = 0.6
	DefaultSemanticScale  = 100.0
)

// DefaultLimit caps result sets when the caller does not say otherwise.
const DefaultLimit = 10

// queryCacheSize bounds the LRU query cache.
const queryCacheSize = 1000

// Weights holds the score-fusion tuning.
type Weights struct {
	Keyword       float64
	Semantic      float64
	SemanticScale float64
}

// DefaultWeights returns the standard fusion weights.
func DefaultWeights() Weights {
	return Weights{
		Keyword:       DefaultKeywordWeight,
		Semantic:      DefaultSemanticWeight,
		SemanticScale: DefaultSemanticScale,
	}
}

// SearchRequest contains parameters for a search operation.
type SearchRequest struct {
	Query string
	Limit int

	// Context is the caller's current version or state token, taken from
	// their location, not from the query. Empty means current version.
	Context string

	// AllContexts opts out of context filtering entirely.
	AllContexts bool

	UseCache bool
	CacheTTL time.Duration
}

// SearchResponse contains ranked results and query metadata.
type SearchResponse struct {
	Results        []types.EnhancedSearchResult
	TotalResults   int
	SemanticActive bool
	Duration       time.Duration
	CacheHit       bool
}

// cacheEntry is a cached response with its expiry.
type cacheEntry struct {
	response  *SearchResponse
	expiresAt time.Time
}

// Engine answers search and autocomplete queries against the current
// corpus snapshot, blending keyword and semantic scores when the
// enhancer is ready and filtering by documentation context last. It is
// the single owner of registry and query-cache state; corpus snapshots
// come from the store.
type Engine struct {
	store    *corpus.Store
	enhancer *enhancer.Enhancer
	weights  Weights
	log      zerolog.Logger
	metrics  *metrics.Metrics

	registryMu sync.RWMutex
	registry   types.ContextRegistry

	cache   *lru.Cache[[32]byte, *cacheEntry]
	cacheMu sync.RWMutex
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithWeights overrides the fusion weights.
func WithWeights(w Weights) EngineOption {
	return func(e *Engine) { e.weights = w }
}

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) EngineOption {
	return func(e *Engine) { e.log = log }
}

// WithMetrics attaches a metrics collector.
func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates a search engine over the given snapshot store and
// enhancer.
func NewEngine(store *corpus.Store, enh *enhancer.Enhancer, opts ...EngineOption) *Engine {
	cache, err := lru.New[[32]byte, *cacheEntry](queryCacheSize)
	if err != nil {
		// Only possible with a non-positive size constant.
		panic(fmt.Sprintf("failed to create query cache: %v", err))
	}

	e := &Engine{
		store:    store,
		enhancer: enh,
		weights:  DefaultWeights(),
		log:      zerolog.Nop(),
		cache:    cache,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetRegistry replaces the context registry, typically after a corpus
// publish. The query cache is purged alongside: cached rankings may
// reference the superseded snapshot.
func (e *Engine) SetRegistry(reg types.ContextRegistry) {
	e.registryMu.Lock()
	e.registry = reg
	e.registryMu.Unlock()

	e.cacheMu.Lock()
	e.cache.Purge()
	e.cacheMu.Unlock()
}

// Search runs a hybrid query. Malformed input (empty query, no corpus
// loaded yet) returns an empty response, never an error: search must stay
// non-blocking for the caller.
func (e *Engine) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	startTime := time.Now()
	e.applyDefaults(&req)

	snap := e.store.Snapshot()
	if snap == nil || strings.TrimSpace(req.Query) == "" {
		return &SearchResponse{Duration: time.Since(startTime)}, nil
	}

	if req.UseCache {
		if cached := e.checkCache(req, snap.Generation); cached != nil {
			cached.CacheHit = true
			cached.Duration = time.Since(startTime)
			if e.metrics != nil {
				e.metrics.QueryCacheHits.Inc()
			}
			return cached, nil
		}
	}

	keywordScores := snap.Index.Query(req.Query)
	semScores, semanticActive := e.semanticScores(ctx, snap, req.Query)

	results := e.fuse(snap, req.Query, keywordScores, semScores, semanticActive)

	// Context filtering is applied last, regardless of scoring path.
	if !req.AllContexts {
		results = e.filterByContext(results, req.Context)
	}

	if len(results) > req.Limit {
		results = results[:req.Limit]
	}

	response := &SearchResponse{
		Results:        results,
		TotalResults:   len(results),
		SemanticActive: semanticActive,
		Duration:       time.Since(startTime),
	}

	if req.UseCache && len(results) > 0 {
		e.storeInCache(req, snap.Generation, response)
	}
	if e.metrics != nil {
		e.metrics.ObserveSearch(semanticActive, response.Duration)
	}
	return response, nil
}

// Suggest returns autocomplete candidates for a partial query. It uses
// the keyword index exclusively, never the semantic layer.
func (e *Engine) Suggest(partial string, limit int) []string {
	snap := e.store.Snapshot()
	if snap == nil {
		return nil
	}
	return snap.Index.Suggest(partial, limit)
}

// semanticScores computes per-chunk cosine similarity for every embedded
// chunk, retaining candidates at or above the threshold. It returns
// (nil, false) whenever the semantic layer cannot contribute: enhancer
// not ready, corpus without embeddings, embedding failure, or a query
// vector whose length does not match the corpus dimensionality. All of
// those degrade to keyword-only scoring, never to an error.
func (e *Engine) semanticScores(ctx context.Context, snap *corpus.Corpus, query string) (map[string]float64, bool) {
	if !e.enhancer.Ready() || !snap.HasEmbeddings() {
		return nil, false
	}

	queryVec, err := e.enhancer.Embed(ctx, query)
	if err != nil {
		e.log.Debug().Err(err).Msg("query embedding failed, keyword-only for this query")
		return nil, false
	}
	if len(queryVec) != snap.EmbeddingDim {
		e.log.Warn().Int("query_dim", len(queryVec)).Int("corpus_dim", snap.EmbeddingDim).
			Msg("query embedding dimensionality mismatch, keyword-only for this query")
		return nil, false
	}

	threshold := e.enhancer.Threshold()
	scores := make(map[string]float64)
	snap.ForEachChunk(func(_ *types.SearchDocument, chunk *types.SearchChunk) {
		if len(chunk.Embedding) == 0 {
			return
		}
		if sim := enhancer.Cosine(queryVec, chunk.Embedding); sim >= threshold {
			scores[chunk.ID] = sim
		}
	})
	return scores, true
}

// fuse unions keyword and semantic hits by chunk ID and computes final
// scores. With the semantic layer active:
//
//	final = (keyword*0.4 + similarity*100*0.6) * boost
//
// where boost is 1.0 for chunks without a semantic match. The keyword
// down-weighting when only one side matched is intentional. Without the
// semantic layer the final score is the keyword score unmodified.
//
// Chunks are visited in corpus order and sorted stably, so equal scores
// keep a deterministic relative order.
func (e *Engine) fuse(snap *corpus.Corpus, query string, keywordScores, semScores map[string]float64, semanticActive bool) []types.EnhancedSearchResult {
	if len(keywordScores) == 0 && len(semScores) == 0 {
		return nil
	}

	terms := index.Tokenize(query)
	results := make([]types.EnhancedSearchResult, 0, len(keywordScores)+len(semScores))

	snap.ForEachChunk(func(doc *types.SearchDocument, chunk *types.SearchChunk) {
		kw, hasKeyword := keywordScores[chunk.ID]
		sim, hasSemantic := semScores[chunk.ID]
		if !hasKeyword && !hasSemantic {
			return
		}

		var final float64
		if semanticActive {
			boost := 1.0
			if hasSemantic {
				boost = e.enhancer.BoostFor(sim)
			}
			final = (kw*e.weights.Keyword + sim*e.weights.SemanticScale*e.weights.Semantic) * boost
		} else {
			final = kw
		}

		results = append(results, types.EnhancedSearchResult{
			Document:           doc,
			Chunk:              chunk,
			KeywordScore:       kw,
			SemanticScore:      sim,
			FinalScore:         final,
			HighlightedPreview: highlight(chunk.Preview, terms),
			SemanticOnly:       hasSemantic && !hasKeyword,
		})
	})

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	return results
}

func (e *Engine) applyDefaults(req *SearchRequest) {
	if req.Limit <= 0 {
		req.Limit = DefaultLimit
	}
	if req.Limit > 100 {
		req.Limit = 100
	}
	if req.CacheTTL == 0 {
		req.CacheTTL = 1 * time.Hour
	}
}

// checkCache looks up a cached response for the request and snapshot
// generation.
func (e *Engine) checkCache(req SearchRequest, generation string) *SearchResponse {
	hash := computeQueryHash(req, generation)
	now := time.Now()

	e.cacheMu.RLock()
	entry, found := e.cache.Get(hash)
	if !found {
		e.cacheMu.RUnlock()
		return nil
	}
	if now.After(entry.expiresAt) {
		e.cacheMu.RUnlock()
		e.cacheMu.Lock()
		e.cache.Remove(hash)
		e.cacheMu.Unlock()
		return nil
	}
	response := copyResponse(entry.response)
	e.cacheMu.RUnlock()
	return response
}

func (e *Engine) storeInCache(req SearchRequest, generation string, response *SearchResponse) {
	entry := &cacheEntry{
		response:  copyResponse(response),
		expiresAt: time.Now().Add(req.CacheTTL),
	}
	e.cacheMu.Lock()
	e.cache.Add(computeQueryHash(req, generation), entry)
	e.cacheMu.Unlock()
}

// copyResponse deep-copies the result slice so cached entries cannot be
// mutated by callers. Document and chunk pointers reference the
// immutable snapshot and are safe to share.
func copyResponse(src *SearchResponse) *SearchResponse {
	if src == nil {
		return nil
	}
	dst := &SearchResponse{
		TotalResults:   src.TotalResults,
		SemanticActive: src.SemanticActive,
		Duration:       src.Duration,
		CacheHit:       src.CacheHit,
		Results:        make([]types.EnhancedSearchResult, len(src.Results)),
	}
	copy(dst.Results, src.Results)
	return dst
}

// computeQueryHash builds a deterministic cache key from the request and
// the corpus generation, so a new snapshot never serves stale rankings.
func computeQueryHash(req SearchRequest, generation string) [32]byte {
	var data strings.Builder
	data.WriteString(req.Query)
	data.WriteString("|")
	data.WriteString(req.Context)
	data.WriteString("|")
	data.WriteString(fmt.Sprintf("%t|%d|", req.AllContexts, req.Limit))
	data.WriteString(generation)
	return sha256.Sum256([]byte(data.String()))
}
