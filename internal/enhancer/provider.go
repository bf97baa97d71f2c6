package enhancer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Provider names.
const (
	ProviderHTTP  = "http"
	ProviderLocal = "local"
)

const (
	// LocalDimension is the vector length of the deterministic local
	// provider.
	LocalDimension = 32

	// DefaultEmbeddingCacheSize bounds the in-memory embedding cache.
	DefaultEmbeddingCacheSize = 10000
)

// Transient endpoint failures are retried with exponential backoff.
const (
	embedAttempts   = 3
	embedBackoff    = 100 * time.Millisecond
	embedBackoffCap = 5 * time.Second
)

// Provider is an opaque embedding model: text in, fixed-length vector
// out. Warm loads or validates the model before first use and reports
// fractional progress in [0, 100].
type Provider interface {
	Warm(ctx context.Context, progress func(pct int)) error
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	Model() string
	Close() error
}

// Cache is an in-memory LRU cache of query embeddings keyed by content
// hash.
type Cache struct {
	cache *lru.Cache[string, []float32]
}

// NewCache creates an embedding cache with LRU eviction.
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = DefaultEmbeddingCacheSize
	}
	cache, err := lru.New[string, []float32](maxLen)
	if err != nil {
		cache, _ = lru.New[string, []float32](DefaultEmbeddingCacheSize)
	}
	return &Cache{cache: cache}
}

// Get returns a copy of a cached vector so caller mutations cannot
// pollute the cache.
func (c *Cache) Get(hash string) ([]float32, bool) {
	v, ok := c.cache.Get(hash)
	if !ok {
		return nil, false
	}
	out := make([]float32, len(v))
	copy(out, v)
	return out, true
}

// Set stores a vector with automatic LRU eviction.
func (c *Cache) Set(hash string, v []float32) {
	c.cache.Add(hash, v)
}

// ComputeHash computes the SHA-256 content hash used as cache key.
func ComputeHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// HTTPProvider talks to an Ollama-style embedding endpoint.
type HTTPProvider struct {
	endpoint   string
	model      string
	dimension  int
	httpClient *http.Client
	cache      *Cache
}

// NewHTTPProvider creates an embedding provider backed by an HTTP
// endpoint. The dimension is discovered during Warm.
func NewHTTPProvider(endpoint, model string, cache *Cache) (*HTTPProvider, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint not set", ErrNoProvider)
	}
	if model == "" {
		return nil, fmt.Errorf("%w: model not set", ErrNoProvider)
	}
	return &HTTPProvider{
		endpoint: endpoint,
		model:    model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: cache,
	}, nil
}

// Warm validates the endpoint and runs one probe embedding to discover
// the model's output dimensionality. Progress is reported at the two
// suspension points: endpoint reachability and probe completion.
func (p *HTTPProvider) Warm(ctx context.Context, progress func(pct int)) error {
	if progress == nil {
		progress = func(int) {}
	}
	progress(5)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: endpoint unreachable: %v", ErrModelLoad, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	progress(40)

	vec, err := p.embedRemote(ctx, "warmup probe")
	if err != nil {
		return fmt.Errorf("%w: probe embedding failed: %v", ErrModelLoad, err)
	}
	if len(vec) == 0 {
		return fmt.Errorf("%w: probe returned empty vector", ErrModelLoad)
	}
	p.dimension = len(vec)
	progress(100)
	return nil
}

// Embed generates a query embedding, serving repeats from cache.
func (p *HTTPProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	hash := ComputeHash(text)
	if p.cache != nil {
		if vec, ok := p.cache.Get(hash); ok {
			return vec, nil
		}
	}

	vec, err := p.embedWithRetry(ctx, text)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		p.cache.Set(hash, vec)
	}
	return vec, nil
}

// embedWithRetry calls the endpoint up to embedAttempts times, backing
// off exponentially between attempts. Context cancellation stops the
// retry immediately.
func (p *HTTPProvider) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	backoff := embedBackoff
	for attempt := 0; attempt < embedAttempts; attempt++ {
		vec, err := p.embedRemote(ctx, text)
		if err == nil {
			return vec, nil
		}
		lastErr = err

		if attempt == embedAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > embedBackoffCap {
			backoff = embedBackoffCap
		}
	}
	return nil, lastErr
}

// embedRequest and embedResponse follow the Ollama embeddings API shape.
type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (p *HTTPProvider) embedRemote(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: p.model, Prompt: text})
	if err != nil {
		return nil, err
	}

	url := p.endpoint + "/api/embeddings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrProviderFailed, resp.StatusCode, string(data))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrProviderFailed, err)
	}
	return out.Embedding, nil
}

func (p *HTTPProvider) Dimension() int { return p.dimension }
func (p *HTTPProvider) Model() string  { return p.model }
func (p *HTTPProvider) Close() error   { return nil }

// LocalProvider produces deterministic hash-based vectors with no
// external dependency. It keeps search usable offline and gives tests a
// stable embedding function.
type LocalProvider struct {
	cache *Cache
}

// NewLocalProvider creates the offline fallback provider.
func NewLocalProvider(cache *Cache) *LocalProvider {
	return &LocalProvider{cache: cache}
}

// Warm completes immediately; there is nothing to load.
func (l *LocalProvider) Warm(ctx context.Context, progress func(pct int)) error {
	if progress != nil {
		progress(100)
	}
	return nil
}

// Embed derives a deterministic vector from the SHA-256 of the text.
func (l *LocalProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	hash := ComputeHash(text)
	if l.cache != nil {
		if vec, ok := l.cache.Get(hash); ok {
			return vec, nil
		}
	}

	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, LocalDimension)
	for i := 0; i < LocalDimension && i < len(sum); i++ {
		vec[i] = float32(sum[i]) / 255.0
	}

	if l.cache != nil {
		l.cache.Set(hash, vec)
	}
	return vec, nil
}

func (l *LocalProvider) Dimension() int { return LocalDimension }
func (l *LocalProvider) Model() string  { return "local-hash" }
func (l *LocalProvider) Close() error   { return nil }
