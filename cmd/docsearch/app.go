package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/docweave/docsearch/internal/cache"
	"github.com/docweave/docsearch/internal/config"
	"github.com/docweave/docsearch/internal/corpus"
	"github.com/docweave/docsearch/internal/enhancer"
	"github.com/docweave/docsearch/internal/logger"
	"github.com/docweave/docsearch/internal/metrics"
	"github.com/docweave/docsearch/internal/searcher"
)

// app wires configuration into the running components. Every command
// builds one and tears it down with Close.
type app struct {
	cfg      config.Config
	log      zerolog.Logger
	cache    *cache.Store
	store    *corpus.Store
	loader   *corpus.Loader
	enhancer *enhancer.Enhancer
	engine   *searcher.Engine
	metrics  *metrics.Metrics
}

// newApp loads configuration and constructs the component graph. Nothing
// is started; callers drive loader.Start and enhancer.Start themselves.
func newApp(collectMetrics bool) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagCache != "" {
		cfg.Cache.Path = flagCache
	}
	if flagVerbose {
		cfg.Log.Level = "debug"
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	a := &app{
		cfg:   cfg,
		log:   log,
		store: corpus.NewStore(),
	}

	if collectMetrics {
		a.metrics = metrics.New(prometheus.DefaultRegisterer)
	}

	if path, err := cfg.CachePath(); err != nil {
		log.Warn().Err(err).Msg("corpus cache unavailable, continuing without persistence")
	} else if path != "" {
		store, err := cache.Open(path, log)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("corpus cache unavailable, continuing without persistence")
		} else {
			a.cache = store
		}
	}

	provider, err := buildProvider(cfg.Enhancer)
	if err != nil {
		return nil, err
	}
	a.enhancer = enhancer.New(provider, nil, enhancer.Config{
		StartDelay:          cfg.Enhancer.StartDelay.Std(),
		LoadTimeout:         cfg.Enhancer.LoadTimeout.Std(),
		MinMemoryGB:         cfg.Enhancer.MinMemoryGB,
		SimilarityThreshold: cfg.Enhancer.SimilarityThreshold,
		BoostMin:            cfg.Enhancer.BoostMin,
		BoostMax:            cfg.Enhancer.BoostMax,
	}, enhancer.WithLogger(log), enhancer.WithNotifier(a.onEnhancerState))

	engineOpts := []searcher.EngineOption{
		searcher.WithLogger(log),
		searcher.WithWeights(searcher.Weights{
			Keyword:       cfg.Search.KeywordWeight,
			Semantic:      cfg.Search.SemanticWeight,
			SemanticScale: cfg.Search.SemanticScale,
		}),
	}
	if a.metrics != nil {
		engineOpts = append(engineOpts, searcher.WithMetrics(a.metrics))
	}
	a.engine = searcher.NewEngine(a.store, a.enhancer, engineOpts...)

	a.loader = corpus.NewLoader(corpus.Source{
		EnhancedURL: cfg.Source.EnhancedURL,
		StandardURL: cfg.Source.StandardURL,
		FilePath:    cfg.Source.File,
	}, a.store, a.cache, log,
		corpus.WithCorpusTTL(cfg.Cache.CorpusTTL.Std()),
		corpus.WithOnPublish(a.onPublish),
		corpus.WithMetrics(a.metrics),
	)

	return a, nil
}

// onPublish rebuilds the context registry from each new snapshot. The
// registry swap also purges the query cache.
func (a *app) onPublish(c *corpus.Corpus) {
	reg := corpus.DeriveRegistry(c.Documents, a.cfg.Source.CurrentVersion, a.cfg.Source.States)
	a.engine.SetRegistry(reg)
	if a.metrics != nil {
		a.metrics.SetCorpusSize(len(c.Documents), c.Chunks())
	}
	a.log.Info().Int("documents", len(c.Documents)).Int("chunks", c.Chunks()).
		Str("generation", c.Generation).Msg("corpus published")
}

func (a *app) onEnhancerState(n enhancer.Notification) {
	a.log.Info().Str("state", string(n.State)).Int("progress", n.Progress).
		Str("message", n.Message).Msg("enhancer state changed")
	if a.metrics != nil {
		a.metrics.SetEnhancerState(string(n.State))
	}
}

// Close releases the enhancer provider and the cache store.
func (a *app) Close() {
	if err := a.enhancer.Close(); err != nil {
		a.log.Warn().Err(err).Msg("enhancer shutdown")
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn().Err(err).Msg("cache shutdown")
		}
	}
}

// buildProvider constructs the embedding provider named in config. An
// empty provider name disables the semantic layer entirely.
func buildProvider(cfg config.EnhancerConfig) (enhancer.Provider, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case enhancer.ProviderLocal:
		return enhancer.NewLocalProvider(enhancer.NewCache(enhancer.DefaultEmbeddingCacheSize)), nil
	case enhancer.ProviderHTTP:
		return enhancer.NewHTTPProvider(cfg.Endpoint, cfg.Model, enhancer.NewCache(enhancer.DefaultEmbeddingCacheSize))
	default:
		return nil, fmt.Errorf("unknown enhancer provider %q (want \"http\", \"local\", or empty)", cfg.Provider)
	}
}
