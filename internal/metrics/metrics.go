// Package metrics provides Prometheus metrics for docsearch
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the search engine
type Metrics struct {
	SearchesTotal  *prometheus.CounterVec
	SearchDuration *prometheus.HistogramVec

	QueryCacheHits  prometheus.Counter
	CorpusCacheHits prometheus.Counter

	CorpusDocuments prometheus.Gauge
	CorpusChunks    prometheus.Gauge
	EnhancerState   *prometheus.GaugeVec
}

// New creates the metric set and registers it on the given registerer.
// Pass prometheus.NewRegistry() in tests to avoid global-registry
// collisions.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsearch_searches_total",
				Help: "Total number of search queries by scoring mode",
			},
			[]string{"mode"},
		),
		SearchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docsearch_search_duration_seconds",
				Help:    "Search latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		QueryCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docsearch_query_cache_hits_total",
				Help: "Search responses served from the query cache",
			},
		),
		CorpusCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docsearch_corpus_cache_hits_total",
				Help: "Corpus loads served from the persistent cache",
			},
		),
		CorpusDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "docsearch_corpus_documents",
				Help: "Documents in the current corpus snapshot",
			},
		),
		CorpusChunks: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "docsearch_corpus_chunks",
				Help: "Chunks in the current corpus snapshot",
			},
		),
		EnhancerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "docsearch_enhancer_state",
				Help: "Current semantic enhancer state (1 for the active state)",
			},
			[]string{"state"},
		),
	}

	reg.MustRegister(
		m.SearchesTotal,
		m.SearchDuration,
		m.QueryCacheHits,
		m.CorpusCacheHits,
		m.CorpusDocuments,
		m.CorpusChunks,
		m.EnhancerState,
	)
	return m
}

// ObserveSearch records one completed search.
func (m *Metrics) ObserveSearch(semanticActive bool, d time.Duration) {
	mode := "keyword"
	if semanticActive {
		mode = "hybrid"
	}
	m.SearchesTotal.WithLabelValues(mode).Inc()
	m.SearchDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// SetEnhancerState flips the state gauge so exactly one label is 1.
func (m *Metrics) SetEnhancerState(state string) {
	for _, s := range []string{"not_started", "checking_capability", "loading", "ready", "failed", "disabled"} {
		v := 0.0
		if s == state {
			v = 1.0
		}
		m.EnhancerState.WithLabelValues(s).Set(v)
	}
}

// SetCorpusSize records the published snapshot's size.
func (m *Metrics) SetCorpusSize(documents, chunks int) {
	m.CorpusDocuments.Set(float64(documents))
	m.CorpusChunks.Set(float64(chunks))
}
