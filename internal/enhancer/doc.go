// Package enhancer manages the optional semantic search layer: the
// capability gate, the embedding-model lifecycle, and similarity scoring.
//
// # Lifecycle
//
// The enhancer is a small state machine:
//
//	NOT_STARTED -> CHECKING_CAPABILITY -> LOADING -> {READY | FAILED}
//	any state   -> DISABLED (user dismissal, terminal)
//
// Start schedules the capability check after a fixed delay so the model
// load never competes with initial content delivery. The gate runs at
// most once per session and inspects three signals: model-runtime
// availability (hard requirement), an estimated-memory figure with a
// core-count heuristic fallback, and a connection class (slow devices
// skip the load).
//
// READY is the only state in which Embed works; every other state
// returns ErrUnavailable rather than an error from the provider. A
// FAILED enhancer is not an error condition for the search engine; the
// system simply continues in keyword-only mode.
//
// # Dismissal
//
// Dismiss is advisory cancellation. In-flight loads are cancelled via
// context, but even a load that manages to finish is discarded: the
// dismissed flag is checked before every state transition, so a
// dismissed enhancer can never reach READY.
//
// # Providers
//
// A Provider is the opaque embedding model. HTTPProvider talks to an
// Ollama-style endpoint and discovers its output dimensionality during
// warm-up; LocalProvider produces deterministic hash-based vectors for
// offline use and tests. Query embeddings are cached in-memory by
// content hash.
//
// # Similarity
//
// Cosine similarity is dot product over the product of Euclidean norms,
// with zero-norm vectors defined as similarity 0. Candidates at or above
// the threshold (0.3 by default) map linearly onto a multiplicative
// boost in [1.2, 3.0].
package enhancer
