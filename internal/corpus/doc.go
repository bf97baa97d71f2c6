// Package corpus loads, validates, and publishes immutable snapshots of
// the documentation corpus.
//
// A snapshot bundles the document array, slug and chunk-ID lookup maps,
// and the keyword index built from the same data. Snapshots are never
// mutated after construction: add/remove operations build a new snapshot,
// and the Store swaps an atomic pointer, so any query runs against one
// complete corpus or the other.
//
// The Loader prefers the enhanced corpus resource (with embeddings),
// falls back to the standard one, and before any network traffic
// consults the SQLite cache: a fresh cached corpus serves immediately
// while the refresh proceeds in the background. When every source fails,
// an empty but valid corpus is published and the condition is logged
// once; queries return no results rather than errors.
package corpus
