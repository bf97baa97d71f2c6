// Package cache persists the most recently built corpus to local SQLite
// storage with a time-to-live, so a new session can serve search
// immediately while a fresh network fetch proceeds in the background.
//
// The persisted payload is the JSON-serialized document array, embeddings
// included, stamped with a save time. Reads apply the TTL (24 hours for
// the corpus, 1 hour for metadata-only entries) and treat expired,
// malformed, or unreadable entries as plain cache misses; a cold cache
// is a normal state, never an error surfaced to a caller.
//
// # Build Tags
//
// Two SQLite drivers are supported:
//
//   - default (pure Go): modernc.org/sqlite, no C compiler required
//   - cgo_sqlite tag:    github.com/mattn/go-sqlite3
package cache
