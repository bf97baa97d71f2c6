// Package types defines the shared data model for the documentation
// search engine: documents, chunks, ranked results, and the version/state
// registry used to scope results to a documentation context.
//
// The corpus is an array of SearchDocument, each holding an ordered,
// non-empty sequence of SearchChunk. A chunk is the atomic unit of
// retrieval; its ID is unique within one loaded corpus and maps back to
// exactly one document. A corpus load fully replaces the previous one, so
// these records are treated as immutable once published.
//
// Embeddings are optional. When present, every chunk in the corpus must
// carry a vector of the same length (the model's output dimensionality);
// a corpus where only some chunks have embeddings of differing lengths is
// rejected at build time.
package types
