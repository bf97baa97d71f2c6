package corpus

import (
	"regexp"
	"sync/atomic"

	"github.com/docweave/docsearch/pkg/types"
)

// Store publishes corpus snapshots with single-writer semantics. Readers
// take whatever snapshot is current; a publish swaps the pointer
// atomically, so an in-flight query sees one complete snapshot or the
// other, never a mix.
type Store struct {
	current atomic.Pointer[Corpus]
}

// NewStore creates an empty store. Snapshot returns nil until the first
// Publish.
func NewStore() *Store {
	return &Store{}
}

// Publish replaces the current snapshot wholesale.
func (s *Store) Publish(c *Corpus) {
	s.current.Store(c)
}

// Snapshot returns the current corpus, or nil before the first load.
func (s *Store) Snapshot() *Corpus {
	return s.current.Load()
}

// versionToken matches release-version context tokens ("v1", "v1.2.0").
var versionToken = regexp.MustCompile(`^v\d+(\.\d+)*$`)

// DeriveRegistry builds a context registry from document slugs: a slug
// whose first path segment is a version token or one of the named states
// is registered under that token; everything else belongs to the current
// version. currentVersion is the fallback token for filtering.
func DeriveRegistry(docs []types.SearchDocument, currentVersion string, states []string) types.ContextRegistry {
	stateSet := make(map[string]bool, len(states))
	for _, s := range states {
		stateSet[s] = true
	}

	reg := types.ContextRegistry{CurrentVersion: currentVersion}
	reg.Slugs = map[string]map[string]bool{currentVersion: {}}

	for i := range docs {
		slug := docs[i].Slug
		token := types.ContextToken(slug)
		if token != slug && (versionToken.MatchString(token) || stateSet[token]) {
			reg.Register(token, slug)
			continue
		}
		reg.Register(currentVersion, slug)
	}
	return reg
}
