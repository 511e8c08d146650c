package index

import "github.com/JanikMartens/WiG/internal/search"

// Artifact file names inside the data directory.
const (
	RecordsFile = "package_data.msgpack"
	IndexFile   = "index.msgpack"
)

// Store holds the full record store and the search index of one indexing run.
// Both are keyed by the same identifiers and kept in extraction order.
type Store struct {
	entries []search.IndexEntry
	records map[string]search.PackageRecord
}

// Entries returns the search index in store order.
func (s *Store) Entries() []search.IndexEntry { return s.entries }

// Record returns the full record for id.
func (s *Store) Record(id string) (search.PackageRecord, bool) {
	r, ok := s.records[id]
	return r, ok
}

// Len returns the number of packages in the store.
func (s *Store) Len() int { return len(s.entries) }
