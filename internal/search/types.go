package search

// PackageRecord is the normalized metadata of one package, taken from its
// en-US locale manifest. Missing fields are empty strings, never absent.
type PackageRecord struct {
	Identifier       string `msgpack:"PackageIdentifier" yaml:"PackageIdentifier"`
	Name             string `msgpack:"PackageName" yaml:"PackageName"`
	ShortDescription string `msgpack:"ShortDescription" yaml:"ShortDescription"`
	Description      string `msgpack:"Description" yaml:"Description"`
}

// IndexEntry is the lowercase searchable text of one package.
type IndexEntry struct {
	Identifier string
	Text       string
}

// MatchResult represents one package matched by a query.
type MatchResult struct {
	Score      int
	Identifier string
	Record     PackageRecord
}

// Corpus is the read-only view of a loaded store that queries run against.
// Entries must be returned in a stable order.
type Corpus interface {
	Entries() []IndexEntry
	Record(id string) (PackageRecord, bool)
}
