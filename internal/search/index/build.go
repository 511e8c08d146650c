package index

import (
	"archive/zip"
	"fmt"

	"github.com/JanikMartens/WiG/internal/search"
)

// BuildOptions controls a full indexing run.
type BuildOptions struct {
	ArchivePath string
	OutDir      string
	Suffix      string
}

// Build derives the search index from records, keeping their order. If two
// records share an identifier the first one is kept.
func Build(records []search.PackageRecord) *Store {
	s := &Store{
		entries: make([]search.IndexEntry, 0, len(records)),
		records: make(map[string]search.PackageRecord, len(records)),
	}
	for _, r := range records {
		if _, ok := s.records[r.Identifier]; ok {
			continue
		}
		s.records[r.Identifier] = r
		s.entries = append(s.entries, search.IndexEntry{
			Identifier: r.Identifier,
			Text:       SearchableText(r.Identifier, r.Name),
		})
	}
	return s
}

// BuildFromArchive extracts every descriptor of the archive at opts.ArchivePath,
// builds the store and writes it to opts.OutDir, replacing any previous store.
// The returned report lists the entries that were skipped.
//
// Callers are expected to hold the lock returned by Lock.
func BuildFromArchive(opts BuildOptions) (*Store, *search.ExtractReport, error) {
	if opts.ArchivePath == "" {
		return nil, nil, fmt.Errorf("archive path is required")
	}
	if opts.OutDir == "" {
		return nil, nil, fmt.Errorf("out dir is required")
	}

	zr, err := zip.OpenReader(opts.ArchivePath)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open archive %s: %w", opts.ArchivePath, err)
	}
	defer zr.Close()

	report := search.ExtractRecords(&zr.Reader, opts.Suffix)
	if len(report.Records) == 0 {
		return nil, report, fmt.Errorf("no package descriptors found in %s", opts.ArchivePath)
	}

	s := Build(report.Records)
	if err := Write(opts.OutDir, s); err != nil {
		return nil, report, err
	}
	return s, report, nil
}
