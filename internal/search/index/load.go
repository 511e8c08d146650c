package index

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/JanikMartens/WiG/internal/search"
	"github.com/vmihailenco/msgpack/v5"
)

// Load reads both store artifacts from dir. It fails with an *ArtifactError
// when either file is missing, undecodable, or when the two disagree on the
// set of identifiers. There is no fallback to an empty store.
func Load(dir string) (*Store, error) {
	recPath := filepath.Join(dir, RecordsFile)
	idxPath := filepath.Join(dir, IndexFile)

	records := make(map[string]search.PackageRecord)
	err := decodeFile(recPath, func(dec *msgpack.Decoder, id string) error {
		var r search.PackageRecord
		if err := dec.Decode(&r); err != nil {
			return err
		}
		if _, dup := records[id]; dup {
			return fmt.Errorf("duplicate key %q", id)
		}
		records[id] = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	var entries []search.IndexEntry
	seen := make(map[string]struct{})
	err = decodeFile(idxPath, func(dec *msgpack.Decoder, id string) error {
		text, err := dec.DecodeString()
		if err != nil {
			return err
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate key %q", id)
		}
		seen[id] = struct{}{}
		entries = append(entries, search.IndexEntry{Identifier: id, Text: text})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(entries) != len(records) {
		return nil, &ArtifactError{Path: idxPath, Err: fmt.Errorf("%w: %d index entries for %d records", ErrArtifactCorrupt, len(entries), len(records))}
	}
	for _, e := range entries {
		if _, ok := records[e.Identifier]; !ok {
			return nil, &ArtifactError{Path: idxPath, Err: fmt.Errorf("%w: %q has no record", ErrArtifactCorrupt, e.Identifier)}
		}
	}

	return &Store{entries: entries, records: records}, nil
}

// decodeFile reads a MessagePack map from path, calling value for every key
// in file order. value must consume exactly one value from dec.
func decodeFile(path string, value func(dec *msgpack.Decoder, key string) error) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ArtifactError{Path: path, Err: fmt.Errorf("%w: %w", ErrArtifactMissing, err)}
		}
		return &ArtifactError{Path: path, Err: fmt.Errorf("cannot open: %w", err)}
	}
	defer f.Close()

	corrupt := func(err error) error {
		return &ArtifactError{Path: path, Err: fmt.Errorf("%w: %w", ErrArtifactCorrupt, err)}
	}

	br := bufio.NewReader(f)
	dec := msgpack.NewDecoder(br)
	n, err := dec.DecodeMapLen()
	if err != nil {
		return corrupt(err)
	}
	if n < 0 {
		return corrupt(errors.New("expected a map, got nil"))
	}
	for i := 0; i < n; i++ {
		key, err := dec.DecodeString()
		if err != nil {
			return corrupt(err)
		}
		if err := value(dec, key); err != nil {
			return corrupt(fmt.Errorf("entry %q: %w", key, err))
		}
	}
	// The decoder reads br directly, so anything left in it follows the map.
	if _, err := br.Peek(1); err != io.EOF {
		if err == nil {
			err = errors.New("trailing data after map")
		}
		return corrupt(err)
	}
	return nil
}
