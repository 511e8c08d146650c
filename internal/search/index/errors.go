package index

import (
	"errors"
	"fmt"
)

var (
	// ErrArtifactMissing indicates a store file does not exist.
	ErrArtifactMissing = errors.New("store artifact missing")
	// ErrArtifactCorrupt indicates a store file could not be decoded or
	// disagrees with its sibling.
	ErrArtifactCorrupt = errors.New("store artifact corrupt")
	// ErrLocked indicates another indexing run holds the store lock.
	ErrLocked = errors.New("another indexing run is in progress")
)

// ArtifactError identifies the store file that failed to load.
type ArtifactError struct {
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error { return e.Err }
