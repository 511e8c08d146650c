package index

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFile is the advisory lock taken for the duration of an indexing run.
const LockFile = "index.lock"

// Lock acquires the indexing lock in dir and returns its release function.
// It does not wait: if another run holds the lock, ErrLocked is returned.
func Lock(dir string) (func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return func() {}, fmt.Errorf("cannot create store dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, LockFile)
	l := flock.New(path)
	locked, err := l.TryLock()
	if err != nil {
		return func() {}, fmt.Errorf("cannot acquire index lock: %w", err)
	}
	if !locked {
		return func() {}, fmt.Errorf("%w (lock: %s)", ErrLocked, path)
	}
	return func() { _ = l.Unlock() }, nil
}
