//go:build !windows

package index

import (
	"errors"
	"os"
)

// removeBackup deletes a replaced store artifact. A missing file is not an error.
func removeBackup(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
