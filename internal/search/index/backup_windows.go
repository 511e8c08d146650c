//go:build windows

package index

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

const (
	backupRemoveAttempts = 10
	backupRemoveDelay    = 100 * time.Millisecond
)

// removeBackup deletes a replaced store artifact. A missing file is not an error.
//
// A search session or an indexer (antivirus, Windows Search) may still hold the
// old file open, so removal is retried briefly and then scheduled for the next
// reboot.
func removeBackup(path string) error {
	var lastErr error
	for i := 0; i < backupRemoveAttempts; i++ {
		err := os.Remove(path)
		if err == nil || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		lastErr = err
		time.Sleep(backupRemoveDelay)
	}

	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return lastErr
	}
	if err := windows.MoveFileEx(p, nil, windows.MOVEFILE_DELAY_UNTIL_REBOOT); err != nil {
		return lastErr
	}
	return nil
}
