package app

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// lockPath returns the lock file location, or "" when locking is disabled.
func (a *App) lockPath() string {
	if a.config.LockFile == "" {
		return ""
	}
	if filepath.IsAbs(a.config.LockFile) {
		return a.config.LockFile
	}
	return filepath.Join(filepath.Dir(a.config.BuildFile), a.config.LockFile)
}

// acquireLock prevents concurrent runs against the same description file.
// Returns the lock (caller must defer Unlock()) or an error if it is held.
func acquireLock(path string) (*flock.Flock, error) {
	lock := flock.New(path)

	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock acquisition failed: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (lock held: %s)", ErrLocked, path)
	}
	return lock, nil
}
