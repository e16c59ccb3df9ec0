//go:build unix

// Package lockfile provides a per-directory advisory lock.
//
// The lock is exclusive and non-blocking; failure to acquire degrades
// the caller to best-effort recording rather than blocking it. The
// kernel releases the lock on process exit, so a crash never leaves a
// stale lock behind.
package lockfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ErrHeld reports that another process holds the lock.
var ErrHeld = fmt.Errorf("lockfile: already held by another process")

// Lock is a held advisory lock.
type Lock struct {
	file *os.File
}

// Acquire takes an exclusive non-blocking flock on path.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if err == unix.EWOULDBLOCK {
			return nil, ErrHeld
		}
		return nil, fmt.Errorf("flock: %w", err)
	}

	return &Lock{file: f}, nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	err := l.file.Close()
	l.file = nil
	return err
}
