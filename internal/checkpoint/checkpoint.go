// Package checkpoint copies the live session file into a bounded ring
// of backups.
//
// A checkpoint is a verbatim byte copy of the live file after some
// append, so every backup is a complete, self-contained session
// snapshot. The ring keeps at most K entries; the lexicographically
// smallest name (the oldest, since names embed a wall-clock suffix) is
// evicted on overflow.
package checkpoint

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Ring manages the backup directory.
type Ring struct {
	dir  string
	size int
}

// NewRing returns a ring of at most size backups in dir.
func NewRing(dir string, size int) *Ring {
	return &Ring{dir: dir, size: size}
}

// Dir returns the ring directory.
func (r *Ring) Dir() string {
	return r.dir
}

// BackupName builds the ring file name for a session at an instant.
// The HHMMSS suffix is monotonically non-decreasing at single-user
// scale, which keeps lexicographic order equal to creation order.
func BackupName(sessionID string, t time.Time) string {
	return fmt.Sprintf("backup_%s_%s.json", sessionID, t.Format("150405"))
}

// nextName picks a ring file name that does not collide with an
// existing backup. The suffix has one-second resolution, so a burst of
// checkpoints inside one second advances the suffix instead of
// overwriting the previous snapshot.
func (r *Ring) nextName(sessionID string, t time.Time) string {
	name := BackupName(sessionID, t)
	for fileExists(filepath.Join(r.dir, name)) {
		t = t.Add(time.Second)
		name = BackupName(sessionID, t)
	}
	return name
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Snapshot copies the live file into the ring, evicting the oldest
// backup first when the ring is full.
func (r *Ring) Snapshot(livePath, sessionID string) error {
	if err := os.MkdirAll(r.dir, 0700); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	names, err := r.Entries()
	if err != nil {
		return err
	}
	for len(names) >= r.size {
		if err := os.Remove(filepath.Join(r.dir, names[0])); err != nil {
			return fmt.Errorf("evict backup: %w", err)
		}
		names = names[1:]
	}

	dst := filepath.Join(r.dir, r.nextName(sessionID, time.Now()))
	return copyFile(livePath, dst)
}

// Entries lists ring file names in ascending lexicographic order.
func (r *Ring) Entries() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "backup_") && strings.HasSuffix(name, ".json") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Newest lists ring file paths, newest first.
func (r *Ring) Newest() ([]string, error) {
	names, err := r.Entries()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(names))
	for i := len(names) - 1; i >= 0; i-- {
		paths = append(paths, filepath.Join(r.dir, names[i]))
	}
	return paths, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open live file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy backup: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return fmt.Errorf("sync backup: %w", err)
	}
	return out.Close()
}
