package journal

import (
	"os"
	"path/filepath"

	"worklogd/internal/atomicfile"
)

// On-disk layout, relative to the working directory.
const (
	SessionsDirName = ".claude_sessions"
	LiveFileName    = "current_session.json"
	BackupsDirName  = "backups"
	CorruptSuffix   = ".corrupt"
)

// Store owns the session directory and the live session file.
type Store struct {
	dir string
}

// NewStore returns a store rooted at workdir/.claude_sessions.
func NewStore(workdir string) *Store {
	return &Store{dir: filepath.Join(workdir, SessionsDirName)}
}

// Dir returns the session directory.
func (s *Store) Dir() string {
	return s.dir
}

// LivePath returns the live session file path.
func (s *Store) LivePath() string {
	return filepath.Join(s.dir, LiveFileName)
}

// BackupsDir returns the backup ring directory.
func (s *Store) BackupsDir() string {
	return filepath.Join(s.dir, BackupsDirName)
}

// WriteLive atomically replaces the live session document.
func (s *Store) WriteLive(data []byte) error {
	return atomicfile.WriteFile(s.LivePath(), data, 0600)
}

// ReadLive returns the live session document bytes.
func (s *Store) ReadLive() ([]byte, error) {
	return os.ReadFile(s.LivePath())
}

// LiveExists reports whether a live session file is present.
func (s *Store) LiveExists() bool {
	_, err := os.Stat(s.LivePath())
	return err == nil
}

// QuarantineLive renames an unparseable live file aside for
// post-mortem, freeing the slot for a fresh session.
func (s *Store) QuarantineLive() error {
	return os.Rename(s.LivePath(), s.LivePath()+CorruptSuffix)
}
