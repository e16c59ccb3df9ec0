// Package errlog is the suppressed-error sink for worklogd.
//
// The recording core must never abort a caller: internal failures are
// swallowed at the public API and drained here as one-line diagnostics.
// Problems are discoverable only by reading the sink file.
package errlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the sink file name inside the session directory.
const FileName = "error.log"

// Sink appends one-line diagnostics to error.log. A Sink is always
// usable: if the file cannot be opened the records are dropped.
type Sink struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	logger *slog.Logger
}

// Open creates a sink writing to dir/error.log. It never fails; on any
// error the returned sink silently discards records.
func Open(dir string) *Sink {
	s := &Sink{path: filepath.Join(dir, FileName)}
	if err := os.MkdirAll(dir, 0700); err != nil {
		s.logger = discard()
		return s
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		s.logger = discard()
		return s
	}
	s.file = f
	s.logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return s
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Report records one suppressed error for a component.
func (s *Sink) Report(component string, err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Error(err.Error(), "component", component)
}

// Reportf records a formatted diagnostic for a component.
func (s *Sink) Reportf(component, format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Error(fmt.Sprintf(format, args...), "component", component)
}

// Path returns the sink file location.
func (s *Sink) Path() string {
	return s.path
}

// Close releases the underlying file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.logger = discard()
	return err
}
