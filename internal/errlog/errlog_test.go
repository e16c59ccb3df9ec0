package errlog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSinkWritesOneLinePerReport(t *testing.T) {
	dir := t.TempDir()
	s := Open(dir)
	defer s.Close()

	s.Report("journal", errors.New("disk full"))
	s.Reportf("recovery", "backup %s unreadable", "backup_x.json")
	s.Report("journal", nil) // nil errors are dropped

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), data)
	}
	if !strings.Contains(lines[0], "disk full") || !strings.Contains(lines[0], "component=journal") {
		t.Errorf("line 0: %s", lines[0])
	}
	if !strings.Contains(lines[1], "backup_x.json") || !strings.Contains(lines[1], "component=recovery") {
		t.Errorf("line 1: %s", lines[1])
	}
}

func TestSinkAppendsAcrossOpens(t *testing.T) {
	dir := t.TempDir()

	s := Open(dir)
	s.Report("a", errors.New("first"))
	s.Close()

	s = Open(dir)
	s.Report("b", errors.New("second"))
	s.Close()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Errorf("log truncated:\n%s", data)
	}
}

func TestSinkNeverFails(t *testing.T) {
	// Point the sink at a path that cannot be a directory.
	file := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	s := Open(filepath.Join(file, "sub"))
	s.Report("x", errors.New("dropped"))
	s.Reportf("x", "also dropped")
	if err := s.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}
