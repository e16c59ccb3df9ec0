package checkpoint

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeLive(t *testing.T, dir, content string) string {
	t.Helper()
	live := filepath.Join(dir, "current_session.json")
	if err := os.WriteFile(live, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return live
}

func TestBackupName(t *testing.T) {
	at := time.Date(2025, 7, 2, 15, 32, 42, 0, time.Local)
	got := BackupName("20250702_153042", at)
	if got != "backup_20250702_153042_153242.json" {
		t.Errorf("got %q", got)
	}
}

func TestSnapshotCopiesLiveVerbatim(t *testing.T) {
	dir := t.TempDir()
	live := writeLive(t, dir, `{"session_id":"20250702_153042","actions":[]}`)
	ring := NewRing(filepath.Join(dir, "backups"), 20)

	if err := ring.Snapshot(live, "20250702_153042"); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	names, err := ring.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 {
		t.Fatalf("got %d entries", len(names))
	}

	data, err := os.ReadFile(filepath.Join(ring.Dir(), names[0]))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"session_id":"20250702_153042","actions":[]}` {
		t.Errorf("backup not verbatim: %s", data)
	}
}

func TestSnapshotEvictsOldest(t *testing.T) {
	dir := t.TempDir()
	live := writeLive(t, dir, "{}")
	backups := filepath.Join(dir, "backups")
	if err := os.MkdirAll(backups, 0700); err != nil {
		t.Fatal(err)
	}

	// Fill the ring with names older than anything Snapshot will mint.
	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("backup_20250101_000000_00000%d.json", i)
		if err := os.WriteFile(filepath.Join(backups, name), []byte("{}"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	ring := NewRing(backups, 3)
	if err := ring.Snapshot(live, "20250702_153042"); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	names, err := ring.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 3 {
		t.Fatalf("ring overflowed: %d entries", len(names))
	}
	for _, name := range names {
		if name == "backup_20250101_000000_000000.json" {
			t.Error("oldest entry not evicted")
		}
	}
}

func TestSnapshotBurstKeepsEveryBackup(t *testing.T) {
	dir := t.TempDir()
	ring := NewRing(filepath.Join(dir, "backups"), 20)

	// Three checkpoints inside the same wall-clock second must yield
	// three distinct files, not overwrite one another.
	for i, content := range []string{`{"n":1}`, `{"n":2}`, `{"n":3}`} {
		live := writeLive(t, dir, content)
		if err := ring.Snapshot(live, "20250702_153042"); err != nil {
			t.Fatalf("snapshot %d: %v", i, err)
		}
	}

	names, err := ring.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 3 {
		t.Fatalf("got %d entries, want 3: %v", len(names), names)
	}

	// The newest entry carries the newest content.
	paths, err := ring.Newest()
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"n":3}` {
		t.Errorf("newest backup holds %s", data)
	}
}

func TestEntriesFilterAndOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"backup_20250702_153042_153242.json",
		"backup_20250702_153042_151000.json",
		"notes.txt",
		"current_session.json.corrupt",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	ring := NewRing(dir, 20)
	names, err := ring.Entries()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"backup_20250702_153042_151000.json",
		"backup_20250702_153042_153242.json",
	}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("got %v, want %v", names, want)
	}
}

func TestNewestOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"backup_20250702_153042_151000.json",
		"backup_20250702_153042_153242.json",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	ring := NewRing(dir, 20)
	paths, err := ring.Newest()
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths", len(paths))
	}
	if filepath.Base(paths[0]) != "backup_20250702_153042_153242.json" {
		t.Errorf("newest first: got %v", paths)
	}
}

func TestEntriesMissingDir(t *testing.T) {
	ring := NewRing(filepath.Join(t.TempDir(), "nope"), 20)
	names, err := ring.Entries()
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if names != nil {
		t.Errorf("got %v", names)
	}
}
