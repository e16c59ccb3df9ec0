//go:build integration

// Package integration provides end-to-end integration tests for worklogd.
//
// These tests verify the complete flow from action recording through
// checkpointing, crash recovery and handover generation.
//
// Run with: go test -tags=integration ./tests/integration/...
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"worklogd/internal/config"
	"worklogd/internal/intent"
	"worklogd/internal/journal"
	"worklogd/internal/session"
	"worklogd/pkg/worklog"
)

// =============================================================================
// Test Environment Setup
// =============================================================================

// TestEnv holds everything needed for end-to-end recording tests: a
// working directory classified as a python project and a recorder over
// it.
type TestEnv struct {
	T        *testing.T
	WorkDir  string
	Config   *config.Config
	Recorder *worklog.Recorder
}

// NewTestEnv creates a fully initialized test environment. HOME is
// redirected so the global project registry lands in a scratch dir.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())

	workDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(workDir, "requirements.txt"), []byte("requests\n"), 0600); err != nil {
		t.Fatalf("failed to create project marker: %v", err)
	}

	cfg := config.Default()

	env := &TestEnv{
		T:       t,
		WorkDir: workDir,
		Config:  cfg,
	}
	env.Recorder = worklog.Open(workDir, cfg)
	t.Cleanup(env.Cleanup)
	return env
}

// Cleanup releases the recorder.
func (env *TestEnv) Cleanup() {
	if env.Recorder != nil {
		env.Recorder.Close()
		env.Recorder = nil
	}
}

// Reopen closes the current recorder and opens a fresh one over the
// same directory, simulating a process restart.
func (env *TestEnv) Reopen() {
	env.T.Helper()
	env.Recorder.Close()
	env.Recorder = worklog.Open(env.WorkDir, env.Config)
}

// LivePath returns the live session file.
func (env *TestEnv) LivePath() string {
	return filepath.Join(env.WorkDir, journal.SessionsDirName, journal.LiveFileName)
}

// BackupsDir returns the checkpoint ring directory.
func (env *TestEnv) BackupsDir() string {
	return filepath.Join(env.WorkDir, journal.SessionsDirName, journal.BackupsDirName)
}

// LiveSession parses the on-disk live session document.
func (env *TestEnv) LiveSession() *session.Session {
	env.T.Helper()
	data, err := os.ReadFile(env.LivePath())
	AssertNoError(env.T, err, "read live session")
	sess, err := session.Parse(data)
	AssertNoError(env.T, err, "parse live session")
	return sess
}

// CorruptLive overwrites the live session file with torn bytes.
func (env *TestEnv) CorruptLive() {
	env.T.Helper()
	err := os.WriteFile(env.LivePath(), []byte(`{"session_id": "torn mid-wri`), 0600)
	AssertNoError(env.T, err, "corrupt live session")
}

// IntentRecords loads the per-project intents file.
func (env *TestEnv) IntentRecords() map[string]intent.Record {
	env.T.Helper()
	records := map[string]intent.Record{}
	data, err := os.ReadFile(filepath.Join(env.WorkDir, intent.ProjectDirName, intent.IntentsFileName))
	if os.IsNotExist(err) {
		return records
	}
	AssertNoError(env.T, err, "read intents file")
	AssertNoError(env.T, json.Unmarshal(data, &records), "parse intents file")
	return records
}

// =============================================================================
// Assertion Helpers
// =============================================================================

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}

// AssertEqual fails the test if expected != actual.
func AssertEqual[T comparable](t *testing.T, expected, actual T, msg string) {
	t.Helper()
	if expected != actual {
		t.Fatalf("%s: expected %v, got %v", msg, expected, actual)
	}
}

// AssertNotEqual fails the test if expected == actual.
func AssertNotEqual[T comparable](t *testing.T, expected, actual T, msg string) {
	t.Helper()
	if expected == actual {
		t.Fatalf("%s: expected values to differ, both were %v", msg, actual)
	}
}

// AssertTrue fails the test if condition is false.
func AssertTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Fatalf("%s: expected true", msg)
	}
}

// AssertContains fails the test if s does not contain sub.
func AssertContains(t *testing.T, s, sub, msg string) {
	t.Helper()
	if !strings.Contains(s, sub) {
		t.Fatalf("%s: %q not found in:\n%s", msg, sub, s)
	}
}
