// Package vcs shells out to git for branch, remote, status and diff.
//
// Every call runs under a bounded wall-clock timeout. Any failure,
// including timeout, collapses to "no VCS info"; nothing here is
// allowed to fail the caller.
package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Info describes the VCS state of a working directory at detection time.
type Info struct {
	Present bool   `json:"present"`
	Branch  string `json:"branch,omitempty"`
	Remote  string `json:"remote,omitempty"`
}

// Snapshot is the output of a status+diff capture.
type Snapshot struct {
	Status string
	Diff   string
}

// NoRemote is recorded when the repository has no origin remote.
const NoRemote = "none"

// Detect reads branch and origin URL for dir. A directory without a
// .git subdirectory, or any git failure, yields Info{Present: false}.
func Detect(dir string, timeout time.Duration) Info {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		return Info{}
	}

	branch, err := run(dir, timeout, "branch", "--show-current")
	if err != nil {
		return Info{}
	}

	remote, err := run(dir, timeout, "remote", "get-url", "origin")
	if err != nil {
		remote = NoRemote
	}

	return Info{Present: true, Branch: branch, Remote: remote}
}

// Capture reads porcelain status and the working-tree diff.
func Capture(dir string, timeout time.Duration) (Snapshot, error) {
	status, err := run(dir, timeout, "status", "--porcelain")
	if err != nil {
		return Snapshot{}, err
	}

	diff, err := run(dir, timeout, "diff")
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{Status: status, Diff: diff}, nil
}

func run(dir string, timeout time.Duration, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\n"), nil
}
