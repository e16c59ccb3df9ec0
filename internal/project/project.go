// Package project classifies working directories and maintains the
// global project registry.
//
// Classification is derived purely from files present at detection
// time; a given path always produces the same project ID.
package project

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"worklogd/internal/clock"
	"worklogd/internal/vcs"
)

// Kind is the project classification label.
type Kind string

// Project kinds, in detection order.
const (
	KindNode     Kind = "node"
	KindPython   Kind = "python"
	KindRust     Kind = "rust"
	KindJava     Kind = "java"
	KindGo       Kind = "go"
	KindWebApp   Kind = "web_app"
	KindResearch Kind = "research"
	KindGitOnly  Kind = "git_only"
	KindGeneral  Kind = "general"
)

// Descriptor describes a working directory. Immutable once detected.
type Descriptor struct {
	ProjectID  string   `json:"project_id"`
	Name       string   `json:"name"`
	Path       string   `json:"path"`
	Kind       Kind     `json:"kind"`
	VCS        vcs.Info `json:"vcs"`
	DetectedAt string   `json:"detected_at"`
}

// Detect classifies dir and extracts VCS metadata. It never fails: an
// unreadable directory classifies as general with no VCS info.
func Detect(dir string, vcsTimeout time.Duration) Descriptor {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}

	return Descriptor{
		ProjectID:  clock.ProjectID(abs),
		Name:       filepath.Base(abs),
		Path:       abs,
		Kind:       classify(abs),
		VCS:        vcs.Detect(abs, vcsTimeout),
		DetectedAt: clock.Now(),
	}
}

// markerRule maps a marker file to a project kind.
type markerRule struct {
	file string
	kind Kind
}

// classification order is part of the contract: first match wins.
var markerRules = []markerRule{
	{"package.json", KindNode},
	{"requirements.txt", KindPython},
	{"setup.py", KindPython},
	{"Cargo.toml", KindRust},
	{"pom.xml", KindJava},
	{"go.mod", KindGo},
	{"vercel.json", KindWebApp},
}

func classify(dir string) Kind {
	for _, rule := range markerRules {
		if fileExists(filepath.Join(dir, rule.file)) {
			return rule.kind
		}
	}

	if strings.Contains(strings.ToLower(dir), "research") &&
		dirExists(filepath.Join(dir, "study")) {
		return KindResearch
	}

	if dirExists(filepath.Join(dir, ".git")) {
		return KindGitOnly
	}

	return KindGeneral
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
