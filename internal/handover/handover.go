// Package handover renders a completed session as a markdown summary
// grouped by work cluster, so a fresh session can pick up where the
// previous one stopped.
//
// The generator is pure: the same session always yields the same
// document.
package handover

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"worklogd/internal/journal"
	"worklogd/internal/session"
)

// clusterRule buckets a basename fragment into a cluster name. A file
// matches at most one cluster; the first matching rule wins.
type clusterRule struct {
	match   func(name string) bool
	cluster string
}

func contains(substrs ...string) func(string) bool {
	return func(name string) bool {
		for _, s := range substrs {
			if strings.Contains(name, s) {
				return true
			}
		}
		return false
	}
}

func hasExt(ext string) func(string) bool {
	return func(name string) bool { return strings.HasSuffix(name, ext) }
}

var clusterRules = []clusterRule{
	{contains("gemini"), "LLM integration"},
	{contains("vercel", "deploy"), "deployment"},
	{contains("recovery", "session"), "session tooling"},
	{hasExt(".py"), "Python scripts"},
	{hasExt(".md"), "documentation"},
	{hasExt(".json"), "configuration & data"},
}

const defaultCluster = "other files"

// Cluster returns the work cluster for a file basename.
func Cluster(basename string) string {
	name := strings.ToLower(basename)
	for _, rule := range clusterRules {
		if rule.match(name) {
			return rule.cluster
		}
	}
	return defaultCluster
}

// frontMatter is the machine-readable header of the handover document.
type frontMatter struct {
	SessionID       string `yaml:"session_id"`
	Project         string `yaml:"project"`
	DurationMinutes int    `yaml:"duration_minutes"`
	Actions         int    `yaml:"actions"`
}

// Generate renders the handover document for a session. Cluster
// sections appear in the order each cluster was first touched.
func Generate(sess *session.Session, projectName string) string {
	// Bucket file operations, remembering first-touch cluster order
	// and deduplicating basenames within a cluster.
	var order []string
	members := map[string][]string{}
	seen := map[string]map[string]bool{}

	for _, a := range sess.Actions {
		if a.Type != journal.TypeFileOp || a.FileOp == nil {
			continue
		}
		base := filepath.Base(a.FileOp.Path)
		cluster := Cluster(base)

		if seen[cluster] == nil {
			seen[cluster] = map[string]bool{}
			order = append(order, cluster)
		}
		if seen[cluster][base] {
			continue
		}
		seen[cluster][base] = true
		members[cluster] = append(members[cluster], base)
	}

	var b strings.Builder

	fm := frontMatter{
		SessionID:       sess.SessionID,
		Project:         projectName,
		DurationMinutes: int(sess.Duration().Minutes()),
		Actions:         len(sess.Actions),
	}
	if header, err := yaml.Marshal(fm); err == nil {
		b.WriteString("---\n")
		b.Write(header)
		b.WriteString("---\n\n")
	}

	fmt.Fprintf(&b, "# Handover: %s (session %s)\n\n", projectName, sess.SessionID)
	fmt.Fprintf(&b, "Duration: %d minutes\n\n", int(sess.Duration().Minutes()))

	for _, cluster := range order {
		fmt.Fprintf(&b, "## %s\n\n", cluster)
		for _, base := range members[cluster] {
			fmt.Fprintf(&b, "- %s\n", base)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Total actions: %d\n", len(sess.Actions))

	return b.String()
}
