package intent

import (
	"worklogd/internal/project"
)

// patternRule maps a filename substring to an emitted string. Rules
// are ordered slices, not maps: the first matching substring wins and
// the order is frozen because recorded intents must stay comparable
// across versions.
type patternRule struct {
	substr string
	value  string
}

// Per-kind filename pattern tables.
var intentTables = map[project.Kind][]patternRule{
	project.KindResearch: {
		{"analysis", "data analysis"},
		{"experiment", "experimentation"},
		{"model", "ML model"},
		{"visualization", "visualization"},
		{"report", "reporting"},
		{"dataset", "data prep"},
		{"api", "external API"},
		{"test", "test harness"},
	},
	project.KindWebApp: {
		{"component", "UI component"},
		{"page", "page/screen"},
		{"api", "backend"},
		{"style", "styling"},
		{"config", "configuration"},
		{"auth", "auth/security"},
		{"db", "persistence"},
		{"deploy", "deployment"},
	},
	project.KindPython: {
		{"main", "entry point"},
		{"utils", "shared utilities"},
		{"config", "configuration"},
		{"test", "test/quality"},
		{"cli", "CLI"},
		{"scraper", "scraping"},
		{"parser", "parsing"},
		{"client", "client"},
	},
	project.KindNode: {
		{"server", "server"},
		{"router", "routing"},
		{"middleware", "middleware"},
		{"controller", "controller"},
		{"model", "data model"},
		{"service", "service"},
		{"util", "utility"},
	},
}

// Per-kind category tables, same first-match rule. No match means
// category "other".
var categoryTables = map[project.Kind][]patternRule{
	project.KindResearch: {
		{"analysis", "data analysis"},
		{"model", "machine learning"},
		{"experiment", "experimentation"},
		{"report", "reporting"},
	},
	project.KindWebApp: {
		{"component", "frontend"},
		{"api", "backend"},
		{"style", "design"},
		{"deploy", "infrastructure"},
	},
	project.KindPython: {
		{"main", "core logic"},
		{"utils", "utility"},
		{"test", "quality"},
		{"cli", "interface"},
	},
}

// DefaultCategory is emitted when no category rule matches.
const DefaultCategory = "other"

// Per-kind keyword lists for tag extraction; order is preserved in the
// extracted tags. Kinds without their own list use the general one.
var keywordLists = map[project.Kind][]string{
	project.KindResearch: {"analysis", "experiment", "model", "data", "statistics", "visualization"},
	project.KindWebApp:   {"ui", "api", "deploy", "auth", "database", "frontend"},
	project.KindPython:   {"class", "function", "library", "cli", "script"},
}

var generalKeywords = []string{"implementation", "feature", "config", "test", "documentation"}

// extensionRule maps file extensions to a fallback intent.
type extensionRule struct {
	exts  []string
	value string
}

var extensionRules = []extensionRule{
	{[]string{".md"}, "documentation"},
	{[]string{".json", ".yaml", ".toml"}, "configuration"},
	{[]string{".css", ".scss", ".less"}, "styling"},
	{[]string{".html", ".jsx", ".vue"}, "UI screen"},
}

// Operation fallbacks, the last resort of inference.
const (
	intentCreate  = "new functionality"
	intentEdit    = "improvement of existing functionality"
	intentDefault = "project work"
)
