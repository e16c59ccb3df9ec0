// Package intent infers why a file exists and keeps the per-project
// record of those explanations.
//
// Inference is layered: filename patterns first, then content
// heuristics, then extension and operation fallbacks. The pattern
// tables are part of the external contract; see tables.go.
package intent

import (
	"strings"

	"worklogd/internal/project"
)

// Infer produces an intent sentence and category tag for a file
// operation. contentSample is the first few hundred bytes of the file
// at write time and may be empty. Infer never panics; any internal
// failure yields the default pair.
func Infer(filename, operation, contentSample string, kind project.Kind) (intent, category string) {
	defer func() {
		if recover() != nil {
			intent, category = intentDefault, DefaultCategory
		}
	}()

	name := strings.ToLower(filename)
	content := strings.ToLower(contentSample)

	return inferIntent(name, operation, content, kind), categorize(name, kind)
}

func inferIntent(name, operation, content string, kind project.Kind) string {
	for _, rule := range intentTables[kind] {
		if strings.Contains(name, rule.substr) {
			return rule.value
		}
	}

	if v := contentHeuristic(content, kind); v != "" {
		return v
	}

	for _, rule := range extensionRules {
		for _, ext := range rule.exts {
			if strings.HasSuffix(name, ext) {
				return rule.value
			}
		}
	}

	switch operation {
	case "create":
		return intentCreate
	case "edit":
		return intentEdit
	default:
		return intentDefault
	}
}

// contentHeuristic checks well-known tokens in the lowercased sample.
// Each token maps to a fixed intent; an empty return means no match.
func contentHeuristic(content string, kind project.Kind) string {
	if content == "" {
		return ""
	}

	switch kind {
	case project.KindResearch:
		if strings.Contains(content, "pandas") || strings.Contains(content, "numpy") {
			return "data analysis"
		}
		if strings.Contains(content, "class") &&
			(strings.Contains(content, "model") || strings.Contains(content, "classifier")) {
			return "ML model"
		}
	case project.KindPython:
		if strings.Contains(content, "def main(") {
			return "entry point"
		}
		if strings.Contains(content, "class ") {
			return "object model"
		}
		if strings.Contains(content, "import requests") {
			return "external API"
		}
	case project.KindNode:
		if strings.Contains(content, "express") {
			return "server"
		}
		if strings.Contains(content, "mongoose") {
			return "persistence"
		}
	}

	return ""
}

func categorize(name string, kind project.Kind) string {
	for _, rule := range categoryTables[kind] {
		if strings.Contains(name, rule.substr) {
			return rule.value
		}
	}
	return DefaultCategory
}

// ExtractTags intersects text with the project kind's keyword list,
// preserving the list order.
func ExtractTags(text string, kind project.Kind) []string {
	keywords, ok := keywordLists[kind]
	if !ok {
		keywords = generalKeywords
	}

	lower := strings.ToLower(text)
	var tags []string
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			tags = append(tags, kw)
		}
	}
	return tags
}
