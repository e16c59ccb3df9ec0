package intent

import (
	"reflect"
	"testing"

	"worklogd/internal/project"
)

func TestInferFilenamePatterns(t *testing.T) {
	cases := []struct {
		name string
		kind project.Kind
		want string
	}{
		{"analysis_final.py", project.KindResearch, "data analysis"},
		{"experiment_03.ipynb", project.KindResearch, "experimentation"},
		{"train_model.py", project.KindResearch, "ML model"},
		{"utils_http.py", project.KindPython, "shared utilities"},
		{"main.py", project.KindPython, "entry point"},
		{"test_parser.py", project.KindPython, "test/quality"},
		{"UserComponent.tsx", project.KindWebApp, "UI component"},
		{"api_routes.ts", project.KindWebApp, "backend"},
		{"server.js", project.KindNode, "server"},
		{"auth_middleware.js", project.KindNode, "middleware"},
	}

	for _, tc := range cases {
		got, _ := Infer(tc.name, "create", "", tc.kind)
		if got != tc.want {
			t.Errorf("%s (%s): got %q, want %q", tc.name, tc.kind, got, tc.want)
		}
	}
}

func TestInferFilenameBeatsContent(t *testing.T) {
	// A filename pattern match wins even when the content would match a
	// different heuristic.
	got, _ := Infer("utils_http.py", "edit", "import requests\n", project.KindPython)
	if got != "shared utilities" {
		t.Errorf("got %q, want %q", got, "shared utilities")
	}
}

func TestInferContentHeuristics(t *testing.T) {
	cases := []struct {
		kind    project.Kind
		content string
		want    string
	}{
		{project.KindResearch, "import pandas as pd\n", "data analysis"},
		{project.KindResearch, "class FraudClassifier:\n", "ML model"},
		{project.KindPython, "def main():\n    pass\n", "entry point"},
		{project.KindPython, "import requests\n", "external API"},
		{project.KindPython, "class Widget:\n", "object model"},
		// A class definition outranks an imports-based guess.
		{project.KindPython, "import requests\n\nclass Client:\n", "object model"},
		{project.KindNode, "const express = require('express')\n", "server"},
		{project.KindNode, "const mongoose = require('mongoose')\n", "persistence"},
	}

	for _, tc := range cases {
		// "zzz" matches no filename pattern, so content decides.
		got, _ := Infer("zzz.bin", "create", tc.content, tc.kind)
		if got != tc.want {
			t.Errorf("%s/%q: got %q, want %q", tc.kind, tc.content, got, tc.want)
		}
	}
}

func TestInferPythonEntryPointBeatsClass(t *testing.T) {
	got, _ := Infer("zzz.bin", "create", "class App:\n\ndef main():\n", project.KindPython)
	if got != "entry point" {
		t.Errorf("got %q, want %q", got, "entry point")
	}
}

func TestInferExtensionFallbacks(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"README.md", "documentation"},
		{"settings.json", "configuration"},
		{"theme.scss", "styling"},
		{"index.html", "UI screen"},
	}

	for _, tc := range cases {
		got, _ := Infer(tc.name, "create", "", project.KindGeneral)
		if got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestInferOperationFallbacks(t *testing.T) {
	if got, _ := Infer("zzz.bin", "create", "", project.KindGeneral); got != "new functionality" {
		t.Errorf("create: got %q", got)
	}
	if got, _ := Infer("zzz.bin", "edit", "", project.KindGeneral); got != "improvement of existing functionality" {
		t.Errorf("edit: got %q", got)
	}
	if got, _ := Infer("zzz.bin", "delete", "", project.KindGeneral); got != "project work" {
		t.Errorf("delete: got %q", got)
	}
}

func TestInferCategories(t *testing.T) {
	cases := []struct {
		name string
		kind project.Kind
		want string
	}{
		{"analysis.py", project.KindResearch, "data analysis"},
		{"model_train.py", project.KindResearch, "machine learning"},
		{"LoginComponent.tsx", project.KindWebApp, "frontend"},
		{"api_users.ts", project.KindWebApp, "backend"},
		{"main.py", project.KindPython, "core logic"},
		{"utils.py", project.KindPython, "utility"},
		{"zzz.bin", project.KindPython, "other"},
		{"server.js", project.KindNode, "other"},
	}

	for _, tc := range cases {
		_, got := Infer(tc.name, "create", "", tc.kind)
		if got != tc.want {
			t.Errorf("%s (%s): got %q, want %q", tc.name, tc.kind, got, tc.want)
		}
	}
}

func TestInferCaseInsensitive(t *testing.T) {
	got, cat := Infer("UTILS_HTTP.PY", "create", "", project.KindPython)
	if got != "shared utilities" || cat != "utility" {
		t.Errorf("got %q/%q", got, cat)
	}
}

func TestExtractTags(t *testing.T) {
	tags := ExtractTags("statistical analysis of experiment data", project.KindResearch)
	want := []string{"analysis", "experiment", "data"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("got %v, want %v", tags, want)
	}

	// Unknown kinds fall back to the general keyword list.
	tags = ExtractTags("config and test for the feature", project.KindGitOnly)
	want = []string{"feature", "config", "test"}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("general: got %v, want %v", tags, want)
	}

	if tags := ExtractTags("nothing relevant here", project.KindResearch); tags != nil {
		t.Errorf("expected no tags, got %v", tags)
	}
}
