package intent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"worklogd/internal/atomicfile"
	"worklogd/internal/clock"
	"worklogd/internal/project"
)

// Per-project layout, relative to the working directory.
const (
	ProjectDirName   = ".claude_project"
	IntentsFileName  = "intents.json"
	TimelineFileName = "timeline.json"
)

// summaryLimit caps the intent text stored in timeline entries.
const summaryLimit = 100

// Record is the per-filename explanation of why that file exists.
// The first recording wins; only an explicit re-record overrides it.
type Record struct {
	Name         string       `json:"name"`
	Intent       string       `json:"intent"`
	Context      string       `json:"context"`
	Category     string       `json:"category"`
	ProjectID    string       `json:"project_id"`
	ProjectName  string       `json:"project_name"`
	ProjectType  project.Kind `json:"project_type"`
	CreatedDate  string       `json:"created_date"`
	Tags         []string     `json:"tags"`
	RelatedFiles []string     `json:"related_files"`
}

// TimelineEntry is one event in the per-project timeline.
type TimelineEntry struct {
	Date          string `json:"date"`
	Action        string `json:"action"`
	Item          string `json:"item"`
	IntentSummary string `json:"intent_summary,omitempty"`
	Project       string `json:"project"`
}

// Store persists IntentRecords and the timeline for one project.
type Store struct {
	dir  string
	proj project.Descriptor
}

// OpenStore returns the store rooted at workdir/.claude_project.
func OpenStore(workdir string, proj project.Descriptor) *Store {
	return &Store{dir: filepath.Join(workdir, ProjectDirName), proj: proj}
}

// Dir returns the per-project data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Records loads every IntentRecord keyed by filename. A missing file
// yields an empty map.
func (s *Store) Records() (map[string]Record, error) {
	records := map[string]Record{}
	if err := s.loadJSON(IntentsFileName, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Has reports whether a filename already carries an IntentRecord.
func (s *Store) Has(name string) (bool, error) {
	records, err := s.Records()
	if err != nil {
		return false, err
	}
	_, ok := records[name]
	return ok, nil
}

// Get returns the IntentRecord for a filename.
func (s *Store) Get(name string) (Record, bool, error) {
	records, err := s.Records()
	if err != nil {
		return Record{}, false, err
	}
	rec, ok := records[name]
	return rec, ok, nil
}

// Put writes a record, replacing any prior one for the same filename,
// and appends a timeline entry. Callers enforce first-write-wins for
// automatic inference.
func (s *Store) Put(rec Record) error {
	records, err := s.Records()
	if err != nil {
		return err
	}
	records[rec.Name] = rec
	if err := s.saveJSON(IntentsFileName, records); err != nil {
		return err
	}

	summary := rec.Intent
	if len(summary) > summaryLimit {
		summary = summary[:summaryLimit] + "..."
	}
	return s.AppendTimeline(TimelineEntry{
		Date:          clock.Now(),
		Action:        "intent_recorded",
		Item:          rec.Name,
		IntentSummary: summary,
		Project:       s.proj.Name,
	})
}

// NewRecord assembles a Record for this project, extracting tags from
// intent plus context and discovering related files.
func (s *Store) NewRecord(name, intentText, context, category string, relatedLimit int) Record {
	return Record{
		Name:         name,
		Intent:       intentText,
		Context:      context,
		Category:     category,
		ProjectID:    s.proj.ProjectID,
		ProjectName:  s.proj.Name,
		ProjectType:  s.proj.Kind,
		CreatedDate:  clock.Now(),
		Tags:         ExtractTags(intentText+" "+context, s.proj.Kind),
		RelatedFiles: RelatedFiles(s.proj.Path, name, relatedLimit),
	}
}

// Timeline loads the project timeline.
func (s *Store) Timeline() ([]TimelineEntry, error) {
	var entries []TimelineEntry
	if err := s.loadJSON(TimelineFileName, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AppendTimeline adds one timeline entry.
func (s *Store) AppendTimeline(entry TimelineEntry) error {
	entries, err := s.Timeline()
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	return s.saveJSON(TimelineFileName, entries)
}

// Summary renders the recorded intents grouped by category.
func (s *Store) Summary() (string, error) {
	records, err := s.Records()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s project summary\n\n", s.proj.Name)
	fmt.Fprintf(&b, "**Kind**: %s\n", s.proj.Kind)
	fmt.Fprintf(&b, "**Path**: %s\n", s.proj.Path)
	fmt.Fprintf(&b, "**Detected**: %s\n\n", s.proj.DetectedAt)
	fmt.Fprintf(&b, "## Recorded intents (%d)\n\n", len(records))

	byCategory := map[string][]Record{}
	for _, rec := range records {
		byCategory[rec.Category] = append(byCategory[rec.Category], rec)
	}

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		recs := byCategory[cat]
		sort.Slice(recs, func(i, j int) bool { return recs[i].Name < recs[j].Name })
		fmt.Fprintf(&b, "### %s\n", cat)
		for _, rec := range recs {
			fmt.Fprintf(&b, "- **%s**: %s\n", rec.Name, rec.Intent)
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

func (s *Store) loadJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (s *Store) saveJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return atomicfile.WriteFile(filepath.Join(s.dir, name), data, 0600)
}
