// Package session holds the in-memory aggregate of the current work
// session. The aggregate is rebuildable from the persisted journal;
// derived counters are recomputed on demand and never stored.
package session

import (
	"encoding/json"
	"fmt"
	"time"

	"worklogd/internal/clock"
	"worklogd/internal/journal"
)

// Session is the ordered record of one work session. Insertion order
// of Actions is the authoritative chronology. LastUpdated is advanced
// on every append and is never earlier than any contained timestamp.
type Session struct {
	SessionID   string           `json:"session_id"`
	ProjectID   string           `json:"project_id"`
	StartTime   string           `json:"start_time"`
	LastUpdated string           `json:"last_updated"`
	Actions     []journal.Action `json:"actions"`
}

// New starts a fresh session for a project.
func New(projectID string) *Session {
	now := clock.Now()
	return &Session{
		SessionID:   clock.NewSessionID(),
		ProjectID:   projectID,
		StartTime:   now,
		LastUpdated: now,
		Actions:     []journal.Action{},
	}
}

// NewAfter starts a fresh session whose ID is strictly greater than
// prev. Used at rotation, where the replacement session can otherwise
// mint the closing session's own ID within the same wall-clock second.
func NewAfter(projectID, prev string) *Session {
	s := New(projectID)
	if s.SessionID <= prev {
		s.SessionID = clock.NextSessionID(prev)
	}
	return s
}

// Append adds an action and advances LastUpdated. LastUpdated never
// moves backwards and never falls behind a contained timestamp, even
// across wall-clock adjustments.
func (s *Session) Append(a journal.Action) {
	s.Actions = append(s.Actions, a)
	now := clock.Now()
	if s.LastUpdated > now {
		now = s.LastUpdated
	}
	if a.Timestamp > now {
		now = a.Timestamp
	}
	s.LastUpdated = now
}

// Marshal renders the canonical session document.
func (s *Session) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return data, nil
}

// Parse reads a canonical session document. Actions that fail typed
// decoding fail the whole parse; lenient per-action loading lives in
// the recovery engine.
func Parse(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if s.Actions == nil {
		s.Actions = []journal.Action{}
	}
	return &s, nil
}

// CountsByType returns per-type action counts.
func (s *Session) CountsByType() map[journal.ActionType]int {
	counts := make(map[journal.ActionType]int)
	for _, a := range s.Actions {
		counts[a.Type]++
	}
	return counts
}

// FilesTouched returns the deduplicated file paths of all file_op
// actions, in first-touch order.
func (s *Session) FilesTouched() []string {
	seen := make(map[string]bool)
	var files []string
	for _, a := range s.Actions {
		if a.Type != journal.TypeFileOp || a.FileOp == nil {
			continue
		}
		if seen[a.FileOp.Path] {
			continue
		}
		seen[a.FileOp.Path] = true
		files = append(files, a.FileOp.Path)
	}
	return files
}

// Duration is the wall-clock span from start to last update.
func (s *Session) Duration() time.Duration {
	start, err := clock.Parse(s.StartTime)
	if err != nil {
		return 0
	}
	end, err := clock.Parse(s.LastUpdated)
	if err != nil {
		return 0
	}
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return d
}
