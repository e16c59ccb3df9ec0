// Package journal defines the typed action log and its durable,
// crash-safe persistence.
//
// Actions are append-only: once appended they are never rewritten.
// The whole current session is persisted as one JSON document via a
// temp-sibling write and rename, so a crash at any point leaves either
// the previous state or the new state on disk, never a torn document.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ActionType discriminates the five action payload shapes.
type ActionType string

// Action types.
const (
	TypeFileOp        ActionType = "file_op"
	TypeCommand       ActionType = "command"
	TypeIntent        ActionType = "intent"
	TypeVCSSnapshot   ActionType = "vcs_snapshot"
	TypeSessionMarker ActionType = "session_marker"
)

// Errors.
var (
	ErrUnknownActionType = errors.New("journal: unknown action type")
	ErrMissingTimestamp  = errors.New("journal: action missing timestamp")
	ErrMissingPayload    = errors.New("journal: action missing payload")
)

// Action is one recorded event. Exactly one payload field is non-nil,
// matching Type.
type Action struct {
	Timestamp string
	Type      ActionType

	FileOp        *FileOpPayload
	Command       *CommandPayload
	Intent        *IntentPayload
	VCSSnapshot   *VCSSnapshotPayload
	SessionMarker *SessionMarkerPayload
}

// FileOpPayload records a file operation. For contents over the cap,
// Content is absent and ContentHash/ContentLength are set instead.
type FileOpPayload struct {
	Operation     string `json:"operation"`
	Path          string `json:"path"`
	Content       string `json:"content,omitempty"`
	ContentHash   string `json:"content_hash,omitempty"`
	ContentLength int    `json:"content_length,omitempty"`
}

// CommandPayload records a command execution. Outputs over the cap
// store only OutputLength and OutputHash.
type CommandPayload struct {
	Command      string `json:"command"`
	Output       string `json:"output,omitempty"`
	OutputLength int    `json:"output_length,omitempty"`
	OutputHash   string `json:"output_hash,omitempty"`
}

// IntentPayload records an explicit intent declaration.
type IntentPayload struct {
	Name     string `json:"name"`
	Intent   string `json:"intent"`
	Context  string `json:"context"`
	Category string `json:"category"`
}

// VCSSnapshotPayload records git status plus a truncated diff.
type VCSSnapshotPayload struct {
	Status string `json:"status"`
	Diff   string `json:"diff_truncated_5000"`
}

// SessionMarkerPayload records a session lifecycle boundary, such as a
// size-cap rotation.
type SessionMarkerPayload struct {
	Reason string `json:"reason"`
}

// envelope is the wire shape of an action.
type envelope struct {
	Timestamp string          `json:"timestamp"`
	Type      ActionType      `json:"type"`
	Payload   json.RawMessage `json:"payload"`
}

// MarshalJSON renders the canonical {timestamp, type, payload} shape.
func (a Action) MarshalJSON() ([]byte, error) {
	var payload any
	switch a.Type {
	case TypeFileOp:
		payload = a.FileOp
	case TypeCommand:
		payload = a.Command
	case TypeIntent:
		payload = a.Intent
	case TypeVCSSnapshot:
		payload = a.VCSSnapshot
	case TypeSessionMarker:
		payload = a.SessionMarker
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownActionType, a.Type)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Timestamp: a.Timestamp, Type: a.Type, Payload: raw})
}

// UnmarshalJSON decodes the wire shape, rejecting unknown types and
// actions without timestamp or payload. The caller decides whether a
// rejected action fails the load or is elided.
func (a *Action) UnmarshalJSON(data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	if env.Timestamp == "" {
		return ErrMissingTimestamp
	}
	if len(env.Payload) == 0 {
		return ErrMissingPayload
	}

	*a = Action{Timestamp: env.Timestamp, Type: env.Type}
	switch env.Type {
	case TypeFileOp:
		a.FileOp = &FileOpPayload{}
		return json.Unmarshal(env.Payload, a.FileOp)
	case TypeCommand:
		a.Command = &CommandPayload{}
		return json.Unmarshal(env.Payload, a.Command)
	case TypeIntent:
		a.Intent = &IntentPayload{}
		return json.Unmarshal(env.Payload, a.Intent)
	case TypeVCSSnapshot:
		a.VCSSnapshot = &VCSSnapshotPayload{}
		return json.Unmarshal(env.Payload, a.VCSSnapshot)
	case TypeSessionMarker:
		a.SessionMarker = &SessionMarkerPayload{}
		return json.Unmarshal(env.Payload, a.SessionMarker)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownActionType, env.Type)
	}
}
