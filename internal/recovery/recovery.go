// Package recovery locates and validates the latest usable session.
//
// Load order at session-open time: the live file, then the backup ring
// newest-first, then a fresh empty session. A candidate must pass the
// embedded document schema; individual actions that fail typed
// decoding are elided with a reason in the repair log rather than
// failing the whole session.
package recovery

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"worklogd/internal/checkpoint"
	"worklogd/internal/clock"
	"worklogd/internal/errlog"
	"worklogd/internal/journal"
	"worklogd/internal/session"
)

// RepairLogName is the elided-action log inside the session directory.
const RepairLogName = "repair.log"

//go:embed session.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func documentSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("session.schema.json", bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile("session.schema.json")
	})
	return schema, schemaErr
}

// Engine loads sessions from the live file and the backup ring.
type Engine struct {
	store *journal.Store
	ring  *checkpoint.Ring
	sink  *errlog.Sink
}

// NewEngine wires a recovery engine over a session store and its ring.
func NewEngine(store *journal.Store, ring *checkpoint.Ring, sink *errlog.Sink) *Engine {
	return &Engine{store: store, ring: ring, sink: sink}
}

// Load returns the latest valid session, or a fresh one owned by
// projectID when nothing on disk is usable. It never fails.
func (e *Engine) Load(projectID string) *session.Session {
	if e.store.LiveExists() {
		data, err := e.store.ReadLive()
		if err == nil {
			if sess, perr := e.parse(data); perr == nil {
				return sess
			} else {
				e.sink.Reportf("recovery", "live session parse failure: %v", perr)
				if qerr := e.store.QuarantineLive(); qerr != nil {
					e.sink.Report("recovery", qerr)
				}
			}
		} else {
			e.sink.Report("recovery", err)
		}
	}

	backups, err := e.ring.Newest()
	if err != nil {
		e.sink.Report("recovery", err)
	}
	for _, path := range backups {
		data, err := os.ReadFile(path)
		if err != nil {
			e.sink.Report("recovery", err)
			continue
		}
		sess, perr := e.parse(data)
		if perr != nil {
			e.sink.Reportf("recovery", "backup %s parse failure: %v", filepath.Base(path), perr)
			continue
		}
		return sess
	}

	return session.New(projectID)
}

// lenientDoc keeps actions raw so a single bad action cannot sink the
// whole document.
type lenientDoc struct {
	SessionID   string            `json:"session_id"`
	ProjectID   string            `json:"project_id"`
	StartTime   string            `json:"start_time"`
	LastUpdated string            `json:"last_updated"`
	Actions     []json.RawMessage `json:"actions"`
}

func (e *Engine) parse(data []byte) (*session.Session, error) {
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	sch, err := documentSchema()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	if err := sch.Validate(instance); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	var doc lenientDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	sess := &session.Session{
		SessionID:   doc.SessionID,
		ProjectID:   doc.ProjectID,
		StartTime:   doc.StartTime,
		LastUpdated: doc.LastUpdated,
		Actions:     []journal.Action{},
	}

	for i, raw := range doc.Actions {
		var a journal.Action
		if err := json.Unmarshal(raw, &a); err != nil {
			e.repair(doc.SessionID, i, err)
			continue
		}
		sess.Actions = append(sess.Actions, a)
	}

	return sess, nil
}

// repair appends one line per elided action to the repair log.
func (e *Engine) repair(sessionID string, index int, reason error) {
	path := filepath.Join(e.store.Dir(), RepairLogName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		e.sink.Report("recovery", err)
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s session=%s action=%d elided: %v\n", clock.Now(), sessionID, index, reason)
}
