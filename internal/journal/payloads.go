package journal

import (
	"worklogd/internal/clock"
)

// TruncationMarker is appended to diffs cut at the cap.
const TruncationMarker = "\n[truncated]"

// NewFileOp builds a file_op action, storing content verbatim up to
// cap bytes; larger contents store only length and MD5. An empty
// content records neither body nor hash.
func NewFileOp(operation, path, content string, cap int) Action {
	p := &FileOpPayload{Operation: operation, Path: path}
	if content != "" {
		if len(content) <= cap {
			p.Content = content
		} else {
			p.ContentHash = clock.MD5Hex([]byte(content))
			p.ContentLength = len(content)
		}
	}
	return Action{Timestamp: clock.Now(), Type: TypeFileOp, FileOp: p}
}

// NewFileOpHashed builds a file_op action for content already reduced
// to hash and length, used when the body was streamed and never held
// in memory at full size.
func NewFileOpHashed(operation, path, hash string, length int) Action {
	return Action{
		Timestamp: clock.Now(),
		Type:      TypeFileOp,
		FileOp: &FileOpPayload{
			Operation:     operation,
			Path:          path,
			ContentHash:   hash,
			ContentLength: length,
		},
	}
}

// NewCommand builds a command action with the same size discipline.
func NewCommand(command, output string, cap int) Action {
	p := &CommandPayload{Command: command}
	if output != "" {
		if len(output) <= cap {
			p.Output = output
		} else {
			p.OutputHash = clock.MD5Hex([]byte(output))
			p.OutputLength = len(output)
		}
	}
	return Action{Timestamp: clock.Now(), Type: TypeCommand, Command: p}
}

// NewIntent builds an intent action.
func NewIntent(name, intent, context, category string) Action {
	return Action{
		Timestamp: clock.Now(),
		Type:      TypeIntent,
		Intent:    &IntentPayload{Name: name, Intent: intent, Context: context, Category: category},
	}
}

// NewVCSSnapshot builds a vcs_snapshot action, truncating the diff at
// cap bytes with a sentinel marker.
func NewVCSSnapshot(status, diff string, cap int) Action {
	if len(diff) > cap {
		diff = diff[:cap] + TruncationMarker
	}
	return Action{
		Timestamp:   clock.Now(),
		Type:        TypeVCSSnapshot,
		VCSSnapshot: &VCSSnapshotPayload{Status: status, Diff: diff},
	}
}

// NewSessionMarker builds a session_marker action.
func NewSessionMarker(reason string) Action {
	return Action{
		Timestamp:     clock.Now(),
		Type:          TypeSessionMarker,
		SessionMarker: &SessionMarkerPayload{Reason: reason},
	}
}
