package recovery

import (
	"fmt"
	"strings"

	"worklogd/internal/journal"
	"worklogd/internal/session"
)

// reportTail is how many recent actions the recovery report lists.
const reportTail = 20

// RenderReport produces the human-readable recovery report for a
// session: metadata first, then the most recent actions newest-first.
func RenderReport(sess *session.Session) string {
	var b strings.Builder

	b.WriteString("# Session Recovery Report\n\n")
	fmt.Fprintf(&b, "**Session ID**: %s\n", sess.SessionID)
	fmt.Fprintf(&b, "**Started**: %s\n", sess.StartTime)
	fmt.Fprintf(&b, "**Last updated**: %s\n", sess.LastUpdated)
	fmt.Fprintf(&b, "**Actions**: %d\n\n", len(sess.Actions))
	b.WriteString("## Recent actions\n\n")

	actions := sess.Actions
	if len(actions) > reportTail {
		actions = actions[len(actions)-reportTail:]
	}

	for i := len(actions) - 1; i >= 0; i-- {
		a := actions[i]
		fmt.Fprintf(&b, "### %s\n", a.Timestamp)
		fmt.Fprintf(&b, "**Type**: %s\n", a.Type)
		switch a.Type {
		case journal.TypeFileOp:
			fmt.Fprintf(&b, "- Operation: %s\n", a.FileOp.Operation)
			fmt.Fprintf(&b, "- File: %s\n", a.FileOp.Path)
		case journal.TypeCommand:
			fmt.Fprintf(&b, "- Command: `%s`\n", a.Command.Command)
		case journal.TypeIntent:
			fmt.Fprintf(&b, "- File: %s\n", a.Intent.Name)
			fmt.Fprintf(&b, "- Intent: %s\n", a.Intent.Intent)
		case journal.TypeVCSSnapshot:
			b.WriteString("- VCS state saved\n")
		case journal.TypeSessionMarker:
			fmt.Fprintf(&b, "- Marker: %s\n", a.SessionMarker.Reason)
		}
		b.WriteString("\n")
	}

	return b.String()
}
