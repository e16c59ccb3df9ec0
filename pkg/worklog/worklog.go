// Package worklog is the public facade over the work-session
// recording and recovery core.
//
// A Recorder is an explicit handle constructed by the caller and
// threaded through; there is no process-global instance. Every
// record method is best-effort: internal failures are swallowed and a
// one-line diagnostic lands in the session directory's error.log. The
// core's job is to survive; losing durability is preferable to
// aborting the caller's real work.
package worklog

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"worklogd/internal/checkpoint"
	"worklogd/internal/config"
	"worklogd/internal/errlog"
	"worklogd/internal/handover"
	"worklogd/internal/intent"
	"worklogd/internal/journal"
	"worklogd/internal/lockfile"
	"worklogd/internal/project"
	"worklogd/internal/recovery"
	"worklogd/internal/session"
	"worklogd/internal/vcs"
)

// Recorder records the actions of one working directory. Safe for use
// from a single controlling process; calls are serialized internally.
type Recorder struct {
	mu sync.Mutex

	cfg     *config.Config
	workdir string
	proj    project.Descriptor

	sink    *errlog.Sink
	store   *journal.Store
	ring    *checkpoint.Ring
	intents *intent.Store
	engine  *recovery.Engine
	lock    *lockfile.Lock

	// Lazily loaded on the first recorded action.
	sess *session.Session
}

// RecoveryReport is the result of Recover: the last usable session and
// its rendered markdown report.
type RecoveryReport struct {
	Session *session.Session
	Report  string
}

// Open constructs a Recorder for workdir. It never fails; a Recorder
// is always usable, degrading to non-durable recording when the
// filesystem misbehaves. A nil cfg loads the user config, falling back
// to defaults.
func Open(workdir string, cfg *config.Config) *Recorder {
	abs, err := filepath.Abs(workdir)
	if err != nil {
		abs = workdir
	}

	if cfg == nil {
		loaded, err := config.Load("")
		if err != nil {
			loaded = config.Default()
		}
		cfg = loaded
	}

	store := journal.NewStore(abs)
	sink := errlog.Open(store.Dir())
	ring := checkpoint.NewRing(store.BackupsDir(), cfg.Checkpoint.RingSize)

	proj := project.Detect(abs, time.Duration(cfg.VCS.TimeoutSec)*time.Second)
	if err := project.OpenRegistry(config.GlobalDir()).Register(proj); err != nil {
		sink.Report("registry", err)
	}

	r := &Recorder{
		cfg:     cfg,
		workdir: abs,
		proj:    proj,
		sink:    sink,
		store:   store,
		ring:    ring,
		intents: intent.OpenStore(abs, proj),
		engine:  recovery.NewEngine(store, ring, sink),
	}

	if cfg.Lock.Enabled {
		lock, err := lockfile.Acquire(filepath.Join(store.Dir(), "lock"))
		if err != nil {
			sink.Reportf("lock", "advisory lock not acquired, recording best-effort: %v", err)
		} else {
			r.lock = lock
		}
	}

	return r
}

// Project returns the detected project descriptor.
func (r *Recorder) Project() project.Descriptor {
	return r.proj
}

// RecordFileOp records a file operation. operation is one of create,
// edit, delete, append. content may be empty. The first sighting of a
// path in the project also infers and stores an IntentRecord.
func (r *Recorder) RecordFileOp(operation, path, content string) {
	defer r.recoverPanic("record_file_op")
	r.mu.Lock()
	defer r.mu.Unlock()

	sample := content
	if len(sample) > r.cfg.Intent.ContentSampleCap {
		sample = sample[:r.cfg.Intent.ContentSampleCap]
	}
	r.autoIntent(filepath.Base(path), operation, sample)

	r.append(journal.NewFileOp(operation, path, content, r.cfg.Journal.FileContentCap))
}

// RecordCommand records a command execution with optional output.
func (r *Recorder) RecordCommand(command, output string) {
	defer r.recoverPanic("record_command")
	r.mu.Lock()
	defer r.mu.Unlock()

	r.append(journal.NewCommand(command, output, r.cfg.Journal.CommandOutputCap))
}

// RecordIntent records an explicit intent for a file, overriding any
// prior IntentRecord for that name.
func (r *Recorder) RecordIntent(name, intentText, context, category string) {
	defer r.recoverPanic("record_intent")
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.intents.NewRecord(name, intentText, context, category, r.cfg.Intent.RelatedFileLimit)
	if err := r.intents.Put(rec); err != nil {
		r.sink.Report("intent", err)
	}

	r.append(journal.NewIntent(name, intentText, context, category))
}

// RecordVCSSnapshot captures git status and a truncated diff.
func (r *Recorder) RecordVCSSnapshot() {
	defer r.recoverPanic("record_vcs_snapshot")
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := vcs.Capture(r.workdir, time.Duration(r.cfg.VCS.TimeoutSec)*time.Second)
	if err != nil {
		r.sink.Report("vcs", err)
		return
	}

	r.append(journal.NewVCSSnapshot(snap.Status, snap.Diff, r.cfg.Journal.DiffCap))
}

// Recover returns the last usable session and its markdown report.
// Calling it twice with no intervening writes yields the same result.
func (r *Recorder) Recover() RecoveryReport {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess := r.engine.Load(r.proj.ProjectID)
	return RecoveryReport{Session: sess, Report: recovery.RenderReport(sess)}
}

// GenerateHandover renders the markdown handover for a session,
// grouped by work cluster.
func (r *Recorder) GenerateHandover(sess *session.Session) string {
	return handover.Generate(sess, r.proj.Name)
}

// WhyFile returns the recorded intent explanation for a filename, or a
// not-recorded notice.
func (r *Recorder) WhyFile(name string) string {
	rec, ok, err := r.intents.Get(name)
	if err != nil {
		r.sink.Report("intent", err)
		ok = false
	}
	if !ok {
		return fmt.Sprintf("No recorded intent for %s", name)
	}

	return fmt.Sprintf("%s (%s project)\n\nIntent: %s\nContext: %s\nCategory: %s\nRecorded: %s\n",
		rec.Name, rec.ProjectName, rec.Intent, rec.Context, rec.Category, rec.CreatedDate)
}

// Summary renders the project's recorded intents grouped by category.
func (r *Recorder) Summary() string {
	s, err := r.intents.Summary()
	if err != nil {
		r.sink.Report("intent", err)
		return ""
	}
	return s
}

// Close releases the advisory lock and the error sink. The session
// itself needs no explicit shutdown; it is persisted on every append.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lock != nil {
		r.lock.Release()
		r.lock = nil
	}
	r.sink.Close()
}

// ensureSession loads or starts the session on first use. A parseable
// live file resumes its session ID; anything else starts fresh.
func (r *Recorder) ensureSession() {
	if r.sess != nil {
		return
	}
	r.sess = r.engine.Load(r.proj.ProjectID)
	if r.sess.ProjectID == "" {
		r.sess.ProjectID = r.proj.ProjectID
	}
}

// append adds an action to the session, persists the document, and
// checkpoints every N appends. Exceeding the serialized hard cap
// rotates to a fresh session ID with markers in both sessions.
func (r *Recorder) append(a journal.Action) {
	r.ensureSession()
	r.sess.Append(a)

	data, err := r.sess.Marshal()
	if err != nil {
		r.sink.Report("journal", err)
		return
	}

	if len(data) > r.cfg.Journal.SessionHardCapBytes {
		r.sess.Actions = r.sess.Actions[:len(r.sess.Actions)-1]
		r.rotate()
		r.sess.Append(a)
		data, err = r.sess.Marshal()
		if err != nil {
			r.sink.Report("journal", err)
			return
		}
	}

	if err := r.store.WriteLive(data); err != nil {
		// The in-memory session advanced but is non-durable; the next
		// append retries the write.
		r.sink.Report("journal", err)
		return
	}

	if len(r.sess.Actions)%r.cfg.Checkpoint.Every == 0 {
		if err := r.ring.Snapshot(r.store.LivePath(), r.sess.SessionID); err != nil {
			r.sink.Report("checkpoint", err)
		}
	}
}

// rotate closes the current session at the size cap and starts a new
// one. Both sessions carry a session_marker recording the split, and
// the old session's final state is preserved in the backup ring.
func (r *Recorder) rotate() {
	old := r.sess
	next := session.NewAfter(old.ProjectID, old.SessionID)

	old.Append(journal.NewSessionMarker(
		fmt.Sprintf("rotated to session %s: size cap reached", next.SessionID)))
	if data, err := old.Marshal(); err != nil {
		r.sink.Report("journal", err)
	} else if err := r.store.WriteLive(data); err != nil {
		r.sink.Report("journal", err)
	} else if err := r.ring.Snapshot(r.store.LivePath(), old.SessionID); err != nil {
		r.sink.Report("checkpoint", err)
	}

	next.Append(journal.NewSessionMarker(
		fmt.Sprintf("continued from session %s", old.SessionID)))
	r.sess = next

	if err := r.intents.AppendTimeline(intent.TimelineEntry{
		Date:    next.StartTime,
		Action:  "session_rotated",
		Item:    next.SessionID,
		Project: r.proj.Name,
	}); err != nil {
		r.sink.Report("intent", err)
	}
}

// autoIntent infers and stores an IntentRecord on the first sighting
// of a filename. The original intent is preserved on later sightings.
func (r *Recorder) autoIntent(base, operation, sample string) {
	has, err := r.intents.Has(base)
	if err != nil {
		r.sink.Report("intent", err)
		return
	}
	if has {
		return
	}

	intentText, category := intent.Infer(base, operation, sample, r.proj.Kind)
	context := fmt.Sprintf("auto-detected from %s operation", operation)
	rec := r.intents.NewRecord(base, intentText, context, category, r.cfg.Intent.RelatedFileLimit)
	if err := r.intents.Put(rec); err != nil {
		r.sink.Report("intent", err)
	}
}

func (r *Recorder) recoverPanic(component string) {
	if v := recover(); v != nil {
		r.sink.Reportf(component, "panic: %v", v)
	}
}
