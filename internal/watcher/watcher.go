// Package watcher monitors a working directory and reports stable file
// writes for automatic recording.
//
// This replaces the original workflow's patched file-open hook: callers
// who want automatic capture run a watcher; the default file API is
// untouched. Events are debounced so a burst of writes to one file
// yields a single record once the file has settled.
package watcher

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event describes one settled file write.
type Event struct {
	Path      string
	Operation string // "create" or "edit"
	Sample    string // leading bytes of the file, capped
	Timestamp time.Time
}

// Watcher monitors one directory tree.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      string
	debounce  time.Duration
	sampleCap int

	// Pending writes: path -> state observed from fsnotify.
	state   map[string]pending
	stateMu sync.Mutex

	events chan Event
	errors chan error

	done chan struct{}
	wg   sync.WaitGroup
}

type pending struct {
	lastWrite time.Time
	created   bool
}

// New creates a watcher over root. Writes must be quiet for debounce
// before an event is emitted; sampleCap bounds the content sample.
func New(root string, debounce time.Duration, sampleCap int) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		root:      abs,
		debounce:  debounce,
		sampleCap: sampleCap,
		state:     make(map[string]pending),
		events:    make(chan Event, 100),
		errors:    make(chan error, 10),
		done:      make(chan struct{}),
	}, nil
}

// Events returns the settled-write channel.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Start begins watching the root directory and its non-hidden
// subdirectories.
func (w *Watcher) Start() error {
	err := filepath.WalkDir(w.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
	if err != nil {
		return err
	}

	w.wg.Add(2)
	go w.eventLoop()
	go w.flushLoop()
	return nil
}

// Stop shuts the watcher down and closes its channels.
func (w *Watcher) Stop() error {
	close(w.done)
	w.wg.Wait()
	close(w.events)
	close(w.errors)
	return w.fsWatcher.Close()
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				// Watch new subdirectories as they appear.
				if event.Op&fsnotify.Create != 0 && !strings.HasPrefix(filepath.Base(event.Name), ".") {
					w.fsWatcher.Add(event.Name)
				}
				continue
			}
			if w.recordedArtifact(event.Name) {
				continue
			}

			w.stateMu.Lock()
			p := w.state[event.Name]
			p.lastWrite = time.Now()
			if event.Op&fsnotify.Create != 0 {
				p.created = true
			}
			w.state[event.Name] = p
			w.stateMu.Unlock()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// recordedArtifact filters the core's own data files so recording does
// not observe itself.
func (w *Watcher) recordedArtifact(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	return strings.HasPrefix(rel, ".claude_sessions") ||
		strings.HasPrefix(rel, ".claude_project") ||
		strings.HasPrefix(rel, ".")
}

func (w *Watcher) flushLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case now := <-ticker.C:
			w.flushSettled(now)
		}
	}
}

func (w *Watcher) flushSettled(now time.Time) {
	threshold := now.Add(-w.debounce)

	w.stateMu.Lock()
	var settled []string
	created := map[string]bool{}
	for path, p := range w.state {
		if p.lastWrite.Before(threshold) {
			settled = append(settled, path)
			created[path] = p.created
		}
	}
	for _, path := range settled {
		delete(w.state, path)
	}
	w.stateMu.Unlock()

	for _, path := range settled {
		op := "edit"
		if created[path] {
			op = "create"
		}

		event := Event{
			Path:      path,
			Operation: op,
			Sample:    w.sample(path),
			Timestamp: now,
		}

		select {
		case w.events <- event:
		default:
		}
	}
}

// sample reads the leading bytes of a file, best-effort.
func (w *Watcher) sample(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	buf := make([]byte, w.sampleCap)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return ""
	}
	return string(buf[:n])
}
