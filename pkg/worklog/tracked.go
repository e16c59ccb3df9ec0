package worklog

import (
	"crypto/md5"
	"encoding/hex"
	"hash"
	"os"
	"path/filepath"

	"worklogd/internal/journal"
)

// TrackedFile wraps an os.File so that writes through it are recorded
// when the file is closed. Callers opt in by opening through
// OpenTracked; the default file API is untouched.
type TrackedFile struct {
	*os.File

	rec       *Recorder
	path      string
	operation string

	// Streamed content state: the leading bytes up to the verbatim
	// cap, plus a running digest and total so oversized writes record
	// hash and length without holding the body.
	head   []byte
	digest hash.Hash
	total  int
}

// OpenTracked opens path for writing and records the resulting file
// operation on Close. The operation is "create" when the file did not
// exist, "edit" otherwise.
func (r *Recorder) OpenTracked(path string, flag int, perm os.FileMode) (*TrackedFile, error) {
	operation := "edit"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		operation = "create"
	}

	f, err := os.OpenFile(path, flag, perm)
	if err != nil {
		return nil, err
	}

	return &TrackedFile{
		File:      f,
		rec:       r,
		path:      path,
		operation: operation,
		digest:    md5.New(),
	}, nil
}

// Write passes data through to the file while feeding the recording
// state.
func (t *TrackedFile) Write(p []byte) (int, error) {
	n, err := t.File.Write(p)
	if n > 0 {
		written := p[:n]
		t.digest.Write(written)
		t.total += n

		limit := t.rec.cfg.Journal.FileContentCap
		if room := limit - len(t.head); room > 0 {
			if len(written) > room {
				written = written[:room]
			}
			t.head = append(t.head, written...)
		}
	}
	return n, err
}

// WriteString writes a string through the tracked file.
func (t *TrackedFile) WriteString(s string) (int, error) {
	return t.Write([]byte(s))
}

// Close closes the file and records the file operation.
func (t *TrackedFile) Close() error {
	err := t.File.Close()

	t.rec.mu.Lock()
	defer t.rec.mu.Unlock()
	defer t.rec.recoverPanic("open_tracked")

	sample := t.head
	if len(sample) > t.rec.cfg.Intent.ContentSampleCap {
		sample = sample[:t.rec.cfg.Intent.ContentSampleCap]
	}
	t.rec.autoIntent(filepath.Base(t.path), t.operation, string(sample))

	if t.total <= t.rec.cfg.Journal.FileContentCap {
		t.rec.append(journal.NewFileOp(t.operation, t.path, string(t.head), t.rec.cfg.Journal.FileContentCap))
	} else {
		sum := hex.EncodeToString(t.digest.Sum(nil))
		t.rec.append(journal.NewFileOpHashed(t.operation, t.path, sum, t.total))
	}

	return err
}
