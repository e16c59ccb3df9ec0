// Package clock provides timestamps and stable identifiers for worklogd.
//
// Wall clock is authoritative: timestamps are ISO-8601 with seconds
// precision and session IDs are wall-clock strings. Project IDs are
// stable hashes of the absolute working-directory path, so the same
// directory always maps to the same project across runs.
package clock

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
	"time"
)

// TimestampLayout is the ISO-8601 layout used everywhere on disk.
const TimestampLayout = "2006-01-02T15:04:05"

// SessionIDLayout is the wall-clock layout for session identifiers.
const SessionIDLayout = "20060102_150405"

// Now returns the current wall-clock time as an ISO-8601 string.
func Now() string {
	return Format(time.Now())
}

// Format renders a time in the on-disk timestamp layout.
func Format(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Parse reads a timestamp produced by Format.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, s, time.Local)
}

// NewSessionID returns a fresh session identifier from the wall clock.
// Collisions within a single calendar second are accepted at
// single-user scale.
func NewSessionID() string {
	return SessionIDAt(time.Now())
}

// SessionIDAt formats a session identifier for a specific instant.
func SessionIDAt(t time.Time) string {
	return t.Format(SessionIDLayout)
}

// NextSessionID returns a session identifier strictly greater than
// prev. IDs have one-second resolution, so when the wall clock has not
// moved past prev the candidate is advanced a second at a time.
// Lexicographic order on the layout equals chronological order, which
// keeps rotated sessions distinguishable and correctly ordered.
func NextSessionID(prev string) string {
	t := time.Now()
	id := SessionIDAt(t)
	for id <= prev {
		t = t.Add(time.Second)
		id = SessionIDAt(t)
	}
	return id
}

// ProjectID derives the stable 8-hex-char project identifier for a
// working directory. The path is made absolute first so relative and
// absolute spellings of the same directory agree. Hash collisions are
// treated as the same project.
func ProjectID(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	sum := md5.Sum([]byte(abs))
	return hex.EncodeToString(sum[:])[:8]
}

// MD5Hex returns the full MD5 digest of a payload as lowercase hex.
// Used for size-capped action payloads that store hash instead of body.
func MD5Hex(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
