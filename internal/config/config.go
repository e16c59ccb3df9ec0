// Package config handles configuration loading and validation for worklogd.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// GlobalDirName is the per-user directory holding the project registry
// and the optional config file.
const GlobalDirName = ".claude_intent_system"

// ConfigFileName is the optional TOML config file inside the global dir.
const ConfigFileName = "config.toml"

// Config holds the recording core configuration.
type Config struct {
	// Journal configuration.
	Journal JournalConfig `toml:"journal"`

	// Checkpoint configuration for the backup ring.
	Checkpoint CheckpointConfig `toml:"checkpoint"`

	// Intent inference configuration.
	Intent IntentConfig `toml:"intent"`

	// VCS subprocess configuration.
	VCS VCSConfig `toml:"vcs"`

	// Lock configuration for the per-directory advisory lock.
	Lock LockConfig `toml:"lock"`
}

// JournalConfig bounds per-action payloads and the whole session.
type JournalConfig struct {
	// CommandOutputCap is the largest command output stored verbatim,
	// in bytes. Larger outputs store only length and hash.
	CommandOutputCap int `toml:"command_output_cap"`

	// FileContentCap is the largest file-op content stored verbatim,
	// in bytes. Larger contents store only length and hash.
	FileContentCap int `toml:"file_content_cap"`

	// DiffCap is the truncation bound for vcs_snapshot diffs in bytes.
	DiffCap int `toml:"diff_cap"`

	// SessionHardCapBytes is the serialized-session size that forces
	// rotation to a fresh session ID.
	SessionHardCapBytes int `toml:"session_hard_cap_bytes"`
}

// CheckpointConfig controls the backup ring.
type CheckpointConfig struct {
	// Every is the number of appends between checkpoints.
	Every int `toml:"every"`

	// RingSize is the maximum number of backups kept; the
	// lexicographically smallest is evicted on overflow.
	RingSize int `toml:"ring_size"`
}

// IntentConfig controls intent inference.
type IntentConfig struct {
	// ContentSampleCap is how many leading bytes of a file feed the
	// content heuristics.
	ContentSampleCap int `toml:"content_sample_cap"`

	// RelatedFileLimit caps related-file discovery per record.
	RelatedFileLimit int `toml:"related_file_limit"`
}

// VCSConfig bounds git subprocess calls.
type VCSConfig struct {
	// TimeoutSec is the wall-clock timeout for each git invocation.
	// Timeout collapses to "no VCS info".
	TimeoutSec int `toml:"timeout_sec"`
}

// LockConfig controls the optional per-directory advisory lock.
type LockConfig struct {
	// Enabled turns the lock on. Failure to acquire degrades to
	// best-effort recording.
	Enabled bool `toml:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Journal: JournalConfig{
			CommandOutputCap:    5000,
			FileContentCap:      10000,
			DiffCap:             5000,
			SessionHardCapBytes: 50 * 1024 * 1024,
		},
		Checkpoint: CheckpointConfig{
			Every:    10,
			RingSize: 20,
		},
		Intent: IntentConfig{
			ContentSampleCap: 500,
			RelatedFileLimit: 5,
		},
		VCS: VCSConfig{
			TimeoutSec: 5,
		},
		Lock: LockConfig{
			Enabled: true,
		},
	}
}

// GlobalDir returns the per-user global directory (~/.claude_intent_system).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, GlobalDirName)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(GlobalDir(), ConfigFileName)
}

// Load reads the config file at path, or the default location when path
// is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validation errors.
var (
	ErrNonPositiveCap      = errors.New("config: payload caps must be positive")
	ErrNonPositiveInterval = errors.New("config: checkpoint interval must be positive")
	ErrNonPositiveRing     = errors.New("config: ring size must be positive")
)

// Validate rejects configurations the core cannot honor.
func (c *Config) Validate() error {
	if c.Journal.CommandOutputCap <= 0 || c.Journal.FileContentCap <= 0 ||
		c.Journal.DiffCap <= 0 || c.Journal.SessionHardCapBytes <= 0 {
		return ErrNonPositiveCap
	}
	if c.Checkpoint.Every <= 0 {
		return ErrNonPositiveInterval
	}
	if c.Checkpoint.RingSize <= 0 {
		return ErrNonPositiveRing
	}
	if c.Intent.ContentSampleCap <= 0 || c.Intent.RelatedFileLimit <= 0 {
		return ErrNonPositiveCap
	}
	if c.VCS.TimeoutSec <= 0 {
		return ErrNonPositiveInterval
	}
	return nil
}
