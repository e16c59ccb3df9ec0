package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Journal.CommandOutputCap != 5000 {
		t.Errorf("command output cap: %d", cfg.Journal.CommandOutputCap)
	}
	if cfg.Journal.FileContentCap != 10000 {
		t.Errorf("file content cap: %d", cfg.Journal.FileContentCap)
	}
	if cfg.Journal.DiffCap != 5000 {
		t.Errorf("diff cap: %d", cfg.Journal.DiffCap)
	}
	if cfg.Journal.SessionHardCapBytes != 50*1024*1024 {
		t.Errorf("session hard cap: %d", cfg.Journal.SessionHardCapBytes)
	}
	if cfg.Checkpoint.Every != 10 || cfg.Checkpoint.RingSize != 20 {
		t.Errorf("checkpoint: %+v", cfg.Checkpoint)
	}
	if !cfg.Lock.Enabled {
		t.Error("lock disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := `
[checkpoint]
every = 5

[journal]
command_output_cap = 2000
`
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Checkpoint.Every != 5 {
		t.Errorf("every: %d", cfg.Checkpoint.Every)
	}
	if cfg.Journal.CommandOutputCap != 2000 {
		t.Errorf("command output cap: %d", cfg.Journal.CommandOutputCap)
	}
	// Untouched fields keep their defaults.
	if cfg.Checkpoint.RingSize != 20 || cfg.Journal.FileContentCap != 10000 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[journal\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected decode error")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := `
[checkpoint]
ring_size = 0
`
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrNonPositiveRing) {
		t.Errorf("got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero output cap", func(c *Config) { c.Journal.CommandOutputCap = 0 }, ErrNonPositiveCap},
		{"negative hard cap", func(c *Config) { c.Journal.SessionHardCapBytes = -1 }, ErrNonPositiveCap},
		{"zero interval", func(c *Config) { c.Checkpoint.Every = 0 }, ErrNonPositiveInterval},
		{"zero ring", func(c *Config) { c.Checkpoint.RingSize = 0 }, ErrNonPositiveRing},
		{"zero sample cap", func(c *Config) { c.Intent.ContentSampleCap = 0 }, ErrNonPositiveCap},
		{"zero vcs timeout", func(c *Config) { c.VCS.TimeoutSec = 0 }, ErrNonPositiveInterval},
	}

	for _, tc := range cases {
		cfg := Default()
		tc.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}
