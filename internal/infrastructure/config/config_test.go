package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName+".yaml"), []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Backend != BackendFile {
		t.Errorf("backend = %q, want file", cfg.Storage.Backend)
	}
	if cfg.Storage.Dir != filepath.Join(root, ".nihulit") {
		t.Errorf("dir = %q", cfg.Storage.Dir)
	}
	if cfg.Session.TTL != 720*time.Hour {
		t.Errorf("session ttl = %v, want 720h", cfg.Session.TTL)
	}
	if cfg.Location().String() != "Asia/Jerusalem" {
		t.Errorf("location = %v", cfg.Location())
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	writeConfig(t, root, `
storage:
  backend: memory
http:
  addr: ":9000"
session:
  ttl: 2h
log:
  level: debug
`)
	t.Setenv("NIHULIT_HTTP_ADDR", ":9100")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.HTTP.Addr != ":9100" {
		t.Errorf("addr = %q, want env override :9100", cfg.HTTP.Addr)
	}
	if cfg.Session.TTL != 2*time.Hour {
		t.Errorf("ttl = %v, want 2h", cfg.Session.TTL)
	}
	if level, _ := cfg.LogLevel(); level != slog.LevelDebug {
		t.Errorf("level = %v, want debug", level)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := t.TempDir()
	writeConfig(t, root, "storage: [unclosed")

	if _, err := Load(root); err == nil {
		t.Error("Load() should fail on malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Storage.Backend = "mongo" }},
		{"postgres without url", func(c *Config) { c.Storage.Backend = BackendPostgres }},
		{"zero ttl", func(c *Config) { c.Session.TTL = 0 }},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }},
		{"bad timezone", func(c *Config) { c.Calendar.Timezone = "Mars/Olympus" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}
