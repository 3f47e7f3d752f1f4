package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Paths.TicketsPath != "tickets.json" {
		t.Errorf("default tickets path = %q, want tickets.json", cfg.Paths.TicketsPath)
	}
	if cfg.Paths.RoadmapPath != "roadmap.md" {
		t.Errorf("default roadmap path = %q, want roadmap.md", cfg.Paths.RoadmapPath)
	}
	if cfg.App.DiagramTimeoutSeconds != 60 {
		t.Errorf("default diagram timeout = %d, want 60", cfg.App.DiagramTimeoutSeconds)
	}
	if cfg.App.LogHorizonHours != 12 {
		t.Errorf("default log horizon = %d, want 12", cfg.App.LogHorizonHours)
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Paths.TicketsPath != "tickets.json" {
		t.Error("should return defaults for missing file")
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")

	content := `{
  "paths": {
    "project_root": "/work/project",
    "tickets_path": "state/tickets.json",
    "logs_path": "/var/log/claude"
  },
  "app": {
    "diagram_timeout_seconds": 120,
    "log_horizon_hours": 6
  }
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if cfg.Paths.ProjectRoot != "/work/project" {
		t.Errorf("project root = %q, want /work/project", cfg.Paths.ProjectRoot)
	}
	if cfg.App.DiagramTimeoutSeconds != 120 {
		t.Errorf("diagram timeout = %d, want 120", cfg.App.DiagramTimeoutSeconds)
	}
	if cfg.App.LogHorizonHours != 6 {
		t.Errorf("log horizon = %d, want 6", cfg.App.LogHorizonHours)
	}
	if cfg.Paths.RoadmapPath != "roadmap.md" {
		t.Errorf("roadmap path = %q, omitted field should keep default", cfg.Paths.RoadmapPath)
	}
}

func TestLoadFrom_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err == nil {
		t.Error("corrupt file should surface an error")
	}
	if cfg.Paths.TicketsPath != "tickets.json" {
		t.Error("corrupt file should still yield usable defaults")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("NAPKINWIRE_PROJECT", "/env/project")
	t.Setenv("NAPKINWIRE_TICKETS_PATH", "/env/tickets.json")
	t.Setenv("NAPKINWIRE_LOGS_PATH", "/env/logs")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Paths.ProjectRoot != "/env/project" {
		t.Errorf("project root = %q, want env override", cfg.Paths.ProjectRoot)
	}
	if cfg.Paths.TicketsPath != "/env/tickets.json" {
		t.Errorf("tickets path = %q, want env override", cfg.Paths.TicketsPath)
	}
	if cfg.Paths.LogsPath != "/env/logs" {
		t.Errorf("logs path = %q, want env override", cfg.Paths.LogsPath)
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "settings.json")

	cfg := DefaultConfig()
	cfg.App.DiagramTimeoutSeconds = 90
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if loaded.App.DiagramTimeoutSeconds != 90 {
		t.Errorf("diagram timeout = %d, want 90", loaded.App.DiagramTimeoutSeconds)
	}
}

func TestAbsolutePath(t *testing.T) {
	cfg := Config{Paths: PathsConfig{ProjectRoot: "/work/project", TicketsPath: "tickets.json"}}

	if got := cfg.TicketsPath(); got != filepath.Join("/work/project", "tickets.json") {
		t.Errorf("tickets path = %q", got)
	}
	if got := cfg.AbsolutePath("/already/abs"); got != "/already/abs" {
		t.Errorf("absolute input should pass through, got %q", got)
	}
}
