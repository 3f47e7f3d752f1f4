package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

type PathsConfig struct {
	// ProjectRoot anchors relative paths; working directory when empty.
	ProjectRoot string `json:"project_root,omitempty"`
	TicketsPath string `json:"tickets_path"`
	RoadmapPath string `json:"roadmap_path"`
	// LogsPath overrides the platform log-directory candidates when set.
	LogsPath string `json:"logs_path,omitempty"`
}

type AppConfig struct {
	DevMode               bool `json:"dev_mode"`
	DiagramTimeoutSeconds int  `json:"diagram_timeout_seconds"`
	LogHorizonHours       int  `json:"log_horizon_hours"`
}

type Config struct {
	Paths PathsConfig `json:"paths"`
	App   AppConfig   `json:"app"`
}

func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			TicketsPath: "tickets.json",
			RoadmapPath: "roadmap.md",
		},
		App: AppConfig{
			DiagramTimeoutSeconds: 60,
			LogHorizonHours:       12,
		},
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "napkinwire")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "napkinwire")
}

func ConfigPath() string {
	if override := os.Getenv("NAPKINWIRE_CONFIG"); override != "" {
		return override
	}
	return filepath.Join(ConfigDir(), "settings.json")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnvOverrides(cfg), nil
		}
		return applyEnvOverrides(cfg), fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return applyEnvOverrides(DefaultConfig()), fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Paths.TicketsPath == "" {
		cfg.Paths.TicketsPath = "tickets.json"
	}
	if cfg.Paths.RoadmapPath == "" {
		cfg.Paths.RoadmapPath = "roadmap.md"
	}
	if cfg.App.DiagramTimeoutSeconds <= 0 {
		cfg.App.DiagramTimeoutSeconds = 60
	}
	if cfg.App.LogHorizonHours <= 0 {
		cfg.App.LogHorizonHours = 12
	}

	return applyEnvOverrides(cfg), nil
}

func applyEnvOverrides(cfg Config) Config {
	if v := os.Getenv("NAPKINWIRE_PROJECT"); v != "" {
		cfg.Paths.ProjectRoot = v
	}
	if v := os.Getenv("NAPKINWIRE_TICKETS_PATH"); v != "" {
		cfg.Paths.TicketsPath = v
	}
	if v := os.Getenv("NAPKINWIRE_LOGS_PATH"); v != "" {
		cfg.Paths.LogsPath = v
	}
	return cfg
}

// saveMu guards read-modify-write cycles on the config file.
var saveMu sync.Mutex

func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

func SaveTo(path string, cfg Config) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ProjectRoot resolves the configured project root, defaulting to the working
// directory.
func (c Config) ProjectRoot() string {
	if c.Paths.ProjectRoot != "" {
		return c.Paths.ProjectRoot
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// AbsolutePath anchors a relative path at the project root.
func (c Config) AbsolutePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.ProjectRoot(), path)
}

func (c Config) TicketsPath() string {
	return c.AbsolutePath(c.Paths.TicketsPath)
}

func (c Config) RoadmapPath() string {
	return c.AbsolutePath(c.Paths.RoadmapPath)
}
