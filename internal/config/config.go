package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/janko/shade/internal/theme"
)

const (
	// DefaultWatchInterval is the system appearance poll interval used when
	// the config does not set one.
	DefaultWatchInterval = 30 * time.Second

	// MinWatchInterval is the smallest poll interval the config accepts.
	MinWatchInterval = time.Second

	// DefaultHookTimeout bounds a single hook command when the hook does not
	// set its own timeout.
	DefaultHookTimeout = 10 * time.Second
)

// Duration wraps time.Duration so TOML values read as strings like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type StateConfig struct {
	Path string `toml:"path"`
}

type WatchConfig struct {
	Interval Duration `toml:"interval"`
}

// Hook is a command pair run when the effective theme changes. A hook may
// define a command for one theme only; the other transition skips it.
type Hook struct {
	Name    string   `toml:"name"`
	Light   string   `toml:"light"`
	Dark    string   `toml:"dark"`
	Timeout Duration `toml:"timeout"`
}

// CommandFor returns the hook's command for the given theme, or empty when
// the hook does not handle it.
func (h Hook) CommandFor(t theme.Theme) string {
	if t == theme.Dark {
		return h.Dark
	}
	return h.Light
}

type Config struct {
	State StateConfig `toml:"state"`
	Watch WatchConfig `toml:"watch"`
	Hooks []Hook      `toml:"hooks"`

	configPath string
}

func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "shade")
}

func DefaultConfig() *Config {
	return &Config{
		State: StateConfig{
			Path: filepath.Join(DefaultConfigDir(), "state.json"),
		},
		Watch: WatchConfig{
			Interval: Duration{DefaultWatchInterval},
		},
	}
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = filepath.Join(DefaultConfigDir(), "config.toml")
	}

	path = expandPath(path)

	cfg := DefaultConfig()
	cfg.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.postProcess()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) postProcess() {
	c.State.Path = expandPath(c.State.Path)

	if c.Watch.Interval.Duration == 0 {
		c.Watch.Interval = Duration{DefaultWatchInterval}
	}

	for i, h := range c.Hooks {
		h.Name = strings.TrimSpace(h.Name)
		if h.Timeout.Duration == 0 {
			h.Timeout = Duration{DefaultHookTimeout}
		}
		c.Hooks[i] = h
	}
}

func (c *Config) Validate() error {
	if c.State.Path == "" {
		return fmt.Errorf("state path must not be empty")
	}

	if c.Watch.Interval.Duration < MinWatchInterval {
		return fmt.Errorf("watch interval must be at least %s (got %s)", MinWatchInterval, c.Watch.Interval)
	}

	seen := make(map[string]bool)
	for i, h := range c.Hooks {
		if h.Name == "" {
			return fmt.Errorf("hook %d: name is required", i+1)
		}
		if seen[h.Name] {
			return fmt.Errorf("duplicate hook name: %s", h.Name)
		}
		seen[h.Name] = true

		if h.Light == "" && h.Dark == "" {
			return fmt.Errorf("hook %s: at least one of light or dark command is required", h.Name)
		}
		if h.Timeout.Duration <= 0 {
			return fmt.Errorf("hook %s: timeout must be positive", h.Name)
		}
	}

	return nil
}

// HookByName returns the named hook, or false when no hook carries the name.
func (c *Config) HookByName(name string) (Hook, bool) {
	for _, h := range c.Hooks {
		if h.Name == name {
			return h, true
		}
	}
	return Hook{}, false
}

func (c *Config) ConfigPath() string {
	return c.configPath
}

func (c *Config) Save(path string) error {
	if path == "" {
		path = c.configPath
	}
	if path == "" {
		path = filepath.Join(DefaultConfigDir(), "config.toml")
	}

	path = expandPath(path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.configPath),
		filepath.Dir(c.State.Path),
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

func expandPath(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
