package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janko/shade/internal/theme"
)

func TestDefaultConfigDir(t *testing.T) {
	dir := DefaultConfigDir()

	assert.NotEmpty(t, dir)
	assert.Contains(t, dir, ".config/shade")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)

	assert.NotEmpty(t, cfg.State.Path)
	assert.Contains(t, cfg.State.Path, "state.json")
	assert.Equal(t, DefaultWatchInterval, cfg.Watch.Interval.Duration)
	assert.Empty(t, cfg.Hooks)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		wantErr     bool
		errContains string
		validate    func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid config",
			file: "testdata/valid.toml",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/tmp/shade/state.json", cfg.State.Path)
				assert.Equal(t, 10*time.Second, cfg.Watch.Interval.Duration)

				require.Len(t, cfg.Hooks, 2)

				terminal := cfg.Hooks[0]
				assert.Equal(t, "terminal", terminal.Name)
				assert.Contains(t, terminal.Light, "Solarized Light")
				assert.Contains(t, terminal.Dark, "Solarized Dark")
				assert.Equal(t, 5*time.Second, terminal.Timeout.Duration)

				editor := cfg.Hooks[1]
				assert.Equal(t, "editor", editor.Name)
				assert.Empty(t, editor.Light)
				assert.NotEmpty(t, editor.Dark)
				assert.Equal(t, DefaultHookTimeout, editor.Timeout.Duration)
			},
		},
		{
			name: "minimal config gets defaults",
			file: "testdata/minimal.toml",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/tmp/shade/state.json", cfg.State.Path)
				assert.Equal(t, DefaultWatchInterval, cfg.Watch.Interval.Duration)
				assert.Empty(t, cfg.Hooks)
			},
		},
		{
			name:        "invalid syntax",
			file:        "testdata/invalid_syntax.toml",
			wantErr:     true,
			errContains: "failed to parse",
		},
		{
			name:        "interval below minimum",
			file:        "testdata/bad_interval.toml",
			wantErr:     true,
			errContains: "watch interval must be at least",
		},
		{
			name:        "duplicate hook names",
			file:        "testdata/duplicate_hooks.toml",
			wantErr:     true,
			errContains: "duplicate hook name",
		},
		{
			name:        "hook without commands",
			file:        "testdata/empty_hook.toml",
			wantErr:     true,
			errContains: "at least one of light or dark",
		},
		{
			name: "non-existent file returns default",
			file: "testdata/does_not_exist.toml",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultWatchInterval, cfg.Watch.Interval.Duration)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.file)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("empty state path", func(t *testing.T) {
		cfg := &Config{
			Watch: WatchConfig{Interval: Duration{DefaultWatchInterval}},
		}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "state path")
	})

	t.Run("hook without name", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Hooks = []Hook{
			{Light: "true", Timeout: Duration{time.Second}},
		}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name is required")
	})

	t.Run("negative hook timeout", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Hooks = []Hook{
			{Name: "broken", Light: "true", Timeout: Duration{-time.Second}},
		}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timeout must be positive")
	})
}

func TestHook_CommandFor(t *testing.T) {
	h := Hook{Name: "terminal", Light: "light-cmd", Dark: "dark-cmd"}

	assert.Equal(t, "light-cmd", h.CommandFor(theme.Light))
	assert.Equal(t, "dark-cmd", h.CommandFor(theme.Dark))

	darkOnly := Hook{Name: "editor", Dark: "dark-cmd"}
	assert.Empty(t, darkOnly.CommandFor(theme.Light))
	assert.Equal(t, "dark-cmd", darkOnly.CommandFor(theme.Dark))
}

func TestConfig_HookByName(t *testing.T) {
	cfg, err := Load("testdata/valid.toml")
	require.NoError(t, err)

	h, ok := cfg.HookByName("terminal")
	require.True(t, ok)
	assert.Equal(t, "terminal", h.Name)

	_, ok = cfg.HookByName("missing")
	assert.False(t, ok)
}

func TestConfig_Save(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.toml")

	cfg := DefaultConfig()
	cfg.Watch.Interval = Duration{42 * time.Second}
	cfg.Hooks = []Hook{
		{Name: "terminal", Light: "echo light", Dark: "echo dark", Timeout: Duration{5 * time.Second}},
	}

	err := cfg.Save(configPath)
	require.NoError(t, err)

	_, err = os.Stat(configPath)
	require.NoError(t, err)

	loaded, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, 42*time.Second, loaded.Watch.Interval.Duration)
	require.Len(t, loaded.Hooks, 1)
	assert.Equal(t, "terminal", loaded.Hooks[0].Name)
	assert.Equal(t, 5*time.Second, loaded.Hooks[0].Timeout.Duration)
}

func TestConfig_EnsureDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &Config{
		State: StateConfig{
			Path: filepath.Join(tmpDir, "state", "state.json"),
		},
		configPath: filepath.Join(tmpDir, "conf", "config.toml"),
	}

	err := cfg.EnsureDirectories()
	require.NoError(t, err)

	for _, dir := range []string{
		filepath.Dir(cfg.State.Path),
		filepath.Dir(cfg.configPath),
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err, "directory should exist: %s", dir)
		assert.True(t, info.IsDir())
	}
}

func TestConfig_ConfigPath(t *testing.T) {
	cfg, err := Load("testdata/valid.toml")
	require.NoError(t, err)

	assert.Equal(t, "testdata/valid.toml", cfg.ConfigPath())
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{90 * time.Second}

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	var parsed Duration
	require.NoError(t, parsed.UnmarshalText(text))
	assert.Equal(t, d.Duration, parsed.Duration)

	assert.Error(t, parsed.UnmarshalText([]byte("not-a-duration")))
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"/absolute/path", "/absolute/path"},
		{"~/test", filepath.Join(home, "test")},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		result := expandPath(tt.input)
		assert.Equal(t, tt.expected, result)
	}
}
