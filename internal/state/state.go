package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/janko/shade/internal/theme"
)

// State is the persisted preference record. The "theme" key is present
// exactly while an explicit override is pinned; the remaining keys track the
// last theme that was actually applied so repeated syncs stay idempotent.
type State struct {
	Theme       theme.Theme `json:"theme,omitempty"`
	LastApplied theme.Theme `json:"last_applied,omitempty"`
	AppliedAt   time.Time   `json:"applied_at,omitzero"`

	path string
}

func New(path string) *State {
	return &State{path: expandPath(path)}
}

// Load reads the state file at path. A missing or empty file yields a fresh
// state; stored theme values other than light or dark read as absent.
func Load(path string) (*State, error) {
	path = expandPath(path)

	s := &State{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if len(data) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	if !s.Theme.Valid() {
		s.Theme = ""
	}
	if !s.LastApplied.Valid() {
		s.LastApplied = ""
	}

	s.path = path
	return s, nil
}

func (s *State) Save() error {
	if s.path == "" {
		return fmt.Errorf("state path not set")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// Override returns the pinned theme, or empty when following the system.
func (s *State) Override() theme.Theme {
	if s.Theme.Valid() {
		return s.Theme
	}
	return ""
}

func (s *State) Pinned() bool {
	return s.Theme.Valid()
}

func (s *State) SetOverride(t theme.Theme) {
	s.Theme = t
}

func (s *State) ClearOverride() {
	s.Theme = ""
}

// LastAppliedTheme returns the theme recorded by the last apply, or empty
// when nothing has been applied yet.
func (s *State) LastAppliedTheme() theme.Theme {
	if s.LastApplied.Valid() {
		return s.LastApplied
	}
	return ""
}

func (s *State) MarkApplied(t theme.Theme) {
	s.LastApplied = t
	s.AppliedAt = time.Now()
}

func (s *State) Path() string {
	return s.path
}

func expandPath(path string) string {
	if path == "" {
		return ""
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
