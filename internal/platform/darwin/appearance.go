//go:build darwin

package darwin

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/janko/shade/internal/platform"
)

// AppearanceService implements platform.AppearanceService for macOS.
type AppearanceService struct{}

// NewAppearanceService creates a new macOS appearance service.
func NewAppearanceService() *AppearanceService {
	return &AppearanceService{}
}

// Detect returns the current system appearance by reading AppleInterfaceStyle.
func (s *AppearanceService) Detect() platform.Appearance {
	cmd := exec.Command("defaults", "read", "-g", "AppleInterfaceStyle")
	output, err := cmd.Output()
	if err != nil {
		// The key is absent entirely when the system is in light mode.
		return platform.AppearanceLight
	}

	if strings.EqualFold(strings.TrimSpace(string(output)), "dark") {
		return platform.AppearanceDark
	}

	return platform.AppearanceLight
}

// SettingsPaths returns the global preferences plist that records the
// appearance choice.
func (s *AppearanceService) SettingsPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, "Library", "Preferences", ".GlobalPreferences.plist"),
	}
}
