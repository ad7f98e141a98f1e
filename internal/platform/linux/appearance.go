//go:build linux

package linux

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/janko/shade/internal/platform"
)

// AppearanceService implements platform.AppearanceService for Linux.
type AppearanceService struct{}

// NewAppearanceService creates a new Linux appearance service.
func NewAppearanceService() *AppearanceService {
	return &AppearanceService{}
}

// Detect returns the current system appearance. It checks the GNOME
// color-scheme key (GNOME 42+) and falls back to the GTK theme name; a
// probe failure reads as light.
func (s *AppearanceService) Detect() platform.Appearance {
	cmd := exec.Command("gsettings", "get", "org.gnome.desktop.interface", "color-scheme")
	output, err := cmd.Output()
	if err == nil {
		scheme := strings.ToLower(string(output))
		if strings.Contains(scheme, "prefer-dark") {
			return platform.AppearanceDark
		}
		if strings.Contains(scheme, "prefer-light") {
			return platform.AppearanceLight
		}
	}

	// Older desktops encode the preference in the theme name suffix.
	cmd = exec.Command("gsettings", "get", "org.gnome.desktop.interface", "gtk-theme")
	output, err = cmd.Output()
	if err == nil && strings.Contains(strings.ToLower(string(output)), "dark") {
		return platform.AppearanceDark
	}

	return platform.AppearanceLight
}

// SettingsPaths returns the dconf database file that records interface
// settings, including the color scheme.
func (s *AppearanceService) SettingsPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", "dconf", "user"),
	}
}
