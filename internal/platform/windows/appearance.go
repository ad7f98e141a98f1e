//go:build windows

package windows

import (
	"golang.org/x/sys/windows/registry"

	"github.com/janko/shade/internal/platform"
)

const personalizeKey = `Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`

// AppearanceService implements platform.AppearanceService for Windows.
type AppearanceService struct{}

// NewAppearanceService creates a new Windows appearance service.
func NewAppearanceService() *AppearanceService {
	return &AppearanceService{}
}

// Detect reads AppsUseLightTheme from the registry; 0 means dark mode.
// Any registry failure reads as light.
func (s *AppearanceService) Detect() platform.Appearance {
	k, err := registry.OpenKey(registry.CURRENT_USER, personalizeKey, registry.QUERY_VALUE)
	if err != nil {
		return platform.AppearanceLight
	}
	defer k.Close()

	v, _, err := k.GetIntegerValue("AppsUseLightTheme")
	if err != nil {
		return platform.AppearanceLight
	}

	if v == 0 {
		return platform.AppearanceDark
	}
	return platform.AppearanceLight
}

// SettingsPaths returns nil; the preference lives in the registry, not in a
// watchable file.
func (s *AppearanceService) SettingsPaths() []string {
	return nil
}
