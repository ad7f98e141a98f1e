//go:build windows

package windows

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const desktopKey = `Control Panel\Desktop`

// WallpaperService implements platform.WallpaperService for Windows.
type WallpaperService struct{}

// NewWallpaperService creates a new Windows wallpaper service.
func NewWallpaperService() *WallpaperService {
	return &WallpaperService{}
}

// Get returns the current desktop wallpaper path from the registry.
func (s *WallpaperService) Get() (string, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, desktopKey, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("failed to open desktop key: %w", err)
	}
	defer k.Close()

	path, _, err := k.GetStringValue("WallPaper")
	if err != nil {
		return "", fmt.Errorf("failed to get wallpaper: %w", err)
	}
	if path == "" {
		return "", fmt.Errorf("no wallpaper configured")
	}

	return path, nil
}
