//go:build linux

package linux

import (
	"fmt"
	"os/exec"
	"strings"
)

// WallpaperService implements platform.WallpaperService for Linux.
type WallpaperService struct{}

// NewWallpaperService creates a new Linux wallpaper service.
func NewWallpaperService() *WallpaperService {
	return &WallpaperService{}
}

// Get returns the current desktop wallpaper path from GNOME settings.
func (s *WallpaperService) Get() (string, error) {
	cmd := exec.Command("gsettings", "get", "org.gnome.desktop.background", "picture-uri")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get wallpaper: %w", err)
	}

	uri := strings.Trim(strings.TrimSpace(string(output)), "'\"")
	uri = strings.TrimPrefix(uri, "file://")
	if uri == "" {
		return "", fmt.Errorf("no wallpaper configured")
	}

	return uri, nil
}
