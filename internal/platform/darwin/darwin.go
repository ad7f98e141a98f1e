//go:build darwin

// Package darwin provides macOS-specific platform implementations.
package darwin

import "github.com/janko/shade/internal/platform"

func init() {
	platform.Register("darwin", func() platform.Platform {
		return New()
	})
}

// Platform implements platform.Platform for macOS.
type Platform struct {
	appearance  *AppearanceService
	wallpaper   *WallpaperService
	scheduler   *SchedulerService
	fileManager *FileManagerService
}

// New creates a new macOS platform instance.
func New() *Platform {
	return &Platform{
		appearance:  NewAppearanceService(),
		wallpaper:   NewWallpaperService(),
		scheduler:   NewSchedulerService(),
		fileManager: NewFileManagerService(),
	}
}

// Name returns the platform identifier.
func (p *Platform) Name() string {
	return "darwin"
}

// IsSupported returns true as macOS is fully supported.
func (p *Platform) IsSupported() bool {
	return true
}

// Appearance returns the appearance detection service.
func (p *Platform) Appearance() platform.AppearanceService {
	return p.appearance
}

// Wallpaper returns the wallpaper inspection service.
func (p *Platform) Wallpaper() platform.WallpaperService {
	return p.wallpaper
}

// Scheduler returns the background task scheduler service.
func (p *Platform) Scheduler() platform.SchedulerService {
	return p.scheduler
}

// FileManager returns the file manager service.
func (p *Platform) FileManager() platform.FileManagerService {
	return p.fileManager
}

// Compile-time check that Platform implements platform.Platform.
var _ platform.Platform = (*Platform)(nil)
