//go:build windows

// Package windows provides Windows-specific platform implementations.
// Appearance and wallpaper come from the registry; background scheduling is
// not supported.
package windows

import "github.com/janko/shade/internal/platform"

func init() {
	platform.Register("windows", func() platform.Platform {
		return New()
	})
}

// Platform implements platform.Platform for Windows.
type Platform struct {
	appearance  *AppearanceService
	wallpaper   *WallpaperService
	fileManager *FileManagerService
}

// New creates a new Windows platform instance.
func New() *Platform {
	return &Platform{
		appearance:  NewAppearanceService(),
		wallpaper:   NewWallpaperService(),
		fileManager: NewFileManagerService(),
	}
}

// Name returns the platform identifier.
func (p *Platform) Name() string {
	return "windows"
}

// IsSupported returns true; everything except the background agent works.
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

// Scheduler returns an unsupported scheduler service.
func (p *Platform) Scheduler() platform.SchedulerService {
	return &schedulerService{}
}

// FileManager returns the file manager service.
func (p *Platform) FileManager() platform.FileManagerService {
	return p.fileManager
}

// Compile-time check that Platform implements platform.Platform.
var _ platform.Platform = (*Platform)(nil)

// schedulerService reports background scheduling as unavailable.
type schedulerService struct{}

func (s *schedulerService) Install(config platform.SchedulerConfig) error {
	return platform.ErrUnsupported
}

func (s *schedulerService) Uninstall(label string) error {
	return platform.ErrUnsupported
}

func (s *schedulerService) Status(label string) (platform.SchedulerStatus, error) {
	return platform.SchedulerStatus{}, platform.ErrUnsupported
}

func (s *schedulerService) IsSupported() bool {
	return false
}
