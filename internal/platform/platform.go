// Package platform provides OS-agnostic abstractions for system operations.
package platform

import "time"

// Appearance represents the system-level color preference.
type Appearance string

const (
	AppearanceLight Appearance = "light"
	AppearanceDark  Appearance = "dark"
)

// Platform provides access to OS-specific services.
type Platform interface {
	// Name returns the platform identifier (e.g., "darwin", "linux", "windows").
	Name() string

	// IsSupported returns true if this platform is fully supported.
	IsSupported() bool

	// Appearance returns the appearance detection service.
	Appearance() AppearanceService

	// Wallpaper returns the wallpaper inspection service.
	Wallpaper() WallpaperService

	// Scheduler returns the background task scheduler service.
	Scheduler() SchedulerService

	// FileManager returns the file manager service.
	FileManager() FileManagerService
}

// AppearanceService reads the OS light/dark preference.
type AppearanceService interface {
	// Detect returns the current system appearance. Implementations fall
	// back to AppearanceLight when the preference cannot be read.
	Detect() Appearance

	// SettingsPaths returns filesystem paths whose modification signals an
	// appearance change, for use by file watchers. Empty when the
	// preference does not live in a watchable file.
	SettingsPaths() []string
}

// WallpaperService inspects the desktop wallpaper.
type WallpaperService interface {
	// Get returns the current desktop wallpaper path.
	Get() (string, error)
}

// SchedulerService manages background task scheduling.
type SchedulerService interface {
	// Install installs a scheduled task with the given configuration.
	Install(config SchedulerConfig) error

	// Uninstall removes the scheduled task by label.
	Uninstall(label string) error

	// Status returns the current status of the scheduled task by label.
	Status(label string) (SchedulerStatus, error)

	// IsSupported returns true if scheduling is supported on this platform.
	IsSupported() bool
}

// SchedulerConfig holds configuration for a scheduled task.
type SchedulerConfig struct {
	// Label is the unique identifier for the task.
	Label string

	// Command is the executable path.
	Command string

	// Args are the command arguments.
	Args []string

	// Interval is the time between executions.
	Interval time.Duration

	// RunAtLoad indicates whether to run immediately when loaded.
	RunAtLoad bool

	// LogPath is the path for stdout/stderr output.
	LogPath string
}

// SchedulerStatus represents the current state of a scheduled task.
type SchedulerStatus struct {
	// Installed indicates whether the task is installed.
	Installed bool

	// Running indicates whether the task is currently active.
	Running bool

	// Interval is the configured interval between executions.
	Interval time.Duration

	// LogPath is the configured log file path.
	LogPath string
}

// FileManagerService provides file manager operations.
type FileManagerService interface {
	// Reveal opens the file manager and highlights the specified path.
	Reveal(path string) error

	// Open opens the file with the default application.
	Open(path string) error
}
