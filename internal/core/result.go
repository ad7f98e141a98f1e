// Package core provides the main theme management logic for shade.
package core

import (
	"time"

	"github.com/janko/shade/internal/colors"
	"github.com/janko/shade/internal/hooks"
	"github.com/janko/shade/internal/theme"
)

// Result represents the outcome of a theme operation.
type Result struct {
	// Theme is the effective theme after the operation.
	Theme theme.Theme

	// System is the detected system appearance.
	System theme.Theme

	// Pinned indicates whether an explicit override is now active.
	Pinned bool

	// Changed indicates whether the effective theme differs from the last
	// applied one.
	Changed bool

	// Persisted indicates whether the state file was written.
	Persisted bool

	// PersistErr holds the save failure, if any. The in-memory transition
	// still happened; only the write to disk failed.
	PersistErr error

	// At is when the operation ran.
	At time.Time

	// Hooks holds one entry per configured hook when hooks were run.
	Hooks []hooks.Result
}

// Suggestion is a theme recommendation derived from the wallpaper.
type Suggestion struct {
	// Path is the analyzed image.
	Path string

	// Luminance is the estimated mean luminance of the image, in [0, 1].
	Luminance float64

	// Theme is the recommended theme: light for bright images, dark
	// otherwise.
	Theme theme.Theme

	// Colors holds the dominant colors, most common first, when requested.
	Colors []colors.Color
}

// AgentStatus represents the status of the background agent.
type AgentStatus struct {
	// Supported indicates if the agent is supported on this platform.
	Supported bool

	// Installed indicates if the agent is installed.
	Installed bool

	// Running indicates if the agent is currently running.
	Running bool

	// Interval is the time between syncs.
	Interval time.Duration

	// LogPath is the path to the agent log file.
	LogPath string
}
