// Package theme defines the light/dark theme model and its resolution rules.
package theme

import (
	"fmt"
	"strings"

	"github.com/janko/shade/internal/platform"
)

// Theme is a color theme. The only two values are Light and Dark; anything
// else is invalid and reads as absent wherever a Theme is optional.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse converts a user-supplied string into a Theme.
func Parse(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return "", fmt.Errorf("invalid theme %q (must be light or dark)", s)
}

// Valid reports whether t is exactly Light or Dark.
func (t Theme) Valid() bool {
	return t == Light || t == Dark
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// String returns the string representation of the theme.
func (t Theme) String() string {
	return string(t)
}

// Resolve returns the effective theme for an optional override and the
// detected system appearance. Resolution is total: the override wins when
// valid, then the system appearance, then Light.
func Resolve(override, system Theme) Theme {
	if override.Valid() {
		return override
	}
	if system.Valid() {
		return system
	}
	return Light
}

// Status is a snapshot of the resolved preference state.
type Status struct {
	// Effective is the theme currently in force.
	Effective Theme

	// Override is the pinned theme, or empty while following the system.
	Override Theme

	// System is the detected system appearance.
	System Theme
}

// Pinned reports whether an explicit override is active.
func (s Status) Pinned() bool {
	return s.Override.Valid()
}

// Mode returns "pinned" or "auto" for display.
func (s Status) Mode() string {
	if s.Pinned() {
		return "pinned"
	}
	return "auto"
}

// ControlState describes how the two user controls should render.
type ControlState struct {
	// SwitchOn is true when the toggle switch sits on the dark side.
	SwitchOn bool

	// ResetVisible is true when the reset control should be shown.
	ResetVisible bool
}

// Controls derives the control state from a status: the switch mirrors the
// effective theme and the reset control is visible only while pinned.
func Controls(s Status) ControlState {
	return ControlState{
		SwitchOn:     s.Effective == Dark,
		ResetVisible: s.Pinned(),
	}
}

// Detector resolves the system appearance through a platform service.
type Detector struct {
	svc platform.AppearanceService
}

// NewDetector creates a detector over the given appearance service.
func NewDetector(svc platform.AppearanceService) *Detector {
	return &Detector{svc: svc}
}

// System returns the current system appearance as a Theme. Anything the
// platform does not identify as dark counts as light.
func (d *Detector) System() Theme {
	if d.svc.Detect() == platform.AppearanceDark {
		return Dark
	}
	return Light
}
