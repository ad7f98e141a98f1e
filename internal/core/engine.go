package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/janko/shade/internal/colors"
	"github.com/janko/shade/internal/config"
	"github.com/janko/shade/internal/hooks"
	"github.com/janko/shade/internal/platform"
	"github.com/janko/shade/internal/state"
	"github.com/janko/shade/internal/theme"
)

const agentLabel = "com.shade.agent"

// MinAgentInterval is the smallest sync interval the background agent
// accepts.
const MinAgentInterval = time.Minute

// Engine is the main theme management engine.
type Engine struct {
	config   *config.Config
	state    *state.State
	platform platform.Platform
	detector *theme.Detector
	runner   *hooks.Runner

	// Options
	themeOverride string
	dryRun        bool

	// stateWarning holds the load failure when the state file was unreadable
	// and the engine fell back to a fresh auto state.
	stateWarning error
}

// Option is a function that configures the Engine.
type Option func(*Engine)

// WithThemeOverride forces the detected system appearance, mainly for
// testing transitions without flipping the OS setting.
func WithThemeOverride(theme string) Option {
	return func(e *Engine) {
		e.themeOverride = theme
	}
}

// WithDryRun enables dry-run mode: operations report what they would do but
// run no hooks and write no state.
func WithDryRun(dryRun bool) Option {
	return func(e *Engine) {
		e.dryRun = dryRun
	}
}

// WithPlatform overrides the detected platform.
func WithPlatform(p platform.Platform) Option {
	return func(e *Engine) {
		e.platform = p
	}
}

// New creates a new Engine instance. An unreadable state file does not fail
// construction: the engine starts from a fresh auto state and reports the
// problem through StateWarning.
func New(configPath string, opts ...Option) (*Engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	e := &Engine{config: cfg}

	st, err := state.Load(cfg.State.Path)
	if err != nil {
		st = state.New(cfg.State.Path)
		e.stateWarning = err
	}
	e.state = st

	for _, opt := range opts {
		opt(e)
	}

	if e.platform == nil {
		e.platform = platform.Current()
	}

	e.detector = theme.NewDetector(e.platform.Appearance())
	e.runner = hooks.NewRunner(cfg.Hooks)
	e.runner.SetDryRun(e.dryRun)

	return e, nil
}

// system returns the detected system appearance, honoring the override.
func (e *Engine) system() theme.Theme {
	if e.themeOverride != "" {
		if t, err := theme.Parse(e.themeOverride); err == nil {
			return t
		}
	}
	return e.detector.System()
}

func (e *Engine) statusFor(system theme.Theme) theme.Status {
	return theme.Status{
		Effective: theme.Resolve(e.state.Override(), system),
		Override:  e.state.Override(),
		System:    system,
	}
}

// Status returns the current resolved preference state.
func (e *Engine) Status() theme.Status {
	return e.statusFor(e.system())
}

// Controls returns how the toggle and reset controls should render.
func (e *Engine) Controls() theme.ControlState {
	return theme.Controls(e.Status())
}

// Sync applies the resolved theme. Hooks run only when the effective theme
// differs from the last applied one, so repeated syncs are idempotent; force
// reruns them regardless.
func (e *Engine) Sync(ctx context.Context, force bool) (*Result, error) {
	return e.finish(ctx, e.system(), force, false)
}

// Toggle pins the opposite of the current effective theme.
func (e *Engine) Toggle(ctx context.Context) (*Result, error) {
	system := e.system()
	current := theme.Resolve(e.state.Override(), system)
	e.state.SetOverride(current.Opposite())
	return e.finish(ctx, system, false, true)
}

// Set pins an explicit theme.
func (e *Engine) Set(ctx context.Context, t theme.Theme) (*Result, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid theme %q (must be light or dark)", t)
	}
	system := e.system()
	e.state.SetOverride(t)
	return e.finish(ctx, system, false, true)
}

// Reset clears the override and returns to following the system appearance.
func (e *Engine) Reset(ctx context.Context) (*Result, error) {
	system := e.system()
	e.state.ClearOverride()
	return e.finish(ctx, system, false, true)
}

// finish resolves the theme, runs hooks on transitions, and persists state.
// Mutating operations pass persistAlways so an override change reaches disk
// even when the effective theme stays put; sync skips the write in that case
// to keep file watchers quiet.
func (e *Engine) finish(ctx context.Context, system theme.Theme, force, persistAlways bool) (*Result, error) {
	status := e.statusFor(system)

	res := &Result{
		Theme:   status.Effective,
		System:  system,
		Pinned:  status.Pinned(),
		Changed: status.Effective != e.state.LastAppliedTheme(),
		At:      time.Now(),
	}

	if e.dryRun {
		if res.Changed || force {
			res.Hooks = e.runner.Run(ctx, status.Effective)
		}
		return res, nil
	}

	if res.Changed || force {
		res.Hooks = e.runner.Run(ctx, status.Effective)
		e.state.MarkApplied(status.Effective)
	} else if !persistAlways {
		return res, nil
	}

	if err := e.state.Save(); err != nil {
		res.PersistErr = fmt.Errorf("failed to save state: %w", err)
		return res, nil
	}

	res.Persisted = true
	return res, nil
}

// Reload re-reads the state file. The watch daemon calls this before each
// sync so changes made by other shade processes take effect.
func (e *Engine) Reload() error {
	st, err := state.Load(e.config.State.Path)
	if err != nil {
		return fmt.Errorf("failed to reload state: %w", err)
	}
	e.state = st
	return nil
}

// Suggest recommends a theme for a wallpaper image. With an empty path the
// current system wallpaper is analyzed. Bright images suggest light, dark
// images dark; topN > 0 additionally reports that many dominant colors.
func (e *Engine) Suggest(path string, topN int) (*Suggestion, error) {
	if path == "" {
		p, err := e.platform.Wallpaper().Get()
		if err != nil {
			return nil, fmt.Errorf("failed to get current wallpaper: %w", err)
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("wallpaper not readable: %w", err)
	}

	lum, err := colors.MeanLuminance(path)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze wallpaper: %w", err)
	}

	s := &Suggestion{
		Path:      path,
		Luminance: lum,
		Theme:     theme.Dark,
	}
	if lum >= 0.5 {
		s.Theme = theme.Light
	}

	if topN > 0 {
		cs, err := colors.Analyze(path, topN)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze colors: %w", err)
		}
		s.Colors = cs
	}

	return s, nil
}

// RunHooks runs every configured hook for the given theme.
func (e *Engine) RunHooks(ctx context.Context, t theme.Theme) []hooks.Result {
	return e.runner.Run(ctx, t)
}

// RunHook runs a single hook by name for the given theme.
func (e *Engine) RunHook(ctx context.Context, name string, t theme.Theme) (hooks.Result, error) {
	h, ok := e.config.HookByName(name)
	if !ok {
		return hooks.Result{}, fmt.Errorf("unknown hook: %s", name)
	}
	return e.runner.RunOne(ctx, h, t), nil
}

// Agent methods

// InstallAgent installs the background agent that periodically syncs the
// theme with the system appearance.
func (e *Engine) InstallAgent(interval time.Duration) error {
	scheduler := e.platform.Scheduler()
	if !scheduler.IsSupported() {
		return fmt.Errorf("scheduler not supported on %s", e.platform.Name())
	}

	if interval < MinAgentInterval {
		return fmt.Errorf("agent interval must be at least %s (got %s)", MinAgentInterval, interval)
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return fmt.Errorf("failed to resolve executable path: %w", err)
	}

	logPath := filepath.Join(config.DefaultConfigDir(), "agent.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	cfg := platform.SchedulerConfig{
		Label:     agentLabel,
		Command:   execPath,
		Args:      []string{"sync", "--quiet"},
		Interval:  interval,
		RunAtLoad: true,
		LogPath:   logPath,
	}

	return scheduler.Install(cfg)
}

// UninstallAgent uninstalls the background agent.
func (e *Engine) UninstallAgent() error {
	scheduler := e.platform.Scheduler()
	if !scheduler.IsSupported() {
		return fmt.Errorf("scheduler not supported on %s", e.platform.Name())
	}
	return scheduler.Uninstall(agentLabel)
}

// AgentStatus returns the status of the background agent.
func (e *Engine) AgentStatus() (*AgentStatus, error) {
	scheduler := e.platform.Scheduler()

	status := &AgentStatus{
		Supported: scheduler.IsSupported(),
		LogPath:   filepath.Join(config.DefaultConfigDir(), "agent.log"),
	}

	if !scheduler.IsSupported() {
		return status, nil
	}

	platformStatus, err := scheduler.Status(agentLabel)
	if err != nil {
		return nil, fmt.Errorf("failed to get agent status: %w", err)
	}

	status.Installed = platformStatus.Installed
	status.Running = platformStatus.Running
	status.Interval = platformStatus.Interval

	return status, nil
}

// StateWarning returns the state load failure the engine recovered from, if
// any.
func (e *Engine) StateWarning() error {
	return e.stateWarning
}

// StatePath returns the path of the state file.
func (e *Engine) StatePath() string {
	return e.state.Path()
}

// Platform returns the current platform.
func (e *Engine) Platform() platform.Platform {
	return e.platform
}

// Config returns the current config.
func (e *Engine) Config() *config.Config {
	return e.config
}
