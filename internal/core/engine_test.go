package core

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janko/shade/internal/platform"
	"github.com/janko/shade/internal/theme"
)

type fakePlatform struct {
	appearance   platform.Appearance
	wallpaper    string
	wallpaperErr error
	scheduler    *fakeScheduler
}

func newFakePlatform(a platform.Appearance) *fakePlatform {
	return &fakePlatform{
		appearance: a,
		scheduler:  &fakeScheduler{supported: true},
	}
}

func (f *fakePlatform) Name() string                             { return "fake" }
func (f *fakePlatform) IsSupported() bool                        { return true }
func (f *fakePlatform) Appearance() platform.AppearanceService   { return fakeAppearanceService{f} }
func (f *fakePlatform) Wallpaper() platform.WallpaperService     { return fakeWallpaperService{f} }
func (f *fakePlatform) Scheduler() platform.SchedulerService     { return f.scheduler }
func (f *fakePlatform) FileManager() platform.FileManagerService { return fakeFileManager{} }

type fakeAppearanceService struct{ p *fakePlatform }

func (s fakeAppearanceService) Detect() platform.Appearance { return s.p.appearance }
func (s fakeAppearanceService) SettingsPaths() []string     { return nil }

type fakeWallpaperService struct{ p *fakePlatform }

func (s fakeWallpaperService) Get() (string, error) { return s.p.wallpaper, s.p.wallpaperErr }

type fakeScheduler struct {
	supported  bool
	installed  bool
	lastConfig platform.SchedulerConfig
}

func (s *fakeScheduler) Install(cfg platform.SchedulerConfig) error {
	s.lastConfig = cfg
	s.installed = true
	return nil
}

func (s *fakeScheduler) Uninstall(label string) error {
	s.installed = false
	return nil
}

func (s *fakeScheduler) Status(label string) (platform.SchedulerStatus, error) {
	return platform.SchedulerStatus{
		Installed: s.installed,
		Running:   s.installed,
		Interval:  s.lastConfig.Interval,
	}, nil
}

func (s *fakeScheduler) IsSupported() bool { return s.supported }

type fakeFileManager struct{}

func (fakeFileManager) Reveal(string) error { return nil }
func (fakeFileManager) Open(string) error   { return nil }

// writeTestConfig writes a config body into dir and returns its path. The
// body gets the state path appended when it lacks a [state] section.
func writeTestConfig(t *testing.T, dir, body string) string {
	t.Helper()
	if body == "" {
		body = fmt.Sprintf("[state]\npath = %q\n", filepath.Join(dir, "state.json"))
	}
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func newTestEngine(t *testing.T, plat platform.Platform, opts ...Option) *Engine {
	t.Helper()
	cfgPath := writeTestConfig(t, t.TempDir(), "")
	opts = append([]Option{WithPlatform(plat)}, opts...)
	e, err := New(cfgPath, opts...)
	require.NoError(t, err)
	return e
}

func TestWithOptions(t *testing.T) {
	e := &Engine{}

	WithThemeOverride("dark")(e)
	assert.Equal(t, "dark", e.themeOverride)

	WithDryRun(true)(e)
	assert.True(t, e.dryRun)

	fake := newFakePlatform(platform.AppearanceLight)
	WithPlatform(fake)(e)
	assert.Equal(t, platform.Platform(fake), e.platform)
}

func TestEngine_Status_Auto(t *testing.T) {
	e := newTestEngine(t, newFakePlatform(platform.AppearanceDark))

	status := e.Status()
	assert.Equal(t, theme.Dark, status.Effective)
	assert.Equal(t, theme.Dark, status.System)
	assert.False(t, status.Pinned())
	assert.Equal(t, "auto", status.Mode())

	controls := e.Controls()
	assert.True(t, controls.SwitchOn)
	assert.False(t, controls.ResetVisible)
}

func TestEngine_Status_ThemeOverride(t *testing.T) {
	e := newTestEngine(t, newFakePlatform(platform.AppearanceLight), WithThemeOverride("dark"))

	status := e.Status()
	assert.Equal(t, theme.Dark, status.System)
	assert.Equal(t, theme.Dark, status.Effective)
}

func TestEngine_Sync_Idempotent(t *testing.T) {
	e := newTestEngine(t, newFakePlatform(platform.AppearanceLight))

	// First sync applies the resolved theme.
	res, err := e.Sync(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, theme.Light, res.Theme)
	assert.True(t, res.Changed)
	assert.True(t, res.Persisted)
	assert.False(t, res.Pinned)

	// Second sync with an unchanged system is a no-op.
	res, err = e.Sync(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.False(t, res.Persisted)
	assert.Empty(t, res.Hooks)
}

func TestEngine_Sync_FollowsSystemChange(t *testing.T) {
	fake := newFakePlatform(platform.AppearanceLight)
	e := newTestEngine(t, fake)

	res, err := e.Sync(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, theme.Light, res.Theme)

	fake.appearance = platform.AppearanceDark

	res, err = e.Sync(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, theme.Dark, res.Theme)
	assert.True(t, res.Changed)
}

func TestEngine_Sync_PinnedIgnoresSystemChange(t *testing.T) {
	fake := newFakePlatform(platform.AppearanceLight)
	e := newTestEngine(t, fake)

	_, err := e.Set(context.Background(), theme.Dark)
	require.NoError(t, err)

	fake.appearance = platform.AppearanceDark

	res, err := e.Sync(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, theme.Dark, res.Theme)
	assert.True(t, res.Pinned)
	assert.False(t, res.Changed)

	fake.appearance = platform.AppearanceLight

	res, err = e.Sync(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, theme.Dark, res.Theme, "pinned theme must not follow the system")
}

func TestEngine_Toggle(t *testing.T) {
	e := newTestEngine(t, newFakePlatform(platform.AppearanceLight))

	// Auto light; toggling pins dark.
	res, err := e.Toggle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, theme.Dark, res.Theme)
	assert.True(t, res.Pinned)
	assert.True(t, res.Changed)
	assert.True(t, res.Persisted)

	// Toggling again pins light.
	res, err = e.Toggle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, theme.Light, res.Theme)
	assert.True(t, res.Pinned)

	controls := e.Controls()
	assert.False(t, controls.SwitchOn)
	assert.True(t, controls.ResetVisible)
}

func TestEngine_Set(t *testing.T) {
	e := newTestEngine(t, newFakePlatform(platform.AppearanceLight))

	res, err := e.Set(context.Background(), theme.Dark)
	require.NoError(t, err)
	assert.Equal(t, theme.Dark, res.Theme)
	assert.True(t, res.Pinned)
	assert.True(t, res.Changed)

	// Pinning the theme that is already effective persists the override but
	// is not a transition.
	e2 := newTestEngine(t, newFakePlatform(platform.AppearanceDark))
	_, err = e2.Sync(context.Background(), false)
	require.NoError(t, err)

	res, err = e2.Set(context.Background(), theme.Dark)
	require.NoError(t, err)
	assert.True(t, res.Pinned)
	assert.False(t, res.Changed)
	assert.True(t, res.Persisted)
	assert.Empty(t, res.Hooks)
}

func TestEngine_Set_InvalidTheme(t *testing.T) {
	e := newTestEngine(t, newFakePlatform(platform.AppearanceLight))

	_, err := e.Set(context.Background(), theme.Theme("sepia"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid theme")
}

func TestEngine_Reset(t *testing.T) {
	fake := newFakePlatform(platform.AppearanceLight)
	e := newTestEngine(t, fake)

	_, err := e.Set(context.Background(), theme.Dark)
	require.NoError(t, err)

	res, err := e.Reset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, theme.Light, res.Theme, "reset returns to the system appearance")
	assert.False(t, res.Pinned)
	assert.True(t, res.Changed)

	// Resetting while already in auto mode is harmless.
	res, err = e.Reset(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Pinned)
	assert.False(t, res.Changed)
}

func TestEngine_StatePersistsAcrossEngines(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, fmt.Sprintf("[state]\npath = %q\n", filepath.Join(dir, "state.json")))

	e1, err := New(cfgPath, WithPlatform(newFakePlatform(platform.AppearanceLight)))
	require.NoError(t, err)

	_, err = e1.Toggle(context.Background())
	require.NoError(t, err)

	e2, err := New(cfgPath, WithPlatform(newFakePlatform(platform.AppearanceLight)))
	require.NoError(t, err)

	status := e2.Status()
	assert.Equal(t, theme.Dark, status.Effective)
	assert.True(t, status.Pinned())
}

func TestEngine_HooksRunOnTransition(t *testing.T) {
	dir := t.TempDir()
	body := fmt.Sprintf(`[state]
path = %q

[[hooks]]
name = "echoer"
light = "echo went-light"
dark = "echo went-dark"
`, filepath.Join(dir, "state.json"))
	cfgPath := writeTestConfig(t, dir, body)

	e, err := New(cfgPath, WithPlatform(newFakePlatform(platform.AppearanceLight)))
	require.NoError(t, err)

	res, err := e.Sync(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, res.Hooks, 1)
	assert.Equal(t, "echoer", res.Hooks[0].Name)
	assert.Equal(t, "went-light", res.Hooks[0].Output)
	require.NoError(t, res.Hooks[0].Err)

	// No transition, no hooks.
	res, err = e.Sync(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, res.Hooks)

	// Force reruns them.
	res, err = e.Sync(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, res.Hooks, 1)

	// A transition runs the other side.
	toggled, err := e.Toggle(context.Background())
	require.NoError(t, err)
	require.Len(t, toggled.Hooks, 1)
	assert.Equal(t, "went-dark", toggled.Hooks[0].Output)
}

func TestEngine_HookFailureDoesNotFailOperation(t *testing.T) {
	dir := t.TempDir()
	body := fmt.Sprintf(`[state]
path = %q

[[hooks]]
name = "broken"
light = "exit 7"
dark = "exit 7"

[[hooks]]
name = "fine"
light = "echo ok"
dark = "echo ok"
`, filepath.Join(dir, "state.json"))
	cfgPath := writeTestConfig(t, dir, body)

	e, err := New(cfgPath, WithPlatform(newFakePlatform(platform.AppearanceLight)))
	require.NoError(t, err)

	res, err := e.Sync(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, res.Hooks, 2)
	assert.True(t, res.Hooks[0].Failed())
	assert.False(t, res.Hooks[1].Failed())
	assert.True(t, res.Persisted, "state still persists when a hook fails")
}

func TestEngine_DryRun(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.json")
	cfgPath := writeTestConfig(t, dir, fmt.Sprintf("[state]\npath = %q\n", statePath))

	e, err := New(cfgPath, WithPlatform(newFakePlatform(platform.AppearanceLight)), WithDryRun(true))
	require.NoError(t, err)

	res, err := e.Toggle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, theme.Dark, res.Theme)
	assert.False(t, res.Persisted)

	_, statErr := os.Stat(statePath)
	assert.True(t, os.IsNotExist(statErr), "dry run must not write the state file")
}

func TestEngine_CorruptStateFallsBackToAuto(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.json")
	require.NoError(t, os.WriteFile(statePath, []byte("{not json"), 0644))
	cfgPath := writeTestConfig(t, dir, fmt.Sprintf("[state]\npath = %q\n", statePath))

	e, err := New(cfgPath, WithPlatform(newFakePlatform(platform.AppearanceDark)))
	require.NoError(t, err)
	require.Error(t, e.StateWarning())

	status := e.Status()
	assert.Equal(t, theme.Dark, status.Effective)
	assert.False(t, status.Pinned())

	// The next mutation overwrites the corrupt file.
	_, err = e.Toggle(context.Background())
	require.NoError(t, err)

	e2, err := New(cfgPath, WithPlatform(newFakePlatform(platform.AppearanceDark)))
	require.NoError(t, err)
	assert.NoError(t, e2.StateWarning())
	assert.True(t, e2.Status().Pinned())
}

func TestEngine_UnwritableStateStillApplies(t *testing.T) {
	dir := t.TempDir()
	stateDir := filepath.Join(dir, "sub")
	cfgPath := writeTestConfig(t, dir, fmt.Sprintf("[state]\npath = %q\n", filepath.Join(stateDir, "state.json")))

	e, err := New(cfgPath, WithPlatform(newFakePlatform(platform.AppearanceLight)))
	require.NoError(t, err)

	// Block the state directory with a regular file so the save fails.
	require.NoError(t, os.RemoveAll(stateDir))
	require.NoError(t, os.WriteFile(stateDir, nil, 0644))

	res, err := e.Toggle(context.Background())
	require.NoError(t, err, "a failed save must not fail the operation")
	require.Error(t, res.PersistErr)
	assert.False(t, res.Persisted)
	assert.Equal(t, theme.Dark, res.Theme)

	// The effective theme is applied in memory; only persistence is lost.
	assert.Equal(t, theme.Dark, e.Status().Effective)
	assert.True(t, e.Status().Pinned())
}

func TestEngine_Reload(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, fmt.Sprintf("[state]\npath = %q\n", filepath.Join(dir, "state.json")))

	watcher, err := New(cfgPath, WithPlatform(newFakePlatform(platform.AppearanceLight)))
	require.NoError(t, err)
	_, err = watcher.Sync(context.Background(), false)
	require.NoError(t, err)

	// Another process pins dark.
	other, err := New(cfgPath, WithPlatform(newFakePlatform(platform.AppearanceLight)))
	require.NoError(t, err)
	_, err = other.Set(context.Background(), theme.Dark)
	require.NoError(t, err)

	// The watcher only sees it after a reload.
	assert.Equal(t, theme.Light, watcher.Status().Effective)
	require.NoError(t, watcher.Reload())
	assert.Equal(t, theme.Dark, watcher.Status().Effective)
	assert.True(t, watcher.Status().Pinned())
}

// writeTestImage writes a uniform PNG for luminance tests.
func writeTestImage(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestEngine_Suggest(t *testing.T) {
	dir := t.TempDir()
	bright := filepath.Join(dir, "bright.png")
	dark := filepath.Join(dir, "dark.png")
	writeTestImage(t, bright, color.RGBA{R: 245, G: 245, B: 240, A: 255})
	writeTestImage(t, dark, color.RGBA{R: 15, G: 15, B: 25, A: 255})

	fake := newFakePlatform(platform.AppearanceLight)
	e := newTestEngine(t, fake)

	t.Run("bright wallpaper suggests light", func(t *testing.T) {
		s, err := e.Suggest(bright, 0)
		require.NoError(t, err)
		assert.Equal(t, theme.Light, s.Theme)
		assert.Greater(t, s.Luminance, 0.5)
		assert.Empty(t, s.Colors)
	})

	t.Run("dark wallpaper suggests dark", func(t *testing.T) {
		s, err := e.Suggest(dark, 3)
		require.NoError(t, err)
		assert.Equal(t, theme.Dark, s.Theme)
		assert.Less(t, s.Luminance, 0.5)
		assert.NotEmpty(t, s.Colors)
	})

	t.Run("empty path uses the system wallpaper", func(t *testing.T) {
		fake.wallpaper = dark
		s, err := e.Suggest("", 0)
		require.NoError(t, err)
		assert.Equal(t, dark, s.Path)
		assert.Equal(t, theme.Dark, s.Theme)
	})

	t.Run("wallpaper lookup failure", func(t *testing.T) {
		fake.wallpaper = ""
		fake.wallpaperErr = fmt.Errorf("no desktop session")
		defer func() { fake.wallpaperErr = nil }()

		_, err := e.Suggest("", 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current wallpaper")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := e.Suggest(filepath.Join(dir, "missing.png"), 0)
		require.Error(t, err)
	})
}

func TestEngine_RunHook(t *testing.T) {
	dir := t.TempDir()
	body := fmt.Sprintf(`[state]
path = %q

[[hooks]]
name = "echoer"
light = "echo lll"
dark = "echo ddd"
`, filepath.Join(dir, "state.json"))
	cfgPath := writeTestConfig(t, dir, body)

	e, err := New(cfgPath, WithPlatform(newFakePlatform(platform.AppearanceLight)))
	require.NoError(t, err)

	res, err := e.RunHook(context.Background(), "echoer", theme.Dark)
	require.NoError(t, err)
	assert.Equal(t, "ddd", res.Output)

	_, err = e.RunHook(context.Background(), "nope", theme.Dark)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown hook")

	all := e.RunHooks(context.Background(), theme.Light)
	require.Len(t, all, 1)
	assert.Equal(t, "lll", all[0].Output)
}

func TestEngine_Agent(t *testing.T) {
	fake := newFakePlatform(platform.AppearanceLight)
	e := newTestEngine(t, fake)

	t.Run("install validates the interval", func(t *testing.T) {
		err := e.InstallAgent(30 * time.Second)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least")
	})

	t.Run("install configures the scheduler", func(t *testing.T) {
		require.NoError(t, e.InstallAgent(10*time.Minute))

		cfg := fake.scheduler.lastConfig
		assert.Equal(t, "com.shade.agent", cfg.Label)
		assert.Equal(t, []string{"sync", "--quiet"}, cfg.Args)
		assert.Equal(t, 10*time.Minute, cfg.Interval)
		assert.True(t, cfg.RunAtLoad)
		assert.NotEmpty(t, cfg.Command)
		assert.NotEmpty(t, cfg.LogPath)
	})

	t.Run("status reflects installation", func(t *testing.T) {
		status, err := e.AgentStatus()
		require.NoError(t, err)
		assert.True(t, status.Supported)
		assert.True(t, status.Installed)
		assert.Equal(t, 10*time.Minute, status.Interval)
	})

	t.Run("uninstall", func(t *testing.T) {
		require.NoError(t, e.UninstallAgent())
		status, err := e.AgentStatus()
		require.NoError(t, err)
		assert.False(t, status.Installed)
	})

	t.Run("unsupported scheduler", func(t *testing.T) {
		fake.scheduler.supported = false
		defer func() { fake.scheduler.supported = true }()

		err := e.InstallAgent(10 * time.Minute)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not supported")

		status, err := e.AgentStatus()
		require.NoError(t, err)
		assert.False(t, status.Supported)
	})
}

func TestEngine_Accessors(t *testing.T) {
	fake := newFakePlatform(platform.AppearanceLight)
	e := newTestEngine(t, fake)

	assert.Equal(t, platform.Platform(fake), e.Platform())
	require.NotNil(t, e.Config())
	assert.Contains(t, e.StatePath(), "state.json")
}
