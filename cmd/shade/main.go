// Package main is the entry point for the shade CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/janko/shade/internal/config"
	"github.com/janko/shade/internal/core"
	"github.com/janko/shade/internal/hooks"
	"github.com/janko/shade/internal/platform"
	"github.com/janko/shade/internal/state"
	"github.com/janko/shade/internal/theme"
	"github.com/janko/shade/internal/tui"
	"github.com/janko/shade/internal/ui"
	"github.com/janko/shade/internal/watch"
)

// Agent constants
const (
	defaultInterval = 600 // 10 minutes
	minInterval     = 60  // 1 minute minimum
)

var (
	// Global flags
	cfgFile   string
	themeFlag string
	dryRun    bool
	verbose   bool
	quiet     bool

	// Global output
	out *ui.Output
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shade",
		Short: "Light/dark theme controller",
		Long: `Shade keeps your desktop's light/dark appearance preference in one place.
It follows the OS appearance by default, lets you pin an explicit theme,
and tells other programs about changes through configurable hooks.`,
	}

	// Persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/shade/config.toml)")
	rootCmd.PersistentFlags().StringVar(&themeFlag, "theme", "", "assume this system appearance (light|dark)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "show what would be done without doing it")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	// Add commands
	rootCmd.AddCommand(
		newInitCmd(),
		newStatusCmd(),
		newToggleCmd(),
		newSetCmd(),
		newResetCmd(),
		newSyncCmd(),
		newWatchCmd(),
		newUICmd(),
		newSuggestCmd(),
		newHooksCmd(),
		newConfigCmd(),
		newVersionCmd(),
		newAgentInstallCmd(),
		newAgentUninstallCmd(),
		newAgentStatusCmd(),
	)

	// Handle signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// initOutput initializes the output.
func initOutput() {
	out = ui.DefaultOutput()
	out.SetVerbose(verbose)
	out.SetQuiet(quiet)
}

// newEngine creates a new engine with current flags.
func newEngine() (*core.Engine, error) {
	var opts []core.Option
	if themeFlag != "" {
		opts = append(opts, core.WithThemeOverride(themeFlag))
	}
	if dryRun {
		opts = append(opts, core.WithDryRun(true))
	}

	engine, err := core.New(cfgFile, opts...)
	if err != nil {
		return nil, err
	}

	if warn := engine.StateWarning(); warn != nil {
		out.Warning("State file unreadable, starting fresh: %v", warn)
	}

	return engine, nil
}

// showResult reports the outcome of a theme operation.
func showResult(res *core.Result) {
	if dryRun {
		if res.Changed {
			out.Info("Would apply %s theme", res.Theme)
		} else {
			out.Info("Already %s, nothing to do", res.Theme)
		}
		reportHooks(res.Hooks)
		return
	}

	mode := "auto"
	if res.Pinned {
		mode = "pinned"
	}
	out.ThemeStatus(res.Theme.String(), mode)
	reportHooks(res.Hooks)

	if res.PersistErr != nil {
		out.Debug("State not persisted: %v", res.PersistErr)
	}
}

// reportHooks prints per-hook outcomes. Failures are warnings: a broken hook
// never makes the theme change itself fail.
func reportHooks(results []hooks.Result) {
	for _, r := range results {
		switch {
		case r.Skipped && r.Output != "":
			out.Info("Would run hook %s: %s", r.Name, r.Output)
		case r.Skipped:
			out.Debug("Hook %s has no command for this theme, skipped", r.Name)
		case r.Failed():
			out.Warning("Hook %s failed: %v", r.Name, r.Err)
			if r.Output != "" {
				out.Debug("Hook %s output: %s", r.Name, r.Output)
			}
		default:
			out.Debug("Hook %s ok (%s)", r.Name, r.Duration.Round(time.Millisecond))
		}
	}
}

// newInitCmd creates the init command.
func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize shade configuration",
		Long:  "Creates default configuration file and directories.",
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			configDir := config.DefaultConfigDir()
			configPath := filepath.Join(configDir, "config.toml")

			// Check if already exists
			if _, err := os.Stat(configPath); err == nil && !force {
				out.Warning("Configuration already exists at %s", shortenPath(configPath))
				out.Info("Use --force to overwrite")
				return nil
			}

			// Create default config
			cfg := config.DefaultConfig()

			// Create directories
			if err := cfg.EnsureDirectories(); err != nil {
				out.Error("Failed to create directories: %v", err)
				return err
			}

			// Write config
			if err := cfg.Save(configPath); err != nil {
				out.Error("Failed to write config: %v", err)
				return err
			}

			// Create empty state file
			st := state.New(cfg.State.Path)
			if err := st.Save(); err != nil {
				out.Error("Failed to create state file: %v", err)
				return err
			}

			out.Success("Shade initialized")
			out.Field("Config", shortenPath(configPath))
			out.Field("State", shortenPath(cfg.State.Path))
			out.Print("")
			out.Info("Edit %s to configure hooks", shortenPath(configPath))

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration")

	return cmd
}

// newStatusCmd creates the status command.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current theme and where it comes from",
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			engine, err := newEngine()
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'shade init' to create a default configuration")
				return err
			}

			status := engine.Status()
			controls := engine.Controls()

			out.Print("")
			out.ThemeStatus(status.Effective.String(), status.Mode())
			out.Print("")

			out.Field("System", status.System.String())
			if status.Pinned() {
				out.FieldColored("Pinned", status.Override.String(), ui.Magenta)
			}

			position := "light"
			if controls.SwitchOn {
				position = "dark"
			}
			out.Field("Switch", position)
			if controls.ResetVisible {
				out.Field("Reset", "available ('shade reset' follows the system again)")
			}
			out.Field("State", shortenPath(engine.StatePath()))
			out.Print("")

			return nil
		},
	}
}

// newToggleCmd creates the toggle command.
func newToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Switch to the opposite theme and pin it",
		Long: `Flips the effective theme and pins the result, so the system appearance
no longer drives it. Use 'shade reset' to follow the system again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			engine, err := newEngine()
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'shade init' to create a default configuration")
				return err
			}

			res, err := engine.Toggle(cmd.Context())
			if err != nil {
				out.Error("Failed to toggle theme: %v", err)
				return err
			}

			showResult(res)
			return nil
		},
	}
}

// newSetCmd creates the set command.
func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <light|dark>",
		Short: "Pin an explicit theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			t, err := theme.Parse(args[0])
			if err != nil {
				out.Error("%v", err)
				return err
			}

			engine, err := newEngine()
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'shade init' to create a default configuration")
				return err
			}

			res, err := engine.Set(cmd.Context(), t)
			if err != nil {
				out.Error("Failed to set theme: %v", err)
				return err
			}

			showResult(res)
			return nil
		},
	}
}

// newResetCmd creates the reset command.
func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the pinned theme and follow the system",
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			engine, err := newEngine()
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'shade init' to create a default configuration")
				return err
			}

			res, err := engine.Reset(cmd.Context())
			if err != nil {
				out.Error("Failed to reset: %v", err)
				return err
			}

			if !dryRun {
				out.Success("Following the system appearance")
			}
			showResult(res)
			return nil
		},
	}
}

// newSyncCmd creates the sync command.
func newSyncCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Apply the resolved theme",
		Long: `Resolves the effective theme (pinned override or system appearance) and
runs hooks if it differs from the last applied one. Safe to run repeatedly;
the background agent runs 'shade sync --quiet' on an interval.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			engine, err := newEngine()
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'shade init' to create a default configuration")
				return err
			}

			res, err := engine.Sync(cmd.Context(), force)
			if err != nil {
				out.Error("Failed to sync: %v", err)
				return err
			}

			if !res.Changed && !force {
				out.Info("Already %s", res.Theme)
				return nil
			}

			showResult(res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "run hooks even when the theme is unchanged")

	return cmd
}

// newWatchCmd creates the watch command.
func newWatchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch for appearance changes and keep the theme applied",
		Long: `Runs in the foreground, polling the system appearance and watching the
state file and OS settings for changes. Each change re-resolves the theme
and runs hooks on transitions. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			if quiet {
				zerolog.SetGlobalLevel(zerolog.WarnLevel)
			}
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

			engine, err := newEngine()
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'shade init' to create a default configuration")
				return err
			}

			d := engine.Config().Watch.Interval.Duration
			if interval > 0 {
				d = interval
			}

			return watch.New(engine, d).Run(cmd.Context())
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "appearance poll interval (default from config)")

	return cmd
}

// newUICmd creates the ui command.
func newUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive control panel",
		Long: `A terminal panel with the toggle switch and, while a theme is pinned,
the reset control. Keys: space/t/enter toggle, r reset, q quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			engine, err := newEngine()
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'shade init' to create a default configuration")
				return err
			}

			return tui.Run(engine)
		},
	}
}

// newSuggestCmd creates the suggest command.
func newSuggestCmd() *cobra.Command {
	var (
		topN  int
		apply bool
	)

	cmd := &cobra.Command{
		Use:   "suggest [image]",
		Short: "Suggest a theme from wallpaper brightness",
		Long: `Analyzes the dominant colors of an image (the current wallpaper when no
path is given) and suggests light or dark based on its mean luminance.
With --apply the suggested theme is pinned.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			engine, err := newEngine()
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'shade init' to create a default configuration")
				return err
			}

			path := ""
			if len(args) > 0 {
				path = args[0]
			}

			spinner := ui.NewSpinner(out, "Analyzing wallpaper...")
			spinner.Start()

			s, err := engine.Suggest(path, topN)
			spinner.Stop()

			if err != nil {
				out.Error("Failed to analyze: %v", err)
				return err
			}

			themeColor := ui.Yellow
			if s.Theme == theme.Dark {
				themeColor = ui.Magenta
			}

			out.Print("")
			out.Field("Wallpaper", shortenPath(s.Path))
			out.Field("Luminance", fmt.Sprintf("%.2f", s.Luminance))
			out.FieldColored("Suggested", s.Theme.String(), themeColor)

			if len(s.Colors) > 0 {
				out.Print("")
				for _, c := range s.Colors {
					out.ColorSwatch(c.Hex())
				}
			}
			out.Print("")

			if !apply {
				out.Info("Run 'shade set %s' or re-run with --apply to pin it", s.Theme)
				return nil
			}

			res, err := engine.Set(cmd.Context(), s.Theme)
			if err != nil {
				out.Error("Failed to set theme: %v", err)
				return err
			}
			showResult(res)

			return nil
		},
	}

	cmd.Flags().IntVar(&topN, "top", 5, "number of dominant colors to show (0 to skip)")
	cmd.Flags().BoolVar(&apply, "apply", false, "pin the suggested theme")

	return cmd
}

// newHooksCmd creates the hooks command group.
func newHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Inspect and run configured hooks",
	}

	cmd.AddCommand(newHooksListCmd(), newHooksRunCmd())

	return cmd
}

// newHooksListCmd creates the hooks list command.
func newHooksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured hooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			// Load config directly for the list (no engine needed)
			cfg, err := config.Load(cfgFile)
			if err != nil {
				out.Error("Failed to load config: %v", err)
				return err
			}

			if len(cfg.Hooks) == 0 {
				out.Warning("No hooks configured")
				out.Info("Edit %s to add hooks", shortenPath(cfg.ConfigPath()))
				return nil
			}

			headers := []string{"Name", "Light", "Dark", "Timeout"}
			var rows [][]string

			for _, h := range cfg.Hooks {
				rows = append(rows, []string{
					h.Name,
					truncate(h.Light, 40),
					truncate(h.Dark, 40),
					h.Timeout.Duration.String(),
				})
			}

			out.Print("")
			out.Table(headers, rows)
			out.Print("")

			return nil
		},
	}
}

// newHooksRunCmd creates the hooks run command.
func newHooksRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <name> [light|dark]",
		Short: "Run a single hook",
		Long:  "Runs one configured hook for the given theme (default: the current effective theme).",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			engine, err := newEngine()
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'shade init' to create a default configuration")
				return err
			}

			t := engine.Status().Effective
			if len(args) > 1 {
				t, err = theme.Parse(args[1])
				if err != nil {
					out.Error("%v", err)
					return err
				}
			}

			res, err := engine.RunHook(cmd.Context(), args[0], t)
			if err != nil {
				out.Error("%v", err)
				return err
			}

			switch {
			case res.Skipped && res.Output != "":
				out.Info("Would run: %s", res.Output)
			case res.Skipped:
				out.Warning("Hook %s has no command for %s", res.Name, t)
			case res.Failed():
				out.Error("Hook %s failed: %v", res.Name, res.Err)
				if res.Output != "" {
					out.Print("%s", res.Output)
				}
				return res.Err
			default:
				out.Success("Hook %s ok (%s)", res.Name, res.Duration.Round(time.Millisecond))
				if res.Output != "" {
					out.Print("%s", res.Output)
				}
			}

			return nil
		},
	}
}

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Locate and open the configuration file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			RunE: func(cmd *cobra.Command, args []string) error {
				initOutput()

				cfg, err := config.Load(cfgFile)
				if err != nil {
					out.Error("Failed to load config: %v", err)
					return err
				}

				out.Print("%s", cfg.ConfigPath())
				return nil
			},
		},
		&cobra.Command{
			Use:   "open",
			Short: "Open the config file in the default editor",
			RunE: func(cmd *cobra.Command, args []string) error {
				initOutput()
				return configFileAction(func(p string) error {
					return platform.Current().FileManager().Open(p)
				})
			},
		},
		&cobra.Command{
			Use:   "reveal",
			Short: "Reveal the config file in the file manager",
			RunE: func(cmd *cobra.Command, args []string) error {
				initOutput()
				return configFileAction(func(p string) error {
					return platform.Current().FileManager().Reveal(p)
				})
			},
		},
	)

	return cmd
}

// configFileAction loads the config path, checks the file exists, and hands
// it to the platform file manager.
func configFileAction(action func(string) error) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		out.Error("Failed to load config: %v", err)
		return err
	}

	path := cfg.ConfigPath()
	if _, err := os.Stat(path); err != nil {
		out.Warning("No config file at %s", shortenPath(path))
		out.Info("Run 'shade init' to create one")
		return nil
	}

	if err := action(path); err != nil {
		out.Error("Failed to open: %v", err)
		return err
	}

	return nil
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			initOutput()
			out.Print("shade version 0.1.0")
		},
	}
}

// newAgentInstallCmd creates the agent-install command.
func newAgentInstallCmd() *cobra.Command {
	var interval int

	cmd := &cobra.Command{
		Use:   "agent-install",
		Short: "Install background agent for periodic sync",
		Long:  "Installs a background agent that runs 'shade sync --quiet' at regular intervals.",
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			// Validate interval
			if interval < minInterval {
				out.Error("Minimum interval is %d seconds", minInterval)
				return fmt.Errorf("interval too small")
			}

			engine, err := newEngine()
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'shade init' to create a default configuration")
				return err
			}

			if err := engine.InstallAgent(time.Duration(interval) * time.Second); err != nil {
				out.Error("Failed to install agent: %v", err)
				return err
			}

			out.Success("Agent installed")
			out.Field("Interval", formatDuration(time.Duration(interval)*time.Second))
			out.Field("Log", shortenPath(filepath.Join(config.DefaultConfigDir(), "agent.log")))

			return nil
		},
	}

	cmd.Flags().IntVar(&interval, "interval", defaultInterval, "interval in seconds (minimum 60)")

	return cmd
}

// newAgentUninstallCmd creates the agent-uninstall command.
func newAgentUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agent-uninstall",
		Short: "Uninstall background agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			engine, err := newEngine()
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'shade init' to create a default configuration")
				return err
			}

			status, err := engine.AgentStatus()
			if err != nil {
				out.Error("Failed to get agent status: %v", err)
				return err
			}

			if !status.Installed {
				out.Info("Agent is not installed")
				return nil
			}

			if err := engine.UninstallAgent(); err != nil {
				out.Error("Failed to uninstall agent: %v", err)
				return err
			}

			out.Success("Agent uninstalled")
			return nil
		},
	}
}

// newAgentStatusCmd creates the agent-status command.
func newAgentStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agent-status",
		Short: "Show agent status",
		RunE: func(cmd *cobra.Command, args []string) error {
			initOutput()

			engine, err := newEngine()
			if err != nil {
				out.ErrorWithHint(err.Error(), "Run 'shade init' to create a default configuration")
				return err
			}

			status, err := engine.AgentStatus()
			if err != nil {
				out.Error("Failed to get agent status: %v", err)
				return err
			}

			if !status.Supported {
				out.Error("Background scheduling is not supported on this platform")
				return fmt.Errorf("scheduler not supported")
			}

			if !status.Installed {
				out.Info("Agent is not installed")
				return nil
			}

			if status.Running {
				out.Success("Agent is running")
				if status.Interval > 0 {
					out.Field("Interval", formatDuration(status.Interval))
				}
				out.Field("Log", shortenPath(status.LogPath))
			} else {
				out.Warning("Agent is installed but not running")
				out.Field("Log", shortenPath(status.LogPath))
			}

			return nil
		},
	}
}

// shortenPath shortens a path for display.
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if len(path) > len(home) && path[:len(home)] == home {
		return "~" + path[len(home):]
	}
	return path
}

// formatDuration formats duration to human readable (e.g., "1.5 minutes")
func formatDuration(d time.Duration) string {
	minutes := d.Minutes()
	if minutes == 1 {
		return "1 minute"
	}
	if minutes == float64(int(minutes)) {
		return fmt.Sprintf("%d minutes", int(minutes))
	}
	return fmt.Sprintf("%.1f minutes", minutes)
}

// truncate shortens a string for table display.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
