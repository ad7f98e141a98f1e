// Package hooks runs user-configured commands on theme transitions.
package hooks

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/janko/shade/internal/config"
	"github.com/janko/shade/internal/theme"
)

// maxConcurrent bounds how many hook commands run at once.
const maxConcurrent = 4

// Result records the outcome of a single hook invocation.
type Result struct {
	Name     string
	Output   string
	Err      error
	Duration time.Duration
	Skipped  bool
}

func (r Result) Failed() bool {
	return r.Err != nil
}

// Failures counts the failed results in a run.
func Failures(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Failed() {
			n++
		}
	}
	return n
}

// Runner executes configured hooks for a theme. A failing hook never aborts
// the run; every hook gets its chance and reports its own result.
type Runner struct {
	hooks  []config.Hook
	dryRun bool
}

func NewRunner(hooks []config.Hook) *Runner {
	return &Runner{hooks: hooks}
}

// SetDryRun makes the runner report the commands it would execute without
// running them.
func (r *Runner) SetDryRun(dryRun bool) {
	r.dryRun = dryRun
}

// Run executes all hooks for the given theme, at most maxConcurrent at a
// time, and returns one result per configured hook in config order.
func (r *Runner) Run(ctx context.Context, t theme.Theme) []Result {
	results := make([]Result, len(r.hooks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i, h := range r.hooks {
		i, h := i, h // per-iteration copies; required while go.mod targets go < 1.22
		g.Go(func() error {
			results[i] = r.RunOne(gctx, h, t)
			return nil
		})
	}

	// Workers never return errors; failures land in results.
	_ = g.Wait()

	return results
}

// RunOne executes a single hook for the given theme. Hooks without a command
// for the theme are skipped, and each command is bounded by the hook timeout.
func (r *Runner) RunOne(ctx context.Context, h config.Hook, t theme.Theme) Result {
	res := Result{Name: h.Name}

	command := h.CommandFor(t)
	if command == "" {
		res.Skipped = true
		return res
	}

	if r.dryRun {
		res.Skipped = true
		res.Output = command
		return res
	}

	timeout := h.Timeout.Duration
	if timeout <= 0 {
		timeout = config.DefaultHookTimeout
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	out, err := shellCommand(cctx, command).CombinedOutput()
	res.Duration = time.Since(start)
	res.Output = strings.TrimSpace(string(out))

	if err != nil {
		if cctx.Err() == context.DeadlineExceeded {
			res.Err = fmt.Errorf("timed out after %s", timeout)
		} else {
			res.Err = err
		}
	}

	return res
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, "sh", "-c", command)
}
