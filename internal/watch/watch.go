// Package watch keeps the applied theme converged with the system appearance
// and with state changes made by other shade processes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/janko/shade/internal/config"
	"github.com/janko/shade/internal/core"
)

// debounceDelay coalesces bursts of file events; settings daemons and
// editors write several times per change.
const debounceDelay = 250 * time.Millisecond

// Daemon polls the system appearance and watches the state file and the
// platform settings paths, syncing the theme whenever either moves.
type Daemon struct {
	engine   *core.Engine
	interval time.Duration

	// mu serializes syncs; the poll job and the file watcher fire
	// independently.
	mu sync.Mutex
}

// New creates a daemon syncing every interval. Intervals below the config
// minimum are raised to it.
func New(engine *core.Engine, interval time.Duration) *Daemon {
	if interval < config.MinWatchInterval {
		interval = config.MinWatchInterval
	}
	return &Daemon{
		engine:   engine,
		interval: interval,
	}
}

// Run blocks until ctx is canceled, syncing on startup, on every poll tick,
// and after file events settle.
func (d *Daemon) Run(ctx context.Context) error {
	d.sync(ctx, "startup")

	scheduler, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					log.Error().
						Str("job_id", jobID.String()).
						Str("job_name", jobName).
						Interface("panic", recoverData).
						Msg("Sync job panicked")
				}),
			),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if _, err := scheduler.NewJob(
		gocron.DurationJob(d.interval),
		gocron.NewTask(func() { d.sync(gctx, "poll") }),
		gocron.WithName("appearance-poll"),
	); err != nil {
		return fmt.Errorf("failed to register sync job: %w", err)
	}

	scheduler.Start()
	log.Info().
		Dur("interval", d.interval).
		Str("platform", d.engine.Platform().Name()).
		Msg("Watching for appearance changes")

	g.Go(func() error {
		return d.watchFiles(gctx)
	})

	err = g.Wait()

	if shutdownErr := scheduler.Shutdown(); shutdownErr != nil {
		log.Error().Err(shutdownErr).Msg("Scheduler shutdown failed")
	}
	log.Info().Msg("Watch stopped")

	return err
}

// watchPaths returns the directories whose changes should trigger a sync:
// the state file's directory and the parents of the platform settings paths.
func (d *Daemon) watchPaths() []string {
	seen := make(map[string]bool)
	var paths []string

	add := func(dir string) {
		if dir == "" || dir == "." || seen[dir] {
			return
		}
		seen[dir] = true
		paths = append(paths, dir)
	}

	add(filepath.Dir(d.engine.StatePath()))
	for _, p := range d.engine.Platform().Appearance().SettingsPaths() {
		// Watch the parent: settings files are usually replaced atomically.
		add(filepath.Dir(p))
	}

	return paths
}

func (d *Daemon) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, path := range d.watchPaths() {
		if err := watcher.Add(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Cannot watch path")
			continue
		}
		log.Debug().Str("path", path).Msg("Watching path")
	}

	debounce := time.NewTimer(debounceDelay)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("File event")
			debounce.Reset(debounceDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("File watcher error")

		case <-debounce.C:
			d.sync(ctx, "file-event")
		}
	}
}

// sync reloads state and applies the resolved theme. Unchanged syncs stay
// quiet so the poll loop does not flood the log or re-trigger the watcher.
func (d *Daemon) sync(ctx context.Context, trigger string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.engine.Reload(); err != nil {
		log.Warn().Err(err).Msg("State reload failed; keeping previous state")
	}

	res, err := d.engine.Sync(ctx, false)
	if err != nil {
		log.Error().Err(err).Str("trigger", trigger).Msg("Sync failed")
		return
	}

	if res.PersistErr != nil {
		log.Warn().Err(res.PersistErr).Msg("State not persisted")
	}

	if !res.Changed {
		log.Debug().Str("trigger", trigger).Str("theme", res.Theme.String()).Msg("Already in sync")
		return
	}

	log.Info().
		Str("trigger", trigger).
		Str("theme", res.Theme.String()).
		Str("system", res.System.String()).
		Bool("pinned", res.Pinned).
		Msg("Theme applied")

	for _, h := range res.Hooks {
		switch {
		case h.Skipped:
			log.Debug().Str("hook", h.Name).Msg("Hook skipped")
		case h.Failed():
			log.Error().Err(h.Err).Str("hook", h.Name).Str("output", h.Output).Msg("Hook failed")
		default:
			log.Debug().Str("hook", h.Name).Dur("took", h.Duration).Msg("Hook completed")
		}
	}
}
