package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/keymapdoc/internal/build"
	"github.com/conneroisu/keymapdoc/internal/cheatsheet"
	kerrors "github.com/conneroisu/keymapdoc/internal/errors"
	"github.com/conneroisu/keymapdoc/internal/keymap"
	"github.com/conneroisu/keymapdoc/internal/logging"
	"github.com/conneroisu/keymapdoc/internal/registry"
	"github.com/conneroisu/keymapdoc/internal/scanner"
	"github.com/conneroisu/keymapdoc/internal/types"
	"github.com/conneroisu/keymapdoc/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Rebuild keymaps when their layout files change",
	Long: `Build every keymap, then watch the keyboards root and rebuild each keymap
whose layout file is created, changed or removed.

Examples:
  keymapdoc watch
  keymapdoc watch --cheatsheets   # Also rewrite cheat sheets`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var watchCheatsheets bool

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchCheatsheets, "cheatsheets", false,
		"rewrite cheat sheets of rebuilt keymaps (overrides watch.cheatsheets)")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rb, err := newRebuilder(a, watchCheatsheets || a.cfg.Watch.Cheatsheets)
	if err != nil {
		return err
	}
	if err := rb.initial(ctx); err != nil {
		return err
	}

	fileWatcher, err := watcher.NewFileWatcher(a.cfg.Watch.Debounce, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fileWatcher.Stop()

	fileWatcher.AddFilter(watcher.LayoutFilter(a.cfg.Keyboards.LayoutFiles...))
	fileWatcher.AddFilter(watcher.NoHiddenFilter)
	fileWatcher.AddFilter(watcher.NoVendorFilter)
	fileWatcher.AddHandler(rb.handle)

	if err := fileWatcher.AddRecursive(a.cfg.Keyboards.Root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", a.cfg.Keyboards.Root, err)
	}

	events := rb.registry.Watch()
	defer rb.registry.UnWatch(events)
	go logRegistryEvents(ctx, a.logger, events)

	if err := fileWatcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	fmt.Fprintf(a.out, "Watching %s for layout changes (Ctrl+C to stop)\n", a.cfg.Keyboards.Root)
	<-ctx.Done()
	fmt.Fprintln(a.out, "Stopping file watcher...")
	return nil
}

// rebuilder keeps the registry in step with the layout files.
type rebuilder struct {
	app         *app
	scanner     *scanner.KeymapScanner
	builder     *build.Builder
	cache       *build.BuildCache
	registry    *registry.KeymapRegistry
	cheatsheets bool
}

func newRebuilder(a *app, cheatsheets bool) (*rebuilder, error) {
	cache := build.NewBuildCache()
	b, err := a.builder(build.WithCache(cache))
	if err != nil {
		return nil, err
	}
	return &rebuilder{
		app:         a,
		scanner:     a.scanner(),
		builder:     b,
		cache:       cache,
		registry:    registry.NewKeymapRegistry(),
		cheatsheets: cheatsheets,
	}, nil
}

// initial builds every keymap once.
func (rb *rebuilder) initial(ctx context.Context) error {
	infos, err := rb.scanner.ScanDirectory(ctx)
	if err != nil {
		return err
	}
	result, err := rb.builder.BuildAll(ctx, infos)
	if err != nil {
		return err
	}
	rb.app.reportFailures(result)

	for _, km := range result.Keymaps {
		rb.registry.Register(km)
	}
	rb.writeCheatsheets(ctx, result.Keymaps)
	return nil
}

// handle applies one debounced batch of layout changes.
func (rb *rebuilder) handle(ctx context.Context, events []watcher.ChangeEvent) error {
	var rebuilt []*keymap.Data
	var removed []string

	for _, event := range events {
		if event.Type.Gone() {
			rb.cache.Invalidate(event.Path)
			if id, ok := rb.registry.IDForPath(event.Path); ok {
				rb.registry.Remove(id)
				removed = append(removed, id)
				rb.app.logger.Info(ctx, "Removed keymap", "keymap", id, "path", event.Path)
			}
			continue
		}

		info, err := rb.scanner.ScanFile(event.Path)
		if err != nil {
			rb.app.logger.Warn(ctx, err, "Ignoring layout file", "path", event.Path)
			continue
		}
		data, err := rb.builder.BuildOne(ctx, info)
		if err != nil {
			// BuildOne already logged the failure; keep the last good build.
			if _, ok := rb.registry.Get(info.ID); ok && kerrors.IsLayoutError(err) {
				fmt.Fprintf(rb.app.errOut, "%s: %v (keeping last good build)\n", info.ID, err)
			}
			continue
		}
		rb.registry.Register(data)
		rebuilt = append(rebuilt, data)
	}

	rb.updateCheatsheets(ctx, rebuilt, removed)
	rb.logStats(ctx)
	fmt.Fprintf(rb.app.out, "%d change(s), %d keymap(s) rebuilt, %d removed, %d registered\n",
		len(events), len(rebuilt), len(removed), rb.registry.Count())
	return nil
}

func (rb *rebuilder) writeCheatsheets(ctx context.Context, keymaps []*keymap.Data) {
	if !rb.cheatsheets {
		return
	}
	if _, err := cheatsheet.WriteAll(ctx, rb.app.cfg.Cheatsheet.OutputDir, keymaps); err != nil {
		rb.app.logger.Error(ctx, err, "Failed to write cheat sheets")
	}
}

// updateCheatsheets rewrites the pages of rebuilt keymaps, deletes those of
// removed ones and refreshes the index.
func (rb *rebuilder) updateCheatsheets(ctx context.Context, rebuilt []*keymap.Data, removed []string) {
	if !rb.cheatsheets || len(rebuilt)+len(removed) == 0 {
		return
	}
	dir := rb.app.cfg.Cheatsheet.OutputDir

	for _, id := range removed {
		if err := cheatsheet.RemovePage(dir, id); err != nil {
			rb.app.logger.Error(ctx, err, "Failed to remove cheat sheet", "keymap", id)
		}
	}
	if _, err := cheatsheet.WritePages(ctx, dir, rebuilt); err != nil {
		rb.app.logger.Error(ctx, err, "Failed to write cheat sheets")
		return
	}
	// The index lists every registered keymap, not only the rebuilt ones.
	if _, err := cheatsheet.WriteIndex(ctx, dir, rb.registry.All()); err != nil {
		rb.app.logger.Error(ctx, err, "Failed to write cheat sheet index")
	}
}

func (rb *rebuilder) logStats(ctx context.Context) {
	snap := rb.builder.Metrics().Snapshot()
	hits, misses := rb.cache.Stats()
	rb.app.logger.Debug(ctx, "Build statistics",
		"builds", snap.TotalBuilds,
		"failed", snap.FailedBuilds,
		"success_rate", rb.builder.Metrics().SuccessRate(),
		"avg_build", snap.AverageDuration,
		"cache_hits", hits,
		"cache_misses", misses,
		"cached_layouts", rb.cache.Len(),
	)
}

func logRegistryEvents(ctx context.Context, logger logging.Logger, events <-chan types.KeymapEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			logger.Debug(ctx, "Registry changed", "keymap", event.ID, "event", string(event.Type))
		}
	}
}
