package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/conneroisu/keymapdoc/internal/build"
	"github.com/conneroisu/keymapdoc/internal/config"
	"github.com/conneroisu/keymapdoc/internal/keymap"
	"github.com/conneroisu/keymapdoc/internal/logging"
	"github.com/conneroisu/keymapdoc/internal/renderer"
	"github.com/conneroisu/keymapdoc/internal/scanner"
	"github.com/conneroisu/keymapdoc/internal/symbolmap"
	"github.com/conneroisu/keymapdoc/internal/types"
)

// app carries what every command needs once configuration is loaded.
type app struct {
	cfg    *config.Config
	logger logging.Logger
	out    io.Writer
	errOut io.Writer
	// runner runs the drawing command; nil selects os/exec.
	runner renderer.CommandRunner
}

type runnerKey struct{}

// withCommandRunner returns a context whose commands run external tools
// through r.
func withCommandRunner(ctx context.Context, r renderer.CommandRunner) context.Context {
	return context.WithValue(ctx, runnerKey{}, r)
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})

	runner, _ := cmd.Context().Value(runnerKey{}).(renderer.CommandRunner)

	return &app{
		cfg:    cfg,
		logger: logger,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		runner: runner,
	}, nil
}

func (a *app) scanner() *scanner.KeymapScanner {
	return scanner.NewKeymapScanner(scanner.Options{
		Root:             a.cfg.Keyboards.Root,
		LayoutFiles:      a.cfg.Keyboards.LayoutFiles,
		RespectGitignore: a.cfg.Keyboards.RespectGitignore,
		Logger:           a.logger,
	})
}

// discover lists keymaps, keeping only ids when any are given.
func (a *app) discover(ctx context.Context, ids []string) ([]types.KeymapInfo, error) {
	infos, err := a.scanner().ScanDirectory(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return infos, nil
	}

	selected := make([]types.KeymapInfo, 0, len(ids))
	for _, id := range ids {
		i := slices.IndexFunc(infos, func(info types.KeymapInfo) bool { return info.ID == id })
		if i == -1 {
			return nil, fmt.Errorf("unknown keymap %q", id)
		}
		selected = append(selected, infos[i])
	}
	return selected, nil
}

func (a *app) symbolTable() (*symbolmap.Table, error) {
	if a.cfg.Catalog.SymbolMap == "" {
		return symbolmap.Default(), nil
	}
	table, err := symbolmap.Load(a.cfg.Catalog.SymbolMap)
	if err != nil {
		return nil, fmt.Errorf("loading symbol map: %w", err)
	}
	return table, nil
}

// builder returns a batch builder; opts add to the configured ones.
func (a *app) builder(opts ...build.Option) (*build.Builder, error) {
	table, err := a.symbolTable()
	if err != nil {
		return nil, err
	}

	keymaps := keymap.NewBuilder(table,
		keymap.WithPublicRoot(a.cfg.Catalog.PublicRoot),
		keymap.WithImageExt(a.cfg.Render.ImageExt),
	)
	base := []build.Option{
		build.WithWorkers(a.cfg.Catalog.Workers),
		build.WithLogger(a.logger),
	}
	return build.NewBuilder(keymaps, append(base, opts...)...), nil
}

// buildCatalog discovers and builds the selected keymaps.
func (a *app) buildCatalog(ctx context.Context, ids []string) (*build.Result, error) {
	infos, err := a.discover(ctx, ids)
	if err != nil {
		return nil, err
	}

	b, err := a.builder()
	if err != nil {
		return nil, err
	}
	return b.BuildAll(ctx, infos)
}

// reportFailures prints one line per skipped keymap and a summary.
func (a *app) reportFailures(result *build.Result) {
	for _, f := range result.Failures {
		fmt.Fprintf(a.errOut, "skipped %s: %v\n", f.KeymapID, f.Err)
	}
	fmt.Fprintf(a.errOut, "%d keymap(s) built, %d failed\n", result.Succeeded(), result.Failed())
}
