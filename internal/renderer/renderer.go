// Package renderer produces one image per keymap layer by invoking an
// external drawing command (keymap-drawer's "keymap" CLI by default).
//
// For every layer the renderer runs
//
//	<command> draw <layout file> -s <layer> -o <output dir>/<keymap id>/<layer>.<ext>
//
// A failing layer is recorded and the remaining layers and keymaps are
// still rendered.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	kerrors "github.com/conneroisu/keymapdoc/internal/errors"
	"github.com/conneroisu/keymapdoc/internal/keymap"
	"github.com/conneroisu/keymapdoc/internal/logging"
	"github.com/conneroisu/keymapdoc/internal/types"
)

// Defaults.
const (
	DefaultCommand   = "keymap"
	DefaultOutputDir = "website/public/generated"
	DefaultImageExt  = "svg"
)

// CommandRunner runs external commands. Tests substitute it.
type CommandRunner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// LookPath implements CommandRunner.
func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run implements CommandRunner and returns combined output.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Options configure an SVGRenderer.
type Options struct {
	Command   string
	OutputDir string
	ImageExt  string
	Runner    CommandRunner
	Logger    logging.Logger
}

// SVGRenderer renders keymap layers.
type SVGRenderer struct {
	command   string
	outputDir string
	imageExt  string
	runner    CommandRunner
	logger    logging.Logger
}

// New creates a renderer; zero option fields take the defaults.
func New(opts Options) *SVGRenderer {
	r := &SVGRenderer{
		command:   opts.Command,
		outputDir: opts.OutputDir,
		imageExt:  strings.TrimPrefix(opts.ImageExt, "."),
		runner:    opts.Runner,
		logger:    opts.Logger,
	}
	if r.command == "" {
		r.command = DefaultCommand
	}
	if r.outputDir == "" {
		r.outputDir = DefaultOutputDir
	}
	if r.imageExt == "" {
		r.imageExt = DefaultImageExt
	}
	if r.runner == nil {
		r.runner = ExecRunner{}
	}
	if r.logger == nil {
		r.logger = logging.Nop()
	}
	r.logger = r.logger.WithComponent("renderer")
	return r
}

// CheckAvailable verifies the drawing command is installed and runs.
func (r *SVGRenderer) CheckAvailable(ctx context.Context) error {
	if _, err := r.runner.LookPath(r.command); err != nil {
		return kerrors.NewRenderError(kerrors.ErrCodeRendererMissing,
			fmt.Sprintf("%s is not installed (pip install keymap-drawer)", r.command), err)
	}
	if out, err := r.runner.Run(ctx, r.command, "--version"); err != nil {
		return kerrors.NewRenderError(kerrors.ErrCodeRendererMissing,
			fmt.Sprintf("%s --version failed: %s", r.command, strings.TrimSpace(string(out))), err)
	}
	return nil
}

// ImagePath returns the output file for layer of keymap id.
func (r *SVGRenderer) ImagePath(id, layer string) string {
	return filepath.Join(r.outputDir, id, strings.ToLower(layer)+"."+r.imageExt)
}

// KeymapReport describes the rendering of one keymap.
type KeymapReport struct {
	ID     string
	Images []string
	// Failed maps layer names to their errors.
	Failed map[string]error
}

// OK reports whether every layer was rendered.
func (k *KeymapReport) OK() bool {
	return len(k.Failed) == 0
}

// RenderKeymap renders every layer of info. The returned error is non-nil
// when the keymap could not be rendered at all or when any layer failed;
// the report lists what was produced either way.
func (r *SVGRenderer) RenderKeymap(ctx context.Context, info types.KeymapInfo) (*KeymapReport, error) {
	report := &KeymapReport{ID: info.ID, Failed: make(map[string]error)}

	content, err := os.ReadFile(info.Path)
	if err != nil {
		return report, kerrors.ErrFileRead(info.Path, err).WithKeymap(info.ID)
	}

	names, err := keymap.LayerNames(content)
	if err != nil {
		var ke *kerrors.KeymapError
		if errors.As(err, &ke) {
			return report, ke.WithKeymap(info.ID).WithFile(info.Path)
		}
		return report, err
	}

	dir := filepath.Join(r.outputDir, info.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return report, kerrors.NewIOError(kerrors.ErrCodeFileRead, "cannot create output directory", err).
			WithKeymap(info.ID).
			WithFile(dir)
	}

	r.logger.Info(ctx, "Rendering keymap", "keymap", info.ID, "layers", strings.Join(names, ", "))

	for _, layer := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		out, err := r.renderLayer(ctx, info, layer)
		if err != nil {
			report.Failed[layer] = err
			r.logger.Warn(ctx, err, "Layer render failed", "keymap", info.ID, "layer", layer)
			continue
		}
		report.Images = append(report.Images, out)
	}

	if !report.OK() {
		errs := make([]error, 0, len(report.Failed))
		for _, layer := range names {
			if err, ok := report.Failed[layer]; ok {
				errs = append(errs, err)
			}
		}
		return report, kerrors.Join(errs...)
	}
	return report, nil
}

func (r *SVGRenderer) renderLayer(ctx context.Context, info types.KeymapInfo, layer string) (string, error) {
	if err := validateLayerName(layer); err != nil {
		return "", kerrors.ErrRenderFailed(info.ID, layer, err)
	}

	out := r.ImagePath(info.ID, layer)
	output, err := r.runner.Run(ctx, r.command, "draw", info.Path, "-s", layer, "-o", out)
	if err != nil {
		if msg := strings.TrimSpace(string(output)); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", kerrors.ErrRenderFailed(info.ID, layer, err)
	}
	return out, nil
}

// Summary counts the outcome of a batch.
type Summary struct {
	KeymapsOK     int
	KeymapsFailed int
	ImagesOK      int
	ImagesFailed  int
	Failures      []kerrors.Failure
}

// RenderAll renders every keymap in order. A keymap counts as failed when
// it could not be read or parsed or when any of its layers failed. An error
// that is not confined to one keymap, such as cancellation, ends the batch.
func (r *SVGRenderer) RenderAll(ctx context.Context, infos []types.KeymapInfo) (Summary, error) {
	collector := kerrors.NewErrorCollector()
	var summary Summary

	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			summary.Failures = collector.Failures()
			return summary, err
		}

		report, err := r.RenderKeymap(ctx, info)
		summary.ImagesOK += len(report.Images)
		summary.ImagesFailed += len(report.Failed)

		if err == nil {
			summary.KeymapsOK++
			r.logger.Info(ctx, "Rendered keymap", "keymap", info.ID, "images", len(report.Images))
			continue
		}

		summary.KeymapsFailed++
		if !kerrors.IsRecoverable(err) {
			collector.Add(info.ID, "", err)
			summary.Failures = collector.Failures()
			return summary, err
		}
		if len(report.Failed) == 0 {
			collector.Add(info.ID, "", err)
			r.logger.Warn(ctx, err, "Skipping keymap", "keymap", info.ID)
			continue
		}
		for layer, layerErr := range report.Failed {
			collector.Add(info.ID, layer, layerErr)
		}
	}

	summary.Failures = collector.Failures()
	r.logger.Info(ctx, "Render summary",
		"keymaps_ok", summary.KeymapsOK,
		"keymaps_failed", summary.KeymapsFailed,
		"images_ok", summary.ImagesOK,
		"images_failed", summary.ImagesFailed,
	)
	return summary, nil
}

// validateLayerName rejects layer names that would escape the keymap's
// output directory.
func validateLayerName(name string) error {
	clean := filepath.Clean(name)

	if name == "" || clean == "." {
		return fmt.Errorf("empty layer name")
	}
	if strings.Contains(clean, "..") {
		return fmt.Errorf("path traversal attempt detected: %s", name)
	}
	if filepath.IsAbs(clean) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("path separators not allowed in layer name: %s", name)
	}
	return nil
}
