package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/keymapdoc/internal/config"
	"github.com/conneroisu/keymapdoc/internal/renderer"
)

var renderCmd = &cobra.Command{
	Use:   "render [id...]",
	Short: "Draw layer images with keymap-drawer",
	Long: `Run "keymap draw" once per layer of every keymap (or of the given ids),
writing <output_dir>/<id>/<layer>.<ext>. A failed layer does not stop the
remaining layers; the command fails when any keymap had a failure.

Requires keymap-drawer (pip install keymap-drawer).

Examples:
  keymapdoc render
  keymapdoc render --output-dir site/img corne-colemak`,
	RunE: runRender,
}

var renderOutputDir string

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&renderOutputDir, "output-dir", "", "image directory (overrides render.output_dir)")
}

func runRender(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	outputDir := a.cfg.Render.OutputDir
	if renderOutputDir != "" {
		if err := config.ValidateOutputDir("--output-dir", renderOutputDir); err != nil {
			return err
		}
		outputDir = renderOutputDir
	}

	r := renderer.New(renderer.Options{
		Command:   a.cfg.Render.Command,
		OutputDir: outputDir,
		ImageExt:  a.cfg.Render.ImageExt,
		Runner:    a.runner,
		Logger:    a.logger,
	})
	if err := r.CheckAvailable(ctx); err != nil {
		return err
	}

	infos, err := a.discover(ctx, args)
	if err != nil {
		return err
	}

	summary, err := r.RenderAll(ctx, infos)
	if err != nil {
		return err
	}

	for _, f := range summary.Failures {
		fmt.Fprintf(a.errOut, "failed %v\n", f)
	}
	fmt.Fprintf(a.out, "Keymaps: %d rendered, %d failed\nImages: %d rendered, %d failed\n",
		summary.KeymapsOK, summary.KeymapsFailed, summary.ImagesOK, summary.ImagesFailed)

	if summary.KeymapsFailed > 0 {
		return fmt.Errorf("%d keymap(s) failed to render", summary.KeymapsFailed)
	}
	return nil
}
