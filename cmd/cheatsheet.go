package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/keymapdoc/internal/cheatsheet"
	"github.com/conneroisu/keymapdoc/internal/config"
)

var cheatsheetCmd = &cobra.Command{
	Use:   "cheatsheet [id...]",
	Short: "Write an HTML cheat sheet per keymap",
	Long: `Build every keymap (or the given ids) and write <output_dir>/<id>.html
plus an index page linking them.

Examples:
  keymapdoc cheatsheet
  keymapdoc cheatsheet --output-dir dist/cheatsheets`,
	RunE: runCheatsheet,
}

var cheatsheetOutputDir string

func init() {
	rootCmd.AddCommand(cheatsheetCmd)
	cheatsheetCmd.Flags().StringVar(&cheatsheetOutputDir, "output-dir", "",
		"cheat sheet directory (overrides cheatsheet.output_dir)")
}

func runCheatsheet(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	dir := a.cfg.Cheatsheet.OutputDir
	if cheatsheetOutputDir != "" {
		if err := config.ValidateOutputDir("--output-dir", cheatsheetOutputDir); err != nil {
			return err
		}
		dir = cheatsheetOutputDir
	}

	result, err := a.buildCatalog(ctx, args)
	if err != nil {
		return err
	}
	a.reportFailures(result)
	if result.Succeeded() == 0 && result.Failed() > 0 {
		return errAllFailed
	}

	paths, err := cheatsheet.WriteAll(ctx, dir, result.Keymaps)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(a.out, p)
	}
	return nil
}
