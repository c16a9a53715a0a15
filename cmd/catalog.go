package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/conneroisu/keymapdoc/internal/logging"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [id...]",
	Short: "Build the symbol catalog of every keymap",
	Long: `Build the data of every discovered keymap, or only of the given ids:
layers, the deduplicated symbol catalog with its access methods, the real
layers and the expected image paths.

Keymaps whose layout cannot be read are skipped and reported on stderr. The
command fails only when every keymap failed.

Examples:
  keymapdoc catalog                           # Summary table
  keymapdoc catalog -o json                   # Full data as JSON
  keymapdoc catalog ferris-sweep-qwerty -o yaml`,
	RunE: runCatalog,
}

var catalogFormat string

// errAllFailed is returned when no keymap of a batch could be processed.
var errAllFailed = errors.New("every keymap failed")

func init() {
	rootCmd.AddCommand(catalogCmd)
	addOutputFlag(catalogCmd, &catalogFormat)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	perf := logging.StartOperation(a.logger, "catalog")
	result, err := a.buildCatalog(ctx, args)
	if err != nil {
		perf.EndWithError(ctx, err)
		return err
	}
	perf.End(ctx, "keymaps", result.Succeeded(), "failed", result.Failed())

	a.reportFailures(result)
	if result.Succeeded() == 0 && result.Failed() > 0 {
		return errAllFailed
	}

	if done, err := writeStructured(a.out, catalogFormat, result.Keymaps); done {
		return err
	}

	if len(result.Keymaps) == 0 {
		fmt.Fprintln(a.out, "No keymaps found.")
		return nil
	}

	t := newTable(a.out, "ID", "KEYBOARD", "KEYMAP", "LAYERS", "SYMBOLS")
	for _, km := range result.Keymaps {
		t.row(km.ID, km.Keyboard, km.KeymapName,
			strconv.Itoa(len(km.Layers)), strconv.Itoa(len(km.AllSymbols)))
	}
	return t.flush()
}
