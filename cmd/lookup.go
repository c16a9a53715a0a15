package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/keymapdoc/internal/registry"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <symbol>",
	Short: "Show every way to type a symbol",
	Long: `Look a symbol up across every keymap and list, per real layer, the key
notations that produce it.

Examples:
  keymapdoc lookup '{'
  keymapdoc lookup € -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

var lookupFormat string

func init() {
	rootCmd.AddCommand(lookupCmd)
	addOutputFlag(lookupCmd, &lookupFormat)
}

func runLookup(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	symbol := args[0]

	result, err := a.buildCatalog(cmd.Context(), nil)
	if err != nil {
		return err
	}
	if result.Failed() > 0 {
		a.reportFailures(result)
	}

	reg := registry.NewKeymapRegistry()
	for _, km := range result.Keymaps {
		reg.Register(km)
	}
	matches := reg.Lookup(symbol)

	if done, err := writeStructured(a.out, lookupFormat, matches); done {
		return err
	}

	if len(matches) == 0 {
		fmt.Fprintf(a.out, "No keymap types %q (%d symbols known across %d keymap(s)).\n",
			symbol, len(reg.Symbols()), reg.Count())
		return nil
	}

	t := newTable(a.out, "KEYMAP", "DESCRIPTION", "LAYER", "KEYS")
	for _, m := range matches {
		for _, layer := range m.Entry.LayerOrder() {
			notations := make([]string, 0, len(m.Entry.AccessMethods[layer]))
			for _, method := range m.Entry.AccessMethods[layer] {
				notations = append(notations, method.Notation)
			}
			t.row(m.KeymapID, m.Entry.Description, layer, strings.Join(notations, ", "))
		}
	}
	return t.flush()
}
