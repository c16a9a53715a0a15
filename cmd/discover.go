package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:     "discover",
	Aliases: []string{"ls"},
	Short:   "List discovered keymaps",
	Long: `List every layout file below the keyboards root together with the keymap
identity derived from its path (keyboards/<keyboard>/keymaps/<keymap>/).

Examples:
  keymapdoc discover              # Table of keymaps
  keymapdoc ls -o json            # Output as JSON`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

var discoverFormat string

func init() {
	rootCmd.AddCommand(discoverCmd)
	addOutputFlag(discoverCmd, &discoverFormat)
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	infos, err := a.discover(cmd.Context(), nil)
	if err != nil {
		return err
	}

	if done, err := writeStructured(a.out, discoverFormat, infos); done {
		return err
	}

	if len(infos) == 0 {
		fmt.Fprintln(a.out, "No keymaps found.")
		return nil
	}

	t := newTable(a.out, "ID", "KEYBOARD", "KEYMAP", "PATH")
	for _, info := range infos {
		t.row(info.ID, info.Keyboard, info.Keymap, info.Path)
	}
	return t.flush()
}
