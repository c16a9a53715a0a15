package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/keymapdoc/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display the keymapdoc version, commit, build time, Go version and
platform.

Examples:
  keymapdoc version              # One line
  keymapdoc version --detailed   # Every field
  keymapdoc version -o json      # Output as JSON`,
	Args: cobra.NoArgs,
	RunE: runVersion,
	// Version output must not depend on a valid configuration.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
}

var (
	versionFormat   string
	versionDetailed bool
)

func init() {
	rootCmd.AddCommand(versionCmd)
	addOutputFlag(versionCmd, &versionFormat)
	versionCmd.Flags().BoolVar(&versionDetailed, "detailed", false, "Show detailed version information")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	info := version.Get()
	out := cmd.OutOrStdout()

	if done, err := writeStructured(out, versionFormat, info); done {
		return err
	}

	if versionDetailed {
		fmt.Fprintln(out, info.Detailed())
		return nil
	}
	fmt.Fprintln(out, info.Short())
	return nil
}
