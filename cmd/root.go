// Package cmd provides the keymapdoc command-line interface.
//
// Configuration is read from, in order of precedence:
//
//  1. Command-line flags (--config, --log-level, --log-format)
//  2. KEYMAPDOC_<SECTION>_<OPTION> environment variables
//  3. The file named by --config or KEYMAPDOC_CONFIG_FILE
//  4. .keymapdoc.yml in the working directory
//  5. Built-in defaults
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/keymapdoc/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "keymapdoc",
	Short: "Document keyboard keymaps from their layout files",
	Long: `keymapdoc reads keymap-drawer layout files below a keyboards directory and
documents every symbol each keymap can type: which layer it lives on, which
physical key produces it, and the modifier notation needed to reach it.

Quick Start:
  keymapdoc discover              List keymaps below ./keyboards
  keymapdoc catalog -o json       Build the symbol catalog of every keymap
  keymapdoc lookup '{'            Show every way to type a symbol
  keymapdoc render                Draw layer images with keymap-drawer
  keymapdoc cheatsheet            Write an HTML cheat sheet per keymap
  keymapdoc watch                 Rebuild on layout changes`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is .keymapdoc.yml, can also use "+config.ConfigFileEnv+")")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
}

// initConfig points the global Viper instance at the config file and binds
// the persistent flags to their keys.
func initConfig(cmd *cobra.Command, _ []string) error {
	if err := config.Setup(viper.GetViper(), cfgFile, os.Getenv); err != nil {
		return err
	}

	bindings := map[string]string{
		"log.level":  "log-level",
		"log.format": "log-format",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}

	return nil
}
