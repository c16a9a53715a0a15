// Package config loads keymapdoc settings through Viper from a YAML file,
// KEYMAPDOC_ environment variables, and command-line flags.
//
// Every key has a default registered by SetDefaults, so a missing config
// file is never an error and every key can be overridden from the
// environment (keyboards.root becomes KEYMAPDOC_KEYBOARDS_ROOT).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	kerrors "github.com/conneroisu/keymapdoc/internal/errors"
)

// File lookup.
const (
	ConfigName    = ".keymapdoc"
	EnvPrefix     = "KEYMAPDOC"
	ConfigFileEnv = "KEYMAPDOC_CONFIG_FILE"
)

type Config struct {
	Keyboards  KeyboardsConfig  `mapstructure:"keyboards" yaml:"keyboards" json:"keyboards"`
	Catalog    CatalogConfig    `mapstructure:"catalog" yaml:"catalog" json:"catalog"`
	Render     RenderConfig     `mapstructure:"render" yaml:"render" json:"render"`
	Cheatsheet CheatsheetConfig `mapstructure:"cheatsheet" yaml:"cheatsheet" json:"cheatsheet"`
	Watch      WatchConfig      `mapstructure:"watch" yaml:"watch" json:"watch"`
	Log        LogConfig        `mapstructure:"log" yaml:"log" json:"log"`
}

type KeyboardsConfig struct {
	Root             string   `mapstructure:"root" yaml:"root" json:"root"`
	LayoutFiles      []string `mapstructure:"layout_files" yaml:"layout_files" json:"layout_files"`
	RespectGitignore bool     `mapstructure:"respect_gitignore" yaml:"respect_gitignore" json:"respect_gitignore"`
}

type CatalogConfig struct {
	// SymbolMap is an override mapping file; empty uses the embedded table.
	SymbolMap  string `mapstructure:"symbol_map" yaml:"symbol_map" json:"symbol_map"`
	PublicRoot string `mapstructure:"public_root" yaml:"public_root" json:"public_root"`
	// Workers bounds concurrent keymap builds; 0 picks a default.
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`
}

type RenderConfig struct {
	Command   string `mapstructure:"command" yaml:"command" json:"command"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	ImageExt  string `mapstructure:"image_ext" yaml:"image_ext" json:"image_ext"`
}

type CheatsheetConfig struct {
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce" json:"debounce"`
	// Cheatsheets also rewrites the cheat sheet of every rebuilt keymap.
	Cheatsheets bool `mapstructure:"cheatsheets" yaml:"cheatsheets" json:"cheatsheets"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

var defaults = map[string]any{
	"keyboards.root":              "./keyboards",
	"keyboards.layout_files":      []string{"layout.yaml", "keymap.yaml"},
	"keyboards.respect_gitignore": true,
	"catalog.symbol_map":          "",
	"catalog.public_root":         "/public/generated",
	"catalog.workers":             0,
	"render.command":              "keymap",
	"render.output_dir":           "website/public/generated",
	"render.image_ext":            "svg",
	"cheatsheet.output_dir":       "website/_site/cheatsheets",
	"watch.debounce":              300 * time.Millisecond,
	"watch.cheatsheets":           false,
	"log.level":                   "info",
	"log.format":                  "text",
}

// SetDefaults registers every key and its default on v.
func SetDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// Setup points v at the config file and enables environment overrides.
// An explicit file wins over KEYMAPDOC_CONFIG_FILE, which wins over
// ./.keymapdoc.yml. A missing default file is not an error.
func Setup(v *viper.Viper, file string, getenv func(string) string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case file != "":
		v.SetConfigFile(file)
	case getenv(ConfigFileEnv) != "":
		v.SetConfigFile(getenv(ConfigFileEnv))
	default:
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(ConfigName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && getenv(ConfigFileEnv) == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Load decodes and validates the configuration held by the global Viper
// instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom decodes and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, kerrors.NewConfigError(kerrors.ErrCodeConfigInvalid, "cannot decode configuration").
			WithCause(err)
	}

	// Viper hands comma-separated env values over as one string.
	if len(cfg.Keyboards.LayoutFiles) == 1 && strings.Contains(cfg.Keyboards.LayoutFiles[0], ",") {
		cfg.Keyboards.LayoutFiles = splitList(cfg.Keyboards.LayoutFiles[0])
	}
	cfg.Render.ImageExt = strings.TrimPrefix(cfg.Render.ImageExt, ".")

	if result := Validate(&cfg); result.HasErrors() {
		return nil, kerrors.NewConfigError(kerrors.ErrCodeConfigInvalid, "invalid configuration").
			WithCause(result)
	}

	return &cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
