package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/conneroisu/keymapdoc/internal/errors"
)

func noEnv(string) string { return "" }

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keymapdoc.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "./keyboards", cfg.Keyboards.Root)
	assert.Equal(t, []string{"layout.yaml", "keymap.yaml"}, cfg.Keyboards.LayoutFiles)
	assert.True(t, cfg.Keyboards.RespectGitignore)
	assert.Empty(t, cfg.Catalog.SymbolMap)
	assert.Equal(t, "/public/generated", cfg.Catalog.PublicRoot)
	assert.Zero(t, cfg.Catalog.Workers)
	assert.Equal(t, "keymap", cfg.Render.Command)
	assert.Equal(t, "website/public/generated", cfg.Render.OutputDir)
	assert.Equal(t, "svg", cfg.Render.ImageExt)
	assert.Equal(t, "website/_site/cheatsheets", cfg.Cheatsheet.OutputDir)
	assert.Equal(t, 300*time.Millisecond, cfg.Watch.Debounce)
	assert.False(t, cfg.Watch.Cheatsheets)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadGlobalViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("render.command", "keymap-drawer")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "keymap-drawer", cfg.Render.Command)
}

func TestSetupReadsExplicitFile(t *testing.T) {
	path := writeConfig(t, `
keyboards:
  root: ./boards
  layout_files: [layout.yaml]
  respect_gitignore: false
catalog:
  workers: 3
render:
  image_ext: .png
watch:
  debounce: 1s
  cheatsheets: true
log:
  level: debug
  format: json
`)

	v := viper.New()
	require.NoError(t, Setup(v, path, noEnv))
	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "./boards", cfg.Keyboards.Root)
	assert.Equal(t, []string{"layout.yaml"}, cfg.Keyboards.LayoutFiles)
	assert.False(t, cfg.Keyboards.RespectGitignore)
	assert.Equal(t, 3, cfg.Catalog.Workers)
	assert.Equal(t, "png", cfg.Render.ImageExt)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.True(t, cfg.Watch.Cheatsheets)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	// Unset keys keep their defaults.
	assert.Equal(t, "keymap", cfg.Render.Command)
}

func TestSetupConfigFileFromEnvironment(t *testing.T) {
	path := writeConfig(t, "render:\n  command: /opt/bin/keymap\n")
	getenv := func(key string) string {
		if key == ConfigFileEnv {
			return path
		}
		return ""
	}

	v := viper.New()
	require.NoError(t, Setup(v, "", getenv))
	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "/opt/bin/keymap", cfg.Render.Command)
}

func TestSetupFlagFileWinsOverEnvironment(t *testing.T) {
	flagFile := writeConfig(t, "render:\n  image_ext: png\n")
	envFile := writeConfig(t, "render:\n  image_ext: jpg\n")
	getenv := func(key string) string {
		if key == ConfigFileEnv {
			return envFile
		}
		return ""
	}

	v := viper.New()
	require.NoError(t, Setup(v, flagFile, getenv))
	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "png", cfg.Render.ImageExt)
}

func TestSetupMissingExplicitFile(t *testing.T) {
	err := Setup(viper.New(), filepath.Join(t.TempDir(), "missing.yml"), noEnv)
	assert.Error(t, err)
}

func TestSetupWithoutDefaultFile(t *testing.T) {
	chdir(t, t.TempDir())
	assert.NoError(t, Setup(viper.New(), "", noEnv))
}

func TestEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("KEYMAPDOC_KEYBOARDS_ROOT", "/srv/keyboards")
	t.Setenv("KEYMAPDOC_CATALOG_WORKERS", "2")
	t.Setenv("KEYMAPDOC_KEYBOARDS_LAYOUT_FILES", "a.yaml,b.yaml")

	v := viper.New()
	require.NoError(t, Setup(v, "", os.Getenv))
	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "/srv/keyboards", cfg.Keyboards.Root)
	assert.Equal(t, 2, cfg.Catalog.Workers)
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, cfg.Keyboards.LayoutFiles)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
		field string
	}{
		{"render output traversal", "render.output_dir", "../outside", "render.output_dir"},
		{"cheatsheet output traversal", "cheatsheet.output_dir", "site/../../etc", "cheatsheet.output_dir"},
		{"empty command", "render.command", "  ", "render.command"},
		{"command with arguments", "render.command", "keymap draw", "render.command"},
		{"non-alphanumeric extension", "render.image_ext", "s-vg", "render.image_ext"},
		{"negative workers", "catalog.workers", -1, "catalog.workers"},
		{"unknown log format", "log.format", "xml", "log.format"},
		{"unknown log level", "log.level", "loud", "log.level"},
		{"negative debounce", "watch.debounce", "-1s", "watch.debounce"},
		{"empty layout file names", "keyboards.layout_files", []string{}, "keyboards.layout_files"},
		{"nested layout file name", "keyboards.layout_files", []string{"sub/layout.yaml"}, "keyboards.layout_files"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)

			cfg, err := LoadFrom(v)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, kerrors.IsType(err, kerrors.ErrorTypeConfig))

			var result *ValidationResult
			require.True(t, errors.As(err, &result))
			require.NotEmpty(t, result.Errors)
			assert.Equal(t, tt.field, result.Errors[0].Field)
		})
	}
}

func TestValidateOutputDir(t *testing.T) {
	assert.NoError(t, ValidateOutputDir("--output-dir", "site/img"))

	err := ValidateOutputDir("--output-dir", "../outside")
	require.Error(t, err)
	assert.True(t, kerrors.IsType(err, kerrors.ErrorTypeConfig))
	assert.Contains(t, err.Error(), "path traversal")

	var result *ValidationResult
	require.True(t, errors.As(err, &result))
	assert.Equal(t, "--output-dir", result.Errors[0].Field)
}

func TestValidationResultString(t *testing.T) {
	result := Validate(&Config{
		Keyboards:  KeyboardsConfig{Root: "k", LayoutFiles: []string{"layout.yaml"}},
		Render:     RenderConfig{Command: "keymap", OutputDir: "out", ImageExt: "svg"},
		Cheatsheet: CheatsheetConfig{OutputDir: "sheets"},
		Log:        LogConfig{Level: "info", Format: "text"},
	})

	assert.False(t, result.HasErrors())
	assert.True(t, result.HasWarnings(), "empty public root warns")
	assert.Contains(t, result.String(), "catalog.public_root")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
