package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	kerrors "github.com/conneroisu/keymapdoc/internal/errors"
	"github.com/conneroisu/keymapdoc/internal/logging"
)

// ValidationError is one rejected configuration value.
type ValidationError struct {
	Field       string
	Value       any
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds every problem found in a configuration.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// Error joins the error messages so a result can be used as a cause.
func (vr *ValidationResult) Error() string {
	msgs := make([]string, len(vr.Errors))
	for i := range vr.Errors {
		msgs[i] = vr.Errors[i].Field + ": " + vr.Errors[i].Message
	}
	return strings.Join(msgs, "; ")
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	write := func(title string, issues []ValidationError) {
		if len(issues) == 0 {
			return
		}
		builder.WriteString(title + ":\n")
		for _, issue := range issues {
			fmt.Fprintf(&builder, "  • %s: %s\n", issue.Field, issue.Message)
			for _, suggestion := range issue.Suggestions {
				fmt.Fprintf(&builder, "    - %s\n", suggestion)
			}
		}
	}
	write("Validation errors", vr.Errors)
	write("Validation warnings", vr.Warnings)

	return builder.String()
}

var imageExtPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

var logFormats = []string{"text", "json"}

// Validate checks cfg and reports every problem found.
func Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}

	validateKeyboards(&cfg.Keyboards, result)
	validateCatalog(&cfg.Catalog, result)
	validateRender(&cfg.Render, result)
	validateOutputDir("cheatsheet.output_dir", cfg.Cheatsheet.OutputDir, result)
	validateWatch(&cfg.Watch, result)
	validateLog(&cfg.Log, result)

	return result
}

func validateKeyboards(c *KeyboardsConfig, result *ValidationResult) {
	if c.Root == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:       "keyboards.root",
			Value:       c.Root,
			Message:     "keyboards root cannot be empty",
			Suggestions: []string{"Use './keyboards' for the standard repository layout"},
		})
	}

	if len(c.LayoutFiles) == 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:       "keyboards.layout_files",
			Value:       c.LayoutFiles,
			Message:     "at least one layout file name is required",
			Suggestions: []string{"Use [layout.yaml, keymap.yaml]"},
		})
	}
	for _, name := range c.LayoutFiles {
		if name == "" || strings.ContainsAny(name, `/\`) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "keyboards.layout_files",
				Value:   name,
				Message: fmt.Sprintf("%q is not a plain file name", name),
			})
		}
	}
}

func validateCatalog(c *CatalogConfig, result *ValidationResult) {
	if c.Workers < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:       "catalog.workers",
			Value:       c.Workers,
			Message:     fmt.Sprintf("workers must not be negative, got %d", c.Workers),
			Suggestions: []string{"Use 0 to pick a worker count from the number of CPUs"},
		})
	}

	if c.PublicRoot == "" {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "catalog.public_root",
			Value:   c.PublicRoot,
			Message: "empty public root; image paths will be relative",
		})
	}
}

func validateRender(c *RenderConfig, result *ValidationResult) {
	command := strings.TrimSpace(c.Command)
	switch {
	case command == "":
		result.Errors = append(result.Errors, ValidationError{
			Field:       "render.command",
			Value:       c.Command,
			Message:     "render command cannot be empty",
			Suggestions: []string{"Use 'keymap' from keymap-drawer (pip install keymap-drawer)"},
		})
	case strings.ContainsAny(command, ";&|$`<>\"' "):
		result.Errors = append(result.Errors, ValidationError{
			Field:       "render.command",
			Value:       c.Command,
			Message:     "render command must be a single executable name or path",
			Suggestions: []string{"Arguments are supplied by keymapdoc; do not include them"},
		})
	}

	validateOutputDir("render.output_dir", c.OutputDir, result)

	if !imageExtPattern.MatchString(c.ImageExt) {
		result.Errors = append(result.Errors, ValidationError{
			Field:       "render.image_ext",
			Value:       c.ImageExt,
			Message:     fmt.Sprintf("image extension %q must be alphanumeric", c.ImageExt),
			Suggestions: []string{"Use 'svg' or 'png'"},
		})
	}
}

// ValidateOutputDir applies the output directory rules to a value set
// outside the configuration file, such as a flag override.
func ValidateOutputDir(field, dir string) error {
	result := &ValidationResult{}
	validateOutputDir(field, dir, result)
	if result.HasErrors() {
		return kerrors.NewConfigError(kerrors.ErrCodeConfigInvalid, "invalid output directory").WithCause(result)
	}
	return nil
}

// validateOutputDir rejects empty directories and any ".." segment.
func validateOutputDir(field, dir string, result *ValidationResult) {
	if dir == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   field,
			Value:   dir,
			Message: "output directory cannot be empty",
		})
		return
	}

	segments := strings.Split(filepath.ToSlash(dir), "/")
	if slices.Contains(segments, "..") {
		result.Errors = append(result.Errors, ValidationError{
			Field:       field,
			Value:       dir,
			Message:     fmt.Sprintf("output directory %q contains path traversal", dir),
			Suggestions: []string{"Use a directory inside the repository"},
		})
	}
}

func validateWatch(c *WatchConfig, result *ValidationResult) {
	if c.Debounce < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "watch.debounce",
			Value:   c.Debounce,
			Message: "debounce must not be negative",
		})
	}
}

func validateLog(c *LogConfig, result *ValidationResult) {
	if _, err := logging.ParseLevel(c.Level); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:       "log.level",
			Value:       c.Level,
			Message:     err.Error(),
			Suggestions: []string{"Use debug, info, warn or error"},
		})
	}

	if !slices.Contains(logFormats, c.Format) {
		result.Errors = append(result.Errors, ValidationError{
			Field:       "log.format",
			Value:       c.Format,
			Message:     fmt.Sprintf("unknown log format %q", c.Format),
			Suggestions: []string{"Use " + strings.Join(logFormats, " or ")},
		})
	}
}
