package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeLayout   ErrorType = "layout"
	ErrorTypeIO       ErrorType = "io"
	ErrorTypeRender   ErrorType = "render"
	ErrorTypeInternal ErrorType = "internal"
)

// KeymapError is a structured error carrying the keymap and layer it
// concerns.
type KeymapError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	KeymapID    string
	FilePath    string
	Layer       string
	Recoverable bool
}

// Error implements the error interface.
func (e *KeymapError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.KeymapID != "" {
		parts = append(parts, "keymap:"+e.KeymapID)
	}

	if e.Layer != "" {
		parts = append(parts, "layer:"+e.Layer)
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *KeymapError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code.
func (e *KeymapError) Is(target error) bool {
	var t *KeymapError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithKeymap adds keymap context.
func (e *KeymapError) WithKeymap(id string) *KeymapError {
	e.KeymapID = id

	return e
}

// WithFile adds the source file.
func (e *KeymapError) WithFile(path string) *KeymapError {
	e.FilePath = path

	return e
}

// WithCause sets the underlying error.
func (e *KeymapError) WithCause(cause error) *KeymapError {
	e.Cause = cause

	return e
}

// WithLayer adds layer context.
func (e *KeymapError) WithLayer(layer string) *KeymapError {
	e.Layer = layer

	return e
}

// Common error codes.
const (
	ErrCodeMalformedPath   = "ERR_MALFORMED_PATH"
	ErrCodeMalformedLayout = "ERR_MALFORMED_LAYOUT"
	ErrCodeNoLayers        = "ERR_NO_LAYERS"
	ErrCodeFileRead        = "ERR_FILE_READ"
	ErrCodeRenderFailed    = "ERR_RENDER_FAILED"
	ErrCodeRendererMissing = "ERR_RENDERER_MISSING"
	ErrCodeConfigInvalid   = "ERR_CONFIG_INVALID"
)

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *KeymapError {
	return &KeymapError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewLayoutError creates an error for unusable layout content. Layout errors
// drop one keymap from a batch and never stop it.
func NewLayoutError(code, message string, cause error) *KeymapError {
	return &KeymapError{
		Type:        ErrorTypeLayout,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *KeymapError {
	return &KeymapError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewRenderError creates an error for one failed image.
func NewRenderError(code, message string, cause error) *KeymapError {
	return &KeymapError{
		Type:        ErrorTypeRender,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// Helper functions for common errors

// ErrMalformedPath reports a discovered file outside the
// keyboards/<keyboard>/keymaps/<keymap>/ structure.
func ErrMalformedPath(path, reason string) *KeymapError {
	return NewConfigError(
		ErrCodeMalformedPath,
		"invalid path: "+reason,
	).WithFile(path)
}

// ErrMalformedLayout reports layout content that could not be interpreted.
func ErrMalformedLayout(path string, cause error) *KeymapError {
	return NewLayoutError(ErrCodeMalformedLayout, "malformed layout", cause).WithFile(path)
}

// ErrNoLayers reports a layout without a usable layers mapping.
func ErrNoLayers(path string) *KeymapError {
	return NewLayoutError(ErrCodeNoLayers, "no layers found", nil).WithFile(path)
}

// ErrFileRead reports an unreadable layout file.
func ErrFileRead(path string, cause error) *KeymapError {
	return NewIOError(ErrCodeFileRead, "cannot read layout", cause).WithFile(path)
}

// ErrRenderFailed reports one layer image the renderer could not produce.
func ErrRenderFailed(keymapID, layer string, cause error) *KeymapError {
	return NewRenderError(ErrCodeRenderFailed, "render failed", cause).
		WithKeymap(keymapID).
		WithLayer(layer)
}

// IsRecoverable checks if an error only affects one unit of a batch.
func IsRecoverable(err error) bool {
	var ke *KeymapError
	if errors.As(err, &ke) {
		return ke.Recoverable
	}

	return false
}

// IsLayoutError checks if an error is about layout content.
func IsLayoutError(err error) bool {
	var ke *KeymapError
	if errors.As(err, &ke) {
		return ke.Type == ErrorTypeLayout
	}

	return false
}

// IsType checks if err carries the given type.
func IsType(err error, errType ErrorType) bool {
	var ke *KeymapError
	if errors.As(err, &ke) {
		return ke.Type == errType
	}

	return false
}
