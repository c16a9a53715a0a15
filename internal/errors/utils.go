package errors

import (
	"errors"
)

// Wrap wraps an error with additional context, creating a KeymapError if the
// input is not already one.
func Wrap(err error, errType ErrorType, code, message string) *KeymapError {
	if err == nil {
		return nil
	}

	// If it's already a KeymapError, keep its location context
	var ke *KeymapError
	if errors.As(err, &ke) {
		return &KeymapError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       ke,
			KeymapID:    ke.KeymapID,
			FilePath:    ke.FilePath,
			Layer:       ke.Layer,
			Recoverable: ke.Recoverable,
		}
	}

	return &KeymapError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeLayout || errType == ErrorTypeRender,
	}
}

// WrapLayout wraps an error as a layout error for keymapID.
func WrapLayout(err error, keymapID, message string) *KeymapError {
	ke := Wrap(err, ErrorTypeLayout, ErrCodeMalformedLayout, message)
	if ke != nil {
		ke.KeymapID = keymapID
	}
	return ke
}

// Join combines multiple errors into one, skipping nils.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
