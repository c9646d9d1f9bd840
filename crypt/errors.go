package crypt

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedTransform is returned for unknown methods and for attempts to
	// decrypt a one-way hash.
	ErrUnsupportedTransform = errors.New("typepick: unsupported transform")

	// ErrMissingKey is returned when an AES transform has no key and no default key is configured.
	ErrMissingKey = errors.New("typepick: no encryption key configured")

	// ErrInvalidCiphertext is returned when a literal cannot be decoded or unpadded.
	ErrInvalidCiphertext = errors.New("typepick: invalid ciphertext")
)

// TransformError describes why a transform could not be rendered.
type TransformError struct {
	Method    Method
	Direction Direction
	Reason    string
}

// Error implements the error interface.
func (e *TransformError) Error() string {
	return fmt.Sprintf("typepick: cannot %s with method %q: %s", e.Direction, e.Method, e.Reason)
}

// Unwrap allows errors.Is(err, ErrUnsupportedTransform).
func (e *TransformError) Unwrap() error {
	return ErrUnsupportedTransform
}
