package yamldoc

import (
	"errors"
	"fmt"
)

// Document editing errors.
var (
	// ErrNilField is returned when SetValue is called with a nil field.
	ErrNilField = errors.New("nil field")

	// ErrNotScalar is returned when the mutation target is not a scalar node.
	ErrNotScalar = errors.New("target node is not a scalar")

	// ErrUnsupportedStyle is returned for literal, folded and multi-line
	// scalars, which cannot be edited as a single in-line token.
	ErrUnsupportedStyle = errors.New("scalar style does not support in-place editing")

	// ErrLineOutOfRange is returned when a node's recorded line does not
	// exist in the document.
	ErrLineOutOfRange = errors.New("scalar position outside document")

	// ErrTokenNotFound is returned when the rendered scalar token is not at
	// the node's recorded position. The document is left unmodified.
	ErrTokenNotFound = errors.New("scalar token not found at recorded position")
)

// WrapParse wraps a yaml parse failure with context.
func WrapParse(err error) error {
	return fmt.Errorf("failed to parse yaml document: %w", err)
}

// WrapTokenNotFound wraps ErrTokenNotFound with the token and position for context.
func WrapTokenNotFound(token string, line, column int) error {
	return fmt.Errorf("%w: %q at line %d column %d", ErrTokenNotFound, token, line, column)
}

// WrapLineOutOfRange wraps ErrLineOutOfRange with the offending line number.
func WrapLineOutOfRange(line, total int) error {
	return fmt.Errorf("%w: line %d of %d", ErrLineOutOfRange, line, total)
}
