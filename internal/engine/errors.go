package engine

import (
	"errors"
	"fmt"
)

// Errors returned by engine operations.
var (
	// ErrIllegalCharacters indicates text containing control characters that
	// a styled text buffer cannot hold.
	ErrIllegalCharacters = errors.New("illegal characters in text")

	// ErrBinaryContent indicates a plain text stream that looks binary.
	ErrBinaryContent = errors.New("binary content")

	// ErrUnsupportedVersion indicates a private format newer than this reader.
	ErrUnsupportedVersion = errors.New("unsupported private format version")

	// ErrMalformed indicates a private format stream that cannot be parsed.
	ErrMalformed = errors.New("malformed private format")

	// ErrInvalidRange indicates a range that does not fit the buffer.
	ErrInvalidRange = errors.New("invalid range")
)

// FormatError describes a syntax error in a private format stream.
type FormatError struct {
	Offset int64  // bytes consumed when the error was detected
	Reason string // what was expected
}

// Error implements error.
func (e *FormatError) Error() string {
	return fmt.Sprintf("private format at byte %d: %s", e.Offset, e.Reason)
}

// Unwrap lets errors.Is match ErrMalformed.
func (e *FormatError) Unwrap() error {
	return ErrMalformed
}
