package alphasign

import (
	"errors"
	"fmt"
)

var (
	// Construction errors
	ErrValidation = errors.New("alphasign: invalid file parameters")

	// Builder errors
	ErrUnsupportedFileKind = errors.New("alphasign: unsupported file kind")
	ErrEmptyAllocation     = errors.New("alphasign: no files to allocate")

	// Transport errors
	ErrTransport    = errors.New("alphasign: transport failure")
	ErrNotConnected = errors.New("alphasign: link not connected")
	ErrShortWrite   = errors.New("alphasign: link accepted no bytes")
)

// ValidationError reports a device file rejected at construction.
type ValidationError struct {
	Kind   FileKind
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("alphasign: %s %s: %s", e.Kind, e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) match every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(kind FileKind, field, format string, args ...any) error {
	return &ValidationError{Kind: kind, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// TransportError wraps a failure of the underlying link.
type TransportError struct {
	// Op is the failed operation: "connect", "write" or "disconnect".
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("alphasign: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrTransport) match every TransportError.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
