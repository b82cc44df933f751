// Package vizerr defines the error taxonomy shared by the loaders and renderers.
// Every error here is terminal for the current invocation.
package vizerr

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput marks a structurally invalid trajectory, obstacle or
	// activity file.
	ErrMalformedInput = errors.New("malformed input")

	// ErrEmptyInput marks input with zero timesteps or zero segments.
	ErrEmptyInput = errors.New("empty input")

	// ErrRenderSink marks a failure of the rendering backend or video encoder.
	ErrRenderSink = errors.New("render sink failure")
)

// InputError describes a malformed input file. Line is 1-based; 0 means the
// problem is not tied to a single line.
type InputError struct {
	Path   string
	Line   int
	Reason string
}

func (e *InputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Is reports InputError as ErrMalformedInput.
func (e *InputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// Malformed builds an InputError with a formatted reason.
func Malformed(path string, line int, format string, args ...any) error {
	return &InputError{Path: path, Line: line, Reason: fmt.Sprintf(format, args...)}
}

// Empty wraps ErrEmptyInput with the offending file and what was missing.
func Empty(path, what string) error {
	return fmt.Errorf("%s: no %s: %w", path, what, ErrEmptyInput)
}

// sinkError keeps the backend message verbatim while matching ErrRenderSink.
type sinkError struct {
	op  string
	err error
}

func (e *sinkError) Error() string { return e.op + ": " + e.err.Error() }
func (e *sinkError) Unwrap() []error { return []error{ErrRenderSink, e.err} }

// Sink wraps a backend failure from operation op. A nil err returns nil.
func Sink(op string, err error) error {
	if err == nil {
		return nil
	}
	return &sinkError{op: op, err: err}
}
