// Package errors defines the typed failures raised by the photo engine.
//
// Engine packages return *Error values so that callers (the MCP server, the CLI,
// an upload orchestrator) can decide how to react by Kind without string matching.
// The engine itself never retries; retry policy belongs to the caller.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Kind is the category of an engine failure.
type Kind string

const (
	// KindInvalidColorFormat indicates a hex color string that could not be parsed.
	KindInvalidColorFormat Kind = "invalid_color_format"
	// KindProcessing indicates a render or analysis step that produced no result.
	KindProcessing Kind = "processing_failure"
	// KindCompression indicates an encode that could not meet the size cap.
	KindCompression Kind = "compression_failure"
	// KindValidation indicates malformed caller input (records, tool arguments).
	KindValidation Kind = "validation"
	// KindNotFound indicates a missing session or draft.
	KindNotFound Kind = "not_found"
)

// Error is a structured engine error.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether a caller may reasonably retry the failed call.
// Only processing failures caused by cancellation or a deadline qualify.
func (e *Error) Retryable() bool {
	if e.Kind != KindProcessing || e.Cause == nil {
		return false
	}
	return errors.Is(e.Cause, context.Canceled) || errors.Is(e.Cause, context.DeadlineExceeded)
}

// InvalidColorFormat creates an error for an unparseable hex color.
func InvalidColorFormat(input string) *Error {
	return &Error{
		Kind:    KindInvalidColorFormat,
		Op:      "hex",
		Message: fmt.Sprintf("invalid hex color %q", input),
	}
}

// Processing creates a render/analysis failure.
func Processing(op, message string, cause error) *Error {
	return &Error{Kind: KindProcessing, Op: op, Message: message, Cause: cause}
}

// Compression creates an encode failure.
func Compression(message string, cause error) *Error {
	return &Error{Kind: KindCompression, Op: "compress", Message: message, Cause: cause}
}

// Validation creates an input validation failure.
func Validation(op, message string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

// NotFound creates a missing-resource failure.
func NotFound(op, message string, cause error) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: message, Cause: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
