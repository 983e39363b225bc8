// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"errors"
	"fmt"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Setup
	OpConfigLoad Op = "load configuration"
	OpStateOpen  Op = "open state database"

	// Catalogue operations
	OpCatalogueImport Op = "import catalogue"
	OpCatalogueLoad   Op = "load catalogue"
	OpCatalogueList   Op = "list catalogue sources"

	// Per-file operations
	OpRetagFile Op = "retag file"

	// Run operations
	OpRetag     Op = "retag folder"
	OpRunSave   Op = "save run journal"
	OpRunLoad   Op = "load run journal"
	OpVirtualDJ Op = "update VirtualDJ database"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Error is an error that renders as a user-facing message while keeping
// the cause reachable through errors.Is and errors.As.
type Error struct {
	Op      Op
	Context string
	Err     error
}

func (e *Error) Error() string { return FormatWith(e.Op, e.Context, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Wrap returns err as an *Error for op, or nil when err is nil. An error
// already wrapped by Wrap is returned unchanged.
func Wrap(op Op, err error) error {
	return WrapWith(op, "", err)
}

// WrapWith is Wrap with context, usually a file or run name.
func WrapWith(op Op, context string, err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return &Error{Op: op, Context: context, Err: err}
}
