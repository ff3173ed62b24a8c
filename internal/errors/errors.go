package errors

import (
	"errors"
	"fmt"
)

// Exit codes for the setvar CLI.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, configuration, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, permissions, etc.).
	ExitSystem = 2
)

// Sentinel errors for the variable-management failure taxonomy.
var (
	// ErrInvalidKey indicates a variable name that fails validation.
	// Names must match [A-Za-z_][A-Za-z0-9_]*.
	ErrInvalidKey = errors.New("invalid variable name")

	// ErrInvalidValue indicates a value that cannot be represented on a
	// single declaration line, such as one containing a line break.
	ErrInvalidValue = errors.New("invalid value")

	// ErrMalformedLiteral indicates a quoted value that cannot be parsed
	// (unbalanced or mismatched quotes).
	ErrMalformedLiteral = errors.New("malformed value literal")

	// ErrUnsupportedShell indicates the invoking shell could not be mapped
	// to a supported dialect. The caller must supply --shell explicitly.
	ErrUnsupportedShell = errors.New("unsupported shell")

	// ErrBackupNotFound indicates no backup exists for the given identifier.
	ErrBackupNotFound = errors.New("backup not found")

	// ErrVariableNotFound indicates the requested variable is not declared
	// in any configuration file for the dialect.
	ErrVariableNotFound = errors.New("variable not found")

	// ErrFileAccess wraps filesystem failures on a configuration file.
	ErrFileAccess = errors.New("file access failed")
)

// ExitError wraps an error with an exit code and optional suggestion for the CLI.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// New returns an error with the supplied message.
// Re-exported so callers need only one errors import.
func New(text string) error {
	return errors.New(text)
}

// Newf returns an error with a formatted message.
func Newf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Wrap returns an error annotating err with the supplied message.
// Returns nil if err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf returns an error annotating err with a formatted message.
// Returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
