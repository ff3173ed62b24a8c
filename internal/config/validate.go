package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/TuMee-Dev/setvar/internal/shell"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrInvalidShell indicates an unrecognized shell name.
	ErrInvalidShell = errors.New("invalid shell")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrNegativeRetention indicates backup.retention is negative.
	ErrNegativeRetention = errors.New("backup retention must be >= 0")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	for _, name := range cfg.DefaultShells {
		if !shell.Valid(name) {
			errs = append(errs, &ShellError{Shell: name, Err: ErrInvalidShell})
		}
	}

	if cfg.Backup.Retention < 0 {
		errs = append(errs, ErrNegativeRetention)
	}

	if cfg.Backup.Dir != "" {
		if err := validatePath(cfg.Backup.Dir); err != nil {
			errs = append(errs, &PathError{
				Field: "backup.dir",
				Path:  cfg.Backup.Dir,
				Err:   err,
			})
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// ShellError represents an error for a specific shell name.
type ShellError struct {
	Shell string
	Err   error
}

func (e *ShellError) Error() string {
	return e.Err.Error() + ": " + e.Shell
}

func (e *ShellError) Unwrap() error {
	return e.Err
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
