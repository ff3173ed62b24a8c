// Package shell maps supported shell dialects to their startup files and
// resolves which file an operation should read or write.
//
// Resolution is a pure function over an explicitly-passed snapshot of
// candidate files and their content, so the selection rules can be tested
// without touching a real home directory. Registry is the thin
// filesystem-backed loader that builds such snapshots.
package shell

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	setvarerrors "github.com/TuMee-Dev/setvar/internal/errors"
)

// Dialect identifies a supported shell.
type Dialect string

// Supported dialects.
const (
	Bash Dialect = "bash"
	Zsh  Dialect = "zsh"
	Sh   Dialect = "sh"
)

// candidateFiles maps each dialect to its ordered candidate startup files,
// relative to the home directory. Order defines selection and creation
// priority.
var candidateFiles = map[Dialect][]string{
	Bash: {".bashrc", ".bash_profile", ".profile"},
	Zsh:  {".zshrc", ".zprofile", ".zshenv"},
	Sh:   {".profile"},
}

// Dialects returns all supported dialects in deterministic order.
func Dialects() []Dialect {
	return []Dialect{Bash, Zsh, Sh}
}

// Valid reports whether name is a supported dialect identifier.
func Valid(name string) bool {
	_, ok := candidateFiles[Dialect(name)]
	return ok
}

// ParseDialect maps a dialect name to its Dialect.
func ParseDialect(name string) (Dialect, error) {
	d := Dialect(name)
	if _, ok := candidateFiles[d]; !ok {
		names := make([]string, 0, len(candidateFiles))
		for _, known := range Dialects() {
			names = append(names, string(known))
		}
		return "", errors.Wrapf(setvarerrors.ErrUnsupportedShell, "%q (valid: %s)", name, strings.Join(names, ", "))
	}
	return d, nil
}

// CandidateFiles returns the dialect's startup file names relative to the
// home directory, in priority order.
func (d Dialect) CandidateFiles() []string {
	files := candidateFiles[d]
	out := make([]string, len(files))
	copy(out, files)
	return out
}

// CandidatePaths returns the dialect's candidate startup files as absolute
// paths under home, in priority order.
func CandidatePaths(d Dialect, home string) []string {
	files := candidateFiles[d]
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(home, f)
	}
	return paths
}

// Detect maps the invoking shell's identity to a supported Dialect by
// inspecting the SHELL environment variable. Returns ErrUnsupportedShell if
// the shell is unrecognized; the caller must then require an explicit
// dialect.
func Detect() (Dialect, error) {
	return DetectFrom(os.Getenv("SHELL"))
}

// DetectFrom maps a shell path like "/bin/zsh" to a Dialect.
// The match is on the executable name, so "/usr/local/bin/bash" works and
// a path that merely contains "sh" elsewhere does not.
func DetectFrom(shellPath string) (Dialect, error) {
	name := filepath.Base(shellPath)
	switch {
	case strings.Contains(name, "bash"):
		return Bash, nil
	case strings.Contains(name, "zsh"):
		return Zsh, nil
	case name == "sh" || name == "dash" || name == "ash":
		// POSIX sh and its minimal descendants share .profile semantics.
		return Sh, nil
	}
	return "", errors.Wrapf(setvarerrors.ErrUnsupportedShell, "%q", shellPath)
}
