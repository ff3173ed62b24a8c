// Package env builds per-dialect variable sets from shell startup files and
// applies set/remove operations across dialects.
//
// A Set is derived state: it is reconstructed on each read by scanning all of
// a dialect's existing candidate files and merging with first-file-wins
// precedence. A variable found in more than one file of the same dialect is
// kept from the earlier file and the shadowed occurrence is reported as a
// Warning, never silently dropped.
package env

import (
	"github.com/TuMee-Dev/setvar/internal/shell"
	"github.com/TuMee-Dev/setvar/internal/vardecl"
)

// Variable is one key/value pair together with the file that defines it.
type Variable struct {
	Key   string
	Value string
	Path  string
}

// Set maps variable keys to their effective value for one dialect at one
// point in time.
type Set map[string]Variable

// Keys returns the set's keys in unspecified order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}

// Warning flags a variable declared in more than one file of one dialect.
// The declaration in Path is shadowed by the one in WinnerPath.
type Warning struct {
	Key        string
	Path       string
	WinnerPath string
}

// FileError records a file that was skipped during set construction because
// its content could not be parsed. Its declarations are absent from the set.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error {
	return e.Err
}

// BuildSet merges the variables of all existing candidates, in candidate
// priority order, into a Set. Duplicates across files become Warnings.
//
// A file whose content cannot be parsed is skipped and reported as a
// FileError; one bad file never hides the variables of the clean ones.
func BuildSet(cands []shell.Candidate) (Set, []Warning, []FileError) {
	set := make(Set)
	var warnings []Warning
	var fileErrs []FileError

	for _, c := range shell.ReadTargets(cands) {
		decls, err := vardecl.LocateAll(c.Lines)
		if err != nil {
			fileErrs = append(fileErrs, FileError{Path: c.Path, Err: err})
			continue
		}
		for _, d := range decls {
			if winner, ok := set[d.Key]; ok {
				warnings = append(warnings, Warning{
					Key:        d.Key,
					Path:       c.Path,
					WinnerPath: winner.Path,
				})
				continue
			}
			set[d.Key] = Variable{Key: d.Key, Value: d.Value, Path: c.Path}
		}
	}

	return set, warnings, fileErrs
}
