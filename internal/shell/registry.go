package shell

import (
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"

	setvarerrors "github.com/TuMee-Dev/setvar/internal/errors"
	"github.com/TuMee-Dev/setvar/internal/vardecl"
	"github.com/TuMee-Dev/setvar/pkg/fileutil"
)

// Candidate is a snapshot of one candidate startup file: its path, whether
// it exists, and its content split into lines. Snapshots decouple resolution
// from the filesystem.
type Candidate struct {
	// Path is the absolute path of the candidate file.
	Path string

	// Exists reports whether the file existed when the snapshot was taken.
	Exists bool

	// Lines is the file content split into lines. Nil for absent files.
	Lines []string

	// FinalNewline records the file's trailing-newline convention.
	FinalNewline bool

	// Mode is the file's permission bits, 0644 for files to be created.
	Mode fs.FileMode
}

// ResolveWriteTarget picks the candidate a write of key should go to:
// the first existing candidate that already declares the key (active or
// commented), else the first existing candidate, else the first candidate
// overall, to be created by the writer. Candidates must be in priority order.
func ResolveWriteTarget(cands []Candidate, key string) (Candidate, error) {
	if len(cands) == 0 {
		return Candidate{}, errors.New("no candidate files")
	}

	for _, c := range cands {
		if c.Exists && vardecl.Contains(c.Lines, key) {
			return c, nil
		}
	}
	for _, c := range cands {
		if c.Exists {
			return c, nil
		}
	}
	return cands[0], nil
}

// ReadTargets returns the existing candidates in priority order.
func ReadTargets(cands []Candidate) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Exists {
			out = append(out, c)
		}
	}
	return out
}

// Registry resolves dialects to filesystem snapshots of their candidate
// startup files.
type Registry struct {
	home string
}

// Option configures a Registry.
type Option func(*Registry)

// WithHome overrides the home directory, primarily for tests.
func WithHome(dir string) Option {
	return func(r *Registry) {
		r.home = dir
	}
}

// NewRegistry creates a Registry rooted at the user's home directory.
func NewRegistry(opts ...Option) (*Registry, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	r := &Registry{home: home}
	for _, opt := range opts {
		opt(r)
	}
	if r.home == "" {
		return nil, errors.New("home directory not found")
	}
	return r, nil
}

// Home returns the registry's home directory.
func (r *Registry) Home() string {
	return r.home
}

// Snapshot reads the current state of the dialect's candidate files.
// Absent files produce a Candidate with Exists=false; read failures on
// existing files are surfaced wrapped in ErrFileAccess.
func (r *Registry) Snapshot(d Dialect) ([]Candidate, error) {
	paths := CandidatePaths(d, r.home)
	cands := make([]Candidate, 0, len(paths))

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				cands = append(cands, Candidate{Path: path, Mode: 0o644})
				continue
			}
			return nil, errors.Wrapf(setvarerrors.ErrFileAccess, "stat %s: %v", path, err)
		}

		data, err := fileutil.ReadFileWithLimit(path)
		if err != nil {
			return nil, errors.Wrapf(setvarerrors.ErrFileAccess, "read %s: %v", path, err)
		}

		lines, finalNewline := fileutil.SplitLines(data)
		cands = append(cands, Candidate{
			Path:         path,
			Exists:       true,
			Lines:        lines,
			FinalNewline: finalNewline,
			Mode:         info.Mode().Perm(),
		})
	}

	return cands, nil
}

// ExistingPaths returns the dialect's existing candidate files in priority
// order, the set a backup of this dialect should capture.
func (r *Registry) ExistingPaths(d Dialect) ([]string, error) {
	snap, err := r.Snapshot(d)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, c := range ReadTargets(snap) {
		paths = append(paths, c.Path)
	}
	return paths, nil
}
