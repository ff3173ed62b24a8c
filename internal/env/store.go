package env

import (
	"io"
	"io/fs"
	"log/slog"

	"github.com/cockroachdb/errors"

	setvarerrors "github.com/TuMee-Dev/setvar/internal/errors"
	"github.com/TuMee-Dev/setvar/internal/shell"
	"github.com/TuMee-Dev/setvar/internal/vardecl"
	"github.com/TuMee-Dev/setvar/pkg/fileutil"
)

// defaultFileMode is used when a write creates a startup file that did not
// exist before.
const defaultFileMode fs.FileMode = 0o644

// Store applies variable operations to the startup files of one or more
// dialects. All writes go through atomic temp-file replacement so a crash
// can never leave a half-written startup file behind.
type Store struct {
	reg    *shell.Registry
	log    *slog.Logger
	dryRun bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithDryRun makes the store compute and report every change without
// touching any file.
func WithDryRun(dryRun bool) StoreOption {
	return func(s *Store) { s.dryRun = dryRun }
}

// WithLogger sets the logger used for duplicate-declaration warnings.
func WithLogger(log *slog.Logger) StoreOption {
	return func(s *Store) { s.log = log }
}

// NewStore creates a Store backed by reg.
func NewStore(reg *shell.Registry, opts ...StoreOption) *Store {
	s := &Store{reg: reg, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DryRun reports whether the store is in dry-run mode.
func (s *Store) DryRun() bool { return s.dryRun }

// Result describes the outcome of one operation against one file of one
// dialect. Err is set when the operation failed for that target; the
// remaining targets are still attempted.
type Result struct {
	Dialect  shell.Dialect
	Key      string
	Path     string
	Action   vardecl.Action
	OldValue string
	HadOld   bool
	Err      error
}

// Failed returns the subset of results that carry an error.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Load builds the effective variable set for one dialect. Duplicate
// declarations and unparsable files are logged at warn level and returned
// to the caller; a bad file costs only its own declarations.
func (s *Store) Load(d shell.Dialect) (Set, []Warning, []FileError, error) {
	cands, err := s.reg.Snapshot(d)
	if err != nil {
		return nil, nil, nil, err
	}
	set, warnings, fileErrs := BuildSet(cands)
	for _, w := range warnings {
		s.log.Warn("duplicate declaration",
			"key", w.Key,
			"shadowed", w.Path,
			"effective", w.WinnerPath,
		)
	}
	for _, fe := range fileErrs {
		s.log.Warn("skipping unparsable file",
			"path", fe.Path,
			"error", fe.Err,
		)
	}
	return set, warnings, fileErrs, nil
}

// Get looks up one variable in one dialect's effective set.
func (s *Store) Get(d shell.Dialect, key string) (Variable, bool, error) {
	if err := vardecl.ValidateKey(key); err != nil {
		return Variable{}, false, err
	}
	set, _, _, err := s.Load(d)
	if err != nil {
		return Variable{}, false, err
	}
	v, ok := set[key]
	return v, ok, nil
}

// Set writes key=value into each dialect's resolved target file. A failure
// against one dialect does not stop the others; per-dialect outcomes are
// reported in the returned results.
func (s *Store) Set(dialects []shell.Dialect, key, value string) ([]Result, error) {
	if err := vardecl.ValidateKey(key); err != nil {
		return nil, err
	}
	if err := vardecl.ValidateValue(value); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(dialects))
	for _, d := range dialects {
		results = append(results, s.setOne(d, key, value))
	}
	return results, nil
}

func (s *Store) setOne(d shell.Dialect, key, value string) Result {
	res := Result{Dialect: d, Key: key}

	cands, err := s.reg.Snapshot(d)
	if err != nil {
		res.Err = err
		return res
	}
	target, err := shell.ResolveWriteTarget(cands, key)
	if err != nil {
		res.Err = err
		return res
	}
	res.Path = target.Path

	if decl, ok, err := vardecl.Locate(target.Lines, key); err == nil && ok && !decl.Commented {
		res.OldValue = decl.Value
		res.HadOld = true
	}

	lines, action, err := vardecl.Apply(target.Lines, key, value)
	if err != nil {
		res.Err = errors.Wrapf(err, "%s", target.Path)
		return res
	}
	res.Action = action

	if s.dryRun {
		return res
	}
	res.Err = s.write(target, lines)
	return res
}

// Remove deletes key from every file of each dialect that declares it.
// Dialects where the key appears nowhere contribute no results.
func (s *Store) Remove(dialects []shell.Dialect, key string) ([]Result, error) {
	if err := vardecl.ValidateKey(key); err != nil {
		return nil, err
	}

	var results []Result
	for _, d := range dialects {
		cands, err := s.reg.Snapshot(d)
		if err != nil {
			results = append(results, Result{Dialect: d, Key: key, Err: err})
			continue
		}
		for _, c := range shell.ReadTargets(cands) {
			if !vardecl.Contains(c.Lines, key) {
				continue
			}
			res := Result{Dialect: d, Key: key, Path: c.Path, Action: vardecl.ActionRemoved}
			if decl, ok, err := vardecl.Locate(c.Lines, key); err == nil && ok {
				res.OldValue = decl.Value
				res.HadOld = true
			}
			lines, _ := vardecl.Remove(c.Lines, key)
			if !s.dryRun {
				res.Err = s.write(c, lines)
			}
			results = append(results, res)
		}
	}
	return results, nil
}

// WriteTargets returns the files a Set call for key would modify, one per
// dialect, without touching anything. Used to scope pre-change backups.
func (s *Store) WriteTargets(dialects []shell.Dialect, key string) ([]string, error) {
	if err := vardecl.ValidateKey(key); err != nil {
		return nil, err
	}
	var paths []string
	for _, d := range dialects {
		cands, err := s.reg.Snapshot(d)
		if err != nil {
			return nil, err
		}
		target, err := shell.ResolveWriteTarget(cands, key)
		if err != nil {
			return nil, err
		}
		paths = append(paths, target.Path)
	}
	return paths, nil
}

// RemoveTargets returns the files a Remove call for key would modify.
func (s *Store) RemoveTargets(dialects []shell.Dialect, key string) ([]string, error) {
	if err := vardecl.ValidateKey(key); err != nil {
		return nil, err
	}
	var paths []string
	for _, d := range dialects {
		cands, err := s.reg.Snapshot(d)
		if err != nil {
			return nil, err
		}
		for _, c := range shell.ReadTargets(cands) {
			if vardecl.Contains(c.Lines, key) {
				paths = append(paths, c.Path)
			}
		}
	}
	return paths, nil
}

func (s *Store) write(target shell.Candidate, lines []string) error {
	finalNewline := target.FinalNewline
	mode := target.Mode
	if !target.Exists {
		finalNewline = true
		mode = defaultFileMode
	}
	data := fileutil.JoinLines(lines, finalNewline)
	if err := fileutil.AtomicWriteFile(target.Path, data, mode); err != nil {
		return errors.Mark(err, setvarerrors.ErrFileAccess)
	}
	return nil
}
