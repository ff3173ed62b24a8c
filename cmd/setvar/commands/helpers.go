package commands

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/TuMee-Dev/setvar/internal/backup"
	"github.com/TuMee-Dev/setvar/internal/env"
	"github.com/TuMee-Dev/setvar/internal/errors"
	"github.com/TuMee-Dev/setvar/internal/match"
	"github.com/TuMee-Dev/setvar/internal/shell"
	"github.com/TuMee-Dev/setvar/internal/vardecl"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// resolveDialects determines the shells a command operates on: the --shell
// flag if given, else the configured defaults, else the detected login shell.
func resolveDialects() ([]shell.Dialect, error) {
	if len(shellFlag) > 0 {
		dialects := make([]shell.Dialect, 0, len(shellFlag))
		for _, name := range shellFlag {
			d, err := shell.ParseDialect(name)
			if err != nil {
				return nil, errors.NewUserError(err, "run 'setvar --help' to see valid shells")
			}
			dialects = append(dialects, d)
		}
		return dialects, nil
	}

	if cfg != nil {
		dialects, err := cfg.Shells()
		if err != nil {
			if errors.Is(err, errors.ErrUnsupportedShell) {
				return nil, errors.NewUserError(err, "specify a shell with --shell bash|zsh|sh")
			}
			return nil, err
		}
		return dialects, nil
	}

	d, err := shell.Detect()
	if err != nil {
		return nil, errors.NewUserError(err, "specify a shell with --shell bash|zsh|sh")
	}
	return []shell.Dialect{d}, nil
}

// newRegistry builds the filesystem-backed startup file registry.
func newRegistry() (*shell.Registry, error) {
	return shell.NewRegistry()
}

// newStore builds a variable store over the registry, honoring --dry-run.
func newStore(reg *shell.Registry) *env.Store {
	return env.NewStore(reg,
		env.WithDryRun(dryRun),
		env.WithLogger(slog.Default()),
	)
}

// newBackupManager builds a backup manager from the loaded configuration.
func newBackupManager() *backup.Manager {
	var opts []backup.Option
	if cfg != nil {
		opts = append(opts,
			backup.WithBackupDir(cfg.Backup.Dir),
			backup.WithRetention(cfg.Backup.Retention),
		)
	}
	return backup.NewManager(opts...)
}

// autoBackup snapshots paths before a modifying operation. It is a no-op
// under --no-backup, --dry-run, or backup.enabled=false, and when none of
// the paths exist yet.
func autoBackup(w io.Writer, message string, paths []string) error {
	if noBackup || dryRun || len(paths) == 0 {
		return nil
	}
	if cfg != nil && !cfg.Backup.Enabled {
		return nil
	}

	record, err := newBackupManager().Create(paths, message)
	if err != nil {
		if errors.Is(err, backup.ErrNoFiles) {
			return nil
		}
		return errors.Wrap(err, "creating backup")
	}

	fmt.Fprintf(w, "%sCreated backup %s (%d files)%s\n",
		colorGray, record.ID, len(record.Files), colorReset)
	return nil
}

// confirm prompts the user with a yes/no question. --yes and --dry-run skip
// the prompt. Returns true only for "y" or "yes" (case-insensitive).
func confirm(w io.Writer, r io.Reader, prompt string) bool {
	if assumeYes || dryRun {
		return true
	}

	fmt.Fprintf(w, "%s [y/N]: ", prompt)

	reader := bufio.NewReader(r)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// matcherFromPatterns builds a key matcher from --pattern values. No
// patterns means match everything.
func matcherFromPatterns(patterns []string) (match.Matcher, error) {
	if len(patterns) == 0 {
		return match.All(), nil
	}
	m, err := match.NewGlob(patterns)
	if err != nil {
		return nil, errors.NewUserError(err, "patterns use glob syntax, e.g. 'AWS_*'")
	}
	return m, nil
}

// reportResults prints one line per target outcome and folds any failures
// into a single returned error, preserving partial-failure semantics: the
// successful targets stay written.
func reportResults(w io.Writer, results []env.Result) error {
	prefix := ""
	if dryRun {
		prefix = "(dry-run) would have "
	}

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s✗ %s (%s): %v%s\n", colorRed, r.Key, r.Dialect, r.Err, colorReset)
			continue
		}
		line := fmt.Sprintf("%s %s for %s in %s", r.Action, r.Key, r.Dialect, r.Path)
		if r.HadOld && r.Action != vardecl.ActionRemoved {
			line += fmt.Sprintf(" (was %s)", r.OldValue)
		}
		fmt.Fprintf(w, "%s✓ %s%s%s\n", colorGreen, prefix, line, colorReset)
	}

	failed := env.Failed(results)
	if len(failed) == 0 {
		return nil
	}

	err := errors.Newf("failed for %d of %d targets", len(failed), len(results))
	for _, r := range failed {
		if errors.Is(r.Err, errors.ErrFileAccess) {
			return errors.NewExitError(err, errors.ExitSystem)
		}
	}
	return err
}

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// dialectNames joins dialect names for display.
func dialectNames(dialects []shell.Dialect) string {
	names := make([]string, len(dialects))
	for i, d := range dialects {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}
