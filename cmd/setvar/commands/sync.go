package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/TuMee-Dev/setvar/internal/env"
	"github.com/TuMee-Dev/setvar/internal/errors"
	"github.com/TuMee-Dev/setvar/internal/shell"
	"github.com/TuMee-Dev/setvar/internal/syncer"
)

var syncPatterns []string

func init() {
	syncCmd.Flags().StringSliceVar(&syncPatterns, "pattern", nil,
		"only sync keys matching these glob patterns (e.g. 'AWS_*')")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync <source-shell> [target-shell...]",
	Short: "Copy variables from one shell to others",
	Long: `Bring target shells in line with a source shell.

Every variable of the source that is missing from a target, or has a
different value there, is written into the target's startup files. Sync is
additive: variables that exist only in a target are never deleted.

With no explicit targets, all other supported shells are targeted. Use
--dry-run to see the plan without writing.`,
	Example: `  # Make zsh match bash
  setvar sync bash zsh

  # Sync bash to every other shell, AWS keys only
  setvar sync bash --pattern 'AWS_*'

  # Preview
  setvar sync bash zsh --dry-run

  See Also:
    setvar list --sync-check - Report cross-shell drift`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSync,
}

func runSync(_ *cobra.Command, args []string) error {
	return runSyncWithIO(args, os.Stdout, os.Stdin)
}

func runSyncWithIO(args []string, w io.Writer, r io.Reader) error {
	source, err := shell.ParseDialect(args[0])
	if err != nil {
		return errors.NewUserError(err, "run 'setvar --help' to see valid shells")
	}

	var targets []shell.Dialect
	if len(args) > 1 {
		for _, name := range args[1:] {
			d, err := shell.ParseDialect(name)
			if err != nil {
				return errors.NewUserError(err, "run 'setvar --help' to see valid shells")
			}
			if d == source {
				return errors.NewUserError(
					errors.Newf("cannot sync %s onto itself", source), "")
			}
			targets = append(targets, d)
		}
	} else {
		for _, d := range shell.Dialects() {
			if d != source {
				targets = append(targets, d)
			}
		}
	}

	matcher, err := matcherFromPatterns(syncPatterns)
	if err != nil {
		return err
	}
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	store := newStore(reg)
	s := syncer.New(store, syncer.WithLogger(slog.Default()))

	plans, err := s.Diff(source, targets, matcher)
	if err != nil {
		return err
	}

	pendingTotal, failedTargets := printSyncPlans(w, plans)
	if pendingTotal == 0 {
		if failedTargets > 0 {
			return errors.Newf("failed to read %d of %d targets", failedTargets, len(plans))
		}
		fmt.Fprintf(w, "%s✓ all shells in sync with %s%s\n", colorGreen, source, colorReset)
		return nil
	}
	if dryRun {
		fmt.Fprintf(w, "\n(dry-run) %d change(s) not applied\n", pendingTotal)
		return nil
	}

	if !confirm(w, r, fmt.Sprintf("Apply %d change(s)?", pendingTotal)) {
		fmt.Fprintln(w, "sync cancelled")
		return nil
	}

	// Snapshot every target file that exists before anything is written.
	var backupPaths []string
	for _, target := range targets {
		paths, err := reg.ExistingPaths(target)
		if err != nil {
			return err
		}
		backupPaths = append(backupPaths, paths...)
	}
	if err := autoBackup(w, fmt.Sprintf("before sync from %s", source), backupPaths); err != nil {
		return err
	}

	var results []env.Result
	for _, plan := range plans {
		if plan.Err != nil {
			continue
		}
		rs, err := s.Apply(plan)
		results = append(results, rs...)
		if err != nil {
			return err
		}
	}
	if err := reportResults(w, results); err != nil {
		return err
	}
	if failedTargets > 0 {
		return errors.Newf("failed to read %d of %d targets", failedTargets, len(plans))
	}
	return nil
}

// printSyncPlans renders each plan's pending changes and returns the count
// of pending changes and of targets that could not be read.
func printSyncPlans(w io.Writer, plans []syncer.Plan) (total, failed int) {
	for _, plan := range plans {
		if plan.Err != nil {
			failed++
			fmt.Fprintf(w, "%s✗ %s -> %s: %v%s\n", colorRed, plan.Source, plan.Target, plan.Err, colorReset)
			continue
		}
		pending := plan.Pending()
		if len(pending) == 0 {
			continue
		}
		total += len(pending)

		fmt.Fprintf(w, "%s%s -> %s%s\n", colorCyan+colorBold, plan.Source, plan.Target, colorReset)
		for _, c := range pending {
			switch c.Status {
			case syncer.StatusMissing:
				fmt.Fprintf(w, "  %s+ %s=%s%s\n", colorGreen, c.Key, truncate(c.SourceValue, 48), colorReset)
			case syncer.StatusDifferent:
				fmt.Fprintf(w, "  %s~ %s: %s (is %s)%s\n", colorYellow,
					c.Key, truncate(c.SourceValue, 48), truncate(c.TargetValue, 48), colorReset)
			}
		}
	}
	return total, failed
}
