package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/TuMee-Dev/setvar/internal/errors"
)

var backupPruneKeep int

func init() {
	backupPruneCmd.Flags().IntVar(&backupPruneKeep, "keep", -1,
		"number of backups to keep (default: configured retention)")
	backupCmd.AddCommand(backupPruneCmd)
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old backups",
	Long: `Delete all but the most recent backups.

The number kept defaults to backup.retention from the configuration file.`,
	Example: `  # Keep the configured number of backups
  setvar backup prune

  # Keep only the latest three
  setvar backup prune --keep 3

  See Also:
    setvar backup list - List available backups`,
	RunE: runBackupPrune,
}

func runBackupPrune(_ *cobra.Command, _ []string) error {
	return runBackupPruneWithWriter(os.Stdout)
}

func runBackupPruneWithWriter(w io.Writer) error {
	mgr := newBackupManager()

	keep := backupPruneKeep
	if keep < 0 {
		keep = mgr.Retention()
	}

	if dryRun {
		records, err := mgr.List()
		if err != nil {
			return errors.Wrap(err, "listing backups")
		}
		if len(records) <= keep {
			fmt.Fprintln(w, "nothing to prune")
			return nil
		}
		for _, rec := range records[keep:] {
			fmt.Fprintf(w, "(dry-run) would have removed %s\n", rec.ID)
		}
		return nil
	}

	removed, err := mgr.Prune(keep)
	if err != nil {
		return errors.Wrap(err, "pruning backups")
	}
	if len(removed) == 0 {
		fmt.Fprintln(w, "nothing to prune")
		return nil
	}
	for _, id := range removed {
		fmt.Fprintf(w, "  removed %s\n", id)
	}
	fmt.Fprintf(w, "%s✓ pruned %d backup(s), %d kept%s\n",
		colorGreen, len(removed), keep, colorReset)
	return nil
}
