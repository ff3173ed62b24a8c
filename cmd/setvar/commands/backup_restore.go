package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/TuMee-Dev/setvar/internal/backup"
	"github.com/TuMee-Dev/setvar/internal/errors"
	"github.com/TuMee-Dev/setvar/internal/logging"
)

func init() {
	backupCmd.AddCommand(backupRestoreCmd)
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [backup-id]",
	Short: "Restore from a backup",
	Long: `Restore startup files from a backup archive.

With no backup ID on an interactive terminal, a fuzzy picker is shown.
Without a terminal, the most recent backup is used.

All files in the backup are restored to their original locations with
their original permissions; existing files are overwritten. The current
state of those files is itself backed up first unless --no-backup is
given, so a restore can be undone.`,
	Example: `  # Pick a backup interactively
  setvar backup restore

  # Restore a specific backup
  setvar backup restore backup_20260830_120000

  # List available backups first
  setvar backup list

  See Also:
    setvar backup list   - List available backups
    setvar backup create - Create a new backup`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackupRestore,
}

func runBackupRestore(_ *cobra.Command, args []string) error {
	return runBackupRestoreWithIO(args, os.Stdout, os.Stdin)
}

func runBackupRestoreWithIO(args []string, w io.Writer, r io.Reader) error {
	mgr := newBackupManager()

	var backupID string
	if len(args) > 0 {
		backupID = args[0]
	} else {
		id, err := pickBackup(w, mgr)
		if err != nil {
			return err
		}
		if id == "" {
			return nil // aborted picker
		}
		backupID = id
	}

	record, err := mgr.Get(backupID)
	if err != nil {
		if errors.Is(err, errors.ErrBackupNotFound) {
			return errors.NewUserError(err, "run 'setvar backup list' to see available backups")
		}
		return errors.Wrapf(err, "getting backup %s", backupID)
	}

	if !confirm(w, r, fmt.Sprintf("Overwrite %d file(s) with backup %s?", len(record.Files), record.ID)) {
		fmt.Fprintln(w, "restore cancelled")
		return nil
	}

	if dryRun {
		for _, f := range record.Files {
			fmt.Fprintf(w, "(dry-run) would have restored %s\n", f.OriginalPath)
		}
		return nil
	}

	// Snapshot the current files so the restore itself can be undone.
	paths := make([]string, len(record.Files))
	for i, f := range record.Files {
		paths[i] = f.OriginalPath
	}
	if err := autoBackup(w, fmt.Sprintf("before restore %s", record.ID), paths); err != nil {
		return err
	}

	restored, err := mgr.Restore(record.ID)
	if err != nil {
		return errors.Wrap(err, "restoring backup")
	}

	for _, f := range restored.Files {
		fmt.Fprintf(w, "  restored %s\n", f.OriginalPath)
	}
	fmt.Fprintf(w, "%s✓ restored %d file(s) from backup %s%s\n",
		colorGreen, len(restored.Files), restored.ID, colorReset)
	return nil
}

// pickBackup selects a backup without an explicit ID: interactively on a
// TTY, else the most recent. Returns "" when the user aborts the picker.
func pickBackup(w io.Writer, mgr *backup.Manager) (string, error) {
	records, err := mgr.List()
	if err != nil {
		return "", errors.Wrap(err, "listing backups")
	}
	if len(records) == 0 {
		return "", errors.NewUserError(errors.ErrBackupNotFound,
			"no backups exist yet; create one with 'setvar backup create'")
	}

	if !logging.IsTTY(os.Stdout) {
		fmt.Fprintf(w, "Using most recent backup: %s\n", records[0].ID)
		return records[0].ID, nil
	}

	idx, err := fuzzyfinder.Find(
		records,
		func(i int) string {
			return fmt.Sprintf("%s (%d files)", records[i].ID, len(records[i].Files))
		},
		fuzzyfinder.WithPreviewWindow(func(i, width, height int) string {
			if i == -1 {
				return ""
			}
			rec := records[i]
			preview := fmt.Sprintf("Created: %s\nMessage: %s\n\nFiles:\n",
				rec.CreatedAt.Local().Format("2006-01-02 15:04:05"), rec.Message)
			for _, f := range rec.Files {
				preview += "  " + f.OriginalPath + "\n"
			}
			return preview
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			fmt.Fprintln(w, "restore cancelled")
			return "", nil
		}
		return "", errors.Wrap(err, "interactive backup selection failed")
	}
	return records[idx].ID, nil
}
