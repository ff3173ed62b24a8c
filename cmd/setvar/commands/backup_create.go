package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/TuMee-Dev/setvar/internal/errors"
)

var backupCreateMessage string

func init() {
	backupCreateCmd.Flags().StringVarP(&backupCreateMessage, "message", "m", "",
		"free-form note stored with the backup")
	backupCmd.AddCommand(backupCreateCmd)
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a manual backup",
	Long: `Create a backup of the target shells' startup files.

Backups are created automatically before setvar modifies files. This
command allows you to create additional backups manually, for example
before editing a startup file by hand.

By default, the detected shell's files are captured. Use the --shell flag
to capture other shells' files as well.`,
	Example: `  # Back up the current shell's files
  setvar backup create

  # Back up everything, with a note
  setvar backup create --shell bash,zsh,sh -m "before distro upgrade"

  See Also:
    setvar backup list    - List available backups
    setvar backup restore - Restore from a backup`,
	RunE: runBackupCreate,
}

func runBackupCreate(_ *cobra.Command, _ []string) error {
	return runBackupCreateWithWriter(os.Stdout)
}

func runBackupCreateWithWriter(w io.Writer) error {
	dialects, err := resolveDialects()
	if err != nil {
		return err
	}
	reg, err := newRegistry()
	if err != nil {
		return err
	}

	var paths []string
	for _, d := range dialects {
		existing, err := reg.ExistingPaths(d)
		if err != nil {
			return err
		}
		paths = append(paths, existing...)
	}
	if len(paths) == 0 {
		fmt.Fprintf(w, "%sno startup files found for %s%s\n",
			colorYellow, dialectNames(dialects), colorReset)
		return nil
	}

	if dryRun {
		fmt.Fprintf(w, "(dry-run) would have backed up %d file(s)\n", len(paths))
		return nil
	}

	record, err := newBackupManager().Create(paths, backupCreateMessage)
	if err != nil {
		return errors.Wrap(err, "creating backup")
	}

	fmt.Fprintf(w, "%s✓ created backup %s (%d files)%s\n",
		colorGreen, record.ID, len(record.Files), colorReset)
	return nil
}
