package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage startup file backups",
	Long: `Manage zip backups of shell startup files.

Backups are created automatically before setvar modifies any file. Each
backup is a single self-contained zip archive holding the files' bytes
plus a metadata record.`,
	Example: `  # Create a manual backup
  setvar backup create

  # See what's available
  setvar backup list

  # Roll back
  setvar backup restore

  See Also:
    setvar backup prune - Delete old backups`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}
