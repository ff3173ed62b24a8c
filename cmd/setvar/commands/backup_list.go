package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/TuMee-Dev/setvar/internal/backup"
	"github.com/TuMee-Dev/setvar/internal/errors"
)

var backupListJSON bool

func init() {
	backupListCmd.Flags().BoolVar(&backupListJSON, "json", false, "Output in JSON format")
	backupCmd.AddCommand(backupListCmd)
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backups",
	Long: `List all backup archives, most recent first.

Each entry shows the backup's identifier, when it was taken, how many
files it holds, and the note it was created with.`,
	Example: `  # List all backups
  setvar backup list

  # Output as JSON
  setvar backup list --json

  See Also:
    setvar backup restore - Restore from a backup
    setvar backup prune   - Delete old backups`,
	RunE: runBackupList,
}

// backupInfoOutput represents a single backup in JSON output.
type backupInfoOutput struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	FileCount int       `json:"file_count"`
	Message   string    `json:"message,omitempty"`
}

func runBackupList(_ *cobra.Command, _ []string) error {
	return runBackupListWithWriter(os.Stdout)
}

func runBackupListWithWriter(w io.Writer) error {
	records, err := newBackupManager().List()
	if err != nil {
		return errors.Wrap(err, "listing backups")
	}

	if backupListJSON {
		return outputBackupListJSON(w, records)
	}
	return outputBackupListTabular(w, records)
}

func outputBackupListJSON(w io.Writer, records []backup.Record) error {
	output := make([]backupInfoOutput, len(records))
	for i, rec := range records {
		output[i] = backupInfoOutput{
			ID:        rec.ID,
			CreatedAt: rec.CreatedAt,
			FileCount: len(rec.Files),
			Message:   rec.Message,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func outputBackupListTabular(w io.Writer, records []backup.Record) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No backups available")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Backups are created automatically before setvar modifies files.")
		fmt.Fprintln(w, "You can also create a backup manually with: setvar backup create")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sID%s\t%sCREATED%s\t%sFILES%s\t%sMESSAGE%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, rec := range records {
		fmt.Fprintf(tw, "%s%s%s\t%s\t%d\t%s\n",
			colorGreen, rec.ID, colorReset,
			rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			len(rec.Files),
			truncate(rec.Message, 40))
	}
	return tw.Flush()
}
