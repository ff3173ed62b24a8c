package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/TuMee-Dev/setvar/internal/errors"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove <KEY>",
	Aliases: []string{"unset", "rm"},
	Short:   "Remove an environment variable",
	Long: `Remove a variable's export declaration from the target shells'
startup files. Every file that declares the key loses its declaration;
surrounding lines are left untouched.

A confirmation prompt is shown before removal unless --yes is specified.
The files about to change are backed up first unless --no-backup is given.`,
	Example: `  # Remove from the current shell (with confirmation)
  setvar remove EDITOR

  # Remove from bash and zsh without confirmation
  setvar remove EDITOR --shell bash,zsh --yes

  See Also:
    setvar set  - Set a variable
    setvar list - List all variables`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func runRemove(_ *cobra.Command, args []string) error {
	return runRemoveWithIO(args, os.Stdout, os.Stdin)
}

// runRemoveWithIO allows injecting writers for testing.
func runRemoveWithIO(args []string, w io.Writer, r io.Reader) error {
	key := args[0]

	dialects, err := resolveDialects()
	if err != nil {
		return err
	}
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	store := newStore(reg)

	targets, err := store.RemoveTargets(dialects, key)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return errors.NewExitError(
			errors.Wrapf(errors.ErrVariableNotFound, "%s (shells: %s)", key, dialectNames(dialects)),
			errors.ExitUser)
	}

	if !confirm(w, r, fmt.Sprintf("Remove %s from %s?", key, dialectNames(dialects))) {
		fmt.Fprintln(w, "removal cancelled")
		return nil
	}

	if err := autoBackup(w, fmt.Sprintf("before remove %s", key), targets); err != nil {
		return err
	}

	results, err := store.Remove(dialects, key)
	if err != nil {
		return err
	}
	return reportResults(w, results)
}
