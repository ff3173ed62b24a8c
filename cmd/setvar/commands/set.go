package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/TuMee-Dev/setvar/internal/vardecl"
)

func init() {
	rootCmd.AddCommand(setCmd)
}

var setCmd = &cobra.Command{
	Use:   "set <KEY> <VALUE>",
	Short: "Set an environment variable",
	Long: `Set an environment variable in shell startup files.

If the variable is already declared (even commented out), that exact line is
updated in place. Otherwise an export line is appended to the shell's
primary startup file. Values containing spaces or shell metacharacters are
quoted automatically.

The files about to change are backed up first unless --no-backup is given.`,
	Example: `  # Set for the current shell
  setvar set EDITOR vim

  # Set for bash and zsh
  setvar set EDITOR vim --shell bash,zsh

  # Values with spaces are quoted for you
  setvar set GREETING "hello world"

  # Preview without writing
  setvar set EDITOR vim --dry-run

  See Also:
    setvar get    - Read a variable
    setvar remove - Delete a variable`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func runSet(_ *cobra.Command, args []string) error {
	return runSetWithWriter(args, os.Stdout)
}

func runSetWithWriter(args []string, w io.Writer) error {
	key, value := args[0], args[1]

	if err := vardecl.ValidateValue(value); err != nil {
		return err
	}

	dialects, err := resolveDialects()
	if err != nil {
		return err
	}
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	store := newStore(reg)

	// Validates the key before anything is touched.
	targets, err := store.WriteTargets(dialects, key)
	if err != nil {
		return err
	}
	if err := autoBackup(w, fmt.Sprintf("before set %s", key), targets); err != nil {
		return err
	}

	results, err := store.Set(dialects, key, value)
	if err != nil {
		return err
	}
	return reportResults(w, results)
}
