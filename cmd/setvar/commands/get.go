package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/TuMee-Dev/setvar/internal/errors"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <KEY>",
	Short: "Print the value of a variable",
	Long: `Print the effective value of a variable for the target shell(s).

When a variable is declared in more than one startup file of the same
shell, the highest-priority file wins; the shadowed declarations are
reported as warnings at -v.`,
	Example: `  # Value in the current shell
  setvar get EDITOR

  # Value per shell
  setvar get EDITOR --shell bash,zsh

  See Also:
    setvar set  - Set a variable
    setvar list - List all variables`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(_ *cobra.Command, args []string) error {
	return runGetWithWriter(args, os.Stdout)
}

func runGetWithWriter(args []string, w io.Writer) error {
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

	found := 0
	for _, d := range dialects {
		v, ok, err := store.Get(d, key)
		if err != nil {
			return err
		}
		if !ok {
			if len(dialects) > 1 {
				fmt.Fprintf(w, "%s%s: (not set)%s\n", colorGray, d, colorReset)
			}
			continue
		}
		found++
		if len(dialects) > 1 {
			fmt.Fprintf(w, "%s: %s\n", d, v.Value)
		} else {
			fmt.Fprintln(w, v.Value)
		}
	}

	if found == 0 {
		return errors.NewExitError(
			errors.Wrapf(errors.ErrVariableNotFound, "%s (shells: %s)", key, dialectNames(dialects)),
			errors.ExitUser)
	}
	return nil
}
