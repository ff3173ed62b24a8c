package commands

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/TuMee-Dev/setvar/internal/env"
	"github.com/TuMee-Dev/setvar/internal/errors"
	"github.com/TuMee-Dev/setvar/internal/format"
	"github.com/TuMee-Dev/setvar/pkg/fileutil"
)

var (
	importFormat   string
	importPatterns []string
)

func init() {
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "",
		"input format: json, env, shell, yaml, toml (default: from file extension)")
	importCmd.Flags().StringSliceVar(&importPatterns, "pattern", nil,
		"only import keys matching these glob patterns (e.g. 'AWS_*')")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import variables from a file",
	Long: `Import variables from a structured file into the target shells'
startup files.

The format is taken from --format, else guessed from the file extension.
A file with an invalid variable name is rejected as a whole; a partial
import never happens. The startup files about to change are backed up
first unless --no-backup is given.`,
	Example: `  # Import a JSON export
  setvar import vars.json

  # Import a dotenv file into bash and zsh
  setvar import local.env --shell bash,zsh

  # Only the AWS keys
  setvar import vars.json --pattern 'AWS_*'

  See Also:
    setvar export - Write variables to a file`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(_ *cobra.Command, args []string) error {
	return runImportWithIO(args, os.Stdout, os.Stdin)
}

func runImportWithIO(args []string, w io.Writer, r io.Reader) error {
	inFile := args[0]

	f := format.Detect(inFile)
	if importFormat != "" {
		var err error
		f, err = format.Parse(importFormat)
		if err != nil {
			return errors.NewUserError(err, "")
		}
	}

	data, err := fileutil.ReadFileWithLimit(inFile)
	if err != nil {
		return errors.Wrapf(err, "reading %s", inFile)
	}
	vars, err := format.Decode(f, data)
	if err != nil {
		return errors.Wrapf(err, "decoding %s", inFile)
	}

	matcher, err := matcherFromPatterns(importPatterns)
	if err != nil {
		return err
	}
	for key := range vars {
		if !matcher.Matches(key) {
			delete(vars, key)
		}
	}
	if len(vars) == 0 {
		fmt.Fprintln(w, "nothing to import")
		return nil
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

	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	if !confirm(w, r, fmt.Sprintf("Import %d variable(s) into %s?", len(keys), dialectNames(dialects))) {
		fmt.Fprintln(w, "import cancelled")
		return nil
	}

	// One backup covering every file any imported key will land in.
	backupPaths := make(map[string]struct{})
	for _, key := range keys {
		targets, err := store.WriteTargets(dialects, key)
		if err != nil {
			return err
		}
		for _, t := range targets {
			backupPaths[t] = struct{}{}
		}
	}
	paths := make([]string, 0, len(backupPaths))
	for p := range backupPaths {
		paths = append(paths, p)
	}
	if err := autoBackup(w, fmt.Sprintf("before import %s", inFile), paths); err != nil {
		return err
	}

	var results []env.Result
	for _, key := range keys {
		rs, err := store.Set(dialects, key, vars[key])
		if err != nil {
			return err
		}
		results = append(results, rs...)
	}
	return reportResults(w, results)
}
