package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/TuMee-Dev/setvar/internal/errors"
	"github.com/TuMee-Dev/setvar/internal/format"
	"github.com/TuMee-Dev/setvar/pkg/fileutil"
)

var (
	exportFormat   string
	exportPatterns []string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "",
		"output format: json, env, shell, yaml, toml (default: from file extension, else json)")
	exportCmd.Flags().StringSliceVar(&exportPatterns, "pattern", nil,
		"only export keys matching these glob patterns (e.g. 'AWS_*')")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export variables to a file or stdout",
	Long: `Export the target shell's variables in a structured format.

Without a file argument the output goes to stdout. The format is taken
from --format, else guessed from the file extension, defaulting to JSON.
Shell-format exports carry a #!/bin/sh header and are written executable
so they can be sourced or run directly.`,
	Example: `  # JSON to stdout
  setvar export

  # Dotenv file
  setvar export local.env

  # Sourceable script of the AWS keys only
  setvar export aws.sh --pattern 'AWS_*'

  See Also:
    setvar import - Load variables from a file`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(_ *cobra.Command, args []string) error {
	return runExportWithWriter(args, os.Stdout)
}

func runExportWithWriter(args []string, w io.Writer) error {
	var outFile string
	if len(args) > 0 {
		outFile = args[0]
	}

	f := format.JSON
	if exportFormat != "" {
		var err error
		f, err = format.Parse(exportFormat)
		if err != nil {
			return errors.NewUserError(err, "")
		}
	} else if outFile != "" {
		f = format.Detect(outFile)
	}

	matcher, err := matcherFromPatterns(exportPatterns)
	if err != nil {
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

	// Exports read one shell's effective set; the first resolved dialect wins.
	set, _, fileErrs, err := store.Load(dialects[0])
	if err != nil {
		return err
	}

	vars := make(map[string]string)
	for key, v := range set {
		if matcher.Matches(key) {
			vars[key] = v.Value
		}
	}

	data, err := format.Encode(f, vars, time.Now())
	if err != nil {
		return err
	}

	if outFile == "" {
		// Stdout carries only the payload; skipped files are reported by
		// the store's warn-level log on stderr.
		_, err := w.Write(data)
		return err
	}

	for _, fe := range fileErrs {
		fmt.Fprintf(w, "%s⚠ skipped %s: %v%s\n", colorYellow, fe.Path, fe.Err, colorReset)
	}
	if dryRun {
		fmt.Fprintf(w, "(dry-run) would have written %d variable(s) to %s (%s)\n", len(vars), outFile, f)
		return nil
	}
	if err := fileutil.AtomicWriteFile(outFile, data, f.FileMode()); err != nil {
		return errors.Wrapf(err, "writing %s", outFile)
	}
	fmt.Fprintf(w, "%s✓ exported %d variable(s) to %s (%s)%s\n",
		colorGreen, len(vars), outFile, f, colorReset)
	return nil
}
