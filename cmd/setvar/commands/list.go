package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/TuMee-Dev/setvar/internal/env"
	"github.com/TuMee-Dev/setvar/internal/match"
	"github.com/TuMee-Dev/setvar/internal/shell"
	"github.com/TuMee-Dev/setvar/internal/syncer"
)

var (
	listPatterns  []string
	listSyncCheck bool
	listJSON      bool
)

func init() {
	listCmd.Flags().StringSliceVar(&listPatterns, "pattern", nil,
		"only show keys matching these glob patterns (e.g. 'AWS_*')")
	listCmd.Flags().BoolVar(&listSyncCheck, "sync-check", false,
		"flag keys whose values disagree across the target shells")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List managed environment variables",
	Long: `List every export declaration found in the target shells' startup files.

With --sync-check and more than one target shell, keys whose values differ
between shells (or are missing from some) are marked OUT OF SYNC.`,
	Example: `  # All variables of the current shell
  setvar list

  # Only AWS-related keys
  setvar list --pattern 'AWS_*'

  # Cross-shell consistency report
  setvar list --shell bash,zsh --sync-check

  # Output as JSON
  setvar list --json

  See Also:
    setvar get  - Read one variable
    setvar sync - Reconcile shells`,
	RunE: runList,
}

func runList(_ *cobra.Command, _ []string) error {
	return runListWithWriter(os.Stdout)
}

func runListWithWriter(w io.Writer) error {
	dialects, err := resolveDialects()
	if err != nil {
		return err
	}
	matcher, err := matcherFromPatterns(listPatterns)
	if err != nil {
		return err
	}
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	store := newStore(reg)

	sets := make(map[shell.Dialect]env.Set, len(dialects))
	skipped := make(map[shell.Dialect][]env.FileError, len(dialects))
	for _, d := range dialects {
		set, _, fileErrs, err := store.Load(d)
		if err != nil {
			return err
		}
		sets[d] = set
		skipped[d] = fileErrs
	}

	var outOfSync map[string]bool
	if listSyncCheck && len(dialects) > 1 {
		outOfSync, err = syncCheck(store, dialects, matcher)
		if err != nil {
			return err
		}
	}

	if listJSON {
		return outputListJSON(w, dialects, sets, matcher)
	}
	return outputListTabular(w, dialects, sets, skipped, matcher, outOfSync)
}

// syncCheck diffs every dialect against the others and returns the keys
// that are not uniformly set everywhere.
func syncCheck(store *env.Store, dialects []shell.Dialect, matcher match.Matcher) (map[string]bool, error) {
	s := syncer.New(store)
	outOfSync := make(map[string]bool)

	for i, source := range dialects {
		targets := make([]shell.Dialect, 0, len(dialects)-1)
		targets = append(targets, dialects[:i]...)
		targets = append(targets, dialects[i+1:]...)

		plans, err := s.Diff(source, targets, matcher)
		if err != nil {
			return nil, err
		}
		for _, plan := range plans {
			for _, c := range plan.Pending() {
				outOfSync[c.Key] = true
			}
		}
	}
	return outOfSync, nil
}

func outputListJSON(w io.Writer, dialects []shell.Dialect, sets map[shell.Dialect]env.Set, matcher match.Matcher) error {
	output := make(map[string]map[string]string, len(dialects))
	for _, d := range dialects {
		vars := make(map[string]string)
		for key, v := range sets[d] {
			if matcher.Matches(key) {
				vars[key] = v.Value
			}
		}
		output[string(d)] = vars
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func outputListTabular(w io.Writer, dialects []shell.Dialect, sets map[shell.Dialect]env.Set, skipped map[shell.Dialect][]env.FileError, matcher match.Matcher, outOfSync map[string]bool) error {
	for i, d := range dialects {
		if i > 0 {
			fmt.Fprintln(w)
		}

		set := sets[d]
		keys := make([]string, 0, len(set))
		for key := range set {
			if matcher.Matches(key) {
				keys = append(keys, key)
			}
		}
		slices.Sort(keys)

		fmt.Fprintf(w, "%sShell: %s%s\n", colorCyan+colorBold, d, colorReset)

		for _, fe := range skipped[d] {
			fmt.Fprintf(w, "  %s⚠ skipped %s: %v%s\n", colorYellow, fe.Path, fe.Err, colorReset)
		}

		if len(keys) == 0 {
			fmt.Fprintf(w, "  %s(no variables)%s\n", colorGray, colorReset)
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "  %sKEY%s\t%sVALUE%s\t%sFILE%s\n",
			colorBold, colorReset,
			colorBold, colorReset,
			colorBold, colorReset)

		for _, key := range keys {
			v := set[key]
			marker := ""
			if outOfSync[key] {
				marker = colorYellow + "  OUT OF SYNC" + colorReset
			}
			fmt.Fprintf(tw, "  %s%s%s\t%s\t%s%s%s%s\n",
				colorGreen, key, colorReset,
				truncate(v.Value, 48),
				colorGray, v.Path, colorReset,
				marker)
		}
		tw.Flush()
	}

	return nil
}
