package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	buildinfo "github.com/TuMee-Dev/setvar/cmd"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		printVersion(os.Stdout)
	},
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "setvar version %s\n", buildinfo.Version)
	fmt.Fprintf(w, "  commit: %s\n", buildinfo.Commit)
	fmt.Fprintf(w, "  built:  %s\n", buildinfo.Date)
}
