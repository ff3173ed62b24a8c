// Package main is the entry point for the setvar CLI.
package main

import (
	"fmt"
	"os"

	"github.com/TuMee-Dev/setvar/cmd/setvar/commands"
	"github.com/TuMee-Dev/setvar/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Suggestion != "" {
			fmt.Fprintln(os.Stderr, exitErr.Suggestion)
		}
		os.Exit(exitErr.Code)
	}
	if errors.Is(err, errors.ErrFileAccess) {
		os.Exit(errors.ExitSystem)
	}
	os.Exit(errors.ExitUser)
}
