// Package commands implements the CLI commands for setvar.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	buildinfo "github.com/TuMee-Dev/setvar/cmd"
	"github.com/TuMee-Dev/setvar/internal/config"
	"github.com/TuMee-Dev/setvar/internal/errors"
	"github.com/TuMee-Dev/setvar/internal/logging"
	"github.com/TuMee-Dev/setvar/internal/shell"
)

// shellFlag holds the value of the --shell flag.
var shellFlag []string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// dryRun holds the value of the -n/--dry-run flag.
var dryRun bool

// assumeYes holds the value of the -y/--yes flag.
var assumeYes bool

// noBackup holds the value of the --no-backup flag.
var noBackup bool

// configFile holds the value of the --config flag.
var configFile string

// cfg is the loaded configuration, available after initConfig runs.
var cfg *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringSliceVarP(&shellFlag, "shell", "s", nil,
		`target shell(s): bash, zsh, sh (default: detected login shell)`)
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false,
		"show what would change without writing any file")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false,
		"answer yes to confirmation prompts")
	rootCmd.PersistentFlags().BoolVar(&noBackup, "no-backup", false,
		"skip the automatic backup before modifying files")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file path (default: $XDG_CONFIG_HOME/setvar/config.yaml)")

	rootCmd.Version = buildinfo.Version
	rootCmd.SetVersionTemplate("setvar version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	cfg, configLoadErr = config.Load(configFile)
}

var rootCmd = &cobra.Command{
	Use:   "setvar",
	Short: "Manage environment variables across shell startup files",
	Long: `setvar manages export KEY=VALUE declarations inside your shell startup
files (~/.bashrc, ~/.zshrc, ~/.profile, ...) across bash, zsh, and sh.

It updates declarations in place without disturbing anything else in the
file, keeps multiple shells in sync, imports and exports variables in
common formats, and snapshots the touched files into timestamped zip
backups before every change.

Use the --shell flag to target specific shells, or omit it to target the
shell you are currently running.`,
	Example: `  # Set a variable in the current shell's startup file
  setvar set EDITOR vim

  # Set it for bash and zsh at once
  setvar set EDITOR vim --shell bash,zsh

  # See every variable setvar manages
  setvar list

  # Bring zsh in line with bash
  setvar sync bash zsh

  See Also: setvar list, setvar sync, setvar backup`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return validateShellFlag(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("SETVAR_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2
				case "2":
					v = 3
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// validateShellFlag checks that all specified shells are valid.
func validateShellFlag(cmd *cobra.Command, _ []string) error {
	// Skip validation for help and version commands
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}

	// Check for config load errors first
	if configLoadErr != nil {
		return errors.NewUserError(configLoadErr, "fix or remove the config file and retry")
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		return errors.NewUserError(errs[0], "fix the config file and retry")
	}

	for _, name := range shellFlag {
		if _, err := shell.ParseDialect(name); err != nil {
			return errors.NewUserError(err, "run 'setvar --help' to see valid shells")
		}
	}

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
