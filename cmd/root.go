package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/icondex/pkg/buildinfo"
	"github.com/fulmenhq/icondex/pkg/exitcode"
	"github.com/fulmenhq/icondex/pkg/logger"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "icondex",
		Short: "Deterministic icon manifest generator",
		Long: `Icondex turns a tree of icon files into a deterministic manifest of
name/URL pairs, safe to publish as literal (non-percent-encoded) URLs.
Every file is validated for URL safety and signature-sniffed so a renamed
file can never be served under a false content type.

Examples:
   icondex generate ./icons   # Validate the tree and write the manifest
   icondex check ./icons      # Validate only (CI mode), write nothing
   icondex version            # Show version`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().String("log-level", "info", "Set log level (debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("icondex {{.Version}}\n")

	return cmd
}

var rootCmd = newRootCommand()

// Execute runs the root command and maps pipeline failures to exit codes.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		var coded *codedError
		if errors.As(err, &coded) {
			os.Exit(coded.code)
		}
		os.Exit(exitcode.GeneralError)
	}
}

func init() {
	registerSubcommands(rootCmd)
}

// registerSubcommands adds all subcommands to the root command.
// Called from init() for production; tests can call it on isolated roots.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newGenerateCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newVersionCommand())
}

// codedError carries the process exit code alongside the message.
type codedError struct {
	code int
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	return &codedError{code: code, err: err}
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	levelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	logger.Initialize(logger.Config{
		Level:     logger.ParseLevel(levelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "icondex",
	})
}
