package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/ucma/internal/log"
)

// NewRootCmd creates the root command for ucma.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ucma",
		Short: "Compute metrics for git refs with pluggable stages",
		Long: `ucma runs an extractor, an analyzer and a reporter for every git ref given
on the command line. Refs are processed concurrently and a failing ref never
stops the others.

The stages are plugins selected by name in the configuration file
(.ucma.yaml in the current directory, or config.yaml in the XDG config
directory). Run "ucma plugins" to list what is available.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-format", "text", "Log format: text or json")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewPluginsCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		os.Exit(1)
	}
}

// exitError carries a specific exit status.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// newLogger builds the secure logger from the persistent flags and writes
// to the command's stderr.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return nil, err
	}
	return log.NewLogger(cmd.ErrOrStderr(), format, verbose)
}
