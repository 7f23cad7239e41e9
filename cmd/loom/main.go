package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	configPath string
	logLevel   string
)

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	err  error
	// quiet is set when the command already reported the failure.
	quiet bool
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	code := 1
	var ee *exitError
	if errors.As(err, &ee) {
		code = ee.code
		if ee.quiet {
			os.Exit(code)
		}
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(code)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "loom",
		Short:         "Draft, moderate and mail TheLoomReport content with Gemini",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(generatePostCmd())
	rootCmd.AddCommand(generateDigestCmd())
	rootCmd.AddCommand(sendNewsletterCmd())
	rootCmd.AddCommand(moderateCmd())
	rootCmd.AddCommand(optimizeImageCmd())
	rootCmd.AddCommand(buildIndexCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the loom version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "loom %s\n", version)
		},
	}
}
