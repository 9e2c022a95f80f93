package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gwd/internal/guard/app"
	"gwd/internal/guard/challenge"
	"gwd/internal/guard/common/clock"
	"gwd/internal/guard/common/log"
	"gwd/internal/guard/config"
	"gwd/internal/guard/hosts"
)

const version = "1.0.0"

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Configure global logging
	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	rootCmd := newRootCommand(cfg)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCommand constructs all components and wires them together.
func newRootCommand(cfg *config.AppConfig) *cobra.Command {
	logger := log.GetLogger()
	locator := hosts.NewLocator(cfg.HostsPath)
	gate := challenge.New(os.Stdin, os.Stdout)

	deps := &app.Deps{
		Config:  cfg,
		Locator: locator,
		Editor:  hosts.NewEditor(locator, gate, logger),
		Logger:  logger,
		Clock:   clock.RealClock{},
		Out:     os.Stdout,
	}

	rootCmd := &cobra.Command{
		Use:     "gwd",
		Short:   "Get Work Done - block and unblock distracting websites",
		Long:    "gwd blocks websites by pointing them at a null address in the system hosts file. Unblocking requires a typing challenge to add friction to impulsive reversal.",
		Version: version,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.AddCommand(
		app.NewBlockCommand(deps),
		app.NewUnblockCommand(deps),
		app.NewListCommand(deps),
	)
	return rootCmd
}
