// Package main provides the entry point for the nhkeasy CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/basjacobs93/nhk-web-easy/internal/config"
	"github.com/basjacobs93/nhk-web-easy/internal/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for nhkeasy.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nhkeasy",
		Short: "Personal NHK News Web Easy reader with learned-kanji furigana",
		Long: `nhkeasy scrapes NHK News Web Easy articles, annotates kanji with
furigana based on the kanji you have learned on WaniKani, and generates
a static site where furigana visibility can be toggled per reader.

Typical workflow:
  nhkeasy sync       # pull learned kanji from WaniKani
  nhkeasy fetch      # scrape the latest articles
  nhkeasy process    # annotate articles with furigana
  nhkeasy generate   # build the static site
  nhkeasy serve      # preview the site locally

Or do everything in one step:
  nhkeasy run`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: nhkeasy.yml in current or XDG config directory)")

	// Add subcommands
	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewProcessCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getConfigFlag retrieves the config flag from the command or its parent.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return ""
		}
	}
	return path
}

// setup resolves the effective configuration and logger for a command run.
// It loads the config file (when found), overlays environment tokens,
// validates the result, and installs a sanitizing logger as the default.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(getConfigFlag(cmd))
	if err != nil {
		return nil, nil, err
	}

	verbose := getVerboseFlag(cmd)
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	return cfg, logger, nil
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM
// so long-running commands shut down gracefully.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}
