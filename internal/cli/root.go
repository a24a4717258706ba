// Package cli defines Cobra command definitions for the datadeck CLI.
// This file contains the root command, version flag, and help output.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/datadeck-dev/datadeck/internal/api"
	"github.com/datadeck-dev/datadeck/internal/config"
	"github.com/datadeck-dev/datadeck/internal/log"
	"github.com/datadeck-dev/datadeck/internal/tui"
	"github.com/datadeck-dev/datadeck/internal/tui/app"
)

var (
	serverURL string
	version   = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "datadeck",
	Short: "Terminal client for the data-analysis agent",
	Long: `Datadeck talks to a local data-analysis agent backend. Upload a
delimited-text file, inspect the generated preview, and chat with an
assistant that grounds its answers in the dataset. The assistant also
remembers personal facts you save to your profile.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// When run without a subcommand, launch the TUI if TTY, show help otherwise
		if !tui.IsTTY() {
			return cmd.Help()
		}

		cfg := loadConfig()
		client := newClient(cfg)

		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("locating home directory: %w", err)
		}
		logger, err := log.NewLogger(home)
		if err != nil {
			return fmt.Errorf("opening event log: %w", err)
		}
		_ = logger.Append(log.LogEvent{Event: log.EventRunStarted})

		return tui.Run(app.New(cfg, client, logger))
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the user config and applies the --server flag override.
func loadConfig() *config.Config {
	cfg := config.Load()
	if serverURL != "" {
		cfg.Server.BaseURL = serverURL
	}
	return cfg
}

// newClient builds the backend client from config.
func newClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.Server.BaseURL, time.Duration(cfg.Server.TimeoutSeconds)*time.Second)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Backend base URL (default http://localhost:8000)")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(resetCmd)
}
