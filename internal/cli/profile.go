// Package cli defines Cobra command definitions for the datadeck CLI.
// This file contains the profile and reset commands.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datadeck-dev/datadeck/internal/session"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print the saved profile facts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient(loadConfig())
		facts, err := client.Profile(context.Background())
		if err != nil {
			return fmt.Errorf("profile: %w", err)
		}

		if len(facts) == 0 {
			fmt.Println("No facts saved yet.")
			return nil
		}
		for i, fact := range facts {
			fmt.Printf("%d. %s\n", i+1, fact)
		}
		return nil
	},
}

var profileAddCmd = &cobra.Command{
	Use:   "add <fact>",
	Short: "Save a fact for the assistant to remember",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fact := strings.Join(args, " ")
		if strings.TrimSpace(fact) == "" {
			return session.ErrEmptyInput
		}

		client := newClient(loadConfig())
		if err := client.SaveFact(context.Background(), fact); err != nil {
			return fmt.Errorf("saving fact: %w", err)
		}

		fmt.Println("Fact saved.")
		return nil
	},
}

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all server-side state (dataset, transcript, profile)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			return fmt.Errorf("reset deletes the dataset, transcript and profile; re-run with --yes to confirm")
		}

		client := newClient(loadConfig())
		if err := client.Reset(context.Background()); err != nil {
			return fmt.Errorf("reset: %w", err)
		}

		fmt.Println("All data cleared.")
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileAddCmd)
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Confirm the destructive reset")
}
