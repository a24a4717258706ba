// Package cli defines Cobra command definitions for the datadeck CLI.
// This file contains the one-shot chat and history commands.
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datadeck-dev/datadeck/internal/session"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Send one question to the assistant and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")
		if strings.TrimSpace(question) == "" {
			return session.ErrEmptyInput
		}

		client := newClient(loadConfig())
		reply, err := client.Chat(context.Background(), question)
		if err != nil {
			return fmt.Errorf("chat: %w", err)
		}

		fmt.Println(reply)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the server-side conversation transcript",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient(loadConfig())
		msgs, err := client.Messages(context.Background())
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}

		if len(msgs) == 0 {
			fmt.Println("No messages yet.")
			return nil
		}
		for _, m := range msgs {
			switch m.Role {
			case session.RoleUser:
				fmt.Printf("You: %s\n", m.Content)
			case session.RoleAssistant:
				fmt.Printf("Assistant: %s\n", m.Content)
			default:
				fmt.Printf("%s: %s\n", m.Role, m.Content)
			}
		}
		return nil
	},
}
