// Package commands provides Bubble Tea commands for backend operations.
package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/datadeck-dev/datadeck/internal/api"
	"github.com/datadeck-dev/datadeck/internal/session"
	"github.com/datadeck-dev/datadeck/internal/tui"
)

// LoadHistoryCmd fetches the server-side transcript. Called once at startup;
// a failure degrades to an empty transcript rather than blocking the UI.
func LoadHistoryCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		msgs, err := client.Messages(context.Background())
		if err != nil {
			return tui.HistoryLoadedMsg{Err: err}
		}

		turns := make([]session.Turn, len(msgs))
		for i, m := range msgs {
			turns[i] = session.Turn{Role: m.Role, Content: m.Content}
		}
		return tui.HistoryLoadedMsg{Turns: turns}
	}
}

// SendChatCmd sends one user message and resolves to the assistant reply.
// The dataset binding is deliberately not a parameter: chat works with no
// dataset bound, the backend grounds replies in whatever it holds.
func SendChatCmd(client *api.Client, text string) tea.Cmd {
	return func() tea.Msg {
		reply, err := client.Chat(context.Background(), text)
		if err != nil {
			return tui.ChatReplyMsg{Err: err}
		}
		return tui.ChatReplyMsg{Reply: reply}
	}
}
