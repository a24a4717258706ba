// Package commands provides Bubble Tea commands for backend operations.
package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/datadeck-dev/datadeck/internal/api"
	"github.com/datadeck-dev/datadeck/internal/tui"
)

// ResetCmd asks the backend to discard all held state. On failure the client
// keeps everything as it was; the update loop only clears state on success.
func ResetCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		if err := client.Reset(context.Background()); err != nil {
			return tui.ResetDoneMsg{Err: err}
		}
		return tui.ResetDoneMsg{}
	}
}
