// Package commands provides Bubble Tea commands for backend operations.
package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/datadeck-dev/datadeck/internal/api"
	"github.com/datadeck-dev/datadeck/internal/tui"
)

// noticeDuration is how long the save-success indicator stays up.
const noticeDuration = 2 * time.Second

// LoadProfileCmd fetches the stored fact list. Issued every time the profile
// overlay opens, so the display always starts from the server's list.
func LoadProfileCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		facts, err := client.Profile(context.Background())
		if err != nil {
			return tui.ProfileLoadedMsg{Err: err}
		}
		return tui.ProfileLoadedMsg{Facts: facts}
	}
}

// SaveFactCmd persists one fact. The fact is only reflected locally after the
// backend confirms, unlike chat sends.
func SaveFactCmd(client *api.Client, fact string) tea.Cmd {
	return func() tea.Msg {
		if err := client.SaveFact(context.Background(), fact); err != nil {
			return tui.FactSavedMsg{Err: err}
		}
		return tui.FactSavedMsg{Fact: fact}
	}
}

// ExpireNoticeCmd clears the save-success indicator after noticeDuration.
func ExpireNoticeCmd() tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return tui.NoticeExpiredMsg{}
	})
}
