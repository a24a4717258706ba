// Package commands provides Bubble Tea commands for backend operations.
// Each command performs one network call and resolves to a tui message; all
// session state mutation happens in the app's update loop.
package commands

import (
	"context"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/datadeck-dev/datadeck/internal/api"
	"github.com/datadeck-dev/datadeck/internal/dataset"
	"github.com/datadeck-dev/datadeck/internal/tui"
)

// UploadCmd reads the file at path and sends it to the backend. The response
// is decoded into a full dataset binding before it reaches the update loop,
// so dependents only ever see a complete binding or an error.
func UploadCmd(client *api.Client, path string, sampleRows int) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return tui.UploadResultMsg{Err: err}
		}
		defer f.Close()

		resp, err := client.Upload(context.Background(), filepath.Base(path), f, sampleRows)
		if err != nil {
			return tui.UploadResultMsg{Err: err}
		}
		if !resp.Success {
			return tui.UploadResultMsg{Err: &api.AppError{Message: resp.Message}}
		}

		binding, err := dataset.DecodeBinding(resp)
		if err != nil {
			return tui.UploadResultMsg{Err: err}
		}
		return tui.UploadResultMsg{Binding: binding}
	}
}
