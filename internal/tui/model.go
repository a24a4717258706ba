// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"github.com/datadeck-dev/datadeck/internal/api"
	"github.com/datadeck-dev/datadeck/internal/config"
	"github.com/datadeck-dev/datadeck/internal/log"
	"github.com/datadeck-dev/datadeck/internal/session"
)

// Focus identifies which pane owns keyboard input.
type Focus int

const (
	FocusUpload Focus = iota // file picker / sample size pane
	FocusChat                // conversation pane
	FocusProfile             // profile overlay
	FocusResetConfirm        // reset confirmation prompt
)

// Model is the shared state the app and its views read. The session container
// is the single owner of dataset/transcript/profile state; everything here
// besides Session is presentation plumbing.
type Model struct {
	Client  *api.Client
	Session *session.Session
	Logger  *log.Logger

	Focus        Focus
	Width        int
	Height       int
	CtrlCPending bool

	// SampleRows is the currently selected sample size for the next upload.
	SampleRows int
}

// NewModel creates the shared model with a fresh, empty session.
func NewModel(cfg *config.Config, client *api.Client, logger *log.Logger) *Model {
	sampleRows := cfg.Upload.SampleRows
	if sampleRows == 0 {
		sampleRows = 100
	}
	return &Model{
		Client:     client,
		Session:    session.New(),
		Logger:     logger,
		Focus:      FocusChat,
		Width:      80,
		Height:     24,
		SampleRows: sampleRows,
	}
}
