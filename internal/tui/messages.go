// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"github.com/datadeck-dev/datadeck/internal/dataset"
	"github.com/datadeck-dev/datadeck/internal/session"
)

// ============================================================================
// Network Result Messages
// ============================================================================

// HistoryLoadedMsg carries the server-side transcript fetched at startup.
// Err is non-fatal; an empty transcript is the degraded state.
type HistoryLoadedMsg struct {
	Turns []session.Turn
	Err   error
}

// UploadResultMsg resolves an in-flight upload: either a fully-decoded
// binding or the error to surface.
type UploadResultMsg struct {
	Binding *dataset.Binding
	Err     error
}

// ChatReplyMsg resolves an in-flight chat send.
type ChatReplyMsg struct {
	Reply string
	Err   error
}

// ProfileLoadedMsg carries the server's fact list for the profile overlay.
type ProfileLoadedMsg struct {
	Facts []string
	Err   error
}

// FactSavedMsg resolves an in-flight profile save. Fact is the text that was
// confirmed by the backend.
type FactSavedMsg struct {
	Fact string
	Err  error
}

// ResetDoneMsg resolves an in-flight reset-all.
type ResetDoneMsg struct {
	Err error
}

// ============================================================================
// UI Control Messages
// ============================================================================

// NoticeExpiredMsg dismisses the transient save-success indicator.
type NoticeExpiredMsg struct{}

// CtrlCResetMsg clears the pending Ctrl+C confirmation after its timeout.
type CtrlCResetMsg struct{}
