// Package app provides the main TUI application that wires all views together.
package app

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/datadeck-dev/datadeck/internal/api"
	"github.com/datadeck-dev/datadeck/internal/config"
	"github.com/datadeck-dev/datadeck/internal/log"
	"github.com/datadeck-dev/datadeck/internal/tui"
	"github.com/datadeck-dev/datadeck/internal/tui/commands"
	"github.com/datadeck-dev/datadeck/internal/tui/views"
)

// App is the main TUI application. It routes messages between the session
// container, the network commands and the views. Every session mutation
// happens here, on the single update goroutine.
type App struct {
	model *tui.Model

	uploadView  views.UploadModel
	previewView views.PreviewModel
	chatView    views.ChatModel
	profileView views.ProfileModel

	// pickerOpen forces the file picker over the preview in the left pane,
	// used to replace an already-bound dataset.
	pickerOpen bool

	// resetNotice is shown after a completed reset until the next keypress.
	resetNotice string

	// Start times of in-flight operations, for the duration fields in the
	// event log.
	uploadStart time.Time
	sendStart   time.Time
}

// New creates the App with a fresh session.
func New(cfg *config.Config, client *api.Client, logger *log.Logger) *App {
	model := tui.NewModel(cfg, client, logger)

	leftW, leftH := paneSize(model.Width, model.Height, true)
	rightW, rightH := paneSize(model.Width, model.Height, false)

	return &App{
		model:       model,
		uploadView:  views.NewUploadModel(cfg.Upload.StartDir, model.SampleRows, leftW, leftH),
		previewView: views.NewPreviewModel(leftW, leftH),
		chatView:    views.NewChatModel(rightW, rightH),
		profileView: views.NewProfileModel(model.Width, model.Height),
	}
}

// paneSize computes the inner size of the left (upload/preview) or right
// (chat) pane. The 40/60 split mirrors the upload-left, chat-right layout.
func paneSize(width, height int, left bool) (int, int) {
	h := height - 4 // footer and borders
	if h < 10 {
		h = 10
	}
	lw := width * 2 / 5
	if left {
		return lw - 2, h
	}
	return width - lw - 4, h
}

// Init loads the server-side transcript and starts the input widgets.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		commands.LoadHistoryCmd(a.model.Client),
		a.uploadView.Init(),
		a.chatView.Init(),
	)
}

// Update handles messages and updates the application state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleResize(msg)

	case tea.KeyMsg:
		if cmd, handled := a.handleGlobalKey(msg); handled {
			return a, cmd
		}

	case tui.CtrlCResetMsg:
		a.model.CtrlCPending = false
		return a, nil

	case tui.HistoryLoadedMsg:
		return a.handleHistoryLoaded(msg)

	case tui.UploadResultMsg:
		return a.handleUploadResult(msg)

	case tui.ChatReplyMsg:
		return a.handleChatReply(msg)

	case tui.ProfileLoadedMsg:
		return a.handleProfileLoaded(msg)

	case tui.FactSavedMsg:
		return a.handleFactSaved(msg)

	case tui.NoticeExpiredMsg:
		a.model.Session.ClearNotice()
		return a, nil

	case tui.ResetDoneMsg:
		return a.handleResetDone(msg)

	case views.UploadRequestMsg:
		return a.handleUploadRequest(msg)

	case views.SendChatMsg:
		return a.handleSendChat(msg)

	case views.SaveFactMsg:
		return a.handleSaveFact(msg)

	case views.CloseProfileMsg:
		a.model.Focus = tui.FocusChat
		return a, nil
	}

	return a.routeToFocused(msg)
}

// handleResize propagates sized window messages to every view.
func (a *App) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.model.Width = msg.Width
	a.model.Height = msg.Height

	leftW, leftH := paneSize(msg.Width, msg.Height, true)
	rightW, rightH := paneSize(msg.Width, msg.Height, false)

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.uploadView, cmd = a.uploadView.Update(tea.WindowSizeMsg{Width: leftW, Height: leftH})
	cmds = append(cmds, cmd)
	a.previewView, cmd = a.previewView.Update(tea.WindowSizeMsg{Width: leftW, Height: leftH})
	cmds = append(cmds, cmd)
	a.chatView, cmd = a.chatView.Update(tea.WindowSizeMsg{Width: rightW, Height: rightH})
	cmds = append(cmds, cmd)
	a.profileView, cmd = a.profileView.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// handleGlobalKey deals with keys that work regardless of focus. Returns
// handled=false for keys the focused view should see instead.
func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	a.resetNotice = ""

	// The reset confirmation modal swallows everything except Ctrl+C.
	if a.model.Focus == tui.FocusResetConfirm && msg.String() != tui.KeyCtrlC {
		switch msg.String() {
		case "y", "Y":
			a.model.Focus = tui.FocusChat
			if err := a.model.Session.BeginReset(); err != nil {
				return nil, true
			}
			return commands.ResetCmd(a.model.Client), true
		case "n", "N", tui.KeyEsc:
			a.model.Focus = tui.FocusChat
		}
		return nil, true
	}

	switch msg.String() {
	case tui.KeyCtrlC:
		if a.model.CtrlCPending {
			return tea.Quit, true
		}
		a.model.CtrlCPending = true
		return tea.Tick(time.Second, func(time.Time) tea.Msg {
			return tui.CtrlCResetMsg{}
		}), true

	case tui.KeyTab:
		if a.model.Focus == tui.FocusUpload {
			a.model.Focus = tui.FocusChat
		} else if a.model.Focus == tui.FocusChat {
			a.model.Focus = tui.FocusUpload
		}
		return nil, true

	case tui.KeyCtrlP:
		if a.model.Focus != tui.FocusProfile && !a.model.Session.Resetting() {
			a.model.Focus = tui.FocusProfile
			// Re-opening always reloads from the backend, discarding any
			// local-only fact list.
			return tea.Batch(a.profileView.Init(), commands.LoadProfileCmd(a.model.Client)), true
		}
		return nil, true

	case tui.KeyCtrlR:
		// The confirm only opens while nothing is in flight; once it is
		// open all other keys are swallowed, so reset cannot race another
		// operation.
		if a.model.Focus != tui.FocusProfile && !a.model.Session.Busy() {
			a.model.Focus = tui.FocusResetConfirm
		}
		return nil, true
	}

	return nil, false
}

// routeToFocused forwards a message to the view that owns input.
func (a *App) routeToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Non-key messages (spinner ticks, blinks, picker reads) go everywhere.
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		var cmds []tea.Cmd
		a.uploadView, cmd = a.uploadView.Update(msg)
		cmds = append(cmds, cmd)
		a.chatView, cmd = a.chatView.Update(msg)
		cmds = append(cmds, cmd)
		a.profileView, cmd = a.profileView.Update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)
	}

	switch a.model.Focus {
	case tui.FocusUpload:
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "u" && a.model.Session.Binding() != nil {
			a.pickerOpen = !a.pickerOpen
			return a, nil
		}
		if a.leftShowsPicker() {
			a.uploadView, cmd = a.uploadView.Update(msg)
		} else {
			a.previewView, cmd = a.previewView.Update(msg)
		}
	case tui.FocusChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case tui.FocusProfile:
		a.profileView, cmd = a.profileView.Update(msg)
	}
	return a, cmd
}

// leftShowsPicker reports whether the left pane shows the file picker rather
// than the dataset preview.
func (a *App) leftShowsPicker() bool {
	return a.model.Session.Binding() == nil || a.pickerOpen
}

// ----------------------------------------------------------------------------
// Workflow handlers
// ----------------------------------------------------------------------------

func (a *App) handleUploadRequest(msg views.UploadRequestMsg) (tea.Model, tea.Cmd) {
	s := a.model.Session
	if err := s.BeginUpload(msg.Path, a.uploadView.SampleRows()); err != nil {
		s.FailUpload(err)
		return a, nil
	}
	a.uploadView.SetUploading(true)
	a.uploadStart = time.Now()
	a.logEvent(log.LogEvent{
		Event:      log.EventUploadStarted,
		File:       msg.Path,
		SampleRows: a.uploadView.SampleRows(),
	})
	return a, commands.UploadCmd(a.model.Client, msg.Path, a.uploadView.SampleRows())
}

func (a *App) handleUploadResult(msg tui.UploadResultMsg) (tea.Model, tea.Cmd) {
	s := a.model.Session
	a.uploadView.SetUploading(false)

	elapsed := time.Since(a.uploadStart).Milliseconds()
	if msg.Err != nil {
		s.FailUpload(msg.Err)
		a.logEvent(log.LogEvent{Event: log.EventUploadFailed, Error: msg.Err.Error(), DurationMs: elapsed})
		return a, nil
	}

	s.CompleteUpload(msg.Binding)
	a.previewView.SetBinding(msg.Binding)
	a.chatView.SetContextLabel(msg.Binding.Summary())
	a.pickerOpen = false
	a.logEvent(log.LogEvent{
		Event:      log.EventUploadComplete,
		DatasetID:  msg.Binding.DatasetID,
		Rows:       msg.Binding.ShapeTotal.Rows,
		Columns:    msg.Binding.ShapeTotal.Columns,
		DurationMs: elapsed,
	})
	return a, nil
}

func (a *App) handleHistoryLoaded(msg tui.HistoryLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// Degraded but usable: an empty transcript.
		a.logEvent(log.LogEvent{Event: log.EventHistoryLoaded, Error: msg.Err.Error()})
		return a, nil
	}
	a.model.Session.SetHistory(msg.Turns)
	a.chatView.SetTranscript(a.model.Session.Transcript())
	a.logEvent(log.LogEvent{Event: log.EventHistoryLoaded, Turns: len(msg.Turns)})
	return a, nil
}

func (a *App) handleSendChat(msg views.SendChatMsg) (tea.Model, tea.Cmd) {
	s := a.model.Session
	text, err := s.BeginSend(msg.Content)
	if err != nil {
		// Empty input and double-sends are silently ignored; the input
		// affordance is already disabled while a send is in flight.
		return a, nil
	}
	a.chatView.SetSending(true)
	a.chatView.SetTranscript(s.Transcript())
	a.sendStart = time.Now()
	a.logEvent(log.LogEvent{Event: log.EventChatSent})
	return a, commands.SendChatCmd(a.model.Client, text)
}

func (a *App) handleChatReply(msg tui.ChatReplyMsg) (tea.Model, tea.Cmd) {
	s := a.model.Session
	a.chatView.SetSending(false)

	elapsed := time.Since(a.sendStart).Milliseconds()
	if msg.Err != nil {
		s.FailSend(msg.Err)
		a.logEvent(log.LogEvent{Event: log.EventChatFailed, Error: msg.Err.Error(), DurationMs: elapsed})
		return a, nil
	}

	s.CompleteSend(msg.Reply)
	a.chatView.SetTranscript(s.Transcript())
	a.logEvent(log.LogEvent{Event: log.EventChatReply, DurationMs: elapsed})
	return a, nil
}

func (a *App) handleProfileLoaded(msg tui.ProfileLoadedMsg) (tea.Model, tea.Cmd) {
	s := a.model.Session
	if msg.Err != nil {
		// An unreachable profile shows as an empty list, not an error page.
		s.SetProfile(nil)
		a.logEvent(log.LogEvent{Event: log.EventProfileLoaded, Error: msg.Err.Error()})
		return a, nil
	}
	s.SetProfile(msg.Facts)
	a.logEvent(log.LogEvent{Event: log.EventProfileLoaded, Facts: len(msg.Facts)})
	return a, nil
}

func (a *App) handleSaveFact(msg views.SaveFactMsg) (tea.Model, tea.Cmd) {
	s := a.model.Session
	if err := s.BeginSaveFact(msg.Value); err != nil {
		return a, nil
	}
	a.profileView.SetSaving(true)
	return a, commands.SaveFactCmd(a.model.Client, msg.Value)
}

func (a *App) handleFactSaved(msg tui.FactSavedMsg) (tea.Model, tea.Cmd) {
	s := a.model.Session
	a.profileView.SetSaving(false)

	if msg.Err != nil {
		s.FailSaveFact(msg.Err)
		return a, nil
	}

	s.CompleteSaveFact(msg.Fact)
	a.profileView.ClearInput()
	a.logEvent(log.LogEvent{Event: log.EventProfileSaved, Facts: len(s.Profile())})
	return a, commands.ExpireNoticeCmd()
}

func (a *App) handleResetDone(msg tui.ResetDoneMsg) (tea.Model, tea.Cmd) {
	s := a.model.Session

	if msg.Err != nil {
		s.FailReset(msg.Err)
		a.logEvent(log.LogEvent{Event: log.EventResetFailed, Error: msg.Err.Error()})
		return a, nil
	}

	// Everything back to freshly-started, then re-sync the (now empty)
	// server transcript the same way a restart would.
	s.CompleteReset()
	a.previewView.SetBinding(nil)
	a.chatView.SetTranscript(nil)
	a.chatView.SetContextLabel("")
	a.pickerOpen = false
	a.resetNotice = "All data cleared."
	a.logEvent(log.LogEvent{Event: log.EventResetComplete})
	return a, commands.LoadHistoryCmd(a.model.Client)
}

func (a *App) logEvent(e log.LogEvent) {
	if a.model.Logger != nil {
		_ = a.model.Logger.Append(e)
	}
}

// ----------------------------------------------------------------------------
// Rendering
// ----------------------------------------------------------------------------

// View renders the two panes, or the profile / reset overlays when open.
func (a *App) View() string {
	s := a.model.Session

	if a.model.Focus == tui.FocusProfile {
		overlay := a.profileView.View(s.Profile(), s.SavedNotice(), s.ProfileError())
		return lipgloss.Place(a.model.Width, a.model.Height, lipgloss.Center, lipgloss.Center, overlay)
	}
	if a.model.Focus == tui.FocusResetConfirm {
		return lipgloss.Place(a.model.Width, a.model.Height, lipgloss.Center, lipgloss.Center,
			a.renderResetConfirm())
	}

	var left string
	if a.leftShowsPicker() {
		left = a.uploadView.View(s.UploadError())
	} else {
		left = a.previewView.View()
	}
	right := a.chatView.View(s.ChatError())

	leftBox := a.paneStyle(tui.FocusUpload).Width(a.model.Width*2/5 - 2).Render(left)
	rightBox := a.paneStyle(tui.FocusChat).Width(a.model.Width - a.model.Width*2/5 - 4).Render(right)

	body := lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
	return lipgloss.JoinVertical(lipgloss.Left, body, a.renderFooter())
}

func (a *App) paneStyle(f tui.Focus) lipgloss.Style {
	if a.model.Focus == f {
		return tui.FocusedBoxStyle
	}
	return tui.BoxStyle
}

func (a *App) renderResetConfirm() string {
	var b strings.Builder
	b.WriteString(tui.WarningStyle.Render("Reset all data?"))
	b.WriteString("\n\n")
	b.WriteString("This deletes the dataset, the conversation and the profile\non the server. It cannot be undone.\n\n")
	b.WriteString(tui.DimStyle.Render("y: reset       n / esc: cancel"))
	return tui.BoxStyle.Render(b.String())
}

func (a *App) renderFooter() string {
	s := a.model.Session

	if a.model.CtrlCPending {
		return tui.WarningStyle.Render(" Press Ctrl+C again to quit")
	}
	if s.Resetting() {
		return tui.DimStyle.Render(" Resetting...")
	}
	if s.ResetError() != "" {
		return tui.ErrorStyle.Render(" " + s.ResetError())
	}
	if a.resetNotice != "" {
		return tui.SuccessStyle.Render(" " + a.resetNotice)
	}
	return tui.DimStyle.Render(" Tab: switch pane   Ctrl+P: profile   Ctrl+R: reset   Ctrl+C: quit")
}
