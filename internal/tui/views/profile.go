// Package views provides TUI view components for the datadeck application.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/datadeck-dev/datadeck/internal/tui"
)

// ============================================================================
// Message Types
// ============================================================================

// SaveFactMsg is sent when the user submits a new profile fact.
type SaveFactMsg struct {
	Value string
}

// CloseProfileMsg is sent when the user dismisses the profile overlay.
type CloseProfileMsg struct{}

// ============================================================================
// ProfileModel
// ============================================================================

// ProfileModel is the view model for the profile overlay. The fact list is
// always whatever the session container holds; the overlay only owns the
// input field.
type ProfileModel struct {
	input  textinput.Model
	saving bool
	width  int
	height int
}

// NewProfileModel creates the profile overlay view.
func NewProfileModel(width, height int) ProfileModel {
	ti := textinput.New()
	ti.Placeholder = "Something the assistant should remember about you"
	ti.CharLimit = 500
	ti.Width = width - 12
	ti.Focus()

	return ProfileModel{
		input:  ti,
		width:  width,
		height: height,
	}
}

// SetSaving marks whether a save is in flight.
func (m *ProfileModel) SetSaving(v bool) {
	m.saving = v
}

// ClearInput empties the input field after a confirmed save.
func (m *ProfileModel) ClearInput() {
	m.input.Reset()
}

// Init returns the initial command for the profile overlay.
func (m ProfileModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the profile overlay.
func (m ProfileModel) Update(msg tea.Msg) (ProfileModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 12
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case tui.KeyEsc:
			return m, func() tea.Msg { return CloseProfileMsg{} }
		case tui.KeyEnter:
			if m.saving {
				return m, nil
			}
			value := m.input.Value()
			if strings.TrimSpace(value) != "" {
				return m, func() tea.Msg {
					return SaveFactMsg{Value: value}
				}
			}
			return m, nil
		}
		if m.saving {
			return m, nil
		}
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the profile overlay over the given fact list. notice is the
// transient save-success indicator; errMsg the last save/load failure.
func (m ProfileModel) View(facts []string, notice bool, errMsg string) string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Profile"))
	b.WriteString("\n\n")

	if notice {
		b.WriteString(tui.SuccessStyle.Render("Fact saved!"))
		b.WriteString("\n\n")
	}
	if errMsg != "" {
		b.WriteString(tui.ErrorStyle.Render(errMsg))
		b.WriteString("\n\n")
	}

	b.WriteString(tui.DimStyle.Render(fmt.Sprintf("Saved facts (%d):", len(facts))))
	b.WriteString("\n")
	if len(facts) == 0 {
		b.WriteString(tui.DimStyle.Render("  nothing saved yet"))
		b.WriteString("\n")
	} else {
		for i, fact := range facts {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, fact))
		}
	}
	b.WriteString("\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.saving {
		b.WriteString(tui.DimStyle.Render("Saving..."))
	} else {
		b.WriteString(tui.DimStyle.Render("Enter: save       Esc: close"))
	}

	return tui.BoxStyle.Width(m.width - 8).Render(b.String())
}
