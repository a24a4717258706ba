// Package views provides TUI view components for the datadeck application.
package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/datadeck-dev/datadeck/internal/session"
	"github.com/datadeck-dev/datadeck/internal/tui"
)

// ============================================================================
// Message Types
// ============================================================================

// SendChatMsg is sent when the user submits a chat message.
type SendChatMsg struct {
	Content string
}

// ============================================================================
// ChatModel
// ============================================================================

// ChatModel is the view model for the conversation pane. The transcript it
// renders is pushed in via SetTranscript; the session container stays the
// single owner of that state.
type ChatModel struct {
	textarea     textarea.Model
	viewport     viewport.Model
	spinner      spinner.Model
	turns        []session.Turn
	contextLabel string
	sending      bool
	width        int
	height       int
}

// NewChatModel creates a ChatModel sized to the given pane.
func NewChatModel(width, height int) ChatModel {
	ta := textarea.New()
	ta.Placeholder = "Ask about your data... (Enter to send)"
	ta.CharLimit = 5000
	ta.SetWidth(width - 4)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Focus()

	// Shift+Enter inserts a newline; plain Enter submits.
	keyMap := ta.KeyMap
	keyMap.InsertNewline = key.NewBinding(
		key.WithKeys("shift+enter", "ctrl+j"),
		key.WithHelp("shift+enter", "new line"),
	)
	ta.KeyMap = keyMap

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = tui.WarningStyle

	vp := viewport.New(vpWidth(width), vpHeight(height))
	vp.SetContent("")

	return ChatModel{
		textarea: ta,
		viewport: vp,
		spinner:  sp,
		width:    width,
		height:   height,
	}
}

func vpWidth(w int) int {
	vw := w - 4
	if vw < 20 {
		vw = 20
	}
	return vw
}

func vpHeight(h int) int {
	// Reserve space for the context line, error line, textarea and footer.
	vh := h - 11
	if vh < 5 {
		vh = 5
	}
	return vh
}

// SetTranscript replaces the rendered conversation and scrolls to the bottom.
func (m *ChatModel) SetTranscript(turns []session.Turn) {
	m.turns = turns
	m.viewport.SetContent(formatTurns(turns, m.viewport.Width))
	m.viewport.GotoBottom()
}

// SetSending marks whether a send is in flight; the input is disabled for
// the duration.
func (m *ChatModel) SetSending(v bool) {
	m.sending = v
}

// SetContextLabel sets the dataset context line shown above the transcript.
// An empty label means no dataset is bound.
func (m *ChatModel) SetContextLabel(label string) {
	m.contextLabel = label
}

// Init returns the initial command for the chat view.
func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// Update handles messages for the chat view.
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textarea.SetWidth(msg.Width - 4)
		m.viewport.Width = vpWidth(msg.Width)
		m.viewport.Height = vpHeight(msg.Height)
		// Re-wrap the transcript for the new width.
		m.viewport.SetContent(formatTurns(m.turns, m.viewport.Width))
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == tui.KeyEnter && !m.sending {
			content := m.textarea.Value()
			if strings.TrimSpace(content) != "" {
				m.textarea.Reset()
				return m, func() tea.Msg {
					return SendChatMsg{Content: content}
				}
			}
			return m, nil
		}
		if m.sending {
			// Still allow scrolling the transcript while waiting.
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the chat pane. chatErr is the last failed send's error, empty
// when there is none.
func (m ChatModel) View(chatErr string) string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Assistant"))
	b.WriteString("\n")

	if m.contextLabel != "" {
		b.WriteString(tui.ContextBarStyle.Render(m.contextLabel))
	} else {
		b.WriteString(tui.DimStyle.Render("No dataset bound. Upload a file to ground answers in data."))
	}
	b.WriteString("\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.sending {
		b.WriteString(m.spinner.View())
		b.WriteString(tui.DimStyle.Render(" thinking..."))
	}
	b.WriteString("\n")

	if chatErr != "" {
		b.WriteString(tui.ErrorStyle.Render(chatErr))
		b.WriteString("\n")
	}

	b.WriteString(m.textarea.View())
	return b.String()
}

// formatTurns renders the transcript with role labels.
func formatTurns(turns []session.Turn, width int) string {
	if len(turns) == 0 {
		return tui.DimStyle.Render("No messages yet.")
	}

	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		switch t.Role {
		case session.RoleUser:
			b.WriteString(tui.UserTurnStyle.Render("You"))
		case session.RoleAssistant:
			b.WriteString(tui.AssistantTurnStyle.Render("Assistant"))
		default:
			b.WriteString(tui.DimStyle.Render(t.Role))
		}
		b.WriteString("\n")
		b.WriteString(wrapText(t.Content, width))
		b.WriteString("\n")
	}
	return b.String()
}

// wrapText breaks long lines at word boundaries so the viewport does not
// clip them.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}

	var b strings.Builder
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			b.WriteString("\n")
		}
		lineLen := 0
		for j, word := range strings.Fields(line) {
			wordLen := len([]rune(word))
			if j > 0 && lineLen+wordLen+1 > width {
				b.WriteString("\n")
				lineLen = 0
			} else if j > 0 {
				b.WriteString(" ")
				lineLen++
			}
			b.WriteString(word)
			lineLen += wordLen
		}
	}
	return b.String()
}
