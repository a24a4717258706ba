// Package views provides TUI view components for the datadeck application.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/datadeck-dev/datadeck/internal/dataset"
	"github.com/datadeck-dev/datadeck/internal/tui"
)

// ============================================================================
// Message Types
// ============================================================================

// UploadRequestMsg is sent when the user picks a file to upload.
type UploadRequestMsg struct {
	Path string
}

// ============================================================================
// UploadModel
// ============================================================================

// UploadModel is the view model for the file upload pane.
type UploadModel struct {
	picker    filepicker.Model
	spinner   spinner.Model
	sampleIdx int
	uploading bool
	width     int
	height    int
}

// NewUploadModel creates an UploadModel rooted at startDir with the given
// default sample size.
func NewUploadModel(startDir string, sampleRows, width, height int) UploadModel {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv", ".tsv", ".txt"}
	if startDir != "" {
		fp.CurrentDirectory = startDir
	}
	fp.Height = pickerHeight(height)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = tui.WarningStyle

	idx := 0
	for i, c := range dataset.SampleRowsChoices {
		if c == sampleRows {
			idx = i
		}
	}

	return UploadModel{
		picker:    fp,
		spinner:   sp,
		sampleIdx: idx,
		width:     width,
		height:    height,
	}
}

func pickerHeight(h int) int {
	// Reserve space for the title, sample selector, error line and footer.
	ph := h - 10
	if ph < 5 {
		ph = 5
	}
	return ph
}

// SampleRows returns the currently selected sample size.
func (m UploadModel) SampleRows() int {
	return dataset.SampleRowsChoices[m.sampleIdx]
}

// SetUploading marks whether an upload is in flight. While one is, the picker
// stops accepting input so a second upload cannot start.
func (m *UploadModel) SetUploading(v bool) {
	m.uploading = v
}

// Init returns the initial command for the upload view.
func (m UploadModel) Init() tea.Cmd {
	return tea.Batch(m.picker.Init(), m.spinner.Tick)
}

// Update handles messages for the upload view.
func (m UploadModel) Update(msg tea.Msg) (UploadModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.picker.Height = pickerHeight(msg.Height)
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.uploading {
			// Input stays disabled for the duration of the upload.
			return m, nil
		}
		if msg.String() == "s" {
			m.sampleIdx = (m.sampleIdx + 1) % len(dataset.SampleRowsChoices)
			return m, nil
		}
	}

	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		return m, tea.Batch(cmd, func() tea.Msg {
			return UploadRequestMsg{Path: path}
		})
	}

	return m, cmd
}

// View renders the upload pane. uploadErr is the last upload failure, empty
// when there is none.
func (m UploadModel) View(uploadErr string) string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Upload"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Sample rows: %s %s\n",
		tui.UserTurnStyle.Render(fmt.Sprintf("%d", m.SampleRows())),
		tui.DimStyle.Render("(press s to change)")))
	b.WriteString("\n")

	if m.uploading {
		b.WriteString(m.spinner.View())
		b.WriteString(" Processing file...\n")
	} else {
		b.WriteString(m.picker.View())
		b.WriteString("\n")
		b.WriteString(tui.DimStyle.Render("CSV, TSV and TXT files only"))
		b.WriteString("\n")
	}

	if uploadErr != "" {
		b.WriteString(tui.ErrorStyle.Render(uploadErr))
		b.WriteString("\n")
	}

	return b.String()
}
