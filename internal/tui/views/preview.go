// Package views provides TUI view components for the datadeck application.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/datadeck-dev/datadeck/internal/dataset"
	"github.com/datadeck-dev/datadeck/internal/tui"
)

// cellTruncateLimit caps how many characters of a cell are displayed.
const cellTruncateLimit = 50

// ============================================================================
// PreviewModel
// ============================================================================

// PreviewModel renders the active dataset: summary line, preview rows and
// per-column statistics. It holds no dataset state of its own beyond the
// table widget rebuilt from the binding it was last given.
type PreviewModel struct {
	rowsTable table.Model
	binding   *dataset.Binding
	showStats bool
	width     int
	height    int
}

// NewPreviewModel creates an empty PreviewModel.
func NewPreviewModel(width, height int) PreviewModel {
	return PreviewModel{width: width, height: height}
}

// SetBinding rebuilds the preview for a new (or cleared) dataset binding.
func (m *PreviewModel) SetBinding(b *dataset.Binding) {
	m.binding = b
	if b == nil {
		return
	}
	m.rowsTable = buildRowsTable(b, m.width, m.tableHeight())
}

func (m *PreviewModel) tableHeight() int {
	th := m.height - 8
	if th < 3 {
		th = 3
	}
	return th
}

// buildRowsTable builds the preview-rows table, capped at the display limit.
func buildRowsTable(b *dataset.Binding, width, height int) table.Model {
	colWidth := 16
	if len(b.Columns) > 0 {
		if w := (width - 4) / len(b.Columns); w > colWidth {
			colWidth = w
		}
	}

	cols := make([]table.Column, len(b.Columns))
	for i, name := range b.Columns {
		cols[i] = table.Column{Title: name, Width: colWidth}
	}

	preview := b.DisplayPreview()
	rows := make([]table.Row, len(preview))
	for i, row := range preview {
		cells := make(table.Row, len(b.Columns))
		for j, name := range b.Columns {
			cells[j] = truncateCell(row[name])
		}
		rows[i] = cells
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(true),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("#1976D2"))
	t.SetStyles(styles)
	return t
}

func truncateCell(s string) string {
	r := []rune(s)
	if len(r) > cellTruncateLimit {
		return string(r[:cellTruncateLimit]) + "..."
	}
	return s
}

// Init returns the initial command for the preview view.
func (m PreviewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the preview view.
func (m PreviewModel) Update(msg tea.Msg) (PreviewModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.binding != nil {
			m.rowsTable = buildRowsTable(m.binding, m.width, m.tableHeight())
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "v" {
			m.showStats = !m.showStats
			return m, nil
		}
	}

	m.rowsTable, cmd = m.rowsTable.Update(msg)
	return m, cmd
}

// View renders the preview pane.
func (m PreviewModel) View() string {
	if m.binding == nil {
		return tui.DimStyle.Render("No dataset loaded yet.")
	}

	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Dataset"))
	b.WriteString("\n")
	b.WriteString(m.renderSummary())
	b.WriteString("\n")

	if m.showStats {
		b.WriteString(tui.DimStyle.Render("Columns (press v for rows)"))
		b.WriteString("\n")
		b.WriteString(m.renderStats())
	} else {
		b.WriteString(tui.DimStyle.Render(fmt.Sprintf("Preview, first %d rows (press v for column stats)", len(m.binding.DisplayPreview()))))
		b.WriteString("\n")
		b.WriteString(m.rowsTable.View())
	}

	return b.String()
}

// renderSummary shows the shape, format and identity of the dataset.
func (m PreviewModel) renderSummary() string {
	bd := m.binding
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s rows × %d cols | %s | %s\n",
		tui.UserTurnStyle.Render(fmt.Sprintf("%d", bd.ShapeTotal.Rows)),
		bd.ShapeTotal.Columns,
		strings.ToUpper(bd.Sniff.Filetype),
		strings.ToUpper(bd.Sniff.Encoding)))
	b.WriteString(tui.DimStyle.Render(fmt.Sprintf("id %s | delimiter %q | .%s | %s",
		bd.DatasetID, bd.Sniff.Delimiter, bd.Ext, bd.RawPath)))
	b.WriteString("\n")
	return b.String()
}

// renderStats shows the per-column null statistics with a small ratio bar.
func (m PreviewModel) renderStats() string {
	nameWidth := 10
	for _, st := range m.binding.Stats {
		if len(st.Column) > nameWidth {
			nameWidth = len(st.Column)
		}
	}

	var b strings.Builder
	for _, st := range m.binding.Stats {
		bar := ratioBar(st.NullRatio, 10)
		b.WriteString(fmt.Sprintf("%-*s  %-10s  %6d null  %s %5.1f%%\n",
			nameWidth, st.Column, st.Dtype, st.NullCount, bar, st.NullRatio))
	}
	return b.String()
}

// ratioBar renders a filled/empty bar for a percentage in [0, 100].
func ratioBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return tui.WarningStyle.Render(strings.Repeat("█", filled)) +
		tui.DimStyle.Render(strings.Repeat("░", width-filled))
}
