package views

import (
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/datadeck-dev/datadeck/internal/session"
)

func TestTruncateCellKeepsRunesIntact(t *testing.T) {
	long := strings.Repeat("é", cellTruncateLimit+10)
	got := truncateCell(long)

	if !utf8.ValidString(got) {
		t.Error("truncated cell is not valid UTF-8")
	}
	if want := strings.Repeat("é", cellTruncateLimit) + "..."; got != want {
		t.Errorf("truncateCell cut %d runes, want %d", utf8.RuneCountInString(got)-3, cellTruncateLimit)
	}

	short := strings.Repeat("é", cellTruncateLimit)
	if truncateCell(short) != short {
		t.Error("cell at the limit was truncated")
	}
}

func TestWrapTextCountsRunes(t *testing.T) {
	// Three 4-rune words: the first two fit in 9 columns, the third wraps.
	got := wrapText("가나다라 마바사아 자차카타", 9)
	want := "가나다라 마바사아\n자차카타"
	if got != want {
		t.Errorf("wrapText = %q, want %q", got, want)
	}

	if got := wrapText("short line", 80); got != "short line" {
		t.Errorf("wrapText reflowed a fitting line: %q", got)
	}
}

func TestResizeRewrapsTranscript(t *testing.T) {
	m := NewChatModel(100, 30)
	content := strings.TrimSpace(strings.Repeat("word ", 40))
	m.SetTranscript([]session.Turn{{Role: session.RoleUser, Content: content}})
	before := m.viewport.TotalLineCount()

	m, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 30})

	if m.viewport.Width != vpWidth(40) {
		t.Errorf("viewport width = %d after resize, want %d", m.viewport.Width, vpWidth(40))
	}
	after := m.viewport.TotalLineCount()
	if after <= before {
		t.Errorf("transcript not re-wrapped on resize: %d lines before, %d after", before, after)
	}
}
