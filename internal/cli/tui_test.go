package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testEntries() []manifestEntry {
	return []manifestEntry{
		{Path: "alpha.toml"},
		{Path: "beta.toml"},
		{Path: "gamma.toml"},
	}
}

func TestManifestListNavigation(t *testing.T) {
	m := NewManifestListModel(testEntries())

	// Down moves the cursor, clamped at the end.
	for i := 0; i < 5; i++ {
		next, _ := m.Update(keyMsg("down"))
		m = next.(ManifestListModel)
	}
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2", m.Cursor)
	}

	// Up moves back, clamped at zero.
	for i := 0; i < 5; i++ {
		next, _ := m.Update(keyMsg("up"))
		m = next.(ManifestListModel)
	}
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0", m.Cursor)
	}
}

func TestManifestListSelect(t *testing.T) {
	m := NewManifestListModel(testEntries())
	next, _ := m.Update(keyMsg("down"))
	m = next.(ManifestListModel)
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(ManifestListModel)

	if m.Selected != "beta.toml" {
		t.Errorf("Selected = %q, want beta.toml", m.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestManifestListQuitWithoutSelection(t *testing.T) {
	m := NewManifestListModel(testEntries())
	next, cmd := m.Update(keyMsg("esc"))
	m = next.(ManifestListModel)

	if m.Selected != "" {
		t.Errorf("Selected = %q, want empty", m.Selected)
	}
	if cmd == nil {
		t.Error("esc should quit the program")
	}
}

func TestManifestListView(t *testing.T) {
	m := NewManifestListModel(testEntries())
	view := m.View()

	for _, want := range []string{"Select Manifest", "alpha.toml", "beta.toml", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero time", time.Time{}, ""},
		{"minutes", now.Add(-30 * time.Minute), "30m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-48 * time.Hour), "2d ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatRelativeTime(tt.t); got != tt.want {
				t.Errorf("formatRelativeTime() = %q, want %q", got, tt.want)
			}
		})
	}
}
