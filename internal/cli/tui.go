package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/driftlab/refdag/pkg/errors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// manifestEntry is one selectable manifest file.
type manifestEntry struct {
	Path    string
	ModTime time.Time
}

// ManifestListModel is the bubbletea model for interactive manifest selection.
type ManifestListModel struct {
	Entries  []manifestEntry
	Cursor   int
	Selected string
}

// NewManifestListModel creates a new manifest list model.
func NewManifestListModel(entries []manifestEntry) ManifestListModel {
	return ManifestListModel{Entries: entries}
}

func (m ManifestListModel) Init() tea.Cmd {
	return nil
}

func (m ManifestListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Entries[m.Cursor].Path
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ManifestListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Manifest"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: quit"))
	b.WriteString("\n\n")

	for i, e := range m.Entries {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%-30s  %s", cursor, e.Path, listDimStyle.Render(formatRelativeTime(e.ModTime)))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

// resolveManifestArg picks the manifest to operate on: the explicit
// argument if given, the single *.toml in the current directory, or an
// interactive selection when there are several.
func resolveManifestArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	matches, err := filepath.Glob("*.toml")
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", errors.New(errors.ErrCodeFileNotFound, "no manifest given and no *.toml in the current directory")
	case 1:
		printInfo("Using %s", matches[0])
		return matches[0], nil
	}

	entries := make([]manifestEntry, 0, len(matches))
	for _, path := range matches {
		entry := manifestEntry{Path: path}
		if info, err := os.Stat(path); err == nil {
			entry.ModTime = info.ModTime()
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	final, err := tea.NewProgram(NewManifestListModel(entries)).Run()
	if err != nil {
		return "", fmt.Errorf("manifest picker: %w", err)
	}
	m, ok := final.(ManifestListModel)
	if !ok || m.Selected == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "no manifest selected")
	}
	return m.Selected, nil
}

// formatRelativeTime renders a timestamp as a short "ago" string.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
