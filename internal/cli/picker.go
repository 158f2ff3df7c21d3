package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// pickLayoutFile finds the layout documents in dir and lets the user choose
// one interactively. With exactly one candidate the picker is skipped.
func pickLayoutFile(dir string) (string, error) {
	files := findLayoutFiles(dir)
	if len(files) == 0 {
		return "", fmt.Errorf("no layout documents (.yaml, .yml, .toml) found in %s", dir)
	}
	if len(files) == 1 {
		printInfo("Using %s", files[0])
		return files[0], nil
	}

	model := newLayoutPickerModel(files)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", fmt.Errorf("layout picker: %w", err)
	}

	picked := final.(layoutPickerModel)
	if picked.Selected == "" {
		return "", fmt.Errorf("no layout selected")
	}
	return picked.Selected, nil
}

// findLayoutFiles returns the layout documents in dir, sorted by name.
func findLayoutFiles(dir string) []string {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml", "*.toml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files
}

// layoutPickerModel is the bubbletea model for interactive layout selection.
type layoutPickerModel struct {
	Files    []string
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// newLayoutPickerModel creates a new layout picker model.
func newLayoutPickerModel(files []string) layoutPickerModel {
	return layoutPickerModel{
		Files:  files,
		Height: 15,
	}
}

func (m layoutPickerModel) Init() tea.Cmd {
	return nil
}

func (m layoutPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Files)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Files[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m layoutPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Layout"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Files) {
		end = len(m.Files)
	}

	for i := m.Offset; i < end; i++ {
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		b.WriteString(cursor + style.Render(m.Files[i]) + "\n")
	}

	return b.String()
}
