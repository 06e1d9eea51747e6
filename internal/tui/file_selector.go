package tui

import (
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FileSelectorModel wraps the bubbles file picker used to choose a file to upload
type FileSelectorModel struct {
	picker filepicker.Model

	selected  string
	confirmed bool
	cancelled bool

	width  int
	height int
}

// NewFileSelectorModel creates a file selector rooted at dir (the working
// directory when empty)
func NewFileSelectorModel(dir string) FileSelectorModel {
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		} else {
			dir = "."
		}
	}

	fp := filepicker.New()
	fp.CurrentDirectory = dir
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true

	return FileSelectorModel{picker: fp}
}

// Init reads the starting directory
func (m FileSelectorModel) Init() tea.Cmd {
	return m.picker.Init()
}

// Update handles messages and updates the model
func (m FileSelectorModel) Update(msg tea.Msg) (FileSelectorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			m.confirmed = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.selected = path
		m.confirmed = true
	}

	return m, cmd
}

// View renders the picker inside a box
func (m FileSelectorModel) View() string {
	width := m.width - 8
	if width < 40 {
		width = 40
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		pickerTitleStyle.Render("📎 Upload a file"),
		hintStyle.Render(m.picker.CurrentDirectory),
		m.picker.View(),
		pickerFooterStyle.Render("Enter: upload  ←/→: directories  Esc: cancel"),
	)

	return pickerBoxStyle.Width(width).Render(content)
}

// IsConfirmed returns whether a file was chosen
func (m FileSelectorModel) IsConfirmed() bool {
	return m.confirmed && !m.cancelled
}

// IsCancelled returns whether the user cancelled
func (m FileSelectorModel) IsCancelled() bool {
	return m.cancelled
}

// SelectedPath returns the chosen file
func (m FileSelectorModel) SelectedPath() string {
	return m.selected
}
