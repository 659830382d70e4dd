// Package chooser is the modal "Open DB…" file chooser. It runs either
// embedded in the browser or as a standalone program before the browser
// starts.
package chooser

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned by Choose when the user dismisses the chooser.
var ErrCancelled = errors.New("no database selected")

// SelectedMsg reports the file the user confirmed.
type SelectedMsg struct {
	Path string
}

// CancelledMsg reports that the chooser was dismissed without a choice.
type CancelledMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)
)

// Cancel dismisses the chooser. esc is taken away from the picker's
// "back" binding for this.
var Cancel = key.NewBinding(
	key.WithKeys("esc", "ctrl+c"),
	key.WithHelp("esc", "cancel"),
)

// Model wraps a file picker with confirm and cancel messages.
type Model struct {
	picker filepicker.Model
}

// New returns a chooser starting in dir. An empty dir means the working
// directory.
func New(dir string) Model {
	fp := filepicker.New()
	if dir != "" {
		fp.CurrentDirectory = dir
	}
	fp.AutoHeight = true
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.KeyMap.Back = key.NewBinding(
		key.WithKeys("h", "backspace", "left"),
		key.WithHelp("h", "back"),
	)
	return Model{picker: fp}
}

// Init reads the starting directory.
func (m Model) Init() tea.Cmd {
	return m.picker.Init()
}

// Dir returns the directory currently listed.
func (m Model) Dir() string {
	return m.picker.CurrentDirectory
}

// SetSize sizes the listing to the terminal.
func (m Model) SetSize(width, height int) Model {
	// Leave room for the frame, title and hint.
	m.picker, _ = m.picker.Update(tea.WindowSizeMsg{Width: width, Height: height - 4})
	return m
}

// Update forwards msg to the picker and emits SelectedMsg or CancelledMsg
// once the user decides.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, Cancel) {
		return m, func() tea.Msg { return CancelledMsg{} }
	}
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		return m.SetSize(ws.Width, ws.Height), nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		return m, func() tea.Msg { return SelectedMsg{Path: path} }
	}
	return m, cmd
}

// View renders the chooser as a framed modal.
func (m Model) View() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Open DB…")+"  "+hintStyle.Render(m.picker.CurrentDirectory),
		m.picker.View(),
		hintStyle.Render("enter open • h back • esc cancel"),
	)
	return frameStyle.Render(body)
}

// standalone runs a chooser as its own program and records the outcome.
type standalone struct {
	chooser   Model
	path      string
	cancelled bool
}

func (s *standalone) Init() tea.Cmd {
	return tea.Batch(s.chooser.Init(), tea.SetWindowTitle("sqlitebrowser - Open DB…"))
}

func (s *standalone) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SelectedMsg:
		s.path = msg.Path
		return s, tea.Quit
	case CancelledMsg:
		s.cancelled = true
		return s, tea.Quit
	}
	var cmd tea.Cmd
	s.chooser, cmd = s.chooser.Update(msg)
	return s, cmd
}

func (s *standalone) View() string {
	return s.chooser.View()
}

// Choose shows the chooser as a full-screen program and returns the chosen
// path. Dismissing it returns ErrCancelled.
func Choose(ctx context.Context, dir string, opts ...tea.ProgramOption) (string, error) {
	s := &standalone{chooser: New(dir)}
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)

	if _, err := tea.NewProgram(s, opts...).Run(); err != nil {
		return "", fmt.Errorf("file chooser failed: %w", err)
	}
	if s.cancelled || s.path == "" {
		return "", ErrCancelled
	}
	return s.path, nil
}
