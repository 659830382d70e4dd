package browser

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DialogKind selects the icon and colour of a message dialog.
type DialogKind int

// Dialog kinds.
const (
	DialogWarning DialogKind = iota
	DialogError
)

// dismissDialog closes a dialog.
var dismissDialog = key.NewBinding(
	key.WithKeys("enter", "esc", " "),
	key.WithHelp("enter", "ok"),
)

// Dialog is a modal message. While one is shown every other key is ignored.
type Dialog struct {
	Kind DialogKind
	Text string
}

// dismissed reports whether msg closes the dialog.
func (d *Dialog) dismissed(msg tea.KeyMsg) bool {
	return key.Matches(msg, dismissDialog)
}

// View renders the dialog box.
func (d *Dialog) View() string {
	heading := warningStyle.Render("⚠ Warning")
	style := dialogStyle
	if d.Kind == DialogError {
		heading = errorStyle.Render("✖ Error")
		style = style.BorderForeground(lipgloss.Color("9"))
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Center,
		heading,
		"",
		d.Text,
		"",
		buttonStyle.Render("OK"),
	))
}
