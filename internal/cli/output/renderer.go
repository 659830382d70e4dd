// Package output renders command results for a terminal or a pipe.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects how results are written.
type Mode string

// Output modes.
const (
	// ModeAuto picks ModeTable on a terminal and ModeMarkdown otherwise.
	ModeAuto     Mode = "auto"
	ModeTable    Mode = "table"
	ModeMarkdown Mode = "markdown"
	ModeCSV      Mode = "csv"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Renderer writes formatted output to a pair of writers.
type Renderer struct {
	out   io.Writer
	err   io.Writer
	mode  Mode
	isTTY bool
	// styled is false on a pipe or when NO_COLOR is set.
	styled bool
}

// NewRenderer creates a renderer. Terminal detection is done on out.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	tty := isTerminal(out)
	return &Renderer{
		out:    out,
		err:    errOut,
		mode:   mode,
		isTTY:  tty,
		styled: tty && !termenv.EnvNoColor(),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves ModeAuto against the output writer.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeTable
	}
	return ModeMarkdown
}

// Println writes a line to the output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Header writes a section title, styled when on a terminal.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatHeader(level, text))
		return
	}
	if r.styled {
		r.Println(headerStyle.Render(text))
		return
	}
	r.Println(text)
}

// Muted writes secondary text.
func (r *Renderer) Muted(text string) {
	if r.styled {
		r.Println(mutedStyle.Render(text))
		return
	}
	r.Println(text)
}

// Error writes a message to the error writer.
func (r *Renderer) Error(text string) {
	if isTerminal(r.err) && !termenv.EnvNoColor() {
		text = errorStyle.Render(text)
	}
	_, _ = fmt.Fprintln(r.err, text)
}

// FormatHeader returns a markdown header.
func FormatHeader(level int, text string) string {
	level = min(max(level, 1), 6)
	return strings.Repeat("#", level) + " " + text
}
