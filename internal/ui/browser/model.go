// Package browser is the top-level terminal UI: it owns the open database,
// its Schema Map and the rendered table panes, and dispatches the global
// key bindings.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/leapstack-labs/sqlitebrowser/internal/catalog"
	"github.com/leapstack-labs/sqlitebrowser/internal/database"
	"github.com/leapstack-labs/sqlitebrowser/internal/snapshot"
	"github.com/leapstack-labs/sqlitebrowser/internal/ui/chooser"
	"github.com/leapstack-labs/sqlitebrowser/internal/ui/keymap"
)

// NoTablesText is the warning shown for a database without user tables.
const NoTablesText = "Database has no tables"

// State is the controller's input mode.
type State int

// Controller states.
const (
	// StateLoaded means a database is open and its tables are displayed.
	StateLoaded State = iota
	// StatePrompting means the file chooser is up and owns all input.
	StatePrompting
)

func (s State) String() string {
	if s == StatePrompting {
		return "prompting"
	}
	return "loaded"
}

// Not part of the binding table: tab moves between panes and ctrl+c is
// the raw-mode stand-in for an interrupt signal.
var (
	nextPane  = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next table"))
	prevPane  = key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev table"))
	interrupt = key.NewBinding(key.WithKeys("ctrl+c"))
)

// Options configures a browser.
type Options struct {
	Path     string
	Database database.Options
	Snapshot snapshot.Options
	// StartDir is where the file chooser opens. Empty means the directory
	// of the current database.
	StartDir string
	Logger   *slog.Logger
	// Keys overrides the global bindings; nil uses keymap.Default.
	Keys keymap.Table
}

// Model is the bubbletea model for the browser window.
type Model struct {
	ctx    context.Context
	opts   Options
	logger *slog.Logger
	keys   keymap.Table
	help   help.Model

	handle *database.Handle
	schema *catalog.Schema
	panes  []Pane
	// offsets holds the first viewport line of each pane.
	offsets []int
	focus   int

	viewport viewport.Model
	chooser  chooser.Model
	state    State
	dialog   *Dialog

	width, height int
	interrupted   bool
	quitting      bool
}

// New opens opts.Path and loads it. An error means the database could not
// be opened at all; an empty database is not an error and shows a warning
// dialog instead.
func New(ctx context.Context, opts Options) (*Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	keys := opts.Keys
	if keys == nil {
		keys = keymap.Default()
	}
	if opts.Database.Logger == nil {
		opts.Database.Logger = logger
	}

	h, err := database.Open(ctx, opts.Path, opts.Database)
	if err != nil {
		return nil, err
	}

	m := &Model{
		ctx:      ctx,
		opts:     opts,
		logger:   logger,
		keys:     keys,
		help:     help.New(),
		handle:   h,
		viewport: viewport.New(80, 20),
		width:    80,
		height:   24,
	}
	m.load()
	return m, nil
}

// State returns the current input mode.
func (m *Model) State() State { return m.state }

// Dialog returns the modal dialog being shown, or nil.
func (m *Model) Dialog() *Dialog { return m.dialog }

// Panes returns the rendered table panes.
func (m *Model) Panes() []Pane { return m.panes }

// Schema returns the Schema Map of the last load.
func (m *Model) Schema() *catalog.Schema { return m.schema }

// Path returns the path of the open database.
func (m *Model) Path() string {
	if m.handle == nil {
		return ""
	}
	return m.handle.Path()
}

// Interrupted reports whether the browser exited on ctrl+c.
func (m *Model) Interrupted() bool { return m.interrupted }

// Close releases the database handle.
func (m *Model) Close() error {
	if m.handle == nil {
		return nil
	}
	err := m.handle.Close()
	m.handle = nil
	return err
}

// Title is the window title for the open database.
func (m *Model) Title() string {
	return "sqlitebrowser-" + m.Path()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.SetWindowTitle(m.Title())
}

// load rebuilds the Schema Map and every pane from the open handle,
// replacing whatever was displayed before.
func (m *Model) load() {
	m.schema = nil
	m.panes = nil
	m.offsets = nil
	m.focus = 0
	defer m.refreshViewport()

	if m.handle == nil {
		return
	}

	schema, err := catalog.Load(m.ctx, m.handle)
	if err != nil {
		m.showError(err)
		return
	}
	m.schema = schema

	if schema.Empty() {
		m.logger.Info("database has no tables", slog.String("path", m.handle.Path()))
		m.dialog = &Dialog{Kind: DialogWarning, Text: NoTablesText}
		return
	}

	snaps, err := snapshot.ReadAll(m.ctx, m.handle, schema, m.opts.Snapshot)
	if err != nil {
		m.showError(err)
		return
	}
	m.panes = BuildPanes(snaps)

	m.logger.Info("loaded database",
		slog.String("path", m.handle.Path()),
		slog.Int("tables", len(schema.Tables)))
}

func (m *Model) refreshViewport() {
	content, offsets := RenderContainer(m.panes)
	m.offsets = offsets
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

func (m *Model) showError(err error) {
	m.logger.Error("browser error", slog.String("error", err.Error()))
	m.dialog = &Dialog{Kind: DialogError, Text: err.Error()}
}

// reload closes and reopens the current file and rebuilds the display.
func (m *Model) reload() {
	if m.handle == nil {
		return
	}
	m.logger.Debug("reloading database", slog.String("path", m.handle.Path()))
	if err := m.handle.Reopen(m.ctx); err != nil {
		m.showError(err)
		m.handle = nil
		m.load()
		return
	}
	m.load()
}

// switchTo replaces the open database with path. The old handle is closed
// first so two handles are never live. If path cannot be opened the
// previous file is reopened and the error is shown.
func (m *Model) switchTo(path string) {
	prev := ""
	if m.handle != nil {
		prev = m.handle.Path()
		if err := m.handle.Close(); err != nil {
			m.logger.Warn("failed to close database", slog.String("error", err.Error()))
		}
		m.handle = nil
	}

	h, err := database.Open(m.ctx, path, m.opts.Database)
	if err != nil {
		m.logger.Warn("failed to open database", slog.String("path", path), slog.String("error", err.Error()))
		if prev != "" {
			if restored, rerr := database.Open(m.ctx, prev, m.opts.Database); rerr == nil {
				m.handle = restored
			}
		}
		m.load()
		m.dialog = &Dialog{Kind: DialogError, Text: fmt.Sprintf("Cannot open %s\n\n%v", path, err)}
		return
	}
	m.handle = h
	m.opts.Path = path
	m.load()
}

func (m *Model) chooserDir() string {
	if m.opts.StartDir != "" {
		return m.opts.StartDir
	}
	if p := m.Path(); p != "" {
		return filepath.Dir(p)
	}
	return "."
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-m.statusHeight(), 1)
		m.help.Width = msg.Width
		if m.state == StatePrompting {
			m.chooser = m.chooser.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case chooser.SelectedMsg:
		m.state = StateLoaded
		m.switchTo(msg.Path)
		return m, tea.SetWindowTitle(m.Title())

	case chooser.CancelledMsg:
		m.state = StateLoaded
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == StatePrompting {
		var cmd tea.Cmd
		m.chooser, cmd = m.chooser.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, interrupt) && m.state != StatePrompting {
		m.interrupted = true
		return m.quit()
	}

	if m.dialog != nil {
		if m.dialog.dismissed(msg) {
			m.dialog = nil
		}
		return m, nil
	}

	if m.state == StatePrompting {
		var cmd tea.Cmd
		m.chooser, cmd = m.chooser.Update(msg)
		return m, cmd
	}

	if b, ok := m.keys.ResolveKey(msg); ok {
		m.logger.Debug("key binding", slog.String("key", msg.String()), slog.String("action", b.Action.String()))
		return m.dispatch(b.Action)
	}

	switch {
	case key.Matches(msg, nextPane):
		m.focusPane(m.focus + 1)
		return m, nil
	case key.Matches(msg, prevPane):
		m.focusPane(m.focus - 1)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) dispatch(action keymap.Action) (tea.Model, tea.Cmd) {
	switch action {
	case keymap.ActionQuit:
		return m.quit()
	case keymap.ActionMinimize:
		return m, tea.Suspend
	case keymap.ActionReload:
		m.reload()
		return m, nil
	case keymap.ActionOpen:
		m.state = StatePrompting
		m.chooser = chooser.New(m.chooserDir()).SetSize(m.width, m.height)
		return m, m.chooser.Init()
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if err := m.Close(); err != nil {
		m.logger.Warn("failed to close database", slog.String("error", err.Error()))
	}
	return m, tea.Quit
}

func (m *Model) focusPane(i int) {
	if len(m.offsets) == 0 {
		return
	}
	n := len(m.offsets)
	m.focus = ((i % n) + n) % n
	m.viewport.SetYOffset(m.offsets[m.focus])
}

func (m *Model) statusHeight() int {
	return 2
}

func (m *Model) statusLine() string {
	parts := []string{statusStyle.Render(m.Path())}
	if m.handle != nil {
		if size := m.handle.Size(); size >= 0 {
			parts = append(parts, humanize.Bytes(uint64(size)))
		}
	}
	if m.schema != nil {
		n := len(m.schema.Tables)
		parts = append(parts, fmt.Sprintf("%d %s", n, plural(n, "table", "tables")))
	}
	if len(m.panes) > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d %s", m.focus+1, len(m.panes), m.panes[m.focus].Label))
	}
	return strings.Join(parts, dimStyle.Render(" • "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.state == StatePrompting {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.chooser.View())
	}
	if m.dialog != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.dialog.View())
	}

	footer := lipgloss.JoinVertical(lipgloss.Left,
		m.statusLine(),
		m.help.ShortHelpView(append(m.keys.KeyBindings(), nextPane)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}
