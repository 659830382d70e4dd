// Package keymap holds the browser's fixed global key bindings and resolves
// key events against them.
package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Modifier is a bitmask of active modifier keys.
type Modifier uint8

// Modifier bits. ModNone on a binding means "any modifier state".
const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift

	ModNone Modifier = 0
)

func (m Modifier) String() string {
	var parts []string
	if m&ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if m&ModAlt != 0 {
		parts = append(parts, "alt")
	}
	if m&ModShift != 0 {
		parts = append(parts, "shift")
	}
	return strings.Join(parts, "+")
}

// Action is what a binding triggers.
type Action int

// Browser actions.
const (
	ActionQuit Action = iota + 1
	ActionMinimize
	ActionReload
	ActionOpen
)

func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionMinimize:
		return "minimize"
	case ActionReload:
		return "reload"
	case ActionOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Binding ties a modifier requirement and a key to an action.
type Binding struct {
	Mod    Modifier
	Key    string
	Action Action
	Help   string
}

// Event is a key event reduced to its key name and modifier mask.
type Event struct {
	Key  string
	Mods Modifier
}

// Matches reports whether ev triggers b: the keys are equal and b either
// has no modifier requirement or ev carries all of b's modifiers.
func (b Binding) Matches(ev Event) bool {
	if b.Key != ev.Key {
		return false
	}
	return b.Mod == ModNone || ev.Mods&b.Mod == b.Mod
}

// Keys returns the bubbletea key strings that trigger b, for help output
// and key.Matches.
func (b Binding) Keys() []string {
	if b.Mod == ModNone {
		return []string{b.Key}
	}
	return []string{b.Mod.String() + "+" + b.Key}
}

// Table is an ordered list of bindings. It is built once and never changed.
type Table []Binding

// Default returns the browser's global bindings in resolution order.
func Default() Table {
	return Table{
		{Mod: ModNone, Key: "q", Action: ActionQuit, Help: "quit"},
		{Mod: ModCtrl, Key: "z", Action: ActionMinimize, Help: "suspend"},
		{Mod: ModCtrl, Key: "r", Action: ActionReload, Help: "reload"},
		{Mod: ModCtrl, Key: "o", Action: ActionOpen, Help: "open database"},
	}
}

// Resolve returns the first binding in declaration order that matches ev.
// At most one action is ever selected for an event.
func (t Table) Resolve(ev Event) (Binding, bool) {
	for _, b := range t {
		if b.Matches(ev) {
			return b, true
		}
	}
	return Binding{}, false
}

// ResolveKey is Resolve for a bubbletea key message.
func (t Table) ResolveKey(msg tea.KeyMsg) (Binding, bool) {
	return t.Resolve(FromKeyMsg(msg))
}

// FromKeyMsg splits a bubbletea key string such as "alt+ctrl+r" into the
// key and its modifiers.
func FromKeyMsg(msg tea.KeyMsg) Event {
	s := msg.String()
	var ev Event
	for {
		switch {
		case strings.HasPrefix(s, "ctrl+") && len(s) > len("ctrl+"):
			ev.Mods |= ModCtrl
			s = s[len("ctrl+"):]
		case strings.HasPrefix(s, "alt+") && len(s) > len("alt+"):
			ev.Mods |= ModAlt
			s = s[len("alt+"):]
		case strings.HasPrefix(s, "shift+") && len(s) > len("shift+"):
			ev.Mods |= ModShift
			s = s[len("shift+"):]
		default:
			ev.Key = s
			return ev
		}
	}
}

// KeyBindings converts the table to bubbles key bindings, in order.
func (t Table) KeyBindings() []key.Binding {
	out := make([]key.Binding, 0, len(t))
	for _, b := range t {
		keys := b.Keys()
		out = append(out, key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(keys[0], b.Help),
		))
	}
	return out
}

// ShortHelp implements help.KeyMap.
func (t Table) ShortHelp() []key.Binding {
	return t.KeyBindings()
}

// FullHelp implements help.KeyMap.
func (t Table) FullHelp() [][]key.Binding {
	return [][]key.Binding{t.KeyBindings()}
}
