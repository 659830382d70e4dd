package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFromKeyMsg(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want Event
	}{
		{name: "plain rune", msg: runes("q"), want: Event{Key: "q"}},
		{name: "upper rune", msg: runes("Q"), want: Event{Key: "Q"}},
		{name: "ctrl", msg: tea.KeyMsg{Type: tea.KeyCtrlR}, want: Event{Key: "r", Mods: ModCtrl}},
		{name: "alt rune", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q"), Alt: true}, want: Event{Key: "q", Mods: ModAlt}},
		{name: "alt ctrl", msg: tea.KeyMsg{Type: tea.KeyCtrlO, Alt: true}, want: Event{Key: "o", Mods: ModCtrl | ModAlt}},
		{name: "shift tab", msg: tea.KeyMsg{Type: tea.KeyShiftTab}, want: Event{Key: "tab", Mods: ModShift}},
		{name: "named key", msg: tea.KeyMsg{Type: tea.KeyEnter}, want: Event{Key: "enter"}},
		{name: "plus rune", msg: runes("+"), want: Event{Key: "+"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromKeyMsg(tt.msg))
		})
	}
}

func TestDefault_Resolve(t *testing.T) {
	table := Default()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		want   Action
		wantOK bool
	}{
		{name: "quit", msg: runes("q"), want: ActionQuit, wantOK: true},
		{name: "quit ignores modifiers", msg: tea.KeyMsg{Type: tea.KeyCtrlQ}, want: ActionQuit, wantOK: true},
		{name: "minimize", msg: tea.KeyMsg{Type: tea.KeyCtrlZ}, want: ActionMinimize, wantOK: true},
		{name: "reload", msg: tea.KeyMsg{Type: tea.KeyCtrlR}, want: ActionReload, wantOK: true},
		{name: "reload with extra alt", msg: tea.KeyMsg{Type: tea.KeyCtrlR, Alt: true}, want: ActionReload, wantOK: true},
		{name: "open", msg: tea.KeyMsg{Type: tea.KeyCtrlO}, want: ActionOpen, wantOK: true},
		{name: "reload key without ctrl", msg: runes("r"), wantOK: false},
		{name: "open key with alt only", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o"), Alt: true}, wantOK: false},
		{name: "upper Q", msg: runes("Q"), wantOK: false},
		{name: "unbound", msg: tea.KeyMsg{Type: tea.KeyDown}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := table.ResolveKey(tt.msg)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, b.Action)
			}
		})
	}
}

func TestResolve_FirstMatchOnly(t *testing.T) {
	table := Table{
		{Mod: ModNone, Key: "x", Action: ActionQuit},
		{Mod: ModCtrl, Key: "x", Action: ActionReload},
	}

	// ctrl+x satisfies both bindings; only the first is returned.
	b, ok := table.Resolve(Event{Key: "x", Mods: ModCtrl})
	require.True(t, ok)
	assert.Equal(t, ActionQuit, b.Action)
}

func TestBinding_Matches(t *testing.T) {
	ctrlR := Binding{Mod: ModCtrl, Key: "r"}
	assert.True(t, ctrlR.Matches(Event{Key: "r", Mods: ModCtrl}))
	assert.True(t, ctrlR.Matches(Event{Key: "r", Mods: ModCtrl | ModShift}))
	assert.False(t, ctrlR.Matches(Event{Key: "r"}))
	assert.False(t, ctrlR.Matches(Event{Key: "s", Mods: ModCtrl}))

	ctrlAltR := Binding{Mod: ModCtrl | ModAlt, Key: "r"}
	assert.False(t, ctrlAltR.Matches(Event{Key: "r", Mods: ModCtrl}))
	assert.True(t, ctrlAltR.Matches(Event{Key: "r", Mods: ModCtrl | ModAlt}))
}

func TestKeyBindings(t *testing.T) {
	bindings := Default().KeyBindings()
	require.Len(t, bindings, 4)

	assert.Equal(t, "q", bindings[0].Help().Key)
	assert.Equal(t, "quit", bindings[0].Help().Desc)
	assert.Equal(t, "ctrl+r", bindings[2].Help().Key)

	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlO}, bindings[3]))
	assert.Len(t, Default().FullHelp(), 1)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "ctrl+alt", (ModCtrl | ModAlt).String())
	assert.Equal(t, "", ModNone.String())
	assert.Equal(t, "reload", ActionReload.String())
	assert.Equal(t, "unknown", Action(0).String())
}
