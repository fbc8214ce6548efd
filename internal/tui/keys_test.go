package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeyRegistryScopeMatch(t *testing.T) {
	reg := NewKeyRegistry([]KeyBinding{
		{Keys: []string{"ctrl+k"}, Action: "palette", Scopes: []string{scopeGrid}},
		{Keys: []string{"q"}, Action: "quit", Scopes: []string{"*"}},
	})
	if !reg.IsAction(tea.KeyMsg{Type: tea.KeyCtrlK}, "palette", scopeGrid) {
		t.Fatalf("expected ctrl+k in grid scope")
	}
	if reg.IsAction(tea.KeyMsg{Type: tea.KeyCtrlK}, "palette", scopeEdit) {
		t.Fatalf("did not expect ctrl+k in edit scope")
	}
	if !reg.IsAction(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, "quit", scopeConfirm) {
		t.Fatalf("expected q to match wildcard scope")
	}
}

func TestDefaultBindingsResolveByScope(t *testing.T) {
	reg := NewKeyRegistry(DefaultBindings())
	tests := []struct {
		name  string
		msg   tea.KeyMsg
		scope string
		want  string
	}{
		{name: "enter edits in grid", msg: tea.KeyMsg{Type: tea.KeyEnter}, scope: scopeGrid, want: actEdit},
		{name: "enter commits in edit", msg: tea.KeyMsg{Type: tea.KeyEnter}, scope: scopeEdit, want: actCommit},
		{name: "enter confirms", msg: tea.KeyMsg{Type: tea.KeyEnter}, scope: scopeConfirm, want: actConfirmYes},
		{name: "tab moves right in grid", msg: tea.KeyMsg{Type: tea.KeyTab}, scope: scopeGrid, want: actRight},
		{name: "tab completes commands", msg: tea.KeyMsg{Type: tea.KeyTab}, scope: scopeCommand, want: actComplete},
		{name: "shift extends", msg: tea.KeyMsg{Type: tea.KeyShiftDown}, scope: scopeGrid, want: actExtendDown},
		{name: "alt arrow resizes", msg: tea.KeyMsg{Type: tea.KeyRight, Alt: true}, scope: scopeGrid, want: actWiden},
		{name: "colon opens command line", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{':'}}, scope: scopeGrid, want: actCommandLine},
		{name: "quit everywhere", msg: tea.KeyMsg{Type: tea.KeyCtrlQ}, scope: scopeEdit, want: actQuit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := reg.Action(tt.msg, tt.scope)
			if !ok || got != tt.want {
				t.Fatalf("Action = %q, %v; want %q", got, ok, tt.want)
			}
		})
	}

	if _, ok := reg.Action(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, scopeGrid); ok {
		t.Fatalf("plain letters must stay unbound in grid scope")
	}
	if _, ok := reg.Action(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}, scopeGrid); ok {
		t.Fatalf("y is bound only while confirming")
	}
}

func TestBindingsForScope(t *testing.T) {
	reg := NewKeyRegistry(DefaultBindings())
	reg.Register(KeyBinding{Keys: []string{"ctrl+g"}, Action: "extra", Scopes: []string{scopeConfirm}})

	var sawExtra, sawQuit bool
	for _, b := range reg.BindingsForScope(scopeConfirm) {
		switch b.Action {
		case "extra":
			sawExtra = true
		case actQuit:
			sawQuit = true
		case actUp:
			t.Fatalf("grid binding leaked into confirm scope")
		}
	}
	if !sawExtra || !sawQuit {
		t.Fatalf("expected registered and wildcard bindings, got extra=%v quit=%v", sawExtra, sawQuit)
	}
}
