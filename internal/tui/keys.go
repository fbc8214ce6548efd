package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Key scopes. The grid scope is active whenever no overlay is open.
const (
	scopeGrid    = "grid"
	scopeEdit    = "edit"
	scopeCommand = "command"
	scopeConfirm = "confirm"
)

// Actions bound to keys.
const (
	actQuit        = "quit"
	actUp          = "up"
	actDown        = "down"
	actLeft        = "left"
	actRight       = "right"
	actExtendUp    = "extend-up"
	actExtendDown  = "extend-down"
	actExtendLeft  = "extend-left"
	actExtendRight = "extend-right"
	actPageUp      = "page-up"
	actPageDown    = "page-down"
	actHome        = "home"
	actSelectAll   = "select-all"
	actEdit        = "edit"
	actClear       = "clear"
	actUndo        = "undo"
	actRedo        = "redo"
	actCopy        = "copy"
	actPaste       = "paste"
	actBold        = "bold"
	actItalic      = "italic"
	actFontUp      = "font-up"
	actFontDown    = "font-down"
	actWiden       = "widen"
	actNarrow      = "narrow"
	actTaller      = "taller"
	actShorter     = "shorter"
	actCommandLine = "command-line"
	actCommit      = "commit"
	actCommitRight = "commit-right"
	actCancel      = "cancel"
	actComplete    = "complete"
	actConfirmYes  = "confirm-yes"
	actConfirmNo   = "confirm-no"
)

type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
	Scopes      []string
}

type KeyRegistry struct {
	bindings []KeyBinding
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	return &KeyRegistry{bindings: slices.Clone(bindings)}
}

func (r *KeyRegistry) Register(binding KeyBinding) {
	r.bindings = append(r.bindings, binding)
}

func (r *KeyRegistry) BindingsForScope(scope string) []KeyBinding {
	out := make([]KeyBinding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if scopeMatch(scope, b.Scopes) {
			out = append(out, b)
		}
	}
	return out
}

func (r *KeyRegistry) IsAction(msg tea.KeyMsg, action, scope string) bool {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		if b.Action != action || !scopeMatch(scope, b.Scopes) {
			continue
		}
		for _, k := range b.Keys {
			if normalizeKey(k) == pressed {
				return true
			}
		}
	}
	return false
}

// Action returns the first action bound to msg in scope.
func (r *KeyRegistry) Action(msg tea.KeyMsg, scope string) (string, bool) {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		if !scopeMatch(scope, b.Scopes) {
			continue
		}
		for _, k := range b.Keys {
			if normalizeKey(k) == pressed {
				return b.Action, true
			}
		}
	}
	return "", false
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}

// DefaultBindings is the stock key map.
func DefaultBindings() []KeyBinding {
	grid := []string{scopeGrid}
	return []KeyBinding{
		{Keys: []string{"ctrl+q"}, Action: actQuit, Description: "quit", Scopes: []string{"*"}},

		{Keys: []string{"up"}, Action: actUp, Description: "up", Scopes: grid},
		{Keys: []string{"down"}, Action: actDown, Description: "down", Scopes: grid},
		{Keys: []string{"left", "shift+tab"}, Action: actLeft, Description: "left", Scopes: grid},
		{Keys: []string{"right", "tab"}, Action: actRight, Description: "right", Scopes: grid},
		{Keys: []string{"shift+up"}, Action: actExtendUp, Description: "extend", Scopes: grid},
		{Keys: []string{"shift+down"}, Action: actExtendDown, Description: "extend", Scopes: grid},
		{Keys: []string{"shift+left"}, Action: actExtendLeft, Description: "extend", Scopes: grid},
		{Keys: []string{"shift+right"}, Action: actExtendRight, Description: "extend", Scopes: grid},
		{Keys: []string{"pgup"}, Action: actPageUp, Description: "page up", Scopes: grid},
		{Keys: []string{"pgdown"}, Action: actPageDown, Description: "page down", Scopes: grid},
		{Keys: []string{"ctrl+home", "home"}, Action: actHome, Description: "A1", Scopes: grid},
		{Keys: []string{"ctrl+a"}, Action: actSelectAll, Description: "select all", Scopes: grid},
		{Keys: []string{"enter", "f2"}, Action: actEdit, Description: "edit", Scopes: grid},
		{Keys: []string{"delete", "backspace"}, Action: actClear, Description: "clear", Scopes: grid},
		{Keys: []string{"ctrl+z"}, Action: actUndo, Description: "undo", Scopes: grid},
		{Keys: []string{"ctrl+y"}, Action: actRedo, Description: "redo", Scopes: grid},
		{Keys: []string{"ctrl+c"}, Action: actCopy, Description: "copy", Scopes: grid},
		{Keys: []string{"ctrl+v"}, Action: actPaste, Description: "paste", Scopes: grid},
		{Keys: []string{"ctrl+b"}, Action: actBold, Description: "bold", Scopes: grid},
		{Keys: []string{"alt+i"}, Action: actItalic, Description: "italic", Scopes: grid},
		{Keys: []string{"alt+="}, Action: actFontUp, Description: "font +", Scopes: grid},
		{Keys: []string{"alt+-"}, Action: actFontDown, Description: "font -", Scopes: grid},
		{Keys: []string{"alt+right"}, Action: actWiden, Description: "widen", Scopes: grid},
		{Keys: []string{"alt+left"}, Action: actNarrow, Description: "narrow", Scopes: grid},
		{Keys: []string{"alt+down"}, Action: actTaller, Description: "taller", Scopes: grid},
		{Keys: []string{"alt+up"}, Action: actShorter, Description: "shorter", Scopes: grid},
		{Keys: []string{":"}, Action: actCommandLine, Description: "command", Scopes: grid},

		{Keys: []string{"enter"}, Action: actCommit, Description: "commit", Scopes: []string{scopeEdit, scopeCommand}},
		{Keys: []string{"tab"}, Action: actCommitRight, Description: "commit →", Scopes: []string{scopeEdit}},
		{Keys: []string{"tab"}, Action: actComplete, Description: "complete", Scopes: []string{scopeCommand}},
		{Keys: []string{"esc"}, Action: actCancel, Description: "cancel", Scopes: []string{scopeEdit, scopeCommand}},

		{Keys: []string{"y", "enter"}, Action: actConfirmYes, Description: "yes", Scopes: []string{scopeConfirm}},
		{Keys: []string{"n", "esc"}, Action: actConfirmNo, Description: "no", Scopes: []string{scopeConfirm}},
	}
}
