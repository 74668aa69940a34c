package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/crowd-runner/internal/core"
)

// gameKeys binds key names to in-game actions.
var gameKeys = map[string]core.Action{
	"ctrl+c": core.ActionQuit,
	"q":      core.ActionQuit,
	"a":      core.ActionLeft,
	"left":   core.ActionLeft,
	"d":      core.ActionRight,
	"right":  core.ActionRight,
	"enter":  core.ActionConfirm,
	" ":      core.ActionConfirm,
	"m":      core.ActionToggleSound,
	"p":      core.ActionPause,
	"esc":    core.ActionPause,
	"r":      core.ActionRestart,
}

// MenuAction is a navigation action on the menu screens.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionScoreboard
	MenuActionQuit
)

// menuKeys binds key names to menu actions. Vim and WASD keys work alongside
// the arrows.
var menuKeys = map[string]MenuAction{
	"ctrl+c": MenuActionQuit,
	"q":      MenuActionQuit,
	"esc":    MenuActionQuit,
	"up":     MenuActionUp,
	"w":      MenuActionUp,
	"k":      MenuActionUp,
	"down":   MenuActionDown,
	"s":      MenuActionDown,
	"j":      MenuActionDown,
	"left":   MenuActionLeft,
	"a":      MenuActionLeft,
	"h":      MenuActionLeft,
	"right":  MenuActionRight,
	"d":      MenuActionRight,
	"l":      MenuActionRight,
	"enter":  MenuActionSelect,
	" ":      MenuActionSelect,
	"tab":    MenuActionScoreboard,
}

// KeyMapper translates Bubble Tea key messages to actions.
type KeyMapper struct{}

// NewKeyMapper creates a key mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey returns the game action bound to a key (ActionNone if unbound)
// and whether it asks to quit.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	action, ok := gameKeys[msg.String()]
	if !ok {
		return core.ActionNone, false
	}
	return action, action == core.ActionQuit
}

// MapKeyToFrame records a key in the input frame. Quit is reported instead
// of recorded.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if !isQuit && action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// MapKeyToMenuAction returns the menu action bound to a key.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	return menuKeys[msg.String()]
}
