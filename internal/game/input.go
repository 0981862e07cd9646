package game

import "github.com/gdamore/tcell/v2"

// Action is what a viewer asked for with a key press.
type Action uint8

const (
	ActionNone Action = iota
	ActionQuit
	ActionRedraw
)

// keyToAction maps a tcell key event to a viewer action.
func keyToAction(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyCtrlL:
		return ActionRedraw
	}
	switch ev.Rune() {
	case 'q', 'Q':
		return ActionQuit
	case 'r', 'R':
		return ActionRedraw
	}
	return ActionNone
}
