package tui

import "github.com/gdamore/tcell/v2"

// Action is what a key press asks the App to do.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionGenerate
	ActionCopy
	ActionTogglePersistence
	ActionFocusNext
	ActionFocusPrev
	ActionIncrease
	ActionDecrease
	ActionToggle
	ActionInsert
	ActionBackspace
)

// Resolve maps a key press to an Action. Ctrl and Cmd (meta) are treated
// alike.
func Resolve(key tcell.Key, r rune, mod tcell.ModMask) Action {
	command := mod&(tcell.ModCtrl|tcell.ModMeta) != 0

	switch key {
	case tcell.KeyEnter:
		if command {
			return ActionGenerate
		}
		return ActionToggle
	case tcell.KeyCtrlG:
		return ActionGenerate
	case tcell.KeyCtrlC:
		return ActionCopy
	case tcell.KeyCtrlS:
		return ActionTogglePersistence
	case tcell.KeyEscape, tcell.KeyCtrlQ:
		return ActionQuit
	case tcell.KeyDown, tcell.KeyTab:
		return ActionFocusNext
	case tcell.KeyUp, tcell.KeyBacktab:
		return ActionFocusPrev
	case tcell.KeyRight:
		return ActionIncrease
	case tcell.KeyLeft:
		return ActionDecrease
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return ActionBackspace
	case tcell.KeyRune:
		if command {
			switch r {
			case 'c', 'C':
				return ActionCopy
			case 'g', 'G':
				return ActionGenerate
			}
			return ActionNone
		}
		return ActionInsert
	}
	return ActionNone
}
