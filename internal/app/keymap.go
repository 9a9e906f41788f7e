package app

import (
	"context"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/peco/wordjump"
	"github.com/peco/wordjump/ui"
)

// Action is something a key does to the view and its session. s is nil
// when the view has no session.
type Action func(ctx context.Context, v *ui.View, s *wordjump.Session)

// Keymap maps keys to actions. Printable runes are inserted unless
// they are bound.
type Keymap struct {
	keys  map[tcell.Key]Action
	shift map[tcell.Key]Action
}

func move(f func(*ui.View, context.Context, bool), extend bool) Action {
	return func(ctx context.Context, v *ui.View, _ *wordjump.Session) {
		f(v, ctx, extend)
	}
}

func browse(dir wordjump.Direction) Action {
	return func(ctx context.Context, _ *ui.View, s *wordjump.Session) {
		if s != nil {
			s.Navigate(ctx, dir)
		}
	}
}

func insert(str string) Action {
	return func(ctx context.Context, v *ui.View, _ *wordjump.Session) {
		v.Insert(ctx, str)
	}
}

// NewKeymap returns the default bindings.
func NewKeymap() *Keymap {
	km := &Keymap{
		keys: map[tcell.Key]Action{
			tcell.KeyLeft:       move((*ui.View).MoveLeft, false),
			tcell.KeyRight:      move((*ui.View).MoveRight, false),
			tcell.KeyUp:         move((*ui.View).MoveUp, false),
			tcell.KeyDown:       move((*ui.View).MoveDown, false),
			tcell.KeyHome:       move((*ui.View).MoveLineStart, false),
			tcell.KeyEnd:        move((*ui.View).MoveLineEnd, false),
			tcell.KeyCtrlA:      move((*ui.View).MoveLineStart, false),
			tcell.KeyCtrlE:      move((*ui.View).MoveLineEnd, false),
			tcell.KeyCtrlN:      browse(wordjump.Next),
			tcell.KeyCtrlP:      browse(wordjump.Previous),
			tcell.KeyEnter:      insert("\n"),
			tcell.KeyTab:        insert("\t"),
			tcell.KeyBackspace:  func(ctx context.Context, v *ui.View, _ *wordjump.Session) { v.Backspace(ctx) },
			tcell.KeyBackspace2: func(ctx context.Context, v *ui.View, _ *wordjump.Session) { v.Backspace(ctx) },
			tcell.KeyCtrlB: func(ctx context.Context, v *ui.View, _ *wordjump.Session) {
				v.ToggleColumnMode(ctx)
			},
			tcell.KeyCtrlW: func(ctx context.Context, _ *ui.View, s *wordjump.Session) {
				if s != nil {
					s.SelectWordAtCaret(ctx)
				}
			},
		},
		shift: map[tcell.Key]Action{
			tcell.KeyLeft:  move((*ui.View).MoveLeft, true),
			tcell.KeyRight: move((*ui.View).MoveRight, true),
			tcell.KeyUp:    move((*ui.View).MoveUp, true),
			tcell.KeyDown:  move((*ui.View).MoveDown, true),
			tcell.KeyHome:  move((*ui.View).MoveLineStart, true),
			tcell.KeyEnd:   move((*ui.View).MoveLineEnd, true),
		},
	}
	return km
}

// Bind replaces the action of k.
func (km *Keymap) Bind(k tcell.Key, shifted bool, a Action) {
	if shifted {
		km.shift[k] = a
		return
	}
	km.keys[k] = a
}

// IsQuit reports whether ev ends the interactive mode.
func IsQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC, tcell.KeyCtrlQ:
		return true
	}
	return false
}

// Lookup returns the action bound to ev.
func (km *Keymap) Lookup(ev *tcell.EventKey) (Action, bool) {
	if ev.Key() == tcell.KeyRune {
		// some terminals report Ctrl+letter as the letter plus ModCtrl
		if r := unicode.ToLower(ev.Rune()); ev.Modifiers()&tcell.ModCtrl != 0 && r >= 'a' && r <= 'z' {
			a, ok := km.keys[tcell.KeyCtrlA+tcell.Key(r-'a')]
			return a, ok
		}
		return insert(string(ev.Rune())), true
	}
	if ev.Modifiers()&tcell.ModShift != 0 {
		if a, ok := km.shift[ev.Key()]; ok {
			return a, true
		}
	}
	a, ok := km.keys[ev.Key()]
	return a, ok
}

// ExecuteAction runs the action bound to ev and keeps the caret in
// sight. It reports whether anything was bound.
func (km *Keymap) ExecuteAction(ctx context.Context, v *ui.View, s *wordjump.Session, ev *tcell.EventKey) bool {
	a, ok := km.Lookup(ev)
	if !ok {
		return false
	}
	a(ctx, v, s)
	v.EnsureVisible(v.CaretOffset())
	return true
}
