package ui

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"
	pdebug "github.com/lestrrat-go/pdebug"
	"github.com/peco/wordjump/config"
)

// NewTcellScreen creates a TcellScreen. If s is nil, Init creates the
// terminal screen; tests pass a tcell.SimulationScreen.
func NewTcellScreen(s tcell.Screen) *TcellScreen {
	return &TcellScreen{
		screen:    s,
		errWriter: os.Stderr,
	}
}

func (t *TcellScreen) Init() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to create tcell screen: %w", err)
		}
		t.screen = screen
	}

	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize tcell screen: %w", err)
	}
	t.screen.Clear()
	return nil
}

func (t *TcellScreen) Close() error {
	if pdebug.Enabled {
		pdebug.Printf("TcellScreen: Close")
	}
	t.mutex.Lock()
	scr := t.screen
	t.screen = nil
	t.mutex.Unlock()

	if scr != nil {
		scr.Fini()
	}
	return nil
}

// SetCell draws one grapheme cluster. Only the first rune of a wide
// cluster takes up the cell; tcell covers the cell to its right.
func (t *TcellScreen) SetCell(x, y int, cluster string, style config.Style) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.screen == nil {
		return
	}

	runes := []rune(cluster)
	if len(runes) == 0 {
		runes = []rune{' '}
	}
	t.screen.SetContent(x, y, runes[0], runes[1:], ToTcellStyle(style))
}

func (t *TcellScreen) SetCursor(x, y int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.screen == nil {
		return
	}
	t.screen.ShowCursor(x, y)
}

func (t *TcellScreen) HideCursor() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.screen == nil {
		return
	}
	t.screen.HideCursor()
}

func (t *TcellScreen) Flush() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.screen == nil {
		return nil
	}
	t.screen.Show()
	return nil
}

// Size returns the dimensions of the current terminal
func (t *TcellScreen) Size() (int, int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.screen == nil {
		return 0, 0
	}
	return t.screen.Size()
}

// PostEvent injects an event into the event stream.
func (t *TcellScreen) PostEvent(ev tcell.Event) error {
	t.mutex.Lock()
	scr := t.screen
	t.mutex.Unlock()
	if scr == nil {
		return fmt.Errorf("screen is not initialized")
	}
	return scr.PostEvent(ev)
}

// PollEvent returns a channel that you can listen to for tcell's
// events. The actual polling is done in a separate goroutine, so the
// input loop is never blocked by tcell.
func (t *TcellScreen) PollEvent(ctx context.Context) chan tcell.Event {
	evCh := make(chan tcell.Event)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(t.errWriter, "wordjump: panic in PollEvent goroutine: %v\n%s", r, debug.Stack())
			}
			close(evCh)
		}()

		for {
			t.mutex.Lock()
			scr := t.screen
			t.mutex.Unlock()

			if scr == nil {
				return
			}

			ev := scr.PollEvent()
			if ev == nil {
				return
			}

			select {
			case <-ctx.Done():
				return
			case evCh <- ev:
			}
		}
	}()
	return evCh
}
