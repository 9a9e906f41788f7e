package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	pdebug "github.com/lestrrat-go/pdebug"
	"github.com/peco/wordjump"
	"github.com/peco/wordjump/config"
	"github.com/peco/wordjump/hub"
	"github.com/peco/wordjump/sig"
	"github.com/peco/wordjump/span"
	"github.com/peco/wordjump/ui"
	"github.com/pkg/errors"
)

// refreshInterval is how often the screen is checked for changes that
// did not come from a key, such as a debounced rebuild.
const refreshInterval = 50 * time.Millisecond

// interactive opens text in a view on the terminal and processes keys
// until the user quits or a terminating signal arrives.
func (a *App) interactive(ctx context.Context, text string) error {
	screen := ui.NewTcellScreen(a.newScreen())
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize screen")
	}
	defer screen.Close()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	cfg := a.Config()
	h := hub.New(32)
	v := ui.NewView(screen, &cfg.Style, project(a.filename))
	v.Load(text)
	registry := wordjump.NewRegistry(h, wordjump.OptionsFromConfig(&cfg))

	a.mutex.Lock()
	a.hub = h
	a.view = v
	a.registry = registry
	a.mutex.Unlock()

	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = h.Loop(ctx)
	}()

	var signaled atomic.Bool
	handler := sig.New(sig.ReceivedHandlerFunc(func(s os.Signal) bool {
		if sig.Terminating(s) {
			signaled.Store(true)
			return false
		}
		cfg, err := a.readConfig()
		a.reload(ctx, cfg, err)
		return true
	}))
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = handler.Loop(ctx, cancel)
	}()

	if a.rcfile != "" {
		if w, err := config.NewWatcher(a.rcfile); err != nil {
			a.notify(ctx, err.Error())
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = w.Run(ctx, func(cfg *config.Config, err error) {
					if cfg != nil {
						// command line options still win
						a.applyOverrides(cfg)
					}
					a.reload(ctx, cfg, err)
				})
			}()
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := h.Post(ctx, a.redraw); err != nil {
					return
				}
			}
		}
	}()

	if err := h.Do(ctx, func(ctx context.Context) {
		registry.Open(ctx, v.ID(), v)
		a.redraw(ctx)
	}); err != nil {
		return errors.Wrap(err, "failed to open view")
	}

	keymap := NewKeymap()
	evCh := screen.PollEvent(ctx)
	for {
		select {
		case <-ctx.Done():
			if signaled.Load() {
				return ErrSignalReceived
			}
			return nil
		case ev, ok := <-evCh:
			if !ok {
				return nil
			}
			var quit bool
			err := h.Do(ctx, func(ctx context.Context) {
				if quit = a.handleEvent(ctx, keymap, ev); quit {
					a.closed = true
					registry.CloseAll()
					return
				}
				a.redraw(ctx)
			})
			if quit {
				return nil
			}
			if err != nil && ctx.Err() == nil {
				return errors.Wrap(err, "failed to handle event")
			}
		}
	}
}

// handleEvent runs on the UI context. It reports whether the user
// asked to quit.
func (a *App) handleEvent(ctx context.Context, keymap *Keymap, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if IsQuit(ev) {
			return true
		}
		keymap.ExecuteAction(ctx, a.view, a.registry.Session(a.view.ID()), ev)
	case *tcell.EventResize:
		a.view.EnsureVisible(a.view.CaretOffset())
		a.view.Invalidate()
	}
	return false
}

// redraw runs on the UI context.
func (a *App) redraw(_ context.Context) {
	if a.closed {
		return
	}
	v := a.view
	v.SetStatus(a.statusLine(a.registry.Session(v.ID()), v.CaretOffset()))
	if !v.Dirty() {
		return
	}
	if err := v.Draw(); err != nil {
		if pdebug.Enabled {
			pdebug.Printf("redraw failed: %s", err)
		}
	}
}

// statusLine shows the file, what is of interest and which occurrence
// the caret is on, e.g. `main.go  "foo" 2/5`.
func (a *App) statusLine(s *wordjump.Session, caret int) string {
	status := filepath.Base(a.filename)
	if s != nil {
		if interest := s.Interest(); interest != "" {
			spans := s.Highlights()
			status += fmt.Sprintf("  %q %s/%d", interest, occurrenceIndex(spans, caret), len(spans))
		}
	}
	if a.notice != "" {
		status += "  [" + a.notice + "]"
	}
	return status
}

func occurrenceIndex(spans []span.Span, caret int) string {
	for i, sp := range spans {
		if sp.Contains(caret) {
			return fmt.Sprint(i + 1)
		}
	}
	return "-"
}

// reload applies a configuration read after startup to every session
// and to the view's styles.
func (a *App) reload(ctx context.Context, cfg *config.Config, err error) {
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		a.notify(ctx, err.Error())
		return
	}

	a.mutex.Lock()
	a.config = *cfg
	a.mutex.Unlock()

	if err := a.registry.SetOptions(ctx, wordjump.OptionsFromConfig(cfg)); err != nil {
		return
	}
	_ = a.hub.Post(ctx, func(ctx context.Context) {
		a.view.SetStyles(&cfg.Style)
		a.notice = "config reloaded"
		a.redraw(ctx)
	})
}

// notify shows msg on the status line.
func (a *App) notify(ctx context.Context, msg string) {
	_ = a.hub.Post(ctx, func(ctx context.Context) {
		a.notice = msg
		a.redraw(ctx)
	})
}
