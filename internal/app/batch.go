package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/peco/wordjump"
	"github.com/peco/wordjump/hub"
	"github.com/peco/wordjump/internal/util"
	"github.com/peco/wordjump/occurrence"
	"github.com/peco/wordjump/ui"
	"github.com/pkg/errors"
)

// list prints "line:column start-end" for every whole-word occurrence
// of --list. Lines and columns count from 1, columns in characters.
// Finding nothing exits with status 1, like grep.
func (a *App) list(w io.Writer, text string) error {
	needle := a.options.OptList
	opts := a.sessionOptions()

	spans := occurrence.Find(text, needle, opts.WordClass)
	if len(spans) == 0 {
		return util.WithExitStatus(errors.Errorf("no occurrence of %q", needle), 1)
	}

	for _, sp := range spans {
		line, col := position(text, sp.Start)
		fmt.Fprintf(w, "%d:%d %d-%d\n", line, col, sp.Start, sp.End)
	}
	return nil
}

// count prints how many whole-word occurrences of --count there are.
// Like grep -c, zero is printed and exits with status 1.
func (a *App) count(w io.Writer, text string) error {
	needle := a.options.OptCount
	n := occurrence.Count(text, needle, a.sessionOptions().WordClass)
	fmt.Fprintln(w, n)
	if n == 0 {
		return util.WithExitStatus(errors.Errorf("no occurrence of %q", needle), 1)
	}
	return nil
}

func position(text string, offset int) (int, int) {
	before := text[:offset]
	line := strings.Count(before, "\n") + 1
	start := strings.LastIndexByte(before, '\n') + 1
	return line, utf8.RuneCountInString(before[start:]) + 1
}

// navigate runs one browse request against a view holding text with
// the caret at --offset, and prints where the caret ended up. The view
// lives on a simulated screen.
func (a *App) navigate(ctx context.Context, w io.Writer, text string) error {
	if a.options.OptOffset > len(text) {
		return errors.Errorf("offset %d is past the end of the file (%d bytes)", a.options.OptOffset, len(text))
	}

	screen := ui.NewTcellScreen(tcell.NewSimulationScreen(""))
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize screen")
	}
	defer screen.Close()

	ctx, cancel := context.WithCancel(ctx)
	h := hub.New(8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.Loop(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	cfg := a.Config()
	v := ui.NewView(screen, &cfg.Style, project(a.filename))
	v.Load(text)
	registry := wordjump.NewRegistry(h, wordjump.OptionsFromConfig(&cfg))

	var moved bool
	err := h.Do(ctx, func(ctx context.Context) {
		// the caret is placed before the session exists, like a file
		// opened at a given position
		v.SetCaretOffset(ctx, a.options.OptOffset)
		s := registry.Open(ctx, v.ID(), v)
		if s == nil {
			return
		}
		moved = s.Navigate(ctx, a.direction)
		registry.CloseAll()
	})
	if err != nil {
		return errors.Wrap(err, "failed to navigate")
	}

	if !moved {
		return util.WithExitStatus(errors.Errorf("no %s occurrence from offset %d", a.direction, a.options.OptOffset), 1)
	}
	fmt.Fprintln(w, v.CaretOffset())
	return nil
}
