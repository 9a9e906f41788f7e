package wordjump_test

import (
	"context"
	"testing"
	"time"

	"github.com/peco/wordjump"
	"github.com/peco/wordjump/hub"
	"github.com/peco/wordjump/internal/mock"
	"github.com/peco/wordjump/span"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	hub      *hub.Hub
	ctx      context.Context
	registry *wordjump.Registry
	editor   *mock.Editor
	session  *wordjump.Session
}

func newFixture(t *testing.T, text string, opts wordjump.Options) *fixture {
	t.Helper()

	h := hub.New(16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.Loop(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	f := &fixture{
		hub:      h,
		ctx:      ctx,
		registry: wordjump.NewRegistry(h, opts),
		editor:   mock.NewEditor(text),
	}
	f.do(t, func(ctx context.Context) {
		f.session = f.registry.Open(ctx, "main", f.editor)
	})
	require.NotNil(t, f.session)
	return f
}

// do runs fn on the UI context, including the rebuilds it defers.
func (f *fixture) do(t *testing.T, fn func(context.Context)) {
	t.Helper()
	require.NoError(t, f.hub.Do(f.ctx, fn))
}

func (f *fixture) highlights(t *testing.T) []span.Span {
	t.Helper()
	var spans []span.Span
	f.do(t, func(context.Context) { spans = f.session.Highlights() })
	return spans
}

func (f *fixture) revision(t *testing.T) uint64 {
	t.Helper()
	var rev uint64
	f.do(t, func(context.Context) { rev = f.session.Revision() })
	return rev
}

func (f *fixture) state(t *testing.T) wordjump.State {
	t.Helper()
	var st wordjump.State
	f.do(t, func(context.Context) { st = f.session.State() })
	return st
}

func (f *fixture) interest(t *testing.T) string {
	t.Helper()
	var s string
	f.do(t, func(context.Context) { s = f.session.Interest() })
	return s
}

func (f *fixture) navigate(t *testing.T, dir wordjump.Direction) bool {
	t.Helper()
	var moved bool
	f.do(t, func(ctx context.Context) { moved = f.session.Navigate(ctx, dir) })
	return moved
}

func (f *fixture) selectText(t *testing.T, start, end int) {
	t.Helper()
	f.do(t, func(ctx context.Context) { f.editor.SetSelection(ctx, start, end) })
}

func (f *fixture) moveCaret(t *testing.T, offset int) {
	t.Helper()
	f.do(t, func(ctx context.Context) { f.editor.SetCaretOffset(ctx, offset) })
}

func withHeuristic(delay time.Duration) wordjump.Options {
	opts := wordjump.DefaultOptions()
	opts.HeuristicHighlight = true
	opts.DebounceDelay = delay
	return opts
}

func TestSessionExplicitSelection(t *testing.T) {
	f := newFixture(t, "cat catalog cat", wordjump.DefaultOptions())

	f.selectText(t, 0, 3)
	require.Equal(t, []span.Span{{Start: 0, End: 3}, {Start: 12, End: 15}}, f.highlights(t))
	require.Equal(t, []span.Span{{Start: 0, End: 3}, {Start: 12, End: 15}}, f.editor.DecoratedSpans())
	require.Equal(t, "cat", f.interest(t))
	require.Equal(t, wordjump.StateExplicitSelection, f.state(t))

	t.Run("occurrence style comes from the editor", func(t *testing.T) {
		want := f.editor.StyleFor("wordjump.occurrence")
		for _, d := range f.editor.Decorations() {
			require.Equal(t, want, d.Style)
		}
	})

	t.Run("selecting part of a word clears", func(t *testing.T) {
		f.selectText(t, 4, 7)
		require.Empty(t, f.highlights(t))
		require.Empty(t, f.editor.Decorations())
		require.Equal(t, wordjump.StateIdle, f.state(t))
	})
}

func TestSessionSelfMatch(t *testing.T) {
	f := newFixture(t, "hello", wordjump.DefaultOptions())

	f.selectText(t, 0, 5)
	require.Empty(t, f.highlights(t))
	require.Empty(t, f.editor.Decorations())
}

func TestSessionSingleOccurrence(t *testing.T) {
	f := newFixture(t, "hello world", wordjump.DefaultOptions())

	f.selectText(t, 0, 5)
	require.Equal(t, []span.Span{{Start: 0, End: 5}}, f.highlights(t))
}

func TestSessionRebuildIsIdempotent(t *testing.T) {
	f := newFixture(t, "foo bar foo", wordjump.DefaultOptions())

	f.selectText(t, 0, 3)
	f.selectText(t, 8, 11)
	f.selectText(t, 0, 3)
	require.Len(t, f.editor.Decorations(), 2, "replacing the highlights must not leave stale decorations")
	require.Equal(t, uint64(3), f.revision(t))
}

func TestSessionEditInvalidates(t *testing.T) {
	f := newFixture(t, "foo bar foo", wordjump.DefaultOptions())

	f.selectText(t, 0, 3)
	require.Len(t, f.highlights(t), 2)

	f.do(t, func(ctx context.Context) { f.editor.Insert(ctx, 3, "x") })
	require.Equal(t, "foox bar foo", f.editor.Text())
	require.Empty(t, f.highlights(t))
	require.Empty(t, f.editor.Decorations())
	require.Equal(t, wordjump.StateIdle, f.state(t))
}

func TestSessionColumnMode(t *testing.T) {
	f := newFixture(t, "foo bar foo", wordjump.DefaultOptions())

	f.selectText(t, 0, 3)
	require.Len(t, f.highlights(t), 2)

	f.do(t, func(ctx context.Context) { f.editor.SetColumnMode(ctx, true) })
	require.Empty(t, f.highlights(t))

	f.selectText(t, 8, 11)
	require.Empty(t, f.highlights(t), "column selections are never of interest")
}

func TestSessionDebounce(t *testing.T) {
	const delay = 100 * time.Millisecond
	f := newFixture(t, "alpha beta gamma alpha", withHeuristic(delay))

	for _, offset := range []int{7, 12, 3, 18} {
		f.moveCaret(t, offset)
	}
	require.Equal(t, uint64(0), f.revision(t), "nothing happens before the caret rests")

	require.Eventually(t, func() bool {
		return f.revision(t) == 1
	}, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, []span.Span{{Start: 0, End: 5}, {Start: 17, End: 22}}, f.highlights(t))
	require.Equal(t, wordjump.StateHeuristicCandidate, f.state(t))

	require.Never(t, func() bool {
		return f.revision(t) != 1
	}, 3*delay, 10*time.Millisecond, "a burst of caret moves results in exactly one rebuild")

	t.Run("moving inside an occurrence keeps the highlights", func(t *testing.T) {
		f.moveCaret(t, 2)
		require.Never(t, func() bool {
			return f.revision(t) != 1
		}, 3*delay, 10*time.Millisecond)
	})

	t.Run("resting on another word switches", func(t *testing.T) {
		f.moveCaret(t, 8)
		require.Eventually(t, func() bool {
			return f.revision(t) == 2
		}, 2*time.Second, 10*time.Millisecond)
		require.Equal(t, []span.Span{{Start: 6, End: 10}}, f.highlights(t))
	})

	t.Run("resting between words clears", func(t *testing.T) {
		f.do(t, func(ctx context.Context) { f.editor.Insert(ctx, 10, "  ") })
		f.moveCaret(t, 11)
		require.Eventually(t, func() bool {
			return len(f.highlights(t)) == 0 && f.state(t) == wordjump.StateIdle
		}, 2*time.Second, 10*time.Millisecond)
	})
}

func TestSessionHeuristicDisabled(t *testing.T) {
	const delay = 30 * time.Millisecond
	opts := wordjump.DefaultOptions()
	opts.DebounceDelay = delay
	f := newFixture(t, "foo bar foo", opts)

	f.moveCaret(t, 1)
	require.Never(t, func() bool {
		return len(f.highlights(t)) > 0
	}, 5*delay, 10*time.Millisecond)
}

func TestSessionHeuristicYieldsToSelection(t *testing.T) {
	const delay = 30 * time.Millisecond
	f := newFixture(t, "foo bar foo bar", withHeuristic(delay))

	f.selectText(t, 4, 7)
	require.Equal(t, []span.Span{{Start: 4, End: 7}, {Start: 12, End: 15}}, f.highlights(t))

	require.Never(t, func() bool {
		return f.interest(t) != "bar"
	}, 5*delay, 10*time.Millisecond, "the idle caret must not override an explicit selection")
}

func TestSessionDispose(t *testing.T) {
	const delay = 50 * time.Millisecond
	f := newFixture(t, "foo bar foo", withHeuristic(delay))
	require.Equal(t, 3, f.editor.Listeners())

	f.selectText(t, 0, 3)
	require.Len(t, f.editor.Decorations(), 2)

	// leave a timer running
	f.moveCaret(t, 5)

	f.do(t, func(context.Context) {
		require.True(t, f.registry.Close("main"))
	})
	require.True(t, f.session.Disposed())
	require.Equal(t, 0, f.editor.Listeners())
	require.Empty(t, f.editor.Decorations())

	require.Never(t, func() bool {
		return f.revision(t) != 1 || len(f.editor.Decorations()) > 0
	}, 4*delay, 10*time.Millisecond, "a disposed session must not rebuild")

	f.do(t, func(context.Context) {
		f.session.Dispose()
		require.False(t, f.registry.Close("main"))
	})
	require.False(t, f.navigate(t, wordjump.Next))
}

func TestSessionDisposeKeepsHighlights(t *testing.T) {
	opts := wordjump.DefaultOptions()
	opts.ClearOnDispose = false
	f := newFixture(t, "foo bar foo", opts)

	f.selectText(t, 0, 3)
	f.do(t, func(context.Context) { f.registry.CloseAll() })
	require.Len(t, f.editor.Decorations(), 2)
	require.Equal(t, 0, f.editor.Listeners())
}

func TestSessionSetOptions(t *testing.T) {
	const delay = 30 * time.Millisecond
	opts := wordjump.DefaultOptions()
	opts.DebounceDelay = delay
	f := newFixture(t, "foo bar foo", opts)

	opts.HeuristicHighlight = true
	require.NoError(t, f.registry.SetOptions(f.ctx, opts))
	require.Eventually(t, func() bool {
		var on bool
		f.do(t, func(context.Context) { on = f.session.Options().HeuristicHighlight })
		return on
	}, time.Second, 10*time.Millisecond)

	f.moveCaret(t, 9)
	require.Eventually(t, func() bool {
		return len(f.highlights(t)) == 2
	}, 2*time.Second, 10*time.Millisecond)
}
