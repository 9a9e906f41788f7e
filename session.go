package wordjump

import (
	"context"

	pdebug "github.com/lestrrat-go/pdebug"
	"github.com/peco/wordjump/highlight"
	"github.com/peco/wordjump/hub"
	"github.com/peco/wordjump/occurrence"
	"github.com/peco/wordjump/span"
)

func newSession(ctx context.Context, id ViewID, ed Editor, h *hub.Hub, opts Options) *Session {
	opts = opts.normalize()
	ctx, cancel := context.WithCancel(hub.Detach(ctx))

	s := &Session{
		id:         id,
		editor:     ed,
		hub:        h,
		opts:       opts,
		resolver:   NewResolver(opts.HeuristicHighlight, opts.WordClass),
		highlights: highlight.New(ed),
		cancel:     cancel,
	}
	s.timer = newDebouncer(ctx, h, opts.DebounceDelay, s.caretIdle)
	s.subs = []Subscription{
		ed.OnSelectionChanged(s.selectionChanged),
		ed.OnCaretMoved(s.caretMoved),
		ed.OnDocumentChanged(s.documentChanged),
	}
	return s
}

// ID returns the id of the view this session is attached to.
func (s *Session) ID() ViewID {
	return s.id
}

// Editor returns the host editor of the session.
func (s *Session) Editor() Editor {
	return s.editor
}

// State returns the state of the session's resolver.
func (s *Session) State() State {
	return s.resolver.State()
}

// Interest returns the text the current highlights were built for, or
// "" when nothing is highlighted.
func (s *Session) Interest() string {
	return s.highlights.Interest()
}

// Highlights returns the highlighted spans in document order.
func (s *Session) Highlights() []span.Span {
	return s.highlights.Spans()
}

// Revision is incremented every time the highlights are rebuilt.
func (s *Session) Revision() uint64 {
	return s.revision
}

// Disposed reports whether Dispose has been called.
func (s *Session) Disposed() bool {
	return s.disposed
}

func (s *Session) Options() Options {
	return s.opts
}

// SetOptions applies opts to the session. Existing highlights are kept;
// the new options take effect with the next event.
func (s *Session) SetOptions(opts Options) {
	opts = opts.normalize()
	s.opts = opts
	s.resolver.SetHeuristic(opts.HeuristicHighlight)
	s.resolver.SetClass(opts.WordClass)
	s.timer.SetDelay(opts.DebounceDelay)
}

func (s *Session) selectionChanged(ctx context.Context, ev SelectionEvent) {
	if s.disposed {
		return
	}
	req, ok := s.resolver.SelectionChanged(s.editor.Text(), ev.New, s.editor.IsColumnSelectionMode())
	if !ok {
		return
	}
	s.request(ctx, req)
}

func (s *Session) caretMoved(_ context.Context, _ CaretEvent) {
	if s.disposed || s.resolver.Suspended() {
		return
	}
	// an explicit selection owns the highlights
	if s.editor.HasSelection() {
		return
	}
	s.timer.Restart()
}

func (s *Session) documentChanged(ctx context.Context, _ DocumentEvent) {
	if s.disposed {
		return
	}
	req, ok := s.resolver.DocumentChanged()
	if !ok {
		return
	}
	s.request(ctx, req)
}

// caretIdle runs on the UI context when the debounce timer fires.
func (s *Session) caretIdle(_ context.Context) {
	if s.disposed {
		return
	}
	caret := s.editor.CaretOffset()
	inside := s.highlights.IndexContaining(caret) >= 0
	req, ok := s.resolver.CaretIdle(s.editor.Text(), caret, inside, s.editor.HasSelection())
	if !ok {
		return
	}
	s.rebuild(req.Interest)
}

// request defers the rebuild to the end of the current tick, so the
// host finishes processing the event first.
func (s *Session) request(ctx context.Context, req Request) {
	if err := s.hub.Post(ctx, func(context.Context) { s.rebuild(req.Interest) }); err != nil {
		tracer.Printf("session %s: failed to post rebuild: %s", s.id, err)
	}
}

func (s *Session) rebuild(interest string) {
	if pdebug.Enabled {
		g := pdebug.Marker("Session.rebuild (view=%s, interest=%q)", s.id, interest)
		defer g.End()
	}
	if s.disposed {
		return
	}

	var spans []span.Span
	if interest != "" {
		spans = occurrence.Find(s.editor.Text(), interest, s.opts.WordClass)
	}
	s.highlights.ReplaceAll(interest, spans, s.editor.StyleFor(highlight.Category))
	s.revision++
	tracer.Printf("session %s: %d occurrences of %q (revision %d)", s.id, len(spans), interest, s.revision)
}

// Dispose detaches the session from its editor: the timer is stopped,
// every listener is removed and, if configured, the highlights are
// cleared. Dispose must be called on the UI context. Calling it again
// does nothing.
func (s *Session) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.timer.Stop()
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	s.subs = nil
	if s.opts.ClearOnDispose {
		s.highlights.Clear()
	}
	s.cancel()
	tracer.Printf("session %s: disposed", s.id)
}
