package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/peco/wordjump"
	"github.com/peco/wordjump/config"
	"github.com/peco/wordjump/highlight"
	"github.com/peco/wordjump/span"
)

// Decoration is a decoration drawn on an Editor.
type Decoration struct {
	Start int
	End   int
	Style config.Style
}

// Editor is an in-memory wordjump.Editor. Events are delivered
// synchronously to the listeners, with the context passed to the
// operation that caused them.
type Editor struct {
	*Interceptor

	mutex       sync.Mutex
	text        string
	caret       int
	anchor      int
	hasSel      bool
	column      bool
	project     string
	styles      *config.StyleSet
	nextID      int
	decorations map[int]Decoration
	selection   map[int]wordjump.SelectionHandler
	caretMoved  map[int]wordjump.CaretHandler
	document    map[int]wordjump.DocumentHandler
}

// NewEditor creates an Editor holding text with the caret at offset 0.
func NewEditor(text string) *Editor {
	return &Editor{
		Interceptor: NewInterceptor(),
		text:        text,
		project:     "test",
		styles:      config.NewStyleSet(),
		decorations: make(map[int]Decoration),
		selection:   make(map[int]wordjump.SelectionHandler),
		caretMoved:  make(map[int]wordjump.CaretHandler),
		document:    make(map[int]wordjump.DocumentHandler),
	}
}

// SetProject changes what Project reports. An empty project keeps the
// registry from opening a session.
func (e *Editor) SetProject(p string) *Editor {
	e.project = p
	return e
}

func (e *Editor) Project() string {
	return e.project
}

func (e *Editor) Text() string {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.text
}

func (e *Editor) Selection() (span.Span, bool) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.selectionLocked(), e.hasSel
}

func (e *Editor) selectionLocked() span.Span {
	if !e.hasSel {
		return span.Span{}
	}
	return span.New(e.anchor, e.caret)
}

func (e *Editor) HasSelection() bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.hasSel
}

func (e *Editor) CaretOffset() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.caret
}

func (e *Editor) IsColumnSelectionMode() bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.column
}

func (e *Editor) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(e.text) {
		return len(e.text)
	}
	return offset
}

// SetSelection selects from start to end and leaves the caret at end.
func (e *Editor) SetSelection(ctx context.Context, start, end int) {
	e.Record("SetSelection", start, end)

	e.mutex.Lock()
	oldSel := e.selectionLocked()
	oldCaret := e.caret
	e.anchor = e.clamp(start)
	e.caret = e.clamp(end)
	e.hasSel = e.anchor != e.caret
	newSel := e.selectionLocked()
	newCaret := e.caret
	e.mutex.Unlock()

	if oldSel != newSel {
		e.fireSelection(ctx, wordjump.SelectionEvent{Old: oldSel, New: newSel})
	}
	if oldCaret != newCaret {
		e.fireCaret(ctx, wordjump.CaretEvent{Old: oldCaret, New: newCaret})
	}
}

// SetCaretOffset moves the caret, dropping the selection.
func (e *Editor) SetCaretOffset(ctx context.Context, offset int) {
	e.Record("SetCaretOffset", offset)

	e.mutex.Lock()
	oldSel := e.selectionLocked()
	hadSel := e.hasSel
	oldCaret := e.caret
	e.hasSel = false
	e.caret = e.clamp(offset)
	e.anchor = e.caret
	newCaret := e.caret
	e.mutex.Unlock()

	if hadSel {
		e.fireSelection(ctx, wordjump.SelectionEvent{Old: oldSel})
	}
	if oldCaret != newCaret {
		e.fireCaret(ctx, wordjump.CaretEvent{Old: oldCaret, New: newCaret})
	}
}

// PlaceCaret moves the caret without notifying anybody, like a host
// restoring a view.
func (e *Editor) PlaceCaret(offset int) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.hasSel = false
	e.caret = e.clamp(offset)
	e.anchor = e.caret
}

// SetColumnMode switches column selection mode, which the host reports
// as a selection change.
func (e *Editor) SetColumnMode(ctx context.Context, b bool) {
	e.mutex.Lock()
	if e.column == b {
		e.mutex.Unlock()
		return
	}
	e.column = b
	sel := e.selectionLocked()
	e.mutex.Unlock()

	e.fireSelection(ctx, wordjump.SelectionEvent{Old: sel, New: sel})
}

// Replace replaces the bytes in [start, end) with s. The selection is
// dropped and the caret ends up after the inserted text.
func (e *Editor) Replace(ctx context.Context, start, end int, s string) {
	e.mutex.Lock()
	start, end = e.clamp(start), e.clamp(end)
	removed := e.text[start:end]
	e.text = e.text[:start] + s + e.text[end:]
	oldSel := e.selectionLocked()
	hadSel := e.hasSel
	oldCaret := e.caret
	e.hasSel = false
	e.caret = start + len(s)
	e.anchor = e.caret
	newCaret := e.caret
	e.mutex.Unlock()

	e.fireDocument(ctx, wordjump.DocumentEvent{Offset: start, Removed: removed, Inserted: s})
	if hadSel {
		e.fireSelection(ctx, wordjump.SelectionEvent{Old: oldSel})
	}
	if oldCaret != newCaret {
		e.fireCaret(ctx, wordjump.CaretEvent{Old: oldCaret, New: newCaret})
	}
}

// Insert inserts s at offset.
func (e *Editor) Insert(ctx context.Context, offset int, s string) {
	e.Replace(ctx, offset, offset, s)
}

func (e *Editor) EnsureVisible(offset int) {
	e.Record("EnsureVisible", offset)
}

func (e *Editor) StyleFor(category string) config.Style {
	st, _ := e.styles.Lookup(category)
	return st
}

func (e *Editor) AddDecoration(start, end int, style config.Style) highlight.Handle {
	e.Record("AddDecoration", start, end)

	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.nextID++
	e.decorations[e.nextID] = Decoration{Start: start, End: end, Style: style}
	return e.nextID
}

func (e *Editor) RemoveDecoration(h highlight.Handle) {
	e.Record("RemoveDecoration", h)

	id, ok := h.(int)
	if !ok {
		return
	}
	e.mutex.Lock()
	defer e.mutex.Unlock()
	delete(e.decorations, id)
}

// Decorations returns the decorations currently drawn, ordered by
// position.
func (e *Editor) Decorations() []Decoration {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	out := make([]Decoration, 0, len(e.decorations))
	for _, d := range e.decorations {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out
}

// DecoratedSpans returns the spans of Decorations.
func (e *Editor) DecoratedSpans() []span.Span {
	var out []span.Span
	for _, d := range e.Decorations() {
		out = append(out, span.New(d.Start, d.End))
	}
	return out
}

// Listeners returns the number of registered listeners.
func (e *Editor) Listeners() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return len(e.selection) + len(e.caretMoved) + len(e.document)
}

func (e *Editor) OnSelectionChanged(h wordjump.SelectionHandler) wordjump.Subscription {
	return e.subscribe(func(id int) { e.selection[id] = h }, func(id int) { delete(e.selection, id) })
}

func (e *Editor) OnCaretMoved(h wordjump.CaretHandler) wordjump.Subscription {
	return e.subscribe(func(id int) { e.caretMoved[id] = h }, func(id int) { delete(e.caretMoved, id) })
}

func (e *Editor) OnDocumentChanged(h wordjump.DocumentHandler) wordjump.Subscription {
	return e.subscribe(func(id int) { e.document[id] = h }, func(id int) { delete(e.document, id) })
}

func (e *Editor) subscribe(add, remove func(int)) wordjump.Subscription {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.nextID++
	id := e.nextID
	add(id)
	return wordjump.SubscriptionFunc(func() {
		e.mutex.Lock()
		defer e.mutex.Unlock()
		remove(id)
	})
}

func sortedIDs[T any](m map[int]T) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (e *Editor) fireSelection(ctx context.Context, ev wordjump.SelectionEvent) {
	e.mutex.Lock()
	var hs []wordjump.SelectionHandler
	for _, id := range sortedIDs(e.selection) {
		hs = append(hs, e.selection[id])
	}
	e.mutex.Unlock()

	for _, h := range hs {
		h(ctx, ev)
	}
}

func (e *Editor) fireCaret(ctx context.Context, ev wordjump.CaretEvent) {
	e.mutex.Lock()
	var hs []wordjump.CaretHandler
	for _, id := range sortedIDs(e.caretMoved) {
		hs = append(hs, e.caretMoved[id])
	}
	e.mutex.Unlock()

	for _, h := range hs {
		h(ctx, ev)
	}
}

func (e *Editor) fireDocument(ctx context.Context, ev wordjump.DocumentEvent) {
	e.mutex.Lock()
	var hs []wordjump.DocumentHandler
	for _, id := range sortedIDs(e.document) {
		hs = append(hs, e.document[id])
	}
	e.mutex.Unlock()

	for _, h := range hs {
		h(ctx, ev)
	}
}
