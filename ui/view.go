package ui

import (
	"context"
	"sort"

	"github.com/google/btree"
	"github.com/google/uuid"
	"github.com/peco/wordjump"
	"github.com/peco/wordjump/config"
	"github.com/peco/wordjump/highlight"
	"github.com/peco/wordjump/span"
)

func lessDecoration(a, b decoration) bool {
	if a.start != b.start {
		return a.start < b.start
	}
	return a.id < b.id
}

// NewView creates an empty View drawn on screen. The view gets a fresh
// random id. An empty project keeps the registry from attaching a
// session to the view.
func NewView(screen Screen, styles *config.StyleSet, project string) *View {
	if styles == nil {
		styles = config.NewStyleSet()
	}
	return &View{
		id:          wordjump.ViewID(uuid.NewString()),
		project:     project,
		screen:      screen,
		styles:      styles,
		decorations: btree.NewG(16, lessDecoration),
		byID:        make(map[int]decoration),
		listeners: listeners{
			selection: make(map[int]wordjump.SelectionHandler),
			caret:     make(map[int]wordjump.CaretHandler),
			document:  make(map[int]wordjump.DocumentHandler),
		},
	}
}

func (v *View) ID() wordjump.ViewID {
	return v.id
}

func (v *View) Project() string {
	return v.project
}

func (v *View) Text() string {
	return v.text
}

// Load replaces the whole buffer without notifying anybody, the way a
// freshly opened file appears. The caret goes to the top.
func (v *View) Load(text string) {
	v.text = text
	v.caret, v.anchor, v.hasSel = 0, 0, false
	v.top = 0
	v.dirty = true
}

// SetStyles changes the styles used for drawing.
func (v *View) SetStyles(styles *config.StyleSet) {
	v.styles = styles
	v.dirty = true
}

func (v *View) StyleFor(category string) config.Style {
	st, _ := v.styles.Lookup(category)
	return st
}

// SetStatus sets the text of the status line.
func (v *View) SetStatus(s string) {
	if v.status != s {
		v.status = s
		v.dirty = true
	}
}

func (v *View) Status() string {
	return v.status
}

func (v *View) CaretOffset() int {
	return v.caret
}

// SetCaretOffset moves the caret, dropping the selection.
func (v *View) SetCaretOffset(ctx context.Context, offset int) {
	off := v.clamp(offset)
	v.place(ctx, off, off, false)
}

func (v *View) clamp(off int) int {
	if off < 0 {
		return 0
	}
	if off > len(v.text) {
		return len(v.text)
	}
	return off
}

// place sets anchor and caret and fires the resulting selection and
// caret events, in that order.
func (v *View) place(ctx context.Context, anchor, caret int, selecting bool) {
	oldSel := v.selectionSpan()
	oldCaret := v.caret

	v.anchor = anchor
	v.caret = caret
	v.hasSel = selecting && anchor != caret
	v.dirty = true

	if newSel := v.selectionSpan(); newSel != oldSel {
		v.fireSelection(ctx, wordjump.SelectionEvent{Old: oldSel, New: newSel})
	}
	if v.caret != oldCaret {
		v.fireCaret(ctx, wordjump.CaretEvent{Old: oldCaret, New: v.caret})
	}
}

// moveTo moves the caret to off. With extend the selection is grown
// from the current anchor, otherwise it is dropped.
func (v *View) moveTo(ctx context.Context, off int, extend bool) {
	if !extend {
		v.place(ctx, off, off, false)
		return
	}
	anchor := v.anchor
	if !v.hasSel {
		anchor = v.caret
	}
	v.place(ctx, anchor, off, true)
}

func (v *View) MoveLeft(ctx context.Context, extend bool) {
	v.moveTo(ctx, prevGrapheme(v.text, v.caret), extend)
}

func (v *View) MoveRight(ctx context.Context, extend bool) {
	v.moveTo(ctx, nextGrapheme(v.text, v.caret), extend)
}

func (v *View) MoveUp(ctx context.Context, extend bool) {
	start := lineStart(v.text, v.caret)
	if start == 0 {
		v.moveTo(ctx, 0, extend)
		return
	}
	col := displayColumn(v.text, v.caret)
	v.moveTo(ctx, offsetAtColumn(v.text, lineStart(v.text, start-1), col), extend)
}

func (v *View) MoveDown(ctx context.Context, extend bool) {
	end := lineEnd(v.text, v.caret)
	if end == len(v.text) {
		v.moveTo(ctx, end, extend)
		return
	}
	col := displayColumn(v.text, v.caret)
	v.moveTo(ctx, offsetAtColumn(v.text, end+1, col), extend)
}

func (v *View) MoveLineStart(ctx context.Context, extend bool) {
	v.moveTo(ctx, lineStart(v.text, v.caret), extend)
}

func (v *View) MoveLineEnd(ctx context.Context, extend bool) {
	v.moveTo(ctx, lineEnd(v.text, v.caret), extend)
}

// Insert replaces the selection, if any, with s or inserts s at the
// caret.
func (v *View) Insert(ctx context.Context, s string) {
	start, end := v.caret, v.caret
	if v.hasSel {
		sel := v.selectionSpan()
		start, end = sel.Start, sel.End
	}
	v.replace(ctx, start, end, s)
}

// Backspace deletes the selection, or the cluster before the caret.
func (v *View) Backspace(ctx context.Context) {
	if v.hasSel {
		sel := v.selectionSpan()
		v.replace(ctx, sel.Start, sel.End, "")
		return
	}
	if v.caret == 0 {
		return
	}
	v.replace(ctx, prevGrapheme(v.text, v.caret), v.caret, "")
}

func (v *View) replace(ctx context.Context, start, end int, s string) {
	removed := v.text[start:end]
	if removed == "" && s == "" {
		return
	}
	v.text = v.text[:start] + s + v.text[end:]
	v.dirty = true

	// the anchor and caret may point past the new end until place runs
	if v.caret > len(v.text) {
		v.caret = len(v.text)
	}
	if v.anchor > len(v.text) {
		v.anchor = len(v.text)
	}
	v.fireDocument(ctx, wordjump.DocumentEvent{Offset: start, Removed: removed, Inserted: s})

	off := start + len(s)
	v.place(ctx, off, off, false)
}

// EnsureVisible scrolls the view so the line holding offset is shown.
func (v *View) EnsureVisible(offset int) {
	rows := v.rows()
	if rows <= 0 {
		return
	}
	line := lineOf(v.text, v.clamp(offset))
	if line < v.top {
		v.top = line
		v.dirty = true
	} else if line >= v.top+rows {
		v.top = line - rows + 1
		v.dirty = true
	}
}

// Dirty reports whether anything changed since the last Draw.
func (v *View) Dirty() bool {
	return v.dirty
}

// Invalidate forces the next redraw, e.g. after the terminal was
// resized.
func (v *View) Invalidate() {
	v.dirty = true
}

// Top returns the first visible line.
func (v *View) Top() int {
	return v.top
}

func (v *View) AddDecoration(start, end int, style config.Style) highlight.Handle {
	v.nextID++
	d := decoration{id: v.nextID, start: start, end: end, style: style}
	v.decorations.ReplaceOrInsert(d)
	v.byID[d.id] = d
	v.dirty = true
	return d.id
}

func (v *View) RemoveDecoration(h highlight.Handle) {
	id, ok := h.(int)
	if !ok {
		return
	}
	d, ok := v.byID[id]
	if !ok {
		return
	}
	delete(v.byID, id)
	v.decorations.Delete(d)
	v.dirty = true
}

// Decorations returns the decorated spans in document order.
func (v *View) Decorations() []span.Span {
	var out []span.Span
	v.decorations.Ascend(func(d decoration) bool {
		out = append(out, span.New(d.start, d.end))
		return true
	})
	return out
}

func (v *View) OnSelectionChanged(h wordjump.SelectionHandler) wordjump.Subscription {
	v.nextID++
	id := v.nextID
	v.listeners.selection[id] = h
	return wordjump.SubscriptionFunc(func() { delete(v.listeners.selection, id) })
}

func (v *View) OnCaretMoved(h wordjump.CaretHandler) wordjump.Subscription {
	v.nextID++
	id := v.nextID
	v.listeners.caret[id] = h
	return wordjump.SubscriptionFunc(func() { delete(v.listeners.caret, id) })
}

func (v *View) OnDocumentChanged(h wordjump.DocumentHandler) wordjump.Subscription {
	v.nextID++
	id := v.nextID
	v.listeners.document[id] = h
	return wordjump.SubscriptionFunc(func() { delete(v.listeners.document, id) })
}

// Listeners returns the number of registered listeners.
func (v *View) Listeners() int {
	return len(v.listeners.selection) + len(v.listeners.caret) + len(v.listeners.document)
}

func keys[T any](m map[int]T) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (v *View) fireSelection(ctx context.Context, ev wordjump.SelectionEvent) {
	for _, id := range keys(v.listeners.selection) {
		if h, ok := v.listeners.selection[id]; ok {
			h(ctx, ev)
		}
	}
}

func (v *View) fireCaret(ctx context.Context, ev wordjump.CaretEvent) {
	for _, id := range keys(v.listeners.caret) {
		if h, ok := v.listeners.caret[id]; ok {
			h(ctx, ev)
		}
	}
}

func (v *View) fireDocument(ctx context.Context, ev wordjump.DocumentEvent) {
	for _, id := range keys(v.listeners.document) {
		if h, ok := v.listeners.document[id]; ok {
			h(ctx, ev)
		}
	}
}
