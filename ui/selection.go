package ui

import (
	"context"

	"github.com/peco/wordjump"
	"github.com/peco/wordjump/span"
)

func (v *View) selectionSpan() span.Span {
	if !v.hasSel {
		return span.Span{}
	}
	return span.New(v.anchor, v.caret)
}

func (v *View) Selection() (span.Span, bool) {
	return v.selectionSpan(), v.hasSel
}

func (v *View) HasSelection() bool {
	return v.hasSel
}

func (v *View) IsColumnSelectionMode() bool {
	return v.column
}

// SetSelection selects from start to end and leaves the caret at end.
func (v *View) SetSelection(ctx context.Context, start, end int) {
	v.place(ctx, v.clamp(start), v.clamp(end), true)
}

// SetColumnMode switches column selection mode. Switching is reported
// as a selection change.
func (v *View) SetColumnMode(ctx context.Context, b bool) {
	if v.column == b {
		return
	}
	v.column = b
	v.dirty = true
	sel := v.selectionSpan()
	v.fireSelection(ctx, wordjump.SelectionEvent{Old: sel, New: sel})
}

// ToggleColumnMode flips column selection mode.
func (v *View) ToggleColumnMode(ctx context.Context) {
	v.SetColumnMode(ctx, !v.column)
}

// selectionTest returns a function reporting whether the cluster at
// off, drawn on line at cell column col, is selected. In column mode
// the selection is the rectangle spanned by the anchor and the caret.
func (v *View) selectionTest() func(off, line, col int) bool {
	if !v.hasSel {
		return func(int, int, int) bool { return false }
	}

	if !v.column {
		sel := v.selectionSpan()
		return func(off, _, _ int) bool {
			return off >= sel.Start && off < sel.End
		}
	}

	l1, l2 := lineOf(v.text, v.anchor), lineOf(v.text, v.caret)
	if l1 > l2 {
		l1, l2 = l2, l1
	}
	c1, c2 := displayColumn(v.text, v.anchor), displayColumn(v.text, v.caret)
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	return func(_, line, col int) bool {
		return line >= l1 && line <= l2 && col >= c1 && col < c2
	}
}
