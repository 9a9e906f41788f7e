package wordjump

import (
	"context"

	pdebug "github.com/lestrrat-go/pdebug"
	"github.com/peco/wordjump/config"
	"github.com/peco/wordjump/word"
)

// TargetIndex computes the index of the occurrence to browse to. current
// is the index of the occurrence containing the caret, or -1 when the
// caret is outside all of them, which counts as sitting right before
// the first one. Browsing never wraps around.
func TargetIndex(current, count int, dir Direction) (int, bool) {
	var target int
	switch dir {
	case Next:
		target = current + 1
	case Previous:
		if current < 0 {
			return 0, false
		}
		target = current - 1
	default:
		return 0, false
	}
	if target < 0 || target >= count {
		return 0, false
	}
	return target, true
}

// Navigate moves the caret to the next or previous occurrence of the
// text of interest and scrolls it into view. If there are no usable
// highlights (none at all, or the caret moved and the debounce timer
// has not caught up yet) they are rebuilt from the word under the
// caret first.
//
// Navigate must be called on the UI context. It reports whether the
// caret was moved.
func (s *Session) Navigate(ctx context.Context, dir Direction) bool {
	if pdebug.Enabled {
		g := pdebug.Marker("Session.Navigate (view=%s, dir=%s)", s.id, dir)
		defer g.End()
	}
	if s.disposed {
		return false
	}

	// the caret moves below are our own doing
	s.resolver.Enter()
	defer s.resolver.Leave()

	caret := s.editor.CaretOffset()
	if s.highlights.Empty() || s.timer.Pending() {
		w := word.At(s.editor.Text(), caret, s.opts.WordClass)
		if w == "" {
			return false
		}
		s.timer.Stop()
		s.rebuild(s.resolver.Adopt(w).Interest)
	}

	target, ok := TargetIndex(s.highlights.IndexContaining(caret), s.highlights.Len(), dir)
	if !ok {
		return false
	}

	sp := s.highlights.At(target)
	if s.opts.BrowseMode == config.BrowseModeSelect {
		s.editor.SetSelection(ctx, sp.Start, sp.End)
	} else {
		s.editor.SetCaretOffset(ctx, sp.Start)
	}
	s.editor.EnsureVisible(sp.Start)
	tracer.Printf("session %s: %s to occurrence %d of %d at %s", s.id, dir, target+1, s.highlights.Len(), sp)
	return true
}

// SelectWordAtCaret selects the word under the caret. The selection
// then goes through the usual selection handling and becomes the text
// of interest. It does nothing while a selection exists.
func (s *Session) SelectWordAtCaret(ctx context.Context) bool {
	if s.disposed || s.editor.HasSelection() {
		return false
	}
	sp, ok := word.ExtractAt(s.editor.Text(), s.editor.CaretOffset(), s.opts.WordClass)
	if !ok {
		return false
	}
	s.editor.SetSelection(ctx, sp.Start, sp.End)
	return true
}
