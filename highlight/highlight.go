// Package highlight keeps the set of rendered occurrence highlights of
// one view. The set is only ever replaced as a whole, so at any point
// it is consistent with exactly one interest string, or empty.
package highlight

import (
	"github.com/peco/wordjump/config"
	"github.com/peco/wordjump/span"
)

// Category is the theme key hosts use to resolve the occurrence style.
const Category = config.CategoryOccurrence

// Handle identifies one decoration created by a Decorator. Its value
// is opaque to this package.
type Handle any

// Decorator is the part of the host editor that draws decorations.
type Decorator interface {
	AddDecoration(start, end int, style config.Style) Handle
	RemoveDecoration(Handle)
}

// Set is the ordered list of highlighted spans together with the
// decoration handle drawn for each of them. A Set is not safe for
// concurrent use; it belongs to the UI context of its session.
type Set struct {
	decorator Decorator
	interest  string
	spans     []span.Span
	handles   []Handle
}

// New creates an empty Set drawing through d.
func New(d Decorator) *Set {
	return &Set{decorator: d}
}

// ReplaceAll removes every decoration previously drawn by the set and
// draws one decoration per span with the given style. Replacing with
// the same input twice leaves exactly one decoration per span.
func (s *Set) ReplaceAll(interest string, spans []span.Span, style config.Style) {
	for _, h := range s.handles {
		s.decorator.RemoveDecoration(h)
	}
	s.handles = s.handles[:0]

	if len(spans) == 0 {
		s.spans = nil
		s.handles = nil
		s.interest = ""
		return
	}

	s.spans = make([]span.Span, len(spans))
	copy(s.spans, spans)
	for _, sp := range s.spans {
		s.handles = append(s.handles, s.decorator.AddDecoration(sp.Start, sp.End, style))
	}
	s.interest = interest
}

// Clear removes every highlight.
func (s *Set) Clear() {
	s.ReplaceAll("", nil, config.Style{})
}

// IndexContaining returns the index of the span containing offset, or
// -1. The end of a span counts as inside it.
func (s *Set) IndexContaining(offset int) int {
	for i, sp := range s.spans {
		if sp.Contains(offset) {
			return i
		}
	}
	return -1
}

// Len returns the number of highlighted spans.
func (s *Set) Len() int {
	return len(s.spans)
}

// Empty reports whether nothing is highlighted.
func (s *Set) Empty() bool {
	return len(s.spans) == 0
}

// At returns the i-th span.
func (s *Set) At(i int) span.Span {
	return s.spans[i]
}

// Spans returns a copy of the highlighted spans in document order.
func (s *Set) Spans() []span.Span {
	if len(s.spans) == 0 {
		return nil
	}
	out := make([]span.Span, len(s.spans))
	copy(out, s.spans)
	return out
}

// Interest returns the text the current spans were built for.
func (s *Set) Interest() string {
	return s.interest
}
