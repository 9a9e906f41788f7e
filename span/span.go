// Package span defines the half-open byte range used to describe
// word occurrences inside a text buffer.
package span

import "fmt"

// Span is the half-open range [Start, End) of byte offsets into a
// buffer. Spans are values; nothing in this module mutates one after
// it has been created.
type Span struct {
	Start int
	End   int
}

// New creates a Span. If end is smaller than start the two values are
// swapped, so callers can pass an anchor and a caret in either order.
func New(start, end int) Span {
	if end < start {
		start, end = end, start
	}
	return Span{Start: start, End: end}
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Contains reports whether offset lies within the span. The end
// boundary is inclusive: a caret parked right after the last byte of
// an occurrence still belongs to it.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset <= s.End
}

// Valid reports whether the span can be applied to a text of length n.
func (s Span) Valid(n int) bool {
	return s.Start >= 0 && s.Start <= s.End && s.End <= n
}

// Text returns the part of text covered by the span, or the empty
// string if the span does not fit.
func (s Span) Text(text string) string {
	if !s.Valid(len(text)) {
		return ""
	}
	return text[s.Start:s.End]
}

// Covers reports whether the span covers the whole of a text of length n.
func (s Span) Covers(n int) bool {
	return s.Start == 0 && s.End == n
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}
