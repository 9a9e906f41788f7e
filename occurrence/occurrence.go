// Package occurrence indexes the whole-word matches of a literal needle
// inside a text buffer.
package occurrence

import (
	"strings"

	"github.com/peco/wordjump/span"
	"github.com/peco/wordjump/word"
)

// Find returns every whole-word occurrence of needle in text, in
// document order. The search is literal, leftmost-first and resumes
// right after the previous raw match, so the result never overlaps.
// A match that spans the entire text is dropped: selecting the whole
// buffer must not turn into a highlight of itself.
func Find(text, needle string, class word.Class) []span.Span {
	var spans []span.Span
	scan(text, needle, class, func(sp span.Span) {
		spans = append(spans, sp)
	})
	return spans
}

// Count returns len(Find(text, needle, class)) without keeping the spans.
func Count(text, needle string, class word.Class) int {
	n := 0
	scan(text, needle, class, func(span.Span) { n++ })
	return n
}

func scan(text, needle string, class word.Class, fn func(span.Span)) {
	if needle == "" || len(needle) > len(text) {
		return
	}

	for from := 0; from <= len(text)-len(needle); {
		i := strings.Index(text[from:], needle)
		if i < 0 {
			return
		}
		start := from + i
		end := start + len(needle)
		from = end

		if start == 0 && end == len(text) {
			continue
		}
		if !word.IsWholeWordAt(text, start, end, class) {
			continue
		}
		fn(span.Span{Start: start, End: end})
	}
}
