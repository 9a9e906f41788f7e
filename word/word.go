// Package word decides what a "word" is inside a text buffer. The same
// character class is used to pick the word under the caret and to
// reject substring matches that are glued to other word characters.
package word

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/peco/wordjump/span"
)

// Class reports whether a rune belongs to a word.
type Class func(rune) bool

// Default is the word class used unless configured otherwise: letters,
// digits and the underscore.
var Default Class = IsWordCharacter

// IsWordCharacter reports whether r is a letter, a digit or '_'.
func IsWordCharacter(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ClassWithExtra returns the default class extended with every rune in
// extra. An empty extra yields Default.
func ClassWithExtra(extra string) Class {
	if extra == "" {
		return Default
	}
	return func(r rune) bool {
		return IsWordCharacter(r) || strings.ContainsRune(extra, r)
	}
}

func (c Class) orDefault() Class {
	if c == nil {
		return Default
	}
	return c
}

// ExtractAt returns the span of the word covering offset. The rune at
// offset is tried first, then the rune right before it, so a caret
// sitting just after a word still picks that word up. ok is false when
// neither rune is a word rune or offset is out of range.
func ExtractAt(text string, offset int, class Class) (s span.Span, ok bool) {
	class = class.orDefault()
	if offset < 0 || offset > len(text) {
		return s, false
	}

	// never start in the middle of an encoded rune
	for offset > 0 && offset < len(text) && !utf8.RuneStart(text[offset]) {
		offset--
	}

	pos := -1
	if offset < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[offset:]); class(r) {
			pos = offset
		}
	}
	if pos < 0 && offset > 0 {
		if r, size := utf8.DecodeLastRuneInString(text[:offset]); class(r) {
			pos = offset - size
		}
	}
	if pos < 0 {
		return s, false
	}

	start := pos
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !class(r) {
			break
		}
		start -= size
	}

	end := pos
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !class(r) {
			break
		}
		end += size
	}

	return span.Span{Start: start, End: end}, true
}

// At returns the word covering offset, or the empty string.
func At(text string, offset int, class Class) string {
	s, ok := ExtractAt(text, offset, class)
	if !ok {
		return ""
	}
	return s.Text(text)
}

// IsWholeWordAt reports whether text[start:end] is not adjoined by a
// word rune on either side. Ranges that do not fit the text are never
// whole words.
func IsWholeWordAt(text string, start, end int, class Class) bool {
	class = class.orDefault()
	if start < 0 || start > end || end > len(text) {
		return false
	}

	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:start]); class(r) {
			return false
		}
	}
	if end < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[end:]); class(r) {
			return false
		}
	}
	return true
}
