package word_test

import (
	"testing"

	"github.com/peco/wordjump/span"
	"github.com/peco/wordjump/word"
	"github.com/stretchr/testify/require"
)

func TestIsWordCharacter(t *testing.T) {
	t.Parallel()
	for _, r := range "aZ09_éж" {
		require.True(t, word.IsWordCharacter(r), "%q should be a word character", r)
	}
	for _, r := range " .-\t\n()" {
		require.False(t, word.IsWordCharacter(r), "%q should not be a word character", r)
	}
}

func TestClassWithExtra(t *testing.T) {
	t.Parallel()
	c := word.ClassWithExtra("-$")
	require.True(t, c('-'))
	require.True(t, c('$'))
	require.True(t, c('a'))
	require.False(t, c('.'))

	s, ok := word.ExtractAt("x my-var y", 4, c)
	require.True(t, ok)
	require.Equal(t, span.New(2, 8), s)
}

func TestExtractAt(t *testing.T) {
	t.Parallel()
	text := "foo bar_baz  qux"

	testcases := []struct {
		name   string
		offset int
		want   string
		ok     bool
	}{
		{name: "start of word", offset: 0, want: "foo", ok: true},
		{name: "inside word", offset: 5, want: "bar_baz", ok: true},
		{name: "right after word", offset: 3, want: "foo", ok: true},
		{name: "between spaces", offset: 12, want: "", ok: false},
		{name: "end of text", offset: len(text), want: "qux", ok: true},
		{name: "negative", offset: -1, want: "", ok: false},
		{name: "past end", offset: len(text) + 1, want: "", ok: false},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			s, ok := word.ExtractAt(text, tc.offset, nil)
			require.Equal(t, tc.ok, ok)
			if ok {
				require.Equal(t, tc.want, s.Text(text))
			}
			require.Equal(t, tc.want, word.At(text, tc.offset, nil))
		})
	}
}

func TestExtractAtMultibyte(t *testing.T) {
	t.Parallel()
	text := "über straße"
	// offset 1 is inside the two-byte 'ü'
	s, ok := word.ExtractAt(text, 1, nil)
	require.True(t, ok)
	require.Equal(t, "über", s.Text(text))

	s, ok = word.ExtractAt(text, len(text), nil)
	require.True(t, ok)
	require.Equal(t, "straße", s.Text(text))
}

func TestIsWholeWordAt(t *testing.T) {
	t.Parallel()
	text := "cat catalog cat"
	require.True(t, word.IsWholeWordAt(text, 0, 3, nil))
	require.False(t, word.IsWholeWordAt(text, 4, 7, nil), "prefix of catalog")
	require.True(t, word.IsWholeWordAt(text, 12, 15, nil))
	require.True(t, word.IsWholeWordAt(text, 0, len(text), nil))
	require.False(t, word.IsWholeWordAt(text, 5, 4, nil))
	require.False(t, word.IsWholeWordAt(text, 0, 99, nil))
}
