package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

func lineStart(text string, off int) int {
	return strings.LastIndexByte(text[:off], '\n') + 1
}

func lineEnd(text string, off int) int {
	if i := strings.IndexByte(text[off:], '\n'); i >= 0 {
		return off + i
	}
	return len(text)
}

func lineOf(text string, off int) int {
	return strings.Count(text[:off], "\n")
}

// offsetOfLine returns the offset at which line n starts, or len(text)
// if there are fewer lines.
func offsetOfLine(text string, n int) int {
	off := 0
	for ; n > 0; n-- {
		i := strings.IndexByte(text[off:], '\n')
		if i < 0 {
			return len(text)
		}
		off += i + 1
	}
	return off
}

// nextGrapheme returns the offset right after the grapheme cluster
// starting at off.
func nextGrapheme(text string, off int) int {
	if off >= len(text) {
		return len(text)
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(text[off:], -1)
	if cluster == "" {
		return off + 1
	}
	return off + len(cluster)
}

// prevGrapheme returns the start of the grapheme cluster ending at off.
func prevGrapheme(text string, off int) int {
	if off <= 0 {
		return 0
	}
	start := lineStart(text, off)
	if start == off {
		return off - 1
	}
	prev := start
	for p := start; p < off; {
		prev = p
		p = nextGrapheme(text, p)
	}
	return prev
}

// cellWidth is the number of terminal cells a cluster takes up.
func cellWidth(cluster string) int {
	if cluster == "\t" {
		return 1
	}
	if w := runewidth.StringWidth(cluster); w > 0 {
		return w
	}
	return 1
}

// displayColumn returns the cell column of off within its line.
func displayColumn(text string, off int) int {
	col := 0
	for p := lineStart(text, off); p < off; {
		q := nextGrapheme(text, p)
		col += cellWidth(text[p:q])
		p = q
	}
	return col
}

// offsetAtColumn returns the offset of the cluster displayed at cell
// column col of the line starting at start. Positions past the end of
// the line map to its end.
func offsetAtColumn(text string, start, col int) int {
	end := lineEnd(text, start)
	x := 0
	for p := start; p < end; {
		q := nextGrapheme(text, p)
		w := cellWidth(text[p:q])
		if x+w > col {
			return p
		}
		x += w
		p = q
	}
	return end
}
