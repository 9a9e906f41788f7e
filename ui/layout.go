package ui

import (
	pdebug "github.com/lestrrat-go/pdebug"
	"github.com/rivo/uniseg"
)

// rows is the number of lines available for text. The last screen line
// belongs to the status bar.
func (v *View) rows() int {
	_, h := v.screen.Size()
	return h - 1
}

// decorationCursor walks the decorations in document order while the
// text is drawn front to back.
type decorationCursor struct {
	decs []decoration
	i    int
}

func (c *decorationCursor) at(off int) (decoration, bool) {
	for c.i < len(c.decs) && c.decs[c.i].end <= off {
		c.i++
	}
	if c.i < len(c.decs) && c.decs[c.i].start <= off {
		return c.decs[c.i], true
	}
	return decoration{}, false
}

// Draw renders the visible lines and the status bar, then flushes the
// screen.
func (v *View) Draw() error {
	if pdebug.Enabled {
		g := pdebug.Marker("View.Draw (top=%d)", v.top)
		defer g.End()
	}

	v.dirty = false
	w, h := v.screen.Size()
	rows := h - 1
	if rows < 0 {
		rows = 0
	}

	var decs []decoration
	v.decorations.Ascend(func(d decoration) bool {
		decs = append(decs, d)
		return true
	})
	dc := &decorationCursor{decs: decs}
	selected := v.selectionTest()
	basic := v.styles.Basic
	cursorShown := false

	off := offsetOfLine(v.text, v.top)
	past := v.top > 0 && off == len(v.text) && lineOf(v.text, off) < v.top
	for y := 0; y < rows; y++ {
		line := v.top + y
		x := 0
		if !past {
			end := lineEnd(v.text, off)
			for p := off; p < end; {
				q := nextGrapheme(v.text, p)
				cluster := v.text[p:q]
				cw := cellWidth(cluster)

				if p == v.caret && x < w {
					v.screen.SetCursor(x, y)
					cursorShown = true
				}

				style := basic
				if d, ok := dc.at(p); ok {
					style = d.style
				}
				if selected(p, line, x) {
					style = v.styles.Selection
				}

				if x+cw <= w {
					if cluster == "\t" {
						cluster = " "
					}
					v.screen.SetCell(x, y, cluster, style)
				}
				x += cw
				p = q
			}
			if v.caret == end && !cursorShown && x < w {
				v.screen.SetCursor(x, y)
				cursorShown = true
			}

			if end == len(v.text) {
				past = true
			} else {
				off = end + 1
			}
		}
		for ; x < w; x++ {
			v.screen.SetCell(x, y, " ", basic)
		}
	}

	if !cursorShown {
		v.screen.HideCursor()
	}
	if rows < h {
		v.drawStatus(w, rows)
	}
	return v.screen.Flush()
}

func (v *View) drawStatus(w, y int) {
	x := 0
	state := -1
	rest := v.status
	for len(rest) > 0 && x < w {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		cw := cellWidth(cluster)
		if x+cw > w {
			break
		}
		v.screen.SetCell(x, y, cluster, v.styles.Status)
		x += cw
	}
	for ; x < w; x++ {
		v.screen.SetCell(x, y, " ", v.styles.Status)
	}
}
