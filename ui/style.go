package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/peco/wordjump/config"
)

// ToTcellStyle converts a configured style to a tcell.Style.
func ToTcellStyle(s config.Style) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(toTcellColor(s.Fg)).
		Background(toTcellColor(s.Bg))

	attrs := s.Fg | s.Bg
	if attrs.Has(config.AttrBold) {
		style = style.Bold(true)
	}
	if attrs.Has(config.AttrUnderline) {
		style = style.Underline(true)
	}
	if attrs.Has(config.AttrReverse) {
		style = style.Reverse(true)
	}
	return style
}

func toTcellColor(a config.Attribute) tcell.Color {
	c := a.Color()
	switch {
	case c.Has(config.AttrTrueColor):
		return tcell.NewHexColor(int32(c &^ config.AttrTrueColor))
	case c == config.ColorDefault:
		return tcell.ColorDefault
	default:
		// palette indices are stored off by one so that 0 means default
		return tcell.PaletteColor(int(c) - 1)
	}
}
