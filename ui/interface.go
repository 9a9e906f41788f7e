package ui

import (
	"context"
	"io"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/google/btree"
	"github.com/peco/wordjump"
	"github.com/peco/wordjump/config"
)

// Screen hides tcell from the consuming code so that it can be
// swapped out for testing
type Screen interface {
	Init() error
	Close() error
	Flush() error
	Size() (int, int)
	SetCell(x, y int, cluster string, style config.Style)
	SetCursor(x, y int)
	HideCursor()
	PollEvent(context.Context) chan tcell.Event
	PostEvent(tcell.Event) error
}

// TcellScreen draws on a tcell.Screen.
type TcellScreen struct {
	mutex     sync.Mutex
	screen    tcell.Screen
	errWriter io.Writer // destination for error output (defaults to os.Stderr)
}

// decoration is a styled range drawn on top of the text.
type decoration struct {
	id    int
	start int
	end   int
	style config.Style
}

type listeners struct {
	selection map[int]wordjump.SelectionHandler
	caret     map[int]wordjump.CaretHandler
	document  map[int]wordjump.DocumentHandler
}

// View is a text buffer drawn on a Screen. It implements
// wordjump.Editor. A View is not safe for concurrent use: it belongs to
// the UI context.
type View struct {
	id      wordjump.ViewID
	project string
	screen  Screen
	styles  *config.StyleSet

	text   string
	caret  int
	anchor int
	hasSel bool
	column bool
	top    int // first visible line
	status string
	dirty  bool

	nextID      int
	decorations *btree.BTreeG[decoration]
	byID        map[int]decoration
	listeners   listeners
}
