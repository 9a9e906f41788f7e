package app

import (
	"io"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/peco/wordjump"
	"github.com/peco/wordjump/config"
	"github.com/peco/wordjump/hub"
	"github.com/peco/wordjump/ui"
)

// CLIOptions holds the command line options of wordjump.
type CLIOptions struct {
	OptHelp          bool              `short:"h" long:"help" description:"show this help message and exit"`
	OptRcfile        string            `long:"rcfile" description:"path to the settings file"`
	OptVersion       bool              `long:"version" description:"print the version and exit"`
	OptAutoHighlight bool              `long:"auto-highlight" description:"highlight every occurrence of the word under the idle caret"`
	OptDelay         int               `long:"delay" description:"idle time in milliseconds before the caret heuristic runs" default:"-1"`
	OptWordChars     string            `long:"word-chars" description:"extra characters that count as word characters"`
	OptBrowseMode    config.BrowseMode `long:"browse-mode" description:"what jumping does to the occurrence. 'move' (default) or 'select'"`
	OptList          string            `long:"list" description:"print the position of every whole-word occurrence of WORD and exit"`
	OptCount         string            `long:"count" description:"print the number of whole-word occurrences of WORD and exit"`
	OptNavigate      string            `long:"navigate" description:"print the offset 'next' or 'previous' jumps to from --offset and exit"`
	OptOffset        int               `long:"offset" description:"caret offset (in bytes) used by --navigate"`
}

// App is one invocation of the wordjump command.
type App struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Version string

	options   CLIOptions
	direction wordjump.Direction
	rcfile    string
	config    config.Config

	// newScreen creates the terminal used by the interactive mode.
	newScreen func() tcell.Screen

	mutex    sync.Mutex
	hub      *hub.Hub
	registry *wordjump.Registry
	view     *ui.View
	filename string
	notice   string // shown on the status line, UI context only
	closed   bool
}
