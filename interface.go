package wordjump

import (
	"context"
	"time"

	"github.com/peco/wordjump/config"
	"github.com/peco/wordjump/highlight"
	"github.com/peco/wordjump/hub"
	"github.com/peco/wordjump/span"
	"github.com/peco/wordjump/word"
)

// ViewID identifies one open view of a buffer.
type ViewID string

// Subscription is the handle returned when registering a listener with
// the host editor. Unsubscribe detaches the listener; calling it more
// than once is harmless.
type Subscription interface {
	Unsubscribe()
}

// SubscriptionFunc adapts a plain function to Subscription.
type SubscriptionFunc func()

// SelectionEvent describes a selection change. An empty span means
// there is no selection.
type SelectionEvent struct {
	Old span.Span
	New span.Span
}

// CaretEvent describes a caret move.
type CaretEvent struct {
	Old int
	New int
}

// DocumentEvent describes an edit: Removed was replaced by Inserted at
// Offset.
type DocumentEvent struct {
	Offset   int
	Removed  string
	Inserted string
}

type (
	SelectionHandler func(context.Context, SelectionEvent)
	CaretHandler     func(context.Context, CaretEvent)
	DocumentHandler  func(context.Context, DocumentEvent)
)

// Editor is everything the engine needs from the host editor. All
// methods are called on the UI context, and the host delivers its
// events on the UI context as well, passing along the context of the
// operation that caused them.
type Editor interface {
	highlight.Decorator

	// Text returns the current contents of the buffer.
	Text() string

	Selection() (span.Span, bool)
	SetSelection(ctx context.Context, start, end int)
	HasSelection() bool

	CaretOffset() int
	SetCaretOffset(ctx context.Context, offset int)
	EnsureVisible(offset int)

	IsColumnSelectionMode() bool

	// StyleFor resolves the display style of a highlight category from
	// the host's color scheme.
	StyleFor(category string) config.Style

	OnSelectionChanged(SelectionHandler) Subscription
	OnCaretMoved(CaretHandler) Subscription
	OnDocumentChanged(DocumentHandler) Subscription
}

// Projector is implemented by editors that know which project they
// belong to. Views without a project get no session.
type Projector interface {
	Project() string
}

// Direction is the direction of a browse request.
type Direction int

const (
	Next Direction = iota
	Previous
)

// State is the state of a Resolver.
type State int

const (
	StateIdle               State = iota // nothing is of interest
	StateExplicitSelection                // a selected whole word is of interest
	StateHeuristicCandidate               // the word under the idle caret is of interest
	StateSuspended                        // the session is moving the caret itself
)

// Request asks the session to rebuild its highlights for Interest. An
// empty Interest clears them.
type Request struct {
	Interest string
}

// Resolver decides which text is currently of interest. It holds no
// reference to the editor; the session feeds it the current text and
// positions.
type Resolver struct {
	state     State
	interest  string
	heuristic bool
	class     word.Class
	guard     int
}

// Options configures sessions.
type Options struct {
	// HeuristicHighlight highlights the word under an idle caret.
	HeuristicHighlight bool
	// DebounceDelay is how long the caret must rest before the
	// heuristic runs. Zero or less means DefaultDebounceDelay.
	DebounceDelay time.Duration
	// WordClass defines word characters. nil means word.Default.
	WordClass word.Class
	// ClearOnDispose removes the highlights when the session goes away.
	ClearOnDispose bool
	// BrowseMode selects the occurrence instead of only moving the
	// caret to it when set to config.BrowseModeSelect.
	BrowseMode config.BrowseMode
}

// debouncer is a restartable one-shot timer whose firing is executed
// on the UI context.
type debouncer struct {
	ctx     context.Context
	hub     *hub.Hub
	fn      hub.Task
	delay   time.Duration
	timer   *time.Timer
	gen     uint64
	pending bool
}

// Session binds the engine to one view: it owns the resolver, the
// highlight set and the debounce timer of that view.
type Session struct {
	id         ViewID
	editor     Editor
	hub        *hub.Hub
	opts       Options
	resolver   *Resolver
	highlights *highlight.Set
	timer      *debouncer
	subs       []Subscription
	cancel     context.CancelFunc
	disposed   bool
	revision   uint64
}
