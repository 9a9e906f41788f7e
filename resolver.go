package wordjump

import (
	"github.com/peco/wordjump/span"
	"github.com/peco/wordjump/word"
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateExplicitSelection:
		return "ExplicitSelection"
	case StateHeuristicCandidate:
		return "HeuristicCandidate"
	case StateSuspended:
		return "Suspended"
	default:
		return "Unknown"
	}
}

// NewResolver creates a Resolver in the Idle state.
func NewResolver(heuristic bool, class word.Class) *Resolver {
	if class == nil {
		class = word.Default
	}
	return &Resolver{
		heuristic: heuristic,
		class:     class,
	}
}

// State returns the current state. While the guard is held it is
// always StateSuspended.
func (r *Resolver) State() State {
	if r.Suspended() {
		return StateSuspended
	}
	return r.state
}

// Interest returns the text currently of interest, or "".
func (r *Resolver) Interest() string {
	return r.interest
}

// Enter acquires the reentrancy guard. Events arriving while the guard
// is held are ignored. Enter and Leave nest.
func (r *Resolver) Enter() {
	r.guard++
}

// Leave releases one level of the reentrancy guard.
func (r *Resolver) Leave() {
	if r.guard > 0 {
		r.guard--
	}
}

// Suspended reports whether the guard is held.
func (r *Resolver) Suspended() bool {
	return r.guard > 0
}

// SetHeuristic turns the idle-caret heuristic on or off.
func (r *Resolver) SetHeuristic(b bool) {
	r.heuristic = b
}

// SetClass changes the word class. nil means word.Default.
func (r *Resolver) SetClass(class word.Class) {
	if class == nil {
		class = word.Default
	}
	r.class = class
}

func (r *Resolver) set(st State, interest string) Request {
	r.state = st
	r.interest = interest
	return Request{Interest: interest}
}

// SelectionChanged handles a change of the host selection to sel. The
// second return value is false when no rebuild is needed.
//
// An explicit selection is of interest only when it is exactly a whole
// word that does not cover the entire buffer. Column selections always
// clear the highlights.
func (r *Resolver) SelectionChanged(text string, sel span.Span, columnMode bool) (Request, bool) {
	if r.Suspended() {
		return Request{}, false
	}

	if columnMode {
		return r.set(StateIdle, ""), true
	}

	if sel.Empty() {
		// the caret logic takes over once the selection is gone
		return Request{}, false
	}

	if !sel.Valid(len(text)) || sel.Covers(len(text)) || !word.IsWholeWordAt(text, sel.Start, sel.End, r.class) {
		return r.set(StateIdle, ""), true
	}
	return r.set(StateExplicitSelection, sel.Text(text)), true
}

// CaretIdle handles the expiry of the caret debounce timer. inside
// reports whether caret lies within one of the current highlights;
// browsing between occurrences must not rebuild them.
func (r *Resolver) CaretIdle(text string, caret int, inside, hasSelection bool) (Request, bool) {
	if r.Suspended() || inside {
		return Request{}, false
	}

	if r.heuristic && !hasSelection {
		if w := word.At(text, caret, r.class); w != "" {
			return r.set(StateHeuristicCandidate, w), true
		}
	}
	return r.set(StateIdle, ""), true
}

// DocumentChanged handles an edit. Any edit invalidates the highlights,
// including one made while the guard is held.
func (r *Resolver) DocumentChanged() (Request, bool) {
	return r.set(StateIdle, ""), true
}

// Adopt makes interest the text of interest on behalf of a browse
// request that found no usable highlights.
func (r *Resolver) Adopt(interest string) Request {
	return r.set(StateHeuristicCandidate, interest)
}
