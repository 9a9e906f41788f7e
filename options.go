package wordjump

import (
	"fmt"
	"time"

	"github.com/peco/wordjump/config"
	"github.com/peco/wordjump/word"
)

// DefaultDebounceDelay is used when Options.DebounceDelay is not set.
const DefaultDebounceDelay = config.DefaultDebounceDelay * time.Millisecond

// DefaultOptions returns the options used when nothing is configured:
// no heuristic, default delay and word class, highlights cleared on
// dispose, browsing moves the caret.
func DefaultOptions() Options {
	return Options{
		DebounceDelay:  DefaultDebounceDelay,
		WordClass:      word.Default,
		ClearOnDispose: true,
		BrowseMode:     config.BrowseModeMove,
	}
}

// OptionsFromConfig converts a loaded configuration into session
// options.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		HeuristicHighlight: cfg.AutoHighlight,
		DebounceDelay:      cfg.Delay(),
		WordClass:          word.Default,
		ClearOnDispose:     cfg.ClearOnClose,
		BrowseMode:         cfg.BrowseMode,
	}
	if cfg.WordChars != "" {
		opts.WordClass = word.ClassWithExtra(cfg.WordChars)
	}
	return opts.normalize()
}

func (o Options) normalize() Options {
	if o.DebounceDelay <= 0 {
		o.DebounceDelay = DefaultDebounceDelay
	}
	if o.WordClass == nil {
		o.WordClass = word.Default
	}
	if o.BrowseMode == "" {
		o.BrowseMode = config.BrowseModeMove
	}
	return o
}

func (d Direction) String() string {
	switch d {
	case Next:
		return "next"
	case Previous:
		return "previous"
	default:
		return "unknown"
	}
}

func (d *Direction) unmarshal(s string) error {
	switch s {
	case "next":
		*d = Next
	case "previous", "prev":
		*d = Previous
	default:
		return fmt.Errorf("invalid direction %q: must be \"next\" or \"previous\"", s)
	}
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(buf []byte) error {
	return d.unmarshal(string(buf))
}

// UnmarshalFlag implements the go-flags Unmarshaler interface.
func (d *Direction) UnmarshalFlag(s string) error {
	return d.unmarshal(s)
}

func (f SubscriptionFunc) Unsubscribe() {
	f()
}
