package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/peco/wordjump/internal/util"
)

// BrowseMode specifies what happens to the occurrence the caret jumps to.
type BrowseMode string

const (
	BrowseModeMove   BrowseMode = "move"
	BrowseModeSelect BrowseMode = "select"
)

func (b *BrowseMode) unmarshal(s string) error {
	switch s {
	case "", "move":
		*b = BrowseModeMove
	case "select":
		*b = BrowseModeSelect
	default:
		return fmt.Errorf("invalid BrowseMode value %q: must be %q or %q", s, BrowseModeMove, BrowseModeSelect)
	}
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler (used by JSON/YAML decoders).
func (b *BrowseMode) UnmarshalText(buf []byte) error {
	return b.unmarshal(string(buf))
}

// UnmarshalFlag implements go-flags Unmarshaler (used by CLI flag parsing).
func (b *BrowseMode) UnmarshalFlag(s string) error {
	return b.unmarshal(s)
}

// Config holds all the data that can be configured in the
// external configuration file
type Config struct {
	// AutoHighlight turns on the idle-caret heuristic: when the caret
	// rests on a word, every occurrence of that word gets highlighted
	// without selecting it first.
	AutoHighlight bool `json:"AutoHighlight" yaml:"AutoHighlight"`

	// DebounceDelay is the idle time in milliseconds before the caret
	// heuristic re-evaluates what to highlight.
	DebounceDelay int `json:"DebounceDelay" yaml:"DebounceDelay"`

	// WordChars lists characters that count as word characters on top
	// of letters, digits and '_'.
	WordChars string `json:"WordChars" yaml:"WordChars"`

	// ClearOnClose removes the highlights from the view when its
	// session is disposed.
	ClearOnClose bool `json:"ClearOnClose" yaml:"ClearOnClose"`

	BrowseMode BrowseMode `json:"BrowseMode" yaml:"BrowseMode"`
	Style      StyleSet   `json:"Style" yaml:"Style"`
}

// DefaultDebounceDelay is the default DebounceDelay, in milliseconds.
const DefaultDebounceDelay = 400

// EnvAutoHighlight overrides Config.AutoHighlight when set to a value
// understood by strconv.ParseBool.
const EnvAutoHighlight = "WORDJUMP_AUTOHIGHLIGHT"

var homedirFunc = util.Homedir

// Init initializes the Config with default values
func (c *Config) Init() error {
	c.AutoHighlight = false
	c.DebounceDelay = DefaultDebounceDelay
	c.WordChars = ""
	c.ClearOnClose = true
	c.BrowseMode = BrowseModeMove
	c.Style.Init()
	return nil
}

// Delay returns DebounceDelay as a time.Duration.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.DebounceDelay) * time.Millisecond
}

// ApplyEnv applies environment overrides on top of the values read
// from the config file.
func (c *Config) ApplyEnv() error {
	v, ok := os.LookupEnv(EnvAutoHighlight)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", EnvAutoHighlight, v, err)
	}
	c.AutoHighlight = b
	return nil
}

// Validate checks values that the decoders cannot reject on their own.
func (c *Config) Validate() error {
	if c.DebounceDelay < 0 {
		return fmt.Errorf("invalid DebounceDelay %d: must not be negative", c.DebounceDelay)
	}
	return nil
}

// ReadFilename reads the config from the given file, and
// does the appropriate processing, if any
func (c *Config) ReadFilename(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer f.Close()

	switch ext := filepath.Ext(filename); ext {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(c)
		if err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
	default:
		err = json.NewDecoder(f).Decode(c)
		if err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
	}

	return c.Validate()
}

// Locator locates a config file in a given directory.
type Locator interface {
	Locate(string) (string, error)
}

// LocatorFunc is a function that implements Locator.
type LocatorFunc func(string) (string, error)

// Locate calls the underlying function.
func (f LocatorFunc) Locate(dir string) (string, error) {
	return f(dir)
}

var configFilenames = []string{"config.json", "config.yaml", "config.yml"}

// DefaultConfigLocator searches for a config file with one of the known
// filenames (config.json, config.yaml, config.yml) in the given directory.
var DefaultConfigLocator = LocatorFunc(func(dir string) (string, error) {
	for _, basename := range configFilenames {
		file := filepath.Join(dir, basename)
		if _, err := os.Stat(file); err == nil {
			return file, nil
		}
	}
	return "", fmt.Errorf("config file not found in %s", dir)
})

// ErrNotFound is returned by LocateRcfile when no directory holds a
// config file.
var ErrNotFound = errors.New("config file not found")

// LocateRcfile attempts to find the config file in various locations
func LocateRcfile(locater Locator) (string, error) {
	// Try in this order:
	//	  $XDG_CONFIG_HOME/wordjump/config.{json,yaml,yml}
	//    $XDG_CONFIG_DIR/wordjump/config.{json,yaml,yml} (for each dir in $XDG_CONFIG_DIRS)
	//	  ~/.wordjump/config.{json,yaml,yml}

	home, uErr := homedirFunc()

	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		if file, err := locater.Locate(filepath.Join(dir, "wordjump")); err == nil {
			return file, nil
		}
	} else if uErr == nil { // silently ignore failure for homedir()
		if file, err := locater.Locate(filepath.Join(home, ".config", "wordjump")); err == nil {
			return file, nil
		}
	}

	if dirs := os.Getenv("XDG_CONFIG_DIRS"); dirs != "" {
		for dir := range strings.SplitSeq(dirs, string(filepath.ListSeparator)) {
			if file, err := locater.Locate(filepath.Join(dir, "wordjump")); err == nil {
				return file, nil
			}
		}
	}

	if uErr == nil {
		if file, err := locater.Locate(filepath.Join(home, ".wordjump")); err == nil {
			return file, nil
		}
	}

	return "", ErrNotFound
}
