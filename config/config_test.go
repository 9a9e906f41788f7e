package config

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/require"
)

func expectedConfig() Config {
	return Config{
		AutoHighlight: true,
		DebounceDelay: 250,
		WordChars:     "-",
		ClearOnClose:  true,
		BrowseMode:    BrowseModeSelect,
		Style: StyleSet{
			Basic: Style{Fg: ColorDefault, Bg: ColorDefault},
			Occurrence: Style{
				Fg: ColorBlack | AttrBold,
				Bg: ColorCyan,
			},
			Selection: Style{
				Fg: ColorDefault | AttrReverse,
				Bg: ColorDefault,
			},
			Caret: Style{
				Fg: ColorDefault | AttrReverse | AttrBold,
				Bg: ColorDefault,
			},
			Status: Style{
				Fg: ColorWhite,
				Bg: ColorBlue,
			},
		},
	}
}

func TestInitDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Init())
	require.False(t, cfg.AutoHighlight)
	require.Equal(t, DefaultDebounceDelay, cfg.DebounceDelay)
	require.Equal(t, 400*time.Millisecond, cfg.Delay())
	require.Equal(t, BrowseModeMove, cfg.BrowseMode)
	require.True(t, cfg.ClearOnClose)
	require.Equal(t, Style{Fg: ColorBlack, Bg: ColorYellow}, cfg.Style.Occurrence)
}

func TestReadRC(t *testing.T) {
	txt := `
{
	"AutoHighlight": true,
	"DebounceDelay": 250,
	"WordChars": "-",
	"BrowseMode": "select",
	"Style": {
		"Basic": ["on_default", "default"],
		"Occurrence": ["black", "bold", "on_cyan"],
		"Status": ["white", "on_blue"]
	}
}
`
	var cfg Config
	require.NoError(t, cfg.Init(), "Config.Init should succeed")
	require.NoError(t, json.Unmarshal([]byte(txt), &cfg), "Unmarshalling config should succeed")
	require.Equal(t, expectedConfig(), cfg, "configuration matches expected")
}

const yamlConfig = `
AutoHighlight: true
DebounceDelay: 250
WordChars: "-"
BrowseMode: select
Style:
  Basic:
    - on_default
    - default
  Occurrence:
    - black
    - bold
    - on_cyan
  Status:
    - white
    - on_blue
`

func TestReadRCYAML(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Init(), "Config.Init should succeed")
	require.NoError(t, yaml.Unmarshal([]byte(yamlConfig), &cfg), "Unmarshalling YAML config should succeed")
	require.Equal(t, expectedConfig(), cfg, "YAML configuration matches expected")
}

func TestReadFilename(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		file := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(file, []byte(yamlConfig), 0o644))

		var cfg Config
		require.NoError(t, cfg.Init())
		require.NoError(t, cfg.ReadFilename(file))
		require.Equal(t, expectedConfig(), cfg)
	})

	t.Run("negative delay", func(t *testing.T) {
		file := filepath.Join(dir, "negative.json")
		require.NoError(t, os.WriteFile(file, []byte(`{"DebounceDelay": -1}`), 0o644))

		var cfg Config
		require.NoError(t, cfg.Init())
		err := cfg.ReadFilename(file)
		require.Error(t, err)
		require.Contains(t, err.Error(), "DebounceDelay")
	})

	t.Run("missing file", func(t *testing.T) {
		var cfg Config
		require.NoError(t, cfg.Init())
		err := cfg.ReadFilename(filepath.Join(dir, "nope.json"))
		require.Error(t, err)
		require.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("broken json", func(t *testing.T) {
		file := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(file, []byte(`{"AutoHighlight": `), 0o644))

		var cfg Config
		require.NoError(t, cfg.Init())
		err := cfg.ReadFilename(file)
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to decode JSON")
	})
}

func TestBrowseMode(t *testing.T) {
	t.Run("valid values via JSON", func(t *testing.T) {
		for _, tc := range []struct {
			input    string
			expected BrowseMode
		}{
			{`{"BrowseMode":"move"}`, BrowseModeMove},
			{`{"BrowseMode":"select"}`, BrowseModeSelect},
			{`{}`, BrowseModeMove},
		} {
			var cfg Config
			require.NoError(t, cfg.Init())
			require.NoError(t, json.Unmarshal([]byte(tc.input), &cfg))
			require.Equal(t, tc.expected, cfg.BrowseMode)
		}
	})

	t.Run("invalid value via YAML", func(t *testing.T) {
		var cfg Config
		require.NoError(t, cfg.Init())
		err := yaml.Unmarshal([]byte("BrowseMode: bogus"), &cfg)
		require.Error(t, err)
		require.Contains(t, err.Error(), "bogus")
	})

	t.Run("UnmarshalFlag", func(t *testing.T) {
		var b BrowseMode
		require.NoError(t, b.UnmarshalFlag("select"))
		require.Equal(t, BrowseModeSelect, b)
		require.NoError(t, b.UnmarshalFlag(""))
		require.Equal(t, BrowseModeMove, b)
		require.Error(t, b.UnmarshalFlag("jump"))
	})
}

func TestApplyEnv(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Init())

	t.Setenv(EnvAutoHighlight, "true")
	require.NoError(t, cfg.ApplyEnv())
	require.True(t, cfg.AutoHighlight)

	t.Setenv(EnvAutoHighlight, "0")
	require.NoError(t, cfg.ApplyEnv())
	require.False(t, cfg.AutoHighlight)

	t.Setenv(EnvAutoHighlight, "maybe")
	require.Error(t, cfg.ApplyEnv())

	t.Setenv(EnvAutoHighlight, "")
	cfg.AutoHighlight = true
	require.NoError(t, cfg.ApplyEnv())
	require.True(t, cfg.AutoHighlight, "empty value leaves the config alone")
}

func TestStringsToStyle(t *testing.T) {
	tests := []struct {
		strings []string
		style   Style
	}{
		{
			strings: []string{"on_default", "default"},
			style:   Style{Fg: ColorDefault, Bg: ColorDefault},
		},
		{
			strings: []string{"bold", "on_blue", "yellow"},
			style:   Style{Fg: ColorYellow | AttrBold, Bg: ColorBlue},
		},
		{
			strings: []string{"reverse", "on_red", "white"},
			style:   Style{Fg: ColorWhite | AttrReverse, Bg: ColorRed},
		},
		{
			strings: []string{"on_bold", "on_magenta", "green"},
			style:   Style{Fg: ColorGreen, Bg: ColorMagenta | AttrBold},
		},
		{
			strings: []string{"underline", "on_240", "214"},
			style:   Style{Fg: Attribute(214+1) | AttrUnderline, Bg: Attribute(240 + 1)},
		},
		{
			strings: []string{"#ff8800", "on_#0088ff"},
			style:   Style{Fg: Attribute(0xff8800) | AttrTrueColor, Bg: Attribute(0x0088ff) | AttrTrueColor},
		},
	}

	var a Style
	for _, test := range tests {
		require.NoError(t, StringsToStyle(&a, test.strings), "StringsToStyle should succeed")
		require.Equal(t, test.style, a, "Expected '%s' to be '%#v', but got '%#v'", test.strings, test.style, a)
	}
}

func TestAttribute(t *testing.T) {
	a := ColorCyan | AttrBold | AttrUnderline
	require.Equal(t, ColorCyan, a.Color())
	require.True(t, a.Has(AttrBold))
	require.True(t, a.Has(AttrUnderline))
	require.False(t, a.Has(AttrReverse))

	rgb := Attribute(0x123456) | AttrTrueColor | AttrReverse
	require.Equal(t, Attribute(0x123456)|AttrTrueColor, rgb.Color())
}

func TestStyleSetLookup(t *testing.T) {
	ss := NewStyleSet()

	s, ok := ss.Lookup(CategoryOccurrence)
	require.True(t, ok)
	require.Equal(t, ss.Occurrence, s)

	s, ok = ss.Lookup(CategoryStatus)
	require.True(t, ok)
	require.Equal(t, ss.Status, s)

	s, ok = ss.Lookup("no.such.category")
	require.False(t, ok)
	require.Equal(t, ss.Basic, s)
}

func TestLocateRcfile(t *testing.T) {
	dir := t.TempDir()

	homedirFunc = func() (string, error) {
		return dir, nil
	}

	expected := []string{
		filepath.Join(dir, "wordjump"),
		filepath.Join(dir, "1", "wordjump"),
		filepath.Join(dir, "2", "wordjump"),
		filepath.Join(dir, ".wordjump"),
	}

	i := 0
	locater := LocatorFunc(func(dir string) (string, error) {
		require.True(t, i <= len(expected)-1, "Got %d directories, only have %d", i+1, len(expected))
		require.Equal(t, expected[i], dir, "Expected %s, got %s", expected[i], dir)
		i++
		return "", errors.New("error: Not found")
	})

	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CONFIG_DIRS", strings.Join(
		[]string{
			filepath.Join(dir, "1"),
			filepath.Join(dir, "2"),
		},
		string(filepath.ListSeparator),
	))

	_, err := LocateRcfile(locater)
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, len(expected), i)

	expected[0] = filepath.Join(dir, ".config", "wordjump")
	t.Setenv("XDG_CONFIG_HOME", "")
	i = 0
	_, err = LocateRcfile(locater)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocateRcfileYAML(t *testing.T) {
	dir := t.TempDir()

	rcDir := filepath.Join(dir, ".wordjump")
	require.NoError(t, os.MkdirAll(rcDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(rcDir, "config.yml"), []byte("{}"), 0o644))

	homedirFunc = func() (string, error) {
		return dir, nil
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_DIRS", "")

	file, err := LocateRcfile(DefaultConfigLocator)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(rcDir, "config.yml"), file)
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"DebounceDelay": 100}`), 0o644))

	w, err := NewWatcher(file)
	require.NoError(t, err)
	require.Equal(t, file, w.Filename())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var latest *Config
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Run(ctx, func(cfg *Config, err error) {
			if err != nil {
				// partially written files show up as decode errors
				return
			}
			mu.Lock()
			latest = cfg
			mu.Unlock()
		})
	}()

	require.NoError(t, os.WriteFile(file, []byte(`{"DebounceDelay": 900, "AutoHighlight": true}`), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return latest != nil && latest.DebounceDelay == 900 && latest.AutoHighlight
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		require.Fail(t, "Run did not exit after context cancellation")
	}
}
