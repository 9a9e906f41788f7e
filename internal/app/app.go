// Package app implements the wordjump command: a small terminal editor
// that highlights the word of interest and jumps between its
// occurrences, plus two batch modes for scripts.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/peco/wordjump"
	"github.com/peco/wordjump/config"
	"github.com/pkg/errors"
)

var ErrSignalReceived = errors.New("received signal")

// New creates an App writing to the process' standard streams.
func New(version string) *App {
	return &App{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Version:   version,
		newScreen: func() tcell.Screen { return nil },
	}
}

// Run parses args (without the program name) and runs the requested
// mode until it finishes or ctx is canceled.
func (a *App) Run(ctx context.Context, args []string) error {
	args, err := a.options.parse(args, a.Stderr)
	if err != nil {
		return err
	}

	if a.options.OptHelp {
		a.Stderr.Write(a.options.help())
		return nil
	}

	if a.options.OptVersion {
		fmt.Fprintf(a.Stderr, "wordjump: %s\n", a.Version)
		return nil
	}

	if a.options.OptNavigate != "" {
		if err := a.direction.UnmarshalFlag(a.options.OptNavigate); err != nil {
			return errors.Wrap(err, "invalid command line arguments")
		}
	}

	if err := a.loadConfig(); err != nil {
		return err
	}

	if len(args) == 0 {
		a.Stderr.Write(a.options.help())
		return errors.New("no file given")
	}
	a.filename = args[0]

	buf, err := os.ReadFile(a.filename)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", a.filename)
	}
	text := string(buf)

	switch {
	case a.options.OptList != "":
		return a.list(a.Stdout, text)
	case a.options.OptCount != "":
		return a.count(a.Stdout, text)
	case a.options.OptNavigate != "":
		return a.navigate(ctx, a.Stdout, text)
	}
	return a.interactive(ctx, text)
}

// Config returns the configuration in effect.
func (a *App) Config() config.Config {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.config
}

func (a *App) loadConfig() error {
	a.rcfile = a.options.OptRcfile
	if a.rcfile == "" {
		if file, err := config.LocateRcfile(config.DefaultConfigLocator); err == nil {
			a.rcfile = file
		}
	}

	cfg, err := a.readConfig()
	if err != nil {
		return err
	}
	a.mutex.Lock()
	a.config = *cfg
	a.mutex.Unlock()
	return nil
}

// readConfig builds a fresh configuration: defaults, then the rcfile,
// then the environment, then the command line.
func (a *App) readConfig() (*config.Config, error) {
	var cfg config.Config
	if err := cfg.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize config")
	}

	if a.rcfile != "" {
		if err := cfg.ReadFilename(a.rcfile); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", a.rcfile)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, errors.Wrap(err, "failed to apply environment")
	}

	a.applyOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// applyOverrides puts the options given on the command line on top of
// cfg. They win over the rcfile on every reload as well.
func (a *App) applyOverrides(cfg *config.Config) {
	if a.options.OptAutoHighlight {
		cfg.AutoHighlight = true
	}
	if a.options.OptDelay >= 0 {
		cfg.DebounceDelay = a.options.OptDelay
	}
	if a.options.OptWordChars != "" {
		cfg.WordChars = a.options.OptWordChars
	}
	if a.options.OptBrowseMode != "" {
		cfg.BrowseMode = a.options.OptBrowseMode
	}
}

func (a *App) sessionOptions() wordjump.Options {
	cfg := a.Config()
	return wordjump.OptionsFromConfig(&cfg)
}

// project names the project a file belongs to: its directory.
func project(filename string) string {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return filepath.Dir(filename)
	}
	return filepath.Dir(abs)
}
