package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ReloadFunc receives the freshly read config, or the error that
// prevented reading it. cfg is nil when err is non-nil.
type ReloadFunc func(cfg *Config, err error)

// Watcher re-reads a config file whenever it is written or replaced.
type Watcher struct {
	filename string
	watcher  *fsnotify.Watcher
}

// NewWatcher starts watching filename. The parent directory is
// watched rather than the file itself, so editors that save by
// renaming a temporary file over the original are picked up too.
func NewWatcher(filename string) (*Watcher, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", filename, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		filename: abs,
		watcher:  fsw,
	}, nil
}

// Filename returns the absolute path of the watched file.
func (w *Watcher) Filename() string {
	return w.filename
}

// Run delivers reloads to fn until ctx is canceled. The watcher is
// closed when Run returns.
func (w *Watcher) Run(ctx context.Context, fn ReloadFunc) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.filename {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			fn(w.load())
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			fn(nil, fmt.Errorf("file watcher failed: %w", err))
		}
	}
}

func (w *Watcher) load() (*Config, error) {
	var cfg Config
	if err := cfg.Init(); err != nil {
		return nil, err
	}
	if err := cfg.ReadFilename(w.filename); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
