package configfile

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/openfroyo/slicecfg/pkg/config"
	"github.com/rs/zerolog"
)

// ReloadFunc receives the freshly loaded configuration and the keys whose
// values differ from the previous load.
type ReloadFunc func(cfg *config.Dynamic, changed []string)

// Watcher reloads a configuration file into a new dynamic config each time
// it changes on disk.
type Watcher struct {
	path     string
	schema   *config.Schema
	opts     []Option
	cfgOpts  []config.ContainerOption
	logger   zerolog.Logger
	debounce time.Duration
	onError  func(error)

	mu      sync.Mutex
	current *config.Dynamic
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits for writes to settle.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithLoadOptions sets the options used for every load.
func WithLoadOptions(opts ...Option) WatcherOption {
	return func(w *Watcher) { w.opts = append(w.opts, opts...) }
}

// WithContainerOptions sets the options of every config the watcher loads,
// such as its range policy.
func WithContainerOptions(opts ...config.ContainerOption) WatcherOption {
	return func(w *Watcher) { w.cfgOpts = append(w.cfgOpts, opts...) }
}

// WithErrorHandler sets a function called with every failed reload. The
// previous configuration stays current after a failure.
func WithErrorHandler(fn func(error)) WatcherOption {
	return func(w *Watcher) { w.onError = fn }
}

// NewWatcher creates a watcher for path. Nothing is read until Start.
func NewWatcher(path string, schema *config.Schema, logger zerolog.Logger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		schema:   schema,
		logger:   logger.With().Str("component", "config-watcher").Str("path", path).Logger(),
		debounce: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Load reads the file into a new dynamic config.
func (w *Watcher) Load() (*config.Dynamic, error) {
	cfg := config.NewDynamic(w.schema, w.cfgOpts...)
	if err := LoadFile(w.path, cfg, w.opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Current returns the configuration from the last successful load.
func (w *Watcher) Current() *config.Dynamic {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Start loads the file once, reports it to fn with every key as changed,
// and then watches its directory until ctx is done or Close is called.
// Editors that replace files by rename are handled because the directory,
// not the file, is watched.
func (w *Watcher) Start(ctx context.Context, fn ReloadFunc) error {
	cfg, err := w.Load()
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()
	fn(cfg, cfg.Keys())

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}

	w.mu.Lock()
	w.watcher = watcher
	w.done = make(chan struct{})
	w.mu.Unlock()

	go w.processEvents(ctx, watcher, fn)

	w.logger.Info().Int("options", cfg.Len()).Msg("Started watching config file")
	return nil
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	watcher, done := w.watcher, w.done
	w.watcher = nil
	w.mu.Unlock()

	if watcher == nil {
		return nil
	}
	err := watcher.Close()
	<-done
	return err
}

func (w *Watcher) processEvents(ctx context.Context, watcher *fsnotify.Watcher, fn ReloadFunc) {
	defer close(w.done)

	// Reloads run on this goroutine, so none can start after Close returns.
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = watcher.Close()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug().Str("op", event.Op.String()).Msg("Config file changed")

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.reload(fn); err != nil {
				w.logger.Error().Err(err).Msg("Failed to reload config")
				if w.onError != nil {
					w.onError(err)
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("Watcher error")
		}
	}
}

func (w *Watcher) reload(fn ReloadFunc) error {
	cfg, err := w.Load()
	if err != nil {
		return err
	}

	w.mu.Lock()
	prev := w.current
	w.current = cfg
	w.mu.Unlock()

	var changed []string
	if prev != nil {
		changed = config.Diff(prev, cfg)
	} else {
		changed = cfg.Keys()
	}
	if len(changed) == 0 {
		w.logger.Debug().Msg("Config file rewritten without changes")
		return nil
	}

	w.logger.Info().Strs("changed", changed).Msg("Config reloaded")
	fn(cfg, changed)
	return nil
}
