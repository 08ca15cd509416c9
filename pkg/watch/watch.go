// Package watch recompiles templates when they change on disk.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/dustup/pkg/build"
	"github.com/arthur-debert/dustup/pkg/errors"
	"github.com/arthur-debert/dustup/pkg/logging"
)

// Options configures a Watcher
type Options struct {
	// Roots are directories watched recursively, or single files
	Roots []string

	// Extensions select which files in watched directories trigger OnChange
	Extensions []string

	// Debounce is the quiet period after the last event for a path
	Debounce time.Duration

	// OnChange is called with the changed file once it has settled.
	// Calls for different files may run concurrently.
	OnChange func(ctx context.Context, path string)

	// ConfigFiles are base names that trigger OnConfigChange when they
	// change in a watched directory
	ConfigFiles []string

	// OnConfigChange is called after a config file changed
	OnConfigChange func()

	// Logger defaults to the "watch" component logger when nil
	Logger *zerolog.Logger
}

// Watcher turns filesystem events into debounced change callbacks
type Watcher struct {
	opts   Options
	fsw    *fsnotify.Watcher
	logger zerolog.Logger

	// trees are directories that came from a directory root, where any
	// file with a matching extension counts
	trees map[string]bool
	// files are explicit file roots
	files map[string]bool

	mu      sync.Mutex
	timers  map[string]*pendingChange
	stopped bool
	wg      sync.WaitGroup

	ready chan struct{}
}

// New creates a Watcher. Call Run to start watching.
func New(opts Options) (*Watcher, error) {
	if opts.OnChange == nil {
		return nil, errors.New(errors.ErrInvalidInput, "watch requires an OnChange callback")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrWatch, "failed to create file watcher")
	}

	logger := logging.Resolve(opts.Logger, "watch")

	return &Watcher{
		opts:   opts,
		fsw:    fsw,
		logger: logger,
		trees:  make(map[string]bool),
		files:  make(map[string]bool),
		timers: make(map[string]*pendingChange),
		ready:  make(chan struct{}),
	}, nil
}

// Ready is closed once every root is being watched
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is done. Pending debounced callbacks are dropped and
// running ones are waited for before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		w.stopTimers()
		w.wg.Wait()
		_ = w.fsw.Close()
	}()

	for _, root := range w.opts.Roots {
		if err := w.addRoot(root); err != nil {
			return err
		}
	}
	close(w.ready)

	w.logger.Info().
		Strs("roots", w.opts.Roots).
		Int("directories", len(w.fsw.WatchList())).
		Msg("Watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("File watcher error")
		}
	}
}

func (w *Watcher) addRoot(root string) error {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return errors.Wrapf(err, errors.ErrNotFound, "cannot watch %s", root)
	}
	if !info.IsDir() {
		w.files[root] = true
		return w.addDir(filepath.Dir(root))
	}
	return w.addTree(root)
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		w.trees[path] = true
		return w.addDir(path)
	})
}

func (w *Watcher) addDir(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return errors.Wrapf(err, errors.ErrWatch, "failed to watch %s", dir)
	}
	w.logger.Debug().Str("dir", dir).Msg("Watching directory")
	return nil
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if w.trees[filepath.Dir(path)] && !skipDir(info.Name()) {
				if err := w.addTree(path); err != nil {
					w.logger.Warn().Err(err).Str("dir", path).Msg("Failed to watch new directory")
				}
			}
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	if w.isConfigFile(path) {
		if w.opts.OnConfigChange != nil {
			w.schedule(ctx, path, func(context.Context, string) { w.opts.OnConfigChange() })
		}
		return
	}

	if w.matches(path) {
		w.schedule(ctx, path, w.opts.OnChange)
	}
}

func (w *Watcher) matches(path string) bool {
	if w.files[path] {
		return true
	}
	return w.trees[filepath.Dir(path)] && build.HasExtension(path, w.opts.Extensions)
}

func (w *Watcher) isConfigFile(path string) bool {
	base := filepath.Base(path)
	for _, name := range w.opts.ConfigFiles {
		if base == name {
			return true
		}
	}
	return false
}

// schedule runs fn for path once no new event for path arrived within the
// debounce window.
func (w *Watcher) schedule(ctx context.Context, path string, fn func(context.Context, string)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if prev, ok := w.timers[path]; ok {
		prev.timer.Stop()
	}

	p := &pendingChange{}
	p.timer = time.AfterFunc(w.opts.Debounce, func() { w.fire(ctx, path, p, fn) })
	w.timers[path] = p
}

// pendingChange is one scheduled callback for a path
type pendingChange struct {
	timer *time.Timer
}

// fire runs fn unless p was replaced by a newer schedule for path while its
// timer was already firing. A replaced p leaves the map alone.
func (w *Watcher) fire(ctx context.Context, path string, p *pendingChange, fn func(context.Context, string)) {
	w.mu.Lock()
	if w.timers[path] != p {
		w.mu.Unlock()
		return
	}
	delete(w.timers, path)
	if w.stopped || ctx.Err() != nil {
		w.mu.Unlock()
		return
	}
	w.wg.Add(1)
	w.mu.Unlock()

	defer w.wg.Done()
	w.logger.Debug().Str("path", path).Msg("Change detected")
	fn(ctx, path)
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	for path, p := range w.timers {
		p.timer.Stop()
		delete(w.timers, path)
	}
}

func skipDir(name string) bool {
	return name == "node_modules" || strings.HasPrefix(name, ".")
}
