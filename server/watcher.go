package server

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/poiesic/partkb/catalog"
)

const defaultDebounce = 500 * time.Millisecond

// RebuildFunc produces a fresh catalog from the current sources.
type RebuildFunc func(ctx context.Context) (*catalog.Catalog, error)

// Watcher rebuilds the served catalog when files matching the source
// patterns change. Bursts of changes are coalesced into one rebuild once no
// event has arrived for the debounce interval.
type Watcher struct {
	server   *Server
	patterns []string
	rebuild  RebuildFunc
	debounce time.Duration
	logger   *slog.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher) error

// WithDebounce sets how long the sources must be quiet before a rebuild.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) error {
		if d > 0 {
			w.debounce = d
		}
		return nil
	}
}

// WithWatcherLogger sets a custom logger.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
		return nil
	}
}

// NewWatcher creates a watcher that swaps rebuilt catalogs into srv.
func NewWatcher(srv *Server, patterns []string, rebuild RebuildFunc, opts ...WatcherOption) (*Watcher, error) {
	if srv == nil {
		return nil, ErrServerRequired
	}
	if rebuild == nil {
		return nil, ErrRebuildRequired
	}
	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}

	w := &Watcher{
		server:   srv,
		rebuild:  rebuild,
		debounce: defaultDebounce,
		logger:   slog.Default(),
	}
	for _, p := range patterns {
		w.patterns = append(w.patterns, filepath.Clean(p))
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Run watches until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	for _, p := range w.patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(p))
		w.addRecursive(fsw, filepath.FromSlash(base))
	}
	w.logger.Info("watching sources", "patterns", w.patterns, "debounce", w.debounce)

	ticker := time.NewTicker(max(w.debounce/2, time.Millisecond))
	defer ticker.Stop()

	var (
		pending   bool
		lastEvent time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addRecursive(fsw, event.Name)
					continue
				}
			}
			if !w.Matches(event.Name) {
				continue
			}
			w.logger.Debug("source changed", "path", event.Name, "op", event.Op.String())
			pending = true
			lastEvent = time.Now()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "err", err)

		case <-ticker.C:
			if pending && time.Since(lastEvent) >= w.debounce {
				pending = false
				w.Rebuild(ctx)
			}
		}
	}
}

// Matches reports whether path is covered by one of the source patterns.
func (w *Watcher) Matches(path string) bool {
	path = filepath.Clean(path)
	for _, p := range w.patterns {
		if ok, _ := doublestar.PathMatch(p, path); ok {
			return true
		}
	}
	return false
}

// Rebuild runs the rebuild function and serves its catalog. On failure the
// current catalog stays in place.
func (w *Watcher) Rebuild(ctx context.Context) {
	start := time.Now()
	cat, err := w.rebuild(ctx)
	if err == nil && cat == nil {
		err = ErrCatalogRequired
	}
	w.server.metrics.observeRebuild(err)
	if err != nil {
		w.logger.Error("rebuild failed, keeping current catalog", "err", err)
		return
	}
	w.server.SetCatalog(cat)
	w.logger.Info("catalog rebuilt", "parts", cat.Len(), "elapsed", time.Since(start))
}

func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, root string) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); path != root && strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "err", err)
			return nil
		}
		w.logger.Debug("watching directory", "path", path)
		return nil
	})
	if err != nil {
		w.logger.Warn("failed to watch source directory", "path", root, "err", err)
	}
}
