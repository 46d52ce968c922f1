// Package watcher provides file system watching with debouncing for spec files.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors spec files and directories for changes and sends notifications.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	paths     []string
	debounce  time.Duration
	exts      map[string]struct{}
	files     map[string]struct{}
	dirs      map[string]struct{}
	onChange  chan []string
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	// Paths lists files or directories to watch. Directories are not
	// watched recursively.
	Paths       []string
	DebounceDur time.Duration
	// Extensions filters directory events to matching file extensions,
	// compared case-insensitively. Explicitly watched files always match.
	Extensions []string
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(paths ...string) Config {
	return Config{
		Paths:       paths,
		DebounceDur: 400 * time.Millisecond,
		Extensions:  []string{".json", ".yaml", ".yml"},
	}
}

// New creates a new spec file watcher.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("no paths to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	exts := make(map[string]struct{}, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}

	return &Watcher{
		fsWatcher: fsw,
		paths:     cfg.Paths,
		debounce:  cfg.DebounceDur,
		exts:      exts,
		files:     make(map[string]struct{}),
		dirs:      make(map[string]struct{}),
		onChange:  make(chan []string, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the configured paths.
// Returns a channel that receives the batch of changed paths once the
// debounce window after the last event has elapsed.
func (w *Watcher) Start() (<-chan []string, error) {
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("watching %s: %w", path, err)
		}

		clean := filepath.Clean(path)
		if info.IsDir() {
			if err := w.fsWatcher.Add(clean); err != nil {
				return nil, fmt.Errorf("watching directory %s: %w", clean, err)
			}
			w.dirs[clean] = struct{}{}
			continue
		}

		// Watch the parent directory so the file is still tracked when
		// editors replace it with a rename.
		dir := filepath.Dir(clean)
		if err := w.fsWatcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
		w.files[clean] = struct{}{}
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var timer *time.Timer
	pending := make(map[string]struct{})

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			// Only react to writes on spec files
			if !w.isRelevantEvent(event) {
				continue
			}
			pending[filepath.Clean(event.Name)] = struct{}{}

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if len(pending) > 0 {
				changed := make([]string, 0, len(pending))
				for path := range pending {
					changed = append(changed, path)
				}
				sort.Strings(changed)

				// Non-blocking send - drop if channel full
				select {
				case w.onChange <- changed:
				default:
				}
				pending = make(map[string]struct{})
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Log error but continue watching
			// Note: We intentionally don't log here to avoid dependency on a logger.
			// Callers can wrap the watcher if they need error visibility.

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks if the event should trigger a refresh.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	// Editors produce a mix of writes, creates, and renames when saving
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}

	clean := filepath.Clean(event.Name)
	if _, ok := w.files[clean]; ok {
		return true
	}

	// Events from watched directories are filtered by extension; events
	// from parent directories of explicitly watched files are not.
	if _, ok := w.dirs[filepath.Clean(filepath.Dir(clean))]; !ok {
		return false
	}
	_, ok := w.exts[strings.ToLower(filepath.Ext(clean))]
	return ok
}
