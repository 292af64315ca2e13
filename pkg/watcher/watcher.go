// Package watcher signals when a graph document file changes on disk.
// Editors produce bursts of writes, renames, and chmods for one logical
// save, so events are debounced and coalesced: however many arrive inside
// the window, the consumer sees one notification.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period required before a change is
// reported.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches a single file. The directory is watched rather than the
// file itself so atomic-rename saves are not lost.
type Watcher struct {
	path     string
	debounce time.Duration

	fsw     *fsnotify.Watcher
	changed chan struct{}
	done    chan struct{}
	stop    sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration overrides the debounce window.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher for the given file.
func NewWatcher(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving watch path: %w", err)
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		changed:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Changed delivers one value per coalesced burst of file changes. The
// channel is buffered; a slow consumer loses no notifications, only
// duplicates.
func (w *Watcher) Changed() <-chan struct{} { return w.changed }

// Start begins watching. It returns once the underlying watch is
// registered; delivery happens on a background goroutine until Stop.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	w.fsw = fsw
	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-fire:
			timer = nil
			fire = nil
			select {
			case w.changed <- struct{}{}:
			default:
				// A notification is already pending; coalesce.
			}

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// Stop ends watching and releases the OS watch. Safe to call more than
// once.
func (w *Watcher) Stop() {
	w.stop.Do(func() {
		close(w.done)
		if w.fsw != nil {
			w.fsw.Close()
		}
	})
}
