// Package backend watches the root directory and reports changes that should
// trigger a reload of the root level.
package backend

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event reports a batch of changes under the root, or a watch error.
type Event struct {
	Root  string
	Paths []string
	Err   error
}

// Watcher turns bursts of filesystem notifications for a single directory
// into one Event per quiet period.
type Watcher struct {
	root   string
	quiet  time.Duration
	notify *fsnotify.Watcher

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher watches root. Changes are reported once no further change has
// arrived for quiet, and never more often than once per quiet.
func NewWatcher(root string, quiet time.Duration) (*Watcher, error) {
	if root == "" {
		return nil, errors.New("backend: empty root")
	}
	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := notify.Add(root); err != nil {
		notify.Close()
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		root:   root,
		quiet:  quiet,
		notify: notify,
		ctx:    ctx,
		cancel: cancel,
		events: make(chan Event, 16),
	}
	w.wg.Add(1)
	go w.run()
	go func() {
		w.wg.Wait()
		close(w.events)
	}()
	return w, nil
}

// Root is the watched directory.
func (w *Watcher) Root() string { return w.root }

// Events returns a channel of change batches. It is closed after Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher and releases the notification handle.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the watcher goroutine has exited and the events channel
// is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) run() {
	defer w.wg.Done()
	defer w.notify.Close()

	limit := newThrottle(w.quiet)
	pending := map[string]struct{}{}
	var settle <-chan time.Time
	var timer *time.Timer

	emit := func(evt Event) bool {
		if !limit.wait(w.ctx) {
			return false
		}
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.notify.Events:
			if !ok {
				return
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			pending[ev.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.quiet)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.quiet)
			}
			settle = timer.C
		case err, ok := <-w.notify.Errors:
			if !ok {
				return
			}
			if !emit(Event{Root: w.root, Err: err}) {
				return
			}
		case <-settle:
			settle = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)
			if !emit(Event{Root: w.root, Paths: paths}) {
				return
			}
		}
	}
}
