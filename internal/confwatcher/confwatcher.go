// Package confwatcher implements a configuration file watcher.
package confwatcher

import (
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	minInterval = 1 * time.Second
)

// ConfWatcher is a configuration file watcher.
type ConfWatcher struct {
	inner *fsnotify.Watcher

	// out
	signal chan struct{}
	done   chan struct{}
}

// New allocates a ConfWatcher.
func New(confPath string) (*ConfWatcher, error) {
	inner, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// giving the path to the watcher means the watch does not survive
	// some editors' write-rename cycle, but this mirrors the low rate
	// at which this file changes.
	if _, err := os.Stat(confPath); err == nil {
		err := inner.Add(confPath)
		if err != nil {
			inner.Close()
			return nil, err
		}
	}

	w := &ConfWatcher{
		inner:  inner,
		signal: make(chan struct{}),
		done:   make(chan struct{}),
	}

	go w.run()

	return w, nil
}

// Close closes a ConfWatcher.
func (w *ConfWatcher) Close() {
	go func() {
		for range w.signal {
		}
	}()
	w.inner.Close()
	<-w.done
}

func (w *ConfWatcher) run() {
	defer close(w.done)

	lastCalled := time.Now()

outer:
	for {
		select {
		case event, ok := <-w.inner.Events:
			if !ok {
				break outer
			}

			if time.Since(lastCalled) >= minInterval &&
				(event.Op&(fsnotify.Write|fsnotify.Create)) != 0 {
				// wait some additional time to allow the writer to
				// finish
				time.Sleep(10 * time.Millisecond)

				lastCalled = time.Now()
				w.signal <- struct{}{}
			}

		case _, ok := <-w.inner.Errors:
			if !ok {
				break outer
			}
		}
	}

	close(w.signal)
}

// Watch returns a channel that is called after the configuration file has
// changed.
func (w *ConfWatcher) Watch() chan struct{} {
	return w.signal
}
