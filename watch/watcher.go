/*
Copyright © 2026 purgescope contributors

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package watch emits debounced batches of changed file paths for a
// directory tree, for feeding incremental rebuilds.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// skipDirectories are directories that should not be watched.
var skipDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
	".purgescope":  true,
}

const (
	batchChannelBuffer = 4
	defaultDebounce    = 250 * time.Millisecond
)

// Watcher watches a directory tree recursively and coalesces bursts of
// file system events into batches of changed paths.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      string
	debounce  time.Duration
	batches   chan []string
}

// New creates a Watcher for the given root directory.
func New(root string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		root:      root,
		debounce:  defaultDebounce,
		batches:   make(chan []string, batchChannelBuffer),
	}, nil
}

// WithDebounce sets how long the watcher waits after the last event
// before emitting a batch.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Start begins watching the root directory recursively. Events are
// coalesced and emitted on Batches until ctx is cancelled or Stop is
// called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addRecursively(w.root); err != nil {
		return err
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Batches returns the channel of changed-path batches. Each batch is
// sorted and deduplicated. The channel closes when the watcher stops.
func (w *Watcher) Batches() <-chan []string {
	return w.batches
}

// addRecursively walks the directory tree and watches every directory.
func (w *Watcher) addRecursively(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip directories we cannot access.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if skipDirectories[d.Name()] {
			return fs.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// processEvents collects raw fsnotify events into a pending set and
// flushes it as one batch once the tree has been quiet for the
// debounce interval.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.batches)

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			// New directories join the watch set so files created
			// inside them are seen.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !skipDirectories[info.Name()] {
						_ = w.addRecursively(event.Name)
					}
					continue
				}
			}

			pending[event.Name] = true
			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for path := range pending {
				batch = append(batch, path)
			}
			sort.Strings(batch)
			pending = make(map[string]bool)

			select {
			case w.batches <- batch:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Log and keep watching.
			fmt.Fprintf(os.Stderr, "watch: file system error: %v\n", err)
		}
	}
}
