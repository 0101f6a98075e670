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
package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/purgescope/purgescope/watch"
)

func startWatcher(t *testing.T, root string, debounce time.Duration) *watch.Watcher {
	t.Helper()
	w, err := watch.New(root)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	w.WithDebounce(debounce)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return w
}

func waitForBatch(t *testing.T, w *watch.Watcher) []string {
	t.Helper()
	select {
	case batch, ok := <-w.Batches():
		if !ok {
			t.Fatal("batches channel closed unexpectedly")
		}
		return batch
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for a batch")
		return nil
	}
}

func TestWatcherEmitsChangedPaths(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root, 100*time.Millisecond)

	path := filepath.Join(root, "app.js")
	if err := os.WriteFile(path, []byte("export {}"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	batch := waitForBatch(t, w)
	found := false
	for _, p := range batch {
		if p == path {
			found = true
		}
	}
	if !found {
		t.Errorf("batch = %v, want it to contain %s", batch, path)
	}
}

func TestWatcherCoalescesBursts(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root, 500*time.Millisecond)

	a := filepath.Join(root, "a.js")
	b := filepath.Join(root, "b.js")
	if err := os.WriteFile(a, []byte("1"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.WriteFile(b, []byte("2"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	batch := waitForBatch(t, w)
	got := make(map[string]bool, len(batch))
	for _, p := range batch {
		got[p] = true
	}
	if !got[a] || !got[b] {
		t.Errorf("batch = %v, want both %s and %s", batch, a, b)
	}
	// Sorted output.
	for i := 1; i < len(batch); i++ {
		if batch[i-1] >= batch[i] {
			t.Errorf("batch not sorted: %v", batch)
		}
	}
}

func TestStopClosesBatches(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root, 100*time.Millisecond)

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	select {
	case _, ok := <-w.Batches():
		if ok {
			t.Error("expected closed channel after Stop")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("batches channel not closed after Stop")
	}
}
