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

package purge

import (
	"sync"

	"github.com/purgescope/purgescope/modgraph"
	"github.com/purgescope/purgescope/pipeline"
)

// cacheEntry remembers, per entry identifier, the module set a pipeline was
// built from together with that pipeline. At most one live pipeline is
// cached per entry at any time.
type cacheEntry struct {
	modules  modgraph.PathSet
	pipeline *pipeline.Pipeline
}

// entryCache maps entry identifiers to their cached state. Entries are
// created on first successful processing, overwritten on rebuild and never
// deleted; the map lives as long as the orchestrator, i.e. one host compiler
// instance. Concurrent per-entry units touch disjoint keys; the lock only
// protects the map itself.
type entryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func newEntryCache() *entryCache {
	return &entryCache{entries: make(map[string]cacheEntry)}
}

func (c *entryCache) lookup(entryID string) (cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[entryID]
	return entry, ok
}

func (c *entryCache) store(entryID string, modules modgraph.PathSet, p *pipeline.Pipeline) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entryID] = cacheEntry{modules: modules, pipeline: p}
}
