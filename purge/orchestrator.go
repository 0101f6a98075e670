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
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/purgescope/purgescope/filter"
	"github.com/purgescope/purgescope/fs"
	"github.com/purgescope/purgescope/modgraph"
	"github.com/purgescope/purgescope/pipeline"
)

// Orchestrator drives per-entry purge processing for one host compiler
// instance. It owns the incremental cache, so it must be reused across
// builds to get incremental behavior.
type Orchestrator struct {
	fsys    fs.FileSystem
	opts    Options
	filter  *filter.Filter
	builder PipelineBuilder
	logger  Logger
	cache   *entryCache
}

// New creates an Orchestrator with the production Tailwind pipeline builder.
func New(fsys fs.FileSystem, opts Options) (*Orchestrator, error) {
	f, err := filter.New(opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		fsys:    fsys,
		opts:    opts,
		filter:  f,
		builder: NewTailwindBuilder(fsys, opts),
		cache:   newEntryCache(),
	}, nil
}

// WithBuilder returns an Orchestrator using the given pipeline builder.
// The incremental cache is shared with the receiver.
func (o *Orchestrator) WithBuilder(builder PipelineBuilder) *Orchestrator {
	return &Orchestrator{
		fsys:    o.fsys,
		opts:    o.opts,
		filter:  o.filter,
		builder: builder,
		logger:  o.logger,
		cache:   o.cache,
	}
}

// WithLogger returns an Orchestrator logging through the given logger.
// The incremental cache is shared with the receiver.
func (o *Orchestrator) WithLogger(logger Logger) *Orchestrator {
	return &Orchestrator{
		fsys:    o.fsys,
		opts:    o.opts,
		filter:  o.filter,
		builder: o.builder,
		logger:  logger,
		cache:   o.cache,
	}
}

// Process handles one "assets about to be finalized" event. Every entry is
// processed concurrently and independently; one entry's failure does not
// stop the others, but any failure is reported to the caller after all
// entries finish.
func (o *Orchestrator) Process(ctx context.Context, build BuildContext) error {
	changed := build.ChangedFiles()

	var g errgroup.Group
	for _, entry := range build.Entries() {
		g.Go(func() error {
			return o.processEntry(ctx, build, entry, changed)
		})
	}
	return g.Wait()
}

// processEntry runs the per-entry state machine: Skip, FastCacheHit or
// Recompute or Rebuild, then Transform.
func (o *Orchestrator) processEntry(ctx context.Context, build BuildContext, entry Entry, changed []string) error {
	assets := entry.CSSAssets()
	if len(assets) == 0 {
		// Skip: entries without CSS output never touch the cache or the
		// synthesizer.
		return nil
	}

	name := entry.Name()
	pipe, err := o.resolvePipeline(ctx, build, entry, changed)
	if err != nil {
		return fmt.Errorf("entry %s: %w", name, err)
	}

	for _, asset := range assets {
		out, err := pipe.Run(ctx, asset.Contents())
		if err != nil {
			return fmt.Errorf("entry %s: transforming %s: %w", name, asset.Name(), err)
		}
		asset.SetContents(out)
	}
	return nil
}

// resolvePipeline decides whether the cached pipeline for this entry is
// still valid, in order:
//
//  1. Every reported changed file is already in the cached module set:
//     reuse the cached pipeline without traversing the graph at all.
//  2. Otherwise traverse; if the fresh set adds no modules over the cached
//     one (changes were deletions or files outside the set), still reuse.
//  3. Otherwise rebuild the pipeline and overwrite the cache slot.
//
// A first-time entry, or a build with no changed-files set, always rebuilds.
func (o *Orchestrator) resolvePipeline(ctx context.Context, build BuildContext, entry Entry, changed []string) (*pipeline.Pipeline, error) {
	name := entry.Name()
	cached, ok := o.cache.lookup(name)
	// A nil changed set means the host did not report one (clean build);
	// an empty non-nil set is an incremental rebuild where nothing changed.
	incremental := ok && changed != nil

	if incremental && cached.modules.ContainsAll(changed) {
		o.debugf("entry %s: changed files all in cached module set, reusing pipeline", name)
		return cached.pipeline, nil
	}

	modules := o.collectModules(entry)

	if incremental && modules.SubsetOf(cached.modules) {
		o.debugf("entry %s: recomputed module set adds nothing, reusing pipeline", name)
		return cached.pipeline, nil
	}

	pipe, err := o.builder.Build(ctx, name, modules.Sorted(), build.Root())
	if err != nil {
		return nil, err
	}
	o.cache.store(name, modules, pipe)
	o.debugf("entry %s: pipeline rebuilt over %d modules", name, modules.Len())
	return pipe, nil
}

// collectModules traverses the entry's module graph nodes into a normalized
// path set, dropping paths rejected by the include/exclude filter.
func (o *Orchestrator) collectModules(entry Entry) modgraph.PathSet {
	raw := modgraph.NewPathSet()
	for _, m := range entry.Modules() {
		modgraph.CollectPaths(m, raw)
	}

	kept := modgraph.NewPathSet()
	for path := range raw {
		if o.filter.Matches(path) {
			kept.Add(path)
		}
	}
	return kept
}

func (o *Orchestrator) debugf(format string, args ...any) {
	if o.logger != nil {
		o.logger.Debug(format, args...)
	}
}
