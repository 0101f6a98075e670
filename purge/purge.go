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

// Package purge narrows the Tailwind content scan to the source modules
// actually reachable from each build entry, and rewrites the entry's CSS
// assets through a per-entry transform pipeline.
package purge

import (
	"context"

	"github.com/purgescope/purgescope/modgraph"
	"github.com/purgescope/purgescope/pipeline"
	"github.com/purgescope/purgescope/tailwind"
)

// Logger is an interface for logging messages during processing.
type Logger interface {
	Warning(format string, args ...any)
	Debug(format string, args ...any)
}

// Options configures an Orchestrator.
type Options struct {
	// Config is the path (absolute or root-relative) to the user's base
	// Tailwind configuration. Defaults to tailwind.config.js at the build
	// root. A missing file is not an error; it is simply not merged.
	Config string

	// Include and Exclude filter which normalized module paths are fed
	// into the content list. Patterns are doublestar globs, or regexes
	// when written /like-this/. An empty Include means every path not
	// excluded.
	Include []string
	Exclude []string

	// Stages are additional transform stages appended after the Tailwind
	// stage in each entry's pipeline.
	Stages []pipeline.Transformer

	// TailwindPath optionally overrides where the Tailwind package is
	// located, for both the version probe and the CLI binary lookup.
	TailwindPath string

	// Debug controls whether scratch configs persist for inspection.
	Debug tailwind.DebugMode
}

// BuildContext is the host compiler's view of one build, supplied at the
// "assets about to be finalized" point. The module graph it exposes is
// owned by the host and read-only here.
type BuildContext interface {
	// Root is the project root directory for config and package resolution.
	Root() string

	// Entries lists the build's entry points.
	Entries() []Entry

	// ChangedFiles is the set of files the host reports as modified since
	// the previous incremental build. Nil means the host supplied no
	// change information (a clean build); an empty non-nil slice means
	// an incremental build in which nothing relevant changed.
	ChangedFiles() []string
}

// Entry is one named build target.
type Entry interface {
	// Name identifies the entry; it keys the incremental cache.
	Name() string

	// Modules returns the graph nodes reachable from this entry.
	Modules() []modgraph.Module

	// CSSAssets returns the entry's emitted CSS output assets.
	CSSAssets() []Asset
}

// Asset is one output CSS file belonging to an entry. The pipeline consumes
// its contents and replaces them in place.
type Asset interface {
	Name() string
	Contents() []byte
	SetContents(data []byte)
}

// PipelineBuilder constructs the transform pipeline for one entry from its
// module list. This is the expensive step the incremental cache exists to
// skip: the production implementation probes the installed Tailwind version,
// synthesizes a scratch config and wires up the CLI stage.
type PipelineBuilder interface {
	Build(ctx context.Context, entry string, modules []string, root string) (*pipeline.Pipeline, error)
}
