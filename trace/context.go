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
package trace

import (
	"fmt"
	"path/filepath"

	"github.com/purgescope/purgescope/fs"
	"github.com/purgescope/purgescope/modgraph"
	"github.com/purgescope/purgescope/purge"
)

type traceEntry struct {
	name    string
	modules []modgraph.Module
	assets  []purge.Asset
}

func (e *traceEntry) Name() string               { return e.name }
func (e *traceEntry) Modules() []modgraph.Module { return e.modules }
func (e *traceEntry) CSSAssets() []purge.Asset   { return e.assets }

// styleAsset is a linked stylesheet on disk. Writes are deferred until
// Flush so a failing build never leaves half-written output.
type styleAsset struct {
	fsys  fs.FileSystem
	path  string
	data  []byte
	dirty bool
}

func (a *styleAsset) Name() string     { return a.path }
func (a *styleAsset) Contents() []byte { return a.data }

func (a *styleAsset) SetContents(data []byte) {
	a.data = data
	a.dirty = true
}

// BuildContext adapts traced HTML entries to the purge orchestrator.
type BuildContext struct {
	root     string
	entries  []purge.Entry
	changed  []string
	assets   []*styleAsset
	warnings []error
}

func (b *BuildContext) Root() string           { return b.root }
func (b *BuildContext) Entries() []purge.Entry { return b.entries }
func (b *BuildContext) ChangedFiles() []string { return b.changed }

// Warnings returns the non-fatal errors collected while tracing, such
// as imports of packages that are not installed.
func (b *BuildContext) Warnings() []error { return b.warnings }

// BuildContext traces each HTML entry document and exposes the result as
// a build the purge orchestrator can process. Linked stylesheets become
// the entry's CSS assets; the document itself and every traced module
// become its content sources. Call Flush after processing to write
// transformed stylesheets back.
func (t *Tracer) BuildContext(htmlEntries []string, changed []string) (*BuildContext, error) {
	bc := &BuildContext{root: t.root, changed: changed}

	for _, htmlPath := range htmlEntries {
		if !filepath.IsAbs(htmlPath) {
			htmlPath = filepath.Join(t.root, htmlPath)
		}

		graph, err := t.TraceHTML(htmlPath)
		if err != nil {
			return nil, fmt.Errorf("tracing %s: %w", htmlPath, err)
		}
		bc.warnings = append(bc.warnings, graph.Errors...)

		name, err := filepath.Rel(t.root, htmlPath)
		if err != nil {
			name = htmlPath
		}

		// The document itself is a content source: utility classes
		// live in its markup.
		e := &traceEntry{name: name}
		e.modules = append(e.modules, modgraph.ResourceOf(htmlPath))
		for _, p := range graph.ModulePaths() {
			e.modules = append(e.modules, modgraph.ResourceOf(p))
		}

		for _, cssPath := range graph.Stylesheets {
			data, err := t.fsys.ReadFile(cssPath)
			if err != nil {
				return nil, fmt.Errorf("entry %s: reading %s: %w", name, cssPath, err)
			}
			asset := &styleAsset{fsys: t.fsys, path: cssPath, data: data}
			bc.assets = append(bc.assets, asset)
			e.assets = append(e.assets, asset)
		}

		bc.entries = append(bc.entries, e)
	}

	return bc, nil
}

// Flush writes every transformed stylesheet back to disk.
func (b *BuildContext) Flush() error {
	for _, asset := range b.assets {
		if !asset.dirty {
			continue
		}
		if err := asset.fsys.WriteFile(asset.path, asset.data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", asset.path, err)
		}
		asset.dirty = false
	}
	return nil
}
