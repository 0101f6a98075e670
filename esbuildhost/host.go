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

package esbuildhost

import (
	"fmt"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/purgescope/purgescope/fs"
	"github.com/purgescope/purgescope/modgraph"
	"github.com/purgescope/purgescope/purge"
)

// entry implements purge.Entry over a derived entrySpec.
type entry struct {
	name    string
	modules []modgraph.Module
	assets  []purge.Asset
}

func (e *entry) Name() string               { return e.name }
func (e *entry) Modules() []modgraph.Module { return e.modules }
func (e *entry) CSSAssets() []purge.Asset   { return e.assets }

// BuildContext implements purge.BuildContext for esbuild builds.
type BuildContext struct {
	root    string
	entries []purge.Entry
	changed []string
}

func (b *BuildContext) Root() string           { return b.root }
func (b *BuildContext) Entries() []purge.Entry { return b.entries }
func (b *BuildContext) ChangedFiles() []string { return b.changed }

// outputFileAsset backs an asset with one of the in-memory output files of
// an api.BuildResult, so transforms land before esbuild writes to disk.
type outputFileAsset struct {
	file *api.OutputFile
}

func (a *outputFileAsset) Name() string            { return a.file.Path }
func (a *outputFileAsset) Contents() []byte        { return a.file.Contents }
func (a *outputFileAsset) SetContents(data []byte) { a.file.Contents = data }

// FromBuildResult builds a purge.BuildContext over an esbuild result. The
// build must have run with Metafile enabled and Write disabled so output
// files are still in memory. changed carries the host's changed-files set
// for incremental rebuilds; pass nil on a clean build.
func FromBuildResult(result *api.BuildResult, root string, changed []string) (*BuildContext, error) {
	if result.Metafile == "" {
		return nil, fmt.Errorf("build result has no metafile; enable Metafile in build options")
	}
	meta, err := ParseMetafile([]byte(result.Metafile))
	if err != nil {
		return nil, err
	}

	bc := &BuildContext{root: root, changed: changed}
	for _, spec := range entriesFromMetafile(meta, root) {
		e := &entry{name: spec.name, modules: resourceModules(spec.modules)}
		for _, cssOutput := range spec.cssOutputs {
			file := findOutputFile(result, root, cssOutput)
			if file == nil {
				return nil, fmt.Errorf("entry %s: output %s not found in build result", spec.name, cssOutput)
			}
			e.assets = append(e.assets, &outputFileAsset{file: file})
		}
		bc.entries = append(bc.entries, e)
	}
	return bc, nil
}

// fileAsset backs an asset with a file on disk. Contents are read at
// construction; Flush writes modified assets back.
type fileAsset struct {
	fsys  fs.FileSystem
	path  string
	data  []byte
	dirty bool
}

func (a *fileAsset) Name() string     { return a.path }
func (a *fileAsset) Contents() []byte { return a.data }

func (a *fileAsset) SetContents(data []byte) {
	a.data = data
	a.dirty = true
}

// FileBuildContext is a purge.BuildContext over an on-disk metafile and
// output directory, for use outside a live esbuild process. Call Flush
// after processing to write transformed assets back.
type FileBuildContext struct {
	BuildContext
	assets []*fileAsset
}

// FromMetafile reads a metafile from disk and builds a FileBuildContext
// whose CSS assets are the emitted files on disk, resolved against root.
func FromMetafile(fsys fs.FileSystem, metafilePath, root string, changed []string) (*FileBuildContext, error) {
	data, err := fsys.ReadFile(metafilePath)
	if err != nil {
		return nil, fmt.Errorf("reading metafile: %w", err)
	}
	meta, err := ParseMetafile(data)
	if err != nil {
		return nil, err
	}

	fbc := &FileBuildContext{BuildContext: BuildContext{root: root, changed: changed}}
	for _, spec := range entriesFromMetafile(meta, root) {
		e := &entry{name: spec.name, modules: resourceModules(spec.modules)}
		for _, cssOutput := range spec.cssOutputs {
			path := cssOutput
			if !filepath.IsAbs(path) {
				path = filepath.Join(root, path)
			}
			contents, err := fsys.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("entry %s: reading %s: %w", spec.name, path, err)
			}
			asset := &fileAsset{fsys: fsys, path: path, data: contents}
			fbc.assets = append(fbc.assets, asset)
			e.assets = append(e.assets, asset)
		}
		fbc.entries = append(fbc.entries, e)
	}
	return fbc, nil
}

// Flush writes every transformed asset back to disk.
func (b *FileBuildContext) Flush() error {
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

func resourceModules(paths []string) []modgraph.Module {
	modules := make([]modgraph.Module, len(paths))
	for i, p := range paths {
		modules[i] = modgraph.ResourceOf(p)
	}
	return modules
}

// findOutputFile matches a metafile output key against the result's
// in-memory output files, whose paths are absolute.
func findOutputFile(result *api.BuildResult, root, key string) *api.OutputFile {
	want := key
	if !filepath.IsAbs(want) {
		want = filepath.Join(root, want)
	}
	for i := range result.OutputFiles {
		if result.OutputFiles[i].Path == want {
			return &result.OutputFiles[i]
		}
	}
	return nil
}
