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

// Package esbuildhost adapts esbuild builds to the purge.BuildContext
// surface, deriving per-entry module sets and CSS assets from the metafile.
package esbuildhost

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/purgescope/purgescope/modgraph"
)

// Metafile is the subset of esbuild's metafile JSON needed to map entries
// to their reachable source modules and emitted CSS bundles.
type Metafile struct {
	Inputs  map[string]MetafileInput  `json:"inputs"`
	Outputs map[string]MetafileOutput `json:"outputs"`
}

// MetafileInput is one input file in the metafile.
type MetafileInput struct {
	Bytes   int              `json:"bytes"`
	Imports []MetafileImport `json:"imports"`
}

// MetafileImport is one import edge in the metafile.
type MetafileImport struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	External bool   `json:"external,omitempty"`
}

// MetafileOutput is one output file in the metafile.
type MetafileOutput struct {
	Bytes      int                     `json:"bytes"`
	Inputs     map[string]InputContrib `json:"inputs"`
	EntryPoint string                  `json:"entryPoint,omitempty"`
	CSSBundle  string                  `json:"cssBundle,omitempty"`
}

// InputContrib is the contribution of an input to an output.
type InputContrib struct {
	BytesInOutput int `json:"bytesInOutput"`
}

// ParseMetafile parses metafile JSON.
func ParseMetafile(data []byte) (*Metafile, error) {
	var meta Metafile
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing metafile: %w", err)
	}
	return &meta, nil
}

// entrySpec is the flattened view of one entry derived from the metafile:
// its source module paths (absolute) and its emitted CSS output paths
// (as metafile output keys).
type entrySpec struct {
	name       string
	modules    []string
	cssOutputs []string
}

// entriesFromMetafile derives one spec per entry-point output. An entry's
// module set is the union of inputs contributing to its JS output and to
// its associated CSS bundle. Input keys are made absolute against root;
// loader namespace prefixes are stripped.
func entriesFromMetafile(meta *Metafile, root string) []entrySpec {
	keys := make([]string, 0, len(meta.Outputs))
	for key := range meta.Outputs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var specs []entrySpec
	for _, key := range keys {
		output := meta.Outputs[key]
		if output.EntryPoint == "" {
			continue
		}

		spec := entrySpec{name: output.EntryPoint}

		inputs := make(map[string]bool, len(output.Inputs))
		for input := range output.Inputs {
			inputs[input] = true
		}

		if strings.HasSuffix(key, ".css") {
			spec.cssOutputs = append(spec.cssOutputs, key)
		}
		if output.CSSBundle != "" {
			spec.cssOutputs = append(spec.cssOutputs, output.CSSBundle)
			if bundle, ok := meta.Outputs[output.CSSBundle]; ok {
				for input := range bundle.Inputs {
					inputs[input] = true
				}
			}
		}

		for input := range inputs {
			spec.modules = append(spec.modules, absoluteInputPath(root, input))
		}
		sort.Strings(spec.modules)

		specs = append(specs, spec)
	}
	return specs
}

// absoluteInputPath turns a metafile input key into an absolute path.
// Keys are relative to the build's working directory and may carry a
// loader namespace prefix ("ns:path"). Query suffixes are left alone;
// the graph normalizer strips them.
func absoluteInputPath(root, key string) string {
	if idx := strings.Index(key, ":"); idx > 1 && !strings.ContainsAny(key[:idx], "/\\?") {
		key = key[idx+1:]
	}
	if filepath.IsAbs(key) {
		return key
	}
	return filepath.Join(root, key)
}

// EntrySources maps each entry point to its normalized content source
// list: every input reachable from the entry's outputs, query suffixes
// stripped, sorted. Root may be empty to keep metafile-relative paths.
func EntrySources(meta *Metafile, root string) map[string][]string {
	sources := make(map[string][]string, len(meta.Outputs))
	for _, spec := range entriesFromMetafile(meta, root) {
		set := modgraph.NewPathSet()
		for _, m := range spec.modules {
			set.Add(modgraph.NormalizeResource(m))
		}
		sources[spec.name] = set.Sorted()
	}
	return sources
}
