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

// Package packagejson parses npm package descriptors and locates installed
// packages by walking up the node_modules tree.
package packagejson

import (
	"encoding/json"
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"strings"

	"github.com/purgescope/purgescope/fs"
)

// ErrPackageNotFound is returned when a package cannot be located from the
// given start directory.
var ErrPackageNotFound = errors.New("package not found")

// PackageJSON represents the subset of package.json relevant for version
// probing and entry resolution.
type PackageJSON struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Main    string `json:"main,omitempty"`
	Module  string `json:"module,omitempty"`
}

// Parse parses package.json data.
func Parse(data []byte) (*PackageJSON, error) {
	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// ParseFile parses a package.json file.
func ParseFile(fs fs.FileSystem, path string) (*PackageJSON, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// EntryFile returns the package's entry file relative to the package root,
// preferring the ESM "module" field over "main", defaulting to index.js.
func (pkg *PackageJSON) EntryFile() string {
	if pkg.Module != "" {
		return strings.TrimPrefix(pkg.Module, "./")
	}
	if pkg.Main != "" {
		return strings.TrimPrefix(pkg.Main, "./")
	}
	return "index.js"
}

// FindPackage locates an installed package by name, starting from startDir
// and walking up through ancestor node_modules directories, the same way
// node's own resolution does. If startDir itself is the package's root
// (its package.json names the package), that wins. Every descriptor parse
// goes through the cache when one is supplied, so repeated probes and
// concurrent per-entry lookups read each package.json at most once.
// Returns the package directory and its parsed descriptor.
func FindPackage(fsys fs.FileSystem, cache Cache, startDir, name string) (string, *PackageJSON, error) {
	dir := startDir
	for {
		// The start directory may already be inside the package, e.g. when
		// the caller supplied an explicit install path.
		ownPath := filepath.Join(dir, "package.json")
		if pkg, err := loadDescriptor(fsys, cache, ownPath); err == nil && pkg.Name == name {
			return dir, pkg, nil
		}

		candidate := filepath.Join(dir, "node_modules", name)
		pkgJSONPath := filepath.Join(candidate, "package.json")
		pkg, err := loadDescriptor(fsys, cache, pkgJSONPath)
		switch {
		case err == nil:
			return candidate, pkg, nil
		case !errors.Is(err, iofs.ErrNotExist):
			return "", nil, fmt.Errorf("parsing %s: %w", pkgJSONPath, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, fmt.Errorf("%w: %s (searched from %s)", ErrPackageNotFound, name, startDir)
		}
		dir = parent
	}
}

// loadDescriptor parses one package.json, through the cache when one is
// supplied. Read and parse failures are cached alongside successes, so a
// warm walk does no filesystem work at all; Invalidate clears them.
func loadDescriptor(fsys fs.FileSystem, cache Cache, path string) (*PackageJSON, error) {
	if cache == nil {
		return ParseFile(fsys, path)
	}
	return cache.GetOrLoad(path, func() (*PackageJSON, error) {
		return ParseFile(fsys, path)
	})
}
