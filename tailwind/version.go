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

// Package tailwind probes the installed Tailwind package and synthesizes
// the ephemeral per-entry configuration the purge step runs against.
package tailwind

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/purgescope/purgescope/fs"
	"github.com/purgescope/purgescope/packagejson"
)

// PackageName is the npm package the version probe looks for.
const PackageName = "tailwindcss"

// minESMConfigVersion is the first Tailwind release that accepts an ESM
// configuration file; older installs get the legacy CommonJS dialect.
var minESMConfigVersion = semver.MustParse("3.3.0")

// Install describes a located Tailwind installation.
type Install struct {
	// Dir is the package root directory.
	Dir string

	// Version is the version parsed from the package descriptor.
	Version *semver.Version
}

// UsesESMConfig reports whether this install reads ESM config files.
func (i *Install) UsesESMConfig() bool {
	return !i.Version.LessThan(minESMConfigVersion)
}

// Detect locates the installed Tailwind package starting from startDir
// (the directory containing an explicitly supplied install path, or the
// build root) and reads its version. Every descriptor parse in the walk-up
// goes through the cache, so concurrent entries probe at most once and a
// warm probe touches no files. A missing or unparsable descriptor is fatal
// for the calling entry.
func Detect(fsys fs.FileSystem, cache packagejson.Cache, startDir string) (*Install, error) {
	dir, pkg, err := packagejson.FindPackage(fsys, cache, startDir, PackageName)
	if err != nil {
		return nil, err
	}

	version, err := semver.NewVersion(pkg.Version)
	if err != nil {
		return nil, fmt.Errorf("parsing %s version %q: %w", PackageName, pkg.Version, err)
	}

	return &Install{Dir: dir, Version: version}, nil
}
