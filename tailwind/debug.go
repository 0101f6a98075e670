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

package tailwind

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"strings"

	"github.com/purgescope/purgescope/fs"
)

// debugTokens are the DEBUG environment variable values that switch scratch
// config output from the process temp directory to an inspectable location
// under the build output path.
var debugTokens = map[string]bool{
	"purgescope":  true,
	"tailwindcss": true,
}

// DebugMode controls where per-entry scratch configs are written. The zero
// value is ephemeral (process temp directory). It is resolved once per build
// and threaded into synthesis, never read from the environment ad hoc.
type DebugMode struct {
	persistDir string
}

// PersistTo returns a DebugMode writing scratch configs under dir.
func PersistTo(dir string) DebugMode {
	return DebugMode{persistDir: dir}
}

// DebugModeFromEnv resolves a DebugMode from the raw DEBUG environment
// variable value. The value is split on commas and matched case-insensitively
// against the recognized tokens; on a match, scratch configs persist under
// <distDir>/.purgescope.
func DebugModeFromEnv(value, distDir string) DebugMode {
	for _, token := range strings.Split(value, ",") {
		if debugTokens[strings.ToLower(strings.TrimSpace(token))] {
			return PersistTo(filepath.Join(distDir, ".purgescope"))
		}
	}
	return DebugMode{}
}

// Persistent reports whether scratch configs outlive the build for inspection.
func (m DebugMode) Persistent() bool {
	return m.persistDir != ""
}

// ScratchDir returns the directory for one entry's scratch config, creating
// it if needed. Existing scratch files are overwritten on the next build,
// never cleaned up.
func (m DebugMode) ScratchDir(fsys fs.FileSystem, entry string) (string, error) {
	base := m.persistDir
	if base == "" {
		base = filepath.Join(fsys.TempDir(), "purgescope")
	}
	dir := filepath.Join(base, sanitizeEntryName(entry))
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// sanitizeEntryName flattens entry identifiers like "pages/home" into a
// single path segment. Flattened names carry a hash of the raw identifier
// so distinct entries ("pages/home", "pages_home") never share a scratch
// directory.
func sanitizeEntryName(entry string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_")
	flattened := replacer.Replace(entry)
	if flattened == entry {
		return entry
	}
	h := fnv.New32a()
	h.Write([]byte(entry))
	return fmt.Sprintf("%s-%08x", flattened, h.Sum32())
}
