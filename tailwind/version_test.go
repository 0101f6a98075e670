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

package tailwind_test

import (
	"errors"
	"testing"

	"github.com/purgescope/purgescope/internal/mapfs"
	"github.com/purgescope/purgescope/packagejson"
	"github.com/purgescope/purgescope/tailwind"
)

func TestDetect(t *testing.T) {
	t.Run("resolves from build root", func(t *testing.T) {
		mfs := mapfs.New()
		mfs.AddFile("/proj/node_modules/tailwindcss/package.json", `{"name":"tailwindcss","version":"3.4.0"}`, 0644)

		install, err := tailwind.Detect(mfs, nil, "/proj")
		if err != nil {
			t.Fatalf("Detect failed: %v", err)
		}
		if install.Dir != "/proj/node_modules/tailwindcss" {
			t.Errorf("Dir = %q", install.Dir)
		}
		if !install.UsesESMConfig() {
			t.Error("3.4.0 must use the ESM dialect")
		}
	})

	t.Run("missing package is fatal", func(t *testing.T) {
		mfs := mapfs.New()
		mfs.AddFile("/proj/src/a.js", "", 0644)

		_, err := tailwind.Detect(mfs, nil, "/proj")
		if !errors.Is(err, packagejson.ErrPackageNotFound) {
			t.Errorf("expected ErrPackageNotFound, got %v", err)
		}
	})

	t.Run("garbage version is fatal", func(t *testing.T) {
		mfs := mapfs.New()
		mfs.AddFile("/proj/node_modules/tailwindcss/package.json", `{"name":"tailwindcss","version":"not-a-version"}`, 0644)

		if _, err := tailwind.Detect(mfs, nil, "/proj"); err == nil {
			t.Error("expected version parse error")
		}
	})

	t.Run("descriptor shared through cache", func(t *testing.T) {
		cfs := &readCountingFS{MapFileSystem: mapfs.New()}
		cfs.AddFile("/proj/node_modules/tailwindcss/package.json", `{"name":"tailwindcss","version":"3.3.0"}`, 0644)
		cache := packagejson.NewMemoryCache()

		first, err := tailwind.Detect(cfs, cache, "/proj")
		if err != nil {
			t.Fatalf("Detect failed: %v", err)
		}
		if _, ok := cache.Get("/proj/node_modules/tailwindcss/package.json"); !ok {
			t.Error("descriptor should be cached after Detect")
		}

		cold := cfs.reads
		second, err := tailwind.Detect(cfs, cache, "/proj")
		if err != nil {
			t.Fatalf("Detect failed: %v", err)
		}
		if cfs.reads != cold {
			t.Errorf("warm probe read %d files, want 0", cfs.reads-cold)
		}
		if !first.Version.Equal(second.Version) {
			t.Error("cached detect disagrees with first probe")
		}
	})
}

// readCountingFS counts ReadFile calls so tests can assert how much I/O a
// version probe performs.
type readCountingFS struct {
	*mapfs.MapFileSystem
	reads int
}

func (c *readCountingFS) ReadFile(name string) ([]byte, error) {
	c.reads++
	return c.MapFileSystem.ReadFile(name)
}

func TestUsesESMConfigBoundary(t *testing.T) {
	tests := []struct {
		version string
		esm     bool
	}{
		{"3.2.99", false},
		{"3.3.0", true},
		{"3.3.1", true},
		{"3.4.0", true},
		{"2.0.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			install := installAt(t, tt.version)
			if got := install.UsesESMConfig(); got != tt.esm {
				t.Errorf("UsesESMConfig() for %s = %v, want %v", tt.version, got, tt.esm)
			}
		})
	}
}

func TestResolveBinary(t *testing.T) {
	t.Run("override wins", func(t *testing.T) {
		mfs := mapfs.New()
		if got := tailwind.ResolveBinary(mfs, "/proj", "/custom/tailwindcss"); got != "/custom/tailwindcss" {
			t.Errorf("ResolveBinary = %q", got)
		}
	})

	t.Run("nearest node_modules bin", func(t *testing.T) {
		mfs := mapfs.New()
		mfs.AddFile("/repo/node_modules/.bin/tailwindcss", "#!/bin/sh", 0755)

		if got := tailwind.ResolveBinary(mfs, "/repo/packages/app", ""); got != "/repo/node_modules/.bin/tailwindcss" {
			t.Errorf("ResolveBinary = %q", got)
		}
	})

	t.Run("falls back to PATH lookup name", func(t *testing.T) {
		mfs := mapfs.New()
		if got := tailwind.ResolveBinary(mfs, "/proj", ""); got != "tailwindcss" {
			t.Errorf("ResolveBinary = %q", got)
		}
	})
}
