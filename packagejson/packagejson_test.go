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

package packagejson_test

import (
	"errors"
	"testing"

	"github.com/purgescope/purgescope/internal/mapfs"
	"github.com/purgescope/purgescope/packagejson"
)

func TestParse(t *testing.T) {
	pkg, err := packagejson.Parse([]byte(`{"name":"tailwindcss","version":"3.4.0","main":"lib/index.js"}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if pkg.Name != "tailwindcss" {
		t.Errorf("Name = %q, want tailwindcss", pkg.Name)
	}
	if pkg.Version != "3.4.0" {
		t.Errorf("Version = %q, want 3.4.0", pkg.Version)
	}
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	if _, err := packagejson.Parse([]byte(`{"name":`)); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestEntryFile(t *testing.T) {
	tests := []struct {
		name string
		pkg  packagejson.PackageJSON
		want string
	}{
		{"module preferred", packagejson.PackageJSON{Module: "./dist/index.mjs", Main: "dist/index.cjs"}, "dist/index.mjs"},
		{"main fallback", packagejson.PackageJSON{Main: "./lib/main.js"}, "lib/main.js"},
		{"index default", packagejson.PackageJSON{}, "index.js"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pkg.EntryFile(); got != tt.want {
				t.Errorf("EntryFile() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindPackage(t *testing.T) {
	t.Run("direct node_modules", func(t *testing.T) {
		mfs := mapfs.New()
		mfs.AddFile("/proj/node_modules/tailwindcss/package.json", `{"name":"tailwindcss","version":"3.3.0"}`, 0644)

		dir, pkg, err := packagejson.FindPackage(mfs, nil, "/proj", "tailwindcss")
		if err != nil {
			t.Fatalf("FindPackage failed: %v", err)
		}
		if dir != "/proj/node_modules/tailwindcss" {
			t.Errorf("dir = %q", dir)
		}
		if pkg.Version != "3.3.0" {
			t.Errorf("Version = %q, want 3.3.0", pkg.Version)
		}
	})

	t.Run("walks up to hoisted install", func(t *testing.T) {
		mfs := mapfs.New()
		mfs.AddFile("/repo/node_modules/tailwindcss/package.json", `{"name":"tailwindcss","version":"2.2.19"}`, 0644)
		mfs.AddFile("/repo/packages/app/package.json", `{"name":"app","version":"0.0.1"}`, 0644)

		dir, pkg, err := packagejson.FindPackage(mfs, nil, "/repo/packages/app", "tailwindcss")
		if err != nil {
			t.Fatalf("FindPackage failed: %v", err)
		}
		if dir != "/repo/node_modules/tailwindcss" {
			t.Errorf("dir = %q", dir)
		}
		if pkg.Version != "2.2.19" {
			t.Errorf("Version = %q", pkg.Version)
		}
	})

	t.Run("start dir inside the package itself", func(t *testing.T) {
		mfs := mapfs.New()
		mfs.AddFile("/opt/tw/package.json", `{"name":"tailwindcss","version":"4.0.0"}`, 0644)

		dir, pkg, err := packagejson.FindPackage(mfs, nil, "/opt/tw", "tailwindcss")
		if err != nil {
			t.Fatalf("FindPackage failed: %v", err)
		}
		if dir != "/opt/tw" {
			t.Errorf("dir = %q", dir)
		}
		if pkg.Version != "4.0.0" {
			t.Errorf("Version = %q", pkg.Version)
		}
	})

	t.Run("not found", func(t *testing.T) {
		mfs := mapfs.New()
		mfs.AddFile("/proj/src/app.js", "", 0644)

		_, _, err := packagejson.FindPackage(mfs, nil, "/proj", "tailwindcss")
		if !errors.Is(err, packagejson.ErrPackageNotFound) {
			t.Errorf("expected ErrPackageNotFound, got %v", err)
		}
	})

	t.Run("unparsable descriptor is an error", func(t *testing.T) {
		mfs := mapfs.New()
		mfs.AddFile("/proj/node_modules/tailwindcss/package.json", `{nope`, 0644)

		_, _, err := packagejson.FindPackage(mfs, nil, "/proj", "tailwindcss")
		if err == nil {
			t.Error("expected parse error")
		}
	})
}

// readCountingFS counts ReadFile calls so tests can assert how much
// descriptor I/O a walk performs.
type readCountingFS struct {
	*mapfs.MapFileSystem
	reads int
}

func (c *readCountingFS) ReadFile(name string) ([]byte, error) {
	c.reads++
	return c.MapFileSystem.ReadFile(name)
}

func TestFindPackageWarmCacheReadsNothing(t *testing.T) {
	cfs := &readCountingFS{MapFileSystem: mapfs.New()}
	cfs.AddFile("/repo/packages/app/package.json", `{"name":"app","version":"0.0.1"}`, 0644)
	cfs.AddFile("/repo/node_modules/tailwindcss/package.json", `{"name":"tailwindcss","version":"3.4.0"}`, 0644)
	cache := packagejson.NewMemoryCache()

	if _, _, err := packagejson.FindPackage(cfs, cache, "/repo/packages/app", "tailwindcss"); err != nil {
		t.Fatalf("FindPackage failed: %v", err)
	}
	cold := cfs.reads
	if cold == 0 {
		t.Fatal("cold walk must read descriptors")
	}

	dir, pkg, err := packagejson.FindPackage(cfs, cache, "/repo/packages/app", "tailwindcss")
	if err != nil {
		t.Fatalf("FindPackage failed: %v", err)
	}
	if cfs.reads != cold {
		t.Errorf("warm walk read %d descriptors, want 0", cfs.reads-cold)
	}
	if dir != "/repo/node_modules/tailwindcss" || pkg.Version != "3.4.0" {
		t.Errorf("warm walk resolved %q %q", dir, pkg.Version)
	}
}
