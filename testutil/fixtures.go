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
// Package testutil provides testing utilities for purgescope packages.
package testutil

import (
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/purgescope/purgescope/internal/mapfs"
)

// updateGolden enables updating golden files with actual output when -update flag is set.
var updateGolden = flag.Bool("update", false, "update golden files with actual output")

// findTestdata locates a path under testdata/, probing upward because
// go test runs each package in its own directory.
func findTestdata(rel string) (string, bool) {
	for _, prefix := range []string{"testdata", filepath.Join("..", "testdata"), filepath.Join("..", "..", "testdata")} {
		candidate := filepath.Join(prefix, rel)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

// NewFixtureFS loads a fixture project from testdata into an in-memory
// filesystem rooted at rootPath. The fixtureDir is relative to testdata/.
func NewFixtureFS(t *testing.T, fixtureDir string, rootPath string) *mapfs.MapFileSystem {
	t.Helper()

	fixturePath, ok := findTestdata(fixtureDir)
	if !ok {
		t.Fatalf("could not find fixtures at %s", fixtureDir)
	}

	mfs := mapfs.New()
	err := filepath.WalkDir(fixturePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(fixturePath, path)
		if err != nil {
			return err
		}
		mfs.AddFile(filepath.Join(rootPath, relPath), string(content), 0644)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to load fixtures from %s: %v", fixtureDir, err)
	}

	return mfs
}

// LoadGoldenFile reads a golden file (expected output) from testdata.
// Returns nil when -update is set, so callers fall through to
// UpdateGoldenFile with the actual output.
func LoadGoldenFile(t *testing.T, goldenPath string) []byte {
	t.Helper()
	if *updateGolden {
		return nil
	}
	path, ok := findTestdata(goldenPath)
	if !ok {
		t.Fatalf("could not find golden file %s (run with -update to create it)", goldenPath)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v", goldenPath, err)
	}
	return content
}

// UpdateGoldenFile writes actual output to the golden file when the
// -update flag is set. No-ops otherwise.
func UpdateGoldenFile(t *testing.T, goldenPath string, actual []byte) {
	t.Helper()
	if !*updateGolden {
		return
	}

	targetPath, ok := findTestdata(goldenPath)
	if !ok {
		targetPath = filepath.Join("testdata", goldenPath)
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		t.Fatalf("failed to create directory for golden file %s: %v", goldenPath, err)
	}
	if err := os.WriteFile(targetPath, actual, 0644); err != nil {
		t.Fatalf("failed to write golden file %s: %v", goldenPath, err)
	}
	t.Logf("updated golden file: %s", targetPath)
}
