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
	"path/filepath"
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"

	"github.com/purgescope/purgescope/internal/mapfs"
	"github.com/purgescope/purgescope/tailwind"
	"github.com/purgescope/purgescope/testutil"
)

func installAt(t *testing.T, version string) *tailwind.Install {
	t.Helper()
	v, err := semver.NewVersion(version)
	if err != nil {
		t.Fatalf("bad test version %q: %v", version, err)
	}
	return &tailwind.Install{Dir: "/proj/node_modules/tailwindcss", Version: v}
}

func TestSynthesizeConfigDialects(t *testing.T) {
	tests := []struct {
		name         string
		version      string
		wantFilename string
	}{
		{"above threshold", "3.4.0", "tailwind.config.mjs"},
		{"exactly at threshold", "3.3.0", "tailwind.config.mjs"},
		{"below threshold", "3.2.7", "tailwind.config.js"},
		{"legacy major", "2.2.19", "tailwind.config.js"},
		{"next major", "4.0.0", "tailwind.config.mjs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mfs := mapfs.New()
			artifact, err := tailwind.SynthesizeConfig(mfs, "", []string{"/proj/src/a.js"}, installAt(t, tt.version))
			if err != nil {
				t.Fatalf("SynthesizeConfig failed: %v", err)
			}
			if artifact.Filename != tt.wantFilename {
				t.Errorf("Filename = %q, want %q", artifact.Filename, tt.wantFilename)
			}
		})
	}
}

func TestSynthesizeConfigWithoutUserConfig(t *testing.T) {
	mfs := mapfs.New()

	artifact, err := tailwind.SynthesizeConfig(mfs, "/proj/tailwind.config.js",
		[]string{"/proj/src/a.js", "/proj/src/b.js"}, installAt(t, "3.4.0"))
	if err != nil {
		t.Fatalf("SynthesizeConfig failed: %v", err)
	}

	content := string(artifact.Content)
	want := "export default {\n\tcontent: [\"/proj/src/a.js\",\"/proj/src/b.js\"],\n};\n"
	if content != want {
		t.Errorf("Content = %q, want %q", content, want)
	}
	if strings.Contains(content, "import") {
		t.Error("missing user config must not be imported")
	}
}

func TestSynthesizeConfigMergesUserConfig(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/proj/tailwind.config.js", `module.exports = { theme: { extend: {} } };`, 0644)

	t.Run("esm dialect", func(t *testing.T) {
		artifact, err := tailwind.SynthesizeConfig(mfs, "/proj/tailwind.config.js",
			[]string{"/proj/src/a.js"}, installAt(t, "3.4.0"))
		if err != nil {
			t.Fatalf("SynthesizeConfig failed: %v", err)
		}

		content := string(artifact.Content)
		if !strings.Contains(content, `import config from "/proj/tailwind.config.js";`) {
			t.Errorf("missing user config import:\n%s", content)
		}
		if !strings.Contains(content, "...config,") {
			t.Errorf("user config must be spread:\n%s", content)
		}
		if !strings.Contains(content, `content: ["/proj/src/a.js"],`) {
			t.Errorf("content must override after the spread:\n%s", content)
		}
		if strings.Index(content, "...config,") > strings.Index(content, "content:") {
			t.Error("content field must come after the spread so it overrides")
		}
	})

	t.Run("legacy dialect", func(t *testing.T) {
		artifact, err := tailwind.SynthesizeConfig(mfs, "/proj/tailwind.config.js",
			[]string{"/proj/src/a.js"}, installAt(t, "3.2.0"))
		if err != nil {
			t.Fatalf("SynthesizeConfig failed: %v", err)
		}

		content := string(artifact.Content)
		if !strings.Contains(content, `const config = require("/proj/tailwind.config.js");`) {
			t.Errorf("missing user config require:\n%s", content)
		}
		if !strings.Contains(content, "module.exports = {") {
			t.Errorf("legacy dialect must use module.exports:\n%s", content)
		}
	})
}

func TestSynthesizeConfigEmptyContentHonored(t *testing.T) {
	mfs := mapfs.New()

	artifact, err := tailwind.SynthesizeConfig(mfs, "", []string{}, installAt(t, "3.4.0"))
	if err != nil {
		t.Fatalf("SynthesizeConfig failed: %v", err)
	}
	if !strings.Contains(string(artifact.Content), "content: [],") {
		t.Errorf("empty module list must be emitted as written:\n%s", artifact.Content)
	}
}

func TestWriteConfig(t *testing.T) {
	t.Run("ephemeral scratch location", func(t *testing.T) {
		mfs := mapfs.New()

		path, err := tailwind.WriteConfig(mfs, tailwind.DebugMode{}, "main", "",
			[]string{"/proj/src/a.js"}, installAt(t, "3.4.0"))
		if err != nil {
			t.Fatalf("WriteConfig failed: %v", err)
		}
		if path != "/tmp/purgescope/main/tailwind.config.mjs" {
			t.Errorf("path = %q", path)
		}
		if _, err := mfs.ReadFile(path); err != nil {
			t.Errorf("config not written: %v", err)
		}
	})

	t.Run("debug scratch location under dist", func(t *testing.T) {
		mfs := mapfs.New()
		mode := tailwind.DebugModeFromEnv("purgescope", "/proj/dist")

		path, err := tailwind.WriteConfig(mfs, mode, "pages/home", "",
			[]string{"/proj/src/a.js"}, installAt(t, "3.4.0"))
		if err != nil {
			t.Fatalf("WriteConfig failed: %v", err)
		}
		if path != "/proj/dist/.purgescope/pages_home-91e92527/tailwind.config.mjs" {
			t.Errorf("path = %q", path)
		}
	})

	t.Run("flattened entry names never collide", func(t *testing.T) {
		mfs := mapfs.New()
		mode := tailwind.DebugModeFromEnv("purgescope", "/proj/dist")

		slashed, err := tailwind.WriteConfig(mfs, mode, "pages/home", "",
			[]string{"/proj/src/a.js"}, installAt(t, "3.4.0"))
		if err != nil {
			t.Fatalf("WriteConfig failed: %v", err)
		}
		literal, err := tailwind.WriteConfig(mfs, mode, "pages_home", "",
			[]string{"/proj/src/b.js"}, installAt(t, "3.4.0"))
		if err != nil {
			t.Fatalf("WriteConfig failed: %v", err)
		}
		if filepath.Dir(slashed) == filepath.Dir(literal) {
			t.Errorf("entries pages/home and pages_home share a scratch dir: %q", slashed)
		}
	})

	t.Run("rewrites are overwrite-in-place", func(t *testing.T) {
		mfs := mapfs.New()

		first, err := tailwind.WriteConfig(mfs, tailwind.DebugMode{}, "main", "",
			[]string{"/proj/src/a.js"}, installAt(t, "3.4.0"))
		if err != nil {
			t.Fatalf("WriteConfig failed: %v", err)
		}
		second, err := tailwind.WriteConfig(mfs, tailwind.DebugMode{}, "main", "",
			[]string{"/proj/src/a.js", "/proj/src/b.js"}, installAt(t, "3.4.0"))
		if err != nil {
			t.Fatalf("WriteConfig failed: %v", err)
		}
		if first != second {
			t.Errorf("scratch path changed between builds: %q vs %q", first, second)
		}
		data, err := mfs.ReadFile(second)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if !strings.Contains(string(data), "/proj/src/b.js") {
			t.Error("second write did not overwrite the artifact")
		}
	})
}

func TestDebugModeFromEnv(t *testing.T) {
	tests := []struct {
		value   string
		persist bool
	}{
		{"", false},
		{"express", false},
		{"purgescope", true},
		{"PURGESCOPE", true},
		{"express, tailwindcss ,foo", true},
		{"tail", false},
	}
	for _, tt := range tests {
		t.Run("value "+tt.value, func(t *testing.T) {
			mode := tailwind.DebugModeFromEnv(tt.value, "/dist")
			if mode.Persistent() != tt.persist {
				t.Errorf("DebugModeFromEnv(%q).Persistent() = %v, want %v", tt.value, mode.Persistent(), tt.persist)
			}
		})
	}
}

func TestSynthesizeConfigGolden(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/proj/tailwind.config.js", "module.exports = {};", 0644)

	artifact, err := tailwind.SynthesizeConfig(mfs, "/proj/tailwind.config.js",
		[]string{"/proj/index.html", "/proj/src/app.js", "/proj/src/nav.js"},
		installAt(t, "3.4.0"))
	if err != nil {
		t.Fatalf("SynthesizeConfig failed: %v", err)
	}

	if want := testutil.LoadGoldenFile(t, "golden/tailwind.config.mjs.golden"); want != nil {
		if string(artifact.Content) != string(want) {
			t.Errorf("Content = %q, want %q", artifact.Content, want)
		}
	}
	testutil.UpdateGoldenFile(t, "golden/tailwind.config.mjs.golden", artifact.Content)
}
