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

package filter_test

import (
	"testing"

	"github.com/purgescope/purgescope/filter"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		path    string
		want    bool
	}{
		{
			name: "no patterns matches everything",
			path: "/src/app.js",
			want: true,
		},
		{
			name:    "include glob matches",
			include: []string{"/src/**/*.jsx"},
			path:    "/src/components/button.jsx",
			want:    true,
		},
		{
			name:    "include glob rejects others",
			include: []string{"/src/**/*.jsx"},
			path:    "/lib/util.js",
			want:    false,
		},
		{
			name:    "exclude wins over include",
			include: []string{"/src/**"},
			exclude: []string{"/src/**/*.test.js"},
			path:    "/src/app.test.js",
			want:    false,
		},
		{
			name:    "exclude node_modules",
			exclude: []string{"/**/node_modules/**"},
			path:    "/proj/node_modules/lit/index.js",
			want:    false,
		},
		{
			name:    "regex include",
			include: []string{`/\.(jsx?|tsx?)$/`},
			path:    "/src/app.tsx",
			want:    true,
		},
		{
			name:    "regex include rejects",
			include: []string{`/\.(jsx?|tsx?)$/`},
			path:    "/src/styles.css",
			want:    false,
		},
		{
			name:    "windows separators normalized",
			include: []string{"/src/**"},
			path:    `\src\app.js`,
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := filter.New(tt.include, tt.exclude)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if got := f.Matches(tt.path); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestNewRejectsBadPatterns(t *testing.T) {
	if _, err := filter.New([]string{"/[unclosed/"}, nil); err == nil {
		t.Error("expected error for invalid regex")
	}
	if _, err := filter.New(nil, []string{"[unclosed"}); err == nil {
		t.Error("expected error for invalid glob")
	}
}

func TestApply(t *testing.T) {
	f, err := filter.New([]string{"/src/**"}, []string{"/src/vendor/**"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got := f.Apply([]string{
		"/src/a.js",
		"/src/vendor/lib.js",
		"/other/b.js",
	})

	if len(got) != 1 || got[0] != "/src/a.js" {
		t.Errorf("Apply = %v, want [/src/a.js]", got)
	}
}
