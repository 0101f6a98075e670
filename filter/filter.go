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

// Package filter decides which normalized module paths are fed into the
// content source list.
package filter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// pattern matches one path, either as a doublestar glob or, when the
// user-supplied string is delimited by slashes ("/\.vue$/"), as a regex.
type pattern struct {
	glob string
	re   *regexp.Regexp
}

func (p pattern) matches(path string) bool {
	if p.re != nil {
		return p.re.MatchString(path)
	}
	ok, err := doublestar.Match(p.glob, path)
	return err == nil && ok
}

// Filter is a pure predicate over file paths, built from include and
// exclude pattern lists. An empty include list means every path not
// excluded passes.
type Filter struct {
	include []pattern
	exclude []pattern
}

// New compiles include and exclude patterns into a Filter.
func New(include, exclude []string) (*Filter, error) {
	inc, err := compile(include)
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern: %w", err)
	}
	exc, err := compile(exclude)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}
	return &Filter{include: inc, exclude: exc}, nil
}

// Matches reports whether the path belongs in the content source list.
func (f *Filter) Matches(path string) bool {
	path = filepath.ToSlash(path)

	for _, p := range f.exclude {
		if p.matches(path) {
			return false
		}
	}

	if len(f.include) == 0 {
		return true
	}
	for _, p := range f.include {
		if p.matches(path) {
			return true
		}
	}
	return false
}

// Apply returns the subset of paths accepted by the filter.
func (f *Filter) Apply(paths []string) []string {
	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if f.Matches(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

func compile(raw []string) ([]pattern, error) {
	patterns := make([]pattern, 0, len(raw))
	for _, s := range raw {
		if len(s) > 1 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/") {
			re, err := regexp.Compile(s[1 : len(s)-1])
			if err != nil {
				return nil, fmt.Errorf("%q: %w", s, err)
			}
			patterns = append(patterns, pattern{re: re})
			continue
		}
		// Validate the glob eagerly so a bad pattern fails the build
		// instead of silently matching nothing.
		if !doublestar.ValidatePattern(s) {
			return nil, fmt.Errorf("%q: %w", s, doublestar.ErrBadPattern)
		}
		patterns = append(patterns, pattern{glob: s})
	}
	return patterns, nil
}
