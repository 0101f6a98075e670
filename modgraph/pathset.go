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

package modgraph

import "sort"

// PathSet is an unordered set of normalized file paths. It represents every
// source file statically reachable from one build entry.
type PathSet map[string]struct{}

// NewPathSet creates a PathSet containing the given paths.
func NewPathSet(paths ...string) PathSet {
	set := make(PathSet, len(paths))
	for _, p := range paths {
		set.Add(p)
	}
	return set
}

// Add inserts a path into the set.
func (s PathSet) Add(path string) {
	s[path] = struct{}{}
}

// Has reports whether the set contains the path.
func (s PathSet) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// Len returns the number of paths in the set.
func (s PathSet) Len() int {
	return len(s)
}

// ContainsAll reports whether every given path is a member of the set.
// An empty slice is vacuously contained.
func (s PathSet) ContainsAll(paths []string) bool {
	for _, p := range paths {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every path in s is also in other.
func (s PathSet) SubsetOf(other PathSet) bool {
	if len(s) > len(other) {
		return false
	}
	for p := range s {
		if !other.Has(p) {
			return false
		}
	}
	return true
}

// Sorted returns the set's paths as a sorted slice. Consumers don't assign
// meaning to the order, but it must be deterministic per build.
func (s PathSet) Sorted() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
