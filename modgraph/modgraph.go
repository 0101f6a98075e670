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

// Package modgraph models the host compiler's module dependency graph and
// normalizes graph nodes into on-disk source file paths.
package modgraph

import "strings"

// Module is one node in the host compiler's dependency graph. The graph is
// owned by the host; purgescope only reads it. A node either wraps inner
// nodes (ConcatenatedModule), corresponds to a file on disk (ResourceModule),
// or is synthetic and contributes nothing.
type Module interface{}

// ConcatenatedModule is a composite node wrapping zero or more inner modules,
// such as a scope-hoisted bundle group.
type ConcatenatedModule interface {
	InnerModules() []Module
}

// ResourceModule is a node backed by a file on disk. Resource returns the
// path as the host reports it, which may carry a trailing query string
// (e.g. "/src/app.css?inline").
type ResourceModule interface {
	Resource() string
}

// ResourceOf wraps a raw resource path in a ResourceModule.
func ResourceOf(path string) ResourceModule {
	return resourceModule(path)
}

// ConcatenationOf wraps modules in a single ConcatenatedModule.
func ConcatenationOf(modules ...Module) ConcatenatedModule {
	return concatenatedModule(modules)
}

type resourceModule string

func (m resourceModule) Resource() string { return string(m) }

type concatenatedModule []Module

func (m concatenatedModule) InnerModules() []Module { return m }

// CollectPaths walks a module node depth-first and adds every normalized
// resource path it finds to the accumulating set. Concatenated modules are
// recursed into; nodes that are neither concatenated nor resource-backed
// (runtime helpers, externals) are skipped without error.
func CollectPaths(module Module, into PathSet) {
	switch m := module.(type) {
	case ConcatenatedModule:
		for _, inner := range m.InnerModules() {
			CollectPaths(inner, into)
		}
	case ResourceModule:
		if resource := m.Resource(); resource != "" {
			into.Add(NormalizeResource(resource))
		}
	}
}

// NormalizeResource strips everything from the first '?' onward, yielding
// the canonical on-disk path for a resource identifier.
func NormalizeResource(resource string) string {
	if idx := strings.IndexByte(resource, '?'); idx >= 0 {
		return resource[:idx]
	}
	return resource
}
