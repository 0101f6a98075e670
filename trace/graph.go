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
package trace

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/purgescope/purgescope/fs"
	"github.com/purgescope/purgescope/modgraph"
	"github.com/purgescope/purgescope/packagejson"
)

// ModuleGraph is the result of tracing one entry: every module file
// reached from it, plus the stylesheets the entry document links.
type ModuleGraph struct {
	// Entrypoints are the starting modules (from HTML scripts or explicit entry)
	Entrypoints []string

	// Modules maps module paths to their parsed information
	Modules map[string]*Module

	// Stylesheets are the local stylesheet paths linked by the entry document
	Stylesheets []string

	// Errors collects non-fatal errors encountered during tracing
	Errors []error

	// bareSpecifiers collects all bare import specifiers seen
	bareSpecifiers map[string]bool
}

func newGraph() *ModuleGraph {
	return &ModuleGraph{
		Modules:        make(map[string]*Module),
		bareSpecifiers: make(map[string]bool),
	}
}

// Module represents a parsed module in the graph.
type Module struct {
	Path    string         // Path to the module file
	Imports []ModuleImport // All imports found in the module
}

// Tracer walks import statements from an entry file, building the module
// set a bundler would reach from that entry.
type Tracer struct {
	fsys       fs.FileSystem
	root       string
	followBare bool // Whether to follow bare specifier imports into node_modules

	// moduleCache caches parsed modules by path (thread-safe).
	// Pointer is used so caches are shared across builder method calls,
	// and across re-traces in watch mode.
	moduleCache *sync.Map // map[string]*Module

	// descriptors caches package.json parses for bare specifier
	// resolution, shared the same way as moduleCache.
	descriptors packagejson.Cache
}

// NewTracer creates a new Tracer for the given root directory.
func NewTracer(fsys fs.FileSystem, root string) *Tracer {
	return &Tracer{
		fsys:        fsys,
		root:        root,
		moduleCache: &sync.Map{},
		descriptors: packagejson.NewMemoryCache(),
	}
}

// FollowingBareSpecifiers returns a new Tracer that resolves bare import
// specifiers through node_modules and traces into the packages it finds.
// The returned Tracer shares this one's caches.
func (t *Tracer) FollowingBareSpecifiers() *Tracer {
	return &Tracer{
		fsys:        t.fsys,
		root:        t.root,
		followBare:  true,
		moduleCache: t.moduleCache,
		descriptors: t.descriptors,
	}
}

// Invalidate drops cached parses for the given paths. Watch mode calls
// this with each changed batch before re-tracing.
func (t *Tracer) Invalidate(paths []string) {
	for _, p := range paths {
		normalized := modgraph.NormalizeResource(p)
		t.moduleCache.Delete(normalized)
		if filepath.Base(normalized) == "package.json" {
			t.descriptors.Invalidate(normalized)
		}
	}
}

// TraceHTML parses an HTML entry document and traces its module scripts.
// Linked stylesheets are recorded on the graph without being traced.
func (t *Tracer) TraceHTML(htmlPath string) (*ModuleGraph, error) {
	content, err := t.fsys.ReadFile(htmlPath)
	if err != nil {
		return nil, err
	}

	doc, err := ParseDocument(content)
	if err != nil {
		return nil, err
	}

	graph := newGraph()
	htmlDir := filepath.Dir(htmlPath)

	for _, href := range doc.Stylesheets {
		graph.Stylesheets = append(graph.Stylesheets, t.resolvePath(htmlDir, href))
	}

	for _, script := range doc.Scripts {
		switch {
		case script.Src != "" && script.Type == "module":
			modulePath := t.resolvePath(htmlDir, script.Src)
			graph.Entrypoints = append(graph.Entrypoints, modulePath)
			if err := t.traceModule(graph, modulePath); err != nil {
				graph.Errors = append(graph.Errors, fmt.Errorf("tracing %s: %w", modulePath, err))
			}
		case script.Inline:
			for _, spec := range script.Imports {
				t.traceSpecifier(graph, htmlDir, spec)
			}
		}
	}

	return graph, nil
}

// TraceModule traces a single module and all its dependencies.
func (t *Tracer) TraceModule(modulePath string) (*ModuleGraph, error) {
	graph := newGraph()
	graph.Entrypoints = []string{modulePath}

	if err := t.traceModule(graph, modulePath); err != nil {
		return nil, err
	}

	return graph, nil
}

// traceSpecifier resolves one import specifier relative to fromDir and
// traces whatever it names. Resolution failures are non-fatal.
func (t *Tracer) traceSpecifier(graph *ModuleGraph, fromDir, specifier string) {
	if isBareSpecifier(specifier) {
		graph.bareSpecifiers[specifier] = true

		if !t.followBare {
			return
		}
		depPath, err := t.resolveBareSpecifier(fromDir, specifier)
		if err != nil {
			graph.Errors = append(graph.Errors, fmt.Errorf("resolving %s: %w", specifier, err))
			return
		}
		if depPath == "" {
			return
		}
		if err := t.traceModule(graph, depPath); err != nil {
			graph.Errors = append(graph.Errors, fmt.Errorf("tracing %s: %w", depPath, err))
		}
		return
	}

	depPath := t.resolvePath(fromDir, specifier)
	if err := t.traceModule(graph, depPath); err != nil {
		graph.Errors = append(graph.Errors, fmt.Errorf("tracing %s: %w", depPath, err))
	}
}

// traceModule recursively traces a module and its dependencies.
func (t *Tracer) traceModule(graph *ModuleGraph, modulePath string) error {
	// Specifiers may carry query suffixes (./a.css?inline); the file on
	// disk does not.
	modulePath = modgraph.NormalizeResource(modulePath)

	if _, exists := graph.Modules[modulePath]; exists {
		return nil
	}

	var mod *Module
	if cached, ok := t.moduleCache.Load(modulePath); ok {
		mod = cached.(*Module)
	} else {
		content, err := t.fsys.ReadFile(modulePath)
		if err != nil {
			return err
		}

		imports, err := ExtractImports(content)
		if err != nil {
			return err
		}

		mod = &Module{Path: modulePath, Imports: imports}
		t.moduleCache.Store(modulePath, mod)
	}

	// Record before recursing so import cycles terminate.
	graph.Modules[modulePath] = mod

	moduleDir := filepath.Dir(modulePath)
	for _, imp := range mod.Imports {
		t.traceSpecifier(graph, moduleDir, imp.Specifier)
	}

	return nil
}

// resolveBareSpecifier locates a bare specifier's package through
// node_modules, walking up from the importing module's directory.
// Returns empty string when the package is not installed.
func (t *Tracer) resolveBareSpecifier(fromDir, specifier string) (string, error) {
	pkgName := getPackageName(specifier)
	subpath := strings.TrimPrefix(specifier, pkgName)

	pkgDir, pkg, err := packagejson.FindPackage(t.fsys, t.descriptors, fromDir, pkgName)
	if err != nil {
		if errors.Is(err, packagejson.ErrPackageNotFound) {
			return "", nil
		}
		return "", err
	}

	if subpath == "" {
		return filepath.Join(pkgDir, pkg.EntryFile()), nil
	}
	return filepath.Join(pkgDir, strings.TrimPrefix(subpath, "/")), nil
}

// resolvePath resolves a specifier relative to a base directory.
// For web-style paths:
// - "./foo" and "../foo" are resolved relative to baseDir
// - "/foo" is resolved relative to the root (web-style absolute)
func (t *Tracer) resolvePath(baseDir, specifier string) string {
	if strings.HasPrefix(specifier, "/") {
		return filepath.Join(t.root, specifier)
	}
	return filepath.Join(baseDir, specifier)
}

// isBareSpecifier returns true if the specifier is a bare module specifier
// (needs to be resolved via node_modules).
func isBareSpecifier(specifier string) bool {
	if specifier == "" {
		return false
	}
	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		return false
	}
	if strings.HasPrefix(specifier, "/") {
		return false
	}
	// URL schemes are not local modules
	if strings.Contains(specifier, "://") {
		return false
	}
	return true
}

// ModulePaths returns the sorted paths of every traced module file.
func (g *ModuleGraph) ModulePaths() []string {
	paths := make([]string, 0, len(g.Modules))
	for p := range g.Modules {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// BareSpecifiers returns a sorted slice of all bare specifiers found.
func (g *ModuleGraph) BareSpecifiers() []string {
	specifiers := make([]string, 0, len(g.bareSpecifiers))
	for spec := range g.bareSpecifiers {
		specifiers = append(specifiers, spec)
	}
	sort.Strings(specifiers)
	return specifiers
}

// getPackageName extracts the package name from a bare specifier.
func getPackageName(specifier string) string {
	// Handle scoped packages: @scope/package/path -> @scope/package
	if strings.HasPrefix(specifier, "@") {
		parts := strings.SplitN(specifier, "/", 3)
		if len(parts) >= 2 {
			return path.Join(parts[0], parts[1])
		}
		return specifier
	}
	// Regular package: package/path -> package
	parts := strings.SplitN(specifier, "/", 2)
	return parts[0]
}
