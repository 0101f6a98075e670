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

// Package trace builds per-entry module sets without a bundler by
// walking import statements from HTML entry documents and module files.
package trace

import (
	_ "embed"
	"fmt"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsTypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

//go:embed queries/typescript/imports.scm
var importsQuerySource string

var tsLanguage = ts.NewLanguage(tsTypescript.LanguageTypescript())

// Parser pool for reuse across traces.
var tsParserPool = sync.Pool{
	New: func() any {
		parser := ts.NewParser()
		if err := parser.SetLanguage(tsLanguage); err != nil {
			panic("failed to set TypeScript language: " + err.Error())
		}
		return parser
	},
}

func getTSParser() *ts.Parser {
	return tsParserPool.Get().(*ts.Parser)
}

func putTSParser(p *ts.Parser) {
	p.Reset()
	tsParserPool.Put(p)
}

var (
	importsQuery     *ts.Query
	importsQueryOnce sync.Once
	importsQueryErr  error
)

// getImportsQuery compiles the embedded imports query once and reuses it.
func getImportsQuery() (*ts.Query, error) {
	importsQueryOnce.Do(func() {
		query, qerr := ts.NewQuery(tsLanguage, importsQuerySource)
		if qerr != nil {
			importsQueryErr = fmt.Errorf("failed to parse imports query: %w", qerr)
			return
		}
		importsQuery = query
	})
	return importsQuery, importsQueryErr
}

// ModuleImport represents an import statement in a module.
type ModuleImport struct {
	Specifier string // The import specifier (e.g., "lit", "./foo.js")
	IsDynamic bool   // True if this is a dynamic import()
}
