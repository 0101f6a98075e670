//go:build js && wasm

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

// Package main provides the WASM entry point for purgescope.
package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/purgescope/purgescope/esbuildhost"
)

// Version is the purgescope WASM version.
const Version = "0.1.0"

func main() {
	// Create the purgescope namespace object
	purgescope := make(map[string]any)
	purgescope["contentSources"] = js.FuncOf(contentSources)
	purgescope["version"] = Version

	// Export to global scope
	js.Global().Set("purgescope", js.ValueOf(purgescope))

	// Keep the program running
	select {}
}

// contentSources derives each entry's content source list from an esbuild
// metafile, for tooling that runs where the native binary cannot.
// Arguments:
//   - metafileStr: string - the metafile contents as a JSON string
//   - root: string (optional) - project root to resolve input paths against
//
// Returns a Promise that resolves to a JSON string mapping each entry
// point to its sorted, query-stripped content source paths.
func contentSources(this js.Value, args []js.Value) any {
	handler := js.FuncOf(func(this js.Value, promiseArgs []js.Value) any {
		resolve := promiseArgs[0]
		reject := promiseArgs[1]

		go func() {
			result, err := deriveSources(args)
			if err != nil {
				reject.Invoke(js.Global().Get("Error").New(err.Error()))
				return
			}
			resolve.Invoke(result)
		}()

		return nil
	})

	promise := js.Global().Get("Promise").New(handler)
	handler.Release()
	return promise
}

// deriveSources performs the actual metafile analysis.
func deriveSources(args []js.Value) (string, error) {
	if len(args) < 1 {
		return "", &jsError{message: "contentSources requires at least one argument (metafile string)"}
	}

	meta, err := esbuildhost.ParseMetafile([]byte(args[0].String()))
	if err != nil {
		return "", &jsError{message: "failed to parse metafile: " + err.Error()}
	}

	root := ""
	if len(args) > 1 && args[1].Type() == js.TypeString {
		root = args[1].String()
	}

	out, err := json.MarshalIndent(esbuildhost.EntrySources(meta, root), "", "  ")
	if err != nil {
		return "", &jsError{message: "failed to serialize content sources: " + err.Error()}
	}
	return string(out), nil
}

// jsError represents an error to be returned to JavaScript.
type jsError struct {
	message string
}

func (e *jsError) Error() string {
	return e.message
}
