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

// Package trace provides the trace command for purgescope.
package trace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/purgescope/purgescope/fs"
	"github.com/purgescope/purgescope/internal/output"
	"github.com/purgescope/purgescope/modgraph"
	"github.com/purgescope/purgescope/trace"
)

// Cmd is the trace cobra command. It walks import statements from entry
// files and prints the content sources a purge of those entries would scan.
var Cmd = &cobra.Command{
	Use:   "trace [entry...]",
	Short: "Print the content sources reachable from an entry",
	Long: `Trace entry files and print the modules a purge would scan as content.

HTML entries are parsed for module scripts and stylesheet links;
JavaScript and TypeScript entries are traced directly. The printed set
is normalized: query suffixes are stripped and paths are sorted.`,
	Example: `  # Trace an HTML entry document
  purgescope trace index.html

  # Trace every page of a static site
  purgescope trace --glob "_site/**/*.html"

  # Follow bare specifiers into node_modules
  purgescope trace src/app.js --follow-bare`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	Cmd.Flags().String("glob", "", "Glob pattern to match entry files (e.g., \"_site/**/*.html\")")
	Cmd.Flags().Bool("follow-bare", false, "Follow bare specifiers into node_modules")
}

func run(cmd *cobra.Command, args []string) error {
	osfs := fs.NewOSFileSystem()

	absRoot, err := filepath.Abs(viper.GetString("package"))
	if err != nil {
		return fmt.Errorf("invalid package directory: %w", err)
	}

	// Collect files from args and glob pattern, deduplicating by absolute path
	seen := make(map[string]struct{})
	var files []string

	for _, arg := range args {
		absPath, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("invalid file path %q: %w", arg, err)
		}
		if _, exists := seen[absPath]; !exists {
			seen[absPath] = struct{}{}
			files = append(files, absPath)
		}
	}

	globPattern, _ := cmd.Flags().GetString("glob")
	if globPattern != "" {
		matches, err := doublestar.FilepathGlob(globPattern)
		if err != nil {
			return fmt.Errorf("invalid glob pattern: %w", err)
		}
		for _, match := range matches {
			absPath, err := filepath.Abs(match)
			if err != nil {
				return fmt.Errorf("invalid file path %q: %w", match, err)
			}
			if _, exists := seen[absPath]; !exists {
				seen[absPath] = struct{}{}
				files = append(files, absPath)
			}
		}
	}

	if len(files) == 0 {
		return fmt.Errorf("no files to trace: provide file arguments or use --glob")
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "text", "json":
		// valid
	default:
		return fmt.Errorf("invalid format %q: must be one of text, json", format)
	}

	tracer := trace.NewTracer(osfs, absRoot)
	if followBare, _ := cmd.Flags().GetBool("follow-bare"); followBare {
		tracer = tracer.FollowingBareSpecifiers()
	}

	set := modgraph.NewPathSet()
	for _, file := range files {
		var graph *trace.ModuleGraph
		if isHTML(file) {
			graph, err = tracer.TraceHTML(file)
		} else {
			graph, err = tracer.TraceModule(file)
		}
		if err != nil {
			return fmt.Errorf("failed to trace %s: %w", file, err)
		}

		// Non-fatal trace issues go to stderr
		for _, issue := range graph.Errors {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", issue)
		}

		// An HTML document is itself a content source
		if isHTML(file) {
			set.Add(file)
		}
		for _, p := range graph.ModulePaths() {
			set.Add(p)
		}
	}

	sorted := set.Sorted()
	if format == "json" {
		out, err := json.MarshalIndent(sorted, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling module list: %w", err)
		}
		return output.Text(osfs, string(out))
	}
	return output.Text(osfs, strings.Join(sorted, "\n"))
}

func isHTML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}
