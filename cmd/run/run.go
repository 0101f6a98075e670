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

// Package run provides the run command for purgescope.
package run

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/purgescope/purgescope/esbuildhost"
	"github.com/purgescope/purgescope/fs"
	"github.com/purgescope/purgescope/purge"
	"github.com/purgescope/purgescope/tailwind"
	"github.com/purgescope/purgescope/trace"
	"github.com/purgescope/purgescope/watch"
)

// Cmd is the run cobra command. It derives each entry's content sources
// from the module graph and rewrites the entry's CSS outputs so they
// only keep the classes those sources can use.
var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Purge a build's CSS outputs down to its module graph",
	Long: `Run purges each entry's CSS outputs using the entry's own module graph
as the content source list, instead of a project-wide content glob.

The module graph comes from an esbuild metafile (build with
--metafile=meta.json), or from purgescope's own tracer when HTML entry
documents are named with --entry. With --watch, purgescope keeps running
and re-processes entries whose content sources changed; for metafile
builds the bundler should also be running in watch mode so the metafile
stays current.`,
	Example: `  # Purge the outputs of a finished build
  purgescope run --metafile dist/meta.json

  # Purge without a bundler, tracing HTML entry documents
  purgescope run --entry index.html --entry pages/about.html

  # Merge a base config and restrict the content list
  purgescope run --metafile dist/meta.json --config tailwind.config.js --exclude "**/node_modules/**"

  # Keep watching for changes
  purgescope run --metafile dist/meta.json --watch`,
	RunE: runE,
}

func init() {
	Cmd.Flags().String("metafile", "", "Path to the esbuild metafile")
	Cmd.Flags().StringSlice("entry", nil, "HTML entry document to trace (repeatable; alternative to --metafile)")
	Cmd.Flags().StringP("config", "c", "", "Base Tailwind config to merge (default: tailwind.config.js at the root)")
	Cmd.Flags().StringSlice("include", nil, "Only include matching content sources (doublestar glob or /regex/)")
	Cmd.Flags().StringSlice("exclude", nil, "Exclude matching content sources (doublestar glob or /regex/)")
	Cmd.Flags().String("tailwind-path", "", "Override the Tailwind package location")
	Cmd.Flags().BoolP("watch", "w", false, "Keep running and re-process on file changes")
	Cmd.Flags().Duration("debounce", 250*time.Millisecond, "Quiet period before a watch batch is processed")
}

// build is a processable source that can write transformed CSS back.
type build interface {
	purge.BuildContext
	Flush() error
}

// stderrLogger adapts the orchestrator's logging to the CLI.
type stderrLogger struct {
	verbose bool
}

func (l stderrLogger) Warning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

func (l stderrLogger) Debug(format string, args ...any) {
	if l.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

func runE(cmd *cobra.Command, args []string) error {
	osfs := fs.NewOSFileSystem()

	absRoot, err := filepath.Abs(viper.GetString("package"))
	if err != nil {
		return fmt.Errorf("invalid package directory: %w", err)
	}

	metafile, _ := cmd.Flags().GetString("metafile")
	entries, _ := cmd.Flags().GetStringSlice("entry")
	if (metafile == "") == (len(entries) == 0) {
		return fmt.Errorf("provide exactly one of --metafile or --entry")
	}

	config, _ := cmd.Flags().GetString("config")
	include, _ := cmd.Flags().GetStringSlice("include")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	tailwindPath, _ := cmd.Flags().GetString("tailwind-path")

	// Persisted debug artifacts live next to the build's outputs.
	dist := absRoot
	var absMetafile string
	if metafile != "" {
		absMetafile, err = filepath.Abs(metafile)
		if err != nil {
			return fmt.Errorf("invalid metafile path %q: %w", metafile, err)
		}
		dist = filepath.Dir(absMetafile)
	}

	opts := purge.Options{
		Config:       config,
		Include:      include,
		Exclude:      exclude,
		TailwindPath: tailwindPath,
		Debug:        tailwind.DebugModeFromEnv(os.Getenv("DEBUG"), dist),
	}

	orch, err := purge.New(osfs, opts)
	if err != nil {
		return err
	}
	logger := stderrLogger{verbose: opts.Debug.Persistent()}
	orch = orch.WithLogger(logger)

	var tracer *trace.Tracer
	if len(entries) > 0 {
		tracer = trace.NewTracer(osfs, absRoot).FollowingBareSpecifiers()
	}

	load := func(changed []string) (build, error) {
		if absMetafile != "" {
			return esbuildhost.FromMetafile(osfs, absMetafile, absRoot, changed)
		}
		tracer.Invalidate(changed)
		traced, err := tracer.BuildContext(entries, changed)
		if err != nil {
			return nil, err
		}
		for _, warning := range traced.Warnings() {
			logger.Warning("%v", warning)
		}
		return traced, nil
	}

	process := func(ctx context.Context, changed []string) error {
		source, err := load(changed)
		if err != nil {
			return err
		}
		if err := orch.Process(ctx, source); err != nil {
			return err
		}
		return source.Flush()
	}

	ctx := cmd.Context()
	if err := process(ctx, nil); err != nil {
		return err
	}

	watching, _ := cmd.Flags().GetBool("watch")
	if !watching {
		return nil
	}

	debounce, _ := cmd.Flags().GetDuration("debounce")

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	watcher, err := watch.New(absRoot)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	watcher.WithDebounce(debounce)
	defer func() { _ = watcher.Stop() }()

	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	fmt.Fprintf(os.Stderr, "watching %s\n", absRoot)
	for batch := range watcher.Batches() {
		// A failed incremental pass should not kill the watch loop.
		if err := process(ctx, batch); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	return nil
}
