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

package esbuildhost

import (
	"context"
	"os"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/purgescope/purgescope/fs"
	"github.com/purgescope/purgescope/purge"
	"github.com/purgescope/purgescope/tailwind"
)

// Plugin returns an esbuild plugin that purges each entry's CSS bundles
// against the modules reachable from that entry. The build must set
// Metafile: true and Write: false; transformed CSS replaces the in-memory
// output files before the caller writes them.
//
// One orchestrator lives per plugin instance, so rebuilds through
// api.Context reuse its incremental cache. esbuild does not report a
// changed-files set, so rebuilds run the full (non-incremental) path;
// hosts that do know what changed should use FromBuildResult directly.
func Plugin(opts purge.Options) api.Plugin {
	return api.Plugin{
		Name: "purgescope",
		Setup: func(build api.PluginBuild) {
			root := build.InitialOptions.AbsWorkingDir
			if root == "" {
				root, _ = os.Getwd()
			}

			dist := build.InitialOptions.Outdir
			if dist == "" {
				dist = root
			}
			opts.Debug = tailwind.DebugModeFromEnv(os.Getenv("DEBUG"), dist)

			orchestrator, initErr := purge.New(fs.NewOSFileSystem(), opts)

			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				if initErr != nil {
					return api.OnEndResult{}, initErr
				}
				if len(result.Errors) > 0 {
					// The compile itself failed; nothing to purge.
					return api.OnEndResult{}, nil
				}

				bc, err := FromBuildResult(result, root, nil)
				if err != nil {
					return api.OnEndResult{}, err
				}
				if err := orchestrator.Process(context.Background(), bc); err != nil {
					return api.OnEndResult{}, err
				}
				return api.OnEndResult{}, nil
			})
		},
	}
}
