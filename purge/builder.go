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

package purge

import (
	"context"
	"path/filepath"

	"github.com/purgescope/purgescope/fs"
	"github.com/purgescope/purgescope/packagejson"
	"github.com/purgescope/purgescope/pipeline"
	"github.com/purgescope/purgescope/tailwind"
)

// defaultConfigName is the conventional user config filename at the
// project root.
const defaultConfigName = "tailwind.config.js"

// TailwindBuilder is the production PipelineBuilder. Each Build probes the
// installed Tailwind version, synthesizes a scratch config listing the
// entry's modules as content sources, and assembles the CLI stage followed
// by any user-declared stages. Package descriptors are cached so concurrent
// entries share one probe.
type TailwindBuilder struct {
	fsys        fs.FileSystem
	opts        Options
	descriptors *packagejson.MemoryCache
}

// NewTailwindBuilder creates a TailwindBuilder.
func NewTailwindBuilder(fsys fs.FileSystem, opts Options) *TailwindBuilder {
	return &TailwindBuilder{
		fsys:        fsys,
		opts:        opts,
		descriptors: packagejson.NewMemoryCache(),
	}
}

// Build implements PipelineBuilder.
func (b *TailwindBuilder) Build(ctx context.Context, entry string, modules []string, root string) (*pipeline.Pipeline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	probeStart := root
	if b.opts.TailwindPath != "" {
		probeStart = filepath.Dir(b.opts.TailwindPath)
	}

	install, err := tailwind.Detect(b.fsys, b.descriptors, probeStart)
	if err != nil {
		return nil, err
	}

	configPath, err := tailwind.WriteConfig(b.fsys, b.opts.Debug, entry,
		b.userConfigPath(root), modules, install)
	if err != nil {
		return nil, err
	}

	bin := tailwind.ResolveBinary(b.fsys, install.Dir, "")
	stages := make([]pipeline.Transformer, 0, len(b.opts.Stages)+1)
	stages = append(stages, tailwind.NewCLIStage(b.fsys, bin, configPath))
	stages = append(stages, b.opts.Stages...)

	return pipeline.New(stages...), nil
}

// userConfigPath resolves the configured user config path against the build
// root. The file itself may or may not exist; synthesis checks that.
func (b *TailwindBuilder) userConfigPath(root string) string {
	config := b.opts.Config
	if config == "" {
		config = defaultConfigName
	}
	if !filepath.IsAbs(config) {
		config = filepath.Join(root, config)
	}
	return config
}
