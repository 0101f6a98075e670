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

package tailwind

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/purgescope/purgescope/fs"
)

// CLIStage runs the Tailwind CLI as one pipeline transform stage. The stage
// round-trips the stylesheet through scratch input/output files next to the
// synthesized config, because the CLI operates on files.
type CLIStage struct {
	fsys       fs.FileSystem
	bin        string
	configPath string
	scratchDir string
}

// NewCLIStage creates a stage invoking bin with the given synthesized
// config. Scratch files are written alongside the config.
func NewCLIStage(fsys fs.FileSystem, bin, configPath string) *CLIStage {
	return &CLIStage{
		fsys:       fsys,
		bin:        bin,
		configPath: configPath,
		scratchDir: filepath.Dir(configPath),
	}
}

// Name implements pipeline.Transformer.
func (s *CLIStage) Name() string { return "tailwindcss" }

// Transform implements pipeline.Transformer.
func (s *CLIStage) Transform(ctx context.Context, css []byte) ([]byte, error) {
	inPath := filepath.Join(s.scratchDir, "input.css")
	outPath := filepath.Join(s.scratchDir, "output.css")

	if err := s.fsys.WriteFile(inPath, css, 0644); err != nil {
		return nil, fmt.Errorf("writing scratch input: %w", err)
	}

	cmd := exec.CommandContext(ctx, s.bin,
		"--config", s.configPath,
		"--input", inPath,
		"--output", outPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("running %s: %w\n%s", s.bin, err, out)
	}

	result, err := s.fsys.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("reading scratch output: %w", err)
	}
	return result, nil
}

// ResolveBinary locates the Tailwind executable: an explicit override wins,
// then the nearest node_modules/.bin/tailwindcss above startDir, then
// whatever "tailwindcss" resolves to on PATH.
func ResolveBinary(fsys fs.FileSystem, startDir, override string) string {
	if override != "" {
		return override
	}

	dir := startDir
	for {
		candidate := filepath.Join(dir, "node_modules", ".bin", "tailwindcss")
		if fsys.Exists(candidate) {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "tailwindcss"
}
