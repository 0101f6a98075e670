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

// Package pipeline runs ordered text-to-text CSS transform stages.
package pipeline

import (
	"context"
	"fmt"
)

// Transformer is one CSS processing stage. Stages receive the full
// stylesheet text and return the transformed text.
type Transformer interface {
	// Name identifies the stage in error messages.
	Name() string

	// Transform processes css and returns the result. Implementations may
	// perform I/O and must respect ctx cancellation.
	Transform(ctx context.Context, css []byte) ([]byte, error)
}

// Func adapts a function to the Transformer interface.
type Func struct {
	StageName string
	Fn        func(ctx context.Context, css []byte) ([]byte, error)
}

func (f Func) Name() string { return f.StageName }

func (f Func) Transform(ctx context.Context, css []byte) ([]byte, error) {
	return f.Fn(ctx, css)
}

// Pipeline is an ordered sequence of transform stages. A pipeline is built
// once per entry and reused across incremental builds until its module set
// changes.
type Pipeline struct {
	stages []Transformer
}

// New creates a pipeline running the given stages in order.
func New(stages ...Transformer) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run feeds css through every stage in order and returns the final output.
// The first stage error aborts the run.
func (p *Pipeline) Run(ctx context.Context, css []byte) ([]byte, error) {
	out := css
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		out, err = stage.Transform(ctx, out)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
	}
	return out, nil
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.stages)
}
