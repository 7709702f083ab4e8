package dialectql

import (
	"fmt"

	"github.com/zoobzio/dialectql/diag"
	"github.com/zoobzio/dialectql/internal/types"
	"github.com/zoobzio/dialectql/update"
)

// Renderer defines the interface for SQL dialect-specific query rendering.
// Implementations are provided by the mssql and oracle packages.
type Renderer interface {
	// Render converts a query tree to dialect SQL.
	Render(s *types.Select) (*types.QueryResult, error)

	// RenderExpression renders a standalone value expression.
	RenderExpression(e types.Expression) (*types.QueryResult, error)

	// RenderPredicate renders a standalone search condition.
	RenderPredicate(e types.Expression) (*types.QueryResult, error)

	Capabilities() Capabilities
}

// Generator renders INSERT, UPDATE and DELETE commands for one dialect.
type Generator = update.Generator

// Compiled is one rendered command batch.
type Compiled = update.Compiled

// CompileCommands splits cmds into batches within the given limits and
// renders each batch with gen. Zero limits fall back to the batch defaults.
func CompileCommands(gen Generator, cmds []*ModificationCommand, maxCommands, maxParameters int, sink diag.Sink) ([]*Compiled, error) {
	batches, err := update.Split(cmds, maxCommands, maxParameters, sink)
	if err != nil {
		return nil, err
	}
	out := make([]*Compiled, 0, len(batches))
	for i, b := range batches {
		c, err := b.Compile(gen)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}
