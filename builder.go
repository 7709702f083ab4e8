package dialectql

import (
	"fmt"

	"github.com/zoobzio/dialectql/internal/types"
)

// Builder provides a fluent API for constructing queries.
type Builder struct {
	sel *types.Select
	err error
}

// From creates a new query builder over the given sources.
func From(sources ...Source) *Builder {
	b := &Builder{sel: &types.Select{}}
	for _, src := range sources {
		if src == nil {
			b.err = fmt.Errorf("From() requires non-nil sources")
			return b
		}
		b.sel.Tables = append(b.sel.Tables, src)
	}
	return b
}

// GetSelect returns the query under construction.
func (b *Builder) GetSelect() *Select {
	return b.sel
}

// GetError returns the first error recorded by the builder.
func (b *Builder) GetError() error {
	return b.err
}

// Select adds unaliased projections.
func (b *Builder) Select(exprs ...Expression) *Builder {
	if b.err != nil {
		return b
	}
	if b.sel.StarOf != "" {
		b.err = fmt.Errorf("Select() cannot be combined with Star()")
		return b
	}
	for _, e := range exprs {
		b.sel.Projection = append(b.sel.Projection, types.Projection{Expr: e})
	}
	return b
}

// SelectAs adds an aliased projection.
func (b *Builder) SelectAs(e Expression, alias string) *Builder {
	if b.err != nil {
		return b
	}
	if err := ValidateIdentifier(alias); err != nil {
		b.err = fmt.Errorf("SelectAs(): %w", err)
		return b
	}
	if b.sel.StarOf != "" {
		b.err = fmt.Errorf("SelectAs() cannot be combined with Star()")
		return b
	}
	b.sel.Projection = append(b.sel.Projection, types.Projection{Expr: e, Alias: alias})
	return b
}

// Star projects every column of the source with the given alias.
func (b *Builder) Star(alias string) *Builder {
	if b.err != nil {
		return b
	}
	if len(b.sel.Projection) > 0 {
		b.err = fmt.Errorf("Star() cannot be combined with explicit projections")
		return b
	}
	b.sel.StarOf = alias
	return b
}

// Distinct removes duplicate rows.
func (b *Builder) Distinct() *Builder {
	if b.err != nil {
		return b
	}
	b.sel.Distinct = true
	return b
}

// InnerJoin joins src on a condition.
func (b *Builder) InnerJoin(src Source, on Expression) *Builder {
	return b.addJoin(types.InnerJoin, src, on)
}

// LeftJoin left-joins src on a condition.
func (b *Builder) LeftJoin(src Source, on Expression) *Builder {
	return b.addJoin(types.LeftJoin, src, on)
}

// CrossJoin cross-joins src.
func (b *Builder) CrossJoin(src Source) *Builder {
	return b.addJoin(types.CrossJoin, src, nil)
}

func (b *Builder) addJoin(kind JoinKind, src Source, on Expression) *Builder {
	if b.err != nil {
		return b
	}
	if len(b.sel.Tables) == 0 {
		b.err = fmt.Errorf("%s requires a preceding source", kind)
		return b
	}
	if kind != types.CrossJoin && on == nil {
		b.err = fmt.Errorf("%s requires an ON condition", kind)
		return b
	}
	b.sel.Tables = append(b.sel.Tables, types.Join{Kind: kind, Source: src, On: on})
	return b
}

// Where sets or adds conditions. Repeated calls are combined with AND.
func (b *Builder) Where(condition Expression) *Builder {
	if b.err != nil {
		return b
	}
	b.sel.Predicate = And(b.sel.Predicate, condition)
	return b
}

// GroupBy adds grouping expressions.
func (b *Builder) GroupBy(exprs ...Expression) *Builder {
	if b.err != nil {
		return b
	}
	b.sel.GroupBy = append(b.sel.GroupBy, exprs...)
	return b
}

// Having sets or adds group conditions.
func (b *Builder) Having(condition Expression) *Builder {
	if b.err != nil {
		return b
	}
	if len(b.sel.GroupBy) == 0 {
		b.err = fmt.Errorf("Having() requires GroupBy()")
		return b
	}
	b.sel.Having = And(b.sel.Having, condition)
	return b
}

// OrderBy adds ascending orderings.
func (b *Builder) OrderBy(exprs ...Expression) *Builder {
	if b.err != nil {
		return b
	}
	for _, e := range exprs {
		b.sel.Orderings = append(b.sel.Orderings, types.Ordering{Expr: e})
	}
	return b
}

// OrderByDesc adds descending orderings.
func (b *Builder) OrderByDesc(exprs ...Expression) *Builder {
	if b.err != nil {
		return b
	}
	for _, e := range exprs {
		b.sel.Orderings = append(b.sel.Orderings, types.Ordering{Expr: e, Descending: true})
	}
	return b
}

// Limit caps the number of rows.
func (b *Builder) Limit(e Expression) *Builder {
	if b.err != nil {
		return b
	}
	b.sel.Limit = e
	return b
}

// Offset skips rows.
func (b *Builder) Offset(e Expression) *Builder {
	if b.err != nil {
		return b
	}
	b.sel.Offset = e
	return b
}

// As names the query so it can be used as a derived table.
func (b *Builder) As(alias string) *Builder {
	if b.err != nil {
		return b
	}
	if err := ValidateIdentifier(alias); err != nil {
		b.err = fmt.Errorf("As(): %w", err)
		return b
	}
	b.sel.Alias = alias
	return b
}

// Build returns the constructed query after structural validation.
func (b *Builder) Build() (*Select, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.sel.Validate(); err != nil {
		return nil, err
	}
	return b.sel, nil
}

// MustBuild returns the query or panics on error.
func (b *Builder) MustBuild() *Select {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// Render builds the query and renders it with r.
func (b *Builder) Render(r Renderer) (*QueryResult, error) {
	s, err := b.Build()
	if err != nil {
		return nil, err
	}
	return r.Render(s)
}

// MustRender renders the query or panics on error.
func (b *Builder) MustRender(r Renderer) *QueryResult {
	result, err := b.Render(r)
	if err != nil {
		panic(err)
	}
	return result
}
