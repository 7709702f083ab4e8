package mssql

import (
	"reflect"
	"strconv"

	"github.com/zoobzio/dialectql/diag"
	"github.com/zoobzio/dialectql/internal/render"
	"github.com/zoobzio/dialectql/internal/types"
)

// rowNumberColumn names the ranking column exposed by a paged subquery.
const rowNumberColumn = "__RowNumber__"

type pager struct {
	sink            diag.Sink
	rowNumberPaging bool
}

// prepare strips orderings from EXISTS subqueries that are not paged and,
// when enabled, rewrites every select carrying an offset into a ranked
// subquery filtered on the ranking column.
func (p pager) prepare(s *types.Select) (*types.Select, error) {
	return types.RewriteSelects(s, func(c *types.Select, pos types.Position) (*types.Select, error) {
		if pos == types.ExistsSubquery && c.Limit == nil && c.Offset == nil {
			c.Orderings = nil
		}
		if c.Offset == nil || !p.rowNumberPaging {
			return c, nil
		}
		return p.rowNumberPage(c, pos)
	})
}

// rowNumberPage pushes s down into a subquery that projects
// ROW_NUMBER() over the original ordering, and filters the outer query to
// the requested window:
//
//	SELECT [t].[Id]
//	FROM (
//	    SELECT [b].[Id], ROW_NUMBER() OVER(ORDER BY [b].[Id]) AS [__RowNumber__]
//	    FROM [Blogs] AS [b]
//	) AS [t]
//	WHERE [t].[__RowNumber__] > @p0 AND [t].[__RowNumber__] <= @p0 + @p1
//	ORDER BY [t].[__RowNumber__]
func (p pager) rowNumberPage(s *types.Select, pos types.Position) (*types.Select, error) {
	if s.StarOf != "" {
		return nil, render.NewUnsupportedFeatureError(Name, "OFFSET over a star projection with row number paging",
			"project the columns explicitly or disable row_number_paging")
	}
	used := types.Aliases(s)

	source := s.Clone()
	source.Alias = ""
	source.Orderings, source.Limit, source.Offset = nil, nil, nil
	orderings := s.Orderings

	if s.Distinct {
		var err error
		if source, orderings, err = pushDistinct(source, orderings, used); err != nil {
			return nil, err
		}
	}

	source.Alias = uniqueAlias(used, "t")
	projection := expose(source)
	rn := rowNumberColumn
	for taken := projectionNames(source); taken[rn]; {
		rn = "_" + rn
	}
	source.Projection = append(source.Projection, types.Projection{
		Expr:  types.RowNumber{Orderings: orderings},
		Alias: rn,
	})

	ranking := types.Column{Table: source.Alias, Name: rn, Kind: types.KindInt64}
	var predicate types.Expression
	if s.Offset != nil {
		predicate = types.Binary{Left: ranking, Op: types.OpGreaterThan, Right: s.Offset}
	}
	if s.Limit != nil {
		upper := types.Binary{Left: ranking, Op: types.OpLessThanOrEqual, Right: windowEnd(s.Offset, s.Limit)}
		if predicate == nil {
			predicate = upper
		} else {
			predicate = types.Binary{Left: predicate, Op: types.OpAndAlso, Right: upper}
		}
	}

	outer := &types.Select{
		Projection: projection,
		Tables:     []types.Source{source},
		Predicate:  predicate,
		Alias:      s.Alias,
	}
	// ORDER BY is only valid on the outermost query.
	if pos == types.RootSelect {
		outer.Orderings = []types.Ordering{{Expr: ranking}}
	}
	p.sink.Emit(diag.New(diag.Debug, diag.RowNumberPagingUsed, "offset emulated with ROW_NUMBER paging",
		"alias", source.Alias, "orderings", len(orderings)))
	return outer, nil
}

// pushDistinct wraps a DISTINCT select so the ranking column is computed
// over distinct rows. Orderings must reference projected expressions.
func pushDistinct(s *types.Select, orderings []types.Ordering, used map[string]bool) (*types.Select, []types.Ordering, error) {
	original := append([]types.Projection(nil), s.Projection...)
	s.Alias = uniqueAlias(used, "t")
	wrapper := &types.Select{Projection: expose(s), Tables: []types.Source{s}}

	remapped := make([]types.Ordering, 0, len(orderings))
	for _, o := range orderings {
		i := indexOf(original, o.Expr)
		if i < 0 {
			return nil, nil, render.NewUnsupportedFeatureError(Name, "DISTINCT with OFFSET ordered by an unprojected expression",
				"add the ordering expression to the projection")
		}
		remapped = append(remapped, types.Ordering{
			Expr:       types.Column{Table: s.Alias, Name: s.Projection[i].Alias, Kind: o.Expr.Type()},
			Descending: o.Descending,
		})
	}
	return wrapper, remapped, nil
}

func indexOf(projection []types.Projection, e types.Expression) int {
	for i, p := range projection {
		if reflect.DeepEqual(p.Expr, e) {
			return i
		}
	}
	if c, ok := e.(types.Column); ok && c.Table == "" {
		for i, p := range projection {
			if p.Alias == c.Name {
				return i
			}
		}
	}
	return -1
}

// expose gives every projection of s a unique name and returns the outer
// projection that reads them back under their original names.
// Unnamed expressions are exposed as c, c0, c1 ...
func expose(s *types.Select) []types.Projection {
	seen := make(map[string]bool, len(s.Projection))
	outer := make([]types.Projection, 0, len(s.Projection))
	for i, p := range s.Projection {
		output := p.Alias
		if output == "" {
			if c, ok := p.Expr.(types.Column); ok {
				output = c.Name
			}
		}
		base := output
		if base == "" {
			base = "c"
		}
		name := base
		for n := 0; seen[name]; n++ {
			name = base + strconv.Itoa(n)
		}
		seen[name] = true
		s.Projection[i].Alias = name

		o := types.Projection{Expr: types.Column{Table: s.Alias, Name: name, Kind: p.Expr.Type()}}
		if output != "" && output != name {
			o.Alias = output
		}
		outer = append(outer, o)
	}
	return outer
}

func projectionNames(s *types.Select) map[string]bool {
	names := make(map[string]bool, len(s.Projection))
	for _, p := range s.Projection {
		names[p.Alias] = true
	}
	return names
}

func uniqueAlias(used map[string]bool, base string) string {
	name := base
	for n := 0; used[name]; n++ {
		name = base + strconv.Itoa(n)
	}
	used[name] = true
	return name
}

// windowEnd returns offset + limit, folded when both are integer literals.
func windowEnd(offset, limit types.Expression) types.Expression {
	if offset == nil {
		return limit
	}
	o, ok1 := intLiteral(offset)
	l, ok2 := intLiteral(limit)
	if ok1 && ok2 {
		return types.Literal{Value: o + l, Kind: types.KindInt64}
	}
	return types.Binary{Left: offset, Op: types.OpAdd, Right: limit}
}

func intLiteral(e types.Expression) (int64, bool) {
	l, ok := e.(types.Literal)
	if !ok {
		return 0, false
	}
	switch v := l.Value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case int16:
		return int64(v), true
	case uint8:
		return int64(v), true
	}
	return 0, false
}
