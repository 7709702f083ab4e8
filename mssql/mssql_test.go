package mssql

import (
	"errors"
	"strings"
	"testing"

	"github.com/zoobzio/dialectql/diag"
	"github.com/zoobzio/dialectql/internal/render"
	"github.com/zoobzio/dialectql/internal/types"
	dqltest "github.com/zoobzio/dialectql/testing"
)

func blogs() types.Table {
	return types.Table{Name: "Blogs", Alias: "b"}
}

func col(name string, kind types.Kind) types.Column {
	return types.Column{Table: "b", Name: name, Kind: kind}
}

func lit(v int) types.Literal {
	return types.Literal{Value: v, Kind: types.KindInt32}
}

func param(name string) types.Parameter {
	return types.Parameter{Name: name, Kind: types.KindInt32}
}

func render1(t *testing.T, r *Renderer, s *types.Select) *types.QueryResult {
	t.Helper()
	result, err := r.Render(s)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return result
}

func TestNew(t *testing.T) {
	r := New()
	if r == nil {
		t.Fatal("New() returned nil")
	}
	caps := r.Capabilities()
	if !caps.Top || !caps.RowNumberPaging || !caps.Merge || caps.BooleanType {
		t.Errorf("unexpected capabilities %+v", caps)
	}
	if caps.MaxParameters != DefaultMaxParameters {
		t.Errorf("MaxParameters = %d, want %d", caps.MaxParameters, DefaultMaxParameters)
	}
	if New(WithMaxParameters(100)).Capabilities().MaxParameters != 100 {
		t.Error("WithMaxParameters not applied")
	}
}

func TestRender_SimpleSelect(t *testing.T) {
	s := &types.Select{
		Projection: []types.Projection{{Expr: col("Id", types.KindInt32)}, {Expr: col("Name", types.KindString)}},
		Tables:     []types.Source{blogs()},
	}
	result := render1(t, New(), s)
	dqltest.AssertSQL(t, "SELECT [b].[Id], [b].[Name]\nFROM [Blogs] AS [b]", result.SQL)
}

func TestRender_QuoteIdentifier(t *testing.T) {
	if got := quoteIdentifier("we]ird"); got != "[we]]ird]" {
		t.Errorf("quoteIdentifier = %s", got)
	}
}

func TestRender_TopForLimitOnly(t *testing.T) {
	s := &types.Select{
		Projection: []types.Projection{{Expr: col("Id", types.KindInt32)}},
		Tables:     []types.Source{blogs()},
		Limit:      param("p0"),
	}
	result := render1(t, New(), s)
	dqltest.AssertSQL(t, "SELECT TOP(@p0) [b].[Id]\nFROM [Blogs] AS [b]", result.SQL)
	dqltest.AssertParams(t, []string{"p0"}, result.Parameters)
}

func TestRender_RowNumberPaging(t *testing.T) {
	s := &types.Select{
		Projection: []types.Projection{{Expr: col("Id", types.KindInt32)}, {Expr: col("Name", types.KindString)}},
		Tables:     []types.Source{blogs()},
		Orderings:  []types.Ordering{{Expr: col("Name", types.KindString)}},
		Offset:     param("p0"),
		Limit:      param("p1"),
	}
	rec := &diag.Recorder{}
	result := render1(t, New(WithSink(rec)), s)

	expected := `SELECT [t].[Id], [t].[Name]
FROM (
    SELECT [b].[Id], [b].[Name], ROW_NUMBER() OVER(ORDER BY [b].[Name]) AS [__RowNumber__]
    FROM [Blogs] AS [b]
) AS [t]
WHERE [t].[__RowNumber__] > @p0 AND [t].[__RowNumber__] <= @p0 + @p1
ORDER BY [t].[__RowNumber__]`
	dqltest.AssertSQL(t, expected, result.SQL)
	dqltest.AssertParams(t, []string{"p0", "p1"}, result.Parameters)

	if codes := rec.Codes(); len(codes) != 1 || codes[0] != diag.RowNumberPagingUsed {
		t.Errorf("diagnostics = %v", codes)
	}
	if s.Offset == nil || s.Orderings == nil || len(s.Projection) != 2 {
		t.Error("Render modified its input")
	}
}

func TestRender_RowNumberPaging_FoldsLiterals(t *testing.T) {
	s := &types.Select{
		Projection: []types.Projection{{Expr: col("Id", types.KindInt32)}},
		Tables:     []types.Source{blogs()},
		Offset:     lit(10),
		Limit:      lit(5),
	}
	expected := `SELECT [t].[Id]
FROM (
    SELECT [b].[Id], ROW_NUMBER() OVER(ORDER BY (SELECT 1)) AS [__RowNumber__]
    FROM [Blogs] AS [b]
) AS [t]
WHERE [t].[__RowNumber__] > 10 AND [t].[__RowNumber__] <= 15
ORDER BY [t].[__RowNumber__]`
	dqltest.AssertSQL(t, expected, render1(t, New(), s).SQL)
}

func TestRender_RowNumberPaging_OffsetOnly(t *testing.T) {
	s := &types.Select{
		Projection: []types.Projection{{Expr: col("Id", types.KindInt32)}},
		Tables:     []types.Source{blogs()},
		Orderings:  []types.Ordering{{Expr: col("Id", types.KindInt32), Descending: true}},
		Offset:     lit(3),
	}
	expected := `SELECT [t].[Id]
FROM (
    SELECT [b].[Id], ROW_NUMBER() OVER(ORDER BY [b].[Id] DESC) AS [__RowNumber__]
    FROM [Blogs] AS [b]
) AS [t]
WHERE [t].[__RowNumber__] > 3
ORDER BY [t].[__RowNumber__]`
	dqltest.AssertSQL(t, expected, render1(t, New(), s).SQL)
}

func TestRender_RowNumberPaging_UniqueNames(t *testing.T) {
	s := &types.Select{
		Projection: []types.Projection{
			{Expr: col("Id", types.KindInt32)},
			{Expr: types.Column{Table: "p", Name: "Id", Kind: types.KindInt32}},
			{Expr: types.Binary{Left: col("Rating", types.KindInt32), Op: types.OpAdd, Right: lit(1)}},
		},
		Tables: []types.Source{
			blogs(),
			types.Join{
				Kind:   types.InnerJoin,
				Source: types.Table{Name: "Posts", Alias: "p"},
				On:     types.Binary{Left: types.Column{Table: "p", Name: "BlogId", Kind: types.KindInt32}, Op: types.OpEqual, Right: col("Id", types.KindInt32)},
			},
		},
		Offset: lit(1),
	}
	expected := `SELECT [t].[Id], [t].[Id0] AS [Id], [t].[c]
FROM (
    SELECT [b].[Id], [p].[Id] AS [Id0], [b].[Rating] + 1 AS [c], ROW_NUMBER() OVER(ORDER BY (SELECT 1)) AS [__RowNumber__]
    FROM [Blogs] AS [b]
    INNER JOIN [Posts] AS [p] ON [p].[BlogId] = [b].[Id]
) AS [t]
WHERE [t].[__RowNumber__] > 1
ORDER BY [t].[__RowNumber__]`
	dqltest.AssertSQL(t, expected, render1(t, New(), s).SQL)
}

func TestRender_RowNumberPaging_Distinct(t *testing.T) {
	s := &types.Select{
		Distinct:   true,
		Projection: []types.Projection{{Expr: col("Id", types.KindInt32)}, {Expr: col("Name", types.KindString)}},
		Tables:     []types.Source{blogs()},
		Orderings:  []types.Ordering{{Expr: col("Name", types.KindString)}},
		Offset:     lit(1),
		Limit:      lit(2),
	}
	expected := `SELECT [t0].[Id], [t0].[Name]
FROM (
    SELECT [t].[Id], [t].[Name], ROW_NUMBER() OVER(ORDER BY [t].[Name]) AS [__RowNumber__]
    FROM (
        SELECT DISTINCT [b].[Id], [b].[Name]
        FROM [Blogs] AS [b]
    ) AS [t]
) AS [t0]
WHERE [t0].[__RowNumber__] > 1 AND [t0].[__RowNumber__] <= 3
ORDER BY [t0].[__RowNumber__]`
	dqltest.AssertSQL(t, expected, render1(t, New(), s).SQL)
}

func TestRender_RowNumberPaging_DistinctUnprojectedOrdering(t *testing.T) {
	s := &types.Select{
		Distinct:   true,
		Projection: []types.Projection{{Expr: col("Id", types.KindInt32)}},
		Tables:     []types.Source{blogs()},
		Orderings:  []types.Ordering{{Expr: col("Name", types.KindString)}},
		Offset:     lit(1),
	}
	_, err := New().Render(s)
	var unsupported render.UnsupportedFeatureError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedFeatureError, got %v", err)
	}
}

func TestRender_RowNumberPaging_StarProjection(t *testing.T) {
	s := &types.Select{StarOf: "b", Tables: []types.Source{blogs()}, Offset: lit(1)}
	_, err := New().Render(s)
	dqltest.AssertErrorContains(t, err, "star projection")

	result := render1(t, New(WithRowNumberPaging(false)), s)
	dqltest.AssertSQL(t, "SELECT [b].*\nFROM [Blogs] AS [b]\nORDER BY (SELECT 1)\nOFFSET 1 ROWS", result.SQL)
}

func TestRender_RowNumberPaging_DerivedTable(t *testing.T) {
	inner := &types.Select{
		Projection: []types.Projection{{Expr: col("Id", types.KindInt32)}},
		Tables:     []types.Source{blogs()},
		Orderings:  []types.Ordering{{Expr: col("Id", types.KindInt32)}},
		Offset:     lit(2),
		Limit:      lit(2),
		Alias:      "sub",
	}
	s := &types.Select{
		Projection: []types.Projection{{Expr: types.Column{Table: "sub", Name: "Id", Kind: types.KindInt32}}},
		Tables:     []types.Source{inner},
	}
	expected := `SELECT [sub].[Id]
FROM (
    SELECT [t].[Id]
    FROM (
        SELECT [b].[Id], ROW_NUMBER() OVER(ORDER BY [b].[Id]) AS [__RowNumber__]
        FROM [Blogs] AS [b]
    ) AS [t]
    WHERE [t].[__RowNumber__] > 2 AND [t].[__RowNumber__] <= 4
) AS [sub]`
	dqltest.AssertSQL(t, expected, render1(t, New(), s).SQL)
}

func TestRender_OffsetFetchWhenPagingDisabled(t *testing.T) {
	s := &types.Select{
		Projection: []types.Projection{{Expr: col("Id", types.KindInt32)}},
		Tables:     []types.Source{blogs()},
		Offset:     param("p0"),
		Limit:      param("p1"),
	}
	expected := "SELECT [b].[Id]\nFROM [Blogs] AS [b]\nORDER BY (SELECT 1)\nOFFSET @p0 ROWS FETCH NEXT @p1 ROWS ONLY"
	dqltest.AssertSQL(t, expected, render1(t, New(WithRowNumberPaging(false)), s).SQL)
}

func TestRender_ExistsDropsOrdering(t *testing.T) {
	posts := types.Table{Name: "Posts", Alias: "p"}
	sub := &types.Select{
		Tables:    []types.Source{posts},
		Predicate: types.Binary{Left: types.Column{Table: "p", Name: "BlogId", Kind: types.KindInt32}, Op: types.OpEqual, Right: col("Id", types.KindInt32)},
		Orderings: []types.Ordering{{Expr: types.Column{Table: "p", Name: "Id", Kind: types.KindInt32}}},
	}
	s := &types.Select{
		Projection: []types.Projection{{Expr: col("Id", types.KindInt32)}},
		Tables:     []types.Source{blogs()},
		Predicate:  types.Exists{Subquery: sub},
	}
	expected := `SELECT [b].[Id]
FROM [Blogs] AS [b]
WHERE EXISTS (
    SELECT 1
    FROM [Posts] AS [p]
    WHERE [p].[BlogId] = [b].[Id])`
	dqltest.AssertSQL(t, expected, render1(t, New(), s).SQL)
	if len(sub.Orderings) != 1 {
		t.Error("Render modified the subquery")
	}

	// A paged EXISTS subquery keeps its ordering.
	sub.Limit = lit(1)
	result := render1(t, New(), s)
	if want := "ORDER BY [p].[Id]"; !strings.Contains(result.SQL, want) {
		t.Errorf("expected %q in:\n%s", want, result.SQL)
	}
}

func TestRender_Booleans(t *testing.T) {
	s := &types.Select{
		Projection: []types.Projection{
			{Expr: types.Literal{Value: true, Kind: types.KindBool}, Alias: "Flag"},
			{Expr: types.Binary{Left: col("Rating", types.KindInt32), Op: types.OpGreaterThan, Right: lit(3)}, Alias: "Good"},
		},
		Tables:    []types.Source{blogs()},
		Predicate: col("Active", types.KindBool),
	}
	expected := "SELECT CAST(1 AS bit) AS [Flag], CASE WHEN [b].[Rating] > 3 THEN CAST(1 AS bit) ELSE CAST(0 AS bit) END AS [Good]\n" +
		"FROM [Blogs] AS [b]\nWHERE [b].[Active] = 1"
	dqltest.AssertSQL(t, expected, render1(t, New(), s).SQL)
}

func TestRender_NoFromClause(t *testing.T) {
	result := render1(t, New(), &types.Select{})
	dqltest.AssertSQL(t, "SELECT 1", result.SQL)
}

func TestRender_OperatorsAndLiterals(t *testing.T) {
	r := New()
	tests := []struct {
		name string
		expr types.Expression
		want string
	}{
		{"concat", types.Binary{Left: col("Name", types.KindString), Op: types.OpAdd, Right: types.Literal{Value: "!", Kind: types.KindString}}, "[b].[Name] + N'!'"},
		{"bitwise and", types.Binary{Left: col("Flags", types.KindInt32), Op: types.OpAnd, Right: lit(4)}, "[b].[Flags] & 4"},
		{"bitwise or", types.Binary{Left: col("Flags", types.KindInt32), Op: types.OpOr, Right: lit(4)}, "[b].[Flags] | 4"},
		{"modulo", types.Binary{Left: col("Flags", types.KindInt32), Op: types.OpModulo, Right: lit(4)}, "[b].[Flags] % 4"},
		{"quote doubling", types.Literal{Value: "O'Brien", Kind: types.KindString}, "N'O''Brien'"},
		{"untyped literal", types.Literal{Value: int64(7)}, "7"},
		{"coalesce", types.Binary{Left: col("Name", types.KindString), Op: types.OpCoalesce, Right: types.Literal{Value: "", Kind: types.KindString}}, "COALESCE([b].[Name], N'')"},
		{"int average", types.FunctionCall{Name: "AVG", Args: []types.Expression{col("Rating", types.KindInt32)}, Kind: types.KindInt32}, "AVG(CAST([b].[Rating] AS float))"},
		{"decimal average", types.FunctionCall{Name: "AVG", Args: []types.Expression{col("Price", types.KindDecimal)}, Kind: types.KindDecimal}, "CAST(AVG([b].[Price]) AS decimal(18, 2))"},
		{"cast function", types.FunctionCall{Name: "CAST", Args: []types.Expression{col("Rating", types.KindInt32), types.Fragment{Text: "bigint"}}, Kind: types.KindInt64}, "CAST([b].[Rating] AS bigint)"},
		{"extract", types.FunctionCall{Name: "EXTRACT", Args: []types.Expression{types.Fragment{Text: "YEAR"}, col("Created", types.KindDateTime)}, Kind: types.KindInt32}, "DATEPART(year, [b].[Created])"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := r.RenderExpression(tt.expr)
			if err != nil {
				t.Fatalf("RenderExpression() error = %v", err)
			}
			dqltest.AssertSQL(t, tt.want, result.SQL)
		})
	}
}

func TestRender_UnsupportedMember(t *testing.T) {
	s := &types.Select{
		Projection: []types.Projection{{Expr: types.MemberAccess{Instance: col("Name", types.KindString), Declaring: "String", Member: "Soundex", Kind: types.KindString}}},
		Tables:     []types.Source{blogs()},
	}
	_, err := New().Render(s)
	var unsupported render.UnsupportedExpressionError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedExpressionError, got %v", err)
	}
	dqltest.AssertErrorContains(t, err, "String.Soundex")
}

func TestRender_MissingOperand(t *testing.T) {
	s := &types.Select{
		Projection: []types.Projection{{Expr: col("Id", types.KindInt32)}},
		Tables:     []types.Source{blogs()},
		Predicate:  types.Binary{Left: col("Active", types.KindBool), Op: types.OpAnd},
	}
	_, err := New().Render(s)
	dqltest.AssertErrorContains(t, err, "And is missing an operand")
}

func TestRender_Deterministic(t *testing.T) {
	s := &types.Select{
		Projection: []types.Projection{{Expr: col("Id", types.KindInt32)}},
		Tables:     []types.Source{blogs()},
		Predicate:  types.In{Operand: col("Id", types.KindInt32), Values: []types.Expression{param("a"), param("b")}},
		Orderings:  []types.Ordering{{Expr: col("Id", types.KindInt32)}},
		Offset:     param("o"),
		Limit:      param("l"),
	}
	r := New()
	first := render1(t, r, s)
	for i := 0; i < 5; i++ {
		again := render1(t, r, s)
		if again.SQL != first.SQL {
			t.Fatalf("render %d differs:\n%s\n---\n%s", i, again.SQL, first.SQL)
		}
		dqltest.AssertParams(t, first.Parameters, again.Parameters)
	}
	dqltest.AssertParams(t, []string{"a", "b", "o", "l"}, first.Parameters)
}
