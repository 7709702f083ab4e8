package dialectql_test

import (
	"strings"
	"testing"

	"github.com/zoobzio/dialectql"
	"github.com/zoobzio/dialectql/mssql"
	"github.com/zoobzio/dialectql/oracle"
	dqltest "github.com/zoobzio/dialectql/testing"
)

func blogs() dialectql.Table {
	return dialectql.T("Blogs", "b")
}

func TestFrom(t *testing.T) {
	b := blogs()
	query, err := dialectql.From(b).Build()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(query.Tables) != 1 {
		t.Fatalf("Expected 1 source, got %d", len(query.Tables))
	}
	if query.Tables[0] != b {
		t.Errorf("Expected source %v, got %v", b, query.Tables[0])
	}
}

func TestFrom_NilSource(t *testing.T) {
	_, err := dialectql.From(nil).Build()
	if err == nil {
		t.Fatal("Expected error for nil source")
	}
}

func TestBuilder_Render(t *testing.T) {
	b := blogs()
	builder := dialectql.From(b).
		Select(dialectql.C(b, "Id", dialectql.KindInt32), dialectql.C(b, "Name", dialectql.KindString)).
		Where(dialectql.Gt(dialectql.C(b, "Rating", dialectql.KindInt32), dialectql.P("min", dialectql.KindInt32))).
		OrderBy(dialectql.C(b, "Name", dialectql.KindString)).
		Limit(dialectql.P("take", dialectql.KindInt32))

	tests := []struct {
		name     string
		renderer dialectql.Renderer
		sql      string
		params   []string
	}{
		{
			name:     "mssql",
			renderer: mssql.New(),
			sql: "SELECT TOP(@take) [b].[Id], [b].[Name]\n" +
				"FROM [Blogs] AS [b]\n" +
				"WHERE [b].[Rating] > @min\n" +
				"ORDER BY [b].[Name]",
			params: []string{"take", "min"},
		},
		{
			name:     "oracle",
			renderer: oracle.New(),
			sql: `SELECT "b"."Id", "b"."Name"` + "\n" +
				`FROM "Blogs" "b"` + "\n" +
				`WHERE "b"."Rating" > :min` + "\n" +
				`ORDER BY "b"."Name"` + "\n" +
				"FETCH FIRST :take ROWS ONLY",
			params: []string{"min", "take"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := builder.Render(tt.renderer)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			dqltest.AssertSQL(t, tt.sql, result.SQL)
			dqltest.AssertParams(t, tt.params, result.Parameters)
		})
	}
}

func TestBuilder_WhereCombinesWithAnd(t *testing.T) {
	b := blogs()
	query := dialectql.From(b).
		Where(dialectql.Eq(dialectql.C(b, "Active", dialectql.KindBool), dialectql.Lit(true))).
		Where(dialectql.IsNotNull(dialectql.C(b, "Name", dialectql.KindString))).
		MustBuild()

	bin, ok := query.Predicate.(dialectql.Binary)
	if !ok {
		t.Fatalf("Expected Binary predicate, got %T", query.Predicate)
	}
	if bin.Op != dialectql.OpAndAlso {
		t.Errorf("Expected AndAlso, got %s", bin.Op)
	}
}

func TestBuilder_Joins(t *testing.T) {
	b := blogs()
	p := dialectql.T("Posts", "p")
	result := dialectql.From(b).
		Select(dialectql.C(b, "Name", dialectql.KindString), dialectql.C(p, "Title", dialectql.KindString)).
		LeftJoin(p, dialectql.Eq(dialectql.C(b, "Id", dialectql.KindInt32), dialectql.C(p, "BlogId", dialectql.KindInt32))).
		MustRender(mssql.New())

	expected := "SELECT [b].[Name], [p].[Title]\nFROM [Blogs] AS [b]\nLEFT JOIN [Posts] AS [p] ON [b].[Id] = [p].[BlogId]"
	dqltest.AssertSQL(t, expected, result.SQL)
}

func TestBuilder_Errors(t *testing.T) {
	b := blogs()
	id := dialectql.C(b, "Id", dialectql.KindInt32)

	tests := []struct {
		name    string
		builder *dialectql.Builder
		substr  string
	}{
		{"join without ON", dialectql.From(b).InnerJoin(dialectql.T("Posts", "p"), nil), "ON condition"},
		{"join without source", dialectql.From().CrossJoin(b), "preceding source"},
		{"having without group", dialectql.From(b).Having(dialectql.Gt(id, dialectql.Lit(1))), "GroupBy"},
		{"star after select", dialectql.From(b).Select(id).Star("b"), "Star()"},
		{"select after star", dialectql.From(b).Star("b").Select(id), "Star()"},
		{"bad alias", dialectql.From(b).SelectAs(id, "x; DROP"), "invalid identifier"},
		{"bad derived alias", dialectql.From(b).As("a b"), "invalid identifier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			dqltest.AssertErrorContains(t, err, tt.substr)
		})
	}
}

func TestBuilder_ErrorShortCircuits(t *testing.T) {
	b := blogs()
	builder := dialectql.From(b).Having(dialectql.Lit(true)).Distinct().Limit(dialectql.Lit(1))
	if builder.GetError() == nil {
		t.Fatal("Expected recorded error")
	}
	if builder.GetSelect().Distinct {
		t.Error("Expected builder to stop after the first error")
	}
}

func TestBuilder_DerivedTable(t *testing.T) {
	b := blogs()
	inner := dialectql.From(b).
		SelectAs(dialectql.C(b, "Name", dialectql.KindString), "Title").
		As("t").
		MustBuild()
	result := dialectql.From(inner).
		Select(dialectql.Ref("t", "Title", dialectql.KindString)).
		MustRender(mssql.New())

	expected := "SELECT [t].[Title]\nFROM (\n    SELECT [b].[Name] AS [Title]\n    FROM [Blogs] AS [b]\n) AS [t]"
	dqltest.AssertSQL(t, expected, result.SQL)
}

func TestBuilder_GroupByHaving(t *testing.T) {
	p := dialectql.T("Posts", "p")
	blogID := dialectql.C(p, "BlogId", dialectql.KindInt32)
	count := dialectql.Fn("COUNT", dialectql.KindInt32, dialectql.Fragment{Text: "*"})
	result := dialectql.From(p).
		Select(blogID).
		SelectAs(count, "Posts").
		GroupBy(blogID).
		Having(dialectql.Gt(count, dialectql.Lit(int32(5)))).
		MustRender(mssql.New())

	if !strings.Contains(result.SQL, "GROUP BY [p].[BlogId]\nHAVING COUNT(*) > 5") {
		t.Errorf("Unexpected SQL:\n%s", result.SQL)
	}
}

func TestBuilder_Pagination(t *testing.T) {
	b := blogs()
	result := dialectql.From(b).
		Select(dialectql.C(b, "Id", dialectql.KindInt32)).
		OrderByDesc(dialectql.C(b, "Id", dialectql.KindInt32)).
		Offset(dialectql.P("skip", dialectql.KindInt32)).
		Limit(dialectql.P("take", dialectql.KindInt32)).
		MustRender(oracle.New())

	expected := `SELECT "b"."Id"` + "\n" + `FROM "Blogs" "b"` + "\n" + `ORDER BY "b"."Id" DESC` + "\n" +
		"OFFSET :skip ROWS FETCH NEXT :take ROWS ONLY"
	dqltest.AssertSQL(t, expected, result.SQL)
}
