package catalog_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/dbml"

	"github.com/zoobzio/dialectql/catalog"
	"github.com/zoobzio/dialectql/internal/types"
	"github.com/zoobzio/dialectql/mssql"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	project := dbml.NewProject("blogging")

	blogs := dbml.NewTable("Blogs")
	blogs.AddColumn(dbml.NewColumn("Id", "int"))
	blogs.AddColumn(dbml.NewColumn("Name", "nvarchar(100)"))
	blogs.AddColumn(dbml.NewColumn("Active", "bit"))
	project.AddTable(blogs)

	posts := dbml.NewTable("Posts")
	posts.AddColumn(dbml.NewColumn("Id", "bigint"))
	posts.AddColumn(dbml.NewColumn("BlogId", "int"))
	posts.AddColumn(dbml.NewColumn("Title", "nvarchar(max)"))
	project.AddTable(posts)

	cat, err := catalog.New(project, mssql.NewTypeMapper(nil))
	require.NoError(t, err)
	return cat
}

func TestNew(t *testing.T) {
	cat := testCatalog(t)
	assert.Equal(t, 2, cat.Tables())

	_, err := catalog.New(nil, nil)
	assert.Error(t, err)
}

func TestTablesAndColumns(t *testing.T) {
	cat := testCatalog(t)

	b := cat.T("Blogs", "b")
	assert.Equal(t, types.Table{Name: "Blogs", Alias: "b"}, b)

	name := cat.C(b, "Name")
	assert.Equal(t, types.Column{Table: "b", Name: "Name", Kind: types.KindString}, name)
	assert.Equal(t, types.KindBool, cat.C(b, "Active").Kind)
	assert.Equal(t, types.KindInt64, cat.C(cat.T("Posts", ""), "Id").Kind)
	assert.Equal(t, "Posts", cat.C(cat.T("Posts", ""), "Id").Table)

	_, err := cat.TryT("Users", "")
	assert.ErrorIs(t, err, catalog.ErrUnknownTable)
	_, err = cat.TryT("Blogs", "b; DROP")
	assert.Error(t, err)
	_, err = cat.TryC(b, "Missing")
	assert.ErrorIs(t, err, catalog.ErrUnknownColumn)

	assert.Panics(t, func() { cat.T("Users", "u") })
	assert.Panics(t, func() { cat.C(b, "Missing") })
}

func TestStoreColumn(t *testing.T) {
	cat := testCatalog(t)
	col, err := cat.StoreColumn("Posts", "Title")
	require.NoError(t, err)
	assert.Equal(t, "nvarchar(max)", col.StoreType)
	assert.Equal(t, types.KindString, col.Kind)
}

func TestValidateSelect(t *testing.T) {
	cat := testCatalog(t)
	b := cat.T("Blogs", "b")
	p := cat.T("Posts", "p")

	valid := &types.Select{
		Projection: []types.Projection{
			{Expr: cat.C(b, "Name")},
			{Expr: cat.C(p, "Title")},
		},
		Tables: []types.Source{b, types.Join{
			Source: p,
			Kind:   types.InnerJoin,
			On: types.Binary{
				Left:  cat.C(b, "Id"),
				Op:    types.OpEqual,
				Right: cat.C(p, "BlogId"),
			},
		}},
	}
	assert.NoError(t, cat.ValidateSelect(valid))

	invalid := &types.Select{
		Projection: []types.Projection{
			{Expr: types.Column{Table: "b", Name: "Missing"}},
			{Expr: types.Column{Table: "u", Name: "Id"}},
		},
		Tables: []types.Source{b, types.Table{Name: "Users", Alias: "u"}},
	}
	err := cat.ValidateSelect(invalid)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrUnknownColumn)
	assert.ErrorIs(t, err, catalog.ErrUnknownTable)
}

func TestValidateSelect_DerivedColumnsSkipped(t *testing.T) {
	cat := testCatalog(t)
	b := cat.T("Blogs", "b")
	inner := &types.Select{
		Projection: []types.Projection{{Expr: cat.C(b, "Name"), Alias: "Title"}},
		Tables:     []types.Source{b},
		Alias:      "t",
	}
	outer := &types.Select{
		Projection: []types.Projection{{Expr: types.Column{Table: "t", Name: "Title", Kind: types.KindString}}},
		Tables:     []types.Source{inner},
	}
	assert.NoError(t, cat.ValidateSelect(outer))
}

func TestValidateCommand(t *testing.T) {
	cat := testCatalog(t)
	cmd := &types.ModificationCommand{
		Table: "Blogs",
		State: types.Added,
		Columns: []types.ColumnModification{
			{ColumnName: "Name", IsWrite: true},
			{ColumnName: "Rating", IsWrite: true},
		},
	}
	err := cat.ValidateCommand(cmd)
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrUnknownColumn))
	assert.Contains(t, err.Error(), "Blogs.Rating")

	cmd.Columns = cmd.Columns[:1]
	assert.NoError(t, cat.ValidateCommand(cmd))

	cmd.Table = "Users"
	assert.ErrorIs(t, cat.ValidateCommand(cmd), catalog.ErrUnknownTable)
}
