package mssql

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zoobzio/dialectql/internal/types"
	dqltest "github.com/zoobzio/dialectql/testing"
)

const pagedRows = 10

func seedItems(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`CREATE TABLE Items (Id INTEGER PRIMARY KEY, Name TEXT NOT NULL)`)
	require.NoError(t, err)
	// Insert in reverse so storage order differs from key order.
	for i := pagedRows; i >= 1; i-- {
		_, err := db.Exec(`INSERT INTO Items (Id, Name) VALUES (?, ?)`, i, fmt.Sprintf("item-%02d", i))
		require.NoError(t, err)
	}
}

func queryIDs(t *testing.T, db *sql.DB, query string) []int {
	t.Helper()
	rows, err := db.Query(query)
	require.NoError(t, err, query)
	defer rows.Close()
	var ids []int
	for rows.Next() {
		var id int
		require.NoError(t, rows.Scan(&id))
		ids = append(ids, id)
	}
	require.NoError(t, rows.Err())
	return ids
}

// The ranked window must return exactly the rows LIMIT/OFFSET returns.
func TestRowNumberPaging_MatchesLimitOffset(t *testing.T) {
	db := dqltest.ReferenceDB(t)
	seedItems(t, db)
	r := New()

	items := types.Table{Name: "Items", Alias: "i"}
	id := types.Column{Table: "i", Name: "Id", Kind: types.KindInt32}

	for _, offset := range []int{0, pagedRows / 2, pagedRows, pagedRows + 5} {
		for _, limit := range []int{0, 1, pagedRows} {
			t.Run(fmt.Sprintf("offset=%d/limit=%d", offset, limit), func(t *testing.T) {
				s := &types.Select{
					Projection: []types.Projection{{Expr: id}},
					Tables:     []types.Source{items},
					Orderings:  []types.Ordering{{Expr: id, Descending: true}},
					Offset:     lit(offset),
					Limit:      lit(limit),
				}
				result, err := r.Render(s)
				require.NoError(t, err)

				got := queryIDs(t, db, result.SQL)
				want := queryIDs(t, db, fmt.Sprintf("SELECT Id FROM Items ORDER BY Id DESC LIMIT %d OFFSET %d", limit, offset))
				require.Equal(t, want, got, result.SQL)
			})
		}
	}
}

func TestRowNumberPaging_OffsetOnlyMatches(t *testing.T) {
	db := dqltest.ReferenceDB(t)
	seedItems(t, db)

	id := types.Column{Table: "i", Name: "Id", Kind: types.KindInt32}
	s := &types.Select{
		Projection: []types.Projection{{Expr: id}},
		Tables:     []types.Source{types.Table{Name: "Items", Alias: "i"}},
		Orderings:  []types.Ordering{{Expr: id}},
		Offset:     lit(7),
	}
	result, err := New().Render(s)
	require.NoError(t, err)
	require.Equal(t, []int{8, 9, 10}, queryIDs(t, db, result.SQL))
}

func TestRowNumberPaging_DistinctMatches(t *testing.T) {
	db := dqltest.ReferenceDB(t)
	_, err := db.Exec(`CREATE TABLE Tags (Name TEXT NOT NULL)`)
	require.NoError(t, err)
	for _, name := range []string{"go", "sql", "go", "db", "sql", "api"} {
		_, err := db.Exec(`INSERT INTO Tags (Name) VALUES (?)`, name)
		require.NoError(t, err)
	}

	name := types.Column{Table: "g", Name: "Name", Kind: types.KindString}
	s := &types.Select{
		Distinct:   true,
		Projection: []types.Projection{{Expr: name}},
		Tables:     []types.Source{types.Table{Name: "Tags", Alias: "g"}},
		Orderings:  []types.Ordering{{Expr: name}},
		Offset:     lit(1),
		Limit:      lit(2),
	}
	result, err := New().Render(s)
	require.NoError(t, err)

	rows, err := db.Query(result.SQL)
	require.NoError(t, err, result.SQL)
	defer rows.Close()
	var got []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		got = append(got, n)
	}
	require.NoError(t, rows.Err())
	require.Equal(t, []string{"db", "go"}, got)
}
