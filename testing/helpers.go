// Package testing provides test utilities for dialectql.
package testing

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"modernc.org/sqlite"

	"github.com/zoobzio/dialectql/internal/types"
)

// AssertSQL compares expected and actual SQL, reporting detailed differences.
func AssertSQL(t *testing.T, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("SQL mismatch:\nExpected:\n%s\nActual:\n%s", expected, actual)
	}
}

// AssertParams checks that parameters were bound in the expected order.
func AssertParams(t *testing.T, expected, actual []string) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Errorf("Param count mismatch: expected %d, got %d\nExpected: %v\nActual: %v",
			len(expected), len(actual), expected, actual)
		return
	}
	for i := range expected {
		if expected[i] != actual[i] {
			t.Errorf("Param %d: expected %q, got %q\nExpected: %v\nActual: %v", i, expected[i], actual[i], expected, actual)
		}
	}
}

// AssertErrorContains checks that error message contains substring.
func AssertErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error containing %q but got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("Expected error containing %q, got: %v", substr, err)
	}
}

// AssertGolden compares SQL against testdata/golden/<name>.golden.
// Run the tests with -update to rewrite the files.
func AssertGolden(t *testing.T, name, sql string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(sql))
}

var registerFunctions sync.Once

// ReferenceDB opens an in-memory SQLite database used as a reference
// engine. It provides BITAND and a one-row DUAL table so Oracle-style
// expressions can be evaluated.
func ReferenceDB(t *testing.T) *sql.DB {
	t.Helper()
	registerFunctions.Do(func() {
		sqlite.MustRegisterDeterministicScalarFunction("BITAND", 2,
			func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				a, ok1 := args[0].(int64)
				b, ok2 := args[1].(int64)
				if !ok1 || !ok2 {
					return nil, fmt.Errorf("BITAND: integer arguments required, got %T and %T", args[0], args[1])
				}
				return a & b, nil
			})
	})

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open reference database: %v", err)
	}
	// Every connection to :memory: is a new database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range []string{
		`CREATE TABLE DUAL (DUMMY TEXT)`,
		`INSERT INTO DUAL (DUMMY) VALUES ('X')`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("prepare reference database: %v", err)
		}
	}
	return db
}

// InsertDuck returns an insert into Ducks whose identity key Id is read
// back. Row n binds p<2n> for Name and p<2n+1> for Quacks.
func InsertDuck(n int, name string, quacks int) *types.ModificationCommand {
	return &types.ModificationCommand{
		Table: "Ducks",
		State: types.Added,
		Columns: []types.ColumnModification{
			{ColumnName: "Id", Kind: types.KindInt32, IsKey: true, IsRead: true},
			{ColumnName: "Name", Kind: types.KindString, ParameterName: fmt.Sprintf("p%d", 2*n), Value: name, IsWrite: true},
			{ColumnName: "Quacks", Kind: types.KindInt32, ParameterName: fmt.Sprintf("p%d", 2*n+1), Value: quacks, IsWrite: true},
		},
	}
}

// DeleteDuck returns a delete of Ducks row id guarded by a nullable
// concurrency token whose original value is token.
func DeleteDuck(id int, token any) *types.ModificationCommand {
	return &types.ModificationCommand{
		Table: "Ducks",
		State: types.Deleted,
		Columns: []types.ColumnModification{
			{ColumnName: "Id", Kind: types.KindInt32, ParameterName: "p0", Value: id, IsKey: true},
			{
				ColumnName: "ConcurrencyToken", Kind: types.KindBytes,
				ParameterName: "p1", Value: token, OriginalParameterName: "p1", OriginalValue: token,
				IsCondition: true, IsConcurrencyToken: true,
			},
		},
	}
}

// UpdateDuck returns an update of the Name of Ducks row id.
func UpdateDuck(id int, name string) *types.ModificationCommand {
	return &types.ModificationCommand{
		Table: "Ducks",
		State: types.Modified,
		Columns: []types.ColumnModification{
			{ColumnName: "Name", Kind: types.KindString, ParameterName: "p0", Value: name, IsWrite: true},
			{ColumnName: "Id", Kind: types.KindInt32, ParameterName: "p1", Value: id, IsKey: true},
		},
	}
}
