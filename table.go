package dialectql

import (
	"fmt"

	"github.com/zoobzio/dialectql/internal/types"
)

// TryT creates a table reference with an optional alias.
func TryT(name string, alias ...string) (Table, error) {
	if !isValidSQLIdentifier(name) {
		return Table{}, fmt.Errorf("invalid table name '%s'", name)
	}
	t := types.Table{Name: name}
	if len(alias) > 0 && alias[0] != "" {
		if !isValidSQLIdentifier(alias[0]) {
			return Table{}, fmt.Errorf("invalid table alias '%s'", alias[0])
		}
		t.Alias = alias[0]
	}
	return t, nil
}

// T creates a table reference. Panics on invalid names.
func T(name string, alias ...string) Table {
	t, err := TryT(name, alias...)
	if err != nil {
		panic(err)
	}
	return t
}

// InSchema returns t qualified by a schema.
func InSchema(schema string, t Table) Table {
	if !isValidSQLIdentifier(schema) {
		panic(fmt.Errorf("invalid schema name '%s'", schema))
	}
	t.Schema = schema
	return t
}

// InnerJoinOn joins src on a condition.
func InnerJoinOn(src Source, on Expression) Join {
	return types.Join{Kind: types.InnerJoin, Source: src, On: on}
}

// LeftJoinOn left-joins src on a condition.
func LeftJoinOn(src Source, on Expression) Join {
	return types.Join{Kind: types.LeftJoin, Source: src, On: on}
}

// CrossJoinOf cross-joins src.
func CrossJoinOf(src Source) Join {
	return types.Join{Kind: types.CrossJoin, Source: src}
}
