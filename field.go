package dialectql

import (
	"fmt"

	"github.com/zoobzio/dialectql/internal/types"
)

// TryC creates a column of the given source, qualified by its alias or,
// when it has none, by its name.
func TryC(t Table, name string, kind Kind) (Column, error) {
	if !isValidSQLIdentifier(name) {
		return Column{}, fmt.Errorf("invalid column name '%s': must be alphanumeric with underscores", name)
	}
	qualifier := t.Alias
	if qualifier == "" {
		qualifier = t.Name
	}
	return types.Column{Table: qualifier, Name: name, Kind: kind}, nil
}

// C creates a column reference. Panics on invalid names.
func C(t Table, name string, kind Kind) Column {
	col, err := TryC(t, name, kind)
	if err != nil {
		panic(err)
	}
	return col
}

// Ref creates a column of a derived table or other alias that has no
// Table value, such as the outer reference to a subquery's projection.
func Ref(alias, name string, kind Kind) Column {
	if !isValidSQLIdentifier(alias) {
		panic(fmt.Errorf("invalid alias '%s'", alias))
	}
	if !isValidSQLIdentifier(name) {
		panic(fmt.Errorf("invalid column name '%s'", name))
	}
	return types.Column{Table: alias, Name: name, Kind: kind}
}

// ValidateIdentifier reports whether s is safe to use as a table, column
// or alias name.
func ValidateIdentifier(s string) error {
	if !isValidSQLIdentifier(s) {
		return fmt.Errorf("invalid identifier '%s'", s)
	}
	return nil
}

// Only allows alphanumeric characters and underscores, must start with letter or underscore.
func isValidSQLIdentifier(s string) bool {
	if s == "" {
		return false
	}

	first := s[0]
	if !((first >= 'a' && first <= 'z') ||
		(first >= 'A' && first <= 'Z') ||
		first == '_') {
		return false
	}

	for i := 1; i < len(s); i++ {
		ch := s[i]
		if !((ch >= 'a' && ch <= 'z') ||
			(ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') ||
			ch == '_') {
			return false
		}
	}

	return true
}
