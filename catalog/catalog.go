// Package catalog validates query trees and modification commands against
// a DBML schema before they are rendered.
//
// A Catalog is built once from a DBML project. It hands out table and
// column references that are known to exist, and checks trees built by
// hand:
//
//	cat, err := catalog.New(project, mssql.NewTypeMapper(nil))
//	blogs := cat.T("Blogs", "b")
//	name := cat.C(blogs, "Name")
//
// Column kinds are resolved through the dialect type mapper from the DBML
// column type, so "nvarchar(100)" yields a string column.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zoobzio/dbml"

	"github.com/zoobzio/dialectql/internal/types"
	"github.com/zoobzio/dialectql/typemap"
)

var (
	// ErrUnknownTable is returned for tables missing from the schema.
	ErrUnknownTable = errors.New("table not found in schema")
	// ErrUnknownColumn is returned for columns missing from their table.
	ErrUnknownColumn = errors.New("column not found in schema")
)

// Catalog indexes the tables and columns of a DBML project.
type Catalog struct {
	project *dbml.Project
	types   *typemap.Registry
	tables  map[string]*dbml.Table
	columns map[string]map[string]*dbml.Column // table -> column -> definition
}

// New indexes project. tm resolves column kinds from DBML types and may
// be nil, in which case columns have unknown kind.
func New(project *dbml.Project, tm *typemap.Registry) (*Catalog, error) {
	if project == nil {
		return nil, fmt.Errorf("project cannot be nil")
	}

	c := &Catalog{
		project: project,
		types:   tm,
		tables:  make(map[string]*dbml.Table),
		columns: make(map[string]map[string]*dbml.Column),
	}
	for _, table := range project.Tables {
		c.tables[table.Name] = table
		c.columns[table.Name] = make(map[string]*dbml.Column)
		for _, col := range table.Columns {
			c.columns[table.Name][col.Name] = col
		}
	}
	return c, nil
}

// Tables returns the number of indexed tables.
func (c *Catalog) Tables() int {
	return len(c.tables)
}

// TryT returns a reference to a schema table.
func (c *Catalog) TryT(name, alias string) (types.Table, error) {
	if _, ok := c.tables[name]; !ok {
		return types.Table{}, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	if alias != "" && !isIdentifier(alias) {
		return types.Table{}, fmt.Errorf("invalid table alias %q", alias)
	}
	return types.Table{Name: name, Alias: alias}, nil
}

// T is TryT that panics on error.
func (c *Catalog) T(name, alias string) types.Table {
	t, err := c.TryT(name, alias)
	if err != nil {
		panic(err)
	}
	return t
}

// TryC returns a column of t, qualified by t's alias (or its name when
// it has none) and typed from the schema.
func (c *Catalog) TryC(t types.Table, name string) (types.Column, error) {
	col, err := c.StoreColumn(t.Name, name)
	if err != nil {
		return types.Column{}, err
	}
	qualifier := t.Alias
	if qualifier == "" {
		qualifier = t.Name
	}
	return types.Column{Table: qualifier, Name: name, Kind: col.Kind}, nil
}

// C is TryC that panics on error.
func (c *Catalog) C(t types.Table, name string) types.Column {
	col, err := c.TryC(t, name)
	if err != nil {
		panic(err)
	}
	return col
}

// StoreColumn returns the type mapping facts of a schema column. The DBML
// type becomes the explicit store type.
func (c *Catalog) StoreColumn(table, column string) (typemap.Column, error) {
	cols, ok := c.columns[table]
	if !ok {
		return typemap.Column{}, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	def, ok := cols[column]
	if !ok {
		return typemap.Column{}, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, column)
	}
	out := typemap.Column{StoreType: def.Type}
	if c.types != nil && def.Type != "" {
		if m, err := c.types.FindByStoreType(def.Type, out); err == nil {
			out.Kind = m.Kind
		}
	}
	return out, nil
}

// ValidateSelect checks every base table and every column qualified by a
// base table alias. Columns of derived tables are not checked.
func (c *Catalog) ValidateSelect(s *types.Select) error {
	if err := s.Validate(); err != nil {
		return err
	}
	refs := types.References(s)

	bases := make(map[string]string) // alias or name -> table
	var errs []error
	for _, t := range refs.Tables {
		if _, ok := c.tables[t.Name]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownTable, t.Name))
			continue
		}
		bases[t.Name] = t.Name
		if t.Alias != "" {
			bases[t.Alias] = t.Name
		}
	}
	derived := make(map[string]bool, len(refs.Derived))
	for _, a := range refs.Derived {
		derived[a] = true
	}
	seen := make(map[string]bool)
	for _, col := range refs.Columns {
		table, ok := bases[col.Table]
		if !ok || derived[col.Table] {
			continue
		}
		key := table + "." + col.Name
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := c.columns[table][col.Name]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownColumn, key))
		}
	}
	return errors.Join(errs...)
}

// ValidateCommand checks the table and columns of a modification command.
func (c *Catalog) ValidateCommand(cmd *types.ModificationCommand) error {
	cols, ok := c.columns[cmd.Table]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, cmd.Table)
	}
	var errs []error
	for _, m := range cmd.Columns {
		if _, ok := cols[m.ColumnName]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, cmd.Table, m.ColumnName))
		}
	}
	return errors.Join(errs...)
}

// isIdentifier reports whether s is a plain identifier: a letter or
// underscore followed by letters, digits or underscores.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return !strings.ContainsAny(s, " ;'\"")
}
