// Package dialectql renders dialect-neutral query trees and modification
// commands to SQL Server and Oracle SQL.
//
// The package re-exports the tree model from internal/types and offers
// constructors and a fluent builder for it. Rendering is done by the
// dialect packages:
//
//	import "github.com/zoobzio/dialectql/mssql"
//
//	b := dialectql.T("Blogs", "b")
//	query, err := dialectql.From(b).
//		Select(dialectql.C(b, "Id", dialectql.KindInt32), dialectql.C(b, "Name", dialectql.KindString)).
//		Where(dialectql.Gt(dialectql.C(b, "Rating", dialectql.KindInt32), dialectql.P("min", dialectql.KindInt32))).
//		OrderBy(dialectql.C(b, "Name", dialectql.KindString)).
//		Offset(dialectql.P("skip", dialectql.KindInt32)).
//		Limit(dialectql.P("take", dialectql.KindInt32)).
//		Build()
//
//	result, err := mssql.New().Render(query)
//
// # Dialects
//
// Both mssql and oracle provide a Renderer for queries and a Generator for
// INSERT, UPDATE and DELETE batches. Each also ships a type mapper, a
// translator registry for member and method accesses, and annotations for
// value generation.
//
// # Schema Validation
//
// The catalog package validates trees and commands against a DBML schema.
//
// # Output Format
//
// SQL Server binds parameters as @name and Oracle as :name. Identifiers are
// always quoted on SQL Server; Oracle can be configured to quote only the
// identifiers that need it.
package dialectql

import (
	"github.com/zoobzio/dialectql/internal/render"
	"github.com/zoobzio/dialectql/internal/types"
)

// Select is a dialect-neutral relational query.
type Select = types.Select

// Projection is a projected expression with an optional alias.
type Projection = types.Projection

// Ordering is a single ORDER BY term.
type Ordering = types.Ordering

// Expression is any node that renders as a SQL value or predicate.
type Expression = types.Expression

// Source is a FROM clause item: a table, a join, or a derived select.
type Source = types.Source

// Expression nodes.
type (
	Column       = types.Column
	Literal      = types.Literal
	Parameter    = types.Parameter
	Binary       = types.Binary
	Unary        = types.Unary
	FunctionCall = types.FunctionCall
	Fragment     = types.Fragment
	Cast         = types.Cast
	RowNumber    = types.RowNumber
	MemberAccess = types.MemberAccess
	MethodCall   = types.MethodCall
	Exists       = types.Exists
	In           = types.In
	Like         = types.Like
	Case         = types.Case
	When         = types.When
)

// Sources.
type (
	Table = types.Table
	Join  = types.Join
)

// QueryResult contains the rendered SQL and bound parameter names.
type QueryResult = types.QueryResult

// Capabilities describes what a dialect can express.
type Capabilities = render.Capabilities

// UnsupportedExpressionError is returned when an expression has no
// translation in the target dialect.
type UnsupportedExpressionError = render.UnsupportedExpressionError

// UnsupportedFeatureError is returned when a query uses a construct the
// target dialect cannot render.
type UnsupportedFeatureError = render.UnsupportedFeatureError

// IsCondition reports whether e is a search condition rather than a value.
func IsCondition(e Expression) bool {
	return types.IsCondition(e)
}
