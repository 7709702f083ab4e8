package render

import (
	"github.com/zoobzio/dialectql/internal/types"
	"github.com/zoobzio/dialectql/translate"
)

// Dialect is the strategy the generic Renderer consults at each point
// where SQL Server and Oracle differ. Nil function hooks fall back to
// ANSI behaviour.
type Dialect struct {
	Name string

	// QuoteIdentifier delimits a table, column or alias name.
	QuoteIdentifier func(name string) string
	// ParameterPrefix precedes parameter names, e.g. "@" or ":".
	ParameterPrefix string
	// TableAliasKeyword separates a table from its alias, e.g. " AS " or " ".
	TableAliasKeyword string
	// DummyTable is selected FROM when a query has no sources.
	DummyTable string
	// ConcatOperator joins text operands of Add.
	ConcatOperator string

	// BoolLiteral renders a boolean constant. Projected is set when the
	// value is a top-level projection or a CASE result inside one.
	BoolLiteral func(v, projected bool) string
	// Literal renders a non-null, non-boolean constant.
	Literal func(l types.Literal) (string, error)

	// FormatBinary may render an operator over already rendered operands.
	// Returning false selects the native infix operator.
	FormatBinary func(op types.BinaryOperator, left, right string) (string, bool)
	// FormatUnary may render bitwise complement and similar operators.
	FormatUnary func(op types.UnaryOperator, operand string) (string, bool)

	// RewriteFunction may replace a function call before it is rendered.
	RewriteFunction func(fn types.FunctionCall) (types.Expression, bool)
	// FunctionSyntax may render a function with non-call syntax such as
	// EXTRACT(part FROM x) over already rendered arguments.
	FunctionSyntax func(fn types.FunctionCall, args []string) (string, bool)

	// Prepare rewrites a cloned root select before rendering.
	Prepare func(s *types.Select) (*types.Select, error)

	// Translators resolve member accesses and method calls.
	Translators *translate.Registry

	// Top renders a limit without an offset as TOP(n).
	Top bool
	// OffsetRequiresOrdering injects ORDER BY (SELECT 1) before OFFSET.
	OffsetRequiresOrdering bool

	Capabilities Capabilities
}

func (d *Dialect) quote(name string) string {
	if d.QuoteIdentifier == nil {
		return `"` + name + `"`
	}
	return d.QuoteIdentifier(name)
}

func (d *Dialect) boolLiteral(v, projected bool) string {
	if d.BoolLiteral != nil {
		return d.BoolLiteral(v, projected)
	}
	if v {
		return "1"
	}
	return "0"
}

func (d *Dialect) concat() string {
	if d.ConcatOperator == "" {
		return "||"
	}
	return d.ConcatOperator
}

func (d *Dialect) aliasKeyword() string {
	if d.TableAliasKeyword == "" {
		return " AS "
	}
	return d.TableAliasKeyword
}
