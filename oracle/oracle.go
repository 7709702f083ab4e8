// Package oracle provides the Oracle dialect: query rendering, member
// translation, store type mapping and update batch generation.
//
// Oracle has no boolean type and no bitwise infix operators, so booleans
// are NUMBER(1) values and bitwise operators are rewritten over BITAND.
// Queries without a source select FROM DUAL.
package oracle

import (
	"strings"

	"github.com/zoobzio/dialectql/diag"
	"github.com/zoobzio/dialectql/internal/render"
	"github.com/zoobzio/dialectql/internal/types"
	"github.com/zoobzio/dialectql/typemap"
)

// Name identifies the dialect in errors and diagnostics.
const Name = "oracle"

// DefaultMaxParameters bounds the bind variables placed in one block.
const DefaultMaxParameters = 65535

type options struct {
	sink              diag.Sink
	maxParameters     int
	quoteReservedOnly bool
}

// Option configures the dialect.
type Option func(*options)

// WithQuoteReservedOnly leaves identifiers unquoted unless they are
// reserved words or not plain identifiers. Oracle folds unquoted names to
// upper case, so schemas must be created with upper case names.
func WithQuoteReservedOnly(on bool) Option {
	return func(o *options) { o.quoteReservedOnly = on }
}

// WithMaxParameters overrides the per-batch parameter limit.
func WithMaxParameters(n int) Option {
	return func(o *options) { o.maxParameters = n }
}

// WithSink sets the diagnostics sink.
func WithSink(s diag.Sink) Option {
	return func(o *options) { o.sink = s }
}

func buildOptions(opts []Option) options {
	o := options{maxParameters: DefaultMaxParameters}
	for _, opt := range opts {
		opt(&o)
	}
	o.sink = diag.OrNop(o.sink)
	if o.maxParameters <= 0 {
		o.maxParameters = DefaultMaxParameters
	}
	return o
}

// Renderer implements the Oracle dialect renderer.
type Renderer struct {
	r *render.Renderer
}

// New creates a new Oracle renderer.
func New(opts ...Option) *Renderer {
	return &Renderer{r: render.New(NewDialect(opts...))}
}

// Render converts a select to a QueryResult with Oracle SQL.
func (r *Renderer) Render(s *types.Select) (*types.QueryResult, error) {
	return r.r.Render(s)
}

// RenderExpression renders a standalone value expression.
func (r *Renderer) RenderExpression(e types.Expression) (*types.QueryResult, error) {
	return r.r.RenderExpression(e)
}

// RenderPredicate renders a standalone search condition.
func (r *Renderer) RenderPredicate(e types.Expression) (*types.QueryResult, error) {
	return r.r.RenderPredicate(e)
}

// Dialect returns the strategy the renderer was built with.
func (r *Renderer) Dialect() *render.Dialect {
	return r.r.Dialect()
}

// Capabilities returns the SQL features supported by Oracle.
func (r *Renderer) Capabilities() render.Capabilities {
	return r.r.Capabilities()
}

// NewDialect builds the Oracle rendering strategy.
func NewDialect(opts ...Option) *render.Dialect {
	o := buildOptions(opts)
	literals := NewTypeMapper(diag.Nop)
	return &render.Dialect{
		Name:              Name,
		QuoteIdentifier:   quoter(o.quoteReservedOnly),
		ParameterPrefix:   ":",
		TableAliasKeyword: " ",
		DummyTable:        "DUAL",
		ConcatOperator:    "||",
		Literal: func(l types.Literal) (string, error) {
			return renderLiteral(literals, l)
		},
		FormatBinary:    formatBinary,
		FormatUnary:     formatUnary,
		RewriteFunction: rewriteFunction,
		FunctionSyntax:  functionSyntax,
		Translators:     Translators(),
		Capabilities:    capabilities(o),
	}
}

func capabilities(o options) render.Capabilities {
	return render.Capabilities{
		OffsetFetch:   true,
		Returning:     true,
		Sequences:     true,
		MaxParameters: o.maxParameters,
	}
}

// quoteIdentifier quotes an Oracle identifier with double quotes.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoter(reservedOnly bool) func(string) string {
	if !reservedOnly {
		return quoteIdentifier
	}
	return func(name string) string {
		if IsReservedWord(name) || !plainIdentifier(name) {
			return quoteIdentifier(name)
		}
		return name
	}
}

func renderLiteral(tm *typemap.Registry, l types.Literal) (string, error) {
	kind := l.Kind
	if kind == types.KindUnknown || kind == types.KindObject {
		kind = typemap.KindOf(l.Value)
	}
	m, err := tm.FindByKind(kind)
	if err != nil {
		return "", render.NewUnsupportedExpressionError(Name, "literal of kind "+kind.String())
	}
	return m.Literal(l.Value)
}

// formatBinary rewrites the operators Oracle lacks:
//
//	a & b  BITAND(a, b)
//	a | b  (a - BITAND(a, b) + b)
//	a ^ b  (a + b - 2 * BITAND(a, b))
//	a % b  MOD(a, b)
func formatBinary(op types.BinaryOperator, left, right string) (string, bool) {
	switch op {
	case types.OpAnd:
		return "BITAND(" + left + ", " + right + ")", true
	case types.OpOr:
		l, r := group(left), group(right)
		return "(" + l + " - BITAND(" + left + ", " + right + ") + " + r + ")", true
	case types.OpExclusiveOr:
		l, r := group(left), group(right)
		return "(" + l + " + " + r + " - 2 * BITAND(" + left + ", " + right + "))", true
	case types.OpModulo:
		return "MOD(" + left + ", " + right + ")", true
	}
	return "", false
}

// formatUnary renders bitwise complement as -1 - a.
func formatUnary(op types.UnaryOperator, operand string) (string, bool) {
	if op != types.OpNot {
		return "", false
	}
	if strings.HasPrefix(operand, "-") {
		operand = "(" + operand + ")"
	}
	return "(-1 - " + operand + ")", true
}

// group parenthesizes a rendered operand unless it is a single term.
func group(s string) string {
	depth := 0
	inQuote := false
	for i, r := range s {
		switch {
		case r == '\'':
			inQuote = !inQuote
		case inQuote:
		case r == '(':
			depth++
		case r == ')':
			depth--
		case depth == 0 && r == ' ':
			return "(" + s + ")"
		case depth == 0 && i > 0 && r == '-':
			return "(" + s + ")"
		}
	}
	return s
}

// rewriteFunction applies the render-time function rewrites.
func rewriteFunction(fn types.FunctionCall) (types.Expression, bool) {
	switch strings.ToUpper(fn.Name) {
	case "AVG":
		if len(fn.Args) == 1 && fn.Kind == types.KindDecimal {
			inner := fn
			inner.Kind = types.KindUnknown
			return types.Cast{Operand: inner, StoreType: "NUMBER(29, 4)", Kind: types.KindDecimal}, true
		}
	case "CAST":
		if len(fn.Args) == 2 {
			if st, ok := fn.Args[1].(types.Fragment); ok {
				return types.Cast{Operand: fn.Args[0], StoreType: st.Text, Kind: fn.Kind}, true
			}
		}
	case "DATEPART":
		if len(fn.Args) == 2 {
			if part, ok := fn.Args[0].(types.Fragment); ok {
				return types.FunctionCall{
					Name: "EXTRACT",
					Args: []types.Expression{types.Fragment{Text: strings.ToUpper(part.Text)}, fn.Args[1]},
					Kind: fn.Kind,
				}, true
			}
		}
	}
	return nil, false
}

// functionSyntax renders EXTRACT(part FROM x).
func functionSyntax(fn types.FunctionCall, args []string) (string, bool) {
	if strings.EqualFold(fn.Name, "EXTRACT") && len(args) == 2 {
		if _, ok := fn.Args[0].(types.Fragment); ok {
			return "EXTRACT(" + args[0] + " FROM " + args[1] + ")", true
		}
	}
	return "", false
}
