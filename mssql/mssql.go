// Package mssql provides the SQL Server dialect: query rendering, member
// translation, store type mapping and update batch generation.
package mssql

import (
	"strings"

	"github.com/zoobzio/dialectql/diag"
	"github.com/zoobzio/dialectql/internal/render"
	"github.com/zoobzio/dialectql/internal/types"
	"github.com/zoobzio/dialectql/typemap"
)

// Name identifies the dialect in errors and diagnostics.
const Name = "mssql"

// DefaultMaxParameters is the number of parameters SQL Server accepts in
// one request.
const DefaultMaxParameters = 2100

type options struct {
	sink            diag.Sink
	maxParameters   int
	rowNumberPaging bool
}

// Option configures the dialect.
type Option func(*options)

// WithRowNumberPaging selects ROW_NUMBER() emulation for offsets. When
// disabled, offsets render as OFFSET .. ROWS FETCH NEXT .. ROWS ONLY.
func WithRowNumberPaging(on bool) Option {
	return func(o *options) { o.rowNumberPaging = on }
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
	o := options{rowNumberPaging: true, maxParameters: DefaultMaxParameters}
	for _, opt := range opts {
		opt(&o)
	}
	o.sink = diag.OrNop(o.sink)
	if o.maxParameters <= 0 {
		o.maxParameters = DefaultMaxParameters
	}
	return o
}

// Renderer implements the SQL Server dialect renderer.
type Renderer struct {
	r *render.Renderer
}

// New creates a new SQL Server renderer.
func New(opts ...Option) *Renderer {
	return &Renderer{r: render.New(NewDialect(opts...))}
}

// Render converts a select to a QueryResult with SQL Server SQL.
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

// Capabilities returns the SQL features supported by SQL Server.
func (r *Renderer) Capabilities() render.Capabilities {
	return r.r.Capabilities()
}

// NewDialect builds the SQL Server rendering strategy.
func NewDialect(opts ...Option) *render.Dialect {
	o := buildOptions(opts)
	literals := NewTypeMapper(diag.Nop)
	p := pager{rowNumberPaging: o.rowNumberPaging, sink: o.sink}
	return &render.Dialect{
		Name:              Name,
		QuoteIdentifier:   quoteIdentifier,
		ParameterPrefix:   "@",
		TableAliasKeyword: " AS ",
		ConcatOperator:    "+",
		BoolLiteral:       boolLiteral,
		Literal: func(l types.Literal) (string, error) {
			return renderLiteral(literals, l)
		},
		RewriteFunction:        rewriteFunction,
		Prepare:                p.prepare,
		Translators:            Translators(),
		Top:                    true,
		OffsetRequiresOrdering: true,
		Capabilities:           capabilities(o),
	}
}

func capabilities(o options) render.Capabilities {
	return render.Capabilities{
		BooleanType:     false,
		NativeBitwise:   true,
		Top:             true,
		OffsetFetch:     true,
		RowNumberPaging: o.rowNumberPaging,
		MultiRowValues:  true,
		Merge:           true,
		Returning:       true,
		Sequences:       true,
		MaxParameters:   o.maxParameters,
	}
}

// quoteIdentifier quotes a SQL Server identifier with square brackets.
func quoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, "]", "]]")
	return "[" + escaped + "]"
}

// boolLiteral renders bit constants. A projected constant is cast so the
// column is typed bit rather than int.
func boolLiteral(v, projected bool) string {
	n := "0"
	if v {
		n = "1"
	}
	if projected {
		return "CAST(" + n + " AS bit)"
	}
	return n
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

// rewriteFunction applies the render-time function rewrites. Rewritten
// calls are marked so a second pass leaves them alone.
func rewriteFunction(fn types.FunctionCall) (types.Expression, bool) {
	switch strings.ToUpper(fn.Name) {
	case "AVG":
		if len(fn.Args) != 1 {
			return nil, false
		}
		if fn.Kind == types.KindDecimal {
			inner := fn
			inner.Kind = types.KindUnknown
			return types.Cast{Operand: inner, StoreType: "decimal(18, 2)", Kind: types.KindDecimal}, true
		}
		if fn.Args[0].Type().IsInteger() {
			arg := types.Cast{Operand: fn.Args[0], StoreType: "float", Kind: types.KindDouble}
			return types.FunctionCall{Name: fn.Name, Args: []types.Expression{arg}, Kind: types.KindDouble}, true
		}
	case "CAST":
		if len(fn.Args) == 2 {
			if st, ok := fn.Args[1].(types.Fragment); ok {
				return types.Cast{Operand: fn.Args[0], StoreType: st.Text, Kind: fn.Kind}, true
			}
		}
	case "EXTRACT":
		if len(fn.Args) == 2 {
			if part, ok := fn.Args[0].(types.Fragment); ok {
				return types.FunctionCall{
					Name: "DATEPART",
					Args: []types.Expression{types.Fragment{Text: strings.ToLower(part.Text)}, fn.Args[1]},
					Kind: fn.Kind,
				}, true
			}
		}
	}
	return nil, false
}
