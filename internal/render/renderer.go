// Package render holds the generic query renderer. Dialects supply a
// Dialect strategy; the renderer owns clause order, indentation,
// predicate/value contexts and parameter collection.
package render

import (
	"fmt"
	"strings"

	"github.com/zoobzio/dialectql/internal/types"
)

// MaxDepth bounds subquery nesting.
const MaxDepth = 64

const indentUnit = "    "

// mode is the syntactic position an expression is rendered in.
type mode int

const (
	valueMode mode = iota
	predicateMode
	projectionMode
)

// renderContext tracks parameters and nesting while rendering.
type renderContext struct {
	params *paramSet
	depth  int
}

type paramSet struct {
	seen  map[string]bool
	names []string
}

func (p *paramSet) add(name string) {
	if !p.seen[name] {
		p.seen[name] = true
		p.names = append(p.names, name)
	}
}

func newRenderContext() *renderContext {
	return &renderContext{params: &paramSet{seen: make(map[string]bool)}}
}

// withSubquery creates a child context for rendering a subquery.
func (ctx *renderContext) withSubquery() (*renderContext, error) {
	if ctx.depth >= MaxDepth {
		return nil, fmt.Errorf("maximum subquery depth (%d) exceeded", MaxDepth)
	}
	return &renderContext{params: ctx.params, depth: ctx.depth + 1}, nil
}

// Renderer renders dialect-neutral selects through a Dialect strategy.
type Renderer struct {
	dialect *Dialect
}

// New creates a renderer for the dialect.
func New(d *Dialect) *Renderer {
	return &Renderer{dialect: d}
}

// Dialect returns the renderer's strategy.
func (r *Renderer) Dialect() *Dialect {
	return r.dialect
}

// Capabilities returns the dialect's capabilities.
func (r *Renderer) Capabilities() Capabilities {
	return r.dialect.Capabilities
}

// Render converts a select to SQL. The input is never modified.
func (r *Renderer) Render(s *types.Select) (*types.QueryResult, error) {
	if s == nil {
		return nil, fmt.Errorf("%s: nil select", r.dialect.Name)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid select: %w", err)
	}
	root := s.Clone()
	if r.dialect.Prepare != nil {
		var err error
		if root, err = r.dialect.Prepare(root); err != nil {
			return nil, err
		}
	}
	ctx := newRenderContext()
	sql, err := r.renderSelect(root, ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryResult{SQL: sql, Parameters: ctx.params.names}, nil
}

// RenderExpression renders a single expression in value position.
func (r *Renderer) RenderExpression(e types.Expression) (*types.QueryResult, error) {
	if err := types.ValidateExpression(e); err != nil {
		return nil, fmt.Errorf("invalid expression: %w", err)
	}
	ctx := newRenderContext()
	sql, err := r.expr(e, ctx, valueMode)
	if err != nil {
		return nil, err
	}
	return &types.QueryResult{SQL: sql, Parameters: ctx.params.names}, nil
}

// RenderPredicate renders a single expression in predicate position.
func (r *Renderer) RenderPredicate(e types.Expression) (*types.QueryResult, error) {
	if err := types.ValidateExpression(e); err != nil {
		return nil, fmt.Errorf("invalid expression: %w", err)
	}
	ctx := newRenderContext()
	sql, err := r.expr(e, ctx, predicateMode)
	if err != nil {
		return nil, err
	}
	return &types.QueryResult{SQL: sql, Parameters: ctx.params.names}, nil
}

func (r *Renderer) renderSelect(s *types.Select, ctx *renderContext) (string, error) {
	d := r.dialect
	var lines []string

	var head strings.Builder
	head.WriteString("SELECT ")
	if s.Distinct {
		head.WriteString("DISTINCT ")
	}
	top := d.Top && s.Limit != nil && s.Offset == nil
	if top {
		limit, err := r.expr(s.Limit, ctx, valueMode)
		if err != nil {
			return "", err
		}
		head.WriteString("TOP(" + limit + ") ")
	}
	proj, err := r.renderProjection(s, ctx)
	if err != nil {
		return "", err
	}
	head.WriteString(proj)
	lines = append(lines, head.String())

	if len(s.Tables) > 0 {
		from, err := r.renderSources(s.Tables, ctx)
		if err != nil {
			return "", err
		}
		lines = append(lines, "FROM "+from)
	} else if d.DummyTable != "" {
		lines = append(lines, "FROM "+d.DummyTable)
	}

	if s.Predicate != nil {
		where, err := r.expr(s.Predicate, ctx, predicateMode)
		if err != nil {
			return "", err
		}
		lines = append(lines, "WHERE "+where)
	}

	if len(s.GroupBy) > 0 {
		parts := make([]string, 0, len(s.GroupBy))
		for _, g := range s.GroupBy {
			part, err := r.expr(g, ctx, valueMode)
			if err != nil {
				return "", err
			}
			parts = append(parts, part)
		}
		lines = append(lines, "GROUP BY "+strings.Join(parts, ", "))
	}

	if s.Having != nil {
		having, err := r.expr(s.Having, ctx, predicateMode)
		if err != nil {
			return "", err
		}
		lines = append(lines, "HAVING "+having)
	}

	switch {
	case len(s.Orderings) > 0:
		order, err := r.renderOrderings(s.Orderings, ctx)
		if err != nil {
			return "", err
		}
		lines = append(lines, "ORDER BY "+order)
	case s.Offset != nil && d.OffsetRequiresOrdering:
		lines = append(lines, "ORDER BY (SELECT 1)")
	}

	switch {
	case s.Offset != nil:
		offset, err := r.expr(s.Offset, ctx, valueMode)
		if err != nil {
			return "", err
		}
		paging := "OFFSET " + offset + " ROWS"
		if s.Limit != nil {
			limit, err := r.expr(s.Limit, ctx, valueMode)
			if err != nil {
				return "", err
			}
			paging += " FETCH NEXT " + limit + " ROWS ONLY"
		}
		lines = append(lines, paging)
	case s.Limit != nil && !top:
		limit, err := r.expr(s.Limit, ctx, valueMode)
		if err != nil {
			return "", err
		}
		lines = append(lines, "FETCH FIRST "+limit+" ROWS ONLY")
	}

	return strings.Join(lines, "\n"), nil
}

func (r *Renderer) renderProjection(s *types.Select, ctx *renderContext) (string, error) {
	switch {
	case s.StarOf == "*":
		return "*", nil
	case s.StarOf != "":
		return r.dialect.quote(s.StarOf) + ".*", nil
	case len(s.Projection) == 0:
		return "1", nil
	}
	parts := make([]string, 0, len(s.Projection))
	for _, p := range s.Projection {
		part, err := r.expr(p.Expr, ctx, projectionMode)
		if err != nil {
			return "", err
		}
		if p.Alias != "" {
			if c, ok := p.Expr.(types.Column); !ok || c.Name != p.Alias {
				part += " AS " + r.dialect.quote(p.Alias)
			}
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", "), nil
}

func (r *Renderer) renderOrderings(orderings []types.Ordering, ctx *renderContext) (string, error) {
	parts := make([]string, 0, len(orderings))
	for _, o := range orderings {
		part, err := r.expr(o.Expr, ctx, valueMode)
		if err != nil {
			return "", err
		}
		if o.Descending {
			part += " DESC"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", "), nil
}

func (r *Renderer) renderSources(sources []types.Source, ctx *renderContext) (string, error) {
	var sb strings.Builder
	for i, src := range sources {
		if join, ok := src.(types.Join); ok {
			text, err := r.renderSource(join.Source, ctx)
			if err != nil {
				return "", err
			}
			sb.WriteString("\n" + string(join.Kind) + " " + text)
			if join.Kind != types.CrossJoin {
				on, err := r.expr(join.On, ctx, predicateMode)
				if err != nil {
					return "", err
				}
				sb.WriteString(" ON " + on)
			}
			continue
		}
		text, err := r.renderSource(src, ctx)
		if err != nil {
			return "", err
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

func (r *Renderer) renderSource(src types.Source, ctx *renderContext) (string, error) {
	d := r.dialect
	switch t := src.(type) {
	case types.Table:
		name := d.quote(t.Name)
		if t.Schema != "" {
			name = d.quote(t.Schema) + "." + name
		}
		if t.Alias != "" {
			name += d.aliasKeyword() + d.quote(t.Alias)
		}
		return name, nil
	case *types.Select:
		sub, err := r.subquery(t, ctx)
		if err != nil {
			return "", err
		}
		return "(\n" + indent(sub) + "\n)" + d.aliasKeyword() + d.quote(t.Alias), nil
	}
	return "", NewUnsupportedExpressionError(d.Name, fmt.Sprintf("source %T", src))
}

func (r *Renderer) subquery(s *types.Select, ctx *renderContext) (string, error) {
	child, err := ctx.withSubquery()
	if err != nil {
		return "", err
	}
	return r.renderSelect(s, child)
}

// expr renders e in the given position, converting between search
// conditions and values where the position demands it.
func (r *Renderer) expr(e types.Expression, ctx *renderContext, m mode) (string, error) {
	if e == nil {
		return "", fmt.Errorf("%s: nil expression", r.dialect.Name)
	}
	e, err := r.resolve(e)
	if err != nil {
		return "", err
	}
	cond := types.IsCondition(e)
	switch {
	case m == predicateMode && !cond && e.Type() == types.KindBool:
		v, err := r.value(e, ctx, valueMode)
		if err != nil {
			return "", err
		}
		return v + " = " + r.dialect.boolLiteral(true, false), nil
	case m != predicateMode && cond:
		c, err := r.condition(e, ctx)
		if err != nil {
			return "", err
		}
		projected := m == projectionMode
		return "CASE WHEN " + c + " THEN " + r.dialect.boolLiteral(true, projected) +
			" ELSE " + r.dialect.boolLiteral(false, projected) + " END", nil
	case cond:
		return r.condition(e, ctx)
	}
	return r.value(e, ctx, m)
}

// resolve replaces translator-resolved and rewritten nodes until stable.
func (r *Renderer) resolve(e types.Expression) (types.Expression, error) {
	d := r.dialect
	for i := 0; i < MaxDepth; i++ {
		switch n := e.(type) {
		case types.MemberAccess:
			t := d.Translators.TranslateMember(n)
			if t == nil {
				return nil, NewUnsupportedExpressionError(d.Name, "member "+n.Declaring+"."+n.Member)
			}
			e = t
		case types.MethodCall:
			t := d.Translators.TranslateMethod(n)
			if t == nil {
				return nil, NewUnsupportedExpressionError(d.Name, fmt.Sprintf("method %s.%s/%d", n.Declaring, n.Method, len(n.Args)))
			}
			e = t
		case types.FunctionCall:
			if d.RewriteFunction == nil {
				return e, nil
			}
			t, ok := d.RewriteFunction(n)
			if !ok {
				return e, nil
			}
			e = t
		default:
			return e, nil
		}
	}
	return nil, fmt.Errorf("%s: expression rewriting did not terminate", d.Name)
}

func (r *Renderer) condition(e types.Expression, ctx *renderContext) (string, error) {
	switch n := e.(type) {
	case types.Binary:
		return r.binary(n, ctx, predicateMode)
	case types.Unary:
		return r.unary(n, ctx, predicateMode)
	case types.Exists:
		sub, err := r.subquery(n.Subquery, ctx)
		if err != nil {
			return "", err
		}
		kw := "EXISTS"
		if n.Negated {
			kw = "NOT EXISTS"
		}
		return kw + " (\n" + indent(sub) + ")", nil
	case types.In:
		return r.in(n, ctx)
	case types.Like:
		match, err := r.operand(n.Match, ctx, 500, false)
		if err != nil {
			return "", err
		}
		pattern, err := r.operand(n.Pattern, ctx, 500, true)
		if err != nil {
			return "", err
		}
		s := match + " LIKE " + pattern
		if n.Escape != nil {
			esc, err := r.expr(n.Escape, ctx, valueMode)
			if err != nil {
				return "", err
			}
			s += " ESCAPE " + esc
		}
		return s, nil
	}
	return "", NewUnsupportedExpressionError(r.dialect.Name, fmt.Sprintf("condition %T", e))
}

func (r *Renderer) in(n types.In, ctx *renderContext) (string, error) {
	operand, err := r.operand(n.Operand, ctx, 500, false)
	if err != nil {
		return "", err
	}
	kw := " IN "
	if n.Negated {
		kw = " NOT IN "
	}
	if n.Subquery != nil {
		sub, err := r.subquery(n.Subquery, ctx)
		if err != nil {
			return "", err
		}
		return operand + kw + "(\n" + indent(sub) + "\n)", nil
	}
	if len(n.Values) == 0 {
		if n.Negated {
			return "1 = 1", nil
		}
		return "0 = 1", nil
	}
	values := make([]string, 0, len(n.Values))
	for _, v := range n.Values {
		s, err := r.expr(v, ctx, valueMode)
		if err != nil {
			return "", err
		}
		values = append(values, s)
	}
	return operand + kw + "(" + strings.Join(values, ", ") + ")", nil
}

func (r *Renderer) value(e types.Expression, ctx *renderContext, m mode) (string, error) {
	d := r.dialect
	switch n := e.(type) {
	case types.Column:
		if n.Table == "" {
			return d.quote(n.Name), nil
		}
		return d.quote(n.Table) + "." + d.quote(n.Name), nil
	case types.Literal:
		if n.Value == nil {
			return "NULL", nil
		}
		if b, ok := n.Value.(bool); ok {
			return d.boolLiteral(b, m == projectionMode), nil
		}
		if d.Literal == nil {
			return "", NewUnsupportedExpressionError(d.Name, fmt.Sprintf("literal %T", n.Value))
		}
		return d.Literal(n)
	case types.Parameter:
		ctx.params.add(n.Name)
		return d.ParameterPrefix + n.Name, nil
	case types.Binary:
		return r.binary(n, ctx, m)
	case types.Unary:
		return r.unary(n, ctx, m)
	case types.FunctionCall:
		return r.function(n, ctx)
	case types.Fragment:
		return n.Text, nil
	case types.Cast:
		operand, err := r.expr(n.Operand, ctx, valueMode)
		if err != nil {
			return "", err
		}
		return "CAST(" + operand + " AS " + n.StoreType + ")", nil
	case types.RowNumber:
		order := "(SELECT 1)"
		if len(n.Orderings) > 0 {
			var err error
			if order, err = r.renderOrderings(n.Orderings, ctx); err != nil {
				return "", err
			}
		}
		return "ROW_NUMBER() OVER(ORDER BY " + order + ")", nil
	case types.Case:
		return r.caseExpr(n, ctx, m)
	case *types.Select:
		sub, err := r.subquery(n, ctx)
		if err != nil {
			return "", err
		}
		return "(\n" + indent(sub) + ")", nil
	}
	return "", NewUnsupportedExpressionError(d.Name, fmt.Sprintf("%T", e))
}

func (r *Renderer) caseExpr(n types.Case, ctx *renderContext, m mode) (string, error) {
	if len(n.Whens) == 0 {
		return "", fmt.Errorf("%s: CASE without WHEN", r.dialect.Name)
	}
	result := valueMode
	if m == projectionMode {
		result = projectionMode
	}
	var sb strings.Builder
	sb.WriteString("CASE")
	for _, w := range n.Whens {
		test, err := r.expr(w.Test, ctx, predicateMode)
		if err != nil {
			return "", err
		}
		res, err := r.expr(w.Result, ctx, result)
		if err != nil {
			return "", err
		}
		sb.WriteString(" WHEN " + test + " THEN " + res)
	}
	if n.Else != nil {
		els, err := r.expr(n.Else, ctx, result)
		if err != nil {
			return "", err
		}
		sb.WriteString(" ELSE " + els)
	}
	sb.WriteString(" END")
	return sb.String(), nil
}

func (r *Renderer) function(fn types.FunctionCall, ctx *renderContext) (string, error) {
	d := r.dialect
	name := fn.Name
	if fn.Schema != "" {
		name = d.quote(fn.Schema) + "." + d.quote(fn.Name)
	}
	if fn.Niladic {
		return name, nil
	}
	args := make([]string, 0, len(fn.Args))
	for _, a := range fn.Args {
		s, err := r.expr(a, ctx, valueMode)
		if err != nil {
			return "", err
		}
		args = append(args, s)
	}
	if d.FunctionSyntax != nil {
		if s, ok := d.FunctionSyntax(fn, args); ok {
			return s, nil
		}
	}
	return name + "(" + strings.Join(args, ", ") + ")", nil
}

func (r *Renderer) unary(n types.Unary, ctx *renderContext, m mode) (string, error) {
	d := r.dialect
	switch n.Op {
	case types.OpIsNull, types.OpIsNotNull:
		operand, err := r.operand(n.Operand, ctx, 500, false)
		if err != nil {
			return "", err
		}
		if n.Op == types.OpIsNull {
			return operand + " IS NULL", nil
		}
		return operand + " IS NOT NULL", nil
	case types.OpNot:
		if n.Operand.Type() == types.KindBool {
			if types.IsCondition(n.Operand) {
				inner, err := r.expr(n.Operand, ctx, predicateMode)
				if err != nil {
					return "", err
				}
				return "NOT (" + inner + ")", nil
			}
			v, err := r.expr(n.Operand, ctx, valueMode)
			if err != nil {
				return "", err
			}
			return v + " = " + d.boolLiteral(false, false), nil
		}
		operand, err := r.operand(n.Operand, ctx, 1000, false)
		if err != nil {
			return "", err
		}
		if d.FormatUnary != nil {
			if s, ok := d.FormatUnary(n.Op, operand); ok {
				return s, nil
			}
		}
		return "~" + operand, nil
	case types.OpNegate:
		operand, err := r.operand(n.Operand, ctx, 1000, false)
		if err != nil {
			return "", err
		}
		if strings.HasPrefix(operand, "-") {
			operand = "(" + operand + ")"
		}
		return "-" + operand, nil
	}
	return "", NewUnsupportedExpressionError(d.Name, "unary operator "+string(n.Op))
}

func (r *Renderer) binary(n types.Binary, ctx *renderContext, m mode) (string, error) {
	d := r.dialect
	op := n.Op

	if op == types.OpCoalesce {
		left, err := r.expr(n.Left, ctx, valueMode)
		if err != nil {
			return "", err
		}
		right, err := r.expr(n.Right, ctx, valueMode)
		if err != nil {
			return "", err
		}
		return "COALESCE(" + left + ", " + right + ")", nil
	}

	if op == types.OpEqual || op == types.OpNotEqual {
		if nullCheck, ok := nullComparison(n); ok {
			return r.unary(nullCheck, ctx, predicateMode)
		}
	}

	logical := op == types.OpAndAlso || op == types.OpOrElse ||
		((op == types.OpAnd || op == types.OpOr) && types.IsCondition(n) && m == predicateMode)
	if logical {
		kw, prec := " AND ", 200
		if op == types.OpOrElse || op == types.OpOr {
			kw, prec = " OR ", 100
		}
		left, err := r.predicateOperand(n.Left, ctx, prec, false)
		if err != nil {
			return "", err
		}
		right, err := r.predicateOperand(n.Right, ctx, prec, false)
		if err != nil {
			return "", err
		}
		return left + kw + right, nil
	}

	left, err := r.expr(n.Left, ctx, valueMode)
	if err != nil {
		return "", err
	}
	right, err := r.expr(n.Right, ctx, valueMode)
	if err != nil {
		return "", err
	}
	if d.FormatBinary != nil {
		if s, ok := d.FormatBinary(op, left, right); ok {
			return s, nil
		}
	}
	prec := precedence(op)
	left = parenthesize(n.Left, left, prec, false)
	right = parenthesize(n.Right, right, prec, !associative(op))
	sym, err := r.symbol(n)
	if err != nil {
		return "", err
	}
	return left + " " + sym + " " + right, nil
}

func (r *Renderer) symbol(n types.Binary) (string, error) {
	switch n.Op {
	case types.OpAdd:
		if n.Type() == types.KindString {
			return r.dialect.concat(), nil
		}
		return "+", nil
	case types.OpSubtract:
		return "-", nil
	case types.OpMultiply:
		return "*", nil
	case types.OpDivide:
		return "/", nil
	case types.OpModulo:
		return "%", nil
	case types.OpAnd:
		return "&", nil
	case types.OpOr:
		return "|", nil
	case types.OpExclusiveOr:
		return "^", nil
	case types.OpEqual:
		return "=", nil
	case types.OpNotEqual:
		return "<>", nil
	case types.OpGreaterThan:
		return ">", nil
	case types.OpGreaterThanOrEqual:
		return ">=", nil
	case types.OpLessThan:
		return "<", nil
	case types.OpLessThanOrEqual:
		return "<=", nil
	}
	return "", NewUnsupportedExpressionError(r.dialect.Name, "binary operator "+string(n.Op))
}

// operand renders a value operand, parenthesizing it when it binds more
// loosely than its parent.
func (r *Renderer) operand(e types.Expression, ctx *renderContext, parent int, right bool) (string, error) {
	s, err := r.expr(e, ctx, valueMode)
	if err != nil {
		return "", err
	}
	return parenthesize(e, s, parent, right), nil
}

func (r *Renderer) predicateOperand(e types.Expression, ctx *renderContext, parent int, right bool) (string, error) {
	s, err := r.expr(e, ctx, predicateMode)
	if err != nil {
		return "", err
	}
	if needsParens(e, parent, right) {
		return "(" + s + ")", nil
	}
	return s, nil
}

// parenthesize wraps a rendered value operand. Conditions in value
// position are already CASE expressions and never need wrapping.
func parenthesize(e types.Expression, s string, parent int, right bool) string {
	if types.IsCondition(e) || !needsParens(e, parent, right) {
		return s
	}
	return "(" + s + ")"
}

func needsParens(e types.Expression, parent int, right bool) bool {
	var child int
	switch n := e.(type) {
	case types.Binary:
		if n.Op == types.OpCoalesce {
			return false
		}
		child = precedence(n.Op)
		if (n.Op == types.OpAnd || n.Op == types.OpOr) && types.IsCondition(n) {
			child = 200
			if n.Op == types.OpOr {
				child = 100
			}
		}
	case types.Unary:
		switch n.Op {
		case types.OpNegate:
			return false
		case types.OpNot:
			if n.Operand.Type() != types.KindBool {
				return false
			}
			child = 400
		default:
			child = 500
		}
	case types.Like, types.In:
		child = 500
	default:
		return false
	}
	return child < parent || (right && child == parent)
}

func precedence(op types.BinaryOperator) int {
	switch op {
	case types.OpMultiply, types.OpDivide, types.OpModulo:
		return 900
	case types.OpAdd, types.OpSubtract, types.OpAnd, types.OpOr, types.OpExclusiveOr:
		return 700
	case types.OpAndAlso:
		return 200
	case types.OpOrElse:
		return 100
	}
	return 500
}

func associative(op types.BinaryOperator) bool {
	switch op {
	case types.OpAdd, types.OpMultiply, types.OpAnd, types.OpOr, types.OpExclusiveOr, types.OpAndAlso, types.OpOrElse:
		return true
	}
	return false
}

// nullComparison turns x = NULL into x IS NULL.
func nullComparison(n types.Binary) (types.Unary, bool) {
	op := types.OpIsNull
	if n.Op == types.OpNotEqual {
		op = types.OpIsNotNull
	}
	switch {
	case types.IsNullLiteral(n.Right):
		return types.Unary{Operand: n.Left, Op: op}, true
	case types.IsNullLiteral(n.Left):
		return types.Unary{Operand: n.Right, Op: op}, true
	}
	return types.Unary{}, false
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = indentUnit + l
		}
	}
	return strings.Join(lines, "\n")
}
