package types

// Position is where a select appears in its parent.
type Position int

const (
	RootSelect Position = iota
	DerivedTable
	ScalarSubquery
	ExistsSubquery
	InSubquery
)

// SelectRewriter replaces a select whose children were already rewritten.
type SelectRewriter func(s *Select, pos Position) (*Select, error)

// RewriteSelects rewrites every select in the tree bottom-up. Selects are
// cloned before fn sees them, so the input tree is never modified.
func RewriteSelects(root *Select, fn SelectRewriter) (*Select, error) {
	w := selectWalker{fn: fn}
	return w.rewriteSelect(root, RootSelect)
}

type selectWalker struct {
	fn SelectRewriter
}

func (w selectWalker) rewriteSelect(s *Select, pos Position) (*Select, error) {
	if s == nil {
		return nil, nil
	}
	c := s.Clone()
	var err error
	for i, p := range c.Projection {
		if c.Projection[i].Expr, err = w.expr(p.Expr); err != nil {
			return nil, err
		}
	}
	for i, src := range c.Tables {
		if c.Tables[i], err = w.source(src); err != nil {
			return nil, err
		}
	}
	if c.Predicate, err = w.expr(c.Predicate); err != nil {
		return nil, err
	}
	for i, g := range c.GroupBy {
		if c.GroupBy[i], err = w.expr(g); err != nil {
			return nil, err
		}
	}
	if c.Having, err = w.expr(c.Having); err != nil {
		return nil, err
	}
	if c.Orderings, err = w.orderings(c.Orderings); err != nil {
		return nil, err
	}
	if c.Limit, err = w.expr(c.Limit); err != nil {
		return nil, err
	}
	if c.Offset, err = w.expr(c.Offset); err != nil {
		return nil, err
	}
	return w.fn(c, pos)
}

func (w selectWalker) source(src Source) (Source, error) {
	switch t := src.(type) {
	case Join:
		inner, err := w.source(t.Source)
		if err != nil {
			return nil, err
		}
		t.Source = inner
		if t.On, err = w.expr(t.On); err != nil {
			return nil, err
		}
		return t, nil
	case *Select:
		return w.rewriteSelect(t, DerivedTable)
	}
	return src, nil
}

func (w selectWalker) orderings(os []Ordering) ([]Ordering, error) {
	if os == nil {
		return nil, nil
	}
	out := make([]Ordering, len(os))
	for i, o := range os {
		e, err := w.expr(o.Expr)
		if err != nil {
			return nil, err
		}
		out[i] = Ordering{Expr: e, Descending: o.Descending}
	}
	return out, nil
}

func (w selectWalker) exprs(es []Expression) ([]Expression, error) {
	if es == nil {
		return nil, nil
	}
	out := make([]Expression, len(es))
	for i, e := range es {
		var err error
		if out[i], err = w.expr(e); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (w selectWalker) expr(e Expression) (Expression, error) {
	var err error
	switch n := e.(type) {
	case nil:
		return nil, nil
	case Binary:
		if n.Left, err = w.expr(n.Left); err != nil {
			return nil, err
		}
		n.Right, err = w.expr(n.Right)
		return n, err
	case Unary:
		n.Operand, err = w.expr(n.Operand)
		return n, err
	case FunctionCall:
		n.Args, err = w.exprs(n.Args)
		return n, err
	case Cast:
		n.Operand, err = w.expr(n.Operand)
		return n, err
	case RowNumber:
		n.Orderings, err = w.orderings(n.Orderings)
		return n, err
	case Exists:
		n.Subquery, err = w.rewriteSelect(n.Subquery, ExistsSubquery)
		return n, err
	case In:
		if n.Operand, err = w.expr(n.Operand); err != nil {
			return nil, err
		}
		if n.Values, err = w.exprs(n.Values); err != nil {
			return nil, err
		}
		n.Subquery, err = w.rewriteSelect(n.Subquery, InSubquery)
		return n, err
	case Like:
		if n.Match, err = w.expr(n.Match); err != nil {
			return nil, err
		}
		if n.Pattern, err = w.expr(n.Pattern); err != nil {
			return nil, err
		}
		n.Escape, err = w.expr(n.Escape)
		return n, err
	case Case:
		whens := make([]When, len(n.Whens))
		for i, wh := range n.Whens {
			if whens[i].Test, err = w.expr(wh.Test); err != nil {
				return nil, err
			}
			if whens[i].Result, err = w.expr(wh.Result); err != nil {
				return nil, err
			}
		}
		n.Whens = whens
		n.Else, err = w.expr(n.Else)
		return n, err
	case MemberAccess:
		n.Instance, err = w.expr(n.Instance)
		return n, err
	case MethodCall:
		if n.Instance, err = w.expr(n.Instance); err != nil {
			return nil, err
		}
		n.Args, err = w.exprs(n.Args)
		return n, err
	case *Select:
		return w.rewriteSelect(n, ScalarSubquery)
	}
	return e, nil
}

// Aliases returns every table alias and column qualifier used in the tree.
func Aliases(s *Select) map[string]bool {
	seen := make(map[string]bool)
	refs := References(s)
	for _, a := range refs.Derived {
		seen[a] = true
	}
	for _, t := range refs.Tables {
		seen[t.Alias] = true
		seen[t.Name] = true
	}
	for _, c := range refs.Columns {
		if c.Table != "" {
			seen[c.Table] = true
		}
	}
	for _, q := range refs.Stars {
		seen[q] = true
	}
	return seen
}

// Refs lists what a select tree refers to.
type Refs struct {
	Tables  []Table
	Columns []Column
	// Derived holds the aliases of derived tables and subqueries.
	Derived []string
	// Stars holds the qualifiers of star projections.
	Stars []string
}

// References collects every base table and column reference in the tree,
// nested selects included.
func References(s *Select) Refs {
	var refs Refs
	column := func(c Column) { refs.Columns = append(refs.Columns, c) }
	_, _ = RewriteSelects(s, func(c *Select, _ Position) (*Select, error) {
		if c.Alias != "" {
			refs.Derived = append(refs.Derived, c.Alias)
		}
		if c.StarOf != "" {
			refs.Stars = append(refs.Stars, c.StarOf)
		}
		for _, src := range c.Tables {
			collectSources(src, &refs, column)
		}
		for _, p := range c.Projection {
			visitColumns(p.Expr, column)
		}
		visitColumns(c.Predicate, column)
		visitColumns(c.Having, column)
		for _, g := range c.GroupBy {
			visitColumns(g, column)
		}
		for _, o := range c.Orderings {
			visitColumns(o.Expr, column)
		}
		return c, nil
	})
	return refs
}

func collectSources(src Source, refs *Refs, column func(Column)) {
	switch t := src.(type) {
	case Table:
		refs.Tables = append(refs.Tables, t)
	case Join:
		collectSources(t.Source, refs, column)
		visitColumns(t.On, column)
	}
}

// visitColumns calls fn for each Column outside nested selects; nested
// selects are visited by RewriteSelects itself.
func visitColumns(e Expression, fn func(Column)) {
	var visit func(Expression)
	visit = func(e Expression) {
		switch n := e.(type) {
		case Column:
			fn(n)
		case Binary:
			visit(n.Left)
			visit(n.Right)
		case Unary:
			visit(n.Operand)
		case FunctionCall:
			for _, a := range n.Args {
				visit(a)
			}
		case Cast:
			visit(n.Operand)
		case RowNumber:
			for _, o := range n.Orderings {
				visit(o.Expr)
			}
		case In:
			visit(n.Operand)
			for _, v := range n.Values {
				visit(v)
			}
		case Like:
			visit(n.Match)
			visit(n.Pattern)
		case Case:
			for _, wh := range n.Whens {
				visit(wh.Test)
				visit(wh.Result)
			}
			visit(n.Else)
		case MemberAccess:
			visit(n.Instance)
		case MethodCall:
			visit(n.Instance)
			for _, a := range n.Args {
				visit(a)
			}
		}
	}
	visit(e)
}
