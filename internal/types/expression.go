package types

// Expression is a node of the relational expression tree.
// The set of implementations is closed; renderers reject anything else.
type Expression interface {
	// Type returns the static value kind of the expression.
	Type() Kind
	isExpression()
}

// Column references a column of a table or derived table by alias.
// It is a back-reference and never owns the source.
type Column struct {
	Table string
	Name  string
	Kind  Kind
}

// Literal is a constant value rendered inline through the type mapper.
// A nil Value renders as NULL.
type Literal struct {
	Value any
	Kind  Kind
}

// Parameter is a named bound parameter.
type Parameter struct {
	Name string
	Kind Kind
}

// Binary applies a binary operator to two operands.
type Binary struct {
	Left  Expression
	Right Expression
	Op    BinaryOperator
}

// Unary applies a unary operator to an operand.
type Unary struct {
	Operand Expression
	Op      UnaryOperator
}

// FunctionCall invokes a store function.
// Niladic functions are rendered without an argument list where the dialect allows.
type FunctionCall struct {
	Schema  string
	Name    string
	Args    []Expression
	Kind    Kind
	Niladic bool
}

// Fragment is raw SQL text such as a date part keyword or a store type name.
type Fragment struct {
	Text string
}

// Cast converts an operand to a store type.
type Cast struct {
	Operand   Expression
	StoreType string
	Kind      Kind
}

// RowNumber computes a ranking over the given orderings.
type RowNumber struct {
	Orderings []Ordering
}

// MemberAccess is a source-level property access resolved by a translator
// at render time, such as a string's length or the current time.
type MemberAccess struct {
	Instance  Expression // nil for static members
	Declaring string
	Member    string
	Kind      Kind
}

// MethodCall is a source-level method invocation resolved by a translator
// at render time.
type MethodCall struct {
	Instance  Expression // nil for static methods
	Declaring string
	Method    string
	Args      []Expression
	Kind      Kind
}

func (c Column) Type() Kind       { return c.Kind }
func (l Literal) Type() Kind      { return l.Kind }
func (p Parameter) Type() Kind    { return p.Kind }
func (f FunctionCall) Type() Kind { return f.Kind }
func (Fragment) Type() Kind       { return KindUnknown }
func (c Cast) Type() Kind         { return c.Kind }
func (RowNumber) Type() Kind      { return KindInt64 }
func (m MemberAccess) Type() Kind { return m.Kind }
func (m MethodCall) Type() Kind   { return m.Kind }

// Type derives the result kind from the operator and operand kinds.
func (b Binary) Type() Kind {
	switch {
	case b.Op.IsComparison(), b.Op == OpAndAlso, b.Op == OpOrElse:
		return KindBool
	case b.Op == OpCoalesce:
		if k := b.Left.Type(); k != KindUnknown {
			return k
		}
		return b.Right.Type()
	case b.Op == OpAdd && (b.Left.Type().IsText() || b.Right.Type().IsText()):
		return KindString
	}
	if k := b.Left.Type(); k != KindUnknown {
		return k
	}
	return b.Right.Type()
}

func (u Unary) Type() Kind {
	switch u.Op {
	case OpNot:
		if k := u.Operand.Type(); k != KindBool && k != KindUnknown {
			return k
		}
		return KindBool
	case OpIsNull, OpIsNotNull:
		return KindBool
	}
	return u.Operand.Type()
}

func (Column) isExpression()       {}
func (Literal) isExpression()      {}
func (Parameter) isExpression()    {}
func (Binary) isExpression()       {}
func (Unary) isExpression()        {}
func (FunctionCall) isExpression() {}
func (Fragment) isExpression()     {}
func (Cast) isExpression()         {}
func (RowNumber) isExpression()    {}
func (MemberAccess) isExpression() {}
func (MethodCall) isExpression()   {}

// IsCondition reports whether the expression is a search condition
// (a predicate) rather than a value.
func IsCondition(e Expression) bool {
	switch n := e.(type) {
	case Binary:
		switch n.Op {
		case OpAndAlso, OpOrElse:
			return true
		case OpAnd, OpOr:
			return n.Left.Type() == KindBool && n.Right.Type() == KindBool
		}
		return n.Op.IsComparison()
	case Unary:
		switch n.Op {
		case OpIsNull, OpIsNotNull:
			return true
		case OpNot:
			return n.Operand.Type() == KindBool
		}
	case Exists, In, Like:
		return true
	}
	return false
}

// Null returns a NULL literal of the given kind.
func Null(kind Kind) Literal {
	return Literal{Kind: kind}
}

// IsNullLiteral reports whether e is a literal NULL.
func IsNullLiteral(e Expression) bool {
	l, ok := e.(Literal)
	return ok && l.Value == nil
}
