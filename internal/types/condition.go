package types

// Exists tests whether a subquery returns any rows.
type Exists struct {
	Subquery *Select
	Negated  bool
}

// In tests membership of an operand in a value list or a subquery.
// Exactly one of Values and Subquery is set.
type In struct {
	Operand  Expression
	Values   []Expression
	Subquery *Select
	Negated  bool
}

// Like is a pattern match.
type Like struct {
	Match   Expression
	Pattern Expression
	Escape  Expression
}

// When is a single WHEN ... THEN arm of a Case expression.
type When struct {
	Test   Expression
	Result Expression
}

// Case is a searched CASE expression.
type Case struct {
	Whens []When
	Else  Expression
	Kind  Kind
}

func (Exists) Type() Kind { return KindBool }
func (In) Type() Kind     { return KindBool }
func (Like) Type() Kind   { return KindBool }
func (c Case) Type() Kind { return c.Kind }

func (Exists) isExpression() {}
func (In) isExpression()     {}
func (Like) isExpression()   {}
func (Case) isExpression()   {}
