package dialectql

import "github.com/zoobzio/dialectql/internal/types"

// Eq creates left = right. Comparing to a NULL literal renders IS NULL.
func Eq(left, right Expression) Binary {
	return binary(types.OpEqual, left, right)
}

// Ne creates left <> right.
func Ne(left, right Expression) Binary {
	return binary(types.OpNotEqual, left, right)
}

// Gt creates left > right.
func Gt(left, right Expression) Binary {
	return binary(types.OpGreaterThan, left, right)
}

// Ge creates left >= right.
func Ge(left, right Expression) Binary {
	return binary(types.OpGreaterThanOrEqual, left, right)
}

// Lt creates left < right.
func Lt(left, right Expression) Binary {
	return binary(types.OpLessThan, left, right)
}

// Le creates left <= right.
func Le(left, right Expression) Binary {
	return binary(types.OpLessThanOrEqual, left, right)
}

// And joins conditions with AND. It returns nil for no conditions.
func And(conditions ...Expression) Expression {
	return fold(types.OpAndAlso, conditions)
}

// Or joins conditions with OR. It returns nil for no conditions.
func Or(conditions ...Expression) Expression {
	return fold(types.OpOrElse, conditions)
}

// Not negates a condition.
func Not(e Expression) Unary {
	return types.Unary{Op: types.OpNot, Operand: e}
}

// IsNull tests e for NULL.
func IsNull(e Expression) Unary {
	return types.Unary{Op: types.OpIsNull, Operand: e}
}

// IsNotNull tests e for a value.
func IsNotNull(e Expression) Unary {
	return types.Unary{Op: types.OpIsNotNull, Operand: e}
}

// InValues tests membership of e in a value list.
func InValues(e Expression, values ...Expression) In {
	return types.In{Operand: e, Values: values}
}

// NotInValues tests e for absence from a value list.
func NotInValues(e Expression, values ...Expression) In {
	return types.In{Operand: e, Values: values, Negated: true}
}

// InQuery tests membership of e in a single-column subquery.
func InQuery(e Expression, sub *Select) In {
	return types.In{Operand: e, Subquery: sub}
}

// LikePattern matches e against a pattern.
func LikePattern(e, pattern Expression) Like {
	return types.Like{Match: e, Pattern: pattern}
}

// ExistsQuery tests whether a subquery returns rows.
func ExistsQuery(sub *Select) Exists {
	return types.Exists{Subquery: sub}
}

// NotExistsQuery tests whether a subquery returns no rows.
func NotExistsQuery(sub *Select) Exists {
	return types.Exists{Subquery: sub, Negated: true}
}

// CaseBuilder builds a searched CASE expression.
type CaseBuilder struct {
	c types.Case
}

// CaseOf starts a CASE expression yielding kind.
func CaseOf(kind Kind) *CaseBuilder {
	return &CaseBuilder{c: types.Case{Kind: kind}}
}

// When adds a WHEN condition THEN result arm.
func (cb *CaseBuilder) When(condition, result Expression) *CaseBuilder {
	cb.c.Whens = append(cb.c.Whens, types.When{Test: condition, Result: result})
	return cb
}

// Else sets the ELSE result.
func (cb *CaseBuilder) Else(result Expression) *CaseBuilder {
	cb.c.Else = result
	return cb
}

// Build returns the CASE expression.
func (cb *CaseBuilder) Build() Case {
	c := cb.c
	c.Whens = append([]types.When(nil), cb.c.Whens...)
	return c
}

func fold(op BinaryOperator, conditions []Expression) Expression {
	var out Expression
	for _, c := range conditions {
		if c == nil {
			continue
		}
		if out == nil {
			out = c
			continue
		}
		out = binary(op, out, c)
	}
	return out
}
