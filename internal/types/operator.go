package types

// BinaryOperator identifies the operation of a Binary expression.
type BinaryOperator string

const (
	OpAdd                BinaryOperator = "Add"
	OpSubtract           BinaryOperator = "Subtract"
	OpMultiply           BinaryOperator = "Multiply"
	OpDivide             BinaryOperator = "Divide"
	OpModulo             BinaryOperator = "Modulo"
	OpAnd                BinaryOperator = "And"
	OpOr                 BinaryOperator = "Or"
	OpExclusiveOr        BinaryOperator = "ExclusiveOr"
	OpAndAlso            BinaryOperator = "AndAlso"
	OpOrElse             BinaryOperator = "OrElse"
	OpEqual              BinaryOperator = "Equal"
	OpNotEqual           BinaryOperator = "NotEqual"
	OpGreaterThan        BinaryOperator = "GreaterThan"
	OpGreaterThanOrEqual BinaryOperator = "GreaterThanOrEqual"
	OpLessThan           BinaryOperator = "LessThan"
	OpLessThanOrEqual    BinaryOperator = "LessThanOrEqual"
	OpCoalesce           BinaryOperator = "Coalesce"
)

// IsComparison reports whether the operator yields a boolean comparison.
func (op BinaryOperator) IsComparison() bool {
	switch op {
	case OpEqual, OpNotEqual, OpGreaterThan, OpGreaterThanOrEqual, OpLessThan, OpLessThanOrEqual:
		return true
	}
	return false
}

// IsBitwiseCapable reports whether the operator is bitwise on integral
// operands and logical on boolean operands.
func (op BinaryOperator) IsBitwiseCapable() bool {
	return op == OpAnd || op == OpOr || op == OpExclusiveOr
}

// UnaryOperator identifies the operation of a Unary expression.
type UnaryOperator string

const (
	OpNot       UnaryOperator = "Not"
	OpNegate    UnaryOperator = "Negate"
	OpIsNull    UnaryOperator = "IsNull"
	OpIsNotNull UnaryOperator = "IsNotNull"
)

// JoinKind represents the type of SQL join.
type JoinKind string

const (
	InnerJoin JoinKind = "INNER JOIN"
	LeftJoin  JoinKind = "LEFT JOIN"
	CrossJoin JoinKind = "CROSS JOIN"
)
