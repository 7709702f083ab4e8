package dialectql

import "github.com/zoobzio/dialectql/internal/types"

// BinaryOperator identifies the operation of a Binary expression.
type BinaryOperator = types.BinaryOperator

// UnaryOperator identifies the operation of a Unary expression.
type UnaryOperator = types.UnaryOperator

// JoinKind represents the type of SQL join.
type JoinKind = types.JoinKind

// Re-export operator constants for public API.
const (
	// Arithmetic.
	OpAdd      = types.OpAdd
	OpSubtract = types.OpSubtract
	OpMultiply = types.OpMultiply
	OpDivide   = types.OpDivide
	OpModulo   = types.OpModulo

	// Logical on bool operands, bitwise otherwise.
	OpAnd         = types.OpAnd
	OpOr          = types.OpOr
	OpExclusiveOr = types.OpExclusiveOr

	// Short-circuit logic.
	OpAndAlso = types.OpAndAlso
	OpOrElse  = types.OpOrElse

	// Comparison.
	OpEqual              = types.OpEqual
	OpNotEqual           = types.OpNotEqual
	OpGreaterThan        = types.OpGreaterThan
	OpGreaterThanOrEqual = types.OpGreaterThanOrEqual
	OpLessThan           = types.OpLessThan
	OpLessThanOrEqual    = types.OpLessThanOrEqual

	OpCoalesce = types.OpCoalesce

	// Unary.
	OpNot       = types.OpNot
	OpNegate    = types.OpNegate
	OpIsNull    = types.OpIsNull
	OpIsNotNull = types.OpIsNotNull
)

// Re-export join kinds for public API.
const (
	InnerJoin = types.InnerJoin
	LeftJoin  = types.LeftJoin
	CrossJoin = types.CrossJoin
)
