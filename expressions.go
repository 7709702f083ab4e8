package dialectql

import (
	"github.com/zoobzio/dialectql/internal/types"
	"github.com/zoobzio/dialectql/typemap"
)

// Lit creates an inline literal. The kind is inferred from the Go type of
// v; use LitOf for values whose kind cannot be inferred.
func Lit(v any) Literal {
	return types.Literal{Value: v, Kind: typemap.KindOf(v)}
}

// LitOf creates an inline literal of an explicit kind.
func LitOf(v any, kind Kind) Literal {
	return types.Literal{Value: v, Kind: kind}
}

// Null creates a typed NULL literal.
func Null(kind Kind) Literal {
	return types.Null(kind)
}

// Fn calls a store function.
func Fn(name string, kind Kind, args ...Expression) FunctionCall {
	return types.FunctionCall{Name: name, Kind: kind, Args: args}
}

// Niladic references a function that takes no argument list, such as
// CURRENT_TIMESTAMP.
func Niladic(name string, kind Kind) FunctionCall {
	return types.FunctionCall{Name: name, Kind: kind, Niladic: true}
}

// CastAs converts e to a store type.
func CastAs(e Expression, storeType string, kind Kind) Cast {
	return types.Cast{Operand: e, StoreType: storeType, Kind: kind}
}

// Member accesses a property that is translated at render time, for
// example Member(col, "String", "Length", KindInt32). A nil instance
// accesses a static member such as Member(nil, "DateTime", "Now", ...).
func Member(instance Expression, declaring, member string, kind Kind) MemberAccess {
	return types.MemberAccess{Instance: instance, Declaring: declaring, Member: member, Kind: kind}
}

// Method invokes a method that is translated at render time.
func Method(instance Expression, declaring, method string, kind Kind, args ...Expression) MethodCall {
	return types.MethodCall{Instance: instance, Declaring: declaring, Method: method, Args: args, Kind: kind}
}

// Add creates left + right. Adding text operands concatenates.
func Add(left, right Expression) Binary {
	return binary(types.OpAdd, left, right)
}

// Sub creates left - right.
func Sub(left, right Expression) Binary {
	return binary(types.OpSubtract, left, right)
}

// Mul creates left * right.
func Mul(left, right Expression) Binary {
	return binary(types.OpMultiply, left, right)
}

// Div creates left / right.
func Div(left, right Expression) Binary {
	return binary(types.OpDivide, left, right)
}

// Mod creates left % right.
func Mod(left, right Expression) Binary {
	return binary(types.OpModulo, left, right)
}

// BitAnd creates a bitwise AND on integral operands.
func BitAnd(left, right Expression) Binary {
	return binary(types.OpAnd, left, right)
}

// BitOr creates a bitwise OR on integral operands.
func BitOr(left, right Expression) Binary {
	return binary(types.OpOr, left, right)
}

// Xor creates an exclusive OR.
func Xor(left, right Expression) Binary {
	return binary(types.OpExclusiveOr, left, right)
}

// Coalesce returns the first non-null of its operands.
func Coalesce(first Expression, rest ...Expression) Expression {
	out := first
	for _, e := range rest {
		out = binary(types.OpCoalesce, out, e)
	}
	return out
}

// Negate creates -e.
func Negate(e Expression) Unary {
	return types.Unary{Op: types.OpNegate, Operand: e}
}

// Complement creates the bitwise complement of an integral operand.
func Complement(e Expression) Unary {
	return types.Unary{Op: types.OpNot, Operand: e}
}

// RowNumberOver numbers rows in the given order.
func RowNumberOver(orderings ...Ordering) RowNumber {
	return types.RowNumber{Orderings: orderings}
}

// Asc orders by e ascending.
func Asc(e Expression) Ordering {
	return types.Ordering{Expr: e}
}

// Desc orders by e descending.
func Desc(e Expression) Ordering {
	return types.Ordering{Expr: e, Descending: true}
}

// As projects e under an alias.
func As(e Expression, alias string) Projection {
	return types.Projection{Expr: e, Alias: alias}
}

func binary(op BinaryOperator, left, right Expression) Binary {
	return types.Binary{Op: op, Left: left, Right: right}
}
