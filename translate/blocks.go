package translate

import (
	"github.com/zoobzio/dialectql/internal/types"
)

// Function builds a store function call.
func Function(name string, kind types.Kind, args ...types.Expression) types.FunctionCall {
	return types.FunctionCall{Name: name, Args: args, Kind: kind}
}

// NiladicFunction builds a store function rendered without an argument list.
func NiladicFunction(name string, kind types.Kind) types.FunctionCall {
	return types.FunctionCall{Name: name, Kind: kind, Niladic: true}
}

// Static translates a static member such as DateTime.Now to a fixed expression.
func Static(declaring, member string, expr types.Expression) MemberTranslator {
	return MemberFunc(func(m types.MemberAccess) types.Expression {
		if m.Instance != nil || m.Declaring != declaring || m.Member != member {
			return nil
		}
		return expr
	})
}

// Member translates an instance member through build.
func Member(declaring, member string, build func(instance types.Expression, result types.Kind) types.Expression) MemberTranslator {
	return MemberFunc(func(m types.MemberAccess) types.Expression {
		if m.Instance == nil || m.Declaring != declaring || m.Member != member {
			return nil
		}
		return build(m.Instance, m.Kind)
	})
}

// Method translates a method with the given arity through build.
// For instance methods the instance is passed separately from args.
func Method(declaring, method string, arity int, build func(instance types.Expression, args []types.Expression, result types.Kind) types.Expression) MethodTranslator {
	return MethodFunc(func(m types.MethodCall) types.Expression {
		if m.Declaring != declaring || m.Method != method || len(m.Args) != arity {
			return nil
		}
		return build(m.Instance, m.Args, m.Kind)
	})
}

// Rename maps a method directly onto a store function. The instance, when
// present, becomes the first argument.
func Rename(declaring, method string, arity int, function string) MethodTranslator {
	return Method(declaring, method, arity, func(instance types.Expression, args []types.Expression, kind types.Kind) types.Expression {
		all := make([]types.Expression, 0, len(args)+1)
		if instance != nil {
			all = append(all, instance)
		}
		all = append(all, args...)
		return Function(function, kind, all...)
	})
}

// DatePart translates date component members (Year, Month, ...) through a
// lookup table from member name to store date part keyword.
func DatePart(declaring string, parts map[string]string, build func(part string, instance types.Expression, result types.Kind) types.Expression) MemberTranslator {
	return MemberFunc(func(m types.MemberAccess) types.Expression {
		if m.Instance == nil || m.Declaring != declaring {
			return nil
		}
		part, ok := parts[m.Member]
		if !ok {
			return nil
		}
		return build(part, m.Instance, m.Kind)
	})
}

// ToString translates parameterless ToString calls on instances whose kind
// appears in the allow-list. The list maps the instance kind to the store
// type the value is converted to.
func ToString(allow map[types.Kind]string, build func(storeType string, instance types.Expression) types.Expression) MethodTranslator {
	return MethodFunc(func(m types.MethodCall) types.Expression {
		if m.Method != "ToString" || m.Instance == nil || len(m.Args) != 0 {
			return nil
		}
		storeType, ok := allow[m.Instance.Type()]
		if !ok {
			return nil
		}
		return build(storeType, m.Instance)
	})
}
