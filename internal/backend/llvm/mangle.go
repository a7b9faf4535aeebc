package llvm

import (
	"strings"

	"github.com/ywhdzrb/Cavvy-sub000/internal/types"
)

// tag is the mangling letter(s) of one parameter type.
func tag(t IRType) string {
	switch t.Kind {
	case KVoid:
		return "v"
	case KI1:
		return "b"
	case KI8:
		return "c"
	case KI32:
		return "i"
	case KI64:
		return "l"
	case KFloat:
		return "f"
	case KDouble:
		return "d"
	}
	switch t.Ref {
	case RefString:
		return "s"
	case RefObject:
		return "o" + t.Class
	case RefArray:
		return "a" + tag(*t.Elem)
	default:
		return "p"
	}
}

// variadicTag stands for the array that collects variadic arguments.
const variadicTag = "ai"

// mangle builds the symbol of class.method with the given parameter tags.
// Parameterless methods keep their plain name.
func mangle(class, method string, tags []string) string {
	if len(tags) == 0 {
		return class + "." + method
	}
	return class + ".__" + method + "_" + strings.Join(tags, "_")
}

// mangleTypes mangles from IR types; the last one stands for a variadic
// array when variadic is set.
func mangleTypes(class, method string, params []IRType, variadic bool) string {
	tags := make([]string, len(params))
	for i, p := range params {
		tags[i] = tag(p)
	}
	if variadic && len(tags) > 0 {
		tags[len(tags)-1] = variadicTag
	}
	return mangle(class, method, tags)
}

// paramTypes lowers declared parameters; a variadic parameter becomes an
// array of its element type.
func paramTypes(m *types.MethodInfo) []IRType {
	out := make([]IRType, len(m.Params))
	for i, p := range m.Params {
		t := Lower(p.Type)
		if p.Variadic {
			t = arrayOf(t)
		}
		out[i] = t
	}
	return out
}

// methodSymbol is the declaration-time symbol of an overload.
func methodSymbol(m *types.MethodInfo) string {
	return mangleTypes(m.Class, m.Name, paramTypes(m), m.Variadic())
}

// ctorSymbol names a constructor: Class.__ctor or Class.__ctor_<tags>.
func ctorSymbol(m *types.MethodInfo) string {
	if len(m.Params) == 0 {
		return m.Class + ".__ctor"
	}
	return mangleTypes(m.Class, "ctor", paramTypes(m), m.Variadic())
}

func dtorSymbol(class string) string {
	return class + ".__dtor"
}

// callTarget is a resolved call: the symbol and how to pass arguments.
type callTarget struct {
	symbol   string
	params   []IRType // declared parameter types, variadic array last
	result   IRType
	variadic bool
	fixed    int  // parameters before the variadic tail
	passThru bool // the single trailing argument already is the array
}

// resolve picks the overload of set matching args:
//  1. an exact match on a non-variadic overload,
//  2. the first non-variadic overload of the right arity whose parameters
//     accept every argument by widening,
//  3. a variadic overload whose fixed prefix accepts the leading arguments.
func resolve(set []*types.MethodInfo, args []IRType, symbolOf func(*types.MethodInfo) string) (*callTarget, bool) {
	for _, m := range set {
		if m.Variadic() || len(m.Params) != len(args) {
			continue
		}
		params := paramTypes(m)
		if allMatch(params, args, exactArg) {
			return targetOf(m, params, symbolOf), true
		}
	}
	for _, m := range set {
		if m.Variadic() || len(m.Params) != len(args) {
			continue
		}
		params := paramTypes(m)
		if allMatch(params, args, widensTo) {
			return targetOf(m, params, symbolOf), true
		}
	}
	for _, m := range set {
		if !m.Variadic() {
			continue
		}
		fixed := m.FixedCount()
		if len(args) < fixed {
			continue
		}
		params := paramTypes(m)
		if !allMatch(params[:fixed], args[:fixed], widensTo) {
			continue
		}
		rest := args[fixed:]
		elem := *params[fixed].Elem
		passThru := len(rest) == 1 && rest[0].IsArray() && rest[0].Elem.Same(elem)
		if !passThru && !allMatch(repeat(elem, len(rest)), rest, widensTo) {
			continue
		}
		t := targetOf(m, params, symbolOf)
		t.variadic = true
		t.fixed = fixed
		t.passThru = passThru
		return t, true
	}
	return nil, false
}

func targetOf(m *types.MethodInfo, params []IRType, symbolOf func(*types.MethodInfo) string) *callTarget {
	return &callTarget{
		symbol: symbolOf(m),
		params: params,
		result: Lower(m.Result),
		fixed:  len(params),
	}
}

// fallbackTarget mangles a call to a method with no declaration from the
// argument types alone; the result is assumed to be a 64-bit integer.
func fallbackTarget(class, method string, args []IRType) *callTarget {
	return &callTarget{
		symbol: mangleTypes(class, method, args, false),
		params: args,
		result: tLong,
		fixed:  len(args),
	}
}

func allMatch(params, args []IRType, ok func(param, arg IRType) bool) bool {
	for i := range params {
		if !ok(params[i], args[i]) {
			return false
		}
	}
	return true
}

func repeat(t IRType, n int) []IRType {
	out := make([]IRType, n)
	for i := range out {
		out[i] = t
	}
	return out
}

func exactArg(param, arg IRType) bool {
	if param.Kind == KPtr && arg.Kind == KPtr && arg.Ref == RefRaw {
		return true // null
	}
	return param.Same(arg)
}

// widensTo reports whether an argument converts to param without loss.
func widensTo(param, arg IRType) bool {
	if exactArg(param, arg) {
		return true
	}
	switch {
	case param.IsInt() && arg.IsInt():
		return arg.Kind != KI1 && arg.Bits() <= param.Bits()
	case param.IsFloat() && arg.IsInt():
		return arg.Kind != KI1
	case param.IsFloat() && arg.IsFloat():
		return arg.Bits() <= param.Bits()
	case param.Kind == KPtr && arg.Kind == KPtr:
		return param.Ref == RefRaw || arg.Ref == RefRaw
	}
	return false
}

func describeTypes(ts []IRType) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.Describe()
	}
	return strings.Join(parts, ", ")
}
