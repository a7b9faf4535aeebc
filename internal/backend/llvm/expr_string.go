package llvm

import (
	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

// toString converts a value to a String with the runtime routines. Null
// pointers stay null; concatenation treats them as "".
func (fe *funcEmitter) toString(v value) (value, error) {
	switch {
	case v.ty.IsString():
		return v, nil
	case v.ty.Kind == KPtr && v.ty.Ref == RefRaw:
		return value{ty: tString, ref: v.ref}, nil
	case v.ty.Kind == KI1:
		return fe.callRuntime(rtBoolToString, tString, v), nil
	case v.ty.Kind == KI8:
		return fe.callRuntime(rtCharToString, tString, v), nil
	case v.ty.IsInt():
		return fe.callRuntime(rtIntToString, tString, fe.intToInt(v, tLong)), nil
	case v.ty.IsFloat():
		return fe.callRuntime(rtFloatToString, tString, fe.floatToFloat(v, tDouble)), nil
	}
	return value{}, errorf("cannot convert %s to String", v.ty.Describe())
}

func (fe *funcEmitter) concat(left, right value) (value, error) {
	l, err := fe.toString(left)
	if err != nil {
		return value{}, err
	}
	r, err := fe.toString(right)
	if err != nil {
		return value{}, err
	}
	return fe.callRuntime(rtConcat, tString, l, r), nil
}

// stringEquals compares contents; two nulls are equal.
func (fe *funcEmitter) stringEquals(op ast.BinaryOp, left, right value) value {
	eq := fe.callRuntime(rtStringEq, tBool, left, right)
	if op == ast.OpEq {
		return eq
	}
	tmp := fe.nextTemp()
	fe.emitf("%s = xor i1 %s, true", tmp, eq.ref)
	return value{ty: tBool, ref: tmp}
}

// stringMethod dispatches `s.name(args)` to the runtime library.
func (fe *funcEmitter) stringMethod(recv value, name string, list []*ast.Expr) (value, error) {
	want := map[string]int{
		"length":    0,
		"charAt":    1,
		"indexOf":   1,
		"equals":    1,
		"replace":   2,
		"substring": -1,
	}
	n, ok := want[name]
	if !ok {
		return value{}, errorf("String has no method %s", name)
	}
	if n >= 0 && len(list) != n {
		return value{}, errorf("String.%s expects %d argument(s), got %d", name, n, len(list))
	}
	if n < 0 && (len(list) < 1 || len(list) > 2) {
		return value{}, errorf("String.%s expects 1 or 2 arguments, got %d", name, len(list))
	}
	vals, _, err := fe.args(list)
	if err != nil {
		return value{}, err
	}
	switch name {
	case "length":
		return fe.callRuntime(rtLength, tInt, recv), nil
	case "charAt":
		idx, err := fe.intArg(name, vals[0])
		if err != nil {
			return value{}, err
		}
		return fe.callRuntime(rtCharAt, tChar, recv, idx), nil
	case "indexOf":
		needle, err := fe.textArg(name, vals[0])
		if err != nil {
			return value{}, err
		}
		return fe.callRuntime(rtIndexOf, tInt, recv, needle), nil
	case "equals":
		other, err := fe.textArg(name, vals[0])
		if err != nil {
			return value{}, err
		}
		return fe.callRuntime(rtStringEq, tBool, recv, other), nil
	case "replace":
		old, err := fe.textArg(name, vals[0])
		if err != nil {
			return value{}, err
		}
		repl, err := fe.textArg(name, vals[1])
		if err != nil {
			return value{}, err
		}
		return fe.callRuntime(rtReplace, tString, recv, old, repl), nil
	}
	begin, err := fe.intArg(name, vals[0])
	if err != nil {
		return value{}, err
	}
	var end value
	if len(vals) == 2 {
		if end, err = fe.intArg(name, vals[1]); err != nil {
			return value{}, err
		}
	} else {
		end = fe.callRuntime(rtLength, tInt, recv)
	}
	return fe.callRuntime(rtSubstring, tString, recv, begin, end), nil
}

func (fe *funcEmitter) intArg(method string, v value) (value, error) {
	if !v.ty.IsInt() || v.ty.Kind == KI1 {
		return value{}, errorf("String.%s expects an integer, got %s", method, v.ty.Describe())
	}
	return fe.intToInt(v, tInt), nil
}

// textArg accepts a String or a char, which becomes a one-character string.
func (fe *funcEmitter) textArg(method string, v value) (value, error) {
	switch {
	case v.ty.IsString(), v.ty.Kind == KPtr && v.ty.Ref == RefRaw:
		return value{ty: tString, ref: v.ref}, nil
	case v.ty.Kind == KI8:
		return fe.callRuntime(rtCharToString, tString, v), nil
	}
	return value{}, errorf("String.%s expects a String or char, got %s", method, v.ty.Describe())
}
