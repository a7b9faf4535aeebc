package llvm

import (
	"strings"

	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
	"github.com/ywhdzrb/Cavvy-sub000/internal/types"
)

func (fe *funcEmitter) call(c *ast.CallExpr) (value, error) {
	callee := c.Callee
	if callee == nil {
		return value{}, errorf("call without a callee")
	}
	switch callee.Kind {
	case ast.ExprIdent:
		name := callee.Name
		if v, ok := fe.scope.Lookup(name); ok {
			return fe.indirectCall(fe.load(v.Type, slotRef(v.Slot)), c.Args)
		}
		set := fe.emitter.reg.Methods(fe.class, name)
		if len(set) == 0 {
			if intrinsicNames[name] {
				return fe.intrinsic(name, c.Args)
			}
			return value{}, errorf("undefined method %s", name)
		}
		return fe.callMethod(fe.class, name, set, c.Args)
	case ast.ExprMember:
		if callee.Member == nil {
			return value{}, malformed(callee)
		}
		return fe.callMember(callee.Member, c.Args)
	}
	fn, err := fe.expr(callee)
	if err != nil {
		return value{}, err
	}
	return fe.indirectCall(fn, c.Args)
}

// callMember handles `Class.m(...)`, `System.out.println(...)`, String
// methods and instance methods, which are called without a receiver.
func (fe *funcEmitter) callMember(m *ast.MemberExpr, args []*ast.Expr) (value, error) {
	if isSystemOut(m.Object) && intrinsicNames[m.Name] {
		return fe.intrinsic(m.Name, args)
	}
	if class, ok := fe.className(m.Object); ok {
		if _, known := fe.emitter.reg.Class(class); !known {
			return fe.callExtern(class, m.Name, args)
		}
		set := fe.emitter.reg.Methods(class, m.Name)
		if len(set) == 0 {
			return value{}, errorf("undefined method %s.%s", class, m.Name)
		}
		return fe.callMethod(class, m.Name, set, args)
	}
	recv, err := fe.expr(m.Object)
	if err != nil {
		return value{}, err
	}
	switch {
	case recv.ty.IsString():
		return fe.stringMethod(recv, m.Name, args)
	case recv.ty.Kind == KPtr && recv.ty.Ref == RefObject:
		set := fe.emitter.reg.Methods(recv.ty.Class, m.Name)
		if len(set) == 0 {
			return value{}, errorf("undefined method %s.%s", recv.ty.Class, m.Name)
		}
		return fe.callMethod(recv.ty.Class, m.Name, set, args)
	}
	return value{}, errorf("cannot call %s on %s", m.Name, recv.ty.Describe())
}

func isSystemOut(x *ast.Expr) bool {
	return x != nil && x.Kind == ast.ExprMember && x.Member != nil && x.Member.Name == "out" &&
		x.Member.Object != nil && x.Member.Object.Kind == ast.ExprIdent && x.Member.Object.Name == "System"
}

func (fe *funcEmitter) args(list []*ast.Expr) ([]value, []IRType, error) {
	vals := make([]value, len(list))
	tys := make([]IRType, len(list))
	for i, a := range list {
		v, err := fe.expr(a)
		if err != nil {
			return nil, nil, err
		}
		vals[i] = v
		tys[i] = v.ty
	}
	return vals, tys, nil
}

func (fe *funcEmitter) callMethod(class, name string, set []*types.MethodInfo, list []*ast.Expr) (value, error) {
	vals, tys, err := fe.args(list)
	if err != nil {
		return value{}, err
	}
	target, ok := resolve(set, tys, methodSymbol)
	if !ok {
		return value{}, errorf("no matching overload for %s.%s(%s)", class, name, describeTypes(tys))
	}
	return fe.emitCall(target, vals)
}

// callExtern calls a method of a class outside the program. The symbol is
// mangled from the argument types and the result is taken to be i64.
func (fe *funcEmitter) callExtern(class, name string, list []*ast.Expr) (value, error) {
	vals, tys, err := fe.args(list)
	if err != nil {
		return value{}, err
	}
	target := fallbackTarget(class, name, tys)
	fe.emitter.declareExtern(target.symbol, target.result, target.params)
	return fe.emitCall(target, vals)
}

// emitCall converts arguments to the target's parameters, packs a variadic
// tail into a fresh array and widens i32 arguments to i64.
func (fe *funcEmitter) emitCall(target *callTarget, vals []value) (value, error) {
	list := make([]string, 0, len(target.params))
	for i := 0; i < target.fixed; i++ {
		v, err := fe.coerce(vals[i], target.params[i])
		if err != nil {
			return value{}, err
		}
		v = fe.widenArg(v)
		list = append(list, v.ty.String()+" "+v.ref)
	}
	if target.variadic {
		rest := vals[target.fixed:]
		var packed string
		if target.passThru {
			packed = rest[0].ref
		} else {
			var err error
			if packed, err = fe.packArray(*target.params[target.fixed].Elem, rest); err != nil {
				return value{}, err
			}
		}
		list = append(list, "ptr "+packed)
	}
	return fe.callText(target.result, global(target.symbol), list), nil
}

// indirectCall calls through a function value.
func (fe *funcEmitter) indirectCall(fn value, list []*ast.Expr) (value, error) {
	if fn.ty.Ref != RefFunc || fn.ty.Sig == nil {
		return value{}, errorf("cannot call a value of type %s", fn.ty.Describe())
	}
	sig := fn.ty.Sig
	if len(list) != len(sig.Params) {
		return value{}, errorf("function value expects %d arguments, got %d", len(sig.Params), len(list))
	}
	args := make([]string, len(list))
	for i, a := range list {
		v, err := fe.exprTo(a, sig.Params[i])
		if err != nil {
			return value{}, err
		}
		v = fe.widenArg(v)
		args[i] = v.ty.String() + " " + v.ref
	}
	return fe.callText(sig.Result, fn.ref, args), nil
}

// callText emits one call instruction.
func (fe *funcEmitter) callText(ret IRType, callee string, args []string) value {
	joined := strings.Join(args, ", ")
	if ret.Kind == KVoid {
		fe.emitf("call void %s(%s)", callee, joined)
		return value{ty: tVoid}
	}
	tmp := fe.nextTemp()
	fe.emitf("%s = call %s %s(%s)", tmp, ret, callee, joined)
	return value{ty: ret, ref: tmp}
}
