package llvm

import (
	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

// lvalue resolves an assignment target to an address and its type.
func (fe *funcEmitter) lvalue(target *ast.Expr) (string, IRType, error) {
	if target == nil {
		return "", IRType{}, errorf("missing assignment target")
	}
	switch target.Kind {
	case ast.ExprIdent:
		return fe.identAddr(target.Name)
	case ast.ExprMember:
		if target.Member != nil {
			if sf, ok := fe.staticMember(target.Member); ok {
				return global(sf.Symbol), sf.Type, nil
			}
		}
	case ast.ExprIndex:
		if target.Index != nil {
			return fe.elemAddr(target.Index)
		}
	}
	return "", IRType{}, errorf("invalid assignment target %s", target.Kind)
}

// assign stores the converted value and yields it.
func (fe *funcEmitter) assign(a *ast.AssignExpr) (value, error) {
	addr, t, err := fe.lvalue(a.Target)
	if err != nil {
		return value{}, err
	}
	var v value
	if op, ok := a.Op.Binary(); ok {
		cur := fe.load(t, addr)
		rhs, err := fe.expr(a.Value)
		if err != nil {
			return value{}, err
		}
		res, err := fe.binaryValues(op, cur, rhs)
		if err != nil {
			return value{}, err
		}
		if v, err = fe.coerce(res, t); err != nil {
			return value{}, err
		}
	} else if v, err = fe.exprTo(a.Value, t); err != nil {
		return value{}, err
	}
	fe.store(v, addr)
	return v, nil
}

func (fe *funcEmitter) cast(c *ast.CastExpr) (value, error) {
	v, err := fe.expr(c.Expr)
	if err != nil {
		return value{}, err
	}
	t := Lower(c.Type)
	switch {
	case v.ty.Same(t):
		return value{ty: t, ref: v.ref}, nil
	case v.ty.IsPtr() && t.IsPtr():
		return value{ty: t, ref: v.ref}, nil
	case t.IsString() && v.ty.IsFloat():
		return fe.callRuntime(rtFloatToString, tString, fe.floatToFloat(v, tDouble)), nil
	case v.ty.IsNumeric() && t.IsNumeric():
		return fe.coerce(v, t)
	}
	return value{}, errorf("cannot cast %s to %s", v.ty.Describe(), t.Describe())
}
