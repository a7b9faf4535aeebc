package llvm

import (
	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

func (fe *funcEmitter) unary(u *ast.UnaryExpr) (value, error) {
	switch u.Op {
	case ast.OpPreInc, ast.OpPreDec, ast.OpPostInc, ast.OpPostDec:
		return fe.step(u)
	}
	v, err := fe.expr(u.Operand)
	if err != nil {
		return value{}, err
	}
	tmp := fe.nextTemp()
	switch u.Op {
	case ast.OpNeg:
		switch {
		case v.ty.IsFloat():
			fe.emitf("%s = fneg %s %s", tmp, v.ty, v.ref)
		case v.ty.IsInt():
			fe.emitf("%s = sub %s 0, %s", tmp, v.ty, v.ref)
		default:
			return value{}, errorf("cannot negate %s", v.ty.Describe())
		}
		return value{ty: v.ty, ref: tmp}, nil
	case ast.OpNot:
		b, err := fe.truthy(v)
		if err != nil {
			return value{}, err
		}
		fe.emitf("%s = xor i1 %s, true", tmp, b.ref)
		return value{ty: tBool, ref: tmp}, nil
	case ast.OpBitNot:
		if !v.ty.IsInt() {
			return value{}, errorf("operator ~ needs an integer operand, got %s", v.ty.Describe())
		}
		fe.emitf("%s = xor %s %s, -1", tmp, v.ty, v.ref)
		return value{ty: v.ty, ref: tmp}, nil
	}
	return value{}, errorf("unsupported unary operator %s", u.Op)
}

// step lowers ++ and --: load, add or subtract one, store back. Prefix
// forms yield the new value, postfix forms the old one.
func (fe *funcEmitter) step(u *ast.UnaryExpr) (value, error) {
	if u.Operand == nil || u.Operand.Kind != ast.ExprIdent {
		return value{}, errorf("operator %s needs a variable operand", u.Op)
	}
	addr, t, err := fe.identAddr(u.Operand.Name)
	if err != nil {
		return value{}, err
	}
	if !t.IsNumeric() || t.Kind == KI1 {
		return value{}, errorf("operator %s is not defined for %s", u.Op, t.Describe())
	}
	old := fe.load(t, addr)
	inc := u.Op == ast.OpPreInc || u.Op == ast.OpPostInc
	tmp := fe.nextTemp()
	switch {
	case t.IsFloat() && inc:
		fe.emitf("%s = fadd %s %s, 1.0", tmp, t, old.ref)
	case t.IsFloat():
		fe.emitf("%s = fsub %s %s, 1.0", tmp, t, old.ref)
	case inc:
		fe.emitf("%s = add %s %s, 1", tmp, t, old.ref)
	default:
		fe.emitf("%s = sub %s %s, 1", tmp, t, old.ref)
	}
	updated := value{ty: t, ref: tmp}
	fe.store(updated, addr)
	if u.Op == ast.OpPreInc || u.Op == ast.OpPreDec {
		return updated, nil
	}
	return old, nil
}
