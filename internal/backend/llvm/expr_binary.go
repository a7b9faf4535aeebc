package llvm

import (
	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

func (fe *funcEmitter) binary(b *ast.BinaryExpr) (value, error) {
	left, err := fe.expr(b.Left)
	if err != nil {
		return value{}, err
	}
	right, err := fe.expr(b.Right)
	if err != nil {
		return value{}, err
	}
	return fe.binaryValues(b.Op, left, right)
}

var (
	intArith = map[ast.BinaryOp]string{
		ast.OpAdd: "add", ast.OpSub: "sub", ast.OpMul: "mul", ast.OpDiv: "sdiv", ast.OpMod: "srem",
		ast.OpBitAnd: "and", ast.OpBitOr: "or", ast.OpBitXor: "xor",
		ast.OpShl: "shl", ast.OpShr: "ashr", ast.OpUShr: "lshr",
	}
	floatArith = map[ast.BinaryOp]string{
		ast.OpAdd: "fadd", ast.OpSub: "fsub", ast.OpMul: "fmul", ast.OpDiv: "fdiv", ast.OpMod: "frem",
	}
	intCmp = map[ast.BinaryOp]string{
		ast.OpEq: "eq", ast.OpNe: "ne", ast.OpLt: "slt", ast.OpLe: "sle", ast.OpGt: "sgt", ast.OpGe: "sge",
	}
	floatCmp = map[ast.BinaryOp]string{
		ast.OpEq: "oeq", ast.OpNe: "une", ast.OpLt: "olt", ast.OpLe: "ole", ast.OpGt: "ogt", ast.OpGe: "oge",
	}
)

// binaryValues applies op to two generated operands.
func (fe *funcEmitter) binaryValues(op ast.BinaryOp, left, right value) (value, error) {
	switch {
	case op == ast.OpAnd || op == ast.OpOr:
		return fe.logical(op, left, right)
	case op == ast.OpAdd && (left.ty.IsString() || right.ty.IsString()):
		return fe.concat(left, right)
	case (op == ast.OpEq || op == ast.OpNe) && left.ty.IsString() && right.ty.IsString():
		return fe.stringEquals(op, left, right), nil
	case op.IsBitwise():
		if !left.ty.IsInt() || !right.ty.IsInt() {
			return value{}, errorf("operator %s needs integer operands, got %s and %s", op, left.ty.Describe(), right.ty.Describe())
		}
		return fe.intBinary(op, left, right), nil
	case (op == ast.OpEq || op == ast.OpNe) && left.ty.IsPtr() && right.ty.IsPtr():
		tmp := fe.nextTemp()
		fe.emitf("%s = icmp %s ptr %s, %s", tmp, intCmp[op], left.ref, right.ref)
		return value{ty: tBool, ref: tmp}, nil
	case !left.ty.IsNumeric() || !right.ty.IsNumeric():
		return value{}, errorf("operator %s is not defined for %s and %s", op, left.ty.Describe(), right.ty.Describe())
	case left.ty.IsFloat() || right.ty.IsFloat():
		return fe.floatBinary(op, left, right), nil
	default:
		return fe.intBinary(op, left, right), nil
	}
}

// intBinary promotes both operands to the wider integer type first.
func (fe *funcEmitter) intBinary(op ast.BinaryOp, left, right value) value {
	t := promoteKind(left.ty, right.ty)
	left = fe.intToInt(left, t)
	right = fe.intToInt(right, t)
	tmp := fe.nextTemp()
	if cmp, ok := intCmp[op]; ok {
		fe.emitf("%s = icmp %s %s %s, %s", tmp, cmp, t, left.ref, right.ref)
		return value{ty: tBool, ref: tmp}
	}
	fe.emitf("%s = %s %s %s, %s", tmp, intArith[op], t, left.ref, right.ref)
	return value{ty: t, ref: tmp}
}

// floatBinary converts an integer operand to the other side's float type,
// then extends float to double when the widths differ.
func (fe *funcEmitter) floatBinary(op ast.BinaryOp, left, right value) value {
	if left.ty.IsInt() {
		left = fe.intToFloat(left, right.ty)
	}
	if right.ty.IsInt() {
		right = fe.intToFloat(right, left.ty)
	}
	t := promoteFloat(left.ty, right.ty)
	left = fe.floatToFloat(left, t)
	right = fe.floatToFloat(right, t)
	tmp := fe.nextTemp()
	if cmp, ok := floatCmp[op]; ok {
		fe.emitf("%s = fcmp %s %s %s, %s", tmp, cmp, t, left.ref, right.ref)
		return value{ty: tBool, ref: tmp}
	}
	fe.emitf("%s = %s %s %s, %s", tmp, floatArith[op], t, left.ref, right.ref)
	return value{ty: t, ref: tmp}
}

// logical combines both operands, which are always evaluated.
func (fe *funcEmitter) logical(op ast.BinaryOp, left, right value) (value, error) {
	l, err := fe.truthy(left)
	if err != nil {
		return value{}, err
	}
	r, err := fe.truthy(right)
	if err != nil {
		return value{}, err
	}
	instr := "and"
	if op == ast.OpOr {
		instr = "or"
	}
	tmp := fe.nextTemp()
	fe.emitf("%s = %s i1 %s, %s", tmp, instr, l.ref, r.ref)
	return value{ty: tBool, ref: tmp}, nil
}
