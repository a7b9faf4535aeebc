package llvm

import (
	"fmt"
	"math"
)

// coerce converts v to t for stores, arguments and returns: integers
// extend or truncate, integers and floats convert, floats extend or
// truncate and pointers pass through. Anything else is an error.
func (fe *funcEmitter) coerce(v value, t IRType) (value, error) {
	if v.ty.Same(t) {
		return value{ty: t, ref: v.ref}, nil
	}
	switch {
	case v.ty.Kind == KPtr && t.Kind == KPtr:
		if !ptrAssignable(t, v.ty) {
			return value{}, errorf("cannot convert %s to %s", v.ty.Describe(), t.Describe())
		}
		return value{ty: t, ref: v.ref}, nil
	case v.ty.IsInt() && t.IsInt():
		return fe.intToInt(v, t), nil
	case v.ty.IsInt() && t.IsFloat():
		return fe.intToFloat(v, t), nil
	case v.ty.IsFloat() && t.IsInt():
		return fe.floatToInt(v, t), nil
	case v.ty.IsFloat() && t.IsFloat():
		return fe.floatToFloat(v, t), nil
	}
	return value{}, errorf("cannot convert %s to %s", v.ty.Describe(), t.Describe())
}

// ptrAssignable accepts null and untyped pointers anywhere, and typed
// pointers of a matching shape. Function values only need to be functions.
func ptrAssignable(dst, src IRType) bool {
	if dst.Ref == RefRaw || src.Ref == RefRaw {
		return true
	}
	if dst.Ref != src.Ref {
		return false
	}
	switch dst.Ref {
	case RefArray:
		return dst.Elem.Same(*src.Elem) || dst.Elem.Kind == KPtr && src.Elem.Kind == KPtr
	case RefObject, RefFunc:
		return true
	}
	return true
}

func (fe *funcEmitter) intToInt(v value, t IRType) value {
	if v.ty.Kind == t.Kind {
		return value{ty: t, ref: v.ref}
	}
	tmp := fe.nextTemp()
	switch {
	case t.Kind == KI1:
		fe.emitf("%s = icmp ne %s %s, 0", tmp, v.ty, v.ref)
	case v.ty.Kind == KI1:
		fe.emitf("%s = zext i1 %s to %s", tmp, v.ref, t)
	case v.ty.Bits() < t.Bits():
		fe.emitf("%s = sext %s %s to %s", tmp, v.ty, v.ref, t)
	default:
		fe.emitf("%s = trunc %s %s to %s", tmp, v.ty, v.ref, t)
	}
	return value{ty: t, ref: tmp}
}

func (fe *funcEmitter) intToFloat(v value, t IRType) value {
	tmp := fe.nextTemp()
	op := "sitofp"
	if v.ty.Kind == KI1 {
		op = "uitofp"
	}
	fe.emitf("%s = %s %s %s to %s", tmp, op, v.ty, v.ref, t)
	return value{ty: t, ref: tmp}
}

func (fe *funcEmitter) floatToInt(v value, t IRType) value {
	tmp := fe.nextTemp()
	if t.Kind == KI1 {
		fe.emitf("%s = fcmp une %s %s, 0.0", tmp, v.ty, v.ref)
	} else {
		fe.emitf("%s = fptosi %s %s to %s", tmp, v.ty, v.ref, t)
	}
	return value{ty: t, ref: tmp}
}

func (fe *funcEmitter) floatToFloat(v value, t IRType) value {
	if v.ty.Kind == t.Kind {
		return value{ty: t, ref: v.ref}
	}
	tmp := fe.nextTemp()
	if t.Kind == KDouble {
		fe.emitf("%s = fpext float %s to double", tmp, v.ref)
	} else {
		fe.emitf("%s = fptrunc double %s to float", tmp, v.ref)
	}
	return value{ty: t, ref: tmp}
}

// truthy reduces v to i1 for logical operators.
func (fe *funcEmitter) truthy(v value) (value, error) {
	if v.ty.Kind == KI1 {
		return v, nil
	}
	return fe.testNonZero(v)
}

// testNonZero emits `icmp ne v, 0` (or the float/pointer equivalent).
func (fe *funcEmitter) testNonZero(v value) (value, error) {
	tmp := fe.nextTemp()
	switch {
	case v.ty.IsInt():
		fe.emitf("%s = icmp ne %s %s, 0", tmp, v.ty, v.ref)
	case v.ty.IsFloat():
		fe.emitf("%s = fcmp une %s %s, 0.0", tmp, v.ty, v.ref)
	case v.ty.Kind == KPtr:
		fe.emitf("%s = icmp ne ptr %s, null", tmp, v.ref)
	default:
		return value{}, errorf("%s value used as a condition", v.ty.Describe())
	}
	return value{ty: tBool, ref: tmp}, nil
}

// widenArg applies the call ABI: 32-bit integers are passed as i64.
func (fe *funcEmitter) widenArg(v value) value {
	if v.ty.Kind != KI32 {
		return v
	}
	return fe.intToInt(v, tLong)
}

// floatConst renders a float or double constant exactly, as IR expects:
// the hex image of the double, with float values rounded to float first.
func floatConst(v float64, t IRType) string {
	if t.Kind == KFloat {
		v = float64(float32(v))
	}
	return fmt.Sprintf("0x%016X", math.Float64bits(v))
}
