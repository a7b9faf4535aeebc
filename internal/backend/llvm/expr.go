package llvm

import (
	"strconv"

	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

// expr generates x and returns its value. Every instruction it emits lands
// in the current block, operands strictly before their uses.
func (fe *funcEmitter) expr(x *ast.Expr) (value, error) {
	if x == nil {
		return value{}, errorf("missing expression")
	}
	switch x.Kind {
	case ast.ExprLiteral:
		if x.Lit == nil {
			return value{}, malformed(x)
		}
		return fe.literal(x.Lit), nil
	case ast.ExprIdent:
		addr, t, err := fe.identAddr(x.Name)
		if err != nil {
			return value{}, err
		}
		return fe.load(t, addr), nil
	case ast.ExprBinary:
		if x.Binary == nil {
			return value{}, malformed(x)
		}
		return fe.binary(x.Binary)
	case ast.ExprUnary:
		if x.Unary == nil {
			return value{}, malformed(x)
		}
		return fe.unary(x.Unary)
	case ast.ExprCall:
		if x.Call == nil {
			return value{}, malformed(x)
		}
		return fe.call(x.Call)
	case ast.ExprMember:
		if x.Member == nil {
			return value{}, malformed(x)
		}
		return fe.member(x.Member)
	case ast.ExprNew:
		if x.New == nil {
			return value{}, malformed(x)
		}
		return fe.newObject(x.New)
	case ast.ExprAssign:
		if x.Assign == nil {
			return value{}, malformed(x)
		}
		return fe.assign(x.Assign)
	case ast.ExprCast:
		if x.Cast == nil {
			return value{}, malformed(x)
		}
		return fe.cast(x.Cast)
	case ast.ExprNewArray:
		if x.NewArray == nil {
			return value{}, malformed(x)
		}
		return fe.newArray(x.NewArray)
	case ast.ExprIndex:
		if x.Index == nil {
			return value{}, malformed(x)
		}
		addr, t, err := fe.elemAddr(x.Index)
		if err != nil {
			return value{}, err
		}
		return fe.load(t, addr), nil
	case ast.ExprArrayInit:
		if x.ArrayInit == nil {
			return value{}, malformed(x)
		}
		return fe.arrayLiteral(x.ArrayInit, nil)
	case ast.ExprMethodRef:
		if x.MethodRef == nil {
			return value{}, malformed(x)
		}
		return fe.methodRef(x.MethodRef)
	case ast.ExprLambda:
		if x.Lambda == nil {
			return value{}, malformed(x)
		}
		return fe.lambda(x.Lambda)
	}
	return value{}, errorf("unsupported expression kind %s", x.Kind)
}

func malformed(x *ast.Expr) error {
	return errorf("malformed %s expression", x.Kind)
}

// exprTo generates x for a destination of type t and converts the result.
// Brace initializers take their element type from t.
func (fe *funcEmitter) exprTo(x *ast.Expr, t IRType) (value, error) {
	if x != nil && x.Kind == ast.ExprArrayInit && x.ArrayInit != nil && t.IsArray() {
		elem := *t.Elem
		return fe.arrayLiteral(x.ArrayInit, &elem)
	}
	v, err := fe.expr(x)
	if err != nil {
		return value{}, err
	}
	return fe.coerce(v, t)
}

func (fe *funcEmitter) literal(lit *ast.Literal) value {
	switch lit.Kind {
	case ast.LitInt:
		return value{ty: tInt, ref: intConst(lit.Int, tInt)}
	case ast.LitLong:
		return value{ty: tLong, ref: strconv.FormatInt(lit.Int, 10)}
	case ast.LitFloat:
		return value{ty: tFloat, ref: floatConst(lit.Float, tFloat)}
	case ast.LitDouble:
		return value{ty: tDouble, ref: floatConst(lit.Float, tDouble)}
	case ast.LitString:
		return value{ty: tString, ref: fe.emitter.pool.Intern(lit.Str)}
	case ast.LitBool:
		return value{ty: tBool, ref: intConst(boolInt(lit.Bool), tBool)}
	case ast.LitChar:
		return value{ty: tChar, ref: intConst(int64(lit.Char), tChar)}
	default:
		return value{ty: tPtr, ref: "null"}
	}
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// identAddr resolves a name to its storage: a local slot first, then a
// static field visible from the current class.
func (fe *funcEmitter) identAddr(name string) (string, IRType, error) {
	if v, ok := fe.scope.Lookup(name); ok {
		return slotRef(v.Slot), v.Type, nil
	}
	if sf, ok := fe.emitter.staticField(fe.class, name); ok {
		return global(sf.Symbol), sf.Type, nil
	}
	return "", IRType{}, errorf("undefined variable %s", name)
}

// className reports whether x names a class rather than a value.
func (fe *funcEmitter) className(x *ast.Expr) (string, bool) {
	if x == nil || x.Kind != ast.ExprIdent {
		return "", false
	}
	if _, ok := fe.scope.Lookup(x.Name); ok {
		return "", false
	}
	if _, ok := fe.emitter.staticField(fe.class, x.Name); ok {
		return "", false
	}
	return x.Name, true
}

// staticMember resolves `Class.field`.
func (fe *funcEmitter) staticMember(m *ast.MemberExpr) (*StaticField, bool) {
	class, ok := fe.className(m.Object)
	if !ok {
		return nil, false
	}
	return fe.emitter.staticField(class, m.Name)
}

func (fe *funcEmitter) member(m *ast.MemberExpr) (value, error) {
	if sf, ok := fe.staticMember(m); ok {
		return fe.load(sf.Type, global(sf.Symbol)), nil
	}
	if class, ok := fe.className(m.Object); ok {
		if _, known := fe.emitter.reg.Class(class); known {
			return value{}, errorf("class %s has no static field %s", class, m.Name)
		}
	}
	obj, err := fe.expr(m.Object)
	if err != nil {
		return value{}, err
	}
	if m.Name == "length" {
		switch {
		case obj.ty.IsArray():
			return fe.arrayLength(obj.ref), nil
		case obj.ty.IsString():
			return fe.callRuntime(rtLength, tInt, obj), nil
		}
	}
	// Object fields have no layout; the access yields the object itself.
	return value{ty: tPtr, ref: obj.ref}, nil
}

// arrayLength reads the element count stored in the header 8 bytes before
// the data pointer.
func (fe *funcEmitter) arrayLength(ref string) value {
	header := fe.nextTemp()
	fe.emitf("%s = getelementptr inbounds i8, ptr %s, i64 -8", header, ref)
	return fe.load(tInt, header)
}

// elemAddr computes the address of array[index].
func (fe *funcEmitter) elemAddr(ix *ast.IndexExpr) (string, IRType, error) {
	arr, err := fe.expr(ix.Array)
	if err != nil {
		return "", IRType{}, err
	}
	if !arr.ty.IsArray() {
		return "", IRType{}, errorf("cannot index %s", arr.ty.Describe())
	}
	idx, err := fe.expr(ix.Index)
	if err != nil {
		return "", IRType{}, err
	}
	if !idx.ty.IsInt() || idx.ty.Kind == KI1 {
		return "", IRType{}, errorf("array index must be an integer, got %s", idx.ty.Describe())
	}
	idx = fe.intToInt(idx, tLong)
	elem := *arr.ty.Elem
	return fe.gep(elem, arr.ref, idx.ref), elem, nil
}

// callRuntime calls a runtime routine whose argument types are already
// those of the values.
func (fe *funcEmitter) callRuntime(symbol string, ret IRType, args ...value) value {
	list := make([]string, len(args))
	for i, a := range args {
		list[i] = a.ty.String() + " " + a.ref
	}
	return fe.callText(ret, global(symbol), list)
}
