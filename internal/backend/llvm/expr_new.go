package llvm

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

// objectSize is the block allocated for every object. Fields have no
// layout, so the block only gives each object a distinct address.
const objectSize = 8

// arrayHeader is the space before the first element; its first 4 bytes
// hold the element count.
const arrayHeader = 8

// newObject allocates a zeroed block, runs the instance initializer blocks
// and calls the constructor matching the arguments.
func (fe *funcEmitter) newObject(n *ast.NewExpr) (value, error) {
	cls, ok := fe.emitter.reg.Class(n.Class)
	if !ok {
		return value{}, errorf("unknown class %s", n.Class)
	}
	vals, tys, err := fe.args(n.Args)
	if err != nil {
		return value{}, err
	}
	obj := fe.nextTemp()
	fe.emitf("%s = call ptr @calloc(i64 1, i64 %d)", obj, objectSize)
	for i := range cls.Decl.InstanceInits {
		fe.emitf("call void %s()", global(instanceInitSymbol(cls.Name, i)))
	}
	ctors := fe.emitter.reg.Constructors(n.Class)
	switch {
	case len(ctors) == 0 && len(vals) > 0:
		return value{}, errorf("class %s has no constructor taking %s", n.Class, describeTypes(tys))
	case len(ctors) > 0:
		target, ok := resolve(ctors, tys, ctorSymbol)
		if !ok {
			return value{}, errorf("no matching constructor for %s(%s)", n.Class, describeTypes(tys))
		}
		if _, err := fe.emitCall(target, vals); err != nil {
			return value{}, err
		}
	}
	return value{ty: objectOf(n.Class), ref: obj}, nil
}

// allocArray allocates n elements of elem behind the length header and
// returns the pointer to the first element.
func (fe *funcEmitter) allocArray(elem IRType, n value) string {
	count := fe.intToInt(n, tLong)
	bytes := fe.nextTemp()
	fe.emitf("%s = mul i64 %s, %d", bytes, count.ref, elemSize(elem))
	total := fe.nextTemp()
	fe.emitf("%s = add i64 %s, %d", total, bytes, arrayHeader)
	raw := fe.nextTemp()
	fe.emitf("%s = call ptr @calloc(i64 %s, i64 1)", raw, total)
	fe.store(fe.intToInt(n, tInt), raw)
	return fe.gep(tChar, raw, strconv.Itoa(arrayHeader))
}

func elemSize(t IRType) int {
	if t.Kind == KVoid {
		return 1
	}
	return t.Size()
}

// newArray allocates `new T[a][b]...`. Every size is evaluated before any
// allocation; inner dimensions are filled by an emitted loop.
func (fe *funcEmitter) newArray(n *ast.NewArrayExpr) (value, error) {
	if len(n.Sizes) == 0 {
		return value{}, errorf("array allocation without a size")
	}
	elem := Lower(n.Elem)
	if elem.Kind == KVoid {
		return value{}, errorf("array of void")
	}
	sizes := make([]value, len(n.Sizes))
	for i, s := range n.Sizes {
		v, err := fe.expr(s)
		if err != nil {
			return value{}, err
		}
		if !v.ty.IsInt() || v.ty.Kind == KI1 {
			return value{}, errorf("array size must be an integer, got %s", v.ty.Describe())
		}
		sizes[i] = v
	}
	t := elem
	for range sizes {
		t = arrayOf(t)
	}
	return value{ty: t, ref: fe.allocDims(*t.Elem, sizes)}, nil
}

// allocDims allocates one level of elements of type elem and, when more
// sizes remain, fills it with freshly allocated sub-arrays.
func (fe *funcEmitter) allocDims(elem IRType, sizes []value) string {
	outer := fe.allocArray(elem, sizes[0])
	if len(sizes) == 1 {
		return outer
	}
	counter := fe.alloca(tLong)
	fe.emitf("store i64 0, ptr %s, align 8", counter)
	limit := fe.intToInt(sizes[0], tLong)
	cond := fe.nextLabel("mdarr.cond")
	body := fe.nextLabel("mdarr.body")
	end := fe.nextLabel("mdarr.end")

	fe.startBlock(cond)
	i := fe.load(tLong, counter)
	more := fe.nextTemp()
	fe.emitf("%s = icmp slt i64 %s, %s", more, i.ref, limit.ref)
	fe.condBr(more, body, end)

	fe.startBlock(body)
	inner := fe.allocDims(*elem.Elem, sizes[1:])
	fe.store(value{ty: elem, ref: inner}, fe.gep(elem, outer, i.ref))
	next := fe.nextTemp()
	fe.emitf("%s = add i64 %s, 1", next, i.ref)
	fe.store(value{ty: tLong, ref: next}, counter)
	fe.br(cond)

	fe.startBlock(end)
	return outer
}

// arrayLiteral builds `{a, b, c}`. Without an element type from the
// destination, the first element decides it.
func (fe *funcEmitter) arrayLiteral(lit *ast.ArrayInitExpr, elem *IRType) (value, error) {
	count, err := safecast.Conv[int32](len(lit.Elems))
	if err != nil {
		return value{}, errorf("array literal too long: %v", err)
	}
	vals := make([]value, 0, len(lit.Elems))
	if elem == nil {
		if len(lit.Elems) == 0 {
			return value{}, errorf("cannot infer the element type of an empty array literal")
		}
		first, err := fe.expr(lit.Elems[0])
		if err != nil {
			return value{}, err
		}
		if first.ty.Kind == KVoid {
			return value{}, errorf("array of void")
		}
		t := first.ty
		elem = &t
		vals = append(vals, first)
	}
	for _, x := range lit.Elems[len(vals):] {
		v, err := fe.exprTo(x, *elem)
		if err != nil {
			return value{}, err
		}
		vals = append(vals, v)
	}
	data := fe.allocArray(*elem, value{ty: tInt, ref: fmt.Sprint(count)})
	fe.storeElems(*elem, data, vals)
	return value{ty: arrayOf(*elem), ref: data}, nil
}

// packArray collects variadic arguments into a new array of elem.
func (fe *funcEmitter) packArray(elem IRType, vals []value) (string, error) {
	count, err := safecast.Conv[int32](len(vals))
	if err != nil {
		return "", errorf("too many variadic arguments: %v", err)
	}
	conv := make([]value, len(vals))
	for i, v := range vals {
		if conv[i], err = fe.coerce(v, elem); err != nil {
			return "", err
		}
	}
	data := fe.allocArray(elem, value{ty: tInt, ref: fmt.Sprint(count)})
	fe.storeElems(elem, data, conv)
	return data, nil
}

func (fe *funcEmitter) storeElems(elem IRType, data string, vals []value) {
	for i, v := range vals {
		fe.store(v, fe.gep(elem, data, strconv.Itoa(i)))
	}
}
