package llvm

import (
	"strconv"

	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

// intrinsicNames are the I/O builtins. A method of the same name in the
// calling class takes precedence.
var intrinsicNames = map[string]bool{
	"print":      true,
	"println":    true,
	"printf":     true,
	"readInt":    true,
	"readLong":   true,
	"readFloat":  true,
	"readDouble": true,
	"readLine":   true,
}

// readLineSize bounds one line read by readLine, terminator included.
const readLineSize = 1024

func (fe *funcEmitter) intrinsic(name string, list []*ast.Expr) (value, error) {
	switch name {
	case "print", "println":
		newline := name == "println"
		if len(list) == 0 && newline {
			fe.printf(fe.emitter.pool.Intern("\n"))
			return value{ty: tVoid}, nil
		}
		if len(list) != 1 {
			return value{}, errorf("%s expects one argument, got %d", name, len(list))
		}
		v, err := fe.expr(list[0])
		if err != nil {
			return value{}, err
		}
		return value{ty: tVoid}, fe.printValue(v, newline)
	case "printf":
		return fe.printfCall(list)
	case "readLine":
		if len(list) != 0 {
			return value{}, errorf("readLine expects no arguments")
		}
		return fe.readLine(), nil
	}
	if len(list) != 0 {
		return value{}, errorf("%s expects no arguments", name)
	}
	switch name {
	case "readInt":
		return fe.scan("%d", tInt), nil
	case "readLong":
		return fe.scan("%lld", tLong), nil
	case "readFloat":
		return fe.scan("%f", tFloat), nil
	default:
		return fe.scan("%lf", tDouble), nil
	}
}

// printValue picks the format from the value's type.
func (fe *funcEmitter) printValue(v value, newline bool) error {
	var format string
	switch {
	case v.ty.IsString() || v.ty.Kind == KPtr && v.ty.Ref == RefRaw:
		format = "%s"
	case v.ty.Kind == KI1:
		v = fe.callRuntime(rtBoolToString, tString, v)
		format = "%s"
	case v.ty.Kind == KI8:
		v = fe.intToInt(v, tInt)
		format = "%c"
	case v.ty.IsInt():
		v = fe.intToInt(v, tLong)
		format = "%lld"
	case v.ty.IsFloat():
		v = fe.floatToFloat(v, tDouble)
		format = "%f"
	default:
		return errorf("cannot print a value of type %s", v.ty.Describe())
	}
	if newline {
		format += "\n"
	}
	fe.printf(fe.emitter.pool.Intern(format), v)
	return nil
}

func (fe *funcEmitter) printf(format string, args ...value) value {
	list := make([]string, 0, len(args)+1)
	list = append(list, "ptr "+format)
	for _, a := range args {
		list = append(list, a.ty.String()+" "+a.ref)
	}
	return fe.callText(tInt, "(ptr, ...) @printf", list)
}

// printfCall forwards to C printf with the default argument promotions.
func (fe *funcEmitter) printfCall(list []*ast.Expr) (value, error) {
	if len(list) == 0 {
		return value{}, errorf("printf expects a format argument")
	}
	vals, _, err := fe.args(list)
	if err != nil {
		return value{}, err
	}
	if !vals[0].ty.IsString() {
		return value{}, errorf("printf format must be a String, got %s", vals[0].ty.Describe())
	}
	rest := make([]value, 0, len(vals)-1)
	for _, v := range vals[1:] {
		switch {
		case v.ty.Kind == KI1:
			v = fe.intToInt(v, tInt)
		case v.ty.Kind == KI8:
			v = fe.intToInt(v, tInt)
		case v.ty.Kind == KFloat:
			v = fe.floatToFloat(v, tDouble)
		case v.ty.Kind == KVoid:
			return value{}, errorf("printf argument has type void")
		}
		rest = append(rest, v)
	}
	return fe.printf(vals[0].ref, rest...), nil
}

// scan reads one value of type t from stdin with scanf.
func (fe *funcEmitter) scan(format string, t IRType) value {
	slot := fe.alloca(t)
	fe.store(value{ty: t, ref: zeroValue(t)}, slot)
	fe.callText(tInt, "(ptr, ...) @scanf", []string{"ptr " + fe.emitter.pool.Intern(format), "ptr " + slot})
	return fe.load(t, slot)
}

// readLine reads one line into a fresh buffer and strips the line ending.
// At end of input the result is the empty string.
func (fe *funcEmitter) readLine() value {
	buf := fe.nextTemp()
	fe.emitf("%s = call ptr @calloc(i64 %d, i64 1)", buf, readLineSize)
	stream := fe.loadStdin()
	fe.callText(tPtr, "@fgets", []string{"ptr " + buf, "i32 " + strconv.Itoa(readLineSize), "ptr " + stream})
	n := fe.callText(tLong, "@strcspn", []string{"ptr " + buf, "ptr " + fe.emitter.pool.Intern("\r\n")})
	end := fe.gep(tChar, buf, n.ref)
	fe.emitf("store i8 0, ptr %s, align 1", end)
	return value{ty: tString, ref: buf}
}
