package llvm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
	"github.com/ywhdzrb/Cavvy-sub000/internal/types"
)

// StaticField is a class-level variable emitted as one global.
type StaticField struct {
	Symbol string
	Type   IRType
	Size   int
	Class  string
	Field  string
	// Const is the folded initializer; empty means the global starts at
	// zero and Init, if any, is stored by the entry point.
	Const string
	Init  *ast.Expr
}

func (e *Emitter) registerStatics() error {
	for _, cls := range e.reg.Classes() {
		for _, name := range cls.FieldOrder {
			f := cls.Fields[name]
			if !f.Static {
				continue
			}
			t := Lower(f.Type)
			if t.Kind == KVoid {
				return errorf("static field %s.%s has type void", cls.Name, name)
			}
			symbol := cls.Name + "." + name
			if len(cls.Methods[name]) > 0 {
				for _, m := range cls.Methods[name] {
					if len(m.Params) == 0 {
						return errorf("static field %s collides with method %s()", symbol, symbol)
					}
				}
			}
			sf := &StaticField{
				Symbol: symbol,
				Type:   t,
				Size:   t.Size(),
				Class:  cls.Name,
				Field:  name,
				Init:   f.Init,
			}
			if c, ok := e.foldConst(f.Init, t); ok {
				sf.Const = c
			}
			e.statics[symbol] = sf
			e.staticOrder = append(e.staticOrder, sf)
		}
	}
	return nil
}

// staticField finds a static field visible from class.
func (e *Emitter) staticField(class, name string) (*StaticField, bool) {
	f, ok := e.reg.StaticField(class, name)
	if !ok {
		return nil, false
	}
	sf, ok := e.statics[f.Class+"."+f.Name]
	return sf, ok
}

// foldConst turns a literal initializer (optionally negated) into a global
// initializer of type t.
func (e *Emitter) foldConst(init *ast.Expr, t IRType) (string, bool) {
	if init == nil {
		return "", false
	}
	neg := false
	if init.Kind == ast.ExprUnary && init.Unary != nil && init.Unary.Op == ast.OpNeg {
		neg = true
		init = init.Unary.Operand
	}
	if init == nil || init.Kind != ast.ExprLiteral || init.Lit == nil {
		return "", false
	}
	lit := init.Lit
	switch lit.Kind {
	case ast.LitInt, ast.LitLong, ast.LitChar, ast.LitBool:
		var v int64
		switch lit.Kind {
		case ast.LitChar:
			v = int64(lit.Char)
		case ast.LitBool:
			if neg {
				return "", false
			}
			if lit.Bool {
				v = 1
			}
		default:
			v = lit.Int
		}
		if neg {
			v = -v
		}
		switch {
		case t.IsInt():
			return intConst(v, t), true
		case t.IsFloat():
			return floatConst(float64(v), t), true
		}
	case ast.LitFloat, ast.LitDouble:
		if !t.IsFloat() {
			return "", false
		}
		v := lit.Float
		if neg {
			v = -v
		}
		return floatConst(v, t), true
	case ast.LitString:
		if neg || t.Kind != KPtr || (t.Ref != RefString && t.Ref != RefRaw) {
			return "", false
		}
		return e.pool.Intern(lit.Str), true
	case ast.LitNull:
		if neg || t.Kind != KPtr {
			return "", false
		}
		return "null", true
	}
	return "", false
}

// intConst renders v wrapped to the width of t.
func intConst(v int64, t IRType) string {
	switch t.Kind {
	case KI1:
		if v != 0 {
			return "true"
		}
		return "false"
	case KI8:
		return strconv.FormatInt(int64(int8(v)), 10)
	case KI32:
		return strconv.FormatInt(int64(int32(v)), 10)
	default:
		return strconv.FormatInt(v, 10)
	}
}

func (e *Emitter) writeStatics(sb *strings.Builder) {
	for _, sf := range e.staticOrder {
		init := sf.Const
		if init == "" {
			init = "zeroinitializer"
		}
		fmt.Fprintf(sb, "%s = internal global %s %s, align %d\n", global(sf.Symbol), sf.Type, init, sf.Type.Align())
	}
	if len(e.staticOrder) > 0 {
		sb.WriteString("\n")
	}
}

// emitEntry builds `i32 @main()`: console setup, non-constant static
// initializers, static initializer blocks, then the entry method.
func (e *Emitter) emitEntry(entry *types.MethodInfo) (string, error) {
	fe := e.newFunc(entry.Class, "main", tInt)
	if cp := e.opts.ConsoleCodePage; cp > 0 {
		fe.emitf("call i32 @SetConsoleOutputCP(i32 %d)", cp)
	}
	for _, sf := range e.staticOrder {
		if sf.Const != "" || sf.Init == nil {
			continue
		}
		fe.class = sf.Class
		v, err := fe.exprTo(sf.Init, sf.Type)
		if err != nil {
			return "", within("static field "+sf.Symbol, err)
		}
		fe.store(v, global(sf.Symbol))
	}
	fe.class = entry.Class
	for _, symbol := range e.clinits {
		fe.emitf("call void %s()", global(symbol))
	}
	symbol := global(methodSymbol(entry))
	if Lower(entry.Result).Kind == KI32 {
		tmp := fe.nextTemp()
		fe.emitf("%s = call i32 %s()", tmp, symbol)
		fe.term("ret i32 %s", tmp)
	} else {
		fe.emitf("call void %s()", symbol)
		fe.term("ret i32 0")
	}
	return fe.render("", nil), nil
}
