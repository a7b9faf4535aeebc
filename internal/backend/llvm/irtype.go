package llvm

import (
	"strings"

	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

// Kind is the machine-level class of an IR type.
type Kind uint8

const (
	KVoid Kind = iota
	KI1
	KI8
	KI32
	KI64
	KFloat
	KDouble
	KPtr
)

// Ref says what a pointer points at. It is kept for mangling, loads
// through arrays and string dispatch; the text form is always `ptr`.
type Ref uint8

const (
	RefRaw Ref = iota
	RefString
	RefArray
	RefObject
	RefFunc
)

// IRType is an IR type plus the pointee information the generator needs.
type IRType struct {
	Kind  Kind
	Ref   Ref
	Elem  *IRType  // RefArray
	Class string   // RefObject
	Sig   *FuncSig // RefFunc
}

// FuncSig is the source-level signature of a function value.
type FuncSig struct {
	Params []IRType
	Result IRType
}

var (
	tVoid   = IRType{Kind: KVoid}
	tBool   = IRType{Kind: KI1}
	tChar   = IRType{Kind: KI8}
	tInt    = IRType{Kind: KI32}
	tLong   = IRType{Kind: KI64}
	tFloat  = IRType{Kind: KFloat}
	tDouble = IRType{Kind: KDouble}
	tPtr    = IRType{Kind: KPtr}
	tString = IRType{Kind: KPtr, Ref: RefString}
)

func arrayOf(elem IRType) IRType {
	return IRType{Kind: KPtr, Ref: RefArray, Elem: &elem}
}

func objectOf(class string) IRType {
	return IRType{Kind: KPtr, Ref: RefObject, Class: class}
}

func funcOf(sig *FuncSig) IRType {
	return IRType{Kind: KPtr, Ref: RefFunc, Sig: sig}
}

// String renders the type as it appears in IR text.
func (t IRType) String() string {
	switch t.Kind {
	case KVoid:
		return "void"
	case KI1:
		return "i1"
	case KI8:
		return "i8"
	case KI32:
		return "i32"
	case KI64:
		return "i64"
	case KFloat:
		return "float"
	case KDouble:
		return "double"
	default:
		return "ptr"
	}
}

// Describe renders the type for error messages.
func (t IRType) Describe() string {
	switch t.Kind {
	case KI1:
		return "boolean"
	case KI8:
		return "char"
	case KI32:
		return "int"
	case KI64:
		return "long"
	case KPtr:
	default:
		return t.String()
	}
	switch t.Ref {
	case RefString:
		return "String"
	case RefArray:
		return t.Elem.Describe() + "[]"
	case RefObject:
		return t.Class
	case RefFunc:
		var sb strings.Builder
		sb.WriteString("fn(")
		for i, p := range t.Sig.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.Describe())
		}
		sb.WriteString(") -> ")
		sb.WriteString(t.Sig.Result.Describe())
		return sb.String()
	default:
		return "ptr"
	}
}

func (t IRType) IsInt() bool {
	return t.Kind >= KI1 && t.Kind <= KI64
}

func (t IRType) IsFloat() bool {
	return t.Kind == KFloat || t.Kind == KDouble
}

func (t IRType) IsNumeric() bool {
	return t.IsInt() || t.IsFloat()
}

func (t IRType) IsPtr() bool {
	return t.Kind == KPtr
}

func (t IRType) IsString() bool {
	return t.Kind == KPtr && t.Ref == RefString
}

func (t IRType) IsArray() bool {
	return t.Kind == KPtr && t.Ref == RefArray && t.Elem != nil
}

// Bits is the integer or float width.
func (t IRType) Bits() int {
	switch t.Kind {
	case KI1:
		return 1
	case KI8:
		return 8
	case KI32, KFloat:
		return 32
	case KI64, KDouble, KPtr:
		return 64
	default:
		return 0
	}
}

// Size is the storage size in bytes.
func (t IRType) Size() int {
	switch t.Kind {
	case KVoid:
		return 0
	case KI1, KI8:
		return 1
	case KI32, KFloat:
		return 4
	default:
		return 8
	}
}

// Align is the natural alignment in bytes.
func (t IRType) Align() int {
	if t.Kind == KVoid {
		return 1
	}
	return t.Size()
}

// Same reports whether two types are interchangeable, pointee included.
func (t IRType) Same(o IRType) bool {
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind != KPtr {
		return true
	}
	return tag(t) == tag(o)
}

// Lower maps a source type to its IR type.
func Lower(t *ast.Type) IRType {
	if t == nil {
		return tVoid
	}
	switch t.Kind {
	case ast.TypeVoid:
		return tVoid
	case ast.TypeInt:
		return tInt
	case ast.TypeLong:
		return tLong
	case ast.TypeFloat:
		return tFloat
	case ast.TypeDouble:
		return tDouble
	case ast.TypeBool:
		return tBool
	case ast.TypeChar:
		return tChar
	case ast.TypeString:
		return tString
	case ast.TypeObject:
		return objectOf(t.Name)
	case ast.TypeArray:
		return arrayOf(Lower(t.Elem))
	case ast.TypeFunc:
		sig := &FuncSig{Result: Lower(t.Result)}
		for _, p := range t.Params {
			sig.Params = append(sig.Params, Lower(p))
		}
		return funcOf(sig)
	default:
		return tPtr
	}
}

// abiType is how a parameter of type t is passed: 32-bit integers travel
// as i64 and are truncated by the callee.
func abiType(t IRType) IRType {
	if t.Kind == KI32 {
		return tLong
	}
	return t
}

// zeroValue is the literal zero of t.
func zeroValue(t IRType) string {
	switch t.Kind {
	case KI1:
		return "false"
	case KFloat, KDouble:
		return "0.0"
	case KPtr:
		return "null"
	default:
		return "0"
	}
}

// promoteKind picks the result kind of an integer binary operation: the
// wider operand wins, ties keep the left.
func promoteKind(left, right IRType) IRType {
	if right.Bits() > left.Bits() {
		return right
	}
	return left
}

// promoteFloat picks the wider float type.
func promoteFloat(left, right IRType) IRType {
	if left.Kind == KDouble || right.Kind == KDouble {
		return tDouble
	}
	return tFloat
}
