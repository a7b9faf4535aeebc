package ast

import (
	"strings"
)

// TypeKind enumerates source-level types.
type TypeKind uint8

const (
	// TypeVoid is the absent result type.
	TypeVoid TypeKind = iota
	// TypeInt is the 32-bit signed integer.
	TypeInt
	// TypeLong is the 64-bit signed integer.
	TypeLong
	TypeFloat
	TypeDouble
	TypeBool
	TypeString
	TypeChar
	// TypeObject is a reference to a declared class; Type.Name holds the class.
	TypeObject
	// TypeArray is a one-dimensional array of Type.Elem.
	TypeArray
	// TypeFunc is a function value (lambda or method reference).
	TypeFunc
)

var typeKindNames = [...]string{
	TypeVoid:   "void",
	TypeInt:    "int",
	TypeLong:   "long",
	TypeFloat:  "float",
	TypeDouble: "double",
	TypeBool:   "boolean",
	TypeString: "String",
	TypeChar:   "char",
	TypeObject: "object",
	TypeArray:  "array",
	TypeFunc:   "func",
}

func (k TypeKind) String() string {
	return enumName(typeKindNames[:], int(k), "TypeKind")
}

func (k TypeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *TypeKind) UnmarshalText(text []byte) error {
	s := string(text)
	switch s {
	case "bool":
		*k = TypeBool
		return nil
	case "string":
		*k = TypeString
		return nil
	}
	return lookupName(typeKindNames[:], s, "type kind", k)
}

// Type is a source type as written in declarations.
type Type struct {
	Kind   TypeKind `json:"kind" msgpack:"kind"`
	Name   string   `json:"name,omitempty" msgpack:"name,omitempty"`
	Elem   *Type    `json:"elem,omitempty" msgpack:"elem,omitempty"`
	Params []*Type  `json:"params,omitempty" msgpack:"params,omitempty"`
	Result *Type    `json:"result,omitempty" msgpack:"result,omitempty"`
}

// Prim returns a primitive (or void/String) type.
func Prim(kind TypeKind) *Type {
	return &Type{Kind: kind}
}

// ObjectOf returns a reference type to the named class.
func ObjectOf(class string) *Type {
	return &Type{Kind: TypeObject, Name: class}
}

// ArrayOf wraps elem into an array type.
func ArrayOf(elem *Type) *Type {
	return &Type{Kind: TypeArray, Elem: elem}
}

// FuncOf builds a function type.
func FuncOf(result *Type, params ...*Type) *Type {
	return &Type{Kind: TypeFunc, Params: params, Result: result}
}

// IsVoid reports whether t is nil or void.
func (t *Type) IsVoid() bool {
	return t == nil || t.Kind == TypeVoid
}

// Equal compares two types structurally.
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t.IsVoid() && o.IsVoid()
	}
	if t.Kind != o.Kind || t.Name != o.Name {
		return false
	}
	switch t.Kind {
	case TypeArray:
		return t.Elem.Equal(o.Elem)
	case TypeFunc:
		if len(t.Params) != len(o.Params) || !t.Result.Equal(o.Result) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(o.Params[i]) {
				return false
			}
		}
	}
	return true
}

func (t *Type) String() string {
	if t == nil {
		return "void"
	}
	switch t.Kind {
	case TypeObject:
		return t.Name
	case TypeArray:
		return t.Elem.String() + "[]"
	case TypeFunc:
		var sb strings.Builder
		sb.WriteString("fn(")
		for i, p := range t.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.String())
		}
		sb.WriteString(") -> ")
		sb.WriteString(t.Result.String())
		return sb.String()
	default:
		return t.Kind.String()
	}
}
