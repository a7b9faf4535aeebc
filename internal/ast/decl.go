package ast

// Modifier is a declaration modifier.
type Modifier uint8

const (
	ModPublic Modifier = iota
	ModPrivate
	ModProtected
	ModStatic
	ModFinal
	ModAbstract
	ModNative
	// ModMain marks the entry class when several classes declare main.
	ModMain
)

var modifierNames = [...]string{
	ModPublic:    "public",
	ModPrivate:   "private",
	ModProtected: "protected",
	ModStatic:    "static",
	ModFinal:     "final",
	ModAbstract:  "abstract",
	ModNative:    "native",
	ModMain:      "@main",
}

func (m Modifier) String() string {
	return enumName(modifierNames[:], int(m), "Modifier")
}

func (m Modifier) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Modifier) UnmarshalText(text []byte) error {
	if string(text) == "main" {
		*m = ModMain
		return nil
	}
	return lookupName(modifierNames[:], string(text), "modifier", m)
}

// Modifiers is a modifier list in source order.
type Modifiers []Modifier

// Has reports whether m is present.
func (ms Modifiers) Has(m Modifier) bool {
	for _, x := range ms {
		if x == m {
			return true
		}
	}
	return false
}

// Program is the whole input of one generation run.
type Program struct {
	Classes []*ClassDecl `json:"classes" msgpack:"classes"`
}

// ClassDecl describes one class and its members.
type ClassDecl struct {
	Name          string        `json:"name" msgpack:"name"`
	Modifiers     Modifiers     `json:"modifiers,omitempty" msgpack:"modifiers,omitempty"`
	Parent        string        `json:"parent,omitempty" msgpack:"parent,omitempty"`
	Fields        []*FieldDecl  `json:"fields,omitempty" msgpack:"fields,omitempty"`
	Methods       []*MethodDecl `json:"methods,omitempty" msgpack:"methods,omitempty"`
	Constructors  []*MethodDecl `json:"constructors,omitempty" msgpack:"constructors,omitempty"`
	Destructor    *MethodDecl   `json:"destructor,omitempty" msgpack:"destructor,omitempty"`
	StaticInits   []*Block      `json:"static_inits,omitempty" msgpack:"static_inits,omitempty"`
	InstanceInits []*Block      `json:"instance_inits,omitempty" msgpack:"instance_inits,omitempty"`
	Line          int           `json:"line,omitempty" msgpack:"line,omitempty"`
}

// MethodDecl is a method, constructor or destructor. Constructors and
// destructors leave Name empty and Result nil.
type MethodDecl struct {
	Name      string    `json:"name,omitempty" msgpack:"name,omitempty"`
	Modifiers Modifiers `json:"modifiers,omitempty" msgpack:"modifiers,omitempty"`
	Result    *Type     `json:"result,omitempty" msgpack:"result,omitempty"`
	Params    []*Param  `json:"params,omitempty" msgpack:"params,omitempty"`
	Body      *Block    `json:"body,omitempty" msgpack:"body,omitempty"`
	Line      int       `json:"line,omitempty" msgpack:"line,omitempty"`
}

// Param is a declared parameter; only the last one may be variadic, in
// which case Type is the element type.
type Param struct {
	Name     string `json:"name" msgpack:"name"`
	Type     *Type  `json:"type" msgpack:"type"`
	Variadic bool   `json:"variadic,omitempty" msgpack:"variadic,omitempty"`
}

// FieldDecl is a class field with an optional initializer.
type FieldDecl struct {
	Name      string    `json:"name" msgpack:"name"`
	Type      *Type     `json:"type" msgpack:"type"`
	Modifiers Modifiers `json:"modifiers,omitempty" msgpack:"modifiers,omitempty"`
	Init      *Expr     `json:"init,omitempty" msgpack:"init,omitempty"`
	Line      int       `json:"line,omitempty" msgpack:"line,omitempty"`
}
