package ast

// ExprKind enumerates expression forms.
type ExprKind uint8

const (
	ExprLiteral ExprKind = iota
	ExprIdent
	ExprBinary
	ExprUnary
	ExprCall
	ExprMember
	ExprNew
	ExprAssign
	ExprCast
	// ExprNewArray is `new T[n]...`.
	ExprNewArray
	ExprIndex
	// ExprArrayInit is a brace initializer `{a, b, c}`.
	ExprArrayInit
	// ExprMethodRef is `Class::method` or `obj::method`.
	ExprMethodRef
	ExprLambda
)

var exprKindNames = [...]string{
	ExprLiteral:   "literal",
	ExprIdent:     "ident",
	ExprBinary:    "binary",
	ExprUnary:     "unary",
	ExprCall:      "call",
	ExprMember:    "member",
	ExprNew:       "new",
	ExprAssign:    "assign",
	ExprCast:      "cast",
	ExprNewArray:  "new_array",
	ExprIndex:     "index",
	ExprArrayInit: "array_init",
	ExprMethodRef: "method_ref",
	ExprLambda:    "lambda",
}

func (k ExprKind) String() string {
	return enumName(exprKindNames[:], int(k), "ExprKind")
}

func (k ExprKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ExprKind) UnmarshalText(text []byte) error {
	return lookupName(exprKindNames[:], string(text), "expression kind", k)
}

// Expr is an expression node. Exactly one payload matching Kind is set;
// ExprIdent uses Name.
type Expr struct {
	Kind      ExprKind       `json:"kind" msgpack:"kind"`
	Lit       *Literal       `json:"lit,omitempty" msgpack:"lit,omitempty"`
	Name      string         `json:"name,omitempty" msgpack:"name,omitempty"`
	Binary    *BinaryExpr    `json:"binary,omitempty" msgpack:"binary,omitempty"`
	Unary     *UnaryExpr     `json:"unary,omitempty" msgpack:"unary,omitempty"`
	Call      *CallExpr      `json:"call,omitempty" msgpack:"call,omitempty"`
	Member    *MemberExpr    `json:"member,omitempty" msgpack:"member,omitempty"`
	New       *NewExpr       `json:"new,omitempty" msgpack:"new,omitempty"`
	Assign    *AssignExpr    `json:"assign,omitempty" msgpack:"assign,omitempty"`
	Cast      *CastExpr      `json:"cast,omitempty" msgpack:"cast,omitempty"`
	NewArray  *NewArrayExpr  `json:"new_array,omitempty" msgpack:"new_array,omitempty"`
	Index     *IndexExpr     `json:"index,omitempty" msgpack:"index,omitempty"`
	ArrayInit *ArrayInitExpr `json:"array_init,omitempty" msgpack:"array_init,omitempty"`
	MethodRef *MethodRefExpr `json:"method_ref,omitempty" msgpack:"method_ref,omitempty"`
	Lambda    *LambdaExpr    `json:"lambda,omitempty" msgpack:"lambda,omitempty"`
}

// LitKind enumerates literal forms.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitLong
	LitFloat
	LitDouble
	LitString
	LitBool
	LitChar
	LitNull
)

var litKindNames = [...]string{
	LitInt:    "int",
	LitLong:   "long",
	LitFloat:  "float",
	LitDouble: "double",
	LitString: "string",
	LitBool:   "bool",
	LitChar:   "char",
	LitNull:   "null",
}

func (k LitKind) String() string {
	return enumName(litKindNames[:], int(k), "LitKind")
}

func (k LitKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *LitKind) UnmarshalText(text []byte) error {
	return lookupName(litKindNames[:], string(text), "literal kind", k)
}

// Literal holds a constant; the field used depends on Kind.
type Literal struct {
	Kind  LitKind `json:"kind" msgpack:"kind"`
	Int   int64   `json:"int,omitempty" msgpack:"int,omitempty"`
	Float float64 `json:"float,omitempty" msgpack:"float,omitempty"`
	Str   string  `json:"str,omitempty" msgpack:"str,omitempty"`
	Bool  bool    `json:"bool,omitempty" msgpack:"bool,omitempty"`
	Char  rune    `json:"char,omitempty" msgpack:"char,omitempty"`
}

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	// OpUShr is the logical right shift `>>>`.
	OpUShr
)

var binaryOpNames = [...]string{
	OpAdd:    "+",
	OpSub:    "-",
	OpMul:    "*",
	OpDiv:    "/",
	OpMod:    "%",
	OpEq:     "==",
	OpNe:     "!=",
	OpLt:     "<",
	OpLe:     "<=",
	OpGt:     ">",
	OpGe:     ">=",
	OpAnd:    "&&",
	OpOr:     "||",
	OpBitAnd: "&",
	OpBitOr:  "|",
	OpBitXor: "^",
	OpShl:    "<<",
	OpShr:    ">>",
	OpUShr:   ">>>",
}

func (op BinaryOp) String() string {
	return enumName(binaryOpNames[:], int(op), "BinaryOp")
}

func (op BinaryOp) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

func (op *BinaryOp) UnmarshalText(text []byte) error {
	return lookupName(binaryOpNames[:], string(text), "binary operator", op)
}

// IsComparison reports whether op yields a boolean from ordered operands.
func (op BinaryOp) IsComparison() bool {
	return op >= OpEq && op <= OpGe
}

// IsBitwise reports whether op requires integer operands.
func (op BinaryOp) IsBitwise() bool {
	return op >= OpBitAnd && op <= OpUShr
}

// UnaryOp enumerates unary operators.
type UnaryOp uint8

const (
	OpNeg UnaryOp = iota
	OpNot
	OpBitNot
	OpPreInc
	OpPreDec
	OpPostInc
	OpPostDec
)

var unaryOpNames = [...]string{
	OpNeg:     "-",
	OpNot:     "!",
	OpBitNot:  "~",
	OpPreInc:  "++x",
	OpPreDec:  "--x",
	OpPostInc: "x++",
	OpPostDec: "x--",
}

func (op UnaryOp) String() string {
	return enumName(unaryOpNames[:], int(op), "UnaryOp")
}

func (op UnaryOp) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

func (op *UnaryOp) UnmarshalText(text []byte) error {
	return lookupName(unaryOpNames[:], string(text), "unary operator", op)
}

// AssignOp enumerates assignment operators.
type AssignOp uint8

const (
	AssignPlain AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
)

var assignOpNames = [...]string{
	AssignPlain: "=",
	AssignAdd:   "+=",
	AssignSub:   "-=",
	AssignMul:   "*=",
	AssignDiv:   "/=",
	AssignMod:   "%=",
}

func (op AssignOp) String() string {
	return enumName(assignOpNames[:], int(op), "AssignOp")
}

func (op AssignOp) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

func (op *AssignOp) UnmarshalText(text []byte) error {
	return lookupName(assignOpNames[:], string(text), "assignment operator", op)
}

// Binary returns the arithmetic operator of a compound assignment.
func (op AssignOp) Binary() (BinaryOp, bool) {
	switch op {
	case AssignAdd:
		return OpAdd, true
	case AssignSub:
		return OpSub, true
	case AssignMul:
		return OpMul, true
	case AssignDiv:
		return OpDiv, true
	case AssignMod:
		return OpMod, true
	default:
		return 0, false
	}
}

type BinaryExpr struct {
	Op    BinaryOp `json:"op" msgpack:"op"`
	Left  *Expr    `json:"left" msgpack:"left"`
	Right *Expr    `json:"right" msgpack:"right"`
}

type UnaryExpr struct {
	Op      UnaryOp `json:"op" msgpack:"op"`
	Operand *Expr   `json:"operand" msgpack:"operand"`
}

// CallExpr invokes Callee, which is an identifier, a member access or a
// function-typed value.
type CallExpr struct {
	Callee *Expr   `json:"callee" msgpack:"callee"`
	Args   []*Expr `json:"args,omitempty" msgpack:"args,omitempty"`
}

type MemberExpr struct {
	Object *Expr  `json:"object" msgpack:"object"`
	Name   string `json:"name" msgpack:"name"`
}

type NewExpr struct {
	Class string  `json:"class" msgpack:"class"`
	Args  []*Expr `json:"args,omitempty" msgpack:"args,omitempty"`
}

type AssignExpr struct {
	Op     AssignOp `json:"op" msgpack:"op"`
	Target *Expr    `json:"target" msgpack:"target"`
	Value  *Expr    `json:"value" msgpack:"value"`
}

type CastExpr struct {
	Expr *Expr `json:"expr" msgpack:"expr"`
	Type *Type `json:"type" msgpack:"type"`
}

// NewArrayExpr allocates an array with one dimension per entry in Sizes;
// Elem is the innermost element type.
type NewArrayExpr struct {
	Elem     *Type   `json:"elem" msgpack:"elem"`
	Sizes    []*Expr `json:"sizes" msgpack:"sizes"`
	ZeroInit bool    `json:"zero_init,omitempty" msgpack:"zero_init,omitempty"`
}

type IndexExpr struct {
	Array *Expr `json:"array" msgpack:"array"`
	Index *Expr `json:"index" msgpack:"index"`
}

type ArrayInitExpr struct {
	Elems []*Expr `json:"elems,omitempty" msgpack:"elems,omitempty"`
}

// MethodRefExpr names a method as a value. Class is set for `Class::m`,
// Object for `obj::m`.
type MethodRefExpr struct {
	Class  string `json:"class,omitempty" msgpack:"class,omitempty"`
	Object *Expr  `json:"object,omitempty" msgpack:"object,omitempty"`
	Method string `json:"method" msgpack:"method"`
}

// LambdaExpr is `(params) -> body`. Exactly one of Body and Block is set.
// A nil Result is inferred from the body.
type LambdaExpr struct {
	Params []*LambdaParam `json:"params,omitempty" msgpack:"params,omitempty"`
	Result *Type          `json:"result,omitempty" msgpack:"result,omitempty"`
	Body   *Expr          `json:"body,omitempty" msgpack:"body,omitempty"`
	Block  *Block         `json:"block,omitempty" msgpack:"block,omitempty"`
}

type LambdaParam struct {
	Name string `json:"name" msgpack:"name"`
	Type *Type  `json:"type,omitempty" msgpack:"type,omitempty"`
}
