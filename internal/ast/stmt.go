package ast

// StmtKind enumerates statement forms.
type StmtKind uint8

const (
	StmtExpr StmtKind = iota
	StmtVar
	StmtReturn
	StmtIf
	StmtWhile
	StmtFor
	StmtDoWhile
	StmtSwitch
	StmtBlock
	StmtBreak
	StmtContinue
)

var stmtKindNames = [...]string{
	StmtExpr:     "expr",
	StmtVar:      "var",
	StmtReturn:   "return",
	StmtIf:       "if",
	StmtWhile:    "while",
	StmtFor:      "for",
	StmtDoWhile:  "do",
	StmtSwitch:   "switch",
	StmtBlock:    "block",
	StmtBreak:    "break",
	StmtContinue: "continue",
}

func (k StmtKind) String() string {
	return enumName(stmtKindNames[:], int(k), "StmtKind")
}

func (k StmtKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *StmtKind) UnmarshalText(text []byte) error {
	return lookupName(stmtKindNames[:], string(text), "statement kind", k)
}

// Block is a braced statement list.
type Block struct {
	Stmts []*Stmt `json:"stmts" msgpack:"stmts"`
}

// Stmt is a statement node. Exactly one payload matching Kind is set;
// Expr carries the expression of StmtExpr and the value of StmtReturn.
type Stmt struct {
	Kind    StmtKind     `json:"kind" msgpack:"kind"`
	Line    int          `json:"line,omitempty" msgpack:"line,omitempty"`
	Expr    *Expr        `json:"expr,omitempty" msgpack:"expr,omitempty"`
	Var     *VarDecl     `json:"var,omitempty" msgpack:"var,omitempty"`
	If      *IfStmt      `json:"if,omitempty" msgpack:"if,omitempty"`
	While   *WhileStmt   `json:"while,omitempty" msgpack:"while,omitempty"`
	For     *ForStmt     `json:"for,omitempty" msgpack:"for,omitempty"`
	DoWhile *DoWhileStmt `json:"do,omitempty" msgpack:"do,omitempty"`
	Switch  *SwitchStmt  `json:"switch,omitempty" msgpack:"switch,omitempty"`
	Block   *Block       `json:"block,omitempty" msgpack:"block,omitempty"`
}

type VarDecl struct {
	Name  string `json:"name" msgpack:"name"`
	Type  *Type  `json:"type" msgpack:"type"`
	Init  *Expr  `json:"init,omitempty" msgpack:"init,omitempty"`
	Final bool   `json:"final,omitempty" msgpack:"final,omitempty"`
}

type IfStmt struct {
	Cond *Expr `json:"cond" msgpack:"cond"`
	Then *Stmt `json:"then" msgpack:"then"`
	Else *Stmt `json:"else,omitempty" msgpack:"else,omitempty"`
}

type WhileStmt struct {
	Cond *Expr `json:"cond" msgpack:"cond"`
	Body *Stmt `json:"body" msgpack:"body"`
}

// ForStmt is a C-style loop; a nil Cond loops until break.
type ForStmt struct {
	Init   *Stmt `json:"init,omitempty" msgpack:"init,omitempty"`
	Cond   *Expr `json:"cond,omitempty" msgpack:"cond,omitempty"`
	Update *Expr `json:"update,omitempty" msgpack:"update,omitempty"`
	Body   *Stmt `json:"body" msgpack:"body"`
}

type DoWhileStmt struct {
	Body *Stmt `json:"body" msgpack:"body"`
	Cond *Expr `json:"cond" msgpack:"cond"`
}

// SwitchStmt is an integer switch with C fallthrough between cases. The
// default arm, when present, follows the last case.
type SwitchStmt struct {
	Selector *Expr         `json:"selector" msgpack:"selector"`
	Cases    []*SwitchCase `json:"cases,omitempty" msgpack:"cases,omitempty"`
	Default  *Block        `json:"default,omitempty" msgpack:"default,omitempty"`
}

type SwitchCase struct {
	Value int64   `json:"value" msgpack:"value"`
	Body  []*Stmt `json:"body,omitempty" msgpack:"body,omitempty"`
}
