package ast

// Constructors for building trees by hand, mostly from tests and tools.

func IntLit(v int64) *Expr {
	return &Expr{Kind: ExprLiteral, Lit: &Literal{Kind: LitInt, Int: v}}
}

func LongLit(v int64) *Expr {
	return &Expr{Kind: ExprLiteral, Lit: &Literal{Kind: LitLong, Int: v}}
}

func FloatLit(v float64) *Expr {
	return &Expr{Kind: ExprLiteral, Lit: &Literal{Kind: LitFloat, Float: v}}
}

func DoubleLit(v float64) *Expr {
	return &Expr{Kind: ExprLiteral, Lit: &Literal{Kind: LitDouble, Float: v}}
}

func StrLit(s string) *Expr {
	return &Expr{Kind: ExprLiteral, Lit: &Literal{Kind: LitString, Str: s}}
}

func BoolLit(v bool) *Expr {
	return &Expr{Kind: ExprLiteral, Lit: &Literal{Kind: LitBool, Bool: v}}
}

func CharLit(c rune) *Expr {
	return &Expr{Kind: ExprLiteral, Lit: &Literal{Kind: LitChar, Char: c}}
}

func NullLit() *Expr {
	return &Expr{Kind: ExprLiteral, Lit: &Literal{Kind: LitNull}}
}

func Ident(name string) *Expr {
	return &Expr{Kind: ExprIdent, Name: name}
}

func Bin(op BinaryOp, left, right *Expr) *Expr {
	return &Expr{Kind: ExprBinary, Binary: &BinaryExpr{Op: op, Left: left, Right: right}}
}

func Un(op UnaryOp, operand *Expr) *Expr {
	return &Expr{Kind: ExprUnary, Unary: &UnaryExpr{Op: op, Operand: operand}}
}

// Call calls a bare name: a method of the current class or an intrinsic.
func Call(name string, args ...*Expr) *Expr {
	return CallOn(Ident(name), args...)
}

func CallOn(callee *Expr, args ...*Expr) *Expr {
	return &Expr{Kind: ExprCall, Call: &CallExpr{Callee: callee, Args: args}}
}

func Member(object *Expr, name string) *Expr {
	return &Expr{Kind: ExprMember, Member: &MemberExpr{Object: object, Name: name}}
}

// MethodCall is `object.name(args...)`.
func MethodCall(object *Expr, name string, args ...*Expr) *Expr {
	return CallOn(Member(object, name), args...)
}

func New(class string, args ...*Expr) *Expr {
	return &Expr{Kind: ExprNew, New: &NewExpr{Class: class, Args: args}}
}

func Assign(target, value *Expr) *Expr {
	return AssignWith(AssignPlain, target, value)
}

func AssignWith(op AssignOp, target, value *Expr) *Expr {
	return &Expr{Kind: ExprAssign, Assign: &AssignExpr{Op: op, Target: target, Value: value}}
}

func Cast(e *Expr, t *Type) *Expr {
	return &Expr{Kind: ExprCast, Cast: &CastExpr{Expr: e, Type: t}}
}

func NewArray(elem *Type, sizes ...*Expr) *Expr {
	return &Expr{Kind: ExprNewArray, NewArray: &NewArrayExpr{Elem: elem, Sizes: sizes}}
}

func Index(array, index *Expr) *Expr {
	return &Expr{Kind: ExprIndex, Index: &IndexExpr{Array: array, Index: index}}
}

func ArrayInit(elems ...*Expr) *Expr {
	return &Expr{Kind: ExprArrayInit, ArrayInit: &ArrayInitExpr{Elems: elems}}
}

func MethodRef(class, method string) *Expr {
	return &Expr{Kind: ExprMethodRef, MethodRef: &MethodRefExpr{Class: class, Method: method}}
}

// LambdaExprOf builds an expression-bodied lambda.
func LambdaExprOf(params []*LambdaParam, body *Expr) *Expr {
	return &Expr{Kind: ExprLambda, Lambda: &LambdaExpr{Params: params, Body: body}}
}

func LambdaBlockOf(params []*LambdaParam, result *Type, stmts ...*Stmt) *Expr {
	return &Expr{Kind: ExprLambda, Lambda: &LambdaExpr{Params: params, Result: result, Block: &Block{Stmts: stmts}}}
}

func ExprStmt(e *Expr) *Stmt {
	return &Stmt{Kind: StmtExpr, Expr: e}
}

func VarStmt(name string, t *Type, init *Expr) *Stmt {
	return &Stmt{Kind: StmtVar, Var: &VarDecl{Name: name, Type: t, Init: init}}
}

func Return(e *Expr) *Stmt {
	return &Stmt{Kind: StmtReturn, Expr: e}
}

func If(cond *Expr, then, els *Stmt) *Stmt {
	return &Stmt{Kind: StmtIf, If: &IfStmt{Cond: cond, Then: then, Else: els}}
}

func While(cond *Expr, body *Stmt) *Stmt {
	return &Stmt{Kind: StmtWhile, While: &WhileStmt{Cond: cond, Body: body}}
}

func For(init *Stmt, cond, update *Expr, body *Stmt) *Stmt {
	return &Stmt{Kind: StmtFor, For: &ForStmt{Init: init, Cond: cond, Update: update, Body: body}}
}

func DoWhile(body *Stmt, cond *Expr) *Stmt {
	return &Stmt{Kind: StmtDoWhile, DoWhile: &DoWhileStmt{Body: body, Cond: cond}}
}

func Switch(selector *Expr, cases []*SwitchCase, def *Block) *Stmt {
	return &Stmt{Kind: StmtSwitch, Switch: &SwitchStmt{Selector: selector, Cases: cases, Default: def}}
}

func Case(value int64, body ...*Stmt) *SwitchCase {
	return &SwitchCase{Value: value, Body: body}
}

func BlockStmt(stmts ...*Stmt) *Stmt {
	return &Stmt{Kind: StmtBlock, Block: &Block{Stmts: stmts}}
}

func Break() *Stmt {
	return &Stmt{Kind: StmtBreak}
}

func Continue() *Stmt {
	return &Stmt{Kind: StmtContinue}
}

func Body(stmts ...*Stmt) *Block {
	return &Block{Stmts: stmts}
}

// StaticMethod declares a public static method.
func StaticMethod(name string, result *Type, params []*Param, stmts ...*Stmt) *MethodDecl {
	return &MethodDecl{
		Name:      name,
		Modifiers: Modifiers{ModPublic, ModStatic},
		Result:    result,
		Params:    params,
		Body:      Body(stmts...),
	}
}

// MainClass wraps statements into `public class name { public static void main() {...} }`.
func MainClass(name string, stmts ...*Stmt) *ClassDecl {
	return &ClassDecl{
		Name:      name,
		Modifiers: Modifiers{ModPublic},
		Methods:   []*MethodDecl{StaticMethod("main", Prim(TypeVoid), nil, stmts...)},
	}
}
