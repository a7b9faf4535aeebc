package llvm

import (
	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

func (fe *funcEmitter) stmts(list []*ast.Stmt) error {
	for _, s := range list {
		if err := fe.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (fe *funcEmitter) stmt(s *ast.Stmt) error {
	if s == nil {
		return nil
	}
	if err := fe.stmtKind(s); err != nil {
		return atLine(s.Line, err)
	}
	return nil
}

func (fe *funcEmitter) stmtKind(s *ast.Stmt) error {
	switch s.Kind {
	case ast.StmtExpr:
		_, err := fe.expr(s.Expr)
		return err
	case ast.StmtVar:
		if s.Var == nil {
			return errorf("malformed variable declaration")
		}
		return fe.varDecl(s.Var)
	case ast.StmtReturn:
		return fe.returnStmt(s.Expr)
	case ast.StmtIf:
		if s.If == nil {
			return errorf("malformed if statement")
		}
		return fe.ifStmt(s.If)
	case ast.StmtWhile:
		if s.While == nil {
			return errorf("malformed while statement")
		}
		return fe.whileStmt(s.While)
	case ast.StmtFor:
		if s.For == nil {
			return errorf("malformed for statement")
		}
		return fe.forStmt(s.For)
	case ast.StmtDoWhile:
		if s.DoWhile == nil {
			return errorf("malformed do-while statement")
		}
		return fe.doWhileStmt(s.DoWhile)
	case ast.StmtSwitch:
		if s.Switch == nil {
			return errorf("malformed switch statement")
		}
		return fe.switchStmt(s.Switch)
	case ast.StmtBlock:
		if s.Block == nil {
			return nil
		}
		return fe.scoped(func() error { return fe.stmts(s.Block.Stmts) })
	case ast.StmtBreak:
		if len(fe.loops) == 0 {
			return errorf("break outside of a loop or switch")
		}
		fe.br(fe.loops[len(fe.loops)-1].breakLabel)
		return nil
	case ast.StmtContinue:
		label := fe.enclosingContinue()
		if label == "" {
			return errorf("continue outside of a loop")
		}
		fe.br(label)
		return nil
	}
	return errorf("unsupported statement kind %s", s.Kind)
}

// scoped runs fn inside a fresh variable frame.
func (fe *funcEmitter) scoped(fn func() error) error {
	fe.scope.Enter()
	defer fe.scope.Exit()
	return fn()
}

// varDecl evaluates the initializer before the name is bound, so it still
// sees an outer variable of the same name.
func (fe *funcEmitter) varDecl(d *ast.VarDecl) error {
	t := Lower(d.Type)
	if t.Kind == KVoid {
		return errorf("variable %s has type void", d.Name)
	}
	v := value{ty: t, ref: zeroValue(t)}
	if d.Init != nil {
		var err error
		if v, err = fe.exprTo(d.Init, t); err != nil {
			return err
		}
	}
	fe.store(v, fe.declareLocal(d.Name, t))
	return nil
}

func (fe *funcEmitter) returnStmt(x *ast.Expr) error {
	if x == nil {
		if fe.inferRet && !fe.sawReturn {
			fe.ret = tVoid
		}
		fe.sawReturn = true
		if fe.ret.Kind != KVoid {
			return errorf("missing return value in function returning %s", fe.ret.Describe())
		}
		fe.term("ret void")
		return nil
	}
	if (!fe.inferRet || fe.sawReturn) && fe.ret.Kind == KVoid {
		return errorf("void function returns a value")
	}
	return fe.returnExpr(x)
}

// returnExpr returns the value of x. In a lambda without a declared result
// the first return fixes the result type.
func (fe *funcEmitter) returnExpr(x *ast.Expr) error {
	var v value
	var err error
	switch {
	case fe.inferRet && !fe.sawReturn:
		if v, err = fe.expr(x); err != nil {
			return err
		}
		fe.ret = v.ty
	case fe.ret.Kind == KVoid:
		if _, err = fe.expr(x); err != nil {
			return err
		}
		v = value{ty: tVoid}
	default:
		if v, err = fe.exprTo(x, fe.ret); err != nil {
			return err
		}
	}
	fe.sawReturn = true
	if v.ty.Kind == KVoid {
		fe.term("ret void")
	} else {
		fe.term("ret %s %s", v.ty, v.ref)
	}
	return nil
}

// condition evaluates x and normalizes it with a compare against zero.
func (fe *funcEmitter) condition(x *ast.Expr) (string, error) {
	v, err := fe.expr(x)
	if err != nil {
		return "", err
	}
	c, err := fe.testNonZero(v)
	if err != nil {
		return "", err
	}
	return c.ref, nil
}

func (fe *funcEmitter) ifStmt(s *ast.IfStmt) error {
	cond, err := fe.condition(s.Cond)
	if err != nil {
		return err
	}
	then := fe.nextLabel("if.then")
	end := fe.nextLabel("if.end")
	els := end
	if s.Else != nil {
		els = fe.nextLabel("if.else")
	}
	fe.condBr(cond, then, els)

	fe.startBlock(then)
	if err := fe.scoped(func() error { return fe.stmt(s.Then) }); err != nil {
		return err
	}
	fe.br(end)
	if s.Else != nil {
		fe.startBlock(els)
		if err := fe.scoped(func() error { return fe.stmt(s.Else) }); err != nil {
			return err
		}
		fe.br(end)
	}
	fe.startBlock(end)
	return nil
}
