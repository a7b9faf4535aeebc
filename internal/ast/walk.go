package ast

// Inspect visits every expression reachable from the program in source
// order. Returning false from fn skips the children of that expression.
func Inspect(prog *Program, fn func(*Expr) bool) {
	if prog == nil {
		return
	}
	w := walker{fn: fn}
	for _, cls := range prog.Classes {
		if cls == nil {
			continue
		}
		for _, f := range cls.Fields {
			w.expr(f.Init)
		}
		for _, m := range cls.Methods {
			w.method(m)
		}
		for _, m := range cls.Constructors {
			w.method(m)
		}
		w.method(cls.Destructor)
		for _, b := range cls.StaticInits {
			w.block(b)
		}
		for _, b := range cls.InstanceInits {
			w.block(b)
		}
	}
}

type walker struct {
	fn func(*Expr) bool
}

func (w walker) method(m *MethodDecl) {
	if m != nil {
		w.block(m.Body)
	}
}

func (w walker) block(b *Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		w.stmt(s)
	}
}

func (w walker) stmt(s *Stmt) {
	if s == nil {
		return
	}
	w.expr(s.Expr)
	switch s.Kind {
	case StmtVar:
		if s.Var != nil {
			w.expr(s.Var.Init)
		}
	case StmtIf:
		if s.If != nil {
			w.expr(s.If.Cond)
			w.stmt(s.If.Then)
			w.stmt(s.If.Else)
		}
	case StmtWhile:
		if s.While != nil {
			w.expr(s.While.Cond)
			w.stmt(s.While.Body)
		}
	case StmtFor:
		if s.For != nil {
			w.stmt(s.For.Init)
			w.expr(s.For.Cond)
			w.expr(s.For.Update)
			w.stmt(s.For.Body)
		}
	case StmtDoWhile:
		if s.DoWhile != nil {
			w.stmt(s.DoWhile.Body)
			w.expr(s.DoWhile.Cond)
		}
	case StmtSwitch:
		if s.Switch != nil {
			w.expr(s.Switch.Selector)
			for _, c := range s.Switch.Cases {
				for _, st := range c.Body {
					w.stmt(st)
				}
			}
			w.block(s.Switch.Default)
		}
	case StmtBlock:
		w.block(s.Block)
	}
}

func (w walker) expr(e *Expr) {
	if e == nil || !w.fn(e) {
		return
	}
	switch {
	case e.Binary != nil:
		w.expr(e.Binary.Left)
		w.expr(e.Binary.Right)
	case e.Unary != nil:
		w.expr(e.Unary.Operand)
	case e.Call != nil:
		w.expr(e.Call.Callee)
		w.exprs(e.Call.Args)
	case e.Member != nil:
		w.expr(e.Member.Object)
	case e.New != nil:
		w.exprs(e.New.Args)
	case e.Assign != nil:
		w.expr(e.Assign.Target)
		w.expr(e.Assign.Value)
	case e.Cast != nil:
		w.expr(e.Cast.Expr)
	case e.NewArray != nil:
		w.exprs(e.NewArray.Sizes)
	case e.Index != nil:
		w.expr(e.Index.Array)
		w.expr(e.Index.Index)
	case e.ArrayInit != nil:
		w.exprs(e.ArrayInit.Elems)
	case e.MethodRef != nil:
		w.expr(e.MethodRef.Object)
	case e.Lambda != nil:
		w.expr(e.Lambda.Body)
		w.block(e.Lambda.Block)
	}
}

func (w walker) exprs(list []*Expr) {
	for _, e := range list {
		w.expr(e)
	}
}
