package llvm

import (
	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

// loopBody generates a loop body with its own frame and loop context.
func (fe *funcEmitter) loopBody(body *ast.Stmt, cont, brk string) error {
	fe.pushLoop(cont, brk)
	defer fe.popLoop()
	return fe.scoped(func() error { return fe.stmt(body) })
}

// whileStmt: continue re-tests the condition.
func (fe *funcEmitter) whileStmt(s *ast.WhileStmt) error {
	cond := fe.nextLabel("while.cond")
	body := fe.nextLabel("while.body")
	end := fe.nextLabel("while.end")

	fe.startBlock(cond)
	c, err := fe.condition(s.Cond)
	if err != nil {
		return err
	}
	fe.condBr(c, body, end)

	fe.startBlock(body)
	if err := fe.loopBody(s.Body, cond, end); err != nil {
		return err
	}
	fe.br(cond)
	fe.startBlock(end)
	return nil
}

// forStmt: continue runs the update before the condition is tested again.
// A missing condition loops until break.
func (fe *funcEmitter) forStmt(s *ast.ForStmt) error {
	return fe.scoped(func() error {
		if err := fe.stmt(s.Init); err != nil {
			return err
		}
		cond := fe.nextLabel("for.cond")
		body := fe.nextLabel("for.body")
		update := fe.nextLabel("for.update")
		end := fe.nextLabel("for.end")

		fe.startBlock(cond)
		if s.Cond != nil {
			c, err := fe.condition(s.Cond)
			if err != nil {
				return err
			}
			fe.condBr(c, body, end)
		} else {
			fe.br(body)
		}

		fe.startBlock(body)
		if err := fe.loopBody(s.Body, update, end); err != nil {
			return err
		}

		fe.startBlock(update)
		if s.Update != nil {
			if _, err := fe.expr(s.Update); err != nil {
				return err
			}
		}
		fe.br(cond)
		fe.startBlock(end)
		return nil
	})
}

// doWhileStmt runs the body once before the first test; continue jumps to
// the test.
func (fe *funcEmitter) doWhileStmt(s *ast.DoWhileStmt) error {
	body := fe.nextLabel("do.body")
	cond := fe.nextLabel("do.cond")
	end := fe.nextLabel("do.end")

	fe.startBlock(body)
	if err := fe.loopBody(s.Body, cond, end); err != nil {
		return err
	}

	fe.startBlock(cond)
	c, err := fe.condition(s.Cond)
	if err != nil {
		return err
	}
	fe.condBr(c, body, end)
	fe.startBlock(end)
	return nil
}
