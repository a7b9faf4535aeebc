package llvm

import (
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

// switchArm is one entry of the ordered arm list: a case or the default.
type switchArm struct {
	label string
	body  []*ast.Stmt
}

// switchStmt lowers to a `switch` instruction over the case labels. The
// arms are then generated in order; an arm whose body ends open falls
// through into the next arm's label, the last one into the end label.
// break leaves the switch, continue belongs to the enclosing loop.
func (fe *funcEmitter) switchStmt(s *ast.SwitchStmt) error {
	sel, err := fe.expr(s.Selector)
	if err != nil {
		return err
	}
	if !sel.ty.IsInt() || sel.ty.Kind == KI1 {
		return errorf("switch selector must be an integer, got %s", sel.ty.Describe())
	}

	end := fe.nextLabel("switch.end")
	arms := make([]switchArm, 0, len(s.Cases)+1)
	seen := make(map[int64]bool, len(s.Cases))
	var table strings.Builder
	for _, c := range s.Cases {
		if c == nil {
			continue
		}
		if seen[c.Value] {
			return errorf("duplicate case %d", c.Value)
		}
		seen[c.Value] = true
		v, err := caseConst(c.Value, sel.ty)
		if err != nil {
			return err
		}
		label := fe.nextLabel("switch.case")
		arms = append(arms, switchArm{label: label, body: c.Body})
		table.WriteString(" " + sel.ty.String() + " " + v + ", label %" + label)
	}
	def := end
	if s.Default != nil {
		def = fe.nextLabel("switch.default")
		arms = append(arms, switchArm{label: def, body: s.Default.Stmts})
	}
	fe.term("switch %s %s, label %%%s [%s ]", sel.ty, sel.ref, def, table.String())

	fe.pushLoop(fe.enclosingContinue(), end)
	defer fe.popLoop()
	err = fe.scoped(func() error {
		for i := 0; i < len(arms); i++ {
			fe.startBlock(arms[i].label)
			if err := fe.stmts(arms[i].body); err != nil {
				return err
			}
			next := end
			if i+1 < len(arms) {
				next = arms[i+1].label
			}
			fe.br(next)
		}
		return nil
	})
	if err != nil {
		return err
	}
	fe.startBlock(end)
	return nil
}

// caseConst renders a case value in the selector's width, rejecting values
// that do not fit.
func caseConst(v int64, t IRType) (string, error) {
	var err error
	switch t.Kind {
	case KI8:
		_, err = safecast.Conv[int8](v)
	case KI32:
		_, err = safecast.Conv[int32](v)
	}
	if err != nil {
		return "", errorf("case %d does not fit the %s selector", v, t.Describe())
	}
	return strconv.FormatInt(v, 10), nil
}
