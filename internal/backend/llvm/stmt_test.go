package llvm

import (
	"strings"
	"testing"

	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

var (
	tyInt    = ast.Prim(ast.TypeInt)
	tyString = ast.Prim(ast.TypeString)
)

// blockOf returns the instructions of the block labelled label in fn.
func blockOf(t *testing.T, fn, label string) string {
	t.Helper()
	head := "\n" + label + ":\n"
	i := strings.Index(fn, head)
	if i < 0 {
		t.Fatalf("block %s not found in:\n%s", label, fn)
	}
	rest := fn[i+len(head):]
	end := len(rest)
	for _, stop := range []string{"\n\n", "\n}"} {
		if j := strings.Index(rest, stop); j >= 0 && j < end {
			end = j
		}
	}
	return rest[:end]
}

func lastInstr(block string) string {
	lines := strings.Split(strings.TrimSpace(block), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

func appendTo(name, text string) *ast.Stmt {
	return ast.ExprStmt(ast.AssignWith(ast.AssignAdd, ast.Ident(name), ast.StrLit(text)))
}

func printLine(x *ast.Expr) *ast.Stmt {
	return ast.ExprStmt(ast.Call("println", x))
}

func switchProgram() *ast.Program {
	return program(ast.MainClass("Main",
		ast.VarStmt("s", tyString, ast.StrLit("")),
		ast.Switch(ast.IntLit(1), []*ast.SwitchCase{
			ast.Case(1, appendTo("s", "A")),
			ast.Case(2, appendTo("s", "B"), ast.Break()),
		}, ast.Body(appendTo("s", "C"))),
		printLine(ast.Ident("s")),
	))
}

func TestSwitchFallthrough(t *testing.T) {
	fn := functionBody(t, emitProgram(t, switchProgram()), "Main.main")
	mustContain(t, fn, "switch i32 1, label %switch.default.4 [ i32 1, label %switch.case.2 i32 2, label %switch.case.3 ]")
	if got := lastInstr(blockOf(t, fn, "switch.case.2")); got != "br label %switch.case.3" {
		t.Fatalf("case 1 should fall through into case 2, ends with %q", got)
	}
	if got := lastInstr(blockOf(t, fn, "switch.case.3")); got != "br label %switch.end.1" {
		t.Fatalf("case 2 should break to the end, ends with %q", got)
	}
	if got := lastInstr(blockOf(t, fn, "switch.default.4")); got != "br label %switch.end.1" {
		t.Fatalf("default should end at the end label, ends with %q", got)
	}
}

func TestSwitchWithoutDefaultBranchesToEnd(t *testing.T) {
	fn := functionBody(t, emitMain(t,
		ast.VarStmt("k", tyInt, ast.IntLit(3)),
		ast.Switch(ast.Ident("k"), []*ast.SwitchCase{
			ast.Case(1, printLine(ast.IntLit(1))),
		}, nil),
	), "Main.main")
	mustContain(t, fn, "label %switch.end.1 [ i32 1, label %switch.case.2 ]")
	if got := lastInstr(blockOf(t, fn, "switch.case.2")); got != "br label %switch.end.1" {
		t.Fatalf("last case falls to %q", got)
	}
}

func TestForContinueTargetsUpdate(t *testing.T) {
	i := ast.Ident("i")
	fn := functionBody(t, emitMain(t,
		ast.For(
			ast.VarStmt("i", tyInt, ast.IntLit(0)),
			ast.Bin(ast.OpLt, i, ast.IntLit(3)),
			ast.Assign(i, ast.Bin(ast.OpAdd, i, ast.IntLit(1))),
			ast.BlockStmt(
				ast.If(ast.Bin(ast.OpEq, i, ast.IntLit(1)), ast.Continue(), nil),
				printLine(i),
			),
		),
	), "Main.main")
	if got := lastInstr(blockOf(t, fn, "if.then.5")); got != "br label %for.update.3" {
		t.Fatalf("continue jumps to %q", got)
	}
	update := blockOf(t, fn, "for.update.3")
	mustContain(t, update, "add i32")
	if got := lastInstr(update); got != "br label %for.cond.1" {
		t.Fatalf("update ends with %q", got)
	}
}

func TestForWithoutConditionLoops(t *testing.T) {
	fn := functionBody(t, emitMain(t,
		ast.For(nil, nil, nil, ast.BlockStmt(ast.Break())),
	), "Main.main")
	if got := lastInstr(blockOf(t, fn, "for.cond.1")); got != "br label %for.body.2" {
		t.Fatalf("missing condition branches with %q", got)
	}
	if got := lastInstr(blockOf(t, fn, "for.body.2")); got != "br label %for.end.4" {
		t.Fatalf("break branches with %q", got)
	}
}

func TestDoWhileRunsBodyFirst(t *testing.T) {
	fn := functionBody(t, emitMain(t,
		ast.DoWhile(ast.BlockStmt(ast.ExprStmt(ast.Call("print", ast.StrLit("x")))), ast.BoolLit(false)),
	), "Main.main")
	entry := fn[strings.Index(fn, "entry:"):strings.Index(fn, "\ndo.body.1:")]
	if got := lastInstr(entry); got != "br label %do.body.1" {
		t.Fatalf("entry does not fall into the body: %q", got)
	}
	cond := blockOf(t, fn, "do.cond.2")
	mustContain(t, cond, "icmp ne i1 false, 0")
	if !strings.HasSuffix(lastInstr(cond), "label %do.body.1, label %do.end.3") {
		t.Fatalf("condition branch: %q", lastInstr(cond))
	}
}

func TestWhileContinueRetestsCondition(t *testing.T) {
	fn := functionBody(t, emitMain(t,
		ast.While(ast.BoolLit(true), ast.BlockStmt(ast.Continue())),
	), "Main.main")
	if got := lastInstr(blockOf(t, fn, "while.body.2")); got != "br label %while.cond.1" {
		t.Fatalf("continue goes to %q", got)
	}
}

func TestContinueInsideSwitchUsesLoop(t *testing.T) {
	fn := functionBody(t, emitMain(t,
		ast.While(ast.BoolLit(true), ast.BlockStmt(
			ast.Switch(ast.IntLit(1), []*ast.SwitchCase{ast.Case(1, ast.Continue())}, nil),
			ast.Break(),
		)),
	), "Main.main")
	if got := lastInstr(blockOf(t, fn, "switch.case.5")); got != "br label %while.cond.1" {
		t.Fatalf("continue in switch goes to %q", got)
	}
}

func TestShadowedVariablesGetDistinctSlots(t *testing.T) {
	fn := functionBody(t, emitMain(t,
		ast.VarStmt("x", tyInt, ast.IntLit(1)),
		ast.BlockStmt(ast.VarStmt("x", tyInt, ast.Bin(ast.OpAdd, ast.Ident("x"), ast.IntLit(1)))),
		printLine(ast.Ident("x")),
	), "Main.main")
	mustContain(t, fn, "%l.x = alloca i32", "%l.x.1 = alloca i32", "store i32 1, ptr %l.x,")
	mustOrder(t, fn, "load i32, ptr %l.x,", "store i32 %t2, ptr %l.x.1", "load i32, ptr %l.x,")
}

func TestCodeAfterReturnStaysWellFormed(t *testing.T) {
	m := ast.StaticMethod("pick", tyInt, []*ast.Param{{Name: "c", Type: ast.Prim(ast.TypeBool)}},
		ast.If(ast.Ident("c"), ast.Return(ast.IntLit(1)), ast.Return(ast.IntLit(2))),
		printLine(ast.StrLit("unreachable")),
	)
	main := ast.MainClass("Main", printLine(ast.Call("pick", ast.BoolLit(true))))
	main.Methods = append(main.Methods, m)
	fn := functionBody(t, emitProgram(t, program(main)), "Main.__pick_b")
	mustContain(t, fn, "ret i32 1", "ret i32 2", "ret i32 0")
}

func TestStatementErrors(t *testing.T) {
	cases := []struct {
		name  string
		stmts []*ast.Stmt
		want  string
	}{
		{"break outside loop", []*ast.Stmt{ast.Break()}, "break outside of a loop"},
		{"continue outside loop", []*ast.Stmt{ast.Continue()}, "continue outside of a loop"},
		{"continue in bare switch", []*ast.Stmt{
			ast.Switch(ast.IntLit(0), []*ast.SwitchCase{ast.Case(0, ast.Continue())}, nil),
		}, "continue outside of a loop"},
		{"duplicate case", []*ast.Stmt{
			ast.Switch(ast.IntLit(0), []*ast.SwitchCase{ast.Case(1), ast.Case(1)}, nil),
		}, "duplicate case 1"},
		{"case out of range", []*ast.Stmt{
			ast.Switch(ast.CharLit('a'), []*ast.SwitchCase{ast.Case(300)}, nil),
		}, "does not fit"},
		{"string selector", []*ast.Stmt{
			ast.Switch(ast.StrLit("a"), nil, nil),
		}, "switch selector must be an integer"},
		{"void variable", []*ast.Stmt{ast.VarStmt("v", ast.Prim(ast.TypeVoid), nil)}, "has type void"},
		{"return value from void", []*ast.Stmt{ast.Return(ast.IntLit(1))}, "void function returns a value"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := emitError(t, program(ast.MainClass("Main", tc.stmts...)))
			if !strings.Contains(msg, tc.want) {
				t.Fatalf("error %q does not mention %q", msg, tc.want)
			}
		})
	}
}

func TestErrorCarriesLine(t *testing.T) {
	s := printLine(ast.Ident("missing"))
	s.Line = 7
	msg := emitError(t, program(ast.MainClass("Main", s)))
	mustContain(t, msg, "Main.main: undefined variable missing (line 7)")
}
