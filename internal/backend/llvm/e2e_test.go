package llvm

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

// compileAndRun builds the module with clang and returns the program's
// standard output. The test is skipped when clang is not installed.
func compileAndRun(t *testing.T, prog *ast.Program, stdin string) string {
	t.Helper()
	clang, err := exec.LookPath("clang")
	if err != nil {
		t.Skip("clang not found")
	}
	triple, err := exec.Command(clang, "-dumpmachine").Output()
	if err != nil {
		t.Skipf("clang -dumpmachine: %v", err)
	}
	ir, err := EmitProgram(prog, nil, Options{TargetTriple: strings.TrimSpace(string(triple))})
	if err != nil {
		t.Fatalf("EmitProgram: %v", err)
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.ll")
	exe := filepath.Join(dir, "prog")
	if err := os.WriteFile(src, []byte(ir), 0o600); err != nil {
		t.Fatal(err)
	}
	if out, err := exec.Command(clang, "-Wno-override-module", "-o", exe, src).CombinedOutput(); err != nil {
		t.Fatalf("clang: %v\n%s\n%s", err, out, ir)
	}
	cmd := exec.Command(exe)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	return stdout.String()
}

func TestCompiledPrograms(t *testing.T) {
	i := ast.Ident("i")
	s := ast.Ident("s")
	cases := []struct {
		name  string
		prog  *ast.Program
		stdin string
		want  string
	}{
		{
			name: "arithmetic and arrays",
			prog: program(ast.MainClass("Main",
				ast.VarStmt("a", tyInt, ast.IntLit(1)),
				ast.VarStmt("b", tyInt, ast.IntLit(2)),
				printLine(ast.Bin(ast.OpAdd, ast.Ident("a"), ast.Ident("b"))),
				ast.VarStmt("arr", ast.ArrayOf(tyInt), ast.ArrayInit(ast.IntLit(10), ast.IntLit(20), ast.IntLit(30))),
				printLine(ast.Index(ast.Ident("arr"), ast.IntLit(1))),
			)),
			want: "3\n20\n",
		},
		{
			name: "switch fallthrough",
			prog: switchProgram(),
			want: "AB\n",
		},
		{
			name: "for with continue",
			prog: program(ast.MainClass("Main",
				ast.For(ast.VarStmt("i", tyInt, ast.IntLit(0)),
					ast.Bin(ast.OpLt, i, ast.IntLit(3)),
					ast.Un(ast.OpPostInc, i),
					ast.BlockStmt(
						ast.If(ast.Bin(ast.OpEq, i, ast.IntLit(1)), ast.Continue(), nil),
						printLine(i),
					)),
			)),
			want: "0\n2\n",
		},
		{
			name: "do while runs once",
			prog: program(ast.MainClass("Main",
				ast.DoWhile(ast.ExprStmt(ast.Call("print", ast.StrLit("x"))), ast.BoolLit(false)),
			)),
			want: "x",
		},
		{
			name: "null strings",
			prog: program(ast.MainClass("Main",
				ast.VarStmt("s", tyString, ast.NullLit()),
				printLine(ast.Bin(ast.OpAdd, s, ast.StrLit("a"))),
				printLine(ast.MethodCall(s, "length")),
				printLine(ast.Bin(ast.OpEq, s, ast.NullLit())),
			)),
			want: "a\n0\ntrue\n",
		},
		{
			name: "string methods",
			prog: program(ast.MainClass("Main",
				ast.VarStmt("s", tyString, ast.StrLit("hello")),
				printLine(ast.MethodCall(s, "substring", ast.IntLit(1), ast.IntLit(3))),
				printLine(ast.MethodCall(s, "indexOf", ast.StrLit("l"))),
				printLine(ast.MethodCall(s, "replace", ast.CharLit('l'), ast.StrLit("L"))),
				printLine(ast.MethodCall(s, "charAt", ast.IntLit(1))),
				printLine(ast.MethodCall(s, "equals", ast.StrLit("hello"))),
				printLine(ast.Bin(ast.OpAdd, ast.StrLit("n="), ast.LongLit(1<<40))),
			)),
			want: "el\n2\nheLLo\ne\ntrue\nn=1099511627776\n",
		},
		{
			name: "calls and lambdas",
			prog: program(withMethods(
				ast.MainClass("Main",
					printLine(ast.Call("add", ast.IntLit(-4), ast.IntLit(2))),
					ast.VarStmt("f", ast.FuncOf(tyInt, tyInt),
						ast.LambdaExprOf([]*ast.LambdaParam{{Name: "x", Type: tyInt}}, ast.Bin(ast.OpMul, ast.Ident("x"), ast.IntLit(3)))),
					printLine(ast.Call("f", ast.IntLit(-5))),
					printLine(ast.DoubleLit(1.5)),
				),
				addInts(),
			)),
			want: "-2\n-15\n1.500000\n",
		},
		{
			name: "reads",
			prog: program(ast.MainClass("Main",
				ast.VarStmt("n", tyInt, ast.Call("readInt")),
				ast.VarStmt("rest", tyString, ast.Call("readLine")),
				ast.VarStmt("line", tyString, ast.Call("readLine")),
				printLine(ast.Bin(ast.OpAdd, ast.Ident("line"), ast.Bin(ast.OpMul, ast.Ident("n"), ast.IntLit(2)))),
			)),
			stdin: "21\nanswer=\r\n",
			want:  "answer=42\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := compileAndRun(t, tc.prog, tc.stdin); got != tc.want {
				t.Fatalf("output %q, want %q", got, tc.want)
			}
		})
	}
}
