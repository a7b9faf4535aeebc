package llvm

import (
	"testing"

	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

func staticField(name string, t *ast.Type, init *ast.Expr) *ast.FieldDecl {
	return &ast.FieldDecl{Name: name, Type: t, Modifiers: ast.Modifiers{ast.ModStatic}, Init: init}
}

func TestStaticGlobals(t *testing.T) {
	main := ast.MainClass("Main", printLine(ast.Ident("count")), printLine(ast.Ident("label")))
	main.Fields = []*ast.FieldDecl{
		staticField("count", tyInt, ast.IntLit(5)),
		staticField("label", tyString, ast.Bin(ast.OpAdd, ast.StrLit("n"), ast.IntLit(1))),
		staticField("ratio", tyDouble, nil),
		staticField("neg", tyLong, ast.Un(ast.OpNeg, ast.IntLit(3))),
		staticField("letter", tyInt, ast.CharLit('a')),
		staticField("two", tyDouble, ast.IntLit(2)),
		staticField("greeting", tyString, ast.StrLit("hi")),
	}
	main.StaticInits = []*ast.Block{ast.Body(
		ast.ExprStmt(ast.Assign(ast.Ident("count"), ast.Bin(ast.OpAdd, ast.Ident("count"), ast.IntLit(1)))),
	)}
	ir := emitProgram(t, program(main))
	mustOrder(t, ir,
		"@Main.count = internal global i32 5, align 4\n",
		"@Main.label = internal global ptr zeroinitializer, align 8\n",
		"@Main.ratio = internal global double zeroinitializer, align 8\n",
		"@Main.neg = internal global i64 -3, align 8\n",
		"@Main.letter = internal global i32 97, align 4\n",
		"@Main.two = internal global double 0x4000000000000000, align 8\n",
		"@Main.greeting = internal global ptr @.str.",
	)
	mustContain(t, functionBody(t, ir, "Main.__clinit_0"),
		"load i32, ptr @Main.count, align 4",
		"store i32 %t2, ptr @Main.count, align 4",
	)
	mustOrder(t, functionBody(t, ir, "main"),
		"call ptr @__cavvy_int_to_string(i64 %t1)",
		"store ptr %t3, ptr @Main.label, align 8",
		"call void @Main.__clinit_0()",
		"call void @Main.main()",
		"ret i32 0",
	)
}

func TestStaticFieldsAcrossClasses(t *testing.T) {
	config := &ast.ClassDecl{
		Name:   "Config",
		Fields: []*ast.FieldDecl{staticField("limit", tyInt, ast.IntLit(10))},
	}
	sub := &ast.ClassDecl{Name: "Sub", Parent: "Config"}
	main := ast.MainClass("Main",
		ast.ExprStmt(ast.Assign(ast.Member(ast.Ident("Config"), "limit"), ast.IntLit(3))),
		printLine(ast.Member(ast.Ident("Sub"), "limit")),
	)
	fn := functionBody(t, emitProgram(t, program(config, sub, main)), "Main.main")
	mustOrder(t, fn, "store i32 3, ptr @Config.limit, align 4", "load i32, ptr @Config.limit, align 4")

	msg := emitError(t, program(config, ast.MainClass("Main", printLine(ast.Member(ast.Ident("Config"), "nope")))))
	mustContain(t, msg, "class Config has no static field nope")
}

func TestStaticFieldErrors(t *testing.T) {
	main := withMethods(ast.MainClass("Main"), ast.StaticMethod("value", tyInt, nil, ast.Return(ast.IntLit(1))))
	main.Fields = []*ast.FieldDecl{staticField("value", tyInt, nil)}
	mustContain(t, emitError(t, program(main)), "static field Main.value collides with method Main.value()")

	main = ast.MainClass("Main")
	main.Fields = []*ast.FieldDecl{staticField("v", ast.Prim(ast.TypeVoid), nil)}
	mustContain(t, emitError(t, program(main)), "static field Main.v has type void")

	main = ast.MainClass("Main")
	main.Fields = []*ast.FieldDecl{staticField("s", tyString, ast.Ident("missing"))}
	mustContain(t, emitError(t, program(main)), "static field Main.s: undefined variable missing")
}

func TestEntryReturnsMainResult(t *testing.T) {
	main := &ast.ClassDecl{
		Name:    "Main",
		Methods: []*ast.MethodDecl{ast.StaticMethod("main", tyInt, nil, ast.Return(ast.IntLit(3)))},
	}
	fn := functionBody(t, emitProgram(t, program(main)), "main")
	mustOrder(t, fn, "define i32 @main() {", "%t1 = call i32 @Main.main()", "ret i32 %t1")
}

func TestEntryOptions(t *testing.T) {
	a := ast.MainClass("A", printLine(ast.StrLit("a")))
	b := ast.MainClass("B", printLine(ast.StrLit("b")))

	_, err := EmitProgram(program(a, b), nil, Options{})
	if err == nil {
		t.Fatal("two entry candidates accepted")
	}
	ir, err := EmitProgram(program(a, b), nil, Options{
		EntryClass:      "B",
		TargetTriple:    "x86_64-pc-windows-msvc",
		ConsoleCodePage: 65001,
	})
	if err != nil {
		t.Fatalf("EmitProgram: %v", err)
	}
	verifyIR(t, ir)
	mustContain(t, ir,
		"target triple = \"x86_64-pc-windows-msvc\"",
		"declare i32 @SetConsoleOutputCP(i32)",
	)
	mustOrder(t, functionBody(t, ir, "main"),
		"call i32 @SetConsoleOutputCP(i32 65001)",
		"call void @B.main()",
	)

	b.Modifiers = append(b.Modifiers, ast.ModMain)
	fn := functionBody(t, emitProgram(t, program(a, b)), "main")
	mustContain(t, fn, "call void @B.main()")
}

func TestGenerationIsDeterministic(t *testing.T) {
	build := func() *ast.Program {
		main := ast.MainClass("Main",
			printLine(ast.Bin(ast.OpAdd, ast.StrLit("a"), ast.IntLit(1))),
			ast.VarStmt("f", ast.FuncOf(tyInt), ast.LambdaExprOf(nil, ast.IntLit(1))),
		)
		main.Fields = []*ast.FieldDecl{staticField("x", tyInt, ast.IntLit(1)), staticField("y", tyInt, ast.IntLit(2))}
		return program(main, &ast.ClassDecl{Name: "Other"})
	}
	first := emitProgram(t, build())
	for range 5 {
		if got := emitProgram(t, build()); got != first {
			t.Fatalf("output changed between runs:\n%s\n---\n%s", first, got)
		}
	}
}
