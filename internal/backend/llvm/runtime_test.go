package llvm

import (
	"strings"
	"testing"

	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

func TestRuntimeRoutinesVerify(t *testing.T) {
	var sb strings.Builder
	e := &Emitter{}
	e.writeRuntimeFunctions(&sb)
	verifyIR(t, sb.String())
}

func TestRuntimeNullSafety(t *testing.T) {
	ir := emitMain(t)
	cases := []struct {
		symbol string
		parts  []string
	}{
		{rtLength, []string{"icmp eq ptr %s, null", "ret i32 0"}},
		{rtCharAt, []string{"icmp eq ptr %s, null", "icmp ult i64 %idx, %n", "ret i8 0"}},
		{rtConcat, []string{"select i1 %a.null, ptr @.cavvy_empty_str, ptr %a", "select i1 %b.null, ptr @.cavvy_empty_str, ptr %b"}},
		{rtSubstring, []string{"ret ptr @.cavvy_empty_str", "select i1 %b.neg", "select i1 %e.big"}},
		{rtIndexOf, []string{"br i1 %any.null, label %missing", "ret i32 -1", "ret i32 0"}},
		{rtReplace, []string{"br i1 %s.null, label %empty", "br i1 %o.empty, label %same"}},
		{rtStringEq, []string{"and i1 %a.null, %b.null", "@strcmp"}},
	}
	for _, tc := range cases {
		body := functionBody(t, ir, tc.symbol)
		mustContain(t, body, tc.parts...)
		if !strings.HasPrefix(body, "define internal ") {
			t.Errorf("%s is not internal", tc.symbol)
		}
	}
}

func TestBoolToStringDoesNotAllocate(t *testing.T) {
	body := functionBody(t, emitMain(t), rtBoolToString)
	if strings.Contains(body, "@calloc") {
		t.Fatalf("bool_to_string allocates:\n%s", body)
	}
	mustContain(t, body, "select i1 %v, ptr @.cavvy_true, ptr @.cavvy_false")
}

func TestModuleSectionOrder(t *testing.T) {
	ir := emitMain(t,
		ast.ExprStmt(ast.Call("println", ast.StrLit("x"))),
	)
	mustOrder(t, ir,
		"target triple",
		"declare i32 @printf(ptr, ...)",
		"@.cavvy_empty_str",
		"@.str.0",
		"define internal ptr @__cavvy_string_concat",
		"define void @Main.main()",
		"define i32 @main()",
	)
}

func TestStdinDependsOnTriple(t *testing.T) {
	cases := map[string]string{
		"x86_64-pc-linux-gnu":    "@stdin = external global ptr",
		"arm64-apple-darwin23":   "@__stdinp = external global ptr",
		"x86_64-pc-windows-msvc": "declare ptr @__acrt_iob_func(i32)",
	}
	for triple, want := range cases {
		e := &Emitter{opts: Options{TargetTriple: triple}}
		var sb strings.Builder
		e.writeDeclarations(&sb)
		mustContain(t, sb.String(), want)
	}
}
