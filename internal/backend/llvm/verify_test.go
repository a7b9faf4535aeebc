package llvm

import (
	"regexp"
	"strings"
	"testing"

	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

var (
	defineRe = regexp.MustCompile(`^define .*@("[^"]+"|[-\w.$]+)\((.*)\) \{$`)
	paramRe  = regexp.MustCompile(`(%[-\w.$]+|%"[^"]+")`)
	assignRe = regexp.MustCompile(`^\s+(%[-\w.$]+|%"[^"]+") = `)
	labelRe  = regexp.MustCompile(`^([-\w.$]+):$`)
	targetRe = regexp.MustCompile(`label %([-\w.$]+)`)
	useRe    = regexp.MustCompile(`%t\d+\b`)
)

func isTerminator(instr string) bool {
	for _, op := range []string{"br ", "ret ", "ret void", "switch ", "unreachable"} {
		if strings.HasPrefix(instr, op) {
			return true
		}
	}
	return false
}

// verifyIR checks the structure of every function in a module: each value
// is defined once, every block ends in exactly one terminator, every branch
// targets a block of the same function and every %tN used is defined.
func verifyIR(t *testing.T, ir string) {
	t.Helper()
	lines := strings.Split(ir, "\n")
	for i := 0; i < len(lines); i++ {
		m := defineRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		fn := m[1]
		defined := make(map[string]bool)
		for _, p := range paramRe.FindAllString(m[2], -1) {
			defined[p] = true
		}
		labels := make(map[string]bool)
		var targets, uses []string
		open := false
		for i++; i < len(lines) && lines[i] != "}"; i++ {
			line := lines[i]
			if strings.TrimSpace(line) == "" {
				continue
			}
			if lm := labelRe.FindStringSubmatch(line); lm != nil {
				if open {
					t.Fatalf("%s: block before %s has no terminator", fn, lm[1])
				}
				if labels[lm[1]] {
					t.Fatalf("%s: label %s defined twice", fn, lm[1])
				}
				labels[lm[1]] = true
				open = true
				continue
			}
			if strings.HasPrefix(strings.TrimSpace(line), ";") {
				continue
			}
			if !open {
				t.Fatalf("%s: instruction after terminator: %q", fn, line)
			}
			if am := assignRe.FindStringSubmatch(line); am != nil {
				if defined[am[1]] {
					t.Fatalf("%s: %s defined twice", fn, am[1])
				}
				defined[am[1]] = true
			}
			for _, tm := range targetRe.FindAllStringSubmatch(line, -1) {
				targets = append(targets, tm[1])
			}
			uses = append(uses, useRe.FindAllString(line, -1)...)
			if isTerminator(strings.TrimSpace(line)) {
				open = false
			}
		}
		if open {
			t.Fatalf("%s: last block has no terminator", fn)
		}
		for _, target := range targets {
			if !labels[target] {
				t.Fatalf("%s: branch to undefined label %s", fn, target)
			}
		}
		for _, u := range uses {
			if !defined[u] {
				t.Fatalf("%s: %s used but never defined", fn, u)
			}
		}
	}
}

func program(classes ...*ast.ClassDecl) *ast.Program {
	return &ast.Program{Classes: classes}
}

// emitMain generates a program whose Main.main runs stmts.
func emitMain(t *testing.T, stmts ...*ast.Stmt) string {
	t.Helper()
	return emitProgram(t, program(ast.MainClass("Main", stmts...)))
}

func emitProgram(t *testing.T, prog *ast.Program) string {
	t.Helper()
	ir, err := EmitProgram(prog, nil, Options{})
	if err != nil {
		t.Fatalf("EmitProgram: %v", err)
	}
	verifyIR(t, ir)
	return ir
}

func emitError(t *testing.T, prog *ast.Program) string {
	t.Helper()
	ir, err := EmitProgram(prog, nil, Options{})
	if err == nil {
		t.Fatalf("expected an error, got IR:\n%s", ir)
	}
	if ir != "" {
		t.Fatalf("partial output returned with error %v", err)
	}
	return err.Error()
}

// functionBody extracts the text of one defined function.
func functionBody(t *testing.T, ir, symbol string) string {
	t.Helper()
	head := " " + global(symbol) + "("
	start := -1
	for off := 0; off < len(ir); {
		end := strings.IndexByte(ir[off:], '\n')
		if end < 0 {
			end = len(ir) - off
		}
		line := ir[off : off+end]
		if strings.HasPrefix(line, "define ") && strings.Contains(line, head) {
			start = off
			break
		}
		off += end + 1
	}
	if start < 0 {
		t.Fatalf("function %s not found", symbol)
	}
	end := strings.Index(ir[start:], "\n}\n")
	if end < 0 {
		t.Fatalf("function %s not terminated", symbol)
	}
	return ir[start : start+end+3]
}

func mustContain(t *testing.T, text string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(text, p) {
			t.Fatalf("expected %q in:\n%s", p, text)
		}
	}
}

func mustOrder(t *testing.T, text string, parts ...string) {
	t.Helper()
	pos := 0
	for _, p := range parts {
		i := strings.Index(text[pos:], p)
		if i < 0 {
			t.Fatalf("expected %q after offset %d in:\n%s", p, pos, text)
		}
		pos += i + len(p)
	}
}
