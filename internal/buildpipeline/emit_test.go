package buildpipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
	"github.com/ywhdzrb/Cavvy-sub000/internal/backend/llvm"
	"github.com/ywhdzrb/Cavvy-sub000/internal/driver"
	"github.com/ywhdzrb/Cavvy-sub000/internal/observ"
)

// writeDoc encodes a one-class program running stmts into dir/name.
func writeDoc(t *testing.T, dir, name string, stmts ...*ast.Stmt) string {
	t.Helper()
	path := filepath.Join(dir, name)
	format, err := driver.FormatOf(path)
	if err != nil {
		t.Fatal(err)
	}
	prog := &ast.Program{Classes: []*ast.ClassDecl{ast.MainClass("Main", stmts...)}}
	data, err := driver.Encode(prog, format)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func hello(text string) *ast.Stmt {
	return ast.ExprStmt(ast.Call("println", ast.StrLit(text)))
}

type step struct {
	Stage  Stage
	Status Status
}

// stepsFor returns the stage/status sequence reported for file.
func stepsFor(events []Event, file string) []step {
	var out []step
	for _, ev := range events {
		if ev.File == file {
			out = append(out, step{ev.Stage, ev.Status})
		}
	}
	return out
}

func TestEmitWritesModules(t *testing.T) {
	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "build")
	inputs := []string{
		writeDoc(t, src, "first.json", hello("one")),
		writeDoc(t, src, "second.msgpack", hello("two")),
	}
	sink := &recordingSink{}
	timer := observ.NewTimer()

	res, err := Emit(context.Background(), &EmitRequest{
		Inputs:   inputs,
		OutDir:   out,
		BaseDir:  src,
		Jobs:     2,
		Progress: sink,
		Timer:    timer,
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if res.Failed() != 0 || len(res.Outputs) != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	for i, want := range []string{"one", "two"} {
		o := res.Outputs[i]
		if o.Path != filepath.Join(out, strings.TrimSuffix(filepath.Base(inputs[i]), filepath.Ext(inputs[i]))+".ll") {
			t.Fatalf("output path %s", o.Path)
		}
		data, err := os.ReadFile(o.Path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), `c"`+want+`\00"`) || !strings.Contains(string(data), "define i32 @main()") {
			t.Fatalf("%s does not hold the expected module:\n%s", o.Path, data)
		}
		if !o.Timings.Has(StageLoad) || !o.Timings.Has(StageGenerate) || !o.Timings.Has(StageWrite) {
			t.Fatalf("missing stage timings for %s", o.Display)
		}
	}

	want := []step{
		{StageLoad, StatusQueued},
		{StageLoad, StatusWorking},
		{StageLoad, StatusDone},
		{StageGenerate, StatusWorking},
		{StageGenerate, StatusDone},
		{StageWrite, StatusWorking},
		{StageWrite, StatusDone},
	}
	for _, name := range []string{"first.json", "second.msgpack"} {
		if diff := cmp.Diff(want, stepsFor(sink.Events(), name)); diff != "" {
			t.Fatalf("events for %s (-want +got):\n%s", name, diff)
		}
	}

	var phases []string
	for _, p := range timer.Report().Phases {
		phases = append(phases, p.Name)
	}
	if !slices.Contains(phases, "generate first.json") || !slices.Contains(phases, "write second.msgpack") {
		t.Fatalf("timer phases %v", phases)
	}
}

func TestEmitContinuesAfterFailure(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	good := writeDoc(t, src, "good.json", hello("ok"))
	bad := writeDoc(t, src, "bad.json", ast.ExprStmt(ast.Call("nothing")))
	sink := &recordingSink{}

	res, err := Emit(context.Background(), &EmitRequest{
		Inputs:   []string{bad, good},
		OutDir:   out,
		BaseDir:  src,
		Jobs:     1,
		Progress: sink,
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "bad.json") || !strings.Contains(err.Error(), "undefined method nothing") {
		t.Fatalf("unexpected error %v", err)
	}
	var cg *llvm.Error
	if !errors.As(err, &cg) {
		t.Fatalf("error %T does not wrap a generation error", err)
	}
	if res.Failed() != 1 || res.Outputs[1].Err != nil {
		t.Fatalf("unexpected outcomes %+v", res.Outputs)
	}
	if _, err := os.Stat(filepath.Join(out, "bad.ll")); !os.IsNotExist(err) {
		t.Fatalf("bad.ll written despite the error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "good.ll")); err != nil {
		t.Fatalf("good.ll missing: %v", err)
	}
	steps := stepsFor(sink.Events(), "bad.json")
	if last := steps[len(steps)-1]; last != (step{StageGenerate, StatusError}) {
		t.Fatalf("last step for bad.json %+v", last)
	}
}

func TestEmitUsesCache(t *testing.T) {
	src := t.TempDir()
	in := writeDoc(t, src, "cached.json", hello("again"))
	cache, err := driver.NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	run := func(opts llvm.Options) (Output, []step) {
		t.Helper()
		sink := &recordingSink{}
		res, err := Emit(context.Background(), &EmitRequest{
			Inputs:   []string{in},
			OutDir:   t.TempDir(),
			BaseDir:  src,
			Options:  opts,
			Cache:    cache,
			Progress: sink,
		})
		if err != nil {
			t.Fatalf("Emit: %v", err)
		}
		return res.Outputs[0], stepsFor(sink.Events(), "cached.json")
	}

	first, _ := run(llvm.Options{})
	if first.Cached {
		t.Fatal("first run reported a cache hit")
	}
	second, steps := run(llvm.Options{})
	if !second.Cached || !slices.Contains(steps, step{StageGenerate, StatusCached}) {
		t.Fatalf("second run missed the cache: %+v", steps)
	}
	a, _ := os.ReadFile(first.Path)
	b, _ := os.ReadFile(second.Path)
	if !bytes.Equal(a, b) {
		t.Fatal("cached module differs from the generated one")
	}
	other, _ := run(llvm.Options{TargetTriple: "aarch64-unknown-linux-gnu"})
	if other.Cached {
		t.Fatal("a different target reused the cached module")
	}
}

func TestEmitStdout(t *testing.T) {
	src := t.TempDir()
	one := writeDoc(t, src, "one.json", hello("x"))
	two := writeDoc(t, src, "two.json", hello("y"))
	out := t.TempDir()

	var buf bytes.Buffer
	res, err := Emit(context.Background(), &EmitRequest{Inputs: []string{one}, OutDir: out, Stdout: &buf})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if res.Outputs[0].Path != "" || !strings.HasPrefix(buf.String(), "; ModuleID = 'cavvy'") {
		t.Fatalf("stdout output %q, path %q", buf.String(), res.Outputs[0].Path)
	}
	if entries, _ := os.ReadDir(out); len(entries) != 0 {
		t.Fatalf("files written with stdout output: %v", entries)
	}
	if _, err := Emit(context.Background(), &EmitRequest{Inputs: []string{one, two}, Stdout: &buf}); err == nil {
		t.Fatal("expected an error for several documents on stdout")
	}
}

func TestEmitRequestErrors(t *testing.T) {
	src := t.TempDir()
	a := writeDoc(t, filepath.Join(src, "x"), "prog.json", hello("a"))
	b := writeDoc(t, filepath.Join(src, "y"), "prog.msgpack", hello("b"))

	if _, err := Emit(context.Background(), &EmitRequest{}); err == nil {
		t.Fatal("expected an error without inputs")
	}
	_, err := Emit(context.Background(), &EmitRequest{Inputs: []string{a, b}, OutDir: t.TempDir()})
	if err == nil || !strings.Contains(err.Error(), "both write") {
		t.Fatalf("expected a collision error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Emit(ctx, &EmitRequest{Inputs: []string{a}, OutDir: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDisplayNames(t *testing.T) {
	base := t.TempDir()
	got := DisplayNames([]string{
		filepath.Join(base, "src", "a.json"),
		filepath.Join(base, "b.json"),
		"/elsewhere/c.json",
	}, base)
	want := []string{"src/a.json", "b.json", "/elsewhere/c.json"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("display names (-want +got):\n%s", diff)
	}
}
