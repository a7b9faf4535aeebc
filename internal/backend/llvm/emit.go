package llvm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
	"github.com/ywhdzrb/Cavvy-sub000/internal/trace"
	"github.com/ywhdzrb/Cavvy-sub000/internal/types"
)

// DefaultTriple is used when Options.TargetTriple is empty.
const DefaultTriple = "x86_64-pc-linux-gnu"

// Options configures one generation run.
type Options struct {
	TargetTriple string
	// ConsoleCodePage > 0 makes the entry point call SetConsoleOutputCP.
	ConsoleCodePage int
	// EntryClass overrides the @main marker when choosing main().
	EntryClass string
	Tracer     trace.Tracer
	ParentSpan uint64
}

// Emitter holds the state of one run. Nothing in it is shared between runs,
// so separate programs may be generated concurrently.
type Emitter struct {
	prog   *ast.Program
	reg    *types.Registry
	opts   Options
	tracer trace.Tracer
	span   *trace.Span

	pool        *StringPool
	statics     map[string]*StaticField
	staticOrder []*StaticField

	functions strings.Builder
	lambdas   strings.Builder
	lambdaSeq int
	clinits   []string

	externs     map[string]string
	externOrder []string
	funcCount   int
}

// EmitProgram generates the IR module for prog. reg may be nil, in which
// case it is collected from prog. On error the returned text is empty.
func EmitProgram(prog *ast.Program, reg *types.Registry, opts Options) (string, error) {
	if prog == nil {
		return "", errorf("no program")
	}
	if reg == nil {
		var err error
		if reg, err = types.Collect(prog); err != nil {
			return "", errorf("%v", err)
		}
	}
	if opts.TargetTriple == "" {
		opts.TargetTriple = DefaultTriple
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	e := &Emitter{
		prog:    prog,
		reg:     reg,
		opts:    opts,
		tracer:  opts.Tracer,
		pool:    NewStringPool(),
		statics: make(map[string]*StaticField),
		externs: make(map[string]string),
	}
	e.span = trace.Begin(e.tracer, trace.ScopePass, "generate", opts.ParentSpan)
	out, err := e.run()
	if err != nil {
		e.span.End("failed: " + err.Error())
		return "", err
	}
	e.span.WithExtra("functions", strconv.Itoa(e.funcCount)).
		WithExtra("strings", strconv.Itoa(e.pool.Len())).
		End("")
	return out, nil
}

func (e *Emitter) run() (string, error) {
	entry, err := e.reg.EntryMethod(e.opts.EntryClass)
	if err != nil {
		return "", errorf("%v", err)
	}
	if err := e.registerStatics(); err != nil {
		return "", err
	}
	for _, cls := range e.reg.Classes() {
		if err := e.emitClass(cls); err != nil {
			return "", err
		}
	}
	mainFn, err := e.emitEntry(entry)
	if err != nil {
		return "", err
	}
	return e.assemble(mainFn), nil
}

// assemble concatenates the module sections in their fixed order.
func (e *Emitter) assemble(mainFn string) string {
	var sb strings.Builder
	sb.WriteString("; ModuleID = 'cavvy'\n")
	sb.WriteString("source_filename = \"cavvy\"\n")
	fmt.Fprintf(&sb, "target triple = \"%s\"\n\n", e.opts.TargetTriple)
	e.writeDeclarations(&sb)
	e.writeRuntimeConstants(&sb)
	e.pool.writeTo(&sb)
	e.writeRuntimeFunctions(&sb)
	e.writeStatics(&sb)
	sb.WriteString(e.functions.String())
	sb.WriteString(mainFn)
	sb.WriteString(e.lambdas.String())
	return sb.String()
}

func (e *Emitter) emitClass(cls *types.ClassInfo) error {
	span := trace.Begin(e.tracer, trace.ScopeModule, "class:"+cls.Name, e.span.ID())
	defer span.End("")
	decl := cls.Decl

	for _, md := range decl.Methods {
		m := methodOf(cls.Methods[md.Name], md)
		if m == nil {
			continue
		}
		symbol := methodSymbol(m)
		if md.Body == nil {
			if m.Native {
				e.declareExtern(symbol, Lower(m.Result), paramTypes(m))
			}
			continue
		}
		if err := e.emitFunction(cls.Name, symbol, m.Params, Lower(m.Result), md.Body, span.ID()); err != nil {
			return err
		}
	}
	for _, c := range cls.Constructors {
		if c.Decl.Body == nil {
			continue
		}
		if err := e.emitFunction(cls.Name, ctorSymbol(c), c.Params, tVoid, c.Decl.Body, span.ID()); err != nil {
			return err
		}
	}
	if decl.Destructor != nil && decl.Destructor.Body != nil {
		if err := e.emitFunction(cls.Name, dtorSymbol(cls.Name), nil, tVoid, decl.Destructor.Body, span.ID()); err != nil {
			return err
		}
	}
	for i, b := range decl.StaticInits {
		symbol := fmt.Sprintf("%s.__clinit_%d", cls.Name, i)
		if err := e.emitFunction(cls.Name, symbol, nil, tVoid, b, span.ID()); err != nil {
			return err
		}
		e.clinits = append(e.clinits, symbol)
	}
	for i, b := range decl.InstanceInits {
		if err := e.emitFunction(cls.Name, instanceInitSymbol(cls.Name, i), nil, tVoid, b, span.ID()); err != nil {
			return err
		}
	}
	return nil
}

func instanceInitSymbol(class string, i int) string {
	return fmt.Sprintf("%s.__init_block_%d", class, i)
}

func methodOf(set []*types.MethodInfo, decl *ast.MethodDecl) *types.MethodInfo {
	for _, m := range set {
		if m.Decl == decl {
			return m
		}
	}
	return nil
}

// emitFunction generates one method-like function.
func (e *Emitter) emitFunction(class, symbol string, params []types.ParamInfo, ret IRType, body *ast.Block, parent uint64) error {
	span := trace.Begin(e.tracer, trace.ScopeNode, "fn:"+symbol, parent)
	defer span.End("")

	fe := e.newFunc(class, symbol, ret)
	sig := make([]funcParam, 0, len(params))
	for _, p := range params {
		t := Lower(p.Type)
		if p.Variadic {
			t = arrayOf(t)
		}
		if t.Kind == KVoid {
			return within(symbol, errorf("parameter %s has type void", p.Name))
		}
		sig = append(sig, fe.bindParam(p.Name, t))
	}
	if err := fe.stmts(body.Stmts); err != nil {
		return within(symbol, err)
	}
	fe.closeBody()
	e.functions.WriteString(fe.render("", sig))
	e.funcCount++
	return nil
}

// declareExtern records a function defined outside the module.
func (e *Emitter) declareExtern(symbol string, ret IRType, params []IRType) {
	if _, ok := e.externs[symbol]; ok {
		return
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = abiType(p).String()
	}
	e.externs[symbol] = fmt.Sprintf("declare %s %s(%s)", ret, global(symbol), strings.Join(parts, ", "))
	e.externOrder = append(e.externOrder, symbol)
}
