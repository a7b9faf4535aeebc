package llvm

import (
	"fmt"
	"strings"
)

// value is a typed IR operand produced by expression generation.
type value struct {
	ty  IRType
	ref string
}

type loopContext struct {
	continueLabel string // empty inside a switch with no enclosing loop
	breakLabel    string
}

// funcEmitter generates one function. Temporaries and labels are numbered
// per function; allocas are collected separately and placed in the entry
// block so loops never grow the stack.
type funcEmitter struct {
	emitter    *Emitter
	class      string
	symbol     string
	allocas    strings.Builder
	body       strings.Builder
	tmpID      int
	labelID    int
	scope      *Scope
	loops      []loopContext
	ret        IRType
	inferRet   bool
	sawReturn  bool
	terminated bool
}

func (e *Emitter) newFunc(class, symbol string, ret IRType) *funcEmitter {
	return &funcEmitter{
		emitter: e,
		class:   class,
		symbol:  symbol,
		scope:   NewScope(),
		ret:     ret,
	}
}

func (fe *funcEmitter) nextTemp() string {
	fe.tmpID++
	return fmt.Sprintf("%%t%d", fe.tmpID)
}

func (fe *funcEmitter) nextLabel(prefix string) string {
	fe.labelID++
	return fmt.Sprintf("%s.%d", prefix, fe.labelID)
}

// emitf writes one instruction. Code after a terminator lands in a fresh
// unreachable block so the output stays well formed.
func (fe *funcEmitter) emitf(format string, args ...any) {
	if fe.terminated {
		fmt.Fprintf(&fe.body, "\n%s:\n", fe.nextLabel("dead"))
		fe.terminated = false
	}
	fe.body.WriteString("  ")
	fmt.Fprintf(&fe.body, format, args...)
	fe.body.WriteByte('\n')
}

// term writes a block terminator unless the block is already closed.
func (fe *funcEmitter) term(format string, args ...any) {
	if fe.terminated {
		return
	}
	fe.body.WriteString("  ")
	fmt.Fprintf(&fe.body, format, args...)
	fe.body.WriteByte('\n')
	fe.terminated = true
}

func (fe *funcEmitter) br(label string) {
	fe.term("br label %%%s", label)
}

func (fe *funcEmitter) condBr(cond, then, els string) {
	fe.term("br i1 %s, label %%%s, label %%%s", cond, then, els)
}

// startBlock opens label, falling into it from an open predecessor.
func (fe *funcEmitter) startBlock(label string) {
	fe.br(label)
	fmt.Fprintf(&fe.body, "\n%s:\n", label)
	fe.terminated = false
}

// alloca reserves an entry-block stack slot and returns its pointer.
func (fe *funcEmitter) alloca(t IRType) string {
	name := fe.nextTemp()
	fmt.Fprintf(&fe.allocas, "  %s = alloca %s, align %d\n", name, t, t.Align())
	return name
}

// declareLocal binds a named variable to a fresh slot.
func (fe *funcEmitter) declareLocal(name string, t IRType) string {
	slot := fe.scope.Declare(name, t)
	ref := slotRef(slot)
	fmt.Fprintf(&fe.allocas, "  %s = alloca %s, align %d\n", ref, t, t.Align())
	return ref
}

// bindParam declares an incoming parameter. It arrives in its ABI type and
// is stored into a slot of its declared type.
func (fe *funcEmitter) bindParam(name string, t IRType) funcParam {
	in := value{ty: abiType(t), ref: paramRef(name)}
	slot := fe.declareLocal(name, t)
	if in.ty.Kind != t.Kind {
		in = fe.intToInt(in, t)
	}
	fe.store(in, slot)
	return funcParam{ref: paramRef(name), ty: abiType(t)}
}

func slotRef(slot string) string {
	return "%" + ident("l."+slot)
}

func paramRef(name string) string {
	return "%" + ident("p."+name)
}

func (fe *funcEmitter) load(t IRType, ptr string) value {
	tmp := fe.nextTemp()
	fe.emitf("%s = load %s, ptr %s, align %d", tmp, t, ptr, t.Align())
	return value{ty: t, ref: tmp}
}

func (fe *funcEmitter) store(v value, ptr string) {
	fe.emitf("store %s %s, ptr %s, align %d", v.ty, v.ref, ptr, v.ty.Align())
}

// gep returns a pointer offset by idx elements of t.
func (fe *funcEmitter) gep(t IRType, base, idx string) string {
	tmp := fe.nextTemp()
	elem := t.String()
	if t.Kind == KVoid {
		elem = "i8"
	}
	fe.emitf("%s = getelementptr inbounds %s, ptr %s, i64 %s", tmp, elem, base, idx)
	return tmp
}

func (fe *funcEmitter) pushLoop(cont, brk string) {
	fe.loops = append(fe.loops, loopContext{continueLabel: cont, breakLabel: brk})
}

func (fe *funcEmitter) popLoop() {
	fe.loops = fe.loops[:len(fe.loops)-1]
}

// enclosingContinue is the continue target visible at this point.
func (fe *funcEmitter) enclosingContinue() string {
	if len(fe.loops) == 0 {
		return ""
	}
	return fe.loops[len(fe.loops)-1].continueLabel
}

// closeBody adds the implicit return of a body that falls off its end.
func (fe *funcEmitter) closeBody() {
	if fe.ret.Kind == KVoid {
		fe.term("ret void")
		return
	}
	fe.term("ret %s %s", fe.ret, zeroValue(fe.ret))
}

type funcParam struct {
	ref string
	ty  IRType
}

// render assembles the finished function.
func (fe *funcEmitter) render(linkage string, params []funcParam) string {
	var sb strings.Builder
	sb.WriteString("define ")
	if linkage != "" {
		sb.WriteString(linkage)
		sb.WriteByte(' ')
	}
	fmt.Fprintf(&sb, "%s %s(", fe.ret, global(fe.symbol))
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s %s", p.ty, p.ref)
	}
	sb.WriteString(") {\nentry:\n")
	sb.WriteString(fe.allocas.String())
	sb.WriteString(fe.body.String())
	sb.WriteString("}\n\n")
	return sb.String()
}
