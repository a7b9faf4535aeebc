package llvm

import (
	"fmt"
	"strings"
)

// Runtime routine symbols. They are emitted into every module with internal
// linkage, so separately generated modules never clash at link time.
const (
	rtConcat        = "__cavvy_string_concat"
	rtIntToString   = "__cavvy_int_to_string"
	rtFloatToString = "__cavvy_float_to_string"
	rtCharToString  = "__cavvy_char_to_string"
	rtBoolToString  = "__cavvy_bool_to_string"
	rtLength        = "__cavvy_string_length"
	rtSubstring     = "__cavvy_string_substring"
	rtIndexOf       = "__cavvy_string_indexof"
	rtCharAt        = "__cavvy_string_charat"
	rtReplace       = "__cavvy_string_replace"
	rtStringEq      = "__cavvy_string_eq"
)

// emptyString is the shared "" every null-safe routine falls back to.
const emptyString = "@.cavvy_empty_str"

type builtinDecl struct {
	name     string
	ret      string
	params   []string
	variadic bool
}

// libcDecls lists the C functions the generated code and the runtime rely on.
func libcDecls() []builtinDecl {
	return []builtinDecl{
		{name: "printf", ret: "i32", params: []string{"ptr"}, variadic: true},
		{name: "scanf", ret: "i32", params: []string{"ptr"}, variadic: true},
		{name: "snprintf", ret: "i32", params: []string{"ptr", "i64", "ptr"}, variadic: true},
		{name: "fgets", ret: "ptr", params: []string{"ptr", "i32", "ptr"}},
		{name: "calloc", ret: "ptr", params: []string{"i64", "i64"}},
		{name: "strlen", ret: "i64", params: []string{"ptr"}},
		{name: "strcmp", ret: "i32", params: []string{"ptr", "ptr"}},
		{name: "strncmp", ret: "i32", params: []string{"ptr", "ptr", "i64"}},
		{name: "strcspn", ret: "i64", params: []string{"ptr", "ptr"}},
		{name: "llvm.memcpy.p0.p0.i64", ret: "void", params: []string{"ptr", "ptr", "i64", "i1"}},
	}
}

func (d builtinDecl) signature() string {
	params := strings.Join(d.params, ", ")
	if d.variadic {
		params += ", ..."
	}
	return params
}

// stdinKind says how the C stdin stream is reached on a target.
type stdinKind uint8

const (
	stdinGlobal   stdinKind = iota // glibc: @stdin
	stdinDarwin                    // @__stdinp
	stdinFunction                  // MSVC CRT: __acrt_iob_func(0)
)

func stdinFor(triple string) stdinKind {
	switch {
	case strings.Contains(triple, "windows"), strings.Contains(triple, "mingw"):
		return stdinFunction
	case strings.Contains(triple, "darwin"), strings.Contains(triple, "apple"):
		return stdinDarwin
	default:
		return stdinGlobal
	}
}

func (e *Emitter) writeDeclarations(sb *strings.Builder) {
	for _, d := range libcDecls() {
		fmt.Fprintf(sb, "declare %s @%s(%s)\n", d.ret, d.name, d.signature())
	}
	switch stdinFor(e.opts.TargetTriple) {
	case stdinFunction:
		sb.WriteString("declare ptr @__acrt_iob_func(i32)\n")
	case stdinDarwin:
		sb.WriteString("@__stdinp = external global ptr\n")
	default:
		sb.WriteString("@stdin = external global ptr\n")
	}
	if e.opts.ConsoleCodePage > 0 {
		sb.WriteString("declare i32 @SetConsoleOutputCP(i32)\n")
	}
	for _, symbol := range e.externOrder {
		sb.WriteString(e.externs[symbol])
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
}

// loadStdin emits the target's way of obtaining the stdin FILE*.
func (fe *funcEmitter) loadStdin() string {
	tmp := fe.nextTemp()
	switch stdinFor(fe.emitter.opts.TargetTriple) {
	case stdinFunction:
		fe.emitf("%s = call ptr @__acrt_iob_func(i32 0)", tmp)
	case stdinDarwin:
		fe.emitf("%s = load ptr, ptr @__stdinp, align 8", tmp)
	default:
		fe.emitf("%s = load ptr, ptr @stdin, align 8", tmp)
	}
	return tmp
}

func (e *Emitter) writeRuntimeConstants(sb *strings.Builder) {
	sb.WriteString(runtimeConstants)
}

func (e *Emitter) writeRuntimeFunctions(sb *strings.Builder) {
	for _, body := range runtimeFunctions {
		sb.WriteString(body)
		sb.WriteByte('\n')
	}
}

const runtimeConstants = `@.cavvy_empty_str = private unnamed_addr constant [1 x i8] c"\00", align 1
@.cavvy_fmt_int = private unnamed_addr constant [5 x i8] c"%lld\00", align 1
@.cavvy_fmt_float = private unnamed_addr constant [3 x i8] c"%f\00", align 1
@.cavvy_true = private unnamed_addr constant [5 x i8] c"true\00", align 1
@.cavvy_false = private unnamed_addr constant [6 x i8] c"false\00", align 1

`

var runtimeFunctions = []string{
	`define internal ptr @__cavvy_string_concat(ptr %a, ptr %b) {
entry:
  %a.null = icmp eq ptr %a, null
  %a.s = select i1 %a.null, ptr @.cavvy_empty_str, ptr %a
  %b.null = icmp eq ptr %b, null
  %b.s = select i1 %b.null, ptr @.cavvy_empty_str, ptr %b
  %a.len = call i64 @strlen(ptr %a.s)
  %b.len = call i64 @strlen(ptr %b.s)
  %len = add i64 %a.len, %b.len
  %size = add i64 %len, 1
  %buf = call ptr @calloc(i64 %size, i64 1)
  %oom = icmp eq ptr %buf, null
  br i1 %oom, label %fail, label %copy

fail:
  ret ptr @.cavvy_empty_str

copy:
  call void @llvm.memcpy.p0.p0.i64(ptr %buf, ptr %a.s, i64 %a.len, i1 false)
  %tail = getelementptr inbounds i8, ptr %buf, i64 %a.len
  call void @llvm.memcpy.p0.p0.i64(ptr %tail, ptr %b.s, i64 %b.len, i1 false)
  %end = getelementptr inbounds i8, ptr %buf, i64 %len
  store i8 0, ptr %end, align 1
  ret ptr %buf
}
`,
	`define internal ptr @__cavvy_int_to_string(i64 %v) {
entry:
  %buf = call ptr @calloc(i64 32, i64 1)
  %oom = icmp eq ptr %buf, null
  br i1 %oom, label %fail, label %format

fail:
  ret ptr @.cavvy_empty_str

format:
  %n = call i32 (ptr, i64, ptr, ...) @snprintf(ptr %buf, i64 32, ptr @.cavvy_fmt_int, i64 %v)
  ret ptr %buf
}
`,
	`define internal ptr @__cavvy_float_to_string(double %v) {
entry:
  %buf = call ptr @calloc(i64 320, i64 1)
  %oom = icmp eq ptr %buf, null
  br i1 %oom, label %fail, label %format

fail:
  ret ptr @.cavvy_empty_str

format:
  %n = call i32 (ptr, i64, ptr, ...) @snprintf(ptr %buf, i64 320, ptr @.cavvy_fmt_float, double %v)
  ret ptr %buf
}
`,
	`define internal ptr @__cavvy_char_to_string(i8 %c) {
entry:
  %buf = call ptr @calloc(i64 2, i64 1)
  %oom = icmp eq ptr %buf, null
  br i1 %oom, label %fail, label %store

fail:
  ret ptr @.cavvy_empty_str

store:
  store i8 %c, ptr %buf, align 1
  ret ptr %buf
}
`,
	`define internal ptr @__cavvy_bool_to_string(i1 %v) {
entry:
  %s = select i1 %v, ptr @.cavvy_true, ptr @.cavvy_false
  ret ptr %s
}
`,
	`define internal i32 @__cavvy_string_length(ptr %s) {
entry:
  %null = icmp eq ptr %s, null
  br i1 %null, label %empty, label %measure

empty:
  ret i32 0

measure:
  %n = call i64 @strlen(ptr %s)
  %len = trunc i64 %n to i32
  ret i32 %len
}
`,
	`define internal ptr @__cavvy_string_substring(ptr %s, i32 %begin, i32 %end) {
entry:
  %null = icmp eq ptr %s, null
  br i1 %null, label %empty, label %clamp

empty:
  ret ptr @.cavvy_empty_str

clamp:
  %n = call i64 @strlen(ptr %s)
  %len = trunc i64 %n to i32
  %b.neg = icmp slt i32 %begin, 0
  %b.0 = select i1 %b.neg, i32 0, i32 %begin
  %b.big = icmp sgt i32 %b.0, %len
  %b = select i1 %b.big, i32 %len, i32 %b.0
  %e.big = icmp sgt i32 %end, %len
  %e.0 = select i1 %e.big, i32 %len, i32 %end
  %e.low = icmp slt i32 %e.0, %b
  %e = select i1 %e.low, i32 %b, i32 %e.0
  %count = sub i32 %e, %b
  %count.64 = sext i32 %count to i64
  %b.64 = sext i32 %b to i64
  %size = add i64 %count.64, 1
  %buf = call ptr @calloc(i64 %size, i64 1)
  %oom = icmp eq ptr %buf, null
  br i1 %oom, label %empty, label %copy

copy:
  %src = getelementptr inbounds i8, ptr %s, i64 %b.64
  call void @llvm.memcpy.p0.p0.i64(ptr %buf, ptr %src, i64 %count.64, i1 false)
  ret ptr %buf
}
`,
	`define internal i32 @__cavvy_string_indexof(ptr %h, ptr %n) {
entry:
  %h.null = icmp eq ptr %h, null
  %n.null = icmp eq ptr %n, null
  %any.null = or i1 %h.null, %n.null
  br i1 %any.null, label %missing, label %lengths

lengths:
  %h.len = call i64 @strlen(ptr %h)
  %n.len = call i64 @strlen(ptr %n)
  %n.empty = icmp eq i64 %n.len, 0
  br i1 %n.empty, label %first, label %fits

first:
  ret i32 0

fits:
  %ok = icmp ule i64 %n.len, %h.len
  br i1 %ok, label %scan.init, label %missing

scan.init:
  %last = sub i64 %h.len, %n.len
  br label %scan

scan:
  %i = phi i64 [ 0, %scan.init ], [ %next, %advance ]
  %at = getelementptr inbounds i8, ptr %h, i64 %i
  %cmp = call i32 @strncmp(ptr %at, ptr %n, i64 %n.len)
  %hit = icmp eq i32 %cmp, 0
  br i1 %hit, label %found, label %advance

advance:
  %next = add i64 %i, 1
  %more = icmp ule i64 %next, %last
  br i1 %more, label %scan, label %missing

found:
  %idx = trunc i64 %i to i32
  ret i32 %idx

missing:
  ret i32 -1
}
`,
	`define internal i8 @__cavvy_string_charat(ptr %s, i32 %i) {
entry:
  %null = icmp eq ptr %s, null
  %neg = icmp slt i32 %i, 0
  %bad = or i1 %null, %neg
  br i1 %bad, label %nul, label %bounds

bounds:
  %n = call i64 @strlen(ptr %s)
  %idx = sext i32 %i to i64
  %inside = icmp ult i64 %idx, %n
  br i1 %inside, label %load, label %nul

load:
  %p = getelementptr inbounds i8, ptr %s, i64 %idx
  %c = load i8, ptr %p, align 1
  ret i8 %c

nul:
  ret i8 0
}
`,
	`define internal ptr @__cavvy_string_replace(ptr %s, ptr %old, ptr %new) {
entry:
  %s.null = icmp eq ptr %s, null
  br i1 %s.null, label %empty, label %check.old

empty:
  ret ptr @.cavvy_empty_str

check.old:
  %o.null = icmp eq ptr %old, null
  br i1 %o.null, label %same, label %old.len

old.len:
  %o.len = call i64 @strlen(ptr %old)
  %o.empty = icmp eq i64 %o.len, 0
  br i1 %o.empty, label %same, label %prep

same:
  ret ptr %s

prep:
  %n.null = icmp eq ptr %new, null
  %n.s = select i1 %n.null, ptr @.cavvy_empty_str, ptr %new
  %n.len = call i64 @strlen(ptr %n.s)
  %s.len = call i64 @strlen(ptr %s)
  br label %count

count:
  %ci = phi i64 [ 0, %prep ], [ %ci.hit, %count.hit ], [ %ci.miss, %count.miss ]
  %cc = phi i64 [ 0, %prep ], [ %cc.hit, %count.hit ], [ %cc, %count.miss ]
  %c.rest = sub i64 %s.len, %ci
  %c.fits = icmp uge i64 %c.rest, %o.len
  br i1 %c.fits, label %count.test, label %alloc

count.test:
  %c.at = getelementptr inbounds i8, ptr %s, i64 %ci
  %c.cmp = call i32 @strncmp(ptr %c.at, ptr %old, i64 %o.len)
  %c.hit = icmp eq i32 %c.cmp, 0
  br i1 %c.hit, label %count.hit, label %count.miss

count.hit:
  %ci.hit = add i64 %ci, %o.len
  %cc.hit = add i64 %cc, 1
  br label %count

count.miss:
  %ci.miss = add i64 %ci, 1
  br label %count

alloc:
  %grow = sub i64 %n.len, %o.len
  %delta = mul i64 %cc, %grow
  %out.len = add i64 %s.len, %delta
  %size = add i64 %out.len, 1
  %buf = call ptr @calloc(i64 %size, i64 1)
  %oom = icmp eq ptr %buf, null
  br i1 %oom, label %empty, label %build

build:
  %si = phi i64 [ 0, %alloc ], [ %si.hit, %build.hit ], [ %si.copy, %build.copy ]
  %di = phi i64 [ 0, %alloc ], [ %di.hit, %build.hit ], [ %di.copy, %build.copy ]
  %b.more = icmp ult i64 %si, %s.len
  br i1 %b.more, label %build.test, label %done

build.test:
  %b.rest = sub i64 %s.len, %si
  %b.fits = icmp uge i64 %b.rest, %o.len
  br i1 %b.fits, label %build.cmp, label %build.copy

build.cmp:
  %b.at = getelementptr inbounds i8, ptr %s, i64 %si
  %b.cmp = call i32 @strncmp(ptr %b.at, ptr %old, i64 %o.len)
  %b.hit = icmp eq i32 %b.cmp, 0
  br i1 %b.hit, label %build.hit, label %build.copy

build.hit:
  %b.dst = getelementptr inbounds i8, ptr %buf, i64 %di
  call void @llvm.memcpy.p0.p0.i64(ptr %b.dst, ptr %n.s, i64 %n.len, i1 false)
  %si.hit = add i64 %si, %o.len
  %di.hit = add i64 %di, %n.len
  br label %build

build.copy:
  %cp.src = getelementptr inbounds i8, ptr %s, i64 %si
  %cp.c = load i8, ptr %cp.src, align 1
  %cp.dst = getelementptr inbounds i8, ptr %buf, i64 %di
  store i8 %cp.c, ptr %cp.dst, align 1
  %si.copy = add i64 %si, 1
  %di.copy = add i64 %di, 1
  br label %build

done:
  ret ptr %buf
}
`,
	`define internal i1 @__cavvy_string_eq(ptr %a, ptr %b) {
entry:
  %a.null = icmp eq ptr %a, null
  %b.null = icmp eq ptr %b, null
  %either = or i1 %a.null, %b.null
  br i1 %either, label %nulls, label %compare

nulls:
  %both = and i1 %a.null, %b.null
  ret i1 %both

compare:
  %c = call i32 @strcmp(ptr %a, ptr %b)
  %eq = icmp eq i32 %c, 0
  ret i1 %eq
}
`,
}
