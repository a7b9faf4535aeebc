package llvm

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
	"github.com/ywhdzrb/Cavvy-sub000/internal/types"
)

func method(class, name string, params ...*ast.Type) *types.MethodInfo {
	m := &types.MethodInfo{Class: class, Name: name, Result: ast.Prim(ast.TypeVoid), Static: true}
	for i, p := range params {
		m.Params = append(m.Params, types.ParamInfo{Name: string(rune('a' + i)), Type: p})
	}
	return m
}

func variadic(m *types.MethodInfo) *types.MethodInfo {
	m.Params[len(m.Params)-1].Variadic = true
	return m
}

func TestMethodSymbols(t *testing.T) {
	cases := []struct {
		m    *types.MethodInfo
		want string
	}{
		{method("Main", "run"), "Main.run"},
		{method("Main", "add", ast.Prim(ast.TypeInt), ast.Prim(ast.TypeInt)), "Main.__add_i_i"},
		{method("Main", "f", ast.Prim(ast.TypeLong), ast.Prim(ast.TypeDouble), ast.Prim(ast.TypeFloat)), "Main.__f_l_d_f"},
		{method("Main", "g", ast.Prim(ast.TypeBool), ast.Prim(ast.TypeChar), ast.Prim(ast.TypeString)), "Main.__g_b_c_s"},
		{method("Main", "h", ast.ObjectOf("Point"), ast.ArrayOf(ast.Prim(ast.TypeInt))), "Main.__h_oPoint_ai"},
		{method("Main", "m", ast.ArrayOf(ast.ArrayOf(ast.Prim(ast.TypeDouble)))), "Main.__m_aad"},
		{variadic(method("Main", "sum", ast.Prim(ast.TypeInt))), "Main.__sum_ai"},
		{variadic(method("Main", "join", ast.Prim(ast.TypeString), ast.Prim(ast.TypeString))), "Main.__join_s_ai"},
	}
	for _, tc := range cases {
		if got := methodSymbol(tc.m); got != tc.want {
			t.Errorf("methodSymbol(%s) = %s, want %s", tc.m.Name, got, tc.want)
		}
	}
}

func TestConstructorSymbols(t *testing.T) {
	if got := ctorSymbol(method("Point", "")); got != "Point.__ctor" {
		t.Fatalf("no-arg ctor: %s", got)
	}
	if got := ctorSymbol(method("Point", "", ast.Prim(ast.TypeInt), ast.Prim(ast.TypeInt))); got != "Point.__ctor_i_i" {
		t.Fatalf("ctor: %s", got)
	}
	if got := dtorSymbol("Point"); got != "Point.__dtor" {
		t.Fatalf("dtor: %s", got)
	}
}

// Declaration-time mangling and call-site fallback mangling must agree.
func TestMangleRoundTrip(t *testing.T) {
	sets := [][]*ast.Type{
		nil,
		{ast.Prim(ast.TypeInt)},
		{ast.Prim(ast.TypeLong), ast.Prim(ast.TypeString)},
		{ast.Prim(ast.TypeChar), ast.Prim(ast.TypeBool), ast.Prim(ast.TypeFloat), ast.Prim(ast.TypeDouble)},
		{ast.ObjectOf("Node"), ast.ArrayOf(ast.Prim(ast.TypeString))},
	}
	for _, params := range sets {
		m := method("Lib", "call", params...)
		fb := fallbackTarget("Lib", "call", paramTypes(m))
		if fb.symbol != methodSymbol(m) {
			t.Errorf("fallback %s != declared %s", fb.symbol, methodSymbol(m))
		}
	}
}

func TestResolveOrder(t *testing.T) {
	intInt := method("M", "f", ast.Prim(ast.TypeInt))
	longer := method("M", "f", ast.Prim(ast.TypeLong))
	dbl := method("M", "f", ast.Prim(ast.TypeDouble))
	set := []*types.MethodInfo{dbl, longer, intInt}

	got, ok := resolve(set, []IRType{tInt}, methodSymbol)
	if !ok || got.symbol != "M.__f_i" {
		t.Fatalf("exact match not preferred: %+v", got)
	}
	got, ok = resolve([]*types.MethodInfo{dbl, longer}, []IRType{tChar}, methodSymbol)
	if !ok || got.symbol != "M.__f_d" {
		t.Fatalf("first widening match expected, got %+v", got)
	}
	if _, ok := resolve([]*types.MethodInfo{intInt}, []IRType{tDouble}, methodSymbol); ok {
		t.Fatalf("double narrowed to int")
	}
	if _, ok := resolve([]*types.MethodInfo{intInt}, []IRType{tInt, tInt}, methodSymbol); ok {
		t.Fatalf("arity mismatch resolved")
	}
}

func TestResolveVariadic(t *testing.T) {
	sum := variadic(method("M", "sum", ast.Prim(ast.TypeString), ast.Prim(ast.TypeInt)))
	set := []*types.MethodInfo{sum}

	got, ok := resolve(set, []IRType{tString, tInt, tInt, tChar}, methodSymbol)
	if !ok {
		t.Fatalf("variadic call not resolved")
	}
	want := callTarget{
		symbol:   "M.__sum_s_ai",
		params:   []IRType{tString, arrayOf(tInt)},
		result:   tVoid,
		variadic: true,
		fixed:    1,
	}
	if diff := cmp.Diff(want, *got, cmp.AllowUnexported(callTarget{}, IRType{})); diff != "" {
		t.Fatalf("target mismatch (-want +got):\n%s", diff)
	}

	got, ok = resolve(set, []IRType{tString}, methodSymbol)
	if !ok || !got.variadic || got.passThru {
		t.Fatalf("empty variadic tail: %+v", got)
	}
	got, ok = resolve(set, []IRType{tString, arrayOf(tInt)}, methodSymbol)
	if !ok || !got.passThru {
		t.Fatalf("array argument not passed through: %+v", got)
	}
	if _, ok := resolve(set, []IRType{tInt}, methodSymbol); ok {
		t.Fatalf("fixed prefix mismatch resolved")
	}
}

func TestPromotionIsCommutative(t *testing.T) {
	ints := []IRType{tBool, tChar, tInt, tLong}
	for _, a := range ints {
		for _, b := range ints {
			if ab, ba := promoteKind(a, b), promoteKind(b, a); !ab.Same(ba) {
				t.Errorf("promote(%s, %s) = %s but promote(%s, %s) = %s", a, b, ab, b, a, ba)
			}
		}
	}
	floats := []IRType{tFloat, tDouble}
	for _, a := range floats {
		for _, b := range floats {
			if ab, ba := promoteFloat(a, b), promoteFloat(b, a); !ab.Same(ba) {
				t.Errorf("promoteFloat(%s, %s) not commutative", a, b)
			}
		}
	}
	if got := promoteKind(tInt, tLong); got.Kind != KI64 {
		t.Fatalf("int+long promoted to %s", got)
	}
}
