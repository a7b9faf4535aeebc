package types

import (
	"fmt"

	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

// ParamInfo is one declared parameter.
type ParamInfo struct {
	Name     string
	Type     *ast.Type
	Variadic bool
}

// MethodInfo describes one overload. Constructors use an empty Name.
type MethodInfo struct {
	Class  string
	Name   string
	Params []ParamInfo
	Result *ast.Type
	Static bool
	Public bool
	Native bool
	Decl   *ast.MethodDecl
}

// Variadic reports whether the last parameter collects trailing arguments.
func (m *MethodInfo) Variadic() bool {
	return len(m.Params) > 0 && m.Params[len(m.Params)-1].Variadic
}

// FixedCount is the number of parameters before a variadic tail.
func (m *MethodInfo) FixedCount() int {
	if m.Variadic() {
		return len(m.Params) - 1
	}
	return len(m.Params)
}

// FieldInfo describes one declared field.
type FieldInfo struct {
	Class  string
	Name   string
	Type   *ast.Type
	Static bool
	Final  bool
	Init   *ast.Expr
}

// ClassInfo is the resolved view of one class.
type ClassInfo struct {
	Name         string
	Parent       string
	Fields       map[string]*FieldInfo
	FieldOrder   []string
	Methods      map[string][]*MethodInfo
	Constructors []*MethodInfo
	Decl         *ast.ClassDecl
}

// Registry maps class names to their declarations. It is read-only once
// Collect returns.
type Registry struct {
	classes map[string]*ClassInfo
	order   []string
}

// Collect builds the registry for prog. It checks only what the code
// generator relies on: unique class names, known acyclic parents and
// variadic parameters in last position.
func Collect(prog *ast.Program) (*Registry, error) {
	r := &Registry{classes: make(map[string]*ClassInfo)}
	if prog == nil {
		return r, nil
	}
	for _, decl := range prog.Classes {
		if decl == nil {
			continue
		}
		if _, dup := r.classes[decl.Name]; dup {
			return nil, fmt.Errorf("class %s already defined", decl.Name)
		}
		info := &ClassInfo{
			Name:    decl.Name,
			Parent:  decl.Parent,
			Fields:  make(map[string]*FieldInfo, len(decl.Fields)),
			Methods: make(map[string][]*MethodInfo, len(decl.Methods)),
			Decl:    decl,
		}
		for _, f := range decl.Fields {
			if _, dup := info.Fields[f.Name]; dup {
				return nil, fmt.Errorf("field %s.%s already defined", decl.Name, f.Name)
			}
			info.Fields[f.Name] = &FieldInfo{
				Class:  decl.Name,
				Name:   f.Name,
				Type:   f.Type,
				Static: f.Modifiers.Has(ast.ModStatic),
				Final:  f.Modifiers.Has(ast.ModFinal),
				Init:   f.Init,
			}
			info.FieldOrder = append(info.FieldOrder, f.Name)
		}
		for _, m := range decl.Methods {
			mi, err := methodInfo(decl.Name, m)
			if err != nil {
				return nil, err
			}
			info.Methods[m.Name] = append(info.Methods[m.Name], mi)
		}
		for _, c := range decl.Constructors {
			mi, err := methodInfo(decl.Name, c)
			if err != nil {
				return nil, err
			}
			mi.Name = ""
			info.Constructors = append(info.Constructors, mi)
		}
		r.classes[decl.Name] = info
		r.order = append(r.order, decl.Name)
	}
	for _, name := range r.order {
		if err := r.checkAncestry(name); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func methodInfo(class string, m *ast.MethodDecl) (*MethodInfo, error) {
	mi := &MethodInfo{
		Class:  class,
		Name:   m.Name,
		Result: m.Result,
		Static: m.Modifiers.Has(ast.ModStatic),
		Public: m.Modifiers.Has(ast.ModPublic),
		Native: m.Modifiers.Has(ast.ModNative),
		Decl:   m,
	}
	if mi.Result == nil {
		mi.Result = ast.Prim(ast.TypeVoid)
	}
	for i, p := range m.Params {
		if p.Variadic && i != len(m.Params)-1 {
			return nil, fmt.Errorf("%s.%s: variadic parameter %s must be last", class, m.Name, p.Name)
		}
		mi.Params = append(mi.Params, ParamInfo{Name: p.Name, Type: p.Type, Variadic: p.Variadic})
	}
	return mi, nil
}

func (r *Registry) checkAncestry(name string) error {
	seen := map[string]bool{name: true}
	cur := r.classes[name]
	for cur.Parent != "" {
		parent, ok := r.classes[cur.Parent]
		if !ok {
			return fmt.Errorf("class %s extends unknown class %s", cur.Name, cur.Parent)
		}
		if seen[parent.Name] {
			return fmt.Errorf("cyclic inheritance involving %s", name)
		}
		seen[parent.Name] = true
		cur = parent
	}
	return nil
}

// Class returns the named class.
func (r *Registry) Class(name string) (*ClassInfo, bool) {
	c, ok := r.classes[name]
	return c, ok
}

// Classes returns classes in declaration order.
func (r *Registry) Classes() []*ClassInfo {
	out := make([]*ClassInfo, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.classes[name])
	}
	return out
}

// Methods returns the overload set visible as class.name: the class's own
// overloads first, then inherited ones not hidden by an own overload with
// the same parameter types.
func (r *Registry) Methods(class, name string) []*MethodInfo {
	var out []*MethodInfo
	for c, ok := r.classes[class]; ok; c, ok = r.classes[c.Parent] {
		for _, m := range c.Methods[name] {
			if !hidden(out, m) {
				out = append(out, m)
			}
		}
	}
	return out
}

func hidden(set []*MethodInfo, m *MethodInfo) bool {
	for _, o := range set {
		if sameParams(o, m) {
			return true
		}
	}
	return false
}

func sameParams(a, b *MethodInfo) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i].Variadic != b.Params[i].Variadic || !a.Params[i].Type.Equal(b.Params[i].Type) {
			return false
		}
	}
	return true
}

// StaticField finds a static field declared by class or an ancestor.
func (r *Registry) StaticField(class, name string) (*FieldInfo, bool) {
	for c, ok := r.classes[class]; ok; c, ok = r.classes[c.Parent] {
		if f, found := c.Fields[name]; found && f.Static {
			return f, true
		}
	}
	return nil, false
}

// Constructors returns the constructors declared by class itself.
func (r *Registry) Constructors(class string) []*MethodInfo {
	if c, ok := r.classes[class]; ok {
		return c.Constructors
	}
	return nil
}

// EntryMethod selects the program entry: a public static parameterless
// main. override names the class explicitly; otherwise a single
// candidate wins, and several candidates are disambiguated by the @main
// class marker.
func (r *Registry) EntryMethod(override string) (*MethodInfo, error) {
	if override != "" {
		if _, ok := r.classes[override]; !ok {
			return nil, fmt.Errorf("entry class %s not found", override)
		}
		if m := r.mainOf(override); m != nil {
			return m, nil
		}
		return nil, fmt.Errorf("class %s has no public static main()", override)
	}
	var candidates, marked []*MethodInfo
	for _, name := range r.order {
		m := r.mainOf(name)
		if m == nil {
			continue
		}
		candidates = append(candidates, m)
		if r.classes[name].Decl.Modifiers.Has(ast.ModMain) {
			marked = append(marked, m)
		}
	}
	switch {
	case len(candidates) == 0:
		return nil, fmt.Errorf("no class declares public static main()")
	case len(marked) == 1:
		return marked[0], nil
	case len(marked) > 1:
		return nil, fmt.Errorf("multiple classes are marked as entry: %s and %s", marked[0].Class, marked[1].Class)
	case len(candidates) == 1:
		return candidates[0], nil
	default:
		return nil, fmt.Errorf("multiple classes declare main (%s, %s); mark one with @main", candidates[0].Class, candidates[1].Class)
	}
}

func (r *Registry) mainOf(class string) *MethodInfo {
	for _, m := range r.classes[class].Methods["main"] {
		if m.Static && m.Public && len(m.Params) == 0 && m.Decl.Body != nil {
			switch m.Result.Kind {
			case ast.TypeVoid, ast.TypeInt:
				return m
			}
		}
	}
	return nil
}
