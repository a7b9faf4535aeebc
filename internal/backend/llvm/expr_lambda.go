package llvm

import (
	"fmt"

	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

// lambda compiles the body into its own internal function and yields a
// pointer to it. Enclosing locals are not captured: the body sees only its
// parameters and the static fields of the class.
func (fe *funcEmitter) lambda(l *ast.LambdaExpr) (value, error) {
	if (l.Body == nil) == (l.Block == nil) {
		return value{}, errorf("malformed lambda: exactly one of body and block must be set")
	}
	e := fe.emitter
	symbol := fmt.Sprintf("%s.__lambda_%d", fe.class, e.lambdaSeq)
	e.lambdaSeq++

	lf := e.newFunc(fe.class, symbol, Lower(l.Result))
	lf.inferRet = l.Result == nil
	sig := &FuncSig{}
	params := make([]funcParam, 0, len(l.Params))
	for _, p := range l.Params {
		if p == nil || p.Type == nil {
			return value{}, errorf("malformed lambda: parameter without a type")
		}
		t := Lower(p.Type)
		if t.Kind == KVoid {
			return value{}, errorf("malformed lambda: parameter %s has type void", p.Name)
		}
		sig.Params = append(sig.Params, t)
		params = append(params, lf.bindParam(p.Name, t))
	}

	if l.Body != nil {
		if err := lf.returnExpr(l.Body); err != nil {
			return value{}, within(symbol, err)
		}
	} else if err := lf.stmts(l.Block.Stmts); err != nil {
		return value{}, within(symbol, err)
	}
	lf.closeBody()
	sig.Result = lf.ret
	e.lambdas.WriteString(lf.render("internal", params))
	e.funcCount++
	return value{ty: funcOf(sig), ref: global(symbol)}, nil
}

// methodRef yields a pointer to the single overload of the named method.
func (fe *funcEmitter) methodRef(r *ast.MethodRefExpr) (value, error) {
	class := r.Class
	if r.Object != nil {
		obj, err := fe.expr(r.Object)
		if err != nil {
			return value{}, err
		}
		if obj.ty.Ref != RefObject {
			return value{}, errorf("method reference on %s", obj.ty.Describe())
		}
		class = obj.ty.Class
	}
	set := fe.emitter.reg.Methods(class, r.Method)
	switch len(set) {
	case 0:
		return value{}, errorf("undefined method %s::%s", class, r.Method)
	case 1:
	default:
		return value{}, errorf("method reference %s::%s is ambiguous among %d overloads", class, r.Method, len(set))
	}
	m := set[0]
	sig := &FuncSig{Params: paramTypes(m), Result: Lower(m.Result)}
	return value{ty: funcOf(sig), ref: global(methodSymbol(m))}, nil
}
