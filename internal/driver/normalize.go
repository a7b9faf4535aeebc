package driver

import (
	"golang.org/x/text/unicode/norm"

	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

// NormalizeStrings rewrites every string literal of prog to NFC so equal
// text always lands in the same pooled constant. It returns the number of
// literals that changed.
func NormalizeStrings(prog *ast.Program) int {
	changed := 0
	ast.Inspect(prog, func(x *ast.Expr) bool {
		if x.Kind != ast.ExprLiteral || x.Lit == nil || x.Lit.Kind != ast.LitString {
			return true
		}
		if !norm.NFC.IsNormalString(x.Lit.Str) {
			x.Lit.Str = norm.NFC.String(x.Lit.Str)
			changed++
		}
		return true
	})
	return changed
}
