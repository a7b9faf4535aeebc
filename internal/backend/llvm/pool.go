package llvm

import (
	"fmt"
	"strings"
)

// StringPool interns string literals for one run. Equal contents share a
// global; the numbering continues across every function of the run.
type StringPool struct {
	names map[string]string
	order []string
}

func NewStringPool() *StringPool {
	return &StringPool{names: make(map[string]string)}
}

// Intern returns the global name (with '@') holding s.
func (p *StringPool) Intern(s string) string {
	if name, ok := p.names[s]; ok {
		return name
	}
	name := fmt.Sprintf("@.str.%d", len(p.order))
	p.names[s] = name
	p.order = append(p.order, s)
	return name
}

// Len is the number of distinct literals.
func (p *StringPool) Len() int {
	return len(p.order)
}

func (p *StringPool) writeTo(sb *strings.Builder) {
	for _, s := range p.order {
		fmt.Fprintf(sb, "%s = private unnamed_addr constant [%d x i8] %s, align 1\n", p.names[s], len(s)+1, cString(s))
	}
	if len(p.order) > 0 {
		sb.WriteString("\n")
	}
}

// cString renders s plus its NUL terminator as an IR byte-string constant.
func cString(s string) string {
	var sb strings.Builder
	sb.WriteString("c\"")
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b >= 0x20 && b < 0x7f && b != '"' && b != '\\' {
			sb.WriteByte(b)
			continue
		}
		fmt.Fprintf(&sb, "\\%02X", b)
	}
	sb.WriteString("\\00\"")
	return sb.String()
}

// ident quotes a symbol or local name when it falls outside the bare
// identifier alphabet.
func ident(name string) string {
	if isBareIdent(name) {
		return name
	}
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(name); i++ {
		b := name[i]
		if b == '"' || b == '\\' || b < 0x20 {
			fmt.Fprintf(&sb, "\\%02X", b)
			continue
		}
		sb.WriteByte(b)
	}
	sb.WriteByte('"')
	return sb.String()
}

func isBareIdent(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '-', c == '$', c == '.', c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// global renders @symbol.
func global(symbol string) string {
	return "@" + ident(symbol)
}
