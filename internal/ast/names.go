package ast

import "fmt"

// lookupName resolves the textual form of an enum against its name table.
func lookupName[T ~uint8](names []string, s, what string, out *T) error {
	for i, n := range names {
		if n != "" && n == s {
			*out = T(i)
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q", what, s)
}

func enumName(names []string, v int, what string) string {
	if v >= 0 && v < len(names) && names[v] != "" {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", what, v)
}
