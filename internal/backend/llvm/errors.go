package llvm

import (
	"errors"
	"fmt"
)

// Error is the single error kind of the code generator. Generation stops
// at the first one and no IR text is returned.
type Error struct {
	Msg string
	// Line is the source line of the innermost statement, 0 if unknown.
	Line int
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d)", e.Msg, e.Line)
	}
	return e.Msg
}

func errorf(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// within prefixes err with the function being generated.
func within(where string, err error) error {
	var ge *Error
	if errors.As(err, &ge) {
		return &Error{Msg: where + ": " + ge.Msg, Line: ge.Line}
	}
	return fmt.Errorf("%s: %w", where, err)
}

// atLine records the statement line unless a nested statement already did.
func atLine(line int, err error) error {
	var ge *Error
	if line <= 0 || !errors.As(err, &ge) || ge.Line > 0 {
		return err
	}
	return &Error{Msg: ge.Msg, Line: line}
}
