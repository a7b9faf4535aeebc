package llvm

import "fmt"

// Var is a declared local: its stack slot and type.
type Var struct {
	Slot string // slot name without the "%l." prefix
	Type IRType
}

type frame struct {
	id   int
	vars map[string]Var
}

// Scope maps surface names to unique stack slots within one function.
// The outermost frame keeps bare names; nested frames suffix the frame id
// so shadowing never reuses an outer slot.
type Scope struct {
	frames []frame
	nextID int
	used   map[string]bool
}

func NewScope() *Scope {
	s := &Scope{}
	s.Reset()
	return s
}

// Reset drops all frames and starts a fresh function body.
func (s *Scope) Reset() {
	s.frames = s.frames[:0]
	s.nextID = 0
	s.used = make(map[string]bool)
	s.Enter()
}

func (s *Scope) Enter() {
	s.frames = append(s.frames, frame{id: s.nextID, vars: make(map[string]Var)})
	s.nextID++
}

// Exit pops the innermost frame; the function frame is never popped.
func (s *Scope) Exit() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

func (s *Scope) Depth() int {
	return len(s.frames)
}

// Declare binds name in the innermost frame and returns its slot.
func (s *Scope) Declare(name string, t IRType) string {
	top := &s.frames[len(s.frames)-1]
	slot := name
	if len(s.frames) > 1 {
		slot = fmt.Sprintf("%s.%d", name, top.id)
	}
	for base, n := slot, 1; s.used[slot]; n++ {
		slot = fmt.Sprintf("%s.%d", base, n)
	}
	s.used[slot] = true
	top.vars[name] = Var{Slot: slot, Type: t}
	return slot
}

// Lookup searches from the innermost frame outwards.
func (s *Scope) Lookup(name string) (Var, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].vars[name]; ok {
			return v, true
		}
	}
	return Var{}, false
}
