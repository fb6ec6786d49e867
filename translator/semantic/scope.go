// File: semantic/scope.go
package semantic

// Variable is a declared local or parameter.
type Variable struct {
	Name        string
	Type        Type
	Initialized bool
	Line        int
}

// Scope is one block level. Returned is set once a return statement (or a
// construct whose every branch returns) has executed at this level.
type Scope struct {
	vars     map[string]*Variable
	Returned bool
}

// Scopes is the stack of blocks open in the function being checked.
// Level 0 is the function body together with its parameters.
type Scopes struct {
	frames []*Scope
}

// Push opens a block.
func (s *Scopes) Push() *Scope {
	sc := &Scope{vars: make(map[string]*Variable)}
	s.frames = append(s.frames, sc)
	return sc
}

// Pop closes the innermost block.
func (s *Scopes) Pop() *Scope {
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top
}

// Top returns the innermost block.
func (s *Scopes) Top() *Scope {
	return s.frames[len(s.frames)-1]
}

// Depth is the level of the innermost block.
func (s *Scopes) Depth() int {
	return len(s.frames) - 1
}

// Declare adds v to the innermost block.
func (s *Scopes) Declare(v *Variable) {
	s.Top().vars[v.Name] = v
}

// Lookup walks from the innermost block outward.
func (s *Scopes) Lookup(name string) (*Variable, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}
