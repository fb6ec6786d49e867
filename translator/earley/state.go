// File: earley/state.go
package earley

import (
	"fmt"
	"strings"

	"github.com/dangerclosesec/transpiler/translator/grammar"
	"github.com/dangerclosesec/transpiler/translator/lexer"
)

// State is a dotted rule anchored at the chart index where it started.
// Children hold the completed states for every nonterminal left of the dot.
// A scanned tag state carries the token it consumed instead.
type State struct {
	Rule     *grammar.Rule
	Dot      int
	Origin   int
	Index    int
	Children []*State
	Token    *lexer.Token
}

type stateKey struct {
	rule   *grammar.Rule
	dot    int
	origin int
}

func (s *State) key() stateKey {
	return stateKey{rule: s.Rule, dot: s.Dot, origin: s.Origin}
}

// Complete reports whether the dot has reached the end of the rule.
func (s *State) Complete() bool {
	return s.Dot >= len(s.Rule.RHS)
}

// Next returns the symbol right of the dot, or "" when complete.
func (s *State) Next() string {
	if s.Complete() {
		return ""
	}
	return s.Rule.RHS[s.Dot]
}

func (s *State) advance(index int, child *State) *State {
	children := make([]*State, len(s.Children), len(s.Children)+1)
	copy(children, s.Children)
	if child != nil {
		children = append(children, child)
	}
	return &State{
		Rule:     s.Rule,
		Dot:      s.Dot + 1,
		Origin:   s.Origin,
		Index:    index,
		Children: children,
	}
}

func (s *State) String() string {
	rhs := make([]string, 0, len(s.Rule.RHS)+1)
	rhs = append(rhs, s.Rule.RHS[:s.Dot]...)
	rhs = append(rhs, ".")
	rhs = append(rhs, s.Rule.RHS[s.Dot:]...)
	return fmt.Sprintf("%s -> %s [%d]", s.Rule.LHS, strings.Join(rhs, " "), s.Origin)
}

// StateSet is one column of the chart. Insertion order is kept because the
// parser walks the set while it grows.
type StateSet struct {
	states []*State
	seen   map[stateKey]struct{}
}

func newStateSet() *StateSet {
	return &StateSet{seen: make(map[stateKey]struct{})}
}

// add appends s unless an equal (rule, dot, origin) state is present.
func (ss *StateSet) add(s *State) bool {
	k := s.key()
	if _, ok := ss.seen[k]; ok {
		return false
	}
	ss.seen[k] = struct{}{}
	ss.states = append(ss.states, s)
	return true
}

// Len returns the number of states.
func (ss *StateSet) Len() int {
	return len(ss.states)
}

// States returns the states in insertion order.
func (ss *StateSet) States() []*State {
	return ss.states
}
