// File: grammar/grammar.go
package grammar

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Start is the conventional start symbol.
const Start = "<program>"

// Rule is one alternative of a nonterminal.
type Rule struct {
	LHS string
	RHS []string
}

func (r *Rule) String() string {
	return r.LHS + " -> " + strings.Join(r.RHS, " ")
}

// Len returns the number of right-hand side symbols.
func (r *Rule) Len() int {
	return len(r.RHS)
}

// LoadError reports a malformed line of rule text.
type LoadError struct {
	Line int
	Msg  string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("grammar line %d: %s", e.Line, e.Msg)
}

// Grammar maps nonterminals to their alternatives. Tag flags and the
// terminal sets they accept are computed once by Load.
type Grammar struct {
	rules map[string][]*Rule
	order []string
	tags  map[string]map[string]bool
	start string
}

// Load parses rule text of the form "LHS -> A B | C". Blank lines and
// lines starting with '#' are ignored. Repeating an LHS appends to its
// alternatives.
func Load(text string) (*Grammar, error) {
	g := &Grammar{
		rules: make(map[string][]*Rule),
		tags:  make(map[string]map[string]bool),
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lhs, rhs, ok := strings.Cut(line, "->")
		if !ok {
			return nil, &LoadError{Line: lineNo, Msg: "missing '->'"}
		}

		lhsFields := strings.Fields(lhs)
		if len(lhsFields) != 1 {
			return nil, &LoadError{Line: lineNo, Msg: fmt.Sprintf("left-hand side must be one symbol, got %q", strings.TrimSpace(lhs))}
		}
		name := lhsFields[0]

		for _, alt := range strings.Split(rhs, "|") {
			symbols := strings.Fields(alt)
			if len(symbols) == 0 {
				return nil, &LoadError{Line: lineNo, Msg: fmt.Sprintf("empty alternative for %s", name)}
			}
			g.add(&Rule{LHS: name, RHS: symbols})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read grammar: %w", err)
	}

	if len(g.order) == 0 {
		return nil, &LoadError{Line: lineNo, Msg: "no rules"}
	}

	g.start = Start
	if _, ok := g.rules[Start]; !ok {
		g.start = g.order[0]
	}

	g.computeTags()
	return g, nil
}

// LoadFile reads and parses a grammar file.
func LoadFile(path string) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar file: %w", err)
	}
	return Load(string(data))
}

func (g *Grammar) add(r *Rule) {
	if _, ok := g.rules[r.LHS]; !ok {
		g.order = append(g.order, r.LHS)
	}
	g.rules[r.LHS] = append(g.rules[r.LHS], r)
}

// computeTags marks every nonterminal whose alternatives hold terminals
// only. A tag accepts the categories of its single-symbol alternatives.
func (g *Grammar) computeTags() {
	for _, name := range g.order {
		accepts := make(map[string]bool)
		tag := true
		for _, r := range g.rules[name] {
			for _, sym := range r.RHS {
				if !g.IsTerminal(sym) {
					tag = false
				}
			}
			if len(r.RHS) == 1 {
				accepts[r.RHS[0]] = true
			}
		}
		if tag {
			g.tags[name] = accepts
		}
	}
}

// Start returns the start symbol: "<program>" when defined, otherwise the
// first nonterminal of the text.
func (g *Grammar) Start() string {
	return g.start
}

// Rules returns the alternatives of a nonterminal in declaration order.
func (g *Grammar) Rules(symbol string) []*Rule {
	return g.rules[symbol]
}

// IsTerminal reports whether symbol has no rules.
func (g *Grammar) IsTerminal(symbol string) bool {
	_, ok := g.rules[symbol]
	return !ok
}

// IsTag reports whether symbol is a nonterminal expanding only to terminals.
func (g *Grammar) IsTag(symbol string) bool {
	_, ok := g.tags[symbol]
	return ok
}

// Accepts reports whether the tag symbol accepts a token category.
func (g *Grammar) Accepts(tag, category string) bool {
	return g.tags[tag][category]
}

// Nonterminals returns every LHS in first-seen order.
func (g *Grammar) Nonterminals() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Alternatives renders the right-hand sides of a nonterminal.
func (g *Grammar) Alternatives(symbol string) []string {
	rules := g.rules[symbol]
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, strings.Join(r.RHS, " "))
	}
	return out
}

// Terminals returns the terminal symbols referenced by the grammar.
func (g *Grammar) Terminals() []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range g.order {
		for _, r := range g.rules[name] {
			for _, sym := range r.RHS {
				if g.IsTerminal(sym) && !seen[sym] {
					seen[sym] = true
					out = append(out, sym)
				}
			}
		}
	}
	return out
}

// String renders the grammar back to rule text, one nonterminal per line.
func (g *Grammar) String() string {
	var sb strings.Builder
	for _, name := range g.order {
		sb.WriteString(name)
		sb.WriteString(" -> ")
		sb.WriteString(strings.Join(g.Alternatives(name), " | "))
		sb.WriteString("\n")
	}
	return sb.String()
}
