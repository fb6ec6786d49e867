// File: earley/parser.go
package earley

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dangerclosesec/transpiler/translator/grammar"
	"github.com/dangerclosesec/transpiler/translator/lexer"
	"github.com/dangerclosesec/transpiler/translator/tree"
)

const startSymbol = "<START>"

// SyntaxError reports that no derivation covers the token stream.
type SyntaxError struct {
	Line  int
	Token *lexer.Token
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in line %d: %s", e.Line, e.Msg)
}

// Stats summarizes a finished chart.
type Stats struct {
	Tokens int `json:"tokens"`
	Sets   int `json:"sets"`
	States int `json:"states"`
}

// Chart holds one state set per token boundary.
type Chart struct {
	Sets   []*StateSet
	tokens []lexer.Token
	start  *grammar.Rule
}

// Stats counts the states across all sets.
func (c *Chart) Stats() Stats {
	s := Stats{Tokens: len(c.tokens), Sets: len(c.Sets)}
	for _, set := range c.Sets {
		s.States += set.Len()
	}
	return s
}

// String dumps every state set, for debugging grammars.
func (c *Chart) String() string {
	var sb strings.Builder
	for i, set := range c.Sets {
		if i < len(c.tokens) {
			fmt.Fprintf(&sb, "== %d: next %s\n", i, c.tokens[i])
		} else {
			fmt.Fprintf(&sb, "== %d: end of input\n", i)
		}
		for _, s := range set.states {
			sb.WriteString("  ")
			sb.WriteString(s.String())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// accepted returns the first complete start state spanning all tokens.
func (c *Chart) accepted() *State {
	last := c.Sets[len(c.Sets)-1]
	for _, s := range last.states {
		if s.Rule == c.start && s.Complete() && s.Origin == 0 && s.Index == len(c.tokens) {
			return s
		}
	}
	return nil
}

// Tree rebuilds the parse tree of the first accepting derivation.
func (c *Chart) Tree() (*tree.Node, bool) {
	s := c.accepted()
	if s == nil {
		return nil, false
	}
	return build(s.Children[0]), true
}

func build(s *State) *tree.Node {
	if s.Token != nil {
		return tree.Branch(s.Rule.LHS, tree.Leaf(*s.Token))
	}
	children := make([]*tree.Node, len(s.Children))
	for i, c := range s.Children {
		children[i] = build(c)
	}
	return tree.Branch(s.Rule.LHS, children...)
}

// Parser runs Earley recognition over a grammar whose terminals are token
// categories. A Parser holds no per-parse state and may be shared.
type Parser struct {
	g      *grammar.Grammar
	start  *grammar.Rule
	scans  map[string]map[string]*grammar.Rule
	logger *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for chart summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser prepares a parser for g.
func NewParser(g *grammar.Grammar, opts ...Option) *Parser {
	p := &Parser{
		g:      g,
		start:  &grammar.Rule{LHS: startSymbol, RHS: []string{g.Start()}},
		scans:  make(map[string]map[string]*grammar.Rule),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	// Scan states use one shared rule per (tag, category) so they
	// deduplicate like any other state.
	for _, name := range g.Nonterminals() {
		if !g.IsTag(name) {
			continue
		}
		byCategory := make(map[string]*grammar.Rule)
		for _, r := range g.Rules(name) {
			if len(r.RHS) == 1 {
				byCategory[r.RHS[0]] = r
			}
		}
		p.scans[name] = byCategory
	}
	return p
}

// Grammar returns the grammar the parser was built for.
func (p *Parser) Grammar() *grammar.Grammar {
	return p.g
}

// Recognize fills the chart for tokens. The chart is returned even on
// failure so callers can inspect it.
func (p *Parser) Recognize(tokens []lexer.Token) (*Chart, error) {
	chart := &Chart{
		Sets:   make([]*StateSet, len(tokens)+1),
		tokens: tokens,
		start:  p.start,
	}
	for i := range chart.Sets {
		chart.Sets[i] = newStateSet()
	}
	chart.Sets[0].add(&State{Rule: p.start})

	for i := 0; i <= len(tokens); i++ {
		set := chart.Sets[i]
		if set.Len() == 0 {
			return chart, p.failAt(tokens, i)
		}

		// The set grows while it is walked.
		for j := 0; j < len(set.states); j++ {
			s := set.states[j]
			switch {
			case s.Complete():
				p.complete(chart, s, i)
			case p.g.IsTag(s.Next()):
				p.scan(chart, s, tokens, i)
			default:
				p.predict(set, s.Next(), i)
			}
		}
	}

	if chart.accepted() == nil {
		return chart, p.failAt(tokens, len(tokens)+1)
	}

	p.logger.Debug("chart complete", "tokens", len(tokens), "states", chart.Stats().States)
	return chart, nil
}

// Parse recognizes tokens and returns the parse tree.
func (p *Parser) Parse(tokens []lexer.Token) (*tree.Node, error) {
	chart, err := p.Recognize(tokens)
	if err != nil {
		return nil, err
	}
	root, _ := chart.Tree()
	return root, nil
}

func (p *Parser) predict(set *StateSet, symbol string, i int) {
	for _, r := range p.g.Rules(symbol) {
		set.add(&State{Rule: r, Origin: i, Index: i})
	}
}

func (p *Parser) scan(chart *Chart, s *State, tokens []lexer.Token, i int) {
	if i >= len(tokens) {
		return
	}
	tag := s.Next()
	tok := tokens[i]
	r, ok := p.scans[tag][tok.Category]
	if !ok {
		return
	}
	chart.Sets[i+1].add(&State{
		Rule:   r,
		Dot:    1,
		Origin: i,
		Index:  i + 1,
		Token:  &tokens[i],
	})
}

func (p *Parser) complete(chart *Chart, s *State, i int) {
	origin := chart.Sets[s.Origin]
	for j := 0; j < len(origin.states); j++ {
		waiting := origin.states[j]
		if waiting.Complete() || waiting.Next() != s.Rule.LHS {
			continue
		}
		chart.Sets[i].add(waiting.advance(i, s))
	}
}

// failAt builds the error for an empty set k. Set k is empty when token
// k-1 could not be scanned; k past the last set means input ended early.
func (p *Parser) failAt(tokens []lexer.Token, k int) error {
	if len(tokens) == 0 {
		return &SyntaxError{Line: 1, Msg: "empty program"}
	}
	if k > len(tokens) {
		last := tokens[len(tokens)-1]
		return &SyntaxError{Line: last.Line, Token: &last, Msg: "unexpected end of input"}
	}
	tok := tokens[k-1]
	return &SyntaxError{
		Line:  tok.Line,
		Token: &tok,
		Msg:   fmt.Sprintf("unexpected %s %q", tok.Category, tok.Text),
	}
}
