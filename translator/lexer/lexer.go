// File: lexer/lexer.go
package lexer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rules is a compiled, immutable rule table. One Rules value can back any
// number of lexers, including concurrently.
type Rules struct {
	rules  []Rule
	re     *regexp.Regexp
	groups []int // rule index per capture group, -1 for groups inside a pattern
}

// Compile joins the rules into one anchored alternation. Alternatives are
// tried in slice order, so keywords must precede the identifier rule and
// longer operators must precede their prefixes.
func Compile(rules []Rule) (*Rules, error) {
	if len(rules) == 0 {
		return nil, errors.New("lexer: empty rule table")
	}

	parts := make([]string, 0, len(rules))
	for i, rule := range rules {
		single, err := regexp.Compile(`^(?:` + rule.Pattern + `)`)
		if err != nil {
			return nil, fmt.Errorf("lexer: rule %s: %w", rule.Category, err)
		}
		for _, name := range single.SubexpNames() {
			if name != "" {
				return nil, fmt.Errorf("lexer: rule %s: named group %q is not allowed", rule.Category, name)
			}
		}
		if single.MatchString("") {
			return nil, fmt.Errorf("lexer: rule %s matches the empty string", rule.Category)
		}
		parts = append(parts, fmt.Sprintf("(?P<r%d>%s)", i, rule.Pattern))
	}

	re, err := regexp.Compile(`^(?:` + strings.Join(parts, "|") + `)`)
	if err != nil {
		return nil, fmt.Errorf("lexer: combined pattern: %w", err)
	}

	groups := make([]int, re.NumSubexp()+1)
	for g, name := range re.SubexpNames() {
		groups[g] = -1
		if idx, err := strconv.Atoi(strings.TrimPrefix(name, "r")); err == nil && name != "" {
			groups[g] = idx
		}
	}

	return &Rules{rules: rules, re: re, groups: groups}, nil
}

// MustCompile is like Compile but panics on a bad rule table.
func MustCompile(rules []Rule) *Rules {
	r, err := Compile(rules)
	if err != nil {
		panic(err)
	}
	return r
}

// Lexer walks a source buffer one token at a time. It cannot be rewound.
type Lexer struct {
	rules  *Rules
	src    string
	pos    int // byte offset of the cursor
	line   int
	logger *slog.Logger
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithLogger makes the lexer log every emitted token at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lexer) {
		l.logger = logger
	}
}

// New creates a lexer over src.
func (r *Rules) New(src string, opts ...Option) *Lexer {
	l := &Lexer{
		rules: r,
		src:   src,
		line:  1,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NextToken returns the next token, or io.EOF once only whitespace remains.
func (l *Lexer) NextToken() (Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return Token{}, io.EOF
		}

		loc := l.rules.re.FindStringSubmatchIndex(l.src[l.pos:])
		if loc == nil {
			ch, _ := utf8.DecodeRuneInString(l.src[l.pos:])
			return Token{}, &Error{Char: ch, Pos: l.pos + 1, Line: l.line}
		}

		rule := l.matchedRule(loc)
		text := l.src[l.pos : l.pos+loc[1]]
		tok := Token{
			Category: rule.Category,
			Text:     text,
			Pos:      l.pos + 1,
			Line:     l.line,
		}

		l.pos += loc[1]
		l.line += strings.Count(text, "\n")

		if rule.Skip {
			continue
		}

		if l.logger != nil {
			l.logger.Debug("token", "category", tok.Category, "text", tok.Text, "line", tok.Line)
		}
		return tok, nil
	}
}

// All drains the lexer.
func (l *Lexer) All() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if errors.Is(err, io.EOF) {
			return tokens, nil
		}
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}

// Tokenize is a shorthand for r.New(src).All().
func (r *Rules) Tokenize(src string, opts ...Option) ([]Token, error) {
	return r.New(src, opts...).All()
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) {
		ch, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsSpace(ch) {
			return
		}
		if ch == '\n' {
			l.line++
		}
		l.pos += size
	}
}

// matchedRule returns the rule whose group took part in the match.
func (l *Lexer) matchedRule(loc []int) Rule {
	for g, idx := range l.rules.groups {
		if idx >= 0 && loc[2*g] >= 0 {
			return l.rules.rules[idx]
		}
	}
	return l.rules.rules[len(l.rules.rules)-1]
}
