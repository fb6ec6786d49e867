// File: lexer/token.go
package lexer

import "fmt"

// Token is a classified slice of source text. Pos and Line are 1-based.
type Token struct {
	Category string
	Text     string
	Pos      int
	Line     int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at line %d", t.Category, t.Text, t.Line)
}

// Rule pairs a token category with the pattern that recognizes it.
// Matches of a Skip rule are consumed without producing a token.
type Rule struct {
	Category string
	Pattern  string
	Skip     bool
}

// Error reports source text that no rule recognizes.
type Error struct {
	Char rune
	Pos  int
	Line int
}

func (e *Error) Error() string {
	return fmt.Sprintf("lexical error in line %d: unexpected character %q", e.Line, e.Char)
}
