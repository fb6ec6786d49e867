// File: generator/generator.go
package generator

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/dangerclosesec/transpiler/translator/lang"
	"github.com/dangerclosesec/transpiler/translator/lexer"
	"github.com/dangerclosesec/transpiler/translator/tree"
)

const entryHeader = "void main(int argc, char *argv[])"

// Generator renders parse trees as C++ source. It does not validate the
// program; run the semantic check first when the input is untrusted.
type Generator struct {
	logger *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the generator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders the program. User functions keep their source order and
// the entry point is emitted last.
func (g *Generator) Generate(root *tree.Node) (string, error) {
	if root == nil || root.Label != lang.Program {
		return "", errors.New("generator: expected a program tree")
	}

	var sections []string
	var entry string
	for _, m := range root.Find(lang.ClassBody).Flatten(lang.Member) {
		fn := m.Child(0)
		switch fn.Label {
		case lang.MainFunc:
			entry = function(entryHeader, fn.Find(lang.CodeBlock))
		case lang.FuncDeclaration:
			sections = append(sections, function(header(fn), fn.Find(lang.CodeBlock)))
		}
	}
	if entry != "" {
		sections = append(sections, entry)
	}

	var sb strings.Builder
	sb.WriteString("#include <iostream>\n")
	if usesAlgorithm(root) {
		sb.WriteString("#include <algorithm>\n")
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Join(sections, "\n"))

	g.logger.Debug("generated program", "functions", len(sections), "bytes", sb.Len())
	return sb.String(), nil
}

// Generate renders root with a default Generator.
func Generate(root *tree.Node) (string, error) {
	return New().Generate(root)
}

func usesAlgorithm(root *tree.Node) bool {
	found := false
	root.Walk(func(n *tree.Node) bool {
		if n.IsLeaf() && (n.Token.Category == lang.CatMax || n.Token.Category == lang.CatMin) {
			found = true
		}
		return !found
	})
	return found
}

// header renders "returnType name(type a, type b)".
func header(fn *tree.Node) string {
	var sb strings.Builder
	sb.WriteString(typeName(fn.Find(lang.TagFuncReturnType).Text()))
	sb.WriteString(" ")
	sb.WriteString(fn.Find(lang.TagName).Text())
	sb.WriteString("(")
	if params := fn.Find(lang.FuncParams); params != nil {
		parts := make([]string, 0)
		for _, p := range params.Flatten(lang.Param) {
			parts = append(parts, typeName(p.Find(lang.TagType).Text())+" "+p.Find(lang.TagID).Text())
		}
		sb.WriteString(strings.Join(parts, ", "))
	}
	sb.WriteString(")")
	return sb.String()
}

func function(head string, body *tree.Node) string {
	w := &writer{}
	w.write(head)
	emit(w, body.Tokens())
	return w.String()
}

func typeName(keyword string) string {
	if keyword == "boolean" {
		return "bool"
	}
	return keyword
}

// emitter tracks the two constructs whose separators must not break lines:
// println arguments and the for header.
type emitter struct {
	w *writer

	parens      int
	printParens []int // paren depth outside each open println call
	pendingCall bool  // println seen, its '(' not yet
	forParen    int   // paren depth outside the for header, -1 when closed
	pendingFor  bool
}

func emit(w *writer, tokens []lexer.Token) {
	e := &emitter{w: w, forParen: -1}
	for _, tok := range tokens {
		e.token(tok)
	}
}

func (e *emitter) inPrint() bool {
	return len(e.printParens) > 0 && e.parens == e.printParens[len(e.printParens)-1]+1
}

func (e *emitter) token(tok lexer.Token) {
	w := e.w
	switch tok.Category {
	case lang.CatLBracketCurly:
		w.open()
	case lang.CatRBracketCurly:
		w.close()

	case lang.CatSemicolon:
		w.trim()
		if e.forParen >= 0 {
			w.write("; ")
			return
		}
		w.write(";")
		w.newline()

	case lang.CatLBracket:
		switch {
		case e.pendingCall:
			e.pendingCall = false
			e.printParens = append(e.printParens, e.parens)
			w.write(" << ")
		case e.pendingFor:
			e.pendingFor = false
			e.forParen = e.parens
			w.write("(")
		default:
			w.write("(")
		}
		e.parens++

	case lang.CatRBracket:
		e.parens--
		w.trim()
		switch {
		case len(e.printParens) > 0 && e.parens == e.printParens[len(e.printParens)-1]:
			e.printParens = e.printParens[:len(e.printParens)-1]
			w.write(` << "\n"`)
		case e.forParen >= 0 && e.parens == e.forParen:
			e.forParen = -1
			w.write(")")
		default:
			w.write(")")
		}

	case lang.CatComma:
		if e.inPrint() {
			w.write(" << ")
			return
		}
		w.write(", ")

	case lang.CatPrint:
		e.pendingCall = true
		w.write("std::cout")
	case lang.CatMax:
		w.write("std::max")
	case lang.CatMin:
		w.write("std::min")

	case lang.CatTypeHint:
		w.write(typeName(tok.Text) + " ")
	case lang.CatVoid:
		w.write("void ")

	case lang.CatMathOperator, lang.CatCompare, lang.CatBooleanOperator, lang.CatAssign, lang.CatOpAssign:
		w.write(" " + tok.Text + " ")

	case lang.CatFor:
		e.pendingFor = true
		w.write("for ")
	case lang.CatIf, lang.CatWhile, lang.CatReturn, lang.CatElse, lang.CatDo:
		w.write(tok.Text + " ")

	default:
		w.write(tok.Text)
	}
}
