// File: tree/tree.go
package tree

import (
	"strings"

	"github.com/dangerclosesec/transpiler/translator/lexer"
)

// Kind distinguishes the two node variants.
type Kind int

const (
	KindBranch Kind = iota
	KindLeaf
)

// Node is either a Leaf holding a token or a Branch labeled with the
// nonterminal it derives.
type Node struct {
	Kind     Kind
	Label    string
	Token    lexer.Token
	Children []*Node
}

// Leaf wraps a token. Its label is the token category.
func Leaf(tok lexer.Token) *Node {
	return &Node{Kind: KindLeaf, Label: tok.Category, Token: tok}
}

// Branch creates an interior node.
func Branch(label string, children ...*Node) *Node {
	return &Node{Kind: KindBranch, Label: label, Children: children}
}

// IsLeaf reports whether n holds a token.
func (n *Node) IsLeaf() bool {
	return n != nil && n.Kind == KindLeaf
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Find returns the first direct child with the given label.
func (n *Node) Find(label string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Label == label {
			return c
		}
	}
	return nil
}

// Labels lists the labels of the direct children.
func (n *Node) Labels() []string {
	out := make([]string, len(n.Children))
	for i, c := range n.Children {
		out[i] = c.Label
	}
	return out
}

// Walk visits n and its descendants depth first, in source order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Tokens returns the leaves under n in source order.
func (n *Node) Tokens() []lexer.Token {
	var out []lexer.Token
	n.Walk(func(c *Node) bool {
		if c.IsLeaf() {
			out = append(out, c.Token)
		}
		return true
	})
	return out
}

// First returns the leftmost token under n.
func (n *Node) First() (lexer.Token, bool) {
	for c := n; c != nil; c = c.Child(0) {
		if c.IsLeaf() {
			return c.Token, true
		}
	}
	return lexer.Token{}, false
}

// Line is the line of the leftmost token, or 0 for an empty branch.
func (n *Node) Line() int {
	tok, ok := n.First()
	if !ok {
		return 0
	}
	return tok.Line
}

// Text is the literal of the leftmost token.
func (n *Node) Text() string {
	tok, _ := n.First()
	return tok.Text
}

// Flatten unrolls a right-recursive list such as "<list> -> <item> <sep> <list>".
// Children labeled item are collected at every level.
func (n *Node) Flatten(item string) []*Node {
	var out []*Node
	for cur := n; cur != nil; {
		label := cur.Label
		var next *Node
		for _, c := range cur.Children {
			switch c.Label {
			case item:
				out = append(out, c)
			case label:
				next = c
			}
		}
		cur = next
	}
	return out
}

// String renders an indented outline of the tree.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb, 0)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if n.IsLeaf() {
		sb.WriteString(n.Token.Category)
		sb.WriteString(" ")
		sb.WriteString(n.Token.Text)
		sb.WriteString("\n")
		return
	}
	sb.WriteString(n.Label)
	sb.WriteString("\n")
	for _, c := range n.Children {
		c.write(sb, depth+1)
	}
}
