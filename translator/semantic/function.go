// File: semantic/function.go
package semantic

import (
	"strings"

	"github.com/dangerclosesec/transpiler/translator/lang"
	"github.com/dangerclosesec/transpiler/translator/tree"
)

// Function is a declared function. Return is None for void functions.
type Function struct {
	Name   string
	Return Type
	Params []*Variable
	Body   *tree.Node
	Line   int
	Entry  bool
}

// Signature renders the function the way it is declared, without names.
func (f *Function) Signature() string {
	types := make([]string, len(f.Params))
	for i, p := range f.Params {
		types[i] = strings.ToLower(p.Type.String())
	}
	return f.Name + "(" + strings.Join(types, ", ") + ")"
}

func (f *Function) sameParams(other *Function) bool {
	if len(f.Params) != len(other.Params) {
		return false
	}
	for i := range f.Params {
		if f.Params[i].Type != other.Params[i].Type {
			return false
		}
	}
	return true
}

// accepts reports whether every argument fits its parameter. On failure
// it returns the index of the first mismatch.
func (f *Function) accepts(args []Type) (bool, int) {
	for i, arg := range args {
		if !Fits(arg, f.Params[i].Type) {
			return false, i
		}
	}
	return true, -1
}

// functionFrom reads the header of a <func_declaration> or <main_func>.
func functionFrom(n *tree.Node) *Function {
	if n.Label == lang.MainFunc {
		return &Function{
			Name:   "main",
			Return: None,
			Body:   n.Find(lang.CodeBlock),
			Line:   n.Line(),
			Entry:  true,
		}
	}

	name := n.Find(lang.TagName)
	f := &Function{
		Name:   name.Text(),
		Return: TypeOf(n.Find(lang.TagFuncReturnType).Text()),
		Body:   n.Find(lang.CodeBlock),
		Line:   name.Line(),
	}

	if params := n.Find(lang.FuncParams); params != nil {
		for _, p := range params.Flatten(lang.Param) {
			id := p.Find(lang.TagID)
			f.Params = append(f.Params, &Variable{
				Name:        id.Text(),
				Type:        TypeOf(p.Find(lang.TagType).Text()),
				Initialized: true,
				Line:        id.Line(),
			})
		}
	}
	return f
}
