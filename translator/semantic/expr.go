// File: semantic/expr.go
package semantic

import (
	"github.com/dangerclosesec/transpiler/translator/lang"
	"github.com/dangerclosesec/transpiler/translator/tree"
)

// expr infers the type of an expression subtree. Operands are checked left
// to right and the first violation wins.
func (c *checker) expr(n *tree.Node) (Type, error) {
	switch n.Label {
	case lang.Expr:
		return c.expr(n.Child(0))

	case lang.Disjunction:
		left, err := c.expr(n.Child(0))
		if err != nil || len(n.Children) == 1 {
			return left, err
		}
		if left != Boolean {
			return None, errTypesNotFit(n.Child(0).Line(), left, Boolean)
		}
		right, err := c.expr(n.Child(2))
		if err != nil {
			return None, err
		}
		if right != Boolean {
			return None, errTypesNotFit(n.Child(2).Line(), right, Boolean)
		}
		return Boolean, nil

	case lang.Relation:
		left, err := c.expr(n.Child(0))
		if err != nil || len(n.Children) == 1 {
			return left, err
		}
		right, err := c.expr(n.Child(2))
		if err != nil {
			return None, err
		}
		switch op := n.Child(1).Text(); op {
		case "==", "!=":
			if (left == Boolean) != (right == Boolean) {
				return None, errTypesNotFit(n.Child(2).Line(), right, left)
			}
		default:
			if err := c.arithmetic(n.Child(0), left); err != nil {
				return None, err
			}
			if err := c.arithmetic(n.Child(2), right); err != nil {
				return None, err
			}
		}
		return Boolean, nil

	case lang.MathExpr:
		left, err := c.expr(n.Child(0))
		if err != nil || len(n.Children) == 1 {
			return left, err
		}
		if err := c.arithmetic(n.Child(0), left); err != nil {
			return None, err
		}
		right, err := c.expr(n.Child(2))
		if err != nil {
			return None, err
		}
		if err := c.arithmetic(n.Child(2), right); err != nil {
			return None, err
		}
		return widest(left, right), nil

	case lang.Term:
		switch n.Child(0).Label {
		case lang.TagBooleanNot:
			t, err := c.expr(n.Child(1))
			if err != nil {
				return None, err
			}
			if t != Boolean {
				return None, errTypesNotFit(n.Child(1).Line(), t, Boolean)
			}
			return Boolean, nil
		case lang.Operand:
			return c.expr(n.Child(0))
		default:
			return c.expr(n.Find(lang.Expr))
		}

	case lang.Operand:
		return c.operand(n.Child(0))
	}
	return None, nil
}

func (c *checker) operand(n *tree.Node) (Type, error) {
	switch n.Label {
	case lang.TagID:
		name := n.Text()
		v, ok := c.scopes.Lookup(name)
		if !ok {
			return None, errVarNoDecl(n.Line(), name)
		}
		if !v.Initialized {
			return None, errVarNoInit(n.Line(), name)
		}
		return v.Type, nil

	case lang.FuncCall:
		t, err := c.call(n)
		if err != nil {
			return None, err
		}
		if t == None {
			return None, errVoidValue(n.Line(), callName(n))
		}
		return t, nil

	default:
		tok, _ := n.First()
		return literalType(tok.Category), nil
	}
}

// arithmetic rejects boolean operands of a mathematical operator, naming
// the variable when the operand is a bare identifier.
func (c *checker) arithmetic(operand *tree.Node, t Type) error {
	if t != Boolean {
		return nil
	}
	if id := bareIdentifier(operand); id != nil {
		return errBooleanVarMathExpr(id.Line(), id.Text())
	}
	return errBooleanMathExpr(operand.Line())
}

// bareIdentifier descends single-child nodes down to an <id> tag.
func bareIdentifier(n *tree.Node) *tree.Node {
	for cur := n; cur != nil; {
		if cur.Label == lang.TagID {
			return cur
		}
		if len(cur.Children) != 1 {
			return nil
		}
		cur = cur.Child(0)
	}
	return nil
}

func callName(n *tree.Node) string {
	switch n.Child(0).Label {
	case lang.TagPrint:
		return lang.PrintName
	case lang.TagMax:
		return lang.MaxName
	case lang.TagMin:
		return lang.MinName
	}
	return n.Child(0).Text()
}

// call checks a <func_call> and returns the type it produces.
func (c *checker) call(n *tree.Node) (Type, error) {
	name := callName(n)
	line := n.Line()

	var args []Type
	if list := n.Find(lang.CallArgs); list != nil {
		for _, arg := range list.Flatten(lang.Expr) {
			t, err := c.expr(arg)
			if err != nil {
				return None, err
			}
			args = append(args, t)
		}
	}

	switch n.Child(0).Label {
	case lang.TagPrint:
		if len(args) != 1 {
			return None, errFuncParamsMismatch(line, name)
		}
		return None, nil

	case lang.TagMax, lang.TagMin:
		if len(args) != 2 || !args[0].Numeric() || !args[1].Numeric() {
			return None, errFuncParamsMismatch(line, name)
		}
		return widest(args[0], args[1]), nil
	}

	var candidates []*Function
	for _, f := range c.functions[name] {
		if len(f.Params) == len(args) {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return None, errFuncNoDecl(line, name)
	}

	var applicable []*Function
	for _, f := range candidates {
		if ok, _ := f.accepts(args); ok {
			applicable = append(applicable, f)
		}
	}

	switch len(applicable) {
	case 0:
		first := candidates[0]
		_, i := first.accepts(args)
		return None, errTypesNotFit(line, args[i], first.Params[i].Type)
	case 1:
		return applicable[0].Return, nil
	default:
		return None, errFuncAmbiguous(line, name)
	}
}
