// File: semantic/analyzer.go
package semantic

import (
	"errors"
	"log/slog"

	"github.com/dangerclosesec/transpiler/translator/lang"
	"github.com/dangerclosesec/transpiler/translator/tree"
)

// Analyzer validates parse trees. It keeps no per-program state and may
// be shared between goroutines.
type Analyzer struct {
	logger *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the analyzer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Check reports whether the program rooted at root is valid. The first
// violation is returned as an *Error.
func (a *Analyzer) Check(root *tree.Node) (bool, error) {
	if root == nil || root.Label != lang.Program {
		return false, errors.New("semantic: expected a program tree")
	}

	c := &checker{functions: make(map[string][]*Function)}
	if err := c.collect(root); err != nil {
		a.logger.Debug("semantic check failed", "error", err)
		return false, err
	}

	for _, f := range c.order {
		if err := c.function(f); err != nil {
			a.logger.Debug("semantic check failed", "function", f.Name, "error", err)
			return false, err
		}
	}
	return true, nil
}

// Check validates root with a default Analyzer.
func Check(root *tree.Node) (bool, error) {
	return NewAnalyzer().Check(root)
}

// Functions returns the functions declared by a program in source order,
// without checking their bodies.
func Functions(root *tree.Node) []*Function {
	var out []*Function
	for _, m := range root.Find(lang.ClassBody).Flatten(lang.Member) {
		out = append(out, functionFrom(m.Child(0)))
	}
	return out
}

type checker struct {
	functions map[string][]*Function
	order     []*Function
	entry     *Function

	current *Function
	scopes  *Scopes
}

// collect registers every function header before any body is checked, so
// calls may refer to functions declared later in the class.
func (c *checker) collect(root *tree.Node) error {
	for _, f := range Functions(root) {
		if f.Entry {
			if c.entry != nil {
				return errFuncMultipleDecl(f.Line, f.Name)
			}
			c.entry = f
			c.order = append(c.order, f)
			continue
		}

		if lang.IsKeyword(f.Name) {
			return errIDKeyword(f.Line, f.Name)
		}
		// The entry point cannot be overloaded in the output language.
		if f.Name == "main" {
			return errFuncMultipleDecl(f.Line, f.Name)
		}
		for _, other := range c.functions[f.Name] {
			if other.sameParams(f) {
				return errFuncMultipleDecl(f.Line, f.Name)
			}
		}
		for _, p := range f.Params {
			if lang.IsKeyword(p.Name) {
				return errIDKeyword(p.Line, p.Name)
			}
		}

		c.functions[f.Name] = append(c.functions[f.Name], f)
		c.order = append(c.order, f)
	}

	if c.entry == nil {
		return errEntryPointMissing(root.Line())
	}
	return nil
}

func (c *checker) function(f *Function) error {
	c.current = f
	c.scopes = &Scopes{}
	top := c.scopes.Push()

	for _, p := range f.Params {
		if _, ok := c.scopes.Lookup(p.Name); ok {
			return errVarMultipleDecl(p.Line, p.Name)
		}
		c.scopes.Declare(&Variable{Name: p.Name, Type: p.Type, Initialized: true, Line: p.Line})
	}

	if err := c.instructions(f.Body); err != nil {
		return err
	}

	if f.Return != None && !top.Returned {
		return errReturnNotExists(f.Line, f.Name)
	}
	return nil
}

// instructions checks the statements of a <code_block> in the current scope.
func (c *checker) instructions(block *tree.Node) error {
	list := block.Find(lang.Instructions)
	if list == nil {
		return nil
	}
	for _, in := range list.Flatten(lang.Instruction) {
		if c.scopes.Top().Returned {
			return errUnreachableCode(in.Line())
		}
		if err := c.instruction(in.Child(0)); err != nil {
			return err
		}
	}
	return nil
}

// block checks a <code_block> in a fresh scope and reports whether it
// returned on every path.
func (c *checker) block(n *tree.Node) (bool, error) {
	c.scopes.Push()
	err := c.instructions(n)
	sc := c.scopes.Pop()
	return sc.Returned, err
}

func (c *checker) instruction(n *tree.Node) error {
	switch n.Label {
	case lang.VarDecl:
		return c.varDecl(n)
	case lang.Assignment:
		return c.assignment(n)
	case lang.FuncCall:
		_, err := c.call(n)
		return err
	case lang.FuncReturn:
		return c.funcReturn(n)
	case lang.IfStatement:
		returned, err := c.ifStatement(n)
		if err != nil {
			return err
		}
		if returned {
			c.scopes.Top().Returned = true
		}
		return nil
	case lang.ForLoop:
		return c.forLoop(n)
	case lang.WhileLoop:
		if err := c.condition(n.Find(lang.Expr)); err != nil {
			return err
		}
		_, err := c.block(n.Find(lang.CodeBlock))
		return err
	case lang.DoWhile:
		if _, err := c.block(n.Find(lang.CodeBlock)); err != nil {
			return err
		}
		return c.condition(n.Find(lang.Expr))
	case lang.CodeBlock:
		returned, err := c.block(n)
		if err != nil {
			return err
		}
		if returned {
			c.scopes.Top().Returned = true
		}
		return nil
	}
	return nil
}

func (c *checker) varDecl(n *tree.Node) error {
	id := n.Find(lang.TagID)
	name := id.Text()
	declared := TypeOf(n.Find(lang.TagType).Text())

	if lang.IsKeyword(name) {
		return errIDKeyword(id.Line(), name)
	}
	if _, ok := c.scopes.Lookup(name); ok {
		return errVarMultipleDecl(id.Line(), name)
	}

	v := &Variable{Name: name, Type: declared, Line: id.Line()}
	c.scopes.Declare(v)

	expr := n.Find(lang.Expr)
	if expr == nil {
		return nil
	}
	t, err := c.expr(expr)
	if err != nil {
		return err
	}
	if !Fits(t, declared) {
		return errTypesNotFit(expr.Line(), t, declared)
	}
	v.Initialized = true
	return nil
}

func (c *checker) assignment(n *tree.Node) error {
	id := n.Find(lang.TagID)
	name := id.Text()
	line := id.Line()

	v, ok := c.scopes.Lookup(name)
	if !ok {
		return errVarNoDecl(line, name)
	}

	switch {
	case n.Find(lang.TagAssign) != nil:
		expr := n.Find(lang.Expr)
		t, err := c.expr(expr)
		if err != nil {
			return err
		}
		if !Fits(t, v.Type) {
			return errTypesNotFit(expr.Line(), t, v.Type)
		}
		v.Initialized = true

	case n.Find(lang.TagOpAssign) != nil:
		if !v.Initialized {
			return errVarNoInit(line, name)
		}
		if v.Type == Boolean {
			return errBooleanOpAssign(line)
		}
		expr := n.Find(lang.Expr)
		t, err := c.expr(expr)
		if err != nil {
			return err
		}
		if t == Boolean {
			return errBooleanOpAssign(line)
		}
		if !Fits(t, v.Type) {
			return errTypesNotFit(expr.Line(), t, v.Type)
		}

	case n.Find(lang.TagIncrement) != nil:
		if v.Type == Boolean {
			return errBooleanIncrement(line)
		}
		if !v.Initialized {
			return errVarNoInit(line, name)
		}
	}
	return nil
}

func (c *checker) funcReturn(n *tree.Node) error {
	f := c.current
	expr := n.Find(lang.Expr)

	switch {
	case f.Return == None && expr != nil:
		return errFuncVoidReturn(n.Line(), f.Name)
	case f.Return != None && expr == nil:
		return errReturnMissingValue(n.Line(), f.Name)
	case expr != nil:
		t, err := c.expr(expr)
		if err != nil {
			return err
		}
		if !Fits(t, f.Return) {
			return errTypesNotFit(expr.Line(), t, f.Return)
		}
	}

	c.scopes.Top().Returned = true
	return nil
}

// ifStatement reports whether every branch returned. Without an else
// branch the statement can always fall through.
func (c *checker) ifStatement(n *tree.Node) (bool, error) {
	if err := c.condition(n.Find(lang.Expr)); err != nil {
		return false, err
	}

	thenReturned, err := c.block(n.Find(lang.CodeBlock))
	if err != nil {
		return false, err
	}

	if n.Find(lang.TagElse) == nil {
		return false, nil
	}

	var elseReturned bool
	last := n.Child(len(n.Children) - 1)
	if last.Label == lang.IfStatement {
		elseReturned, err = c.ifStatement(last)
	} else {
		elseReturned, err = c.block(last)
	}
	if err != nil {
		return false, err
	}
	return thenReturned && elseReturned, nil
}

func (c *checker) forLoop(n *tree.Node) error {
	c.scopes.Push()
	defer c.scopes.Pop()

	init := n.Find(lang.ForInit).Child(0)
	if err := c.instruction(init); err != nil {
		return err
	}
	if err := c.condition(n.Find(lang.Expr)); err != nil {
		return err
	}
	if err := c.assignment(n.Find(lang.ForStep).Child(0)); err != nil {
		return err
	}
	_, err := c.block(n.Find(lang.CodeBlock))
	return err
}

func (c *checker) condition(expr *tree.Node) error {
	t, err := c.expr(expr)
	if err != nil {
		return err
	}
	if t != Boolean {
		return errTypesNotFit(expr.Line(), t, Boolean)
	}
	return nil
}
