// Package lang defines the Java subset understood by the translator: the
// lexer rule table, the grammar, the labels of the parse tree and the
// identifiers reserved by either language.
package lang

import (
	_ "embed"
	"sync"

	"github.com/dangerclosesec/transpiler/translator/grammar"
	"github.com/dangerclosesec/transpiler/translator/lexer"
)

// Token categories.
const (
	CatComment         = "comment"
	CatMainArgs        = "main_args"
	CatVoid            = "void"
	CatTypeHint        = "type_hint"
	CatIncrement       = "increment"
	CatOpAssign        = "op_assign"
	CatCompare         = "compare"
	CatBooleanOperator = "boolean_operator"
	CatBooleanNot      = "boolean_not"
	CatMathOperator    = "math_operator"
	CatNumberFloat     = "number_float"
	CatNumberInt       = "number_int"
	CatCharLiteral     = "char_literal"
	CatAssign          = "assign"
	CatBooleanValue    = "boolean_value"
	CatIf              = "if"
	CatElse            = "else"
	CatFor             = "for"
	CatWhile           = "while"
	CatDo              = "do"
	CatReturn          = "return"
	CatMax             = "max"
	CatMin             = "min"
	CatPrint           = "print"
	CatStatic          = "static"
	CatClass           = "class"
	CatPublic          = "public"
	CatMain            = "main"
	CatLBracket        = "lbracket"
	CatRBracket        = "rbracket"
	CatLBracketCurly   = "lbracket_curly"
	CatRBracketCurly   = "rbracket_curly"
	CatSemicolon       = "semicolon"
	CatComma           = "comma"
	CatID              = "id"
)

// Rules is the lexer table in priority order.
var Rules = []lexer.Rule{
	{Category: CatComment, Pattern: `//[^\n]*`, Skip: true},
	{Category: CatComment, Pattern: `/\*(?s:.*?)\*/`, Skip: true},
	{Category: CatMainArgs, Pattern: `\bString\s*\[\s*\]\s*[_a-zA-Z]\w*\b`},
	{Category: CatVoid, Pattern: `\bvoid\b`},
	{Category: CatTypeHint, Pattern: `\b(?:int|boolean|float|double|char)\b`},
	{Category: CatIncrement, Pattern: `\+\+|--`},
	{Category: CatOpAssign, Pattern: `\+=|-=|\*=|/=|%=`},
	{Category: CatCompare, Pattern: `==|!=|<=|>=|<|>`},
	{Category: CatBooleanOperator, Pattern: `&&|\|\|`},
	{Category: CatBooleanNot, Pattern: `!`},
	{Category: CatMathOperator, Pattern: `[+\-*/%]`},
	{Category: CatNumberFloat, Pattern: `\d+\.\d+`},
	{Category: CatNumberInt, Pattern: `\d+`},
	{Category: CatCharLiteral, Pattern: `'(?:\\.|[^'\\\n])'`},
	{Category: CatAssign, Pattern: `=`},
	{Category: CatBooleanValue, Pattern: `\b(?:true|false)\b`},
	{Category: CatIf, Pattern: `\bif\b`},
	{Category: CatElse, Pattern: `\belse\b`},
	{Category: CatFor, Pattern: `\bfor\b`},
	{Category: CatWhile, Pattern: `\bwhile\b`},
	{Category: CatDo, Pattern: `\bdo\b`},
	{Category: CatReturn, Pattern: `\breturn\b`},
	{Category: CatMax, Pattern: `\bMath\.max\b`},
	{Category: CatMin, Pattern: `\bMath\.min\b`},
	{Category: CatPrint, Pattern: `\bSystem\.out\.println\b`},
	{Category: CatStatic, Pattern: `\bstatic\b`},
	{Category: CatClass, Pattern: `\bclass\b`},
	{Category: CatPublic, Pattern: `\bpublic\b`},
	{Category: CatMain, Pattern: `\b(?:Main|main)\b`},
	{Category: CatLBracket, Pattern: `\(`},
	{Category: CatRBracket, Pattern: `\)`},
	{Category: CatLBracketCurly, Pattern: `\{`},
	{Category: CatRBracketCurly, Pattern: `\}`},
	{Category: CatSemicolon, Pattern: `;`},
	{Category: CatComma, Pattern: `,`},
	{Category: CatID, Pattern: `\b[_a-zA-Z]\w*\b`},
}

// Parse tree labels.
const (
	Program         = "<program>"
	ClassBody       = "<class_body>"
	Member          = "<member>"
	MainFunc        = "<main_func>"
	FuncDeclaration = "<func_declaration>"
	FuncParams      = "<func_params>"
	Param           = "<param>"
	CodeBlock       = "<code_block>"
	Instructions    = "<instructions>"
	Instruction     = "<instruction>"
	VarDecl         = "<var_decl>"
	Assignment      = "<assignment>"
	FuncReturn      = "<func_return>"
	IfStatement     = "<if_statement>"
	ForLoop         = "<for_loop>"
	ForInit         = "<for_init>"
	ForStep         = "<for_step>"
	WhileLoop       = "<while_loop>"
	DoWhile         = "<do_while>"
	Expr            = "<expr>"
	Disjunction     = "<disjunction>"
	Relation        = "<relation>"
	MathExpr        = "<math_expr>"
	Term            = "<term>"
	Operand         = "<operand>"
	FuncCall        = "<func_call>"
	CallArgs        = "<call_args>"

	TagName           = "<name>"
	TagType           = "<type>"
	TagFuncReturnType = "<func_return_type>"
	TagID             = "<id>"
	TagNumber         = "<number>"
	TagCharLiteral    = "<char_literal>"
	TagBooleanValue   = "<boolean_value>"
	TagAssign         = "<assign>"
	TagOpAssign       = "<op_assign>"
	TagIncrement      = "<increment>"
	TagMathOperator   = "<math_operator>"
	TagCompare        = "<compare>"
	TagBooleanOp      = "<boolean_operator>"
	TagBooleanNot     = "<boolean_not>"
	TagElse           = "<else>"
	TagPrint          = "<print>"
	TagMax            = "<max>"
	TagMin            = "<min>"
	TagReturn         = "<return>"
)

// Built-in function names as written in source.
const (
	PrintName = "System.out.println"
	MaxName   = "Math.max"
	MinName   = "Math.min"
)

//go:embed java.grammar
var GrammarText string

var (
	defaultOnce    sync.Once
	defaultGrammar *grammar.Grammar
	defaultErr     error
	compiledRules  = lexer.MustCompile(Rules)
)

// Grammar returns the embedded grammar, parsed once.
func Grammar() (*grammar.Grammar, error) {
	defaultOnce.Do(func() {
		defaultGrammar, defaultErr = grammar.Load(GrammarText)
	})
	return defaultGrammar, defaultErr
}

// LexerRules returns the compiled rule table.
func LexerRules() *lexer.Rules {
	return compiledRules
}

// keywords holds words reserved in Java or C++. Most Java keywords are
// lexed into their own categories; the rest would otherwise reach the
// output as identifiers.
var keywords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		// Java
		"abstract", "assert", "boolean", "break", "byte", "case", "catch", "char",
		"class", "const", "continue", "default", "do", "double", "else", "enum",
		"extends", "final", "finally", "float", "for", "goto", "if", "implements",
		"import", "instanceof", "int", "interface", "long", "native", "new",
		"package", "private", "protected", "public", "return", "short", "static",
		"strictfp", "super", "switch", "synchronized", "this", "throw", "throws",
		"transient", "try", "void", "volatile", "while", "true", "false", "null",
		"var", "record", "yield",
		// C++
		"alignas", "alignof", "and", "and_eq", "asm", "auto", "bitand", "bitor",
		"bool", "char8_t", "char16_t", "char32_t", "compl", "concept", "consteval",
		"constexpr", "constinit", "const_cast", "co_await", "co_return", "co_yield",
		"decltype", "delete", "dynamic_cast", "explicit", "export", "extern",
		"friend", "inline", "mutable", "namespace", "noexcept", "not", "not_eq",
		"nullptr", "operator", "or", "or_eq", "register", "reinterpret_cast",
		"requires", "signed", "sizeof", "static_assert", "static_cast", "struct",
		"template", "thread_local", "typedef", "typeid", "typename", "union",
		"unsigned", "using", "virtual", "wchar_t", "xor", "xor_eq",
		// names the generated program relies on
		"std", "argc", "argv",
	} {
		keywords[w] = struct{}{}
	}
}

// IsKeyword reports whether name is reserved.
func IsKeyword(name string) bool {
	_, ok := keywords[name]
	return ok
}
