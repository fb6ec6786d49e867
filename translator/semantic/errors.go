// File: semantic/errors.go
package semantic

import "fmt"

// Kind classifies a semantic error.
type Kind int

const (
	FuncMultipleDecl Kind = iota + 1
	IDKeyword
	ReturnNotExists
	UnreachableCode
	VarNoDecl
	BooleanOpAssign
	BooleanIncrement
	VarNoInit
	FuncVoidReturn
	VarMultipleDecl
	BooleanVarMathExpr
	BooleanMathExpr
	TypesNotFit
	FuncNoDecl
	FuncParamsMismatch
	FuncAmbiguous
	VoidValue
	ReturnMissingValue
	EntryPointMissing
)

var kindNames = map[Kind]string{
	FuncMultipleDecl:   "func_multiple_decl",
	IDKeyword:          "id_keyword",
	ReturnNotExists:    "return_not_exists",
	UnreachableCode:    "unreachable_code",
	VarNoDecl:          "var_no_decl",
	BooleanOpAssign:    "boolean_op_assign",
	BooleanIncrement:   "boolean_increment",
	VarNoInit:          "var_no_init",
	FuncVoidReturn:     "func_void_return",
	VarMultipleDecl:    "var_multiple_decl",
	BooleanVarMathExpr: "boolean_var_math_expr",
	BooleanMathExpr:    "boolean_math_expr",
	TypesNotFit:        "types_not_fit",
	FuncNoDecl:         "func_no_decl",
	FuncParamsMismatch: "func_params_mismatch",
	FuncAmbiguous:      "func_ambiguous",
	VoidValue:          "void_value",
	ReturnMissingValue: "return_missing_value",
	EntryPointMissing:  "entry_point_missing",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the first semantic violation found in a program.
type Error struct {
	Kind    Kind
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("semantic error in line %d: %s", e.Line, e.Message)
}

func newError(kind Kind, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}

func errFuncMultipleDecl(line int, name string) *Error {
	return newError(FuncMultipleDecl, line, "function %s already declared", name)
}

func errIDKeyword(line int, name string) *Error {
	return newError(IDKeyword, line, "identifier keyword used %s", name)
}

func errReturnNotExists(line int, name string) *Error {
	return newError(ReturnNotExists, line, "missing expression with return for function %s", name)
}

func errUnreachableCode(line int) *Error {
	return newError(UnreachableCode, line, "unreachable code snippet")
}

func errVarNoDecl(line int, name string) *Error {
	return newError(VarNoDecl, line, "variable %s is not declared", name)
}

func errBooleanOpAssign(line int) *Error {
	return newError(BooleanOpAssign, line, "assignment with operation is not allowed for type boolean")
}

func errBooleanIncrement(line int) *Error {
	return newError(BooleanIncrement, line, "increment and decrement is invalid for type boolean")
}

func errVarNoInit(line int, name string) *Error {
	return newError(VarNoInit, line, "variable %s is not initialized", name)
}

func errFuncVoidReturn(line int, name string) *Error {
	return newError(FuncVoidReturn, line, "function %s cannot return values", name)
}

func errVarMultipleDecl(line int, name string) *Error {
	return newError(VarMultipleDecl, line, "variable %s is already declared", name)
}

func errBooleanVarMathExpr(line int, name string) *Error {
	return newError(BooleanVarMathExpr, line, "boolean type variable %s cannot participate in a mathematical expression", name)
}

func errBooleanMathExpr(line int) *Error {
	return newError(BooleanMathExpr, line, "boolean value cannot participate in a mathematical expression")
}

func errTypesNotFit(line int, got, want Type) *Error {
	return newError(TypesNotFit, line, "return value %s does not match the required type %s", got, want)
}

func errFuncNoDecl(line int, name string) *Error {
	return newError(FuncNoDecl, line, "function %s is not declared", name)
}

func errFuncParamsMismatch(line int, name string) *Error {
	return newError(FuncParamsMismatch, line, "parameters do not match the function %s", name)
}

func errFuncAmbiguous(line int, name string) *Error {
	return newError(FuncAmbiguous, line, "call of function %s is ambiguous", name)
}

func errVoidValue(line int, name string) *Error {
	return newError(VoidValue, line, "function %s does not return a value", name)
}

func errReturnMissingValue(line int, name string) *Error {
	return newError(ReturnMissingValue, line, "function %s must return a value", name)
}

func errEntryPointMissing(line int) *Error {
	return newError(EntryPointMissing, line, "entry point main is not declared")
}
