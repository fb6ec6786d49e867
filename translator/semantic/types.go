// File: semantic/types.go
package semantic

import "github.com/dangerclosesec/transpiler/translator/lang"

// Type is a value type. The numeric order of the constants is the
// implicit widening order; None marks a void function.
type Type int

const (
	None Type = iota
	Boolean
	Char
	Int
	Float
	Double
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Char:
		return "CHAR"
	case Int:
		return "INT"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	default:
		return "NONE"
	}
}

// TypeOf maps a source type keyword to its Type.
func TypeOf(keyword string) Type {
	switch keyword {
	case "boolean":
		return Boolean
	case "char":
		return Char
	case "int":
		return Int
	case "float":
		return Float
	case "double":
		return Double
	default:
		return None
	}
}

// literalType maps a literal token category to its Type.
func literalType(category string) Type {
	switch category {
	case lang.CatNumberInt:
		return Int
	case lang.CatNumberFloat:
		return Double
	case lang.CatCharLiteral:
		return Char
	case lang.CatBooleanValue:
		return Boolean
	default:
		return None
	}
}

// Fits reports whether a value of type v may be stored in a slot of type
// target. Booleans only fit booleans; other types widen upward.
func Fits(v, target Type) bool {
	if v == None || target == None {
		return false
	}
	if v == Boolean || target == Boolean {
		return v == target
	}
	return v <= target
}

// Numeric reports whether t takes part in arithmetic.
func (t Type) Numeric() bool {
	return t >= Char
}

func widest(a, b Type) Type {
	if a > b {
		return a
	}
	return b
}
