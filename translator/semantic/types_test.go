package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFits(t *testing.T) {
	order := []Type{Char, Int, Float, Double}
	for i, v := range order {
		for j, target := range order {
			assert.Equal(t, i <= j, Fits(v, target), "%s into %s", v, target)
		}
		assert.False(t, Fits(v, Boolean), "%s into BOOLEAN", v)
		assert.False(t, Fits(Boolean, v), "BOOLEAN into %s", v)
	}
	assert.True(t, Fits(Boolean, Boolean))
	assert.False(t, Fits(None, Int))
	assert.False(t, Fits(Int, None))
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, Boolean, TypeOf("boolean"))
	assert.Equal(t, Double, TypeOf("double"))
	assert.Equal(t, None, TypeOf("void"))
	assert.Equal(t, "FLOAT", Float.String())
	assert.True(t, Char.Numeric())
	assert.False(t, Boolean.Numeric())
}

func TestScopes(t *testing.T) {
	s := &Scopes{}
	s.Push()
	s.Declare(&Variable{Name: "a", Type: Int})
	s.Push()
	s.Declare(&Variable{Name: "b", Type: Char})

	assert.Equal(t, 1, s.Depth())
	_, ok := s.Lookup("a")
	assert.True(t, ok, "outer variables are visible")

	s.Pop()
	_, ok = s.Lookup("b")
	assert.False(t, ok, "inner variables vanish with their block")
	assert.Equal(t, 0, s.Depth())
}
