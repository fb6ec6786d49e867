package migration

import (
	"testing"

	"github.com/dangerclosesec/transpiler/translator/grammar"
	"github.com/dangerclosesec/transpiler/translator/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, text string) *grammar.Grammar {
	t.Helper()
	g, err := grammar.Load(text)
	require.NoError(t, err)
	return g
}

func TestGenerateDiff(t *testing.T) {
	oldGrammar := load(t, `
<program> -> <a> | <b>
<a> -> x
<b> -> y
<gone> -> z
`)
	newGrammar := load(t, `
<program> -> <a> | <c>
<a> -> x
<b> -> y | w
<c> -> v
`)

	diff := GenerateDiff(oldGrammar, newGrammar)
	assert.False(t, diff.IsEmpty())
	assert.Equal(t, []string{"<c>"}, diff.AddedNonterminals)
	assert.Equal(t, []string{"<gone>"}, diff.RemovedNonterminals)

	require.Contains(t, diff.ModifiedNonterminals, "<program>")
	assert.Equal(t, []string{"<c>"}, diff.ModifiedNonterminals["<program>"].AddedAlternatives)
	assert.Equal(t, []string{"<b>"}, diff.ModifiedNonterminals["<program>"].RemovedAlternatives)
	assert.Equal(t, []string{"w"}, diff.ModifiedNonterminals["<b>"].AddedAlternatives)
	assert.NotContains(t, diff.ModifiedNonterminals, "<a>")

	text := diff.String()
	assert.Contains(t, text, "Added nonterminals:\n  + <c>")
	assert.Contains(t, text, "Removed nonterminals:\n  - <gone>")
	assert.Contains(t, text, "  <b>:\n    + w")
}

func TestGenerateDiffReorder(t *testing.T) {
	diff := GenerateDiff(load(t, "<a> -> x | y"), load(t, "<a> -> y | x"))
	require.Contains(t, diff.ModifiedNonterminals, "<a>")
	assert.True(t, diff.ModifiedNonterminals["<a>"].Reordered)
	assert.Contains(t, diff.String(), "alternatives reordered")
}

func TestGenerateDiffFromEmpty(t *testing.T) {
	g, err := lang.Grammar()
	require.NoError(t, err)

	diff := GenerateDiff(nil, g)
	assert.Len(t, diff.AddedNonterminals, len(g.Nonterminals()))

	same := GenerateDiff(g, g)
	assert.True(t, same.IsEmpty())
	assert.Equal(t, "No changes", same.String())
}

func TestFromRows(t *testing.T) {
	g, err := lang.Grammar()
	require.NoError(t, err)

	var rows [][2]string
	for _, name := range g.Nonterminals() {
		for _, alt := range g.Alternatives(name) {
			rows = append(rows, [2]string{name, alt})
		}
	}

	rebuilt, err := FromRows(rows)
	require.NoError(t, err)
	assert.Equal(t, g.String(), rebuilt.String())
	assert.True(t, GenerateDiff(g, rebuilt).IsEmpty())

	empty, err := FromRows(nil)
	assert.NoError(t, err)
	assert.Nil(t, empty)
}
