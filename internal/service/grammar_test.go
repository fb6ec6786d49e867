package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dangerclosesec/transpiler/internal/domain"
	"github.com/dangerclosesec/transpiler/internal/service"
	"github.com/dangerclosesec/transpiler/translator/grammar"
	"github.com/dangerclosesec/transpiler/translator/grammarstore"
	"github.com/dangerclosesec/transpiler/translator/lang"
	"github.com/dangerclosesec/transpiler/translator/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMigrator struct {
	version int
	applied []string
	err     error
}

func (m *fakeMigrator) GetCurrentVersion() (int, error) {
	return m.version, nil
}

func (m *fakeMigrator) ApplyMigration(g *grammar.Grammar, description, sourceFile string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.applied = append(m.applied, description)
	m.version++
	return "diff", nil
}

type fakeSource struct {
	g       *grammar.Grammar
	version int
	err     error
}

func (s *fakeSource) Active(ctx context.Context) (*grammar.Grammar, int, error) {
	return s.g, s.version, s.err
}

// withoutDoWhile drops the do-while alternative from the embedded grammar.
func withoutDoWhile(t *testing.T) string {
	t.Helper()
	var kept []string
	for _, line := range strings.Split(lang.GrammarText, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "<instruction>") {
			line = strings.ReplaceAll(line, "| <do_while> ", "")
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func TestGrammarServiceInMemory(t *testing.T) {
	tr := newTranslator(t)
	svc := service.NewGrammarService(tr, nil, nil, nil)

	current := svc.Current()
	assert.Equal(t, 0, current.Version)
	assert.Equal(t, grammar.Start, current.Start)
	assert.Contains(t, current.Nonterminals, grammar.Start)

	out, err := svc.Update(context.Background(), service.GrammarUpdateInput{Text: current.Text})
	require.NoError(t, err)
	assert.False(t, out.Changed)
	assert.Equal(t, migration.NoChanges, out.Diff)

	out, err = svc.Update(context.Background(), service.GrammarUpdateInput{Text: "<program> -> <class>\n<class> -> class"})
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Equal(t, 1, out.Version)
	assert.Contains(t, out.Diff, "Removed nonterminals")
	assert.Equal(t, 1, svc.Current().Version)
	assert.Len(t, tr.Grammar().Nonterminals(), 2)
}

func TestGrammarServiceRejectsInvalidGrammar(t *testing.T) {
	svc := service.NewGrammarService(newTranslator(t), nil, nil, nil)

	_, err := svc.Update(context.Background(), service.GrammarUpdateInput{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = svc.Update(context.Background(), service.GrammarUpdateInput{Text: "<a> b"})
	assert.True(t, errors.Is(err, domain.ErrInvalidGrammar))

	_, err = svc.Update(context.Background(), service.GrammarUpdateInput{Text: "<a> -> b"})
	assert.True(t, errors.Is(err, domain.ErrInvalidGrammar))
}

func TestGrammarServiceWithMigrator(t *testing.T) {
	tr := newTranslator(t)
	m := &fakeMigrator{version: 3}
	svc := service.NewGrammarService(tr, m, nil, nil)

	out, err := svc.Update(context.Background(), service.GrammarUpdateInput{
		Text:        withoutDoWhile(t),
		Description: "drop do-while",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, out.Version)
	assert.Equal(t, "diff", out.Diff)
	assert.Equal(t, []string{"drop do-while"}, m.applied)

	m.err = errors.New("tx aborted")
	_, err = svc.Update(context.Background(), service.GrammarUpdateInput{Text: lang.GrammarText})
	assert.ErrorContains(t, err, "tx aborted")
	assert.Equal(t, 4, svc.Current().Version)
}

func TestGrammarServiceSync(t *testing.T) {
	tr := newTranslator(t)

	empty := &fakeSource{err: grammarstore.ErrNoGrammar}
	require.NoError(t, service.NewGrammarService(tr, nil, empty, nil).Sync(context.Background()))

	g, err := grammar.Load("<program> -> <class>\n<class> -> class")
	require.NoError(t, err)
	src := &fakeSource{g: g, version: 2}
	svc := service.NewGrammarService(tr, nil, src, nil)

	require.NoError(t, svc.Sync(context.Background()))
	assert.Equal(t, 2, svc.Current().Version)
	assert.Same(t, g, tr.Grammar())

	src.err = errors.New("db down")
	assert.ErrorContains(t, svc.Sync(context.Background()), "db down")
}
