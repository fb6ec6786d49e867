package translator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dangerclosesec/transpiler"
	"github.com/dangerclosesec/transpiler/translator"
	"github.com/dangerclosesec/transpiler/translator/grammar"
	"github.com/dangerclosesec/transpiler/translator/lang"
	"github.com/dangerclosesec/transpiler/translator/semantic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTranslator(t *testing.T) *translator.Translator {
	t.Helper()
	tr, err := translator.New(transpiler.NewConfig(context.Background(), nil))
	require.NoError(t, err)
	return tr
}

func TestTranslate(t *testing.T) {
	tr := newTranslator(t)

	res, err := tr.Translate(`public class Main {
    public static void main(String[] args) {
        char a = 'b';
        a = 'a';
    }
}`, true)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"#include <iostream>",
		"",
		"void main(int argc, char *argv[])",
		"{",
		"    char a = 'b';",
		"    a = 'a';",
		"}",
	}, res.Lines())
	assert.True(t, res.Checked)
	assert.Equal(t, 23, res.Tokens)
	assert.Equal(t, 24, res.Chart.Sets)
}

func TestTranslateStageErrors(t *testing.T) {
	tr := newTranslator(t)

	tests := []struct {
		name  string
		src   string
		stage translator.Stage
		kind  string
		line  int
	}{
		{
			name:  "lexical",
			src:   "public class Main {\n  #\n}",
			stage: translator.StageLexical,
			line:  2,
		},
		{
			name:  "syntax",
			src:   "public class Main {\n  public static void main(String[] args) {\n    int = 5;\n  }\n}",
			stage: translator.StageSyntax,
			line:  3,
		},
		{
			name:  "semantic",
			src:   "public class Main {\n  public static void main(String[] args) {\n    int a;\n    int a;\n  }\n}",
			stage: translator.StageSemantic,
			kind:  semantic.VarMultipleDecl.String(),
			line:  4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.Translate(tt.src, true)
			require.Error(t, err)

			se := translator.Describe(err)
			require.NotNil(t, se)
			assert.Equal(t, tt.stage, se.Stage)
			assert.Equal(t, tt.kind, se.Kind)
			assert.Equal(t, tt.line, se.Line)
			assert.NotEmpty(t, se.Message)
		})
	}
}

func TestTranslateWithoutCheck(t *testing.T) {
	tr := newTranslator(t)
	src := "public class Main {\n  public static void main(String[] args) {\n    int a;\n    int a;\n  }\n}"

	res, err := tr.Translate(src, false)
	require.NoError(t, err)
	assert.Contains(t, res.Output, "    int a;\n    int a;\n")

	ok, err := tr.Check(src)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestDescribeForeignError(t *testing.T) {
	assert.Nil(t, translator.Describe(errors.New("boom")))
}

func TestTranslateFile(t *testing.T) {
	tr := newTranslator(t)

	res, err := tr.TranslateFile(filepath.Join("testdata", "loops.java"))
	require.NoError(t, err)
	assert.Contains(t, res.Output, "int sum(int n)\n{\n    int total = 0;\n    for (int i = 1; i <= n; i++)\n")
	assert.Contains(t, res.Output, "    std::cout << sum(n) << \"\\n\";\n")

	_, err = tr.TranslateFile(filepath.Join("testdata", "loops.txt"))
	assert.True(t, errors.Is(err, translator.ErrUnsupportedFile))
}

func TestGrammarFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "java.grammar")
	require.NoError(t, os.WriteFile(path, []byte(lang.GrammarText), 0o600))

	cfg := transpiler.NewConfig(context.Background(), nil)
	cfg.SetGrammarPath(path)
	tr, err := translator.New(cfg)
	require.NoError(t, err)

	ok, err := tr.Check("public class Main { public static void main(String[] args) { } }")
	require.NoError(t, err)
	assert.True(t, ok)

	cfg.SetGrammarPath(filepath.Join(t.TempDir(), "missing.grammar"))
	_, err = translator.New(cfg)
	assert.Error(t, err)
}

func TestSetGrammar(t *testing.T) {
	tr := newTranslator(t)

	g, err := grammar.Load(lang.GrammarText)
	require.NoError(t, err)
	tr.SetGrammar(g)
	assert.Same(t, g, tr.Grammar())

	// Only empty classes.
	restricted, err := grammar.Load(`
<program> -> <public> <class> <name> <lbracket_curly> <rbracket_curly>
<public> -> public
<class> -> class
<name> -> id | main
<lbracket_curly> -> lbracket_curly
<rbracket_curly> -> rbracket_curly
`)
	require.NoError(t, err)
	tr.SetGrammar(restricted)

	root, err := tr.Parse("public class Main { }")
	require.NoError(t, err)
	assert.Equal(t, lang.Program, root.Label)

	_, err = tr.Parse("public class Main { public static void main(String[] args) { } }")
	assert.Equal(t, translator.StageSyntax, translator.Describe(err).Stage)
}

func TestConcurrentTranslations(t *testing.T) {
	tr := newTranslator(t)
	src, err := os.ReadFile(filepath.Join("testdata", "loops.java"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	outputs := make([]string, 8)
	for i := range outputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := tr.Translate(string(src), true)
			if err == nil {
				outputs[i] = res.Output
			}
		}(i)
	}
	wg.Wait()

	for _, out := range outputs {
		assert.Equal(t, outputs[0], out)
		assert.NotEmpty(t, out)
	}
}
