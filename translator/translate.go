// Package translator runs the Java subset to C++ pipeline: lexing, Earley
// parsing, semantic checking and code generation.
package translator

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dangerclosesec/transpiler"
	"github.com/dangerclosesec/transpiler/translator/earley"
	"github.com/dangerclosesec/transpiler/translator/generator"
	"github.com/dangerclosesec/transpiler/translator/grammar"
	"github.com/dangerclosesec/transpiler/translator/lang"
	"github.com/dangerclosesec/transpiler/translator/lexer"
	"github.com/dangerclosesec/transpiler/translator/semantic"
	"github.com/dangerclosesec/transpiler/translator/tree"
)

// Stage names the pipeline step that produced an error.
type Stage string

const (
	StageLexical  Stage = "lexical"
	StageSyntax   Stage = "syntax"
	StageSemantic Stage = "semantic"
)

// SourceExtension is the file extension accepted by TranslateFile.
const SourceExtension = ".java"

// ErrUnsupportedFile is returned for paths without SourceExtension.
var ErrUnsupportedFile = errors.New("unsupported source file")

// StageError is the front-end view of a pipeline failure.
type StageError struct {
	Stage   Stage  `json:"stage"`
	Kind    string `json:"kind,omitempty"`
	Line    int    `json:"line"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *StageError) Error() string {
	return e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Describe classifies err by stage. It returns nil for errors that did
// not come from the pipeline.
func Describe(err error) *StageError {
	var se *StageError
	if errors.As(err, &se) {
		return se
	}

	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return &StageError{Stage: StageLexical, Line: lexErr.Line, Message: fmt.Sprintf("unexpected character %q", lexErr.Char), Err: err}
	}
	var synErr *earley.SyntaxError
	if errors.As(err, &synErr) {
		return &StageError{Stage: StageSyntax, Line: synErr.Line, Message: synErr.Msg, Err: err}
	}
	var semErr *semantic.Error
	if errors.As(err, &semErr) {
		return &StageError{Stage: StageSemantic, Kind: semErr.Kind.String(), Line: semErr.Line, Message: semErr.Message, Err: err}
	}
	return nil
}

// Durations records the time spent in each stage.
type Durations struct {
	Lex      time.Duration `json:"lex"`
	Parse    time.Duration `json:"parse"`
	Check    time.Duration `json:"check"`
	Generate time.Duration `json:"generate"`
}

// Result is a successful translation.
type Result struct {
	Output    string
	Tokens    int
	Chart     earley.Stats
	Checked   bool
	Durations Durations
}

// Lines splits the output into lines without the trailing newline.
func (r *Result) Lines() []string {
	return strings.Split(strings.TrimSuffix(r.Output, "\n"), "\n")
}

// Translator holds the compiled lexer rules and the active grammar. It is
// safe for concurrent use; SetGrammar swaps the grammar atomically.
type Translator struct {
	rules    *lexer.Rules
	parser   atomic.Pointer[earley.Parser]
	analyzer *semantic.Analyzer
	gen      *generator.Generator
	logger   *slog.Logger
}

// New builds a Translator. The grammar comes from cfg.GrammarPath when set,
// otherwise the embedded grammar is used.
func New(cfg *transpiler.Config) (*Translator, error) {
	logger := cfg.Logger()

	var (
		g   *grammar.Grammar
		err error
	)
	if cfg != nil && cfg.GrammarPath != "" {
		g, err = grammar.LoadFile(cfg.GrammarPath)
	} else {
		g, err = lang.Grammar()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load grammar: %w", err)
	}

	t := &Translator{
		rules:    lang.LexerRules(),
		analyzer: semantic.NewAnalyzer(semantic.WithLogger(logger)),
		gen:      generator.New(generator.WithLogger(logger)),
		logger:   logger,
	}
	t.SetGrammar(g)
	return t, nil
}

// SetGrammar replaces the grammar used by later parses.
func (t *Translator) SetGrammar(g *grammar.Grammar) {
	t.parser.Store(earley.NewParser(g, earley.WithLogger(t.logger)))
}

// Grammar returns the active grammar.
func (t *Translator) Grammar() *grammar.Grammar {
	return t.parser.Load().Grammar()
}

// Tokens lexes src.
func (t *Translator) Tokens(src string) ([]lexer.Token, error) {
	return t.rules.Tokenize(src, lexer.WithLogger(t.logger))
}

// Chart lexes src and runs the recognizer, returning the chart even when
// recognition fails.
func (t *Translator) Chart(src string) (*earley.Chart, error) {
	tokens, err := t.Tokens(src)
	if err != nil {
		return nil, err
	}
	return t.parser.Load().Recognize(tokens)
}

// Parse lexes and parses src.
func (t *Translator) Parse(src string) (*tree.Node, error) {
	tokens, err := t.Tokens(src)
	if err != nil {
		return nil, err
	}
	return t.parser.Load().Parse(tokens)
}

// Check runs the pipeline up to the semantic analyzer.
func (t *Translator) Check(src string) (bool, error) {
	root, err := t.Parse(src)
	if err != nil {
		return false, err
	}
	return t.analyzer.Check(root)
}

// Translate converts src to C++. With check set, the semantic analyzer
// runs before generation.
func (t *Translator) Translate(src string, check bool) (*Result, error) {
	res := &Result{Checked: check}

	start := time.Now()
	tokens, err := t.Tokens(src)
	res.Durations.Lex = time.Since(start)
	if err != nil {
		return nil, t.fail(err)
	}
	res.Tokens = len(tokens)

	start = time.Now()
	chart, err := t.parser.Load().Recognize(tokens)
	res.Durations.Parse = time.Since(start)
	if err != nil {
		return nil, t.fail(err)
	}
	res.Chart = chart.Stats()
	root, _ := chart.Tree()

	if check {
		start = time.Now()
		_, err = t.analyzer.Check(root)
		res.Durations.Check = time.Since(start)
		if err != nil {
			return nil, t.fail(err)
		}
	}

	start = time.Now()
	res.Output, err = t.gen.Generate(root)
	res.Durations.Generate = time.Since(start)
	if err != nil {
		return nil, err
	}

	t.logger.Debug("translated program",
		"tokens", res.Tokens,
		"states", res.Chart.States,
		"checked", check,
	)
	return res, nil
}

// TranslateFile reads a .java file and translates it with checking.
func (t *Translator) TranslateFile(path string) (*Result, error) {
	if !strings.EqualFold(filepath.Ext(path), SourceExtension) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	return t.Translate(string(src), true)
}

func (t *Translator) fail(err error) error {
	se := Describe(err)
	if se == nil {
		return err
	}
	t.logger.Debug("translation failed", "stage", se.Stage, "line", se.Line, "message", se.Message)
	return se
}
