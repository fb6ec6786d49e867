// internal/service/grammar.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dangerclosesec/transpiler/internal/domain"
	"github.com/dangerclosesec/transpiler/translator"
	"github.com/dangerclosesec/transpiler/translator/grammar"
	"github.com/dangerclosesec/transpiler/translator/grammarstore"
	"github.com/dangerclosesec/transpiler/translator/migration"
)

// GrammarMigrator persists grammar versions
type GrammarMigrator interface {
	GetCurrentVersion() (int, error)
	ApplyMigration(g *grammar.Grammar, description, sourceFile string) (string, error)
}

// GrammarSource yields the active stored grammar and its version
type GrammarSource interface {
	Active(ctx context.Context) (*grammar.Grammar, int, error)
}

// GrammarService manages the grammar used by the shared translator
type GrammarService struct {
	translator *translator.Translator
	migrator   GrammarMigrator
	source     GrammarSource
	logger     *slog.Logger

	mu      sync.Mutex
	version int
}

// NewGrammarService wires the translator to optional persistence. Without
// a migrator, updates only live in memory.
func NewGrammarService(tr *translator.Translator, migrator GrammarMigrator, source GrammarSource, logger *slog.Logger) *GrammarService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GrammarService{
		translator: tr,
		migrator:   migrator,
		source:     source,
		logger:     logger,
	}
}

type GrammarOutput struct {
	Version      int      `json:"version"`
	Start        string   `json:"start"`
	Nonterminals []string `json:"nonterminals"`
	Text         string   `json:"text"`
}

type GrammarUpdateInput struct {
	Text        string `json:"text" validate:"required"`
	Description string `json:"description"`
}

type GrammarUpdateOutput struct {
	Version int    `json:"version"`
	Diff    string `json:"diff"`
	Changed bool   `json:"changed"`
}

// Current describes the grammar the translator is using
func (s *GrammarService) Current() *GrammarOutput {
	g := s.translator.Grammar()

	s.mu.Lock()
	version := s.version
	s.mu.Unlock()

	return &GrammarOutput{
		Version:      version,
		Start:        g.Start(),
		Nonterminals: g.Nonterminals(),
		Text:         g.String(),
	}
}

// Update loads text, records it as a new version when a migrator is set
// and swaps it into the translator.
func (s *GrammarService) Update(ctx context.Context, input GrammarUpdateInput) (*GrammarUpdateOutput, error) {
	if input.Text == "" {
		return nil, domain.ErrInvalidInput
	}

	g, err := grammar.Load(input.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidGrammar, err)
	}
	if g.Start() != grammar.Start {
		return nil, fmt.Errorf("%w: missing start symbol %s", domain.ErrInvalidGrammar, grammar.Start)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var diff string
	if s.migrator != nil {
		diff, err = s.migrator.ApplyMigration(g, input.Description, "api")
		if err != nil {
			return nil, fmt.Errorf("migrating grammar: %w", err)
		}
		if diff == migration.NoChanges {
			return &GrammarUpdateOutput{Version: s.version, Diff: diff}, nil
		}
		if s.version, err = s.migrator.GetCurrentVersion(); err != nil {
			return nil, fmt.Errorf("getting grammar version: %w", err)
		}
	} else {
		d := migration.GenerateDiff(s.translator.Grammar(), g)
		if d.IsEmpty() {
			return &GrammarUpdateOutput{Version: s.version, Diff: migration.NoChanges}, nil
		}
		diff = d.String()
		s.version++
	}

	s.translator.SetGrammar(g)
	s.logger.InfoContext(ctx, "grammar updated", "version", s.version, "description", input.Description)

	return &GrammarUpdateOutput{Version: s.version, Diff: diff, Changed: true}, nil
}

// Sync loads the stored grammar into the translator when its version
// differs from the one in use.
func (s *GrammarService) Sync(ctx context.Context) error {
	if s.source == nil {
		return nil
	}

	g, version, err := s.source.Active(ctx)
	if err != nil {
		if errors.Is(err, grammarstore.ErrNoGrammar) {
			return nil
		}
		return fmt.Errorf("loading stored grammar: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if version == s.version {
		return nil
	}
	s.translator.SetGrammar(g)
	s.version = version
	s.logger.InfoContext(ctx, "grammar synced", "version", version)
	return nil
}
