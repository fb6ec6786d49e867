// Package grammarstore reads the active grammar version written by the
// migration tooling.
package grammarstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dangerclosesec/transpiler/translator/grammar"
	"github.com/dangerclosesec/transpiler/translator/migration"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoGrammar is returned when nothing has been migrated yet.
var ErrNoGrammar = errors.New("no grammar stored")

// Store caches the latest grammar version read through a pgx pool.
type Store struct {
	Pool   *pgxpool.Pool
	prefix string

	mu      sync.RWMutex
	cached  *grammar.Grammar
	version int
}

// New connects to the database and verifies the connection.
func New(ctx context.Context, connString, tablePrefix string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{Pool: pool, prefix: tablePrefix}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.Pool.Close()
}

// Version returns the newest stored version number.
func (s *Store) Version(ctx context.Context) (int, error) {
	var version int
	err := s.Pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT COALESCE(MAX(version), 0) FROM %sgrammar_versions
	`, s.prefix)).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to query grammar version: %w", err)
	}
	return version, nil
}

// Active returns the newest grammar and its version. Rules are only read
// again when the version moved.
func (s *Store) Active(ctx context.Context) (*grammar.Grammar, int, error) {
	version, err := s.Version(ctx)
	if err != nil {
		return nil, 0, err
	}
	if version == 0 {
		return nil, 0, ErrNoGrammar
	}

	s.mu.RLock()
	if s.cached != nil && s.version == version {
		g := s.cached
		s.mu.RUnlock()
		return g, version, nil
	}
	s.mu.RUnlock()

	g, err := s.load(ctx)
	if err != nil {
		return nil, 0, err
	}

	s.mu.Lock()
	s.cached = g
	s.version = version
	s.mu.Unlock()

	return g, version, nil
}

func (s *Store) load(ctx context.Context) (*grammar.Grammar, error) {
	rows, err := s.Pool.Query(ctx, fmt.Sprintf(`
		SELECT nonterminal, alternative
		FROM %sgrammar_rules
		ORDER BY nonterminal_position, position
	`, s.prefix))
	if err != nil {
		return nil, fmt.Errorf("failed to query grammar rules: %w", err)
	}
	defer rows.Close()

	var pairs [][2]string
	for rows.Next() {
		var nonterminal, alternative string
		if err := rows.Scan(&nonterminal, &alternative); err != nil {
			return nil, fmt.Errorf("failed to scan grammar rule: %w", err)
		}
		pairs = append(pairs, [2]string{nonterminal, alternative})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read grammar rules: %w", err)
	}

	g, err := migration.FromRows(pairs)
	if err != nil {
		return nil, fmt.Errorf("stored grammar is invalid: %w", err)
	}
	if g == nil {
		return nil, ErrNoGrammar
	}
	return g, nil
}
