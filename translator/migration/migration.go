// File: migration/migration.go
package migration

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/dangerclosesec/transpiler"
	"github.com/dangerclosesec/transpiler/translator/grammar"
	_ "github.com/lib/pq"
)

// NoChanges is returned by ApplyMigration when the grammar is unchanged.
const NoChanges = "No changes detected. Migration skipped."

// Migrator stores versioned grammars in postgres
type Migrator struct {
	DB     *sql.DB
	prefix string
	logger *slog.Logger
}

// NewMigrator creates a new migrator from the library config
func NewMigrator(cfg *transpiler.Config) *Migrator {
	return &Migrator{
		DB:     cfg.DB(),
		prefix: cfg.TablePrefix,
		logger: cfg.Logger(),
	}
}

func (m *Migrator) table(name string) string {
	return m.prefix + name
}

// InitializeSchema initializes the database schema
func (m *Migrator) InitializeSchema() error {
	_, err := m.DB.Exec(fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		id SERIAL PRIMARY KEY,
		nonterminal TEXT NOT NULL,
		nonterminal_position INT NOT NULL,
		alternative TEXT NOT NULL,
		position INT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE(nonterminal, position)
	);

	CREATE TABLE IF NOT EXISTS %[2]s (
		id SERIAL PRIMARY KEY,
		version INT NOT NULL,
		description TEXT,
		source_file TEXT,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS %[3]s (
		id SERIAL PRIMARY KEY,
		version INT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		success BOOLEAN NOT NULL,
		errors TEXT,
		diff TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_%[1]s_order ON %[1]s(nonterminal_position, position);
	`, m.table("grammar_rules"), m.table("grammar_versions"), m.table("migration_history")))

	return err
}

// GetCurrentVersion gets the current grammar version
func (m *Migrator) GetCurrentVersion() (int, error) {
	var version int
	err := m.DB.QueryRow(fmt.Sprintf(`
		SELECT COALESCE(MAX(version), 0) FROM %s
	`, m.table("grammar_versions"))).Scan(&version)
	return version, err
}

// ApplyMigration stores g as the next grammar version. It returns the diff
// against the stored grammar, or NoChanges.
func (m *Migrator) ApplyMigration(g *grammar.Grammar, description, sourceFile string) (string, error) {
	currentVersion, err := m.GetCurrentVersion()
	if err != nil {
		return "", fmt.Errorf("failed to get current version: %w", err)
	}

	current, err := m.LoadCurrentGrammar()
	if err != nil {
		return "", fmt.Errorf("failed to load current grammar: %w", err)
	}

	diff := GenerateDiff(current, g)
	diffText := diff.String()

	if diff.IsEmpty() {
		return NoChanges, nil
	}

	newVersion := currentVersion + 1

	tx, err := m.DB.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := m.applyGrammarInTransaction(tx, g); err != nil {
		tx.Rollback()
		m.recordMigrationHistory(newVersion, false, err.Error(), diffText)
		return "", fmt.Errorf("failed to apply grammar: %w", err)
	}

	_, err = tx.Exec(fmt.Sprintf(`
		INSERT INTO %s (version, description, source_file)
		VALUES ($1, $2, $3)
	`, m.table("grammar_versions")), newVersion, description, sourceFile)
	if err != nil {
		tx.Rollback()
		return "", fmt.Errorf("failed to record version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	m.recordMigrationHistory(newVersion, true, "", diffText)
	m.logger.Info("grammar migrated", "version", newVersion, "source", sourceFile)

	return diffText, nil
}

// LoadCurrentGrammar loads the stored grammar. It returns nil when no
// grammar has been migrated yet.
func (m *Migrator) LoadCurrentGrammar() (*grammar.Grammar, error) {
	rows, err := m.DB.Query(fmt.Sprintf(`
		SELECT nonterminal, alternative
		FROM %s
		ORDER BY nonterminal_position, position
	`, m.table("grammar_rules")))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs [][2]string
	for rows.Next() {
		var nonterminal, alternative string
		if err := rows.Scan(&nonterminal, &alternative); err != nil {
			return nil, err
		}
		pairs = append(pairs, [2]string{nonterminal, alternative})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return FromRows(pairs)
}

// Version is one applied grammar version
type Version struct {
	Number      int
	Description string
	SourceFile  string
	AppliedAt   time.Time
}

// History lists applied versions, newest first
func (m *Migrator) History() ([]Version, error) {
	rows, err := m.DB.Query(fmt.Sprintf(`
		SELECT version, COALESCE(description, ''), COALESCE(source_file, ''), applied_at
		FROM %s
		ORDER BY version DESC
	`, m.table("grammar_versions")))
	if err != nil {
		return nil, fmt.Errorf("failed to query versions: %w", err)
	}
	defer rows.Close()

	var versions []Version
	for rows.Next() {
		var v Version
		if err := rows.Scan(&v.Number, &v.Description, &v.SourceFile, &v.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// FromRows rebuilds a grammar from (nonterminal, alternative) rows in
// storage order. No rows yields a nil grammar.
func FromRows(rows [][2]string) (*grammar.Grammar, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	text := make([]byte, 0, len(rows)*32)
	for _, r := range rows {
		text = append(text, r[0]...)
		text = append(text, " -> "...)
		text = append(text, r[1]...)
		text = append(text, '\n')
	}
	return grammar.Load(string(text))
}

// applyGrammarInTransaction replaces the stored rules within a transaction
func (m *Migrator) applyGrammarInTransaction(tx *sql.Tx, g *grammar.Grammar) error {
	_, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s`, m.table("grammar_rules")))
	if err != nil {
		return fmt.Errorf("failed to clear rules: %w", err)
	}

	for i, name := range g.Nonterminals() {
		for j, alt := range g.Alternatives(name) {
			_, err := tx.Exec(fmt.Sprintf(`
				INSERT INTO %s (nonterminal, nonterminal_position, alternative, position)
				VALUES ($1, $2, $3, $4)
			`, m.table("grammar_rules")), name, i, alt, j)
			if err != nil {
				return fmt.Errorf("failed to insert rule %s -> %s: %w", name, alt, err)
			}
		}
	}

	return nil
}

// recordMigrationHistory records migration history
func (m *Migrator) recordMigrationHistory(version int, success bool, errorMsg string, diff string) {
	_, err := m.DB.Exec(fmt.Sprintf(`
		INSERT INTO %s (version, success, errors, diff)
		VALUES ($1, $2, $3, $4)
	`, m.table("migration_history")), version, success, errorMsg, diff)
	if err != nil {
		m.logger.Error("failed to record migration history", "error", err)
	}
}
