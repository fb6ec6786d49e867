package transpiler

import (
	"context"
	"database/sql"
	"log/slog"
)

// Config holds the settings shared by the translation pipeline and the
// grammar migration tooling.
type Config struct {
	// ctx is the context for all operations.
	ctx context.Context

	// logger is the logger used for logging messages.
	logger *slog.Logger

	// TablePrefix is the prefix for all grammar tables.
	// Default is "transpiler_".
	TablePrefix string

	// GrammarPath overrides the embedded grammar when set.
	GrammarPath string

	// db is the database connection used for grammar migrations.
	db *sql.DB
}

func NewConfig(ctx context.Context, db *sql.DB) *Config {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Config{
		ctx:         ctx,
		logger:      slog.Default(),
		TablePrefix: "transpiler_",
		db:          db,
	}
}

// SetTablePrefix sets the table prefix for all tables.
func (c *Config) SetTablePrefix(prefix string) {
	c.TablePrefix = prefix
}

// SetGrammarPath points the pipeline at a grammar file on disk.
func (c *Config) SetGrammarPath(path string) {
	c.GrammarPath = path
}

// SetDB sets the database connection.
func (c *Config) SetDB(db *sql.DB) {
	c.db = db
}

// SetLogger sets the logger.
func (c *Config) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// Context returns the configured context, falling back to Background.
func (c *Config) Context() context.Context {
	if c == nil || c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// Logger returns the configured logger, falling back to slog.Default.
func (c *Config) Logger() *slog.Logger {
	if c == nil || c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// DB returns the database connection, which may be nil.
func (c *Config) DB() *sql.DB {
	if c == nil {
		return nil
	}
	return c.db
}
