// cmd/transpile/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dangerclosesec/transpiler"
	"github.com/dangerclosesec/transpiler/internal/config"
	"github.com/dangerclosesec/transpiler/translator"
	"github.com/dangerclosesec/transpiler/translator/migration"
	"github.com/spf13/cobra"
)

// app carries the global flags shared by every command
type app struct {
	grammarPath  string
	dbConnString string
	verbose      bool

	cfg *config.Config
}

func main() {
	if err := execute(newRootCmd(config.Load())); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	a := &app{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:           "transpile",
		Short:         "Translate a Java subset to C++",
		Long:          `transpile lexes, parses, checks and translates single-class Java programs into C++, and manages the grammar used by the parser.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.grammarPath, "grammar", "g", cfg.Translator.GrammarPath, "Grammar file overriding the embedded grammar")
	rootCmd.PersistentFlags().StringVarP(&a.dbConnString, "db", "d", "", "Database connection string")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(
		a.tokensCmd(),
		a.treeCmd(),
		a.chartCmd(),
		a.checkCmd(),
		a.translateCmd(),
		a.grammarCmd(),
		a.tokenCmd(),
	)

	return rootCmd
}

// execute runs cmd and prints its failure
func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), describe(err))
	}
	return err
}

// describe renders pipeline failures by stage
func describe(err error) string {
	if se := translator.Describe(err); se != nil {
		return fmt.Sprintf("%s error in line %d: %s", se.Stage, se.Line, se.Message)
	}
	return "error: " + err.Error()
}

func (a *app) libConfig(db *sql.DB) *transpiler.Config {
	tcfg := transpiler.NewConfig(context.Background(), db)
	tcfg.SetLogger(slog.Default())
	tcfg.SetTablePrefix(a.cfg.Translator.TablePrefix)
	if a.grammarPath != "" {
		tcfg.SetGrammarPath(a.grammarPath)
	}
	return tcfg
}

func (a *app) translator() (*translator.Translator, error) {
	return translator.New(a.libConfig(nil))
}

// openDB opens the grammar database named by --db, falling back to the
// environment configuration when the database is enabled there.
func (a *app) openDB() (*sql.DB, error) {
	conn := a.dbConnString
	if conn == "" && a.cfg.Database.Enabled {
		conn = a.cfg.DatabaseURL()
	}
	if conn == "" {
		return nil, errors.New("database connection string is required (--db)")
	}

	db, err := sql.Open("postgres", conn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (a *app) migrator() (*migration.Migrator, func(), error) {
	db, err := a.openDB()
	if err != nil {
		return nil, nil, err
	}
	return migration.NewMigrator(a.libConfig(db)), func() { db.Close() }, nil
}

// readSource reads a .java file, or standard input for "-"
func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	if !strings.EqualFold(filepath.Ext(path), translator.SourceExtension) {
		return "", fmt.Errorf("%w: %s", translator.ErrUnsupportedFile, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}
	return string(data), nil
}
