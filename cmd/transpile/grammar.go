package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dangerclosesec/transpiler/translator/migration"
	"github.com/spf13/cobra"
)

func (a *app) grammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Inspect and version the parser grammar",
	}
	cmd.AddCommand(a.grammarShowCmd(), a.grammarDiffCmd(), a.grammarMigrateCmd(), a.grammarVersionCmd())
	return cmd
}

func (a *app) grammarShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.translator()
			if err != nil {
				return err
			}
			g := tr.Grammar()
			fmt.Fprint(cmd.OutOrStdout(), g.String())
			if a.verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "\n# %d nonterminals, %d terminals\n", len(g.Nonterminals()), len(g.Terminals()))
			}
			return nil
		},
	}
}

func (a *app) grammarDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show differences between the active grammar and the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.translator()
			if err != nil {
				return err
			}
			m, closeDB, err := a.migrator()
			if err != nil {
				return err
			}
			defer closeDB()

			current, err := m.LoadCurrentGrammar()
			if err != nil {
				return fmt.Errorf("failed to load current grammar: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), migration.GenerateDiff(current, tr.Grammar()).String())
			return nil
		},
	}
}

func (a *app) grammarMigrateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Store the active grammar as a new version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.translator()
			if err != nil {
				return err
			}
			m, closeDB, err := a.migrator()
			if err != nil {
				return err
			}
			defer closeDB()

			if err := m.InitializeSchema(); err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}

			source := "embedded"
			if a.grammarPath != "" {
				source = filepath.Base(a.grammarPath)
			}
			if description == "" {
				description = fmt.Sprintf("Migration from %s at %s", source, time.Now().Format(time.RFC3339))
			}

			diff, err := m.ApplyMigration(tr.Grammar(), description, source)
			if err != nil {
				return fmt.Errorf("failed to apply migration: %w", err)
			}

			out := cmd.OutOrStdout()
			if diff == migration.NoChanges {
				fmt.Fprintln(out, diff)
				return nil
			}

			fmt.Fprintln(out, "Migration applied successfully")
			if a.verbose {
				fmt.Fprintln(out, "\nChanges:")
				fmt.Fprintln(out, diff)
			}

			version, err := m.GetCurrentVersion()
			if err != nil {
				return fmt.Errorf("failed to get current version: %w", err)
			}
			fmt.Fprintf(out, "Current version: %d\n", version)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Description recorded with the version")
	return cmd
}

func (a *app) grammarVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the stored grammar version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeDB, err := a.migrator()
			if err != nil {
				return err
			}
			defer closeDB()

			version, err := m.GetCurrentVersion()
			if err != nil {
				return fmt.Errorf("failed to get current version: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Current grammar version: %d\n", version)
			if !a.verbose {
				return nil
			}

			history, err := m.History()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "\nVersion history:")
			fmt.Fprintln(out, "----------------")
			for _, v := range history {
				fmt.Fprintf(out, "Version %d (applied %s)\n", v.Number, v.AppliedAt.Format(time.RFC3339))
				fmt.Fprintf(out, "  Source: %s\n", v.SourceFile)
				fmt.Fprintf(out, "  Description: %s\n\n", v.Description)
			}
			return nil
		},
	}
}
