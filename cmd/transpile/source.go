package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (a *app) tokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the tokens of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			tr, err := a.translator()
			if err != nil {
				return err
			}

			tokens, err := tr.Tokens(src)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, tok := range tokens {
				fmt.Fprintf(out, "%4d  %-18s %s\n", tok.Line, tok.Category, tok.Text)
			}
			if a.verbose {
				fmt.Fprintf(out, "%d tokens\n", len(tokens))
			}
			return nil
		},
	}
}

func (a *app) treeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree [file]",
		Short: "Print the parse tree of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			tr, err := a.translator()
			if err != nil {
				return err
			}

			root, err := tr.Parse(src)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), root.String())
			return nil
		},
	}
}

func (a *app) chartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chart [file]",
		Short: "Dump the Earley chart of a source file",
		Long:  `Dump every Earley state set built while recognizing a source file. The chart is printed even when recognition fails.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			tr, err := a.translator()
			if err != nil {
				return err
			}

			chart, err := tr.Chart(src)
			if chart != nil {
				out := cmd.OutOrStdout()
				fmt.Fprint(out, chart.String())
				stats := chart.Stats()
				fmt.Fprintf(out, "%d tokens, %d sets, %d states\n", stats.Tokens, stats.Sets, stats.States)
			}
			return err
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Run the semantic checks on a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			tr, err := a.translator()
			if err != nil {
				return err
			}

			if _, err := tr.Check(src); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
}

func (a *app) translateCmd() *cobra.Command {
	var (
		output  string
		noCheck bool
	)

	cmd := &cobra.Command{
		Use:   "translate [file]",
		Short: "Translate a source file to C++",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			tr, err := a.translator()
			if err != nil {
				return err
			}

			res, err := tr.Translate(src, !noCheck)
			if err != nil {
				return err
			}

			if a.verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "tokens=%d states=%d lex=%s parse=%s check=%s generate=%s\n",
					res.Tokens, res.Chart.States,
					res.Durations.Lex, res.Durations.Parse, res.Durations.Check, res.Durations.Generate)
			}

			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), res.Output)
				return nil
			}
			if output == args[0] {
				return errors.New("output would overwrite the source file")
			}
			if err := os.WriteFile(output, []byte(res.Output), 0o644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the C++ program to a file")
	cmd.Flags().BoolVar(&noCheck, "no-check", false, "Skip the semantic checks")
	return cmd
}
