package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cslayout/internal/diag"
	"cslayout/internal/diagfmt"
	"cslayout/internal/driver"
	"cslayout/internal/parser"
	"cslayout/internal/syntax"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.cs",
	Short: "Print the tokens of a C# file with their trivia",
	Long:  `Tokenize lexes a C# file and prints every token together with its leading and trailing trivia`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("tree", false, "print the syntax tree instead of the token list")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	showTree, err := cmd.Flags().GetBool("tree")
	if err != nil {
		return fmt.Errorf("failed to get tree flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Tokenize(filePath, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	var tree *syntax.Tree
	if showTree {
		tree = parser.Parse(result.File, result.Tokens, parser.Options{
			Reporter: diag.BagReporter{Bag: result.Bag},
		})
	}

	// Лексические и синтаксические ошибки в stderr, токены всё равно печатаем
	if result.Bag.Len() > 0 {
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   useColor(cmd, os.Stderr),
			Context: 2,
		})
	}

	out := cmd.OutOrStdout()
	if tree != nil {
		_, err := fmt.Fprint(out, tree.Dump(tree.Root))
		return err
	}
	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(out, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
