package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"segpub/internal/diagfmt"
	"segpub/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] [report.txt|-]",
	Short: "Dump the tokens of an incident report",
	Long: `Tokenize prints the tokens the grammar consumes while checking a report.
With --free the lexer scans on its own by fixed priority instead; in that mode
dates are not recognized, since their digits already form words.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("free", false, "scan without the grammar")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := defaultInput
	if len(args) == 1 {
		filePath = args[0]
	}

	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	free, err := cmd.Flags().GetBool("free")
	if err != nil {
		return fmt.Errorf("failed to get free flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	// Выполняем токенизацию
	result, err := driver.Tokenize(cmd.Context(), filePath, free, driver.CheckOptions{
		MaxDiagnostics: maxDiagnostics,
		Stdin:          cmd.InOrStdin(),
	})
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	if result.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(colorFlag, os.Stderr),
			Context:   1,
			ShowNotes: true,
		})
	}

	// Выводим токены в выбранном формате
	if format == "json" {
		err = diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	} else {
		err = diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	}
	if err != nil {
		return err
	}
	if result.Err != nil {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("tokenization stopped: %w", result.Err)
	}
	return nil
}
