package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docweave/docsearch/internal/index"
)

var flagSuggestLimit int

var suggestCmd = &cobra.Command{
	Use:   "suggest <partial>",
	Short: "Print autocomplete completions for a partial query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggest,
}

func init() {
	suggestCmd.Flags().IntVarP(&flagSuggestLimit, "limit", "n", index.DefaultSuggestionLimit, "maximum suggestions")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	if err := a.loader.Start(ctx); err != nil {
		return err
	}

	partial := strings.Join(args, " ")
	for _, s := range a.engine.Suggest(partial, flagSuggestLimit) {
		fmt.Println(s)
	}
	return nil
}
