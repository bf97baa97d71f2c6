package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docweave/docsearch/internal/searcher"
)

var (
	flagLimit       int
	flagContext     string
	flagAllContexts bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a one-shot search against the corpus",
	Long: "Run a one-shot keyword search against the corpus and print ranked results.\n" +
		"The semantic layer needs a running server to warm up, so one-shot\n" +
		"searches score by keywords alone.",
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&flagLimit, "limit", "n", searcher.DefaultLimit, "maximum results")
	searchCmd.Flags().StringVar(&flagContext, "context", "", "documentation context token (default: current version)")
	searchCmd.Flags().BoolVar(&flagAllContexts, "all-contexts", false, "search every documentation context")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	if err := a.loader.Start(ctx); err != nil {
		return err
	}

	query := strings.Join(args, " ")
	response, err := a.engine.Search(ctx, searcher.SearchRequest{
		Query:       query,
		Limit:       flagLimit,
		Context:     flagContext,
		AllContexts: flagAllContexts,
	})
	if err != nil {
		return err
	}

	if len(response.Results) == 0 {
		fmt.Printf("no results for %q\n", query)
		return nil
	}

	for i, r := range response.Results {
		fmt.Printf("%2d. %s  (%s, score %.2f)\n", i+1, r.Document.Title, r.Document.Slug, r.FinalScore)
		preview := strings.ReplaceAll(r.HighlightedPreview, "<mark>", "")
		preview = strings.ReplaceAll(preview, "</mark>", "")
		fmt.Printf("    %s\n", preview)
	}
	fmt.Printf("\n%d result(s) in %s\n", response.TotalResults, response.Duration)
	return nil
}
