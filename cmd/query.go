package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hubscout/hubscout/internal/types"
	"github.com/hubscout/hubscout/internal/webui"
)

var (
	queryText    string
	queryLimit   int
	queryMode    string
	queryJSON    bool
	queryTimeout int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a one-shot issue search from the command line",
	Long: `
Search the issue index without starting the web UI.

Examples:
  # Semantic search (default mode)
  hubscout query -q "streaming output truncated"

  # Keyword search with a custom limit
  hubscout query -q "retriever timeout" --mode bm25 -k 5

  # Hybrid search, machine-readable output
  hubscout query -q "agent tool calling" --mode hybrid --json
`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "Text query to search for (required)")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "k", 10, "Number of results to return (0-100)")
	queryCmd.Flags().StringVar(&queryMode, "mode", "neartext", "Search mode: neartext|bm25|hybrid")
	queryCmd.Flags().BoolVarP(&queryJSON, "json", "j", false, "Output results in JSON format")
	queryCmd.Flags().IntVar(&queryTimeout, "timeout", 30, "Request timeout in seconds")

	_ = queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	mode, err := types.ParseSearchMode(queryMode)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(queryTimeout)*time.Second)
	defer cancel()

	dispatcher, _, err := newDispatcher(ctx)
	if err != nil {
		return err
	}

	records, err := dispatcher.Dispatch(ctx, types.QueryRequest{
		Text:  queryText,
		Mode:  mode,
		Limit: queryLimit,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if queryJSON {
		return printJSONResults(mode, records)
	}
	printTextResults(records)
	return nil
}

func printJSONResults(mode types.SearchMode, records []types.SearchRecord) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(&webui.APISearchResponse{
		Query:   queryText,
		Mode:    mode,
		Limit:   queryLimit,
		Count:   len(records),
		Results: records,
	})
}

func printTextResults(records []types.SearchRecord) {
	summary, _ := webui.Present(records)
	if summary.Empty {
		fmt.Println("No results found.")
		return
	}

	for i, row := range summary.Rows {
		fmt.Printf("%2d. %s\n", i+1, row.Title)
		fmt.Printf("    %s\n", row.URL)
		if row.HasDate {
			fmt.Printf("    %s\n", row.Date)
		}
		fmt.Printf("    score: %.4f\n", records[i].Score)
	}
	fmt.Printf("\n%d result(s)\n", len(summary.Rows))
}
