package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hubscout",
	Short: "hubscout - semantic search over GitHub issues",
	Long: `hubscout is a CLI tool for searching GitHub issues with dense-vector,
BM25, and hybrid queries against an OpenSearch backend, plus the data
pipeline that fetches issues and loads them into the index.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(indexCmd)
}
