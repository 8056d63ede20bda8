package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	appconfig "github.com/hubscout/hubscout/internal/config"
	"github.com/hubscout/hubscout/internal/github"
)

var (
	fetchRepo string
	fetchDir  string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch GitHub issues and write a local JSONL snapshot",
	Long: `
The fetch command pulls all issues (pull requests excluded) for the
configured repository from the GitHub REST API and writes them to a
dated JSONL snapshot file for later indexing.

Requires GITHUB_PERSONAL_ACCESS_TOKEN.

Example:
  hubscout fetch
  hubscout fetch --repo langchain-ai/langchain --dir ./data
`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchRepo, "repo", "", "Repository to fetch in owner/name form (defaults to config)")
	fetchCmd.Flags().StringVar(&fetchDir, "dir", "", "Directory for the snapshot file (defaults to config)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := appconfig.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.GitHubToken == "" {
		return fmt.Errorf("GITHUB_PERSONAL_ACCESS_TOKEN environment variable not set")
	}

	repo := cfg.GitHubRepository
	if fetchRepo != "" {
		repo = fetchRepo
	}
	dir := cfg.SnapshotDir
	if fetchDir != "" {
		dir = fetchDir
	}

	log.Printf("Fetching issues for %s", repo)

	loader := github.NewIssuesLoader(cfg.GitHubToken, "", repo)
	issues, err := loader.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch issues: %w", err)
	}

	path, err := github.WriteSnapshot(issues, dir, github.SnapshotLabel(repo))
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	log.Printf("Wrote %d issues to %s", len(issues), path)
	return nil
}
