package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	appconfig "github.com/hubscout/hubscout/internal/config"
	"github.com/hubscout/hubscout/internal/github"
	"github.com/hubscout/hubscout/internal/ingest"
)

var (
	indexSnapshot  string
	indexBatchSize int
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Load an issue snapshot into the search index",
	Long: `
The index command reads a JSONL issue snapshot, deletes and recreates
the search index schema, generates an embedding for every issue, and
bulk-loads the documents in batches.

Example:
  hubscout index                              # Latest snapshot in the snapshot dir
  hubscout index --snapshot ./data/issues.jsonl --batch-size 50
`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexSnapshot, "snapshot", "", "Snapshot file to load (defaults to newest in snapshot dir)")
	indexCmd.Flags().IntVar(&indexBatchSize, "batch-size", 0, "Documents per bulk request (defaults to config)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := appconfig.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	snapshotPath := indexSnapshot
	if snapshotPath == "" {
		snapshotPath, err = latestSnapshot(cfg.SnapshotDir)
		if err != nil {
			return err
		}
	}

	issues, err := github.ReadSnapshot(snapshotPath)
	if err != nil {
		return fmt.Errorf("failed to read snapshot %s: %w", snapshotPath, err)
	}
	if len(issues) == 0 {
		return fmt.Errorf("snapshot %s contains no issues", snapshotPath)
	}
	log.Printf("Loaded %d issues from %s", len(issues), snapshotPath)

	client, err := newSearchClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create search client: %w", err)
	}

	// Test connection
	if err := client.HealthCheck(cmd.Context()); err != nil {
		return fmt.Errorf("OpenSearch health check failed: %w", err)
	}

	embedder, err := newEmbeddingClient(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	batchSize := cfg.IngestBatchSize
	if indexBatchSize > 0 {
		batchSize = indexBatchSize
	}

	ingestor := ingest.NewIngestor(client, embedder, cfg.OpenSearchIndex, batchSize)
	result, err := ingestor.Run(cmd.Context(), issues)
	if err != nil {
		return err
	}

	log.Printf("Indexed %d/%d issues into %q", result.IndexedCount, result.TotalIssues, cfg.OpenSearchIndex)
	return nil
}

// latestSnapshot picks the most recently written JSONL snapshot in dir.
// Filename order is not enough: the repository label precedes the date, so
// snapshots of different repositories would sort by label.
func latestSnapshot(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*-github-issues-*.jsonl"))
	if err != nil {
		return "", fmt.Errorf("failed to scan snapshot directory: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no snapshots found in %s; run 'hubscout fetch' first", dir)
	}

	var latest string
	var latestMod time.Time
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("snapshot %s is not readable: %w", path, err)
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest = path
			latestMod = info.ModTime()
		}
	}
	return latest, nil
}
