package github

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hubscout/hubscout/internal/types"
)

// SnapshotLabel derives the filename label from an "owner/repo" string.
func SnapshotLabel(repo string) string {
	if idx := strings.LastIndex(repo, "/"); idx >= 0 && idx+1 < len(repo) {
		return repo[idx+1:]
	}
	return repo
}

// WriteSnapshot stores issues as a dated JSONL file, one issue per line,
// and returns the file path.
func WriteSnapshot(issues []types.Issue, dir, label string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	fileName := fmt.Sprintf("%s-github-issues-%s.jsonl", label, time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, fileName)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, issue := range issues {
		line, err := json.Marshal(issue)
		if err != nil {
			return "", fmt.Errorf("failed to marshal issue #%d: %w", issue.Number, err)
		}
		if _, err := w.Write(line); err != nil {
			return "", fmt.Errorf("failed to write snapshot: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return "", fmt.Errorf("failed to write snapshot: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush snapshot: %w", err)
	}

	log.Printf("Stored %d issues to %s", len(issues), path)
	return path, nil
}

// ReadSnapshot loads issues from a JSONL snapshot file.
func ReadSnapshot(path string) ([]types.Issue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer f.Close()

	var issues []types.Issue
	scanner := bufio.NewScanner(f)
	// Issue bodies can be long; allow lines up to 10 MiB.
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var issue types.Issue
		if err := json.Unmarshal([]byte(line), &issue); err != nil {
			return nil, fmt.Errorf("malformed snapshot line %d: %w", lineNo, err)
		}
		issues = append(issues, issue)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	return issues, nil
}
