package webui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hubscout/hubscout/internal/types"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exact", truncate("exact", 5))
	assert.Equal(t, "abcde…", truncate("abcdefgh", 5))

	// Rune-safe for multibyte text.
	assert.Equal(t, "日本語…", truncate("日本語テキスト", 3))
}

func TestJoinLabels(t *testing.T) {
	assert.Equal(t, "-", joinLabels(nil))
	assert.Equal(t, "bug, help wanted", joinLabels([]string{"bug", "help wanted"}))
}

func TestStateClass(t *testing.T) {
	assert.Equal(t, "state-open", stateClass(types.IssueStateOpen))
	assert.Equal(t, "state-closed", stateClass(types.IssueStateClosed))
}

func TestTemplatesRenderDescriptionColumn(t *testing.T) {
	tm, err := NewTemplateManager()
	assert.NoError(t, err)

	var buf strings.Builder
	err = tm.Render(&buf, "results.html", &ResultsData{
		Query: "q",
		Raw: RawView{Records: []types.SearchRecord{
			{Title: "T", URL: "https://example.com", Description: "a very descriptive body"},
		}},
		Summary: SummaryView{Rows: []SummaryRow{{Title: "T", URL: "https://example.com"}}},
	})
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "a very descriptive body")
	assert.Contains(t, buf.String(), "<th>Description</th>")
}
