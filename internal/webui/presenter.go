package webui

import (
	"time"

	"github.com/hubscout/hubscout/internal/types"
)

// humanDateLayout renders "2023-09-18T10:00:00Z" as "18 September 2023".
const humanDateLayout = "2 January 2006"

// Present builds the summary and raw views from a result set. Zero records
// produce explicit empty views rather than empty tables.
func Present(records []types.SearchRecord) (SummaryView, RawView) {
	if len(records) == 0 {
		return SummaryView{Empty: true}, RawView{Empty: true}
	}

	rows := make([]SummaryRow, len(records))
	for i, rec := range records {
		row := SummaryRow{
			Title: rec.Title,
			URL:   rec.URL,
		}
		if date, ok := formatDate(rec.CreatedAt); ok {
			row.Date = date
			row.HasDate = true
		}
		rows[i] = row
	}

	return SummaryView{Rows: rows}, RawView{Records: records}
}

// formatDate reformats an ISO-8601 timestamp to a long human date. A
// malformed timestamp is reported via ok=false; the row is rendered
// without a date rather than failing the view.
func formatDate(createdAt string) (string, bool) {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return "", false
	}
	return t.Format(humanDateLayout), true
}
