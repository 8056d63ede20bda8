package webui

import (
	"github.com/hubscout/hubscout/internal/types"
)

// SummaryRow is one issue in the summary view: title linked to the issue
// URL, plus a human-readable creation date when one could be parsed.
type SummaryRow struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Date    string `json:"date,omitempty"`
	HasDate bool   `json:"has_date"`
}

// SummaryView is the condensed result listing.
type SummaryView struct {
	Rows  []SummaryRow `json:"rows"`
	Empty bool         `json:"empty"`
}

// RawView is the unmodified tabular projection of all record fields.
type RawView struct {
	Records []types.SearchRecord `json:"records"`
	Empty   bool                 `json:"empty"`
}

// ModeOption is one mode toggle rendered in the search form.
type ModeOption struct {
	Mode   types.SearchMode
	Label  string
	Active bool
}

// PageData is the root template payload.
type PageData struct {
	DataSource string
	Modes      []ModeOption
	Query      string
	Limit      int
	Results    *ResultsData
}

// ResultsData is the payload for the results partial.
type ResultsData struct {
	Query    string
	Mode     types.SearchMode
	Summary  SummaryView
	Raw      RawView
	Error    string
	HasError bool
}

// APISearchResponse is the JSON search API payload.
type APISearchResponse struct {
	Query   string               `json:"query"`
	Mode    types.SearchMode     `json:"mode"`
	Limit   int                  `json:"limit"`
	Count   int                  `json:"count"`
	Results []types.SearchRecord `json:"results"`
}

// APIErrorResponse is the JSON error payload.
type APIErrorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}
