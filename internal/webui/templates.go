package webui

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/hubscout/hubscout/internal/types"
)

//go:embed templates/*.html templates/partials/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFiles embed.FS

// TemplateManager manages HTML templates
type TemplateManager struct {
	templates *template.Template
}

// NewTemplateManager creates a new template manager
func NewTemplateManager() (*TemplateManager, error) {
	funcMap := template.FuncMap{
		"formatScore": formatScore,
		"joinLabels":  joinLabels,
		"stateClass":  stateClass,
		"truncate":    truncate,
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(
		templatesFS, "templates/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &TemplateManager{
		templates: tmpl,
	}, nil
}

// Render renders a template to the writer
func (tm *TemplateManager) Render(w io.Writer, name string, data interface{}) error {
	return tm.templates.ExecuteTemplate(w, name, data)
}

// formatScore formats a relevance score for display
func formatScore(score float64) string {
	return fmt.Sprintf("%.4f", score)
}

// joinLabels renders a label set as a comma-separated string
func joinLabels(labels []string) string {
	if len(labels) == 0 {
		return "-"
	}
	return strings.Join(labels, ", ")
}

// truncate shortens text to max runes for table display
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}

// stateClass returns a CSS class based on issue state
func stateClass(state types.IssueState) string {
	if state == types.IssueStateClosed {
		return "state-closed"
	}
	return "state-open"
}
