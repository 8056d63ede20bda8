package webui

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/hubscout/hubscout/internal/search"
	"github.com/hubscout/hubscout/internal/types"
)

// handleIndex handles the search page
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := &PageData{
		DataSource: s.dataSource,
		Modes:      s.modes.Options(),
		Limit:      s.config.DefaultLimit,
	}

	if err := s.templates.Render(w, "index.html", data); err != nil {
		s.logger.Printf("Failed to render index: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handlePartialResults handles the results partial for HTMX
func (s *Server) handlePartialResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if modeParam := r.FormValue("mode"); modeParam != "" {
		if mode, err := types.ParseSearchMode(modeParam); err == nil {
			s.modes.Toggle(mode)
		}
	}

	req := types.QueryRequest{
		Text:  r.FormValue("query"),
		Mode:  s.modes.Active(),
		Limit: parseLimit(r.FormValue("limit"), s.config.DefaultLimit),
	}

	data := &ResultsData{
		Query: req.Text,
		Mode:  req.Mode,
	}

	records, err := s.searcher.Dispatch(r.Context(), req)
	if err != nil {
		// Backend failures are surfaced inline; the server keeps serving.
		s.logger.Printf("Search failed (mode=%s): %v", req.Mode, err)
		data.HasError = true
		data.Error = err.Error()
	} else {
		data.Summary, data.Raw = Present(records)
	}

	if err := s.templates.Render(w, "results.html", data); err != nil {
		s.logger.Printf("Failed to render results partial: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handlePartialMode handles mode toggle updates for HTMX
func (s *Server) handlePartialMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	mode, err := types.ParseSearchMode(r.FormValue("mode"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.modes.Toggle(mode)
	w.WriteHeader(http.StatusNoContent)
}

// handleAPISearch handles the JSON search API
func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	mode := s.modes.Active()
	if modeParam := r.URL.Query().Get("mode"); modeParam != "" {
		parsed, err := types.ParseSearchMode(modeParam)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error(), string(types.ErrorTypeValidation))
			return
		}
		mode = parsed
	}

	req := types.QueryRequest{
		Text:  r.URL.Query().Get("q"),
		Mode:  mode,
		Limit: parseLimit(r.URL.Query().Get("limit"), s.config.DefaultLimit),
	}

	records, err := s.searcher.Dispatch(r.Context(), req)
	if err != nil {
		s.logger.Printf("API search failed (mode=%s): %v", req.Mode, err)

		status := http.StatusBadGateway
		errType := string(types.ErrorTypeUnknown)
		var searchErr *search.SearchError
		if errors.As(err, &searchErr) {
			errType = string(searchErr.Type)
			if searchErr.Type == types.ErrorTypeValidation {
				status = http.StatusBadRequest
			}
		}
		writeJSONError(w, status, err.Error(), errType)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(&APISearchResponse{
		Query:   req.Text,
		Mode:    req.Mode,
		Limit:   req.Limit,
		Count:   len(records),
		Results: records,
	}); err != nil {
		s.logger.Printf("Failed to encode search response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message, errType string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&APIErrorResponse{Error: message, Type: errType})
}

// parseLimit parses the form/query limit, falling back to the default on
// absent or unparsable input. Range clamping belongs to the dispatcher.
func parseLimit(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return limit
}
