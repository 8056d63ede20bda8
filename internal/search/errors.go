package search

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	opensearch "github.com/opensearch-project/opensearch-go/v4"

	"github.com/hubscout/hubscout/internal/types"
)

// SearchError is a classified backend failure. Dispatch surfaces it to the
// caller as-is; nothing in this package retries.
type SearchError struct {
	Type       types.ErrorType `json:"type"`
	Message    string          `json:"message"`
	StatusCode int             `json:"status_code,omitempty"`
	Query      string          `json:"query,omitempty"`
	Suggestion string          `json:"suggestion,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

func (e *SearchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] %s (HTTP %d)", e.Type, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func NewSearchError(errType types.ErrorType, message string) *SearchError {
	return &SearchError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func ClassifyHTTPError(statusCode int, body string) *SearchError {
	switch statusCode {
	case http.StatusUnauthorized:
		return &SearchError{
			Type:       types.ErrorTypeAuthentication,
			Message:    "authentication with the search backend failed",
			StatusCode: statusCode,
			Suggestion: "check that OPENSEARCH_API_KEY is valid",
			Timestamp:  time.Now(),
		}
	case http.StatusForbidden:
		return &SearchError{
			Type:       types.ErrorTypeAuthentication,
			Message:    "access to the search backend was denied",
			StatusCode: statusCode,
			Suggestion: "check that the API key grants access to the index",
			Timestamp:  time.Now(),
		}
	case http.StatusNotFound:
		return &SearchError{
			Type:       types.ErrorTypeNotFound,
			Message:    "the requested index or endpoint was not found",
			StatusCode: statusCode,
			Suggestion: "check OPENSEARCH_ENDPOINT and OPENSEARCH_INDEX, and run 'hubscout index' to create the index",
			Timestamp:  time.Now(),
		}
	case http.StatusRequestTimeout:
		return &SearchError{
			Type:       types.ErrorTypeNetworkTimeout,
			Message:    "the search request timed out",
			StatusCode: statusCode,
			Suggestion: "check network connectivity and backend load",
			Timestamp:  time.Now(),
		}
	case http.StatusTooManyRequests:
		return &SearchError{
			Type:       types.ErrorTypeRateLimit,
			Message:    "the search backend rate limit was reached",
			StatusCode: statusCode,
			Suggestion: "lower OPENSEARCH_RATE_LIMIT or wait before querying again",
			Timestamp:  time.Now(),
		}
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return &SearchError{
			Type:       types.ErrorTypeResponse,
			Message:    "the search backend reported a server error",
			StatusCode: statusCode,
			Suggestion: "check the backend cluster status",
			Timestamp:  time.Now(),
		}
	default:
		return &SearchError{
			Type:       types.ErrorTypeUnknown,
			Message:    fmt.Sprintf("unexpected HTTP error: %s", body),
			StatusCode: statusCode,
			Timestamp:  time.Now(),
		}
	}
}

func ClassifyConnectionError(err error) *SearchError {
	// Responses the backend answered with an error status carry the code;
	// classify those by status before falling back to message inspection.
	var structErr *opensearch.StructError
	if errors.As(err, &structErr) {
		return ClassifyHTTPError(structErr.Status, structErr.Error())
	}
	var stringErr *opensearch.StringError
	if errors.As(err, &stringErr) {
		return ClassifyHTTPError(stringErr.Status, stringErr.Error())
	}

	errMsg := err.Error()

	if strings.Contains(errMsg, "timeout") {
		return &SearchError{
			Type:       types.ErrorTypeNetworkTimeout,
			Message:    "connection to the search backend timed out",
			Suggestion: "check network connectivity and OPENSEARCH_ENDPOINT",
			Timestamp:  time.Now(),
		}
	}

	if strings.Contains(errMsg, "connection refused") {
		return &SearchError{
			Type:       types.ErrorTypeConnection,
			Message:    "connection to the search backend was refused",
			Suggestion: "check that OPENSEARCH_ENDPOINT host and port are correct",
			Timestamp:  time.Now(),
		}
	}

	if strings.Contains(errMsg, "no such host") {
		return &SearchError{
			Type:       types.ErrorTypeConnection,
			Message:    "search backend host not found",
			Suggestion: "check the hostname in OPENSEARCH_ENDPOINT",
			Timestamp:  time.Now(),
		}
	}

	if strings.Contains(errMsg, "401") || strings.Contains(errMsg, "Unauthorized") {
		return &SearchError{
			Type:       types.ErrorTypeAuthentication,
			Message:    "authentication with the search backend failed",
			Suggestion: "check that OPENSEARCH_API_KEY is valid",
			Timestamp:  time.Now(),
		}
	}

	return &SearchError{
		Type:      types.ErrorTypeUnknown,
		Message:   fmt.Sprintf("connection error: %v", err),
		Timestamp: time.Now(),
	}
}
