package search

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	opensearch "github.com/opensearch-project/opensearch-go/v4"

	"github.com/hubscout/hubscout/internal/types"
)

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		status int
		want   types.ErrorType
	}{
		{http.StatusUnauthorized, types.ErrorTypeAuthentication},
		{http.StatusForbidden, types.ErrorTypeAuthentication},
		{http.StatusNotFound, types.ErrorTypeNotFound},
		{http.StatusRequestTimeout, types.ErrorTypeNetworkTimeout},
		{http.StatusTooManyRequests, types.ErrorTypeRateLimit},
		{http.StatusInternalServerError, types.ErrorTypeResponse},
		{http.StatusBadGateway, types.ErrorTypeResponse},
		{http.StatusTeapot, types.ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			searchErr := ClassifyHTTPError(tt.status, "body")
			assert.Equal(t, tt.want, searchErr.Type)
			assert.Equal(t, tt.status, searchErr.StatusCode)
		})
	}
}

func TestClassifyHTTPErrorMissingIndexSuggestsIngestion(t *testing.T) {
	searchErr := ClassifyHTTPError(http.StatusNotFound, "index_not_found_exception")
	assert.Contains(t, searchErr.Suggestion, "hubscout index")
}

func TestClassifyConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want types.ErrorType
	}{
		{"timeout", errors.New("dial tcp: i/o timeout"), types.ErrorTypeNetworkTimeout},
		{"refused", errors.New("dial tcp 127.0.0.1:9200: connect: connection refused"), types.ErrorTypeConnection},
		{"unknown host", errors.New("dial tcp: lookup search.invalid: no such host"), types.ErrorTypeConnection},
		{"unauthorized", errors.New("401 Unauthorized"), types.ErrorTypeAuthentication},
		{"other", errors.New("something else entirely"), types.ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searchErr := ClassifyConnectionError(tt.err)
			assert.Equal(t, tt.want, searchErr.Type)
		})
	}
}

func TestClassifyConnectionErrorUsesResponseStatus(t *testing.T) {
	// Errors parsed from a backend response carry the HTTP status; the
	// classification must follow the status, not the message text.
	err := fmt.Errorf("search request failed: %w", &opensearch.StringError{Status: http.StatusNotFound})

	searchErr := ClassifyConnectionError(err)
	assert.Equal(t, types.ErrorTypeNotFound, searchErr.Type)
	assert.Equal(t, http.StatusNotFound, searchErr.StatusCode)
}
