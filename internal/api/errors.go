package api

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/feldhaus/einkauf/internal/shared"
)

// APIError is a non-2xx response from the server, carrying the FastAPI
// `detail` message when present. It unwraps to a [shared] sentinel matching
// the status class so callers can use errors.Is.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return shared.ErrNotFound
	case http.StatusForbidden:
		return shared.ErrForbidden
	case http.StatusConflict:
		return shared.ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return shared.ErrInvalidInput
	}
	if e.Status >= http.StatusInternalServerError {
		return shared.ErrServiceUnavailable
	}
	return shared.ErrAPIRequest
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Detail string `json:"detail"`
	}
	// The detail field is best effort; validation errors nest objects here.
	_ = json.Unmarshal(body, &payload)
	return &APIError{Status: status, Detail: payload.Detail}
}
