package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/feldhaus/einkauf/internal/models"
	"github.com/feldhaus/einkauf/internal/shared"
	"github.com/goccy/go-json"
)

// authClient speaks directly to the server's auth endpoints. It is separate
// from the general API client because the session layer must work before any
// token exists and must not recurse into token refresh on 401.
type authClient struct {
	baseURL    string
	httpClient *http.Client
}

func newAuthClient(baseURL string, client *http.Client) *authClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &authClient{baseURL: baseURL, httpClient: client}
}

// do sends a request with an optional JSON body and bearer token and decodes
// the JSON response into result when non-nil.
func (a *authClient) do(ctx context.Context, method, path, token string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return authError(resp.StatusCode, data)
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// httpStatusError carries the HTTP status alongside the mapped sentinel so
// the refresher can tell terminal rejections from transient failures.
type httpStatusError struct {
	status int
	err    error
}

func (e *httpStatusError) Error() string { return e.err.Error() }
func (e *httpStatusError) Unwrap() error { return e.err }

// statusOf extracts the HTTP status from an error chain, or 0.
func statusOf(err error) int {
	var se *httpStatusError
	if errors.As(err, &se) {
		return se.status
	}
	return 0
}

// authError maps an auth endpoint failure to a sentinel error. The server
// reports problems as {"detail": "..."}.
func authError(status int, body []byte) error {
	detail := extractDetail(body)

	var err error
	switch status {
	case http.StatusUnauthorized:
		err = fmt.Errorf("%w: %s", shared.ErrAuthFailed, detail)
	case http.StatusForbidden:
		err = fmt.Errorf("%w: %s", shared.ErrAccountPending, detail)
	case http.StatusBadRequest:
		err = fmt.Errorf("%w: %s", shared.ErrInvalidInput, detail)
	default:
		err = fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, status, detail)
	}
	return &httpStatusError{status: status, err: err}
}

func extractDetail(body []byte) string {
	var envelope struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != "" {
		return envelope.Detail
	}
	return string(body)
}

func (a *authClient) register(ctx context.Context, user models.UserCreate) (*models.User, error) {
	var created models.User
	if err := a.do(ctx, http.MethodPost, "/api/auth/register", "", user, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (a *authClient) login(ctx context.Context, creds models.UserLogin) (*models.Token, error) {
	var token models.Token
	if err := a.do(ctx, http.MethodPost, "/api/auth/login", "", creds, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// refreshToken exchanges a still-valid token for a fresh one. 401/403 means
// the token is beyond saving and is reported as terminal.
func (a *authClient) refreshToken(ctx context.Context, current string) (*models.Token, error) {
	var token models.Token
	err := a.do(ctx, http.MethodPost, "/api/auth/refresh", current, nil, &token)
	if err != nil {
		if se := statusOf(err); se == http.StatusUnauthorized || se == http.StatusForbidden || se == http.StatusNotFound {
			return nil, &TerminalError{Status: se, Detail: err.Error()}
		}
		return nil, err
	}
	return &token, nil
}

func (a *authClient) currentUser(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := a.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authClient) deleteUser(ctx context.Context, token string) error {
	return a.do(ctx, http.MethodDelete, "/api/auth/me", token, nil, nil)
}
