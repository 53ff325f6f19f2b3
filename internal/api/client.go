package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/feldhaus/einkauf/internal/shared"
)

// TokenSource supplies bearer tokens for API requests. Implemented by
// session.Manager.
type TokenSource interface {
	// Token returns a currently valid access token, refreshing it when it is
	// about to expire.
	Token(ctx context.Context) (string, error)
	// RefreshToken forces a refresh and returns the new access token.
	RefreshToken(ctx context.Context) (string, error)
}

// Options configures a [Client]. BaseURL and Tokens are required.
type Options struct {
	BaseURL    string
	Tokens     TokenSource
	HTTPClient *http.Client
	Logger     *log.Logger

	// RequestsPerSecond caps outgoing request rate; zero means 10/s.
	RequestsPerSecond float64
	Burst             int
}

// Client talks to the einkauf REST API. Create one with [New] and reach the
// endpoints through the resource services.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *log.Logger

	Items     *ItemsService
	Stores    *StoresService
	Products  *ProductsService
	Units     *UnitsService
	Templates *TemplatesService
	Recipes   *RecipesService
	Weekplan  *WeekplanService
	Users     *UsersService
	Backup    *BackupService
	WebDAV    *WebDAVService
	Config    *ConfigService
}

// New creates a REST client for the server at opts.BaseURL.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 5
	}

	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: httpClient,
		tokens:     opts.Tokens,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		logger:     logger,
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "einkauf-api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
		// Client-side errors must not trip the breaker; only transport
		// failures and server errors count.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError
		},
	})

	c.Items = &ItemsService{c}
	c.Stores = &StoresService{c}
	c.Products = &ProductsService{c}
	c.Units = &UnitsService{c}
	c.Templates = &TemplatesService{c}
	c.Recipes = &RecipesService{c}
	c.Weekplan = &WeekplanService{c}
	c.Users = &UsersService{c}
	c.Backup = &BackupService{c}
	c.WebDAV = &WebDAVService{c}
	c.Config = &ConfigService{c}

	return c
}

// do performs one authenticated request. A 401 triggers a single forced token
// refresh and retry; a second 401 surfaces as [shared.ErrNotAuthenticated].
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	data, err := c.roundTrip(ctx, method, path, query, payload, token)
	if err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
			return err
		}

		c.logger.Debug("request rejected, refreshing token", "method", method, "path", path)
		token, err = c.tokens.RefreshToken(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
		}
		data, err = c.roundTrip(ctx, method, path, query, payload, token)
		if err != nil {
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
				return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, apiErr.Detail)
			}
			return err
		}
	}

	if result == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// roundTrip sends a single HTTP request through the circuit breaker and
// returns the response body. Non-2xx statuses come back as *APIError.
func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, payload []byte, token string) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	return c.breaker.Execute(func() ([]byte, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode >= http.StatusBadRequest {
			return nil, newAPIError(resp.StatusCode, body)
		}
		return body, nil
	})
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, result)
}

func (c *Client) put(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, result)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
