package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/feldhaus/einkauf/internal/models"
	"github.com/feldhaus/einkauf/internal/shared"
	"golang.org/x/sync/singleflight"
)

// RefreshFunc performs the actual refresh call with the current token and
// returns the replacement.
type RefreshFunc func(ctx context.Context, token string) (*models.Token, error)

// TerminalError marks a refresh failure that retrying cannot fix (the server
// rejected the token outright). The session should be cleared.
type TerminalError struct {
	Status int
	Detail string
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("refresh rejected with status %d: %s", e.Status, e.Detail)
}

// errCooldown is returned internally when a refresh is requested inside the
// cooldown window after a successful one; callers keep the current token.
var errCooldown = errors.New("refresh inside cooldown window")

// RefresherOpts configures a Refresher.
type RefresherOpts struct {
	Refresh    RefreshFunc
	Cooldown   time.Duration // minimum gap between successful refreshes
	MaxRetries int           // retry attempts for transient failures
	BaseDelay  time.Duration // first backoff delay, doubled per attempt
	Logger     *log.Logger
}

// Refresher deduplicates and rate-limits token refreshes. Any number of
// overlapping Refresh calls collapse into a single network request via
// singleflight; transient failures are retried with exponential backoff;
// terminal failures surface as [*TerminalError].
type Refresher struct {
	refresh    RefreshFunc
	cooldown   time.Duration
	maxRetries int
	baseDelay  time.Duration
	logger     *log.Logger

	group singleflight.Group

	mu          sync.Mutex
	lastSuccess time.Time
}

// NewRefresher creates a Refresher with the provided options.
func NewRefresher(opts RefresherOpts) *Refresher {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 500 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Refresher{
		refresh:    opts.Refresh,
		cooldown:   opts.Cooldown,
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.BaseDelay,
		logger:     opts.Logger,
	}
}

// Refresh obtains a new token using the given current one. Concurrent calls
// share a single request and all receive its result. Returns (nil, nil) when
// the call lands inside the cooldown window, meaning the current token is
// still the freshest one available.
func (r *Refresher) Refresh(ctx context.Context, current string) (*models.Token, error) {
	v, err, _ := r.group.Do("refresh", func() (any, error) {
		return r.doRefresh(ctx, current)
	})
	if err != nil {
		if errors.Is(err, errCooldown) {
			return nil, nil
		}
		return nil, err
	}
	return v.(*models.Token), nil
}

func (r *Refresher) doRefresh(ctx context.Context, current string) (*models.Token, error) {
	r.mu.Lock()
	if r.cooldown > 0 && !r.lastSuccess.IsZero() && time.Since(r.lastSuccess) < r.cooldown {
		r.mu.Unlock()
		return nil, errCooldown
	}
	r.mu.Unlock()

	var lastErr error
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		if attempt > 0 {
			delay := r.baseDelay << (attempt - 1)
			r.logger.Warn("retrying token refresh", "attempt", attempt+1, "delay", delay, "error", lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		tok, err := r.refresh(ctx, current)
		if err == nil {
			r.mu.Lock()
			r.lastSuccess = time.Now()
			r.mu.Unlock()
			return tok, nil
		}

		var terminal *TerminalError
		if errors.As(err, &terminal) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, lastErr)
}

// LastSuccess returns the time of the most recent successful refresh.
func (r *Refresher) LastSuccess() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSuccess
}
