package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/feldhaus/einkauf/internal/models"
	"github.com/feldhaus/einkauf/internal/shared"
)

// ManagerOpts configures a session Manager.
type ManagerOpts struct {
	BaseURL    string
	Store      *Store
	HTTPClient *http.Client
	Logger     *log.Logger
	// RefreshLead is how long before expiry a token counts as expiring.
	RefreshLead time.Duration
	// RefreshCooldown is the minimum gap between successful refreshes.
	RefreshCooldown time.Duration
	// RefreshMaxRetries bounds retries of transient refresh failures.
	RefreshMaxRetries int
}

// Manager owns the session lifecycle: login, registration, logout, account
// deletion, and handing out a valid bearer token on demand.
type Manager struct {
	store     *Store
	auth      *authClient
	refresher *Refresher
	lead      time.Duration
	logger    *log.Logger

	mu    sync.Mutex
	state *State
}

// NewManager creates a session manager talking to the server at BaseURL.
func NewManager(opts ManagerOpts) (*Manager, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("%w: server base URL is required", shared.ErrInvalidConfig)
	}
	if opts.Store == nil {
		store, err := NewStore("")
		if err != nil {
			return nil, err
		}
		opts.Store = store
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.RefreshLead <= 0 {
		opts.RefreshLead = time.Minute
	}

	auth := newAuthClient(opts.BaseURL, opts.HTTPClient)
	m := &Manager{
		store:  opts.Store,
		auth:   auth,
		lead:   opts.RefreshLead,
		logger: opts.Logger,
	}
	m.refresher = NewRefresher(RefresherOpts{
		Refresh:    auth.refreshToken,
		Cooldown:   opts.RefreshCooldown,
		MaxRetries: opts.RefreshMaxRetries,
		Logger:     opts.Logger,
	})

	return m, nil
}

// stateFromToken converts a Token response into a persisted State.
// expires_in is authoritative when the server sends it; otherwise the exp
// claim inside the JWT is used.
func stateFromToken(tok *models.Token, now time.Time) (*State, error) {
	expClaim, subject, err := DecodeToken(tok.AccessToken)
	if err != nil {
		return nil, err
	}

	expiresAt := expClaim
	if tok.ExpiresIn > 0 {
		expiresAt = now.Add(time.Duration(tok.ExpiresIn) * time.Second)
	}

	return &State{
		AccessToken: tok.AccessToken,
		Username:    subject,
		ObtainedAt:  now,
		ExpiresAt:   expiresAt,
	}, nil
}

// Register creates a new account. The account starts unapproved; logging in
// succeeds only after another user or an admin approves it.
func (m *Manager) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	return m.auth.register(ctx, models.UserCreate{Username: username, Email: email, Password: password})
}

// Login authenticates and persists the resulting session.
func (m *Manager) Login(ctx context.Context, username, password string) (*State, error) {
	tok, err := m.auth.login(ctx, models.UserLogin{Username: username, Password: password})
	if err != nil {
		return nil, err
	}

	state, err := stateFromToken(tok, time.Now())
	if err != nil {
		return nil, err
	}
	if state.Username == "" {
		state.Username = username
	}

	if err := m.store.Save(state); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.state = state
	m.mu.Unlock()

	m.logger.Info("logged in", "user", state.Username, "expires", state.ExpiresAt)
	return state, nil
}

// Logout clears the stored session. The server holds no session state, so
// discarding the token is all there is to it.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.state = nil
	m.mu.Unlock()
	return m.store.Clear()
}

// CurrentUser fetches the account behind the current session.
func (m *Manager) CurrentUser(ctx context.Context) (*models.User, error) {
	token, err := m.Token(ctx)
	if err != nil {
		return nil, err
	}
	return m.auth.currentUser(ctx, token)
}

// DeleteAccount removes the account server-side and clears the session.
func (m *Manager) DeleteAccount(ctx context.Context) error {
	token, err := m.Token(ctx)
	if err != nil {
		return err
	}
	if err := m.auth.deleteUser(ctx, token); err != nil {
		return err
	}
	return m.Logout()
}

// current returns the in-memory session, falling back to the session file.
func (m *Manager) current() (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		return m.state, nil
	}

	state, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	m.state = state
	return state, nil
}

// Token returns a valid access token, refreshing it when the expiry is
// inside the lead window. A token past its expiry that cannot be refreshed
// surfaces as [shared.ErrNotAuthenticated].
func (m *Manager) Token(ctx context.Context) (string, error) {
	state, err := m.current()
	if err != nil {
		if errors.Is(err, shared.ErrNoSession) {
			return "", fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
		}
		return "", err
	}

	now := time.Now()
	if !state.Expiring(now, m.lead) {
		return state.AccessToken, nil
	}

	tok, err := m.refresher.Refresh(ctx, state.AccessToken)
	if err != nil {
		var terminal *TerminalError
		if errors.As(err, &terminal) {
			m.logger.Warn("session rejected by server, clearing", "status", terminal.Status)
			_ = m.Logout()
			return "", fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
		}
		// Transient failure: keep using the current token while it is
		// still inside its lifetime.
		if !state.Expired(now) {
			m.logger.Warn("token refresh failed, keeping current token", "error", err)
			return state.AccessToken, nil
		}
		return "", fmt.Errorf("%w: %v", shared.ErrTokenExpired, err)
	}
	if tok == nil {
		// Refresh landed inside the cooldown window; the current token is
		// the freshest available.
		return state.AccessToken, nil
	}

	fresh, err := stateFromToken(tok, time.Now())
	if err != nil {
		return "", err
	}
	if fresh.Username == "" {
		fresh.Username = state.Username
	}

	if err := m.store.Save(fresh); err != nil {
		m.logger.Warn("failed to persist refreshed session", "error", err)
	}

	m.mu.Lock()
	m.state = fresh
	m.mu.Unlock()

	return fresh.AccessToken, nil
}

// Refresh forces a refresh attempt regardless of the lead window, honoring
// single-flight, retries and cooldown. The API client goes through this via
// [Manager.RefreshToken] when a request comes back 401.
func (m *Manager) Refresh(ctx context.Context) (*State, error) {
	state, err := m.current()
	if err != nil {
		return nil, err
	}

	tok, err := m.refresher.Refresh(ctx, state.AccessToken)
	if err != nil {
		var terminal *TerminalError
		if errors.As(err, &terminal) {
			_ = m.Logout()
		}
		return nil, err
	}
	if tok == nil {
		return state, nil
	}

	fresh, err := stateFromToken(tok, time.Now())
	if err != nil {
		return nil, err
	}
	if fresh.Username == "" {
		fresh.Username = state.Username
	}
	if err := m.store.Save(fresh); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.state = fresh
	m.mu.Unlock()

	return fresh, nil
}

// RefreshToken forces a refresh and returns the new access token. Satisfies
// the api package's token source without exposing session state.
func (m *Manager) RefreshToken(ctx context.Context) (string, error) {
	state, err := m.Refresh(ctx)
	if err != nil {
		return "", err
	}
	return state.AccessToken, nil
}

// State returns the current session without touching the network, or
// [shared.ErrNoSession] when logged out.
func (m *Manager) State() (*State, error) {
	return m.current()
}
