package ws

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/feldhaus/einkauf/internal/shared"
)

const (
	writeWait        = 10 * time.Second
	defaultHeartbeat = 54 * time.Second
)

// TokenSource supplies the access token attached to the dial URL. Implemented
// by session.Manager.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Handler receives one event. Handlers run on the read goroutine and must not
// block.
type Handler func(Event)

// Options configures a [Client]. BaseURL is the server's HTTP base URL; the
// scheme is rewritten to ws/wss.
type Options struct {
	BaseURL string
	Tokens  TokenSource
	Logger  *log.Logger

	// OnConnect runs after every successful dial, including reconnects.
	// Containers use it to re-fetch state missed while offline.
	OnConnect func()

	// BackoffBase and BackoffMax bound the reconnect delay; defaults are
	// 1s and 60s.
	BackoffBase time.Duration
	BackoffMax  time.Duration

	// Heartbeat is the ping interval; the read deadline allows a bit more
	// than one interval for the pong. Default 54s.
	Heartbeat time.Duration

	HandshakeTimeout time.Duration
}

// Client is a reconnecting WebSocket subscriber.
type Client struct {
	dialURL   string
	tokens    TokenSource
	logger    *log.Logger
	onConnect func()

	backoffBase      time.Duration
	backoffMax       time.Duration
	heartbeat        time.Duration
	pongWait         time.Duration
	handshakeTimeout time.Duration

	handlerMu sync.RWMutex
	handlers  map[string][]Handler

	connected atomic.Bool
}

// New creates a client for the event stream of the server at opts.BaseURL.
func New(opts Options) (*Client, error) {
	dialURL, err := eventURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	c := &Client{
		dialURL:          dialURL,
		tokens:           opts.Tokens,
		logger:           logger,
		onConnect:        opts.OnConnect,
		backoffBase:      opts.BackoffBase,
		backoffMax:       opts.BackoffMax,
		heartbeat:        opts.Heartbeat,
		handshakeTimeout: opts.HandshakeTimeout,
		handlers:         make(map[string][]Handler),
	}
	if c.backoffBase <= 0 {
		c.backoffBase = time.Second
	}
	if c.backoffMax <= 0 {
		c.backoffMax = time.Minute
	}
	if c.heartbeat <= 0 {
		c.heartbeat = defaultHeartbeat
	}
	c.pongWait = c.heartbeat * 10 / 9
	if c.handshakeTimeout <= 0 {
		c.handshakeTimeout = 10 * time.Second
	}
	return c, nil
}

// eventURL rewrites the HTTP base URL to the ws scheme and appends /ws.
func eventURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("%w: unsupported scheme %q", shared.ErrInvalidConfig, u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String(), nil
}

// Subscribe registers a handler for one event type, or every event when
// eventType is [EventAny]. Subscriptions survive reconnects.
func (c *Client) Subscribe(eventType string, fn Handler) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()
	c.handlers[eventType] = append(c.handlers[eventType], fn)
}

// Connected reports whether a connection is currently open.
func (c *Client) Connected() bool {
	return c.connected.Load()
}

// Run connects and reads events until ctx is canceled, redialing with capped
// exponential backoff after every disconnect. A connection that outlived the
// current delay counts as stable and resets the backoff, so a long quiet
// connection does not inherit inflated delays when it finally drops.
func (c *Client) Run(ctx context.Context) error {
	var delay time.Duration

	for {
		connectedFor, err := c.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		delay = c.nextDelay(delay, connectedFor)

		c.logger.Warn("websocket disconnected", "error", err, "retry_in", delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// nextDelay computes the wait before the next dial. Stable connections reset
// the backoff; anything shorter doubles it up to backoffMax.
func (c *Client) nextDelay(delay, connectedFor time.Duration) time.Duration {
	if connectedFor >= delay {
		return c.backoffBase
	}
	delay *= 2
	if delay > c.backoffMax {
		delay = c.backoffMax
	}
	return delay
}

// runOnce performs a single dial-and-read cycle and reports how long the
// connection stayed up. A failed dial reports zero.
func (c *Client) runOnce(ctx context.Context) (time.Duration, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return 0, err
	}

	u, err := url.Parse(c.dialURL)
	if err != nil {
		return 0, err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: c.handshakeTimeout}
	conn, resp, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return 0, fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return 0, fmt.Errorf("websocket dial failed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	c.logger.Info("websocket connected", "url", c.dialURL)
	connectedAt := time.Now()
	c.connected.Store(true)
	defer c.connected.Store(false)

	if c.onConnect != nil {
		c.onConnect()
	}

	stop := make(chan struct{})
	defer close(stop)
	go c.keepAlive(ctx, conn, stop)

	conn.SetReadDeadline(time.Now().Add(c.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.pongWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			conn.Close()
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return time.Since(connectedAt), nil
			}
			return time.Since(connectedAt), err
		}
		c.dispatch(message)
	}
}

// keepAlive pings on a ticker and force-closes the connection when ctx ends,
// which unblocks the read loop.
func (c *Client) keepAlive(ctx context.Context, conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(c.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait),
			)
			conn.Close()
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.logger.Debug("websocket ping failed", "error", err)
				conn.Close()
				return
			}
		}
	}
}

func (c *Client) dispatch(message []byte) {
	var ev Event
	if err := json.Unmarshal(message, &ev); err != nil {
		c.logger.Debug("dropping unparseable event", "error", err)
		return
	}

	c.handlerMu.RLock()
	typed := c.handlers[ev.Type]
	wildcard := c.handlers[EventAny]
	c.handlerMu.RUnlock()

	if len(typed) == 0 && len(wildcard) == 0 {
		c.logger.Debug("no subscriber for event", "type", ev.Type)
		return
	}
	for _, fn := range typed {
		fn(ev)
	}
	for _, fn := range wildcard {
		fn(ev)
	}
}
