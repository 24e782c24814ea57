package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wrenwatch/birdboard-BE/internal/notification"
)

// ConnState is the connection state of the SSE client.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateBackoffWait
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateBackoffWait:
		return "backoff_wait"
	default:
		return "unknown"
	}
}

const (
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 30 * time.Second
	backoffJitter         = 0.2
)

// ClientConfig configures the SSE consumer.
type ClientConfig struct {
	URL            string
	APIKey         string
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Client maintains a single long-lived SSE connection to the upstream
// detector and dispatches decoded notifications to registered callbacks.
// Registrations are individually revocable without tearing the shared
// connection down, and Stop is idempotent.
type Client struct {
	url            string
	apiKey         string
	httpClient     *http.Client
	initialBackoff time.Duration
	maxBackoff     time.Duration

	mu        sync.Mutex
	state     ConnState
	subs      map[uint64]func(notification.Notification)
	nextSubID uint64
	cancel    context.CancelFunc
	started   bool
	done      chan struct{}
}

func NewClient(config ClientConfig) *Client {
	initial := config.InitialBackoff
	if initial <= 0 {
		initial = defaultInitialBackoff
	}
	max := config.MaxBackoff
	if max <= 0 {
		max = defaultMaxBackoff
	}

	return &Client{
		url:            config.URL,
		apiKey:         config.APIKey,
		httpClient:     &http.Client{}, // no overall timeout: the stream is long-lived
		initialBackoff: initial,
		maxBackoff:     max,
		subs:           make(map[uint64]func(notification.Notification)),
		state:          StateDisconnected,
	}
}

// Subscribe registers a callback for decoded notifications. The returned
// function revokes exactly this registration; calling it twice is safe.
func (c *Client) Subscribe(fn func(notification.Notification)) func() {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// State returns the current connection state.
func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start launches the connection loop. Starting an already started client is
// a no-op.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.mu.Unlock()

	go c.run(runCtx)
}

// Stop terminates the connection loop and waits for it to exit. Safe to
// call more than once.
func (c *Client) Stop() {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return
	}
	c.started = false
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	cancel()
	<-done
}

// run is the {disconnected, connecting, connected, backoffWait} loop.
// Backoff doubles on every failed attempt up to the maximum, with ±20%
// jitter, and resets once a connection is established.
func (c *Client) run(ctx context.Context) {
	defer close(c.done)
	defer c.setState(StateDisconnected)

	backoff := c.initialBackoff

	for {
		if ctx.Err() != nil {
			return
		}

		c.setState(StateConnecting)
		err := c.consume(ctx)
		if ctx.Err() != nil {
			return
		}

		if err != nil {
			log.Warn().Err(err).Str("url", c.url).Dur("retry_in", backoff).Msg("event stream disconnected")
		}

		c.setState(StateBackoffWait)
		select {
		case <-ctx.Done():
			return
		case <-time.After(jitter(backoff)):
		}

		backoff *= 2
		if backoff > c.maxBackoff {
			backoff = c.maxBackoff
		}
		if err == nil {
			// Clean EOF after a healthy connection: start over gently.
			backoff = c.initialBackoff
		}
	}
}

// consume opens the stream and dispatches events until it breaks.
func (c *Client) consume(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected stream status %d", resp.StatusCode)
	}

	c.setState(StateConnected)
	log.Info().Str("url", c.url).Msg("connected to upstream event stream")

	return parseStream(resp.Body, c.dispatch)
}

// dispatch decodes an event payload and fans it out. Malformed payloads are
// skipped: this runs on every pushed message and must never fail the loop.
func (c *Client) dispatch(ev sseEvent) {
	switch ev.Event {
	case "", "message", "notification", "toast":
	default:
		// heartbeat, connected, and other control events carry no payload
		// the dashboard cares about.
		return
	}

	var n notification.Notification
	if err := json.Unmarshal(ev.Data, &n); err != nil {
		log.Debug().Err(err).Str("event", ev.Event).Msg("skipping malformed notification payload")
		return
	}

	c.mu.Lock()
	callbacks := make([]func(notification.Notification), 0, len(c.subs))
	for _, fn := range c.subs {
		callbacks = append(callbacks, fn)
	}
	c.mu.Unlock()

	for _, fn := range callbacks {
		fn(n)
	}
}

func (c *Client) setState(state ConnState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

// jitter spreads a delay by ±20% so reconnecting clients do not stampede.
func jitter(d time.Duration) time.Duration {
	delta := float64(d) * backoffJitter
	return d + time.Duration((rand.Float64()*2-1)*delta)
}
