package stream

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"resty.dev/v3"

	"github.com/wrenwatch/birdboard-BE/internal/notification"
)

// notificationsPage is the upstream list response shape.
type notificationsPage struct {
	Notifications []notification.Notification `json:"notifications"`
	Total         int                         `json:"total"`
}

// Puller periodically fetches the unread notification page from the
// upstream REST API and feeds it through the merge engine. A 401 response
// means "not authenticated": polling is silently disabled instead of
// surfacing an error on every tick.
type Puller struct {
	client   *resty.Client
	interval time.Duration
	service  *notification.Service

	mu       sync.Mutex
	disabled bool
}

func NewPuller(baseURL, apiKey string, interval time.Duration, service *notification.Service) *Puller {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second)
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}

	if interval <= 0 {
		interval = 1 * time.Minute
	}

	return &Puller{
		client:   client,
		interval: interval,
		service:  service,
	}
}

// Run polls until the context is cancelled. It pulls once immediately so
// the dashboard is not empty until the first tick.
func (p *Puller) Run(ctx context.Context) {
	defer p.client.Close()

	p.PullOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.PullOnce(ctx)
		}
	}
}

// PullOnce fetches the unread page and ingests it. No-op once polling has
// been disabled by an authentication failure.
func (p *Puller) PullOnce(ctx context.Context) {
	p.mu.Lock()
	if p.disabled {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	var page notificationsPage
	res, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("status", "unread").
		SetResult(&page).
		Get("/api/v2/notifications")
	if err != nil {
		log.Error().Err(err).Msg("failed to pull notifications")
		return
	}

	if res.StatusCode() == http.StatusUnauthorized {
		log.Warn().Msg("notification pull unauthorized, disabling polling")
		p.mu.Lock()
		p.disabled = true
		p.mu.Unlock()
		return
	}

	if !res.IsSuccess() {
		log.Error().Int("status", res.StatusCode()).Msg("notification pull failed")
		return
	}

	p.service.Ingest(page.Notifications)
}

// Disabled reports whether polling has been switched off by a 401.
func (p *Puller) Disabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disabled
}
