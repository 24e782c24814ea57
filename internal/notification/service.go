package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/wrenwatch/birdboard-BE/internal/event"
)

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls this far behind starts losing notifications instead of blocking
// delivery to everyone else.
const subscriberBuffer = 10

// ServiceConfig configures the notification service.
type ServiceConfig struct {
	MaxNotifications    int
	CleanupInterval     time.Duration
	DeduplicationWindow time.Duration
	Debug               bool
}

// PushDispatcher delivers critical notifications to an external alert
// channel (e.g. a webhook queue). Implementations must be safe for
// concurrent use.
type PushDispatcher interface {
	DispatchPushAlert(ctx context.Context, n Notification) error
}

// Service is the long-lived notification center. It owns the store, fans
// new notifications out to in-process subscribers and to the SSE event
// broker, and periodically drops expired records. It is constructed once in
// main and injected into consumers; there is no package-level singleton.
type Service struct {
	store      *InMemoryStore
	sender     event.EventSender
	dispatcher PushDispatcher
	debug      bool

	mu          sync.Mutex
	subscribers map[uint64]chan Notification
	nextSubID   uint64
	stopped     bool

	scheduler gocron.Scheduler
}

// NewService creates and starts a notification service. sender and
// dispatcher may be nil when SSE fan-out or push alerts are not wanted
// (tests, tools).
func NewService(config *ServiceConfig, sender event.EventSender, dispatcher PushDispatcher) (*Service, error) {
	if config == nil {
		config = &ServiceConfig{}
	}

	store := NewInMemoryStore(config.MaxNotifications)
	if config.DeduplicationWindow > 0 {
		store.SetDeduplicationWindow(config.DeduplicationWindow)
	}

	svc := &Service{
		store:       store,
		sender:      sender,
		dispatcher:  dispatcher,
		debug:       config.Debug,
		subscribers: make(map[uint64]chan Notification),
	}

	cleanupInterval := config.CleanupInterval
	if cleanupInterval <= 0 {
		cleanupInterval = 1 * time.Hour
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create cleanup scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(cleanupInterval),
		gocron.NewTask(svc.cleanupExpired),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule cleanup job: %w", err)
	}

	scheduler.Start()
	svc.scheduler = scheduler

	return svc, nil
}

// Stop shuts down the service. Safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	for id, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, id)
	}
	s.mu.Unlock()

	if err := s.scheduler.Shutdown(); err != nil {
		log.Warn().Err(err).Msg("failed to shut down notification cleanup scheduler")
	}
}

// Subscribe registers an in-process consumer of new notifications. The
// returned function revokes exactly this registration and is safe to call
// more than once.
func (s *Service) Subscribe() (<-chan Notification, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Notification, subscriberBuffer)
	if s.stopped {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(sub)
			}
		})
	}

	return ch, unsubscribe
}

// Create builds and ingests a notification.
func (s *Service) Create(notifType Type, priority Priority, title, message string) (Notification, error) {
	return s.CreateWithComponent(notifType, priority, title, message, "")
}

// CreateWithComponent builds and ingests a notification tagged with its
// origin component.
func (s *Service) CreateWithComponent(notifType Type, priority Priority, title, message, component string) (Notification, error) {
	n := New(notifType, priority, title, message)
	if component != "" {
		n = n.WithComponent(component)
	}
	if !n.IsValid() {
		return Notification{}, fmt.Errorf("invalid notification: type=%q title=%q", notifType, title)
	}

	s.Ingest([]Notification{n})

	stored, ok := s.store.FindByContentKey(n.ContentKey())
	if !ok {
		return n, nil
	}
	return stored, nil
}

// Ingest runs a batch of freshly received notifications (SSE push or REST
// pull) through the merge policy. Genuinely new events reach subscribers
// and, at critical priority, the push dispatcher; duplicate arrivals only
// update the stored record. Malformed records are dropped.
func (s *Service) Ingest(incoming []Notification) {
	for i := range incoming {
		n := incoming[i]
		if !n.IsValid() {
			log.Debug().Str("title", n.Title).Msg("dropping malformed notification")
			continue
		}

		_, isDuplicate := s.store.FindByContentKey(n.ContentKey())
		if err := s.store.Save(n); err != nil {
			log.Error().Err(err).Msg("failed to save notification")
			continue
		}

		stored, ok := s.store.FindByContentKey(n.ContentKey())
		if !ok {
			// Save raced with an eviction; nothing left to announce.
			continue
		}

		if isDuplicate {
			s.broadcastEvent(event.TypeNotificationUpdated, stored)
			continue
		}

		s.broadcastEvent(event.TypeNotificationCreated, stored)
		s.notifySubscribers(stored)

		if stored.Priority == PriorityCritical && s.dispatcher != nil {
			if err := s.dispatcher.DispatchPushAlert(context.Background(), stored); err != nil {
				log.Error().Err(err).Str("id", stored.ID).Msg("failed to dispatch push alert")
			}
		}
	}
}

// Get returns a notification by ID.
func (s *Service) Get(id string) (Notification, error) {
	return s.store.Get(id)
}

// List returns notifications matching the filter, newest-first. Developer
// notifications are hidden unless the service runs in debug mode.
func (s *Service) List(filter *FilterOptions) []Notification {
	all := s.store.List(filter)
	visible := make([]Notification, 0, len(all))
	for i := range all {
		if ShouldShow(all[i], s.debug) {
			visible = append(visible, all[i])
		}
	}
	return visible
}

// MarkRead marks a notification as read and announces the update.
func (s *Service) MarkRead(id string) error {
	if err := s.store.MarkRead(id); err != nil {
		return err
	}
	if n, err := s.store.Get(id); err == nil {
		s.broadcastEvent(event.TypeNotificationUpdated, n)
	}
	return nil
}

// MarkAllRead marks every notification as read.
func (s *Service) MarkAllRead() {
	s.store.MarkAllRead()
	s.broadcastEvent(event.TypeNotificationsAllRead, Notification{})
}

// Delete removes a notification. Deleting twice is a no-op.
func (s *Service) Delete(id string) {
	s.store.Delete(id)
	s.broadcastEvent(event.TypeNotificationDeleted, Notification{ID: id})
}

// UnreadCount returns the number of unread notifications.
func (s *Service) UnreadCount() int {
	return s.store.UnreadCount()
}

func (s *Service) cleanupExpired() {
	if removed := s.store.DeleteExpired(); removed > 0 {
		log.Debug().Int("removed", removed).Msg("cleaned up expired notifications")
	}
}

func (s *Service) notifySubscribers(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ch := range s.subscribers {
		select {
		case ch <- n.Clone():
		default:
			log.Warn().Uint64("subscriber", id).Msg("notification subscriber is not keeping up, dropping event")
		}
	}
}

func (s *Service) broadcastEvent(eventType string, n Notification) {
	if s.sender == nil {
		return
	}
	s.sender.Broadcast(event.Event{
		Topic: event.TopicNotifications,
		Type:  eventType,
		Data:  n,
	})
}
