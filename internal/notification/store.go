package notification

import (
	"errors"
	"slices"
	"sync"
	"time"
)

var ErrNotFound = errors.New("notification not found")

// defaultDedupWindow bounds how long a stored notification keeps absorbing
// content-identical arrivals. Outside the window a duplicate becomes a new
// entry again.
const defaultDedupWindow = 24 * time.Hour

// FilterOptions narrows List results.
type FilterOptions struct {
	Types      []Type
	Priorities []Priority
	Component  string
	// Unread selects only unread notifications when true.
	Unread bool
	Since  *time.Time
	Until  *time.Time
	Limit  int
	Offset int
}

// InMemoryStore is a thread-safe in-memory notification store. Saving a
// content-duplicate within the deduplication window merges it into the
// stored record instead of appending a new one.
type InMemoryStore struct {
	mu            sync.RWMutex
	notifications map[string]*Notification
	contentIndex  map[string]string // ContentKey -> ID
	maxSize       int
	dedupWindow   time.Duration
	unreadCount   int
}

// NewInMemoryStore creates a store holding at most maxSize notifications.
func NewInMemoryStore(maxSize int) *InMemoryStore {
	if maxSize <= 0 {
		maxSize = 1000
	}

	return &InMemoryStore{
		notifications: make(map[string]*Notification),
		contentIndex:  make(map[string]string),
		maxSize:       maxSize,
		dedupWindow:   defaultDedupWindow,
	}
}

// SetDeduplicationWindow overrides the window during which content
// duplicates are merged rather than listed separately.
func (s *InMemoryStore) SetDeduplicationWindow(window time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dedupWindow = window
}

// Save stores a notification, merging it into an existing record when it is
// a content-duplicate inside the deduplication window. Invalid records are
// silently dropped.
func (s *InMemoryStore) Save(n Notification) error {
	if !n.IsValid() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := n.ContentKey()
	if existingID, ok := s.contentIndex[key]; ok {
		if existing, found := s.notifications[existingID]; found {
			if time.Since(existing.Timestamp) <= s.dedupWindow {
				s.mergeInto(existing, &n)
				return nil
			}
			// Window expired: the old record stops absorbing duplicates.
			delete(s.contentIndex, key)
		}
	}

	if len(s.notifications) >= s.maxSize {
		s.removeOldest()
	}

	stored := n.Clone()
	s.notifications[stored.ID] = &stored
	s.contentIndex[key] = stored.ID
	if !stored.Read {
		s.unreadCount++
	}

	return nil
}

// mergeInto applies the duplicate-arrival policy: timestamp moves to the
// most recent occurrence, priority only escalates, read stays sticky-true.
// Caller holds the write lock.
func (s *InMemoryStore) mergeInto(existing, incoming *Notification) {
	if incoming.Timestamp.After(existing.Timestamp) {
		existing.Timestamp = incoming.Timestamp
	}
	if priorityWeight(incoming.Priority) > priorityWeight(existing.Priority) {
		existing.Priority = incoming.Priority
	}
	if incoming.Read && !existing.Read {
		existing.Read = true
		s.unreadCount--
	}
}

// Get retrieves a copy of a notification by ID.
func (s *InMemoryStore) Get(id string) (Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n, exists := s.notifications[id]; exists {
		return n.Clone(), nil
	}
	return Notification{}, ErrNotFound
}

// FindByContentKey returns the stored notification a duplicate would merge
// into, if one exists.
func (s *InMemoryStore) FindByContentKey(key string) (Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.contentIndex[key]
	if !ok {
		return Notification{}, false
	}
	n, exists := s.notifications[id]
	if !exists {
		return Notification{}, false
	}
	return n.Clone(), true
}

// List returns copies of stored notifications matching the filter, sorted
// newest-first, with pagination applied.
func (s *InMemoryStore) List(filter *FilterOptions) []Notification {
	s.mu.RLock()
	results := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if s.matchesFilter(n, filter) {
			results = append(results, n.Clone())
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(results)

	if filter != nil {
		if filter.Offset < len(results) {
			results = results[filter.Offset:]
		} else {
			results = []Notification{}
		}
		if filter.Limit > 0 && len(results) > filter.Limit {
			results = results[:filter.Limit]
		}
	}

	return results
}

// MarkRead marks a notification as read. Marking an already read
// notification is a no-op.
func (s *InMemoryStore) MarkRead(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, exists := s.notifications[id]
	if !exists {
		return ErrNotFound
	}
	if !n.Read {
		n.Read = true
		s.unreadCount--
	}
	return nil
}

// MarkAllRead marks every stored notification as read.
func (s *InMemoryStore) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications {
		n.Read = true
	}
	s.unreadCount = 0
}

// Delete removes a notification by ID. Deleting an absent ID is not an
// error: explicit dismissal must be idempotent.
func (s *InMemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(id)
}

func (s *InMemoryStore) deleteLocked(id string) {
	n, exists := s.notifications[id]
	if !exists {
		return
	}
	if !n.Read {
		s.unreadCount--
	}
	if s.contentIndex[n.ContentKey()] == id {
		delete(s.contentIndex, n.ContentKey())
	}
	delete(s.notifications, id)
}

// DeleteExpired removes all notifications past their expiry.
func (s *InMemoryStore) DeleteExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, n := range s.notifications {
		if n.IsExpired() {
			s.deleteLocked(id)
			removed++
		}
	}
	return removed
}

// UnreadCount returns the number of unread notifications.
func (s *InMemoryStore) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unreadCount
}

// removeOldest evicts the oldest notification to honor the retention limit.
// Caller holds the write lock.
func (s *InMemoryStore) removeOldest() {
	var oldestID string
	var oldestTime time.Time

	for id, n := range s.notifications {
		if oldestID == "" || n.Timestamp.Before(oldestTime) {
			oldestID = id
			oldestTime = n.Timestamp
		}
	}

	if oldestID != "" {
		s.deleteLocked(oldestID)
	}
}

func (s *InMemoryStore) matchesFilter(n *Notification, filter *FilterOptions) bool {
	if filter == nil {
		return true
	}
	if len(filter.Types) > 0 && !slices.Contains(filter.Types, n.Type) {
		return false
	}
	if len(filter.Priorities) > 0 && !slices.Contains(filter.Priorities, n.Priority) {
		return false
	}
	if filter.Component != "" && n.Component != filter.Component {
		return false
	}
	if filter.Unread && n.Read {
		return false
	}
	if filter.Since != nil && n.Timestamp.Before(*filter.Since) {
		return false
	}
	if filter.Until != nil && n.Timestamp.After(*filter.Until) {
		return false
	}
	return true
}
