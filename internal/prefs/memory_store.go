package prefs

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is a map-backed Store used in tests and when running without
// Redis.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]*Preferences
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*Preferences)}
}

func (s *MemoryStore) get(userID string) *Preferences {
	p, ok := s.users[userID]
	if !ok {
		p = &Preferences{}
		s.users[userID] = p
	}
	return p
}

func (s *MemoryStore) Get(_ context.Context, userID string) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.get(userID)
	out := *p
	out.RecentSearches = slices.Clone(p.RecentSearches)
	return out, nil
}

func (s *MemoryStore) SetSoundEnabled(_ context.Context, userID string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(userID).SoundEnabled = enabled
	return nil
}

func (s *MemoryStore) SetLocale(_ context.Context, userID, locale string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(userID).Locale = locale
	return nil
}

func (s *MemoryStore) AddRecentSearch(_ context.Context, userID, term string) error {
	if term == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.get(userID)
	filtered := make([]string, 0, len(p.RecentSearches)+1)
	filtered = append(filtered, term)
	for _, existing := range p.RecentSearches {
		if existing != term {
			filtered = append(filtered, existing)
		}
	}
	if len(filtered) > maxRecentSearches {
		filtered = filtered[:maxRecentSearches]
	}
	p.RecentSearches = filtered
	return nil
}
