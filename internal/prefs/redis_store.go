package prefs

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps preferences in Redis under "prefs:{userID}:...".
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func soundKey(userID string) string    { return fmt.Sprintf("prefs:%s:sound", userID) }
func localeKey(userID string) string   { return fmt.Sprintf("prefs:%s:locale", userID) }
func searchesKey(userID string) string { return fmt.Sprintf("prefs:%s:recent_searches", userID) }

func (s *RedisStore) Get(ctx context.Context, userID string) (Preferences, error) {
	prefs := Preferences{}

	sound, err := s.client.Get(ctx, soundKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return prefs, fmt.Errorf("failed to read sound preference: %w", err)
	}
	prefs.SoundEnabled = parseBool(sound)

	locale, err := s.client.Get(ctx, localeKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return prefs, fmt.Errorf("failed to read locale preference: %w", err)
	}
	prefs.Locale = locale

	searches, err := s.client.LRange(ctx, searchesKey(userID), 0, maxRecentSearches-1).Result()
	if err != nil && err != redis.Nil {
		return prefs, fmt.Errorf("failed to read recent searches: %w", err)
	}
	prefs.RecentSearches = searches

	return prefs, nil
}

func (s *RedisStore) SetSoundEnabled(ctx context.Context, userID string, enabled bool) error {
	return s.client.Set(ctx, soundKey(userID), strconv.FormatBool(enabled), 0).Err()
}

func (s *RedisStore) SetLocale(ctx context.Context, userID, locale string) error {
	return s.client.Set(ctx, localeKey(userID), locale, 0).Err()
}

func (s *RedisStore) AddRecentSearch(ctx context.Context, userID, term string) error {
	if term == "" {
		return nil
	}
	key := searchesKey(userID)

	pipe := s.client.TxPipeline()
	pipe.LRem(ctx, key, 0, term)
	pipe.LPush(ctx, key, term)
	pipe.LTrim(ctx, key, 0, maxRecentSearches-1)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record recent search: %w", err)
	}
	return nil
}
