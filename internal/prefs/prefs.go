// Package prefs persists small per-user dashboard preferences: the
// notification sound flag, the locale choice, and recent search terms.
// Values are strings, mirroring the browser storage the dashboard fell back
// to before it had accounts.
package prefs

import (
	"context"
	"strconv"
)

// maxRecentSearches caps the recent-search list.
const maxRecentSearches = 10

// Preferences is the full preference set for one user.
type Preferences struct {
	SoundEnabled   bool     `json:"sound_enabled"`
	Locale         string   `json:"locale"`
	RecentSearches []string `json:"recent_searches"`
}

// Store persists preferences. Implementations must be safe for concurrent
// use.
type Store interface {
	Get(ctx context.Context, userID string) (Preferences, error)
	SetSoundEnabled(ctx context.Context, userID string, enabled bool) error
	SetLocale(ctx context.Context, userID, locale string) error
	// AddRecentSearch prepends a term, removing an earlier duplicate and
	// trimming the list to its cap.
	AddRecentSearch(ctx context.Context, userID, term string) error
}

func parseBool(s string) bool {
	enabled, err := strconv.ParseBool(s)
	return err == nil && enabled
}
