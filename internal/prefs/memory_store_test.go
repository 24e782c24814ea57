package prefs

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreDefaults(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()

	p, err := store.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, p.SoundEnabled)
	assert.Empty(t, p.Locale)
	assert.Empty(t, p.RecentSearches)
}

func TestMemoryStoreSetters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.SetSoundEnabled(ctx, "alice", true))
	require.NoError(t, store.SetLocale(ctx, "alice", "de"))

	p, err := store.Get(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, p.SoundEnabled)
	assert.Equal(t, "de", p.Locale)

	// Another user is untouched.
	other, err := store.Get(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, other.SoundEnabled)
}

func TestMemoryStoreRecentSearches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("newest first", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		require.NoError(t, store.AddRecentSearch(ctx, "alice", "wren"))
		require.NoError(t, store.AddRecentSearch(ctx, "alice", "owl"))

		p, err := store.Get(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"owl", "wren"}, p.RecentSearches)
	})

	t.Run("repeated term moves to the front", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		for _, term := range []string{"wren", "owl", "wren"} {
			require.NoError(t, store.AddRecentSearch(ctx, "alice", term))
		}

		p, err := store.Get(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"wren", "owl"}, p.RecentSearches)
	})

	t.Run("list is capped", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		for i := 0; i < maxRecentSearches+5; i++ {
			require.NoError(t, store.AddRecentSearch(ctx, "alice", fmt.Sprintf("term-%d", i)))
		}

		p, err := store.Get(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, p.RecentSearches, maxRecentSearches)
		assert.Equal(t, fmt.Sprintf("term-%d", maxRecentSearches+4), p.RecentSearches[0])
	})

	t.Run("empty term is ignored", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		require.NoError(t, store.AddRecentSearch(ctx, "alice", ""))

		p, err := store.Get(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, p.RecentSearches)
	})

	t.Run("returned slice does not alias the store", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		require.NoError(t, store.AddRecentSearch(ctx, "alice", "wren"))

		p, _ := store.Get(ctx, "alice")
		p.RecentSearches[0] = "mutated"

		again, _ := store.Get(ctx, "alice")
		assert.Equal(t, []string{"wren"}, again.RecentSearches)
	})
}
