package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreDeduplication(t *testing.T) {
	t.Parallel()

	t.Run("duplicate within window merges", func(t *testing.T) {
		t.Parallel()

		store := NewInMemoryStore(100)
		store.SetDeduplicationWindow(5 * time.Minute)

		first := New(TypeError, PriorityMedium, "Disk Error", "write failed").WithComponent("diskmanager")
		require.NoError(t, store.Save(first))

		second := New(TypeError, PriorityHigh, "Disk Error", "write failed").WithComponent("diskmanager")
		second.Timestamp = first.Timestamp.Add(time.Minute)
		require.NoError(t, store.Save(second))

		notifications := store.List(nil)
		require.Len(t, notifications, 1)
		assert.Equal(t, first.ID, notifications[0].ID)
		assert.Equal(t, PriorityHigh, notifications[0].Priority)
		assert.Equal(t, second.Timestamp, notifications[0].Timestamp)
		assert.Equal(t, 1, store.UnreadCount())
	})

	t.Run("duplicate outside window becomes a new entry", func(t *testing.T) {
		t.Parallel()

		store := NewInMemoryStore(100)
		store.SetDeduplicationWindow(time.Minute)

		first := New(TypeError, PriorityMedium, "Disk Error", "write failed")
		first.Timestamp = time.Now().Add(-2 * time.Minute)
		require.NoError(t, store.Save(first))

		second := New(TypeError, PriorityMedium, "Disk Error", "write failed")
		require.NoError(t, store.Save(second))

		assert.Len(t, store.List(nil), 2)
	})

	t.Run("read mark survives a duplicate arrival", func(t *testing.T) {
		t.Parallel()

		store := NewInMemoryStore(100)

		first := New(TypeWarning, PriorityMedium, "Clock Drift", "ntp unreachable")
		require.NoError(t, store.Save(first))
		require.NoError(t, store.MarkRead(first.ID))

		second := New(TypeWarning, PriorityMedium, "Clock Drift", "ntp unreachable")
		second.Timestamp = first.Timestamp.Add(time.Second)
		require.NoError(t, store.Save(second))

		stored, err := store.Get(first.ID)
		require.NoError(t, err)
		assert.True(t, stored.Read)
		assert.Equal(t, 0, store.UnreadCount())
	})

	t.Run("malformed records are dropped silently", func(t *testing.T) {
		t.Parallel()

		store := NewInMemoryStore(100)
		require.NoError(t, store.Save(Notification{ID: "x", Type: TypeInfo}))
		assert.Empty(t, store.List(nil))
	})
}

func TestInMemoryStoreRetention(t *testing.T) {
	t.Parallel()

	store := NewInMemoryStore(3)
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		n := New(TypeInfo, PriorityLow, "Event", "m")
		n.Title = "Event " + string(rune('A'+i))
		n.Timestamp = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.Save(n))
	}

	notifications := store.List(nil)
	require.Len(t, notifications, 3)
	assert.Equal(t, "Event E", notifications[0].Title)
	assert.Equal(t, "Event C", notifications[2].Title, "oldest entries are evicted first")
	assert.Equal(t, 3, store.UnreadCount())
}

func TestInMemoryStoreListFilters(t *testing.T) {
	t.Parallel()

	store := NewInMemoryStore(100)

	errNotif := New(TypeError, PriorityHigh, "Disk Error", "m").WithComponent("diskmanager")
	infoNotif := New(TypeInfo, PriorityLow, "Startup", "m").WithComponent("core")
	require.NoError(t, store.Save(errNotif))
	require.NoError(t, store.Save(infoNotif))
	require.NoError(t, store.MarkRead(infoNotif.ID))

	assert.Len(t, store.List(&FilterOptions{Types: []Type{TypeError}}), 1)
	assert.Len(t, store.List(&FilterOptions{Priorities: []Priority{PriorityLow}}), 1)
	assert.Len(t, store.List(&FilterOptions{Component: "diskmanager"}), 1)
	assert.Len(t, store.List(&FilterOptions{Unread: true}), 1)

	paged := store.List(&FilterOptions{Limit: 1, Offset: 1})
	assert.Len(t, paged, 1)

	assert.Empty(t, store.List(&FilterOptions{Offset: 10}))
}

func TestInMemoryStoreDelete(t *testing.T) {
	t.Parallel()

	store := NewInMemoryStore(100)
	n := New(TypeInfo, PriorityLow, "A", "m")
	require.NoError(t, store.Save(n))

	store.Delete(n.ID)
	store.Delete(n.ID) // idempotent

	assert.Empty(t, store.List(nil))
	assert.Equal(t, 0, store.UnreadCount())

	// The content index entry must go with the record, so the next
	// identical event starts a fresh entry.
	_, found := store.FindByContentKey(n.ContentKey())
	assert.False(t, found)
}

func TestInMemoryStoreDeleteExpired(t *testing.T) {
	t.Parallel()

	store := NewInMemoryStore(100)

	expired := New(TypeInfo, PriorityLow, "Old", "m")
	past := time.Now().Add(-time.Minute)
	expired.ExpiresAt = &past
	require.NoError(t, store.Save(expired))

	keeper := New(TypeInfo, PriorityLow, "Fresh", "m").WithExpiry(time.Hour)
	require.NoError(t, store.Save(keeper))

	assert.Equal(t, 1, store.DeleteExpired())

	remaining := store.List(nil)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Fresh", remaining[0].Title)
}

func TestInMemoryStoreMarkAllRead(t *testing.T) {
	t.Parallel()

	store := NewInMemoryStore(100)
	require.NoError(t, store.Save(New(TypeInfo, PriorityLow, "A", "m")))
	require.NoError(t, store.Save(New(TypeInfo, PriorityLow, "B", "m")))

	store.MarkAllRead()

	assert.Equal(t, 0, store.UnreadCount())
	for _, n := range store.List(nil) {
		assert.True(t, n.Read)
	}
}
