package relay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager("/hls", time.Minute)
	require.NoError(t, err)
	t.Cleanup(m.Shutdown)
	return m
}

func TestManagerStart(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)

	clientID, playlistPath := m.Start("garden-mic")
	assert.NotEmpty(t, clientID)
	assert.Equal(t, "/hls/garden-mic/playlist.m3u8", playlistPath)

	// A second listener joins the same session.
	otherID, otherPath := m.Start("garden-mic")
	assert.NotEqual(t, clientID, otherID)
	assert.Equal(t, playlistPath, otherPath)

	sessions := m.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, 2, sessions[0].ClientCount)
}

func TestManagerPlaylistPathSlugifiesSource(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)

	_, playlistPath := m.Start("rtsp://cam/../../etc")
	assert.Equal(t, "/hls/rtsp-cam-etc/playlist.m3u8", playlistPath)
}

func TestManagerHeartbeat(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	clientID, _ := m.Start("garden-mic")

	assert.NoError(t, m.Heartbeat("garden-mic", clientID))
	assert.ErrorIs(t, m.Heartbeat("garden-mic", "ghost"), ErrClientNotFound)
	assert.ErrorIs(t, m.Heartbeat("no-such-source", clientID), ErrSessionNotFound)
}

func TestManagerStop(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	first, _ := m.Start("garden-mic")
	second, _ := m.Start("garden-mic")

	m.Stop("garden-mic", first)
	_, err := m.PlaylistPath("garden-mic")
	assert.NoError(t, err, "session survives while a client remains")

	m.Stop("garden-mic", second)
	_, err = m.PlaylistPath("garden-mic")
	assert.ErrorIs(t, err, ErrSessionNotFound, "last client tears the session down")

	// Racing a janitor teardown must be harmless.
	m.Stop("garden-mic", second)
	m.Stop("never-existed", "nobody")
}

func TestManagerSweep(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	now := base
	m.SetNow(func() time.Time { return now })

	stale, _ := m.Start("garden-mic")
	fresh, _ := m.Start("garden-mic")
	m.Start("pond-mic")

	// Only one client keeps heartbeating.
	now = base.Add(50 * time.Second)
	require.NoError(t, m.Heartbeat("garden-mic", fresh))

	now = base.Add(70 * time.Second)
	removed := m.Sweep()

	assert.Equal(t, 1, removed, "the silent pond-mic session is reaped")
	sessions := m.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "garden-mic", sessions[0].SourceID)
	assert.Equal(t, 1, sessions[0].ClientCount, "the stale client is dropped")

	assert.ErrorIs(t, m.Heartbeat("garden-mic", stale), ErrClientNotFound)
}

func TestManagerShutdownIdempotent(t *testing.T) {
	t.Parallel()

	m, err := NewManager("", 0)
	require.NoError(t, err)

	m.Shutdown()
	m.Shutdown()
}
