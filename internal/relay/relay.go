// Package relay manages server-side audio relay sessions. A session exists
// per audio source while at least one dashboard client is listening;
// clients announce liveness with heartbeats and sessions are reaped once
// every client has gone silent past the idle timeout.
package relay

import (
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/gosimple/slug"
	"github.com/lithammer/shortuuid/v4"
	"github.com/rs/zerolog/log"
)

var (
	ErrSessionNotFound = errors.New("relay session not found")
	ErrClientNotFound  = errors.New("relay client not found")
)

const defaultIdleTimeout = 90 * time.Second

// Session describes an active relay session.
type Session struct {
	SourceID     string    `json:"source_id"`
	PlaylistPath string    `json:"playlist_path"`
	ClientCount  int       `json:"client_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type session struct {
	sourceID     string
	playlistPath string
	createdAt    time.Time
	clients      map[string]time.Time // clientID -> last heartbeat
}

// Manager tracks relay sessions keyed by opaque source ID.
type Manager struct {
	mu          sync.Mutex
	sessions    map[string]*session
	idleTimeout time.Duration
	hlsBaseDir  string
	now         func() time.Time

	scheduler gocron.Scheduler
	stopOnce  sync.Once
}

// NewManager creates a relay manager and starts its janitor, which sweeps
// for silent clients at half the idle timeout.
func NewManager(hlsBaseDir string, idleTimeout time.Duration) (*Manager, error) {
	if idleTimeout <= 0 {
		idleTimeout = defaultIdleTimeout
	}

	m := &Manager{
		sessions:    make(map[string]*session),
		idleTimeout: idleTimeout,
		hlsBaseDir:  hlsBaseDir,
		now:         time.Now,
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create relay janitor: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(idleTimeout/2),
		gocron.NewTask(func() { m.Sweep() }),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule relay janitor: %w", err)
	}
	scheduler.Start()
	m.scheduler = scheduler

	return m, nil
}

// SetNow overrides the clock, for tests.
func (m *Manager) SetNow(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Start creates the session for a source if needed, joins it as a new
// client, and returns the client ID plus the playlist path to stream from.
func (m *Manager) Start(sourceID string) (clientID string, playlistPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sourceID]
	if !ok {
		sess = &session{
			sourceID: sourceID,
			// Opaque source IDs are slugified so they cannot escape the
			// HLS base directory.
			playlistPath: path.Join(m.hlsBaseDir, slug.Make(sourceID), "playlist.m3u8"),
			createdAt:    m.now(),
			clients:      make(map[string]time.Time),
		}
		m.sessions[sourceID] = sess
		log.Info().Str("source", sourceID).Msg("relay session started")
	}

	clientID = shortuuid.New()
	sess.clients[clientID] = m.now()
	return clientID, sess.playlistPath
}

// Heartbeat extends a client's liveness.
func (m *Manager) Heartbeat(sourceID, clientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sourceID]
	if !ok {
		return ErrSessionNotFound
	}
	if _, ok := sess.clients[clientID]; !ok {
		return ErrClientNotFound
	}
	sess.clients[clientID] = m.now()
	return nil
}

// Stop removes a client from a session, tearing the session down when the
// last client leaves. Stopping an unknown client or source is a no-op:
// manual dismissal and the janitor may race.
func (m *Manager) Stop(sourceID, clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sourceID]
	if !ok {
		return
	}
	delete(sess.clients, clientID)
	if len(sess.clients) == 0 {
		delete(m.sessions, sourceID)
		log.Info().Str("source", sourceID).Msg("relay session stopped, last client left")
	}
}

// PlaylistPath returns the playlist path for an active session.
func (m *Manager) PlaylistPath(sourceID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sourceID]
	if !ok {
		return "", ErrSessionNotFound
	}
	return sess.playlistPath, nil
}

// Sessions returns a snapshot of active sessions.
func (m *Manager) Sessions() []Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		out = append(out, Session{
			SourceID:     sess.sourceID,
			PlaylistPath: sess.playlistPath,
			ClientCount:  len(sess.clients),
			CreatedAt:    sess.createdAt,
		})
	}
	return out
}

// Sweep drops clients that missed their heartbeats and tears down sessions
// left without clients. Returns the number of sessions removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.idleTimeout)
	removed := 0
	for sourceID, sess := range m.sessions {
		for clientID, lastSeen := range sess.clients {
			if lastSeen.Before(cutoff) {
				delete(sess.clients, clientID)
			}
		}
		if len(sess.clients) == 0 {
			delete(m.sessions, sourceID)
			removed++
			log.Info().Str("source", sourceID).Msg("relay session reaped, all clients idle")
		}
	}
	return removed
}

// Shutdown stops the janitor. Safe to call more than once.
func (m *Manager) Shutdown() {
	m.stopOnce.Do(func() {
		if err := m.scheduler.Shutdown(); err != nil {
			log.Warn().Err(err).Msg("failed to shut down relay janitor")
		}
	})
}
