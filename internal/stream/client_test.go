package stream

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenwatch/birdboard-BE/internal/notification"
)

func TestClientReceivesNotifications(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotAuth = r.Header.Get("Authorization")
		mu.Unlock()
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: notification\n")
		fmt.Fprint(w, `data: {"id":"n1","type":"detection","priority":"low","title":"Eurasian Wren","message":"detected","timestamp":"2026-03-10T12:00:00Z"}`+"\n\n")
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		URL:            server.URL,
		APIKey:         "secret",
		InitialBackoff: 10 * time.Millisecond,
	})

	received := make(chan notification.Notification, 1)
	unsubscribe := client.Subscribe(func(n notification.Notification) {
		select {
		case received <- n:
		default:
		}
	})
	defer unsubscribe()

	client.Start(context.Background())
	defer client.Stop()

	select {
	case n := <-received:
		assert.Equal(t, "Eurasian Wren", n.Title)
		assert.Equal(t, notification.TypeDetection, n.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no notification received from the stream")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestClientStartStopIdempotent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
	}))
	defer server.Close()

	client := NewClient(ClientConfig{URL: server.URL, InitialBackoff: 10 * time.Millisecond})

	client.Start(context.Background())
	client.Start(context.Background()) // second start is a no-op

	client.Stop()
	client.Stop() // second stop is a no-op

	assert.Equal(t, StateDisconnected, client.State())
}

func TestClientUnsubscribe(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{URL: "http://unused"})

	var mu sync.Mutex
	var calls int
	unsubscribe := client.Subscribe(func(notification.Notification) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	unsubscribe()
	unsubscribe() // revoking twice is safe

	client.dispatch(sseEvent{Event: "notification", Data: []byte(`{"id":"n1","type":"info","priority":"low","title":"t","message":"m","timestamp":"2026-03-10T12:00:00Z"}`)})

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls, "revoked callback must not fire")
}

func TestClientDispatchFiltering(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{URL: "http://unused"})

	var mu sync.Mutex
	var titles []string
	defer client.Subscribe(func(n notification.Notification) {
		mu.Lock()
		titles = append(titles, n.Title)
		mu.Unlock()
	})()

	payload := []byte(`{"id":"n1","type":"info","priority":"low","title":"ok","message":"m","timestamp":"2026-03-10T12:00:00Z"}`)

	client.dispatch(sseEvent{Event: "notification", Data: payload})
	client.dispatch(sseEvent{Event: "toast", Data: payload})
	client.dispatch(sseEvent{Event: "heartbeat", Data: []byte(`{}`)})   // control event, skipped
	client.dispatch(sseEvent{Event: "notification", Data: []byte(`{`)}) // malformed, skipped

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"ok", "ok"}, titles)
}

func TestClientNonOKStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{URL: server.URL})
	err := client.consume(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestJitterBounds(t *testing.T) {
	t.Parallel()

	base := 10 * time.Second
	for i := 0; i < 200; i++ {
		d := jitter(base)
		assert.GreaterOrEqual(t, d, 8*time.Second)
		assert.LessOrEqual(t, d, 12*time.Second)
	}
}

func TestConnStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "backoff_wait", StateBackoffWait.String())
	assert.Equal(t, "unknown", ConnState(99).String())
}
