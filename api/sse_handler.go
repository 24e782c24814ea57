package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wrenwatch/birdboard-BE/internal/event"
)

// sseHeartbeatInterval keeps intermediaries from timing idle streams out
// and lets the broker notice dead connections.
const sseHeartbeatInterval = 30 * time.Second

// streamNotifications establishes an SSE connection delivering notification
// events in real time. Events are sent as
// "event: {eventType}\ndata: {jsonData}".
func (server *Server) streamNotifications(c *gin.Context) {
	clientID := uuid.New().String()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Status(http.StatusOK)

	clientChan := make(chan event.Event, 16)
	server.eventSender.Register(event.TopicNotifications, clientChan)
	defer server.eventSender.Unregister(event.TopicNotifications, clientChan)

	fmt.Fprintf(c.Writer, "event: connected\ndata: {\"client_id\":%q}\n\n", clientID)
	c.Writer.Flush()

	heartbeat := time.NewTicker(sseHeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case ev, ok := <-clientChan:
			if !ok {
				return
			}
			data, err := json.Marshal(ev.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", ev.Type, data)
			c.Writer.Flush()
		case <-heartbeat.C:
			fmt.Fprintf(c.Writer, "event: heartbeat\ndata: {\"time\":%q}\n\n", time.Now().Format(time.RFC3339))
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
