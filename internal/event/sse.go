package event

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// SSEServer is a topic-based event broker. Each SSE handler registers a
// channel per connection; Broadcast delivers to every channel on the topic
// without ever blocking on a slow client.
type SSEServer struct {
	clients map[string]map[chan Event]bool
	events  chan Event
	mu      sync.Mutex
	once    sync.Once
}

func NewSSEServer() EventSender {
	return &SSEServer{
		clients: make(map[string]map[chan Event]bool),
		events:  make(chan Event, 64),
	}
}

// Register subscribes a client channel to a topic.
func (s *SSEServer) Register(topic string, client chan Event) {
	s.mu.Lock()
	if _, ok := s.clients[topic]; !ok {
		s.clients[topic] = make(map[chan Event]bool)
	}
	s.clients[topic][client] = true
	total := len(s.clients[topic])
	s.mu.Unlock()
	log.Debug().Str("topic", topic).Int("clients", total).Msg("sse client registered")
}

// Unregister removes a client channel from a topic and closes it. Calling
// it for an already removed client is a no-op.
func (s *SSEServer) Unregister(topic string, client chan Event) {
	s.mu.Lock()
	if clients, ok := s.clients[topic]; ok {
		if _, registered := clients[client]; registered {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(s.clients, topic)
			}
		}
	}
	remaining := len(s.clients[topic])
	s.mu.Unlock()
	log.Debug().Str("topic", topic).Int("clients", remaining).Msg("sse client unregistered")
}

// Broadcast queues an event for delivery to the topic's clients.
func (s *SSEServer) Broadcast(event Event) {
	select {
	case s.events <- event:
	default:
		log.Warn().Str("topic", event.Topic).Str("type", event.Type).Msg("event queue full, dropping event")
	}
}

// Run drains the event queue and delivers to clients. Delivery to a client
// whose buffer is full is skipped, the SSE heartbeat will eventually detect
// a dead connection and unregister it.
func (s *SSEServer) Run() {
	for event := range s.events {
		s.mu.Lock()
		for client := range s.clients[event.Topic] {
			select {
			case client <- event:
			default:
				log.Warn().Str("topic", event.Topic).Msg("sse client not keeping up, dropping event")
			}
		}
		s.mu.Unlock()
	}
}

// Close stops the broadcast loop. Safe to call more than once.
func (s *SSEServer) Close() {
	s.once.Do(func() {
		close(s.events)
	})
}
