package event

// Event is a single message flowing from the backend to dashboard clients.
type Event struct {
	Topic string // e.g. "notifications", "audio:rtsp-front-yard"
	Type  string // event name, e.g. notification_created
	Data  interface{}
}

// Topics.
const (
	TopicNotifications = "notifications"
)

// Event types emitted on the notifications topic.
const (
	TypeNotificationCreated  = "notification_created"
	TypeNotificationUpdated  = "notification_updated"
	TypeNotificationDeleted  = "notification_deleted"
	TypeNotificationsAllRead = "notifications_all_read"
)

// EventSender fans events out to registered clients, one channel per SSE
// connection. Unregister is idempotent: tearing a client down twice is safe.
type EventSender interface {
	Register(topic string, client chan Event)
	Unregister(topic string, client chan Event)
	Broadcast(event Event)
	Run()
	Close()
}
