// Package notification implements the dashboard notification center: the
// merge/deduplication engine, an in-memory store with retention limits, and
// a service that fans notifications out to subscribers.
package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Type categorizes a notification.
type Type string

const (
	TypeError     Type = "error"
	TypeWarning   Type = "warning"
	TypeInfo      Type = "info"
	TypeDetection Type = "detection"
	TypeSystem    Type = "system"
)

// Priority is the urgency level of a notification, ordered
// low < medium < high < critical.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// priorityWeight maps priorities onto their ordering. Unknown values weigh
// zero so they never win an escalation.
func priorityWeight(p Priority) int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// MetadataKeyDebug marks developer-only notifications that are hidden
// unless the dashboard runs in debug mode.
const MetadataKeyDebug = "debug"

// Notification represents a single notification event.
type Notification struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	Priority  Priority       `json:"priority"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Component string         `json:"component,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Read      bool           `json:"read"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
}

// New creates a notification with a fresh ID and the current timestamp.
func New(notifType Type, priority Priority, title, message string) Notification {
	return Notification{
		ID:        uuid.New().String(),
		Type:      notifType,
		Priority:  priority,
		Title:     title,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewDetection creates a detection notification for a species, tagging the
// metadata with a URL-safe species slug for dashboard routing.
func NewDetection(species, message string) Notification {
	n := New(TypeDetection, PriorityLow, species, message)
	n.Component = "detection"
	n.Metadata = map[string]any{"species_slug": slug.Make(species)}
	return n
}

// WithComponent sets the component tag and returns the notification.
func (n Notification) WithComponent(component string) Notification {
	n.Component = component
	return n
}

// WithExpiry sets an expiration relative to now and returns the notification.
func (n Notification) WithExpiry(d time.Duration) Notification {
	expiresAt := time.Now().Add(d)
	n.ExpiresAt = &expiresAt
	return n
}

// IsExpired reports whether the notification has passed its expiry.
func (n *Notification) IsExpired() bool {
	if n.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*n.ExpiresAt)
}

// IsValid reports whether the notification carries the fields the merge
// engine requires. Records failing this check are filtered out rather than
// rejected with an error, since ingestion runs on the push hot path.
func (n *Notification) IsValid() bool {
	switch n.Type {
	case TypeError, TypeWarning, TypeInfo, TypeDetection, TypeSystem:
	default:
		return false
	}
	if n.Title == "" || n.Message == "" {
		return false
	}
	return !n.Timestamp.IsZero()
}

// ContentKey identifies the logical event a notification reports. Two
// notifications with equal keys are duplicates regardless of ID or
// timestamp. The comparison is case-sensitive.
func (n *Notification) ContentKey() string {
	return string(n.Type) + "\x00" + n.Title + "\x00" + n.Message + "\x00" + n.Component
}

// isDebugTagged reports whether a notification is developer-only.
func (n *Notification) isDebugTagged() bool {
	if n.Component == "debug" {
		return true
	}
	if n.Metadata == nil {
		return false
	}
	debug, ok := n.Metadata[MetadataKeyDebug].(bool)
	return ok && debug
}

// Clone returns a copy of the notification with its own metadata map, safe
// to hand to subscribers while the original keeps being updated.
func (n *Notification) Clone() Notification {
	clone := *n
	if n.ExpiresAt != nil {
		expiresAt := *n.ExpiresAt
		clone.ExpiresAt = &expiresAt
	}
	if n.Metadata != nil {
		clone.Metadata = make(map[string]any, len(n.Metadata))
		for k, v := range n.Metadata {
			clone.Metadata[k] = v
		}
	}
	return clone
}
