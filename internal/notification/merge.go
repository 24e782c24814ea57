package notification

import (
	"sort"
)

// MergeAndDeduplicate combines freshly received notifications with an
// existing list and returns a new list with duplicates collapsed, sorted
// newest-first.
//
// Two notifications are the same logical event when their type, title,
// message and component are all equal (ContentKey). When a duplicate
// arrives, the surviving record keeps the existing ID (stable UI keying),
// its timestamp moves to the most recent occurrence, its priority only ever
// escalates, and a read mark is sticky: once read, a new unread arrival
// does not flip it back.
//
// The result never aliases the caller's slices. Records missing required
// fields are dropped rather than reported, this runs on the push hot path.
func MergeAndDeduplicate(existing, incoming []Notification) []Notification {
	merged := make([]Notification, 0, len(existing)+len(incoming))
	index := make(map[string]int, len(existing))

	for i := range existing {
		n := existing[i].Clone()
		if !n.IsValid() {
			continue
		}
		index[n.ContentKey()] = len(merged)
		merged = append(merged, n)
	}

	for i := range incoming {
		in := incoming[i].Clone()
		if !in.IsValid() {
			continue
		}

		pos, ok := index[in.ContentKey()]
		if !ok {
			index[in.ContentKey()] = len(merged)
			merged = append(merged, in)
			continue
		}

		cur := &merged[pos]
		if in.Timestamp.After(cur.Timestamp) {
			cur.Timestamp = in.Timestamp
		}
		if priorityWeight(in.Priority) > priorityWeight(cur.Priority) {
			cur.Priority = in.Priority
		}
		cur.Read = cur.Read || in.Read
	}

	sortNewestFirst(merged)
	return merged
}

// IsExisting reports whether a freshly pushed notification content-matches
// one already in the list. Side effects (sound, desktop alert, animation)
// fire only for genuinely new events, never for duplicate arrivals.
func IsExisting(candidate Notification, list []Notification) bool {
	key := candidate.ContentKey()
	for i := range list {
		if list[i].ContentKey() == key {
			return true
		}
	}
	return false
}

// ShouldShow reports whether a notification is visible to the user.
// Developer-tagged notifications are hidden unless debug mode is on.
func ShouldShow(n Notification, debugMode bool) bool {
	if !n.IsValid() {
		return false
	}
	if n.isDebugTagged() {
		return debugMode
	}
	return true
}

func sortNewestFirst(notifications []Notification) {
	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].Timestamp.After(notifications[j].Timestamp)
	})
}
