// Package queue defines the activity events exchanged over RabbitMQ and the
// consumer that reads them back.
package queue

import "time"

// Activity event types.
const (
	EventFavoriteAdded   = "favorite.added"
	EventFavoriteRemoved = "favorite.removed"
	EventHistoryUpdated  = "history.updated"
)

// ActivityEvent is published whenever a user's favorites or watch history
// change.  WatchPosition is only meaningful for history.updated.
type ActivityEvent struct {
	Type          string    `json:"type"`
	UserID        uint64    `json:"user_id"`
	ContentID     uint64    `json:"content_id"`
	WatchPosition uint32    `json:"watch_position,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
