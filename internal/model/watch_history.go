package model

import "time"

// WatchHistory is the playback position of one user on one content item.
//
// Fields:
//
//	WatchPosition – seconds into the content.
//	LastWatched   – refreshed on every position update.
type WatchHistory struct {
	UserID        uint64
	ContentID     uint64
	WatchPosition uint32
	LastWatched   time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HistoryEntry pairs a history row with its content summary for listing.
type HistoryEntry struct {
	Content       ContentSummary `json:"content"`
	WatchPosition uint32         `json:"watch_position"`
	LastWatched   time.Time      `json:"last_watched"`
}
