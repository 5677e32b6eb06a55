package model

import "time"

// Favorite is a user's bookmark on a content item.  (UserID, ContentID) is
// the primary key.
type Favorite struct {
	UserID    uint64
	ContentID uint64
	CreatedAt time.Time
}
