package model

import (
	"time"

	"github.com/google/uuid"
)

// Engagement records that a user likes a video.
// Existence of the row is the sole source of truth for like state;
// the store enforces at most one row per (VideoID, UserID) pair.
type Engagement struct {
	VideoID   int64
	UserID    uuid.UUID
	CreatedAt time.Time
}
