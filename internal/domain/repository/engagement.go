package repository

import (
	"context"

	"github.com/google/uuid"
)

// EngagementRepository persists like relationships between users and
// videos. Like and Unlike each run as a single store transaction that
// mutates both the engagement row and the video's like counter, so the
// two can never drift even if the process dies mid-operation.
type EngagementRepository interface {
	// Exists reports whether an engagement row exists for the pair.
	// This is the authoritative like-state check; cache markers are only
	// a fast path in front of it.
	Exists(ctx context.Context, videoID int64, userID uuid.UUID) (bool, error)

	// Like inserts the engagement row and increments the video's like
	// counter in one transaction, returning the new counter value.
	// Returns ErrAlreadyLiked if the row already exists (uniqueness
	// violation, concurrent like race) and ErrVideoNotFound if the video
	// row is missing.
	Like(ctx context.Context, videoID int64, userID uuid.UUID) (int64, error)

	// Unlike deletes the engagement row and decrements the video's like
	// counter in one transaction, returning the new counter value.
	// Returns ErrNotLiked if no row was deleted (concurrent unlike race)
	// and ErrVideoNotFound if the video row is missing.
	Unlike(ctx context.Context, videoID int64, userID uuid.UUID) (int64, error)
}
