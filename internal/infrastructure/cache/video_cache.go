package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hszk-dev/shortreel/internal/domain/model"
)

// TTL policy, one value per entry class. Snapshots churn with every like
// and view so they stay short; feed pages tolerate minutes of staleness.
// Markers expire with the dedup window they guard.
const (
	SnapshotTTL   = 60 * time.Second
	PageTTL       = 5 * time.Minute
	ViewMarkerTTL = 60 * time.Second
	LikeMarkerTTL = 60 * time.Second
)

// VideoCache defines the interface for the read-path cache: video
// snapshots, feed pages, and the existence-only markers used to
// deduplicate views and short-circuit like-state checks.
//
// Every entry is a time-bounded projection of store state. Get methods
// return nil, nil (or false, nil) on a miss; callers fall back to the
// store and must never treat a hit as a substitute for the store's
// constraints on write.
type VideoCache interface {
	// GetSnapshot retrieves a cached video snapshot.
	GetSnapshot(ctx context.Context, videoID int64) (*model.VideoSnapshot, error)

	// SetSnapshot stores a video snapshot with the given TTL.
	SetSnapshot(ctx context.Context, snapshot *model.VideoSnapshot, ttl time.Duration) error

	// DeleteSnapshot removes a cached snapshot. Missing entries are not
	// an error.
	DeleteSnapshot(ctx context.Context, videoID int64) error

	// GetPage retrieves a cached feed page for (page, limit).
	GetPage(ctx context.Context, page, limit int) (*model.VideoPage, error)

	// SetPage stores a feed page with the given TTL.
	SetPage(ctx context.Context, videoPage *model.VideoPage, ttl time.Duration) error

	// DeletePages removes all cached feed pages. Used when a new video
	// or fresh asset URLs should appear in the feed before page TTLs
	// expire.
	DeletePages(ctx context.Context) error

	// MarkViewed sets the view marker for (videoID, viewerIP) if it is
	// not already present. Returns true when the marker was newly set,
	// meaning the caller should count the view.
	MarkViewed(ctx context.Context, videoID int64, viewerIP string, ttl time.Duration) (bool, error)

	// HasLiked reports whether the like marker for (videoID, userID)
	// exists. Absence proves nothing; the store check remains mandatory.
	HasLiked(ctx context.Context, videoID int64, userID uuid.UUID) (bool, error)

	// SetLiked sets the like marker after a successful like.
	SetLiked(ctx context.Context, videoID int64, userID uuid.UUID, ttl time.Duration) error

	// ClearLiked removes the like marker after a successful unlike.
	ClearLiked(ctx context.Context, videoID int64, userID uuid.UUID) error
}
