package repository

import (
	"context"

	"github.com/hszk-dev/shortreel/internal/domain/model"
)

// VideoRepository defines the interface for video persistence operations.
// Implementations are provided by the infrastructure layer (PostgreSQL).
type VideoRepository interface {
	// Create persists a new video and assigns its store-generated ID.
	Create(ctx context.Context, video *model.Video) error

	// GetByID retrieves a video by its identifier.
	// Returns nil and ErrVideoNotFound if the video does not exist.
	GetByID(ctx context.Context, id int64) (*model.Video, error)

	// GetPrevious retrieves the video immediately preceding id in ID order.
	// Returns nil, nil when no such video exists.
	GetPrevious(ctx context.Context, id int64) (*model.Video, error)

	// GetNext retrieves the video immediately following id in ID order.
	// Returns nil, nil when no such video exists.
	GetNext(ctx context.Context, id int64) (*model.Video, error)

	// List retrieves up to limit videos ordered by creation time
	// descending, skipping offset rows. Returns an empty slice when the
	// page is past the end.
	List(ctx context.Context, limit, offset int) ([]model.Video, error)

	// Count returns the total number of videos.
	Count(ctx context.Context) (int64, error)

	// IncrementViewCount atomically adds 1 to the video's view counter in
	// the store and returns the new value.
	// Returns ErrVideoNotFound if the video does not exist.
	IncrementViewCount(ctx context.Context, id int64) (int64, error)

	// SetAssetURLs writes the transcoded video and thumbnail URLs
	// produced by the upload pipeline.
	// Returns ErrVideoNotFound if the video does not exist.
	SetAssetURLs(ctx context.Context, id int64, videoURL, thumbnailURL string) error
}
