package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hszk-dev/shortreel/internal/domain/model"
	"github.com/hszk-dev/shortreel/internal/domain/repository"
	"github.com/hszk-dev/shortreel/internal/infrastructure/cache"
	"github.com/hszk-dev/shortreel/internal/infrastructure/metrics"
)

// ToggleLikeOutput contains the result of a like toggle.
type ToggleLikeOutput struct {
	VideoID   int64
	LikeCount int64
	// Liked reflects the post-transition state: true after a like,
	// false after an unlike.
	Liked bool
}

// EngagementServiceConfig holds configuration for EngagementService.
type EngagementServiceConfig struct {
	// SnapshotTTL is the TTL for the rewritten video snapshot.
	SnapshotTTL time.Duration
	// LikeMarkerTTL is the TTL for the like fast-path marker.
	LikeMarkerTTL time.Duration
}

// DefaultEngagementServiceConfig returns the default configuration.
func DefaultEngagementServiceConfig() EngagementServiceConfig {
	return EngagementServiceConfig{
		SnapshotTTL:   cache.SnapshotTTL,
		LikeMarkerTTL: cache.LikeMarkerTTL,
	}
}

// EngagementService defines the interface for the like/unlike toggle.
type EngagementService interface {
	// ToggleLike flips the like state for (videoID, userID): a like when
	// the user has not liked the video, an unlike when they have.
	//
	// Returns repository.ErrVideoNotFound when the video does not exist,
	// and repository.ErrAlreadyLiked / repository.ErrNotLiked when a
	// concurrent toggle wins the store race; both race errors are safe
	// to retry as a fresh toggle.
	ToggleLike(ctx context.Context, videoID int64, userID uuid.UUID) (*ToggleLikeOutput, error)
}

type engagementService struct {
	videos      repository.VideoRepository
	users       repository.UserRepository
	engagements repository.EngagementRepository
	cache       cache.VideoCache

	snapshotTTL   time.Duration
	likeMarkerTTL time.Duration
}

// NewEngagementService creates a new EngagementService instance.
func NewEngagementService(
	videos repository.VideoRepository,
	users repository.UserRepository,
	engagements repository.EngagementRepository,
	videoCache cache.VideoCache,
	cfg EngagementServiceConfig,
) EngagementService {
	return &engagementService{
		videos:        videos,
		users:         users,
		engagements:   engagements,
		cache:         videoCache,
		snapshotTTL:   cfg.SnapshotTTL,
		likeMarkerTTL: cfg.LikeMarkerTTL,
	}
}

// ToggleLike executes the like/unlike state machine.
//
// The durable transaction inside the engagement repository is the sole
// correctness backstop: it pairs the membership mutation with the
// counter update and enforces uniqueness on (videoID, userID). The
// cache marker is a latency optimization for the "already liked" probe
// and never substitutes for the store check on the negative path.
func (s *engagementService) ToggleLike(ctx context.Context, videoID int64, userID uuid.UUID) (*ToggleLikeOutput, error) {
	snapshot, err := s.resolveSnapshot(ctx, videoID)
	if err != nil {
		return nil, err
	}

	hasLiked, err := s.hasLiked(ctx, videoID, userID)
	if err != nil {
		return nil, err
	}

	var likeCount int64
	if hasLiked {
		likeCount, err = s.engagements.Unlike(ctx, videoID, userID)
	} else {
		likeCount, err = s.engagements.Like(ctx, videoID, userID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyLiked) || errors.Is(err, repository.ErrNotLiked) {
			metrics.LikeTogglesTotal.WithLabelValues(metrics.LikeActionConflict).Inc()
		}
		return nil, err
	}

	liked := !hasLiked
	if liked {
		metrics.LikeTogglesTotal.WithLabelValues(metrics.LikeActionLike).Inc()
	} else {
		metrics.LikeTogglesTotal.WithLabelValues(metrics.LikeActionUnlike).Inc()
	}

	s.updateCacheAfterToggle(ctx, snapshot, userID, likeCount, liked)

	return &ToggleLikeOutput{
		VideoID:   videoID,
		LikeCount: likeCount,
		Liked:     liked,
	}, nil
}

// resolveSnapshot loads the video via cache-then-store. Unlike the read
// path it needs no neighbors and no view side effects; a store-sourced
// snapshot is still cached so the subsequent rewrite has a full entry
// to work from.
func (s *engagementService) resolveSnapshot(ctx context.Context, videoID int64) (*model.VideoSnapshot, error) {
	snapshot, err := s.cache.GetSnapshot(ctx, videoID)
	if err != nil {
		slog.Warn("cache get failed, falling back to store",
			"video_id", videoID,
			"error", err,
		)
	}
	if snapshot != nil {
		return snapshot, nil
	}

	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	snapshot = &model.VideoSnapshot{Video: *video}
	if author, err := s.users.GetByID(ctx, video.UploadedBy); err == nil {
		snapshot.AuthorName = author.Name
	}

	if err := s.cache.SetSnapshot(ctx, snapshot, s.snapshotTTL); err != nil {
		slog.Warn("failed to cache video snapshot",
			"video_id", videoID,
			"error", err,
		)
	}

	return snapshot, nil
}

// hasLiked determines the current like state: the cache marker is a
// fast path for the positive case; its absence always falls through to
// the authoritative store check.
func (s *engagementService) hasLiked(ctx context.Context, videoID int64, userID uuid.UUID) (bool, error) {
	marked, err := s.cache.HasLiked(ctx, videoID, userID)
	if err != nil {
		slog.Warn("like marker unavailable, using store",
			"video_id", videoID,
			"error", err,
		)
	} else if marked {
		return true, nil
	}

	exists, err := s.engagements.Exists(ctx, videoID, userID)
	if err != nil {
		return false, fmt.Errorf("check like state: %w", err)
	}
	return exists, nil
}

// updateCacheAfterToggle rewrites the snapshot with the post-transaction
// counter and flips the like marker. Both writes are best effort: the
// transaction already committed, so a cache failure only means readers
// see the old value until TTL expiry.
func (s *engagementService) updateCacheAfterToggle(ctx context.Context, snapshot *model.VideoSnapshot, userID uuid.UUID, likeCount int64, liked bool) {
	videoID := snapshot.Video.ID

	if liked {
		if err := s.cache.SetLiked(ctx, videoID, userID, s.likeMarkerTTL); err != nil {
			slog.Warn("failed to set like marker",
				"video_id", videoID,
				"error", err,
			)
		}
	} else {
		if err := s.cache.ClearLiked(ctx, videoID, userID); err != nil {
			slog.Warn("failed to clear like marker",
				"video_id", videoID,
				"error", err,
			)
		}
	}

	updated := *snapshot
	updated.Video.LikeCount = likeCount
	updated.Liked = liked
	if err := s.cache.SetSnapshot(ctx, &updated, s.snapshotTTL); err != nil {
		slog.Warn("failed to rewrite video snapshot",
			"video_id", videoID,
			"error", err,
		)
	}
}
