package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hszk-dev/shortreel/internal/domain/model"
	"github.com/hszk-dev/shortreel/internal/domain/repository"
	"github.com/hszk-dev/shortreel/internal/infrastructure/cache"
	"github.com/hszk-dev/shortreel/internal/infrastructure/metrics"
)

const (
	// DefaultPage is used when the requested page is missing or invalid.
	DefaultPage = 1
	// DefaultPageLimit is used when the requested limit is missing or invalid.
	DefaultPageLimit = 10
)

// VideoReadServiceConfig holds configuration for VideoReadService.
type VideoReadServiceConfig struct {
	// SnapshotTTL is the TTL for cached video snapshots.
	SnapshotTTL time.Duration
	// PageTTL is the TTL for cached feed pages.
	PageTTL time.Duration
	// ViewMarkerTTL is the window within which repeat views from the
	// same address are not counted again.
	ViewMarkerTTL time.Duration
}

// DefaultVideoReadServiceConfig returns the default configuration.
func DefaultVideoReadServiceConfig() VideoReadServiceConfig {
	return VideoReadServiceConfig{
		SnapshotTTL:   cache.SnapshotTTL,
		PageTTL:       cache.PageTTL,
		ViewMarkerTTL: cache.ViewMarkerTTL,
	}
}

// VideoReadService defines the interface for the video read path.
type VideoReadService interface {
	// GetVideo resolves a single video with neighbor IDs and, for
	// authenticated viewers, the liked flag. Each call also runs the
	// view-count debounce for (videoID, viewerIP): the first call per
	// address within the marker TTL increments the store counter.
	// Returns repository.ErrVideoNotFound if the video does not exist.
	GetVideo(ctx context.Context, videoID int64, viewerIP string, viewer model.Viewer) (*model.VideoSnapshot, error)

	// ListVideos returns one feed page ordered by creation time
	// descending. Page and limit fall back to defaults when out of
	// range. No view or like side effects.
	ListVideos(ctx context.Context, page, limit int) (*model.VideoPage, error)
}

type videoReadService struct {
	videos      repository.VideoRepository
	users       repository.UserRepository
	engagements repository.EngagementRepository
	cache       cache.VideoCache
	sfGroup     singleflight.Group

	snapshotTTL   time.Duration
	pageTTL       time.Duration
	viewMarkerTTL time.Duration
}

// NewVideoReadService creates a new VideoReadService instance.
func NewVideoReadService(
	videos repository.VideoRepository,
	users repository.UserRepository,
	engagements repository.EngagementRepository,
	videoCache cache.VideoCache,
	cfg VideoReadServiceConfig,
) VideoReadService {
	return &videoReadService{
		videos:        videos,
		users:         users,
		engagements:   engagements,
		cache:         videoCache,
		snapshotTTL:   cfg.SnapshotTTL,
		pageTTL:       cfg.PageTTL,
		viewMarkerTTL: cfg.ViewMarkerTTL,
	}
}

// GetVideo retrieves a video snapshot with cache-aside and singleflight.
//
// The singleflight key includes the viewer identity because the snapshot
// carries a viewer-specific liked flag; coalescing across viewers would
// leak one viewer's flag to another. The view debounce runs per call,
// outside the singleflight group, so every distinct caller still gets
// its marker probed even when the snapshot load is shared.
func (s *videoReadService) GetVideo(ctx context.Context, videoID int64, viewerIP string, viewer model.Viewer) (*model.VideoSnapshot, error) {
	key := fmt.Sprintf("%d:%s", videoID, viewerKey(viewer))
	result, err, shared := s.sfGroup.Do(key, func() (any, error) {
		return s.getSnapshotWithCache(ctx, videoID, viewer)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return nil, err
	}

	if err := s.debounceView(ctx, videoID, viewerIP); err != nil {
		return nil, err
	}

	return result.(*model.VideoSnapshot), nil
}

// getSnapshotWithCache implements the cache-aside pattern for a single
// video. The snapshot is only written on a miss; hits never rewrite the
// entry, which keeps the hot path write-free.
func (s *videoReadService) getSnapshotWithCache(ctx context.Context, videoID int64, viewer model.Viewer) (*model.VideoSnapshot, error) {
	snapshot, err := s.cache.GetSnapshot(ctx, videoID)
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError).Inc()
		slog.Warn("cache get failed, falling back to store",
			"video_id", videoID,
			"error", err,
		)
	}
	if snapshot != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit).Inc()
		return snapshot, nil
	}
	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss).Inc()

	snapshot, err = s.assembleSnapshot(ctx, videoID, viewer)
	if err != nil {
		// NotFound included: no cache entry is written for missing videos.
		return nil, err
	}

	if err := s.cache.SetSnapshot(ctx, snapshot, s.snapshotTTL); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError).Inc()
		slog.Warn("failed to cache video snapshot",
			"video_id", videoID,
			"error", err,
		)
	} else {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess).Inc()
	}

	return snapshot, nil
}

// assembleSnapshot builds the full read-path view from the store: the
// video row, its prev/next neighbors in ID order, the uploader's display
// name, and the viewer's liked flag when authenticated.
func (s *videoReadService) assembleSnapshot(ctx context.Context, videoID int64, viewer model.Viewer) (*model.VideoSnapshot, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	prev, err := s.videos.GetPrevious(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("get previous video: %w", err)
	}
	next, err := s.videos.GetNext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("get next video: %w", err)
	}

	snapshot := &model.VideoSnapshot{
		Video: *video,
	}
	if prev != nil {
		snapshot.PrevID = &prev.ID
	}
	if next != nil {
		snapshot.NextID = &next.ID
	}

	author, err := s.users.GetByID(ctx, video.UploadedBy)
	if err != nil {
		// A missing author row is a data inconsistency, not a reason to
		// fail the video read.
		slog.Warn("failed to resolve video author",
			"video_id", videoID,
			"uploaded_by", video.UploadedBy,
			"error", err,
		)
	} else {
		snapshot.AuthorName = author.Name
	}

	if userID, ok := viewer.UserID(); ok {
		liked, err := s.engagements.Exists(ctx, videoID, userID)
		if err != nil {
			return nil, fmt.Errorf("check like state: %w", err)
		}
		snapshot.Liked = liked
	}

	return snapshot, nil
}

// debounceView counts at most one view per (videoID, viewerIP) within
// the marker TTL. Marker probe-and-set is a single atomic cache
// operation; when the cache is unavailable the increment is skipped
// rather than risking unbounded double counting.
func (s *videoReadService) debounceView(ctx context.Context, videoID int64, viewerIP string) error {
	newlySet, err := s.cache.MarkViewed(ctx, videoID, viewerIP, s.viewMarkerTTL)
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpMarker, metrics.CacheStatusError).Inc()
		slog.Warn("view marker unavailable, skipping view increment",
			"video_id", videoID,
			"error", err,
		)
		return nil
	}
	if !newlySet {
		return nil
	}

	if _, err := s.videos.IncrementViewCount(ctx, videoID); err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	metrics.ViewIncrementsTotal.Inc()

	return nil
}

// ListVideos returns one feed page via cache-aside on the (page, limit)
// key.
func (s *videoReadService) ListVideos(ctx context.Context, page, limit int) (*model.VideoPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}

	cached, err := s.cache.GetPage(ctx, page, limit)
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError).Inc()
		slog.Warn("cache get failed, falling back to store",
			"page", page,
			"limit", limit,
			"error", err,
		)
	}
	if cached != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit).Inc()
		return cached, nil
	}
	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss).Inc()

	videos, err := s.videos.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	total, err := s.videos.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count videos: %w", err)
	}

	videoPage := &model.VideoPage{
		Page:   page,
		Limit:  limit,
		Total:  total,
		Videos: videos,
	}

	if err := s.cache.SetPage(ctx, videoPage, s.pageTTL); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError).Inc()
		slog.Warn("failed to cache feed page",
			"page", page,
			"limit", limit,
			"error", err,
		)
	} else {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess).Inc()
	}

	return videoPage, nil
}

func viewerKey(viewer model.Viewer) string {
	if userID, ok := viewer.UserID(); ok {
		return userID.String()
	}
	return "anon"
}
