package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hszk-dev/shortreel/internal/domain/repository"
	"github.com/hszk-dev/shortreel/internal/infrastructure/cache"
	"github.com/hszk-dev/shortreel/internal/transcoder"
)

// DefaultMaxRetries is the default maximum number of retry attempts
// before a task is dropped.
const DefaultMaxRetries = 3

// TranscodeServiceConfig holds configuration for TranscodeService.
type TranscodeServiceConfig struct {
	// TempDir is the base directory for temporary files during
	// transcoding.
	TempDir string
	// MaxRetries is the maximum number of retry attempts before the
	// task is dropped.
	MaxRetries int
}

// DefaultTranscodeServiceConfig returns the default configuration.
func DefaultTranscodeServiceConfig() TranscodeServiceConfig {
	return TranscodeServiceConfig{
		TempDir:    os.TempDir(),
		MaxRetries: DefaultMaxRetries,
	}
}

// TranscodeService defines the interface for the worker side of the
// upload pipeline.
type TranscodeService interface {
	// ProcessTask handles one transcode task from the queue.
	// Returns nil on success or permanent failure (max retries
	// exceeded, which drops the task). Returns an error for transient
	// failures that should trigger a retry.
	ProcessTask(ctx context.Context, task repository.TranscodeTask) error
}

type transcodeService struct {
	videos     repository.VideoRepository
	storage    repository.ObjectStorage
	transcoder transcoder.Transcoder
	cache      cache.VideoCache

	tempDir    string
	maxRetries int
}

// NewTranscodeService creates a new TranscodeService instance.
func NewTranscodeService(
	videos repository.VideoRepository,
	storage repository.ObjectStorage,
	tc transcoder.Transcoder,
	videoCache cache.VideoCache,
	cfg TranscodeServiceConfig,
) TranscodeService {
	return &transcodeService{
		videos:     videos,
		storage:    storage,
		transcoder: tc,
		cache:      videoCache,
		tempDir:    cfg.TempDir,
		maxRetries: cfg.MaxRetries,
	}
}

// ProcessTask downloads the original, produces the compressed MP4 and
// thumbnail, uploads both, and publishes their URLs onto the video row.
func (s *transcodeService) ProcessTask(ctx context.Context, task repository.TranscodeTask) error {
	// Max retries exceeded: drop the task so the queue does not loop on
	// a poison message. The video keeps its empty asset URLs; the row
	// remains for manual reprocessing.
	if task.RetryCount >= s.maxRetries {
		slog.Error("transcode task exceeded max retries, dropping",
			"video_id", task.VideoID,
			"retry_count", task.RetryCount,
			"max_retries", s.maxRetries,
		)
		return nil
	}

	workDir, err := os.MkdirTemp(s.tempDir, fmt.Sprintf("transcode-%d-", task.VideoID))
	if err != nil {
		return fmt.Errorf("create work directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			slog.Warn("failed to clean up work directory",
				"dir", workDir,
				"error", err,
			)
		}
	}()

	inputPath := filepath.Join(workDir, "original")
	if err := s.downloadOriginal(ctx, task.OriginalKey, inputPath); err != nil {
		return fmt.Errorf("download original: %w", err)
	}

	videoPath := filepath.Join(workDir, "video.mp4")
	if err := s.transcoder.Compress(ctx, inputPath, videoPath); err != nil {
		return fmt.Errorf("compress video: %w", err)
	}

	thumbnailPath := filepath.Join(workDir, "thumbnail.png")
	if err := s.transcoder.ExtractThumbnail(ctx, inputPath, thumbnailPath); err != nil {
		return fmt.Errorf("extract thumbnail: %w", err)
	}

	if err := s.uploadFile(ctx, task.VideoKey, videoPath, "video/mp4"); err != nil {
		return fmt.Errorf("upload video: %w", err)
	}
	if err := s.uploadFile(ctx, task.ThumbnailKey, thumbnailPath, "image/png"); err != nil {
		return fmt.Errorf("upload thumbnail: %w", err)
	}

	videoURL := s.storage.PublicURL(task.VideoKey)
	thumbnailURL := s.storage.PublicURL(task.ThumbnailKey)
	if err := s.videos.SetAssetURLs(ctx, task.VideoID, videoURL, thumbnailURL); err != nil {
		return fmt.Errorf("set asset URLs: %w", err)
	}

	// Invalidate any snapshot and feed pages cached before the assets
	// existed. Best effort: a stale entry corrects itself at TTL expiry.
	if err := s.cache.DeleteSnapshot(ctx, task.VideoID); err != nil {
		slog.Warn("failed to invalidate snapshot after transcode",
			"video_id", task.VideoID,
			"error", err,
		)
	}
	if err := s.cache.DeletePages(ctx); err != nil {
		slog.Warn("failed to invalidate feed pages after transcode",
			"video_id", task.VideoID,
			"error", err,
		)
	}

	slog.Info("transcode task completed",
		"video_id", task.VideoID,
		"video_url", videoURL,
	)

	return nil
}

// downloadOriginal streams the original object to a local file.
func (s *transcodeService) downloadOriginal(ctx context.Context, key, destPath string) error {
	obj, err := s.storage.Download(ctx, key)
	if err != nil {
		return err
	}
	defer obj.Close()

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create local file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, obj); err != nil {
		return fmt.Errorf("copy object: %w", err)
	}

	return nil
}

// uploadFile streams a local file into object storage.
func (s *transcodeService) uploadFile(ctx context.Context, key, srcPath, contentType string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open local file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat local file: %w", err)
	}

	return s.storage.Upload(ctx, key, f, info.Size(), contentType)
}
