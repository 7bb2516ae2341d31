package usecase

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"github.com/hszk-dev/shortreel/internal/domain/model"
	"github.com/hszk-dev/shortreel/internal/domain/repository"
)

// UploadInput contains the input parameters for a video upload.
type UploadInput struct {
	UserID      uuid.UUID
	Title       string
	Description string
	FileName    string
	File        io.Reader
	Size        int64
	ContentType string
}

// UploadService defines the interface for the upload pipeline entry
// point.
type UploadService interface {
	// Upload persists the video row, stores the original file, and
	// enqueues the transcode task. The returned video has no asset URLs
	// yet; the worker fills them in when transcoding completes.
	Upload(ctx context.Context, input UploadInput) (*model.Video, error)
}

type uploadService struct {
	videos  repository.VideoRepository
	storage repository.ObjectStorage
	queue   repository.MessageQueue
}

// NewUploadService creates a new UploadService instance.
func NewUploadService(
	videos repository.VideoRepository,
	storage repository.ObjectStorage,
	queue repository.MessageQueue,
) UploadService {
	return &uploadService{
		videos:  videos,
		storage: storage,
		queue:   queue,
	}
}

// Upload runs the synchronous half of the pipeline: row insert, original
// upload, task publish. The row is created first so the original key can
// embed the store-generated ID.
func (s *uploadService) Upload(ctx context.Context, input UploadInput) (*model.Video, error) {
	video, err := model.NewVideo(input.UserID, input.Title, input.Description)
	if err != nil {
		return nil, err
	}

	if err := s.videos.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}

	originalKey := generateOriginalKey(video.ID, input.FileName)
	if err := s.storage.Upload(ctx, originalKey, input.File, input.Size, input.ContentType); err != nil {
		return nil, fmt.Errorf("upload original: %w", err)
	}

	task := repository.TranscodeTask{
		VideoID:      video.ID,
		OriginalKey:  originalKey,
		VideoKey:     generateVideoKey(video.ID),
		ThumbnailKey: generateThumbnailKey(video.ID),
	}
	if err := s.queue.PublishTranscodeTask(ctx, task); err != nil {
		return nil, fmt.Errorf("publish transcode task: %w", err)
	}

	return video, nil
}

// Object key layout. The original keeps its uploaded base name so the
// worker can log something recognizable; derived assets use fixed names.
func generateOriginalKey(videoID int64, fileName string) string {
	base := path.Base(fileName)
	if base == "." || base == "/" || base == "" {
		base = "original"
	}
	return fmt.Sprintf("originals/%d/%s", videoID, base)
}

func generateVideoKey(videoID int64) string {
	return fmt.Sprintf("videos/%d/video.mp4", videoID)
}

func generateThumbnailKey(videoID int64) string {
	return fmt.Sprintf("thumbnails/%d/thumbnail.png", videoID)
}
