package repository

import "context"

// TranscodeTask describes one unit of work for the transcode worker:
// compress the original upload and extract a thumbnail, then publish
// both asset URLs onto the video row.
type TranscodeTask struct {
	VideoID      int64  `json:"video_id"`
	OriginalKey  string `json:"original_key"`
	VideoKey     string `json:"video_key"`
	ThumbnailKey string `json:"thumbnail_key"`
	RetryCount   int    `json:"retry_count"`
}

// MessageQueue defines the interface for asynchronous task distribution.
// Implementations are provided by the infrastructure layer (RabbitMQ).
type MessageQueue interface {
	// PublishTranscodeTask sends a task to the transcode queue.
	PublishTranscodeTask(ctx context.Context, task TranscodeTask) error

	// ConsumeTranscodeTasks calls handler for each received task until
	// the context is cancelled. A handler error triggers a retry with an
	// incremented RetryCount.
	ConsumeTranscodeTasks(ctx context.Context, handler func(task TranscodeTask) error) error
}
