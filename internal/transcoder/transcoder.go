package transcoder

import (
	"context"
)

// Transcoder defines the interface for video processing operations.
// Implementations convert uploaded originals into the compressed MP4
// and thumbnail assets served to clients.
type Transcoder interface {
	// Compress re-encodes the input video into a web-optimized MP4.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - inputPath: Absolute path to the source video file
	//   - outputPath: Absolute path for the compressed MP4
	//
	// The output file's parent directory must exist before calling.
	Compress(ctx context.Context, inputPath, outputPath string) error

	// ExtractThumbnail captures a single frame from the input video and
	// writes it as an image sized for a portrait feed.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - inputPath: Absolute path to the source video file
	//   - outputPath: Absolute path for the thumbnail image
	ExtractThumbnail(ctx context.Context, inputPath, outputPath string) error
}
