package transcoder

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// FFmpegConfig holds configuration for the FFmpeg transcoder.
type FFmpegConfig struct {
	// FFmpegPath is the path to the ffmpeg binary.
	// If empty, "ffmpeg" will be used (assumes it's in PATH).
	FFmpegPath string

	// VideoCodec is the video codec to use.
	// Default: libx264
	VideoCodec string

	// VideoPreset controls the encoding speed/quality tradeoff.
	// Options: ultrafast, superfast, veryfast, faster, fast, medium, slow, slower, veryslow
	// Default: fast
	VideoPreset string

	// CRF is the constant rate factor (0-51, lower = better quality).
	// Default: 28
	CRF int

	// MaxBitrate caps the video bitrate, e.g. "1M".
	// Default: 1M
	MaxBitrate string

	// ThumbnailOffset is the timestamp to capture the thumbnail from.
	// Default: 00:00:01
	ThumbnailOffset string

	// ThumbnailSize is the thumbnail resolution as WxH.
	// Portrait 9:16 to match the feed player.
	// Default: 1080x1920
	ThumbnailSize string
}

// DefaultFFmpegConfig returns an FFmpegConfig with production-ready defaults.
func DefaultFFmpegConfig() FFmpegConfig {
	return FFmpegConfig{
		FFmpegPath:      "ffmpeg",
		VideoCodec:      "libx264",
		VideoPreset:     "fast",
		CRF:             28,
		MaxBitrate:      "1M",
		ThumbnailOffset: "00:00:01",
		ThumbnailSize:   "1080x1920",
	}
}

// FFmpegTranscoder implements Transcoder using FFmpeg CLI.
type FFmpegTranscoder struct {
	config FFmpegConfig
}

// Compile-time verification that FFmpegTranscoder implements Transcoder.
var _ Transcoder = (*FFmpegTranscoder)(nil)

// NewFFmpegTranscoder creates a new FFmpeg-based transcoder.
func NewFFmpegTranscoder(cfg FFmpegConfig) *FFmpegTranscoder {
	return &FFmpegTranscoder{
		config: cfg,
	}
}

// Compress re-encodes the input into a web-optimized MP4.
// It executes FFmpeg as a subprocess and waits for completion.
func (t *FFmpegTranscoder) Compress(ctx context.Context, inputPath, outputPath string) error {
	if err := t.validateInput(inputPath); err != nil {
		return err
	}
	if err := t.validateOutputDir(filepath.Dir(outputPath)); err != nil {
		return err
	}

	args := t.buildCompressArgs(inputPath, outputPath)

	cmd := exec.CommandContext(ctx, t.config.FFmpegPath, args...)
	cmd.Stdout = nil // Discard stdout
	cmd.Stderr = nil // Discard stderr (FFmpeg outputs progress to stderr)

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("transcoding cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("ffmpeg execution failed: %w", err)
	}

	return nil
}

// ExtractThumbnail captures a single frame at the configured offset.
func (t *FFmpegTranscoder) ExtractThumbnail(ctx context.Context, inputPath, outputPath string) error {
	if err := t.validateInput(inputPath); err != nil {
		return err
	}
	if err := t.validateOutputDir(filepath.Dir(outputPath)); err != nil {
		return err
	}

	args := t.buildThumbnailArgs(inputPath, outputPath)

	cmd := exec.CommandContext(ctx, t.config.FFmpegPath, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("thumbnail extraction cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("ffmpeg execution failed: %w", err)
	}

	return nil
}

// validateInput checks if the input file exists and is readable.
func (t *FFmpegTranscoder) validateInput(inputPath string) error {
	info, err := os.Stat(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", inputPath)
		}
		return fmt.Errorf("failed to access input file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("input path is a directory, expected a file: %s", inputPath)
	}

	return nil
}

// validateOutputDir checks if the output directory exists.
func (t *FFmpegTranscoder) validateOutputDir(outputDir string) error {
	info, err := os.Stat(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory does not exist: %s", outputDir)
		}
		return fmt.Errorf("failed to access output directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("output path is not a directory: %s", outputDir)
	}

	return nil
}

// buildCompressArgs constructs the FFmpeg command arguments for MP4
// compression. +faststart moves the moov atom to the front so playback
// can begin before the full file downloads.
func (t *FFmpegTranscoder) buildCompressArgs(inputPath, outputPath string) []string {
	return []string{
		"-i", inputPath,
		"-c:v", t.config.VideoCodec,
		"-preset", t.config.VideoPreset,
		"-crf", fmt.Sprintf("%d", t.config.CRF),
		"-b:v", t.config.MaxBitrate,
		"-movflags", "+faststart",
		"-y", // Overwrite output files without asking
		outputPath,
	}
}

// buildThumbnailArgs constructs the FFmpeg command arguments for
// single-frame thumbnail extraction.
func (t *FFmpegTranscoder) buildThumbnailArgs(inputPath, outputPath string) []string {
	return []string{
		"-i", inputPath,
		"-ss", t.config.ThumbnailOffset,
		"-vframes", "1",
		"-s", t.config.ThumbnailSize,
		"-y",
		outputPath,
	}
}
