package transcoder

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestDefaultFFmpegConfig(t *testing.T) {
	cfg := DefaultFFmpegConfig()

	if cfg.FFmpegPath != "ffmpeg" {
		t.Errorf("FFmpegPath = %v, want ffmpeg", cfg.FFmpegPath)
	}
	if cfg.VideoCodec != "libx264" {
		t.Errorf("VideoCodec = %v, want libx264", cfg.VideoCodec)
	}
	if cfg.VideoPreset != "fast" {
		t.Errorf("VideoPreset = %v, want fast", cfg.VideoPreset)
	}
	if cfg.CRF != 28 {
		t.Errorf("CRF = %v, want 28", cfg.CRF)
	}
	if cfg.MaxBitrate != "1M" {
		t.Errorf("MaxBitrate = %v, want 1M", cfg.MaxBitrate)
	}
	if cfg.ThumbnailOffset != "00:00:01" {
		t.Errorf("ThumbnailOffset = %v, want 00:00:01", cfg.ThumbnailOffset)
	}
	if cfg.ThumbnailSize != "1080x1920" {
		t.Errorf("ThumbnailSize = %v, want 1080x1920", cfg.ThumbnailSize)
	}
}

func TestBuildCompressArgs(t *testing.T) {
	tr := NewFFmpegTranscoder(DefaultFFmpegConfig())

	args := tr.buildCompressArgs("/tmp/in.mp4", "/tmp/out.mp4")

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-i /tmp/in.mp4",
		"-c:v libx264",
		"-preset fast",
		"-crf 28",
		"-b:v 1M",
		"-movflags +faststart",
		"-y",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %v", want, joined)
		}
	}

	if args[len(args)-1] != "/tmp/out.mp4" {
		t.Errorf("last arg = %v, want output path", args[len(args)-1])
	}
}

func TestBuildThumbnailArgs(t *testing.T) {
	tr := NewFFmpegTranscoder(DefaultFFmpegConfig())

	args := tr.buildThumbnailArgs("/tmp/in.mp4", "/tmp/thumb.png")

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-i /tmp/in.mp4",
		"-ss 00:00:01",
		"-vframes 1",
		"-s 1080x1920",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %v", want, joined)
		}
	}

	if !slices.Contains(args, "-y") {
		t.Errorf("args missing -y: %v", args)
	}
}

func TestCompress_InputValidation(t *testing.T) {
	tr := NewFFmpegTranscoder(DefaultFFmpegConfig())
	ctx := context.Background()
	tmpDir := t.TempDir()

	t.Run("missing input file", func(t *testing.T) {
		err := tr.Compress(ctx, filepath.Join(tmpDir, "nope.mp4"), filepath.Join(tmpDir, "out.mp4"))
		if err == nil || !strings.Contains(err.Error(), "does not exist") {
			t.Errorf("Compress() error = %v, want missing-input error", err)
		}
	})

	t.Run("input is a directory", func(t *testing.T) {
		err := tr.Compress(ctx, tmpDir, filepath.Join(tmpDir, "out.mp4"))
		if err == nil || !strings.Contains(err.Error(), "directory") {
			t.Errorf("Compress() error = %v, want directory error", err)
		}
	})

	t.Run("missing output directory", func(t *testing.T) {
		input := filepath.Join(tmpDir, "in.mp4")
		if err := os.WriteFile(input, []byte("fake"), 0644); err != nil {
			t.Fatalf("failed to write input: %v", err)
		}

		err := tr.Compress(ctx, input, filepath.Join(tmpDir, "missing", "out.mp4"))
		if err == nil || !strings.Contains(err.Error(), "output directory does not exist") {
			t.Errorf("Compress() error = %v, want missing-output-dir error", err)
		}
	})
}

func TestExtractThumbnail_InputValidation(t *testing.T) {
	tr := NewFFmpegTranscoder(DefaultFFmpegConfig())
	tmpDir := t.TempDir()

	err := tr.ExtractThumbnail(context.Background(), filepath.Join(tmpDir, "nope.mp4"), filepath.Join(tmpDir, "thumb.png"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("ExtractThumbnail() error = %v, want missing-input error", err)
	}
}
