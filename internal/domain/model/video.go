package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Video represents a video entity in the domain.
// The numeric ID is assigned by the store and is strictly increasing,
// which makes prev/next navigation a simple ordered lookup.
type Video struct {
	ID           int64
	Title        string
	Description  string
	UploadedBy   uuid.UUID
	VideoURL     string
	ThumbnailURL string
	ViewCount    int64
	LikeCount    int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var (
	ErrEmptyTitle    = errors.New("title cannot be empty")
	ErrTitleTooLong  = errors.New("title exceeds maximum length of 255 characters")
	ErrInvalidUserID = errors.New("uploader ID cannot be nil")
)

const maxTitleLength = 255

// NewVideo creates a new Video owned by the given user.
// Asset URLs and counters are filled in later by the upload pipeline
// and the view/engagement paths respectively.
func NewVideo(uploadedBy uuid.UUID, title, description string) (*Video, error) {
	if uploadedBy == uuid.Nil {
		return nil, ErrInvalidUserID
	}
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if len(title) > maxTitleLength {
		return nil, ErrTitleTooLong
	}

	now := time.Now()
	return &Video{
		Title:       title,
		Description: description,
		UploadedBy:  uploadedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SetAssetURLs records the public URLs of the transcoded video and its
// thumbnail once the upload pipeline has produced them.
func (v *Video) SetAssetURLs(videoURL, thumbnailURL string) {
	v.VideoURL = videoURL
	v.ThumbnailURL = thumbnailURL
	v.UpdatedAt = time.Now()
}

// IsProcessed returns true once the transcoded asset URL has been written.
func (v *Video) IsProcessed() bool {
	return v.VideoURL != ""
}
