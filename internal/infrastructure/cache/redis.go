package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/shortreel/internal/domain/model"
)

// snapshotSchemaVersion tags cached payloads so a deployment running an
// older shape never misreads a newer one; mismatches are treated as a
// cache miss and repopulated from the store.
const snapshotSchemaVersion = 1

const (
	videoKeyPrefix = "video:"
	pageKeyPrefix  = "videos:page:"
	viewKeyPrefix  = "view:"
	likeKeyPrefix  = "like:"
)

// videoJSON is the cached representation of a Video. An explicit struct
// avoids coupling the wire shape to the domain model.
type videoJSON struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	UploadedBy   string `json:"uploaded_by"`
	VideoURL     string `json:"video_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	ViewCount    int64  `json:"view_count"`
	LikeCount    int64  `json:"like_count"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type snapshotJSON struct {
	SchemaVersion int       `json:"schema_version"`
	Video         videoJSON `json:"video"`
	AuthorName    string    `json:"author_name,omitempty"`
	PrevID        *int64    `json:"prev_id,omitempty"`
	NextID        *int64    `json:"next_id,omitempty"`
	Liked         bool      `json:"liked"`
}

type pageJSON struct {
	SchemaVersion int         `json:"schema_version"`
	Page          int         `json:"page"`
	Limit         int         `json:"limit"`
	Total         int64       `json:"total"`
	Videos        []videoJSON `json:"videos"`
}

// RedisVideoCache implements VideoCache using Redis as the backing store.
type RedisVideoCache struct {
	client *redis.Client
}

// NewRedisVideoCache creates a new Redis-backed video cache.
func NewRedisVideoCache(client *redis.Client) *RedisVideoCache {
	return &RedisVideoCache{client: client}
}

// GetSnapshot retrieves a video snapshot from Redis.
// Returns nil, nil on cache miss or schema-version mismatch.
func (c *RedisVideoCache) GetSnapshot(ctx context.Context, videoID int64) (*model.VideoSnapshot, error) {
	data, err := c.client.Get(ctx, videoKey(videoID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var s snapshotJSON
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("deserialize snapshot: %w", err)
	}
	if s.SchemaVersion != snapshotSchemaVersion {
		return nil, nil
	}

	video, err := fromVideoJSON(s.Video)
	if err != nil {
		return nil, fmt.Errorf("deserialize snapshot video: %w", err)
	}

	return &model.VideoSnapshot{
		Video:      *video,
		AuthorName: s.AuthorName,
		PrevID:     s.PrevID,
		NextID:     s.NextID,
		Liked:      s.Liked,
	}, nil
}

// SetSnapshot stores a video snapshot with the given TTL.
func (c *RedisVideoCache) SetSnapshot(ctx context.Context, snapshot *model.VideoSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snapshotJSON{
		SchemaVersion: snapshotSchemaVersion,
		Video:         toVideoJSON(snapshot.Video),
		AuthorName:    snapshot.AuthorName,
		PrevID:        snapshot.PrevID,
		NextID:        snapshot.NextID,
		Liked:         snapshot.Liked,
	})
	if err != nil {
		return fmt.Errorf("serialize snapshot: %w", err)
	}

	if err := c.client.Set(ctx, videoKey(snapshot.Video.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// DeleteSnapshot removes a cached snapshot.
func (c *RedisVideoCache) DeleteSnapshot(ctx context.Context, videoID int64) error {
	if err := c.client.Del(ctx, videoKey(videoID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// GetPage retrieves a cached feed page.
// Returns nil, nil on cache miss or schema-version mismatch.
func (c *RedisVideoCache) GetPage(ctx context.Context, page, limit int) (*model.VideoPage, error) {
	data, err := c.client.Get(ctx, pageKey(page, limit)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var p pageJSON
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("deserialize page: %w", err)
	}
	if p.SchemaVersion != snapshotSchemaVersion {
		return nil, nil
	}

	videos := make([]model.Video, 0, len(p.Videos))
	for _, vj := range p.Videos {
		video, err := fromVideoJSON(vj)
		if err != nil {
			return nil, fmt.Errorf("deserialize page video: %w", err)
		}
		videos = append(videos, *video)
	}

	return &model.VideoPage{
		Page:   p.Page,
		Limit:  p.Limit,
		Total:  p.Total,
		Videos: videos,
	}, nil
}

// SetPage stores a feed page with the given TTL.
func (c *RedisVideoCache) SetPage(ctx context.Context, videoPage *model.VideoPage, ttl time.Duration) error {
	videos := make([]videoJSON, 0, len(videoPage.Videos))
	for _, v := range videoPage.Videos {
		videos = append(videos, toVideoJSON(v))
	}

	data, err := json.Marshal(pageJSON{
		SchemaVersion: snapshotSchemaVersion,
		Page:          videoPage.Page,
		Limit:         videoPage.Limit,
		Total:         videoPage.Total,
		Videos:        videos,
	})
	if err != nil {
		return fmt.Errorf("serialize page: %w", err)
	}

	if err := c.client.Set(ctx, pageKey(videoPage.Page, videoPage.Limit), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// DeletePages removes every cached feed page. SCAN keeps the walk
// incremental; page-key cardinality is bounded by the pages clients
// actually request, so this stays cheap.
func (c *RedisVideoCache) DeletePages(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, pageKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	return nil
}

// MarkViewed sets the view marker with SET NX so probe-and-set is a
// single atomic cache operation even under concurrent requests from the
// same address.
func (c *RedisVideoCache) MarkViewed(ctx context.Context, videoID int64, viewerIP string, ttl time.Duration) (bool, error) {
	set, err := c.client.SetNX(ctx, viewKey(videoID, viewerIP), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return set, nil
}

// HasLiked reports whether the like marker exists.
func (c *RedisVideoCache) HasLiked(ctx context.Context, videoID int64, userID uuid.UUID) (bool, error) {
	n, err := c.client.Exists(ctx, likeKey(videoID, userID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// SetLiked sets the like marker.
func (c *RedisVideoCache) SetLiked(ctx context.Context, videoID int64, userID uuid.UUID, ttl time.Duration) error {
	if err := c.client.Set(ctx, likeKey(videoID, userID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// ClearLiked removes the like marker.
func (c *RedisVideoCache) ClearLiked(ctx context.Context, videoID int64, userID uuid.UUID) error {
	if err := c.client.Del(ctx, likeKey(videoID, userID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func videoKey(videoID int64) string {
	return fmt.Sprintf("%s%d", videoKeyPrefix, videoID)
}

func pageKey(page, limit int) string {
	return fmt.Sprintf("%s%d:limit:%d", pageKeyPrefix, page, limit)
}

func viewKey(videoID int64, viewerIP string) string {
	return fmt.Sprintf("%s%d:%s", viewKeyPrefix, videoID, viewerIP)
}

func likeKey(videoID int64, userID uuid.UUID) string {
	return fmt.Sprintf("%s%d:%s", likeKeyPrefix, videoID, userID)
}

func toVideoJSON(v model.Video) videoJSON {
	return videoJSON{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		UploadedBy:   v.UploadedBy.String(),
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		ViewCount:    v.ViewCount,
		LikeCount:    v.LikeCount,
		CreatedAt:    v.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:    v.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func fromVideoJSON(vj videoJSON) (*model.Video, error) {
	uploadedBy, err := uuid.Parse(vj.UploadedBy)
	if err != nil {
		return nil, fmt.Errorf("parse uploaded_by: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, vj.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	updatedAt, err := time.Parse(time.RFC3339Nano, vj.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &model.Video{
		ID:           vj.ID,
		Title:        vj.Title,
		Description:  vj.Description,
		UploadedBy:   uploadedBy,
		VideoURL:     vj.VideoURL,
		ThumbnailURL: vj.ThumbnailURL,
		ViewCount:    vj.ViewCount,
		LikeCount:    vj.LikeCount,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

// Compile-time verification that RedisVideoCache implements VideoCache.
var _ VideoCache = (*RedisVideoCache)(nil)
