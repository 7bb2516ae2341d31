package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/shortreel/internal/domain/model"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return mr, client, cleanup
}

func testSnapshot() *model.VideoSnapshot {
	prev := int64(6)
	next := int64(8)
	return &model.VideoSnapshot{
		Video: model.Video{
			ID:           7,
			Title:        "Test Video",
			Description:  "a description",
			UploadedBy:   uuid.New(),
			VideoURL:     "http://minio/videos/7/video.mp4",
			ThumbnailURL: "http://minio/thumbnails/7/thumbnail.png",
			ViewCount:    12,
			LikeCount:    3,
			CreatedAt:    time.Now().Truncate(time.Microsecond),
			UpdatedAt:    time.Now().Truncate(time.Microsecond),
		},
		AuthorName: "Alice",
		PrevID:     &prev,
		NextID:     &next,
		Liked:      true,
	}
}

func TestRedisVideoCache_Snapshot_RoundTrip(t *testing.T) {
	_, client, cleanup := setupTestRedis(t)
	defer cleanup()

	c := NewRedisVideoCache(client)
	ctx := context.Background()
	snapshot := testSnapshot()

	if err := c.SetSnapshot(ctx, snapshot, SnapshotTTL); err != nil {
		t.Fatalf("SetSnapshot failed: %v", err)
	}

	got, err := c.GetSnapshot(ctx, snapshot.Video.ID)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected snapshot, got nil")
	}

	if got.Video.ID != snapshot.Video.ID {
		t.Errorf("Video.ID = %d, want %d", got.Video.ID, snapshot.Video.ID)
	}
	if got.Video.LikeCount != snapshot.Video.LikeCount {
		t.Errorf("Video.LikeCount = %d, want %d", got.Video.LikeCount, snapshot.Video.LikeCount)
	}
	if got.AuthorName != "Alice" {
		t.Errorf("AuthorName = %q, want Alice", got.AuthorName)
	}
	if got.PrevID == nil || *got.PrevID != 6 {
		t.Errorf("PrevID = %v, want 6", got.PrevID)
	}
	if got.NextID == nil || *got.NextID != 8 {
		t.Errorf("NextID = %v, want 8", got.NextID)
	}
	if !got.Liked {
		t.Error("Liked flag lost in round trip")
	}
}

func TestRedisVideoCache_GetSnapshot_CacheMiss(t *testing.T) {
	_, client, cleanup := setupTestRedis(t)
	defer cleanup()

	c := NewRedisVideoCache(client)

	got, err := c.GetSnapshot(context.Background(), 999)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for cache miss, got %v", got)
	}
}

func TestRedisVideoCache_GetSnapshot_SchemaVersionMismatch(t *testing.T) {
	mr, client, cleanup := setupTestRedis(t)
	defer cleanup()

	c := NewRedisVideoCache(client)

	// A payload from a hypothetical older deployment.
	mr.Set("video:7", `{"schema_version":0,"video":{"id":7}}`)

	got, err := c.GetSnapshot(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected mismatched schema to read as miss, got %v", got)
	}
}

func TestRedisVideoCache_DeleteSnapshot(t *testing.T) {
	_, client, cleanup := setupTestRedis(t)
	defer cleanup()

	c := NewRedisVideoCache(client)
	ctx := context.Background()
	snapshot := testSnapshot()

	if err := c.SetSnapshot(ctx, snapshot, SnapshotTTL); err != nil {
		t.Fatalf("SetSnapshot failed: %v", err)
	}

	if err := c.DeleteSnapshot(ctx, snapshot.Video.ID); err != nil {
		t.Fatalf("DeleteSnapshot failed: %v", err)
	}

	got, err := c.GetSnapshot(ctx, snapshot.Video.ID)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %v", got)
	}

	// Deleting again is not an error.
	if err := c.DeleteSnapshot(ctx, snapshot.Video.ID); err != nil {
		t.Errorf("DeleteSnapshot on missing key failed: %v", err)
	}
}

func TestRedisVideoCache_Page_RoundTrip(t *testing.T) {
	_, client, cleanup := setupTestRedis(t)
	defer cleanup()

	c := NewRedisVideoCache(client)
	ctx := context.Background()

	page := &model.VideoPage{
		Page:  2,
		Limit: 10,
		Total: 37,
		Videos: []model.Video{
			{
				ID:         11,
				Title:      "Video 11",
				UploadedBy: uuid.New(),
				CreatedAt:  time.Now().Truncate(time.Microsecond),
				UpdatedAt:  time.Now().Truncate(time.Microsecond),
			},
		},
	}

	if err := c.SetPage(ctx, page, PageTTL); err != nil {
		t.Fatalf("SetPage failed: %v", err)
	}

	got, err := c.GetPage(ctx, 2, 10)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected page, got nil")
	}
	if got.Total != 37 {
		t.Errorf("Total = %d, want 37", got.Total)
	}
	if len(got.Videos) != 1 || got.Videos[0].ID != 11 {
		t.Errorf("Videos = %+v, want single video with ID 11", got.Videos)
	}

	// A different (page, limit) pair is a distinct entry.
	other, err := c.GetPage(ctx, 2, 20)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if other != nil {
		t.Errorf("expected miss for different limit, got %v", other)
	}
}

func TestRedisVideoCache_DeletePages(t *testing.T) {
	_, client, cleanup := setupTestRedis(t)
	defer cleanup()

	c := NewRedisVideoCache(client)
	ctx := context.Background()

	for p := 1; p <= 3; p++ {
		page := &model.VideoPage{Page: p, Limit: 10, Total: 30}
		if err := c.SetPage(ctx, page, PageTTL); err != nil {
			t.Fatalf("SetPage failed: %v", err)
		}
	}
	// A snapshot entry must survive the page sweep.
	if err := c.SetSnapshot(ctx, testSnapshot(), SnapshotTTL); err != nil {
		t.Fatalf("SetSnapshot failed: %v", err)
	}

	if err := c.DeletePages(ctx); err != nil {
		t.Fatalf("DeletePages failed: %v", err)
	}

	for p := 1; p <= 3; p++ {
		got, err := c.GetPage(ctx, p, 10)
		if err != nil {
			t.Fatalf("GetPage failed: %v", err)
		}
		if got != nil {
			t.Errorf("page %d still cached after DeletePages", p)
		}
	}

	snap, err := c.GetSnapshot(ctx, 7)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if snap == nil {
		t.Error("snapshot was deleted by the page sweep")
	}

	// Sweeping an empty keyspace is not an error.
	if err := c.DeletePages(ctx); err != nil {
		t.Errorf("DeletePages on empty keyspace failed: %v", err)
	}
}

func TestRedisVideoCache_MarkViewed(t *testing.T) {
	mr, client, cleanup := setupTestRedis(t)
	defer cleanup()

	c := NewRedisVideoCache(client)
	ctx := context.Background()

	first, err := c.MarkViewed(ctx, 7, "203.0.113.9", ViewMarkerTTL)
	if err != nil {
		t.Fatalf("MarkViewed failed: %v", err)
	}
	if !first {
		t.Error("first MarkViewed should report newly set")
	}

	second, err := c.MarkViewed(ctx, 7, "203.0.113.9", ViewMarkerTTL)
	if err != nil {
		t.Fatalf("MarkViewed failed: %v", err)
	}
	if second {
		t.Error("second MarkViewed within TTL should not report newly set")
	}

	// A different viewer address gets its own marker.
	otherIP, err := c.MarkViewed(ctx, 7, "198.51.100.4", ViewMarkerTTL)
	if err != nil {
		t.Fatalf("MarkViewed failed: %v", err)
	}
	if !otherIP {
		t.Error("different viewer IP should get a fresh marker")
	}

	// After the TTL window the marker expires and views count again.
	mr.FastForward(ViewMarkerTTL + time.Second)

	again, err := c.MarkViewed(ctx, 7, "203.0.113.9", ViewMarkerTTL)
	if err != nil {
		t.Fatalf("MarkViewed failed: %v", err)
	}
	if !again {
		t.Error("MarkViewed after TTL expiry should report newly set")
	}
}

func TestRedisVideoCache_LikeMarker(t *testing.T) {
	mr, client, cleanup := setupTestRedis(t)
	defer cleanup()

	c := NewRedisVideoCache(client)
	ctx := context.Background()
	userID := uuid.New()

	liked, err := c.HasLiked(ctx, 7, userID)
	if err != nil {
		t.Fatalf("HasLiked failed: %v", err)
	}
	if liked {
		t.Error("HasLiked should be false before marker is set")
	}

	if err := c.SetLiked(ctx, 7, userID, LikeMarkerTTL); err != nil {
		t.Fatalf("SetLiked failed: %v", err)
	}

	liked, err = c.HasLiked(ctx, 7, userID)
	if err != nil {
		t.Fatalf("HasLiked failed: %v", err)
	}
	if !liked {
		t.Error("HasLiked should be true after marker is set")
	}

	if err := c.ClearLiked(ctx, 7, userID); err != nil {
		t.Fatalf("ClearLiked failed: %v", err)
	}

	liked, err = c.HasLiked(ctx, 7, userID)
	if err != nil {
		t.Fatalf("HasLiked failed: %v", err)
	}
	if liked {
		t.Error("HasLiked should be false after marker is cleared")
	}

	// Markers expire on their own as well.
	if err := c.SetLiked(ctx, 7, userID, LikeMarkerTTL); err != nil {
		t.Fatalf("SetLiked failed: %v", err)
	}
	mr.FastForward(LikeMarkerTTL + time.Second)

	liked, err = c.HasLiked(ctx, 7, userID)
	if err != nil {
		t.Fatalf("HasLiked failed: %v", err)
	}
	if liked {
		t.Error("HasLiked should be false after marker TTL expiry")
	}
}
