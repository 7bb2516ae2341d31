package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hszk-dev/shortreel/internal/domain/model"
	"github.com/hszk-dev/shortreel/internal/domain/repository"
	"github.com/hszk-dev/shortreel/internal/infrastructure/metrics"
)

// DBTX abstracts pgxpool.Pool and pgxmock pools for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

const videoColumns = `id, title, description, uploaded_by, video_url, thumbnail_url, view_count, like_count, created_at, updated_at`

// VideoRepository implements repository.VideoRepository using PostgreSQL.
type VideoRepository struct {
	db DBTX
}

// NewVideoRepository creates a new VideoRepository instance.
func NewVideoRepository(db DBTX) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create persists a new video and fills in its store-generated ID.
func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	const query = `
		INSERT INTO videos (title, description, uploaded_by, video_url, thumbnail_url, view_count, like_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, 0, $6, $7)
		RETURNING id
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableVideos).Inc()
	err := r.db.QueryRow(ctx, query,
		video.Title,
		nullString(video.Description),
		video.UploadedBy,
		nullString(video.VideoURL),
		nullString(video.ThumbnailURL),
		video.CreatedAt,
		video.UpdatedAt,
	).Scan(&video.ID)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

// GetByID retrieves a video by its identifier.
func (r *VideoRepository) GetByID(ctx context.Context, id int64) (*model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableVideos).Inc()
	video, err := scanVideo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video by ID: %w", err)
	}

	return video, nil
}

// GetPrevious retrieves the video immediately preceding id in ID order.
// Returns nil, nil when id is the first video.
func (r *VideoRepository) GetPrevious(ctx context.Context, id int64) (*model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id < $1 ORDER BY id DESC LIMIT 1`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableVideos).Inc()
	video, err := scanVideo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get previous video: %w", err)
	}

	return video, nil
}

// GetNext retrieves the video immediately following id in ID order.
// Returns nil, nil when id is the latest video.
func (r *VideoRepository) GetNext(ctx context.Context, id int64) (*model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id > $1 ORDER BY id ASC LIMIT 1`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableVideos).Inc()
	video, err := scanVideo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get next video: %w", err)
	}

	return video, nil
}

// List retrieves one feed page ordered by creation time descending.
// The ID tiebreak keeps pagination stable for rows sharing a timestamp.
func (r *VideoRepository) List(ctx context.Context, limit, offset int) ([]model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableVideos).Inc()
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	videos := make([]model.Video, 0, limit)
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, *video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}

	return videos, nil
}

// Count returns the total number of videos.
func (r *VideoRepository) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM videos`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableVideos).Inc()
	var total int64
	if err := r.db.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count videos: %w", err)
	}

	return total, nil
}

// IncrementViewCount atomically adds 1 to the view counter.
// The increment happens entirely in the store so concurrent views never
// lose updates to a read-modify-write race.
func (r *VideoRepository) IncrementViewCount(ctx context.Context, id int64) (int64, error) {
	const query = `
		UPDATE videos
		SET view_count = view_count + 1, updated_at = $2
		WHERE id = $1
		RETURNING view_count
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryUpdate, metrics.TableVideos).Inc()
	var count int64
	err := r.db.QueryRow(ctx, query, id, time.Now()).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, repository.ErrVideoNotFound
		}
		return 0, fmt.Errorf("failed to increment view count: %w", err)
	}

	return count, nil
}

// SetAssetURLs writes the transcoded asset URLs onto the video row.
func (r *VideoRepository) SetAssetURLs(ctx context.Context, id int64, videoURL, thumbnailURL string) error {
	const query = `
		UPDATE videos
		SET video_url = $2, thumbnail_url = $3, updated_at = $4
		WHERE id = $1
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryUpdate, metrics.TableVideos).Inc()
	tag, err := r.db.Exec(ctx, query, id, nullString(videoURL), nullString(thumbnailURL), time.Now())
	if err != nil {
		return fmt.Errorf("failed to set asset URLs: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrVideoNotFound
	}

	return nil
}

// scanVideo scans a single row into a Video model.
// pgx.Rows satisfies pgx.Row, so this covers both single and multi row scans.
func scanVideo(row pgx.Row) (*model.Video, error) {
	var (
		video        model.Video
		description  *string
		videoURL     *string
		thumbnailURL *string
	)

	err := row.Scan(
		&video.ID,
		&video.Title,
		&description,
		&video.UploadedBy,
		&videoURL,
		&thumbnailURL,
		&video.ViewCount,
		&video.LikeCount,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description != nil {
		video.Description = *description
	}
	if videoURL != nil {
		video.VideoURL = *videoURL
	}
	if thumbnailURL != nil {
		video.ThumbnailURL = *thumbnailURL
	}

	return &video, nil
}

// nullString returns nil for empty strings, otherwise a pointer to the string.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Compile-time verification that VideoRepository implements repository.VideoRepository.
var _ repository.VideoRepository = (*VideoRepository)(nil)

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation reports whether err is a PostgreSQL foreign_key_violation.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
