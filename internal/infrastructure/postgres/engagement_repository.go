package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hszk-dev/shortreel/internal/domain/repository"
	"github.com/hszk-dev/shortreel/internal/infrastructure/metrics"
)

// EngagementRepository implements repository.EngagementRepository using
// PostgreSQL. The engagements table carries a primary key on
// (video_id, user_id); that constraint, not any cache state, is what
// makes concurrent like toggles safe.
type EngagementRepository struct {
	db DBTX
}

// NewEngagementRepository creates a new EngagementRepository instance.
func NewEngagementRepository(db DBTX) *EngagementRepository {
	return &EngagementRepository{db: db}
}

// Exists reports whether the user has liked the video.
func (r *EngagementRepository) Exists(ctx context.Context, videoID int64, userID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM engagements WHERE video_id = $1 AND user_id = $2)`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableEngagements).Inc()
	var exists bool
	if err := r.db.QueryRow(ctx, query, videoID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check engagement: %w", err)
	}

	return exists, nil
}

// Like inserts the engagement row and increments the like counter in one
// transaction. The counter moves via a relative UPDATE so that
// read-committed isolation is sufficient: two committed likes always
// produce two increments, and a duplicate insert aborts the whole
// transaction before the counter is touched.
func (r *EngagementRepository) Like(ctx context.Context, videoID int64, userID uuid.UUID) (int64, error) {
	const insertQuery = `INSERT INTO engagements (video_id, user_id, created_at) VALUES ($1, $2, $3)`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableEngagements).Inc()
	if _, err := tx.Exec(ctx, insertQuery, videoID, userID, time.Now()); err != nil {
		switch {
		case isUniqueViolation(err):
			return 0, repository.ErrAlreadyLiked
		case isForeignKeyViolation(err):
			return 0, repository.ErrVideoNotFound
		default:
			return 0, fmt.Errorf("failed to insert engagement: %w", err)
		}
	}

	count, err := r.adjustLikeCount(ctx, tx, videoID, +1)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit like: %w", err)
	}

	return count, nil
}

// Unlike deletes the engagement row and decrements the like counter in
// one transaction. A zero-row delete means a concurrent request already
// removed the like; the transaction aborts without touching the counter.
func (r *EngagementRepository) Unlike(ctx context.Context, videoID int64, userID uuid.UUID) (int64, error) {
	const deleteQuery = `DELETE FROM engagements WHERE video_id = $1 AND user_id = $2`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryDelete, metrics.TableEngagements).Inc()
	tag, err := tx.Exec(ctx, deleteQuery, videoID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete engagement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, repository.ErrNotLiked
	}

	count, err := r.adjustLikeCount(ctx, tx, videoID, -1)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit unlike: %w", err)
	}

	return count, nil
}

// adjustLikeCount applies a relative counter update inside tx and returns
// the new value. GREATEST keeps the counter non-negative even if a
// historical drift ever left it at zero with a row still present.
func (r *EngagementRepository) adjustLikeCount(ctx context.Context, tx pgx.Tx, videoID int64, delta int64) (int64, error) {
	const query = `
		UPDATE videos
		SET like_count = GREATEST(like_count + $2, 0), updated_at = $3
		WHERE id = $1
		RETURNING like_count
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryUpdate, metrics.TableVideos).Inc()
	var count int64
	err := tx.QueryRow(ctx, query, videoID, delta, time.Now()).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, repository.ErrVideoNotFound
		}
		return 0, fmt.Errorf("failed to update like count: %w", err)
	}

	return count, nil
}

// Compile-time verification that EngagementRepository implements repository.EngagementRepository.
var _ repository.EngagementRepository = (*EngagementRepository)(nil)
