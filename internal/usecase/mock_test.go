package usecase

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/hszk-dev/shortreel/internal/domain/model"
	"github.com/hszk-dev/shortreel/internal/domain/repository"
)

// mockVideoRepository provides a configurable mock for VideoRepository.
type mockVideoRepository struct {
	createFn             func(ctx context.Context, video *model.Video) error
	getByIDFn            func(ctx context.Context, id int64) (*model.Video, error)
	getPreviousFn        func(ctx context.Context, id int64) (*model.Video, error)
	getNextFn            func(ctx context.Context, id int64) (*model.Video, error)
	listFn               func(ctx context.Context, limit, offset int) ([]model.Video, error)
	countFn              func(ctx context.Context) (int64, error)
	incrementViewCountFn func(ctx context.Context, id int64) (int64, error)
	setAssetURLsFn       func(ctx context.Context, id int64, videoURL, thumbnailURL string) error
}

func (m *mockVideoRepository) Create(ctx context.Context, video *model.Video) error {
	if m.createFn != nil {
		return m.createFn(ctx, video)
	}
	return nil
}

func (m *mockVideoRepository) GetByID(ctx context.Context, id int64) (*model.Video, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrVideoNotFound
}

func (m *mockVideoRepository) GetPrevious(ctx context.Context, id int64) (*model.Video, error) {
	if m.getPreviousFn != nil {
		return m.getPreviousFn(ctx, id)
	}
	return nil, nil
}

func (m *mockVideoRepository) GetNext(ctx context.Context, id int64) (*model.Video, error) {
	if m.getNextFn != nil {
		return m.getNextFn(ctx, id)
	}
	return nil, nil
}

func (m *mockVideoRepository) List(ctx context.Context, limit, offset int) ([]model.Video, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockVideoRepository) Count(ctx context.Context) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockVideoRepository) IncrementViewCount(ctx context.Context, id int64) (int64, error) {
	if m.incrementViewCountFn != nil {
		return m.incrementViewCountFn(ctx, id)
	}
	return 0, nil
}

func (m *mockVideoRepository) SetAssetURLs(ctx context.Context, id int64, videoURL, thumbnailURL string) error {
	if m.setAssetURLsFn != nil {
		return m.setAssetURLsFn(ctx, id, videoURL, thumbnailURL)
	}
	return nil
}

// mockUserRepository provides a configurable mock for UserRepository.
type mockUserRepository struct {
	createFn     func(ctx context.Context, user *model.User) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*model.User, error)
	getByEmailFn func(ctx context.Context, email string) (*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, repository.ErrUserNotFound
}

// mockEngagementRepository provides a configurable mock for EngagementRepository.
type mockEngagementRepository struct {
	existsFn func(ctx context.Context, videoID int64, userID uuid.UUID) (bool, error)
	likeFn   func(ctx context.Context, videoID int64, userID uuid.UUID) (int64, error)
	unlikeFn func(ctx context.Context, videoID int64, userID uuid.UUID) (int64, error)
}

func (m *mockEngagementRepository) Exists(ctx context.Context, videoID int64, userID uuid.UUID) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, videoID, userID)
	}
	return false, nil
}

func (m *mockEngagementRepository) Like(ctx context.Context, videoID int64, userID uuid.UUID) (int64, error) {
	if m.likeFn != nil {
		return m.likeFn(ctx, videoID, userID)
	}
	return 0, nil
}

func (m *mockEngagementRepository) Unlike(ctx context.Context, videoID int64, userID uuid.UUID) (int64, error) {
	if m.unlikeFn != nil {
		return m.unlikeFn(ctx, videoID, userID)
	}
	return 0, nil
}

// mockVideoCache provides a configurable mock for cache.VideoCache.
type mockVideoCache struct {
	getSnapshotFn    func(ctx context.Context, videoID int64) (*model.VideoSnapshot, error)
	setSnapshotFn    func(ctx context.Context, snapshot *model.VideoSnapshot, ttl time.Duration) error
	deleteSnapshotFn func(ctx context.Context, videoID int64) error
	getPageFn        func(ctx context.Context, page, limit int) (*model.VideoPage, error)
	setPageFn        func(ctx context.Context, videoPage *model.VideoPage, ttl time.Duration) error
	deletePagesFn    func(ctx context.Context) error
	markViewedFn     func(ctx context.Context, videoID int64, viewerIP string, ttl time.Duration) (bool, error)
	hasLikedFn       func(ctx context.Context, videoID int64, userID uuid.UUID) (bool, error)
	setLikedFn       func(ctx context.Context, videoID int64, userID uuid.UUID, ttl time.Duration) error
	clearLikedFn     func(ctx context.Context, videoID int64, userID uuid.UUID) error
}

func (m *mockVideoCache) GetSnapshot(ctx context.Context, videoID int64) (*model.VideoSnapshot, error) {
	if m.getSnapshotFn != nil {
		return m.getSnapshotFn(ctx, videoID)
	}
	return nil, nil
}

func (m *mockVideoCache) SetSnapshot(ctx context.Context, snapshot *model.VideoSnapshot, ttl time.Duration) error {
	if m.setSnapshotFn != nil {
		return m.setSnapshotFn(ctx, snapshot, ttl)
	}
	return nil
}

func (m *mockVideoCache) DeleteSnapshot(ctx context.Context, videoID int64) error {
	if m.deleteSnapshotFn != nil {
		return m.deleteSnapshotFn(ctx, videoID)
	}
	return nil
}

func (m *mockVideoCache) GetPage(ctx context.Context, page, limit int) (*model.VideoPage, error) {
	if m.getPageFn != nil {
		return m.getPageFn(ctx, page, limit)
	}
	return nil, nil
}

func (m *mockVideoCache) SetPage(ctx context.Context, videoPage *model.VideoPage, ttl time.Duration) error {
	if m.setPageFn != nil {
		return m.setPageFn(ctx, videoPage, ttl)
	}
	return nil
}

func (m *mockVideoCache) DeletePages(ctx context.Context) error {
	if m.deletePagesFn != nil {
		return m.deletePagesFn(ctx)
	}
	return nil
}

func (m *mockVideoCache) MarkViewed(ctx context.Context, videoID int64, viewerIP string, ttl time.Duration) (bool, error) {
	if m.markViewedFn != nil {
		return m.markViewedFn(ctx, videoID, viewerIP, ttl)
	}
	return false, nil
}

func (m *mockVideoCache) HasLiked(ctx context.Context, videoID int64, userID uuid.UUID) (bool, error) {
	if m.hasLikedFn != nil {
		return m.hasLikedFn(ctx, videoID, userID)
	}
	return false, nil
}

func (m *mockVideoCache) SetLiked(ctx context.Context, videoID int64, userID uuid.UUID, ttl time.Duration) error {
	if m.setLikedFn != nil {
		return m.setLikedFn(ctx, videoID, userID, ttl)
	}
	return nil
}

func (m *mockVideoCache) ClearLiked(ctx context.Context, videoID int64, userID uuid.UUID) error {
	if m.clearLikedFn != nil {
		return m.clearLikedFn(ctx, videoID, userID)
	}
	return nil
}

// mockObjectStorage provides a configurable mock for ObjectStorage.
type mockObjectStorage struct {
	uploadFn    func(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	downloadFn  func(ctx context.Context, key string) (io.ReadCloser, error)
	deleteFn    func(ctx context.Context, key string) error
	publicURLFn func(key string) string
}

func (m *mockObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, key, reader, size, contentType)
	}
	return nil
}

func (m *mockObjectStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.downloadFn != nil {
		return m.downloadFn(ctx, key)
	}
	return nil, repository.ErrObjectNotFound
}

func (m *mockObjectStorage) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

func (m *mockObjectStorage) PublicURL(key string) string {
	if m.publicURLFn != nil {
		return m.publicURLFn(key)
	}
	return "http://localhost:9000/shortreel/" + key
}

// mockMessageQueue provides a configurable mock for MessageQueue.
type mockMessageQueue struct {
	publishFn func(ctx context.Context, task repository.TranscodeTask) error
	consumeFn func(ctx context.Context, handler func(task repository.TranscodeTask) error) error
}

func (m *mockMessageQueue) PublishTranscodeTask(ctx context.Context, task repository.TranscodeTask) error {
	if m.publishFn != nil {
		return m.publishFn(ctx, task)
	}
	return nil
}

func (m *mockMessageQueue) ConsumeTranscodeTasks(ctx context.Context, handler func(task repository.TranscodeTask) error) error {
	if m.consumeFn != nil {
		return m.consumeFn(ctx, handler)
	}
	return nil
}

// mockTranscoder provides a configurable mock for transcoder.Transcoder.
type mockTranscoder struct {
	compressFn         func(ctx context.Context, inputPath, outputPath string) error
	extractThumbnailFn func(ctx context.Context, inputPath, outputPath string) error
}

func (m *mockTranscoder) Compress(ctx context.Context, inputPath, outputPath string) error {
	if m.compressFn != nil {
		return m.compressFn(ctx, inputPath, outputPath)
	}
	return nil
}

func (m *mockTranscoder) ExtractThumbnail(ctx context.Context, inputPath, outputPath string) error {
	if m.extractThumbnailFn != nil {
		return m.extractThumbnailFn(ctx, inputPath, outputPath)
	}
	return nil
}

// mockPasswordHasher provides a configurable mock for PasswordHasher.
type mockPasswordHasher struct {
	hashFn    func(password string) (string, error)
	compareFn func(password, hashed string) error
}

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	if m.hashFn != nil {
		return m.hashFn(password)
	}
	return "hashed:" + password, nil
}

func (m *mockPasswordHasher) Compare(password, hashed string) error {
	if m.compareFn != nil {
		return m.compareFn(password, hashed)
	}
	return nil
}

// mockTokenIssuer provides a configurable mock for TokenIssuer.
type mockTokenIssuer struct {
	generateFn func(user *model.User) (string, error)
}

func (m *mockTokenIssuer) Generate(user *model.User) (string, error) {
	if m.generateFn != nil {
		return m.generateFn(user)
	}
	return "token", nil
}
