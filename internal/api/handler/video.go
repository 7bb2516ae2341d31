package handler

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hszk-dev/shortreel/internal/api/middleware"
	"github.com/hszk-dev/shortreel/internal/domain/model"
	"github.com/hszk-dev/shortreel/internal/domain/repository"
	"github.com/hszk-dev/shortreel/internal/usecase"
)

// DefaultMaxUploadBytes caps multipart upload memory/size parsing.
const DefaultMaxUploadBytes = 512 << 20 // 512 MiB

// Request/Response types

type VideoResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	UploadedBy   string `json:"uploaded_by"`
	AuthorName   string `json:"author_name,omitempty"`
	VideoURL     string `json:"video_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	ViewCount    int64  `json:"view_count"`
	LikeCount    int64  `json:"like_count"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type VideoDetailResponse struct {
	VideoResponse
	PrevID *int64 `json:"prev_id,omitempty"`
	NextID *int64 `json:"next_id,omitempty"`
	Liked  bool   `json:"liked"`
}

type ToggleLikeResponse struct {
	VideoID   int64 `json:"video_id"`
	LikeCount int64 `json:"like_count"`
	Liked     bool  `json:"liked"`
}

// VideoHandler handles video-related HTTP requests.
type VideoHandler struct {
	read        usecase.VideoReadService
	uploads     usecase.UploadService
	engagements usecase.EngagementService

	maxUploadBytes int64
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(
	read usecase.VideoReadService,
	uploads usecase.UploadService,
	engagements usecase.EngagementService,
) *VideoHandler {
	return &VideoHandler{
		read:           read,
		uploads:        uploads,
		engagements:    engagements,
		maxUploadBytes: DefaultMaxUploadBytes,
	}
}

// Upload handles POST /v1/videos (multipart form: title, description, video).
// Requires an authenticated viewer.
func (h *VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.ViewerFrom(r.Context()).UserID()
	if !ok {
		Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		Error(w, http.StatusBadRequest, "Video file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	video, err := h.uploads.Upload(r.Context(), usecase.UploadInput{
		UserID:      userID,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		FileName:    header.Filename,
		File:        file,
		Size:        header.Size,
		ContentType: contentType,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, "Video uploaded successfully, processing started", toVideoResponse(video))
}

// List handles GET /v1/videos?page=&limit=
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parseIntParam(r.URL.Query().Get("page"), usecase.DefaultPage)
	limit := parseIntParam(r.URL.Query().Get("limit"), usecase.DefaultPageLimit)

	videoPage, err := h.read.ListVideos(r.Context(), page, limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	videos := make([]VideoResponse, 0, len(videoPage.Videos))
	for i := range videoPage.Videos {
		videos = append(videos, toVideoResponse(&videoPage.Videos[i]))
	}

	JSONPage(w, http.StatusOK, "Videos fetched successfully", videos, Meta{
		Page:  videoPage.Page,
		Limit: videoPage.Limit,
		Total: videoPage.Total,
	})
}

// Get handles GET /v1/videos/{id}
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		Error(w, http.StatusBadRequest, "Video ID must be an integer")
		return
	}

	viewer := middleware.ViewerFrom(r.Context())
	snapshot, err := h.read.GetVideo(r.Context(), videoID, clientIP(r), viewer)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, "Video fetched successfully", VideoDetailResponse{
		VideoResponse: toSnapshotVideoResponse(snapshot),
		PrevID:        snapshot.PrevID,
		NextID:        snapshot.NextID,
		Liked:         snapshot.Liked,
	})
}

// Like handles POST /v1/videos/{id}/like
// Requires an authenticated viewer; the toggle flips like state.
func (h *VideoHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.ViewerFrom(r.Context()).UserID()
	if !ok {
		Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	videoID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		Error(w, http.StatusBadRequest, "Video ID must be an integer")
		return
	}

	out, err := h.engagements.ToggleLike(r.Context(), videoID, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	message := "Video unliked successfully"
	if out.Liked {
		message = "Video liked successfully"
	}

	JSON(w, http.StatusOK, message, ToggleLikeResponse{
		VideoID:   out.VideoID,
		LikeCount: out.LikeCount,
		Liked:     out.Liked,
	})
}

func (h *VideoHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrVideoNotFound):
		Error(w, http.StatusNotFound, "Video not found")
	case errors.Is(err, repository.ErrAlreadyLiked), errors.Is(err, repository.ErrNotLiked):
		// Lost a concurrent toggle race; the client can retry the toggle.
		Error(w, http.StatusConflict, "Like state changed concurrently, retry")
	case errors.Is(err, model.ErrEmptyTitle):
		Error(w, http.StatusBadRequest, "Title cannot be empty")
	case errors.Is(err, model.ErrTitleTooLong):
		Error(w, http.StatusBadRequest, "Title exceeds maximum length")
	case errors.Is(err, model.ErrInvalidUserID):
		Error(w, http.StatusBadRequest, "User ID cannot be empty")
	default:
		Error(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// parseIntParam coerces an untrusted query parameter. Missing or
// non-numeric values fall back to the default rather than erroring.
func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// clientIP resolves the viewer address used for view deduplication,
// preferring proxy headers over the socket address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip, _, found := strings.Cut(fwd, ","); found || ip != "" {
			return strings.TrimSpace(ip)
		}
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func toVideoResponse(v *model.Video) VideoResponse {
	return VideoResponse{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		UploadedBy:   v.UploadedBy.String(),
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		ViewCount:    v.ViewCount,
		LikeCount:    v.LikeCount,
		CreatedAt:    v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    v.UpdatedAt.Format(time.RFC3339),
	}
}

func toSnapshotVideoResponse(s *model.VideoSnapshot) VideoResponse {
	resp := toVideoResponse(&s.Video)
	resp.AuthorName = s.AuthorName
	return resp
}
