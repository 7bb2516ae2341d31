package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hszk-dev/shortreel/internal/domain/model"
	"github.com/hszk-dev/shortreel/internal/infrastructure/auth"
)

func issueToken(t *testing.T, mgr *auth.JWTManager, userID uuid.UUID) string {
	t.Helper()
	user := &model.User{ID: userID, Email: "alice@example.com"}
	token, err := mgr.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return token
}

func viewerEcho(t *testing.T, gotViewer *model.Viewer) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotViewer = ViewerFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth(t *testing.T) {
	mgr := auth.NewJWTManager("test-secret", time.Hour)
	userID := uuid.New()
	token := issueToken(t, mgr, userID)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var viewer model.Viewer
			h := Auth(mgr)(viewerEcho(t, &viewer))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			gotID, ok := viewer.UserID()
			if !ok || gotID != userID {
				t.Errorf("viewer = (%v, %v), want (%v, true)", gotID, ok, userID)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	mgr := auth.NewJWTManager("test-secret", time.Hour)
	userID := uuid.New()
	token := issueToken(t, mgr, userID)

	t.Run("valid token resolves the viewer", func(t *testing.T) {
		var viewer model.Viewer
		h := OptionalAuth(mgr)(viewerEcho(t, &viewer))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !viewer.IsAuthenticated() {
			t.Error("viewer is anonymous, want authenticated")
		}
	})

	t.Run("malformed token falls back to anonymous", func(t *testing.T) {
		var viewer model.Viewer
		h := OptionalAuth(mgr)(viewerEcho(t, &viewer))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if viewer.IsAuthenticated() {
			t.Error("viewer is authenticated, want anonymous")
		}
	})

	t.Run("no header falls back to anonymous", func(t *testing.T) {
		var viewer model.Viewer
		h := OptionalAuth(mgr)(viewerEcho(t, &viewer))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if viewer.IsAuthenticated() {
			t.Error("viewer is authenticated, want anonymous")
		}
	})
}

func TestViewerFrom_Default(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if ViewerFrom(req.Context()).IsAuthenticated() {
		t.Error("viewer from bare context is authenticated, want anonymous")
	}
}
