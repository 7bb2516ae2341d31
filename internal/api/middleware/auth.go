package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hszk-dev/shortreel/internal/domain/model"
	"github.com/hszk-dev/shortreel/internal/infrastructure/auth"
)

const ViewerKey ctxKey = RequestIDKey + 1

// Auth requires a valid Bearer token and stores the authenticated
// viewer in the request context. Requests without a valid token get 401.
func Auth(mgr *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer, ok := viewerFromHeader(r, mgr)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"success":false,"message":"Authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), ViewerKey, viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves the viewer when a valid Bearer token is present
// and falls back to anonymous otherwise. A malformed token is treated
// as anonymous rather than rejected; endpoints behind this middleware
// work for everyone.
func OptionalAuth(mgr *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer, ok := viewerFromHeader(r, mgr)
			if !ok {
				viewer = model.AnonymousViewer()
			}

			ctx := context.WithValue(r.Context(), ViewerKey, viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func viewerFromHeader(r *http.Request, mgr *auth.JWTManager) (model.Viewer, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return model.AnonymousViewer(), false
	}

	userID, _, err := mgr.Verify(token)
	if err != nil {
		return model.AnonymousViewer(), false
	}

	return model.AuthenticatedViewer(userID), true
}

// ViewerFrom retrieves the viewer stored by Auth or OptionalAuth.
// Returns an anonymous viewer when neither middleware ran.
func ViewerFrom(ctx context.Context) model.Viewer {
	if viewer, ok := ctx.Value(ViewerKey).(model.Viewer); ok {
		return viewer
	}
	return model.AnonymousViewer()
}
