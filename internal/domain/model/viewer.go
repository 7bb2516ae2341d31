package model

import "github.com/google/uuid"

// Viewer identifies who is looking at a video: either an anonymous
// visitor or an authenticated user. It replaces a nullable user ID so
// call sites cannot forget to handle the anonymous case.
type Viewer struct {
	userID        uuid.UUID
	authenticated bool
}

// AnonymousViewer returns a Viewer with no identity.
func AnonymousViewer() Viewer {
	return Viewer{}
}

// AuthenticatedViewer returns a Viewer for the given user.
func AuthenticatedViewer(userID uuid.UUID) Viewer {
	return Viewer{userID: userID, authenticated: true}
}

// UserID returns the viewer's user ID and whether the viewer is
// authenticated. The ID is only meaningful when the second return is true.
func (v Viewer) UserID() (uuid.UUID, bool) {
	return v.userID, v.authenticated
}

// IsAuthenticated reports whether the viewer carries a user identity.
func (v Viewer) IsAuthenticated() bool {
	return v.authenticated
}
