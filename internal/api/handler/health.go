package handler

import (
	"net/http"
)

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, "ok", nil)
}
