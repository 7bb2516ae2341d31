package middleware

import (
	"net/http"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
)

// RateLimit limits requests per client IP. rps is the sustained
// requests-per-second allowance; burst is the momentary excess allowed
// on top of it. Over-limit requests get a 429 with the standard
// response envelope.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	lmt := tollbooth.NewLimiter(rps, &limiter.ExpirableOptions{})
	lmt.SetBurst(burst)
	lmt.SetIPLookups([]string{"X-Forwarded-For", "X-Real-IP", "RemoteAddr"})
	lmt.SetMessageContentType("application/json")
	lmt.SetMessage(`{"success":false,"message":"Too many requests, slow down"}`)

	return func(next http.Handler) http.Handler {
		return tollbooth.LimitHandler(lmt, next)
	}
}
