package api

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JovelRamos/myfi-server/internal/ratelimit"
)

// rateLimitMiddleware limits requests per client IP and answers 429 in the
// standard envelope when the bucket is empty.
func rateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if !limiter.Allow(key) {
				logger.Warn("rate limit exceeded", "ip", key, "path", r.URL.Path)

				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusTooManyRequests)
				env := Envelope{
					V: envelopeVersion,
					Error: &APIError{
						Code:    statusToCode(http.StatusTooManyRequests),
						Message: "too many requests, slow down",
					},
				}
				if err := json.MarshalWrite(w, env); err != nil {
					logger.Error("failed to encode rate limit response", "error", err)
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	if i := strings.LastIndexByte(r.RemoteAddr, ':'); i >= 0 {
		return r.RemoteAddr[:i]
	}
	return r.RemoteAddr
}
