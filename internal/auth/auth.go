// Package auth provides API key middleware for the pinsetterd REST API.
//
// APIKey(mode, header, key) returns net/http middleware that checks the named
// request header against key. When mode != "apikey" or key == "", every
// request passes through, which keeps local development auth-free. A missing
// or wrong key gets 401 with a JSON error body.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
)

// APIKey returns middleware enforcing API key authentication.
func APIKey(mode, header, key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if mode != "apikey" || key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(header)
			if got == "" {
				deny(w, r, "missing api key")
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				deny(w, r, "invalid api key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, msg string) {
	slog.Warn("auth: request rejected", "path", r.URL.Path, "reason", msg)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
