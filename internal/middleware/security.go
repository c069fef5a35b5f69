// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects standard headers on every auth API response:
//
//   • Strict-Transport-Security  –  only when the configured protocol is
//     https; an http deployment must not pin browsers to TLS it can't serve
//   • Content-Security-Policy   –  self-only policy (the API serves JSON)
//   • X-Frame-Options           –  click-jacking defence
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • Referrer-Policy           –  drops path/query from Referer
//   • Permissions-Policy        –  disables powerful features by default
//
// Notes
// -----
// • Headers are seeded *before* next.ServeHTTP:  net/http snapshots the
//   header map when the status line is written, so anything added after a
//   handler's WriteHeader never reaches the client.  Handlers that need a
//   different value simply overwrite the default before writing.

package middleware

import (
	"net/http"

	"github.com/yanizio/dps/internal/config"
)

// Security sets security headers for every response.
func Security(cfg *config.Store, next http.Handler) http.Handler {
	const (
		hsts  = "max-age=63072000; includeSubDomains; preload"
		csp   = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
		xfo   = "DENY"
		nosn  = "nosniff"
		refer = "strict-origin-when-cross-origin"
		perm  = "geolocation=(), microphone=(), camera=()"
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		if cfg.AuthAPIProtocol() == "https" {
			h.Set("Strict-Transport-Security", hsts)
		}
		h.Set("Content-Security-Policy", csp)
		h.Set("X-Frame-Options", xfo)
		h.Set("X-Content-Type-Options", nosn)
		h.Set("Referrer-Policy", refer)
		h.Set("Permissions-Policy", perm)

		next.ServeHTTP(w, r)
	})
}
