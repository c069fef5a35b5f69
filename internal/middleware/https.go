// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"
	"strings"

	"github.com/yanizio/dps/internal/config"
)

// ForceHTTPS wraps h.  When the configured protocol is https, development
// mode is off, and the request arrived over plain HTTP from a non-local
// host, the wrapper issues a 308 Permanent Redirect to the HTTPS version
// of the same URL.  Otherwise it calls the next handler unchanged.
func ForceHTTPS(cfg *config.Store, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cfg.AuthAPIProtocol() != "https" || cfg.DevelopmentMode() {
			h.ServeHTTP(w, r)
			return
		}

		// Already HTTPS or dev host → continue.
		if r.TLS != nil || stripPort(r.Host) == "localhost" {
			h.ServeHTTP(w, r)
			return
		}

		target := "https://" + r.Host + r.URL.RequestURI()
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
	})
}

// stripPort removes the :port suffix from Host when present.
func stripPort(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
