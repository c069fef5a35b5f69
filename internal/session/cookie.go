// internal/session/cookie.go
//
// Signed session cookie helpers.
//
// Context
//   The browser-facing half of the session layer.  The cookie value is
//   "<token>.<sig>" where sig is a URL-safe base64 HMAC-SHA256 of the raw
//   token, keyed by the configured session secret (config exposes it as an
//   exact byte sequence).  Tampered or unsigned cookies are rejected
//   before the store is ever consulted.
//
//   The Secure attribute follows the insecure-cookie setting:  local
//   development over plain HTTP sets it to false, everything else keeps
//   Secure on.

package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

const cookieName = "dps_session"

// Cookies signs, sets, and reads the session cookie.  Construct once at
// boot from config values; the zero value is unusable.
type Cookies struct {
	secret   []byte
	ttl      time.Duration
	insecure bool
}

// NewCookies wires the cookie helpers to the platform configuration.
// secret must be the config layer's SessionSecretBytes.
func NewCookies(secret []byte, ttlSeconds int, insecure bool) *Cookies {
	return &Cookies{
		secret:   secret,
		ttl:      time.Duration(ttlSeconds) * time.Second,
		insecure: insecure,
	}
}

// Set writes the signed session cookie for token.
func (c *Cookies) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token + "." + c.sign(token),
		Path:     "/",
		HttpOnly: true,
		Secure:   !c.insecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(c.ttl),
		MaxAge:   int(c.ttl / time.Second),
	})
}

// Clear expires the session cookie.
func (c *Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !c.insecure,
	})
}

// Token extracts and verifies the raw token from the request cookie.
// ok == false when the cookie is missing, malformed, or carries a bad
// signature.
func (c *Cookies) Token(r *http.Request) (token string, ok bool) {
	ck, err := r.Cookie(cookieName)
	if err != nil || ck.Value == "" {
		return "", false
	}

	i := strings.LastIndexByte(ck.Value, '.')
	if i <= 0 || i == len(ck.Value)-1 {
		return "", false
	}
	token, sig := ck.Value[:i], ck.Value[i+1:]

	if !hmac.Equal([]byte(sig), []byte(c.sign(token))) {
		return "", false
	}
	return token, true
}

func (c *Cookies) sign(token string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
