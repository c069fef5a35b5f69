// internal/config/model.go
//
// Typed settings model for DPS.
//
// Context
// -------
// `Store` is the one configuration object the rest of the platform reads.
// `New()` in loader.go fills it from a single environment snapshot; after
// that the environment is never consulted again.  Every field is a pointer
// so "never configured" stays distinguishable from any real value:
//
//   • fields with a documented default resolve it in the getter,
//   • authApiPort and authApiSessionSecret have no default, so their
//     getters return an explicit ok flag instead.
//
// Setters overwrite unconditionally and perform no validation.  Nothing in
// this package returns an error.
//
// Notes
// -----
//   • The TTL default is 14 days expressed in seconds.
//   • Oxford commas, two spaces after periods.

package config

import (
	"strconv"
)

//
// Defaults (resolved at read time, never stored)
//

const (
	DefaultDomain                          = "dps.localhost"
	DefaultAPIPath                         = "api"
	DefaultAuthAPISubdomain                = "auth"
	DefaultAuthAPIProtocol                 = "https"
	DefaultAuthAPISQLiteMainFilePath       = "data/main-development.db"
	DefaultAuthAPISQLiteMainPoolSize       = 1
	DefaultAuthAPISQLiteCollectionFilePath = "data/collection-development.db"
	DefaultAuthAPISQLiteCollectionPoolSize = 1
	DefaultAuthAPISQLiteSessionFilePath    = "data/session-development.db"
	DefaultAuthAPISQLiteSessionPoolSize    = 1
	DefaultAuthAPISessionTTLSeconds        = 1209600 // 14 days
)

//
// Store
//

// Store holds one environment snapshot plus any explicit overrides.  A nil
// field means "never configured"; getters fall back to the defaults above.
// Construction happens in loader.go.
type Store struct {
	domain          *string
	apiPath         *string
	developmentMode *bool

	authAPISubdomain      *string
	authAPIPort           *int
	authAPIProtocol       *string
	authAPIInsecureCookie *bool

	authAPISQLiteMainFilePath       *string
	authAPISQLiteMainPoolSize       *int
	authAPISQLiteCollectionFilePath *string
	authAPISQLiteCollectionPoolSize *int
	authAPISQLiteSessionFilePath    *string
	authAPISQLiteSessionPoolSize    *int

	authAPISessionSecret     *string
	authAPISessionTTLSeconds *int
}

//
// Getters — global group
//

// Domain returns the platform apex domain.
func (s *Store) Domain() string { return strOr(s.domain, DefaultDomain) }

// APIPath returns the path segment the auth API is mounted under.
func (s *Store) APIPath() string { return strOr(s.apiPath, DefaultAPIPath) }

// DevelopmentMode reports whether the platform runs with dev conveniences.
func (s *Store) DevelopmentMode() bool { return boolOr(s.developmentMode, false) }

//
// Getters — auth-api group
//

// AuthAPISubdomain returns the subdomain the auth API is served from.
func (s *Store) AuthAPISubdomain() string {
	return strOr(s.authAPISubdomain, DefaultAuthAPISubdomain)
}

// AuthAPIPort returns the explicit listen port.  ok is false when no port
// was ever configured; callers fall back to the protocol's implied port.
func (s *Store) AuthAPIPort() (port int, ok bool) {
	if s.authAPIPort == nil {
		return 0, false
	}
	return *s.authAPIPort, true
}

// AuthAPIProtocol returns "https" unless overridden.
func (s *Store) AuthAPIProtocol() string {
	return strOr(s.authAPIProtocol, DefaultAuthAPIProtocol)
}

// AuthAPIInsecureCookie reports whether session cookies may omit the
// Secure attribute (local development over plain HTTP).
func (s *Store) AuthAPIInsecureCookie() bool {
	return boolOr(s.authAPIInsecureCookie, false)
}

func (s *Store) AuthAPISQLiteMainFilePath() string {
	return strOr(s.authAPISQLiteMainFilePath, DefaultAuthAPISQLiteMainFilePath)
}

func (s *Store) AuthAPISQLiteMainPoolSize() int {
	return intOr(s.authAPISQLiteMainPoolSize, DefaultAuthAPISQLiteMainPoolSize)
}

func (s *Store) AuthAPISQLiteCollectionFilePath() string {
	return strOr(s.authAPISQLiteCollectionFilePath, DefaultAuthAPISQLiteCollectionFilePath)
}

func (s *Store) AuthAPISQLiteCollectionPoolSize() int {
	return intOr(s.authAPISQLiteCollectionPoolSize, DefaultAuthAPISQLiteCollectionPoolSize)
}

func (s *Store) AuthAPISQLiteSessionFilePath() string {
	return strOr(s.authAPISQLiteSessionFilePath, DefaultAuthAPISQLiteSessionFilePath)
}

func (s *Store) AuthAPISQLiteSessionPoolSize() int {
	return intOr(s.authAPISQLiteSessionPoolSize, DefaultAuthAPISQLiteSessionPoolSize)
}

// AuthAPISessionSecret returns the cookie-signing secret.  ok is false when
// the secret was never configured; callers must refuse to sign anything.
func (s *Store) AuthAPISessionSecret() (secret string, ok bool) {
	if s.authAPISessionSecret == nil {
		return "", false
	}
	return *s.authAPISessionSecret, true
}

// AuthAPISessionTTLSeconds returns the session lifetime in whole seconds.
func (s *Store) AuthAPISessionTTLSeconds() int {
	return intOr(s.authAPISessionTTLSeconds, DefaultAuthAPISessionTTLSeconds)
}

//
// Setters — each overwrites outright, no validation
//

func (s *Store) SetDomain(v string)           { s.domain = &v }
func (s *Store) SetAPIPath(v string)          { s.apiPath = &v }
func (s *Store) SetDevelopmentMode(v bool)    { s.developmentMode = &v }
func (s *Store) SetAuthAPISubdomain(v string) { s.authAPISubdomain = &v }

func (s *Store) SetAuthAPIPort(v int) { s.authAPIPort = &v }

// ClearAuthAPIPort restores the "never configured" state.
func (s *Store) ClearAuthAPIPort() { s.authAPIPort = nil }

func (s *Store) SetAuthAPIProtocol(v string)     { s.authAPIProtocol = &v }
func (s *Store) SetAuthAPIInsecureCookie(v bool) { s.authAPIInsecureCookie = &v }

func (s *Store) SetAuthAPISQLiteMainFilePath(v string) { s.authAPISQLiteMainFilePath = &v }
func (s *Store) SetAuthAPISQLiteMainPoolSize(v int)    { s.authAPISQLiteMainPoolSize = &v }

func (s *Store) SetAuthAPISQLiteCollectionFilePath(v string) {
	s.authAPISQLiteCollectionFilePath = &v
}

func (s *Store) SetAuthAPISQLiteCollectionPoolSize(v int) {
	s.authAPISQLiteCollectionPoolSize = &v
}

func (s *Store) SetAuthAPISQLiteSessionFilePath(v string) { s.authAPISQLiteSessionFilePath = &v }
func (s *Store) SetAuthAPISQLiteSessionPoolSize(v int)    { s.authAPISQLiteSessionPoolSize = &v }

func (s *Store) SetAuthAPISessionSecret(v string) { s.authAPISessionSecret = &v }

// ClearAuthAPISessionSecret restores the "never configured" state.
func (s *Store) ClearAuthAPISessionSecret() { s.authAPISessionSecret = nil }

func (s *Store) SetAuthAPISessionTTLSeconds(v int) { s.authAPISessionTTLSeconds = &v }

//
// Derived reads
//

// AuthAPIURL composes "<protocol>://<subdomain>.<domain>[:port]/<apiPath>".
// The port segment is omitted when no port is configured or the configured
// port is zero.  No escaping is performed; values are used as-is.
func (s *Store) AuthAPIURL() string {
	portSeg := ""
	if p, ok := s.AuthAPIPort(); ok && p != 0 {
		portSeg = ":" + strconv.Itoa(p)
	}
	return s.AuthAPIProtocol() + "://" + s.AuthAPISubdomain() + "." + s.Domain() +
		portSeg + "/" + s.APIPath()
}

// SessionSecretBytes returns the UTF-8 bytes of the session secret.  Go
// strings are UTF-8 already, so the conversion is the identity encoding and
// round-trips losslessly.  ok is false when no secret is configured.
func (s *Store) SessionSecretBytes() (b []byte, ok bool) {
	if s.authAPISessionSecret == nil {
		return nil, false
	}
	return []byte(*s.authAPISessionSecret), true
}

//
// Fallback helpers
//

func strOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
