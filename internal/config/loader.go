// internal/config/loader.go
//
// Environment snapshot and typed loaders.
//
/*
Context
--------
`New()` builds one `Store` from a single pass over the process environment.
The variables it reads are the fixed `DPS_*` names below, optionally behind
a caller-supplied prefix (`New("VITE_")` reads `VITE_DPS_DOMAIN`, and so
on), so the same logical settings can arrive through a bundler's naming
convention under test.

The snapshot is taken through a Koanf env provider, the same way the
global tree gets its `ADEPT_`-style overlay elsewhere in our stack.  Only
`Exists` and `String` lookups run against it; the typed semantics live in
the three loaders:

  str  — non-empty value, else unset.  An empty-string variable counts as
         absent.
  flag — three-way read collapsed to two values plus unset.  Absent var ⇒
         unset, so the default applies later.  Present and exactly "Y" ⇒
         true.  Present and ANYTHING else, empty string included ⇒ stored
         false, NOT unset.  Easy to get wrong; do not "simplify" this to a
         plain bool parse.
  num  — absent or empty ⇒ unset; otherwise base-10 parse, and a malformed
         value silently degrades to unset rather than failing construction.

Once `New()` returns, the environment is never read again.  Flipping a
variable after construction must not affect an already-built Store; the
setters in model.go are the only post-construction write path.
*/
package config

import (
	"strconv"
	"strings"

	"github.com/knadh/koanf/providers/env"
	koanf "github.com/knadh/koanf/v2"
)

//
// Environment variable names (prefix applied on top)
//

const (
	envDomain          = "DPS_DOMAIN"
	envAPIPath         = "DPS_API_PATH"
	envDevelopmentMode = "DPS_DEVELOPMENT_MODE"

	envAuthAPISubdomain      = "DPS_AUTH_API_SUBDOMAIN"
	envAuthAPIPort           = "DPS_AUTH_API_PORT"
	envAuthAPIProtocol       = "DPS_AUTH_API_PROTOCOL"
	envAuthAPIInsecureCookie = "DPS_AUTH_API_INSECURE_COOKIE"

	envAuthAPISQLiteMainFilePath       = "DPS_AUTH_API_SQLITE_MAIN_FILE_PATH"
	envAuthAPISQLiteMainPoolSize       = "DPS_AUTH_API_SQLITE_MAIN_POOL_SIZE"
	envAuthAPISQLiteCollectionFilePath = "DPS_AUTH_API_SQLITE_COLLECTION_FILE_PATH"
	envAuthAPISQLiteCollectionPoolSize = "DPS_AUTH_API_SQLITE_COLLECTION_POOL_SIZE"
	envAuthAPISQLiteSessionFilePath    = "DPS_AUTH_API_SQLITE_SESSION_FILE_PATH"
	envAuthAPISQLiteSessionPoolSize    = "DPS_AUTH_API_SQLITE_SESSION_POOL_SIZE"

	envAuthAPISessionSecret     = "DPS_AUTH_API_SESSION_SECRET"
	envAuthAPISessionTTLSeconds = "DPS_AUTH_API_SESSION_TTL_SECONDS"
)

/*─────────────────────────────── loader ───────────────────────────────────*/

// New snapshots the environment once and returns a populated Store.  An
// optional prefix is prepended to every variable name; at most the first
// prefix argument is used.
func New(prefix ...string) *Store {
	p := ""
	if len(prefix) > 0 {
		p = prefix[0]
	}
	snap := takeSnapshot(p)

	return &Store{
		domain:          snap.str(envDomain),
		apiPath:         snap.str(envAPIPath),
		developmentMode: snap.flag(envDevelopmentMode),

		authAPISubdomain:      snap.str(envAuthAPISubdomain),
		authAPIPort:           snap.num(envAuthAPIPort),
		authAPIProtocol:       snap.str(envAuthAPIProtocol),
		authAPIInsecureCookie: snap.flag(envAuthAPIInsecureCookie),

		authAPISQLiteMainFilePath:       snap.str(envAuthAPISQLiteMainFilePath),
		authAPISQLiteMainPoolSize:       snap.num(envAuthAPISQLiteMainPoolSize),
		authAPISQLiteCollectionFilePath: snap.str(envAuthAPISQLiteCollectionFilePath),
		authAPISQLiteCollectionPoolSize: snap.num(envAuthAPISQLiteCollectionPoolSize),
		authAPISQLiteSessionFilePath:    snap.str(envAuthAPISQLiteSessionFilePath),
		authAPISQLiteSessionPoolSize:    snap.num(envAuthAPISQLiteSessionPoolSize),

		authAPISessionSecret:     snap.str(envAuthAPISessionSecret),
		authAPISessionTTLSeconds: snap.num(envAuthAPISessionTTLSeconds),
	}
}

/*─────────────────────────────── snapshot ─────────────────────────────────*/

// snapshot is a frozen view of the prefixed environment.  Keys are the
// canonical DPS_* names with the caller's prefix already stripped.
type snapshot struct {
	k *koanf.Koanf
}

// takeSnapshot loads every `<prefix>DPS_*` variable into a Koanf tree.
// The env provider walks os.Environ exactly once, which gives us the
// load-once guarantee for free.
func takeSnapshot(prefix string) snapshot {
	k := koanf.New(".")

	// The provider filter keeps only our variables; the callback strips
	// the caller prefix so lookups use canonical names.  Load cannot fail
	// for the env provider with a nil parser, but the contract here is
	// "never error" either way, so a failure just yields an empty tree.
	_ = k.Load(env.Provider(prefix+"DPS_", ".", func(name string) string {
		return strings.TrimPrefix(name, prefix)
	}), nil)

	return snapshot{k: k}
}

//
// Typed loaders — nil return means unset
//

// str returns the raw value when present and non-empty.
func (s snapshot) str(key string) *string {
	v := s.k.String(key)
	if v == "" {
		return nil
	}
	return &v
}

// flag implements the three-way boolean read described in the header.
// Presence matters:  a present-but-not-"Y" value stores an explicit false.
func (s snapshot) flag(key string) *bool {
	if !s.k.Exists(key) {
		return nil
	}
	b := s.k.String(key) == "Y"
	return &b
}

// num parses a base-10 integer; absent, empty, and malformed values all
// degrade to unset.
func (s snapshot) num(key string) *int {
	v := s.k.String(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
