// internal/config/config_test.go
//
// Unit-tests for the Store snapshot semantics.
//
// Run: go test ./internal/config -v
//
// t.Setenv gives each test an isolated, auto-restored environment, which
// is what makes the load-once behaviour testable at all.

package config

import "testing"

func TestDefaults_NoEnvironment(t *testing.T) {
	s := New()

	if got := s.Domain(); got != "dps.localhost" {
		t.Errorf("Domain() = %q, want dps.localhost", got)
	}
	if got := s.APIPath(); got != "api" {
		t.Errorf("APIPath() = %q, want api", got)
	}
	if s.DevelopmentMode() {
		t.Error("DevelopmentMode() = true, want false")
	}
	if got := s.AuthAPISubdomain(); got != "auth" {
		t.Errorf("AuthAPISubdomain() = %q, want auth", got)
	}
	if got := s.AuthAPIProtocol(); got != "https" {
		t.Errorf("AuthAPIProtocol() = %q, want https", got)
	}
	if s.AuthAPIInsecureCookie() {
		t.Error("AuthAPIInsecureCookie() = true, want false")
	}
	if got := s.AuthAPISQLiteMainFilePath(); got != "data/main-development.db" {
		t.Errorf("main file path = %q", got)
	}
	if got := s.AuthAPISQLiteCollectionFilePath(); got != "data/collection-development.db" {
		t.Errorf("collection file path = %q", got)
	}
	if got := s.AuthAPISQLiteSessionFilePath(); got != "data/session-development.db" {
		t.Errorf("session file path = %q", got)
	}
	for name, got := range map[string]int{
		"main":       s.AuthAPISQLiteMainPoolSize(),
		"collection": s.AuthAPISQLiteCollectionPoolSize(),
		"session":    s.AuthAPISQLiteSessionPoolSize(),
	} {
		if got != 1 {
			t.Errorf("%s pool size = %d, want 1", name, got)
		}
	}
	if got := s.AuthAPISessionTTLSeconds(); got != 1209600 {
		t.Errorf("session TTL = %d, want 1209600", got)
	}

	if _, ok := s.AuthAPIPort(); ok {
		t.Error("AuthAPIPort() ok = true with no environment, want absent")
	}
	if _, ok := s.AuthAPISessionSecret(); ok {
		t.Error("AuthAPISessionSecret() ok = true with no environment, want absent")
	}
}

func TestStringLoader(t *testing.T) {
	t.Setenv("DPS_DOMAIN", "example.org")
	if got := New().Domain(); got != "example.org" {
		t.Fatalf("Domain() = %q, want example.org", got)
	}

	// Empty string behaves exactly like an absent variable.
	t.Setenv("DPS_DOMAIN", "")
	if got := New().Domain(); got != "dps.localhost" {
		t.Fatalf("Domain() with empty env = %q, want default", got)
	}
}

func TestBooleanLoader_ThreeWay(t *testing.T) {
	// Absent ⇒ unset ⇒ default false.
	if New().DevelopmentMode() {
		t.Error("absent var: DevelopmentMode() = true, want false")
	}

	// Exactly "Y" ⇒ true.
	t.Setenv("DPS_DEVELOPMENT_MODE", "Y")
	if !New().DevelopmentMode() {
		t.Error(`"Y": DevelopmentMode() = false, want true`)
	}

	// Present but not "Y" ⇒ stored false, not unset.  The getter result
	// is false either way, so assert the stored state directly.
	for _, raw := range []string{"", "N", "1", "y", "yes", "true"} {
		t.Setenv("DPS_DEVELOPMENT_MODE", raw)
		s := New()
		if s.DevelopmentMode() {
			t.Errorf("%q: DevelopmentMode() = true, want false", raw)
		}
		if s.developmentMode == nil {
			t.Errorf("%q: stored state is unset, want explicit false", raw)
		} else if *s.developmentMode {
			t.Errorf("%q: stored state is true, want false", raw)
		}
	}
}

func TestIntegerLoader(t *testing.T) {
	t.Setenv("DPS_AUTH_API_SQLITE_MAIN_POOL_SIZE", "8")
	if got := New().AuthAPISQLiteMainPoolSize(); got != 8 {
		t.Errorf("pool size = %d, want 8", got)
	}

	t.Setenv("DPS_AUTH_API_SQLITE_MAIN_POOL_SIZE", "not-a-number")
	if got := New().AuthAPISQLiteMainPoolSize(); got != 1 {
		t.Errorf("malformed value: pool size = %d, want default 1", got)
	}

	t.Setenv("DPS_AUTH_API_PORT", "3000")
	if p, ok := New().AuthAPIPort(); !ok || p != 3000 {
		t.Errorf("AuthAPIPort() = %d, %v, want 3000, true", p, ok)
	}
}

func TestSettersOverride(t *testing.T) {
	t.Setenv("DPS_DOMAIN", "env.example")
	s := New()

	s.SetDomain("override.example")
	if got := s.Domain(); got != "override.example" {
		t.Errorf("Domain() after setter = %q", got)
	}

	s.SetAuthAPIPort(9000)
	if p, ok := s.AuthAPIPort(); !ok || p != 9000 {
		t.Errorf("AuthAPIPort() after setter = %d, %v", p, ok)
	}
	s.ClearAuthAPIPort()
	if _, ok := s.AuthAPIPort(); ok {
		t.Error("AuthAPIPort() present after Clear, want absent")
	}

	s.SetAuthAPISessionSecret("s3cret")
	if sec, ok := s.AuthAPISessionSecret(); !ok || sec != "s3cret" {
		t.Errorf("AuthAPISessionSecret() after setter = %q, %v", sec, ok)
	}
	s.ClearAuthAPISessionSecret()
	if _, ok := s.AuthAPISessionSecret(); ok {
		t.Error("AuthAPISessionSecret() present after Clear, want absent")
	}
}

func TestSnapshotIsFrozen(t *testing.T) {
	t.Setenv("DPS_DOMAIN", "before.example")
	s := New()

	// The environment changing after construction must not leak in.
	t.Setenv("DPS_DOMAIN", "after.example")
	if got := s.Domain(); got != "before.example" {
		t.Errorf("Domain() = %q, want snapshot value before.example", got)
	}
}

func TestAuthAPIURL(t *testing.T) {
	s := New()
	if got := s.AuthAPIURL(); got != "https://auth.dps.localhost/api" {
		t.Errorf("AuthAPIURL() = %q", got)
	}

	s.SetAuthAPIProtocol("http")
	s.SetAuthAPIPort(3000)
	if got := s.AuthAPIURL(); got != "http://auth.dps.localhost:3000/api" {
		t.Errorf("AuthAPIURL() with port = %q", got)
	}

	// Zero port is treated like no port at all.
	s.SetAuthAPIPort(0)
	if got := s.AuthAPIURL(); got != "http://auth.dps.localhost/api" {
		t.Errorf("AuthAPIURL() with zero port = %q", got)
	}
}

func TestSessionSecretBytes_RoundTrip(t *testing.T) {
	s := New()
	if b, ok := s.SessionSecretBytes(); ok || b != nil {
		t.Fatalf("SessionSecretBytes() with no secret = %v, %v", b, ok)
	}

	s.SetAuthAPISessionSecret("my-secret-key")
	b, ok := s.SessionSecretBytes()
	if !ok {
		t.Fatal("SessionSecretBytes() ok = false after setter")
	}
	if string(b) != "my-secret-key" {
		t.Fatalf("round trip = %q, want my-secret-key", b)
	}
}

func TestPrefixIsolation(t *testing.T) {
	t.Setenv("VITE_DPS_DOMAIN", "vite.local")
	t.Setenv("DPS_DOMAIN", "standard.local")

	if got := New("VITE_").Domain(); got != "vite.local" {
		t.Errorf(`New("VITE_").Domain() = %q, want vite.local`, got)
	}
	if got := New().Domain(); got != "standard.local" {
		t.Errorf("New().Domain() = %q, want standard.local", got)
	}
}
