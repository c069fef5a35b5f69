// internal/api/handlers_test.go
//
// Handler tests over httptest with sqlmock backing both databases.
//
// Run: go test ./internal/api -v

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/dps/internal/config"
	"github.com/yanizio/dps/internal/session"
	"github.com/yanizio/dps/internal/user"
)

// fixture builds a Handler with mocked main and session databases.
func fixture(t *testing.T) (*Handler, sqlmock.Sqlmock, sqlmock.Sqlmock) {
	t.Helper()

	mainDB, mainMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { mainDB.Close() })

	sessDB, sessMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sessDB.Close() })

	cfg := config.New()
	cfg.SetAuthAPISessionSecret("test-secret")
	secret, _ := cfg.SessionSecretBytes()

	sessions := session.New(sqlx.NewDb(sessDB, "sqlite3"), cfg.AuthAPISessionTTLSeconds())
	cookies := session.NewCookies(secret, cfg.AuthAPISessionTTLSeconds(), cfg.AuthAPIInsecureCookie())

	h := New(cfg, sqlx.NewDb(mainDB, "sqlite3"), sessions, cookies, zap.NewNop().Sugar())
	return h, mainMock, sessMock
}

func userRow(t *testing.T, id int64, email, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := user.HashPassword(password)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at", "deleted_at"}).
		AddRow(id, email, hash, time.Now(), nil)
}

func TestLogin_OK(t *testing.T) {
	h, mainMock, sessMock := fixture(t)

	mainMock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("me@dps.localhost").
		WillReturnRows(userRow(t, 1, "me@dps.localhost", "correct horse"))
	sessMock.ExpectExec("INSERT INTO session").
		WithArgs(sqlmock.AnyArg(), int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := `{"email":"me@dps.localhost","password":"correct horse"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rr.Code, rr.Body)
	}
	if !strings.Contains(rr.Body.String(), `"auth_url":"https://auth.dps.localhost/api"`) {
		t.Errorf("auth_url missing from body: %s", rr.Body)
	}

	var found bool
	for _, ck := range rr.Result().Cookies() {
		if ck.Name == "dps_session" && ck.Value != "" {
			found = true
			if !ck.Secure {
				t.Error("session cookie not Secure with default config")
			}
		}
	}
	if !found {
		t.Error("no session cookie set")
	}
	if err := sessMock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet session expectations: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	h, mainMock, _ := fixture(t)

	mainMock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("me@dps.localhost").
		WillReturnRows(userRow(t, 1, "me@dps.localhost", "correct horse"))

	body := `{"email":"me@dps.localhost","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestLogin_UnknownEmailSameResponse(t *testing.T) {
	h, mainMock, _ := fixture(t)

	mainMock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("ghost@dps.localhost").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "password_hash", "created_at", "deleted_at"}))

	body := `{"email":"ghost@dps.localhost","password":"anything"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestLogin_ValidationRejectsBadPayload(t *testing.T) {
	h, _, _ := fixture(t)

	for _, body := range []string{
		`{"password":"x"}`,         // missing email
		`{"email":"not-an-email"}`, // bad email, missing password
		`{"email":"a@b.co"}`,       // missing password
		`not json at all`,          // malformed body
	} {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		rr := httptest.NewRecorder()
		h.Routes().ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rr.Code)
		}
	}
}

func TestWhoami_ValidSession(t *testing.T) {
	h, _, sessMock := fixture(t)
	now := time.Now().UTC()

	sessMock.ExpectQuery("SELECT user_id, created_at, expires_at").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "created_at", "expires_at"}).
			AddRow(int64(9), now, now.Add(time.Hour)))

	rr := httptest.NewRecorder()
	h.cookies.Set(rr, "sometoken")

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	for _, ck := range rr.Result().Cookies() {
		req.AddCookie(ck)
	}

	rr2 := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr2, req)

	if rr2.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rr2.Code, rr2.Body)
	}
	if !strings.Contains(rr2.Body.String(), `"user_id":9`) {
		t.Errorf("user_id missing from body: %s", rr2.Body)
	}
}

func TestWhoami_NoCookie(t *testing.T) {
	h, _, _ := fixture(t)

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestLogout_DestroysSessionAndClearsCookie(t *testing.T) {
	h, _, sessMock := fixture(t)

	sessMock.ExpectExec("DELETE FROM session").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := httptest.NewRecorder()
	h.cookies.Set(rr, "sometoken")

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	for _, ck := range rr.Result().Cookies() {
		req.AddCookie(ck)
	}

	rr2 := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr2, req)

	if rr2.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr2.Code)
	}

	var cleared bool
	for _, ck := range rr2.Result().Cookies() {
		if ck.Name == "dps_session" && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("session cookie not cleared")
	}
	if err := sessMock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet session expectations: %v", err)
	}
}
