// internal/api/handlers.go
//
// Auth API – login, logout, and whoami.
//
// Context
// -------
// The handlers are the consumers of nearly every configured setting:  the
// session store runs against the session database, cookies follow the
// insecure-cookie flag and TTL, and the mount path under which Routes()
// is attached comes from the composed auth URL.  Every login attempt is
// audit-logged with a parsed User-Agent fingerprint and counted by
// outcome.
//
//------------------------------------------------------------------------------

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/dps/internal/config"
	"github.com/yanizio/dps/internal/metrics"
	"github.com/yanizio/dps/internal/session"
	"github.com/yanizio/dps/internal/ua"
	"github.com/yanizio/dps/internal/user"
)

// Handler bundles the dependencies the auth routes need.  Construct with
// New; the zero value is unusable.
type Handler struct {
	cfg      *config.Store
	users    *sqlx.DB
	sessions *session.Store
	cookies  *session.Cookies
	log      *zap.SugaredLogger
}

// New returns a Handler wired to the main database and session layer.
func New(cfg *config.Store, users *sqlx.DB, sessions *session.Store,
	cookies *session.Cookies, log *zap.SugaredLogger) *Handler {
	return &Handler{cfg: cfg, users: users, sessions: sessions, cookies: cookies, log: log}
}

// Routes builds the router that main mounts under "/<apiPath>".
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/session", h.handleWhoami)
	return r
}

/*──────────────────────────── Handlers ─────────────────────────────────────*/

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	UserID    int64  `json:"user_id"`
	ExpiresIn int    `json:"expires_in"` // seconds
	AuthURL   string `json:"auth_url"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	agent := ua.Parse(r.UserAgent())

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("bad_request").Inc()
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if err := validateStruct(&req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("bad_request").Inc()
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	rec, err := user.ByEmail(r.Context(), h.users, req.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			h.log.Errorw("user lookup failed", "err", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		rec = nil
	}

	// One rejection path for unknown email and wrong password, so the
	// response does not reveal which half failed.
	if rec == nil || !rec.CheckPassword(req.Password) {
		metrics.LoginAttemptsTotal.WithLabelValues("bad_credentials").Inc()
		h.log.Infow("login rejected",
			"email", req.Email,
			"browser", agent.Browser, "os", agent.OS,
			"device", agent.Device, "bot", agent.IsBot,
		)
		writeError(w, http.StatusUnauthorized, "incorrect email or password")
		return
	}

	token, err := h.sessions.Create(r.Context(), rec.ID)
	if err != nil {
		h.log.Errorw("session create failed", "err", err, "user", rec.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.cookies.Set(w, token)

	metrics.LoginAttemptsTotal.WithLabelValues("ok").Inc()
	h.log.Infow("login ok",
		"user", rec.ID,
		"browser", agent.Browser, "os", agent.OS, "device", agent.Device,
	)

	writeJSON(w, http.StatusOK, loginResponse{
		UserID:    rec.ID,
		ExpiresIn: h.cfg.AuthAPISessionTTLSeconds(),
		AuthURL:   h.cfg.AuthAPIURL(),
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := h.cookies.Token(r); ok {
		if err := h.sessions.Destroy(r.Context(), token); err != nil {
			h.log.Errorw("session destroy failed", "err", err)
		}
	}
	// Clear unconditionally; an unsigned or stale cookie still goes away.
	h.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleWhoami(w http.ResponseWriter, r *http.Request) {
	token, ok := h.cookies.Token(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}

	sess, err := h.sessions.Validate(r.Context(), token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
			writeError(w, http.StatusUnauthorized, "no session")
			return
		}
		h.log.Errorw("session validate failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":    sess.UserID,
		"expires_at": sess.ExpiresAt,
	})
}

/*──────────────────────────── JSON helpers ─────────────────────────────────*/

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
