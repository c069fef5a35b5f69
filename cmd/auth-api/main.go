// cmd/auth-api/main.go
//
// DPS auth API – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (server-wide file → .env fallback) so the config
//     snapshot sees them.
//
//  2. Take the one-time config snapshot (config.New).
//
//  3. Start daily rotating logger (tees to console when running in a TTY,
//     debug level in development mode).
//
//  4. Resolve a vault:-style session-secret reference, if configured.
//
//  5. Open the three SQLite pools (main, collection, session) at their
//     configured paths and pool sizes, and run the idempotent migrations.
//
//  6. Build the session store and cookie signer from the secret bytes,
//     the TTL, and the insecure-cookie flag.
//
//  7. Mount the auth routes under /<apiPath>, expose Prometheus /metrics,
//     and wrap everything with the security-header and HTTPS-enforcement
//     middleware.
//
//  8. Listen on the configured port, falling back to the protocol's
//     implied port when none is set.
//
// A background ticker purges expired sessions and refreshes the
// active-session gauge.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/dps/internal/api"
	"github.com/yanizio/dps/internal/config"
	"github.com/yanizio/dps/internal/database"
	"github.com/yanizio/dps/internal/logger"
	"github.com/yanizio/dps/internal/metrics"
	"github.com/yanizio/dps/internal/middleware"
	"github.com/yanizio/dps/internal/server"
	"github.com/yanizio/dps/internal/session"
	"github.com/yanizio/dps/internal/user"
	"github.com/yanizio/dps/internal/vault"
)

const serverEnvPath = "/usr/local/etc/dps/auth-api.env"

// loadEnv prefers the server-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	cfg := config.New()

	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY(), cfg.DevelopmentMode())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 1.  Session secret (with optional Vault indirection) ───────────
	//
	if secret, ok := cfg.AuthAPISessionSecret(); ok && vault.IsRef(secret) {
		plain, err := vault.Resolve(context.Background(), secret)
		if err != nil {
			logOut.Fatalw("resolve session secret", "err", err)
		}
		cfg.SetAuthAPISessionSecret(plain)
	}
	secret, ok := cfg.SessionSecretBytes()
	if !ok {
		logOut.Fatal("DPS_AUTH_API_SESSION_SECRET is not set; refusing to sign cookies")
	}

	//
	// ── 2.  SQLite pools ────────────────────────────────────────────────
	//
	pools, err := database.OpenAll(cfg)
	if err != nil {
		logOut.Fatalw("open databases", "err", err)
	}
	defer pools.Close()
	logOut.Infow("databases online",
		"main", cfg.AuthAPISQLiteMainFilePath(),
		"collection", cfg.AuthAPISQLiteCollectionFilePath(),
		"session", cfg.AuthAPISQLiteSessionFilePath(),
	)

	ctx := context.Background()
	if err := user.Migrate(ctx, pools.Main); err != nil {
		logOut.Fatalw("migrate main db", "err", err)
	}

	//
	// ── 3.  Session store and cookie signer ─────────────────────────────
	//
	sessions := session.New(pools.Session, cfg.AuthAPISessionTTLSeconds())
	if err := sessions.Migrate(ctx); err != nil {
		logOut.Fatalw("migrate session db", "err", err)
	}
	cookies := session.NewCookies(secret, cfg.AuthAPISessionTTLSeconds(), cfg.AuthAPIInsecureCookie())

	go sweepSessions(ctx, sessions, logOut.Named("sweep"))

	//
	// ── 4.  Router: /metrics + /<apiPath> ───────────────────────────────
	//
	handler := api.New(cfg, pools.Main, sessions, cookies, logOut)

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/"+cfg.APIPath(), handler.Routes())

	var root http.Handler = r
	root = middleware.Security(cfg, root)
	root = middleware.ForceHTTPS(cfg, root)

	//
	// ── 5.  Serve ───────────────────────────────────────────────────────
	//
	addr := ":" + strconv.Itoa(listenPort(cfg))
	logOut.Infow("auth api listening", "addr", addr, "url", cfg.AuthAPIURL())
	if err := server.New(addr, root).ListenAndServe(); err != nil {
		logOut.Fatalw("http server", "err", err)
	}
}

// listenPort returns the configured port, else the protocol's implied one.
func listenPort(cfg *config.Store) int {
	if p, ok := cfg.AuthAPIPort(); ok && p != 0 {
		return p
	}
	if cfg.AuthAPIProtocol() == "http" {
		return 80
	}
	return 443
}

// sweepSessions purges expired rows hourly and refreshes the gauge.
func sweepSessions(ctx context.Context, sessions *session.Store, log *zap.SugaredLogger) {
	tick := time.NewTicker(time.Hour)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			n, err := sessions.PurgeExpired(ctx)
			if err != nil {
				log.Errorw("session purge", "err", err)
				continue
			}
			if n > 0 {
				log.Infow("session purge", "removed", n)
			}
			if live, err := sessions.Count(ctx); err == nil {
				metrics.ActiveSessions.Set(float64(live))
			}
		}
	}
}
