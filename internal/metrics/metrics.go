// Package metrics holds Prometheus instruments that are used across the
// auth API.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "auth_active_sessions",
			Help: "Number of unexpired sessions in the session store.",
		})

	SessionsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_sessions_created_total",
			Help: "Cumulative number of sessions created.",
		})

	SessionsDestroyedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_sessions_destroyed_total",
			Help: "Cumulative number of sessions explicitly destroyed.",
		})

	LoginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Login attempts partitioned by outcome.",
		},
		[]string{"outcome"}, // "ok", "bad_credentials", "bad_request"
	)
)

func init() {
	prometheus.MustRegister(
		ActiveSessions,
		SessionsCreatedTotal,
		SessionsDestroyedTotal,
		LoginAttemptsTotal,
	)
}
