package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsCreated tracks new sessions by listing outcome
	SessionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hn_sessions_created_total",
			Help: "Total number of reader sessions created",
		},
		[]string{"result"}, // "ok", "listing_error"
	)

	// SessionLookups tracks session lookups by result
	SessionLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hn_session_lookups_total",
			Help: "Total number of session lookups",
		},
		[]string{"result"}, // "hit", "miss"
	)

	// SessionErrors tracks store operation errors
	SessionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hn_session_errors_total",
			Help: "Total number of session store operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
