// Package metrics defines the Prometheus collectors for the shop admin API.
// Collectors register with the default registry on package init and are
// served by /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shopadmin"

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshesTotal counts refresh-cookie exchanges.
// Label:
//   - result: "success" or "rejected"
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of access token refreshes, by result.",
	},
	[]string{"result"},
)

// TokenInvalidationsTotal counts requests handled by the invalidation filter.
var TokenInvalidationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_invalidations_total",
		Help:      "Total number of refresh cookie invalidations.",
	},
)

// AuthorizationDecisionsTotal counts access policy decisions on protected routes.
// Labels:
//   - role: the role the matched rule requires ("" for any authenticated subject)
//   - decision: "allowed", "unauthenticated" or "forbidden"
var AuthorizationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_decisions_total",
		Help:      "Total number of access policy decisions, by required role and outcome.",
	},
	[]string{"role", "decision"},
)

// HTTPRequestDuration measures request latency.
// Labels:
//   - method: HTTP method
//   - route: gin route pattern, or "unmatched"
//   - status: response status code
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)

// AuditEventsPublishedTotal counts audit events handed to the publisher.
// Labels:
//   - type: audit event type
//   - result: "ok" or "error"
var AuditEventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_published_total",
		Help:      "Total number of audit events published, by type and result.",
	},
	[]string{"type", "result"},
)
