// Package metrics defines and registers all custom Prometheus metrics for the
// identity service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto; the /metrics endpoint exposes them next to the HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// Outcome label values for AuthenticationsTotal.
const (
	OutcomeSuccess   = "success"
	OutcomeNotFound  = "not_found"
	OutcomeMismatch  = "mismatch"
	OutcomeAmbiguous = "ambiguous"
	OutcomeRejected  = "rejected"
	OutcomeError     = "error"
)

// ── Authentication metrics ────────────────────────────────────────────────────

// AuthenticationsTotal counts authentication attempts by internal outcome.
// Label:
//   - outcome: success, not_found, mismatch, ambiguous, rejected (empty input) or error
//
// Callers only ever see success or a generic failure; the split exists for operators.
var AuthenticationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authentications_total",
		Help:      "Total number of authentication attempts, by internal outcome.",
	},
	[]string{"outcome"},
)

// PasswordVerifyDuration measures a single bcrypt comparison, including the
// dummy comparison run for unknown usernames.
var PasswordVerifyDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_verify_duration_seconds",
		Help:      "Duration of password hash verification.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
	},
)

// VerificationsInFlight tracks bcrypt comparisons currently holding a slot.
var VerificationsInFlight = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "verifications_in_flight",
		Help:      "Number of password verifications currently running.",
	},
)

// TokensIssuedTotal counts signed tokens handed out.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of identity tokens issued.",
	},
)

// ── Snapshot metrics ──────────────────────────────────────────────────────────

// SnapshotRecords reports how many identity records the snapshot holds.
// Label:
//   - source: the record store the snapshot was loaded from ("mongo", "redis")
var SnapshotRecords = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "snapshot_records",
		Help:      "Number of identity records held in the in-memory snapshot.",
	},
	[]string{"source"},
)
