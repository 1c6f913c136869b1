package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors shared by the proxy, the sweeper and
// the registration handlers. Registered once in cmd/gateway against the default
// registerer and exposed on the API listener via promhttp.
type Metrics struct {
	// GatewayRequests counts routed requests by route_id and terminal outcome
	// (forwarded, not_found, unavailable, failed).
	GatewayRequests *prometheus.CounterVec
	// ForwardAttempts counts individual downstream attempts by route_id and
	// result (ok, error); retries count as separate attempts.
	ForwardAttempts *prometheus.CounterVec
	// SweepFlagged counts instances flagged down by the sweeper.
	SweepFlagged prometheus.Counter
	// SweepEvicted counts instances removed by the sweeper.
	SweepEvicted prometheus.Counter
	// Registrations counts register calls; Renewals counts renew calls by
	// result (ok, not_found).
	Registrations prometheus.Counter
	Renewals      *prometheus.CounterVec
}

// Outcome label values for GatewayRequests.
const (
	OutcomeForwarded   = "forwarded"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
	OutcomeFailed      = "failed"
)

// NewMetrics creates the collector set and registers it with reg.
//
// Parameter reg — Prometheus registerer (prometheus.DefaultRegisterer in prod, prometheus.NewRegistry() in tests so collectors do not collide).
//
// Returns: *Metrics with all collectors registered. Panics on duplicate registration (MustRegister), which only happens on programmer error.
//
// Called from cmd/gateway at startup and from tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GatewayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Routed gateway requests by route and terminal outcome.",
		}, []string{"route_id", "outcome"}),
		ForwardAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_forward_attempts_total",
			Help: "Downstream forward attempts by route and result.",
		}, []string{"route_id", "result"}),
		SweepFlagged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "registry_sweep_flagged_total",
			Help: "Instances flagged down by the heartbeat sweeper.",
		}),
		SweepEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "registry_sweep_evicted_total",
			Help: "Instances evicted by the heartbeat sweeper.",
		}),
		Registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "registry_registrations_total",
			Help: "Instance register calls.",
		}),
		Renewals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_renewals_total",
			Help: "Instance renew calls by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.GatewayRequests,
		m.ForwardAttempts,
		m.SweepFlagged,
		m.SweepEvicted,
		m.Registrations,
		m.Renewals,
	)
	return m
}
