package interfaces

import (
	"time"

	"myregistry/domain"
)

// Registry is the authoritative in-memory directory of live instances. It is
// the only mutable shared resource in the process: the registration/query HTTP
// handlers and the proxy read and write exclusively through these operations.
//
// Implemented by service.registry. Called from handlers.HTTPServer (Register,
// Renew, Deregister, ListHealthy), service.Proxy (ListHealthy) and
// service.Sweeper (SweepExpired).
//
//go:generate moq -stub -out mock/registry.go -pkg mock . Registry
type Registry interface {
	// Register upserts the instance with status up and refreshed last-renewal time. Idempotent; RegisteredAt is preserved when the key already exists.
	// Parameters: serviceName — logical service; instanceID — unique per process; host, port — reachable address.
	// Called from handlers.HTTPServer.RegisterInstance.
	Register(serviceName domain.ServiceID, instanceID, host string, port int)

	// Renew updates the instance's last-renewal time to now and restores status up if the instance was flagged down.
	// Returns: nil on success; entity_not_found MyError when no record exists for the key (caller must re-register — stale state is never auto-recreated).
	// Called from handlers.HTTPServer.RenewInstance.
	Renew(serviceName domain.ServiceID, instanceID string) error

	// Deregister removes the record if present; no-op otherwise.
	// Called from handlers.HTTPServer.DeregisterInstance on graceful backend shutdown.
	Deregister(serviceName domain.ServiceID, instanceID string)

	// ListHealthy returns all up instances of the service whose renewal is fresher than the flag-down threshold at call time. Empty slice (never an error) for an unknown or fully-down service.
	// Called from handlers.HTTPServer.GetInstances and service.Proxy on every routed request.
	ListHealthy(serviceName domain.ServiceID) []domain.Instance

	// SweepExpired flags down every instance whose renewal is older than the flag-down threshold and removes every instance older than the eviction threshold.
	// Parameter now — sweep time (injected for deterministic tests).
	// Returns: (flagged, evicted) counts for logging and metrics.
	// Called from service.Sweeper on each tick.
	SweepExpired(now time.Time) (flagged, evicted int)
}
