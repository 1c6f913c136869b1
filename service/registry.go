package service

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
)

// registry implements interfaces.Registry. It is the single owner of all
// instance records: an in-memory two-level map service → instanceID → record
// guarded by one sync.RWMutex. Reads (ListHealthy, the per-request hot path)
// take the read lock so many routed requests proceed concurrently; writes
// (register/renew/deregister/sweep) take the write lock. Per-key operations
// are linearizable under the lock; no record is ever observable half-written.
// Freshness is evaluated at read time against flagDownAfter, so an instance
// that missed a heartbeat disappears from ListHealthy immediately instead of
// waiting for the next sweep tick.
type registry struct {
	timeProvider      interfaces.TimeProvider
	flagDownAfter     time.Duration
	evictionThreshold time.Duration

	mu       sync.RWMutex
	services map[domain.ServiceID]map[string]domain.Instance
}

// NewRegistry creates the in-memory instance directory. Panics on nil timeProvider and on non-positive thresholds (fail-fast at startup).
//
// Parameters: timeProvider — clock for renewal timestamps and freshness checks; flagDownAfter — age after which an instance is no longer healthy (default one heartbeat interval); evictionThreshold — age after which an instance is removed entirely (default 3× heartbeat interval).
//
// Returns: *registry implementing interfaces.Registry.
//
// Called from cmd/gateway when building the process.
func NewRegistry(
	timeProvider interfaces.TimeProvider,
	flagDownAfter time.Duration,
	evictionThreshold time.Duration,
) *registry {
	if flagDownAfter <= 0 {
		panic("service.registry.go: flagDownAfter must be positive")
	}
	if evictionThreshold <= 0 {
		panic("service.registry.go: evictionThreshold must be positive")
	}
	return &registry{
		timeProvider:      helpers.NilPanic(timeProvider, "service.registry.go: timeProvider is required"),
		flagDownAfter:     flagDownAfter,
		evictionThreshold: evictionThreshold,
		services:          make(map[domain.ServiceID]map[string]domain.Instance),
	}
}

// Register upserts the instance with status up and refreshed LastRenewalAt. Idempotent: re-registration with the same (service, instance) key overwrites in place; RegisteredAt is preserved for an existing key and set to now for a new one.
//
// Parameters: serviceName — logical service; instanceID — unique per process (e.g. host:port); host, port — reachable address.
//
// Called from handlers.HTTPServer.RegisterInstance.
func (r *registry) Register(serviceName domain.ServiceID, instanceID, host string, port int) {
	now := r.timeProvider.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	instances := r.services[serviceName]
	if instances == nil {
		instances = make(map[string]domain.Instance)
		r.services[serviceName] = instances
	}
	registeredAt := now
	if prev, ok := instances[instanceID]; ok {
		registeredAt = prev.RegisteredAt
	}
	instances[instanceID] = domain.Instance{
		ServiceName:   serviceName,
		InstanceID:    instanceID,
		Host:          host,
		Port:          port,
		Status:        domain.StatusUp,
		RegisteredAt:  registeredAt,
		LastRenewalAt: now,
	}
}

// Renew updates LastRenewalAt to now and restores status up if the instance was flagged down by a sweep. Never recreates a missing record: a renewal for an unknown or already-evicted key fails and the caller must re-register from scratch.
//
// Returns: nil on success; entity_not_found MyError when no record exists for (serviceName, instanceID).
//
// Called from handlers.HTTPServer.RenewInstance on each backend heartbeat.
func (r *registry) Renew(serviceName domain.ServiceID, instanceID string) error {
	now := r.timeProvider.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	instances := r.services[serviceName]
	inst, ok := instances[instanceID]
	if !ok {
		return NewEntityNotFoundError(
			"instance is not registered",
			fmt.Errorf("renew unknown instance %s/%s", serviceName, instanceID),
		)
	}
	inst.LastRenewalAt = now
	inst.Status = domain.StatusUp
	instances[instanceID] = inst
	return nil
}

// Deregister removes the record if present; no-op otherwise. The service entry itself is dropped once its last instance is gone.
//
// Called from handlers.HTTPServer.DeregisterInstance on graceful backend shutdown.
func (r *registry) Deregister(serviceName domain.ServiceID, instanceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	instances := r.services[serviceName]
	if instances == nil {
		return
	}
	delete(instances, instanceID)
	if len(instances) == 0 {
		delete(r.services, serviceName)
	}
}

// ListHealthy returns all up instances of the service whose renewal is fresher than flagDownAfter at call time, sorted by InstanceID for a stable order. An unknown or fully-stale service yields an empty slice, never an error.
//
// Called from handlers.HTTPServer.GetInstances and service.Proxy on every routed request.
func (r *registry) ListHealthy(serviceName domain.ServiceID) []domain.Instance {
	now := r.timeProvider.Now()
	r.mu.RLock()
	defer r.mu.RUnlock()

	instances := r.services[serviceName]
	healthy := make([]domain.Instance, 0, len(instances))
	for _, inst := range instances {
		if inst.Status != domain.StatusUp {
			continue
		}
		if now.Sub(inst.LastRenewalAt) > r.flagDownAfter {
			continue
		}
		healthy = append(healthy, inst)
	}
	sort.Slice(healthy, func(i, j int) bool {
		return healthy[i].InstanceID < healthy[j].InstanceID
	})
	return healthy
}

// SweepExpired applies the two-phase eviction policy: instances older than evictionThreshold are removed entirely; up instances older than flagDownAfter are marked down (kept for observability until the eviction threshold passes).
//
// Parameter now — sweep time (the sweeper passes its injected clock so tests can simulate time passage).
//
// Returns: (flagged, evicted) — counts of instances marked down and removed in this sweep.
//
// Called from service.Sweeper on each tick.
func (r *registry) SweepExpired(now time.Time) (flagged, evicted int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for serviceName, instances := range r.services {
		for id, inst := range instances {
			age := now.Sub(inst.LastRenewalAt)
			switch {
			case age > r.evictionThreshold:
				delete(instances, id)
				evicted++
			case age > r.flagDownAfter && inst.Status == domain.StatusUp:
				inst.Status = domain.StatusDown
				instances[id] = inst
				flagged++
			}
		}
		if len(instances) == 0 {
			delete(r.services, serviceName)
		}
	}
	return flagged, evicted
}

// Count returns the total number of records currently held, including down-flagged ones. Not part of interfaces.Registry; used by the Prometheus gauge in cmd/gateway.
func (r *registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, instances := range r.services {
		total += len(instances)
	}
	return total
}
