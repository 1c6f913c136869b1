package service

import (
	"fmt"
	"sync"

	"myregistry/domain"
	"myregistry/interfaces"
)

// roundRobinBalancer implements interfaces.Balancer. It keeps one monotonically
// increasing counter per service name; Pick returns instances[counter % len]
// and advances the counter. The counter is independent of instance identity:
// over a stable membership N consecutive picks visit each instance exactly
// once, and a membership change between calls only drifts the cycle.
type roundRobinBalancer struct {
	mu       sync.Mutex
	counters map[domain.ServiceID]uint64
}

// NewRoundRobinBalancer creates the default balancer with empty per-service counters.
//
// Returns: interfaces.Balancer (*roundRobinBalancer).
//
// Called from cmd/gateway when building the proxy.
func NewRoundRobinBalancer() interfaces.Balancer {
	return &roundRobinBalancer{
		counters: make(map[domain.ServiceID]uint64),
	}
}

// Pick returns the next instance in round-robin order for the service.
//
// Parameters: serviceName — counter scope; instances — healthy candidates (the proxy passes Registry.ListHealthy output, or that list minus instances that already failed during this request).
//
// Returns: (instance, nil) on success; (domain.Instance{}, no_available_instance MyError) when instances is empty — the proxy converts this into a 503, it is never retried at the balancer layer.
//
// Called from service.Proxy in the select step of each routed request.
func (b *roundRobinBalancer) Pick(serviceName domain.ServiceID, instances []domain.Instance) (domain.Instance, error) {
	if len(instances) == 0 {
		return domain.Instance{}, NewNoAvailableInstanceError(
			"no healthy instance available",
			fmt.Errorf("empty target set for service %s", serviceName),
		)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.counters[serviceName] % uint64(len(instances))
	b.counters[serviceName]++
	return instances[idx], nil
}
