package interfaces

import "myregistry/domain"

// Balancer selects one instance among the healthy candidates for a service.
// Selection state (the round-robin counter) is scoped per service name and is
// independent of instance identity, so membership changes between calls only
// drift the cycle, they never break it.
//
// Implemented by service.roundRobinBalancer. Called from service.Proxy in the
// select step of each routed request.
//
//go:generate moq -stub -out mock/balancer.go -pkg mock . Balancer
type Balancer interface {
	// Pick returns one instance from instances for the given service.
	// Parameters: serviceName — scope of the round-robin counter; instances — healthy candidates for this request (order as returned by Registry.ListHealthy).
	// Returns: (instance, nil) on success; (domain.Instance{}, no_available_instance MyError) when instances is empty.
	// Called from service.Proxy after resolving the target service, including on retry with the failed instance excluded.
	Pick(serviceName domain.ServiceID, instances []domain.Instance) (domain.Instance, error)
}
