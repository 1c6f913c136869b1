package interfaces

import "time"

// TimeProvider supplies the current time for renewal timestamps, read-time
// freshness checks and sweep thresholds. Injected so tests can use a fixed
// clock instead of time.Now().
//
// Used by service.registry and service.Sweeper. Constructed in cmd/gateway as
// NewTimeProvider(func() time.Time { return time.Now().UTC() }).
//
//go:generate moq -stub -out mock/time_provider.go -pkg mock . TimeProvider
type TimeProvider interface {
	// Now returns current time (UTC in prod; in tests — fixed time for deterministic expiry checks).
	// Called from service.registry on register/renew/list and from service.Sweeper on each tick.
	Now() time.Time
}
