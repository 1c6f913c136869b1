package domain

import "time"

// ServiceID identifies a logical service (e.g. "catalog", "orders").
// All instances of one service share the same ServiceID.
type ServiceID string

// InstanceStatus is the health state of a registered instance: up (selectable)
// or down (flagged after a missed heartbeat, kept briefly for observability).
type InstanceStatus string

const (
	StatusUp   InstanceStatus = "up"
	StatusDown InstanceStatus = "down"
)

// Instance represents one registered backend process.
// Exactly one Instance exists per (ServiceName, InstanceID) pair; re-registration
// with the same key overwrites in place.
type Instance struct {
	ServiceName   ServiceID
	InstanceID    string // unique per process, e.g. "host1:8081"
	Host          string
	Port          int
	Status        InstanceStatus
	RegisteredAt  time.Time // first registration; kept across re-registrations
	LastRenewalAt time.Time // most recent register or renew
}
