package domain

import (
	"strconv"
	"strings"
)

// Route maps a path prefix to a logical service.
// Prefix must start with "/" and is matched with strings.HasPrefix(path, Prefix).
type Route struct {
	RouteID string
	Prefix  string
	Service ServiceID
}

// RouteConfig is an ordered list of routes. Routes are evaluated in declaration
// order and the first matching prefix wins; there is no default route — an
// unmatched path is a not-found outcome.
type RouteConfig struct {
	Routes []Route
}

// ValidateRouteConfig validates the route table: each route has a non-empty
// RouteID (unique across the table), a non-empty Prefix starting with "/" and
// a non-empty Service.
//
// Parameter cfg — route config (usually from YAML via cmd.LoadConfig).
//
// Returns: nil when config is valid; *RouteConfigError with Index (0-based
// route index) and Reason (error text) on first error found.
//
// Called from service.NewRouteTable and cmd.LoadConfig before using the config.
func ValidateRouteConfig(cfg RouteConfig) error {
	seen := make(map[string]bool, len(cfg.Routes))
	for i, r := range cfg.Routes {
		if strings.TrimSpace(r.RouteID) == "" {
			return &RouteConfigError{Index: i, Reason: "route_id must be non-empty"}
		}
		if seen[r.RouteID] {
			return &RouteConfigError{Index: i, Reason: "route_id must be unique, duplicate " + strconv.Quote(r.RouteID)}
		}
		seen[r.RouteID] = true
		if r.Prefix == "" {
			return &RouteConfigError{Index: i, Reason: "prefix must be non-empty"}
		}
		if r.Prefix[0] != '/' {
			return &RouteConfigError{Index: i, Reason: "prefix must start with /"}
		}
		if r.Service == "" {
			return &RouteConfigError{Index: i, Reason: "service must be non-empty"}
		}
	}
	return nil
}

// RouteConfigError is returned by ValidateRouteConfig when a route is invalid.
// Index is the route index (0-based); Reason is a human-readable message.
type RouteConfigError struct {
	Index  int
	Reason string
}

func (e *RouteConfigError) Error() string {
	return "route[" + strconv.Itoa(e.Index) + "]: " + e.Reason
}
