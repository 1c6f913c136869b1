package service

import (
	"strings"

	"myregistry/domain"
	"myregistry/helpers"
)

// routeTable implements interfaces.RouteMatcher. It maps an inbound request
// path to a domain.Route by prefix match in declaration order: the first route
// whose prefix matches wins, so overlapping prefixes are disambiguated by their
// position in the config file rather than by length. Holds an immutable copy of
// the routes; the table is loaded once at startup and never mutated, so Match
// needs no locking.
type routeTable struct {
	routes []domain.Route
}

// NewRouteTable validates config via ValidateRouteConfig and copies the routes in declaration order.
//
// Parameter cfg — route config (from YAML via cmd.LoadConfig). An empty route list is valid: every path is then a not-found outcome.
//
// Returns: (*routeTable, nil) on success; (nil, error) on ValidateRouteConfig error (*RouteConfigError).
//
// Called from cmd/gateway at startup.
func NewRouteTable(cfg domain.RouteConfig) (*routeTable, error) {
	if err := domain.ValidateRouteConfig(cfg); err != nil {
		return nil, err
	}
	routes := make([]domain.Route, len(cfg.Routes))
	copy(routes, cfg.Routes)

	return &routeTable{
		routes: helpers.NilPanic(routes, "service.route_table.go: routes is required"),
	}, nil
}

// Match returns the first route (declaration order) whose prefix matches path.
//
// Parameter path — inbound request path, e.g. /catalog/items. Empty string matches no prefix.
//
// Returns: (domain.Route, true) on prefix match; (domain.Route{}, false) when no route matches — the proxy turns that into a 404.
//
// Called from service.Proxy.Handle at the start of each inbound request.
func (r *routeTable) Match(path string) (domain.Route, bool) {
	for _, route := range r.routes {
		if strings.HasPrefix(path, route.Prefix) {
			return route, true
		}
	}
	return domain.Route{}, false
}
