package interfaces

import "myregistry/domain"

// RouteMatcher resolves an inbound request path to a routing decision. Used by
// the proxy to obtain the route (target service, prefix to strip) before
// resolving instances. Implemented by service.routeTable.
//
//go:generate moq -stub -out mock/route_matcher.go -pkg mock . RouteMatcher
type RouteMatcher interface {
	// Match returns the first route (in declaration order) whose prefix matches the path.
	// Parameter path — inbound request path, e.g. /catalog/items; empty string matches no prefix.
	// Returns: (domain.Route, true) on prefix match; (domain.Route{}, false) when no route matches.
	// Called from service.Proxy at the start of each inbound request.
	Match(path string) (domain.Route, bool)
}
