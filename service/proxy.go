package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

// unmatchedRouteLabel is the route_id metric label for requests that matched no route.
const unmatchedRouteLabel = "unmatched"

// Proxy is the central request router, registered as the catch-all handler on
// the gateway ingress listener. Per inbound request it (1) matches the path
// against the route table in declaration order, (2) resolves healthy instances
// of the target service from the registry, (3) selects one via the balancer,
// (4) forwards the request with the route prefix stripped and hop-by-hop
// headers removed, under a bounded per-attempt timeout, and (5) relays the
// downstream response verbatim. A connect error or timeout on forward consumes
// one unit of the retry budget and re-selects among the instances that have not
// failed during this request; when the budget is exhausted the caller gets a
// 502. An unrouted path is a 404 and an empty target set is a 503 — down or
// stale instances are never selectable because the registry already filters
// them out of ListHealthy.
type Proxy struct {
	router         interfaces.RouteMatcher
	registry       interfaces.Registry
	balancer       interfaces.Balancer
	client         *http.Client
	logger         log.Logger
	retryCount     int
	forwardTimeout time.Duration
	metrics        *Metrics
}

// NewProxy creates the router. Panics on nil router/registry/balancer/client/logger and on negative retryCount or non-positive forwardTimeout (fail-fast at startup).
//
// Parameters: router — path-to-route matching; registry — healthy-instance resolution; balancer — instance selection; client — transport for downstream requests (timeouts are applied per attempt via context, client.Timeout should be zero); logger — logger; retryCount — retry budget after the first attempt (0 disables retry); forwardTimeout — bound for each downstream attempt; metrics — request counters (nil allowed).
//
// Returns: *Proxy.
//
// Called from cmd/gateway when building the gateway ingress.
func NewProxy(
	router interfaces.RouteMatcher,
	registry interfaces.Registry,
	balancer interfaces.Balancer,
	client *http.Client,
	logger log.Logger,
	retryCount int,
	forwardTimeout time.Duration,
	metrics *Metrics,
) *Proxy {
	if retryCount < 0 {
		panic("service.proxy.go: retryCount must not be negative")
	}
	if forwardTimeout <= 0 {
		panic("service.proxy.go: forwardTimeout must be positive")
	}
	return &Proxy{
		router:         helpers.NilPanic(router, "service.proxy.go: router is required"),
		registry:       helpers.NilPanic(registry, "service.proxy.go: registry is required"),
		balancer:       helpers.NilPanic(balancer, "service.proxy.go: balancer is required"),
		client:         helpers.NilPanic(client, "service.proxy.go: client is required"),
		logger:         log.WithPrefix(helpers.NilPanic(logger, "service.proxy.go: logger is required"), "component", "proxy"),
		retryCount:     retryCount,
		forwardTimeout: forwardTimeout,
		metrics:        metrics,
	}
}

// Handle processes one inbound request end to end: match, resolve, select,
// forward with retry, respond. Terminal failures are returned as MyError so the
// echo error handler maps them (route_not_matched → 404, no_available_instance
// → 503, downstream_unavailable → 502); a successful forward writes the
// response directly and returns nil.
//
// Parameter ectx — echo context of the inbound request.
//
// Called by echo for every request on the gateway ingress listener (registered
// via e.Any("/*", proxy.Handle)).
func (p *Proxy) Handle(ectx echo.Context) error {
	req := ectx.Request()
	path := req.URL.Path

	route, ok := p.router.Match(path)
	if !ok {
		p.observe(unmatchedRouteLabel, OutcomeNotFound)
		return NewRouteNotMatchedError(
			"no route matches the request path",
			fmt.Errorf("unmatched path %q", path),
		)
	}

	healthy := p.registry.ListHealthy(route.Service)
	if len(healthy) == 0 {
		p.observe(route.RouteID, OutcomeUnavailable)
		return NewNoAvailableInstanceError(
			"no healthy instance available",
			fmt.Errorf("empty target set for service %s", route.Service),
		)
	}

	// Buffer the body once so retry attempts can replay it.
	body, err := io.ReadAll(req.Body)
	if err != nil {
		p.observe(route.RouteID, OutcomeFailed)
		return NewBadParameterError("failed to read request body", err)
	}

	candidates := healthy
	var lastErr error
	for attempt := 0; attempt <= p.retryCount; attempt++ {
		inst, pickErr := p.balancer.Pick(route.Service, candidates)
		if pickErr != nil {
			// Every remaining instance failed earlier in this request.
			break
		}

		resp, fwdErr := p.forward(req, route, inst, body)
		if fwdErr == nil {
			p.observeAttempt(route.RouteID, "ok")
			p.observe(route.RouteID, OutcomeForwarded)
			return p.respond(ectx, resp)
		}
		p.observeAttempt(route.RouteID, "error")
		lastErr = fwdErr
		level.Warn(p.logger).Log(
			"msg", "forward attempt failed",
			"route", route.RouteID,
			"instance", inst.InstanceID,
			"attempt", attempt+1,
			"err", fwdErr,
		)
		// The caller disconnected; nothing left to respond to and no point retrying.
		if req.Context().Err() != nil {
			break
		}
		candidates = excludeInstance(candidates, inst.InstanceID)
	}

	p.observe(route.RouteID, OutcomeFailed)
	return NewDownstreamUnavailableError("backend service unavailable", lastErr)
}

// forward issues one downstream attempt to inst: clones method, headers (minus
// hop-by-hop), query and the buffered body, strips the route prefix from the
// path, appends X-Forwarded-For and applies the per-attempt timeout on top of
// the caller's context so a disconnecting caller cancels the in-flight attempt.
//
// Returns: (*http.Response, nil) on any HTTP response (status is relayed as-is, a backend 500 is not a forward failure); (nil, error) on connect error, timeout or caller cancellation.
//
// Called only from Handle, once per attempt.
func (p *Proxy) forward(in *http.Request, route domain.Route, inst domain.Instance, body []byte) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(in.Context(), p.forwardTimeout)

	target := &url.URL{
		Scheme:   "http",
		Host:     net.JoinHostPort(inst.Host, strconv.Itoa(inst.Port)),
		Path:     stripPrefix(in.URL.Path, route.Prefix),
		RawQuery: in.URL.RawQuery,
	}
	out, err := http.NewRequestWithContext(ctx, in.Method, target.String(), bytes.NewReader(body))
	if err != nil {
		cancel()
		return nil, err
	}
	helpers.CopyEndToEndHeaders(out.Header, in.Header)
	helpers.AppendForwardedFor(out.Header, in.RemoteAddr)

	resp, err := p.client.Do(out)
	if err != nil {
		cancel()
		return nil, err
	}
	// Tie the timeout cancel to the response body so respond can stream it.
	resp.Body = &cancelOnCloseBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// respond relays the downstream response verbatim to the original caller:
// end-to-end headers, status code, body.
//
// Called only from Handle on a successful forward.
func (p *Proxy) respond(ectx echo.Context, resp *http.Response) error {
	defer resp.Body.Close()

	helpers.CopyEndToEndHeaders(ectx.Response().Header(), resp.Header)
	ectx.Response().WriteHeader(resp.StatusCode)
	if _, err := io.Copy(ectx.Response(), resp.Body); err != nil {
		// Headers are already written; nothing sensible to return to echo.
		level.Warn(p.logger).Log("msg", "relay response body failed", "err", err)
	}
	return nil
}

// observe records the terminal outcome for a request when metrics are configured.
func (p *Proxy) observe(routeID, outcome string) {
	if p.metrics != nil {
		p.metrics.GatewayRequests.WithLabelValues(routeID, outcome).Inc()
	}
}

// observeAttempt records one downstream attempt when metrics are configured.
func (p *Proxy) observeAttempt(routeID, result string) {
	if p.metrics != nil {
		p.metrics.ForwardAttempts.WithLabelValues(routeID, result).Inc()
	}
}

// stripPrefix removes the route prefix from path, keeping a leading "/" so the
// backend always sees an absolute path ("/catalog/items" with prefix "/catalog"
// becomes "/items"; an exact prefix match becomes "/").
//
// Called only from forward.
func stripPrefix(path, prefix string) string {
	stripped := strings.TrimPrefix(path, prefix)
	if stripped == "" || stripped[0] != '/' {
		stripped = "/" + stripped
	}
	return stripped
}

// excludeInstance returns instances without the entry whose InstanceID matches
// id. Used to drop an instance that failed during the current request from the
// retry candidates; the registry itself is not modified.
//
// Called only from Handle between attempts.
func excludeInstance(instances []domain.Instance, id string) []domain.Instance {
	out := make([]domain.Instance, 0, len(instances))
	for _, inst := range instances {
		if inst.InstanceID != id {
			out = append(out, inst)
		}
	}
	return out
}

// cancelOnCloseBody releases the per-attempt timeout context when the response
// body is closed.
type cancelOnCloseBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnCloseBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
