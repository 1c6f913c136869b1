package service

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"myregistry/domain"
	"myregistry/interfaces/mock"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalogRoutes = domain.RouteConfig{
	Routes: []domain.Route{
		{RouteID: "catalog", Prefix: "/catalog", Service: "catalog"},
	},
}

type proxyFixture struct {
	clock    *testClock
	registry *registry
	metrics  *Metrics
	server   *echo.Echo
}

// newProxyFixture wires a real registry, route table and balancer behind the
// proxy, served through echo with the production error handler.
func newProxyFixture(t *testing.T, routes domain.RouteConfig, retryCount int) *proxyFixture {
	t.Helper()
	clock := newTestClock()
	reg := newTestRegistry(clock)
	metrics := NewMetrics(prometheus.NewRegistry())

	table, err := NewRouteTable(routes)
	require.NoError(t, err)

	p := NewProxy(
		table,
		reg,
		NewRoundRobinBalancer(),
		&http.Client{},
		log.NewNopLogger(),
		retryCount,
		2*time.Second,
		metrics,
	)

	e := echo.New()
	RegisterErrorHandler(e, log.NewNopLogger())
	e.Any("/*", p.Handle)

	return &proxyFixture{clock: clock, registry: reg, metrics: metrics, server: e}
}

// registerBackend starts an httptest backend and registers it under serviceName
// with the given instanceID.
func (f *proxyFixture) registerBackend(t *testing.T, serviceName domain.ServiceID, instanceID string, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	backend := httptest.NewServer(handler)
	t.Cleanup(backend.Close)
	host, port := splitHostPort(t, backend.Listener.Addr().String())
	f.registry.Register(serviceName, instanceID, host, port)
	return backend
}

// registerDeadBackend registers an address that refuses connections.
func (f *proxyFixture) registerDeadBackend(t *testing.T, serviceName domain.ServiceID, instanceID string) {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port := splitHostPort(t, lis.Addr().String())
	require.NoError(t, lis.Close())
	f.registry.Register(serviceName, instanceID, host, port)
}

func (f *proxyFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func splitHostPort(t *testing.T, addr string) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error.Code
}

func namedBackend(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(name))
	}
}

func TestNewProxy_Panics(t *testing.T) {
	table, err := NewRouteTable(domain.RouteConfig{})
	require.NoError(t, err)
	reg := newTestRegistry(newTestClock())
	balancer := NewRoundRobinBalancer()

	t.Run("nil_router", func(t *testing.T) {
		assert.PanicsWithValue(t, "service.proxy.go: router is required", func() {
			NewProxy(nil, reg, balancer, &http.Client{}, log.NewNopLogger(), 1, time.Second, nil)
		})
	})
	t.Run("nil_registry", func(t *testing.T) {
		assert.PanicsWithValue(t, "service.proxy.go: registry is required", func() {
			NewProxy(table, nil, balancer, &http.Client{}, log.NewNopLogger(), 1, time.Second, nil)
		})
	})
	t.Run("negative_retry_count", func(t *testing.T) {
		assert.PanicsWithValue(t, "service.proxy.go: retryCount must not be negative", func() {
			NewProxy(table, reg, balancer, &http.Client{}, log.NewNopLogger(), -1, time.Second, nil)
		})
	})
	t.Run("non_positive_forward_timeout", func(t *testing.T) {
		assert.PanicsWithValue(t, "service.proxy.go: forwardTimeout must be positive", func() {
			NewProxy(table, reg, balancer, &http.Client{}, log.NewNopLogger(), 1, 0, nil)
		})
	})
}

func TestProxy_Handle_RoundRobin(t *testing.T) {
	f := newProxyFixture(t, catalogRoutes, 1)
	f.registerBackend(t, "catalog", "a", namedBackend("backend-a"))
	f.registerBackend(t, "catalog", "b", namedBackend("backend-b"))

	first := f.do(httptest.NewRequest(http.MethodGet, "/catalog/items", nil))
	second := f.do(httptest.NewRequest(http.MethodGet, "/catalog/items", nil))
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)

	// Two requests over two instances alternate, covering both.
	bodies := []string{first.Body.String(), second.Body.String()}
	assert.NotEqual(t, bodies[0], bodies[1])
	assert.ElementsMatch(t, []string{"backend-a", "backend-b"}, bodies)

	third := f.do(httptest.NewRequest(http.MethodGet, "/catalog/items", nil))
	require.Equal(t, http.StatusOK, third.Code)
	assert.Equal(t, bodies[0], third.Body.String(), "cycle restarts at the first instance")
}

func TestProxy_Handle_ForwardSemantics(t *testing.T) {
	f := newProxyFixture(t, catalogRoutes, 0)
	f.registerBackend(t, "catalog", "a", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/items", r.URL.Path, "route prefix is stripped")
		assert.Equal(t, "color=red", r.URL.RawQuery)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Forwarded-For"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, `{"name":"widget"}`, string(body))

		w.Header().Set("X-Backend", "catalog-a")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":42}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/catalog/items?color=red", strings.NewReader(`{"name":"widget"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := f.do(req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, `{"id":42}`, rec.Body.String())
	assert.Equal(t, "catalog-a", rec.Header().Get("X-Backend"))
}

func TestProxy_Handle_NoRouteMatched(t *testing.T) {
	f := newProxyFixture(t, catalogRoutes, 1)
	// Even with healthy instances elsewhere, an unmatched path is not-found.
	f.registerBackend(t, "catalog", "a", namedBackend("backend-a"))

	rec := f.do(httptest.NewRequest(http.MethodGet, "/orders/123", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrRouteNotMatched, errorCode(t, rec))
}

func TestProxy_Handle_NoInstances(t *testing.T) {
	f := newProxyFixture(t, catalogRoutes, 1)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/catalog/items", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, ErrNoAvailableInstance, errorCode(t, rec))
}

func TestProxy_Handle_StaleInstancesNeverSelected(t *testing.T) {
	f := newProxyFixture(t, catalogRoutes, 1)
	f.registerDeadBackend(t, "catalog", "a-stale")
	f.registerBackend(t, "catalog", "b-fresh", namedBackend("backend-b"))

	// a-stale misses its heartbeat; b-fresh keeps renewing.
	f.clock.Advance(testFlagDownAfter - time.Second)
	require.NoError(t, f.registry.Renew("catalog", "b-fresh"))
	f.clock.Advance(2 * time.Second)

	for i := 0; i < 3; i++ {
		rec := f.do(httptest.NewRequest(http.MethodGet, "/catalog/items", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "backend-b", rec.Body.String())
	}
}

func TestProxy_Handle_AllInstancesDown(t *testing.T) {
	f := newProxyFixture(t, catalogRoutes, 1)
	f.registerBackend(t, "catalog", "a", namedBackend("backend-a"))

	// Flagged down but not yet evicted: treated identically to no instances.
	f.clock.Advance(testFlagDownAfter + time.Second)
	f.registry.SweepExpired(f.clock.Now())

	rec := f.do(httptest.NewRequest(http.MethodGet, "/catalog/items", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, ErrNoAvailableInstance, errorCode(t, rec))
}

func TestProxy_Handle_RetryOnConnectError(t *testing.T) {
	f := newProxyFixture(t, catalogRoutes, 1)
	// "a-dead" sorts first, so the first pick hits the dead instance.
	f.registerDeadBackend(t, "catalog", "a-dead")
	f.registerBackend(t, "catalog", "b-live", namedBackend("backend-b"))

	rec := f.do(httptest.NewRequest(http.MethodGet, "/catalog/items", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "backend-b", rec.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ForwardAttempts.WithLabelValues("catalog", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ForwardAttempts.WithLabelValues("catalog", "ok")))
}

func TestProxy_Handle_RetryBudgetExhausted(t *testing.T) {
	const retryCount = 1
	f := newProxyFixture(t, catalogRoutes, retryCount)
	f.registerDeadBackend(t, "catalog", "a-dead")
	f.registerDeadBackend(t, "catalog", "b-dead")
	f.registerDeadBackend(t, "catalog", "c-dead")

	rec := f.do(httptest.NewRequest(http.MethodGet, "/catalog/items", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, ErrDownstreamUnavailable, errorCode(t, rec))
	// Total downstream attempts equals the retry budget + 1.
	attempts := testutil.ToFloat64(f.metrics.ForwardAttempts.WithLabelValues("catalog", "error"))
	assert.Equal(t, float64(retryCount+1), attempts)
}

func TestProxy_Handle_RetryExcludesFailedInstance(t *testing.T) {
	f := newProxyFixture(t, catalogRoutes, 2)
	f.registerDeadBackend(t, "catalog", "a-dead")
	f.registerBackend(t, "catalog", "b-live", namedBackend("backend-b"))

	// With the failed instance excluded, the retry cannot hit a-dead again even
	// though the budget would allow two more attempts.
	rec := f.do(httptest.NewRequest(http.MethodGet, "/catalog/items", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "backend-b", rec.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ForwardAttempts.WithLabelValues("catalog", "error")))
}

func TestProxy_Handle_BackendErrorStatusIsRelayedNotRetried(t *testing.T) {
	f := newProxyFixture(t, catalogRoutes, 1)
	f.registerBackend(t, "catalog", "a", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	f.registerBackend(t, "catalog", "b", namedBackend("backend-b"))

	rec := f.do(httptest.NewRequest(http.MethodGet, "/catalog/items", nil))

	// A response from the backend, whatever its status, is relayed verbatim.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ForwardAttempts.WithLabelValues("catalog", "ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.ForwardAttempts.WithLabelValues("catalog", "error")))
}

func TestProxy_Handle_OutcomeMetrics(t *testing.T) {
	f := newProxyFixture(t, catalogRoutes, 0)
	f.registerBackend(t, "catalog", "a", namedBackend("backend-a"))

	_ = f.do(httptest.NewRequest(http.MethodGet, "/catalog/items", nil))
	_ = f.do(httptest.NewRequest(http.MethodGet, "/unknown", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.GatewayRequests.WithLabelValues("catalog", OutcomeForwarded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.GatewayRequests.WithLabelValues(unmatchedRouteLabel, OutcomeNotFound)))
}

func TestProxy_Handle_MockedMatcherAndBalancer(t *testing.T) {
	// The proxy consults the matcher with the request path and the balancer
	// with the resolved service and candidates.
	clock := newTestClock()
	reg := newTestRegistry(clock)

	backend := httptest.NewServer(namedBackend("backend-a"))
	defer backend.Close()
	host, port := splitHostPort(t, backend.Listener.Addr().String())
	reg.Register("catalog", "a", host, port)

	matcher := &mock.RouteMatcherMock{
		MatchFunc: func(path string) (domain.Route, bool) {
			assert.Equal(t, "/catalog/items", path)
			return domain.Route{RouteID: "catalog", Prefix: "/catalog", Service: "catalog"}, true
		},
	}
	balancer := &mock.BalancerMock{
		PickFunc: func(serviceName domain.ServiceID, instances []domain.Instance) (domain.Instance, error) {
			assert.Equal(t, domain.ServiceID("catalog"), serviceName)
			require.Len(t, instances, 1)
			return instances[0], nil
		},
	}

	p := NewProxy(matcher, reg, balancer, &http.Client{}, log.NewNopLogger(), 0, 2*time.Second, nil)
	e := echo.New()
	RegisterErrorHandler(e, log.NewNopLogger())
	e.Any("/*", p.Handle)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/items", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "backend-a", rec.Body.String())
	assert.Len(t, matcher.MatchCalls(), 1)
	assert.Len(t, balancer.PickCalls(), 1)
}
