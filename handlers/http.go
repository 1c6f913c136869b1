// Package handlers contains http handlers for the myregistry registration and
// query API.
package handlers

import (
	"fmt"
	"net/http"

	"myregistry/domain"
	"myregistry/interfaces"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
)

// HTTPServer serves the registration/query boundary consumed by backend
// instances (register, renew, deregister) and by external queriers.
type HTTPServer struct {
	registry interfaces.Registry
	metrics  *service.Metrics
	logger   log.Logger
}

// NewHTTPServer creates a new HTTPServer. Metrics may be nil (e.g. in tests).
func NewHTTPServer(registry interfaces.Registry, metrics *service.Metrics, logger log.Logger) *HTTPServer {
	logger = log.WithPrefix(logger, "component", "HTTPServer")
	return &HTTPServer{
		registry: registry,
		metrics:  metrics,
		logger:   logger,
	}
}

// RegisterHandlers wires the API routes on e.
func RegisterHandlers(e *echo.Echo, s *HTTPServer) {
	e.POST("/v1/register", s.RegisterInstance)
	e.POST("/v1/renew", s.RenewInstance)
	e.POST("/v1/deregister/:service_name/:instance_id", s.DeregisterInstance)
	e.GET("/v1/services/:service_name/instances", s.GetInstances)
}

// RegisterInstance (POST /v1/register) upserts the instance in the registry. Returns 200 on success, 400 on parse/validation error. Idempotent: re-registering the same (service_name, instance_id) overwrites in place.
func (h *HTTPServer) RegisterInstance(ectx echo.Context) error {
	var req RegisterRequest
	if err := ectx.Bind(&req); err != nil {
		return service.NewBadParameterError("invalid request body", err)
	}

	serviceName, instanceID, host, port, err := fromRegisterRequest(req)
	if err != nil {
		return fmt.Errorf("registerInstance failed to validate request, err: %w", err)
	}

	h.registry.Register(domain.ServiceID(serviceName), instanceID, host, port)
	if h.metrics != nil {
		h.metrics.Registrations.Inc()
	}

	return ectx.NoContent(http.StatusOK)
}

// RenewInstance (POST /v1/renew) refreshes the instance's last renewal time. Returns 200 on success, 404 (entity_not_found) when the key is unknown — the caller must re-register from scratch; stale state is never auto-recreated here.
func (h *HTTPServer) RenewInstance(ectx echo.Context) error {
	var req RenewRequest
	if err := ectx.Bind(&req); err != nil {
		return service.NewBadParameterError("invalid request body", err)
	}

	serviceName, instanceID, err := fromRenewRequest(req)
	if err != nil {
		return fmt.Errorf("renewInstance failed to validate request, err: %w", err)
	}

	if err := h.registry.Renew(domain.ServiceID(serviceName), instanceID); err != nil {
		if h.metrics != nil {
			h.metrics.Renewals.WithLabelValues("not_found").Inc()
		}
		return fmt.Errorf("renewInstance failed for %s/%s, err: %w", serviceName, instanceID, err)
	}
	if h.metrics != nil {
		h.metrics.Renewals.WithLabelValues("ok").Inc()
	}

	return ectx.NoContent(http.StatusOK)
}

// DeregisterInstance (POST /v1/deregister/{service_name}/{instance_id}) removes the instance from the registry. Returns 200 whether or not the instance existed (best-effort call on graceful backend shutdown).
func (h *HTTPServer) DeregisterInstance(ectx echo.Context) error {
	serviceName := ectx.Param("service_name")
	instanceID := ectx.Param("instance_id")
	if serviceName == "" || instanceID == "" {
		return service.NewBadParameterError("service_name and instance_id are required", nil)
	}

	h.registry.Deregister(domain.ServiceID(serviceName), instanceID)

	return ectx.NoContent(http.StatusOK)
}

// GetInstances (GET /v1/services/{service_name}/instances) returns the healthy instances of a service. An unknown or fully-down service yields 200 with an empty list, not an error.
func (h *HTTPServer) GetInstances(ectx echo.Context) error {
	serviceName := ectx.Param("service_name")
	if serviceName == "" {
		return service.NewBadParameterError("service_name is required", nil)
	}

	instances := h.registry.ListHealthy(domain.ServiceID(serviceName))

	return ectx.JSON(http.StatusOK, toInstancesResponse(instances))
}
