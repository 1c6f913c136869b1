package handlers

import (
	"fmt"
	"net"
	"strings"

	"myregistry/service"
)

// fromRegisterRequest validates the register body. Returns bad_parameter when
// service_name, instance_id or host is empty or port is out of range.
func fromRegisterRequest(req RegisterRequest) (serviceName, instanceID, host string, port int, err error) {
	serviceName = strings.TrimSpace(req.ServiceName)
	if serviceName == "" {
		return "", "", "", 0, service.NewBadParameterError("service_name is required", nil)
	}
	instanceID = strings.TrimSpace(req.InstanceID)
	host = strings.TrimSpace(req.Host)
	if host == "" {
		return "", "", "", 0, service.NewBadParameterError("host is required", nil)
	}
	if req.Port <= 0 || req.Port > 65535 {
		return "", "", "", 0, service.NewBadParameterError(
			"port must be 1-65535",
			fmt.Errorf("got port %d", req.Port),
		)
	}
	// Default instance identity is host:port, matching how backends without an
	// explicit identifier are told apart.
	if instanceID == "" {
		instanceID = net.JoinHostPort(host, fmt.Sprintf("%d", req.Port))
	}
	return serviceName, instanceID, host, req.Port, nil
}

// fromRenewRequest validates the renew body.
func fromRenewRequest(req RenewRequest) (serviceName, instanceID string, err error) {
	serviceName = strings.TrimSpace(req.ServiceName)
	if serviceName == "" {
		return "", "", service.NewBadParameterError("service_name is required", nil)
	}
	instanceID = strings.TrimSpace(req.InstanceID)
	if instanceID == "" {
		return "", "", service.NewBadParameterError("instance_id is required", nil)
	}
	return serviceName, instanceID, nil
}
