package handlers

// RegisterRequest is the body of POST /v1/register.
type RegisterRequest struct {
	ServiceName string `json:"service_name"`
	InstanceID  string `json:"instance_id"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
}

// RenewRequest is the body of POST /v1/renew.
type RenewRequest struct {
	ServiceName string `json:"service_name"`
	InstanceID  string `json:"instance_id"`
}

// InstanceResponse is one instance in GET /v1/services/:service_name/instances.
type InstanceResponse struct {
	InstanceID string `json:"instance_id"`
	Host       string `json:"host"`
	Port       int    `json:"port"`
	Status     string `json:"status"`
}

// InstancesResponse is the body of GET /v1/services/:service_name/instances.
type InstancesResponse struct {
	Instances []InstanceResponse `json:"instances"`
}
