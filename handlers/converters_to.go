package handlers

import "myregistry/domain"

// toInstancesResponse converts registry instances to the wire shape. A nil or
// empty input yields an empty (not null) instances array.
func toInstancesResponse(instances []domain.Instance) InstancesResponse {
	out := InstancesResponse{Instances: make([]InstanceResponse, 0, len(instances))}
	for _, inst := range instances {
		out.Instances = append(out.Instances, InstanceResponse{
			InstanceID: inst.InstanceID,
			Host:       inst.Host,
			Port:       inst.Port,
			Status:     string(inst.Status),
		})
	}
	return out
}
