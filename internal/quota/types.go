// Package quota carries typed partial specs of the Rancher
// management.cattle.io/v3 Project custom resource, together with the
// merge-patch algebra used to layer defaults and overrides field by field.
package quota

// ResourceQuotaLimit is the per-resource quota block shared by project and
// namespace quotas. Every field is optional; absent fields are left
// untouched by a merge.
type ResourceQuotaLimit struct {
	Pods                   *string `json:"pods,omitempty"`
	Services               *string `json:"services,omitempty"`
	ReplicationControllers *string `json:"replicationControllers,omitempty"`
	Secrets                *string `json:"secrets,omitempty"`
	ConfigMaps             *string `json:"configMaps,omitempty"`
	PersistentVolumeClaims *string `json:"persistentVolumeClaims,omitempty"`
	ServicesNodePorts      *string `json:"servicesNodePorts,omitempty"`
	ServicesLoadBalancers  *string `json:"servicesLoadBalancers,omitempty"`
	RequestsCPU            *string `json:"requestsCpu,omitempty"`
	RequestsMemory         *string `json:"requestsMemory,omitempty"`
	RequestsStorage        *string `json:"requestsStorage,omitempty"`
	LimitsCPU              *string `json:"limitsCpu,omitempty"`
	LimitsMemory           *string `json:"limitsMemory,omitempty"`
}

// ContainerResourceLimit is the default container limit block of a project.
type ContainerResourceLimit struct {
	RequestsCPU    *string `json:"requestsCpu,omitempty"`
	RequestsMemory *string `json:"requestsMemory,omitempty"`
	LimitsCPU      *string `json:"limitsCpu,omitempty"`
	LimitsMemory   *string `json:"limitsMemory,omitempty"`
}

// NamespaceResourceQuota is the default quota applied to namespaces created
// inside a project.
type NamespaceResourceQuota struct {
	Limit *ResourceQuotaLimit `json:"limit,omitempty"`
}

// ProjectResourceQuota is the quota declared on the project itself.
type ProjectResourceQuota struct {
	Limit     *ResourceQuotaLimit `json:"limit,omitempty"`
	UsedLimit *ResourceQuotaLimit `json:"usedLimit,omitempty"`
}

// ProjectSpec is the spec of a management.cattle.io/v3 Project.
// Description and EnableProjectMonitoring are required by the schema;
// everything else is optional.
type ProjectSpec struct {
	DisplayName                   *string                 `json:"displayName,omitempty"`
	Description                   string                  `json:"description"`
	ClusterName                   *string                 `json:"clusterName,omitempty"`
	ResourceQuota                 *ProjectResourceQuota   `json:"resourceQuota,omitempty"`
	NamespaceDefaultResourceQuota *NamespaceResourceQuota `json:"namespaceDefaultResourceQuota,omitempty"`
	ContainerDefaultResourceLimit *ContainerResourceLimit `json:"containerDefaultResourceLimit,omitempty"`
	EnableProjectMonitoring       bool                    `json:"enableProjectMonitoring"`
}
