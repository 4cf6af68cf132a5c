package quota

// mergeLeaf applies merge-patch semantics to an optional scalar: a value
// present in other wins, an absent one keeps dst.
func mergeLeaf(dst **string, other *string) {
	if other != nil {
		*dst = other
	}
}

// MergeFrom merges other into l field by field.
func (l *ResourceQuotaLimit) MergeFrom(other ResourceQuotaLimit) {
	mergeLeaf(&l.Pods, other.Pods)
	mergeLeaf(&l.Services, other.Services)
	mergeLeaf(&l.ReplicationControllers, other.ReplicationControllers)
	mergeLeaf(&l.Secrets, other.Secrets)
	mergeLeaf(&l.ConfigMaps, other.ConfigMaps)
	mergeLeaf(&l.PersistentVolumeClaims, other.PersistentVolumeClaims)
	mergeLeaf(&l.ServicesNodePorts, other.ServicesNodePorts)
	mergeLeaf(&l.ServicesLoadBalancers, other.ServicesLoadBalancers)
	mergeLeaf(&l.RequestsCPU, other.RequestsCPU)
	mergeLeaf(&l.RequestsMemory, other.RequestsMemory)
	mergeLeaf(&l.RequestsStorage, other.RequestsStorage)
	mergeLeaf(&l.LimitsCPU, other.LimitsCPU)
	mergeLeaf(&l.LimitsMemory, other.LimitsMemory)
}

func (c *ContainerResourceLimit) MergeFrom(other ContainerResourceLimit) {
	mergeLeaf(&c.RequestsCPU, other.RequestsCPU)
	mergeLeaf(&c.RequestsMemory, other.RequestsMemory)
	mergeLeaf(&c.LimitsCPU, other.LimitsCPU)
	mergeLeaf(&c.LimitsMemory, other.LimitsMemory)
}

// mergeLimit handles an optional composite: absent other keeps dst, absent
// dst adopts other wholesale, both present recurse.
func mergeLimit(dst **ResourceQuotaLimit, other *ResourceQuotaLimit) {
	if other == nil {
		return
	}
	if *dst == nil {
		clone := *other
		*dst = &clone
		return
	}
	(*dst).MergeFrom(*other)
}

func (q *NamespaceResourceQuota) MergeFrom(other NamespaceResourceQuota) {
	mergeLimit(&q.Limit, other.Limit)
}

func (q *ProjectResourceQuota) MergeFrom(other ProjectResourceQuota) {
	mergeLimit(&q.Limit, other.Limit)
	mergeLimit(&q.UsedLimit, other.UsedLimit)
}

// MergeFrom merges other into s. Required scalars are always taken from
// other; optional composites recurse rather than replacing wholesale, so a
// patch never has to repeat fields it does not touch.
func (s *ProjectSpec) MergeFrom(other ProjectSpec) {
	mergeLeaf(&s.DisplayName, other.DisplayName)
	s.Description = other.Description
	mergeLeaf(&s.ClusterName, other.ClusterName)

	if other.ResourceQuota != nil {
		if s.ResourceQuota == nil {
			clone := *other.ResourceQuota
			s.ResourceQuota = &clone
		} else {
			s.ResourceQuota.MergeFrom(*other.ResourceQuota)
		}
	}
	if other.NamespaceDefaultResourceQuota != nil {
		if s.NamespaceDefaultResourceQuota == nil {
			clone := *other.NamespaceDefaultResourceQuota
			s.NamespaceDefaultResourceQuota = &clone
		} else {
			s.NamespaceDefaultResourceQuota.MergeFrom(*other.NamespaceDefaultResourceQuota)
		}
	}
	if other.ContainerDefaultResourceLimit != nil {
		if s.ContainerDefaultResourceLimit == nil {
			clone := *other.ContainerDefaultResourceLimit
			s.ContainerDefaultResourceLimit = &clone
		} else {
			s.ContainerDefaultResourceLimit.MergeFrom(*other.ContainerDefaultResourceLimit)
		}
	}

	s.EnableProjectMonitoring = other.EnableProjectMonitoring
}
