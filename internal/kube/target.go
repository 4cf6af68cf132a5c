package kube

import (
	"errors"

	"k8s.io/client-go/dynamic"
	"k8s.io/klog/v2"
)

// Scope says how wide the watch ranges.
type Scope string

const (
	// ScopeNamespaced watches a single namespace.
	ScopeNamespaced Scope = "Namespaced"
	// ScopeAllNamespaces watches a namespaced resource across every namespace.
	ScopeAllNamespaces Scope = "AllNamespaces"
	// ScopeCluster watches a cluster-scoped resource.
	ScopeCluster Scope = "Cluster"
)

// Target is the validated combination of descriptor and requested scope.
type Target struct {
	Descriptor Descriptor
	Scope      Scope
	// Namespace is set only when Scope is ScopeNamespaced.
	Namespace string
}

var (
	// ErrConflictingScope means both a namespace and the global flag were given.
	ErrConflictingScope = errors.New("cannot specify a namespace and the global flag at the same time")
	// ErrMissingNamespace means a namespaced resource was requested without a
	// namespace and without the global flag.
	ErrMissingNamespace = errors.New("no namespace provided for a namespaced resource")
)

// ResolveTarget validates the requested scope against the descriptor.
// Called before any watch is opened; all rejections happen here.
func ResolveTarget(desc Descriptor, namespace string, global bool) (Target, error) {
	if namespace != "" && global {
		return Target{}, ErrConflictingScope
	}

	if !desc.Namespaced {
		// any namespace argument collapses to cluster scope
		if namespace != "" {
			klog.V(1).InfoS("ignoring namespace for cluster-scoped resource",
				"kind", desc.Kind, "namespace", namespace)
		}
		return Target{Descriptor: desc, Scope: ScopeCluster}, nil
	}

	if global {
		return Target{Descriptor: desc, Scope: ScopeAllNamespaces}, nil
	}
	if namespace == "" {
		return Target{}, ErrMissingNamespace
	}
	return Target{Descriptor: desc, Scope: ScopeNamespaced, Namespace: namespace}, nil
}

// ResourceInterface binds the target to a dynamic client, yielding the
// handle the watch session lists and watches through.
func (t Target) ResourceInterface(client dynamic.Interface) dynamic.ResourceInterface {
	gvr := t.Descriptor.GroupVersionResource()
	if t.Scope == ScopeNamespaced {
		return client.Resource(gvr).Namespace(t.Namespace)
	}
	return client.Resource(gvr)
}
