// Package kube resolves a runtime-specified resource type to its concrete
// endpoint metadata and validates the requested watch scope, using a single
// discovery round trip before any watch is opened.
package kube

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/discovery"
)

// Descriptor is the endpoint metadata of one resource type, resolved once
// at startup and immutable afterwards.
type Descriptor struct {
	Group      string
	Version    string
	Kind       string
	Plural     string
	Namespaced bool
}

// GroupVersionResource returns the GVR used to address the resource
// through the dynamic client.
func (d Descriptor) GroupVersionResource() schema.GroupVersionResource {
	return schema.GroupVersionResource{
		Group:    d.Group,
		Version:  d.Version,
		Resource: d.Plural,
	}
}

// APIVersion renders the descriptor back into its apiVersion form.
func (d Descriptor) APIVersion() string {
	if d.Group == "" {
		return d.Version
	}
	return d.Group + "/" + d.Version
}

// NotFoundError reports that discovery has no resource of the requested
// kind in the requested group/version.
type NotFoundError struct {
	APIVersion string
	Kind       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cannot find resource %s/%s", e.APIVersion, e.Kind)
}

// MalformedGroupVersionError reports an apiVersion that is neither the
// bare core "v1" nor a group/version pair.
type MalformedGroupVersionError struct {
	APIVersion string
}

func (e *MalformedGroupVersionError) Error() string {
	return fmt.Sprintf("cannot determine group and version for %q", e.APIVersion)
}

// ResolveDescriptor maps (apiVersion, kind) to a Descriptor via one
// discovery query. The bare "v1" denotes the core group.
func ResolveDescriptor(dc discovery.DiscoveryInterface, apiVersion, kind string) (Descriptor, error) {
	group, version := "", apiVersion
	if apiVersion != "v1" {
		var ok bool
		group, version, ok = splitGroupVersion(apiVersion)
		if !ok {
			return Descriptor{}, &MalformedGroupVersionError{APIVersion: apiVersion}
		}
	}

	list, err := dc.ServerResourcesForGroupVersion(apiVersion)
	if err != nil {
		return Descriptor{}, fmt.Errorf("discovery for %s failed: %w", apiVersion, err)
	}

	for _, r := range list.APIResources {
		// entries like "deployments/status" are subresources
		if strings.Contains(r.Name, "/") {
			continue
		}
		if r.Kind != kind {
			continue
		}
		return Descriptor{
			Group:      group,
			Version:    version,
			Kind:       kind,
			Plural:     r.Name,
			Namespaced: r.Namespaced,
		}, nil
	}

	return Descriptor{}, &NotFoundError{APIVersion: apiVersion, Kind: kind}
}

func splitGroupVersion(apiVersion string) (group, version string, ok bool) {
	group, version, ok = strings.Cut(apiVersion, "/")
	if !ok || group == "" || version == "" || strings.Contains(version, "/") {
		return "", "", false
	}
	return group, version, true
}
