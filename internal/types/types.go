package types

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// EventType identifies one transition on the watch stream.
type EventType string

const (
	// Applied means the object was created or updated.
	Applied EventType = "Applied"
	// Deleted means the object was removed from the cluster.
	Deleted EventType = "Deleted"
	// Restarted means the stream could not resume incrementally; the
	// carried list is the new ground truth and replaces local state.
	Restarted EventType = "Restarted"
)

// Event is one entry of the watch stream. Object is set for Applied and
// Deleted, Objects for Restarted.
type Event struct {
	Type    EventType
	Object  *unstructured.Unstructured
	Objects []*unstructured.Unstructured
}

// Identity is the unique key of an object within one resource type.
// Namespace is empty for cluster-scoped resources.
type Identity struct {
	Namespace string `json:"namespace,omitempty"`
	Name      string `json:"name"`
}

func (id Identity) String() string {
	if id.Namespace == "" {
		return id.Name
	}
	return id.Namespace + "/" + id.Name
}

// IdentityOf extracts the identity key of an object.
func IdentityOf(obj *unstructured.Unstructured) Identity {
	return Identity{
		Namespace: obj.GetNamespace(),
		Name:      obj.GetName(),
	}
}
