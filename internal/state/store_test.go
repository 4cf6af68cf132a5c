package state

import (
	"testing"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/flavio/dynwatch/internal/types"
)

func obj(namespace, name string) *unstructured.Unstructured {
	u := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "ConfigMap",
	}}
	u.SetNamespace(namespace)
	u.SetName(name)
	return u
}

func applied(o *unstructured.Unstructured) types.Event {
	return types.Event{Type: types.Applied, Object: o}
}

func deleted(o *unstructured.Unstructured) types.Event {
	return types.Event{Type: types.Deleted, Object: o}
}

func restarted(objs ...*unstructured.Unstructured) types.Event {
	return types.Event{Type: types.Restarted, Objects: objs}
}

func TestStoreAppliedThenDeleted(t *testing.T) {
	store := NewStore()

	a := obj("default", "a")
	b := obj("default", "b")
	store.Apply(applied(a))
	store.Apply(applied(b))
	store.Apply(deleted(a))

	if store.Len() != 1 {
		t.Fatalf("expected 1 object, got %d", store.Len())
	}
	if _, ok := store.Get(types.IdentityOf(a)); ok {
		t.Error("a should have been removed")
	}
	if _, ok := store.Get(types.IdentityOf(b)); !ok {
		t.Error("b should still be present")
	}
}

func TestStoreAppliedUpserts(t *testing.T) {
	store := NewStore()

	first := obj("default", "a")
	second := obj("default", "a")
	second.SetLabels(map[string]string{"rev": "2"})

	store.Apply(applied(first))
	store.Apply(applied(second))

	if store.Len() != 1 {
		t.Fatalf("expected 1 object, got %d", store.Len())
	}
	got, _ := store.Get(types.Identity{Namespace: "default", Name: "a"})
	if got.GetLabels()["rev"] != "2" {
		t.Error("upsert did not replace the object")
	}
}

func TestStoreDeleteAbsentIsNoop(t *testing.T) {
	store := NewStore()
	store.Apply(applied(obj("default", "a")))
	store.Apply(deleted(obj("default", "ghost")))

	if store.Len() != 1 {
		t.Fatalf("expected 1 object, got %d", store.Len())
	}
}

func TestStoreRestartedPurgesAbsentEntries(t *testing.T) {
	store := NewStore()

	a := obj("default", "a")
	b := obj("default", "b")
	c := obj("default", "c")
	store.Apply(applied(a))
	store.Apply(applied(b))
	store.Apply(restarted(b, c))

	if store.Len() != 2 {
		t.Fatalf("expected 2 objects, got %d", store.Len())
	}
	if _, ok := store.Get(types.IdentityOf(a)); ok {
		t.Error("a must be purged by the relist even though it was never deleted")
	}
	if _, ok := store.Get(types.IdentityOf(b)); !ok {
		t.Error("b missing after relist")
	}
	if _, ok := store.Get(types.IdentityOf(c)); !ok {
		t.Error("c missing after relist")
	}
}

func TestStoreSnapshotIsImmutable(t *testing.T) {
	store := NewStore()
	store.Apply(applied(obj("default", "a")))

	snap := store.Snapshot()
	store.Apply(applied(obj("default", "b")))
	store.Apply(deleted(obj("default", "a")))

	if len(snap) != 1 {
		t.Errorf("published snapshot changed under the reader: %d entries", len(snap))
	}
	if _, ok := snap[types.Identity{Namespace: "default", Name: "a"}]; !ok {
		t.Error("snapshot lost an entry it held at publish time")
	}
}

func TestStoreSyncedAfterFirstRestart(t *testing.T) {
	store := NewStore()
	if store.Synced() {
		t.Error("store must not report synced before the first relist")
	}
	store.Apply(applied(obj("default", "a")))
	if store.Synced() {
		t.Error("incremental events must not mark the store synced")
	}
	store.Apply(restarted())
	if !store.Synced() {
		t.Error("store must report synced after the first relist")
	}
}

func TestStoreClusterScopedIdentity(t *testing.T) {
	store := NewStore()
	ns := obj("", "kube-system")
	store.Apply(applied(ns))

	got, ok := store.Get(types.Identity{Name: "kube-system"})
	if !ok {
		t.Fatal("cluster-scoped object not found by bare name")
	}
	if got.GetName() != "kube-system" {
		t.Errorf("unexpected object %q", got.GetName())
	}
}
