// Package state keeps the local mirror of the watched resource type.
package state

import (
	"sync/atomic"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/flavio/dynwatch/internal/types"
)

type snapshot map[types.Identity]*unstructured.Unstructured

// Store maps identity to the last observed object. It has a single logical
// writer (the event pipeline, in delivery order) and many concurrent
// readers. The writer publishes a fresh map per event through an atomic
// pointer, so readers always see a fully-applied event boundary and never
// block the writer.
type Store struct {
	current atomic.Pointer[snapshot]
	synced  atomic.Bool
}

func NewStore() *Store {
	s := &Store{}
	empty := snapshot{}
	s.current.Store(&empty)
	return s
}

// Apply folds one event into the store. Not safe for concurrent writers;
// the pipeline is the only caller.
func (s *Store) Apply(event types.Event) {
	switch event.Type {
	case types.Applied:
		next := s.clone()
		next[types.IdentityOf(event.Object)] = event.Object
		s.current.Store(&next)
	case types.Deleted:
		next := s.clone()
		delete(next, types.IdentityOf(event.Object))
		s.current.Store(&next)
	case types.Restarted:
		// the carried list is the new ground truth; anything absent
		// from it is purged
		next := make(snapshot, len(event.Objects))
		for _, obj := range event.Objects {
			next[types.IdentityOf(obj)] = obj
		}
		s.current.Store(&next)
		s.synced.Store(true)
	}
}

func (s *Store) clone() snapshot {
	cur := *s.current.Load()
	next := make(snapshot, len(cur)+1)
	for id, obj := range cur {
		next[id] = obj
	}
	return next
}

// Get returns the current object for id, if present.
func (s *Store) Get(id types.Identity) (*unstructured.Unstructured, bool) {
	obj, ok := (*s.current.Load())[id]
	return obj, ok
}

// List returns every identity currently mirrored.
func (s *Store) List() []types.Identity {
	cur := *s.current.Load()
	ids := make([]types.Identity, 0, len(cur))
	for id := range cur {
		ids = append(ids, id)
	}
	return ids
}

// Snapshot returns the current identity→object map. The returned map is
// immutable; the writer never touches a published snapshot again.
func (s *Store) Snapshot() map[types.Identity]*unstructured.Unstructured {
	return *s.current.Load()
}

func (s *Store) Len() int {
	return len(*s.current.Load())
}

// Synced reports whether at least one full relist has been applied, i.e.
// the mirror reflects ground truth rather than its zero value.
func (s *Store) Synced() bool {
	return s.synced.Load()
}
