// Package pipeline sits between the watch stream and the store: it trims
// non-semantic metadata from each event, emits one observability record per
// event to an injectable sink, and applies the event to the mirror.
package pipeline

import (
	"sync/atomic"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/flavio/dynwatch/internal/state"
	"github.com/flavio/dynwatch/internal/types"
)

// Sink receives one record per observed event. Implementations must not
// retain the event's objects beyond the call.
type Sink interface {
	Record(types.Event)
}

// Stats are the pipeline's event counters, safe to read concurrently.
type Stats struct {
	Applied        uint64 `json:"applied"`
	Deleted        uint64 `json:"deleted"`
	Restarted      uint64 `json:"restarted"`
	LastRelistSize uint64 `json:"lastRelistSize"`
}

// Pipeline is the single writer feeding the store, invoked synchronously
// by the watch layer in delivery order.
type Pipeline struct {
	store *state.Store
	sink  Sink

	applied        atomic.Uint64
	deleted        atomic.Uint64
	restarted      atomic.Uint64
	lastRelistSize atomic.Uint64
}

func New(store *state.Store, sink Sink) *Pipeline {
	return &Pipeline{store: store, sink: sink}
}

// Handle processes one event: transform, record, apply.
func (p *Pipeline) Handle(event types.Event) {
	stripManagedFields(event)

	switch event.Type {
	case types.Applied:
		p.applied.Add(1)
	case types.Deleted:
		p.deleted.Add(1)
	case types.Restarted:
		p.restarted.Add(1)
		p.lastRelistSize.Store(uint64(len(event.Objects)))
	}

	p.sink.Record(event)
	p.store.Apply(event)
}

func (p *Pipeline) Stats() Stats {
	return Stats{
		Applied:        p.applied.Load(),
		Deleted:        p.deleted.Load(),
		Restarted:      p.restarted.Load(),
		LastRelistSize: p.lastRelistSize.Load(),
	}
}

// stripManagedFields drops the field-ownership bookkeeping from Applied
// and Restarted objects. It is high-cardinality, carries no semantics for
// an observer, and would otherwise dominate per-object memory. Identity,
// spec and status are never touched.
func stripManagedFields(event types.Event) {
	switch event.Type {
	case types.Applied:
		removeManagedFields(event.Object)
	case types.Restarted:
		for _, obj := range event.Objects {
			removeManagedFields(obj)
		}
	}
}

func removeManagedFields(obj *unstructured.Unstructured) {
	unstructured.RemoveNestedField(obj.Object, "metadata", "managedFields")
}
