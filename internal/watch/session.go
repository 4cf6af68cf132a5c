// Package watch turns the cluster's interruptible watch connections into a
// logically infinite, self-healing event sequence.
package watch

import (
	"context"
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	apiwatch "k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/dynamic"
	"k8s.io/klog/v2"

	"github.com/flavio/dynwatch/internal/types"
)

// Handler consumes one event. It is invoked synchronously, so the pipeline
// carries at most one in-flight event and a slow consumer stalls the watch
// rather than growing a buffer.
type Handler func(types.Event)

var errWatchClosed = errors.New("watch channel closed by server")

// Session is one list-then-watch connection against a resolved target.
// The connection terminates on transient failure or checkpoint expiry; the
// logical sequence does not — the resilient wrapper opens the next session.
type Session struct {
	resource dynamic.ResourceInterface
	kind     string
}

func NewSession(resource dynamic.ResourceInterface, kind string) *Session {
	return &Session{resource: resource, kind: kind}
}

// Run lists the full current state, surfaces it as one Restarted event,
// then delivers incremental events until the connection dies. The returned
// error is the terminal connection error, or ctx.Err() on cancellation.
func (s *Session) Run(ctx context.Context, handle Handler) error {
	list, err := s.resource.List(ctx, metav1.ListOptions{})
	if err != nil {
		return fmt.Errorf("list %s failed: %w", s.kind, err)
	}

	objs := make([]*unstructured.Unstructured, 0, len(list.Items))
	for i := range list.Items {
		objs = append(objs, &list.Items[i])
	}
	handle(types.Event{Type: types.Restarted, Objects: objs})

	checkpoint := list.GetResourceVersion()
	w, err := s.resource.Watch(ctx, metav1.ListOptions{
		ResourceVersion:     checkpoint,
		AllowWatchBookmarks: true,
	})
	if err != nil {
		return fmt.Errorf("watch %s from %q failed: %w", s.kind, checkpoint, err)
	}
	defer w.Stop()

	klog.V(2).InfoS("watch established", "kind", s.kind, "resourceVersion", checkpoint, "listed", len(objs))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.ResultChan():
			if !ok {
				return errWatchClosed
			}
			switch ev.Type {
			case apiwatch.Added, apiwatch.Modified:
				obj, err := asUnstructured(ev.Object)
				if err != nil {
					return err
				}
				checkpoint = obj.GetResourceVersion()
				handle(types.Event{Type: types.Applied, Object: obj})
			case apiwatch.Deleted:
				obj, err := asUnstructured(ev.Object)
				if err != nil {
					return err
				}
				checkpoint = obj.GetResourceVersion()
				handle(types.Event{Type: types.Deleted, Object: obj})
			case apiwatch.Bookmark:
				if obj, err := asUnstructured(ev.Object); err == nil {
					checkpoint = obj.GetResourceVersion()
				}
			case apiwatch.Error:
				// covers checkpoint expiry (410 Gone) among others;
				// the wrapper relists either way
				return fmt.Errorf("watch %s failed at %q: %w", s.kind, checkpoint, apierrors.FromObject(ev.Object))
			}
		}
	}
}

func asUnstructured(obj runtime.Object) (*unstructured.Unstructured, error) {
	u, ok := obj.(*unstructured.Unstructured)
	if !ok {
		return nil, fmt.Errorf("unexpected object type %T on watch stream", obj)
	}
	return u, nil
}
