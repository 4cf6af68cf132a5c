package watch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	apiwatch "k8s.io/apimachinery/pkg/watch"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	coretesting "k8s.io/client-go/testing"

	"github.com/flavio/dynwatch/internal/types"
)

var configMapGVR = schema.GroupVersionResource{Version: "v1", Resource: "configmaps"}

func cm(namespace, name string) *unstructured.Unstructured {
	u := &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "ConfigMap",
	}}
	u.SetNamespace(namespace)
	u.SetName(name)
	return u
}

func newFakeSession(t *testing.T, initial ...runtime.Object) (*Session, *apiwatch.FakeWatcher) {
	t.Helper()
	client := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(
		runtime.NewScheme(),
		map[schema.GroupVersionResource]string{configMapGVR: "ConfigMapList"},
		initial...,
	)
	w := apiwatch.NewFake()
	client.PrependWatchReactor("*", coretesting.DefaultWatchReactor(w, nil))

	resource := client.Resource(configMapGVR).Namespace("default")
	return NewSession(resource, "ConfigMap"), w
}

// runSession runs the session in the background and returns the collected
// events plus a wait function yielding the terminal error.
func runSession(ctx context.Context, s *Session) (<-chan types.Event, func() error) {
	events := make(chan types.Event, 64)
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(ev types.Event) { events <- ev })
	}()
	return events, func() error {
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			return context.DeadlineExceeded
		}
	}
}

func TestSessionListsThenWatches(t *testing.T) {
	session, w := newFakeSession(t, cm("default", "alpha"), cm("default", "beta"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, wait := runSession(ctx, session)

	first := <-events
	require.Equal(t, types.Restarted, first.Type)
	assert.Len(t, first.Objects, 2)

	w.Add(cm("default", "gamma"))
	second := <-events
	require.Equal(t, types.Applied, second.Type)
	assert.Equal(t, "gamma", second.Object.GetName())

	w.Modify(cm("default", "alpha"))
	third := <-events
	assert.Equal(t, types.Applied, third.Type)

	w.Delete(cm("default", "beta"))
	fourth := <-events
	require.Equal(t, types.Deleted, fourth.Type)
	assert.Equal(t, "beta", fourth.Object.GetName())

	w.Stop()
	err := wait()
	require.Error(t, err, "server-side close terminates the connection, not the logical sequence")
}

func TestSessionBookmarkEmitsNothing(t *testing.T) {
	session, w := newFakeSession(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, wait := runSession(ctx, session)

	<-events // initial relist

	marker := cm("default", "marker")
	marker.SetResourceVersion("42")
	w.Action(apiwatch.Bookmark, marker)

	w.Add(cm("default", "after"))
	next := <-events
	assert.Equal(t, types.Applied, next.Type, "bookmark must not surface as an event")

	w.Stop()
	_ = wait()
}

func TestSessionCheckpointExpiry(t *testing.T) {
	session, w := newFakeSession(t, cm("default", "alpha"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, wait := runSession(ctx, session)

	<-events
	w.Error(&metav1.Status{
		Status:  metav1.StatusFailure,
		Code:    410,
		Reason:  metav1.StatusReasonExpired,
		Message: "too old resource version",
	})

	err := wait()
	require.Error(t, err)
	assert.True(t, apierrors.IsResourceExpired(err), "expiry must surface as the terminal session error: %v", err)
}

func TestSessionHonorsCancellation(t *testing.T) {
	session, _ := newFakeSession(t)

	ctx, cancel := context.WithCancel(context.Background())
	events, wait := runSession(ctx, session)

	<-events
	cancel()

	assert.ErrorIs(t, wait(), context.Canceled)
}
