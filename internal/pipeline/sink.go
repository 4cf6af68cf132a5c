package pipeline

import (
	"fmt"
	"io"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"

	"github.com/flavio/dynwatch/internal/types"
)

// LogSink emits one log line per event: the event kind, the identity for
// incremental events, and the object count for relists.
type LogSink struct{}

func (LogSink) Record(event types.Event) {
	switch event.Type {
	case types.Applied:
		klog.InfoS("apply", "object", types.IdentityOf(event.Object))
	case types.Deleted:
		klog.InfoS("deleted", "object", types.IdentityOf(event.Object))
	case types.Restarted:
		klog.InfoS("restarted", "count", len(event.Objects))
	}
}

// YAMLSink additionally dumps every touched object as a YAML document, for
// interactive inspection of resources whose schema is unknown up front.
type YAMLSink struct {
	Out io.Writer
}

func (s YAMLSink) Record(event types.Event) {
	LogSink{}.Record(event)

	switch event.Type {
	case types.Applied, types.Deleted:
		s.dump(event.Object)
	case types.Restarted:
		for _, obj := range event.Objects {
			s.dump(obj)
		}
	}
}

func (s YAMLSink) dump(obj *unstructured.Unstructured) {
	data, err := yaml.Marshal(obj.Object)
	if err != nil {
		klog.ErrorS(err, "failed to render object", "object", types.IdentityOf(obj))
		return
	}
	fmt.Fprintf(s.Out, "---\n%s", data)
}
