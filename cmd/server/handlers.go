package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"k8s.io/klog/v2"

	"github.com/flavio/dynwatch/internal/types"
)

// GET /api/v1/objects[?full=true]
func (api *APIServer) handleObjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := api.store.Snapshot()

	if r.URL.Query().Get("full") == "true" {
		full := make(map[string]interface{}, len(snap))
		for id, obj := range snap {
			full[id.String()] = obj.Object
		}
		api.respondJSON(w, full)
		return
	}

	ids := make([]types.Identity, 0, len(snap))
	for id := range snap {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	api.respondJSON(w, ids)
}

// GET /api/v1/objects/{name} or /api/v1/objects/{namespace}/{name}
func (api *APIServer) handleObject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/objects/"), "/")
	parts := strings.Split(rest, "/")

	var id types.Identity
	switch {
	case len(parts) == 1 && parts[0] != "":
		id = types.Identity{Name: parts[0]}
	case len(parts) == 2:
		id = types.Identity{Namespace: parts[0], Name: parts[1]}
	default:
		http.Error(w, "Expected /api/v1/objects/{name} or /api/v1/objects/{namespace}/{name}", http.StatusBadRequest)
		return
	}

	obj, ok := api.store.Get(id)
	if !ok {
		http.Error(w, "Object not found", http.StatusNotFound)
		return
	}
	api.respondJSON(w, obj.Object)
}

// GET /api/v1/stats
func (api *APIServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := api.store.Snapshot()
	byNamespace := make(map[string]int)
	for id := range snap {
		byNamespace[id.Namespace]++
	}

	api.respondJSON(w, map[string]interface{}{
		"objects":     len(snap),
		"byNamespace": byNamespace,
		"events":      api.pipe.Stats(),
		"synced":      api.store.Synced(),
	})
}

func (api *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	api.respondJSON(w, map[string]string{"status": "ok"})
}

// ready only once the first relist has been folded in, i.e. the mirror
// reflects ground truth
func (api *APIServer) handleReady(w http.ResponseWriter, r *http.Request) {
	if !api.store.Synced() {
		http.Error(w, "Not synced yet", http.StatusServiceUnavailable)
		return
	}
	api.respondJSON(w, map[string]string{"status": "ready"})
}

func (api *APIServer) respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		klog.ErrorS(err, "failed to encode response")
	}
}
