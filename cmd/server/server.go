// Package server exposes the mirrored state over a small read-only HTTP
// API. It only ever reads published store snapshots, so it rides on the
// store's many-reader guarantee and never coordinates with the writer.
package server

import (
	"net/http"
	"time"

	"k8s.io/klog/v2"

	"github.com/flavio/dynwatch/internal/pipeline"
	"github.com/flavio/dynwatch/internal/state"
)

type APIServer struct {
	store *state.Store
	pipe  *pipeline.Pipeline
	mux   *http.ServeMux
}

func NewAPIServer(store *state.Store, pipe *pipeline.Pipeline) *APIServer {
	api := &APIServer{
		store: store,
		pipe:  pipe,
		mux:   http.NewServeMux(),
	}
	api.registerRoutes()
	return api
}

func (api *APIServer) registerRoutes() {
	api.mux.HandleFunc("/api/v1/objects", api.handleObjects)
	api.mux.HandleFunc("/api/v1/objects/", api.handleObject)
	api.mux.HandleFunc("/api/v1/stats", api.handleStats)

	api.mux.HandleFunc("/healthz", api.handleHealth)
	api.mux.HandleFunc("/readyz", api.handleReady)
}

// Handler returns the full middleware-wrapped handler.
func (api *APIServer) Handler() http.Handler {
	return api.corsMiddleware(api.loggingMiddleware(api.mux))
}

func (api *APIServer) Start(addr string) error {
	klog.InfoS("starting inspection API", "addr", addr)
	return http.ListenAndServe(addr, api.Handler())
}

func (api *APIServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (api *APIServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		klog.V(2).InfoS("http request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
