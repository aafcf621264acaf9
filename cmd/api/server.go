package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"siteforge/internal/llm"
	"siteforge/internal/orchestrator"
	"siteforge/internal/store"
)

type serverDeps struct {
	orch       *orchestrator.Orchestrator
	reasoner   llm.ReasoningClient
	progress   *store.MemoryProgress
	blueprints store.BlueprintStore
}

type apiServer struct {
	deps serverDeps
}

func newServer(deps serverDeps) *apiServer {
	return &apiServer{deps: deps}
}

func (s *apiServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/status/", s.handleStatus)
	mux.HandleFunc("GET /api/watch/", s.handleWatch)
	mux.HandleFunc("GET /api/blueprint/", s.handleBlueprint)
	mux.HandleFunc("POST /api/blueprint/", s.handleBlueprintEdit)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return withCORS(mux)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// pathTail returns the path segment after prefix, stripping any trailing
// subpath.
func pathTail(path, prefix string) (string, string) {
	rest := strings.TrimPrefix(path, prefix)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[:i], rest[i+1:]
	}
	return rest, ""
}
