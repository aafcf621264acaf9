package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"siteforge/internal/orchestrator"
	"siteforge/internal/patch"
	"siteforge/internal/store"
	t "siteforge/internal/types"
)

type generateRequest struct {
	PropertyID string          `json:"property_id"`
	InstanceID string          `json:"instance_id"`
	Brand      *t.BrandContext `json:"brand,omitempty"`
	UserPrefs  map[string]any  `json:"user_preferences,omitempty"`
}

// handleGenerate starts a run in the background and returns the run id
// immediately; callers poll status or watch the stream.
func (s *apiServer) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PropertyID == "" || req.InstanceID == "" {
		writeError(w, http.StatusBadRequest, "property_id and instance_id are required")
		return
	}

	runID := uuid.NewString()
	go func() {
		// Detach from the request context; generation outlives the HTTP
		// exchange. The overall timeout is the caller-level cancellation
		// boundary for the whole run.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		_, err := s.deps.orch.Generate(ctx, orchestrator.Request{
			RunID:      runID,
			PropertyID: req.PropertyID,
			InstanceID: req.InstanceID,
			Brand:      req.Brand,
			UserPrefs:  req.UserPrefs,
		})
		if err != nil {
			log.Printf("api: run %s failed: %v", runID, err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"run_id": runID})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	runID, _ := pathTail(r.URL.Path, "/api/status/")
	if runID == "" {
		writeError(w, http.StatusBadRequest, "run id required")
		return
	}
	p, ok := s.deps.progress.Get(r.Context(), runID)
	if !ok {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *apiServer) handleBlueprint(w http.ResponseWriter, r *http.Request) {
	runID, _ := pathTail(r.URL.Path, "/api/blueprint/")
	if runID == "" {
		writeError(w, http.StatusBadRequest, "run id required")
		return
	}
	bp, err := s.deps.blueprints.Get(r.Context(), runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "blueprint not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, bp)
}

type editRequest struct {
	Instruction string `json:"instruction"`
}

// handleBlueprintEdit translates a natural-language instruction into patch
// operations, applies them, bumps the version, and stores the result back.
func (s *apiServer) handleBlueprintEdit(w http.ResponseWriter, r *http.Request) {
	runID, rest := pathTail(r.URL.Path, "/api/blueprint/")
	if runID == "" || rest != "edit" {
		writeError(w, http.StatusNotFound, "unknown route")
		return
	}
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Instruction == "" {
		writeError(w, http.StatusBadRequest, "instruction required")
		return
	}

	bp, err := s.deps.blueprints.Get(r.Context(), runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "blueprint not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ops, err := patch.Translate(r.Context(), s.deps.reasoner, bp, req.Instruction)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated := patch.Apply(bp, ops)
	updated.Version = bp.Version + 1
	if err := s.deps.blueprints.Put(r.Context(), runID, updated); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version":    updated.Version,
		"operations": ops,
	})
}
