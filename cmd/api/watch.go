package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"siteforge/internal/orchestrator"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleWatch streams progress updates for a run over a websocket until
// the run reaches a terminal state or the client goes away.
func (s *apiServer) handleWatch(w http.ResponseWriter, r *http.Request) {
	runID, _ := pathTail(r.URL.Path, "/api/watch/")
	if runID == "" {
		writeError(w, http.StatusBadRequest, "run id required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("api: watch upgrade for %s: %v", runID, err)
		return
	}
	defer conn.Close()

	updates, cancel := s.deps.progress.Watch(runID)
	defer cancel()

	// Send the current snapshot first so late watchers catch up.
	if p, ok := s.deps.progress.Get(r.Context(), runID); ok {
		if err := conn.WriteJSON(p); err != nil {
			return
		}
		if terminal(p.Status) {
			return
		}
	}

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case p, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(p); err != nil {
				return
			}
			if terminal(p.Status) {
				return
			}
		}
	}
}

func terminal(status string) bool {
	return status == orchestrator.StatusReady || status == orchestrator.StatusFailed
}
