package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one progress update pushed to websocket subscribers.
type Event struct {
	JobID   string    `json:"job_id"`
	Status  JobStatus `json:"status"`
	Stage   string    `json:"stage,omitempty"`
	Percent int       `json:"percent"`
	Error   string    `json:"error,omitempty"`
	At      time.Time `json:"at"`
}

// hub fans processing events out to the websocket subscribers of each
// job. Broadcasts for one job come from that job's single worker
// goroutine, so writes to a connection never overlap.
type hub struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	subs     map[string]map[*websocket.Conn]struct{} // job id -> connections
}

func newHub() *hub {
	return &hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subs: map[string]map[*websocket.Conn]struct{}{},
	}
}

// handleEvents upgrades the request and streams job events until the
// client disconnects. The first frame is always the job's current
// state, so subscribers that arrive after completion still get an
// answer.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	j, ok := s.jobs.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	c, err := s.hub.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "job_id", id, "error", err)
		return
	}

	view := j.view()
	snap := Event{
		JobID:   id,
		Status:  view.Status,
		Stage:   view.Stage,
		Percent: view.Percent,
		Error:   view.Error,
		At:      time.Now().UTC(),
	}
	if err := c.WriteJSON(snap); err != nil {
		c.Close()
		return
	}
	s.hub.subscribe(id, c)
	go s.hub.drain(id, c)
}

func (h *hub) subscribe(jobID string, c *websocket.Conn) {
	h.mu.Lock()
	if h.subs[jobID] == nil {
		h.subs[jobID] = map[*websocket.Conn]struct{}{}
	}
	h.subs[jobID][c] = struct{}{}
	h.mu.Unlock()
}

// drain discards client frames and unsubscribes once the connection
// drops.
func (h *hub) drain(jobID string, c *websocket.Conn) {
	defer h.closeSub(jobID, c)
	for {
		if _, _, err := c.NextReader(); err != nil {
			return
		}
	}
}

func (h *hub) broadcast(jobID string, ev Event) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.subs[jobID]))
	for c := range h.subs[jobID] {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteJSON(ev); err != nil {
			h.closeSub(jobID, c)
		}
	}
}

func (h *hub) closeSub(jobID string, c *websocket.Conn) {
	c.Close()
	h.mu.Lock()
	if conns, ok := h.subs[jobID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.subs, jobID)
		}
	}
	h.mu.Unlock()
}

func (h *hub) closeAll() {
	h.mu.Lock()
	for _, conns := range h.subs {
		for c := range conns {
			c.Close()
		}
	}
	h.subs = map[string]map[*websocket.Conn]struct{}{}
	h.mu.Unlock()
}
