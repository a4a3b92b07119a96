// internal/api/server.go
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/nthenge/sokoreach/internal/model"
)

// Holder keeps the latest snapshots pushed by the campaign loop so
// HTTP handlers never touch live state. Snapshots are replaced whole.
type Holder struct {
	mu       sync.RWMutex
	progress *model.CampaignProgress
	state    *model.SendingState
}

func NewHolder() *Holder {
	return &Holder{}
}

func (h *Holder) PublishProgress(p model.CampaignProgress) {
	h.mu.Lock()
	h.progress = &p
	h.mu.Unlock()
}

func (h *Holder) PublishState(s model.SendingState) {
	h.mu.Lock()
	h.state = &s
	h.mu.Unlock()
}

func (h *Holder) Progress() (model.CampaignProgress, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.progress == nil {
		return model.CampaignProgress{}, false
	}
	return *h.progress, true
}

func (h *Holder) State() (model.SendingState, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state == nil {
		return model.SendingState{}, false
	}
	return *h.state, true
}

// HistoryReader is the slice of the delivery archive the API exposes.
type HistoryReader interface {
	Recent(limit int) ([]model.AttemptResult, error)
	Counts() (map[string]int, error)
}

// StatusServer is a read-only view of the running campaign for
// operators: current progress, remaining quota and recent deliveries.
type StatusServer struct {
	Holder      *Holder
	History     HistoryReader
	DailyLimit  int
	HourlyLimit int
}

func (s *StatusServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Get("/progress", s.progress)
	r.Get("/ratelimit", s.rateLimit)
	r.Get("/history", s.history)
	return r
}

// Start serves the status API in the background and returns the
// server so the caller can shut it down.
func (s *StatusServer) Start(addr string) *http.Server {
	srv := &http.Server{Addr: addr, Handler: s.Router()}
	go func() {
		log.Println("🚀 Status server running on", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Println("⚠️ Status server stopped:", err)
		}
	}()
	return srv
}

func (s *StatusServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *StatusServer) progress(w http.ResponseWriter, r *http.Request) {
	progress, ok := s.Holder.Progress()
	if !ok {
		http.Error(w, "no campaign progress yet", http.StatusNotFound)
		return
	}
	writeJSON(w, progress)
}

type rateLimitView struct {
	model.SendingState
	DailyLimit              int `json:"daily_limit"`
	HourlyLimit             int `json:"hourly_limit"`
	MessagesUntilBatchDelay int `json:"messages_until_batch_delay"`
}

func (s *StatusServer) rateLimit(w http.ResponseWriter, r *http.Request) {
	state, ok := s.Holder.State()
	if !ok {
		http.Error(w, "no sending state yet", http.StatusNotFound)
		return
	}
	until := state.NextBatchDelayAt - state.MessagesSinceBatchDelay
	if until < 0 {
		until = 0
	}
	writeJSON(w, rateLimitView{
		SendingState:            state,
		DailyLimit:              s.DailyLimit,
		HourlyLimit:             s.HourlyLimit,
		MessagesUntilBatchDelay: until,
	})
}

func (s *StatusServer) history(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		http.Error(w, "history disabled", http.StatusNotFound)
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	recent, err := s.History.Recent(limit)
	if err != nil {
		http.Error(w, "failed to read history: "+err.Error(), http.StatusInternalServerError)
		return
	}
	counts, err := s.History.Counts()
	if err != nil {
		http.Error(w, "failed to read history: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"recent": recent,
		"counts": counts,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("⚠️ Failed to encode response:", err)
	}
}
