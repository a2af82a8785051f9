// Package api provides HTTP API handlers for the Mudra gesture control system.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ayusman/mudra/internal/store"
)

// HistoryHandler serves the dispatch history log.
type HistoryHandler struct {
	store *store.Store
}

// NewHistoryHandler creates a new HistoryHandler with the given store.
func NewHistoryHandler(s *store.Store) *HistoryHandler {
	return &HistoryHandler{store: s}
}

type historyEntryResponse struct {
	ID        string `json:"id"`
	Gesture   string `json:"gesture"`
	Action    string `json:"action"`
	Outcome   string `json:"outcome"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

type listHistoryResponse struct {
	Entries []historyEntryResponse `json:"entries"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// ServeHTTP handles GET /api/history?limit=N, newest entries first.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.store.History().Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list history")
		return
	}

	response := listHistoryResponse{
		Entries: make([]historyEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		response.Entries = append(response.Entries, historyEntryResponse{
			ID:        e.ID,
			Gesture:   e.Gesture,
			Action:    e.Action,
			Outcome:   e.Outcome,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
