package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// MappingsHandler handles HTTP requests for gesture-to-action mappings.
// Changes are applied to the live table and persisted as overrides so they
// survive restarts.
type MappingsHandler struct {
	store *store.Store
	table *action.Table
}

// NewMappingsHandler creates a new MappingsHandler with the given store
// and live mapping table.
func NewMappingsHandler(s *store.Store, t *action.Table) *MappingsHandler {
	return &MappingsHandler{store: s, table: t}
}

type mappingResponse struct {
	Gesture             string `json:"gesture"`
	Action              string `json:"action"`
	Percent             int    `json:"percent,omitempty"`
	RequireConfirmation bool   `json:"require_confirmation"`
}

type listMappingsResponse struct {
	Confirmation string            `json:"confirmation_gesture"`
	Mappings     []mappingResponse `json:"mappings"`
}

type updateMappingRequest struct {
	Action              string `json:"action"`
	Percent             int    `json:"percent"`
	RequireConfirmation bool   `json:"require_confirmation"`
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods. Expected paths: /api/mappings or /api/mappings/{gesture}.
func (h *MappingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/mappings")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	label := gesture.Label(path)
	switch r.Method {
	case http.MethodPut:
		h.update(w, r, label)
	case http.MethodDelete:
		h.delete(w, r, label)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list handles GET /api/mappings and returns the effective bindings.
func (h *MappingsHandler) list(w http.ResponseWriter, r *http.Request) {
	bindings := h.table.Bindings()

	response := listMappingsResponse{
		Confirmation: string(h.table.ConfirmationGesture()),
		Mappings:     make([]mappingResponse, 0, len(bindings)),
	}
	for _, label := range gesture.Labels() {
		desc, ok := bindings[label]
		if !ok {
			continue
		}
		response.Mappings = append(response.Mappings, mappingResponse{
			Gesture:             string(label),
			Action:              string(desc.Kind),
			Percent:             desc.Percent(),
			RequireConfirmation: desc.RequiresConfirmation,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// update handles PUT /api/mappings/{gesture} and rebinds the gesture.
func (h *MappingsHandler) update(w http.ResponseWriter, r *http.Request, label gesture.Label) {
	var req updateMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	kind := action.Kind(req.Action)
	if !kind.IsValid() {
		writeError(w, http.StatusBadRequest, "Unknown action")
		return
	}

	desc := &action.Descriptor{
		Kind:                 kind,
		RequiresConfirmation: req.RequireConfirmation,
	}
	if kind == action.KindVolumeDelta {
		percent := req.Percent
		if percent == 0 {
			percent = 10
		}
		desc.Params = map[string]int{action.ParamPercent: percent}
	}

	if err := h.table.Bind(label, desc); err != nil {
		if errors.Is(err, action.ErrReservedGesture) {
			writeError(w, http.StatusConflict, "Gesture is reserved for confirmation")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m := &store.Mapping{
		Gesture:             string(label),
		Action:              string(kind),
		Percent:             desc.Percent(),
		RequireConfirmation: desc.RequiresConfirmation,
		Enabled:             true,
	}
	if err := h.store.Mappings().Upsert(m); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save mapping")
		return
	}

	writeJSON(w, http.StatusOK, mappingResponse{
		Gesture:             string(label),
		Action:              string(kind),
		Percent:             desc.Percent(),
		RequireConfirmation: desc.RequiresConfirmation,
	})
}

// delete handles DELETE /api/mappings/{gesture} and unbinds the gesture.
// The override row is kept with enabled=false so the default binding stays
// suppressed after a restart.
func (h *MappingsHandler) delete(w http.ResponseWriter, r *http.Request, label gesture.Label) {
	if !label.IsValid() || label == gesture.LabelNone {
		writeError(w, http.StatusNotFound, "Unknown gesture")
		return
	}

	h.table.Unbind(label)

	m := &store.Mapping{
		Gesture: string(label),
		Enabled: false,
	}
	if err := h.store.Mappings().Upsert(m); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save mapping")
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
