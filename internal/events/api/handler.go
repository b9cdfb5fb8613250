package api

import (
	"encoding/json"
	"net/http"

	"ndelight-api/internal/apperr"
	"ndelight-api/internal/events"
	"ndelight-api/internal/logger"
	"ndelight-api/internal/models"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Service *events.Service
	logger  *logger.Logger
}

func NewHandler(svc *events.Service, log *logger.Logger) *Handler {
	return &Handler{Service: svc, logger: log}
}

// List handles GET /api/events.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	evts, err := h.Service.List()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, evts)
}

// Get handles GET /api/events/{eventId}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.Service.Get(chi.URLParam(r, "eventId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, event)
}

// Create handles POST /api/admin/events.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var e models.Event
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		h.writeError(w, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	created, err := h.Service.Create(e)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/admin/events/{eventId}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var e models.Event
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		h.writeError(w, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	e.ID = chi.URLParam(r, "eventId")
	updated, err := h.Service.Update(e)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/admin/events/{eventId}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(chi.URLParam(r, "eventId")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	e := apperr.As(err)
	if e.Kind == apperr.Internal {
		h.logger.Error("EVENT", e.Internal)
	}
	h.writeJSON(w, e.StatusCode(), map[string]string{"error": e.Public})
}
