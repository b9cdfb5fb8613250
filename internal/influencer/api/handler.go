package api

import (
	"encoding/json"
	"net/http"

	"ndelight-api/internal/apperr"
	"ndelight-api/internal/auth"
	"ndelight-api/internal/influencer"
	"ndelight-api/internal/logger"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Service *influencer.Service
	logger  *logger.Logger
}

func NewHandler(svc *influencer.Service, log *logger.Logger) *Handler {
	return &Handler{Service: svc, logger: log}
}

// Approve handles POST /api/admin/influencers/approve.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID          string  `json:"user_id"`
		Code            string  `json:"code"`
		DiscountPercent float64 `json:"discount_percent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	if req.UserID == "" {
		h.writeError(w, apperr.New(apperr.Validation, "user_id is required"))
		return
	}

	if err := h.Service.Approve(req.UserID, req.Code, req.DiscountPercent); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

// ResendApproval handles POST /api/admin/send-approval-email.
func (h *Handler) ResendApproval(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	if req.UserID == "" {
		h.writeError(w, apperr.New(apperr.Validation, "user_id is required"))
		return
	}

	if err := h.Service.ResendApproval(req.UserID); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// Revoke handles POST /api/admin/influencers/{userId}/revoke.
func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Revoke(chi.URLParam(r, "userId")); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

// List handles GET /api/admin/influencers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	infs, err := h.Service.List()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, infs)
}

// MyStats handles GET /api/influencer/stats for the authenticated influencer.
func (h *Handler) MyStats(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	if uid == "" {
		h.writeError(w, apperr.New(apperr.Unauthorized, "Unauthorized"))
		return
	}
	stats, err := h.Service.StatsForProfile(uid)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// CodeStats handles GET /api/admin/influencers/{code}/stats.
func (h *Handler) CodeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.StatsForCode(chi.URLParam(r, "code"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	e := apperr.As(err)
	if e.Kind == apperr.Internal {
		h.logger.Error("INFLUENCER", e.Internal)
	}
	h.writeJSON(w, e.StatusCode(), map[string]string{"error": e.Public})
}
