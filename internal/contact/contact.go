// Package contact saves website inquiries and forwards them to the team
// inbox. The notification email is the part visitors actually rely on, so
// a failed insert is logged but does not fail the request.
package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ndelight-api/internal/apperr"
	"ndelight-api/internal/logger"
	"ndelight-api/internal/models"

	"github.com/uptrace/bun"
)

type Store interface {
	SaveMessage(m models.ContactMessage) error
}

type NotifyMailer interface {
	SendContactNotification(name, email, message string) error
}

type DB struct {
	Bun *bun.DB
}

func NewDB(b *bun.DB) *DB {
	return &DB{Bun: b}
}

func (d *DB) SaveMessage(m models.ContactMessage) error {
	_, err := d.Bun.NewInsert().Model(&m).Exec(context.Background())
	return err
}

type Handler struct {
	Store  Store
	Mailer NotifyMailer
	logger *logger.Logger
}

func NewHandler(store Store, m NotifyMailer, log *logger.Logger) *Handler {
	return &Handler{Store: store, Mailer: m, logger: log}
}

// Submit handles POST /api/contact.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		h.writeError(w, apperr.New(apperr.Validation, "Name, email and message are required"))
		return
	}

	if err := h.Store.SaveMessage(models.ContactMessage{
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		CreatedAt: time.Now(),
	}); err != nil {
		h.logger.Error("CONTACT", fmt.Sprintf("Failed to save message from %s: %v", req.Email, err))
	}

	if err := h.Mailer.SendContactNotification(req.Name, req.Email, req.Message); err != nil {
		h.logger.Error("EMAIL", fmt.Sprintf("Contact notification failed: %v", err))
		h.writeError(w, apperr.New(apperr.Upstream, "Failed to send your message, please try again"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "received"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	e := apperr.As(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode())
	json.NewEncoder(w).Encode(map[string]string{"error": e.Public})
}
