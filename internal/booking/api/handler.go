package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"ndelight-api/internal/apperr"
	"ndelight-api/internal/booking"
	"ndelight-api/internal/logger"
	"ndelight-api/internal/models"
	"ndelight-api/internal/payment"

	"github.com/go-playground/validator/v10"
)

type Handler struct {
	Service       *booking.Service
	WebhookSecret string

	validate *validator.Validate
	logger   *logger.Logger
}

func NewHandler(svc *booking.Service, webhookSecret string, log *logger.Logger) *Handler {
	return &Handler{
		Service:       svc,
		WebhookSecret: webhookSecret,
		validate:      validator.New(),
		logger:        log,
	}
}

// CreateOrder handles POST /api/create-order.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, apperr.Wrap(apperr.Validation, "Missing required fields", err))
		return
	}

	resp, err := h.Service.CreateOrder(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// Webhook handles POST /api/razorpay-webhook. The signature is checked over
// the body bytes exactly as received, before any JSON decoding.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.WebhookSecret == "" {
		h.logger.Error("WEBHOOK", "Webhook secret is not configured")
		h.writeError(w, apperr.New(apperr.Internal, "Webhook not configured"))
		return
	}

	rawBody, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		h.writeError(w, apperr.New(apperr.Validation, "Unreadable request body"))
		return
	}

	signature := r.Header.Get(payment.SignatureHeader)
	if !payment.VerifySignature(rawBody, signature, h.WebhookSecret) {
		h.logger.Warn("WEBHOOK", "Rejected payload with invalid signature")
		h.writeError(w, apperr.New(apperr.Validation, "Invalid signature"))
		return
	}

	var event payment.WebhookEvent
	if err := json.NewDecoder(bytes.NewReader(rawBody)).Decode(&event); err != nil {
		h.writeError(w, apperr.New(apperr.Validation, "Invalid webhook payload"))
		return
	}

	if event.Event != payment.EventOrderPaid {
		// Acknowledge anything we do not act on so the gateway stops retrying.
		h.logger.Info("WEBHOOK", fmt.Sprintf("Ignoring event %q", event.Event))
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	if err := h.Service.ConfirmPaid(event.Payload.Order.Entity.ID); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SendBookingEmail handles POST /api/send-booking-email.
func (h *Handler) SendBookingEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BookingID string `json:"booking_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BookingID == "" {
		h.writeError(w, apperr.New(apperr.Validation, "booking_id is required"))
		return
	}

	if err := h.Service.SendBookingEmail(req.BookingID); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	e := apperr.As(err)
	if e.Internal != "" {
		h.logger.Error("API", fmt.Sprintf("%s: %v", e.Internal, e.Err))
	}
	h.writeJSON(w, e.StatusCode(), map[string]string{"error": e.Public})
}
