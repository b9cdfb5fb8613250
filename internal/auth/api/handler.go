package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ndelight-api/internal/apperr"
	"ndelight-api/internal/auth"
	"ndelight-api/internal/logger"

	"github.com/go-playground/validator/v10"
)

type Handler struct {
	OTP       *auth.OTPService
	PreSignup *auth.PreSignupService
	Reset     *auth.ResetService
	Profiles  auth.ProfileStore

	validate *validator.Validate
	logger   *logger.Logger
}

func NewHandler(otp *auth.OTPService, preSignup *auth.PreSignupService, reset *auth.ResetService, profiles auth.ProfileStore, log *logger.Logger) *Handler {
	return &Handler{
		OTP:       otp,
		PreSignup: preSignup,
		Reset:     reset,
		Profiles:  profiles,
		validate:  validator.New(),
		logger:    log,
	}
}

// SendOTP handles POST /api/auth/send-otp for the authenticated user.
func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	if uid == "" {
		h.writeError(w, apperr.New(apperr.Unauthorized, "Unauthorized"))
		return
	}
	if err := h.OTP.Send(uid); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// VerifyOTP handles POST /api/auth/verify-otp.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	if uid == "" {
		h.writeError(w, apperr.New(apperr.Unauthorized, "Unauthorized"))
		return
	}

	var req struct {
		OTP string `json:"otp" validate:"required,len=6,numeric"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, apperr.New(apperr.Validation, "A six digit code is required"))
		return
	}

	if err := h.OTP.Verify(uid, req.OTP); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

// PreSignupSendOTP handles POST /api/auth/pre-signup/send-otp.
func (h *Handler) PreSignupSendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, apperr.New(apperr.Validation, "A valid email is required"))
		return
	}

	if err := h.PreSignup.Send(req.Email); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// PreSignupVerifyOTP handles POST /api/auth/pre-signup/verify-otp.
func (h *Handler) PreSignupVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
		OTP   string `json:"otp" validate:"required,len=6,numeric"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, apperr.New(apperr.Validation, "Email and a six digit code are required"))
		return
	}

	if err := h.PreSignup.Verify(req.Email, req.OTP); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

// ForgotPassword handles POST /api/auth/forgot-password. The response body
// is the same whether or not the email is registered.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, apperr.New(apperr.Validation, "A valid email is required"))
		return
	}

	if err := h.Reset.Forgot(req.Email); err != nil {
		h.logger.Error("AUTH", fmt.Sprintf("forgot-password: %v", err))
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "If that email is registered, a reset link has been sent",
	})
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"new_password" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperr.New(apperr.Validation, "Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, apperr.New(apperr.Validation, "Token and new password are required"))
		return
	}

	if err := h.Reset.Reset(req.Token, req.NewPassword); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

// MarkVerified handles POST /api/auth/mark-verified. It flips the caller's
// own verified flag, used when the auth provider confirmed the email out of
// band and the profile row lagged behind.
func (h *Handler) MarkVerified(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	if uid == "" {
		h.writeError(w, apperr.New(apperr.Unauthorized, "Unauthorized"))
		return
	}

	if err := h.Profiles.MarkVerified(uid); err != nil {
		h.writeError(w, apperr.New(apperr.NotFound, "Profile not found"))
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	e := apperr.As(err)
	if e.Internal != "" && e.Kind == apperr.Internal {
		h.logger.Error("AUTH", e.Internal)
	}
	h.writeJSON(w, e.StatusCode(), map[string]string{"error": e.Public})
}
