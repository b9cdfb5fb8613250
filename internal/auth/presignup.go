package auth

import (
	"errors"
	"time"

	"ndelight-api/internal/apperr"
	"ndelight-api/internal/auth/db"
	"ndelight-api/internal/logger"
	"ndelight-api/internal/models"
)

// PreSignupService verifies ownership of an email address before an account
// exists. Codes live in their own table keyed by email, one row per address.
type PreSignupService struct {
	Profiles      ProfileStore
	Verifications VerificationStore
	Mailer        OTPMailer

	Expiry time.Duration

	clock  Clock
	logger *logger.Logger
}

func NewPreSignupService(profiles ProfileStore, verifications VerificationStore, m OTPMailer, expiry time.Duration, clock Clock, log *logger.Logger) *PreSignupService {
	return &PreSignupService{
		Profiles:      profiles,
		Verifications: verifications,
		Mailer:        m,
		Expiry:        expiry,
		clock:         clock,
		logger:        log,
	}
}

// Send issues a code to an address that must not belong to an account yet.
// The existence check runs before any code is generated or stored.
func (s *PreSignupService) Send(email string) error {
	_, err := s.Profiles.GetProfileByEmail(email)
	if err == nil {
		return apperr.New(apperr.Conflict, "An account with this email already exists")
	}
	if !errors.Is(err, db.ErrNotFound) {
		return apperr.Wrap(apperr.Internal, "Database lookup failed", err)
	}

	code, err := GenerateOTP()
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to generate code", err)
	}
	v := models.EmailVerification{
		Email:     email,
		OTP:       code,
		ExpiresAt: s.clock.Now().Add(s.Expiry),
	}
	if err := s.Verifications.UpsertVerification(v); err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to store code", err)
	}
	if err := s.Mailer.SendPreSignupOTP(email, code); err != nil {
		return apperr.Wrap(apperr.Upstream, "Failed to send email", err)
	}
	s.logger.LogEmail("PRESIGNUP", email, "verification code sent")
	return nil
}

// Verify consumes the code; a matching row is deleted so it cannot be
// replayed against the signup flow.
func (s *PreSignupService) Verify(email, code string) error {
	v, err := s.Verifications.GetVerification(email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return apperr.New(apperr.Validation, "No verification code pending")
		}
		return apperr.Wrap(apperr.Internal, "Database lookup failed", err)
	}
	if s.clock.Now().After(v.ExpiresAt) {
		return apperr.New(apperr.Validation, "Code has expired, request a new one")
	}
	if v.OTP != code {
		return apperr.New(apperr.Validation, "Invalid verification code")
	}
	if err := s.Verifications.DeleteVerification(email); err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to finish verification", err)
	}
	return nil
}
