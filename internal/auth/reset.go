package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"ndelight-api/internal/apperr"
	"ndelight-api/internal/auth/db"
	"ndelight-api/internal/logger"
)

// CredentialUpdater changes the password on the backing auth provider.
type CredentialUpdater interface {
	UpdatePassword(userID, newPassword string) error
}

// ResetService implements the forgot/reset password pair. Only a SHA-256
// hash of the token is stored; the raw token exists solely in the email.
type ResetService struct {
	Profiles    ProfileStore
	Credentials CredentialUpdater
	Mailer      OTPMailer

	Expiry  time.Duration
	SiteURL string

	clock  Clock
	logger *logger.Logger
}

func NewResetService(profiles ProfileStore, creds CredentialUpdater, m OTPMailer, expiry time.Duration, siteURL string, clock Clock, log *logger.Logger) *ResetService {
	return &ResetService{
		Profiles:    profiles,
		Credentials: creds,
		Mailer:      m,
		Expiry:      expiry,
		SiteURL:     siteURL,
		clock:       clock,
		logger:      log,
	}
}

// Forgot sends a reset link if the email belongs to an account. The response
// is identical either way so the endpoint cannot confirm which addresses
// are registered.
func (s *ResetService) Forgot(email string) error {
	profile, err := s.Profiles.GetProfileByEmail(email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil
		}
		// Silently succeed here too; a transient DB failure should not be
		// observable as "this email does not exist".
		s.logger.Error("AUTH", fmt.Sprintf("Lookup failed during forgot-password: %v", err))
		return nil
	}

	token, hash, err := newResetToken()
	if err != nil {
		s.logger.Error("AUTH", fmt.Sprintf("Token generation failed: %v", err))
		return nil
	}
	if err := s.Profiles.SetResetToken(profile.ID, hash, s.clock.Now().Add(s.Expiry)); err != nil {
		s.logger.Error("AUTH", fmt.Sprintf("Failed to store reset token: %v", err))
		return nil
	}

	link := fmt.Sprintf("%s/reset-password.html?token=%s&email=%s", s.SiteURL, token, url.QueryEscape(profile.Email))
	if err := s.Mailer.SendResetLink(profile.Email, link); err != nil {
		s.logger.Error("EMAIL", fmt.Sprintf("Reset email to %s failed: %v", profile.Email, err))
		return nil
	}
	s.logger.LogEmail("RESET", profile.Email, "reset link sent")
	return nil
}

// Reset redeems a token. The stored hash is cleared before reporting
// success, so each token works at most once.
func (s *ResetService) Reset(token, newPassword string) error {
	if len(newPassword) < 8 {
		return apperr.New(apperr.Validation, "Password must be at least 8 characters")
	}

	sum := sha256.Sum256([]byte(token))
	hash := hex.EncodeToString(sum[:])

	profile, err := s.Profiles.GetProfileByResetTokenHash(hash)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return apperr.New(apperr.Unauthorized, "Invalid or expired reset link")
		}
		return apperr.Wrap(apperr.Internal, "Database lookup failed", err)
	}
	if profile.ResetTokenExpiresAt == nil || s.clock.Now().After(*profile.ResetTokenExpiresAt) {
		return apperr.New(apperr.Unauthorized, "Invalid or expired reset link")
	}

	if err := s.Credentials.UpdatePassword(profile.ID, newPassword); err != nil {
		return apperr.Wrap(apperr.Upstream, "Failed to update password", err)
	}
	if err := s.Profiles.ClearResetToken(profile.ID); err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to invalidate reset link", err)
	}
	s.logger.Info("AUTH", fmt.Sprintf("Password reset for profile %s", profile.ID))
	return nil
}

func newResetToken() (token, hash string, err error) {
	raw := make([]byte, 32)
	if _, err = rand.Read(raw); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(raw)
	sum := sha256.Sum256([]byte(token))
	return token, hex.EncodeToString(sum[:]), nil
}
