package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"ndelight-api/internal/apperr"
	"ndelight-api/internal/auth/db"
	"ndelight-api/internal/logger"
	"ndelight-api/internal/models"
)

type ProfileStore interface {
	GetProfileByID(id string) (*models.Profile, error)
	GetProfileByEmail(email string) (*models.Profile, error)
	SetOTP(profileID, otp string, expiresAt, sentAt time.Time, sentCount int) error
	IncrementOTPAttempts(profileID string) error
	ClearOTP(profileID string) error
	MarkVerified(profileID string) error
	SetResetToken(profileID, tokenHash string, expiresAt time.Time) error
	GetProfileByResetTokenHash(hash string) (*models.Profile, error)
	ClearResetToken(profileID string) error
}

type VerificationStore interface {
	UpsertVerification(v models.EmailVerification) error
	GetVerification(email string) (*models.EmailVerification, error)
	DeleteVerification(email string) error
}

type OTPMailer interface {
	SendOTP(to, code string) error
	SendPreSignupOTP(to, code string) error
	SendResetLink(to, link string) error
}

// OTPService issues and checks email verification codes for existing
// accounts, enforcing a per-send cooldown and a daily send cap.
type OTPService struct {
	Profiles ProfileStore
	Mailer   OTPMailer

	Window      DailyWindow
	Expiry      time.Duration
	MaxAttempts int

	clock  Clock
	logger *logger.Logger
}

func NewOTPService(profiles ProfileStore, m OTPMailer, window DailyWindow, expiry time.Duration, maxAttempts int, clock Clock, log *logger.Logger) *OTPService {
	return &OTPService{
		Profiles:    profiles,
		Mailer:      m,
		Window:      window,
		Expiry:      expiry,
		MaxAttempts: maxAttempts,
		clock:       clock,
		logger:      log,
	}
}

// Send issues a fresh code to the profile's email. Every successful send
// replaces the previous code and zeroes the attempt counter.
func (s *OTPService) Send(profileID string) error {
	profile, err := s.Profiles.GetProfileByID(profileID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return apperr.New(apperr.NotFound, "Profile not found")
		}
		return apperr.Wrap(apperr.Internal, "Database lookup failed", err)
	}
	if profile.EmailVerified {
		return apperr.New(apperr.Conflict, "Email already verified")
	}

	now := s.clock.Now()
	count, outcome := s.Window.Next(profile.EmailOTPLastSentAt, profile.EmailOTPSentCount, now)
	switch outcome {
	case SendCooldown:
		return apperr.New(apperr.RateLimited, "Please wait before requesting another code")
	case SendDailyCap:
		return apperr.New(apperr.RateLimited, "Daily OTP limit reached")
	}

	code, err := GenerateOTP()
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to generate code", err)
	}
	if err := s.Profiles.SetOTP(profileID, code, now.Add(s.Expiry), now, count); err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to store code", err)
	}
	if err := s.Mailer.SendOTP(profile.Email, code); err != nil {
		return apperr.Wrap(apperr.Upstream, "Failed to send email", err)
	}
	s.logger.LogEmail("OTP", profile.Email, "verification code sent")
	return nil
}

// Verify checks the submitted code. The attempt-cap check comes before the
// code comparison, so a locked-out profile is refused even with the right
// code until a new one is issued.
func (s *OTPService) Verify(profileID, code string) error {
	profile, err := s.Profiles.GetProfileByID(profileID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return apperr.New(apperr.NotFound, "Profile not found")
		}
		return apperr.Wrap(apperr.Internal, "Database lookup failed", err)
	}

	if profile.EmailOTPAttempts >= s.MaxAttempts {
		return apperr.New(apperr.Validation, "Too many attempts, request a new code")
	}
	if profile.EmailOTP == "" || profile.EmailOTPExpiresAt == nil {
		return apperr.New(apperr.Validation, "No verification code pending")
	}
	if s.clock.Now().After(*profile.EmailOTPExpiresAt) {
		return apperr.New(apperr.Validation, "Code has expired, request a new one")
	}
	if profile.EmailOTP != code {
		if err := s.Profiles.IncrementOTPAttempts(profileID); err != nil {
			return apperr.Wrap(apperr.Internal, "Failed to record attempt", err)
		}
		return apperr.New(apperr.Validation, "Invalid verification code")
	}

	if err := s.Profiles.ClearOTP(profileID); err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to finish verification", err)
	}
	s.logger.Info("AUTH", fmt.Sprintf("Email verified for profile %s", profileID))
	return nil
}

// GenerateOTP returns a uniformly random six digit code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
