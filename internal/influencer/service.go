package influencer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ndelight-api/internal/apperr"
	db "ndelight-api/internal/influencer/db"
	"ndelight-api/internal/logger"
	"ndelight-api/internal/models"
)

type ProfileStore interface {
	GetProfileByID(id string) (*models.Profile, error)
	SetRole(profileID, role string) error
}

type Store interface {
	GetByProfileID(profileID string) (*models.Influencer, error)
	GetByCode(code string) (*models.Influencer, error)
	Upsert(inf models.Influencer) error
	SetActive(profileID string, active bool) error
	List() ([]models.Influencer, error)
	Stats(code string) (*models.InfluencerStats, error)
}

type ApprovalMailer interface {
	SendApproval(to, fullName, code string) error
}

// Service manages the influencer program: approvals, revocations and the
// per-code performance numbers.
type Service struct {
	Store    Store
	Profiles ProfileStore
	Mailer   ApprovalMailer

	logger *logger.Logger
	now    func() time.Time
}

func NewService(store Store, profiles ProfileStore, m ApprovalMailer, log *logger.Logger) *Service {
	return &Service{Store: store, Profiles: profiles, Mailer: m, logger: log, now: time.Now}
}

// Approve grants a profile an active discount code and the influencer role.
// Re-approving an existing influencer updates the code and percent in place.
func (s *Service) Approve(profileID, code string, discountPercent float64) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return apperr.New(apperr.Validation, "Code is required")
	}
	if discountPercent <= 0 || discountPercent > 100 {
		return apperr.New(apperr.Validation, "Discount must be between 0 and 100")
	}

	profile, err := s.Profiles.GetProfileByID(profileID)
	if err != nil {
		return apperr.New(apperr.NotFound, "Profile not found")
	}

	// The code must not already belong to a different profile.
	existing, err := s.Store.GetByCode(code)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return apperr.Wrap(apperr.Internal, "Database lookup failed", err)
	}
	if existing != nil && existing.ID != profileID {
		return apperr.New(apperr.Conflict, "Code is already taken")
	}

	inf := models.Influencer{
		ID:              profileID,
		Code:            code,
		DiscountPercent: discountPercent,
		Active:          true,
		CreatedAt:       s.now(),
	}
	if err := s.Store.Upsert(inf); err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to save influencer", err)
	}
	if err := s.Profiles.SetRole(profileID, models.RoleInfluencer); err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to update role", err)
	}

	if err := s.Mailer.SendApproval(profile.Email, profile.FullName, code); err != nil {
		// The approval itself stands; only the notification failed.
		s.logger.Error("EMAIL", fmt.Sprintf("Approval email to %s failed: %v", profile.Email, err))
	}
	s.logger.Info("INFLUENCER", fmt.Sprintf("Approved %s with code %s at %.0f%%", profileID, code, discountPercent))
	return nil
}

// ResendApproval sends the approval email again for an active influencer,
// covering the case where the original notification failed or got lost.
func (s *Service) ResendApproval(profileID string) error {
	inf, err := s.Store.GetByProfileID(profileID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return apperr.New(apperr.NotFound, "Influencer not found")
		}
		return apperr.Wrap(apperr.Internal, "Database lookup failed", err)
	}
	if !inf.Active {
		return apperr.New(apperr.Validation, "Influencer is not active")
	}

	profile, err := s.Profiles.GetProfileByID(profileID)
	if err != nil {
		return apperr.New(apperr.NotFound, "Profile not found")
	}
	if profile.Email == "" {
		return apperr.New(apperr.Validation, "Profile has no email address")
	}

	if err := s.Mailer.SendApproval(profile.Email, profile.FullName, inf.Code); err != nil {
		return apperr.Wrap(apperr.Upstream, "Failed to send approval email", err)
	}
	s.logger.LogEmail("APPROVAL", profile.Email, "approval email resent")
	return nil
}

// Revoke deactivates the code and demotes the profile back to a plain user.
// The influencer row stays so historical bookings keep their attribution.
func (s *Service) Revoke(profileID string) error {
	if err := s.Store.SetActive(profileID, false); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return apperr.New(apperr.NotFound, "Influencer not found")
		}
		return apperr.Wrap(apperr.Internal, "Failed to deactivate code", err)
	}
	if err := s.Profiles.SetRole(profileID, models.RoleUser); err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to update role", err)
	}
	s.logger.Info("INFLUENCER", fmt.Sprintf("Revoked influencer %s", profileID))
	return nil
}

func (s *Service) List() ([]models.Influencer, error) {
	infs, err := s.Store.List()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load influencers", err)
	}
	return infs, nil
}

// StatsForProfile resolves the caller's own code and returns its numbers.
func (s *Service) StatsForProfile(profileID string) (*models.InfluencerStats, error) {
	inf, err := s.Store.GetByProfileID(profileID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "No influencer code for this account")
		}
		return nil, apperr.Wrap(apperr.Internal, "Database lookup failed", err)
	}
	stats, err := s.Store.Stats(inf.Code)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load stats", err)
	}
	return stats, nil
}

// StatsForCode is the admin view of any code's numbers.
func (s *Service) StatsForCode(code string) (*models.InfluencerStats, error) {
	if _, err := s.Store.GetByCode(code); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Unknown code")
		}
		return nil, apperr.Wrap(apperr.Internal, "Database lookup failed", err)
	}
	stats, err := s.Store.Stats(code)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load stats", err)
	}
	return stats, nil
}
