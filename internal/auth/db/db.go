package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ndelight-api/internal/models"

	"github.com/uptrace/bun"
)

var ErrNotFound = errors.New("not found")

type DB struct {
	Bun *bun.DB
}

func NewDB(b *bun.DB) *DB {
	return &DB{Bun: b}
}

func (d *DB) GetProfileByID(id string) (*models.Profile, error) {
	var p models.Profile
	err := d.Bun.NewSelect().Model(&p).Where("id = ?", id).Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (d *DB) GetProfileByEmail(email string) (*models.Profile, error) {
	var p models.Profile
	err := d.Bun.NewSelect().Model(&p).Where("email = ?", email).Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// SetOTP stores a freshly issued code along with the send-window state and
// zeroes the attempt counter.
func (d *DB) SetOTP(profileID, otp string, expiresAt, sentAt time.Time, sentCount int) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Profile)(nil)).
		Set("email_otp = ?", otp).
		Set("email_otp_expires_at = ?", expiresAt).
		Set("email_otp_attempts = 0").
		Set("email_otp_last_sent_at = ?", sentAt).
		Set("email_otp_sent_count = ?", sentCount).
		Where("id = ?", profileID).
		Exec(context.Background())
	return err
}

func (d *DB) IncrementOTPAttempts(profileID string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Profile)(nil)).
		Set("email_otp_attempts = email_otp_attempts + 1").
		Where("id = ?", profileID).
		Exec(context.Background())
	return err
}

// ClearOTP removes the code and marks the email verified in one statement.
func (d *DB) ClearOTP(profileID string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Profile)(nil)).
		Set("email_otp = NULL").
		Set("email_otp_expires_at = NULL").
		Set("email_otp_attempts = 0").
		Set("email_verified = TRUE").
		Where("id = ?", profileID).
		Exec(context.Background())
	return err
}

func (d *DB) MarkVerified(profileID string) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.Profile)(nil)).
		Set("email_verified = TRUE").
		Where("id = ?", profileID).
		Exec(context.Background())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DB) SetResetToken(profileID, tokenHash string, expiresAt time.Time) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Profile)(nil)).
		Set("reset_token_hash = ?", tokenHash).
		Set("reset_token_expires_at = ?", expiresAt).
		Where("id = ?", profileID).
		Exec(context.Background())
	return err
}

func (d *DB) GetProfileByResetTokenHash(hash string) (*models.Profile, error) {
	var p models.Profile
	err := d.Bun.NewSelect().Model(&p).Where("reset_token_hash = ?", hash).Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ClearResetToken makes a redeemed or expired token unusable.
func (d *DB) ClearResetToken(profileID string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Profile)(nil)).
		Set("reset_token_hash = NULL").
		Set("reset_token_expires_at = NULL").
		Where("id = ?", profileID).
		Exec(context.Background())
	return err
}

func (d *DB) SetRole(profileID, role string) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.Profile)(nil)).
		Set("role = ?", role).
		Where("id = ?", profileID).
		Exec(context.Background())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertVerification replaces any previous pre-signup code for the email.
func (d *DB) UpsertVerification(v models.EmailVerification) error {
	_, err := d.Bun.NewInsert().
		Model(&v).
		On("CONFLICT (email) DO UPDATE").
		Set("otp = EXCLUDED.otp").
		Set("expires_at = EXCLUDED.expires_at").
		Exec(context.Background())
	return err
}

func (d *DB) GetVerification(email string) (*models.EmailVerification, error) {
	var v models.EmailVerification
	err := d.Bun.NewSelect().Model(&v).Where("email = ?", email).Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (d *DB) DeleteVerification(email string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.EmailVerification)(nil)).
		Where("email = ?", email).
		Exec(context.Background())
	return err
}
