package db

import (
	"context"
	"database/sql"
	"errors"

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

func (d *DB) GetByProfileID(profileID string) (*models.Influencer, error) {
	var inf models.Influencer
	err := d.Bun.NewSelect().Model(&inf).Where("id = ?", profileID).Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inf, nil
}

func (d *DB) GetByCode(code string) (*models.Influencer, error) {
	var inf models.Influencer
	err := d.Bun.NewSelect().Model(&inf).Where("code = ?", code).Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inf, nil
}

// Upsert reactivates or retunes an existing code row on re-approval.
func (d *DB) Upsert(inf models.Influencer) error {
	_, err := d.Bun.NewInsert().
		Model(&inf).
		On("CONFLICT (id) DO UPDATE").
		Set("code = EXCLUDED.code").
		Set("discount_percent = EXCLUDED.discount_percent").
		Set("active = EXCLUDED.active").
		Exec(context.Background())
	return err
}

func (d *DB) SetActive(profileID string, active bool) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.Influencer)(nil)).
		Set("active = ?", active).
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

func (d *DB) List() ([]models.Influencer, error) {
	var infs []models.Influencer
	err := d.Bun.NewSelect().Model(&infs).Order("code ASC").Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return infs, nil
}

// Stats aggregates booking counts and paid revenue for one code.
func (d *DB) Stats(code string) (*models.InfluencerStats, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("influencer_code = ?", code).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}

	stats := &models.InfluencerStats{Code: code, TotalBookings: len(bookings)}
	for _, b := range bookings {
		if b.Status == models.BookingPaid {
			stats.PaidBookings++
			stats.GrossAmount += b.Amount
		}
	}
	return stats, nil
}
