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

// ---------------- EVENTS ----------------

func (d *DB) GetEventByID(id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ---------------- INFLUENCERS ----------------

// GetInfluencerByCode looks the code up at checkout time; discounts are
// never cached.
func (d *DB) GetInfluencerByCode(code string) (*models.Influencer, error) {
	var inf models.Influencer
	err := d.Bun.NewSelect().
		Model(&inf).
		Where("code = ?", code).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inf, nil
}

// ---------------- BOOKINGS ----------------

func (d *DB) CreateBooking(booking models.Booking) error {
	_, err := d.Bun.NewInsert().Model(&booking).Exec(context.Background())
	return err
}

func (d *DB) GetBookingByID(id string) (*models.Booking, error) {
	var booking models.Booking
	err := d.Bun.NewSelect().
		Model(&booking).
		Relation("Event").
		Where("booking.id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (d *DB) GetBookingByOrderID(orderID string) (*models.Booking, error) {
	var booking models.Booking
	err := d.Bun.NewSelect().
		Model(&booking).
		Relation("Event").
		Where("booking.razorpay_order_id = ?", orderID).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// MarkPaidByOrderID transitions pending -> paid with a single conditional
// update. The rows-affected count is the idempotency signal: a replayed
// webhook finds the booking already paid and changes nothing.
func (d *DB) MarkPaidByOrderID(orderID string) (bool, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Booking)(nil)).
		Set("status = ?", models.BookingPaid).
		Where("razorpay_order_id = ?", orderID).
		Where("status != ?", models.BookingPaid).
		Exec(context.Background())
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// MarkEmailSent stamps email_sent_at only if it is still unset, so a
// concurrent delivery cannot claim the send twice.
func (d *DB) MarkEmailSent(bookingID string, at time.Time) (bool, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Booking)(nil)).
		Set("email_sent_at = ?", at).
		Where("id = ?", bookingID).
		Where("email_sent_at IS NULL").
		Exec(context.Background())
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
