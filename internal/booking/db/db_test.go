package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ndelight-api/internal/booking/db"
	"ndelight-api/internal/models"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *db.DB {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { sqldb.Close() })

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	ctx := context.Background()
	for _, m := range []interface{}{
		(*models.Event)(nil),
		(*models.Influencer)(nil),
		(*models.Booking)(nil),
	} {
		if err := bunDB.ResetModel(ctx, m); err != nil {
			t.Fatalf("Failed to reset model %T: %v", m, err)
		}
	}
	return db.NewDB(bunDB)
}

func seedBooking(t *testing.T, d *db.DB, b models.Booking) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	if err := d.CreateBooking(b); err != nil {
		t.Fatalf("Failed to seed booking: %v", err)
	}
}

func TestGetEventByIDNotFound(t *testing.T) {
	d := setupTestDB(t)

	_, err := d.GetEventByID("missing")
	if err != db.ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGetInfluencerByCode(t *testing.T) {
	d := setupTestDB(t)

	inf := models.Influencer{ID: "prof1", Code: "ASHA20", DiscountPercent: 20, Active: true}
	if _, err := d.Bun.NewInsert().Model(&inf).Exec(context.Background()); err != nil {
		t.Fatalf("Failed to insert influencer: %v", err)
	}

	got, err := d.GetInfluencerByCode("ASHA20")
	if err != nil {
		t.Fatalf("Failed to look up code: %v", err)
	}
	if got.DiscountPercent != 20 || !got.Active {
		t.Errorf("Unexpected influencer row: %+v", got)
	}

	if _, err := d.GetInfluencerByCode("NOPE"); err != db.ErrNotFound {
		t.Errorf("Expected ErrNotFound for unknown code, got %v", err)
	}
}

func TestMarkPaidByOrderIDIsIdempotent(t *testing.T) {
	d := setupTestDB(t)

	seedBooking(t, d, models.Booking{
		ID:              "bk1",
		EventID:         "evt1",
		Status:          models.BookingPending,
		RazorpayOrderID: "order_abc",
	})

	changed, err := d.MarkPaidByOrderID("order_abc")
	if err != nil {
		t.Fatalf("First MarkPaid failed: %v", err)
	}
	if !changed {
		t.Error("Expected first transition to report a change")
	}

	changed, err = d.MarkPaidByOrderID("order_abc")
	if err != nil {
		t.Fatalf("Second MarkPaid failed: %v", err)
	}
	if changed {
		t.Error("Replay should not report a change")
	}

	got, err := d.GetBookingByOrderID("order_abc")
	if err != nil {
		t.Fatalf("Failed to fetch booking: %v", err)
	}
	if got.Status != models.BookingPaid {
		t.Errorf("Expected status paid, got %s", got.Status)
	}
}

func TestMarkPaidUnknownOrder(t *testing.T) {
	d := setupTestDB(t)

	changed, err := d.MarkPaidByOrderID("order_missing")
	if err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}
	if changed {
		t.Error("Unknown order must not report a change")
	}
}

func TestMarkEmailSentOnlyOnce(t *testing.T) {
	d := setupTestDB(t)

	seedBooking(t, d, models.Booking{
		ID:              "bk1",
		EventID:         "evt1",
		Status:          models.BookingPaid,
		RazorpayOrderID: "order_abc",
	})

	stamped, err := d.MarkEmailSent("bk1", time.Now())
	if err != nil {
		t.Fatalf("First MarkEmailSent failed: %v", err)
	}
	if !stamped {
		t.Error("Expected first stamp to succeed")
	}

	stamped, err = d.MarkEmailSent("bk1", time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("Second MarkEmailSent failed: %v", err)
	}
	if stamped {
		t.Error("Second stamp must be refused")
	}
}

func TestGetBookingByIDLoadsEvent(t *testing.T) {
	d := setupTestDB(t)

	event := models.Event{ID: "evt1", Title: "Rooftop Social", Date: time.Now(), Price: 500, CreatedAt: time.Now()}
	if _, err := d.Bun.NewInsert().Model(&event).Exec(context.Background()); err != nil {
		t.Fatalf("Failed to insert event: %v", err)
	}
	seedBooking(t, d, models.Booking{
		ID:              "bk1",
		EventID:         "evt1",
		Status:          models.BookingPending,
		RazorpayOrderID: "order_abc",
	})

	got, err := d.GetBookingByID("bk1")
	if err != nil {
		t.Fatalf("Failed to fetch booking: %v", err)
	}
	if got.Event == nil || got.Event.Title != "Rooftop Social" {
		t.Errorf("Expected event relation to load, got %+v", got.Event)
	}
}
