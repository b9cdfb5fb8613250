package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ndelight-api/internal/events/db"
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
	if err := bunDB.ResetModel(context.Background(), (*models.Event)(nil)); err != nil {
		t.Fatalf("Failed to reset events model: %v", err)
	}
	return db.NewDB(bunDB)
}

func TestListEventsOrderedByDate(t *testing.T) {
	d := setupTestDB(t)
	base := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)

	later := models.Event{ID: "evt-later", Title: "October Social", Date: base.AddDate(0, 1, 0), CreatedAt: time.Now()}
	sooner := models.Event{ID: "evt-sooner", Title: "September Social", Date: base, CreatedAt: time.Now()}
	if err := d.CreateEvent(later); err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}
	if err := d.CreateEvent(sooner); err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}

	events, err := d.ListEvents()
	if err != nil {
		t.Fatalf("Failed to list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[0].ID != "evt-sooner" || events[1].ID != "evt-later" {
		t.Errorf("Expected soonest event first, got %s then %s", events[0].ID, events[1].ID)
	}
}

func TestUpdateEvent(t *testing.T) {
	d := setupTestDB(t)

	e := models.Event{ID: "evt1", Title: "Original", Date: time.Now(), Price: 500, CreatedAt: time.Now()}
	if err := d.CreateEvent(e); err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}

	e.Title = "Renamed"
	e.Price = 600
	if err := d.UpdateEvent(e); err != nil {
		t.Fatalf("Failed to update event: %v", err)
	}

	got, err := d.GetEventByID("evt1")
	if err != nil {
		t.Fatalf("Failed to fetch event: %v", err)
	}
	if got.Title != "Renamed" || got.Price != 600 {
		t.Errorf("Update not applied: %+v", got)
	}
}

func TestUpdateMissingEvent(t *testing.T) {
	d := setupTestDB(t)

	err := d.UpdateEvent(models.Event{ID: "ghost", Title: "Nope", Date: time.Now()})
	if err != db.ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteEvent(t *testing.T) {
	d := setupTestDB(t)

	e := models.Event{ID: "evt1", Title: "Doomed", Date: time.Now(), CreatedAt: time.Now()}
	if err := d.CreateEvent(e); err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}

	if err := d.DeleteEvent("evt1"); err != nil {
		t.Fatalf("Failed to delete event: %v", err)
	}
	if _, err := d.GetEventByID("evt1"); err != db.ErrNotFound {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	if err := d.DeleteEvent("evt1"); err != db.ErrNotFound {
		t.Errorf("Expected ErrNotFound on double delete, got %v", err)
	}
}
