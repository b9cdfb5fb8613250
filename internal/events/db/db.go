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

// ListEvents returns all events soonest first.
func (d *DB) ListEvents() ([]models.Event, error) {
	var events []models.Event
	err := d.Bun.NewSelect().Model(&events).Order("date ASC").Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (d *DB) GetEventByID(id string) (*models.Event, error) {
	var e models.Event
	err := d.Bun.NewSelect().Model(&e).Where("id = ?", id).Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (d *DB) CreateEvent(e models.Event) error {
	_, err := d.Bun.NewInsert().Model(&e).Exec(context.Background())
	return err
}

func (d *DB) UpdateEvent(e models.Event) error {
	res, err := d.Bun.NewUpdate().
		Model(&e).
		Column("title", "date", "location", "price", "image_url", "book_link").
		Where("id = ?", e.ID).
		Exec(context.Background())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DB) DeleteEvent(id string) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Event)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
