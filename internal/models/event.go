package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID        string    `bun:"id,pk" json:"id"`
	Title     string    `bun:"title,notnull" json:"title"`
	Date      time.Time `bun:"date,notnull" json:"date"`
	Location  string    `bun:"location" json:"location"`
	Price     float64   `bun:"price,notnull" json:"price"`
	ImageURL  string    `bun:"image_url,nullzero" json:"image_url,omitempty"`
	BookLink  string    `bun:"book_link,nullzero" json:"book_link,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
