package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Influencer rows share their primary key with the owning profile.
type Influencer struct {
	bun.BaseModel `bun:"table:influencers"`

	ID              string    `bun:"id,pk" json:"id"`
	Code            string    `bun:"code,unique,notnull" json:"code"`
	DiscountPercent float64   `bun:"discount_percent,notnull" json:"discount_percent"`
	Active          bool      `bun:"active" json:"active"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	Profile *Profile `bun:"rel:belongs-to,join:id=id" json:"profile,omitempty"`
}
