package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	BookingPending = "pending"
	BookingPaid    = "paid"
)

type Booking struct {
	bun.BaseModel `bun:"table:bookings,alias:booking"`

	ID              string     `bun:"id,pk" json:"id"`
	EventID         string     `bun:"event_id,notnull" json:"event_id"`
	CustomerName    string     `bun:"customer_name" json:"customer_name"`
	CustomerEmail   string     `bun:"customer_email" json:"customer_email"`
	CustomerPhone   string     `bun:"customer_phone" json:"customer_phone"`
	Amount          float64    `bun:"amount,notnull" json:"amount"`
	Status          string     `bun:"status,notnull" json:"status"`
	RazorpayOrderID string     `bun:"razorpay_order_id,nullzero,unique" json:"razorpay_order_id,omitempty"`
	InfluencerCode  string     `bun:"influencer_code,nullzero" json:"influencer_code,omitempty"`
	EmailSentAt     *time.Time `bun:"email_sent_at,nullzero" json:"email_sent_at,omitempty"`
	CreatedAt       time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	Event *Event `bun:"rel:belongs-to,join:event_id=id" json:"event,omitempty"`
}
