package models

type CustomerInfo struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

type CreateOrderRequest struct {
	EventID        string       `json:"event_id" validate:"required"`
	InfluencerCode string       `json:"influencer_code"`
	CustomerInfo   CustomerInfo `json:"customer_info" validate:"required"`
}

type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// CreateOrderResponse is what the payment UI needs to open the gateway
// checkout. Amount is in minor units (paise). Free bookings skip the
// gateway entirely and carry an empty OrderID.
type CreateOrderResponse struct {
	OrderID   string  `json:"order_id,omitempty"`
	Amount    int64   `json:"amount"`
	Currency  string  `json:"currency"`
	KeyID     string  `json:"key_id,omitempty"`
	BookingID string  `json:"booking_id"`
	Free      bool    `json:"free,omitempty"`
	Prefill   Prefill `json:"prefill"`
}

// InfluencerStats summarises bookings attributed to one promo code.
type InfluencerStats struct {
	Code          string  `json:"code"`
	TotalBookings int     `json:"total_bookings"`
	PaidBookings  int     `json:"paid_bookings"`
	GrossAmount   float64 `json:"gross_amount"`
}
