package payment

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Order is a gateway-side resource representing an amount to be collected.
// Its ID is distinct from the booking ID.
type Order struct {
	ID       string
	Amount   int64 // minor units (paise)
	Currency string
}

// Gateway creates payment orders. Implementations wrap a concrete payment
// provider so services stay testable without live credentials.
type Gateway interface {
	CreateOrder(amount int64, currency, receipt string, notes map[string]interface{}) (*Order, error)
}

// RazorpayGateway implements Gateway against the Razorpay Orders API.
type RazorpayGateway struct {
	client *razorpay.Client
	keyID  string
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
		keyID:  keyID,
	}
}

// KeyID is the public key identifier, safe to expose to the payment UI.
func (g *RazorpayGateway) KeyID() string { return g.keyID }

func (g *RazorpayGateway) CreateOrder(amount int64, currency, receipt string, notes map[string]interface{}) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("razorpay order create: response missing order id")
	}

	order := &Order{ID: id, Amount: amount, Currency: currency}
	if amt, ok := body["amount"].(float64); ok {
		order.Amount = int64(amt)
	}
	if cur, ok := body["currency"].(string); ok && cur != "" {
		order.Currency = cur
	}
	return order, nil
}
