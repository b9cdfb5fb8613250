package payment

// SignatureHeader is the header Razorpay signs webhook deliveries with.
const SignatureHeader = "X-Razorpay-Signature"

// EventOrderPaid is delivered when every payment against an order has
// succeeded. Delivery is at-least-once; handlers must tolerate replays.
const EventOrderPaid = "order.paid"

// WebhookEvent is the envelope of a Razorpay webhook payload, decoded only
// after the signature over the raw bytes has been verified.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Order struct {
			Entity struct {
				ID       string `json:"id"`
				Amount   int64  `json:"amount"`
				Currency string `json:"currency"`
				Receipt  string `json:"receipt"`
				Status   string `json:"status"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}
