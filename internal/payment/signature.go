package payment

import (
	"github.com/razorpay/razorpay-go/utils"
)

// VerifySignature checks the webhook signature against the verbatim request
// bytes. The HMAC must be computed over the exact payload as received;
// re-serializing parsed JSON changes byte layout and breaks verification.
func VerifySignature(rawBody []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	return utils.VerifyWebhookSignature(string(rawBody), signature, secret)
}
