package payment_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"ndelight-api/internal/payment"

	"github.com/stretchr/testify/assert"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"event":"order.paid","payload":{"order":{"entity":{"id":"order_abc"}}}}`)

	assert.True(t, payment.VerifySignature(body, sign(body, secret), secret))
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	body := []byte(`{"event":"order.paid"}`)

	assert.False(t, payment.VerifySignature(body, sign(body, "other_secret"), "whsec_test"))
}

func TestVerifySignatureRejectsTamperedBody(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"event":"order.paid","amount":40000}`)
	sig := sign(body, secret)

	// Flipping a single byte after signing must invalidate the payload.
	tampered := append([]byte(nil), body...)
	tampered[len(tampered)-2] = '1'

	assert.False(t, payment.VerifySignature(tampered, sig, secret))
}

func TestVerifySignatureVerifiesRawBytes(t *testing.T) {
	secret := "whsec_test"
	// Same JSON value, different byte layout. Only the exact received
	// bytes may verify.
	compact := []byte(`{"event":"order.paid"}`)
	spaced := []byte(`{ "event": "order.paid" }`)
	sig := sign(compact, secret)

	assert.True(t, payment.VerifySignature(compact, sig, secret))
	assert.False(t, payment.VerifySignature(spaced, sig, secret))
}

func TestVerifySignatureRejectsEmptyInputs(t *testing.T) {
	body := []byte(`{}`)

	assert.False(t, payment.VerifySignature(body, "", "whsec_test"))
	assert.False(t, payment.VerifySignature(body, sign(body, "whsec_test"), ""))
}
