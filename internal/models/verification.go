package models

import (
	"time"

	"github.com/uptrace/bun"
)

// EmailVerification holds a pre-signup OTP keyed by raw email. The row is
// deleted once the code is verified so signup can proceed.
type EmailVerification struct {
	bun.BaseModel `bun:"table:email_verifications"`

	Email     string    `bun:"email,pk" json:"email"`
	OTP       string    `bun:"otp,notnull" json:"-"`
	ExpiresAt time.Time `bun:"expires_at,notnull" json:"expires_at"`
}
