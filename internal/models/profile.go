package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	RoleUser              = "user"
	RolePendingInfluencer = "pending_influencer"
	RoleInfluencer        = "influencer"
	RoleAdmin             = "admin"
)

// Profile mirrors the auth identity; ID equals the auth user id.
// OTP and reset-token fields are cleared on success or overwritten by a
// newer request. Only a hash of the reset token is ever stored.
type Profile struct {
	bun.BaseModel `bun:"table:profiles"`

	ID            string `bun:"id,pk" json:"id"`
	Email         string `bun:"email,unique,notnull" json:"email"`
	FullName      string `bun:"full_name" json:"full_name"`
	Role          string `bun:"role,notnull,default:'user'" json:"role"`
	EmailVerified bool   `bun:"email_verified" json:"email_verified"`

	EmailOTP           string     `bun:"email_otp,nullzero" json:"-"`
	EmailOTPExpiresAt  *time.Time `bun:"email_otp_expires_at,nullzero" json:"-"`
	EmailOTPAttempts   int        `bun:"email_otp_attempts" json:"-"`
	EmailOTPLastSentAt *time.Time `bun:"email_otp_last_sent_at,nullzero" json:"-"`
	EmailOTPSentCount  int        `bun:"email_otp_sent_count" json:"-"`

	ResetTokenHash      string     `bun:"reset_token_hash,nullzero" json:"-"`
	ResetTokenExpiresAt *time.Time `bun:"reset_token_expires_at,nullzero" json:"-"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
