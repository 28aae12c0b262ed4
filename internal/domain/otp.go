package domain

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// OtpStatus is a policy outcome of an OTP request or verification. Outcomes
// are ordinary return values, not errors; callers branch on them.
type OtpStatus string

const (
	StatusDisabled        OtpStatus = "disabled"
	StatusAlreadyVerified OtpStatus = "already_verified"
	StatusUnreachable     OtpStatus = "unreachable"
	StatusThrottled       OtpStatus = "throttled"
	StatusOtpRequired     OtpStatus = "otp_required"
	StatusMissing         OtpStatus = "missing"
	StatusLocked          OtpStatus = "locked"
	StatusExpired         OtpStatus = "expired"
	StatusInvalid         OtpStatus = "invalid"
	StatusVerified        OtpStatus = "verified"
)

// OtpResult carries the outcome of a single OTP operation.
type OtpResult struct {
	Status  OtpStatus
	Message string
	Otp     *OtpCode
	// ShowCode echoes the plaintext code when the show-code debug flag is
	// enabled. Empty in production.
	ShowCode string
}

// Verified reports whether the caller may treat the user's mobile number as
// confirmed.
func (r *OtpResult) Verified() bool {
	return r.Status == StatusVerified
}

// OtpCode represents an issued one-time password. Only the bcrypt hash of the
// code is ever persisted. Records are superseded, never deleted.
type OtpCode struct {
	ID         ulid.ULID  `json:"id"`
	UserID     ulid.ULID  `json:"user_id"`
	CodeHash   string     `json:"-"`
	ExpiresAt  time.Time  `json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
	Attempts   int        `json:"attempts"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewOtpCode creates a new OTP record for a user. Attempts start at zero.
func NewOtpCode(userID ulid.ULID, codeHash string, ttl time.Duration, now time.Time) *OtpCode {
	return &OtpCode{
		ID:        ulid.Make(),
		UserID:    userID,
		CodeHash:  codeHash,
		ExpiresAt: now.Add(ttl),
		Attempts:  0,
		CreatedAt: now,
	}
}

// IsExpired reports whether the code is unusable at the given instant. The
// boundary is inclusive: a code is expired exactly at ExpiresAt.
func (c *OtpCode) IsExpired(at time.Time) bool {
	return !at.Before(c.ExpiresAt)
}

// IsConsumed reports whether the code has been used, superseded or
// invalidated.
func (c *OtpCode) IsConsumed() bool {
	return c.ConsumedAt != nil
}

// WithinCooldown reports whether the record was created less than cooldown
// ago.
func (c *OtpCode) WithinCooldown(at time.Time, cooldown time.Duration) bool {
	return at.Sub(c.CreatedAt) < cooldown
}

// OtpPolicy holds the issuance and verification rules. Loaded once from
// configuration and immutable afterwards.
type OtpPolicy struct {
	Enabled         bool
	CodeLength      int
	TTL             time.Duration
	RequestCooldown time.Duration
	MaxAttempts     int
	// ShowCode echoes generated codes in API responses. Development only.
	ShowCode bool
}
