package domain

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
)

func TestOtpCodeLifecycle(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	code := NewOtpCode(ulid.Make(), "$2a$10$hash", 5*time.Minute, now)

	assert.Equal(t, 0, code.Attempts)
	assert.Nil(t, code.ConsumedAt)
	assert.False(t, code.IsConsumed())
	assert.Equal(t, now.Add(5*time.Minute), code.ExpiresAt)
}

func TestOtpCodeIsExpired(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	code := NewOtpCode(ulid.Make(), "hash", 5*time.Minute, now)

	assert.False(t, code.IsExpired(now))
	assert.False(t, code.IsExpired(now.Add(5*time.Minute-time.Second)))

	// boundary is inclusive: expired exactly at expires_at
	assert.True(t, code.IsExpired(now.Add(5*time.Minute)))
	assert.True(t, code.IsExpired(now.Add(10*time.Minute)))
}

func TestOtpCodeWithinCooldown(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	code := NewOtpCode(ulid.Make(), "hash", 5*time.Minute, now)

	assert.True(t, code.WithinCooldown(now.Add(30*time.Second), time.Minute))
	assert.False(t, code.WithinCooldown(now.Add(time.Minute), time.Minute))
	assert.False(t, code.WithinCooldown(now.Add(2*time.Minute), time.Minute))
}

func TestUserSmsRecipient(t *testing.T) {
	user := &User{MobileNumber: "09171234567"}
	assert.Equal(t, "639171234567", user.SmsRecipient())

	user.MobileNumber = ""
	assert.Equal(t, "", user.SmsRecipient())
}

func TestOtpResultVerified(t *testing.T) {
	assert.True(t, (&OtpResult{Status: StatusVerified}).Verified())
	assert.False(t, (&OtpResult{Status: StatusInvalid}).Verified())
	assert.False(t, (&OtpResult{Status: StatusLocked}).Verified())
}
