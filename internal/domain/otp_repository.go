package domain

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// OtpCodeRepository defines persistence for OTP records.
//
// Invariant: at most one record per user has a null consumed_at. Issuance
// consumes all prior unconsumed records before creating a new one, inside
// WithUserLock.
type OtpCodeRepository interface {
	// Create stores a new OTP record
	Create(ctx context.Context, code *OtpCode) error

	// FindLatestActiveByUserID finds the newest unconsumed record for a user.
	// Returns ErrNoActiveOtp when none exists.
	FindLatestActiveByUserID(ctx context.Context, userID ulid.ULID) (*OtpCode, error)

	// ConsumeAllByUserID sets consumed_at on every unconsumed record for a user
	ConsumeAllByUserID(ctx context.Context, userID ulid.ULID, at time.Time) error

	// IncrementAttempts bumps the attempt counter of a record by one
	IncrementAttempts(ctx context.Context, id ulid.ULID) error

	// MarkConsumed sets consumed_at on a record. Never cleared once set.
	MarkConsumed(ctx context.Context, id ulid.ULID, at time.Time) error

	// WithUserLock runs fn while holding an exclusive per-user lock, so that
	// concurrent issuance or verification for the same user is serialized.
	// Repository calls made with the ctx passed to fn join the same
	// transaction.
	WithUserLock(ctx context.Context, userID ulid.ULID, fn func(ctx context.Context) error) error
}
