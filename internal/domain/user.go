package domain

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// UserRole represents the role of a barangay account.
type UserRole string

const (
	RoleResident UserRole = "resident"
	RoleStaff    UserRole = "staff"
	RoleAdmin    UserRole = "admin"
)

// User is the slice of the account record the OTP flow needs: credentials,
// role and the SMS contact channel. Full profile management lives elsewhere.
type User struct {
	ID               ulid.ULID  `json:"id"`
	Email            string     `json:"email"`
	Password         string     `json:"-"` // bcrypt hash, never serialized
	Role             UserRole   `json:"role"`
	FirstName        string     `json:"first_name"`
	MobileNumber     string     `json:"mobile_number"`
	MobileVerifiedAt *time.Time `json:"mobile_verified_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// SmsRecipient returns the user's mobile number normalized for SMS delivery,
// or empty when the user has no usable number.
func (u *User) SmsRecipient() string {
	return NormalizeMobile(u.MobileNumber)
}

// MobileVerified reports whether the user's mobile number has been confirmed.
func (u *User) MobileVerified() bool {
	return u.MobileVerifiedAt != nil
}

// UserRepository defines the user lookups the OTP flow depends on.
type UserRepository interface {
	// FindByEmail finds a user by email. Returns ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID finds a user by ID. Returns ErrUserNotFound when absent.
	FindByID(ctx context.Context, id ulid.ULID) (*User, error)

	// MarkMobileVerified records the instant the user's mobile number was
	// confirmed. No-op if already set.
	MarkMobileVerified(ctx context.Context, id ulid.ULID, at time.Time) error
}
