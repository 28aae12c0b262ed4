package domain

import "errors"

var (
	// ErrInvalidCredentials is returned when credentials are invalid
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned when a user lookup finds nothing
	ErrUserNotFound = errors.New("user not found")

	// ErrNoActiveOtp is returned when a user has no unconsumed OTP record
	ErrNoActiveOtp = errors.New("no active otp record")

	// ErrInvalidToken is returned when an access token fails validation
	ErrInvalidToken = errors.New("invalid token")

	// ErrInternal is returned when there is an internal server error
	ErrInternal = errors.New("internal server error")
)
