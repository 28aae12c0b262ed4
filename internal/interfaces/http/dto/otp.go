package dto

import (
	"time"

	"github.com/brgyhub/otp-service/internal/domain"
)

// OtpRequestBody is the login-flow OTP request payload.
type OtpRequestBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OtpVerifyBody is the login-flow OTP verification payload.
type OtpVerifyBody struct {
	UserID  string `json:"user_id"`
	OtpCode string `json:"otp_code"`
}

// OtpVerifyAuthenticatedBody is the verification payload for an
// already-authenticated caller.
type OtpVerifyAuthenticatedBody struct {
	OtpCode string `json:"otp_code"`
}

// OtpStatusResponse carries a policy outcome back to the client.
type OtpStatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
	ShowOtp string `json:"show_otp,omitempty"`
}

// VerifiedResponse is returned when verification succeeds on the login flow.
type VerifiedResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	User    *UserResponse `json:"user"`
	Token   string        `json:"token,omitempty"`
}

type UserResponse struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	FirstName        string     `json:"first_name"`
	MobileNumber     string     `json:"mobile_number"`
	MobileVerifiedAt *time.Time `json:"mobile_verified_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func NewUserResponse(user *domain.User) *UserResponse {
	return &UserResponse{
		ID:               user.ID.String(),
		Email:            user.Email,
		Role:             string(user.Role),
		FirstName:        user.FirstName,
		MobileNumber:     user.MobileNumber,
		MobileVerifiedAt: user.MobileVerifiedAt,
		CreatedAt:        user.CreatedAt,
	}
}
